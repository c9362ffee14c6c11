// Package analyzer provides the local, pure-computation half of a password
// check: charset entropy, composition breakdown, structural mask, common
// pattern detection, policy evaluation, and brute-force time estimation.
// Nothing here performs I/O; the statistical guess-count scoring is an
// external collaborator and intentionally absent.
package analyzer

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"unicode"
)

// symbolCharset approximates the count of printable symbols an attacker
// would include once any non-alphanumeric character appears.
const symbolCharset = 32

// guessesPerSecond models an offline attack on a fast GPU rig.
const guessesPerSecond = 1e9

// keyboardPatterns are short sequences users type from muscle memory.
var keyboardPatterns = []string{
	"12345", "qwerty", "asdf", "zxcv", "password", "letmein",
	"admin", "welcome", "passw0rd", "qazwsx", "iloveyou",
}

// leetMap folds common character substitutions back to letters before the
// dictionary check, so "p4$$w0rd" still matches "password".
var leetMap = strings.NewReplacer(
	"4", "a", "@", "a", "3", "e", "1", "i", "!", "i",
	"0", "o", "$", "s", "5", "s", "7", "t",
)

// Composition is the per-class character breakdown of a password.
type Composition struct {
	Uppercase int     `json:"uppercase"`
	Lowercase int     `json:"lowercase"`
	Digits    int     `json:"digits"`
	Symbols   int     `json:"symbols"`
	UpperPct  float64 `json:"uppercase_pct"`
	LowerPct  float64 `json:"lowercase_pct"`
	DigitsPct float64 `json:"digits_pct"`
	SymbolPct float64 `json:"symbols_pct"`
}

// PolicyResult reports one policy rule and whether the password satisfies it.
type PolicyResult struct {
	Rule string `json:"rule"`
	OK   bool   `json:"ok"`
}

// AttackScenario estimates crack time for one attack model.
type AttackScenario struct {
	Name        string  `json:"name"`
	Speed       string  `json:"speed"`
	Description string  `json:"description"`
	Seconds     float64 `json:"raw_seconds"`
	Time        string  `json:"time"`
}

// Benchmark places an entropy value on a 0-128 bit strength scale.
type Benchmark struct {
	Label    string  `json:"label"`
	Class    string  `json:"class"`    // danger | warning | success
	Position float64 `json:"position"` // percent along the scale
}

// Report aggregates every local check for a single password.
type Report struct {
	EntropyBits      float64          `json:"entropy_bits"`
	Benchmark        Benchmark        `json:"entropy_benchmark"`
	Composition      Composition      `json:"composition"`
	Mask             string           `json:"mask"`
	KeyboardPatterns []string         `json:"keyboard_patterns,omitempty"`
	LeetMatches      []string         `json:"leet_matches,omitempty"`
	Weaknesses       []string         `json:"weaknesses,omitempty"`
	Policy           []PolicyResult   `json:"policy"`
	AttackScenarios  []AttackScenario `json:"attack_scenarios"`
	BruteForceSecs   float64          `json:"brute_force_seconds"`
	BruteForceLabel  string           `json:"brute_force_label"`
}

// Analyze runs every local check against password. dictionary is an optional
// extra word list (lowercase) matched after leet folding; nil is fine.
func Analyze(password string, dictionary []string) Report {
	entropy := EntropyBits(password)
	secs := bruteForceSeconds(password)
	return Report{
		EntropyBits:      entropy,
		Benchmark:        EntropyBenchmark(entropy),
		Composition:      Compose(password),
		Mask:             Mask(password),
		KeyboardPatterns: KeyboardHits(password),
		LeetMatches:      LeetHits(password, dictionary),
		Weaknesses:       Weaknesses(password),
		Policy:           Policy(password),
		AttackScenarios:  AttackScenarios(password),
		BruteForceSecs:   secs,
		BruteForceLabel:  bruteForceLabel(secs),
	}
}

// charsetSize estimates the search-space alphabet implied by the character
// classes present in password.
func charsetSize(password string) int {
	var lower, upper, digit, symbol bool
	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		default:
			symbol = true
		}
	}
	size := 0
	if lower {
		size += 26
	}
	if upper {
		size += 26
	}
	if digit {
		size += 10
	}
	if symbol {
		size += symbolCharset
	}
	return size
}

// EntropyBits returns length × log2(charset), rounded to two decimals.
// An empty password has zero entropy.
func EntropyBits(password string) float64 {
	size := charsetSize(password)
	if size == 0 {
		return 0
	}
	bits := float64(len([]rune(password))) * math.Log2(float64(size))
	return math.Round(bits*100) / 100
}

// Compose returns counts and percentages per character class.
func Compose(password string) Composition {
	var c Composition
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			c.Uppercase++
		case unicode.IsLower(r):
			c.Lowercase++
		case unicode.IsDigit(r):
			c.Digits++
		default:
			c.Symbols++
		}
	}
	n := len([]rune(password))
	if n == 0 {
		n = 1
	}
	c.UpperPct = float64(c.Uppercase) / float64(n) * 100
	c.LowerPct = float64(c.Lowercase) / float64(n) * 100
	c.DigitsPct = float64(c.Digits) / float64(n) * 100
	c.SymbolPct = float64(c.Symbols) / float64(n) * 100
	return c
}

// Mask returns the structural shape of the password: U = uppercase,
// l = lowercase, d = digit, s = symbol. "P@ssw0rd" → "Usllldll".
func Mask(password string) string {
	var b strings.Builder
	b.Grow(len(password))
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			b.WriteByte('U')
		case unicode.IsLower(r):
			b.WriteByte('l')
		case unicode.IsDigit(r):
			b.WriteByte('d')
		default:
			b.WriteByte('s')
		}
	}
	return b.String()
}

// KeyboardHits returns the keyboard-walk patterns contained in password.
func KeyboardHits(password string) []string {
	lower := strings.ToLower(password)
	var hits []string
	for _, p := range keyboardPatterns {
		if strings.Contains(lower, p) {
			hits = append(hits, p)
		}
	}
	return hits
}

// LeetFold lowercases password and folds leet substitutions back to plain
// letters.
func LeetFold(password string) string {
	return leetMap.Replace(strings.ToLower(password))
}

// LeetHits returns the dictionary words found inside the leet-folded
// password. Words must be lowercase.
func LeetHits(password string, dictionary []string) []string {
	if len(dictionary) == 0 {
		return nil
	}
	folded := LeetFold(password)
	var hits []string
	for _, w := range dictionary {
		if w != "" && strings.Contains(folded, w) {
			hits = append(hits, w)
		}
	}
	return hits
}

// Policy evaluates the baseline composition policy: minimum length plus one
// character of each class.
func Policy(password string) []PolicyResult {
	c := Compose(password)
	return []PolicyResult{
		{Rule: "At least 8 characters", OK: len([]rune(password)) >= 8},
		{Rule: "At least 1 uppercase letter", OK: c.Uppercase > 0},
		{Rule: "At least 1 lowercase letter", OK: c.Lowercase > 0},
		{Rule: "At least 1 digit", OK: c.Digits > 0},
		{Rule: "At least 1 symbol", OK: c.Symbols > 0},
	}
}

// blacklist holds passwords so common they fail regardless of composition.
var blacklist = map[string]bool{
	"password": true, "letmein": true, "123456": true, "admin": true,
	"welcome": true, "qwerty": true, "passw0rd": true, "iloveyou": true,
	"monkey": true, "dragon": true, "sunshine": true, "princess": true,
	"football": true, "baseball": true, "abc123": true, "trustno1": true,
}

var yearRE = regexp.MustCompile(`(19|20)\d{2}`)

// Weaknesses runs the structural weak-pattern checks: repeated or sequential
// characters, embedded years, palindromes, whitespace, and the blacklist.
// It returns one human-readable finding per detected weakness.
func Weaknesses(password string) []string {
	if password == "" {
		return nil
	}
	var found []string
	lower := strings.ToLower(password)

	if len(uniqueRunes(password)) == 1 {
		found = append(found, "single repeated character")
	}
	if hasSequentialRun(lower) {
		found = append(found, "sequential letters or numbers")
	}
	if yearRE.MatchString(password) {
		found = append(found, "contains a year")
	}
	if isPalindrome(password) {
		found = append(found, "palindrome")
	}
	if strings.ContainsRune(password, ' ') {
		found = append(found, "contains whitespace")
	}
	if blacklist[lower] {
		found = append(found, "blacklisted password")
	}
	return found
}

func uniqueRunes(s string) map[rune]bool {
	set := make(map[rune]bool)
	for _, r := range s {
		set[r] = true
	}
	return set
}

// hasSequentialRun reports whether lower contains any ascending run of three
// letters or digits ("abc", "789").
func hasSequentialRun(lower string) bool {
	const letters = "abcdefghijklmnopqrstuvwxyz"
	const digits = "0123456789"
	for _, seq := range []string{letters, digits} {
		for i := 0; i+3 <= len(seq); i++ {
			if strings.Contains(lower, seq[i:i+3]) {
				return true
			}
		}
	}
	return false
}

// isPalindrome reports whether password reads the same reversed. Passwords of
// 3 runes or fewer are too short to count.
func isPalindrome(password string) bool {
	rs := []rune(password)
	if len(rs) <= 3 {
		return false
	}
	for i, j := 0, len(rs)-1; i < j; i, j = i+1, j-1 {
		if rs[i] != rs[j] {
			return false
		}
	}
	return true
}

// AttackScenarios estimates crack time under four attack models. The speeds
// are coarse order-of-magnitude figures: a GPU rig for offline brute force,
// slower rates for rule-based and online attacks.
func AttackScenarios(password string) []AttackScenario {
	size := charsetSize(password)
	if size == 0 {
		size = 26
	}
	combos := math.Pow(float64(size), float64(len([]rune(password))))

	scenario := func(name, speed, desc string, secs float64) AttackScenario {
		return AttackScenario{
			Name:        name,
			Speed:       speed,
			Description: desc,
			Seconds:     secs,
			Time:        formatTime(secs),
		}
	}
	return []AttackScenario{
		scenario("Dictionary Attack", "10M passwords/sec",
			"Tries known leaked passwords and common words. Most effective against reused or common passwords.",
			1e10/1e7),
		scenario("Hybrid Attack", "1M passwords/sec",
			"Dictionary words combined with rules: capitalizing, appending digits, leet substitutions.",
			1e10*1000/1e6),
		scenario("Mask / Brute-Force", "1B passwords/sec",
			"Tries every combination for the detected character set. Time depends on length and complexity.",
			combos/guessesPerSecond),
		scenario("Credential Stuffing", "1K attempts/sec",
			"Replays username/password pairs from prior breaches against other sites. Rate-limited by target services.",
			1e10/1e3),
	}
}

// entropyScale maps entropy thresholds (bits) to labels, ascending.
var entropyScale = []struct {
	threshold float64
	label     string
	class     string
}{
	{28, "Common Word", "danger"},
	{36, "Weak Password", "danger"},
	{50, "Basic Password", "warning"},
	{60, "Moderate", "warning"},
	{80, "Good", "success"},
	{100, "Strong", "success"},
	{128, "Excellent", "success"},
}

// EntropyBenchmark places bits on the 0-128 bit scale and returns its label
// and relative position.
func EntropyBenchmark(bits float64) Benchmark {
	b := Benchmark{Label: "Extremely Strong", Class: "success"}
	for _, s := range entropyScale {
		if bits < s.threshold {
			b.Label = s.label
			b.Class = s.class
			break
		}
	}
	b.Position = math.Round(math.Min(bits/128*100, 100)*10) / 10
	return b
}

// formatTime renders a crack-time estimate as a rough human-readable span.
func formatTime(secs float64) string {
	const year = 31536000
	switch {
	case secs < 0.001:
		return "instant"
	case secs < 1:
		return fmt.Sprintf("%.3f seconds", secs)
	case secs < 60:
		return fmt.Sprintf("%.1f seconds", secs)
	case secs < 3600:
		return fmt.Sprintf("%.1f minutes", secs/60)
	case secs < 86400:
		return fmt.Sprintf("%.1f hours", secs/3600)
	case secs < year:
		return fmt.Sprintf("%.1f days", secs/86400)
	case secs > 1e12*year:
		return "centuries+"
	case secs > 1e6*year:
		return fmt.Sprintf("%.2e years", secs/year)
	default:
		return fmt.Sprintf("%.1f years", secs/year)
	}
}

// bruteForceSeconds estimates exhaustive-search time over the implied
// charset at guessesPerSecond.
func bruteForceSeconds(password string) float64 {
	size := charsetSize(password)
	if size == 0 {
		return 0
	}
	guesses := math.Pow(float64(size), float64(len([]rune(password))))
	return guesses / guessesPerSecond
}

// bruteForceLabel renders an estimate as a human-readable duration with a
// coarse strength hint for the shortest cases.
func bruteForceLabel(secs float64) string {
	const year = 31536000
	switch {
	case secs < 0.01:
		return "< 0.01 seconds (very weak)"
	case secs < 60:
		return fmt.Sprintf("%.2f seconds (very weak)", secs)
	case secs < 3600:
		return fmt.Sprintf("%.2f minutes (weak)", secs/60)
	case secs < 86400:
		return fmt.Sprintf("%.2f hours", secs/3600)
	case secs < year:
		return fmt.Sprintf("%.2f days", secs/86400)
	default:
		return fmt.Sprintf("%.2f years", secs/year)
	}
}
