package analyzer

import (
	"math"
	"strings"
	"testing"
)

func TestEntropyBits(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"", 0},
		{"aaaa", 4 * math.Log2(26)},
		{"aA1!", 4 * math.Log2(26+26+10+32)},
		{"1234", 4 * math.Log2(10)},
	}
	for _, c := range cases {
		want := math.Round(c.want*100) / 100
		if got := EntropyBits(c.in); got != want {
			t.Errorf("EntropyBits(%q) = %v; want %v", c.in, got, want)
		}
	}
}

func TestMask(t *testing.T) {
	cases := map[string]string{
		"":          "",
		"P@ssw0rd":  "Usllldll",
		"abc123":    "lllddd",
		"A B":      "UsU", // space counts as a symbol
	}
	for in, want := range cases {
		if got := Mask(in); got != want {
			t.Errorf("Mask(%q) = %q; want %q", in, got, want)
		}
	}
}

func TestCompose(t *testing.T) {
	c := Compose("Ab1!")
	if c.Uppercase != 1 || c.Lowercase != 1 || c.Digits != 1 || c.Symbols != 1 {
		t.Fatalf("Compose(Ab1!) = %+v", c)
	}
	if c.UpperPct != 25 || c.SymbolPct != 25 {
		t.Fatalf("percentages = %+v; want 25 each", c)
	}

	// Empty input must not divide by zero.
	z := Compose("")
	if z.UpperPct != 0 {
		t.Fatalf("Compose(\"\") pct = %+v", z)
	}
}

func TestKeyboardHits(t *testing.T) {
	hits := KeyboardHits("myQWERTY12345pass")
	want := map[string]bool{"12345": true, "qwerty": true}
	if len(hits) != len(want) {
		t.Fatalf("hits = %v", hits)
	}
	for _, h := range hits {
		if !want[h] {
			t.Errorf("unexpected hit %q", h)
		}
	}
	if KeyboardHits("xkcd-tr0ub4dor") != nil {
		t.Errorf("false positive keyboard hit")
	}
}

func TestLeetHits(t *testing.T) {
	dict := []string{"password", "dragon"}
	hits := LeetHits("P4$$w0rd!", dict)
	if len(hits) != 1 || hits[0] != "password" {
		t.Fatalf("hits = %v; want [password]", hits)
	}
	if LeetHits("P4$$w0rd!", nil) != nil {
		t.Fatalf("nil dictionary must yield no hits")
	}
}

func TestPolicy(t *testing.T) {
	results := Policy("Abcdef1!")
	for _, r := range results {
		if !r.OK {
			t.Errorf("rule %q failed for a compliant password", r.Rule)
		}
	}

	results = Policy("abc")
	okCount := 0
	for _, r := range results {
		if r.OK {
			okCount++
		}
	}
	if okCount != 1 { // only the lowercase rule passes
		t.Fatalf("okCount = %d for %q; want 1", okCount, "abc")
	}
}

func TestAnalyze_LabelsShortPasswordsWeak(t *testing.T) {
	r := Analyze("ab", nil)
	if !strings.Contains(r.BruteForceLabel, "very weak") {
		t.Fatalf("label = %q; want very weak", r.BruteForceLabel)
	}
	r = Analyze("correct horse battery staple", nil)
	if !strings.Contains(r.BruteForceLabel, "years") {
		t.Fatalf("label = %q; want years", r.BruteForceLabel)
	}
}

func TestWeaknesses(t *testing.T) {
	cases := []struct {
		pw   string
		want string
	}{
		{"aaaaaa", "single repeated character"},
		{"xyzabc99", "sequential letters or numbers"},
		{"Summer1987", "contains a year"},
		{"racecar", "palindrome"},
		{"pass word", "contains whitespace"},
		{"TrustNo1", "blacklisted password"},
	}
	for _, tc := range cases {
		found := false
		for _, w := range Weaknesses(tc.pw) {
			if w == tc.want {
				found = true
			}
		}
		if !found {
			t.Fatalf("Weaknesses(%q) = %v; want %q included", tc.pw, Weaknesses(tc.pw), tc.want)
		}
	}

	if w := Weaknesses("kT9#mQ2&vZ"); w != nil {
		t.Fatalf("Weaknesses(strong) = %v; want none", w)
	}
	if w := Weaknesses(""); w != nil {
		t.Fatalf("Weaknesses(\"\") = %v; want none", w)
	}
}

func TestAttackScenarios(t *testing.T) {
	scs := AttackScenarios("Password1!")
	if len(scs) != 4 {
		t.Fatalf("scenarios = %d; want 4", len(scs))
	}
	wantNames := []string{"Dictionary Attack", "Hybrid Attack", "Mask / Brute-Force", "Credential Stuffing"}
	for i, sc := range scs {
		if sc.Name != wantNames[i] {
			t.Fatalf("scenario[%d] = %q; want %q", i, sc.Name, wantNames[i])
		}
		if sc.Seconds <= 0 || sc.Time == "" {
			t.Fatalf("scenario %q missing estimate: %+v", sc.Name, sc)
		}
	}

	// Full charset at length 10 puts exhaustive search far beyond a lifetime.
	if bf := scs[2]; !strings.Contains(bf.Time, "years") {
		t.Fatalf("brute-force estimate = %q; want years", bf.Time)
	}
	// An empty password is cracked on the first guess.
	if bf := AttackScenarios("")[2]; bf.Time != "instant" {
		t.Fatalf("empty password brute force = %q; want instant", bf.Time)
	}
}

func TestEntropyBenchmark(t *testing.T) {
	cases := []struct {
		bits  float64
		label string
		class string
	}{
		{20, "Common Word", "danger"},
		{40, "Basic Password", "warning"},
		{55, "Moderate", "warning"},
		{90, "Strong", "success"},
		{130, "Extremely Strong", "success"},
	}
	for _, tc := range cases {
		b := EntropyBenchmark(tc.bits)
		if b.Label != tc.label || b.Class != tc.class {
			t.Fatalf("EntropyBenchmark(%v) = %+v; want %s/%s", tc.bits, b, tc.label, tc.class)
		}
	}
	if b := EntropyBenchmark(64); b.Position != 50.0 {
		t.Fatalf("position(64 bits) = %v; want 50.0", b.Position)
	}
	if b := EntropyBenchmark(500); b.Position != 100.0 {
		t.Fatalf("position caps at 100, got %v", b.Position)
	}
}

func TestCompare(t *testing.T) {
	s := Compare("password1", "password2")
	if s.LevenshteinDistance != 1 {
		t.Fatalf("distance = %d; want 1", s.LevenshteinDistance)
	}
	if !s.TooSimilar {
		t.Fatalf("one-character change must be judged too similar")
	}
	if s.LCSLength != 8 {
		t.Fatalf("lcs = %d; want 8", s.LCSLength)
	}

	d := Compare("tr0ub4dor&3", "correct horse")
	if d.TooSimilar {
		t.Fatalf("unrelated passwords judged too similar: %+v", d)
	}

	if e := Compare("", ""); e.LevenshteinDistance != 0 || e.TooSimilar != true {
		// Two empty strings are identical, 100% similar.
		t.Fatalf("Compare(\"\",\"\") = %+v", e)
	}
}
