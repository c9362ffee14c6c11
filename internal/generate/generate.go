// Package generate produces random passwords and passphrases using
// crypto/rand. Character and word pools are fixed at build time so the
// entropy estimates reported alongside each credential are exact.
package generate

import (
	"crypto/rand"
	_ "embed"
	"fmt"
	"math"
	"math/big"
	"strings"
	"unicode"
)

//go:embed words.txt
var wordData string

// passwordPool deliberately omits ambiguous glyphs (0/O, 1/l/I) so the
// output survives being read aloud or copied by hand.
const passwordPool = "abcdefghjkmnpqrstuvwxyzABCDEFGHJKLMNPQRSTUVWXYZ23456789!@#$%^&*()"

const (
	MinPasswordLength = 8
	MaxPasswordLength = 128
	DefaultLength     = 14

	MinWords     = 3
	MaxWords     = 10
	DefaultWords = 4
)

var wordPool = strings.Fields(wordData)

// PassphraseOptions controls Passphrase output.
type PassphraseOptions struct {
	Words      int
	Separator  string
	Capitalize bool
}

// Password returns a random password of the given length drawn from the
// unambiguous pool, along with its entropy in bits.
func Password(length int) (string, float64, error) {
	if length < MinPasswordLength || length > MaxPasswordLength {
		return "", 0, fmt.Errorf("length must be between %d and %d", MinPasswordLength, MaxPasswordLength)
	}
	var b strings.Builder
	b.Grow(length)
	pool := int64(len(passwordPool))
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(pool))
		if err != nil {
			return "", 0, fmt.Errorf("generate password: %w", err)
		}
		b.WriteByte(passwordPool[n.Int64()])
	}
	bits := float64(length) * math.Log2(float64(pool))
	return b.String(), bits, nil
}

// Passphrase returns a random word-based passphrase and its entropy in
// bits. A zero Words falls back to DefaultWords; an empty Separator
// falls back to "-".
func Passphrase(opts PassphraseOptions) (string, float64, error) {
	count := opts.Words
	if count == 0 {
		count = DefaultWords
	}
	if count < MinWords || count > MaxWords {
		return "", 0, fmt.Errorf("word count must be between %d and %d", MinWords, MaxWords)
	}
	sep := opts.Separator
	if sep == "" {
		sep = "-"
	}
	pool := int64(len(wordPool))
	picked := make([]string, count)
	for i := range picked {
		n, err := rand.Int(rand.Reader, big.NewInt(pool))
		if err != nil {
			return "", 0, fmt.Errorf("generate passphrase: %w", err)
		}
		w := wordPool[n.Int64()]
		if opts.Capitalize {
			w = capitalize(w)
		}
		picked[i] = w
	}
	bits := float64(count) * math.Log2(float64(pool))
	return strings.Join(picked, sep), bits, nil
}

func capitalize(w string) string {
	r := []rune(w)
	if len(r) == 0 {
		return w
	}
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
