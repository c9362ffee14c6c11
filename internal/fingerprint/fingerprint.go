// Package fingerprint derives the cryptographic digests the rest of the
// pipeline is keyed on. It is pure computation: no I/O, no failure modes.
//
// Two digests are produced per password:
//   - SHA-1, uppercase hex: feeds the k-anonymity range query (only its
//     5-character prefix ever leaves the process) and the cache key.
//   - SHA-256, lowercase hex: consumed by the session password-history
//     collaborator to detect reuse without storing plaintext.
//
// SHA-1 is not used here for collision resistance; it is the key format the
// external breach corpus is indexed by.
package fingerprint

import (
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// SHA1Hex returns the 40-character uppercase hexadecimal SHA-1 digest of
// password. The empty string is a valid input and hashes to
// DA39A3EE5E6B4B0D3255BFEF95601890AFD80709; callers must not special-case it.
func SHA1Hex(password string) string {
	sum := sha1.Sum([]byte(password))
	return strings.ToUpper(hex.EncodeToString(sum[:]))
}

// SHA256Hex returns the 64-character lowercase hexadecimal SHA-256 digest of
// password.
func SHA256Hex(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

// Split divides an SHA-1 digest into its k-anonymity parts: the 5-character
// prefix sent to the breach service and the 35-character suffix matched
// locally against the response set.
func Split(digest string) (prefix, suffix string) {
	return digest[:5], digest[5:]
}
