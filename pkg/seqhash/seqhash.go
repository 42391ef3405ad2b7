// Package seqhash provides normalization and content hashing of nucleotide
// sequences. The hash is the primary identity of a stored sequence.
package seqhash

import (
	"encoding/base64"
	"strings"
	"unicode"

	"golang.org/x/crypto/blake2b"
)

// Hasher converts a normalized sequence into its content hash.
type Hasher func(normalized string) string

// Normalize upper-cases a raw sequence, removes all whitespace and
// converts RNA uracil to thymine.
func Normalize(raw string) string {
	var sb strings.Builder
	sb.Grow(len(raw))
	for _, r := range raw {
		if unicode.IsSpace(r) {
			continue
		}
		r = unicode.ToUpper(r)
		if r == 'U' {
			r = 'T'
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// Hash is the default Hasher. It returns unpadded base64url encoding of the
// BLAKE2b-256 digest of a normalized sequence.
func Hash(normalized string) string {
	sum := blake2b.Sum256([]byte(normalized))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}

// FanOut splits a hash into a directory prefix of the given width and the
// remaining file name. Width is clamped to the length of the hash.
func FanOut(hash string, width int) (prefix, name string) {
	if width <= 0 {
		return "", hash
	}
	if width > len(hash) {
		width = len(hash)
	}
	return hash[:width], hash
}
