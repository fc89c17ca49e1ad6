// Package invitecode generates candidate invite codes. Generation is pure
// random draw; uniqueness against live candidates and the historical log is
// the caller's job.
package invitecode

import (
	"crypto/rand"
	"strings"
)

// Alphabet excludes 0, O, 1, I and L so codes survive being read over the
// phone or typed from paper.
const Alphabet = "23456789ABCDEFGHJKMNPQRSTUVWXYZ"

// Length of every generated code.
const Length = 6

// Generate returns one candidate code. Every output must still pass the
// uniqueness checks before it may be assigned.
func Generate() string {
	buf := make([]byte, Length)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand failing means the platform's entropy source is broken;
		// nothing sensible to return.
		panic("invitecode: crypto/rand unavailable: " + err.Error())
	}
	for i, b := range buf {
		buf[i] = Alphabet[int(b)%len(Alphabet)]
	}
	return string(buf)
}

// IsWellFormed reports whether s has the exact shape of a generated code.
func IsWellFormed(s string) bool {
	if len(s) != Length {
		return false
	}
	for _, r := range s {
		if !strings.ContainsRune(Alphabet, r) {
			return false
		}
	}
	return true
}

// Normalize prepares user-typed input for lookup. Codes are stored uppercase.
func Normalize(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
