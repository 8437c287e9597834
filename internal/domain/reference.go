package domain

import (
	"crypto/rand"
	"fmt"
	"strings"
)

// GenerateBookingReference returns a new customer-facing booking reference:
// the BK- prefix followed by ReferenceLength random characters from the
// unambiguous alphabet. Uniqueness is checked by the caller against storage
// with a bounded retry
func GenerateBookingReference() (string, error) {
	buf := make([]byte, ReferenceLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("domain: failed to read random bytes: %w", err)
	}

	var sb strings.Builder
	sb.WriteString(ReferencePrefix)
	for _, b := range buf {
		sb.WriteByte(ReferenceAlphabet[int(b)%len(ReferenceAlphabet)])
	}
	return sb.String(), nil
}

// IsValidBookingReference reports whether s has the shape of a generated
// booking reference (prefix plus characters from the unambiguous alphabet)
func IsValidBookingReference(s string) bool {
	if !strings.HasPrefix(s, ReferencePrefix) {
		return false
	}
	body := strings.TrimPrefix(s, ReferencePrefix)
	if len(body) != ReferenceLength {
		return false
	}
	for _, r := range body {
		if !strings.ContainsRune(ReferenceAlphabet, r) {
			return false
		}
	}
	return true
}
