package service

import (
	"strings"

	"github.com/google/uuid"
)

func newReference() string {
	return uuid.New().String()
}

// maskAccountNumber keeps only the last four characters of a destination
// so the ledger never stores a full wallet or account number in the clear.
func maskAccountNumber(s string) string {
	if len(s) <= 4 {
		return s
	}
	return strings.Repeat("*", len(s)-4) + s[len(s)-4:]
}

func digitsOnly(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
