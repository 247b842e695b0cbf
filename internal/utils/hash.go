// Package utils provides small, generic helper functions used across
// different layers of the application. These utilities are independent
// of domain or business logic.
package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// QuestionHash returns the hex-encoded SHA-256 of a question's text after
// trimming whitespace and lowercasing, so "Data Structures" and
// "data structures" hash identically. Used to deduplicate question-bank rows.
func QuestionHash(questionText string) string {
	sum := sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(questionText))))
	return hex.EncodeToString(sum[:])
}
