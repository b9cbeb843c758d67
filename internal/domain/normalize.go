package domain

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NormalizeSpelling prepares a spelling for use as a dictionary key:
//   - trims leading/trailing whitespace
//   - applies Unicode NFC, so a kana followed by a combining voicing mark
//     (か + U+3099) compares equal to its precomposed form (が)
//
// Width and case are preserved: half-width katakana is a different key.
func NormalizeSpelling(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	return norm.NFC.String(s)
}
