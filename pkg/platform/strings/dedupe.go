// Package strings provides string helpers shared by the registration modules.
package strings

import (
	"strings"
)

// DedupeAndTrim removes duplicates and empty strings from a slice,
// trimming whitespace from each element. Order is preserved.
//
//	DedupeAndTrim([]string{"  1234567890 ", "DEATH", "1234567890", ""})
//	// []string{"1234567890", "DEATH"}
func DedupeAndTrim(values []string) []string {
	if len(values) == 0 {
		return values
	}

	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))

	for _, v := range values {
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; !ok {
			seen[trimmed] = struct{}{}
			result = append(result, trimmed)
		}
	}

	return result
}

// FirstMissing returns the first needle that is not a literal, case-sensitive
// substring of text. ok is true when every needle is present; an empty needle
// list is trivially satisfied.
func FirstMissing(text string, needles []string) (missing string, ok bool) {
	for _, n := range needles {
		if !strings.Contains(text, n) {
			return n, false
		}
	}
	return "", true
}
