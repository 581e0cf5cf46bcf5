// Package questions routes every discovered form question to one of three
// answer strategies: AUTO (generated), PROFILE (looked up in the candidate
// profile), or PERSONAL (cached or supplied by a human hand-off).
package questions

import (
	"regexp"
	"strings"
)

var (
	controlChars = regexp.MustCompile(`[\r\n\t]+`)
	disallowed   = regexp.MustCompile(`[^a-z0-9\s\-_/]+`)
	multiSpace   = regexp.MustCompile(`\s+`)
)

// maxNormalized caps the length of a normalized question key.
const maxNormalized = 200

// Normalize canonicalizes a question string for use as a cache key:
// lower-cased, punctuation-stripped, whitespace-collapsed, length-capped.
// Normalize is idempotent.
func Normalize(text string) string {
	if text == "" {
		return ""
	}
	cleaned := strings.ToLower(strings.TrimSpace(text))
	cleaned = controlChars.ReplaceAllString(cleaned, " ")
	cleaned = disallowed.ReplaceAllString(cleaned, "")
	cleaned = multiSpace.ReplaceAllString(cleaned, " ")
	cleaned = strings.TrimSpace(cleaned)
	if len(cleaned) > maxNormalized {
		// The cut can land right after a space; trim again so re-normalizing
		// the capped key yields the same key.
		cleaned = strings.TrimSpace(cleaned[:maxNormalized])
	}
	return cleaned
}
