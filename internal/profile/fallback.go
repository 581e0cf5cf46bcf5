// Package profile builds and maintains the persisted candidate profile from
// the document folder: model-driven extraction with a deterministic
// regex/heuristic fallback, plus role inference from folder names.
package profile

import (
	"regexp"
	"sort"
	"strings"
)

var (
	emailRE    = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)
	phoneRE    = regexp.MustCompile(`\+?\d[\d\s().-]{7,}\d`)
	linkedinRE = regexp.MustCompile(`(?i)(https?://)?(www\.)?linkedin\.com/[A-Za-z0-9_/-]+`)
	githubRE   = regexp.MustCompile(`(?i)(https?://)?(www\.)?github\.com/[A-Za-z0-9_-]+`)

	skillTokenRE = regexp.MustCompile(`[A-Za-z][A-Za-z+.#-]{2,}`)
	skillSplitRE = regexp.MustCompile(`[:\-•]`)
)

// languageHints are spoken languages recognized by the fallback extractor.
var languageHints = []string{
	"english", "spanish", "french", "german", "italian", "portuguese",
	"catalan", "galician", "basque", "chinese", "japanese", "korean",
	"arabic", "hindi", "bengali", "russian", "polish", "dutch", "swedish",
	"norwegian", "danish", "finnish",
}

// stopTokens are excluded from frequency-ranked skill candidates.
var stopTokens = map[string]bool{
	"experience": true,
	"project":    true,
	"projects":   true,
	"education":  true,
	"university": true,
	"summary":    true,
}

// FallbackExtract derives canonical profile fields and a skills summary from
// raw document text without any model call. Used when extraction fails.
func FallbackExtract(text string) (map[string]string, string) {
	updates := map[string]string{
		"name":      extractName(text),
		"email":     extractSingle(emailRE, text),
		"phone":     extractSingle(phoneRE, text),
		"linkedin":  extractSingle(linkedinRE, text),
		"github":    extractSingle(githubRE, text),
		"languages": extractLanguages(text),
	}

	var parts []string
	if skills := extractSkills(text); len(skills) > 0 {
		if len(skills) > 20 {
			skills = skills[:20]
		}
		parts = append(parts, "Skills: "+strings.Join(skills, ", "))
	}
	if updates["languages"] != "" {
		parts = append(parts, "Languages: "+updates["languages"])
	}
	return updates, strings.Join(parts, "\n")
}

// extractName scans the first lines of the document for a short title-cased
// line that is not a heading, salutation, or contact row.
func extractName(text string) string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	if len(lines) > 30 {
		lines = lines[:30]
	}

	var candidates []string
	for _, line := range lines {
		if len(line) > 60 {
			continue
		}
		lower := strings.ToLower(line)
		if containsAny(lower, "resume", "curriculum", "cv") ||
			containsAny(lower, "dear", "to whom", "hiring manager", "sincerely") ||
			containsAny(lower, "email", "phone", "mobile", "address") {
			continue
		}
		if strings.ContainsAny(line, "@,") {
			continue
		}
		words := strings.Fields(line)
		if len(words) < 2 || len(words) > 4 {
			continue
		}
		capped := 0
		for _, w := range words {
			r := rune(w[0])
			if r >= 'A' && r <= 'Z' {
				capped++
			}
		}
		if capped >= 2 {
			candidates = append(candidates, strings.Join(words, " "))
		}
	}
	if len(candidates) == 0 {
		return ""
	}
	// Prefer the earliest candidate that is not shouting.
	for _, cand := range candidates {
		if cand != strings.ToUpper(cand) {
			return cand
		}
	}
	return candidates[0]
}

func extractSingle(re *regexp.Regexp, text string) string {
	value := strings.TrimSpace(re.FindString(text))
	if value == "" || strings.HasPrefix(value, "http") {
		return value
	}
	lower := strings.ToLower(value)
	if strings.Contains(lower, "linkedin.com") || strings.Contains(lower, "github.com") {
		return "https://" + strings.TrimLeft(value, "/")
	}
	return value
}

func extractLanguages(text string) string {
	lower := strings.ToLower(text)
	var found []string
	for _, lang := range languageHints {
		re := regexp.MustCompile(`\b` + regexp.QuoteMeta(lang) + `\b`)
		if re.MatchString(lower) {
			found = append(found, strings.ToUpper(lang[:1])+lang[1:])
		}
	}
	sort.Strings(found)
	return strings.Join(found, ", ")
}

// extractSkills prefers explicit "skills" lines, falling back to the most
// frequent plausible tokens in the whole document.
func extractSkills(text string) []string {
	var skills []string
	for _, line := range strings.Split(text, "\n") {
		if !strings.Contains(strings.ToLower(line), "skills") {
			continue
		}
		parts := skillSplitRE.Split(line, 2)
		if len(parts) > 1 {
			for _, item := range strings.Split(parts[1], ",") {
				if s := strings.TrimSpace(item); s != "" {
					skills = append(skills, s)
				}
			}
		}
	}

	if len(skills) == 0 {
		counts := make(map[string]int)
		for _, token := range skillTokenRE.FindAllString(text, -1) {
			t := strings.ToLower(token)
			if stopTokens[t] {
				continue
			}
			counts[t]++
		}
		ranked := make([]string, 0, len(counts))
		for t := range counts {
			ranked = append(ranked, t)
		}
		sort.Slice(ranked, func(i, j int) bool {
			if counts[ranked[i]] != counts[ranked[j]] {
				return counts[ranked[i]] > counts[ranked[j]]
			}
			return ranked[i] < ranked[j]
		})
		if len(ranked) > 20 {
			ranked = ranked[:20]
		}
		skills = ranked
	}

	clean := make([]string, 0, len(skills))
	for _, skill := range skills {
		if s := strings.TrimSpace(skill); s != "" && len(s) <= 40 {
			clean = append(clean, s)
		}
	}
	return clean
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
