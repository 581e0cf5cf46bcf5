// Package queries plans the bounded set of search strings the discovery
// stage runs: role/location templates, a cleaning filter against degenerate
// model output, and deterministic fallbacks.
package queries

import (
	"strings"
	"unicode"
)

// Bounds on a planned query set.
const (
	MinQueries = 3
	MaxQueries = 8
)

// minAlphaChars rejects degenerate queries with too little text.
const minAlphaChars = 8

// domainTokens mark a query as polluted with URL material.
var domainTokens = []string{".com", ".es", ".net", ".org", "www."}

// Build assembles one search string from a role, an optional location, and
// the remote preference.
func Build(role, location string, preferRemote bool) string {
	role = strings.TrimSpace(role)
	location = strings.TrimSpace(location)
	switch {
	case preferRemote && location != "":
		return strings.TrimSpace(role + " jobs remote or " + location)
	case preferRemote:
		return strings.TrimSpace(role + " jobs remote")
	case location != "":
		return strings.TrimSpace(role + " jobs " + location)
	default:
		return strings.TrimSpace(role + " jobs")
	}
}

// Clean filters a candidate query list: URL fragments are stripped, queries
// carrying domain-like tokens are dropped, and anything with fewer than 8
// alphabetic characters is rejected.
func Clean(candidates []string) []string {
	var cleaned []string
	for _, q := range candidates {
		text := strings.Join(strings.Fields(strings.ReplaceAll(q, "http", "")), " ")
		if containsDomainToken(text) {
			continue
		}
		if countAlpha(text) < minAlphaChars {
			continue
		}
		cleaned = append(cleaned, text)
	}
	return cleaned
}

func containsDomainToken(text string) bool {
	for _, token := range domainTokens {
		if strings.Contains(text, token) {
			return true
		}
	}
	return false
}

func countAlpha(text string) int {
	n := 0
	for _, r := range text {
		if unicode.IsLetter(r) {
			n++
		}
	}
	return n
}

// roleExpansions widen a target role into related titles, including the
// Spanish variants the job boards the tool targets commonly use.
var roleExpansions = []struct {
	keyword string
	terms   []string
}{
	{"cyber", []string{
		"Cybersecurity analyst", "SOC analyst", "Penetration tester",
		"Analista de ciberseguridad", "Analista SOC", "Pentester",
	}},
	{"data", []string{"Data analyst", "Data engineer", "Analista de datos", "Ingeniero de datos"}},
	{"devops", []string{"DevOps engineer", "Site reliability engineer", "Ingeniero DevOps", "SRE"}},
	{"football", []string{"Football scout", "Football analyst", "Ojeador de fútbol", "Analista de fútbol"}},
	{"futbol", []string{"Football scout", "Football analyst", "Ojeador de fútbol", "Analista de fútbol"}},
}

// RoleQueries builds the query set for one target role, expanding it with
// related titles, de-duplicated in first-seen order.
func RoleQueries(role, location string, preferRemote bool) []string {
	roleLower := strings.ToLower(role)
	terms := []string{role}
	for _, exp := range roleExpansions {
		if strings.Contains(roleLower, exp.keyword) {
			terms = append(terms, exp.terms...)
		}
	}

	var out []string
	seen := make(map[string]bool)
	for _, term := range terms {
		q := Build(term, location, preferRemote)
		if !seen[q] {
			seen[q] = true
			out = append(out, q)
		}
	}
	return out
}

// FromInputs is the deterministic last-resort builder: the first role plus
// up to five skills, cleaned and capped.
func FromInputs(role, location string, skills []string, preferRemote bool) []string {
	role = strings.TrimSpace(role)
	var terms []string
	if role != "" {
		terms = append(terms, role)
	}
	if len(skills) > 0 {
		if len(skills) > 5 {
			skills = skills[:5]
		}
		terms = append(terms, strings.Join(skills, " "))
	}
	if len(terms) == 0 {
		return nil
	}

	queries := make([]string, 0, len(terms))
	for _, term := range terms {
		queries = append(queries, Build(term, location, preferRemote))
	}
	cleaned := Clean(queries)
	if len(cleaned) > 6 {
		cleaned = cleaned[:6]
	}
	return cleaned
}

// SkillsFromSummary pulls the comma-separated skill list out of a profile
// summary built by the extractor.
func SkillsFromSummary(summary string) []string {
	var skills []string
	for _, line := range strings.Split(summary, "\n") {
		if !strings.Contains(line, "Skills:") {
			continue
		}
		rest := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "Skills:"))
		for _, token := range strings.Split(rest, ",") {
			if t := strings.TrimSpace(token); t != "" {
				skills = append(skills, t)
			}
		}
	}
	return skills
}

// Cap bounds a cleaned query list to MaxQueries.
func Cap(queries []string) []string {
	if len(queries) > MaxQueries {
		return queries[:MaxQueries]
	}
	return queries
}
