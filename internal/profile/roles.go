package profile

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/jonathan/auto-applier/internal/ingestion"
)

// pathRoleBuckets maps folder/filename keywords to the roles they imply.
// Matching is substring-based over the lower-cased document path.
var pathRoleBuckets = []struct {
	keyword string
	roles   []string
}{
	{"cyber", []string{"Cybersecurity Analyst", "SOC Analyst", "Penetration Tester"}},
	{"red team", []string{"Red Team Analyst"}},
	{"purple team", []string{"Purple Team Analyst"}},
	{"futbol", []string{"Football Scout", "Football Analyst"}},
	{"football", []string{"Football Scout", "Football Analyst"}},
	{"data", []string{"Data Analyst"}},
	{"devops", []string{"DevOps Engineer"}},
	{"web", []string{"Web Developer"}},
}

// RolesFromPaths infers target roles from how the candidate organizes their
// document folder, sorted for stable output.
func RolesFromPaths(root string) []string {
	paths, err := ingestion.CollectDocuments(root)
	if err != nil || len(paths) == 0 {
		return nil
	}

	seen := make(map[string]bool)
	for _, path := range paths {
		name := strings.ToLower(strings.ReplaceAll(filepath.ToSlash(path), "/", " "))
		for _, bucket := range pathRoleBuckets {
			if strings.Contains(name, bucket.keyword) {
				for _, role := range bucket.roles {
					seen[role] = true
				}
			}
		}
	}

	roles := make([]string, 0, len(seen))
	for role := range seen {
		roles = append(roles, role)
	}
	sort.Strings(roles)
	return roles
}

// MergeRoles concatenates role lists preserving first-seen order and
// dropping duplicates and blanks.
func MergeRoles(lists ...[]string) []string {
	var merged []string
	seen := make(map[string]bool)
	for _, list := range lists {
		for _, role := range list {
			role = strings.TrimSpace(role)
			if role == "" || seen[role] {
				continue
			}
			seen[role] = true
			merged = append(merged, role)
		}
	}
	return merged
}
