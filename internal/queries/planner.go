package queries

import (
	"context"
	"fmt"
	"strings"

	"github.com/jonathan/auto-applier/internal/llm"
	"github.com/jonathan/auto-applier/internal/prompts"
	"github.com/jonathan/auto-applier/internal/types"
)

// maxCVTextInPrompt bounds the CV text handed to the focused pass.
const maxCVTextInPrompt = 8000

// Planner resolves the query set for a run, trying sources from most to
// least specific: target role expansion, cached profile queries, a focused
// generation pass, role templates, then the skills fallback.
type Planner struct {
	client llm.Client
	log    func(string)
}

// NewPlanner wires a planner. client may be nil, which skips the focused
// generation pass.
func NewPlanner(client llm.Client, log func(string)) *Planner {
	if log == nil {
		log = func(string) {}
	}
	return &Planner{client: client, log: log}
}

// Plan returns the cleaned, capped query set for profile. When the focused
// pass refreshes roles or cached queries on the profile, the second return
// is true and the caller should persist the profile.
func (p *Planner) Plan(ctx context.Context, profile *types.Profile, targetRole, location string, preferRemote bool) ([]string, bool) {
	if targetRole != "" {
		if queries := Clean(RoleQueries(targetRole, location, preferRemote)); len(queries) > 0 {
			return Cap(queries), false
		}
	}

	if queries := Clean(profile.SearchQueries); len(queries) > 0 {
		return Cap(queries), false
	}

	p.log("No usable cached queries. Trying focused query generation...")
	queries, updated := p.focused(ctx, profile, location, preferRemote)
	if len(queries) > 0 {
		return Cap(queries), updated
	}

	if len(profile.Roles) > 0 {
		built := make([]string, 0, len(profile.Roles))
		for _, role := range profile.Roles {
			built = append(built, Build(role, location, preferRemote))
		}
		if cleaned := Clean(built); len(cleaned) > 0 {
			return Cap(cleaned), updated
		}
	}

	role := ""
	if len(profile.Roles) > 0 {
		role = profile.Roles[0]
	}
	return Cap(FromInputs(role, location, SkillsFromSummary(profile.Summary), preferRemote)), updated
}

// focused runs the secondary generation pass over the stored CV text and
// rebuilds queries from the returned roles.
func (p *Planner) focused(ctx context.Context, profile *types.Profile, location string, preferRemote bool) ([]string, bool) {
	if p.client == nil || profile.CVText == "" {
		return nil, false
	}

	cvText := profile.CVText
	if len(cvText) > maxCVTextInPrompt {
		cvText = cvText[:maxCVTextInPrompt]
	}
	prompt := prompts.Format(prompts.MustGet("profile.json", "focused-queries"), map[string]string{
		"CVText": cvText,
	})

	raw, err := p.client.GenerateJSON(ctx, prompt, llm.TierLite)
	if err != nil {
		p.log(fmt.Sprintf("Focused query generation failed: %v", err))
		return nil, false
	}
	var result struct {
		Roles         []string `json:"roles"`
		SearchQueries []string `json:"search_queries"`
	}
	if err := llm.ExtractObject(raw, &result); err != nil {
		p.log(fmt.Sprintf("Focused query generation returned unusable output: %v", err))
		return nil, false
	}

	roles := trimAll(result.Roles)
	generated := trimAll(result.SearchQueries)

	updated := false
	if len(roles) > 0 {
		profile.Roles = roles
		updated = true
	}

	// Queries built from roles beat the model's free-form suggestions.
	built := make([]string, 0, len(roles))
	for _, role := range roles {
		built = append(built, Build(role, location, preferRemote))
	}
	queries := built
	if len(queries) == 0 {
		queries = generated
	}
	if len(queries) > 0 {
		profile.SearchQueries = queries
		updated = true
	}
	return Clean(queries), updated
}

func trimAll(values []string) []string {
	var out []string
	for _, v := range values {
		if t := strings.TrimSpace(v); t != "" {
			out = append(out, t)
		}
	}
	return out
}
