// Package match scores a job description against the candidate profile and
// applies the deterministic accept/reject policy.
package match

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jonathan/auto-applier/internal/llm"
	"github.com/jonathan/auto-applier/internal/prompts"
	"github.com/jonathan/auto-applier/internal/schemas"
	"github.com/jonathan/auto-applier/internal/types"
)

// maxJobTextInPrompt bounds the job description handed to the scoring call.
const maxJobTextInPrompt = 6000

// Analyzer scores jobs with one constrained generation call per job.
type Analyzer struct {
	client llm.Client
	log    func(string)
}

// NewAnalyzer wires an analyzer. client may be nil, which makes every
// analysis return the neutral fallback.
func NewAnalyzer(client llm.Client, log func(string)) *Analyzer {
	if log == nil {
		log = func(string) {}
	}
	return &Analyzer{client: client, log: log}
}

// Analyze scores jobText against the profile summary. A failed or malformed
// generation never fails the job: the neutral fallback is returned instead
// so the threshold decides.
func (a *Analyzer) Analyze(ctx context.Context, jobText, profileSummary, targetRole string) *types.JobAnalysis {
	analysis, err := a.analyze(ctx, jobText, profileSummary, targetRole)
	if err != nil {
		a.log(fmt.Sprintf("Job analysis failed (%v); using neutral fallback.", err))
		return types.NeutralAnalysis()
	}
	return analysis
}

func (a *Analyzer) analyze(ctx context.Context, jobText, profileSummary, targetRole string) (*types.JobAnalysis, error) {
	if a.client == nil {
		return nil, fmt.Errorf("no analysis client configured")
	}
	if len(jobText) > maxJobTextInPrompt {
		jobText = jobText[:maxJobTextInPrompt]
	}

	prompt := prompts.Format(prompts.MustGet("matching.json", "analyze-job"), map[string]string{
		"TargetRole":     targetRole,
		"ProfileSummary": profileSummary,
		"JobText":        jobText,
	})

	raw, err := a.client.GenerateJSON(ctx, prompt, llm.TierStandard)
	if err != nil {
		return nil, fmt.Errorf("analysis call failed: %w", err)
	}
	cleaned := llm.CleanJSONBlock(raw)
	if err := schemas.Validate(schemas.JobAnalysis, []byte(cleaned)); err != nil {
		return nil, fmt.Errorf("analysis rejected: %w", err)
	}

	var analysis types.JobAnalysis
	if err := json.Unmarshal([]byte(cleaned), &analysis); err != nil {
		return nil, fmt.Errorf("failed to parse analysis: %w", err)
	}
	analysis.WorkMode = types.ParseWorkMode(string(analysis.WorkMode))
	return &analysis, nil
}
