package runner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/jonathan/auto-applier/internal/llm"
	"github.com/jonathan/auto-applier/internal/prompts"
	"github.com/jonathan/auto-applier/internal/types"
)

// defaultCoverTemplate is used when no data/templates/cover_letter.txt
// override exists. The braced variables survive into the plain-substitution
// fallback when the generation call fails.
const defaultCoverTemplate = `Dear Hiring Team at {company_name},

I am writing to apply for the {job_title} position. My experience with
{key_skills} aligns closely with what the role asks for, and I would welcome
the chance to put it to work on your team.

{relevant_experience}

Thank you for your consideration.

Best regards,
{name}`

// maxFilenameLen caps generated artifact names.
const maxFilenameLen = 120

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// safeFilename collapses anything outside the portable filename alphabet.
func safeFilename(name string) string {
	cleaned := unsafeFilenameChars.ReplaceAllString(name, "_")
	cleaned = strings.Trim(cleaned, "_")
	if len(cleaned) > maxFilenameLen {
		cleaned = cleaned[:maxFilenameLen]
	}
	return cleaned
}

// substituteTemplate fills {variable} placeholders literally.
func substituteTemplate(template string, vars map[string]string) string {
	out := template
	for key, value := range vars {
		out = strings.ReplaceAll(out, "{"+key+"}", value)
	}
	return out
}

// generateCoverLetter writes a short cover letter for the analyzed job to
// the output directory and returns its path. Failures degrade: generation
// errors fall back to plain template substitution, and only a write failure
// yields "" (the application proceeds without a cover letter).
func (r *Runner) generateCoverLetter(ctx context.Context, analysis *types.JobAnalysis, prof *types.Profile) string {
	log := r.logger.Func()

	template := defaultCoverTemplate
	if data, err := os.ReadFile(filepath.Join(r.settings.DataDir, "templates", "cover_letter.txt")); err == nil {
		template = string(data)
	}

	jobTitle := analysis.JobTitle
	if jobTitle == "" {
		jobTitle = "the role"
	}
	company := analysis.CompanyName
	if company == "" {
		company = "your company"
	}
	keySkills := analysis.KeySkills
	if keySkills == "" {
		keySkills = "relevant skills"
	}

	letter := ""
	if r.client != nil {
		prompt := prompts.Format(prompts.MustGet("profile.json", "cover-letter"), map[string]string{
			"JobTitle":       jobTitle,
			"Company":        company,
			"KeySkills":      keySkills,
			"ProfileSummary": prof.Summary,
			"Name":           prof.Field("name"),
			"Template":       template,
		})
		generated, err := r.client.GenerateContent(ctx, prompt, llm.TierStandard)
		if err != nil {
			log(fmt.Sprintf("Cover letter generation failed: %v", err))
		} else {
			letter = strings.TrimSpace(generated)
		}
	}
	if letter == "" {
		letter = substituteTemplate(template, map[string]string{
			"job_title":           jobTitle,
			"company_name":        company,
			"key_skills":          keySkills,
			"relevant_experience": "relevant experience",
			"name":                prof.Field("name"),
		})
	}

	if err := os.MkdirAll(r.settings.OutputDir, 0o755); err != nil {
		log(fmt.Sprintf("Could not create output dir: %v", err))
		return ""
	}
	name := safeFilename(fmt.Sprintf("cover_letter_%s_%s_%s.txt", company, jobTitle, uuid.NewString()[:8]))
	path := filepath.Join(r.settings.OutputDir, name)
	if err := os.WriteFile(path, []byte(strings.TrimSpace(letter)+"\n"), 0o644); err != nil {
		log(fmt.Sprintf("Could not write cover letter: %v", err))
		return ""
	}
	return path
}
