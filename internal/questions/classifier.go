package questions

import (
	"context"
	"sort"
	"strings"

	"github.com/jonathan/auto-applier/internal/llm"
	"github.com/jonathan/auto-applier/internal/prompts"
	"github.com/jonathan/auto-applier/internal/types"
)

// Category is the answer strategy assigned to a form question.
type Category string

// Answer strategies, from least to most sensitive.
const (
	CategoryAuto     Category = "AUTO"
	CategoryProfile  Category = "PROFILE"
	CategoryPersonal Category = "PERSONAL"
)

// profileAnswerKeys maps question keywords to canonical profile fields, in
// match-priority order.
var profileAnswerKeys = []struct {
	keyword string
	field   string
}{
	{"name", "name"},
	{"email", "email"},
	{"phone", "phone"},
	{"location", "location"},
	{"linkedin", "linkedin"},
	{"github", "github"},
	{"language", "languages"},
	{"salary", "salary_expectations"},
	{"remote", "remote_preference"},
}

// Classifier assigns a Category to each form question. Classification of a
// cached question is deterministic: the cache lookup happens before any
// profile or model consultation.
type Classifier struct {
	profile  *types.Profile
	answers  map[string]string
	keywords []string
	client   llm.Client
}

// NewClassifier builds a classifier over the given profile, personal-answer
// cache, and sensitive-topic keyword list. client may be nil, in which case
// the generation fallback is skipped and unmatched questions become AUTO.
func NewClassifier(profile *types.Profile, answers map[string]string, keywords []string, client llm.Client) *Classifier {
	if profile == nil {
		profile = types.NewProfile()
	}
	if answers == nil {
		answers = make(map[string]string)
	}
	return &Classifier{
		profile:  profile,
		answers:  answers,
		keywords: keywords,
		client:   client,
	}
}

// Classify routes a question: cached answer → PERSONAL, sensitive keyword →
// PERSONAL, profile/extra-field containment → PROFILE, then a constrained
// generation call, then AUTO.
func (c *Classifier) Classify(ctx context.Context, question string) Category {
	if question == "" {
		return CategoryAuto
	}
	normalized := Normalize(question)

	if _, ok := c.answers[normalized]; ok {
		return CategoryPersonal
	}
	for _, keyword := range c.keywords {
		if strings.Contains(normalized, keyword) {
			return CategoryPersonal
		}
	}
	for key, value := range c.profile.Fields {
		if value == "" {
			continue
		}
		if strings.Contains(normalized, strings.ReplaceAll(key, "_", " ")) {
			return CategoryProfile
		}
	}
	for key := range c.profile.ExtraFields {
		keyNorm := Normalize(key)
		if keyNorm != "" && strings.Contains(normalized, keyNorm) {
			return CategoryProfile
		}
	}

	if c.client == nil {
		return CategoryAuto
	}
	return c.classifyWithModel(ctx, question)
}

func (c *Classifier) classifyWithModel(ctx context.Context, question string) Category {
	keys := make([]string, 0, len(c.profile.Fields))
	for key := range c.profile.Fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	prompt := prompts.Format(prompts.MustGet("forms.json", "classify-question"), map[string]string{
		"Question":    question,
		"ProfileKeys": strings.Join(keys, ", "),
	})

	raw, err := c.client.GenerateJSON(ctx, prompt, llm.TierLite)
	if err != nil {
		return CategoryAuto
	}
	var result struct {
		Category string `json:"category"`
	}
	if err := llm.ExtractObject(raw, &result); err != nil {
		return CategoryAuto
	}
	category := Category(strings.ToUpper(strings.TrimSpace(result.Category)))
	switch category {
	case CategoryAuto, CategoryProfile, CategoryPersonal:
		return category
	}
	return CategoryAuto
}

// ProfileAnswer resolves a PROFILE-classified question against the fixed
// keyword→field table, then against stored extra-field keys. The second
// return is false when nothing in the profile answers the question.
func (c *Classifier) ProfileAnswer(question string) (string, bool) {
	q := strings.ToLower(question)
	for _, entry := range profileAnswerKeys {
		if value := c.profile.Field(entry.field); value != "" && strings.Contains(q, entry.keyword) {
			return value, true
		}
	}

	qNorm := Normalize(question)
	extraKeys := make([]string, 0, len(c.profile.ExtraFields))
	for key := range c.profile.ExtraFields {
		extraKeys = append(extraKeys, key)
	}
	sort.Strings(extraKeys)
	for _, key := range extraKeys {
		keyNorm := Normalize(key)
		if keyNorm == "" || c.profile.ExtraFields[key] == "" {
			continue
		}
		if strings.Contains(qNorm, keyNorm) {
			return c.profile.ExtraFields[key], true
		}
	}
	return "", false
}
