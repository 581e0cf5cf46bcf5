package profile

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jonathan/auto-applier/internal/ingestion"
	"github.com/jonathan/auto-applier/internal/llm"
	"github.com/jonathan/auto-applier/internal/prompts"
	"github.com/jonathan/auto-applier/internal/schemas"
	"github.com/jonathan/auto-applier/internal/types"
)

// Builder rebuilds the persisted profile from the document folder.
type Builder struct {
	client    llm.Client
	extractor ingestion.Extractor
	log       func(string)
}

// NewBuilder wires a profile builder. client may be nil, forcing the
// deterministic fallback extractor.
func NewBuilder(client llm.Client, extractor ingestion.Extractor, log func(string)) *Builder {
	if log == nil {
		log = func(string) {}
	}
	return &Builder{client: client, extractor: extractor, log: log}
}

// extraction is the structured model output for one profile build.
type extraction struct {
	ProfileUpdates map[string]string `json:"profile_updates"`
	ExtraFields    any               `json:"extra_fields"`
	Summary        string            `json:"summary"`
	Roles          []string          `json:"roles"`
	SearchQueries  []string          `json:"search_queries"`
	Questions      []string          `json:"questions"`
}

// Ensure returns an up-to-date profile for the documents under root. The
// profile is rebuilt only when the document-set hash differs from the stored
// one or force is set; otherwise existing is returned unchanged. The second
// return reports whether a rebuild happened (the caller persists it).
func (b *Builder) Ensure(ctx context.Context, root string, existing *types.Profile, force bool) (*types.Profile, bool, error) {
	if existing == nil {
		existing = types.NewProfile()
	}
	if root == "" {
		return existing, false, nil
	}

	hash := ingestion.HashDocuments(root)
	hasContent := len(existing.Fields) > 0 || len(existing.ExtraFields) > 0
	if !force && hasContent && existing.DocHash == hash {
		b.log("Documents unchanged; skipping profile rebuild.")
		return existing, false, nil
	}

	rebuilt, err := b.build(ctx, root, hash, existing)
	if err != nil {
		return existing, false, err
	}
	if rebuilt == nil {
		return existing, false, nil
	}
	if len(rebuilt.Roles) > 0 {
		b.log("Inferred roles: " + strings.Join(rebuilt.Roles, ", "))
	}
	return rebuilt, true, nil
}

func (b *Builder) build(ctx context.Context, root, hash string, existing *types.Profile) (*types.Profile, error) {
	cvText, err := ingestion.CollectTexts(ctx, root, b.extractor, 0)
	if err != nil {
		return nil, err
	}
	if cvText == "" {
		b.log("No readable documents found; keeping existing profile.")
		return nil, nil
	}

	result, err := b.extract(ctx, cvText, existing)
	if err != nil {
		b.log(fmt.Sprintf("Model extraction failed (%v); using fallback extractor.", err))
		updates, summary := FallbackExtract(cvText)
		result = &extraction{ProfileUpdates: updates, Summary: summary}
	}

	p := types.NewProfile()
	p.Merge(result.ProfileUpdates, FlattenExtras(result.ExtraFields))
	p.Summary = strings.TrimSpace(result.Summary)
	p.Roles = MergeRoles(result.Roles, RolesFromPaths(root))
	p.SearchQueries = nil // replanned after every rebuild
	p.DocHash = hash

	full, err := ingestion.CollectTexts(ctx, root, b.extractor, -1)
	if err == nil {
		p.CVText = full
	}
	return p, nil
}

// extract runs the model extraction and checks its shape before trusting it.
func (b *Builder) extract(ctx context.Context, cvText string, existing *types.Profile) (*extraction, error) {
	if b.client == nil {
		return nil, fmt.Errorf("no extraction client configured")
	}

	existingJSON, err := json.Marshal(existing.Fields)
	if err != nil {
		existingJSON = []byte("{}")
	}
	prompt := prompts.Format(prompts.MustGet("profile.json", "extract-profile"), map[string]string{
		"ExistingProfile": string(existingJSON),
		"CVText":          cvText,
	})

	raw, err := b.client.GenerateJSON(ctx, prompt, llm.TierStandard)
	if err != nil {
		return nil, fmt.Errorf("profile extraction call failed: %w", err)
	}
	cleaned := llm.CleanJSONBlock(raw)
	if err := schemas.Validate(schemas.ProfileExtraction, []byte(cleaned)); err != nil {
		return nil, fmt.Errorf("profile extraction rejected: %w", err)
	}

	var result extraction
	if err := json.Unmarshal([]byte(cleaned), &result); err != nil {
		return nil, fmt.Errorf("failed to parse profile extraction: %w", err)
	}
	return &result, nil
}
