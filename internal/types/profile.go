// Package types provides type definitions for structured data used throughout the auto-applier system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// CanonicalProfileKeys lists the whitelisted keys a profile extraction may
// populate in Profile.Fields. Anything else the extractor finds goes into
// ExtraFields.
var CanonicalProfileKeys = []string{
	"name",
	"email",
	"phone",
	"location",
	"linkedin",
	"github",
	"languages",
	"salary_expectations",
	"remote_preference",
}

// Profile is the persisted representation of a candidate built from their
// source documents (the AutoProfile). It is rebuilt only when the content
// hash of the document set changes, or when a rebuild is forced.
type Profile struct {
	// Fields holds canonical contact/preference fields keyed by
	// CanonicalProfileKeys entries.
	Fields map[string]string `json:"profile"`
	// ExtraFields holds everything else the extractor found, flattened to
	// dotted/underscored scalar keys.
	ExtraFields map[string]string `json:"extra_fields"`
	// Summary is a short free-text skills summary used in matching prompts.
	Summary string `json:"summary"`
	// Roles are inferred job titles, first-seen order, de-duplicated.
	Roles []string `json:"roles"`
	// SearchQueries caches the planner output between runs.
	SearchQueries []string `json:"search_queries"`
	// CVText is the concatenated full text of all candidate documents.
	CVText string `json:"cv_text_full"`
	// DocHash is the content hash of the source document set at build time.
	DocHash string `json:"cv_hash"`
}

// NewProfile returns an empty profile with initialized maps.
func NewProfile() *Profile {
	return &Profile{
		Fields:      make(map[string]string),
		ExtraFields: make(map[string]string),
	}
}

// Field returns the canonical field value for key, or "" when unset.
func (p *Profile) Field(key string) string {
	if p == nil || p.Fields == nil {
		return ""
	}
	return p.Fields[key]
}

// Merge applies non-empty canonical updates and extra fields onto the
// profile, leaving existing values in place for keys the update omits.
func (p *Profile) Merge(updates map[string]string, extras map[string]string) {
	if p.Fields == nil {
		p.Fields = make(map[string]string)
	}
	if p.ExtraFields == nil {
		p.ExtraFields = make(map[string]string)
	}
	for k, v := range updates {
		if v != "" {
			p.Fields[k] = v
		}
	}
	for k, v := range extras {
		p.ExtraFields[k] = v
	}
}
