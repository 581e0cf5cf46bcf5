// Package config provides the persisted run-settings document and its
// loading, validation, and atomic save.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
)

// Settings is the whole-document run configuration. It is loaded once per
// run, mutated only through the UI/controller, and rewritten atomically on
// save.
type Settings struct {
	// Documents and artifacts
	CVRoot    string `json:"cv_root" validate:"required"`
	DataDir   string `json:"data_dir"`
	OutputDir string `json:"output_dir"`

	// Matching policy
	SelectedRole        string `json:"selected_role"`
	MinScoreThreshold   int    `json:"min_score_threshold" validate:"min=0,max=100"`
	RoleMismatchPenalty int    `json:"role_mismatch_penalty" validate:"min=0,max=100"`
	AllowRemote         bool   `json:"allow_remote"`
	AllowHybrid         bool   `json:"allow_hybrid"`
	MaxDistanceKM       int    `json:"max_distance_km"`

	// Discovery
	SearchBackend      string   `json:"search_backend" validate:"oneof=linkedin websearch"`
	PreferredLocations []string `json:"preferred_locations"`
	PreferRemote       bool     `json:"prefer_remote"`
	LinkedInLocation   string   `json:"linkedin_location"`
	LinkedInRemoteOnly bool     `json:"linkedin_remote_only"`
	SiteFilter         string   `json:"site_filter"`
	MaxSearchPages     int      `json:"max_search_pages" validate:"min=1,max=20"`
	MaxJobs            int      `json:"max_jobs" validate:"min=1,max=500"`

	// Run limits
	DailyLimit   int `json:"daily_limit" validate:"min=1,max=200"`
	MaxFormSteps int `json:"max_form_steps" validate:"min=1,max=50"`

	// Profile builder
	RebuildProfile bool `json:"rebuild_autoprofile"`

	// Sensitive-topic keywords routed to the human hand-off. The default set
	// is a tunable heuristic, not a derived constant.
	PersonalKeywords []string `json:"personal_keywords"`

	// Browser
	Headless        bool   `json:"headless"`
	BrowserExecPath string `json:"browser_executable_path"`
	UserDataDir     string `json:"browser_user_data_dir"`
}

// DefaultPersonalKeywords is the built-in sensitive-topic keyword set:
// identity documents, demographics, health, background checks, and legal
// identifiers.
var DefaultPersonalKeywords = []string{
	"ssn",
	"social security",
	"social-security",
	"passport",
	"visa",
	"citizenship",
	"work authorization",
	"dob",
	"date of birth",
	"age",
	"gender",
	"race",
	"ethnicity",
	"religion",
	"disability",
	"criminal",
	"conviction",
	"medical",
	"health",
	"salary history",
	"background check",
	"driver license",
	"ssn last 4",
	"legal name",
}

// Defaults returns a Settings document with every field at its default.
func Defaults() *Settings {
	return &Settings{
		DataDir:             "data",
		OutputDir:           "output",
		MinScoreThreshold:   60,
		RoleMismatchPenalty: 20,
		AllowRemote:         true,
		AllowHybrid:         true,
		MaxDistanceKM:       50,
		SearchBackend:       "linkedin",
		PreferRemote:        true,
		LinkedInRemoteOnly:  true,
		MaxSearchPages:      2,
		MaxJobs:             20,
		DailyLimit:          10,
		MaxFormSteps:        10,
		RebuildProfile:      true,
		PersonalKeywords:    append([]string(nil), DefaultPersonalKeywords...),
	}
}

// Load reads the settings document at path, filling unset fields from
// Defaults. A missing file yields pure defaults rather than an error.
func Load(path string) (*Settings, error) {
	s := Defaults()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read settings file %s: %w", path, err)
	}

	if err := json.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("failed to parse settings JSON: %w", err)
	}
	if len(s.PersonalKeywords) == 0 {
		s.PersonalKeywords = append([]string(nil), DefaultPersonalKeywords...)
	}
	return s, nil
}

// Save writes the settings document atomically: the new content lands in a
// temp file first and is renamed over the old document.
func Save(path string, s *Settings) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create settings dir: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to replace settings: %w", err)
	}
	return nil
}

// Validate checks field ranges and enums via struct tags.
func (s *Settings) Validate() error {
	if err := validator.New().Struct(s); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	return nil
}

// ProfilePath returns the location of the persisted profile document.
func (s *Settings) ProfilePath() string {
	return filepath.Join(s.DataDir, "autoprofile.json")
}

// AnswersPath returns the location of the personal-answer cache document.
func (s *Settings) AnswersPath() string {
	return filepath.Join(s.DataDir, "personal_answers.json")
}

// TrackerPath returns the location of the application log database.
func (s *Settings) TrackerPath() string {
	return filepath.Join(s.DataDir, "applications.db")
}

// RunLogPath returns the location of the per-run CSV log.
func (s *Settings) RunLogPath() string {
	return filepath.Join(s.DataDir, "run_logs.csv")
}

// PreferredLocation returns the first configured location, or "".
func (s *Settings) PreferredLocation() string {
	if len(s.PreferredLocations) > 0 {
		return s.PreferredLocations[0]
	}
	return ""
}
