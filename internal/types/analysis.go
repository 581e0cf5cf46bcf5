package types

import "strings"

// WorkMode is the categorical location-of-work classification for a job.
type WorkMode string

// Work mode values recognized by the accept policy.
const (
	WorkModeRemote  WorkMode = "remote"
	WorkModeHybrid  WorkMode = "hybrid"
	WorkModeOnsite  WorkMode = "onsite"
	WorkModeUnknown WorkMode = "unknown"
)

// ParseWorkMode maps arbitrary model output onto the closed work-mode set.
func ParseWorkMode(s string) WorkMode {
	switch WorkMode(strings.ToLower(strings.TrimSpace(s))) {
	case WorkModeRemote:
		return WorkModeRemote
	case WorkModeHybrid:
		return WorkModeHybrid
	case WorkModeOnsite:
		return WorkModeOnsite
	default:
		return WorkModeUnknown
	}
}

// JobAnalysis is the result of scoring one job description against the
// candidate profile. It is ephemeral: the accept policy consumes it
// immediately and only selected fields survive into the ApplicationRecord.
type JobAnalysis struct {
	Score       int      `json:"score"`
	Reason      string   `json:"reason"`
	JobTitle    string   `json:"job_title"`
	CompanyName string   `json:"company_name"`
	KeySkills   string   `json:"key_skills"`
	WorkMode    WorkMode `json:"work_mode"`
	Location    string   `json:"location"`
	Role        string   `json:"role"`
	RoleMatch   bool     `json:"role_match"`
}

// NeutralAnalysis is the fallback returned when the scoring call fails:
// a middling score that defers to the threshold rather than failing the job.
func NeutralAnalysis() *JobAnalysis {
	return &JobAnalysis{
		Score:    50,
		Reason:   "analysis unavailable",
		WorkMode: WorkModeUnknown,
	}
}
