package types

import "time"

// ApplicationStatus is the terminal outcome recorded for one job attempt.
type ApplicationStatus string

// Terminal application statuses.
const (
	StatusApplied       ApplicationStatus = "APPLIED"
	StatusDiscarded     ApplicationStatus = "DISCARDED"
	StatusError         ApplicationStatus = "ERROR"
	StatusPopupRequired ApplicationStatus = "POPUP_REQUIRED"
	StatusSkipped       ApplicationStatus = "SKIPPED"
	StatusExternal      ApplicationStatus = "EXTERNAL"
)

// ApplicationRecord is one immutable row in the application log. Records are
// append-only: they are never mutated or deleted once written.
type ApplicationRecord struct {
	Timestamp time.Time         `json:"timestamp"`
	Role      string            `json:"role"`
	Company   string            `json:"company"`
	JobTitle  string            `json:"job_title"`
	JobURL    string            `json:"job_url"`
	Location  string            `json:"location"`
	Remote    string            `json:"remote"`
	CVUsed    string            `json:"cv_used"`
	Score     *int              `json:"match_score,omitempty"`
	Status    ApplicationStatus `json:"status"`
	Notes     string            `json:"notes"`
}
