package match

import (
	"fmt"

	"github.com/jonathan/auto-applier/internal/types"
)

// Policy is the deterministic accept/reject gate applied to every analysis.
type Policy struct {
	// TargetRole, when set, penalizes jobs whose role does not match it.
	TargetRole string
	// Threshold is the minimum (adjusted) score to accept.
	Threshold int
	// MismatchPenalty is subtracted from the score on a role mismatch,
	// clamped at zero.
	MismatchPenalty int
	// AllowRemote and AllowHybrid gate the corresponding work modes.
	AllowRemote bool
	AllowHybrid bool
	// MaxDistanceKM <= 0 rejects onsite jobs outright.
	MaxDistanceKM int
}

// Decision is the policy outcome for one job.
type Decision struct {
	Accept bool
	// AdjustedScore is the score after any role-mismatch penalty; it is the
	// value recorded and compared against the threshold.
	AdjustedScore int
	Reason        string
}

// Decide applies the accept policy to one analysis.
func (p Policy) Decide(analysis *types.JobAnalysis) Decision {
	score := analysis.Score
	if p.TargetRole != "" && !analysis.RoleMatch {
		score -= p.MismatchPenalty
		if score < 0 {
			score = 0
		}
	}

	if score < p.Threshold {
		return Decision{
			AdjustedScore: score,
			Reason:        fmt.Sprintf("score %d below threshold %d", score, p.Threshold),
		}
	}

	switch analysis.WorkMode {
	case types.WorkModeRemote:
		if !p.AllowRemote {
			return Decision{AdjustedScore: score, Reason: "remote jobs not allowed"}
		}
	case types.WorkModeHybrid:
		if !p.AllowHybrid {
			return Decision{AdjustedScore: score, Reason: "hybrid jobs not allowed"}
		}
	case types.WorkModeOnsite:
		if p.MaxDistanceKM <= 0 {
			return Decision{AdjustedScore: score, Reason: "onsite jobs out of range"}
		}
	}

	return Decision{Accept: true, AdjustedScore: score, Reason: analysis.Reason}
}
