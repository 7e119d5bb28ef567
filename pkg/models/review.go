package models

import "fmt"

// RiskLevel is the totally ordered risk lattice low < medium < high.
// Review rules may only move the level upward.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

var riskOrdering = map[RiskLevel]int{
	RiskLow:    0,
	RiskMedium: 1,
	RiskHigh:   2,
}

// AtLeast reports whether r is at or above the given level.
func (r RiskLevel) AtLeast(other RiskLevel) bool {
	return riskOrdering[r] >= riskOrdering[other]
}

// IssueSeverity grades a single review finding.
type IssueSeverity string

const (
	SeverityInfo    IssueSeverity = "info"
	SeverityWarning IssueSeverity = "warning"
	SeverityError   IssueSeverity = "error"
)

// Issue is one finding raised by the critic.
type Issue struct {
	ID         string        `json:"id"       validate:"required"`
	Message    string        `json:"message"  validate:"required"`
	Severity   IssueSeverity `json:"severity" validate:"required,oneof=info warning error"`
	Suggestion string        `json:"suggestion,omitempty"`
}

// CriticReport is the critic stage's artifact: the aggregated risk level,
// the individual findings, and what was explicitly checked off.
type CriticReport struct {
	RiskLevel RiskLevel `json:"riskLevel" validate:"required,oneof=low medium high"`
	Issues    []Issue   `json:"issues"    validate:"dive"`
	Approvals []string  `json:"approvals"`
}

// Validate checks the risk level is a known lattice member.
func (c *CriticReport) Validate() error {
	if _, ok := riskOrdering[c.RiskLevel]; !ok {
		return fmt.Errorf("unknown risk level %q", c.RiskLevel)
	}

	return nil
}
