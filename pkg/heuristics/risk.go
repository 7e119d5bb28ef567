package heuristics

import "github.com/first5/first5/pkg/models"

// EscalateRisk moves current up to target if target is higher. It never
// lowers the level, which keeps every rule application monotonic.
func EscalateRisk(current, target models.RiskLevel) models.RiskLevel {
	if target.AtLeast(current) {
		return target
	}

	return current
}

// UrgencyToRisk maps the urgency scale onto the risk lattice.
func UrgencyToRisk(urgency models.Urgency) models.RiskLevel {
	switch urgency {
	case models.UrgencyHigh:
		return models.RiskHigh
	case models.UrgencyMid:
		return models.RiskMedium
	default:
		return models.RiskLow
	}
}
