package heuristics

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/first5/first5/pkg/models"
)

func TestEscalateRisk(t *testing.T) {
	assert.Equal(t, models.RiskHigh, EscalateRisk(models.RiskLow, models.RiskHigh))
	assert.Equal(t, models.RiskMedium, EscalateRisk(models.RiskLow, models.RiskMedium))

	// Never lowers.
	assert.Equal(t, models.RiskHigh, EscalateRisk(models.RiskHigh, models.RiskLow))
	assert.Equal(t, models.RiskMedium, EscalateRisk(models.RiskMedium, models.RiskLow))
}

func TestUrgencyToRisk(t *testing.T) {
	assert.Equal(t, models.RiskHigh, UrgencyToRisk(models.UrgencyHigh))
	assert.Equal(t, models.RiskMedium, UrgencyToRisk(models.UrgencyMid))
	assert.Equal(t, models.RiskLow, UrgencyToRisk(models.UrgencyLow))
}
