package stage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/first5/first5/pkg/config"
	"github.com/first5/first5/pkg/models"
	"github.com/first5/first5/pkg/reasoning"
)

func TestIntakeFallback(t *testing.T) {
	intake := NewIntake(reasoning.Disabled{}, config.Default(), testValidate(), testLogger())

	t.Run("tax preparation task", func(t *testing.T) {
		rc := RunContext{
			Input: models.WorkflowInput{Task: "確定申告の準備をしたい"},
			Now:   testNow(),
		}

		normalized, heur, source := intake.Run(t.Context(), rc)

		assert.Equal(t, SourceHeuristic, source)
		assert.Equal(t, models.TaskTypeProcedure, normalized.Type)
		assert.Equal(t, "確定申告の準備をしたい", normalized.Intent)
		assert.Nil(t, normalized.Deadline)
		assert.Equal(t, models.UrgencyMid, normalized.Urgency())

		assert.InDelta(t, 0.7, heur.Confidence, 0.001)
		require.Len(t, heur.Rationale, 4)
		assert.Equal(t, "分類: 手続き", heur.Rationale[0])
		assert.Equal(t, "期限: 未設定", heur.Rationale[1])
	})

	t.Run("unclassified task has low confidence", func(t *testing.T) {
		rc := RunContext{
			Input: models.WorkflowInput{Task: "友人への手紙"},
			Now:   testNow(),
		}

		normalized, heur, _ := intake.Run(t.Context(), rc)

		assert.Equal(t, models.TaskTypeMisc, normalized.Type)
		assert.InDelta(t, 0.4, heur.Confidence, 0.001)
		assert.Empty(t, heur.DetectedKeywords)
	})

	t.Run("user urgency always wins", func(t *testing.T) {
		rc := RunContext{
			Input: models.WorkflowInput{
				Task:         "来月の資料作成",
				UserUrgency:  models.UrgencyHigh,
				UserDeadline: "2026-04-20",
			},
			Now: testNow(),
		}

		normalized, _, _ := intake.Run(t.Context(), rc)

		assert.Equal(t, models.UrgencyHigh, normalized.UrgencyFinal)
		assert.Equal(t, models.UrgencyHigh, normalized.Urgency())
		// Suggested urgency still reflects the distant deadline.
		assert.Equal(t, models.UrgencyLow, normalized.UrgencySuggested)
	})

	t.Run("deadline normalized to UTC", func(t *testing.T) {
		rc := RunContext{
			Input: models.WorkflowInput{
				Task:         "申請書を提出する",
				UserDeadline: "2026-03-10",
				Timezone:     "Asia/Tokyo",
			},
			Now: testNow(),
		}

		normalized, _, _ := intake.Run(t.Context(), rc)

		require.NotNil(t, normalized.Deadline)
		assert.Equal(t, time.Date(2026, 3, 9, 15, 0, 0, 0, time.UTC), *normalized.Deadline)
		require.NoError(t, normalized.Validate())
	})

	t.Run("constraints carried from input", func(t *testing.T) {
		rc := RunContext{
			Input: models.WorkflowInput{
				Task:              "申請書を提出する",
				MinutesAvailable:  45,
				PreferredPlace:    "自宅",
				RequiredResources: []string{"書類", "書類", " ", "印鑑"},
			},
			Now: testNow(),
		}

		normalized, _, _ := intake.Run(t.Context(), rc)

		assert.Equal(t, "45m", normalized.Constraints.TimeLimit)
		assert.Equal(t, "自宅", normalized.Constraints.Place)
		assert.Equal(t, []string{"書類", "印鑑"}, normalized.Constraints.Resources)
	})
}

func TestIntakeReasoningPath(t *testing.T) {
	gateway := &stubGateway{payload: `{
		"normalized": {
			"intent": "ignored, overridden locally",
			"type": "procedure",
			"urgency_suggested": "mid",
			"horizon": "weekly",
			"constraints": {"resources": ["書類", "書類"]}
		},
		"heuristics": {
			"detectedKeywords": ["確定申告"],
			"confidence": 0.9,
			"rationale": ["分類: 手続き"]
		}
	}`}

	intake := NewIntake(gateway, config.Default(), testValidate(), testLogger())

	rc := RunContext{
		Input: models.WorkflowInput{
			Task:         " 確定申告の準備 ",
			UserDeadline: "2026-03-10T18:00:00+09:00",
			UserUrgency:  models.UrgencyHigh,
		},
		Now: testNow(),
	}

	normalized, heur, source := intake.Run(t.Context(), rc)

	assert.Equal(t, SourceReasoning, source)
	assert.Equal(t, 1, gateway.calls)

	// Locally enforced regardless of what the model returned.
	assert.Equal(t, "確定申告の準備", normalized.Intent)
	require.NotNil(t, normalized.Deadline)
	assert.Equal(t, time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC), *normalized.Deadline)
	assert.Equal(t, models.UrgencyHigh, normalized.UrgencyFinal)
	assert.Equal(t, []string{"書類"}, normalized.Constraints.Resources)

	assert.InDelta(t, 0.9, heur.Confidence, 0.001)
}

func TestIntakeReasoningGarbageFallsBack(t *testing.T) {
	gateway := &stubGateway{payload: `{"normalized": {"intent": ""}, "heuristics": {"confidence": 3}}`}

	intake := NewIntake(gateway, config.Default(), testValidate(), testLogger())

	rc := RunContext{
		Input: models.WorkflowInput{Task: "確定申告の準備"},
		Now:   testNow(),
	}

	normalized, _, source := intake.Run(t.Context(), rc)

	assert.Equal(t, SourceHeuristic, source)
	assert.Equal(t, models.TaskTypeProcedure, normalized.Type)
}
