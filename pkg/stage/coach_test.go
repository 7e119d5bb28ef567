package stage

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/first5/first5/pkg/config"
	"github.com/first5/first5/pkg/models"
	"github.com/first5/first5/pkg/reasoning"
)

func runCoach(t *testing.T, input models.WorkflowInput) models.CoachingPlan {
	t.Helper()

	rc := fallbackContext(input)
	coach := NewCoach(reasoning.Disabled{}, config.Default(), testValidate(), testLogger())

	coaching, source := coach.Run(t.Context(), rc)
	assert.Equal(t, SourceHeuristic, source)

	return coaching
}

func TestCoachFallback(t *testing.T) {
	t.Run("script is a numbered sequence ending in blocker capture", func(t *testing.T) {
		coaching := runCoach(t, models.WorkflowInput{Task: "確定申告の準備"})

		lines := strings.Split(coaching.Script, "\n")
		require.NotEmpty(t, lines)
		assert.True(t, strings.HasPrefix(lines[0], "1. "))
		assert.Contains(t, coaching.Script, "5分タイマー")
		assert.Contains(t, coaching.Script, "ブロッカー")

		require.NoError(t, coaching.Validate())
	})

	t.Run("script references the kickoff step", func(t *testing.T) {
		coaching := runCoach(t, models.WorkflowInput{Task: "確定申告の準備"})

		assert.Contains(t, coaching.Script, "キックオフ行動")
		assert.Contains(t, coaching.Script, "最初の5分")
	})

	t.Run("resources get a confirmation action", func(t *testing.T) {
		coaching := runCoach(t, models.WorkflowInput{
			Task:              "確定申告の準備",
			RequiredResources: []string{"源泉徴収票"},
		})

		assert.Contains(t, coaching.Script, "源泉徴収票")
	})

	t.Run("nudges announce the recommended slot", func(t *testing.T) {
		coaching := runCoach(t, models.WorkflowInput{Task: "確定申告の準備"})

		require.NotEmpty(t, coaching.Nudges)
		assert.Contains(t, coaching.Nudges[0], "推薦スロット")
		assert.Contains(t, coaching.Nudges[0], "〜")
	})

	t.Run("high urgency adds a momentum nudge", func(t *testing.T) {
		coaching := runCoach(t, models.WorkflowInput{
			Task:        "確定申告の準備",
			UserUrgency: models.UrgencyHigh,
		})

		assert.Contains(t, coaching.Nudges, "キックオフ直後に次の作業ブロックをカレンダーへ追加する。")
	})

	t.Run("checkpoints are ordered and deadline adds one", func(t *testing.T) {
		withoutDeadline := runCoach(t, models.WorkflowInput{Task: "確定申告の準備"})
		assert.Len(t, withoutDeadline.Checkpoints, 3)

		withDeadline := runCoach(t, models.WorkflowInput{
			Task:         "確定申告の準備",
			UserDeadline: "2026-03-10",
		})
		require.Len(t, withDeadline.Checkpoints, 4)
		assert.Equal(t, 15, withDeadline.Checkpoints[3].MinutesOffset)

		require.NoError(t, withDeadline.Validate())
	})
}
