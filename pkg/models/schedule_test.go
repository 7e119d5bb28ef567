package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scheduleFixture() SchedulingPlan {
	start := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)

	return SchedulingPlan{
		Title:           "確定申告の準備",
		Timezone:        "Asia/Tokyo",
		DurationMinutes: 60,
		Primary: Slot{
			Start:  start,
			End:    start.Add(60 * time.Minute),
			Label:  "メインブロック",
			Reason: "期限前に着手",
		},
		Fallbacks: []Slot{
			{
				Start:  start.Add(24 * time.Hour),
				End:    start.Add(25 * time.Hour),
				Label:  "第2候補",
				Reason: "翌日午前",
			},
		},
		CalendarNote: "note",
		FollowUps:    []string{"実際に確保できる時間を決める"},
	}
}

func TestSchedulingPlanValidate(t *testing.T) {
	t.Run("consistent plan passes", func(t *testing.T) {
		plan := scheduleFixture()

		require.NoError(t, plan.Validate())
	})

	t.Run("primary slot span must equal the duration", func(t *testing.T) {
		plan := scheduleFixture()
		plan.Primary.End = plan.Primary.Start.Add(45 * time.Minute)

		assert.Error(t, plan.Validate())
	})

	t.Run("fallback slot span must equal the duration", func(t *testing.T) {
		plan := scheduleFixture()
		plan.Fallbacks[0].End = plan.Fallbacks[0].Start.Add(90 * time.Minute)

		assert.Error(t, plan.Validate())
	})

	t.Run("zero slot times are rejected", func(t *testing.T) {
		plan := scheduleFixture()
		plan.Primary = Slot{Label: "メインブロック", Reason: "r"}

		assert.Error(t, plan.Validate())
	})

	t.Run("duplicate follow-ups are rejected", func(t *testing.T) {
		plan := scheduleFixture()
		plan.FollowUps = append(plan.FollowUps, plan.FollowUps[0])

		assert.Error(t, plan.Validate())
	})
}

func TestCoachingPlanValidate(t *testing.T) {
	plan := CoachingPlan{
		Script: "1. start",
		Checkpoints: []Checkpoint{
			{Label: "登録", MinutesOffset: 0},
			{Label: "言語化", MinutesOffset: 2},
			{Label: "完了", MinutesOffset: 7},
		},
	}

	require.NoError(t, plan.Validate())

	plan.Checkpoints[2].MinutesOffset = 1

	assert.Error(t, plan.Validate())
}
