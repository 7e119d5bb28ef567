package heuristics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/first5/first5/pkg/models"
)

func TestClassifyTask(t *testing.T) {
	tests := []struct {
		name     string
		task     string
		expected models.TaskType
	}{
		{
			name:     "tax filing is a procedure",
			task:     "確定申告の準備",
			expected: models.TaskTypeProcedure,
		},
		{
			name:     "english renewal is a procedure",
			task:     "renew my passport",
			expected: models.TaskTypeProcedure,
		},
		{
			name:     "cleaning is housework",
			task:     "部屋の掃除をする",
			expected: models.TaskTypeHousework,
		},
		{
			name:     "certification study",
			task:     "資格試験のための学習計画",
			expected: models.TaskTypeStudy,
		},
		{
			name:     "client report is work",
			task:     "client report draft",
			expected: models.TaskTypeWork,
		},
		{
			name:     "exercise is health",
			task:     "週3回の運動を始める",
			expected: models.TaskTypeHealth,
		},
		{
			name:     "unmatched text falls back to misc",
			task:     "友人への手紙",
			expected: models.TaskTypeMisc,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ClassifyTask(tt.task)

			assert.Equal(t, tt.expected, result.Type)

			if tt.expected == models.TaskTypeMisc {
				assert.Empty(t, result.DetectedKeywords)
			} else {
				assert.NotEmpty(t, result.DetectedKeywords)
			}
		})
	}
}

func TestClassifyTaskProcedureWinsOverWork(t *testing.T) {
	// Both "申請" and "資料" appear; category order decides.
	result := ClassifyTask("申請資料をまとめる")

	assert.Equal(t, models.TaskTypeProcedure, result.Type)
}

func TestInferUrgency(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	in12h := now.Add(12 * time.Hour)
	in3d := now.Add(72 * time.Hour)
	in2w := now.Add(14 * 24 * time.Hour)

	tests := []struct {
		name        string
		task        string
		deadline    *time.Time
		userUrgency models.Urgency
		expected    models.Urgency
	}{
		{
			name:        "explicit user urgency wins over everything",
			task:        "至急の対応",
			deadline:    &in2w,
			userUrgency: models.UrgencyLow,
			expected:    models.UrgencyLow,
		},
		{
			name:     "deadline within a day is high",
			task:     "のんびりやる",
			deadline: &in12h,
			expected: models.UrgencyHigh,
		},
		{
			name:     "deadline within a week is mid",
			task:     "資料作成",
			deadline: &in3d,
			expected: models.UrgencyMid,
		},
		{
			name:     "distant deadline is low",
			task:     "資料作成",
			deadline: &in2w,
			expected: models.UrgencyLow,
		},
		{
			name:     "urgency keyword without deadline is high",
			task:     "至急、契約書を確認する",
			expected: models.UrgencyHigh,
		},
		{
			name:     "no signals defaults to mid",
			task:     "本を読む",
			expected: models.UrgencyMid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := InferUrgency(tt.task, tt.deadline, tt.userUrgency, now)

			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestInferHorizon(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	tomorrow := now.Add(20 * time.Hour)
	in5d := now.Add(5 * 24 * time.Hour)
	in20d := now.Add(20 * 24 * time.Hour)
	in60d := now.Add(60 * 24 * time.Hour)

	tests := []struct {
		name     string
		deadline *time.Time
		minutes  int
		taskType models.TaskType
		expected models.Horizon
	}{
		{"deadline today", &tomorrow, 0, models.TaskTypeWork, models.HorizonSameDay},
		{"deadline this week", &in5d, 0, models.TaskTypeWork, models.HorizonWeekly},
		{"deadline this month", &in20d, 0, models.TaskTypeWork, models.HorizonMonthly},
		{"deadline beyond a month", &in60d, 0, models.TaskTypeWork, models.HorizonLongTerm},
		{"short session without deadline", nil, 25, models.TaskTypeProcedure, models.HorizonSameDay},
		{"study defaults to weekly", nil, 0, models.TaskTypeStudy, models.HorizonWeekly},
		{"work defaults to weekly", nil, 0, models.TaskTypeWork, models.HorizonWeekly},
		{"health defaults to monthly", nil, 0, models.TaskTypeHealth, models.HorizonMonthly},
		{"misc defaults to long term", nil, 0, models.TaskTypeMisc, models.HorizonLongTerm},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := InferHorizon(tt.deadline, tt.minutes, tt.taskType, now)

			assert.Equal(t, tt.expected, result)
		})
	}
}
