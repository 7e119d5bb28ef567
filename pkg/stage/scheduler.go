package stage

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/first5/first5/pkg/config"
	"github.com/first5/first5/pkg/heuristics"
	"github.com/first5/first5/pkg/models"
	"github.com/first5/first5/pkg/reasoning"
)

// Scheduler recommends calendar placement: one primary slot anchored to the
// deadline (or an early start when there is none) plus two next-day fallback
// slots, all spanning the same duration.
type Scheduler struct {
	gateway  reasoning.Gateway
	limits   config.Limits
	validate *validator.Validate
	logger   *slog.Logger
}

func NewScheduler(gateway reasoning.Gateway, limits config.Limits, validate *validator.Validate, logger *slog.Logger) *Scheduler {
	return &Scheduler{gateway: gateway, limits: limits, validate: validate, logger: logger}
}

// Run produces the scheduling plan and its source tag. Follow-ups are always
// rebuilt locally so they stay consistent with the interview and plan even
// when the reasoning service supplied the slots.
func (s *Scheduler) Run(ctx context.Context, rc RunContext) (models.SchedulingPlan, Source) {
	payload := map[string]any{
		"normalized": rc.Normalized,
		"interview":  rc.Interview,
		"plan":       rc.Plan,
		"history":    historyOrEmpty(rc.History),
	}

	var scheduling models.SchedulingPlan

	err := generateInto(ctx, s.gateway, reasoning.StructuredRequest{
		Stage:  string(KindScheduler),
		Schema: schedulingSchema(),
		System: schedulerSystem,
		Prompt: promptPayload(payload, "タスクをカレンダーに落とし込むための最適な時間帯と準備事項を提案する。日本語で出力し、ISO8601 形式の日付を返す。"),
	}, &scheduling)
	if err == nil {
		scheduling.FollowUps = s.buildFollowUps(rc.Normalized, &rc.Interview, rc.Plan)

		err = s.checkOutput(&scheduling)
		if err == nil {
			return scheduling, SourceReasoning
		}
	}

	s.logger.ErrorContext(ctx, "Scheduler reasoning call failed, using heuristics",
		"stage", string(KindScheduler), "error", err, "intent", rc.Normalized.Intent)

	return s.buildFallback(rc.Normalized, rc.Interview, rc.Plan, rc.Now), SourceHeuristic
}

func (s *Scheduler) checkOutput(scheduling *models.SchedulingPlan) error {
	if err := s.validate.Struct(scheduling); err != nil {
		return err
	}

	return scheduling.Validate()
}

// pickDuration prefers an explicit time-limit constraint, clamped to the
// configured bounds; otherwise the urgency-keyed block length.
func (s *Scheduler) pickDuration(normalized models.NormalizedTask) int {
	if parsed := heuristics.ParseTimeLimitMinutes(normalized.Constraints.TimeLimit); parsed > 0 {
		return heuristics.ClampMinutes(parsed,
			s.limits.MinConstrainedBlockMinutes, s.limits.MaxConstrainedBlockMinutes)
	}

	return s.limits.BlockMinutes(string(normalized.Urgency()))
}

func (s *Scheduler) buildFallback(normalized models.NormalizedTask, interview models.Interview, plan models.Plan, now time.Time) models.SchedulingPlan {
	durationMinutes := s.pickDuration(normalized)
	duration := time.Duration(durationMinutes) * time.Minute

	timezone := normalized.Timezone
	if timezone == "" {
		timezone = "UTC"
	}

	loc, err := time.LoadLocation(timezone)
	if err != nil {
		timezone = "UTC"
		loc = time.UTC
	}

	localNow := now.In(loc)

	anchor := localNow.Add(s.limits.AnchorLead())
	if normalized.Deadline != nil {
		anchor = normalized.Deadline.In(loc)
	}

	start := heuristics.SnapToHour(anchor.Add(-s.limits.StartLead()))
	if start.Before(localNow.Add(s.limits.MinBuffer())) {
		start = heuristics.SnapToHour(localNow.Add(s.limits.MinBuffer()))
	}

	start = heuristics.SnapToHalfHour(start)
	// Snapping only adjusts minutes; re-check the buffer afterwards.
	start = heuristics.EnsureBuffer(start, localNow, s.limits.MinBuffer())

	primaryReason := "最初のまとまった時間として早期に着手"
	if normalized.Deadline != nil {
		primaryReason = "期限の24時間前に着手してリスクを減らす"
	}

	primary := models.Slot{
		Start:  start,
		End:    start.Add(duration),
		Label:  "メインブロック",
		Reason: primaryReason,
	}

	nextDay := start.AddDate(0, 0, 1)
	morning := heuristics.AtDayPart(nextDay, 9, 0)
	evening := heuristics.AtDayPart(nextDay, 19, 0)

	fallbacks := []models.Slot{
		{
			Start:  morning,
			End:    morning.Add(duration),
			Label:  "第2候補",
			Reason: "翌日の午前帯で静かな時間を確保",
		},
		{
			Start:  evening,
			End:    evening.Add(duration),
			Label:  "第3候補",
			Reason: "就業後や家事後に集中できる時間帯",
		},
	}

	preparation := make([]string, 0, 3)
	if len(normalized.Constraints.Resources) > 0 {
		preparation = append(preparation, "事前に準備する: "+strings.Join(normalized.Constraints.Resources, ", "))
	}

	if normalized.Constraints.TimeLimit == "" {
		preparation = append(preparation, "所要時間をカレンダー概要にメモし、終了後に実績を記録")
	}

	preparation = append(preparation, "ブロック説明に完了条件と次アクションへのリンクを記載")

	lastDone := "最初の5分完了"
	stepTitles := make([]string, 0, len(plan.Steps))

	for _, step := range plan.Steps {
		stepTitles = append(stepTitles, step.Title)
	}

	if last := plan.LastStep(); last != nil {
		lastDone = last.DefinitionOfDone
	}

	calendarNote := strings.Join([]string{
		"目的: " + normalized.Intent,
		"種類: " + normalized.Type.Label(),
		"完了条件: " + lastDone,
		"参考ステップ: " + strings.Join(stepTitles, " → "),
	}, "\n")

	return models.SchedulingPlan{
		Title:           normalized.Intent,
		Timezone:        timezone,
		DurationMinutes: durationMinutes,
		Primary:         primary,
		Fallbacks:       fallbacks,
		Preparation:     preparation,
		CalendarNote:    calendarNote,
		FollowUps:       s.buildFollowUps(normalized, &interview, plan),
	}
}

func (s *Scheduler) buildFollowUps(normalized models.NormalizedTask, interview *models.Interview, plan models.Plan) []string {
	followUps := make([]string, 0, 4)

	if interview != nil {
		followUps = append(followUps, interview.FollowUps...)
	}

	if normalized.Constraints.TimeLimit == "" {
		followUps = append(followUps, "実際に確保できる時間を決める")
	}

	if len(plan.Steps) > s.limits.FollowUpStepThreshold {
		followUps = append(followUps, "ブロッカーを1つ解消するための15分タスクを追記")
	}

	return heuristics.Dedupe(followUps)
}
