package stage

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/first5/first5/pkg/config"
	"github.com/first5/first5/pkg/heuristics"
	"github.com/first5/first5/pkg/models"
	"github.com/first5/first5/pkg/reasoning"
)

// Coach turns the full run context into a numbered kickoff script, nudges,
// and a checkpoint timeline for the first minutes of the work block.
type Coach struct {
	gateway  reasoning.Gateway
	limits   config.Limits
	validate *validator.Validate
	logger   *slog.Logger
}

func NewCoach(gateway reasoning.Gateway, limits config.Limits, validate *validator.Validate, logger *slog.Logger) *Coach {
	return &Coach{gateway: gateway, limits: limits, validate: validate, logger: logger}
}

// Run produces the coaching plan and its source tag.
func (s *Coach) Run(ctx context.Context, rc RunContext) (models.CoachingPlan, Source) {
	payload := map[string]any{
		"normalized": rc.Normalized,
		"interview":  rc.Interview,
		"plan":       rc.Plan,
		"review":     rc.Review,
		"scheduling": rc.Scheduling,
		"history":    historyOrEmpty(rc.History),
	}

	var coaching models.CoachingPlan

	err := generateInto(ctx, s.gateway, reasoning.StructuredRequest{
		Stage:  string(KindCoach),
		Schema: coachingSchema(),
		System: coachSystem,
		Prompt: promptPayload(payload, "ユーザーがその場でカレンダー登録と最初の5分の着手まで進められるよう、手順とナッジ、チェックポイントを日本語で出力する。"),
	}, &coaching)
	if err == nil {
		err = s.checkOutput(&coaching)
		if err == nil {
			return coaching, SourceReasoning
		}
	}

	s.logger.ErrorContext(ctx, "Coach reasoning call failed, using heuristics",
		"stage", string(KindCoach), "error", err, "intent", rc.Normalized.Intent)

	return s.buildFallback(rc), SourceHeuristic
}

func (s *Coach) checkOutput(coaching *models.CoachingPlan) error {
	if err := s.validate.Struct(coaching); err != nil {
		return err
	}

	return coaching.Validate()
}

func (s *Coach) buildFallback(rc RunContext) models.CoachingPlan {
	normalized := rc.Normalized
	scheduling := rc.Scheduling

	kickoff := rc.Plan.FindStep(KickoffStepID)
	if kickoff == nil {
		kickoff = rc.Plan.LastStep()
	}

	actions := []string{
		"推奨時間に合わせてカレンダーを開き、予定「" + scheduling.Title + "」を作成する。",
		"予定メモに以下を貼り付ける:\n" + scheduling.CalendarNote,
		"5分タイマーをセットし、「" + normalized.Intent + "のゴールは○○」と声に出す。",
	}

	if kickoff != nil {
		actions = append(actions, "キックオフ行動: "+kickoff.Title+" — "+kickoff.Description)
	}

	if len(normalized.Constraints.Resources) > 0 {
		actions = append(actions,
			"必要な資料を確認: "+strings.Join(normalized.Constraints.Resources, ", ")+"（揃っていればチェック）。")
	}

	if len(rc.Interview.Questions) > 0 {
		actions = append(actions, "ヒアリング項目に回答し、未確定事項を埋めてから次のステップへ進む。")
	}

	actions = append(actions, "気づいたブロッカーをメモアプリなどに記録し、次回以降の入力に活用する。")

	lines := make([]string, 0, len(actions))
	for i, action := range actions {
		lines = append(lines, fmt.Sprintf("%d. %s", i+1, action))
	}

	nudges := []string{
		"推薦スロット: " + heuristics.FormatDeadline(scheduling.Primary.Start, scheduling.Timezone) +
			"〜" + heuristics.FormatDeadline(scheduling.Primary.End, scheduling.Timezone) +
			" (" + scheduling.Timezone + ")",
		"タイマーを視界に入れて5分で区切る意識を保つ。",
		"キックオフが終わったらアプリに進捗を記録し、履歴に残す。",
	}

	if normalized.Urgency() == models.UrgencyHigh {
		nudges = append(nudges, "キックオフ直後に次の作業ブロックをカレンダーへ追加する。")
	}

	if len(rc.Review.Issues) > 0 {
		nudges = append(nudges, "レビューで指摘された課題を解消してから次に進む。")
	}

	checkpoints := []models.Checkpoint{
		{Label: "予定をカレンダー登録", MinutesOffset: 0},
		{Label: "ゴールを言語化", MinutesOffset: 2},
		{Label: "キックオフ完了", MinutesOffset: 7},
	}

	if normalized.Deadline != nil {
		checkpoints = append(checkpoints, models.Checkpoint{Label: "作業時間を確保", MinutesOffset: 15})
	}

	return models.CoachingPlan{
		Script:      strings.Join(lines, "\n"),
		Nudges:      nudges,
		Checkpoints: checkpoints,
	}
}
