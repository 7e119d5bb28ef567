package stage

import (
	"context"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/first5/first5/pkg/config"
	"github.com/first5/first5/pkg/models"
	"github.com/first5/first5/pkg/reasoning"
)

// KickoffStepID is the mandatory final plan step: the smallest possible
// forward motion, done in the first five minutes.
const KickoffStepID = "first-five-minutes"

// GatherResourcesStepID is the optional resource-preparation step the critic
// checks for when required resources are listed.
const GatherResourcesStepID = "gather-resources"

// Planner breaks the task into a capped, dependency-ordered step list ending
// in the kickoff step.
type Planner struct {
	gateway  reasoning.Gateway
	limits   config.Limits
	validate *validator.Validate
	logger   *slog.Logger
}

func NewPlanner(gateway reasoning.Gateway, limits config.Limits, validate *validator.Validate, logger *slog.Logger) *Planner {
	return &Planner{gateway: gateway, limits: limits, validate: validate, logger: logger}
}

// Run produces the plan and its source tag.
func (s *Planner) Run(ctx context.Context, rc RunContext) (models.Plan, Source) {
	payload := map[string]any{
		"normalized": rc.Normalized,
		"interview":  rc.Interview,
		"history":    historyOrEmpty(rc.History),
	}

	var plan models.Plan

	err := generateInto(ctx, s.gateway, reasoning.StructuredRequest{
		Stage:  string(KindPlanner),
		Schema: planSchema(),
		System: plannerSystem,
		Prompt: promptPayload(payload, "不足情報がある場合は最初のステップでその解消を促し、5分以内で着手できるプランを構築する。"),
	}, &plan)
	if err == nil {
		err = s.checkOutput(&plan)
		if err == nil {
			return plan, SourceReasoning
		}
	}

	s.logger.ErrorContext(ctx, "Planner reasoning call failed, using heuristics",
		"stage", string(KindPlanner), "error", err, "intent", rc.Normalized.Intent)

	return s.buildFallback(rc.Normalized, rc.Interview), SourceHeuristic
}

func (s *Planner) checkOutput(plan *models.Plan) error {
	if err := s.validate.Struct(plan); err != nil {
		return err
	}

	return plan.Validate()
}

func (s *Planner) buildFallback(normalized models.NormalizedTask, interview models.Interview) models.Plan {
	steps := make([]models.PlanStep, 0, 6)

	if len(interview.Questions) > 0 {
		prompts := make([]string, 0, len(interview.Questions))
		for _, question := range interview.Questions {
			prompts = append(prompts, "「"+question.Prompt+"」")
		}

		steps = append(steps, models.PlanStep{
			ID:               "capture-answers",
			Title:            "ヒアリング回答を記録する",
			Description:      "以下の問いに答えて不足情報を埋める: " + strings.Join(prompts, " / ") + "。回答はアプリの確認欄またはメモに残す。",
			DefinitionOfDone: "すべてのヒアリング項目に回答が記録され、意思決定が伴っている。",
			EstimatedMinutes: 5,
			DependsOn:        []string{},
		})
	}

	clarifyDeps := []string{}
	if len(steps) > 0 {
		clarifyDeps = []string{steps[len(steps)-1].ID}
	}

	steps = append(steps, models.PlanStep{
		ID:               "clarify-outcome",
		Title:            "ゴールを明確化する",
		Description:      "「" + normalized.Intent + "」の完了状態を1文で説明し、どこまで進めば完了かを確認する。",
		DefinitionOfDone: "目的と完了イメージが3文以内で記録されている。",
		EstimatedMinutes: 5,
		DependsOn:        clarifyDeps,
	})

	steps = append(steps, models.PlanStep{
		ID:               "collect-context",
		Title:            "制約とブロッカーを洗い出す",
		Description:      "必要な資料、関係者、想定される懸念点を箇条書きで整理する。",
		DefinitionOfDone: "制約とブロッカーが記録され、担当者または対応方針が明記されている。",
		EstimatedMinutes: 5,
		DependsOn:        []string{"clarify-outcome"},
	})

	if len(normalized.Constraints.Resources) > 0 {
		steps = append(steps, models.PlanStep{
			ID:               GatherResourcesStepID,
			Title:            "必要な資料を準備する",
			Description:      "以下の資料を揃える: " + strings.Join(normalized.Constraints.Resources, ", ") + "。不足分は代替案やフォローアップタスクを設定する。",
			DefinitionOfDone: "挙げられた資料が手元にある、または取得タスクが登録済み。",
			EstimatedMinutes: 10,
			DependsOn:        []string{"collect-context"},
		})
	}

	if normalized.Deadline != nil {
		priorIDs := make([]string, 0, len(steps))
		for _, step := range steps {
			priorIDs = append(priorIDs, step.ID)
		}

		steps = append(steps, models.PlanStep{
			ID:               "schedule-window",
			Title:            "実行時間を確保する",
			Description:      "期限より余裕をもって集中できる時間をカレンダーに確保し、必要があれば関係者へ招待を送る。",
			DefinitionOfDone: "カレンダーにブロックを登録し、通知やリマインダーを設定済み。",
			EstimatedMinutes: 5,
			DependsOn:        priorIDs,
		})
	}

	steps = append(steps, models.PlanStep{
		ID:               KickoffStepID,
		Title:            "最初の5分を行動に移す",
		Description:      "もっとも小さな前進（例: フォームを開いて必要項目を確認する、資料名をメモする など）を完了する。",
		DefinitionOfDone: "具体的な成果物（メモ、下書き、予約記録など）が残っている。",
		EstimatedMinutes: 5,
		DependsOn:        []string{steps[len(steps)-1].ID},
	})

	summary := normalized.Type.Label() + "タスク向けのプラン。緊急度は" + normalized.Urgency().Label() + "レベルです。\n" +
		"目標: " + interview.Goal + "\n" + interview.Summary

	focus := []string{
		"着手前に制約とブロッカーを解決する",
		"最初の5分で勢いと達成感を作る",
	}

	if normalized.Deadline != nil {
		focus = append(focus, "期限より前に作業時間を押さえて遅延を防ぐ")
	} else {
		focus = append(focus, "期限がなくても定期的に振り返り、前進を確認する")
	}

	if interview.Status == models.InterviewStatusNeedsInput {
		focus = append(focus, "不足情報を補完してから予定を固める")
	}

	return models.Plan{Steps: steps, Summary: summary, Focus: focus}
}
