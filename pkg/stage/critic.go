package stage

import (
	"context"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/first5/first5/pkg/config"
	"github.com/first5/first5/pkg/heuristics"
	"github.com/first5/first5/pkg/models"
	"github.com/first5/first5/pkg/reasoning"
)

// Critic reviews the plan against the normalized task and interview state.
// Fallback rules walk a fixed list and may only escalate risk, never lower it.
type Critic struct {
	gateway  reasoning.Gateway
	limits   config.Limits
	validate *validator.Validate
	logger   *slog.Logger
}

func NewCritic(gateway reasoning.Gateway, limits config.Limits, validate *validator.Validate, logger *slog.Logger) *Critic {
	return &Critic{gateway: gateway, limits: limits, validate: validate, logger: logger}
}

// Run produces the critic report and its source tag.
func (s *Critic) Run(ctx context.Context, rc RunContext) (models.CriticReport, Source) {
	payload := map[string]any{
		"normalized": rc.Normalized,
		"interview":  rc.Interview,
		"plan":       rc.Plan,
		"history":    historyOrEmpty(rc.History),
	}

	var review models.CriticReport

	err := generateInto(ctx, s.gateway, reasoning.StructuredRequest{
		Stage:  string(KindCritic),
		Schema: criticSchema(),
		System: criticSystem,
		Prompt: promptPayload(payload, "プランの妥当性・欠落・リスクを評価し、問題があれば severity と提案を出す。日本語で端的に。"),
	}, &review)
	if err == nil {
		err = s.checkOutput(&review)
		if err == nil {
			return review, SourceReasoning
		}
	}

	s.logger.ErrorContext(ctx, "Critic reasoning call failed, using heuristics",
		"stage", string(KindCritic), "error", err, "intent", rc.Normalized.Intent)

	return s.buildFallback(rc.Normalized, rc.Interview, rc.Plan), SourceHeuristic
}

func (s *Critic) checkOutput(review *models.CriticReport) error {
	if err := s.validate.Struct(review); err != nil {
		return err
	}

	return review.Validate()
}

func (s *Critic) buildFallback(normalized models.NormalizedTask, interview models.Interview, plan models.Plan) models.CriticReport {
	issues := make([]models.Issue, 0, 4)
	riskLevel := models.RiskLow

	urgency := normalized.Urgency()
	riskLevel = heuristics.EscalateRisk(riskLevel, heuristics.UrgencyToRisk(urgency))

	if normalized.Deadline == nil && urgency != models.UrgencyLow {
		issues = append(issues, models.Issue{
			ID:         "missing-deadline",
			Message:    "緊急度が" + urgency.Label() + "のタスクですが期限が設定されていません。",
			Severity:   models.SeverityWarning,
			Suggestion: "確認画面で現実的な期限を入力してください。",
		})
		riskLevel = heuristics.EscalateRisk(riskLevel, models.RiskMedium)
	}

	if len(normalized.Constraints.Resources) > 0 && plan.FindStep(GatherResourcesStepID) == nil {
		issues = append(issues, models.Issue{
			ID:         "resources-not-addressed",
			Message:    "必要なリソースがプラン内で準備されていません。",
			Severity:   models.SeverityError,
			Suggestion: "リソース準備のステップを追加してください。",
		})
		riskLevel = heuristics.EscalateRisk(riskLevel, models.RiskHigh)
	}

	if last := plan.LastStep(); last == nil || last.ID != KickoffStepID {
		issues = append(issues, models.Issue{
			ID:         "missing-kickoff",
			Message:    "プランの末尾に即時着手（最初の5分）のステップがありません。",
			Severity:   models.SeverityWarning,
			Suggestion: "最後に「最初の5分」ステップを追加して勢いを作りましょう。",
		})
		riskLevel = heuristics.EscalateRisk(riskLevel, models.RiskMedium)
	}

	if interview.Status == models.InterviewStatusNeedsInput {
		issues = append(issues, models.Issue{
			ID:         "outstanding-questions",
			Message:    strings.Join(interview.Gaps, "・") + "など不足情報があります。",
			Severity:   models.SeverityWarning,
			Suggestion: "確認欄で回答を入力し、不足情報を埋めてください。",
		})
		riskLevel = heuristics.EscalateRisk(riskLevel, models.RiskMedium)
	}

	deadlineApproval := "期限設定のリマインド"
	if normalized.Deadline != nil {
		deadlineApproval = "期限確認済み"
	}

	return models.CriticReport{
		RiskLevel: riskLevel,
		Issues:    issues,
		Approvals: []string{
			"緊急度: " + urgency.Label(),
			"ブロッカー確認済み",
			deadlineApproval,
		},
	}
}
