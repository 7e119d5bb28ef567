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

// Interview identifies what is missing before the plan can be trusted and
// manages a single clarifying round: once the history shows an
// assistant-asked question, the interview is considered resolved.
type Interview struct {
	gateway  reasoning.Gateway
	limits   config.Limits
	validate *validator.Validate
	logger   *slog.Logger
}

func NewInterview(gateway reasoning.Gateway, limits config.Limits, validate *validator.Validate, logger *slog.Logger) *Interview {
	return &Interview{gateway: gateway, limits: limits, validate: validate, logger: logger}
}

// Run produces the interview state and its source tag.
func (s *Interview) Run(ctx context.Context, rc RunContext) (models.Interview, Source) {
	payload := map[string]any{
		"normalized": rc.Normalized,
		"history":    historyOrEmpty(rc.History),
	}

	var interview models.Interview

	err := generateInto(ctx, s.gateway, reasoning.StructuredRequest{
		Stage:  string(KindInterview),
		Schema: interviewSchema(),
		System: interviewSystem,
		Prompt: promptPayload(payload, "ユーザーの短い入力から、行動開始に不足している前提や質問を構造化し、実行準備の信頼度を評価する。"),
	}, &interview)
	if err == nil {
		normalized := s.normalize(interview, rc.History)

		err = s.checkOutput(&normalized)
		if err == nil {
			return normalized, SourceReasoning
		}
	}

	s.logger.ErrorContext(ctx, "Interview reasoning call failed, using heuristics",
		"stage", string(KindInterview), "error", err, "intent", rc.Normalized.Intent)

	fallback := s.normalize(s.buildFallback(rc.Normalized), rc.History)
	fallback = s.alignConfidence(fallback)

	return fallback, SourceHeuristic
}

// normalize applies the single-round rule to interview content from either
// source: a prior assistant question resolves the interview; otherwise
// essential gaps block, and optional gaps are demoted to follow-ups.
func (s *Interview) normalize(interview models.Interview, history []models.ConversationMessage) models.Interview {
	essential := make([]string, 0, len(interview.Gaps))
	optional := make([]string, 0, len(interview.Gaps))

	for _, gap := range interview.Gaps {
		if gapIsEssential(gap) {
			essential = append(essential, gap)
		} else {
			optional = append(optional, gap)
		}
	}

	interview.FollowUps = heuristics.Dedupe(append(optional, interview.FollowUps...))
	interview.NextQuestion = ""

	askedQuestions := 0
	for _, message := range history {
		if message.Role == "assistant" {
			askedQuestions++
		}
	}

	switch {
	case askedQuestions >= 1:
		interview.Status = models.InterviewStatusReady
		interview.Gaps = []string{}
	case len(essential) > 0:
		interview.Status = models.InterviewStatusNeedsInput
		interview.Gaps = essential
		interview.NextQuestion = findQuestionPrompt(interview.Questions, essential[0])
	default:
		interview.Status = models.InterviewStatusReady
		interview.Gaps = []string{}
	}

	return interview
}

// alignConfidence keeps the fallback path's confidence consistent with its
// status even when history-based resolution flipped the status after the
// fallback content was built.
func (s *Interview) alignConfidence(interview models.Interview) models.Interview {
	if interview.Status == models.InterviewStatusReady {
		interview.Confidence = s.limits.ReadyConfidence
	} else {
		interview.Confidence = s.limits.NeedsInputConfidence
	}

	return interview
}

func (s *Interview) checkOutput(interview *models.Interview) error {
	if err := s.validate.Struct(interview); err != nil {
		return err
	}

	return interview.Validate()
}

func (s *Interview) buildFallback(normalized models.NormalizedTask) models.Interview {
	questions := make([]models.InterviewQuestion, 0, 5)
	assumptions := make([]string, 0, 6)
	gaps := make([]string, 0, 4)

	assumptions = append(assumptions,
		normalized.Type.Label()+"タスク。緊急度は"+normalized.Urgency().Label()+
			"、想定スパンは"+normalized.Horizon.Label()+"。")

	if normalized.Deadline != nil {
		assumptions = append(assumptions, "期限は"+heuristics.FormatDeadline(*normalized.Deadline, normalized.Timezone)+"。")
	} else {
		questions = append(questions, models.InterviewQuestion{
			ID:      "confirm-deadline",
			Prompt:  "このタスクを現実的に完了したい期限はいつですか？",
			Purpose: "期限を確定して優先度とスケジュール調整を行うため",
			Field:   models.FieldDeadline,
		})
		assumptions = append(assumptions, "期限は未確定。UIで設定が必要。")
		gaps = append(gaps, string(models.FieldDeadline))
	}

	if normalized.Constraints.TimeLimit != "" {
		assumptions = append(assumptions, "想定作業時間: "+normalized.Constraints.TimeLimit)
	} else {
		questions = append(questions, models.InterviewQuestion{
			ID:              "estimate-effort",
			Prompt:          "まとまった作業時間はどれくらい確保できますか？（例：30分/60分など）",
			Purpose:         "カレンダーで確保する時間枠を推奨するため",
			Field:           models.FieldTimeAllocation,
			SuggestedAnswer: "30分〜60分",
		})
		assumptions = append(assumptions, "想定作業時間は不明。")
		gaps = append(gaps, string(models.FieldTimeAllocation))
	}

	if normalized.Constraints.Place != "" {
		assumptions = append(assumptions, "想定作業場所: "+normalized.Constraints.Place)
	} else {
		questions = append(questions, models.InterviewQuestion{
			ID:      "confirm-place",
			Prompt:  "作業する場所や環境に制約はありますか？（自宅/オフィス/オンラインなど）",
			Purpose: "リソース準備とカレンダーの場所設定に反映するため",
			Field:   models.FieldPlace,
		})
		assumptions = append(assumptions, "場所は未指定。")
		gaps = append(gaps, string(models.FieldPlace))
	}

	if len(normalized.Constraints.Resources) == 0 {
		questions = append(questions, models.InterviewQuestion{
			ID:      "discover-resources",
			Prompt:  "事前に用意すべき資料やアカウントはありますか？",
			Purpose: "リソース準備ステップを正確にするため",
			Field:   models.FieldResources,
		})
		assumptions = append(assumptions, "特別な資料は未登録。")
		gaps = append(gaps, string(models.FieldResources))
	} else {
		assumptions = append(assumptions, "必要な資料: "+strings.Join(normalized.Constraints.Resources, ", "))
	}

	questions = append(questions, models.InterviewQuestion{
		ID:              "calendar-window",
		Prompt:          "カレンダーに入れやすい時間帯（午前/午後/夜など）はありますか？",
		Purpose:         "候補スロットの提案精度を高めるため",
		Field:           models.FieldCalendar,
		SuggestedAnswer: "平日午前",
	})

	status := models.InterviewStatusReady
	confidence := s.limits.ReadyConfidence

	hasEssential := false
	for _, gap := range gaps {
		if gapIsEssential(gap) {
			hasEssential = true
		}
	}

	if hasEssential {
		status = models.InterviewStatusNeedsInput
		confidence = s.limits.NeedsInputConfidence
	}

	goalDeadline := "現実的な期限"
	if normalized.Deadline != nil {
		goalDeadline = "期限(" + heuristics.FormatDeadline(*normalized.Deadline, normalized.Timezone) + ")"
	}

	summary := "目的: 「" + normalized.Intent + "」を実行可能なステップに分解し、カレンダーへ即登録できる状態にする。\n" +
		strings.Join(assumptions, " ")

	return models.Interview{
		Summary:     summary,
		Goal:        "「" + normalized.Intent + "」を" + goalDeadline + "までに完了する",
		Assumptions: assumptions,
		Questions:   questions,
		Status:      status,
		Confidence:  confidence,
		Gaps:        gaps,
		FollowUps:   []string{},
	}
}

func gapIsEssential(gap string) bool {
	for _, essential := range models.EssentialGaps {
		if gap == essential {
			return true
		}
	}

	return false
}

func findQuestionPrompt(questions []models.InterviewQuestion, gap string) string {
	for _, question := range questions {
		if string(question.Field) == gap {
			return question.Prompt
		}
	}

	return ""
}

func historyOrEmpty(history []models.ConversationMessage) []models.ConversationMessage {
	if history == nil {
		return []models.ConversationMessage{}
	}

	return history
}

