package stage

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/first5/first5/pkg/config"
	"github.com/first5/first5/pkg/heuristics"
	"github.com/first5/first5/pkg/models"
	"github.com/first5/first5/pkg/reasoning"
)

const (
	keywordConfidence = 0.7
	defaultConfidence = 0.4
)

// Intake normalizes the free-text task into the shape every later stage
// consumes. The reasoning call is advisory; deadline normalization and the
// user-urgency override are always applied locally so the contract invariants
// hold regardless of source.
type Intake struct {
	gateway  reasoning.Gateway
	limits   config.Limits
	validate *validator.Validate
	logger   *slog.Logger
}

func NewIntake(gateway reasoning.Gateway, limits config.Limits, validate *validator.Validate, logger *slog.Logger) *Intake {
	return &Intake{gateway: gateway, limits: limits, validate: validate, logger: logger}
}

type intakeOutput struct {
	Normalized models.NormalizedTask   `json:"normalized"`
	Heuristics models.IntakeHeuristics `json:"heuristics"`
}

// Run produces the normalized task, the intake heuristics record, and the
// source tag.
func (s *Intake) Run(ctx context.Context, rc RunContext) (models.NormalizedTask, models.IntakeHeuristics, Source) {
	input := rc.Input

	payload := map[string]any{
		"task": input.Task,
		"hints": map[string]any{
			"userDeadline":      input.UserDeadline,
			"userUrgency":       input.UserUrgency,
			"timezone":          input.Timezone,
			"minutesAvailable":  input.MinutesAvailable,
			"preferredPlace":    input.PreferredPlace,
			"requiredResources": input.RequiredResources,
			"notes":             input.Notes,
		},
	}

	var out intakeOutput

	err := generateInto(ctx, s.gateway, reasoning.StructuredRequest{
		Stage:  string(KindIntake),
		Schema: intakeSchema(),
		System: intakeSystem,
		Prompt: promptPayload(payload, "自由入力のタスクを正規化し、分類と緊急度の根拠を記録する。"),
	}, &out)
	if err == nil {
		normalized := s.enforceInvariants(out.Normalized, input, rc.Now)

		err = s.checkOutput(&normalized, &out.Heuristics)
		if err == nil {
			return normalized, out.Heuristics, SourceReasoning
		}
	}

	s.logger.ErrorContext(ctx, "Intake reasoning call failed, using heuristics",
		"stage", string(KindIntake), "error", err)

	normalized, heur := s.fallback(input, rc.Now)

	return normalized, heur, SourceHeuristic
}

// enforceInvariants overrides fields the reasoning service cannot be trusted
// with: the trimmed intent, the locally normalized UTC deadline, the
// user-urgency precedence, and resource deduplication.
func (s *Intake) enforceInvariants(normalized models.NormalizedTask, input models.WorkflowInput, now time.Time) models.NormalizedTask {
	normalized.Intent = strings.TrimSpace(input.Task)
	normalized.Deadline = heuristics.NormalizeDeadline(input.UserDeadline, input.Timezone)
	normalized.Timezone = input.Timezone

	if input.UserUrgency != "" {
		normalized.UrgencyFinal = input.UserUrgency
	}

	normalized.Constraints.Resources = heuristics.Dedupe(compactStrings(normalized.Constraints.Resources))
	if normalized.Constraints.Resources == nil {
		normalized.Constraints.Resources = []string{}
	}

	if normalized.UrgencySuggested == "" {
		normalized.UrgencySuggested = heuristics.InferUrgency(input.Task, normalized.Deadline, input.UserUrgency, now)
	}

	return normalized
}

func (s *Intake) checkOutput(normalized *models.NormalizedTask, heur *models.IntakeHeuristics) error {
	if err := s.validate.Struct(normalized); err != nil {
		return err
	}

	if err := s.validate.Struct(heur); err != nil {
		return err
	}

	return normalized.Validate()
}

func (s *Intake) fallback(input models.WorkflowInput, now time.Time) (models.NormalizedTask, models.IntakeHeuristics) {
	classification := heuristics.ClassifyTask(input.Task)
	deadline := heuristics.NormalizeDeadline(input.UserDeadline, input.Timezone)
	urgencySuggested := heuristics.InferUrgency(input.Task, deadline, input.UserUrgency, now)
	horizon := heuristics.InferHorizon(deadline, input.MinutesAvailable, classification.Type, now)

	resources := heuristics.Dedupe(compactStrings(input.RequiredResources))

	timeLimit := ""
	if input.MinutesAvailable > 0 {
		timeLimit = fmt.Sprintf("%dm", input.MinutesAvailable)
	}

	normalized := models.NormalizedTask{
		Intent:           strings.TrimSpace(input.Task),
		Type:             classification.Type,
		Deadline:         deadline,
		Timezone:         input.Timezone,
		UrgencySuggested: urgencySuggested,
		UrgencyFinal:     input.UserUrgency,
		Horizon:          horizon,
		Constraints: models.Constraints{
			TimeLimit: timeLimit,
			Place:     input.PreferredPlace,
			Resources: resources,
		},
		Notes: input.Notes,
	}

	confidence := defaultConfidence
	if len(classification.DetectedKeywords) > 0 {
		confidence = keywordConfidence
	}

	deadlineLine := "期限: 未設定"
	if deadline != nil {
		deadlineLine = "期限: " + heuristics.FormatDeadline(*deadline, input.Timezone)
	}

	heur := models.IntakeHeuristics{
		DetectedKeywords: classification.DetectedKeywords,
		Confidence:       confidence,
		Rationale: []string{
			"分類: " + normalized.Type.Label(),
			deadlineLine,
			"推奨緊急度: " + urgencySuggested.Label(),
			"想定タイムスパン: " + horizon.Label(),
		},
	}

	return normalized, heur
}

func compactStrings(values []string) []string {
	result := make([]string, 0, len(values))

	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
