// Package stage implements the six pipeline stages. Each stage wraps one
// structured-reasoning call with a deterministic heuristic fallback that
// produces the same artifact shape, so a gateway outage degrades quality but
// never fails the run.
package stage

import (
	"context"
	"encoding/json"
	"time"

	"github.com/first5/first5/pkg/models"
	"github.com/first5/first5/pkg/reasoning"
)

// Kind identifies a pipeline stage. The set is closed and the execution
// order is fixed; stages are never registered dynamically.
type Kind string

const (
	KindIntake    Kind = "intake-normalization"
	KindInterview Kind = "interview-elicitation"
	KindPlanner   Kind = "planner-breakdown"
	KindCritic    Kind = "critic-review"
	KindScheduler Kind = "scheduler-recommendation"
	KindCoach     Kind = "coach-script"
)

// Order is the fixed execution order of the pipeline.
var Order = []Kind{
	KindIntake,
	KindInterview,
	KindPlanner,
	KindCritic,
	KindScheduler,
	KindCoach,
}

// Source tags where a stage artifact came from, so callers and tests can
// distinguish degraded runs from nominal ones without inspecting logs.
type Source string

const (
	SourceReasoning Source = "reasoning"
	SourceHeuristic Source = "heuristic"
)

// RunContext is the forward-threaded context record passed by value between
// stages. Each stage reads only the fields produced before it and appends its
// own artifact; no stage observes a later stage's output.
type RunContext struct {
	Input      models.WorkflowInput
	History    []models.ConversationMessage
	Now        time.Time
	Normalized models.NormalizedTask
	Heuristics models.IntakeHeuristics
	Interview  models.Interview
	Plan       models.Plan
	Review     models.CriticReport
	Scheduling models.SchedulingPlan
	Coaching   models.CoachingPlan
}

// generateInto performs a reasoning call and unmarshals the validated JSON
// into out. Any failure is returned for the caller to log and fall back on.
func generateInto(ctx context.Context, gateway reasoning.Gateway, req reasoning.StructuredRequest, out any) error {
	raw, err := gateway.GenerateStructured(ctx, req)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return &reasoning.GatewayError{Stage: req.Stage, Err: err}
	}

	return nil
}

// promptPayload marshals stage context plus guidance for the reasoning call.
func promptPayload(payload map[string]any, goal string) string {
	payload["guidance"] = map[string]any{
		"goal":     goal,
		"language": "Japanese",
	}

	encoded, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "{}"
	}

	return string(encoded)
}
