package models

import "fmt"

// WorkflowOutput aggregates every stage artifact of one pipeline run.
// It is assembled once, at the end of the run, and never mutated.
type WorkflowOutput struct {
	Normalized NormalizedTask   `json:"normalized"`
	Heuristics IntakeHeuristics `json:"heuristics"`
	Interview  Interview        `json:"interview"`
	Plan       Plan             `json:"plan"`
	Review     CriticReport     `json:"review"`
	Scheduling SchedulingPlan   `json:"scheduling"`
	Coaching   CoachingPlan     `json:"coaching"`
}

// Validate runs every artifact's semantic validation.
func (o *WorkflowOutput) Validate() error {
	checks := []struct {
		name string
		fn   func() error
	}{
		{"normalized", o.Normalized.Validate},
		{"interview", o.Interview.Validate},
		{"plan", o.Plan.Validate},
		{"review", o.Review.Validate},
		{"scheduling", o.Scheduling.Validate},
		{"coaching", o.Coaching.Validate},
	}

	for _, check := range checks {
		if err := check.fn(); err != nil {
			return fmt.Errorf("%s: %w", check.name, err)
		}
	}

	return nil
}
