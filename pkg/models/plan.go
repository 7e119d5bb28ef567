package models

import (
	"fmt"
)

// PlanStep is one actionable step with an explicit definition of done.
// DependsOn references other step IDs within the same plan.
type PlanStep struct {
	ID               string   `json:"id"               validate:"required"`
	Title            string   `json:"title"            validate:"required"`
	Description      string   `json:"description"      validate:"required"`
	DefinitionOfDone string   `json:"definitionOfDone" validate:"required"`
	EstimatedMinutes int      `json:"estimatedMinutes" validate:"required,gt=0,max=60"`
	DependsOn        []string `json:"dependsOn"`
}

// Plan is the planner stage's artifact: an ordered, dependency-linked step list.
type Plan struct {
	Steps   []PlanStep `json:"steps"   validate:"required,min=1,max=8,dive"`
	Summary string     `json:"summary" validate:"required"`
	Focus   []string   `json:"focus"`
}

// LastStep returns the final step, or nil for an empty plan.
func (p *Plan) LastStep() *PlanStep {
	if len(p.Steps) == 0 {
		return nil
	}

	return &p.Steps[len(p.Steps)-1]
}

// FindStep returns the step with the given ID, or nil.
func (p *Plan) FindStep(id string) *PlanStep {
	for i := range p.Steps {
		if p.Steps[i].ID == id {
			return &p.Steps[i]
		}
	}

	return nil
}

// Validate checks that step IDs are unique and that dependencies only reference
// steps that appear earlier in the list. Earlier-only references make the
// dependency graph a DAG by construction.
func (p *Plan) Validate() error {
	seen := make(map[string]struct{}, len(p.Steps))

	for _, step := range p.Steps {
		if _, dup := seen[step.ID]; dup {
			return fmt.Errorf("duplicate step id %q", step.ID)
		}

		for _, dep := range step.DependsOn {
			if dep == step.ID {
				return fmt.Errorf("step %q depends on itself", step.ID)
			}

			if _, ok := seen[dep]; !ok {
				return fmt.Errorf("step %q depends on unknown or later step %q", step.ID, dep)
			}
		}

		seen[step.ID] = struct{}{}
	}

	return nil
}
