package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func planStep(id string, deps ...string) PlanStep {
	if deps == nil {
		deps = []string{}
	}

	return PlanStep{
		ID:               id,
		Title:            "title " + id,
		Description:      "description " + id,
		DefinitionOfDone: "done " + id,
		EstimatedMinutes: 5,
		DependsOn:        deps,
	}
}

func TestPlanValidate(t *testing.T) {
	t.Run("earlier-only dependencies pass", func(t *testing.T) {
		plan := Plan{
			Steps:   []PlanStep{planStep("a"), planStep("b", "a"), planStep("c", "a", "b")},
			Summary: "summary",
		}

		require.NoError(t, plan.Validate())
	})

	t.Run("duplicate step id is rejected", func(t *testing.T) {
		plan := Plan{
			Steps:   []PlanStep{planStep("a"), planStep("a")},
			Summary: "summary",
		}

		assert.Error(t, plan.Validate())
	})

	t.Run("forward dependency is rejected", func(t *testing.T) {
		plan := Plan{
			Steps:   []PlanStep{planStep("a", "b"), planStep("b")},
			Summary: "summary",
		}

		assert.Error(t, plan.Validate())
	})

	t.Run("self dependency is rejected", func(t *testing.T) {
		plan := Plan{
			Steps:   []PlanStep{planStep("a", "a")},
			Summary: "summary",
		}

		assert.Error(t, plan.Validate())
	})
}

func TestPlanLookups(t *testing.T) {
	plan := Plan{Steps: []PlanStep{planStep("a"), planStep("b", "a")}}

	require.NotNil(t, plan.LastStep())
	assert.Equal(t, "b", plan.LastStep().ID)

	require.NotNil(t, plan.FindStep("a"))
	assert.Nil(t, plan.FindStep("missing"))

	empty := Plan{}
	assert.Nil(t, empty.LastStep())
}
