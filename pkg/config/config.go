// Package config provides pipeline tuning limits with defaults and YAML overrides.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/first5/first5/pkg/models"
)

// Limits holds every configured bound and constant the heuristic engines use.
// Values not set in an override file keep their defaults.
type Limits struct {
	// MaxTaskMinutes bounds the caller-asserted minutes-available budget and
	// the scheduling block duration.
	MaxTaskMinutes int `yaml:"max_task_minutes"`

	// MaxPlanStepMinutes bounds a single plan step's estimate.
	MaxPlanStepMinutes int `yaml:"max_plan_step_minutes"`

	// MaxPlanSteps bounds the plan length.
	MaxPlanSteps int `yaml:"max_plan_steps"`

	// Urgency-keyed block lengths used when no explicit time limit is given.
	HighUrgencyBlockMinutes int `yaml:"high_urgency_block_minutes"`
	MidUrgencyBlockMinutes  int `yaml:"mid_urgency_block_minutes"`
	LowUrgencyBlockMinutes  int `yaml:"low_urgency_block_minutes"`

	// Clamp bounds applied to an explicit time-limit constraint.
	MinConstrainedBlockMinutes int `yaml:"min_constrained_block_minutes"`
	MaxConstrainedBlockMinutes int `yaml:"max_constrained_block_minutes"`

	// FollowUpStepThreshold: plans longer than this get a blocker-shrinking
	// follow-up appended by the scheduler.
	FollowUpStepThreshold int `yaml:"follow_up_step_threshold"`

	// Interview confidence constants for the fallback path.
	ReadyConfidence      float64 `yaml:"ready_confidence"`
	NeedsInputConfidence float64 `yaml:"needs_input_confidence"`

	// Scheduler timing.
	AnchorLeadHours int `yaml:"anchor_lead_hours"`
	StartLeadHours  int `yaml:"start_lead_hours"`
	MinBufferHours  int `yaml:"min_buffer_hours"`

	// MaxOutputTokens caps reasoning-gateway responses.
	MaxOutputTokens int `yaml:"max_output_tokens"`
}

// Default returns the built-in limits.
func Default() Limits {
	return Limits{
		MaxTaskMinutes:             480,
		MaxPlanStepMinutes:         60,
		MaxPlanSteps:               8,
		HighUrgencyBlockMinutes:    90,
		MidUrgencyBlockMinutes:     60,
		LowUrgencyBlockMinutes:     45,
		MinConstrainedBlockMinutes: 15,
		MaxConstrainedBlockMinutes: 240,
		FollowUpStepThreshold:      4,
		ReadyConfidence:            0.85,
		NeedsInputConfidence:       0.55,
		AnchorLeadHours:            48,
		StartLeadHours:             24,
		MinBufferHours:             2,
		MaxOutputTokens:            1024,
	}
}

// Load reads a YAML override file on top of the defaults. An empty path
// returns the defaults unchanged.
func Load(path string) (Limits, error) {
	limits := Default()

	if path == "" {
		return limits, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return limits, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &limits); err != nil {
		return limits, fmt.Errorf("failed to parse YAML config: %w", err)
	}

	return limits, limits.Validate()
}

// Validate rejects inconsistent overrides.
func (l Limits) Validate() error {
	if l.MaxTaskMinutes <= 0 || l.MaxPlanStepMinutes <= 0 || l.MaxPlanSteps <= 0 {
		return fmt.Errorf("limits must be positive")
	}

	if l.MaxTaskMinutes > models.TaskMinutesCeiling {
		return fmt.Errorf("max task minutes exceeds hard ceiling %d", models.TaskMinutesCeiling)
	}

	if l.MaxPlanStepMinutes > models.PlanStepMinutesCeiling {
		return fmt.Errorf("max plan step minutes exceeds hard ceiling %d", models.PlanStepMinutesCeiling)
	}

	if l.MaxPlanSteps > models.PlanStepsCeiling {
		return fmt.Errorf("max plan steps exceeds hard ceiling %d", models.PlanStepsCeiling)
	}

	if l.HighUrgencyBlockMinutes <= 0 || l.MidUrgencyBlockMinutes <= 0 || l.LowUrgencyBlockMinutes <= 0 {
		return fmt.Errorf("urgency block minutes must be positive")
	}

	if l.HighUrgencyBlockMinutes > l.MaxTaskMinutes ||
		l.MidUrgencyBlockMinutes > l.MaxTaskMinutes ||
		l.LowUrgencyBlockMinutes > l.MaxTaskMinutes {
		return fmt.Errorf("urgency block minutes exceed max task minutes")
	}

	if l.MinConstrainedBlockMinutes <= 0 || l.MaxConstrainedBlockMinutes < l.MinConstrainedBlockMinutes {
		return fmt.Errorf("constrained block bounds are inconsistent")
	}

	if l.MaxConstrainedBlockMinutes > l.MaxTaskMinutes {
		return fmt.Errorf("constrained block max exceeds max task minutes")
	}

	if l.ReadyConfidence <= l.NeedsInputConfidence {
		return fmt.Errorf("ready confidence must exceed needs-input confidence")
	}

	return nil
}

// BlockMinutes returns the urgency-keyed block length.
func (l Limits) BlockMinutes(urgency string) int {
	switch urgency {
	case "high":
		return l.HighUrgencyBlockMinutes
	case "mid":
		return l.MidUrgencyBlockMinutes
	default:
		return l.LowUrgencyBlockMinutes
	}
}

// AnchorLead is the lead applied to now when no deadline anchors the schedule.
func (l Limits) AnchorLead() time.Duration {
	return time.Duration(l.AnchorLeadHours) * time.Hour
}

// StartLead is how far before the anchor the primary slot starts.
func (l Limits) StartLead() time.Duration {
	return time.Duration(l.StartLeadHours) * time.Hour
}

// MinBuffer is the minimum distance between now and any proposed start.
func (l Limits) MinBuffer() time.Duration {
	return time.Duration(l.MinBufferHours) * time.Hour
}
