// Package models defines the typed contracts every pipeline stage reads and writes.
package models

import (
	"errors"
	"time"
)

// Hard ceilings mirrored by the validate tags on WorkflowInput, Plan and
// ScheduleSlot. Configured limits may tighten these bounds but never widen them.
const (
	TaskMinutesCeiling     = 480
	PlanStepMinutesCeiling = 60
	PlanStepsCeiling       = 8
)

// TaskType categorizes the normalized task. The set is closed; classification
// picks the first matching category, falling back to TaskTypeMisc.
type TaskType string

const (
	TaskTypeProcedure TaskType = "procedure"
	TaskTypeHousework TaskType = "housework"
	TaskTypeStudy     TaskType = "study"
	TaskTypeWork      TaskType = "work"
	TaskTypeHealth    TaskType = "health"
	TaskTypeMisc      TaskType = "misc"
)

// Urgency is the three-level urgency scale shared by intake and downstream stages.
type Urgency string

const (
	UrgencyHigh Urgency = "high"
	UrgencyMid  Urgency = "mid"
	UrgencyLow  Urgency = "low"
)

// Horizon is the expected time span for completing the task.
type Horizon string

const (
	HorizonSameDay  Horizon = "same_day"
	HorizonWeekly   Horizon = "weekly"
	HorizonMonthly  Horizon = "monthly"
	HorizonLongTerm Horizon = "long_term"
)

// ConversationMessage is one turn of the prior clarifying dialogue.
type ConversationMessage struct {
	Role    string `json:"role"    validate:"required,oneof=user assistant"`
	Content string `json:"content" validate:"required"`
}

// WorkflowInput is the caller-provided request that starts a pipeline run.
// UserDeadline accepts an RFC 3339 datetime or a bare YYYY-MM-DD date and is
// interpreted in Timezone (IANA name) when given.
type WorkflowInput struct {
	Task              string                `json:"task"                        validate:"required,min=1"`
	UserDeadline      string                `json:"userDeadline,omitempty"`
	UserUrgency       Urgency               `json:"userUrgency,omitempty"       validate:"omitempty,oneof=high mid low"`
	Timezone          string                `json:"timezone,omitempty"`
	MinutesAvailable  int                   `json:"minutesAvailable,omitempty"  validate:"omitempty,gt=0,max=480"`
	PreferredPlace    string                `json:"preferredPlace,omitempty"`
	RequiredResources []string              `json:"requiredResources,omitempty"`
	Notes             string                `json:"notes,omitempty"`
	History           []ConversationMessage `json:"history,omitempty"           validate:"omitempty,dive"`
}

// Constraints captures the execution constraints the user asserted or implied.
type Constraints struct {
	TimeLimit string   `json:"time_limit,omitempty"`
	Place     string   `json:"place,omitempty"`
	Resources []string `json:"resources"`
}

// NormalizedTask is the intake stage's artifact: the free-text task reshaped
// into the form every later stage consumes. Deadline is always UTC.
type NormalizedTask struct {
	Intent           string      `json:"intent"            validate:"required"`
	Type             TaskType    `json:"type"              validate:"required,oneof=procedure housework study work health misc"`
	Deadline         *time.Time  `json:"deadline,omitempty"`
	Timezone         string      `json:"timezone,omitempty"`
	UrgencySuggested Urgency     `json:"urgency_suggested" validate:"required,oneof=high mid low"`
	UrgencyFinal     Urgency     `json:"urgency_final,omitempty" validate:"omitempty,oneof=high mid low"`
	Horizon          Horizon     `json:"horizon"           validate:"required,oneof=same_day weekly monthly long_term"`
	Constraints      Constraints `json:"constraints"`
	Notes            string      `json:"notes,omitempty"`
}

// Urgency resolves the effective urgency: a user-asserted final urgency always
// wins over the suggested one.
func (t *NormalizedTask) Urgency() Urgency {
	if t.UrgencyFinal != "" {
		return t.UrgencyFinal
	}

	return t.UrgencySuggested
}

// Validate checks the invariants the struct tags cannot express.
func (t *NormalizedTask) Validate() error {
	if t.Deadline != nil && t.Deadline.Location() != time.UTC {
		return errors.New("deadline must be normalized to UTC")
	}

	seen := make(map[string]struct{}, len(t.Constraints.Resources))
	for _, resource := range t.Constraints.Resources {
		if resource == "" {
			return errors.New("constraint resources must be non-empty strings")
		}

		if _, dup := seen[resource]; dup {
			return errors.New("constraint resources must be deduplicated")
		}

		seen[resource] = struct{}{}
	}

	return nil
}

// IntakeHeuristics records how intake arrived at its normalization. The
// rationale lines feed later stages' fallback text generation.
type IntakeHeuristics struct {
	DetectedKeywords []string `json:"detectedKeywords"`
	Confidence       float64  `json:"confidence" validate:"gte=0,lte=1"`
	Rationale        []string `json:"rationale"`
}
