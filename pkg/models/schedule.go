package models

import (
	"errors"
	"fmt"
	"time"
)

// Slot is one proposed calendar placement. End is always derived as
// Start plus the plan's duration, never chosen independently.
type Slot struct {
	Start  time.Time `json:"start"  validate:"required"`
	End    time.Time `json:"end"    validate:"required"`
	Label  string    `json:"label"  validate:"required"`
	Reason string    `json:"reason" validate:"required"`
}

// SchedulingPlan is the scheduler stage's artifact: a primary slot, fallback
// slots, and everything needed to register the block in a calendar.
type SchedulingPlan struct {
	Title           string   `json:"title"           validate:"required"`
	Timezone        string   `json:"timezone"        validate:"required"`
	DurationMinutes int      `json:"durationMinutes" validate:"required,gt=0,max=480"`
	Primary         Slot     `json:"primary"`
	Fallbacks       []Slot   `json:"fallbacks"`
	Preparation     []string `json:"preparation"`
	CalendarNote    string   `json:"calendarNote" validate:"required"`
	FollowUps       []string `json:"followUps"`
}

// Validate checks every slot spans exactly DurationMinutes and that follow-up
// entries are deduplicated.
func (s *SchedulingPlan) Validate() error {
	duration := time.Duration(s.DurationMinutes) * time.Minute

	if err := validateSlot(s.Primary, duration); err != nil {
		return fmt.Errorf("primary slot: %w", err)
	}

	for i, slot := range s.Fallbacks {
		if err := validateSlot(slot, duration); err != nil {
			return fmt.Errorf("fallback slot %d: %w", i, err)
		}
	}

	seen := make(map[string]struct{}, len(s.FollowUps))
	for _, followUp := range s.FollowUps {
		if _, dup := seen[followUp]; dup {
			return fmt.Errorf("duplicate follow-up %q", followUp)
		}

		seen[followUp] = struct{}{}
	}

	return nil
}

func validateSlot(slot Slot, duration time.Duration) error {
	if slot.Start.IsZero() || slot.End.IsZero() {
		return errors.New("slot start and end must be set")
	}

	if !slot.End.Equal(slot.Start.Add(duration)) {
		return fmt.Errorf("slot end must be start plus %s", duration)
	}

	return nil
}
