package models

import "errors"

// Checkpoint is one timed check during the coached kickoff, offset in minutes
// from the start of the work block.
type Checkpoint struct {
	Label         string `json:"label"         validate:"required"`
	MinutesOffset int    `json:"minutesOffset" validate:"gte=0"`
}

// CoachingPlan is the coach stage's artifact: a numbered action script,
// behavioral nudges, and a checkpoint timeline.
type CoachingPlan struct {
	Script      string       `json:"script" validate:"required"`
	Nudges      []string     `json:"nudges"`
	Checkpoints []Checkpoint `json:"checkpoints" validate:"dive"`
}

// Validate checks that checkpoints are ordered by non-decreasing offset.
func (c *CoachingPlan) Validate() error {
	for i := 1; i < len(c.Checkpoints); i++ {
		if c.Checkpoints[i].MinutesOffset < c.Checkpoints[i-1].MinutesOffset {
			return errors.New("checkpoints must be in non-decreasing offset order")
		}
	}

	return nil
}
