package models

import (
	"errors"
	"fmt"
)

// InterviewStatus tells whether the interview still blocks on user input.
type InterviewStatus string

const (
	InterviewStatusNeedsInput InterviewStatus = "needs_input"
	InterviewStatusReady      InterviewStatus = "ready"
)

// QuestionField identifies which input field a clarifying question targets.
type QuestionField string

const (
	FieldDeadline       QuestionField = "deadline"
	FieldScope          QuestionField = "scope"
	FieldResources      QuestionField = "resources"
	FieldTimeAllocation QuestionField = "time_allocation"
	FieldPlace          QuestionField = "place"
	FieldStakeholders   QuestionField = "stakeholders"
	FieldCalendar       QuestionField = "calendar"
)

// EssentialGaps lists the gap identifiers that block plan reliability.
// Everything else is demoted to a follow-up.
var EssentialGaps = []string{string(FieldDeadline)}

// InterviewQuestion is one clarifying question with its purpose and target field.
type InterviewQuestion struct {
	ID              string        `json:"id"      validate:"required"`
	Prompt          string        `json:"prompt"  validate:"required"`
	Purpose         string        `json:"purpose" validate:"required"`
	Field           QuestionField `json:"field"   validate:"required,oneof=deadline scope resources time_allocation place stakeholders calendar"`
	SuggestedAnswer string        `json:"suggestedAnswer,omitempty"`
}

// Interview is the elicitation stage's artifact: what is known, what is
// assumed, and what still has to be asked before the plan can be trusted.
type Interview struct {
	Summary      string              `json:"summary"    validate:"required"`
	Goal         string              `json:"goal"       validate:"required"`
	Assumptions  []string            `json:"assumptions"`
	Questions    []InterviewQuestion `json:"questions"  validate:"dive"`
	Status       InterviewStatus     `json:"status"     validate:"required,oneof=needs_input ready"`
	Confidence   float64             `json:"confidence" validate:"gte=0,lte=1"`
	Gaps         []string            `json:"gaps"`
	FollowUps    []string            `json:"followUps"`
	NextQuestion string              `json:"nextQuestion,omitempty"`
}

// Validate enforces the status/gap coupling: ready means no gaps remain, and
// outstanding gaps may only name essential fields.
func (i *Interview) Validate() error {
	switch i.Status {
	case InterviewStatusReady:
		if len(i.Gaps) > 0 {
			return errors.New("interview status ready but gaps remain")
		}
	case InterviewStatusNeedsInput:
		if len(i.Gaps) == 0 {
			return errors.New("interview status needs_input but no gaps recorded")
		}

		for _, gap := range i.Gaps {
			if !isEssentialGap(gap) {
				return fmt.Errorf("non-essential gap %q may not block the interview", gap)
			}
		}
	default:
		return fmt.Errorf("unknown interview status %q", i.Status)
	}

	return nil
}

func isEssentialGap(gap string) bool {
	for _, essential := range EssentialGaps {
		if gap == essential {
			return true
		}
	}

	return false
}
