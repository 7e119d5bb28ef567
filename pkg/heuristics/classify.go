// Package heuristics holds the deterministic rule library backing every
// stage's fallback path. Nothing here does I/O or reads the clock; callers
// pass the reference time explicitly so results are reproducible.
package heuristics

import (
	"regexp"
	"time"

	"github.com/first5/first5/pkg/models"
)

// classificationOrder fixes the evaluation order of category pattern sets.
// The first category with a matching pattern wins, so ties cannot occur.
var classificationOrder = []models.TaskType{
	models.TaskTypeProcedure,
	models.TaskTypeHousework,
	models.TaskTypeStudy,
	models.TaskTypeWork,
	models.TaskTypeHealth,
	models.TaskTypeMisc,
}

var taskKeywords = map[models.TaskType][]*regexp.Regexp{
	models.TaskTypeProcedure: {
		regexp.MustCompile(`(?i)(申請|update|renew|submit|tax|税|支払|支払い|契約|手続)`),
		regexp.MustCompile(`(?i)(確定申告|tax\s*return|年末調整|マイナンバー|納税)`),
	},
	models.TaskTypeHousework: {
		regexp.MustCompile(`(?i)(clean|掃除|片付|laundry|洗濯|買い物|shopping|organize)`),
	},
	models.TaskTypeStudy: {
		regexp.MustCompile(`(?i)(study|勉強|learn|資格|research|調査|course)`),
	},
	models.TaskTypeWork: {
		regexp.MustCompile(`(?i)(project|client|draft|report|work|資料|会議|meeting)`),
	},
	models.TaskTypeHealth: {
		regexp.MustCompile(`(?i)(health|exercise|運動|gym|睡眠|doctor|通院|med|散歩)`),
	},
	models.TaskTypeMisc: {},
}

var urgencyKeywords = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(urgent|至急|asap|すぐ|today|今すぐ|今日)`),
}

// Classification is the result of keyword-based task categorization.
type Classification struct {
	Type             models.TaskType
	DetectedKeywords []string
}

// ClassifyTask tests the task text against the ordered category pattern sets
// and returns the first category that matches, or misc.
func ClassifyTask(task string) Classification {
	for _, taskType := range classificationOrder {
		for _, pattern := range taskKeywords[taskType] {
			if match := pattern.FindString(task); match != "" {
				return Classification{
					Type:             taskType,
					DetectedKeywords: []string{match},
				}
			}
		}
	}

	return Classification{Type: models.TaskTypeMisc, DetectedKeywords: []string{}}
}

// InferUrgency applies the urgency precedence: explicit user urgency, deadline
// proximity, urgency keyword in the task text, and finally the mid default.
func InferUrgency(task string, deadline *time.Time, userUrgency models.Urgency, now time.Time) models.Urgency {
	if userUrgency != "" {
		return userUrgency
	}

	if deadline != nil {
		diff := deadline.Sub(now)
		switch {
		case diff <= 24*time.Hour:
			return models.UrgencyHigh
		case diff <= 168*time.Hour:
			return models.UrgencyMid
		default:
			return models.UrgencyLow
		}
	}

	for _, pattern := range urgencyKeywords {
		if pattern.MatchString(task) {
			return models.UrgencyHigh
		}
	}

	return models.UrgencyMid
}

// InferHorizon derives the time horizon from the deadline distance when one
// exists, then from the available minutes, then from the task category.
func InferHorizon(deadline *time.Time, minutesAvailable int, taskType models.TaskType, now time.Time) models.Horizon {
	if deadline != nil {
		days := deadline.Sub(now).Hours() / 24
		switch {
		case days <= 1:
			return models.HorizonSameDay
		case days <= 7:
			return models.HorizonWeekly
		case days <= 30:
			return models.HorizonMonthly
		default:
			return models.HorizonLongTerm
		}
	}

	if minutesAvailable > 0 && minutesAvailable <= 30 {
		return models.HorizonSameDay
	}

	switch taskType {
	case models.TaskTypeStudy, models.TaskTypeWork:
		return models.HorizonWeekly
	case models.TaskTypeHealth:
		return models.HorizonMonthly
	default:
		return models.HorizonLongTerm
	}
}
