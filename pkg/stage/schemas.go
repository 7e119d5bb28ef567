package stage

// JSON schemas the reasoning gateway validates each stage's response against.
// Small builders keep the definitions readable; the shapes mirror pkg/models.

func schemaObject(properties map[string]any, required ...string) map[string]any {
	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}

	if len(required) > 0 {
		schema["required"] = required
	}

	return schema
}

func schemaArray(items map[string]any) map[string]any {
	return map[string]any{"type": "array", "items": items}
}

func schemaString() map[string]any {
	return map[string]any{"type": "string"}
}

func schemaNullableString() map[string]any {
	return map[string]any{"type": []string{"string", "null"}}
}

func schemaEnum(values ...string) map[string]any {
	enum := make([]any, len(values))
	for i, value := range values {
		enum[i] = value
	}

	return map[string]any{"type": "string", "enum": enum}
}

func schemaInteger(minimum int) map[string]any {
	return map[string]any{"type": "integer", "minimum": minimum}
}

func schemaNumber(minimum, maximum float64) map[string]any {
	return map[string]any{"type": "number", "minimum": minimum, "maximum": maximum}
}

func normalizedTaskSchema() map[string]any {
	return schemaObject(map[string]any{
		"intent":            schemaString(),
		"type":              schemaEnum("procedure", "housework", "study", "work", "health", "misc"),
		"deadline":          schemaNullableString(),
		"timezone":          schemaNullableString(),
		"urgency_suggested": schemaEnum("high", "mid", "low"),
		"urgency_final":     schemaEnum("high", "mid", "low"),
		"horizon":           schemaEnum("same_day", "weekly", "monthly", "long_term"),
		"constraints": schemaObject(map[string]any{
			"time_limit": schemaNullableString(),
			"place":      schemaNullableString(),
			"resources":  schemaArray(schemaString()),
		}, "resources"),
		"notes": schemaNullableString(),
	}, "intent", "type", "urgency_suggested", "horizon", "constraints")
}

func intakeSchema() map[string]any {
	return schemaObject(map[string]any{
		"normalized": normalizedTaskSchema(),
		"heuristics": schemaObject(map[string]any{
			"detectedKeywords": schemaArray(schemaString()),
			"confidence":       schemaNumber(0, 1),
			"rationale":        schemaArray(schemaString()),
		}, "detectedKeywords", "confidence", "rationale"),
	}, "normalized", "heuristics")
}

func interviewSchema() map[string]any {
	question := schemaObject(map[string]any{
		"id":      schemaString(),
		"prompt":  schemaString(),
		"purpose": schemaString(),
		"field": schemaEnum(
			"deadline", "scope", "resources", "time_allocation",
			"place", "stakeholders", "calendar",
		),
		"suggestedAnswer": schemaNullableString(),
	}, "id", "prompt", "purpose", "field")

	return schemaObject(map[string]any{
		"summary":      schemaString(),
		"goal":         schemaString(),
		"assumptions":  schemaArray(schemaString()),
		"questions":    schemaArray(question),
		"status":       schemaEnum("needs_input", "ready"),
		"confidence":   schemaNumber(0, 1),
		"gaps":         schemaArray(schemaString()),
		"followUps":    schemaArray(schemaString()),
		"nextQuestion": schemaNullableString(),
	}, "summary", "goal", "assumptions", "questions", "status", "confidence", "gaps")
}

func planSchema() map[string]any {
	step := schemaObject(map[string]any{
		"id":               schemaString(),
		"title":            schemaString(),
		"description":      schemaString(),
		"definitionOfDone": schemaString(),
		"estimatedMinutes": schemaInteger(1),
		"dependsOn":        schemaArray(schemaString()),
	}, "id", "title", "description", "definitionOfDone", "estimatedMinutes")

	return schemaObject(map[string]any{
		"steps":   schemaArray(step),
		"summary": schemaString(),
		"focus":   schemaArray(schemaString()),
	}, "steps", "summary", "focus")
}

func criticSchema() map[string]any {
	issue := schemaObject(map[string]any{
		"id":         schemaString(),
		"message":    schemaString(),
		"severity":   schemaEnum("info", "warning", "error"),
		"suggestion": schemaNullableString(),
	}, "id", "message", "severity")

	return schemaObject(map[string]any{
		"riskLevel": schemaEnum("low", "medium", "high"),
		"issues":    schemaArray(issue),
		"approvals": schemaArray(schemaString()),
	}, "riskLevel", "issues", "approvals")
}

func schedulingSchema() map[string]any {
	slot := schemaObject(map[string]any{
		"start":  schemaString(),
		"end":    schemaString(),
		"label":  schemaString(),
		"reason": schemaString(),
	}, "start", "end", "label", "reason")

	return schemaObject(map[string]any{
		"title":           schemaString(),
		"timezone":        schemaString(),
		"durationMinutes": schemaInteger(1),
		"primary":         slot,
		"fallbacks":       schemaArray(slot),
		"preparation":     schemaArray(schemaString()),
		"calendarNote":    schemaString(),
		"followUps":       schemaArray(schemaString()),
	}, "title", "timezone", "durationMinutes", "primary", "fallbacks", "preparation", "calendarNote")
}

func coachingSchema() map[string]any {
	checkpoint := schemaObject(map[string]any{
		"label":         schemaString(),
		"minutesOffset": schemaInteger(0),
	}, "label", "minutesOffset")

	return schemaObject(map[string]any{
		"script":      schemaString(),
		"nudges":      schemaArray(schemaString()),
		"checkpoints": schemaArray(checkpoint),
	}, "script", "nudges", "checkpoints")
}
