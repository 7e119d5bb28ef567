package reasoning

import "regexp"

// Reasoning models wrap JSON in markdown fences or leave trailing commas;
// these patterns recover a parseable object from the raw completion text.
var (
	jsonBlockPattern     = regexp.MustCompile("(?s)```(?:json)?\\s*\\n?(\\{.*\\})\\s*```")
	jsonObjectPattern    = regexp.MustCompile(`(?s)\{[\s\S]*\}`)
	trailingCommaPattern = regexp.MustCompile(`,\s*([}\]])`)
)

// ExtractJSON pulls a JSON object out of a completion string, handling
// markdown code fences and trailing commas. Returns "" when no object is found.
func ExtractJSON(content string) string {
	raw := ""

	if matches := jsonBlockPattern.FindStringSubmatch(content); len(matches) > 1 {
		raw = matches[1]
	} else if match := jsonObjectPattern.FindString(content); match != "" {
		raw = match
	}

	if raw == "" {
		return ""
	}

	return trailingCommaPattern.ReplaceAllString(raw, "$1")
}
