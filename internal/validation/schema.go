package validation

// SchemaName identifies the output-shape constraint sent with assessment
// requests.
const SchemaName = "validation_result"

// Schema returns the JSON schema that constrains the assessor's response.
// Strict mode requires every property to be listed in "required" and
// additionalProperties to be false at every level.
func Schema() map[string]any {
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"line_count": map[string]any{
				"type":                 "object",
				"additionalProperties": false,
				"properties": map[string]any{
					"expected": map[string]any{"type": "integer"},
					"actual":   map[string]any{"type": "integer"},
					"pass":     map[string]any{"type": "boolean"},
				},
				"required": []string{"expected", "actual", "pass"},
			},
			"language": map[string]any{
				"type":                 "object",
				"additionalProperties": false,
				"properties": map[string]any{
					"expected": map[string]any{"type": "string"},
					"issues": map[string]any{
						"type":  "array",
						"items": map[string]any{"type": "string"},
					},
					"pass": map[string]any{"type": "boolean"},
				},
				"required": []string{"expected", "issues", "pass"},
			},
			"theme": map[string]any{
				"type":                 "object",
				"additionalProperties": false,
				"properties": map[string]any{
					"expected": map[string]any{
						"type":  "array",
						"items": map[string]any{"type": "string"},
					},
					"detected": map[string]any{
						"type": "string",
						"enum": []string{ThemeRomance, ThemeWorldPeace, ThemeMixed, ThemeOther},
					},
					"pass": map[string]any{"type": "boolean"},
				},
				"required": []string{"expected", "detected", "pass"},
			},
			"overall_result": map[string]any{"type": "boolean"},
			"explanation":    map[string]any{"type": "string"},
		},
		"required": []string{"line_count", "language", "theme", "overall_result", "explanation"},
	}
}
