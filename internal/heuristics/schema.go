package heuristics

// buildSchema returns the JSON-Schema (draft 2020-12 subset) a merged Config must satisfy.
func buildSchema() map[string]any {
	positive := map[string]any{"type": "number", "exclusiveMinimum": 0}
	nonNegative := map[string]any{"type": "number", "minimum": 0}
	count := map[string]any{"type": "integer", "minimum": 1}
	words := map[string]any{"type": []string{"array", "null"}, "items": map[string]any{"type": "string", "minLength": 1}}

	band := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"top_cm":    nonNegative,
			"bottom_cm": positive,
			"left_cm":   nonNegative,
			"right_cm":  nonNegative,
		},
		"required": []string{"top_cm", "bottom_cm"},
	}

	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"dpi":                      positive,
			"force_zone":               map[string]any{"type": "string"},
			"short_form_max_height_cm": nonNegative,
			"banking_keywords":         words,
			"sender_band":              band,
			"sender_ignore":            words,
			"sender_delimiters":        map[string]any{"type": "string"},
			"sender_max_len":           count,
			"fold_cm":                  nonNegative,
			"fold_fraction":            map[string]any{"type": "number", "exclusiveMinimum": 0, "exclusiveMaximum": 1},
			"fold_tolerance_cm":        nonNegative,
			"fold_window_cm":           positive,
			"fold_words":               count,
			"styled_height_factor":     map[string]any{"type": "number", "minimum": 1},
			"subject_max_len":          count,
			"hint_words":               count,
			"case_anchors": map[string]any{
				"type":  []string{"array", "null"},
				"items": map[string]any{"type": "array", "items": map[string]any{"type": "string", "minLength": 1}, "minItems": 1},
			},
			"case_keywords":     words,
			"case_skip_lines":   map[string]any{"type": "integer", "minimum": 0},
			"case_max_chars":    count,
			"line_tolerance_cm": positive,
			"delimiter":         map[string]any{"type": "string", "enum": []string{"_", "-"}},
			"field_max_len":     count,
			"transliterate":     map[string]any{"type": "boolean"},
		},
		"required": []string{"dpi", "sender_band", "fold_window_cm", "line_tolerance_cm", "delimiter"},
	}
}
