// Package generation 编排两阶段内容生成：plan 提出编辑方向，generate 产出终稿
package generation

// PlanSchemaName / ContentSchemaName response_format 中的 schema 名称
const (
	PlanSchemaName    = "plan_payload"
	ContentSchemaName = "content_payload"
)

// PlanSchema Plan 阶段的严格 JSON Schema
func PlanSchema() map[string]any {
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"kind": map[string]any{"type": "string", "enum": []string{"plan"}},
			"sourceReadiness": map[string]any{
				"type":                 "object",
				"additionalProperties": false,
				"properties": map[string]any{
					"sourcesProvided":       map[string]any{"type": "boolean"},
					"canReliablyUseSources": map[string]any{"type": "boolean"},
					"messageToUser":         map[string]any{"type": "string"},
					"missingSourceText": map[string]any{
						"type": "array",
						"items": map[string]any{
							"type":                 "object",
							"additionalProperties": false,
							"properties": map[string]any{
								"sourceId":    map[string]any{"type": "number"},
								"reason":      map[string]any{"type": "string"},
								"whatToPaste": map[string]any{"type": "string"},
							},
							"required": []string{"sourceId", "reason", "whatToPaste"},
						},
					},
				},
				"required": []string{"sourcesProvided", "canReliablyUseSources", "messageToUser", "missingSourceText"},
			},
			"whatIGot": map[string]any{
				"type":                 "object",
				"additionalProperties": false,
				"properties": map[string]any{
					"topicUnderstanding":    map[string]any{"type": "string"},
					"audienceUnderstanding": map[string]any{"type": "string"},
					"ctaUnderstanding":      map[string]any{"type": "string"},
					"toneUnderstanding":     map[string]any{"type": "string"},
					"platformUnderstanding": map[string]any{"type": "string"},
					"formatUnderstanding":   map[string]any{"type": "string"},
				},
				"required": []string{
					"topicUnderstanding",
					"audienceUnderstanding",
					"ctaUnderstanding",
					"toneUnderstanding",
					"platformUnderstanding",
					"formatUnderstanding",
				},
			},
			"editorialOptions": map[string]any{
				"type":     "array",
				"minItems": 3,
				"maxItems": 3,
				"items": map[string]any{
					"type":                 "object",
					"additionalProperties": false,
					"properties": map[string]any{
						"optionId":          map[string]any{"type": "string", "enum": []string{"A", "B", "C"}},
						"label":             map[string]any{"type": "string"},
						"editorialAngle":    map[string]any{"type": "string"},
						"tone":              map[string]any{"type": "string"},
						"focus":             map[string]any{"type": "string"},
						"howSourcesAreUsed": map[string]any{"type": "string"},
						"expectedReaction":  map[string]any{"type": "string"},
						"ctaSuggestion":     map[string]any{"type": "string"},
					},
					"required": []string{
						"optionId",
						"label",
						"editorialAngle",
						"tone",
						"focus",
						"howSourcesAreUsed",
						"expectedReaction",
						"ctaSuggestion",
					},
				},
			},
		},
		"required": []string{"kind", "sourceReadiness", "whatIGot", "editorialOptions"},
	}
}

// ContentSchema Generate 阶段的严格 JSON Schema
func ContentSchema() map[string]any {
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"kind":     map[string]any{"type": "string", "enum": []string{"content"}},
			"title":    map[string]any{"type": "string"},
			"copy":     map[string]any{"type": "string"},
			"hashtags": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			"cta":      map[string]any{"type": "string"},
			"designElements": map[string]any{
				"type":                 "object",
				"additionalProperties": false,
				"properties": map[string]any{
					"headline":      map[string]any{"type": "string"},
					"subheadline":   map[string]any{"type": "string"},
					"layout":        map[string]any{"type": "string"},
					"visualConcept": map[string]any{"type": "string"},
				},
				"required": []string{"headline", "subheadline", "layout", "visualConcept"},
			},
		},
		"required": []string{"kind", "title", "copy", "hashtags", "cta", "designElements"},
	}
}
