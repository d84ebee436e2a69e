package expand

import "github.com/abhisek/wordiz/internal/llm"

// Categories offered to the model for new entries.
var Categories = []any{
	"emotion", "nature", "action", "concept", "abstract",
	"object", "person", "place", "time", "quality",
}

// ExpansionSchema defines the structured output for word expansion.
var ExpansionSchema = llm.NewSchema(
	"vocabulary-expansion",
	"English words related to a seed word, each with a definition and an example sentence",
	map[string]any{
		"type": "object",
		"properties": map[string]any{
			"words": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"word": map[string]any{
							"type":        "string",
							"description": "A single English headword, lowercase unless it is a proper noun",
						},
						"definition": map[string]any{
							"type":        "string",
							"description": "A short learner-friendly definition that does not contain the word itself",
						},
						"example": map[string]any{
							"type":        "string",
							"description": "One natural sentence that uses the word exactly as written",
						},
						"category": map[string]any{
							"type": "string",
							"enum": Categories,
						},
					},
					"required":             []any{"word", "definition", "example", "category"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"words"},
		"additionalProperties": false,
	},
)

// ComparisonSchema defines the structured output for comparing two words.
var ComparisonSchema = llm.NewSchema(
	"word-comparison",
	"How two English words are alike and how they differ, for a learner",
	map[string]any{
		"type": "object",
		"properties": map[string]any{
			"summary": map[string]any{
				"type":        "string",
				"description": "One or two sentences on when to use each word",
			},
			"similarities": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
			"differences": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
			"first_example": map[string]any{
				"type":        "string",
				"description": "A sentence using the first word exactly as written",
			},
			"second_example": map[string]any{
				"type":        "string",
				"description": "A sentence using the second word exactly as written",
			},
		},
		"required":             []any{"summary", "similarities", "differences", "first_example", "second_example"},
		"additionalProperties": false,
	},
)
