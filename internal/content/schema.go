package content

import "github.com/abhisek/scholarprep/internal/llm"

// RoadmapSchema is the structured output contract for roadmap generation.
var RoadmapSchema = &llm.Schema{
	Name:        "study-roadmap",
	Description: "A multi-week study roadmap interleaving two subjects",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"startDate": map[string]any{
				"type":        "string",
				"description": "First day of the plan, YYYY-MM-DD",
			},
			"endDate": map[string]any{
				"type":        "string",
				"description": "Last day of the plan, YYYY-MM-DD",
			},
			"schedule": map[string]any{
				"type":     "array",
				"minItems": 1,
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"week": map[string]any{
							"type": "integer",
						},
						"theme": map[string]any{
							"type": "string",
						},
						"tasks": map[string]any{
							"type": "array",
							"items": map[string]any{
								"type": "object",
								"properties": map[string]any{
									"day": map[string]any{
										"type": "string",
									},
									"topic_id": map[string]any{
										"type":        "string",
										"description": "A concise, unique identifier for the topic, e.g. 'english_grammar_tenses'",
									},
									"task_type": map[string]any{
										"type": "string",
										"enum": []any{"lesson", "practice"},
									},
									"subject": map[string]any{
										"type": "string",
									},
									"description": map[string]any{
										"type": "string",
									},
								},
								"required":             []any{"day", "topic_id", "task_type", "subject", "description"},
								"additionalProperties": false,
							},
						},
					},
					"required":             []any{"week", "theme", "tasks"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"startDate", "endDate", "schedule"},
		"additionalProperties": false,
	},
}

// QuestionsSchema is the structured output contract for a question batch.
// Providers with strict structured output need an object at the top level,
// so the list is wrapped.
var QuestionsSchema = &llm.Schema{
	Name:        "exam-questions",
	Description: "A batch of simulated entrance exam questions",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"questions": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"question_text": map[string]any{
							"type": "string",
						},
						"type": map[string]any{
							"type": "string",
							"enum": []any{"MCQ", "Short Answer"},
						},
						"options": map[string]any{
							"type":        "array",
							"items":       map[string]any{"type": "string"},
							"description": "Exactly 4 options for MCQ. Empty array for Short Answer.",
						},
						"correct_answer": map[string]any{
							"type":        "string",
							"description": "For MCQ, the exact text of the correct option",
						},
						"correct_answer_explanation": map[string]any{
							"type":        "string",
							"description": "A detailed explanation of why the answer is correct",
						},
						"cognitive_category": map[string]any{
							"type":        "string",
							"description": "The skill exercised, e.g. 'Recall', 'Application', 'Analysis'",
						},
					},
					"required":             []any{"question_text", "type", "options", "correct_answer", "correct_answer_explanation", "cognitive_category"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"questions"},
		"additionalProperties": false,
	},
}
