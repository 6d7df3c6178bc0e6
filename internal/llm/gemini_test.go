package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func TestGeminiModelMapping(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"gemini-flash", "gemini-2.5-flash"},
		{"gemini-pro", "gemini-2.5-pro"},
		{"gemini-lite", "gemini-2.5-flash-lite"},
		{"gemini-2.0-flash", "gemini-2.0-flash"}, // Pass-through
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, resolveModel(tt.input, geminiModels), tt.input)
	}
}

func TestBuildGeminiSchema(t *testing.T) {
	def := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"questions": map[string]any{
				"type":     "array",
				"minItems": 1,
				"maxItems": float64(5),
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"question_text":  map[string]any{"type": "string"},
						"type":           map[string]any{"type": "string", "enum": []any{"MCQ", "Short Answer"}},
						"options":        map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
						"correct_answer": map[string]any{"type": "string"},
					},
					"required": []any{"question_text", "type", "correct_answer"},
				},
			},
		},
		"required": []any{"questions"},
	}

	schema := buildGeminiSchema(def)

	assert.Equal(t, genai.TypeObject, schema.Type)
	assert.Equal(t, []string{"questions"}, schema.PropertyOrdering)

	qs := schema.Properties["questions"]
	require.NotNil(t, qs)
	assert.Equal(t, genai.TypeArray, qs.Type)
	require.NotNil(t, qs.MinItems)
	require.NotNil(t, qs.MaxItems)
	assert.Equal(t, int64(1), *qs.MinItems)
	assert.Equal(t, int64(5), *qs.MaxItems)

	item := qs.Items
	require.NotNil(t, item)
	assert.Len(t, item.Properties, 4)
	assert.Equal(t, []string{"MCQ", "Short Answer"}, item.Properties["type"].Enum)
	assert.Equal(t, genai.TypeString, item.Properties["options"].Items.Type)
	assert.Equal(t, []string{"question_text", "type", "correct_answer"}, item.Required)
}
