package llm

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// questionSchema mirrors the shape of a generated exam question.
func questionSchema() *Schema {
	return &Schema{
		Name:        "test-question",
		Description: "One exam question",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"question_text":  map[string]any{"type": "string", "minLength": 1},
				"type":           map[string]any{"type": "string", "enum": []any{"MCQ", "Short Answer"}},
				"options":        map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
				"correct_answer": map[string]any{"type": "string"},
				"difficulty":     map[string]any{"type": "integer", "minimum": 1, "maximum": 10},
			},
			"required": []any{"question_text", "type", "correct_answer"},
		},
	}
}

func TestValidateResponse(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{"valid mcq", `{"question_text":"Past of go?","type":"MCQ","options":["went","goed"],"correct_answer":"went"}`, false},
		{"valid without optional", `{"question_text":"2x=4, x?","type":"Short Answer","correct_answer":"2"}`, false},
		{"missing required", `{"question_text":"Past of go?","type":"MCQ"}`, true},
		{"wrong type", `{"question_text":"q","type":"MCQ","correct_answer":"a","difficulty":"hard"}`, true},
		{"invalid enum", `{"question_text":"q","type":"Essay","correct_answer":"a"}`, true},
		{"out of range", `{"question_text":"q","type":"MCQ","correct_answer":"a","difficulty":11}`, true},
		{"malformed json", `{"question_text":`, true},
		{"empty", ``, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateResponse(questionSchema(), json.RawMessage(tt.raw))
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			var inv *ErrInvalidResponse
			assert.True(t, errors.As(err, &inv), "expected ErrInvalidResponse, got %T", err)
		})
	}
}

func TestValidateResponse_NamesSchemaInError(t *testing.T) {
	err := validateResponse(questionSchema(), json.RawMessage(`{"question_text":"q","type":"Essay","correct_answer":"a"}`))
	var inv *ErrInvalidResponse
	require.ErrorAs(t, err, &inv)
	assert.Contains(t, inv.Error(), "test-question does not match schema")
	assert.JSONEq(t, `{"question_text":"q","type":"Essay","correct_answer":"a"}`, string(inv.Content))
}

func TestValidateResponse_NilSchema(t *testing.T) {
	assert.NoError(t, validateResponse(nil, json.RawMessage(`anything`)))
}

func TestValidateResponse_NestedRoadmap(t *testing.T) {
	schema := &Schema{
		Name: "test-roadmap",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"weeks": map[string]any{
					"type": "array",
					"items": map[string]any{
						"type": "object",
						"properties": map[string]any{
							"week_number": map[string]any{"type": "integer"},
							"tasks":       map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
						},
						"required": []any{"week_number", "tasks"},
					},
				},
			},
			"required": []any{"weeks"},
		},
	}

	assert.NoError(t, validateResponse(schema, json.RawMessage(`{"weeks":[{"week_number":1,"tasks":["a"]}]}`)))
	assert.Error(t, validateResponse(schema, json.RawMessage(`{"weeks":[{"week_number":"one","tasks":[]}]}`)))
}
