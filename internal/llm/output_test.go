package llm

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`{"a":1}`, `{"a":1}`},
		{"  {\"a\":1}\n", `{"a":1}`},
		{"```json\n{\"a\":1}\n```", `{"a":1}`},
		{"```\n{\"a\":1}\n```", `{"a":1}`},
		{"```json{\"a\":1}```", `{"a":1}`},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, stripCodeFence(tt.in), "input %q", tt.in)
	}
}

func TestFinishContent_WithoutSchemaWrapsText(t *testing.T) {
	got, err := finishContent(Request{}, "## Tense structure\nUse past simple.", StopEnd)
	require.NoError(t, err)
	assert.JSONEq(t, `"## Tense structure\nUse past simple."`, string(got))
}

func TestFinishContent_FencedJSONValidates(t *testing.T) {
	req := Request{Schema: questionSchema()}
	got, err := finishContent(req, "```json\n{\"question_text\":\"q\",\"type\":\"MCQ\",\"correct_answer\":\"a\"}\n```", StopEnd)
	require.NoError(t, err)
	assert.JSONEq(t, `{"question_text":"q","type":"MCQ","correct_answer":"a"}`, string(got))
}

func TestFinishContent_TruncatedIsMaxTokens(t *testing.T) {
	req := Request{Schema: questionSchema()}

	_, err := finishContent(req, `{"question_text":"q","ty`, StopMaxTokens)
	var mt *ErrMaxTokensExceeded
	assert.True(t, errors.As(err, &mt), "got %T", err)

	_, err = finishContent(req, `{"question_text":"q","ty`, StopEnd)
	var inv *ErrInvalidResponse
	assert.True(t, errors.As(err, &inv), "got %T", err)
}
