package llm

import (
	"encoding/json"
	"strings"
)

// finishContent turns the model's text into the Response content.
//
// With a schema the text must be JSON conforming to it; a markdown fence
// around the JSON is tolerated. A response that fails validation after being
// cut off at the token limit is reported as ErrMaxTokensExceeded, since
// retrying with the same budget will fail the same way. Without a schema the
// text is returned as a JSON string.
func finishContent(req Request, text, stopReason string) (json.RawMessage, error) {
	if req.Schema == nil {
		b, err := json.Marshal(text)
		if err != nil {
			return nil, &ErrInvalidResponse{Err: err}
		}
		return b, nil
	}

	content := json.RawMessage(stripCodeFence(text))
	if err := validateResponse(req.Schema, content); err != nil {
		if stopReason == StopMaxTokens {
			return nil, &ErrMaxTokensExceeded{Content: content}
		}
		return nil, err
	}
	return content, nil
}

// stripCodeFence removes a surrounding ```json ... ``` block, if any.
func stripCodeFence(s string) string {
	t := strings.TrimSpace(s)
	if !strings.HasPrefix(t, "```") {
		return t
	}
	t = strings.TrimPrefix(t, "```")
	if nl := strings.IndexByte(t, '\n'); nl >= 0 {
		t = t[nl+1:]
	} else {
		t = strings.TrimPrefix(t, "json")
	}
	t = strings.TrimSuffix(strings.TrimSpace(t), "```")
	return strings.TrimSpace(t)
}
