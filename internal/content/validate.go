package content

import (
	"fmt"
	"strings"
)

// Validate checks what the response schema cannot: a non-empty schedule,
// unique week numbers and non-blank task identities. Restored snapshots go
// through it too.
func (r *Roadmap) Validate() error {
	if len(r.Schedule) == 0 {
		return ErrEmptyResult
	}

	seen := make(map[int]bool, len(r.Schedule))
	for _, w := range r.Schedule {
		if seen[w.Week] {
			return fmt.Errorf("%w: week %d appears twice", ErrMalformed, w.Week)
		}
		seen[w.Week] = true

		for i, t := range w.Tasks {
			if !t.TaskType.Valid() {
				return fmt.Errorf("%w: week %d task %d has type %q", ErrMalformed, w.Week, i+1, t.TaskType)
			}
			if strings.TrimSpace(t.TopicID) == "" {
				return fmt.Errorf("%w: week %d task %d has no topic_id", ErrMalformed, w.Week, i+1)
			}
		}
	}
	return nil
}

// normalizeQuestion stamps the requested topic, drops options from short
// answer questions and reports why a question is unusable, if it is.
func normalizeQuestion(q Question, topicID string) (Question, string) {
	q.TopicID = topicID
	q.Text = strings.TrimSpace(q.Text)
	q.CorrectAnswer = strings.TrimSpace(q.CorrectAnswer)
	q.CognitiveCategory = strings.TrimSpace(q.CognitiveCategory)

	if q.Text == "" {
		return q, "question_text is empty"
	}
	if q.CorrectAnswer == "" {
		return q, "correct_answer is empty"
	}

	switch q.Type {
	case ShortAnswer:
		q.Options = nil
	case MCQ:
		opts := q.Options[:0:0]
		for _, o := range q.Options {
			if o = strings.TrimSpace(o); o != "" {
				opts = append(opts, o)
			}
		}
		q.Options = opts
		if len(q.Options) < 2 {
			return q, "MCQ has fewer than two options"
		}
		if !containsFold(q.Options, q.CorrectAnswer) {
			return q, "correct_answer is not one of the options"
		}
	default:
		return q, fmt.Sprintf("unknown type %q", q.Type)
	}
	return q, ""
}

func containsFold(options []string, answer string) bool {
	for _, o := range options {
		if strings.EqualFold(o, answer) {
			return true
		}
	}
	return false
}
