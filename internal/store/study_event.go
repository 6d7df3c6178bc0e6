package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
)

// AppendAnswerEvents records the answers of one finished exam. The batch
// is written in a single transaction so a review never sees half an exam.
func (r *eventRepo) AppendAnswerEvents(ctx context.Context, data []AnswerEventData) error {
	if len(data) == 0 {
		return nil
	}

	cols := []string{
		"sequence", "timestamp",
		"session_id", "task_id", "subject", "topic_id", "cognitive_category",
		"question_type", "question_text", "options", "correct_answer", "explanation",
		"learner_answer", "correct", "time_ms",
	}
	ins := builder().Insert(tableAnswerEvents).Columns(cols...)
	for _, d := range data {
		seq, err := r.seq.Next(ctx)
		if err != nil {
			return err
		}
		options, err := encodeOptions(d.Options)
		if err != nil {
			return err
		}
		ins.Values(
			seq, nowUTC(),
			d.SessionID, d.TaskID, d.Subject, d.TopicID, d.CognitiveCategory,
			d.QuestionType, d.QuestionText, options, d.CorrectAnswer, d.Explanation,
			d.LearnerAnswer, d.Correct, d.TimeMs,
		)
	}

	query, args := ins.Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save answer events: %w", err)
	}
	return nil
}

// QueryAnswers returns recorded answers, oldest first.
func (r *eventRepo) QueryAnswers(ctx context.Context, opts QueryOpts) ([]AnswerEvent, error) {
	sel := builder().Select(
		"id", "sequence", "timestamp",
		"session_id", "task_id", "subject", "topic_id", "cognitive_category",
		"question_type", "question_text", "options", "correct_answer", "explanation",
		"learner_answer", "correct", "time_ms",
	).From(entsql.Table(tableAnswerEvents))
	applyQueryOpts(sel, opts)
	sel.OrderBy("sequence")

	query, args := sel.Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query answers: %w", err)
	}
	defer rows.Close()

	var out []AnswerEvent
	for rows.Next() {
		var (
			e       AnswerEvent
			options sql.NullString
		)
		err := rows.Scan(
			&e.ID, &e.Sequence, &e.Timestamp,
			&e.SessionID, &e.TaskID, &e.Subject, &e.TopicID, &e.CognitiveCategory,
			&e.QuestionType, &e.QuestionText, &options, &e.CorrectAnswer, &e.Explanation,
			&e.LearnerAnswer, &e.Correct, &e.TimeMs,
		)
		if err != nil {
			return nil, fmt.Errorf("scan answer: %w", err)
		}
		if options.Valid && options.String != "" {
			if err := json.Unmarshal([]byte(options.String), &e.Options); err != nil {
				return nil, fmt.Errorf("decode options of answer %d: %w", e.ID, err)
			}
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// encodeOptions stores an empty option list as NULL.
func encodeOptions(options []string) (any, error) {
	if len(options) == 0 {
		return nil, nil
	}
	b, err := json.Marshal(options)
	if err != nil {
		return nil, fmt.Errorf("marshal options: %w", err)
	}
	return string(b), nil
}

func (r *eventRepo) AppendTaskEvent(ctx context.Context, data TaskEventData) error {
	err := r.insert(ctx, tableTaskEvents,
		[]string{
			"session_id", "task_id", "action", "task_type", "topic_id", "subject",
			"questions", "errors", "mastery", "completion",
		},
		[]any{
			data.SessionID, data.TaskID, data.Action, data.TaskType, data.TopicID, data.Subject,
			data.Questions, data.Errors, data.Mastery, data.Completion,
		},
	)
	if err != nil {
		return fmt.Errorf("save task event: %w", err)
	}
	return nil
}

// QueryTaskEvents returns task lifecycle events, oldest first.
func (r *eventRepo) QueryTaskEvents(ctx context.Context, opts QueryOpts) ([]TaskEvent, error) {
	sel := builder().Select(
		"id", "sequence", "timestamp",
		"session_id", "task_id", "action", "task_type", "topic_id", "subject",
		"questions", "errors", "mastery", "completion",
	).From(entsql.Table(tableTaskEvents))
	applyQueryOpts(sel, opts)
	sel.OrderBy("sequence")

	query, args := sel.Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query task events: %w", err)
	}
	defer rows.Close()

	var out []TaskEvent
	for rows.Next() {
		var e TaskEvent
		err := rows.Scan(
			&e.ID, &e.Sequence, &e.Timestamp,
			&e.SessionID, &e.TaskID, &e.Action, &e.TaskType, &e.TopicID, &e.Subject,
			&e.Questions, &e.Errors, &e.Mastery, &e.Completion,
		)
		if err != nil {
			return nil, fmt.Errorf("scan task event: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *eventRepo) AppendRoadmapEvent(ctx context.Context, data RoadmapEventData) error {
	body, err := json.Marshal(data.Roadmap)
	if err != nil {
		return fmt.Errorf("marshal roadmap: %w", err)
	}
	err = r.insert(ctx, tableRoadmapEvents,
		[]string{"session_id", "subjects", "target_date", "weeks", "tasks", "roadmap"},
		[]any{data.SessionID, data.Subjects, data.TargetDate, data.Weeks, data.Tasks, string(body)},
	)
	if err != nil {
		return fmt.Errorf("save roadmap event: %w", err)
	}
	return nil
}

func (r *eventRepo) AppendLessonEvent(ctx context.Context, data LessonEventData) error {
	err := r.insert(ctx, tableLessonEvents,
		[]string{"session_id", "task_id", "topic_id", "remedial", "content_length"},
		[]any{data.SessionID, data.TaskID, data.TopicID, data.Remedial, data.ContentLength},
	)
	if err != nil {
		return fmt.Errorf("save lesson event: %w", err)
	}
	return nil
}
