package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/schema"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// AnswerEvent records one submitted answer of a finished exam.
type AnswerEvent struct {
	ent.Schema
}

func (AnswerEvent) Mixin() []ent.Mixin {
	return []ent.Mixin{EventMixin{}}
}

func (AnswerEvent) Annotations() []schema.Annotation {
	return []schema.Annotation{entsql.Annotation{Table: "answer_events"}}
}

func (AnswerEvent) Fields() []ent.Field {
	return []ent.Field{
		field.String("session_id").
			NotEmpty().
			Comment("Process-level study session"),
		field.String("task_id").
			NotEmpty().
			Comment("Active task the exam belonged to"),
		field.String("subject").
			Comment("Subject of the task, kept so reviews know it"),
		field.String("topic_id").
			NotEmpty(),
		field.String("cognitive_category").
			Default(""),
		field.String("question_type").
			Comment("MCQ or Short Answer"),
		field.String("question_text").
			NotEmpty(),
		field.JSON("options", []string{}).
			Optional().
			Comment("MCQ options in display order, null for short answers"),
		field.String("correct_answer"),
		field.String("explanation").
			Default(""),
		field.String("learner_answer").
			Default(""),
		field.Bool("correct"),
		field.Int64("time_ms").
			Comment("Milliseconds spent on the question"),
	}
}

func (AnswerEvent) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("session_id"),
		index.Fields("topic_id"),
		index.Fields("correct"),
	}
}
