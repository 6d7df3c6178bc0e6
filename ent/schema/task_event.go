package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/schema"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// TaskEvent records the lifecycle of an active task (start, finish, abandon).
type TaskEvent struct {
	ent.Schema
}

func (TaskEvent) Mixin() []ent.Mixin {
	return []ent.Mixin{EventMixin{}}
}

func (TaskEvent) Annotations() []schema.Annotation {
	return []schema.Annotation{entsql.Annotation{Table: "task_events"}}
}

func (TaskEvent) Fields() []ent.Field {
	return []ent.Field{
		field.String("session_id").NotEmpty(),
		field.String("task_id").NotEmpty(),
		field.String("action").
			NotEmpty().
			Comment("started, finished or abandoned"),
		field.String("task_type").
			Comment("lesson or practice"),
		field.String("topic_id"),
		field.String("subject").Default(""),
		field.Int("questions").
			Default(0).
			Comment("Questions answered (finish only)"),
		field.Int("errors").
			Default(0).
			Comment("Incorrect answers (finish only)"),
		field.Int("mastery").
			Default(0).
			Comment("Mastery score after the transition"),
		field.Int("completion").
			Default(0).
			Comment("Completion percentage after the transition"),
	}
}

func (TaskEvent) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("session_id"),
		index.Fields("task_id"),
		index.Fields("action"),
	}
}
