package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/schema"
	"entgo.io/ent/schema/field"
)

// RoadmapEvent records a roadmap produced at onboarding.
type RoadmapEvent struct {
	ent.Schema
}

func (RoadmapEvent) Mixin() []ent.Mixin {
	return []ent.Mixin{EventMixin{}}
}

func (RoadmapEvent) Annotations() []schema.Annotation {
	return []schema.Annotation{entsql.Annotation{Table: "roadmap_events"}}
}

func (RoadmapEvent) Fields() []ent.Field {
	return []ent.Field{
		field.String("session_id").NotEmpty(),
		field.String("subjects").
			Comment("Subject pair joined with ' & '"),
		field.String("target_date"),
		field.Int("weeks"),
		field.Int("tasks"),
		field.JSON("roadmap", map[string]any{}).
			Comment("Full roadmap as returned by the content provider"),
	}
}
