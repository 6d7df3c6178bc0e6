// Package schema holds the ent schemas of every persisted entity. The store
// derives its SQLite tables from these definitions at startup.
package schema

import "entgo.io/ent"

// All lists every schema that maps to a table, in creation order.
func All() []ent.Interface {
	return []ent.Interface{
		AnswerEvent{},
		TaskEvent{},
		RoadmapEvent{},
		LessonEvent{},
		LLMRequestEvent{},
		Snapshot{},
	}
}
