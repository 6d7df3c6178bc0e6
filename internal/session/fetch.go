package session

import (
	"context"
	"fmt"

	"github.com/abhisek/scholarprep/internal/content"
)

// Kind is the sort of content a Ticket requests.
type Kind int

const (
	KindRoadmap Kind = iota
	KindLesson
	KindQuestions
)

func (k Kind) String() string {
	switch k {
	case KindRoadmap:
		return "roadmap"
	case KindLesson:
		return "lesson"
	case KindQuestions:
		return "questions"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Ticket describes one outstanding provider request. Epoch and TaskID tie it
// to the machine state that issued it; Deliver refuses it once either has
// moved on.
type Ticket struct {
	Kind   Kind
	Epoch  uint64
	TaskID string

	// KindRoadmap
	Subjects   [2]string
	TargetDate string
	Weaknesses string

	// KindLesson
	TopicID         string
	ContextualError string

	// KindQuestions (TopicID is shared with KindLesson)
	Subject    string
	Difficulty int
	Count      int
}

// Delivery is the outcome of a Ticket.
type Delivery struct {
	Ticket    Ticket
	Roadmap   *content.Roadmap
	Lesson    *content.Lesson
	Questions []content.Question
	Err       error
}

// Fetch performs the provider call for t. It reads no mutable machine state
// and is safe to call from any goroutine.
func (m *Machine) Fetch(ctx context.Context, t Ticket) Delivery {
	d := Delivery{Ticket: t}
	switch t.Kind {
	case KindRoadmap:
		d.Roadmap, d.Err = m.provider.GenerateRoadmap(ctx, t.Subjects, t.TargetDate, t.Weaknesses)
	case KindLesson:
		d.Lesson, d.Err = m.provider.GenerateLesson(ctx, t.TopicID, t.ContextualError)
	case KindQuestions:
		d.Questions, d.Err = m.provider.GenerateQuestions(ctx, t.Subject, t.TopicID, t.Difficulty, t.Count)
	default:
		d.Err = fmt.Errorf("unknown ticket kind %v", t.Kind)
	}
	return d
}

// Run fetches and delivers t in one step, for callers without an event
// loop.
func (m *Machine) Run(ctx context.Context, t Ticket) error {
	return m.Deliver(ctx, m.Fetch(ctx, t))
}
