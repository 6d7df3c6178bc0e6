package runner

import (
	"fmt"
	"strings"
)

// Lesson is a single fetch-and-display task. Its only exit is back to the
// dashboard.
type Lesson struct {
	TaskID  string
	TopicID string
	Title   string

	// ContextualError explains a mistake when the lesson was opened from
	// error review.
	ContextualError string

	phase   Phase
	content string
	err     error
}

// NewLesson creates a lesson waiting for content.
func NewLesson(taskID, topicID, title, contextualError string) *Lesson {
	return &Lesson{
		TaskID:          taskID,
		TopicID:         topicID,
		Title:           title,
		ContextualError: contextualError,
	}
}

// Load installs the lesson body.
func (l *Lesson) Load(content string) error {
	if l.phase != PhaseLoading {
		return fmt.Errorf("load lesson: %w (%s)", ErrWrongPhase, l.phase)
	}
	if strings.TrimSpace(content) == "" {
		l.Fail(ErrNothingToDisplay)
		return ErrNothingToDisplay
	}
	l.content = content
	l.phase = PhaseReady
	return nil
}

// Fail moves a loading lesson to the failed phase.
func (l *Lesson) Fail(err error) {
	if l.phase != PhaseLoading {
		return
	}
	l.phase = PhaseFailed
	l.err = err
}

func (l *Lesson) Phase() Phase { return l.phase }

func (l *Lesson) Content() string { return l.content }

func (l *Lesson) Err() error { return l.err }
