package session

import (
	"fmt"
	"strings"
	"time"

	"github.com/abhisek/scholarprep/internal/content"
	"github.com/abhisek/scholarprep/internal/runner"
)

// State is where the learner currently is.
type State int

const (
	StateOnboarding State = iota // Initial, left once a roadmap exists
	StateDashboard
	StateLesson // TaskActive(Lesson)
	StateExam   // TaskActive(Exam)
	StateReview
	StateInsights
)

func (s State) String() string {
	switch s {
	case StateOnboarding:
		return "onboarding"
	case StateDashboard:
		return "dashboard"
	case StateLesson:
		return "lesson"
	case StateExam:
		return "exam"
	case StateReview:
		return "review"
	case StateInsights:
		return "insights"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Navigable reports whether Navigate may target s.
func (s State) Navigable() bool {
	return s == StateDashboard || s == StateReview || s == StateInsights
}

// Profile is the onboarding answer. It is fixed once the roadmap exists.
type Profile struct {
	Subjects   [2]string `json:"subjects"`
	TargetDate string    `json:"targetDate"`
	Weaknesses string    `json:"weaknesses,omitempty"`
}

// normalize trims the profile in place and rejects blank or identical
// subjects and a malformed target date.
func (p *Profile) normalize(op string) error {
	p.Subjects[0] = strings.TrimSpace(p.Subjects[0])
	p.Subjects[1] = strings.TrimSpace(p.Subjects[1])
	p.TargetDate = strings.TrimSpace(p.TargetDate)
	p.Weaknesses = strings.TrimSpace(p.Weaknesses)

	if p.Subjects[0] == "" || p.Subjects[1] == "" {
		return invalid(op, "choose two subjects")
	}
	if strings.EqualFold(p.Subjects[0], p.Subjects[1]) {
		return invalid(op, "please select two different subjects")
	}
	if _, err := time.Parse(DateLayout, p.TargetDate); err != nil {
		return invalid(op, "target date %q is not YYYY-MM-DD", p.TargetDate)
	}
	return nil
}

// ActiveTask is the single task currently being worked on. Exactly one of
// Exam and Lesson is set.
type ActiveTask struct {
	ID   string
	Task content.DailyTask

	// Remedial marks tasks opened from error review rather than the roadmap.
	Remedial bool

	Exam   *runner.Exam
	Lesson *runner.Lesson
}
