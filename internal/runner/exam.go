// Package runner drives a single active task: an exam that sequences through
// a question batch, or a lesson that is fetched once and displayed.
package runner

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/abhisek/scholarprep/internal/content"
	"github.com/abhisek/scholarprep/internal/scoring"
)

// Phase is the lifecycle position of a runner.
type Phase int

const (
	PhaseLoading    Phase = iota // Waiting for content
	PhaseInProgress              // Exam: answering questions
	PhaseReady                   // Lesson: content shown
	PhaseCompleted               // Exam: submitted, result available
	PhaseFailed                  // Content could not be loaded
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseInProgress:
		return "in_progress"
	case PhaseReady:
		return "ready"
	case PhaseCompleted:
		return "completed"
	case PhaseFailed:
		return "failed"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

var (
	ErrWrongPhase       = errors.New("operation not valid in this phase")
	ErrNoQuestions      = errors.New("no questions to answer")
	ErrIndexOutOfRange  = errors.New("question index out of range")
	ErrNotLastQuestion  = errors.New("submit is only valid on the last question")
	ErrNothingToDisplay = errors.New("lesson content is empty")
)

// Result is what a completed exam hands back to the session.
type Result struct {
	TaskID  string
	Task    content.DailyTask
	Answers []scoring.Answer
	Errors  []scoring.Answer
	Score   int
	Total   int
}

// ExamOption configures an Exam.
type ExamOption func(*Exam)

// WithClock replaces time.Now for question timing.
func WithClock(now func() time.Time) ExamOption {
	return func(e *Exam) { e.now = now }
}

// Exam sequences one question batch. Answers and elapsed times are index
// aligned with the questions. Each question's timer starts when it becomes
// current and is read once, when the learner leaves it.
type Exam struct {
	TaskID string
	Task   content.DailyTask

	phase     Phase
	err       error
	questions []content.Question
	answers   []string
	elapsed   []time.Duration
	index     int
	started   time.Time
	result    *Result

	now func() time.Time
}

// NewExam creates an exam waiting for its questions.
func NewExam(taskID string, task content.DailyTask, opts ...ExamOption) *Exam {
	e := &Exam{TaskID: taskID, Task: task, now: time.Now}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Load installs the fetched questions and starts timing the first one. An
// empty batch fails the exam.
func (e *Exam) Load(questions []content.Question) error {
	if e.phase != PhaseLoading {
		return fmt.Errorf("load: %w (%s)", ErrWrongPhase, e.phase)
	}
	if len(questions) == 0 {
		e.Fail(ErrNoQuestions)
		return ErrNoQuestions
	}

	e.questions = questions
	e.answers = make([]string, len(questions))
	e.elapsed = make([]time.Duration, len(questions))
	e.index = 0
	e.started = e.now()
	e.phase = PhaseInProgress
	return nil
}

// Fail moves a loading exam to the failed phase.
func (e *Exam) Fail(err error) {
	if e.phase != PhaseLoading {
		return
	}
	e.phase = PhaseFailed
	e.err = err
}

func (e *Exam) Phase() Phase { return e.phase }

// Err is the load failure, if the exam failed.
func (e *Exam) Err() error { return e.err }

func (e *Exam) Questions() []content.Question { return e.questions }

func (e *Exam) Index() int { return e.index }

func (e *Exam) Total() int { return len(e.questions) }

// Current returns the question being answered.
func (e *Exam) Current() (content.Question, bool) {
	if e.phase != PhaseInProgress {
		return content.Question{}, false
	}
	return e.questions[e.index], true
}

// Answer returns the recorded answer at index i.
func (e *Exam) Answer(i int) string {
	if i < 0 || i >= len(e.answers) {
		return ""
	}
	return e.answers[i]
}

// IsLast reports whether the current question is the final one.
func (e *Exam) IsLast() bool {
	return e.index == len(e.questions)-1
}

// RecordAnswer stores text as the answer at index, replacing any earlier
// answer.
func (e *Exam) RecordAnswer(index int, text string) error {
	if e.phase != PhaseInProgress {
		return fmt.Errorf("record answer: %w (%s)", ErrWrongPhase, e.phase)
	}
	if index < 0 || index >= len(e.answers) {
		return fmt.Errorf("record answer %d: %w", index, ErrIndexOutOfRange)
	}
	e.answers[index] = text
	return nil
}

// CanAdvance reports whether the current question has a non-blank answer.
func (e *Exam) CanAdvance() bool {
	return e.phase == PhaseInProgress && strings.TrimSpace(e.answers[e.index]) != ""
}

// Advance leaves the current question. On the last question it submits the
// exam and returns the result; otherwise the result is nil.
func (e *Exam) Advance() (*Result, error) {
	if e.phase != PhaseInProgress {
		return nil, fmt.Errorf("advance: %w (%s)", ErrWrongPhase, e.phase)
	}
	if e.IsLast() {
		return e.submit(), nil
	}

	e.stopTimer()
	e.index++
	e.started = e.now()
	return nil, nil
}

// Submit grades the exam. It is only valid on the last question.
func (e *Exam) Submit() (*Result, error) {
	if e.phase != PhaseInProgress {
		return nil, fmt.Errorf("submit: %w (%s)", ErrWrongPhase, e.phase)
	}
	if !e.IsLast() {
		return nil, ErrNotLastQuestion
	}
	return e.submit(), nil
}

// Result is the graded exam, nil until completed.
func (e *Exam) Result() *Result { return e.result }

// Elapsed returns the recorded time for question i.
func (e *Exam) Elapsed(i int) time.Duration {
	if i < 0 || i >= len(e.elapsed) {
		return 0
	}
	return e.elapsed[i]
}

func (e *Exam) stopTimer() {
	d := e.now().Sub(e.started)
	if d < 0 {
		d = 0
	}
	e.elapsed[e.index] = d
}

func (e *Exam) submit() *Result {
	e.stopTimer()

	r := &Result{
		TaskID:  e.TaskID,
		Task:    e.Task,
		Answers: make([]scoring.Answer, len(e.questions)),
		Total:   len(e.questions),
	}
	for i, q := range e.questions {
		a := scoring.Answer{
			Question:         q,
			UserAnswer:       e.answers[i],
			Correct:          scoring.IsCorrect(e.answers[i], q.CorrectAnswer),
			Subject:          e.Task.Subject,
			TimeTakenSeconds: e.elapsed[i].Seconds(),
		}
		r.Answers[i] = a
		if a.Correct {
			r.Score++
		}
	}
	r.Errors = scoring.Errors(r.Answers)

	e.result = r
	e.phase = PhaseCompleted
	return r
}
