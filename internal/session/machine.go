// Package session holds the learner's study session: onboarding, the
// roadmap, the single active task and the accumulated answer history.
//
// A Machine is not safe for concurrent use. Every method except Fetch must
// be called from the one goroutine that owns the machine (the TUI event
// loop, or a command's main goroutine).
package session

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/abhisek/scholarprep/internal/content"
	"github.com/abhisek/scholarprep/internal/metrics"
	"github.com/abhisek/scholarprep/internal/runner"
	"github.com/abhisek/scholarprep/internal/scoring"
	"github.com/abhisek/scholarprep/internal/store"
)

// DateLayout is the format of Profile.TargetDate.
const DateLayout = "2006-01-02"

// Options sets the exam policy.
type Options struct {
	QuestionCount      int
	QuestionDifficulty int
	SnapshotsKept      int
}

// DefaultOptions returns the standard exam policy.
func DefaultOptions() Options {
	return Options{QuestionCount: 5, QuestionDifficulty: 6, SnapshotsKept: 5}
}

// Option configures optional collaborators.
type Option func(*Machine)

// WithEvents records answers and task lifecycle to w.
func WithEvents(w store.EventWriter) Option {
	return func(m *Machine) { m.events = w }
}

// WithSnapshots saves the session after every roadmap and finished exam.
func WithSnapshots(r store.SnapshotRepo) Option {
	return func(m *Machine) { m.snapshots = r }
}

// WithMetrics reports transitions, answers, scores and stale deliveries to mt.
func WithMetrics(mt *metrics.Metrics) Option {
	return func(m *Machine) { m.metrics = mt }
}

// WithLogger replaces the default no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(m *Machine) { m.logger = l }
}

// WithClock replaces time.Now for exam timing.
func WithClock(now func() time.Time) Option {
	return func(m *Machine) { m.now = now }
}

// Machine is the session state machine.
type Machine struct {
	provider content.Provider
	opts     Options

	events    store.EventWriter
	snapshots store.SnapshotRepo
	metrics   *metrics.Metrics
	logger    *zap.Logger
	now       func() time.Time

	sessionID  string
	state      State
	profile    *Profile
	roadmap    *content.Roadmap
	answers    []scoring.Answer
	errors     []scoring.Answer
	mastery    int
	completion int

	active  *ActiveTask
	pending *Ticket // roadmap request in flight
	epoch   uint64
}

// New creates a machine in the onboarding state.
func New(provider content.Provider, opts Options, options ...Option) *Machine {
	d := DefaultOptions()
	if opts.QuestionCount < 1 {
		opts.QuestionCount = d.QuestionCount
	}
	if opts.QuestionDifficulty < 1 || opts.QuestionDifficulty > 10 {
		opts.QuestionDifficulty = d.QuestionDifficulty
	}
	if opts.SnapshotsKept < 1 {
		opts.SnapshotsKept = d.SnapshotsKept
	}

	m := &Machine{
		provider:   provider,
		opts:       opts,
		logger:     zap.NewNop(),
		now:        time.Now,
		sessionID:  uuid.NewString(),
		state:      StateOnboarding,
		mastery:    scoring.InitialMastery,
		completion: scoring.InitialCompletion,
	}
	for _, o := range options {
		o(m)
	}
	m.logger = m.logger.Named("session").With(zap.String("session_id", m.sessionID))
	m.observeScores()
	return m
}

// SessionID identifies this study session in stored events.
func (m *Machine) SessionID() string { return m.sessionID }

// State returns where the learner currently is.
func (m *Machine) State() State { return m.state }

// Profile returns the onboarding answers, or nil before onboarding.
func (m *Machine) Profile() *Profile { return m.profile }

// Roadmap returns the study plan, or nil before onboarding.
func (m *Machine) Roadmap() *content.Roadmap { return m.roadmap }

// Mastery is the current mastery score, 0..100.
func (m *Machine) Mastery() int { return m.mastery }

// Completion is the current completion percentage, 0..100.
func (m *Machine) Completion() int { return m.completion }

// Active returns the current task, or nil.
func (m *Machine) Active() *ActiveTask { return m.active }

// Pending reports whether a roadmap request is outstanding.
func (m *Machine) Pending() bool { return m.pending != nil }

// Answers returns a copy of the answer history.
func (m *Machine) Answers() []scoring.Answer {
	return append([]scoring.Answer(nil), m.answers...)
}

// Errors returns a copy of the error history.
func (m *Machine) Errors() []scoring.Answer {
	return append([]scoring.Answer(nil), m.errors...)
}

// Insights recomputes statistics over the full history.
func (m *Machine) Insights() scoring.Insights {
	return scoring.ComputeInsights(m.answers, m.errors)
}

// CompleteOnboarding validates the profile and issues the roadmap request.
// The machine stays in onboarding until the delivery succeeds.
func (m *Machine) CompleteOnboarding(p Profile) (Ticket, error) {
	const op = "complete onboarding"

	if m.state != StateOnboarding {
		return Ticket{}, invalid(op, "already onboarded")
	}
	if m.pending != nil {
		return Ticket{}, invalid(op, "a roadmap request is already in progress")
	}

	if err := p.normalize(op); err != nil {
		return Ticket{}, err
	}

	m.epoch++
	t := Ticket{
		Kind:       KindRoadmap,
		Epoch:      m.epoch,
		Subjects:   p.Subjects,
		TargetDate: p.TargetDate,
		Weaknesses: p.Weaknesses,
	}
	m.pending = &t
	return t, nil
}

// StartTask makes task the active task and issues its content request. Any
// previous active task is abandoned.
func (m *Machine) StartTask(ctx context.Context, task content.DailyTask) (Ticket, error) {
	return m.startTask(ctx, "start task", task, false, "")
}

// AnalyzeError opens a lesson explaining a wrong answer.
func (m *Machine) AnalyzeError(ctx context.Context, e scoring.Answer) (Ticket, error) {
	task := content.DailyTask{
		Day:      "Review",
		TopicID:  e.Question.Text,
		TaskType: content.TaskLesson,
		Subject:  e.Subject,
	}
	return m.startTask(ctx, "analyze error", task, true, ErrorContext(e))
}

// ErrorContext explains a mistake to the lesson generator.
func ErrorContext(e scoring.Answer) string {
	return fmt.Sprintf("My incorrect answer was %q. The correct answer is %q. Please explain the concept and why I was wrong.",
		e.UserAnswer, e.Question.CorrectAnswer)
}

// PracticeTopic opens an ad-hoc exam on topic.
func (m *Machine) PracticeTopic(ctx context.Context, topic, subject string) (Ticket, error) {
	const op = "practice topic"
	if strings.TrimSpace(topic) == "" {
		return Ticket{}, invalid(op, "topic is required")
	}
	if strings.TrimSpace(subject) == "" {
		return Ticket{}, invalid(op, "subject is required")
	}
	task := content.DailyTask{
		Day:         "Review",
		TopicID:     topic,
		TaskType:    content.TaskPractice,
		Subject:     subject,
		Description: "Targeted practice for: " + topic,
	}
	return m.startTask(ctx, op, task, true, "")
}

// PracticeError practises the topic of a wrong answer in its own subject.
func (m *Machine) PracticeError(ctx context.Context, e scoring.Answer) (Ticket, error) {
	return m.PracticeTopic(ctx, e.Question.TopicID, e.Subject)
}

func (m *Machine) startTask(ctx context.Context, op string, task content.DailyTask, remedial bool, contextualError string) (Ticket, error) {
	if m.state == StateOnboarding {
		return Ticket{}, invalid(op, "no roadmap yet")
	}
	if strings.TrimSpace(task.TopicID) == "" {
		return Ticket{}, invalid(op, "task has no topic")
	}

	var next State
	switch task.TaskType {
	case content.TaskLesson:
		next = StateLesson
	case content.TaskPractice:
		next = StateExam
	default:
		return Ticket{}, invalid(op, "unknown task type %q", task.TaskType)
	}

	m.abandon(ctx)
	m.epoch++

	a := &ActiveTask{ID: uuid.NewString(), Task: task, Remedial: remedial}
	t := Ticket{Epoch: m.epoch, TaskID: a.ID, TopicID: task.TopicID}

	switch next {
	case StateLesson:
		a.Lesson = runner.NewLesson(a.ID, task.TopicID, lessonTitle(task), contextualError)
		t.Kind = KindLesson
		t.ContextualError = contextualError
	case StateExam:
		a.Exam = runner.NewExam(a.ID, task, runner.WithClock(m.now))
		t.Kind = KindQuestions
		t.Subject = task.Subject
		t.Difficulty = m.opts.QuestionDifficulty
		t.Count = m.opts.QuestionCount
	}

	m.active = a
	m.transition(next)
	m.recordTask(ctx, store.TaskStarted, a, 0, 0)
	return t, nil
}

func lessonTitle(task content.DailyTask) string {
	if d := strings.TrimSpace(task.Description); d != "" {
		return d
	}
	return scoring.TopicLabel(task.TopicID)
}

// Deliver applies a fetched result. A delivery for an abandoned request is
// rejected with *StaleResponseError and changes nothing. A provider failure
// is returned after being recorded: onboarding stays put, and the active
// runner moves to its failed phase.
func (m *Machine) Deliver(ctx context.Context, d Delivery) error {
	t := d.Ticket
	if m.isStale(t) {
		if m.metrics != nil {
			m.metrics.StaleResults.Inc()
		}
		m.logger.Debug("dropping stale response",
			zap.Stringer("kind", t.Kind),
			zap.Uint64("epoch", t.Epoch),
			zap.String("task_id", t.TaskID),
		)
		return &StaleResponseError{Kind: t.Kind, Epoch: t.Epoch, TaskID: t.TaskID}
	}

	switch t.Kind {
	case KindRoadmap:
		return m.deliverRoadmap(ctx, d)
	case KindLesson:
		return m.deliverLesson(ctx, d)
	case KindQuestions:
		return m.deliverQuestions(d)
	}
	return fmt.Errorf("deliver: unknown ticket kind %v", t.Kind)
}

func (m *Machine) isStale(t Ticket) bool {
	if t.Epoch != m.epoch {
		return true
	}
	switch t.Kind {
	case KindRoadmap:
		return m.pending == nil || m.state != StateOnboarding
	case KindLesson:
		return m.active == nil || m.active.ID != t.TaskID || m.active.Lesson == nil
	case KindQuestions:
		return m.active == nil || m.active.ID != t.TaskID || m.active.Exam == nil
	}
	return false
}

func (m *Machine) deliverRoadmap(ctx context.Context, d Delivery) error {
	t := d.Ticket
	m.pending = nil

	if d.Err == nil && (d.Roadmap == nil || len(d.Roadmap.Schedule) == 0) {
		d.Err = &content.GenerationError{Op: content.PurposeRoadmap, Err: content.ErrEmptyResult}
	}
	if d.Err != nil {
		m.logger.Warn("roadmap generation failed", zap.Error(d.Err))
		return d.Err
	}

	m.profile = &Profile{Subjects: t.Subjects, TargetDate: t.TargetDate, Weaknesses: t.Weaknesses}
	m.roadmap = d.Roadmap
	m.transition(StateDashboard)

	m.record(ctx, "roadmap event", func(ctx context.Context) error {
		return m.events.AppendRoadmapEvent(ctx, store.RoadmapEventData{
			SessionID:  m.sessionID,
			Subjects:   strings.Join(t.Subjects[:], ","),
			TargetDate: t.TargetDate,
			Weeks:      len(d.Roadmap.Schedule),
			Tasks:      d.Roadmap.TaskCount(),
			Roadmap:    d.Roadmap,
		})
	})
	m.saveSnapshot(ctx)
	return nil
}

func (m *Machine) deliverLesson(ctx context.Context, d Delivery) error {
	a := m.active
	if d.Err != nil {
		a.Lesson.Fail(d.Err)
		m.logger.Warn("lesson generation failed", zap.String("topic", a.Task.TopicID), zap.Error(d.Err))
		return d.Err
	}
	var body string
	if d.Lesson != nil {
		body = d.Lesson.Content
	}
	if err := a.Lesson.Load(body); err != nil {
		return err
	}

	m.record(ctx, "lesson event", func(ctx context.Context) error {
		return m.events.AppendLessonEvent(ctx, store.LessonEventData{
			SessionID:     m.sessionID,
			TaskID:        a.ID,
			TopicID:       a.Task.TopicID,
			Remedial:      a.Remedial,
			ContentLength: len(body),
		})
	})
	return nil
}

func (m *Machine) deliverQuestions(d Delivery) error {
	a := m.active
	if d.Err != nil {
		a.Exam.Fail(d.Err)
		m.logger.Warn("question generation failed", zap.String("topic", a.Task.TopicID), zap.Error(d.Err))
		return d.Err
	}
	return a.Exam.Load(d.Questions)
}

// FinishExam merges a completed exam into the history and returns to the
// dashboard.
func (m *Machine) FinishExam(ctx context.Context, r *runner.Result) error {
	const op = "finish exam"

	if m.state != StateExam || m.active == nil || m.active.Exam == nil {
		return invalid(op, "no exam in progress")
	}
	if r == nil || r.TaskID != m.active.ID {
		return invalid(op, "result does not belong to the active task")
	}

	m.answers = append(m.answers, r.Answers...)
	m.errors = append(m.errors, r.Errors...)
	m.mastery = scoring.MergeMastery(m.mastery, len(r.Errors))
	m.completion = scoring.MergeCompletion(m.completion, scoring.CompletionStep)

	if m.metrics != nil {
		m.metrics.ExamsFinished.Inc()
		for _, a := range r.Answers {
			m.metrics.Answers.WithLabelValues(fmt.Sprint(a.Correct)).Inc()
		}
	}
	m.observeScores()

	a := m.active
	m.record(ctx, "answer events", func(ctx context.Context) error {
		return m.events.AppendAnswerEvents(ctx, answerEvents(m.sessionID, a.ID, r.Answers))
	})
	m.recordTask(ctx, store.TaskFinished, a, len(r.Answers), len(r.Errors))

	m.logger.Info("exam finished",
		zap.String("task_id", a.ID),
		zap.String("topic", a.Task.TopicID),
		zap.Int("score", r.Score),
		zap.Int("total", r.Total),
		zap.Int("mastery", m.mastery),
		zap.Int("completion", m.completion),
	)

	m.active = nil
	m.epoch++
	m.transition(StateDashboard)
	m.saveSnapshot(ctx)
	return nil
}

// Navigate moves to the dashboard, review or insights, abandoning any active
// task.
func (m *Machine) Navigate(ctx context.Context, target State) error {
	const op = "navigate"
	if !target.Navigable() {
		return invalid(op, "cannot navigate to %s", target)
	}
	if m.roadmap == nil {
		return invalid(op, "no roadmap yet")
	}

	m.abandon(ctx)
	m.epoch++
	m.transition(target)
	return nil
}

// abandon drops the active task without touching the history.
func (m *Machine) abandon(ctx context.Context) {
	if m.active == nil {
		return
	}
	m.recordTask(ctx, store.TaskAbandoned, m.active, 0, 0)
	m.active = nil
}

func (m *Machine) transition(next State) {
	if m.metrics != nil {
		m.metrics.Transitions.WithLabelValues(m.state.String(), next.String()).Inc()
	}
	m.logger.Debug("transition", zap.Stringer("from", m.state), zap.Stringer("to", next))
	m.state = next
}

func (m *Machine) observeScores() {
	if m.metrics == nil {
		return
	}
	m.metrics.Mastery.Set(float64(m.mastery))
	m.metrics.Completion.Set(float64(m.completion))
}
