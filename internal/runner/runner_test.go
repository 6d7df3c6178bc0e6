package runner

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/scholarprep/internal/content"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) tick(d time.Duration) { c.t = c.t.Add(d) }

func practiceTask() content.DailyTask {
	return content.DailyTask{
		Day:      "Tuesday",
		TopicID:  "geo_capitals",
		TaskType: content.TaskPractice,
		Subject:  "Geography",
	}
}

func questions(n int) []content.Question {
	qs := []content.Question{
		{Text: "Capital of France?", Type: content.MCQ, Options: []string{"Paris", "Rome"}, CorrectAnswer: "Paris", TopicID: "geo_capitals", CognitiveCategory: "Recall"},
		{Text: "Capital of Italy?", Type: content.ShortAnswer, CorrectAnswer: "Rome", TopicID: "geo_capitals"},
		{Text: "Capital of Spain?", Type: content.ShortAnswer, CorrectAnswer: "Madrid", TopicID: "geo_capitals"},
	}
	return qs[:n]
}

func newExam(t *testing.T, n int) (*Exam, *fakeClock) {
	t.Helper()
	clk := &fakeClock{t: time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)}
	e := NewExam("task-1", practiceTask(), WithClock(clk.now))
	require.NoError(t, e.Load(questions(n)))
	return e, clk
}

func TestExamFullRun(t *testing.T) {
	e, clk := newExam(t, 3)
	assert.Equal(t, PhaseInProgress, e.Phase())

	require.NoError(t, e.RecordAnswer(0, " paris "))
	clk.tick(4 * time.Second)
	r, err := e.Advance()
	require.NoError(t, err)
	assert.Nil(t, r)
	assert.Equal(t, 1, e.Index())

	require.NoError(t, e.RecordAnswer(1, "Milan"))
	clk.tick(7 * time.Second)
	_, err = e.Advance()
	require.NoError(t, err)

	require.NoError(t, e.RecordAnswer(2, "MADRID"))
	clk.tick(2500 * time.Millisecond)
	r, err = e.Advance()
	require.NoError(t, err)
	require.NotNil(t, r)

	assert.Equal(t, PhaseCompleted, e.Phase())
	assert.Same(t, r, e.Result())
	assert.Equal(t, "task-1", r.TaskID)
	assert.Equal(t, 2, r.Score)
	assert.Equal(t, 3, r.Total)
	require.Len(t, r.Answers, 3)
	require.Len(t, r.Errors, 1)

	assert.Equal(t, "Milan", r.Errors[0].UserAnswer)
	assert.Equal(t, "Geography", r.Errors[0].Subject)
	assert.InDelta(t, 4.0, r.Answers[0].TimeTakenSeconds, 1e-9)
	assert.InDelta(t, 7.0, r.Answers[1].TimeTakenSeconds, 1e-9)
	assert.InDelta(t, 2.5, r.Answers[2].TimeTakenSeconds, 1e-9)
}

func TestExamOneAnswerPerQuestion(t *testing.T) {
	for n := 1; n <= 3; n++ {
		e, clk := newExam(t, n)
		var r *Result
		for i := 0; i < n; i++ {
			require.NoError(t, e.RecordAnswer(i, "x"))
			clk.tick(time.Second)
			var err error
			r, err = e.Advance()
			require.NoError(t, err)
		}
		require.NotNil(t, r)
		assert.Len(t, r.Answers, n)
		for _, a := range r.Answers {
			assert.GreaterOrEqual(t, a.TimeTakenSeconds, 0.0)
		}
	}
}

func TestExamRecordAnswerReplaces(t *testing.T) {
	e, _ := newExam(t, 1)
	require.NoError(t, e.RecordAnswer(0, "Rome"))
	require.NoError(t, e.RecordAnswer(0, "Paris"))
	assert.Equal(t, "Paris", e.Answer(0))

	r, err := e.Submit()
	require.NoError(t, err)
	assert.Empty(t, r.Errors)
}

func TestExamRecordAnswerOutOfRange(t *testing.T) {
	e, _ := newExam(t, 2)
	assert.ErrorIs(t, e.RecordAnswer(2, "x"), ErrIndexOutOfRange)
	assert.ErrorIs(t, e.RecordAnswer(-1, "x"), ErrIndexOutOfRange)
}

func TestExamCanAdvance(t *testing.T) {
	e, _ := newExam(t, 2)
	assert.False(t, e.CanAdvance())
	require.NoError(t, e.RecordAnswer(0, "   "))
	assert.False(t, e.CanAdvance())
	require.NoError(t, e.RecordAnswer(0, "Paris"))
	assert.True(t, e.CanAdvance())
}

func TestExamSubmitOnlyAtLast(t *testing.T) {
	e, _ := newExam(t, 2)
	_, err := e.Submit()
	assert.ErrorIs(t, err, ErrNotLastQuestion)
	assert.Equal(t, PhaseInProgress, e.Phase())

	_, err = e.Advance()
	require.NoError(t, err)
	_, err = e.Submit()
	require.NoError(t, err)

	_, err = e.Advance()
	assert.ErrorIs(t, err, ErrWrongPhase)
	_, err = e.Submit()
	assert.ErrorIs(t, err, ErrWrongPhase)
	assert.ErrorIs(t, e.RecordAnswer(0, "late"), ErrWrongPhase)
}

func TestExamClockGoingBackwards(t *testing.T) {
	e, clk := newExam(t, 1)
	clk.tick(-3 * time.Second)
	r, err := e.Submit()
	require.NoError(t, err)
	assert.Zero(t, r.Answers[0].TimeTakenSeconds)
}

func TestExamLoadEmpty(t *testing.T) {
	e := NewExam("task-1", practiceTask())
	assert.ErrorIs(t, e.Load(nil), ErrNoQuestions)
	assert.Equal(t, PhaseFailed, e.Phase())
	assert.ErrorIs(t, e.Err(), ErrNoQuestions)

	_, ok := e.Current()
	assert.False(t, ok)
}

func TestExamFail(t *testing.T) {
	e := NewExam("task-1", practiceTask())
	boom := errors.New("provider down")
	e.Fail(boom)
	assert.Equal(t, PhaseFailed, e.Phase())
	assert.Same(t, boom, e.Err())

	assert.ErrorIs(t, e.Load(questions(1)), ErrWrongPhase)
	_, err := e.Advance()
	assert.ErrorIs(t, err, ErrWrongPhase)
}

func TestExamFailIgnoredOnceLoaded(t *testing.T) {
	e, _ := newExam(t, 1)
	e.Fail(errors.New("late"))
	assert.Equal(t, PhaseInProgress, e.Phase())
	assert.NoError(t, e.Err())
}

func TestLesson(t *testing.T) {
	l := NewLesson("task-2", "english_grammar_tenses", "Verb tenses", "")
	assert.Equal(t, PhaseLoading, l.Phase())

	require.NoError(t, l.Load("# Tenses"))
	assert.Equal(t, PhaseReady, l.Phase())
	assert.Equal(t, "# Tenses", l.Content())
	assert.ErrorIs(t, l.Load("again"), ErrWrongPhase)
}

func TestLessonFailures(t *testing.T) {
	l := NewLesson("task-2", "t", "t", "")
	assert.ErrorIs(t, l.Load("  \n"), ErrNothingToDisplay)
	assert.Equal(t, PhaseFailed, l.Phase())

	l = NewLesson("task-3", "t", "t", "")
	l.Fail(errors.New("offline"))
	assert.Equal(t, PhaseFailed, l.Phase())
	assert.EqualError(t, l.Err(), "offline")
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "in_progress", PhaseInProgress.String())
	assert.Equal(t, "phase(42)", Phase(42).String())
}
