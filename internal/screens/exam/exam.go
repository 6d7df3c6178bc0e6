// Package exam runs a practice exam: one question at a time, then a graded
// results page.
package exam

import (
	"context"
	"fmt"
	"strings"

	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/scholarprep/internal/content"
	"github.com/abhisek/scholarprep/internal/runner"
	"github.com/abhisek/scholarprep/internal/scoring"
	"github.com/abhisek/scholarprep/internal/screen"
	"github.com/abhisek/scholarprep/internal/session"
	"github.com/abhisek/scholarprep/internal/ui/components"
	"github.com/abhisek/scholarprep/internal/ui/layout"
	"github.com/abhisek/scholarprep/internal/ui/theme"
)

// ExamScreen shows one exam runner.
type ExamScreen struct {
	ctx     context.Context
	machine *session.Machine
	exam    *runner.Exam

	loading components.Loading
	choice  components.MultiChoice
	input   components.TextInput
	shown   int // question index the widgets were built for
	results viewport.Model
	errMsg  string
}

var _ screen.Screen = (*ExamScreen)(nil)
var _ screen.KeyHintProvider = (*ExamScreen)(nil)
var _ screen.InputCapturer = (*ExamScreen)(nil)
var _ screen.Resizable = (*ExamScreen)(nil)

// New creates a screen for e.
func New(ctx context.Context, m *session.Machine, e *runner.Exam) *ExamScreen {
	s := &ExamScreen{
		ctx:     ctx,
		machine: m,
		exam:    e,
		loading: components.NewLoading(" Writing your practice questions..."),
		input:   components.NewTextInput("Type your answer...", 500),
		results: viewport.New(),
		shown:   -1,
	}
	s.syncWidgets()
	return s
}

func (s *ExamScreen) Init() tea.Cmd {
	if s.exam.Phase() == runner.PhaseLoading {
		return s.loading.Init()
	}
	return s.input.Init()
}

func (s *ExamScreen) Title() string {
	return "Practice Exam"
}

func (s *ExamScreen) CapturingInput() bool {
	q, ok := s.exam.Current()
	return ok && s.exam.Phase() == runner.PhaseInProgress && q.Type != content.MCQ
}

func (s *ExamScreen) KeyHints() []layout.KeyHint {
	switch s.exam.Phase() {
	case runner.PhaseInProgress:
		next := "Next"
		if s.exam.IsLast() {
			next = "Finish"
		}
		q, _ := s.exam.Current()
		if q.Type == content.MCQ {
			return []layout.KeyHint{
				{Key: "↑↓", Description: "Move"},
				{Key: "1-9/Space", Description: "Choose"},
				{Key: "Enter", Description: next},
				{Key: "Esc", Description: "Abandon"},
			}
		}
		return []layout.KeyHint{
			{Key: "Enter", Description: next},
			{Key: "Esc", Description: "Abandon"},
		}
	case runner.PhaseCompleted:
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Scroll"},
			{Key: "Enter", Description: "Save & return"},
		}
	case runner.PhaseFailed:
		return []layout.KeyHint{{Key: "Enter", Description: "Dashboard"}}
	}
	return []layout.KeyHint{{Key: "Esc", Description: "Dashboard"}}
}

// SetSize sizes the results viewport.
func (s *ExamScreen) SetSize(width, height int) {
	s.results.SetWidth(components.ContentWidth(width))
	s.results.SetHeight(max(height-4, 1))
	s.refreshResults()
}

func (s *ExamScreen) refreshResults() {
	if r := s.exam.Result(); r != nil {
		s.results.SetContent(RenderResults(s.exam, s.results.Width()))
	}
}

// syncWidgets rebuilds the answer widget when the current question changes.
func (s *ExamScreen) syncWidgets() {
	if s.exam.Phase() != runner.PhaseInProgress || s.shown == s.exam.Index() {
		return
	}
	s.shown = s.exam.Index()
	q, _ := s.exam.Current()
	prev := s.exam.Answer(s.shown)
	if q.Type == content.MCQ {
		s.choice = components.NewMultiChoice(q.Options, prev)
		return
	}
	s.input = components.NewTextInput("Type your answer...", 500)
	s.input.SetValue(prev)
}

func (s *ExamScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case screen.DeliveredMsg:
		if msg.Kind == session.KindQuestions {
			s.syncWidgets()
			return s, s.input.Init()
		}
		return s, nil

	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	switch s.exam.Phase() {
	case runner.PhaseLoading:
		var cmd tea.Cmd
		s.loading, cmd = s.loading.Update(msg)
		return s, cmd
	case runner.PhaseInProgress:
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *ExamScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch s.exam.Phase() {
	case runner.PhaseInProgress:
		return s.handleAnswerKey(msg)
	case runner.PhaseCompleted:
		if msg.String() == "enter" {
			return s.finish()
		}
		var cmd tea.Cmd
		s.results, cmd = s.results.Update(msg)
		return s, cmd
	case runner.PhaseFailed:
		if msg.String() == "enter" {
			return s, screen.Navigate(session.StateDashboard)
		}
	}
	return s, nil
}

func (s *ExamScreen) handleAnswerKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	q, _ := s.exam.Current()
	idx := s.exam.Index()

	if msg.String() == "enter" {
		if q.Type == content.MCQ && s.choice.Value() == "" {
			s.choice.Choose()
			s.record(idx, s.choice.Value())
			return s, nil
		}
		return s.advance()
	}

	var cmd tea.Cmd
	if q.Type == content.MCQ {
		s.choice, cmd = s.choice.Update(msg)
		s.record(idx, s.choice.Value())
	} else {
		s.input, cmd = s.input.Update(msg)
		s.record(idx, s.input.Value())
	}
	return s, cmd
}

func (s *ExamScreen) record(idx int, answer string) {
	if err := s.exam.RecordAnswer(idx, answer); err != nil {
		s.errMsg = err.Error()
	}
}

func (s *ExamScreen) advance() (screen.Screen, tea.Cmd) {
	if !s.exam.CanAdvance() {
		s.errMsg = "Answer the question before moving on."
		return s, nil
	}
	s.errMsg = ""
	if _, err := s.exam.Advance(); err != nil {
		s.errMsg = err.Error()
		return s, nil
	}
	if s.exam.Phase() == runner.PhaseCompleted {
		s.refreshResults()
		return s, nil
	}
	s.syncWidgets()
	return s, s.input.Init()
}

func (s *ExamScreen) finish() (screen.Screen, tea.Cmd) {
	if err := s.machine.FinishExam(s.ctx, s.exam.Result()); err != nil {
		s.errMsg = err.Error()
	}
	return s, nil
}

func (s *ExamScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	switch s.exam.Phase() {
	case runner.PhaseLoading:
		topic := theme.Subtitle.Render(scoring.TopicLabel(s.exam.Task.TopicID))
		return components.Center(topic+"\n\n"+s.loading.View(), width, height)

	case runner.PhaseFailed:
		var b strings.Builder
		b.WriteString(theme.ErrorText.Width(cw).Render("Could not prepare this exam: " + errText(s.exam.Err())))
		b.WriteString("\n\n")
		b.WriteString(theme.Hint.Render("Press Enter to return to the dashboard."))
		return components.Center(b.String(), width, height)

	case runner.PhaseCompleted:
		r := s.exam.Result()
		var b strings.Builder
		b.WriteString(theme.Title.Width(cw).Render(fmt.Sprintf("Score: %d/%d", r.Score, r.Total)))
		b.WriteString("\n\n")
		b.WriteString(s.results.View())
		if s.errMsg != "" {
			b.WriteString("\n")
			b.WriteString(theme.ErrorText.Render(s.errMsg))
		}
		return components.Center(b.String(), width, height)
	}

	return components.Center(s.questionView(cw), width, height)
}

func (s *ExamScreen) questionView(cw int) string {
	q, _ := s.exam.Current()
	i, n := s.exam.Index(), s.exam.Total()

	var b strings.Builder
	b.WriteString(theme.Label.Render(fmt.Sprintf("Question %d of %d", i+1, n)))
	b.WriteString("  ")
	b.WriteString(theme.Hint.Render(q.CognitiveCategory))
	b.WriteString("\n")
	b.WriteString(components.NewProgressBar("", float64(i)/float64(n), false, cw-4).View())
	b.WriteString("\n\n")
	b.WriteString(theme.Body.Bold(true).Width(cw - 4).Render(q.Text))
	b.WriteString("\n\n")

	if q.Type == content.MCQ {
		b.WriteString(s.choice.View())
	} else {
		b.WriteString(s.input.View())
		b.WriteString("\n")
	}
	b.WriteString("\n")

	label := "Next"
	if s.exam.IsLast() {
		label = "Finish"
	}
	b.WriteString(components.NewButton(label, s.exam.CanAdvance(), nil).View())

	if s.errMsg != "" {
		b.WriteString("\n\n")
		b.WriteString(theme.ErrorText.Render(s.errMsg))
	}
	return components.Card(b.String(), cw)
}

// RenderResults formats the graded questions of a completed exam.
func RenderResults(e *runner.Exam, width int) string {
	r := e.Result()
	if r == nil {
		return ""
	}
	text := theme.Body.Width(max(width-4, 10))

	var b strings.Builder
	for i, a := range r.Answers {
		mark := theme.Correct.Render("✓")
		if !a.Correct {
			mark = theme.Incorrect.Render("✗")
		}
		fmt.Fprintf(&b, "%s %s  %s\n", mark,
			theme.Label.Render(fmt.Sprintf("Q%d", i+1)),
			theme.Hint.Render(fmt.Sprintf("%.1fs", e.Elapsed(i).Seconds())))
		b.WriteString(text.Render(a.Question.Text))
		b.WriteString("\n")

		answer := a.UserAnswer
		if strings.TrimSpace(answer) == "" {
			answer = "(no answer)"
		}
		b.WriteString(theme.Label.Render("  Your answer: ") + answer + "\n")
		if !a.Correct {
			b.WriteString(theme.Label.Render("  Correct answer: ") + theme.Correct.Render(a.Question.CorrectAnswer) + "\n")
		}
		if a.Question.Explanation != "" {
			b.WriteString(theme.Hint.Width(max(width-4, 10)).Render(a.Question.Explanation))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func errText(err error) string {
	if err == nil {
		return "unknown error"
	}
	return err.Error()
}
