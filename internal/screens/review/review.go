// Package review lists past mistakes and opens remedial lessons or
// practice for them.
package review

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/scholarprep/internal/scoring"
	"github.com/abhisek/scholarprep/internal/screen"
	"github.com/abhisek/scholarprep/internal/session"
	"github.com/abhisek/scholarprep/internal/ui/components"
	"github.com/abhisek/scholarprep/internal/ui/layout"
	"github.com/abhisek/scholarprep/internal/ui/theme"
)

// ReviewScreen shows the error history.
type ReviewScreen struct {
	ctx      context.Context
	machine  *session.Machine
	errors   []scoring.Answer
	selected int
	errMsg   string
}

var _ screen.Screen = (*ReviewScreen)(nil)
var _ screen.KeyHintProvider = (*ReviewScreen)(nil)

// New creates the review list from m's current error history.
func New(ctx context.Context, m *session.Machine) *ReviewScreen {
	return &ReviewScreen{ctx: ctx, machine: m, errors: m.Errors()}
}

func (s *ReviewScreen) Init() tea.Cmd {
	return nil
}

func (s *ReviewScreen) Title() string {
	return "Error Review"
}

func (s *ReviewScreen) KeyHints() []layout.KeyHint {
	if len(s.errors) == 0 {
		return []layout.KeyHint{
			{Key: "D", Description: "Dashboard"},
			{Key: "I", Description: "Insights"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "A", Description: "Explain mistake"},
		{Key: "P", Description: "Practice topic"},
		{Key: "D", Description: "Dashboard"},
	}
}

func (s *ReviewScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok || len(s.errors) == 0 {
		return s, nil
	}

	switch kmsg.String() {
	case "up", "k":
		if s.selected > 0 {
			s.selected--
		}
	case "down", "j":
		if s.selected < len(s.errors)-1 {
			s.selected++
		}
	case "a", "enter":
		return s, s.start(s.machine.AnalyzeError(s.ctx, s.errors[s.selected]))
	case "p":
		return s, s.start(s.machine.PracticeError(s.ctx, s.errors[s.selected]))
	}
	return s, nil
}

func (s *ReviewScreen) start(t session.Ticket, err error) tea.Cmd {
	if err != nil {
		var verr *session.ValidationError
		if errors.As(err, &verr) {
			s.errMsg = verr.Msg
		} else {
			s.errMsg = err.Error()
		}
		return nil
	}
	s.errMsg = ""
	return screen.Fetch(s.ctx, s.machine, t)
}

func (s *ReviewScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	if len(s.errors) == 0 {
		msg := theme.Title.Render("No mistakes yet") + "\n\n" +
			theme.Subtitle.Render("Finish a practice exam and any wrong answers will show up here.")
		return components.Center(components.Card(msg, cw), width, height)
	}

	var b strings.Builder
	b.WriteString(theme.Title.Render(fmt.Sprintf("%d mistakes to learn from", len(s.errors))))
	b.WriteString("\n\n")

	// Keep the selected entry on screen: each entry is about four lines.
	per := 4
	visible := max((height-8)/per, 1)
	start := 0
	if s.selected >= visible {
		start = s.selected - visible + 1
	}
	end := min(start+visible, len(s.errors))

	for i := start; i < end; i++ {
		b.WriteString(s.entry(i, cw-6))
	}
	if end < len(s.errors) {
		b.WriteString(theme.Hint.Render(fmt.Sprintf("… %d more", len(s.errors)-end)))
	}
	if s.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(theme.ErrorText.Render(s.errMsg))
	}
	return components.Center(components.Card(b.String(), cw), width, height)
}

func (s *ReviewScreen) entry(i, width int) string {
	e := s.errors[i]
	marker := "  "
	title := theme.Body.Width(width - 2)
	if i == s.selected {
		marker = theme.Selected.Render("▸ ")
		title = theme.Selected.Width(width - 2)
	}

	var b strings.Builder
	b.WriteString(marker)
	b.WriteString(title.Render(e.Question.Text))
	b.WriteString("\n")
	b.WriteString("  " + theme.Hint.Render(fmt.Sprintf("%s · %s", e.Subject, scoring.TopicLabel(e.Question.TopicID))))
	b.WriteString("\n")
	answer := e.UserAnswer
	if strings.TrimSpace(answer) == "" {
		answer = "(no answer)"
	}
	b.WriteString("  " + theme.Incorrect.Render("✗ "+answer) + "   " + theme.Correct.Render("✓ "+e.Question.CorrectAnswer))
	b.WriteString("\n\n")
	return b.String()
}
