// Package onboarding collects the learner's subjects, exam date and
// weaknesses and requests the first roadmap.
package onboarding

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/scholarprep/internal/content"
	"github.com/abhisek/scholarprep/internal/screen"
	"github.com/abhisek/scholarprep/internal/session"
	"github.com/abhisek/scholarprep/internal/ui/components"
	"github.com/abhisek/scholarprep/internal/ui/layout"
	"github.com/abhisek/scholarprep/internal/ui/theme"
)

// DefaultLead is how far ahead of today the target date starts.
const DefaultLead = 60 * 24 * time.Hour

type field int

const (
	fieldSubjectA field = iota
	fieldSubjectB
	fieldDate
	fieldWeaknesses
	fieldSubmit
	fieldCount
)

// OnboardingScreen is the first-run form.
type OnboardingScreen struct {
	ctx     context.Context
	machine *session.Machine

	subjects   [2]int
	date       components.TextInput
	weaknesses components.TextInput
	focus      field
	loading    components.Loading
	errMsg     string
}

var _ screen.Screen = (*OnboardingScreen)(nil)
var _ screen.KeyHintProvider = (*OnboardingScreen)(nil)
var _ screen.InputCapturer = (*OnboardingScreen)(nil)

// New creates the onboarding form. The target date defaults to DefaultLead
// after today.
func New(ctx context.Context, m *session.Machine, today time.Time) *OnboardingScreen {
	s := &OnboardingScreen{
		ctx:        ctx,
		machine:    m,
		subjects:   [2]int{subjectIndex("English"), subjectIndex("Mathematics")},
		date:       components.NewTextInput(session.DateLayout, len(session.DateLayout)),
		weaknesses: components.NewTextInput("e.g. trigonometry, essay structure", 200),
		loading:    components.NewLoading(" Building your study roadmap..."),
	}
	s.date.SetValue(today.Add(DefaultLead).Format(session.DateLayout))
	s.date.Blur()
	s.weaknesses.Blur()
	return s
}

func subjectIndex(name string) int {
	for i, s := range content.Subjects {
		if s == name {
			return i
		}
	}
	return 0
}

func (s *OnboardingScreen) Init() tea.Cmd {
	return nil
}

func (s *OnboardingScreen) Title() string {
	return "Welcome"
}

func (s *OnboardingScreen) CapturingInput() bool {
	return s.focus == fieldDate || s.focus == fieldWeaknesses
}

func (s *OnboardingScreen) KeyHints() []layout.KeyHint {
	if s.machine.Pending() {
		return []layout.KeyHint{{Key: "Ctrl+C", Description: "Quit"}}
	}
	hints := []layout.KeyHint{{Key: "Tab", Description: "Next field"}}
	if s.focus == fieldSubjectA || s.focus == fieldSubjectB {
		hints = append(hints, layout.KeyHint{Key: "←→", Description: "Change subject"})
	}
	return append(hints,
		layout.KeyHint{Key: "Enter", Description: "Generate roadmap"},
		layout.KeyHint{Key: "Ctrl+C", Description: "Quit"},
	)
}

func (s *OnboardingScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case screen.DeliveredMsg:
		if msg.Kind == session.KindRoadmap && msg.Err != nil {
			s.errMsg = "Could not build your roadmap: " + msg.Err.Error()
		}
		return s, nil

	case tea.KeyMsg:
		if s.machine.Pending() {
			return s, nil
		}
		return s.handleKey(msg)
	}

	if s.machine.Pending() {
		var cmd tea.Cmd
		s.loading, cmd = s.loading.Update(msg)
		return s, cmd
	}
	return s.forwardToInput(msg)
}

func (s *OnboardingScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "tab", "down":
		return s, s.setFocus((s.focus + 1) % fieldCount)
	case "shift+tab", "up":
		return s, s.setFocus((s.focus + fieldCount - 1) % fieldCount)
	case "left", "right":
		if s.focus == fieldSubjectA || s.focus == fieldSubjectB {
			step := 1
			if msg.String() == "left" {
				step = len(content.Subjects) - 1
			}
			i := int(s.focus)
			s.subjects[i] = (s.subjects[i] + step) % len(content.Subjects)
			return s, nil
		}
	case "enter":
		return s.submit()
	}
	return s.forwardToInput(msg)
}

func (s *OnboardingScreen) forwardToInput(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	switch s.focus {
	case fieldDate:
		s.date, cmd = s.date.Update(msg)
	case fieldWeaknesses:
		s.weaknesses, cmd = s.weaknesses.Update(msg)
	}
	return s, cmd
}

func (s *OnboardingScreen) setFocus(f field) tea.Cmd {
	s.focus = f
	s.date.Blur()
	s.weaknesses.Blur()
	switch f {
	case fieldDate:
		return s.date.Focus()
	case fieldWeaknesses:
		return s.weaknesses.Focus()
	}
	return nil
}

func (s *OnboardingScreen) submit() (screen.Screen, tea.Cmd) {
	p := session.Profile{
		Subjects: [2]string{
			content.Subjects[s.subjects[0]],
			content.Subjects[s.subjects[1]],
		},
		TargetDate: s.date.Value(),
		Weaknesses: s.weaknesses.Value(),
	}
	t, err := s.machine.CompleteOnboarding(p)
	if err != nil {
		var verr *session.ValidationError
		if errors.As(err, &verr) {
			s.errMsg = verr.Msg
		} else {
			s.errMsg = err.Error()
		}
		return s, nil
	}
	s.errMsg = ""
	return s, tea.Batch(screen.Fetch(s.ctx, s.machine, t), s.loading.Init())
}

func (s *OnboardingScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	var b strings.Builder
	b.WriteString(theme.Title.Width(cw).Render("Plan your exam preparation"))
	b.WriteString("\n")
	b.WriteString(theme.Subtitle.Width(cw).Render("Pick two subjects and a target date. We'll build a week-by-week roadmap."))
	b.WriteString("\n\n")

	b.WriteString(s.row(fieldSubjectA, "First subject", picker(content.Subjects[s.subjects[0]], s.focus == fieldSubjectA)))
	b.WriteString(s.row(fieldSubjectB, "Second subject", picker(content.Subjects[s.subjects[1]], s.focus == fieldSubjectB)))
	b.WriteString(s.row(fieldDate, "Target date", s.date.View()))
	b.WriteString(s.row(fieldWeaknesses, "Weak spots", s.weaknesses.View()))
	b.WriteString("\n")

	switch {
	case s.machine.Pending():
		b.WriteString(s.loading.View())
	default:
		b.WriteString(components.NewButton("Generate my roadmap", s.focus == fieldSubmit, nil).View())
	}

	if s.errMsg != "" {
		b.WriteString("\n\n")
		b.WriteString(theme.ErrorText.Width(cw - 4).Render(s.errMsg))
	}

	return components.Center(components.Card(b.String(), cw), width, height)
}

func (s *OnboardingScreen) row(f field, label, value string) string {
	marker := "  "
	style := theme.Label
	if s.focus == f {
		marker = "▸ "
		style = theme.Selected
	}
	return style.Render(fmt.Sprintf("%s%-15s", marker, label)) + " " + value + "\n\n"
}

func picker(value string, focused bool) string {
	if !focused {
		return theme.Body.Render(value)
	}
	return lipgloss.NewStyle().Foreground(theme.Accent).Render("◂ ") +
		theme.Selected.Render(value) +
		lipgloss.NewStyle().Foreground(theme.Accent).Render(" ▸")
}
