// Package lesson displays a generated lesson in a scrolling viewport.
package lesson

import (
	"strings"

	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/scholarprep/internal/runner"
	"github.com/abhisek/scholarprep/internal/screen"
	"github.com/abhisek/scholarprep/internal/session"
	"github.com/abhisek/scholarprep/internal/ui/components"
	"github.com/abhisek/scholarprep/internal/ui/layout"
	"github.com/abhisek/scholarprep/internal/ui/theme"
)

// LessonScreen shows one lesson runner.
type LessonScreen struct {
	lesson   *runner.Lesson
	loading  components.Loading
	viewport viewport.Model
	width    int
	height   int
}

var _ screen.Screen = (*LessonScreen)(nil)
var _ screen.KeyHintProvider = (*LessonScreen)(nil)
var _ screen.Resizable = (*LessonScreen)(nil)

// New creates a screen for l.
func New(l *runner.Lesson) *LessonScreen {
	return &LessonScreen{
		lesson:   l,
		loading:  components.NewLoading(" Preparing your lesson..."),
		viewport: viewport.New(),
	}
}

func (s *LessonScreen) Init() tea.Cmd {
	if s.lesson.Phase() == runner.PhaseLoading {
		return s.loading.Init()
	}
	return nil
}

func (s *LessonScreen) Title() string {
	return "Lesson"
}

func (s *LessonScreen) KeyHints() []layout.KeyHint {
	if s.lesson.Phase() == runner.PhaseReady {
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Scroll"},
			{Key: "Enter", Description: "Done"},
			{Key: "Esc", Description: "Dashboard"},
		}
	}
	return []layout.KeyHint{{Key: "Esc", Description: "Dashboard"}}
}

// SetSize sizes the lesson viewport.
func (s *LessonScreen) SetSize(width, height int) {
	s.width, s.height = width, height
	s.viewport.SetWidth(components.ContentWidth(width))
	s.viewport.SetHeight(max(height-4, 1))
	s.refresh()
}

func (s *LessonScreen) refresh() {
	if s.lesson.Phase() != runner.PhaseReady {
		return
	}
	s.viewport.SetContent(Render(s.lesson.Content(), s.viewport.Width()))
}

func (s *LessonScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case screen.DeliveredMsg:
		if msg.Kind == session.KindLesson {
			s.refresh()
			s.viewport.GotoTop()
		}
		return s, nil

	case tea.KeyMsg:
		if msg.String() == "enter" && s.lesson.Phase() != runner.PhaseLoading {
			return s, screen.Navigate(session.StateDashboard)
		}
		if s.lesson.Phase() == runner.PhaseReady {
			var cmd tea.Cmd
			s.viewport, cmd = s.viewport.Update(msg)
			return s, cmd
		}
		return s, nil
	}

	if s.lesson.Phase() == runner.PhaseLoading {
		var cmd tea.Cmd
		s.loading, cmd = s.loading.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *LessonScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	var b strings.Builder
	b.WriteString(theme.Title.Width(cw).Render(s.lesson.Title))
	b.WriteString("\n")
	if s.lesson.ContextualError != "" {
		b.WriteString(theme.Hint.Width(cw).Render("Reviewing a mistake"))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	switch s.lesson.Phase() {
	case runner.PhaseLoading:
		b.WriteString(s.loading.View())
		return components.Center(b.String(), width, height)
	case runner.PhaseFailed:
		b.WriteString(theme.ErrorText.Width(cw).Render("Could not load this lesson: " + errText(s.lesson.Err())))
		b.WriteString("\n\n")
		b.WriteString(theme.Hint.Render("Press Enter to return to the dashboard."))
		return components.Center(b.String(), width, height)
	}

	b.WriteString(s.viewport.View())
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, b.String())
}

func errText(err error) string {
	if err == nil {
		return "unknown error"
	}
	return err.Error()
}

// Render formats lesson markdown for the terminal. Headings and bullets get
// styled; everything else is wrapped to width.
func Render(md string, width int) string {
	body := lipgloss.NewStyle().Foreground(theme.Text).Width(max(width, 10))
	var b strings.Builder
	for line := range strings.SplitSeq(md, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "#"):
			b.WriteString(theme.Heading.Render(strings.TrimSpace(strings.TrimLeft(trimmed, "#"))))
		case strings.HasPrefix(trimmed, "- "), strings.HasPrefix(trimmed, "* "):
			b.WriteString(body.Render("  • " + strings.TrimSpace(trimmed[2:])))
		default:
			b.WriteString(body.Render(strings.ReplaceAll(line, "**", "")))
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
