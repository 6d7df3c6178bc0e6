// Package week lists the daily tasks of one roadmap week.
package week

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/scholarprep/internal/content"
	"github.com/abhisek/scholarprep/internal/screen"
	"github.com/abhisek/scholarprep/internal/session"
	"github.com/abhisek/scholarprep/internal/ui/components"
	"github.com/abhisek/scholarprep/internal/ui/layout"
	"github.com/abhisek/scholarprep/internal/ui/theme"
)

// WeekScreen shows a week's tasks; Enter starts one.
type WeekScreen struct {
	ctx     context.Context
	machine *session.Machine
	week    content.WeeklySchedule
	menu    components.Menu
	errMsg  string
}

var _ screen.Screen = (*WeekScreen)(nil)
var _ screen.KeyHintProvider = (*WeekScreen)(nil)

// New creates the task list for w.
func New(ctx context.Context, m *session.Machine, w content.WeeklySchedule) *WeekScreen {
	s := &WeekScreen{ctx: ctx, machine: m, week: w}

	items := make([]components.MenuItem, len(w.Tasks))
	for i, task := range w.Tasks {
		items[i] = components.MenuItem{
			Label:  fmt.Sprintf("%-10s %s", task.Day, taskLabel(task)),
			Detail: task.Subject,
			Action: func() tea.Cmd { return s.start(task) },
		}
	}
	s.menu = components.NewMenu(items)
	return s
}

func taskLabel(t content.DailyTask) string {
	kind := "Lesson"
	if t.TaskType == content.TaskPractice {
		kind = "Practice"
	}
	desc := t.Description
	if desc == "" {
		desc = t.TopicID
	}
	return fmt.Sprintf("[%s] %s", kind, desc)
}

func (s *WeekScreen) start(task content.DailyTask) tea.Cmd {
	t, err := s.machine.StartTask(s.ctx, task)
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

func (s *WeekScreen) Init() tea.Cmd {
	return nil
}

func (s *WeekScreen) Title() string {
	return fmt.Sprintf("Week %d", s.week.Week)
}

func (s *WeekScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Start task"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *WeekScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	s.menu, cmd = s.menu.Update(msg)
	return s, cmd
}

func (s *WeekScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	var b strings.Builder
	b.WriteString(theme.Title.Render(fmt.Sprintf("Week %d", s.week.Week)))
	b.WriteString("\n")
	b.WriteString(theme.Subtitle.Render(s.week.Theme))
	b.WriteString("\n\n")
	if len(s.week.Tasks) == 0 {
		b.WriteString(theme.Hint.Render("No tasks planned this week."))
	} else {
		b.WriteString(s.menu.View())
	}
	if s.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(theme.ErrorText.Render(s.errMsg))
	}
	return components.Center(components.Card(b.String(), cw), width, height)
}
