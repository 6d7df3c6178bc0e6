// Package dashboard shows the roadmap overview and progress scores.
package dashboard

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/scholarprep/internal/router"
	"github.com/abhisek/scholarprep/internal/screen"
	"github.com/abhisek/scholarprep/internal/screens/week"
	"github.com/abhisek/scholarprep/internal/session"
	"github.com/abhisek/scholarprep/internal/ui/components"
	"github.com/abhisek/scholarprep/internal/ui/layout"
	"github.com/abhisek/scholarprep/internal/ui/theme"
)

// DashboardScreen lists the roadmap weeks.
type DashboardScreen struct {
	ctx     context.Context
	machine *session.Machine
	menu    components.Menu
}

var _ screen.Screen = (*DashboardScreen)(nil)
var _ screen.KeyHintProvider = (*DashboardScreen)(nil)

// New creates the dashboard for m's roadmap.
func New(ctx context.Context, m *session.Machine) *DashboardScreen {
	s := &DashboardScreen{ctx: ctx, machine: m}

	var items []components.MenuItem
	if rm := m.Roadmap(); rm != nil {
		for _, w := range rm.Schedule {
			items = append(items, components.MenuItem{
				Label:  fmt.Sprintf("Week %d: %s", w.Week, w.Theme),
				Detail: fmt.Sprintf("%d tasks", len(w.Tasks)),
				Action: func() tea.Cmd {
					return func() tea.Msg {
						return router.PushScreenMsg{Screen: week.New(ctx, m, w)}
					}
				},
			})
		}
	}
	s.menu = components.NewMenu(items)
	return s
}

func (s *DashboardScreen) Init() tea.Cmd {
	return nil
}

func (s *DashboardScreen) Title() string {
	return "Dashboard"
}

func (s *DashboardScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Open week"},
		{Key: "R", Description: "Review"},
		{Key: "I", Description: "Insights"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (s *DashboardScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	s.menu, cmd = s.menu.Update(msg)
	return s, cmd
}

func (s *DashboardScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	rm := s.machine.Roadmap()

	var b strings.Builder
	if p := s.machine.Profile(); p != nil {
		b.WriteString(theme.Title.Render(p.Subjects[0] + " & " + p.Subjects[1]))
		b.WriteString("\n")
	}
	if rm != nil {
		b.WriteString(theme.Subtitle.Render(fmt.Sprintf("%s → %s  ·  %d weeks  ·  %d tasks",
			rm.StartDate, rm.EndDate, len(rm.Schedule), rm.TaskCount())))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(components.NewScoreBar("Completion", s.machine.Completion(), cw-6).View())
	b.WriteString("\n")
	b.WriteString(components.NewScoreBar("Mastery", s.machine.Mastery(), cw-6).View())
	b.WriteString("\n")
	if n := len(s.machine.Errors()); n > 0 {
		b.WriteString(theme.Hint.Render(fmt.Sprintf("%d mistakes waiting in Review", n)))
		b.WriteString("\n")
	}
	progress := components.Card(b.String(), cw)

	weeks := components.Heading("Roadmap") + s.menu.View()

	return components.Center(progress+"\n"+components.Card(weeks, cw), width, height)
}
