// Package insights shows statistics computed over the whole answer history.
package insights

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

// InsightsScreen renders scoring.Insights. Enter on a recurring error
// starts targeted practice for that topic.
type InsightsScreen struct {
	ctx      context.Context
	machine  *session.Machine
	insights scoring.Insights
	subjects map[string]string // topic id to the subject of its latest error
	menu     components.Menu
	errMsg   string
}

var _ screen.Screen = (*InsightsScreen)(nil)
var _ screen.KeyHintProvider = (*InsightsScreen)(nil)

// New snapshots the insights of m's history.
func New(ctx context.Context, m *session.Machine) *InsightsScreen {
	s := &InsightsScreen{
		ctx:      ctx,
		machine:  m,
		insights: m.Insights(),
		subjects: make(map[string]string),
	}
	for _, e := range m.Errors() {
		s.subjects[e.Question.TopicID] = e.Subject
	}

	items := make([]components.MenuItem, len(s.insights.TopErrors))
	for i, ec := range s.insights.TopErrors {
		items[i] = components.MenuItem{
			Label:  scoring.TopicLabel(ec.TopicID),
			Detail: fmt.Sprintf("%d errors", ec.Count),
			Action: func() tea.Cmd { return s.practice(ec.TopicID) },
		}
	}
	s.menu = components.NewMenu(items)
	return s
}

func (s *InsightsScreen) practice(topicID string) tea.Cmd {
	t, err := s.machine.PracticeTopic(s.ctx, topicID, s.subjects[topicID])
	if err != nil {
		var verr *session.ValidationError
		if errors.As(err, &verr) {
			s.errMsg = verr.Msg
		} else {
			s.errMsg = err.Error()
		}
		return nil
	}
	return screen.Fetch(s.ctx, s.machine, t)
}

func (s *InsightsScreen) Init() tea.Cmd {
	return nil
}

func (s *InsightsScreen) Title() string {
	return "Insights"
}

func (s *InsightsScreen) KeyHints() []layout.KeyHint {
	if len(s.insights.TopErrors) == 0 {
		return []layout.KeyHint{
			{Key: "D", Description: "Dashboard"},
			{Key: "R", Description: "Review"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Practice topic"},
		{Key: "D", Description: "Dashboard"},
		{Key: "R", Description: "Review"},
	}
}

func (s *InsightsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	s.menu, cmd = s.menu.Update(msg)
	return s, cmd
}

func (s *InsightsScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	in := s.insights

	if in.Empty() {
		msg := theme.Title.Render("No data yet") + "\n\n" +
			theme.Subtitle.Render("Complete a practice exam to unlock your insights.")
		return components.Center(components.Card(msg, cw), width, height)
	}

	var top strings.Builder
	top.WriteString(components.Heading("Overview"))
	fmt.Fprintf(&top, "%s %d   %s %.0f%%   %s %d\n",
		theme.Label.Render("Answers"), in.TotalAnswers,
		theme.Label.Render("Accuracy"), in.Accuracy,
		theme.Label.Render("Errors"), in.TotalErrors)
	top.WriteString("\n")

	top.WriteString(components.Heading("Recurring errors"))
	if len(in.TopErrors) == 0 {
		top.WriteString(theme.Hint.Render("No errors recorded. Nice work."))
		top.WriteString("\n")
	} else {
		top.WriteString(s.menu.View())
	}

	var stats strings.Builder
	stats.WriteString(components.Heading("Pacing"))
	fmt.Fprintf(&stats, "%s %.1fs   %s %.1fs   %s %.1fs\n\n",
		theme.Label.Render("Average"), in.Pacing.Overall,
		theme.Correct.Render("Correct"), in.Pacing.Correct,
		theme.Incorrect.Render("Incorrect"), in.Pacing.Incorrect)

	stats.WriteString(components.Heading("By skill"))
	for _, c := range in.Categories {
		bar := components.NewProgressBar(c.Category, c.Accuracy()/100, true, cw-18)
		fmt.Fprintf(&stats, "%s  %s\n", bar.View(), theme.Hint.Render(fmt.Sprintf("%d/%d", c.Correct, c.Total)))
	}

	out := components.Card(top.String(), cw) + "\n" + components.Card(stats.String(), cw)
	if s.errMsg != "" {
		out += "\n" + theme.ErrorText.Render(s.errMsg)
	}
	return components.Center(out, width, height)
}
