package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/abhisek/scholarprep/internal/router"
	"github.com/abhisek/scholarprep/internal/screen"
	"github.com/abhisek/scholarprep/internal/screens/dashboard"
	"github.com/abhisek/scholarprep/internal/screens/exam"
	"github.com/abhisek/scholarprep/internal/screens/insights"
	"github.com/abhisek/scholarprep/internal/screens/lesson"
	"github.com/abhisek/scholarprep/internal/screens/onboarding"
	"github.com/abhisek/scholarprep/internal/screens/review"
	"github.com/abhisek/scholarprep/internal/session"
	"github.com/abhisek/scholarprep/internal/ui/layout"
)

// Options wires the app to a session.
type Options struct {
	Machine *session.Machine
	Logger  *zap.Logger
	Now     func() time.Time
}

// viewKey identifies what the screen stack was built for. The stack is
// rebuilt whenever the machine moves to a different key.
type viewKey struct {
	state  session.State
	taskID string
}

// AppModel is the root Bubble Tea model. It owns the session machine: all
// machine calls happen on the event loop, and provider results come back
// as screen.DeliveryMsg.
type AppModel struct {
	ctx     context.Context
	machine *session.Machine
	logger  *zap.Logger
	now     func() time.Time

	router *router.Router
	shown  viewKey
	width  int
	height int
}

// newAppModel creates the root model showing the screen for the machine's
// current state.
func newAppModel(ctx context.Context, opts Options) AppModel {
	m := AppModel{
		ctx:     ctx,
		machine: opts.Machine,
		logger:  opts.Logger,
		now:     opts.Now,
	}
	if m.logger == nil {
		m.logger = zap.NewNop()
	}
	if m.now == nil {
		m.now = time.Now
	}
	m.shown = m.key()
	m.router = router.New(m.screenFor(m.shown.state))
	return m
}

func (m AppModel) key() viewKey {
	k := viewKey{state: m.machine.State()}
	if a := m.machine.Active(); a != nil {
		k.taskID = a.ID
	}
	return k
}

func (m AppModel) screenFor(state session.State) screen.Screen {
	switch state {
	case session.StateDashboard:
		return dashboard.New(m.ctx, m.machine)
	case session.StateLesson:
		if a := m.machine.Active(); a != nil && a.Lesson != nil {
			return lesson.New(a.Lesson)
		}
	case session.StateExam:
		if a := m.machine.Active(); a != nil && a.Exam != nil {
			return exam.New(m.ctx, m.machine, a.Exam)
		}
	case session.StateReview:
		return review.New(m.ctx, m.machine)
	case session.StateInsights:
		return insights.New(m.ctx, m.machine)
	case session.StateOnboarding:
		return onboarding.New(m.ctx, m.machine, m.now())
	}
	m.logger.Error("no screen for state", zap.Stringer("state", state))
	return dashboard.New(m.ctx, m.machine)
}

// sync rebuilds the stack if the machine has moved since the last update.
func (m *AppModel) sync() tea.Cmd {
	k := m.key()
	if k == m.shown {
		return nil
	}
	m.shown = k
	return m.router.Reset(m.screenFor(k.state))
}

func (m *AppModel) navigate(target session.State) tea.Cmd {
	if err := m.machine.Navigate(m.ctx, target); err != nil {
		m.logger.Debug("navigation refused", zap.Stringer("target", target), zap.Error(err))
		return nil
	}
	m.shown = m.key()
	return m.router.Reset(m.screenFor(target))
}

func (m *AppModel) deliver(d session.Delivery) tea.Cmd {
	err := m.machine.Deliver(m.ctx, d)
	var stale *session.StaleResponseError
	if errors.As(err, &stale) {
		return nil
	}
	if err != nil {
		m.logger.Warn("content request failed", zap.Stringer("kind", d.Ticket.Kind), zap.Error(err))
	}
	cmd := m.router.Update(screen.DeliveredMsg{Kind: d.Ticket.Kind, Err: err})
	return tea.Batch(cmd, m.sync())
}

// capturing reports whether the active screen wants raw letter keys.
func (m AppModel) capturing() bool {
	c, ok := m.router.Active().(screen.InputCapturer)
	return ok && c.CapturingInput()
}

// resize hands the content area to screens that lay out ahead of View.
func (m AppModel) resize() {
	if m.width == 0 || m.height == 0 {
		return
	}
	if r, ok := m.router.Active().(screen.Resizable); ok {
		r.SetSize(m.width, layout.ContentHeight(m.height))
	}
}

func (m AppModel) Init() tea.Cmd {
	return m.router.Active().Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case screen.DeliveryMsg:
		cmd = m.deliver(msg.Delivery)
		m.resize()
		return m, cmd

	case screen.NavigateMsg:
		cmd = m.navigate(msg.Target)
		m.resize()
		return m, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			if s := m.machine.State(); s != session.StateOnboarding && s != session.StateDashboard {
				cmd = m.navigate(session.StateDashboard)
				m.resize()
			}
			return m, cmd
		case "d", "r", "i":
			if !m.capturing() {
				cmd = m.navigate(shortcuts[msg.String()])
				m.resize()
				return m, cmd
			}
		}
	}

	cmd = m.router.Update(msg)
	cmd = tea.Batch(cmd, m.sync())
	m.resize()
	return m, cmd
}

var shortcuts = map[string]session.State{
	"d": session.StateDashboard,
	"r": session.StateReview,
	"i": session.StateInsights,
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	header := layout.RenderHeader(title, m.machine.Completion(), m.machine.Mastery(), m.width)

	var footerHints []layout.KeyHint
	if p, ok := active.(screen.KeyHintProvider); ok {
		footerHints = p.KeyHints()
	} else if m.router.Depth() > 1 {
		footerHints = []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	} else {
		footerHints = []layout.KeyHint{
			{Key: "↑↓", Description: "Navigate"},
			{Key: "Enter", Description: "Select"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}

	footer := layout.RenderFooter(footerHints, m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := max(m.height-headerHeight-footerHeight, 0)

	content := m.router.View(m.width, contentHeight)
	frame := layout.RenderFrame(header, content, footer, m.width, m.height)

	v.SetContent(frame)
	return v
}

// Run starts the Bubble Tea program.
func Run(ctx context.Context, opts Options) error {
	p := tea.NewProgram(newAppModel(ctx, opts), tea.WithContext(ctx))
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
