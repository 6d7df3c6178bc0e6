package screen

import (
	"context"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/scholarprep/internal/session"
)

// DeliveryMsg carries a finished provider call back to the event loop. The
// app applies it to the session machine, never the screen directly.
type DeliveryMsg struct {
	Delivery session.Delivery
}

// DeliveredMsg tells the active screen that the machine accepted (or
// rejected) a delivery and its state may have changed.
type DeliveredMsg struct {
	Kind session.Kind
	Err  error
}

// NavigateMsg asks the app to move the session to Target.
type NavigateMsg struct {
	Target session.State
}

// Fetch runs the provider call for t off the event loop.
func Fetch(ctx context.Context, m *session.Machine, t session.Ticket) tea.Cmd {
	return func() tea.Msg {
		return DeliveryMsg{Delivery: m.Fetch(ctx, t)}
	}
}

// Navigate returns a command requesting navigation to target.
func Navigate(target session.State) tea.Cmd {
	return func() tea.Msg { return NavigateMsg{Target: target} }
}
