package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/scholarprep/internal/ui/layout"
)

// Screen defines the interface for all application screens.
type Screen interface {
	// Init returns an initial command when the screen is first created.
	Init() tea.Cmd

	// Update handles messages and returns updated screen + command.
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the screen content (excluding header/footer).
	View(width, height int) string

	// Title returns the screen name for the header.
	Title() string
}

// KeyHintProvider is an optional interface that screens can implement
// to provide custom footer key hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// InputCapturer is implemented by screens with a focused text field. While
// CapturingInput is true the app leaves letter keys to the screen.
type InputCapturer interface {
	CapturingInput() bool
}

// Resizable is implemented by screens that lay out content ahead of View,
// such as scrolling viewports. The app calls SetSize with the content area
// whenever it changes.
type Resizable interface {
	SetSize(width, height int)
}
