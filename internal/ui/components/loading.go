package components

import (
	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/scholarprep/internal/ui/theme"
)

// Loading is a spinner with a caption, shown while content is generated.
type Loading struct {
	Label   string
	spinner spinner.Model
}

// NewLoading creates a loading indicator.
func NewLoading(label string) Loading {
	return Loading{
		Label: label,
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(lipgloss.NewStyle().Foreground(theme.Accent)),
		),
	}
}

// Init starts the spinner.
func (l Loading) Init() tea.Cmd {
	return l.spinner.Tick
}

// Update advances the spinner on its own tick messages.
func (l Loading) Update(msg tea.Msg) (Loading, tea.Cmd) {
	var cmd tea.Cmd
	l.spinner, cmd = l.spinner.Update(msg)
	return l, cmd
}

// View renders the spinner and caption.
func (l Loading) View() string {
	return l.spinner.View() + lipgloss.NewStyle().Foreground(theme.TextDim).Render(l.Label)
}
