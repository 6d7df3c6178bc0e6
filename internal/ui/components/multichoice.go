package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/scholarprep/internal/ui/theme"
)

// MultiChoice is a multiple-choice selector. The highlighted option moves
// with the arrow keys; an option is only chosen by space, a digit key or
// Choose.
type MultiChoice struct {
	Options  []string
	Selected int
	Chosen   int
}

// NewMultiChoice creates a selector with nothing chosen. If chosen matches
// one of the options it starts selected and chosen.
func NewMultiChoice(options []string, chosen string) MultiChoice {
	m := MultiChoice{Options: options, Chosen: -1}
	for i, opt := range options {
		if chosen != "" && opt == chosen {
			m.Selected = i
			m.Chosen = i
			break
		}
	}
	return m
}

// Update handles keyboard navigation and selection.
func (m MultiChoice) Update(msg tea.Msg) (MultiChoice, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key := kmsg.String(); key {
	case "up", "k":
		if m.Selected > 0 {
			m.Selected--
		}
	case "down", "j":
		if m.Selected < len(m.Options)-1 {
			m.Selected++
		}
	case "space", " ":
		m.Choose()
	default:
		if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
			if i := int(key[0] - '1'); i < len(m.Options) {
				m.Selected = i
				m.Choose()
			}
		}
	}

	return m, nil
}

// Choose marks the highlighted option as chosen.
func (m *MultiChoice) Choose() {
	if m.Selected >= 0 && m.Selected < len(m.Options) {
		m.Chosen = m.Selected
	}
}

// Value returns the chosen option text, or "" if nothing is chosen.
func (m MultiChoice) Value() string {
	if m.Chosen < 0 || m.Chosen >= len(m.Options) {
		return ""
	}
	return m.Options[m.Chosen]
}

// View renders the options.
func (m MultiChoice) View() string {
	var b strings.Builder
	for i, opt := range m.Options {
		prefix := "  "
		if i == m.Selected {
			prefix = "▸ "
		}
		mark := "( )"
		if i == m.Chosen {
			mark = "(•)"
		}
		line := fmt.Sprintf("%s%d. %s %s", prefix, i+1, mark, opt)

		style := lipgloss.NewStyle().Foreground(theme.Text)
		switch {
		case i == m.Chosen:
			style = lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true)
		case i == m.Selected:
			style = theme.Selected
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}
	return b.String()
}
