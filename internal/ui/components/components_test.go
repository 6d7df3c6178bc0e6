package components

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
)

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func TestMultiChoice_NothingChosenUntilPicked(t *testing.T) {
	m := NewMultiChoice([]string{"3", "4", "5"}, "")
	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	if m.Value() != "" {
		t.Errorf("moving the highlight chose %q", m.Value())
	}
	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeySpace, Text: " "})
	if m.Value() != "4" {
		t.Errorf("Value = %q, want 4", m.Value())
	}
}

func TestMultiChoice_DigitKeys(t *testing.T) {
	m := NewMultiChoice([]string{"a", "b", "c"}, "")
	m, _ = m.Update(keyPress('3'))
	if m.Value() != "c" || m.Selected != 2 {
		t.Errorf("digit 3 chose %q at %d", m.Value(), m.Selected)
	}
	m, _ = m.Update(keyPress('9'))
	if m.Value() != "c" {
		t.Errorf("out of range digit changed choice to %q", m.Value())
	}
}

func TestMultiChoice_RestoresChosen(t *testing.T) {
	m := NewMultiChoice([]string{"a", "b", "c"}, "b")
	if m.Selected != 1 || m.Value() != "b" {
		t.Errorf("restored selector = %d/%q", m.Selected, m.Value())
	}
}

func TestMultiChoice_Bounds(t *testing.T) {
	m := NewMultiChoice([]string{"a", "b"}, "")
	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyUp})
	if m.Selected != 0 {
		t.Errorf("Selected = %d after up at top", m.Selected)
	}
	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	if m.Selected != 1 {
		t.Errorf("Selected = %d after down at bottom", m.Selected)
	}
}

func TestMenu_SkipsDisabled(t *testing.T) {
	var picked string
	pick := func(s string) func() tea.Cmd {
		return func() tea.Cmd { picked = s; return nil }
	}
	m := NewMenu([]MenuItem{
		{Label: "one", Disabled: true},
		{Label: "two", Action: pick("two")},
		{Label: "three", Disabled: true},
		{Label: "four", Action: pick("four")},
	})
	if m.Selected != 1 {
		t.Fatalf("initial selection = %d, want 1", m.Selected)
	}
	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if picked != "four" {
		t.Errorf("picked %q, want four", picked)
	}
}

func TestButton_InactiveIgnoresEnter(t *testing.T) {
	pressed := false
	b := NewButton("Next", false, func() tea.Cmd { pressed = true; return nil })
	b.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if pressed {
		t.Error("inactive button fired")
	}
	b.Active = true
	b.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if !pressed {
		t.Error("active button did not fire")
	}
}

func TestProgressBar_Percent(t *testing.T) {
	view := NewScoreBar("Mastery", 74, 40).View()
	if !strings.Contains(view, "74%") {
		t.Errorf("score bar missing percent: %q", view)
	}
}
