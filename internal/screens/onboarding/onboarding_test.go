package onboarding

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/scholarprep/internal/content"
	"github.com/abhisek/scholarprep/internal/screen"
	"github.com/abhisek/scholarprep/internal/session"
)

type nopProvider struct{ content.Provider }

var today = time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)

func newScreen() (*OnboardingScreen, *session.Machine) {
	m := session.New(nopProvider{}, session.DefaultOptions())
	return New(context.Background(), m, today), m
}

func tab(s screen.Screen) screen.Screen {
	next, _ := s.Update(tea.KeyPressMsg{Code: tea.KeyTab})
	return next
}

func TestOnboarding_Defaults(t *testing.T) {
	s, _ := newScreen()
	if got := s.date.Value(); got != "2025-05-31" {
		t.Errorf("default date = %q, want 2025-05-31", got)
	}
	if content.Subjects[s.subjects[0]] != "English" || content.Subjects[s.subjects[1]] != "Mathematics" {
		t.Errorf("default subjects = %v", s.subjects)
	}
	if s.CapturingInput() {
		t.Error("subject picker should not capture input")
	}
}

func TestOnboarding_CycleSubject(t *testing.T) {
	s, _ := newScreen()
	s.Update(tea.KeyPressMsg{Code: tea.KeyRight})
	if got := content.Subjects[s.subjects[0]]; got != "Portuguese" {
		t.Errorf("after right = %q, want Portuguese", got)
	}
	s.Update(tea.KeyPressMsg{Code: tea.KeyLeft})
	s.Update(tea.KeyPressMsg{Code: tea.KeyLeft})
	if got := content.Subjects[s.subjects[0]]; got != "Sociology" {
		t.Errorf("left should wrap, got %q", got)
	}
}

func TestOnboarding_SameSubjectRejected(t *testing.T) {
	s, m := newScreen()
	s.subjects[1] = s.subjects[0]
	s.focus = fieldSubmit

	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd != nil {
		t.Error("expected no fetch for identical subjects")
	}
	if m.Pending() {
		t.Error("machine should not have a pending request")
	}
	if !strings.Contains(s.errMsg, "different subjects") {
		t.Errorf("errMsg = %q", s.errMsg)
	}
}

func TestOnboarding_BadDateRejected(t *testing.T) {
	s, _ := newScreen()
	s.date.SetValue("next week")
	s.focus = fieldSubmit

	s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if !strings.Contains(s.errMsg, "YYYY-MM-DD") {
		t.Errorf("errMsg = %q", s.errMsg)
	}
}

func TestOnboarding_TextFieldsCaptureInput(t *testing.T) {
	s, _ := newScreen()
	var sc screen.Screen = s
	sc = tab(tab(sc))
	if !s.CapturingInput() {
		t.Fatal("date field should capture input")
	}
	sc = tab(sc)
	for _, r := range "essays" {
		sc, _ = sc.Update(tea.KeyPressMsg{Code: r, Text: string(r)})
	}
	if got := s.weaknesses.Value(); got != "essays" {
		t.Errorf("weaknesses = %q, want essays", got)
	}
}

func TestOnboarding_SubmitIssuesFetch(t *testing.T) {
	s, m := newScreen()
	s.focus = fieldSubmit

	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected fetch command")
	}
	if !m.Pending() {
		t.Error("expected pending roadmap request")
	}
	if !strings.Contains(s.View(100, 30), "Building your study roadmap") {
		t.Error("expected loading view")
	}

	// Keys are ignored while the roadmap is generated.
	s.Update(tea.KeyPressMsg{Code: tea.KeyTab})
	if s.focus != fieldSubmit {
		t.Error("focus moved while pending")
	}
}

func TestOnboarding_ShowsGenerationError(t *testing.T) {
	s, _ := newScreen()
	s.Update(screen.DeliveredMsg{Kind: session.KindRoadmap, Err: errors.New("quota exceeded")})
	if !strings.Contains(s.View(100, 30), "quota exceeded") {
		t.Error("expected error in view")
	}
}
