package lesson

import (
	"errors"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/scholarprep/internal/runner"
	"github.com/abhisek/scholarprep/internal/screen"
	"github.com/abhisek/scholarprep/internal/session"
)

func TestLesson_LoadingIgnoresEnter(t *testing.T) {
	s := New(runner.NewLesson("t1", "english_grammar_tenses", "Review verb tenses", ""))
	if !strings.Contains(s.View(100, 30), "Preparing your lesson") {
		t.Error("expected loading view")
	}
	if _, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter}); cmd != nil {
		t.Error("enter should do nothing while loading")
	}
}

func TestLesson_ReadyShowsContent(t *testing.T) {
	l := runner.NewLesson("t1", "english_grammar_tenses", "Review verb tenses", "")
	s := New(l)
	s.SetSize(100, 30)
	if err := l.Load("# Verb tenses\n\n- past\n- present"); err != nil {
		t.Fatal(err)
	}
	s.Update(screen.DeliveredMsg{Kind: session.KindLesson})

	view := s.View(100, 30)
	for _, want := range []string{"Review verb tenses", "Verb tenses", "• past"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}

	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected navigation command")
	}
	if msg, ok := cmd().(screen.NavigateMsg); !ok || msg.Target != session.StateDashboard {
		t.Errorf("enter produced %#v", msg)
	}
}

func TestLesson_Failure(t *testing.T) {
	l := runner.NewLesson("t1", "topic", "Topic", "")
	l.Fail(errors.New("model overloaded"))
	s := New(l)
	if !strings.Contains(s.View(100, 30), "model overloaded") {
		t.Error("expected failure message")
	}
	if _, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter}); cmd == nil {
		t.Error("enter should return to the dashboard")
	}
}

func TestRender(t *testing.T) {
	out := Render("## Heading\n**bold** text\n* item", 40)
	if strings.Contains(out, "#") || strings.Contains(out, "**") {
		t.Errorf("markdown markers left in %q", out)
	}
	if !strings.Contains(out, "• item") {
		t.Errorf("bullet not rendered in %q", out)
	}
}
