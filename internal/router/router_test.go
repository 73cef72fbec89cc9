package router

import (
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/hanzi/internal/screen"
)

type stubScreen struct {
	title string
	inits int
}

func (s *stubScreen) Init() tea.Cmd {
	s.inits++
	return nil
}
func (s *stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (s *stubScreen) View(int, int) string                    { return s.title }
func (s *stubScreen) Title() string                           { return s.title }

func TestPush(t *testing.T) {
	r := New(&stubScreen{title: "home"})

	review := &stubScreen{title: "review"}
	r.Push(review)

	if r.Depth() != 2 {
		t.Errorf("expected depth 2, got %d", r.Depth())
	}
	if r.Active().Title() != "review" {
		t.Errorf("expected active 'review', got %q", r.Active().Title())
	}
	if review.inits != 1 {
		t.Errorf("expected Init() once on pushed screen, got %d", review.inits)
	}
}

func TestPopReinitialisesScreenBelow(t *testing.T) {
	home := &stubScreen{title: "home"}
	r := New(home)
	r.Push(&stubScreen{title: "review"})

	r.Pop()

	if r.Depth() != 1 {
		t.Errorf("expected depth 1, got %d", r.Depth())
	}
	if r.Active().Title() != "home" {
		t.Errorf("expected active 'home', got %q", r.Active().Title())
	}
	if home.inits != 1 {
		t.Errorf("expected home Init() after pop, got %d", home.inits)
	}
}

func TestPopNoopAtBottom(t *testing.T) {
	home := &stubScreen{title: "home"}
	r := New(home)

	if cmd := r.Pop(); cmd != nil {
		t.Error("expected nil cmd when popping the root")
	}
	if r.Depth() != 1 {
		t.Errorf("expected depth 1 after pop at bottom, got %d", r.Depth())
	}
	if home.inits != 0 {
		t.Errorf("expected no Init() on root, got %d", home.inits)
	}
}

func TestReplacePreservesStackDepth(t *testing.T) {
	r := New(&stubScreen{title: "home"})
	r.Push(&stubScreen{title: "quiz"})

	summary := &stubScreen{title: "summary"}
	r.Update(ReplaceScreenMsg{Screen: summary})

	if r.Depth() != 2 {
		t.Errorf("expected depth 2, got %d", r.Depth())
	}
	if r.Active().Title() != "summary" {
		t.Errorf("expected active 'summary', got %q", r.Active().Title())
	}
	if summary.inits != 1 {
		t.Error("expected Init() to run via ReplaceScreenMsg")
	}
}

func TestPopToRoot(t *testing.T) {
	home := &stubScreen{title: "home"}
	r := New(home)
	r.Push(&stubScreen{title: "quiz"})
	r.Push(&stubScreen{title: "notice"})

	r.Update(PopToRootMsg{})

	if r.Depth() != 1 {
		t.Errorf("expected depth 1, got %d", r.Depth())
	}
	if r.Active() != home {
		t.Errorf("expected home to be active, got %q", r.Active().Title())
	}
	if home.inits != 1 {
		t.Errorf("expected home Init() once, got %d", home.inits)
	}
}

func TestCommandHelpers(t *testing.T) {
	s := &stubScreen{title: "add"}

	if msg, ok := Push(s)().(PushScreenMsg); !ok || msg.Screen != s {
		t.Errorf("Push() produced %#v", msg)
	}
	if msg, ok := Replace(s)().(ReplaceScreenMsg); !ok || msg.Screen != s {
		t.Errorf("Replace() produced %#v", msg)
	}
	if _, ok := Pop().(PopScreenMsg); !ok {
		t.Error("Pop() should produce PopScreenMsg")
	}
	if _, ok := PopToRoot().(PopToRootMsg); !ok {
		t.Error("PopToRoot() should produce PopToRootMsg")
	}
}
