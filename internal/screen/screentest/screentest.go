// Package screentest builds a screen.Env over an in-memory store for
// screen tests.
package screentest

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/hanzi/internal/card"
	"github.com/abhisek/hanzi/internal/screen"
	"github.com/abhisek/hanzi/internal/session"
	"github.com/abhisek/hanzi/internal/store"
)

// Epoch is the fixed clock of every test Env.
var Epoch = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

var samples = []card.Draft{
	{Character: "水", Pinyin: "shuǐ", Zhuyin: "ㄕㄨㄟˇ", Meaning: "water"},
	{Character: "火", Pinyin: "huǒ", Zhuyin: "ㄏㄨㄛˇ", Meaning: "fire"},
	{Character: "木", Pinyin: "mù", Zhuyin: "ㄇㄨˋ", Meaning: "tree"},
	{Character: "人", Pinyin: "rén", Zhuyin: "ㄖㄣˊ", Meaning: "person"},
	{Character: "山", Pinyin: "shān", Zhuyin: "ㄕㄢ", Meaning: "mountain"},
	{Character: "口", Pinyin: "kǒu", Zhuyin: "ㄎㄡˇ", Meaning: "mouth"},
	{Character: "日", Pinyin: "rì", Zhuyin: "ㄖˋ", Meaning: "sun"},
	{Character: "月", Pinyin: "yuè", Zhuyin: "ㄩㄝˋ", Meaning: "moon"},
	{Character: "大", Pinyin: "dà", Zhuyin: "ㄉㄚˋ", Meaning: "big"},
	{Character: "小", Pinyin: "xiǎo", Zhuyin: "ㄒㄧㄠˇ", Meaning: "small"},
}

// Drafts returns n distinct sample cards, n at most 10.
func Drafts(n int) []card.Draft {
	return append([]card.Draft(nil), samples[:n]...)
}

// Env holds a test environment and its store.
type Env struct {
	*screen.Env
	Store *store.Store
	Now   time.Time
}

// NewEnv opens a fresh store holding drafts, all due at Epoch.
func NewEnv(t testing.TB, drafts ...card.Draft) *Env {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	st, err := store.Open(fmt.Sprintf("file:screens_%s?mode=memory&cache=shared", name))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	ctx := context.Background()
	u, err := st.UserRepo().Ensure(ctx, "tester")
	if err != nil {
		t.Fatalf("ensure user: %v", err)
	}
	repo := st.CardRepo(u.ID)
	for _, d := range drafts {
		if _, err := repo.Create(ctx, d, Epoch); err != nil {
			t.Fatalf("create card: %v", err)
		}
	}

	e := &Env{Store: st, Now: Epoch}
	ctrl := session.New(session.Options{
		Cards:   repo,
		Reviews: st.EventRepo(),
		UserID:  u.ID,
		Now:     func() time.Time { return e.Now },
	})
	if err := ctrl.Load(ctx); err != nil {
		t.Fatalf("load cards: %v", err)
	}

	e.Env = &screen.Env{
		Ctx:     ctx,
		Session: ctrl,
		Events:  st.EventRepo(),
		UserID:  u.ID,
		Rand:    rand.New(rand.NewPCG(1, 2)),
		Now:     func() time.Time { return e.Now },
	}
	return e
}

// Key is a printable key press.
func Key(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

// Enter is the enter key.
func Enter() tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: tea.KeyEnter}
}

// Msg runs cmd and returns its message, or nil for a nil cmd.
func Msg(cmd tea.Cmd) tea.Msg {
	if cmd == nil {
		return nil
	}
	return cmd()
}
