package app

import (
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/hanzi/internal/router"
	"github.com/abhisek/hanzi/internal/screen/screentest"
	"github.com/abhisek/hanzi/internal/screens/notice"
	"github.com/abhisek/hanzi/internal/session"
)

func newModel(t *testing.T, n int) (*screentest.Env, AppModel) {
	t.Helper()
	env := screentest.NewEnv(t, screentest.Drafts(n)...)
	m := New(env.Ctx, Options{
		Session: env.Session,
		Events:  env.Events,
		UserID:  env.UserID,
		Rand:    env.Rand,
		Now:     env.Env.Now,
	})
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return env, updated.(AppModel)
}

// send feeds msg and every navigation message its command produces.
func send(m AppModel, msg tea.Msg) AppModel {
	updated, cmd := m.Update(msg)
	m = updated.(AppModel)
	if cmd == nil {
		return m
	}
	switch next := cmd().(type) {
	case router.PushScreenMsg, router.PopScreenMsg, router.ReplaceScreenMsg, router.PopToRootMsg:
		return send(m, next)
	}
	return m
}

func TestHeaderShowsDeckCounters(t *testing.T) {
	_, m := newModel(t, 3)
	assert.Contains(t, m.render(), "3 due · 3 cards")
	assert.Contains(t, m.render(), "漢字 Hanzi")
}

func TestTooSmallTerminal(t *testing.T) {
	_, m := newModel(t, 0)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 40, Height: 10})
	assert.Contains(t, updated.(AppModel).render(), "Terminal too small!")
}

func TestGuardShowsNoticeAndEscReturnsHome(t *testing.T) {
	_, m := newModel(t, 2)

	m = send(m, screentest.Key('j')) // Multiple choice
	m = send(m, screentest.Enter())

	require.Equal(t, 2, m.router.Depth())
	n, ok := m.router.Active().(*notice.NoticeScreen)
	require.True(t, ok, "expected notice, got %T", m.router.Active())
	assert.Contains(t, n.Message(), "not enough cards")

	m = send(m, tea.KeyPressMsg{Code: tea.KeyEscape})
	assert.Equal(t, 1, m.router.Depth())
}

func TestNothingDueIsGoodNews(t *testing.T) {
	env, m := newModel(t, 1)
	c := env.Session.Cards()[0]
	_, err := env.Session.Dispatch(env.Ctx, session.Answer{CardID: c.ID, Correct: true})
	require.NoError(t, err)

	m = send(m, screentest.Enter())

	n, ok := m.router.Active().(*notice.NoticeScreen)
	require.True(t, ok, "expected notice, got %T", m.router.Active())
	assert.True(t, n.Positive())
	assert.Contains(t, m.render(), "0 due · 1 cards")
}

func TestWarningShownUntilNextKey(t *testing.T) {
	_, m := newModel(t, 1)
	m.status.warning = "could not save review"
	assert.Contains(t, m.render(), "could not save review")

	m = send(m, screentest.Key('j'))
	assert.NotContains(t, m.render(), "could not save review")
}

func TestCtrlCQuits(t *testing.T) {
	_, m := newModel(t, 0)
	_, cmd := m.Update(tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}
