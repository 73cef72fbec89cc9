package quiz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/hanzi/internal/game"
	"github.com/abhisek/hanzi/internal/router"
	"github.com/abhisek/hanzi/internal/screen/screentest"
	"github.com/abhisek/hanzi/internal/screens/summary"
	"github.com/abhisek/hanzi/internal/session"
)

func start(t *testing.T, n int) (*screentest.Env, *QuizScreen) {
	t.Helper()
	env := screentest.NewEnv(t, screentest.Drafts(n)...)
	res, err := env.Session.Dispatch(env.Ctx, session.Start{Mode: game.MultipleChoice})
	require.NoError(t, err)
	s, err := New(env.Env, res.Cards)
	require.NoError(t, err)
	return env, s
}

func TestNotEnoughCards(t *testing.T) {
	env := screentest.NewEnv(t, screentest.Drafts(3)...)
	_, err := New(env.Env, env.Session.Cards())
	assert.ErrorIs(t, err, game.ErrNotEnoughCards)
}

func TestAnswerShowsFeedback(t *testing.T) {
	env, s := start(t, 4)
	q := s.question

	s.Update(screentest.Key(rune('1' + q.Answer)))

	assert.True(t, s.answered)
	assert.Equal(t, 1, env.Session.Session().Correct)
	assert.Contains(t, s.View(80, 30), "Correct!")
	assert.Equal(t, "Next", s.KeyHints()[0].Description)

	// Digits are ignored until the player moves on.
	s.Update(screentest.Key('2'))
	assert.Equal(t, 1, env.Session.Session().Total())
}

func TestRoundEndsWithSummary(t *testing.T) {
	env, s := start(t, 4)

	var last any
	for i := 0; i < 4; i++ {
		wrong := (s.question.Answer + 1) % game.OptionCount
		s.Update(screentest.Key(rune('1' + wrong)))
		_, cmd := s.Update(screentest.Enter())
		last = screentest.Msg(cmd)
	}

	msg, ok := last.(router.ReplaceScreenMsg)
	require.True(t, ok, "expected ReplaceScreenMsg, got %T", last)
	assert.IsType(t, &summary.SummaryScreen{}, msg.Screen)
	assert.Contains(t, msg.Screen.View(80, 24), "0 of 4 right")
	assert.Equal(t, 4, env.Session.Session().Incorrect)
}
