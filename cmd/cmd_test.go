package cmd

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/hanzi/internal/card"
	"github.com/abhisek/hanzi/internal/store"
)

func TestResolveVersion(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"v1.2.3", "v1.2.3"},
		{"1.2.3", "v1.2.3"},
		{"v1.2", "v1.2.0"},
		{"v1.4.0+dirty", "v1.4.0"},
		{"garbage", develVersion},
		{develVersion, develVersion},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, resolveVersion(tt.in))
		})
	}
}

func TestShortVersion(t *testing.T) {
	assert.Equal(t, "v1.2", shortVersion("v1.2.3"))
	assert.Equal(t, develVersion, shortVersion(develVersion))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "ab", truncate("abc", 2))
	assert.Equal(t, "水火", truncate("水火木", 2))
}

func TestDueColumn(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	reviewed := now.Add(-30 * 24 * time.Hour)

	tests := []struct {
		name string
		c    card.Card
		want string
	}{
		{"new", card.Card{NextReview: now}, "now"},
		{"tomorrow", card.Card{Level: 1, LastReview: &reviewed, NextReview: now.Add(20 * time.Hour)}, "in 1 day"},
		{"later", card.Card{Level: 3, LastReview: &reviewed, NextReview: now.Add(50 * time.Hour)}, "in 3 days"},
		{"within grace", card.Card{Level: 3, LastReview: &reviewed, NextReview: now.Add(-24 * time.Hour)}, "now"},
		{"overdue", card.Card{Level: 3, LastReview: &reviewed, NextReview: now.Add(-6 * 24 * time.Hour)}, "6.0d overdue"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, dueColumn(tt.c, now))
		})
	}
}

func TestAddImportAndReset(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("XDG_DATA_HOME", dir)
	dbPath := filepath.Join(dir, "hanzi.db")

	deckPath := filepath.Join(dir, "deck.txt")
	require.NoError(t, os.WriteFile(deckPath, []byte("火,huǒ,fire\n\nbroken line\n木,mù,ㄇㄨˋ,tree\n"), 0o644))

	run := func(args ...string) {
		t.Helper()
		rootCmd.SetArgs(append([]string{"--db", dbPath, "--profile", "cli"}, args...))
		require.NoError(t, rootCmd.Execute())
	}

	run("add", "水", "shuǐ", "water", "--zhuyin", "ㄕㄨㄟˇ")
	run("import", deckPath)

	s, err := store.Open(dbPath)
	require.NoError(t, err)
	u, err := s.UserRepo().ByName(context.Background(), "cli")
	require.NoError(t, err)
	cards, err := s.CardRepo(u.ID).Load(context.Background())
	require.NoError(t, err)
	require.NoError(t, s.Close())

	require.Len(t, cards, 3)
	assert.Equal(t, "水", cards[0].Character)
	assert.Equal(t, "ㄕㄨㄟˇ", cards[0].Zhuyin)
	assert.Equal(t, "ㄇㄨˋ", cards[2].Zhuyin)

	run("reset", "--yes")

	s, err = store.Open(dbPath)
	require.NoError(t, err)
	defer s.Close()
	cards, err = s.CardRepo(u.ID).Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, cards)
}
