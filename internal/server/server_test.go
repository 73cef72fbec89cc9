package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/hanzi/internal/auth"
	"github.com/abhisek/hanzi/internal/card"
	"github.com/abhisek/hanzi/internal/store"
)

var epoch = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

type harness struct {
	t     *testing.T
	srv   *Server
	store *store.Store
}

func newHarness(t *testing.T, limiter *RateLimiter) *harness {
	t.Helper()
	dsn := fmt.Sprintf("file:server_%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	st, err := store.Open(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	srv := New(Options{
		Store:   st,
		Issuer:  auth.NewIssuer("test-secret", time.Hour),
		Hasher:  auth.Hasher{Cost: 4},
		Limiter: limiter,
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		Now:     func() time.Time { return epoch },
	})
	return &harness{t: t, srv: srv, store: st}
}

// do sends a request. body may be a string (sent as text) or any value
// (sent as JSON).
func (h *harness) do(method, path, token string, body any) *httptest.ResponseRecorder {
	h.t.Helper()
	var rd io.Reader
	contentType := ""
	switch b := body.(type) {
	case nil:
	case string:
		rd = strings.NewReader(b)
		contentType = "text/plain"
	default:
		raw, err := json.Marshal(b)
		require.NoError(h.t, err)
		rd = bytes.NewReader(raw)
		contentType = "application/json"
	}
	req := httptest.NewRequest(method, path, rd)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.srv.ServeHTTP(rec, req)
	return rec
}

func (h *harness) register(name string) string {
	h.t.Helper()
	rec := h.do(http.MethodPost, "/api/register", "", map[string]string{"name": name, "password": "secret"})
	require.Equal(h.t, http.StatusCreated, rec.Code, rec.Body.String())
	var out sessionJSON
	require.NoError(h.t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out.Token
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestRegisterAndLogin(t *testing.T) {
	h := newHarness(t, nil)

	rec := h.do(http.MethodPost, "/api/register", "", map[string]string{"name": " mei ", "password": "pw"})
	require.Equal(t, http.StatusCreated, rec.Code)
	out := decode[sessionJSON](t, rec)
	assert.True(t, out.Success)
	assert.Equal(t, "mei", out.User.Name)
	assert.NotEmpty(t, out.Token)
	assert.Contains(t, rec.Header().Get("Set-Cookie"), sessionCookie+"=")

	rec = h.do(http.MethodPost, "/api/register", "", map[string]string{"name": "mei", "password": "other"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = h.do(http.MethodPost, "/api/register", "", map[string]string{"name": "li"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode[map[string]string](t, rec)["error"], "required")

	rec = h.do(http.MethodPost, "/api/login", "", map[string]string{"name": "mei", "password": "pw"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "mei", decode[sessionJSON](t, rec).User.Name)

	rec = h.do(http.MethodPost, "/api/login", "", map[string]string{"name": "mei", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = h.do(http.MethodPost, "/api/login", "", map[string]string{"name": "ghost", "password": "pw"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCheckAuthAndLogout(t *testing.T) {
	h := newHarness(t, nil)
	token := h.register("mei")

	rec := h.do(http.MethodGet, "/api/check-auth", "", nil)
	assert.Equal(t, false, decode[map[string]any](t, rec)["authenticated"])

	req := httptest.NewRequest(http.MethodGet, "/api/check-auth", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookie, Value: token})
	rec = httptest.NewRecorder()
	h.srv.ServeHTTP(rec, req)
	got := decode[map[string]any](t, rec)
	assert.Equal(t, true, got["authenticated"])
	assert.Equal(t, "mei", got["user"].(map[string]any)["name"])

	rec = h.do(http.MethodGet, "/api/check-auth", "forged.token.value", nil)
	assert.Equal(t, false, decode[map[string]any](t, rec)["authenticated"])

	rec = h.do(http.MethodPost, "/api/logout", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Set-Cookie"), "Max-Age=0")
}

func TestCardRoutesRequireAuth(t *testing.T) {
	h := newHarness(t, nil)
	for _, path := range []string{"/api/flashcards", "/api/due", "/api/stats", "/api/export"} {
		rec := h.do(http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
	}
	rec := h.do(http.MethodDelete, "/api/flashcards/clear", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCardLifecycle(t *testing.T) {
	h := newHarness(t, nil)
	token := h.register("mei")

	rec := h.do(http.MethodGet, "/api/flashcards", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = h.do(http.MethodPost, "/api/flashcards", token, card.Draft{Character: "水", Pinyin: "shuǐ", Meaning: "water"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[card.Card](t, rec)
	assert.Equal(t, "水", created.Character)
	assert.Equal(t, 0, created.Level)
	assert.True(t, created.NextReview.Equal(epoch))

	rec = h.do(http.MethodPost, "/api/flashcards", token, card.Draft{Character: "火", Meaning: "fire"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = h.do(http.MethodPost, "/api/flashcards", token, card.Draft{Pinyin: "huǒ", Meaning: "fire"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = h.do(http.MethodPost, "/api/flashcards", token, card.Draft{Character: "是", Pinyin: "shì", Meaning: "to be, is"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "comma in meaning")

	rec = h.do(http.MethodGet, "/api/due", token, nil)
	assert.Len(t, decode[[]card.Card](t, rec), 1)

	rec = h.do(http.MethodPost, "/api/flashcards/"+string(created.ID)+"/answer", token, map[string]bool{"correct": true})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	answered := decode[card.Card](t, rec)
	assert.Equal(t, 1, answered.Level)
	assert.Equal(t, 1, answered.Streak)
	assert.True(t, answered.NextReview.Equal(epoch.AddDate(0, 0, 1)))

	rec = h.do(http.MethodPost, "/api/flashcards/"+string(created.ID)+"/answer", token, map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = h.do(http.MethodGet, "/api/due", token, nil)
	assert.Empty(t, decode[[]card.Card](t, rec))

	rec = h.do(http.MethodGet, "/api/stats", token, nil)
	stats := decode[map[string]int](t, rec)
	assert.Equal(t, 1, stats["totalCards"])
	assert.Equal(t, 1, stats["totalCorrect"])
	assert.Equal(t, 1, stats["todayReviewCount"])
	assert.Equal(t, 0, stats["dueCount"])

	rec = h.do(http.MethodPut, "/api/flashcards/"+string(created.ID), token, map[string]int{"level": 5, "streak": 2})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	stored := decode[[]card.Card](t, h.do(http.MethodGet, "/api/flashcards", token, nil))
	require.Len(t, stored, 1)
	assert.Equal(t, 5, stored[0].Level)
	assert.Equal(t, 1, stored[0].CorrectCount)

	rec = h.do(http.MethodPut, "/api/flashcards/"+string(created.ID), token, map[string]int{"level": 9})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = h.do(http.MethodDelete, "/api/flashcards/"+string(created.ID), token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = h.do(http.MethodDelete, "/api/flashcards/"+string(created.ID), token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = h.do(http.MethodPost, "/api/flashcards/"+string(created.ID)+"/answer", token, map[string]bool{"correct": true})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateOverridesNextReview(t *testing.T) {
	h := newHarness(t, nil)
	token := h.register("mei")

	rec := h.do(http.MethodPost, "/api/flashcards", token, card.Draft{Character: "水", Pinyin: "shuǐ", Meaning: "water"})
	require.Equal(t, http.StatusCreated, rec.Code)
	id := decode[card.Card](t, rec).ID

	past := epoch.AddDate(-1, 0, 0)
	rec = h.do(http.MethodPut, "/api/flashcards/"+string(id), token, map[string]any{"level": 7, "nextReview": past})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	stored := decode[[]card.Card](t, h.do(http.MethodGet, "/api/flashcards", token, nil))
	require.Len(t, stored, 1)
	assert.Equal(t, 7, stored[0].Level)
	assert.True(t, stored[0].NextReview.Equal(past), "nextReview is stored as sent")
	assert.Len(t, decode[[]card.Card](t, h.do(http.MethodGet, "/api/due", token, nil)), 1)
}

func TestCardsAreScopedToOwner(t *testing.T) {
	h := newHarness(t, nil)
	mei := h.register("mei")
	li := h.register("li")

	rec := h.do(http.MethodPost, "/api/flashcards", mei, card.Draft{Character: "水", Pinyin: "shuǐ", Meaning: "water"})
	require.Equal(t, http.StatusCreated, rec.Code)
	id := string(decode[card.Card](t, rec).ID)

	assert.Empty(t, decode[[]card.Card](t, h.do(http.MethodGet, "/api/flashcards", li, nil)))
	assert.Equal(t, http.StatusNotFound, h.do(http.MethodPut, "/api/flashcards/"+id, li, map[string]int{"level": 1}).Code)

	assert.Equal(t, http.StatusOK, h.do(http.MethodDelete, "/api/flashcards/clear", li, nil).Code)
	assert.Len(t, decode[[]card.Card](t, h.do(http.MethodGet, "/api/flashcards", mei, nil)), 1)

	assert.Equal(t, http.StatusOK, h.do(http.MethodDelete, "/api/flashcards/clear", mei, nil).Code)
	assert.Empty(t, decode[[]card.Card](t, h.do(http.MethodGet, "/api/flashcards", mei, nil)))
}

func TestImportExport(t *testing.T) {
	h := newHarness(t, nil)
	token := h.register("mei")

	body := "\uFEFF水,shuǐ,water\n火,,fire\nbad line\n你好,nǐ hǎo,ㄋㄧˇ ㄏㄠˇ,hello,extra\n"
	rec := h.do(http.MethodPost, "/api/import", token, body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, map[string]int{"added": 2, "skipped": 1}, decode[map[string]int](t, rec))

	rec = h.do(http.MethodGet, "/api/export", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/plain; charset=UTF-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, "水,shuǐ,water\n你好,nǐ hǎo,ㄋㄧˇ ㄏㄠˇ,hello\n", rec.Body.String())
}

func TestRateLimit(t *testing.T) {
	h := newHarness(t, NewRateLimiter(0.001, 2))

	assert.Equal(t, http.StatusOK, h.do(http.MethodGet, "/api/check-auth", "", nil).Code)
	assert.Equal(t, http.StatusOK, h.do(http.MethodGet, "/api/check-auth", "", nil).Code)
	rec := h.do(http.MethodGet, "/api/check-auth", "", nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "too many requests", decode[map[string]string](t, rec)["error"])
}

func TestRateLimiterEvictsIdleClients(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	now := epoch
	rl.now = func() time.Time { return now }

	assert.True(t, rl.Allow("10.0.0.1"))
	assert.True(t, rl.Allow("10.0.0.2"))
	assert.Equal(t, 2, rl.Len())

	now = now.Add(2 * time.Minute)
	assert.True(t, rl.Allow("10.0.0.2"))

	now = now.Add(DefaultIdleTTL - time.Minute)
	assert.True(t, rl.Allow("10.0.0.3"))
	assert.Equal(t, 2, rl.Len(), "10.0.0.1 was idle past the TTL")

	now = now.Add(DefaultIdleTTL + time.Second)
	rl.Allow("10.0.0.3")
	assert.Equal(t, 1, rl.Len())
}

func TestUnknownRoute(t *testing.T) {
	h := newHarness(t, nil)
	rec := h.do(http.MethodGet, "/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.NotEmpty(t, decode[map[string]string](t, rec)["error"])
}
