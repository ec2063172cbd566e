package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/evilhangman/internal/config"
	"github.com/robalobadob/evilhangman/internal/db"
	"github.com/robalobadob/evilhangman/internal/game"
	"github.com/robalobadob/evilhangman/internal/hangman"
	"github.com/robalobadob/evilhangman/internal/store"
)

var testWords = []string{"cat", "cop", "car"}

func testConfig() config.Config {
	return config.Config{
		JWTSecret:         "test_secret",
		JWTExpiresDays:    1,
		CookieName:        "hangman_token",
		ClientOrigin:      "http://localhost:5173",
		Env:               "test",
		DailySalt:         "salt",
		DefaultMaxWrong:   10,
		DefaultDifficulty: "hard",
	}
}

func newTestServer(t *testing.T) (*Server, *quartz.Mock) {
	t.Helper()
	sqlDB, err := db.Open(filepath.Join(t.TempDir(), "app.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.Migrate(sqlDB))

	idx, err := hangman.NewIndex(testWords)
	require.NoError(t, err)

	clock := quartz.NewMock(t)
	clock.Set(time.Now())

	s := New(Options{
		Store:  store.NewMemoryStore(),
		DB:     sqlDB,
		Index:  idx,
		Config: testConfig(),
		Clock:  clock,
		Logger: zerolog.Nop(),
	})
	return s, clock
}

// client replays cookies between requests like a browser would.
type client struct {
	t       *testing.T
	h       http.Handler
	cookies map[string]*http.Cookie
}

func newClient(t *testing.T, s *Server) *client {
	return &client{t: t, h: s.Router(), cookies: map[string]*http.Cookie{}}
}

func (c *client) do(method, path string, body any) *httptest.ResponseRecorder {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	for _, ck := range c.cookies {
		req.AddCookie(&http.Cookie{Name: ck.Name, Value: ck.Value})
	}
	rec := httptest.NewRecorder()
	c.h.ServeHTTP(rec, req)
	for _, ck := range rec.Result().Cookies() {
		if ck.MaxAge < 0 {
			delete(c.cookies, ck.Name)
			continue
		}
		c.cookies[ck.Name] = ck
	}
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v), rec.Body.String())
	return v
}

// playToEnd guesses every letter of the test words until the game ends.
func playToEnd(t *testing.T, c *client, path, gameID string) game.Result {
	t.Helper()
	var res game.Result
	for _, l := range []string{"c", "a", "t", "o", "p", "r"} {
		rec := c.do(http.MethodPost, path, map[string]string{"gameId": gameID, "letter": l})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		res = decode[game.Result](t, rec)
		if res.State != game.StatusPlaying {
			return res
		}
	}
	t.Fatalf("game %s never finished", gameID)
	return res
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t)
	c := newClient(t, s)

	rec := c.do(http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true,"games":0}`, rec.Body.String())
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))

	rec = c.do(http.MethodGet, "/debug/words", nil)
	assert.JSONEq(t, `{"total":3,"byLength":{"3":3}}`, rec.Body.String())

	rec = c.do(http.MethodGet, "/nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCORSPreflight(t *testing.T) {
	s, _ := newTestServer(t)
	rec := newClient(t, s).do(http.MethodOptions, "/game/new", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestGameFlow(t *testing.T) {
	s, _ := newTestServer(t)
	c := newClient(t, s)

	rec := c.do(http.MethodPost, "/game/new", map[string]any{"length": 3, "maxWrong": 5, "difficulty": "hard"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	v := decode[game.View](t, rec)
	assert.Equal(t, "---", v.Pattern)
	assert.Equal(t, 3, v.Candidates)
	assert.Equal(t, 5, v.GuessesLeft)
	assert.Contains(t, c.cookies, anonCookieName)

	rec = c.do(http.MethodPost, "/game/guess", map[string]string{"gameId": v.GameID, "letter": "c"})
	require.Equal(t, http.StatusOK, rec.Code)
	res := decode[game.Result](t, rec)
	assert.Equal(t, map[string]int{"c--": 3}, res.Families)
	assert.Equal(t, "c--", res.Pattern)

	rec = c.do(http.MethodPost, "/game/guess", map[string]string{"gameId": v.GameID, "letter": "a"})
	require.Equal(t, http.StatusOK, rec.Code)
	res = decode[game.Result](t, rec)
	assert.Equal(t, map[string]int{"ca-": 2, "c--": 1}, res.Families)
	assert.Equal(t, "ca-", res.Pattern)

	rec = c.do(http.MethodGet, "/game/"+v.GameID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ca-", decode[game.View](t, rec).Pattern)

	var guesses int
	require.NoError(t, s.db.QueryRow(`SELECT guesses FROM games WHERE id=?`, v.GameID).Scan(&guesses))
	assert.Equal(t, 2, guesses)

	rec = c.do(http.MethodGet, "/health", nil)
	assert.JSONEq(t, `{"ok":true,"games":1}`, rec.Body.String())

	rec = c.do(http.MethodDelete, "/game/"+v.GameID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = c.do(http.MethodGet, "/game/"+v.GameID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = c.do(http.MethodDelete, "/game/"+v.GameID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = c.do(http.MethodGet, "/health", nil)
	assert.JSONEq(t, `{"ok":true,"games":0}`, rec.Body.String())

	var rows int
	require.NoError(t, s.db.QueryRow(`SELECT COUNT(*) FROM games WHERE id=?`, v.GameID).Scan(&rows))
	assert.Equal(t, 1, rows)
}

func TestGameDefaults(t *testing.T) {
	s, _ := newTestServer(t)
	rec := newClient(t, s).do(http.MethodPost, "/game/new", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	v := decode[game.View](t, rec)
	assert.Equal(t, 3, v.Length)
	assert.Equal(t, 10, v.GuessesLeft)
	assert.Equal(t, "hard", v.Difficulty)
}

func TestGameErrors(t *testing.T) {
	s, _ := newTestServer(t)
	c := newClient(t, s)

	rec := c.do(http.MethodPost, "/game/new", map[string]any{"length": 3, "difficulty": "brutal"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"invalid_difficulty"}`, rec.Body.String())

	rec = c.do(http.MethodPost, "/game/new", map[string]any{"length": 9})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"no_words_of_length"}`, rec.Body.String())

	rec = c.do(http.MethodPost, "/game/guess", map[string]string{"gameId": "missing", "letter": "a"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = c.do(http.MethodPost, "/game/new", map[string]any{"length": 3})
	v := decode[game.View](t, rec)
	rec = c.do(http.MethodPost, "/game/guess", map[string]string{"gameId": v.GameID, "letter": "12"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"invalid_letter"}`, rec.Body.String())

	res := playToEnd(t, c, "/game/guess", v.GameID)
	assert.Equal(t, game.StatusWon, res.State)
	rec = c.do(http.MethodPost, "/game/guess", map[string]string{"gameId": v.GameID, "letter": "z"})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestAuthAndStats(t *testing.T) {
	s, _ := newTestServer(t)
	c := newClient(t, s)

	rec := c.do(http.MethodGet, "/auth/me", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = c.do(http.MethodPost, "/auth/signup", map[string]string{"username": "alice", "password": "hunter2hunter2"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Contains(t, c.cookies, "hangman_token")

	rec = c.do(http.MethodGet, "/auth/me", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "alice", decode[authUser](t, rec).Username)

	rec = c.do(http.MethodPost, "/game/new", map[string]any{"length": 3})
	v := decode[game.View](t, rec)
	res := playToEnd(t, c, "/game/guess", v.GameID)
	require.Equal(t, game.StatusWon, res.State)
	assert.Contains(t, testWords, res.Secret)

	rec = c.do(http.MethodGet, "/stats/me", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	stats := decode[map[string]any](t, rec)
	assert.EqualValues(t, 1, stats["gamesPlayed"])
	assert.EqualValues(t, 1, stats["wins"])
	assert.EqualValues(t, 1, stats["streak"])

	rec = c.do(http.MethodGet, "/games/mine", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rows := decode[[]gameRow](t, rec)
	require.Len(t, rows, 1)
	assert.Equal(t, v.GameID, rows[0].ID)
	assert.Equal(t, "won", rows[0].Status)
	assert.Equal(t, res.Secret, rows[0].Secret)

	rec = c.do(http.MethodPost, "/auth/logout", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = c.do(http.MethodGet, "/auth/me", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSignupAndLoginErrors(t *testing.T) {
	s, _ := newTestServer(t)
	c := newClient(t, s)

	rec := c.do(http.MethodPost, "/auth/signup", map[string]string{"username": "bob", "password": "correct horse"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = newClient(t, s).do(http.MethodPost, "/auth/signup", map[string]string{"username": "BOB", "password": "correct horse"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = newClient(t, s).do(http.MethodPost, "/auth/signup", map[string]string{"username": "x", "password": "correct horse"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = newClient(t, s).do(http.MethodPost, "/auth/login", map[string]string{"username": "bob", "password": "wrong password"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = newClient(t, s).do(http.MethodPost, "/auth/login", map[string]string{"username": "bob", "password": "correct horse"})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAnonGamesClaimedOnSignup(t *testing.T) {
	s, _ := newTestServer(t)
	c := newClient(t, s)

	rec := c.do(http.MethodPost, "/game/new", map[string]any{"length": 3})
	v := decode[game.View](t, rec)

	rec = c.do(http.MethodPost, "/auth/signup", map[string]string{"username": "carol", "password": "long enough"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = c.do(http.MethodGet, "/games/mine", nil)
	rows := decode[[]gameRow](t, rec)
	require.Len(t, rows, 1)
	assert.Equal(t, v.GameID, rows[0].ID)
	assert.Empty(t, rows[0].Secret)
}

func TestDailyFlow(t *testing.T) {
	s, clock := newTestServer(t)
	c := newClient(t, s)
	ctx := context.Background()

	rec := c.do(http.MethodPost, "/daily/new", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	first := decode[dailyNewRes](t, rec)
	require.NotNil(t, first.Game)
	assert.False(t, first.Played)
	assert.Equal(t, 3, first.Game.Length)

	rec = c.do(http.MethodPost, "/daily/new", nil)
	again := decode[dailyNewRes](t, rec)
	require.NotNil(t, again.Game)
	assert.Equal(t, first.Game.GameID, again.Game.GameID)

	rec = c.do(http.MethodPost, "/daily/guess", map[string]string{"gameId": "other", "letter": "a"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	clock.Advance(2 * time.Second).MustWait(ctx)
	res := playToEnd(t, c, "/daily/guess", first.Game.GameID)
	require.Equal(t, game.StatusWon, res.State)

	rec = c.do(http.MethodPost, "/daily/guess", map[string]string{"gameId": first.Game.GameID, "letter": "z"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = c.do(http.MethodGet, "/daily/leaderboard", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	lb := decode[lbRes](t, rec)
	require.Len(t, lb.Top, 1)
	assert.Equal(t, c.cookies[anonCookieName].Value, lb.Top[0].UserID)
	assert.Equal(t, 2000, lb.Top[0].ElapsedMs)

	rec = c.do(http.MethodPost, "/daily/new", nil)
	done := decode[dailyNewRes](t, rec)
	assert.True(t, done.Played)
	assert.Nil(t, done.Game)
}

func TestDailySameForEveryone(t *testing.T) {
	s, _ := newTestServer(t)
	a, b := newClient(t, s), newClient(t, s)

	ra := decode[dailyNewRes](t, a.do(http.MethodPost, "/daily/new", nil))
	rb := decode[dailyNewRes](t, b.do(http.MethodPost, "/daily/new", nil))
	require.NotNil(t, ra.Game)
	require.NotNil(t, rb.Game)
	assert.NotEqual(t, ra.Game.GameID, rb.Game.GameID)
	assert.Equal(t, ra.Game.Difficulty, rb.Game.Difficulty)

	for _, l := range []string{"c", "a", "o"} {
		x := decode[game.Result](t, a.do(http.MethodPost, "/daily/guess", map[string]string{"gameId": ra.Game.GameID, "letter": l}))
		y := decode[game.Result](t, b.do(http.MethodPost, "/daily/guess", map[string]string{"gameId": rb.Game.GameID, "letter": l}))
		assert.Equal(t, x.Pattern, y.Pattern)
		assert.Equal(t, x.Families, y.Families)
	}
}
