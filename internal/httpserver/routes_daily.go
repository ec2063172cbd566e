// internal/httpserver/routes_daily.go
//
// HTTP routes for the "Daily Challenge" mode.
// Exposes three endpoints under /daily:
//   - POST /daily/new         → start today's game (creates or reuses session)
//   - POST /daily/guess       → guess a letter in today's game
//   - GET  /daily/leaderboard → top 20 winners for today (or ?date=YYYY-MM-DD)
//
// Every player gets the same length, difficulty and engine seed for a UTC
// date, so the same letters give the same reveals. One play per player per
// day: the session lives in memory while playing and wins go to SQLite.

package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"

	"github.com/robalobadob/evilhangman/internal/daily"
	"github.com/robalobadob/evilhangman/internal/game"
)

// minDailyWords keeps tiny buckets out of the daily rotation.
const minDailyWords = 20

// dailyServer wraps dependencies for /daily endpoints.
type dailyServer struct {
	srv      *Server
	store    *daily.Store
	lengths  []int
	sessions map[string]*dailySession // active sessions keyed by userID|date
	mu       sync.Mutex               // guards sessions
}

// dailySession holds transient in-memory state for a daily game.
type dailySession struct {
	Game   *game.Game
	UserID string
	Puzzle daily.Puzzle
	Start  time.Time
}

// mountDaily registers all /daily routes.
func (s *Server) mountDaily(r chi.Router) {
	dd := &dailyServer{
		srv:      s,
		store:    daily.NewStore(s.db),
		lengths:  dailyLengths(s),
		sessions: make(map[string]*dailySession),
	}
	r.Route("/daily", func(r chi.Router) {
		r.Post("/new", dd.handleNew)
		r.Post("/guess", dd.handleGuess)
		r.Get("/leaderboard", dd.handleLeaderboard)
	})
}

// dailyLengths lists the lengths with enough words for a fair daily game,
// falling back to every available length.
func dailyLengths(s *Server) []int {
	var out []int
	for _, n := range s.index.Lengths() {
		if s.index.CountForLength(n) >= minDailyWords {
			out = append(out, n)
		}
	}
	if len(out) == 0 {
		return s.index.Lengths()
	}
	return out
}

// today returns the puzzle for the current UTC date.
func (d *dailyServer) today() daily.Puzzle {
	return daily.ForDate(d.srv.clock.Now(), d.srv.cfg.DailySalt, d.lengths)
}

// playerID returns the authenticated user ID if logged in,
// otherwise the anonymous cookie ID.
func (d *dailyServer) playerID(w http.ResponseWriter, r *http.Request) string {
	if me := userFrom(r); me != nil {
		return me.ID
	}
	return d.srv.ensureAnonID(w, r)
}

// -----------------------------------------------------------------------------
// /daily/new

// dailyNewRes is returned by /daily/new.
type dailyNewRes struct {
	Date   string     `json:"date"`
	Played bool       `json:"played"`
	Game   *game.View `json:"game,omitempty"`
}

// handleNew creates or reuses the caller's session for today.
// A caller with a stored result for today gets Played=true and no game.
func (d *dailyServer) handleNew(w http.ResponseWriter, r *http.Request) {
	uid := d.playerID(w, r)
	p := d.today()
	if p.Length == 0 {
		writeError(w, http.StatusServiceUnavailable, "no_words")
		return
	}

	if played, err := d.store.AlreadyPlayed(r.Context(), uid, p.Date); err == nil && played {
		_ = json.NewEncoder(w).Encode(dailyNewRes{Date: p.Date, Played: true})
		return
	}

	key := uid + "|" + p.Date
	d.mu.Lock()
	defer d.mu.Unlock()
	if sess, ok := d.sessions[key]; ok {
		v := sess.Game.View()
		_ = json.NewEncoder(w).Encode(dailyNewRes{Date: p.Date, Game: &v})
		return
	}

	g, err := game.New(d.srv.index, game.Options{
		Length:     p.Length,
		MaxWrong:   d.srv.cfg.DefaultMaxWrong,
		Difficulty: p.Difficulty,
		Seed:       p.Seed,
	}, d.srv.log)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("new daily game")
		writeError(w, http.StatusInternalServerError, "new_game_failed")
		return
	}
	d.sessions[key] = &dailySession{Game: g, UserID: uid, Puzzle: p, Start: d.srv.clock.Now()}

	v := g.View()
	_ = json.NewEncoder(w).Encode(dailyNewRes{Date: p.Date, Game: &v})
}

// -----------------------------------------------------------------------------
// /daily/guess

// dailyGuessReq is the request payload for /daily/guess.
type dailyGuessReq struct {
	GameID string `json:"gameId"`
	Letter string `json:"letter"`
}

// handleGuess applies a letter to today's session and stores the result on a win.
func (d *dailyServer) handleGuess(w http.ResponseWriter, r *http.Request) {
	uid := d.playerID(w, r)

	var p dailyGuessReq
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil || p.GameID == "" {
		writeError(w, http.StatusBadRequest, "bad_request")
		return
	}

	date := d.today().Date
	d.mu.Lock()
	sess, ok := d.sessions[uid+"|"+date]
	d.mu.Unlock()
	if !ok || sess.Game.ID != p.GameID {
		writeError(w, http.StatusConflict, "no_session")
		return
	}

	res, err := sess.Game.ApplyGuess(p.Letter)
	switch {
	case errors.Is(err, game.ErrFinished):
		writeError(w, http.StatusConflict, "locked")
		return
	case errors.Is(err, game.ErrInvalidLetter):
		writeError(w, http.StatusBadRequest, "invalid_letter")
		return
	case err != nil:
		hlog.FromRequest(r).Error().Err(err).Msg("daily guess")
		writeError(w, http.StatusInternalServerError, "guess_failed")
		return
	}

	if res.State == game.StatusWon && !res.Repeat {
		err := d.store.InsertResult(r.Context(), daily.Result{
			UserID:      uid,
			Date:        date,
			Length:      sess.Puzzle.Length,
			Difficulty:  sess.Puzzle.Difficulty.String(),
			Guesses:     sess.Game.GuessCount(),
			GuessesLeft: res.GuessesLeft,
			ElapsedMs:   int(d.srv.clock.Since(sess.Start).Milliseconds()),
		})
		if err != nil {
			hlog.FromRequest(r).Warn().Err(err).Msg("insert daily result")
		}
	}
	_ = json.NewEncoder(w).Encode(res)
}

// -----------------------------------------------------------------------------
// /daily/leaderboard

// lbRes is returned by /daily/leaderboard.
type lbRes struct {
	Date string        `json:"date"`
	Top  []daily.LBRow `json:"top"`
}

// handleLeaderboard returns the leaderboard for the given date (default today).
func (d *dailyServer) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = d.today().Date
	}
	rows, err := d.store.Leaderboard(r.Context(), date, 20)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	_ = json.NewEncoder(w).Encode(lbRes{Date: date, Top: rows})
}
