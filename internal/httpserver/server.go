// internal/httpserver/server.go
//
// HTTP server wiring for the evil hangman backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs, access log).
//   - Public endpoints: "/", "/health", "/debug/words".
//   - Game endpoints (optional auth): POST /game/new, POST /game/guess, GET /game/{id}.
//   - Daily Challenge endpoints (optional auth): mounted under /daily.
//   - Auth + profile/stat endpoints: /auth/*, /stats/me, /games/mine (see auth.go).
//   - Database persistence for game history and user stats.
//
// Notes:
//   - Live sessions are held in the Store; SQLite only keeps history.
//   - Optional auth decorates requests with user context when a valid token is present;
//     routes still run for guests, who are tracked by an anonymous cookie.

package httpserver

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"math/rand/v2"
	"net/http"
	"time"

	"github.com/coder/quartz"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
	"golang.org/x/sync/errgroup"

	"github.com/robalobadob/evilhangman/internal/config"
	"github.com/robalobadob/evilhangman/internal/game"
	"github.com/robalobadob/evilhangman/internal/hangman"
	"github.com/robalobadob/evilhangman/internal/store"
)

// Options are the dependencies of a Server.
type Options struct {
	Store  store.Store
	DB     *sql.DB
	Index  *hangman.Index
	Config config.Config
	Clock  quartz.Clock   // defaults to the real clock
	Logger zerolog.Logger // request and engine logging
}

// Server bundles router, session store, dictionary index and DB handle.
type Server struct {
	r     *chi.Mux
	store store.Store
	db    *sql.DB
	index *hangman.Index
	cfg   config.Config
	clock quartz.Clock
	log   zerolog.Logger
}

// New constructs a Server, installs middleware, and registers routes.
func New(o Options) *Server {
	if o.Clock == nil {
		o.Clock = quartz.NewReal()
	}
	s := &Server{
		r:     chi.NewRouter(),
		store: o.Store,
		db:    o.DB,
		index: o.Index,
		cfg:   o.Config,
		clock: o.Clock,
		log:   o.Logger,
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID)                 // add X-Request-ID
	s.r.Use(chimw.RealIP)                    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(hlog.NewHandler(s.log))          // request-scoped logger
	s.r.Use(accessLog)                       // one debug line per request
	s.r.Use(chimw.Recoverer)                 // recover from panics
	s.r.Use(chimw.Timeout(10 * time.Second)) // bound handler time
	s.r.Use(jsonContentType)                 // default JSON responses
	s.r.Use(cors(s.cfg.ClientOrigin))        // credentials-friendly CORS

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"service":"evilhangman","endpoints":["/health","POST /game/new","POST /game/guess","GET /game/{id}","DELETE /game/{id}","/daily/*","/auth/*"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true, "games": s.store.Len()})
	})
	s.r.Get("/debug/words", s.handleWordStats)

	// Game endpoints: optional auth (guests can play)
	s.r.With(s.withOptionalAuth()).Post("/game/new", s.handleNewGame)
	s.r.With(s.withOptionalAuth()).Post("/game/guess", s.handleGuess)
	s.r.Get("/game/{id}", s.handleGetGame)
	s.r.Delete("/game/{id}", s.handleDeleteGame)

	// Daily Challenge: optional auth
	s.mountDaily(s.r.With(s.withOptionalAuth()))

	// Auth + profile/stats
	s.mountAuthRoutes()

	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not_found")
	})

	return s
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.log.Info().Str("addr", addr).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.log.Info().Msg("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for a single origin.
func cors(origin string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,DELETE,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

var accessLog = hlog.AccessHandler(func(r *http.Request, status, size int, d time.Duration) {
	hlog.FromRequest(r).Debug().
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Str("requestId", chimw.GetReqID(r.Context())).
		Int("status", status).
		Int("size", size).
		Dur("took", d).
		Msg("request")
})

// writeError writes {"error":code} with status.
func writeError(w http.ResponseWriter, status int, code string) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": code})
}

// handleWordStats reports the per-length word counts of the index.
func (s *Server) handleWordStats(w http.ResponseWriter, r *http.Request) {
	counts := map[int]int{}
	for _, n := range s.index.Lengths() {
		counts[n] = s.index.CountForLength(n)
	}
	_ = json.NewEncoder(w).Encode(map[string]any{"total": s.index.Len(), "byLength": counts})
}

// ------------------------------ GAME ---------------------------------------

// newGameReq is the payload for POST /game/new. Zero values take defaults:
// a random available length, DEFAULT_MAX_WRONG and DEFAULT_DIFFICULTY.
type newGameReq struct {
	Length     int    `json:"length"`
	MaxWrong   int    `json:"maxWrong"`
	Difficulty string `json:"difficulty"`
}

// handleNewGame creates a new in-memory game and persists an owner row
// (either user_id or anonymous_id) for history/stats.
func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req newGameReq
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_json")
			return
		}
	}

	opts, code := s.gameOptions(req)
	if code != "" {
		writeError(w, http.StatusBadRequest, code)
		return
	}
	g, err := game.New(s.index, opts, s.log)
	if err != nil {
		if errors.Is(err, hangman.ErrInvalidArgument) {
			writeError(w, http.StatusBadRequest, "no_words_of_length")
			return
		}
		hlog.FromRequest(r).Error().Err(err).Msg("new game")
		writeError(w, http.StatusInternalServerError, "new_game_failed")
		return
	}
	if err := s.store.Save(r.Context(), g); err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("save game")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}

	s.recordNewGame(w, r, g)
	_ = json.NewEncoder(w).Encode(g.View())
}

// gameOptions fills defaults and validates a new-game request.
// It returns a non-empty error code when the request is unusable.
func (s *Server) gameOptions(req newGameReq) (game.Options, string) {
	if req.Difficulty == "" {
		req.Difficulty = s.cfg.DefaultDifficulty
	}
	d, err := hangman.ParseDifficulty(req.Difficulty)
	if err != nil {
		return game.Options{}, "invalid_difficulty"
	}
	if req.MaxWrong == 0 {
		req.MaxWrong = s.cfg.DefaultMaxWrong
	}
	if req.MaxWrong < 0 {
		return game.Options{}, "invalid_max_wrong"
	}
	if req.Length == 0 {
		lengths := s.index.Lengths()
		if len(lengths) == 0 {
			return game.Options{}, "no_words_of_length"
		}
		req.Length = lengths[rand.IntN(len(lengths))]
	}
	return game.Options{Length: req.Length, MaxWrong: req.MaxWrong, Difficulty: d}, ""
}

// recordNewGame inserts the history row for g (best effort).
func (s *Server) recordNewGame(w http.ResponseWriter, r *http.Request, g *game.Game) {
	now := s.clock.Now().UTC().Format(time.RFC3339)
	ownerCol, ownerArg := s.owner(w, r)
	_, err := s.db.ExecContext(r.Context(),
		`INSERT INTO games (id, `+ownerCol+`, length, difficulty, max_wrong, started_at, status, guesses)
		 VALUES (?,?,?,?,?,?,?,0)`,
		g.ID, ownerArg, g.Length, g.Difficulty.String(), g.MaxWrong, now, string(game.StatusPlaying))
	if err != nil {
		hlog.FromRequest(r).Warn().Err(err).Str("gameId", g.ID).Msg("insert game row")
	}
}

// guessReq is the payload for POST /game/guess.
type guessReq struct {
	GameID string `json:"gameId"`
	Letter string `json:"letter"`
}

// handleGuess applies a letter to an in-memory game, persists progress,
// and (if finished) updates user stats in a best-effort transaction.
func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	var req guessReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	g, err := s.store.Get(r.Context(), req.GameID)
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found")
		return
	}
	res, err := g.ApplyGuess(req.Letter)
	switch {
	case errors.Is(err, game.ErrFinished):
		writeError(w, http.StatusConflict, "game_finished")
		return
	case errors.Is(err, game.ErrInvalidLetter):
		writeError(w, http.StatusBadRequest, "invalid_letter")
		return
	case err != nil:
		hlog.FromRequest(r).Error().Err(err).Str("gameId", g.ID).Msg("apply guess")
		writeError(w, http.StatusInternalServerError, "guess_failed")
		return
	}
	if err := s.store.Save(r.Context(), g); err != nil {
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	if !res.Repeat {
		s.recordGuess(w, r, g.ID, res.View)
	}
	_ = json.NewEncoder(w).Encode(res)
}

// recordGuess bumps the history row and, when the game just ended, stores
// the outcome and the player's stats. Failures are logged, not returned.
func (s *Server) recordGuess(w http.ResponseWriter, r *http.Request, gameID string, v game.View) {
	logger := hlog.FromRequest(r)
	me := userFrom(r)
	ownerCol, ownerArg := s.owner(w, r)

	tx, err := s.db.BeginTx(r.Context(), nil)
	if err != nil {
		logger.Warn().Err(err).Msg("begin tx")
		return
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`UPDATE games SET guesses = guesses + 1 WHERE id=? AND `+ownerCol+`=?`, gameID, ownerArg); err != nil {
		logger.Warn().Err(err).Msg("update guesses")
	}
	if v.State != game.StatusPlaying {
		if _, err := tx.Exec(`UPDATE games SET status=?, secret=?, finished_at=? WHERE id=? AND `+ownerCol+`=?`,
			string(v.State), v.Secret, s.clock.Now().UTC().Format(time.RFC3339), gameID, ownerArg); err != nil {
			logger.Warn().Err(err).Msg("finish game")
		}
		if me != nil {
			if err := bumpStats(tx, me.ID, v.State == game.StatusWon); err != nil {
				logger.Warn().Err(err).Str("user", me.ID).Msg("bump stats")
			}
		}
	}
	if err := tx.Commit(); err != nil {
		logger.Warn().Err(err).Msg("commit guess")
	}
}

// handleGetGame returns the current view of a game.
func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	g, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found")
		return
	}
	_ = json.NewEncoder(w).Encode(g.View())
}

// handleDeleteGame drops a session from memory. Recorded history stays.
func (s *Server) handleDeleteGame(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := s.store.Get(r.Context(), id); err != nil {
		writeError(w, http.StatusNotFound, "not_found")
		return
	}
	if err := s.store.Delete(r.Context(), id); err != nil {
		writeError(w, http.StatusInternalServerError, "delete_failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// owner picks the games column and value identifying the caller.
func (s *Server) owner(w http.ResponseWriter, r *http.Request) (string, any) {
	if me := userFrom(r); me != nil {
		return "user_id", me.ID
	}
	return "anonymous_id", s.ensureAnonID(w, r)
}

// bumpStats increments games played; updates wins and streak based on result (within tx).
func bumpStats(tx *sql.Tx, userID string, won bool) error {
	var gp, wins, streak int
	row := tx.QueryRow(`SELECT games_played, wins, streak FROM users WHERE id=?`, userID)
	if err := row.Scan(&gp, &wins, &streak); err != nil {
		return err
	}
	gp++
	if won {
		wins++
		streak++
	} else {
		streak = 0
	}
	_, err := tx.Exec(`UPDATE users SET games_played=?, wins=?, streak=? WHERE id=?`, gp, wins, streak, userID)
	return err
}
