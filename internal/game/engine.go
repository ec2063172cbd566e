// internal/game/engine.go
//
// Session layer over the hangman engine.
// Responsibilities:
//   - Create games with their own engine Manager and seeded random source.
//   - Validate and apply letter guesses (single a–z letter, game not over).
//   - Track state transitions: playing → won/lost.
//   - Reveal the secret word once the game is over.
//
// A game is won when the pattern has no hidden positions left and lost when
// the guess budget reaches zero. Access is serialized by a per-game mutex.

package game

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/robalobadob/evilhangman/internal/hangman"
	"github.com/robalobadob/evilhangman/internal/randutil"
)

var (
	ErrFinished      = errors.New("game finished")
	ErrInvalidLetter = errors.New("invalid letter")
)

// New constructs a game over idx and starts its round.
func New(idx *hangman.Index, opts Options, logger zerolog.Logger) (*Game, error) {
	seed := opts.Seed
	if seed == 0 {
		s, err := randutil.NewSeed()
		if err != nil {
			return nil, err
		}
		seed = s
	}
	mgr, err := hangman.NewManager(idx,
		hangman.WithSource(randutil.New(seed)),
		hangman.WithLogger(logger),
	)
	if err != nil {
		return nil, err
	}
	if err := mgr.StartRound(opts.Length, opts.MaxWrong, opts.Difficulty); err != nil {
		return nil, err
	}
	g := &Game{
		ID:         randomID(),
		Length:     opts.Length,
		MaxWrong:   opts.MaxWrong,
		Difficulty: opts.Difficulty,
		Seed:       seed,
		Status:     StatusPlaying,
		CreatedAt:  time.Now().UTC(),
		mgr:        mgr,
	}
	if opts.MaxWrong <= 0 {
		if err := g.finish(StatusLost); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// ApplyGuess validates letter and applies it to the round.
// Repeat letters are reported with Repeat set and cost nothing.
func (g *Game) ApplyGuess(letter string) (Result, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.Status != StatusPlaying {
		return Result{View: g.view()}, ErrFinished
	}
	l, err := parseLetter(letter)
	if err != nil {
		return Result{View: g.view()}, err
	}

	repeat, err := g.mgr.AlreadyGuessed(l)
	if err != nil {
		return Result{}, err
	}
	families, err := g.mgr.ApplyGuess(l)
	if err != nil {
		return Result{}, err
	}

	pattern := g.mgr.Round().Pattern()
	left, err := g.mgr.GuessesRemaining()
	switch {
	case err != nil:
		return Result{}, err
	case !strings.ContainsRune(pattern, hangman.Unrevealed):
		err = g.finish(StatusWon)
	case left <= 0:
		err = g.finish(StatusLost)
	}
	if err != nil {
		return Result{}, err
	}

	return Result{
		View:     g.view(),
		Letter:   string(l),
		Repeat:   repeat,
		Families: families,
	}, nil
}

// View returns a snapshot of the game.
func (g *Game) View() View {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.view()
}

// Finished reports whether the game is over.
func (g *Game) Finished() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.Status != StatusPlaying
}

// GuessCount is the number of accepted guesses so far.
func (g *Game) GuessCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.mgr.Round().GuessCount()
}

func (g *Game) finish(s Status) error {
	secret, err := g.mgr.SecretWord()
	if err != nil {
		return fmt.Errorf("reveal secret: %w", err)
	}
	g.Status = s
	g.Secret = secret
	return nil
}

func (g *Game) view() View {
	r := g.mgr.Round()
	guessed := make([]string, 0, len(r.GuessedLetters()))
	for _, l := range r.GuessedLetters() {
		guessed = append(guessed, string(l))
	}
	// the budget is never driven below zero here: the game ends at zero
	left, _ := r.GuessesRemaining()
	return View{
		GameID:      g.ID,
		Length:      g.Length,
		Difficulty:  g.Difficulty.String(),
		Pattern:     r.Pattern(),
		Guessed:     guessed,
		GuessesLeft: left,
		Candidates:  r.CandidateCount(),
		State:       g.Status,
		Secret:      g.Secret,
	}
}

// parseLetter accepts exactly one letter a–z after trimming and lowercasing.
func parseLetter(s string) (rune, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if utf8.RuneCountInString(s) != 1 {
		return 0, ErrInvalidLetter
	}
	r, _ := utf8.DecodeRuneInString(s)
	if r < 'a' || r > 'z' {
		return 0, ErrInvalidLetter
	}
	return r, nil
}

// randomID returns a compact 16‑hex‑char identifier.
func randomID() string {
	var b [8]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}
