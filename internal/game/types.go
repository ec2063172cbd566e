// internal/game/types.go
//
// Core type definitions for a hangman game session.
// Defines:
//   - Status: coarse lifecycle of a session (playing/won/lost).
//   - Game: one session wrapping an engine round.
//   - Options: how a session is created.
//   - Result/View: what a guess or a lookup reports back.

package game

import (
	"sync"
	"time"

	"github.com/robalobadob/evilhangman/internal/hangman"
)

// Status is the lifecycle state of a game.
type Status string

const (
	StatusPlaying Status = "playing"
	StatusWon     Status = "won"
	StatusLost    Status = "lost"
)

// Options configures a new game.
type Options struct {
	Length     int                // word length
	MaxWrong   int                // guess budget
	Difficulty hangman.Difficulty // engine tier
	Seed       int64              // secret-word seed; 0 draws a random one
}

// Game holds the state of a single hangman session.
type Game struct {
	ID         string
	Length     int
	MaxWrong   int
	Difficulty hangman.Difficulty
	Seed       int64
	Status     Status
	Secret     string // set once the game is finished
	CreatedAt  time.Time

	mu  sync.Mutex
	mgr *hangman.Manager
}

// Result is returned by ApplyGuess.
type Result struct {
	View
	Letter   string         `json:"letter"`
	Repeat   bool           `json:"repeat"`
	Families map[string]int `json:"families"`
}

// View is a snapshot of a game as shown to the player.
type View struct {
	GameID      string   `json:"gameId"`
	Length      int      `json:"length"`
	Difficulty  string   `json:"difficulty"`
	Pattern     string   `json:"pattern"`
	Guessed     []string `json:"guessed"`
	GuessesLeft int      `json:"guessesLeft"`
	Candidates  int      `json:"candidates"`
	State       Status   `json:"state"`
	Secret      string   `json:"secret,omitempty"`
}
