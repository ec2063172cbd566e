// internal/hangman/manager.go
//
// Manager sequences rounds over a shared dictionary Index.
//
// Lifecycle:
//   - Idle: no round started; every round query returns ErrInvalidState.
//   - InRound: StartRound succeeded; StartRound may be called again to
//     begin a fresh round at any time.
//
// Randomness comes from an injected Source so reveals are reproducible.

package hangman

import (
	"fmt"
	"math/rand/v2"

	"github.com/rs/zerolog"
)

// Source yields uniformly distributed ints in [0, n). *rand.Rand from
// math/rand/v2 satisfies it.
type Source interface {
	IntN(n int) int
}

type globalSource struct{}

func (globalSource) IntN(n int) int { return rand.IntN(n) }

// Option configures a Manager.
type Option func(*Manager)

// WithSource sets the random source used by SecretWord.
func WithSource(src Source) Option {
	return func(m *Manager) {
		if src != nil {
			m.src = src
		}
	}
}

// WithLogger makes the Manager emit a debug event per accepted guess.
func WithLogger(l zerolog.Logger) Option {
	return func(m *Manager) { m.log = l }
}

// Manager runs rounds of evil hangman. It is not safe for concurrent use.
type Manager struct {
	index *Index
	src   Source
	log   zerolog.Logger
	round *Round
}

// NewManager returns an idle Manager over index.
func NewManager(index *Index, opts ...Option) (*Manager, error) {
	if index == nil {
		return nil, fmt.Errorf("%w: index is nil", ErrInvalidArgument)
	}
	m := &Manager{index: index, src: globalSource{}, log: zerolog.Nop()}
	for _, o := range opts {
		o(m)
	}
	return m, nil
}

// Index returns the dictionary the Manager draws rounds from.
func (m *Manager) Index() *Index { return m.index }

// CountForLength is a shortcut for Index().CountForLength.
func (m *Manager) CountForLength(n int) int { return m.index.CountForLength(n) }

// StartRound begins a new round of words of the given length.
// Nothing changes when it fails.
func (m *Manager) StartRound(length, maxWrongGuesses int, d Difficulty) error {
	if !d.Valid() {
		return fmt.Errorf("%w: missing or unknown difficulty", ErrInvalidArgument)
	}
	if m.index.CountForLength(length) == 0 {
		return fmt.Errorf("%w: no words of length %d", ErrInvalidArgument, length)
	}
	m.round = newRound(m.index.bucket(length), length, maxWrongGuesses, d)
	m.log.Debug().
		Int("length", length).
		Int("maxWrong", maxWrongGuesses).
		Stringer("difficulty", d).
		Int("candidates", len(m.round.pool)).
		Msg("round started")
	return nil
}

// Round returns the current round, or nil while idle.
func (m *Manager) Round() *Round { return m.round }

func (m *Manager) current() (*Round, error) {
	if m.round == nil {
		return nil, fmt.Errorf("%w: no round started", ErrInvalidState)
	}
	return m.round, nil
}

// GuessesRemaining returns the remaining guess budget.
func (m *Manager) GuessesRemaining() (int, error) {
	r, err := m.current()
	if err != nil {
		return 0, err
	}
	return r.GuessesRemaining()
}

// GuessedLetters returns the letters guessed this round, ascending.
func (m *Manager) GuessedLetters() ([]rune, error) {
	r, err := m.current()
	if err != nil {
		return nil, err
	}
	return r.GuessedLetters(), nil
}

// CandidateCount returns how many words are still possible.
func (m *Manager) CandidateCount() (int, error) {
	r, err := m.current()
	if err != nil {
		return 0, err
	}
	return r.CandidateCount(), nil
}

// Pattern returns the current pattern.
func (m *Manager) Pattern() (string, error) {
	r, err := m.current()
	if err != nil {
		return "", err
	}
	return r.Pattern(), nil
}

// AlreadyGuessed reports whether letter was guessed this round.
func (m *Manager) AlreadyGuessed(letter rune) (bool, error) {
	r, err := m.current()
	if err != nil {
		return false, err
	}
	return r.AlreadyGuessed(letter), nil
}

// ApplyGuess applies letter to the current round and returns the pattern
// to family-size report. Repeat letters are a no-op with an empty report.
func (m *Manager) ApplyGuess(letter rune) (map[string]int, error) {
	r, err := m.current()
	if err != nil {
		return nil, err
	}
	if r.AlreadyGuessed(letter) {
		return map[string]int{}, nil
	}
	report := r.ApplyGuess(letter)
	if e := m.log.Debug(); e.Enabled() {
		e.Str("letter", string(letter)).
			Int("round", r.count).
			Str("pattern", r.pattern).
			Int("candidates", len(r.pool)).
			Int("remaining", r.remaining).
			Interface("families", report).
			Msg("guess applied")
	}
	return report, nil
}

// SecretWord returns one of the remaining candidates chosen uniformly.
func (m *Manager) SecretWord() (string, error) {
	r, err := m.current()
	if err != nil {
		return "", err
	}
	return r.SecretWord(m.src)
}
