// Package daily derives the shared puzzle of the day.
//
// Everyone playing on the same UTC date gets the same word length,
// difficulty and engine seed, so the same guesses lead to the same reveals.
package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"time"

	"github.com/robalobadob/evilhangman/internal/hangman"
)

// Puzzle is the configuration of one day's game.
type Puzzle struct {
	Date       string             `json:"date"`
	Length     int                `json:"length"`
	Difficulty hangman.Difficulty `json:"-"`
	Seed       int64              `json:"-"`
}

var tiers = [...]hangman.Difficulty{hangman.Easy, hangman.Medium, hangman.Hard}

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// ForDate derives the puzzle for date from HMAC(salt, YYYY-MM-DD).
// lengths are the candidate word lengths; the zero Puzzle (Length 0) is
// returned when there are none.
func ForDate(date time.Time, salt string, lengths []int) Puzzle {
	dk := DateKey(date)
	p := Puzzle{Date: dk}
	if len(lengths) == 0 {
		return p
	}
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(dk))
	sum := h.Sum(nil)

	p.Length = lengths[binary.BigEndian.Uint64(sum[0:8])%uint64(len(lengths))]
	p.Difficulty = tiers[binary.BigEndian.Uint64(sum[8:16])%uint64(len(tiers))]
	p.Seed = int64(binary.BigEndian.Uint64(sum[16:24]) | 1) // never 0: game.New treats 0 as "random"
	return p
}
