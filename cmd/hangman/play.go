package main

import (
	"bufio"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/rs/zerolog"

	"github.com/robalobadob/evilhangman/internal/hangman"
	"github.com/robalobadob/evilhangman/internal/randutil"
	"github.com/robalobadob/evilhangman/internal/words"
)

// run plays one round reading letters from in and writing the board to out.
func run(cli CLI, in io.Reader, out io.Writer, logger zerolog.Logger) error {
	list, err := words.Load(cli.Words)
	if err != nil {
		return err
	}
	idx, err := hangman.NewIndex(list)
	if err != nil {
		return err
	}
	diff, err := hangman.ParseDifficulty(cli.Difficulty)
	if err != nil {
		return err
	}
	seed := cli.Seed
	if seed == 0 {
		if seed, err = randutil.NewSeed(); err != nil {
			return err
		}
	}
	rng := randutil.New(seed)

	length := cli.Length
	if length == 0 {
		lengths := idx.Lengths()
		length = lengths[rng.IntN(len(lengths))]
	}
	if idx.CountForLength(length) == 0 {
		return fmt.Errorf("no words of length %d", length)
	}

	mgr, err := hangman.NewManager(idx, hangman.WithSource(rng), hangman.WithLogger(logger))
	if err != nil {
		return err
	}
	if err := mgr.StartRound(length, cli.Guesses, diff); err != nil {
		return err
	}

	sc := bufio.NewScanner(in)
	for {
		pattern := mgr.Round().Pattern()
		left, err := mgr.GuessesRemaining()
		if err != nil {
			return err
		}
		if !strings.ContainsRune(pattern, hangman.Unrevealed) || left <= 0 {
			break
		}
		printBoard(out, mgr.Round(), cli.Debug)

		fmt.Fprint(out, "Your guess? ")
		if !sc.Scan() {
			break
		}
		letter, ok := readLetter(sc.Text())
		if !ok {
			fmt.Fprintln(out, "That is not a letter.")
			continue
		}
		if mgr.Round().AlreadyGuessed(letter) {
			fmt.Fprintf(out, "You already guessed %c.\n", letter)
			continue
		}
		report, err := mgr.ApplyGuess(letter)
		if err != nil {
			return err
		}
		if cli.Debug {
			printReport(out, report)
		}
		if hangman.Contains(mgr.Round().Pattern(), letter) {
			fmt.Fprintf(out, "Yes, there is %d %c.\n", strings.Count(mgr.Round().Pattern(), string(letter))-strings.Count(pattern, string(letter)), letter)
		} else {
			fmt.Fprintf(out, "Sorry, there are no %c's.\n", letter)
		}
	}
	if err := sc.Err(); err != nil {
		return err
	}

	secret, err := mgr.SecretWord()
	if err != nil {
		return err
	}
	if !strings.ContainsRune(mgr.Round().Pattern(), hangman.Unrevealed) {
		fmt.Fprintf(out, "You win! The word was %s.\n", secret)
	} else {
		fmt.Fprintf(out, "The word was %s.\n", secret)
	}
	return nil
}

func printBoard(out io.Writer, r *hangman.Round, debug bool) {
	left, _ := r.GuessesRemaining()
	guessed := make([]string, 0, len(r.GuessedLetters()))
	for _, l := range r.GuessedLetters() {
		guessed = append(guessed, string(l))
	}
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Guesses left: %d\n", left)
	fmt.Fprintf(out, "Guessed so far: [%s]\n", strings.Join(guessed, ", "))
	fmt.Fprintf(out, "Current word: %s\n", r.Pattern())
	if debug {
		fmt.Fprintf(out, "Candidates: %d\n", r.CandidateCount())
	}
}

func printReport(out io.Writer, report map[string]int) {
	keys := make([]string, 0, len(report))
	for k := range report {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		fmt.Fprintf(out, "  %s  %d\n", k, report[k])
	}
}

// readLetter takes the first letter of line, lowercased.
func readLetter(line string) (rune, bool) {
	line = strings.ToLower(strings.TrimSpace(line))
	if line == "" {
		return 0, false
	}
	r := []rune(line)[0]
	if r < 'a' || r > 'z' {
		return 0, false
	}
	return r, true
}
