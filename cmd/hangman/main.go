// Command hangman plays evil hangman in the terminal.
package main

import (
	"os"

	"github.com/alecthomas/kong"
	"github.com/rs/zerolog"
)

type CLI struct {
	Words      string `short:"w" type:"existingfile" help:"Dictionary file, one word per line (default: embedded list)"`
	Length     int    `short:"l" help:"Word length (default: random available length)"`
	Guesses    int    `short:"g" default:"6" help:"Guess budget"`
	Difficulty string `short:"d" default:"hard" enum:"easy,medium,hard" help:"Difficulty (${enum})"`
	Seed       int64  `help:"Seed for the secret-word reveal (0 = random)"`
	Debug      bool   `help:"Show candidate counts and family reports"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("hangman"),
		kong.Description("Evil hangman: the word keeps changing to dodge your guesses"),
		kong.UsageOnError(),
	)

	level := zerolog.WarnLevel
	if cli.Debug {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()

	err := run(cli, os.Stdin, os.Stdout, logger)
	ctx.FatalIfErrorf(err)
}
