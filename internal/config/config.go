// Package config loads server settings from the environment.
//
// A .env file in the working directory is read first when present; real
// environment variables always win over it.
package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds every setting the server reads at startup.
type Config struct {
	Port              string `env:"PORT" envDefault:"5175"`
	LogLevel          string `env:"LOG_LEVEL" envDefault:"info"`
	DBPath            string `env:"DB_PATH" envDefault:"./data/app.db"`
	JWTSecret         string `env:"JWT_SECRET" envDefault:"dev_secret_change_me"`
	JWTExpiresDays    int    `env:"JWT_EXPIRES_DAYS" envDefault:"14"`
	CookieName        string `env:"COOKIE_NAME" envDefault:"hangman_token"`
	ClientOrigin      string `env:"CLIENT_ORIGIN" envDefault:"http://localhost:5173"`
	Env               string `env:"NODE_ENV" envDefault:"development"`
	DailySalt         string `env:"DAILY_SALT" envDefault:"local_dev_salt"`
	WordsFile         string `env:"WORDS_FILE"`
	DefaultMaxWrong   int    `env:"DEFAULT_MAX_WRONG" envDefault:"6"`
	DefaultDifficulty string `env:"DEFAULT_DIFFICULTY" envDefault:"hard"`
}

// Production reports whether cookies should be Secure/SameSite=None.
func (c Config) Production() bool { return c.Env == "production" }

// Load reads .env (if any) and parses the environment into a Config.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	return Parse()
}

// Parse fills a Config from the current environment only.
func Parse() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.DefaultMaxWrong <= 0 {
		return Config{}, fmt.Errorf("parse env: DEFAULT_MAX_WRONG must be positive, got %d", cfg.DefaultMaxWrong)
	}
	return cfg, nil
}
