package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/csheth/remindme/internal/form"
)

const envPrefix = "REMIND"

// DefaultEnvFile is read before the environment is decoded, when present.
const DefaultEnvFile = ".env"

// Config holds runtime options. Values come from the environment (REMIND_*),
// optionally seeded from a .env file, and can be overridden by flags.
type Config struct {
	Endpoint     string        `envconfig:"ENDPOINT" default:"http://localhost:5000"`
	HistoryPath  string        `envconfig:"HISTORY" default:"remindme_history.json"`
	LogFile      string        `envconfig:"LOG_FILE" default:"remindme.log"`
	LogLevel     string        `envconfig:"LOG_LEVEL" default:"info"`
	HTTPTimeout  time.Duration `envconfig:"HTTP_TIMEOUT" default:"0s"`
	ListCount    int           `envconfig:"LIST_COUNT" default:"10"`
	DefaultTitle string        `envconfig:"DEFAULT_TITLE"`
	DefaultTime  string        `envconfig:"DEFAULT_TIME"`
}

// Load reads envFile (missing files are ignored) and decodes the environment.
func Load(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", envFile, err)
		}
	}
	var cfg Config
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return Config{}, err
	}
	cfg.applyFormDefaults()
	return cfg, nil
}

func (c *Config) applyFormDefaults() {
	if c.DefaultTitle == "" {
		c.DefaultTitle = form.DefaultTitle
	}
	if c.DefaultTime == "" {
		c.DefaultTime = form.DefaultTimeStr
	}
}

// BindFlags registers flags whose defaults are the current values, so parsing
// only overrides what the user passes.
func (c *Config) BindFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.Endpoint, "endpoint", c.Endpoint, "base URL of the reminders backend")
	fs.StringVar(&c.HistoryPath, "history", c.HistoryPath, "submission history file (.json, or .db for SQLite)")
	fs.StringVar(&c.LogFile, "log-file", c.LogFile, "diagnostic log file (empty logs to stderr)")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "log level (debug, info, warn, error)")
	fs.DurationVar(&c.HTTPTimeout, "http-timeout", c.HTTPTimeout, "HTTP client timeout (0 disables)")
	fs.IntVar(&c.ListCount, "list-count", c.ListCount, "number of reminders fetched by the upcoming list")
	fs.StringVar(&c.DefaultTitle, "default-title", c.DefaultTitle, "title pre-filled in the form")
	fs.StringVar(&c.DefaultTime, "default-time", c.DefaultTime, "time pre-filled in the form")
}

// Validate checks values that flags or the environment could have broken.
func (c Config) Validate() error {
	if c.Endpoint == "" {
		return errors.New("endpoint is required")
	}
	if c.ListCount <= 0 {
		return fmt.Errorf("list count must be positive, got %d", c.ListCount)
	}
	if c.HTTPTimeout < 0 {
		return fmt.Errorf("http timeout must not be negative, got %s", c.HTTPTimeout)
	}
	return nil
}
