package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/cleared-dev/bookpost/internal/posting"
	"github.com/cleared-dev/bookpost/internal/trialbalance"
)

// FileName is the config file at the root of a book directory.
const FileName = "bookpost.yaml"

// Store backends.
const (
	BackendCSV    = "csv"
	BackendBolt   = "bolt"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Config represents the top-level bookpost.yaml configuration.
type Config struct {
	Business     BusinessConfig     `yaml:"business"`
	Store        StoreConfig        `yaml:"store"`
	Sheets       SheetsConfig       `yaml:"sheets"`
	TrialBalance TrialBalanceConfig `yaml:"trial_balance"`
	Posting      PostingConfig      `yaml:"posting"`
	Server       ServerConfig       `yaml:"server"`
	Log          LogConfig          `yaml:"log"`
	Git          GitConfig          `yaml:"git"`
}

// BusinessConfig identifies the business whose books these are.
type BusinessConfig struct {
	Name string `yaml:"name"`
}

// StoreConfig selects where the sheets live. Path is relative to the book
// directory unless absolute.
type StoreConfig struct {
	Backend string `yaml:"backend"`
	Path    string `yaml:"path"`
}

// SheetsConfig names the sheet behind each book.
type SheetsConfig struct {
	Journal      string `yaml:"journal"`
	Ledger       string `yaml:"ledger"`
	TrialBalance string `yaml:"trial_balance"`
	CashBook     string `yaml:"cash_book"`
}

// TrialBalanceConfig selects the trial balance update mode.
type TrialBalanceConfig struct {
	Mode string `yaml:"mode"` // "legacy" or "complete"
}

// PostingConfig controls the posting pipeline.
type PostingConfig struct {
	Compensate bool `yaml:"compensate"`
	QueueSize  int  `yaml:"queue_size"`
}

// ServerConfig controls the HTTP boundary.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string `yaml:"level"`
	Pretty bool   `yaml:"pretty"`
}

// GitConfig controls git integration.
type GitConfig struct {
	AutoCommit  bool   `yaml:"auto_commit"`
	AuthorName  string `yaml:"author_name"`
	AuthorEmail string `yaml:"author_email"`
}

// Load reads a bookpost.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new book.
func Default(businessName string) *Config {
	sheets := posting.DefaultSheets()
	return &Config{
		Business: BusinessConfig{Name: businessName},
		Store: StoreConfig{
			Backend: BackendCSV,
			Path:    DefaultStorePath(BackendCSV),
		},
		Sheets: SheetsConfig{
			Journal:      sheets.Journal,
			Ledger:       sheets.Ledger,
			TrialBalance: sheets.TrialBalance,
			CashBook:     sheets.CashBook,
		},
		TrialBalance: TrialBalanceConfig{Mode: string(trialbalance.ModeLegacy)},
		Posting: PostingConfig{
			Compensate: true,
			QueueSize:  64,
		},
		Server: ServerConfig{Port: 8080},
		Log:    LogConfig{Level: "info"},
		Git: GitConfig{
			AutoCommit:  true,
			AuthorName:  "Bookpost",
			AuthorEmail: "bookpost@localhost",
		},
	}
}

// DefaultStorePath is the store location used by init for each backend.
func DefaultStorePath(backend string) string {
	switch backend {
	case BackendBolt:
		return "books.db"
	case BackendSQLite:
		return "books.sqlite"
	}
	return "books"
}

// ApplyEnv loads envFile, if it exists, into the process environment and
// then applies BOOKPOST_* overrides to cfg. Variables already set in the
// environment win over the file.
func ApplyEnv(cfg *Config, envFile string) error {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("loading %s: %w", envFile, err)
		}
	}

	if v, ok := os.LookupEnv("BOOKPOST_STORE_BACKEND"); ok {
		cfg.Store.Backend = v
	}
	if v, ok := os.LookupEnv("BOOKPOST_STORE_PATH"); ok {
		cfg.Store.Path = v
	}
	if v, ok := os.LookupEnv("BOOKPOST_TRIAL_BALANCE_MODE"); ok {
		cfg.TrialBalance.Mode = v
	}
	if v, ok := os.LookupEnv("BOOKPOST_SERVER_PORT"); ok {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid BOOKPOST_SERVER_PORT %q: %w", v, err)
		}
		cfg.Server.Port = port
	}
	if v, ok := os.LookupEnv("BOOKPOST_LOG_LEVEL"); ok {
		cfg.Log.Level = v
	}
	if v, ok := os.LookupEnv("BOOKPOST_LOG_PRETTY"); ok {
		pretty, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid BOOKPOST_LOG_PRETTY %q: %w", v, err)
		}
		cfg.Log.Pretty = pretty
	}
	return nil
}

// Validate checks values that cannot be caught by YAML decoding.
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case BackendCSV, BackendBolt, BackendSQLite, BackendMemory:
	default:
		return fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}
	if _, err := trialbalance.ParseMode(c.TrialBalance.Mode); err != nil {
		return err
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if c.Posting.QueueSize < 0 {
		return fmt.Errorf("invalid posting queue size %d", c.Posting.QueueSize)
	}
	return nil
}

// StorePath resolves the store location against the book directory.
func (c *Config) StorePath(bookDir string) string {
	p := c.Store.Path
	if p == "" {
		p = DefaultStorePath(c.Store.Backend)
	}
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(bookDir, p)
}

// PostingOptions converts the config into options for posting.NewService.
// Blank sheet names fall back to the defaults.
func (c *Config) PostingOptions() (posting.Options, error) {
	mode, err := trialbalance.ParseMode(c.TrialBalance.Mode)
	if err != nil {
		return posting.Options{}, err
	}
	sheets := posting.DefaultSheets()
	if c.Sheets.Journal != "" {
		sheets.Journal = c.Sheets.Journal
	}
	if c.Sheets.Ledger != "" {
		sheets.Ledger = c.Sheets.Ledger
	}
	if c.Sheets.TrialBalance != "" {
		sheets.TrialBalance = c.Sheets.TrialBalance
	}
	if c.Sheets.CashBook != "" {
		sheets.CashBook = c.Sheets.CashBook
	}
	return posting.Options{Sheets: sheets, Mode: mode, Compensate: c.Posting.Compensate}, nil
}
