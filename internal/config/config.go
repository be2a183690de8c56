package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Source kinds. The two feed shapes produce the same Listing stream but
// carry different store schemas (json feeds report posting dates).
const (
	SourceJSON     = "json"
	SourceMarkdown = "markdown"
)

// Store backends.
const (
	StoreSheets = "sheets"
	StoreSQLite = "sqlite"
)

// Zero-result policies. warn logs and still writes the (empty) snapshot;
// fail aborts before the store is touched.
const (
	OnEmptyWarn = "warn"
	OnEmptyFail = "fail"
)

type Config struct {
	Source struct {
		Kind string `yaml:"kind"`
		URL  string `yaml:"url"`
	} `yaml:"source"`

	Store struct {
		Backend    string `yaml:"backend"`
		SheetID    string `yaml:"sheet_id"`
		Worksheet  string `yaml:"worksheet"`
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"store"`

	Fetch struct {
		TimeoutSeconds    int     `yaml:"timeout_seconds"`
		RequestsPerSecond float64 `yaml:"requests_per_second"`
		Burst             int     `yaml:"burst"`
		UserAgent         string  `yaml:"user_agent"`
	} `yaml:"fetch"`

	Pipeline struct {
		OnEmpty string `yaml:"on_empty"`
	} `yaml:"pipeline"`

	Credentials struct {
		KeyringAccount string `yaml:"keyring_account"`
	} `yaml:"credentials"`
}

func Load(path string) (Config, error) {
	var cfg Config
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, err
	}
	cfg.applyDefaults()
	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Source.Kind == "" {
		c.Source.Kind = SourceJSON
	}
	if c.Store.Backend == "" {
		c.Store.Backend = StoreSheets
	}
	if c.Store.Worksheet == "" {
		c.Store.Worksheet = "Sheet1"
	}
	if c.Store.SQLitePath == "" {
		c.Store.SQLitePath = "internships.db"
	}
	if c.Fetch.TimeoutSeconds <= 0 {
		c.Fetch.TimeoutSeconds = 20
	}
	if c.Fetch.RequestsPerSecond <= 0 {
		c.Fetch.RequestsPerSecond = 1.0
	}
	if c.Fetch.Burst <= 0 {
		c.Fetch.Burst = 2
	}
	if c.Fetch.UserAgent == "" {
		c.Fetch.UserAgent = "internship-tracker/1.0 (+local)"
	}
	if c.Pipeline.OnEmpty == "" {
		c.Pipeline.OnEmpty = OnEmptyWarn
	}
	if c.Credentials.KeyringAccount == "" {
		c.Credentials.KeyringAccount = "default"
	}
}

// applyEnv lets deploy environments (cron, CI) override the file without
// editing it. SHEET_ID and LISTINGS_URL match the original deployment's
// variable names.
func (c *Config) applyEnv() {
	if v := os.Getenv("SHEET_ID"); v != "" {
		c.Store.SheetID = v
	}
	if v := os.Getenv("LISTINGS_URL"); v != "" {
		c.Source.URL = v
	}
}
