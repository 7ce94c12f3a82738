// Package config loads the bibleinsight configuration file.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/FocuswithJustin/bibleinsight/core/errors"
)

// Config holds the full configuration.
type Config struct {
	Database   Database   `yaml:"database"`
	Artifacts  Artifacts  `yaml:"artifacts"`
	Graph      Graph      `yaml:"graph"`
	Logging    Logging    `yaml:"logging"`
	TextStream TextStream `yaml:"textstream"`
}

// Database selects the relational store.
type Database struct {
	Driver string `yaml:"driver"` // sqlite | postgres
	DSN    string `yaml:"dsn"`
}

// Artifacts selects where support files are archived.
type Artifacts struct {
	Backend  string `yaml:"backend"` // file | gcs | none
	Dir      string `yaml:"dir"`
	Bucket   string `yaml:"bucket"`
	Prefix   string `yaml:"prefix"`
	Compress bool   `yaml:"compress"`
}

// Graph locates the optional cross-reference graph database.
type Graph struct {
	URI      string `yaml:"uri"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
}

// Logging configures internal/logging.
type Logging struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// TextStream configures the per-verse JSONL stream. An empty path disables
// it.
type TextStream struct {
	Path string `yaml:"path"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Database:  Database{Driver: "sqlite", DSN: "bibleinsight.db"},
		Artifacts: Artifacts{Backend: "file", Dir: "artifacts", Compress: true},
		Graph:     Graph{User: "neo4j"},
		Logging:   Logging{Level: "info", Format: "json"},
	}
}

// Load reads path over the defaults. An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, cfg.Validate()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewIO("read config", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, &errors.ParseError{Format: "yaml", Path: path, Message: err.Error(), Err: err}
	}
	return cfg, cfg.Validate()
}

// Validate checks enums and required fields.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "sqlite", "sqlite3", "postgres", "postgresql", "pgx":
	default:
		return errors.NewValidation("database.driver", fmt.Sprintf("unsupported driver %q (use sqlite or postgres)", c.Database.Driver))
	}
	if c.Database.DSN == "" {
		return errors.NewValidation("database.dsn", "is required")
	}

	switch c.Artifacts.Backend {
	case "file":
		if c.Artifacts.Dir == "" {
			return errors.NewValidation("artifacts.dir", "is required for the file backend")
		}
	case "gcs":
		if c.Artifacts.Bucket == "" {
			return errors.NewValidation("artifacts.bucket", "is required for the gcs backend")
		}
	case "none", "":
	default:
		return errors.NewValidation("artifacts.backend", fmt.Sprintf("unsupported backend %q (use file, gcs or none)", c.Artifacts.Backend))
	}

	switch c.Logging.Format {
	case "", "json", "text":
	default:
		return errors.NewValidation("logging.format", fmt.Sprintf("unsupported format %q", c.Logging.Format))
	}
	return nil
}
