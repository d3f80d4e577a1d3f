// Package config provides configuration loading and validation for the service and the CLI.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
	"github.com/mycv/cvgen/internal/compiler"
	"github.com/mycv/cvgen/internal/pictures"
)

// Picture backends.
const (
	PicturesNone = "none"
	PicturesFS   = "fs"
	PicturesS3   = "s3"
)

// Store kinds.
const (
	StorePostgres = "postgres"
	StoreSQLite   = "sqlite"
)

// Config is the complete runtime configuration, read from the environment.
type Config struct {
	Server    ServerConfig
	Store     StoreConfig
	Compiler  CompilerConfig
	Pictures  PicturesConfig
	Templates TemplatesConfig
	Logging   LoggingConfig
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Host           string        `env:"CVGEN_HOST" envDefault:"0.0.0.0"`
	Port           int           `env:"CVGEN_PORT" envDefault:"8080"`
	ReadTimeout    time.Duration `env:"CVGEN_READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout   time.Duration `env:"CVGEN_WRITE_TIMEOUT" envDefault:"60s"`
	AllowedOrigins []string      `env:"CVGEN_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
}

// Addr is the listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// StoreConfig selects the profile store. At most one of the two may be set.
type StoreConfig struct {
	DatabaseURL string `env:"DATABASE_URL"`
	SQLitePath  string `env:"CVGEN_SQLITE_PATH"`
}

// Kind returns StorePostgres, StoreSQLite, or "" when no store is configured.
func (s StoreConfig) Kind() string {
	switch {
	case s.DatabaseURL != "":
		return StorePostgres
	case s.SQLitePath != "":
		return StoreSQLite
	default:
		return ""
	}
}

// CompilerConfig configures the typst invocation.
type CompilerConfig struct {
	Binary        string        `env:"CVGEN_TYPST_BINARY" envDefault:"typst"`
	Timeout       time.Duration `env:"CVGEN_COMPILE_TIMEOUT" envDefault:"30s"`
	MaxConcurrent int           `env:"CVGEN_COMPILE_CONCURRENCY" envDefault:"4"`
	WorkDir       string        `env:"CVGEN_WORK_DIR"`
	Env           []string      `env:"CVGEN_COMPILER_ENV" envSeparator:";"`
}

// Options converts the section into compiler settings.
func (c CompilerConfig) Options() compiler.Config {
	return compiler.Config{
		Binary:        c.Binary,
		Timeout:       c.Timeout,
		MaxConcurrent: c.MaxConcurrent,
		Env:           c.Env,
	}
}

// PicturesConfig selects where profile pictures are read from.
type PicturesConfig struct {
	Backend    string `env:"CVGEN_PICTURE_BACKEND" envDefault:"none"`
	Dir        string `env:"CVGEN_PICTURE_DIR"`
	S3Endpoint string `env:"CVGEN_S3_ENDPOINT"`
	S3Region   string `env:"CVGEN_S3_REGION" envDefault:"us-east-1"`
	S3Bucket   string `env:"CVGEN_S3_BUCKET"`
	S3Prefix   string `env:"CVGEN_S3_PREFIX"`
	S3Key      string `env:"CVGEN_S3_ACCESS_KEY"`
	S3Secret   string `env:"CVGEN_S3_SECRET_KEY"`
}

// S3 converts the section into S3 store settings.
func (p PicturesConfig) S3() pictures.S3Config {
	return pictures.S3Config{
		Endpoint: p.S3Endpoint,
		Region:   p.S3Region,
		Key:      p.S3Key,
		Secret:   p.S3Secret,
		Bucket:   p.S3Bucket,
		Prefix:   p.S3Prefix,
	}
}

// TemplatesConfig overrides the embedded templates and style catalog.
type TemplatesConfig struct {
	Dir          string `env:"CVGEN_TEMPLATE_DIR"`
	StyleCatalog string `env:"CVGEN_STYLE_CATALOG"`
}

// LoggingConfig configures the process logger.
type LoggingConfig struct {
	Level      string `env:"CVGEN_LOG_LEVEL" envDefault:"info"`
	Format     string `env:"CVGEN_LOG_FORMAT" envDefault:"text"`
	File       string `env:"CVGEN_LOG_FILE"`
	MaxSizeMB  int    `env:"CVGEN_LOG_MAX_SIZE" envDefault:"100"`
	MaxBackups int    `env:"CVGEN_LOG_MAX_BACKUPS" envDefault:"3"`
	MaxAgeDays int    `env:"CVGEN_LOG_MAX_AGE" envDefault:"28"`
}

// Load reads a .env file when present and parses the environment into a validated Config.
func Load() (*Config, error) {
	// A missing .env file is not an error.
	_ = godotenv.Load()
	return Parse()
}

// Parse reads the process environment only.
func Parse() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the cross-field constraints env tags cannot express.
func (c *Config) Validate() error {
	var problems []string

	if c.Store.DatabaseURL != "" && c.Store.SQLitePath != "" {
		problems = append(problems, "DATABASE_URL and CVGEN_SQLITE_PATH are mutually exclusive")
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		problems = append(problems, fmt.Sprintf("CVGEN_PORT must be between 1 and 65535, got: %d", c.Server.Port))
	}
	if c.Compiler.Timeout <= 0 {
		problems = append(problems, "CVGEN_COMPILE_TIMEOUT must be positive")
	}
	if c.Compiler.MaxConcurrent < 1 {
		problems = append(problems, "CVGEN_COMPILE_CONCURRENCY must be at least 1")
	}

	switch c.Pictures.Backend {
	case PicturesNone:
	case PicturesFS:
		if c.Pictures.Dir == "" {
			problems = append(problems, "CVGEN_PICTURE_DIR is required for the fs picture backend")
		}
	case PicturesS3:
		if c.Pictures.S3Bucket == "" || c.Pictures.S3Key == "" || c.Pictures.S3Secret == "" {
			problems = append(problems, "CVGEN_S3_BUCKET, CVGEN_S3_ACCESS_KEY and CVGEN_S3_SECRET_KEY are required for the s3 picture backend")
		}
	default:
		problems = append(problems, fmt.Sprintf("unknown CVGEN_PICTURE_BACKEND %q", c.Pictures.Backend))
	}

	if _, err := c.Logging.SlogLevel(); err != nil {
		problems = append(problems, err.Error())
	}
	if f := strings.ToLower(c.Logging.Format); f != "text" && f != "json" {
		problems = append(problems, fmt.Sprintf("CVGEN_LOG_FORMAT must be text or json, got: %q", c.Logging.Format))
	}

	if len(problems) > 0 {
		return errors.New("invalid configuration: " + strings.Join(problems, "; "))
	}
	return nil
}

// SlogLevel parses Level.
func (l LoggingConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return 0, fmt.Errorf("invalid CVGEN_LOG_LEVEL %q", l.Level)
	}
	return level, nil
}
