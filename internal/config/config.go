// Package config handles loading and parsing application configuration.
// It supports two sources (in priority order):
//  1. An environment variable:  CONFIG_PATH=/path/to/config.yaml
//  2. A command-line flag:      --config=/path/to/config.yaml
//
// All runtime knobs live in one explicit structure — storage driver and
// connection details, listen address, allowed CORS origins, read-degrade
// policy — rather than being scattered across the codebase.
package config

import (
	"errors"
	"flag"
	"log"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config is the root configuration structure.
// Every field maps to a key in the YAML file AND can be overridden
// by the corresponding environment variable (env:"...").
//
// env-required:"true" means the app refuses to start if that value is
// missing — better to crash at boot than to silently use a wrong default.
type Config struct {
	// Env controls log format and verbosity.
	// Valid values: "dev", "staging", "prod"
	Env string `yaml:"env" env:"ENV" env-required:"true"`

	// Storage selects and configures the record-store backend.
	Storage StorageConfig `yaml:"storage"`

	// HTTPServer is embedded (not a pointer) so its fields are
	// accessible directly on Config: cfg.HTTPServer.Addr.
	HTTPServer `yaml:"http_server"`
}

// StorageConfig selects one of the three Storage implementations.
type StorageConfig struct {
	// Driver is one of "mongodb", "sqlite", "memory".
	Driver string `yaml:"driver" env:"STORAGE_DRIVER" env-default:"mongodb"`

	// URI is the MongoDB connection string (mongodb driver only),
	// e.g. "mongodb://localhost:27017".
	URI string `yaml:"uri" env:"MONGODB_URI"`

	// Database is the MongoDB database name.
	Database string `yaml:"database" env:"MONGODB_DATABASE" env-default:"studentdb"`

	// Path is the filesystem path to the SQLite .db file (sqlite
	// driver only).
	Path string `yaml:"path" env:"STORAGE_PATH"`

	// DegradeReads opts list reads into returning an empty result
	// instead of a 500 when the store is unreachable. Off by default:
	// an outage should be visible, not papered over.
	DegradeReads bool `yaml:"degrade_reads" env:"STORAGE_DEGRADE_READS" env-default:"false"`
}

// HTTPServer holds settings specific to the HTTP server.
// Nested under http_server: in the YAML file.
type HTTPServer struct {
	// Addr is the TCP address the server listens on, e.g. "localhost:8082".
	Addr string `yaml:"address" env:"HTTP_SERVER_ADDR" env-required:"true"`

	// AllowedOrigins are the CORS origins permitted to call the API.
	// Browsers enforce this; same-origin requests (the embedded UI)
	// never send an Origin header that needs allowing.
	AllowedOrigins []string `yaml:"allowed_origins" env:"HTTP_ALLOWED_ORIGINS" env-separator:","`
}

// MustLoad reads, validates, and returns the application config.
//
// The name "MustLoad" follows a Go convention: functions prefixed with
// "Must" are allowed to panic/fatal on failure. Callers do not need to
// check a returned error — if this function returns, the config is valid.
func MustLoad() *Config {
	// A .env file in the working directory, when present, populates
	// the process environment before cleanenv reads it. Handy for
	// local development; absence is not an error.
	_ = godotenv.Load()

	var configPath string

	// ── Source 1: environment variable ───────────────────────────────
	// Useful in Docker / Kubernetes where env vars are the standard way
	// to pass config to a container.
	configPath = os.Getenv("CONFIG_PATH")

	// ── Source 2: command-line flag ───────────────────────────────────
	if configPath == "" {
		flags := flag.String("config", "", "Path to the configuration YAML file")
		flag.Parse()
		configPath = *flags
	}

	if configPath == "" {
		log.Fatal("config path is not set: use --config flag or CONFIG_PATH env var")
	}

	// Verify the file exists before trying to read it, so we give a
	// clear message rather than a cryptic "open: no such file" later.
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("config file does not exist: %s", configPath)
	}

	// cleanenv.ReadConfig reads the YAML file and populates the struct.
	// It also reads any env:"..." tagged fields from the environment,
	// and validates env-required:"true" constraints.
	var cfg Config
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("cannot read config: %s", err.Error())
	}

	if err := cfg.validate(); err != nil {
		log.Fatalf("invalid config: %s", err.Error())
	}

	return &cfg
}

// validate cross-checks fields cleanenv cannot express, such as
// driver-specific requirements.
func (c *Config) validate() error {
	switch c.Storage.Driver {
	case "mongodb":
		if c.Storage.URI == "" {
			return errors.New("storage.uri (MONGODB_URI) is required for the mongodb driver")
		}
	case "sqlite":
		if c.Storage.Path == "" {
			return errors.New("storage.path (STORAGE_PATH) is required for the sqlite driver")
		}
	case "memory":
		// nothing to configure
	default:
		return errors.New("storage.driver must be one of: mongodb, sqlite, memory")
	}
	return nil
}
