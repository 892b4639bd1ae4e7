// Package config loads the server settings.
//
// Values are layered, later sources winning: built-in defaults, an optional
// YAML file, a .env file in the working directory, then TEASHOP_* variables
// from the process environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const envPrefix = "TEASHOP_"

// Store drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMongo    = "mongo"
)

// Upload backends.
const (
	UploadLocal = "local"
	UploadGCS   = "gcs"
)

type Config struct {
	HTTPAddr        string        `yaml:"http_addr"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	StoreDriver   string `yaml:"store_driver"`
	DatabaseURL   string `yaml:"database_url"`
	MongoURI      string `yaml:"mongo_uri"`
	MongoDatabase string `yaml:"mongo_database"`
	AutoMigrate   bool   `yaml:"auto_migrate"`

	UploadBackend string `yaml:"upload_backend"`
	UploadDir     string `yaml:"upload_dir"`
	GCSBucket     string `yaml:"gcs_bucket"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

func Default() Config {
	return Config{
		HTTPAddr:        ":3000",
		ShutdownTimeout: 10 * time.Second,
		StoreDriver:     DriverSQLite,
		DatabaseURL:     "teashop.db",
		MongoDatabase:   "teashop",
		AutoMigrate:     true,
		UploadBackend:   UploadLocal,
		UploadDir:       "public",
		LogLevel:        "info",
		LogFormat:       "json",
	}
}

// Load builds the configuration. path names an optional YAML file; an empty
// path skips it, a missing file at a given path is an error.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	// .env is optional and never overrides variables already set
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return cfg, fmt.Errorf("load .env: %w", err)
	}

	if err := cfg.applyEnv(); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) applyEnv() error {
	vars := map[string]*string{
		"HTTP_ADDR":      &c.HTTPAddr,
		"STORE_DRIVER":   &c.StoreDriver,
		"DATABASE_URL":   &c.DatabaseURL,
		"MONGO_URI":      &c.MongoURI,
		"MONGO_DATABASE": &c.MongoDatabase,
		"UPLOAD_BACKEND": &c.UploadBackend,
		"UPLOAD_DIR":     &c.UploadDir,
		"GCS_BUCKET":     &c.GCSBucket,
		"LOG_LEVEL":      &c.LogLevel,
		"LOG_FORMAT":     &c.LogFormat,
	}
	for key, dst := range vars {
		if v, ok := os.LookupEnv(envPrefix + key); ok {
			*dst = v
		}
	}

	if v, ok := os.LookupEnv(envPrefix + "AUTO_MIGRATE"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%sAUTO_MIGRATE: %w", envPrefix, err)
		}
		c.AutoMigrate = b
	}
	if v, ok := os.LookupEnv(envPrefix + "SHUTDOWN_TIMEOUT"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%sSHUTDOWN_TIMEOUT: %w", envPrefix, err)
		}
		c.ShutdownTimeout = d
	}
	return nil
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs []error

	if c.HTTPAddr == "" {
		errs = append(errs, errors.New("http_addr is required"))
	}

	switch c.StoreDriver {
	case DriverPostgres, DriverSQLite:
		if c.DatabaseURL == "" {
			errs = append(errs, fmt.Errorf("database_url is required for the %s driver", c.StoreDriver))
		}
	case DriverMongo:
		if c.MongoURI == "" {
			errs = append(errs, errors.New("mongo_uri is required for the mongo driver"))
		}
		if c.MongoDatabase == "" {
			errs = append(errs, errors.New("mongo_database is required for the mongo driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown store_driver %q", c.StoreDriver))
	}

	switch c.UploadBackend {
	case UploadLocal:
		if c.UploadDir == "" {
			errs = append(errs, errors.New("upload_dir is required for local uploads"))
		}
	case UploadGCS:
		if c.GCSBucket == "" {
			errs = append(errs, errors.New("gcs_bucket is required for gcs uploads"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown upload_backend %q", c.UploadBackend))
	}

	switch c.LogFormat {
	case "json", "console":
	default:
		errs = append(errs, fmt.Errorf("unknown log_format %q", c.LogFormat))
	}

	return errors.Join(errs...)
}
