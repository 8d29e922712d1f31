// Package config defines all configuration structures for the Yeonni1MB
// analysis service. No I/O or parsing logic lives here, only plain data
// types and validation; loading is in loader.go.
package config

import (
	"fmt"
	"time"

	"github.com/jgraziolaVU/Yeonni1MB/internal/infrastructure/monitoring/logging"
)

// ServerConfig holds HTTP server tunables.
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"` // "debug" | "release" | "test"
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	MaxUploadBytes  int64         `mapstructure:"max_upload_bytes"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// FitConfig holds the defaults of the fitting pipeline. Per-request options
// override these.
type FitConfig struct {
	// DefaultModel is the line-shape family used when a request does not
	// select one: "lorentzian", "voigt", or "pseudo_voigt".
	DefaultModel string `mapstructure:"default_model"`

	// MaxSites caps automatic site-count estimation.
	MaxSites int `mapstructure:"max_sites"`

	// MaxIterations bounds the Levenberg–Marquardt loop.
	MaxIterations int `mapstructure:"max_iterations"`
}

// InterpreterConfig holds the external completion-service parameters.
// APIKey empty means the AI path is never attempted and every
// interpretation is rule-based.
type InterpreterConfig struct {
	BaseURL     string        `mapstructure:"base_url"`
	APIKey      string        `mapstructure:"api_key"`
	Model       string        `mapstructure:"model"`
	MaxTokens   int           `mapstructure:"max_tokens"`
	Temperature float64       `mapstructure:"temperature"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// MinIOConfig holds S3-compatible object-storage parameters for the report
// archive.
type MinIOConfig struct {
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Bucket    string `mapstructure:"bucket"`
	UseSSL    bool   `mapstructure:"use_ssl"`
}

// StorageConfig selects and parameterises the report store.
type StorageConfig struct {
	// Backend is "disk" or "minio".
	Backend string `mapstructure:"backend"`

	// Dir is the report directory for the disk backend.
	Dir string `mapstructure:"dir"`

	// TTL is how long disk reports are kept before the sweeper removes
	// them. Zero disables the sweep.
	TTL time.Duration `mapstructure:"ttl"`

	MinIO MinIOConfig `mapstructure:"minio"`
}

// Config is the root configuration structure for the service.
type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Log         logging.Config    `mapstructure:"log"`
	Fit         FitConfig         `mapstructure:"fit"`
	Interpreter InterpreterConfig `mapstructure:"interpreter"`
	Storage     StorageConfig     `mapstructure:"storage"`
}

// Validate performs semantic validation of a fully-populated Config. It
// returns the first error encountered; callers treat any error as fatal and
// refuse to start.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("config: server.port %d is out of range [1, 65535]", c.Server.Port)
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("config: server.mode %q is invalid; expected debug|release|test", c.Server.Mode)
	}
	if c.Server.MaxUploadBytes < 1 {
		return fmt.Errorf("config: server.max_upload_bytes must be ≥ 1, got %d", c.Server.MaxUploadBytes)
	}

	switch c.Fit.DefaultModel {
	case "lorentzian", "voigt", "pseudo_voigt":
	default:
		return fmt.Errorf("config: fit.default_model %q is invalid; expected lorentzian|voigt|pseudo_voigt", c.Fit.DefaultModel)
	}
	if c.Fit.MaxSites < 1 || c.Fit.MaxSites > 4 {
		return fmt.Errorf("config: fit.max_sites %d is out of range [1, 4]", c.Fit.MaxSites)
	}
	if c.Fit.MaxIterations < 1 {
		return fmt.Errorf("config: fit.max_iterations must be ≥ 1, got %d", c.Fit.MaxIterations)
	}

	if c.Interpreter.Temperature < 0 || c.Interpreter.Temperature > 2 {
		return fmt.Errorf("config: interpreter.temperature %g is out of range [0, 2]", c.Interpreter.Temperature)
	}
	if c.Interpreter.MaxTokens < 1 {
		return fmt.Errorf("config: interpreter.max_tokens must be ≥ 1, got %d", c.Interpreter.MaxTokens)
	}
	if c.Interpreter.Timeout <= 0 {
		return fmt.Errorf("config: interpreter.timeout must be positive, got %s", c.Interpreter.Timeout)
	}

	switch c.Storage.Backend {
	case "disk":
		if c.Storage.Dir == "" {
			return fmt.Errorf("config: storage.dir is required for the disk backend")
		}
	case "minio":
		if c.Storage.MinIO.Endpoint == "" {
			return fmt.Errorf("config: storage.minio.endpoint is required for the minio backend")
		}
		if c.Storage.MinIO.Bucket == "" {
			return fmt.Errorf("config: storage.minio.bucket is required for the minio backend")
		}
	default:
		return fmt.Errorf("config: storage.backend %q is invalid; expected disk|minio", c.Storage.Backend)
	}

	switch c.Log.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: log.level %q is invalid; expected debug|info|warn|error", c.Log.Level)
	}

	return nil
}
