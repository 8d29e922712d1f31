package config

import "time"

// Default values applied by ApplyDefaults for any unset field.
const (
	DefaultServerPort      = 8000
	DefaultServerMode      = "release"
	DefaultMaxUploadBytes  = 8 << 20 // 8 MiB per uploaded spectrum
	DefaultShutdownTimeout = 30 * time.Second

	DefaultFitModel      = "lorentzian"
	DefaultMaxSites      = 4
	DefaultMaxIterations = 300

	DefaultInterpreterBaseURL     = "https://api.openai.com/v1/chat/completions"
	DefaultInterpreterModel       = "gpt-4"
	DefaultInterpreterMaxTokens   = 300
	DefaultInterpreterTemperature = 0.4
	DefaultInterpreterTimeout     = 30 * time.Second

	DefaultStorageBackend = "disk"
	DefaultStorageDir     = "data/reports"
	DefaultStorageTTL     = 24 * time.Hour
)

// ApplyDefaults fills every zero-valued field of cfg with the service
// defaults. It never overrides a value the loader already set.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultServerPort
	}
	if cfg.Server.Mode == "" {
		cfg.Server.Mode = DefaultServerMode
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 15 * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 60 * time.Second
	}
	if cfg.Server.MaxUploadBytes == 0 {
		cfg.Server.MaxUploadBytes = DefaultMaxUploadBytes
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultShutdownTimeout
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}

	if cfg.Fit.DefaultModel == "" {
		cfg.Fit.DefaultModel = DefaultFitModel
	}
	if cfg.Fit.MaxSites == 0 {
		cfg.Fit.MaxSites = DefaultMaxSites
	}
	if cfg.Fit.MaxIterations == 0 {
		cfg.Fit.MaxIterations = DefaultMaxIterations
	}

	if cfg.Interpreter.BaseURL == "" {
		cfg.Interpreter.BaseURL = DefaultInterpreterBaseURL
	}
	if cfg.Interpreter.Model == "" {
		cfg.Interpreter.Model = DefaultInterpreterModel
	}
	if cfg.Interpreter.MaxTokens == 0 {
		cfg.Interpreter.MaxTokens = DefaultInterpreterMaxTokens
	}
	if cfg.Interpreter.Temperature == 0 {
		cfg.Interpreter.Temperature = DefaultInterpreterTemperature
	}
	if cfg.Interpreter.Timeout == 0 {
		cfg.Interpreter.Timeout = DefaultInterpreterTimeout
	}

	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = DefaultStorageBackend
	}
	if cfg.Storage.Dir == "" {
		cfg.Storage.Dir = DefaultStorageDir
	}
	if cfg.Storage.TTL == 0 {
		cfg.Storage.TTL = DefaultStorageTTL
	}
}
