package config

import (
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// envPrefix is the environment variable prefix used by all service settings.
const envPrefix = "MOSS"

// newViper builds a pre-configured viper instance: YAML file type, MOSS_ env
// prefix, automatic env binding, and a key replacer mapping "." → "_" so a
// nested key like "interpreter.api_key" resolves to MOSS_INTERPRETER_API_KEY.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	setViperDefaults(v)
	return v
}

// setViperDefaults registers every configuration key with viper. Without a
// registered key viper's Unmarshal never consults the environment, so this
// is what makes MOSS_* overrides effective even when no config file is used.
func setViperDefaults(v *viper.Viper) {
	v.SetDefault("server.port", DefaultServerPort)
	v.SetDefault("server.mode", DefaultServerMode)
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "60s")
	v.SetDefault("server.max_upload_bytes", DefaultMaxUploadBytes)
	v.SetDefault("server.shutdown_timeout", DefaultShutdownTimeout)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.output_paths", []string{"stdout"})

	v.SetDefault("fit.default_model", DefaultFitModel)
	v.SetDefault("fit.max_sites", DefaultMaxSites)
	v.SetDefault("fit.max_iterations", DefaultMaxIterations)

	v.SetDefault("interpreter.base_url", DefaultInterpreterBaseURL)
	v.SetDefault("interpreter.api_key", "")
	v.SetDefault("interpreter.model", DefaultInterpreterModel)
	v.SetDefault("interpreter.max_tokens", DefaultInterpreterMaxTokens)
	v.SetDefault("interpreter.temperature", DefaultInterpreterTemperature)
	v.SetDefault("interpreter.timeout", DefaultInterpreterTimeout)

	v.SetDefault("storage.backend", DefaultStorageBackend)
	v.SetDefault("storage.dir", DefaultStorageDir)
	v.SetDefault("storage.ttl", DefaultStorageTTL)
	v.SetDefault("storage.minio.endpoint", "")
	v.SetDefault("storage.minio.access_key", "")
	v.SetDefault("storage.minio.secret_key", "")
	v.SetDefault("storage.minio.bucket", "")
	v.SetDefault("storage.minio.use_ssl", false)
}

// Load reads the YAML file at configPath, merges MOSS_* environment variable
// overrides, applies defaults for unset fields, and validates the result.
func Load(configPath string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: failed to read config file %q: %w", configPath, err)
	}

	return unmarshalAndFinalize(v)
}

// LoadFromEnv builds a Config entirely from MOSS_* environment variables and
// defaults, with no config file required. Preferred for containerised
// deployments.
func LoadFromEnv() (*Config, error) {
	return unmarshalAndFinalize(newViper())
}

func unmarshalAndFinalize(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to unmarshal configuration: %w", err)
	}

	ApplyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validation failed: %w", err)
	}

	return cfg, nil
}

// Watch monitors configPath for changes and invokes onChange with the newly
// parsed Config whenever the file is modified. Intended for hot-reloading
// non-critical settings such as the log level; callers are responsible for
// applying only the safe subset at runtime. A changed file that fails to
// parse or validate does not trigger the callback.
func Watch(configPath string, onChange func(*Config)) {
	v := newViper()
	v.SetConfigFile(configPath)

	// Initial read; callers should have called Load first, so errors here
	// only mean the watcher starts against a missing file.
	_ = v.ReadInConfig()

	v.OnConfigChange(func(_ fsnotify.Event) {
		cfg, err := unmarshalAndFinalize(v)
		if err != nil {
			return
		}
		onChange(cfg)
	})
	v.WatchConfig()
}

// MustLoad is a convenience wrapper around Load that panics on any error.
// Intended for main() where a config-load failure is always fatal.
func MustLoad(configPath string) *Config {
	cfg, err := Load(configPath)
	if err != nil {
		panic(fmt.Sprintf("config: MustLoad failed: %v", err))
	}
	return cfg
}
