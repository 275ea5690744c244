package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of every environment variable read by Load.
const EnvPrefix = "TASKTRAIL"

// Default values applied before the config file and environment are read.
const (
	DefaultPort              = 8080
	DefaultLogLevel          = "info"
	DefaultShutdownTimeout   = 10 * time.Second
	DefaultMaxOpenConns      = 10
	DefaultMaxIdleConns      = 5
	DefaultConnMaxLifetime   = 5 * time.Minute
	DefaultLockTimeout       = 5 * time.Second
	DefaultAssignMaxRetries  = 3
	DefaultMaxHierarchyDepth = 1000
)

// keys lists every configuration key so each can be bound to its
// environment variable (viper only consults the environment for known keys
// during Unmarshal).
var keys = []string{
	"server.port",
	"server.log_level",
	"server.shutdown_timeout",
	"database.url",
	"database.max_open_conns",
	"database.max_idle_conns",
	"database.conn_max_lifetime",
	"tasks.lock_timeout",
	"tasks.assign_max_retries",
	"tasks.max_hierarchy_depth",
}

// Load configuration from environment variables and optionally a config file
// named config.yaml in the working directory.
// Environment variables take precedence over values from config files.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	return LoadFrom("")
}

// LoadFrom behaves like Load but reads the given config file path instead of
// searching the working directory. An empty path falls back to the search.
func LoadFrom(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range keys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("error binding environment variable for %s: %w", key, err)
		}
	}
	// DATABASE_URL is honored as a fallback so local tooling and CI can share it.
	if err := v.BindEnv("database.url", EnvPrefix+"_DATABASE_URL", "DATABASE_URL"); err != nil {
		return nil, fmt.Errorf("error binding environment variable for database.url: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", DefaultPort)
	v.SetDefault("server.log_level", DefaultLogLevel)
	v.SetDefault("server.shutdown_timeout", DefaultShutdownTimeout)
	v.SetDefault("database.max_open_conns", DefaultMaxOpenConns)
	v.SetDefault("database.max_idle_conns", DefaultMaxIdleConns)
	v.SetDefault("database.conn_max_lifetime", DefaultConnMaxLifetime)
	v.SetDefault("tasks.lock_timeout", DefaultLockTimeout)
	v.SetDefault("tasks.assign_max_retries", DefaultAssignMaxRetries)
	v.SetDefault("tasks.max_hierarchy_depth", DefaultMaxHierarchyDepth)
}
