package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Tasks    TasksConfig    `mapstructure:"tasks"    validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port            int           `mapstructure:"port"             validate:"required,gt=0,lt=65536"`
	LogLevel        string        `mapstructure:"log_level"        validate:"required,oneof=debug info warn error"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL             string        `mapstructure:"url"               validate:"required,url"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"    validate:"gte=1"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"    validate:"gte=0"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime" validate:"gte=0"`
}

// TasksConfig tunes the task concurrency controls.
type TasksConfig struct {
	// LockTimeout bounds how long an assignment waits for the task row lock.
	LockTimeout time.Duration `mapstructure:"lock_timeout" validate:"gt=0"`
	// AssignMaxRetries is how many times an assignment is re-run after a
	// serialization failure. At least one retry is required.
	AssignMaxRetries uint64 `mapstructure:"assign_max_retries" validate:"gte=1,lte=10"`
	// MaxHierarchyDepth caps the parent chain walked by the cycle check.
	MaxHierarchyDepth int `mapstructure:"max_hierarchy_depth" validate:"gte=1"`
}
