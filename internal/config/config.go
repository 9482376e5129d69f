package config

import "time"

// Config holds all client configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Remote  RemoteConfig  `mapstructure:"remote"  validate:"required"`
	Session SessionConfig `mapstructure:"session" validate:"required"`
	Console ConsoleConfig `mapstructure:"console" validate:"required"`
	Tasks   TasksConfig   `mapstructure:"tasks"   validate:"required"`
	Notices NoticesConfig `mapstructure:"notices" validate:"required"`
}

// RemoteConfig describes how to reach the remote task-tracking service.
type RemoteConfig struct {
	BaseURL string `mapstructure:"base_url" validate:"required,url"`
	// ErrorEndpoint is the path of the service's error-reporting endpoint.
	// Failures from it never touch the session.
	ErrorEndpoint string        `mapstructure:"error_endpoint" validate:"required,startswith=/"`
	Timeout       time.Duration `mapstructure:"timeout"        validate:"required,gt=0"`
}

// SessionConfig contains the session guard settings.
type SessionConfig struct {
	PollInterval   time.Duration `mapstructure:"poll_interval"   validate:"required,gt=0"`
	EntryRoute     string        `mapstructure:"entry_route"     validate:"required,startswith=/"`
	DashboardRoute string        `mapstructure:"dashboard_route" validate:"required,startswith=/"`
	// Store selects the credential store backend.
	Store     string `mapstructure:"store"      validate:"required,oneof=memory file"`
	StorePath string `mapstructure:"store_path" validate:"required_if=Store file"`
}

// ConsoleConfig contains the local console server settings.
type ConsoleConfig struct {
	Addr     string `mapstructure:"addr"      validate:"required,hostname_port"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// TasksConfig contains the task query and edit settings.
type TasksConfig struct {
	PageSize         int           `mapstructure:"page_size"          validate:"required,gt=0,lte=100"`
	DeleteConfirmTTL time.Duration `mapstructure:"delete_confirm_ttl" validate:"required,gt=0"`
}

// NoticesConfig controls how long transient notices stay visible.
type NoticesConfig struct {
	ToastDelay  time.Duration `mapstructure:"toast_delay"  validate:"required,gt=0"`
	BannerDelay time.Duration `mapstructure:"banner_delay" validate:"required,gt=0"`
}
