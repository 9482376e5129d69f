package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable override.
const EnvPrefix = "TASKDESK"

// Load configuration from defaults, an optional taskdesk.{yaml,toml,json}
// file in the working directory or $HOME/.config/taskdesk, and environment
// variables. Environment variables take precedence over file values.
func Load() (*Config, error) {
	return LoadFrom("")
}

// LoadFrom behaves like Load but reads the given config file instead of
// searching the standard locations. An empty path searches.
func LoadFrom(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("taskdesk")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "taskdesk"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// setDefaults registers every key so that AutomaticEnv can override it.
func setDefaults(v *viper.Viper) {
	for key, value := range Defaults() {
		v.SetDefault(key, value)
	}
}

// Defaults returns the default value for every configuration key.
func Defaults() map[string]any {
	storePath := "credentials.toml"
	if home, err := os.UserHomeDir(); err == nil {
		storePath = filepath.Join(home, ".config", "taskdesk", "credentials.toml")
	}

	return map[string]any{
		"remote.base_url":          "http://localhost:8080/api",
		"remote.error_endpoint":    "/error",
		"remote.timeout":           "15s",
		"session.poll_interval":    "1s",
		"session.entry_route":      "/",
		"session.dashboard_route":  "/dashboard",
		"session.store":            "file",
		"session.store_path":       storePath,
		"console.addr":             "127.0.0.1:5173",
		"console.log_level":        "info",
		"tasks.page_size":          8,
		"tasks.delete_confirm_ttl": "3s",
		"notices.toast_delay":      "4s",
		"notices.banner_delay":     "5s",
	}
}
