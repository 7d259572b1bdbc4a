package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	"fr24export/internal/chart"
)

// Config holds all configuration for the exporter
type Config struct {
	Token   string
	BaseURL string
	Export  ExportConfig
	Log     LogConfig
}

// ExportConfig holds the defaults applied to every export operation
type ExportConfig struct {
	Background  string
	Orientation string
	Timezone    string
	OutputDir   string
	PageSize    int
	MaxPages    int
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string
	Format string
}

// Load loads configuration from config file and environment variables
func Load() (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("base_url", "https://fr24api.flightradar24.com")
	v.SetDefault("export.background", "carto-light")
	v.SetDefault("export.orientation", "auto")
	v.SetDefault("export.timezone", "")
	v.SetDefault("export.output_dir", "")
	v.SetDefault("export.page_size", 20)
	v.SetDefault("export.max_pages", 10)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	// Set config file name and type
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// Set config file search paths
	v.AddConfigPath("/etc/fr24export")
	v.AddConfigPath(".")

	// Check for config file path from environment variable
	if configPath := os.Getenv("FR24EXPORT_CONFIG_PATH"); configPath != "" {
		v.SetConfigFile(configPath)
	}

	// Read config file (if it exists)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Config file was found but another error occurred
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK - we'll use defaults + env vars
	}

	// Set environment variable prefix
	v.SetEnvPrefix("FR24EXPORT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// The token also honors the variable name the original tooling used
	_ = v.BindEnv("token", "FR24EXPORT_TOKEN", "FLIGHTRADAR_API_KEY")

	// Build config struct
	cfg := &Config{
		Token:   v.GetString("token"),
		BaseURL: v.GetString("base_url"),
		Export: ExportConfig{
			Background:  strings.ToLower(v.GetString("export.background")),
			Orientation: strings.ToLower(v.GetString("export.orientation")),
			Timezone:    v.GetString("export.timezone"),
			OutputDir:   v.GetString("export.output_dir"),
			PageSize:    v.GetInt("export.page_size"),
			MaxPages:    v.GetInt("export.max_pages"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
		},
	}

	// Validate configuration
	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// validate validates the configuration values
func validate(cfg *Config) error {
	if cfg.BaseURL == "" {
		return fmt.Errorf("base_url is required")
	}

	if cfg.Export.PageSize <= 0 {
		return fmt.Errorf("export.page_size must be greater than 0")
	}

	if cfg.Export.MaxPages <= 0 {
		return fmt.Errorf("export.max_pages must be greater than 0")
	}

	validOrientations := map[string]bool{
		"horizontal": true,
		"vertical":   true,
		"auto":       true,
	}
	if !validOrientations[strings.ToLower(cfg.Export.Orientation)] {
		return fmt.Errorf("invalid orientation: %s (must be horizontal, vertical, or auto)", cfg.Export.Orientation)
	}

	if _, err := chart.ParseBackground(cfg.Export.Background); err != nil {
		return fmt.Errorf("invalid background: %s (must be one of %s)",
			cfg.Export.Background, strings.Join(chart.BackgroundNames(), ", "))
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[strings.ToLower(cfg.Log.Level)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", cfg.Log.Level)
	}

	validLogFormats := map[string]bool{
		"text": true,
		"json": true,
	}
	if !validLogFormats[strings.ToLower(cfg.Log.Format)] {
		return fmt.Errorf("invalid log format: %s (must be text or json)", cfg.Log.Format)
	}

	return nil
}
