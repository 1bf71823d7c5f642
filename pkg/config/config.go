package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	Logging LoggingConfig `mapstructure:"logging"`
	Agent   AgentConfig   `mapstructure:"agent"`
	Filters FiltersConfig `mapstructure:"filters"`
	Model   string        `mapstructure:"model"`
}

// LoggingConfig holds logging-related configuration
type LoggingConfig struct {
	LogFile  string `mapstructure:"log_file"`
	Preserve bool   `mapstructure:"preserve"`
	Level    string `mapstructure:"level"`
}

// AgentConfig holds the data-agent endpoint configuration
type AgentConfig struct {
	Host       string        `mapstructure:"host"`
	Database   string        `mapstructure:"database"`
	Schema     string        `mapstructure:"schema"`
	Name       string        `mapstructure:"name"`
	Token      string        `mapstructure:"token"`
	Timeout    time.Duration `mapstructure:"-"`
	TimeoutStr string        `mapstructure:"timeout"`
}

// FiltersConfig holds the external filter source configuration
type FiltersConfig struct {
	URL        string        `mapstructure:"url"`
	Timeout    time.Duration `mapstructure:"-"`
	TimeoutStr string        `mapstructure:"timeout"`
}

// Global config instance
var cfg *Config

// Get returns the global config instance
func Get() *Config {
	if cfg == nil {
		panic("config not initialized")
	}
	return cfg
}

// Load loads configuration from file and environment
func Load(cfgFile string) (*Config, error) {
	setDefaults()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}

		xdgConfigHome := os.Getenv("XDG_CONFIG_HOME")
		if xdgConfigHome == "" {
			xdgConfigHome = filepath.Join(home, ".config")
		}
		slateCfgHome := filepath.Join(xdgConfigHome, ".slate")

		viper.AddConfigPath("./.slate") // Check project directory first
		viper.AddConfigPath(slateCfgHome)
		viper.SetConfigType("yaml")
		viper.SetConfigName("settings.yaml")
	}

	viper.AutomaticEnv()
	bindEnvironmentVariables()

	// Missing config file is fine; defaults plus env cover everything
	_ = viper.ReadInConfig()

	cfg = &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := processDurations(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// setDefaults sets all default configuration values
func setDefaults() {
	viper.SetDefault("model", "claude-4-sonnet")

	// Agent endpoint defaults
	viper.SetDefault("agent.host", "")
	viper.SetDefault("agent.database", "SNOWFLAKE_INTELLIGENCE")
	viper.SetDefault("agent.schema", "AGENTS")
	viper.SetDefault("agent.name", "SALES_INTELLIGENCE_AGENT")
	viper.SetDefault("agent.token", "")
	viper.SetDefault("agent.timeout", "120s")

	// Filter source defaults
	viper.SetDefault("filters.url", "")
	viper.SetDefault("filters.timeout", "5s")

	// Logging defaults
	viper.SetDefault("logging.log_file", "./.slate/system.log")
	viper.SetDefault("logging.preserve", false)
	viper.SetDefault("logging.level", "info")
}

// bindEnvironmentVariables binds specific environment variables to Viper keys
func bindEnvironmentVariables() {
	viper.BindEnv("agent.host", "SLATE_AGENT_HOST")
	viper.BindEnv("agent.database", "SLATE_AGENT_DATABASE")
	viper.BindEnv("agent.schema", "SLATE_AGENT_SCHEMA")
	viper.BindEnv("agent.name", "SLATE_AGENT_NAME")
	viper.BindEnv("agent.token", "SLATE_AGENT_TOKEN")
	viper.BindEnv("filters.url", "SLATE_FILTERS_URL")
	viper.BindEnv("model", "SLATE_MODEL")
	viper.BindEnv("logging.log_file", "SLATE_LOG_FILE")
	viper.BindEnv("logging.level", "SLATE_LOG_LEVEL")
	viper.BindEnv("logging.preserve", "SLATE_LOG_PRESERVE")
}

// processDurations converts string durations to time.Duration
func processDurations(cfg *Config) error {
	if cfg.Agent.TimeoutStr != "" {
		d, err := time.ParseDuration(cfg.Agent.TimeoutStr)
		if err != nil {
			return fmt.Errorf("invalid agent.timeout: %w", err)
		}
		cfg.Agent.Timeout = d
	} else if cfg.Agent.Timeout == 0 {
		cfg.Agent.Timeout = 120 * time.Second
	}

	if cfg.Filters.TimeoutStr != "" {
		d, err := time.ParseDuration(cfg.Filters.TimeoutStr)
		if err != nil {
			return fmt.Errorf("invalid filters.timeout: %w", err)
		}
		cfg.Filters.Timeout = d
	} else if cfg.Filters.Timeout == 0 {
		cfg.Filters.Timeout = 5 * time.Second
	}

	return nil
}

// GetConfigFileUsed returns the path to the config file being used
func GetConfigFileUsed() string {
	return viper.ConfigFileUsed()
}
