// Package config provides configuration management using Viper.
// It loads configuration from environment variables, .env files, and config files.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	defaultServerPort                = 8080
	defaultServerHost                = "0.0.0.0"
	defaultReadTimeout               = 30 * time.Second
	defaultWriteTimeout              = 30 * time.Second
	defaultDatabasePath              = "./data/airwave.db"
	defaultDatabaseConnectionTimeout = 5 * time.Second
	defaultDatabaseEnableWAL         = true
	defaultLogLevel                  = "info"
	defaultLogPretty                 = false
	defaultStationTimezone           = "Europe/London"
	defaultStationDayStart           = "07:00"
	defaultStationDefaultBlock       = "regular"
	defaultStationFillerType         = "filler"
	envPrefix                        = "AIRWAVE"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Logging  LoggingConfig
	Station  StationConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port         int
	Host         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DatabaseConfig holds database connection configuration
type DatabaseConfig struct {
	Path              string
	ConnectionTimeout time.Duration
	EnableWAL         bool
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string
	Pretty bool
}

// StationConfig holds the station's scheduling configuration
type StationConfig struct {
	// Timezone is the IANA name of the zone all local-time schedule
	// arithmetic happens in.
	Timezone string

	// DayStart is the local wall-clock time the broadcast day begins
	// at, as "HH:MM".
	DayStart string

	// DefaultBlock is the tag of the programming block slots fall into
	// when no rule matches.
	DefaultBlock string

	// FillerType is the show type name of the canonical filler show.
	FillerType string
}

// Location returns the station timezone
func (s StationConfig) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid station timezone %q: %w", s.Timezone, err)
	}
	return loc, nil
}

// DayStartOffset returns the broadcast day start as an offset from local
// midnight
func (s StationConfig) DayStartOffset() (time.Duration, error) {
	parsed, err := time.Parse("15:04", s.DayStart)
	if err != nil {
		return 0, fmt.Errorf("invalid station day start %q: %w", s.DayStart, err)
	}
	return time.Duration(parsed.Hour())*time.Hour + time.Duration(parsed.Minute())*time.Minute, nil
}

// Load reads configuration from .env file, config files, environment variables, and defaults
func Load() (*Config, error) {
	// Load .env file if present (optional, won't error if missing)
	// .env files are optional in production and CI where env vars are set directly
	_ = godotenv.Load() // nolint:errcheck // .env file is optional

	v := viper.New()

	// Set defaults
	setDefaults(v)

	// Config file settings
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/airwave")

	// Environment variable settings
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	// Unmarshal into struct
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	// Validate
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults configures default values for all configuration options
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", defaultServerPort)
	v.SetDefault("server.host", defaultServerHost)
	v.SetDefault("server.readtimeout", defaultReadTimeout)
	v.SetDefault("server.writetimeout", defaultWriteTimeout)

	// Database defaults
	v.SetDefault("database.path", defaultDatabasePath)
	v.SetDefault("database.connectiontimeout", defaultDatabaseConnectionTimeout)
	v.SetDefault("database.enablewal", defaultDatabaseEnableWAL)

	// Logging defaults
	v.SetDefault("logging.level", defaultLogLevel)
	v.SetDefault("logging.pretty", defaultLogPretty)

	// Station defaults
	v.SetDefault("station.timezone", defaultStationTimezone)
	v.SetDefault("station.daystart", defaultStationDayStart)
	v.SetDefault("station.defaultblock", defaultStationDefaultBlock)
	v.SetDefault("station.fillertype", defaultStationFillerType)
}

// Validate checks that configuration values are valid
func (c *Config) Validate() error {
	// Validate server port
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d (must be between 1 and 65535)", c.Server.Port)
	}

	// Validate timeout durations
	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("invalid read timeout: %v (must be > 0)", c.Server.ReadTimeout)
	}
	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("invalid write timeout: %v (must be > 0)", c.Server.WriteTimeout)
	}
	if c.Database.ConnectionTimeout <= 0 {
		return fmt.Errorf("invalid database connection timeout: %v (must be > 0)", c.Database.ConnectionTimeout)
	}

	// Validate log level
	validLevels := []string{"debug", "info", "warn", "error"}
	if !contains(validLevels, c.Logging.Level) {
		return fmt.Errorf("invalid log level: %s (must be one of: %s)", c.Logging.Level, strings.Join(validLevels, ", "))
	}

	// Validate station settings
	if _, err := c.Station.Location(); err != nil {
		return err
	}
	if _, err := c.Station.DayStartOffset(); err != nil {
		return err
	}
	if c.Station.FillerType == "" {
		return errors.New("station filler type must not be empty")
	}

	return nil
}

// contains checks if a string slice contains a specific value
func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
