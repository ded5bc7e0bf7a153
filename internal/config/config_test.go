package config

import (
	"os"
	"testing"
	"time"
)

func TestConfigDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	// Test server defaults
	if cfg.Server.Port != defaultServerPort {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, defaultServerPort)
	}
	if cfg.Server.Host != defaultServerHost {
		t.Errorf("Server.Host = %s, want %s", cfg.Server.Host, defaultServerHost)
	}

	// Test database defaults
	if cfg.Database.Path != defaultDatabasePath {
		t.Errorf("Database.Path = %s, want %s", cfg.Database.Path, defaultDatabasePath)
	}
	if cfg.Database.EnableWAL != defaultDatabaseEnableWAL {
		t.Errorf("Database.EnableWAL = %v, want %v", cfg.Database.EnableWAL, defaultDatabaseEnableWAL)
	}

	// Test logging defaults
	if cfg.Logging.Level != defaultLogLevel {
		t.Errorf("Logging.Level = %s, want %s", cfg.Logging.Level, defaultLogLevel)
	}
	if cfg.Logging.Pretty != defaultLogPretty {
		t.Errorf("Logging.Pretty = %v, want %v", cfg.Logging.Pretty, defaultLogPretty)
	}

	// Test station defaults
	if cfg.Station.Timezone != defaultStationTimezone {
		t.Errorf("Station.Timezone = %s, want %s", cfg.Station.Timezone, defaultStationTimezone)
	}
	if cfg.Station.DayStart != defaultStationDayStart {
		t.Errorf("Station.DayStart = %s, want %s", cfg.Station.DayStart, defaultStationDayStart)
	}
	if cfg.Station.DefaultBlock != defaultStationDefaultBlock {
		t.Errorf("Station.DefaultBlock = %s, want %s", cfg.Station.DefaultBlock, defaultStationDefaultBlock)
	}
	if cfg.Station.FillerType != defaultStationFillerType {
		t.Errorf("Station.FillerType = %s, want %s", cfg.Station.FillerType, defaultStationFillerType)
	}
}

func validTestConfig() Config {
	return Config{
		Server: ServerConfig{
			Port:         8080,
			Host:         "0.0.0.0",
			ReadTimeout:  defaultReadTimeout,
			WriteTimeout: defaultWriteTimeout,
		},
		Database: DatabaseConfig{
			Path:              "./data/airwave.db",
			ConnectionTimeout: defaultDatabaseConnectionTimeout,
			EnableWAL:         true,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Pretty: false,
		},
		Station: StationConfig{
			Timezone:     "Europe/London",
			DayStart:     "07:00",
			DefaultBlock: "regular",
			FillerType:   "filler",
		},
	}
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid config",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "invalid port - too low",
			mutate:  func(c *Config) { c.Server.Port = 0 },
			wantErr: true,
		},
		{
			name:    "invalid port - too high",
			mutate:  func(c *Config) { c.Server.Port = 70000 },
			wantErr: true,
		},
		{
			name:    "invalid read timeout",
			mutate:  func(c *Config) { c.Server.ReadTimeout = 0 },
			wantErr: true,
		},
		{
			name:    "invalid log level",
			mutate:  func(c *Config) { c.Logging.Level = "verbose" },
			wantErr: true,
		},
		{
			name:    "invalid timezone",
			mutate:  func(c *Config) { c.Station.Timezone = "Mars/Olympus" },
			wantErr: true,
		},
		{
			name:    "invalid day start",
			mutate:  func(c *Config) { c.Station.DayStart = "25:99" },
			wantErr: true,
		},
		{
			name:    "empty filler type",
			mutate:  func(c *Config) { c.Station.FillerType = "" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validTestConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestStationConfigEnvVars(t *testing.T) {
	os.Setenv("AIRWAVE_STATION_TIMEZONE", "Europe/Paris")
	os.Setenv("AIRWAVE_STATION_DAYSTART", "06:30")
	os.Setenv("AIRWAVE_STATION_DEFAULTBLOCK", "daytime")
	defer func() {
		os.Unsetenv("AIRWAVE_STATION_TIMEZONE")
		os.Unsetenv("AIRWAVE_STATION_DAYSTART")
		os.Unsetenv("AIRWAVE_STATION_DEFAULTBLOCK")
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Station.Timezone != "Europe/Paris" {
		t.Errorf("Station.Timezone = %s, want Europe/Paris", cfg.Station.Timezone)
	}
	if cfg.Station.DayStart != "06:30" {
		t.Errorf("Station.DayStart = %s, want 06:30", cfg.Station.DayStart)
	}
	if cfg.Station.DefaultBlock != "daytime" {
		t.Errorf("Station.DefaultBlock = %s, want daytime", cfg.Station.DefaultBlock)
	}
}

func TestStationLocation(t *testing.T) {
	station := StationConfig{Timezone: "Europe/London"}
	loc, err := station.Location()
	if err != nil {
		t.Fatalf("Location() error = %v", err)
	}
	if loc.String() != "Europe/London" {
		t.Errorf("Location() = %s, want Europe/London", loc)
	}

	station.Timezone = "Not/AZone"
	if _, err := station.Location(); err == nil {
		t.Error("Location() expected error for unknown zone")
	}
}

func TestStationDayStartOffset(t *testing.T) {
	tests := []struct {
		dayStart string
		want     time.Duration
		wantErr  bool
	}{
		{"07:00", 7 * time.Hour, false},
		{"00:00", 0, false},
		{"23:45", 23*time.Hour + 45*time.Minute, false},
		{"7am", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		station := StationConfig{DayStart: tt.dayStart}
		got, err := station.DayStartOffset()
		if (err != nil) != tt.wantErr {
			t.Errorf("DayStartOffset(%q) error = %v, wantErr %v", tt.dayStart, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("DayStartOffset(%q) = %v, want %v", tt.dayStart, got, tt.want)
		}
	}
}

func TestContains(t *testing.T) {
	slice := []string{"debug", "info", "warn", "error"}

	if !contains(slice, "info") {
		t.Error("contains() should find 'info'")
	}
	if contains(slice, "verbose") {
		t.Error("contains() should not find 'verbose'")
	}
	if contains([]string{}, "info") {
		t.Error("contains() should not find anything in empty slice")
	}
}
