// Package config loads and persists the bridge configuration.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// Config represents the complete application configuration.
type Config struct {
	SBS      SBSConfig      `json:"sbs"`
	APRSIS   APRSISConfig   `json:"aprsis"`
	Metadata MetadataConfig `json:"metadata"`
	Bridge   BridgeConfig   `json:"bridge"`
	Database DatabaseConfig `json:"database"`
	Metrics  MetricsConfig  `json:"metrics"`
}

// SBSConfig locates the dump1090 SBS (BaseStation) feed.
type SBSConfig struct {
	// Host is the dump1090 receiver hostname or IP
	Host string `json:"host"`

	// Port is the SBS output port (default: 30003)
	Port int `json:"port"`
}

// APRSISConfig contains the APRS-IS uplink settings.
type APRSISConfig struct {
	// Host is the APRS-IS server hostname
	Host string `json:"host"`

	// Port is the APRS-IS client port (default: 14580)
	Port int `json:"port"`

	// Callsign is the APRS-IS login callsign including SSID
	Callsign string `json:"callsign"`

	// Passcode is the APRS-IS passcode; -1 for receive-only servers
	// that accept unverified logins
	Passcode int `json:"passcode"`

	// Filter is the server-side filter expression sent at login
	Filter string `json:"filter"`

	// AppendSymbolTag adds a SYM annotation to object comments
	AppendSymbolTag bool `json:"append_symbol_tag"`
}

// MetadataConfig locates the dump1090 JSON side channel.
type MetadataConfig struct {
	// URL is the aircraft JSON endpoint (e.g. "http://host:8080/data.json")
	URL string `json:"url"`

	// RefreshSeconds is how often to poll the endpoint
	RefreshSeconds int `json:"refresh_seconds"`
}

// BridgeConfig contains every threshold the track lifecycle engine
// uses. Distances are statute miles, altitudes feet, speeds knots.
type BridgeConfig struct {
	// MaxPacketsPerSecond is the global output ceiling
	MaxPacketsPerSecond int `json:"max_packets_per_second"`

	// MinUpdateSeconds is the minimum interval between updates for a
	// track whose state changed but which has not moved far
	MinUpdateSeconds int `json:"min_update_seconds"`

	// MinMoveMiles always justifies an update regardless of elapsed time
	MinMoveMiles float64 `json:"min_move_miles"`

	// ObjectTTLSeconds deletes tracks silent for this long
	ObjectTTLSeconds int `json:"object_ttl_seconds"`

	// LandedAltFt is the altitude at or below which the landed dwell
	// timer runs
	LandedAltFt float64 `json:"landed_alt_ft"`

	// LandedDwellSeconds is how long an aircraft must stay at or below
	// LandedAltFt before its object is deleted
	LandedDwellSeconds int `json:"landed_dwell_seconds"`

	// LandClearAltFt re-enables a landed-suppressed track once exceeded.
	// Must be above LandedAltFt to give the suppression hysteresis.
	LandClearAltFt float64 `json:"land_clear_alt_ft"`

	// Change epsilons: a report differing from the last transmitted
	// state by at least one of these is worth an update
	EpsLatLonDeg float64 `json:"eps_latlon_deg"`
	EpsAltFt     float64 `json:"eps_alt_ft"`
	EpsTrackDeg  float64 `json:"eps_track_deg"`
	EpsSpeedKt   float64 `json:"eps_speed_kt"`

	// ReferenceLatitude/ReferenceLongitude anchor the coverage circle
	ReferenceLatitude  float64 `json:"reference_latitude"`
	ReferenceLongitude float64 `json:"reference_longitude"`

	// AddDistanceMiles admits new tracks; ClearDistanceMiles evicts
	// existing ones. Clear must exceed Add so tracks near the boundary
	// don't flap.
	AddDistanceMiles   float64 `json:"add_distance_miles"`
	ClearDistanceMiles float64 `json:"clear_distance_miles"`
}

// DatabaseConfig contains settings for the optional packet log.
type DatabaseConfig struct {
	// Enabled turns the PostgreSQL packet log on
	Enabled bool `json:"enabled"`

	// Host is the database server hostname
	Host string `json:"host"`

	// Port is the database server port
	Port int `json:"port"`

	// Database is the database name
	Database string `json:"database"`

	// Username for database authentication
	Username string `json:"username"`

	// Password for database authentication (should be loaded from environment)
	Password string `json:"password"`

	// SSLMode for PostgreSQL connections (disable, require, verify-ca, verify-full)
	SSLMode string `json:"ssl_mode"`

	// MaxOpenConns is the maximum number of open connections
	MaxOpenConns int `json:"max_open_conns"`

	// MaxIdleConns is the maximum number of idle connections
	MaxIdleConns int `json:"max_idle_conns"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	// Enabled starts an HTTP listener serving /metrics
	Enabled bool `json:"enabled"`

	// Listen is the address for the metrics listener
	Listen string `json:"listen"`
}

// Load reads configuration from a JSON file.
// If the file doesn't exist, returns a default configuration.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := DefaultConfig()
		cfg.applyEnvironmentOverrides()
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.applyEnvironmentOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes the configuration to a JSON file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate rejects configurations the engine cannot run with.
func (c *Config) Validate() error {
	if c.Bridge.ClearDistanceMiles <= c.Bridge.AddDistanceMiles {
		return fmt.Errorf("clear_distance_miles (%.1f) must exceed add_distance_miles (%.1f)",
			c.Bridge.ClearDistanceMiles, c.Bridge.AddDistanceMiles)
	}
	if c.Bridge.LandClearAltFt <= c.Bridge.LandedAltFt {
		return fmt.Errorf("land_clear_alt_ft (%.0f) must exceed landed_alt_ft (%.0f)",
			c.Bridge.LandClearAltFt, c.Bridge.LandedAltFt)
	}
	if c.Bridge.MaxPacketsPerSecond < 1 {
		return fmt.Errorf("max_packets_per_second must be at least 1")
	}
	if c.APRSIS.Callsign == "" {
		return fmt.Errorf("aprsis callsign is required")
	}
	return nil
}

// DefaultConfig returns a configuration with sensible defaults.
// The reference point and thresholds match a typical receiver covering
// the KBUF terminal area.
func DefaultConfig() *Config {
	return &Config{
		SBS: SBSConfig{
			Host: "127.0.0.1",
			Port: 30003,
		},
		APRSIS: APRSISConfig{
			Host:            "127.0.0.1",
			Port:            14580,
			Callsign:        "N0CALL-10",
			Passcode:        -1,
			Filter:          "m/500",
			AppendSymbolTag: true,
		},
		Metadata: MetadataConfig{
			URL:            "http://127.0.0.1:8080/data.json",
			RefreshSeconds: 5,
		},
		Bridge: BridgeConfig{
			MaxPacketsPerSecond: 5,
			MinUpdateSeconds:    5,
			MinMoveMiles:        0.50,
			ObjectTTLSeconds:    300,
			LandedAltFt:         1000,
			LandedDwellSeconds:  180,
			LandClearAltFt:      1500,
			EpsLatLonDeg:        0.00015,
			EpsAltFt:            25,
			EpsTrackDeg:         3,
			EpsSpeedKt:          2,
			ReferenceLatitude:   42.9405,
			ReferenceLongitude:  -78.7322,
			AddDistanceMiles:    35,
			ClearDistanceMiles:  40,
		},
		Database: DatabaseConfig{
			Enabled:      false,
			Host:         "localhost",
			Port:         5432,
			Database:     "adsb2aprs",
			Username:     "adsb2aprs",
			SSLMode:      "disable",
			MaxOpenConns: 25,
			MaxIdleConns: 5,
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Listen:  ":9602",
		},
	}
}

// applyEnvironmentOverrides applies environment variable overrides.
// This allows sensitive data like the APRS-IS passcode and database
// password to be kept out of config files.
func (c *Config) applyEnvironmentOverrides() {
	if host := os.Getenv("ADSB2APRS_SBS_HOST"); host != "" {
		c.SBS.Host = host
	}
	if callsign := os.Getenv("ADSB2APRS_CALLSIGN"); callsign != "" {
		c.APRSIS.Callsign = callsign
	}
	if passcode := os.Getenv("ADSB2APRS_PASSCODE"); passcode != "" {
		if v, err := strconv.Atoi(passcode); err == nil {
			c.APRSIS.Passcode = v
		}
	}
	if dbPassword := os.Getenv("ADSB2APRS_DB_PASSWORD"); dbPassword != "" {
		c.Database.Password = dbPassword
	}
	if url := os.Getenv("ADSB2APRS_METADATA_URL"); url != "" {
		c.Metadata.URL = url
	}
}
