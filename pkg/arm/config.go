package arm

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// DefaultConfigFile is the config file written by `armctl setup`.
const DefaultConfigFile = "armctl.json"

// Defaults matching the reference hardware.
const (
	DefaultHostBaud        = 115200
	DefaultMoveIntervalMs  = 50
	DefaultTeachIntervalMs = 100
	DefaultDBPath          = "sequences.db"
)

// HostConfig describes the serial link to the commanding host.
type HostConfig struct {
	Device string `json:"device"`
	Baud   int    `json:"baud"`
}

// BusConfig describes the servo bus the arm hangs off.
type BusConfig struct {
	Device string `json:"device"`
	Sim    bool   `json:"sim,omitempty"`
}

// JointConfig holds one joint's limits, home angle and pot calibration.
type JointConfig struct {
	Name JointName      `json:"name"`
	Min  int            `json:"min"`
	Max  int            `json:"max"`
	Home int            `json:"home"`
	Pot  PotCalibration `json:"pot"`
}

// Config holds the full controller configuration.
type Config struct {
	Host            HostConfig              `json:"host"`
	Bus             BusConfig               `json:"bus"`
	Joints          [JointCount]JointConfig `json:"joints"`
	MoveIntervalMs  int                     `json:"move_interval_ms"`
	TeachIntervalMs int                     `json:"teach_interval_ms"`
	DBPath          string                  `json:"db_path"`
	TeachEnabled    bool                    `json:"teach_enabled"`
}

// DefaultConfig returns the configuration of the reference arm: joint
// limits, home pose and cadences as shipped.
func DefaultConfig() *Config {
	mins := [JointCount]int{0, 30, 0, 0, 0, 90}
	maxs := [JointCount]int{180, 150, 180, 180, 180, 180}
	home := [JointCount]int{92, 85, 45, 108, 80, 152}

	cfg := &Config{
		Host:            HostConfig{Baud: DefaultHostBaud},
		MoveIntervalMs:  DefaultMoveIntervalMs,
		TeachIntervalMs: DefaultTeachIntervalMs,
		DBPath:          DefaultDBPath,
		TeachEnabled:    true,
	}
	for i, name := range JointNames() {
		cfg.Joints[i] = JointConfig{
			Name: name,
			Min:  mins[i],
			Max:  maxs[i],
			Home: home[i],
			Pot:  DefaultPotCalibration(),
		}
	}
	return cfg
}

// LoadConfig loads configuration from the default config file.
func LoadConfig() (*Config, error) {
	return LoadConfigFrom(DefaultConfigFile)
}

// LoadConfigFrom loads configuration from a specific file. Missing fields
// keep their default values.
func LoadConfigFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save saves configuration to the default config file.
func (c *Config) Save() error {
	return c.SaveTo(DefaultConfigFile)
}

// SaveTo saves configuration to a specific file.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ValidationError names the config field that failed validation.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Message)
}

// Validate checks limits, home pose and cadences.
func (c *Config) Validate() error {
	if c.Host.Baud <= 0 {
		return ValidationError{"host.baud", "must be positive"}
	}
	if c.MoveIntervalMs <= 0 {
		return ValidationError{"move_interval_ms", "must be positive"}
	}
	if c.TeachIntervalMs <= 0 {
		return ValidationError{"teach_interval_ms", "must be positive"}
	}
	for i, j := range c.Joints {
		field := fmt.Sprintf("joints[%d]", i)
		if j.Name == "" {
			return ValidationError{field + ".name", "must not be empty"}
		}
		if j.Min >= j.Max {
			return ValidationError{field, fmt.Sprintf("min %d not below max %d", j.Min, j.Max)}
		}
		if j.Home < j.Min || j.Home > j.Max {
			return ValidationError{field + ".home", fmt.Sprintf("angle %d outside [%d, %d]", j.Home, j.Min, j.Max)}
		}
		if j.Pot.RawMin > j.Pot.RawMax {
			return ValidationError{field + ".pot", "raw_min above raw_max"}
		}
	}
	return nil
}

// HomePose returns the configured home pose.
func (c *Config) HomePose() Pose {
	var p Pose
	for i, j := range c.Joints {
		p[i] = j.Home
	}
	return p
}

// MoveInterval is the cadence of motion steps.
func (c *Config) MoveInterval() time.Duration {
	return time.Duration(c.MoveIntervalMs) * time.Millisecond
}

// TeachInterval is the cadence of teach-mode sampling.
func (c *Config) TeachInterval() time.Duration {
	return time.Duration(c.TeachIntervalMs) * time.Millisecond
}

// ConfigExists returns true if the default config file exists.
func ConfigExists() bool {
	_, err := os.Stat(DefaultConfigFile)
	return err == nil
}
