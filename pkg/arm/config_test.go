package arm

import (
	"os"
	"path/filepath"
	"testing"
)

func TestConfig_SaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "armctl.json")

	cfg := DefaultConfig()
	cfg.Host.Device = "/dev/ttyUSB0"
	cfg.Bus.Device = "/dev/ttyACM0"
	cfg.Joints[1].Pot = PotCalibration{RawMin: 823, RawMax: 3540}
	cfg.TeachEnabled = false

	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo failed: %v", err)
	}

	got, err := LoadConfigFrom(path)
	if err != nil {
		t.Fatalf("LoadConfigFrom failed: %v", err)
	}

	if got.Host.Device != "/dev/ttyUSB0" {
		t.Errorf("Host.Device = %q, want /dev/ttyUSB0", got.Host.Device)
	}
	if got.Joints[1].Pot != (PotCalibration{RawMin: 823, RawMax: 3540}) {
		t.Errorf("Joints[1].Pot = %+v", got.Joints[1].Pot)
	}
	if got.TeachEnabled {
		t.Error("TeachEnabled should round-trip as false")
	}
	if got.HomePose() != cfg.HomePose() {
		t.Errorf("HomePose = %v, want %v", got.HomePose(), cfg.HomePose())
	}
}

func TestConfig_DefaultsFillMissingFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "armctl.json")
	// A minimal hand-written config: only the host device is set.
	data := []byte(`{"host": {"device": "/dev/ttyS1", "baud": 115200}}`)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfigFrom(path)
	if err != nil {
		t.Fatalf("LoadConfigFrom failed: %v", err)
	}
	if cfg.MoveIntervalMs != DefaultMoveIntervalMs {
		t.Errorf("MoveIntervalMs = %d, want default %d", cfg.MoveIntervalMs, DefaultMoveIntervalMs)
	}
	if !cfg.TeachEnabled {
		t.Error("TeachEnabled should default to true")
	}
	if cfg.Joints[5].Min != 90 {
		t.Errorf("gripper min = %d, want 90", cfg.Joints[5].Min)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero baud", func(c *Config) { c.Host.Baud = 0 }},
		{"zero move interval", func(c *Config) { c.MoveIntervalMs = 0 }},
		{"negative teach interval", func(c *Config) { c.TeachIntervalMs = -5 }},
		{"min above max", func(c *Config) { c.Joints[0].Min = 181 }},
		{"home out of range", func(c *Config) { c.Joints[5].Home = 10 }},
		{"empty joint name", func(c *Config) { c.Joints[3].Name = "" }},
		{"inverted pot range", func(c *Config) { c.Joints[2].Pot = PotCalibration{RawMin: 9, RawMax: 1} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate should fail")
			}
		})
	}

	if err := DefaultConfig().Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}
