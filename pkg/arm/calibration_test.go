package arm

import (
	"testing"
)

func TestPotCalibration_AngleFromRaw(t *testing.T) {
	cal := PotCalibration{RawMin: 0, RawMax: 1023}

	tests := []struct {
		raw      int
		expected int
	}{
		{0, 0},      // min -> min angle
		{1023, 180}, // max -> max angle
		{512, 90},   // mid -> mid angle (rounded)
		{-50, 0},    // below range clamps
		{2000, 180}, // above range clamps
	}

	for _, tt := range tests {
		got := cal.AngleFromRaw(tt.raw, 0, 180)
		if got != tt.expected {
			t.Errorf("AngleFromRaw(%d) = %d, want %d", tt.raw, got, tt.expected)
		}
	}
}

func TestPotCalibration_AngleFromRaw_OffsetRange(t *testing.T) {
	// Shoulder-style joint: 30..150 degrees over a 12-bit encoder.
	cal := PotCalibration{RawMin: 0, RawMax: 4095}

	tests := []struct {
		raw      int
		expected int
	}{
		{0, 30},
		{4095, 150},
		{2048, 90},
	}

	for _, tt := range tests {
		got := cal.AngleFromRaw(tt.raw, 30, 150)
		if got != tt.expected {
			t.Errorf("AngleFromRaw(%d) = %d, want %d", tt.raw, got, tt.expected)
		}
	}
}

func TestPotCalibration_RawFromAngle(t *testing.T) {
	cal := PotCalibration{RawMin: 1000, RawMax: 3000}

	tests := []struct {
		deg      int
		expected int
	}{
		{0, 1000},   // min angle -> raw min
		{180, 3000}, // max angle -> raw max
		{90, 2000},  // mid -> mid
		{-20, 1000}, // below range clamps
		{400, 3000}, // above range clamps
	}

	for _, tt := range tests {
		got := cal.RawFromAngle(tt.deg, 0, 180)
		if got != tt.expected {
			t.Errorf("RawFromAngle(%d) = %d, want %d", tt.deg, got, tt.expected)
		}
	}
}

func TestPotCalibration_RoundTrip(t *testing.T) {
	cal := PotCalibration{RawMin: 823, RawMax: 3540}

	// Every angle in range must survive angle -> raw -> angle exactly;
	// the raw span is much finer than one degree.
	for deg := 30; deg <= 150; deg++ {
		raw := cal.RawFromAngle(deg, 30, 150)
		back := cal.AngleFromRaw(raw, 30, 150)
		if back != deg {
			t.Errorf("round-trip failed: %d -> %d -> %d", deg, raw, back)
		}
	}
}

func TestPotCalibration_Degenerate(t *testing.T) {
	cal := PotCalibration{RawMin: 500, RawMax: 500}
	if got := cal.AngleFromRaw(500, 10, 170); got != 10 {
		t.Errorf("degenerate AngleFromRaw = %d, want 10", got)
	}
}
