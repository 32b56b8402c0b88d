package arm

// PotCalibration holds the sensed range of one joint's position sensor.
// Raw readings are mapped linearly onto the joint's angle range.
type PotCalibration struct {
	RawMin int `json:"raw_min"`
	RawMax int `json:"raw_max"`
}

// DefaultPotCalibration covers the full range of a 12-bit servo encoder.
func DefaultPotCalibration() PotCalibration {
	return PotCalibration{RawMin: 0, RawMax: 4095}
}

// AngleFromRaw converts a raw sensor reading to an angle within
// [minDeg, maxDeg]. Readings outside the calibrated range clamp to the
// nearest bound. A degenerate calibration (RawMin == RawMax) maps to minDeg.
func (c PotCalibration) AngleFromRaw(raw, minDeg, maxDeg int) int {
	rawSpan := c.RawMax - c.RawMin
	if rawSpan == 0 {
		return minDeg
	}
	if raw < c.RawMin {
		raw = c.RawMin
	}
	if raw > c.RawMax {
		raw = c.RawMax
	}
	degSpan := maxDeg - minDeg
	// Round to the nearest degree.
	return minDeg + ((raw-c.RawMin)*degSpan+rawSpan/2)/rawSpan
}

// RawFromAngle converts an angle within [minDeg, maxDeg] back to a raw
// sensor value. It is the inverse of AngleFromRaw up to rounding.
func (c PotCalibration) RawFromAngle(deg, minDeg, maxDeg int) int {
	degSpan := maxDeg - minDeg
	if degSpan == 0 {
		return c.RawMin
	}
	if deg < minDeg {
		deg = minDeg
	}
	if deg > maxDeg {
		deg = maxDeg
	}
	rawSpan := c.RawMax - c.RawMin
	return c.RawMin + ((deg-minDeg)*rawSpan+degSpan/2)/degSpan
}
