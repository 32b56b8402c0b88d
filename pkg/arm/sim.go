package arm

import (
	"context"
	"fmt"
	"sync"
)

// ServoWrite records one WriteServo call made against the simulator.
type ServoWrite struct {
	Joint int
	Angle int
}

// Sim is an in-memory Hardware implementation for tests and for running the
// controller without an arm attached. Servo writes move the simulated pots
// along with them unless a pot has been pinned with SetPot, so a simulated
// arm always "is" where it was last commanded.
type Sim struct {
	mu     sync.Mutex
	joints [JointCount]JointConfig
	pots   [JointCount]int
	pinned [JointCount]bool
	servos [JointCount]int
	torque bool

	writes []ServoWrite

	// Error overrides for fault-injection tests.
	ReadErr  error
	WriteErr error
}

// NewSim builds a simulator resting at the configured home pose.
func NewSim(cfg *Config) *Sim {
	s := &Sim{joints: cfg.Joints, torque: true}
	for i, jc := range cfg.Joints {
		s.servos[i] = jc.Home
		s.pots[i] = jc.Pot.RawFromAngle(jc.Home, jc.Min, jc.Max)
	}
	return s
}

// ReadPot returns the simulated raw sensor value for a joint.
func (s *Sim) ReadPot(_ context.Context, joint int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ReadErr != nil {
		return 0, s.ReadErr
	}
	if joint < 0 || joint >= JointCount {
		return 0, fmt.Errorf("joint index %d out of range", joint)
	}
	return s.pots[joint], nil
}

// WriteServo records the commanded angle and, unless pinned, drags the
// simulated pot to match.
func (s *Sim) WriteServo(_ context.Context, joint int, angle int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.WriteErr != nil {
		return s.WriteErr
	}
	if joint < 0 || joint >= JointCount {
		return fmt.Errorf("joint index %d out of range", joint)
	}
	s.servos[joint] = angle
	s.writes = append(s.writes, ServoWrite{Joint: joint, Angle: angle})
	if !s.pinned[joint] {
		jc := s.joints[joint]
		s.pots[joint] = jc.Pot.RawFromAngle(angle, jc.Min, jc.Max)
	}
	return nil
}

// SetTorque records the torque state.
func (s *Sim) SetTorque(_ context.Context, on bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.torque = on
	return nil
}

// Close is a no-op.
func (s *Sim) Close() error { return nil }

// SetPot pins a joint's raw pot value, as if a hand were holding the arm
// there. Subsequent servo writes no longer move it.
func (s *Sim) SetPot(joint, raw int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pots[joint] = raw
	s.pinned[joint] = true
}

// SetPotAngle pins a joint's pot to the raw value corresponding to an angle.
func (s *Sim) SetPotAngle(joint, angle int) {
	jc := s.joints[joint]
	s.SetPot(joint, jc.Pot.RawFromAngle(angle, jc.Min, jc.Max))
}

// ReleasePot unpins a joint so servo writes move its pot again.
func (s *Sim) ReleasePot(joint int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pinned[joint] = false
}

// Servo returns the last commanded angle for a joint.
func (s *Sim) Servo(joint int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.servos[joint]
}

// Torque returns the simulated torque state.
func (s *Sim) Torque() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.torque
}

// Writes returns a copy of the servo write history.
func (s *Sim) Writes() []ServoWrite {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]ServoWrite, len(s.writes))
	copy(out, s.writes)
	return out
}
