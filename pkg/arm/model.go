package arm

import (
	"fmt"
)

// Pose is a complete set of angles, one per joint index, in degrees.
type Pose [JointCount]int

// Joint is one controllable axis: its bounds and its commanded angles.
// Current and Target always stay within [Min, Max].
type Joint struct {
	Index   int
	Name    JointName
	Min     int
	Max     int
	Current int
	Target  int
}

// Model owns the six joint records and the configured home pose. It is the
// single place commanded angles live; other components borrow it.
type Model struct {
	joints [JointCount]Joint
	home   Pose
}

// NewModel builds a model from the configured limits and home pose. Joints
// start at the home pose with no pending motion.
func NewModel(cfg *Config) (*Model, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	m := &Model{home: cfg.HomePose()}
	for i, jc := range cfg.Joints {
		m.joints[i] = Joint{
			Index:   i,
			Name:    jc.Name,
			Min:     jc.Min,
			Max:     jc.Max,
			Current: jc.Home,
			Target:  jc.Home,
		}
	}
	return m, nil
}

// Joint returns a copy of the joint record at index 0-5.
func (m *Model) Joint(i int) (Joint, error) {
	if i < 0 || i >= JointCount {
		return Joint{}, fmt.Errorf("joint index %d out of range", i)
	}
	return m.joints[i], nil
}

// Clamp forces an angle into the joint's valid range. The second return
// reports whether clamping occurred.
func (m *Model) Clamp(i, angle int) (int, bool) {
	j := m.joints[i]
	if angle < j.Min {
		return j.Min, true
	}
	if angle > j.Max {
		return j.Max, true
	}
	return angle, false
}

// SetTarget sets the joint's target angle, clamping into its range. It
// returns the applied angle and whether the request was clamped.
func (m *Model) SetTarget(i, angle int) (int, bool, error) {
	if i < 0 || i >= JointCount {
		return 0, false, fmt.Errorf("joint index %d out of range", i)
	}
	applied, clamped := m.Clamp(i, angle)
	m.joints[i].Target = applied
	return applied, clamped, nil
}

// SetCurrent sets the joint's current angle, clamping into its range. Teach
// mode uses it to mirror sensed angles straight into the model.
func (m *Model) SetCurrent(i, angle int) (int, bool, error) {
	if i < 0 || i >= JointCount {
		return 0, false, fmt.Errorf("joint index %d out of range", i)
	}
	applied, clamped := m.Clamp(i, angle)
	m.joints[i].Current = applied
	return applied, clamped, nil
}

// CheckPose reports an error if any angle in the pose is outside the
// corresponding joint's range.
func (m *Model) CheckPose(p Pose) error {
	for i, a := range p {
		j := m.joints[i]
		if a < j.Min || a > j.Max {
			return fmt.Errorf("joint %d (%s): angle %d outside [%d, %d]",
				i+1, j.Name, a, j.Min, j.Max)
		}
	}
	return nil
}

// ApplyTargets sets all six targets at once. The pose is validated first:
// either every target is accepted or none is.
func (m *Model) ApplyTargets(p Pose) error {
	if err := m.CheckPose(p); err != nil {
		return err
	}
	for i, a := range p {
		m.joints[i].Target = a
	}
	return nil
}

// Currents returns the current angles as a pose snapshot.
func (m *Model) Currents() Pose {
	var p Pose
	for i, j := range m.joints {
		p[i] = j.Current
	}
	return p
}

// Targets returns the target angles as a pose snapshot.
func (m *Model) Targets() Pose {
	var p Pose
	for i, j := range m.joints {
		p[i] = j.Target
	}
	return p
}

// Home returns the configured home pose.
func (m *Model) Home() Pose {
	return m.home
}

// AtTarget reports whether the joint's current angle equals its target.
func (m *Model) AtTarget(i int) bool {
	return m.joints[i].Current == m.joints[i].Target
}

// AllAtTarget reports whether every joint has reached its target.
func (m *Model) AllAtTarget() bool {
	for i := range m.joints {
		if !m.AtTarget(i) {
			return false
		}
	}
	return true
}
