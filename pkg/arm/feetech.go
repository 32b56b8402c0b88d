package arm

import (
	"context"
	"fmt"

	"github.com/hipsterbrown/feetech-servo/feetech"
)

// FeetechArm drives a real arm whose joints are Feetech serial bus servos.
// Servo IDs 1-6 map to joint indices 0-5. The servo's magnetic encoder
// doubles as the position sensor for teach mode.
type FeetechArm struct {
	bus    *feetech.Bus
	group  *feetech.ServoGroup
	servos [JointCount]*feetech.Servo
	joints [JointCount]JointConfig
}

// NewFeetechArm opens the servo bus and prepares one servo per joint.
func NewFeetechArm(cfg *Config) (*FeetechArm, error) {
	bus, err := feetech.NewBus(feetech.BusConfig{
		Port:     cfg.Bus.Device,
		BaudRate: 1_000_000,
		Protocol: feetech.ProtocolSTS,
	})
	if err != nil {
		return nil, fmt.Errorf("open bus: %w", err)
	}

	ids := make([]int, JointCount)
	for i := range ids {
		ids[i] = i + 1
	}

	a := &FeetechArm{
		bus:    bus,
		group:  feetech.NewServoGroupByIDs(bus, ids...),
		joints: cfg.Joints,
	}
	for i := range a.servos {
		a.servos[i] = feetech.NewServo(bus, i+1, nil)
	}
	return a, nil
}

// Close closes the servo bus connection.
func (a *FeetechArm) Close() error {
	return a.bus.Close()
}

// ReadPot reads the raw encoder position of one joint's servo.
func (a *FeetechArm) ReadPot(ctx context.Context, joint int) (int, error) {
	if joint < 0 || joint >= JointCount {
		return 0, fmt.Errorf("joint index %d out of range", joint)
	}
	raw, err := a.servos[joint].Position(ctx)
	if err != nil {
		return 0, fmt.Errorf("read joint %d position: %w", joint+1, err)
	}
	return raw, nil
}

// WriteServo commands one joint to an angle in degrees, converting through
// the joint's pot calibration to the servo's raw position range.
func (a *FeetechArm) WriteServo(ctx context.Context, joint int, angle int) error {
	if joint < 0 || joint >= JointCount {
		return fmt.Errorf("joint index %d out of range", joint)
	}
	jc := a.joints[joint]
	raw := jc.Pot.RawFromAngle(angle, jc.Min, jc.Max)
	if err := a.servos[joint].SetPosition(ctx, raw); err != nil {
		return fmt.Errorf("write joint %d position: %w", joint+1, err)
	}
	return nil
}

// SetTorque enables or disables torque on all servos at once.
func (a *FeetechArm) SetTorque(ctx context.Context, on bool) error {
	var err error
	if on {
		err = a.group.EnableAll(ctx)
	} else {
		err = a.group.DisableAll(ctx)
	}
	if err != nil {
		return fmt.Errorf("set torque: %w", err)
	}
	return nil
}
