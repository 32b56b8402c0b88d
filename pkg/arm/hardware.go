package arm

import "context"

// Hardware abstracts the physical arm: position sensing and servo output.
// Joint indices are 0-based. Implementations are not required to be safe for
// concurrent use; the control loop is the single caller.
type Hardware interface {
	// ReadPot returns the raw position-sensor reading for a joint. The
	// raw range is described by the joint's PotCalibration.
	ReadPot(ctx context.Context, joint int) (int, error)

	// WriteServo commands a joint to the given angle in degrees. The
	// caller is responsible for keeping angles within joint limits.
	WriteServo(ctx context.Context, joint int, angle int) error

	// SetTorque enables or disables holding torque on all joints. Teach
	// mode releases torque so the arm can be moved by hand.
	SetTorque(ctx context.Context, on bool) error

	// Close releases the underlying connection.
	Close() error
}
