// Package arm provides the joint model, calibration, configuration and
// hardware abstractions for a 6-DOF servo arm.
package arm

// JointName identifies a joint in the arm.
type JointName string

// Joint names in index order (matching wire indices J1-J6).
const (
	BaseRotation  JointName = "base_rotation"
	Shoulder      JointName = "shoulder"
	Elbow         JointName = "elbow"
	WristRotation JointName = "wrist_rotation"
	WristBend     JointName = "wrist_bend"
	Gripper       JointName = "gripper"
)

// JointCount is the number of joints in the arm.
const JointCount = 6

// JointNames returns all joint names in order (matching joint indices 0-5).
func JointNames() []JointName {
	return []JointName{
		BaseRotation,
		Shoulder,
		Elbow,
		WristRotation,
		WristBend,
		Gripper,
	}
}
