// Package motion moves joints toward commanded targets one degree per tick
// and drives sequence playback on the same cadence.
package motion

import (
	"context"
	"errors"
	"fmt"

	"github.com/example/armctl/pkg/arm"
)

// ErrInvalidHomePose is returned by GoHome when the configured home pose
// violates a joint limit. No targets change in that case.
var ErrInvalidHomePose = errors.New("home pose outside joint limits")

// Controller steps the arm. It borrows the model and hardware from its
// owner and must only be called from the control loop goroutine.
type Controller struct {
	model *arm.Model
	hw    arm.Hardware
	play  *playback
}

// New returns a motion controller over the given model and hardware.
func New(model *arm.Model, hw arm.Hardware) *Controller {
	return &Controller{model: model, hw: hw}
}

// SetTarget requests a joint move. The angle is clamped into the joint's
// range; the applied angle and whether clamping occurred are returned.
// Only a bad joint index is an error.
func (c *Controller) SetTarget(joint, angle int) (int, bool, error) {
	return c.model.SetTarget(joint, angle)
}

// Step advances every off-target joint one degree toward its target and
// writes the new angle to the hardware. Angles are integral degrees, so a
// one-degree step lands exactly on the target and never overshoots. It
// reports whether any joint is still moving afterwards. A hardware write
// failure aborts the remainder of the tick; the next tick resumes.
func (c *Controller) Step(ctx context.Context) (bool, error) {
	for i := 0; i < arm.JointCount; i++ {
		j, err := c.model.Joint(i)
		if err != nil {
			return false, err
		}
		if j.Current == j.Target {
			continue
		}
		next := j.Current
		if j.Target > j.Current {
			next++
		} else {
			next--
		}
		if err := c.hw.WriteServo(ctx, i, next); err != nil {
			return !c.model.AllAtTarget(), fmt.Errorf("write joint %d: %w", i+1, err)
		}
		if _, _, err := c.model.SetCurrent(i, next); err != nil {
			return false, err
		}
	}
	return !c.model.AllAtTarget(), nil
}

// GoHome atomically retargets all joints to the home pose. If the home
// pose violates a limit, nothing changes.
func (c *Controller) GoHome() error {
	if err := c.model.ApplyTargets(c.model.Home()); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidHomePose, err)
	}
	return nil
}

// Stop aborts playback and freezes every target at the joint's current
// angle, so the next ticks leave the arm where it is.
func (c *Controller) Stop() {
	c.play = nil
	cur := c.model.Currents()
	for i := 0; i < arm.JointCount; i++ {
		c.model.SetTarget(i, cur[i])
	}
}

// Moving reports whether any joint is off target.
func (c *Controller) Moving() bool {
	return !c.model.AllAtTarget()
}
