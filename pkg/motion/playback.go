package motion

import (
	"context"
	"time"

	"github.com/example/armctl/pkg/store"
)

// playback tracks progress through the sequence being replayed.
type playback struct {
	name    string
	steps   []store.Step
	idx     int
	elapsed time.Duration
}

// StartPlay begins playback of a sequence: the first step's pose becomes
// the joint targets and subsequent TickPlay calls walk the arm through the
// remaining steps. An empty sequence is refused.
func (c *Controller) StartPlay(seq *store.Sequence) error {
	if len(seq.Steps) == 0 {
		return store.ErrEmptySequence
	}
	c.play = &playback{name: seq.Name, steps: seq.Steps}
	c.applyStep(0)
	return nil
}

// applyStep retargets all joints at the step's pose. Out-of-range angles
// clamp, same as a direct joint command.
func (c *Controller) applyStep(i int) {
	pose := c.play.steps[i].Pose
	for j := range pose {
		c.model.SetTarget(j, pose[j])
	}
}

// TickPlay advances playback by one move tick of the given duration: joints
// step toward the current pose, and the sequence moves to its next step
// once every joint has arrived and the step's delay has elapsed. The delay
// is a minimum, not a deadline. It reports true when the sequence is done.
func (c *Controller) TickPlay(ctx context.Context, tick time.Duration) (bool, error) {
	if c.play == nil {
		return true, nil
	}
	moving, err := c.Step(ctx)
	if err != nil {
		return false, err
	}
	c.play.elapsed += tick
	if moving || c.play.elapsed < c.play.steps[c.play.idx].Delay() {
		return false, nil
	}
	c.play.idx++
	if c.play.idx >= len(c.play.steps) {
		c.play = nil
		return true, nil
	}
	c.play.elapsed = 0
	c.applyStep(c.play.idx)
	return false, nil
}

// Playing reports whether a sequence replay is in progress.
func (c *Controller) Playing() bool {
	return c.play != nil
}

// PlayingName returns the name of the sequence being replayed, or "".
func (c *Controller) PlayingName() string {
	if c.play == nil {
		return ""
	}
	return c.play.name
}
