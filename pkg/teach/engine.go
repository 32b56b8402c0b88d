// Package teach implements hand-guided teaching: torque is released so the
// arm can be moved by hand, pot positions are sampled on a fixed cadence,
// and sampled poses can be recorded into a replayable sequence.
package teach

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/example/armctl/pkg/arm"
	"github.com/example/armctl/pkg/store"
)

// ErrInvalidState is returned when an operation is not legal in the
// engine's current state, e.g. recording before teach mode is active.
var ErrInvalidState = errors.New("invalid teach state")

type state int

const (
	stateInactive state = iota
	stateActive
	stateRecording
)

// Engine runs teach mode. It borrows the model and hardware from the
// control loop and must only be called from that goroutine.
type Engine struct {
	model    *arm.Model
	hw       arm.Hardware
	joints   [arm.JointCount]arm.JointConfig
	interval time.Duration

	st      state
	buf     []store.Step
	pending []store.Step
}

// NewEngine returns an inactive teach engine. The config supplies the pot
// calibrations and the sampling interval used for recorded step delays.
func NewEngine(cfg *arm.Config, model *arm.Model, hw arm.Hardware) *Engine {
	return &Engine{
		model:    model,
		hw:       hw,
		joints:   cfg.Joints,
		interval: cfg.TeachInterval(),
	}
}

// StartTeach releases servo torque so the arm can be positioned by hand.
// Only legal when the engine is inactive.
func (e *Engine) StartTeach(ctx context.Context) error {
	if e.st != stateInactive {
		return fmt.Errorf("%w: teach already active", ErrInvalidState)
	}
	if err := e.hw.SetTorque(ctx, false); err != nil {
		return fmt.Errorf("release torque: %w", err)
	}
	e.st = stateActive
	return nil
}

// StopTeach restores torque and deactivates the engine. Recording must be
// stopped first.
func (e *Engine) StopTeach(ctx context.Context) error {
	switch e.st {
	case stateInactive:
		return fmt.Errorf("%w: teach not active", ErrInvalidState)
	case stateRecording:
		return fmt.Errorf("%w: recording in progress", ErrInvalidState)
	}
	if err := e.hw.SetTorque(ctx, true); err != nil {
		return fmt.Errorf("restore torque: %w", err)
	}
	e.st = stateInactive
	return nil
}

// Sample reads every pot, maps raw values to joint angles, and folds the
// sensed pose into the model as both current and target. Each angle is also
// mirrored back to the servo output so that restoring torque holds the arm
// where it was led instead of snapping it to a stale position. While
// recording, the pose is appended to the buffer; the first recorded step
// carries no delay, later ones carry the sampling interval.
func (e *Engine) Sample(ctx context.Context) error {
	if e.st == stateInactive {
		return fmt.Errorf("%w: teach not active", ErrInvalidState)
	}

	var pose arm.Pose
	for i := 0; i < arm.JointCount; i++ {
		raw, err := e.hw.ReadPot(ctx, i)
		if err != nil {
			return fmt.Errorf("read pot %d: %w", i+1, err)
		}
		jc := e.joints[i]
		pose[i] = jc.Pot.AngleFromRaw(raw, jc.Min, jc.Max)
	}

	for i, a := range pose {
		e.model.SetCurrent(i, a)
		e.model.SetTarget(i, a)
		if err := e.hw.WriteServo(ctx, i, a); err != nil {
			return fmt.Errorf("mirror joint %d: %w", i+1, err)
		}
	}

	if e.st == stateRecording {
		delay := e.interval
		if len(e.buf) == 0 {
			delay = 0
		}
		e.buf = append(e.buf, store.NewStep(pose, delay))
	}
	return nil
}

// StartRecord opens a fresh recording buffer. Teach mode must be active.
func (e *Engine) StartRecord() error {
	switch e.st {
	case stateInactive:
		return fmt.Errorf("%w: teach not active", ErrInvalidState)
	case stateRecording:
		return fmt.Errorf("%w: already recording", ErrInvalidState)
	}
	e.buf = nil
	e.st = stateRecording
	return nil
}

// StopRecord closes the buffer and keeps it as the pending sequence,
// returning the number of recorded steps. Teach mode stays active.
func (e *Engine) StopRecord() (int, error) {
	if e.st != stateRecording {
		return 0, fmt.Errorf("%w: not recording", ErrInvalidState)
	}
	e.pending = e.buf
	e.buf = nil
	e.st = stateActive
	return len(e.pending), nil
}

// Abort forces the engine back to inactive from any state. A recording in
// progress becomes the pending sequence rather than being lost. The torque
// restore error, if any, is returned for logging; the engine deactivates
// regardless.
func (e *Engine) Abort(ctx context.Context) error {
	if e.st == stateInactive {
		return nil
	}
	if e.st == stateRecording {
		e.pending = e.buf
		e.buf = nil
	}
	e.st = stateInactive
	if err := e.hw.SetTorque(ctx, true); err != nil {
		return fmt.Errorf("restore torque: %w", err)
	}
	return nil
}

// PendingSteps returns the most recently recorded steps awaiting save, or
// nil when there are none.
func (e *Engine) PendingSteps() []store.Step {
	return e.pending
}

// ClearPending drops the pending steps, typically after a successful save.
func (e *Engine) ClearPending() {
	e.pending = nil
}

// Active reports whether teach mode is on (recording included).
func (e *Engine) Active() bool {
	return e.st != stateInactive
}

// Recording reports whether samples are being recorded.
func (e *Engine) Recording() bool {
	return e.st == stateRecording
}
