// Package control runs the command loop: it parses protocol lines, applies
// them to the motion controller, teach engine, and sequence store, and
// drives the periodic move and teach ticks. All state lives on one
// goroutine; the serial link is the only way in.
package control

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/example/armctl/pkg/arm"
	"github.com/example/armctl/pkg/motion"
	"github.com/example/armctl/pkg/protocol"
	"github.com/example/armctl/pkg/store"
	"github.com/example/armctl/pkg/teach"
)

// ErrInvalidState is returned when a command is refused in the current
// controller state, e.g. a joint move during playback.
var ErrInvalidState = errors.New("command not allowed in current state")

// Controller owns the arm. Commands and ticks must stay on one goroutine;
// Run arranges that.
type Controller struct {
	cfg    *arm.Config
	model  *arm.Model
	hw     arm.Hardware
	motion *motion.Controller
	teach  *teach.Engine
	store  store.Store
	logger *slog.Logger

	// loaded caches the last LOAD_SEQUENCE result so PLAY_SEQUENCE of the
	// same name skips the store.
	loaded *store.Sequence
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the structured logger. The default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// New builds a controller over the given hardware and sequence store. The
// model starts at the configured home pose.
func New(cfg *arm.Config, hw arm.Hardware, st store.Store, opts ...Option) (*Controller, error) {
	model, err := arm.NewModel(cfg)
	if err != nil {
		return nil, fmt.Errorf("build joint model: %w", err)
	}
	c := &Controller{
		cfg:    cfg,
		model:  model,
		hw:     hw,
		motion: motion.New(model, hw),
		teach:  teach.NewEngine(cfg, model, hw),
		store:  st,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// State derives the current mode from the components.
func (c *Controller) State() State {
	switch {
	case c.teach.Recording():
		return Recording
	case c.teach.Active():
		return TeachActive
	case c.motion.Playing():
		return Playing
	case c.motion.Moving():
		return Moving
	}
	return Idle
}

// lineEvent carries one read result from the reader goroutine.
type lineEvent struct {
	line string
	err  error
}

// Run serves the protocol over rw until ctx is canceled or the stream
// ends. A reader goroutine feeds lines into the loop; command handling and
// both tick kinds all happen here, so nothing else touches the model.
func (c *Controller) Run(ctx context.Context, rw io.ReadWriter) error {
	c.syncHome(ctx)
	c.logger.Info("control loop started",
		"move_interval", c.cfg.MoveInterval(),
		"teach_interval", c.cfg.TeachInterval())

	lines := make(chan lineEvent)
	go func() {
		defer close(lines)
		lr := protocol.NewLineReader(rw)
		for {
			line, err := lr.ReadLine()
			if errors.Is(err, io.EOF) {
				return
			}
			select {
			case lines <- lineEvent{line: line, err: err}:
			case <-ctx.Done():
				return
			}
			if err != nil && !errors.Is(err, protocol.ErrLineTooLong) {
				return
			}
		}
	}()

	moveTick := time.NewTicker(c.cfg.MoveInterval())
	defer moveTick.Stop()
	teachTick := time.NewTicker(c.cfg.TeachInterval())
	defer teachTick.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-lines:
			if !ok {
				return nil
			}
			if ev.err != nil {
				if errors.Is(ev.err, protocol.ErrLineTooLong) {
					if err := writeLines(rw, []string{protocol.ErrorReply(protocol.ReasonLineTooLong)}); err != nil {
						return err
					}
					continue
				}
				return fmt.Errorf("read commands: %w", ev.err)
			}
			if err := writeLines(rw, c.HandleLine(ctx, ev.line)); err != nil {
				return err
			}
		case <-moveTick.C:
			c.TickMove(ctx)
		case <-teachTick.C:
			c.TickTeach(ctx)
		}
	}
}

// syncHome writes the home pose to the servos so hardware agrees with the
// freshly built model. Failures are logged; the loop still starts.
func (c *Controller) syncHome(ctx context.Context) {
	home := c.model.Home()
	for i := 0; i < arm.JointCount; i++ {
		if err := c.hw.WriteServo(ctx, i, home[i]); err != nil {
			c.logger.Warn("initial home write failed", "joint", i+1, "err", err)
			return
		}
	}
}

func writeLines(w io.Writer, lines []string) error {
	for _, line := range lines {
		if _, err := io.WriteString(w, line+"\n"); err != nil {
			return fmt.Errorf("write response: %w", err)
		}
	}
	return nil
}

// HandleLine parses and dispatches one command line, returning the
// response lines to send. Every line gets at least one response.
func (c *Controller) HandleLine(ctx context.Context, line string) []string {
	cmd, err := protocol.ParseLine(line)
	if err != nil {
		c.logger.Debug("rejected line", "line", line, "err", err)
		return errorLines(err)
	}
	c.logger.Debug("command", "kind", cmd.Kind, "state", c.State())
	return c.dispatch(ctx, cmd)
}

// TickMove advances motion by one move interval: playback when a sequence
// is running, plain stepping otherwise. Errors are logged, never fatal.
func (c *Controller) TickMove(ctx context.Context) {
	if c.teach.Active() {
		// Torque is off; the teach ticker owns the arm.
		return
	}
	if c.motion.Playing() {
		name := c.motion.PlayingName()
		done, err := c.motion.TickPlay(ctx, c.cfg.MoveInterval())
		if err != nil {
			c.logger.Warn("playback tick failed", "sequence", name, "err", err)
		}
		if done {
			c.logger.Info("playback finished", "sequence", name)
		}
		return
	}
	if _, err := c.motion.Step(ctx); err != nil {
		c.logger.Warn("motion tick failed", "err", err)
	}
}

// TickTeach samples the pots once while teach mode is active. Errors are
// logged, never fatal.
func (c *Controller) TickTeach(ctx context.Context) {
	if !c.teach.Active() {
		return
	}
	if err := c.teach.Sample(ctx); err != nil {
		c.logger.Warn("teach sample failed", "err", err)
	}
}

func (c *Controller) dispatch(ctx context.Context, cmd protocol.Command) []string {
	if !c.cfg.TeachEnabled {
		switch cmd.Kind {
		case protocol.KindTeachStart, protocol.KindTeachStop,
			protocol.KindRecordStart, protocol.KindRecordStop:
			// Teach support compiled out: the commands do not exist.
			return []string{protocol.ErrorReply(protocol.ReasonUnknownCommand)}
		}
	}

	switch cmd.Kind {
	case protocol.KindSetJoint:
		if st := c.State(); st != Idle && st != Moving {
			return errorLines(ErrInvalidState)
		}
		applied, clamped, err := c.motion.SetTarget(cmd.Joint, cmd.Angle)
		if err != nil {
			return errorLines(err)
		}
		if clamped {
			c.logger.Debug("joint target clamped",
				"joint", cmd.Joint+1, "requested", cmd.Angle, "applied", applied)
		}
		return okLines("%d", applied)

	case protocol.KindHome:
		if st := c.State(); st != Idle && st != Moving {
			return errorLines(ErrInvalidState)
		}
		if err := c.motion.GoHome(); err != nil {
			return errorLines(err)
		}
		return okLines("HOME")

	case protocol.KindStop:
		// The panic button: always legal, leaves every mode.
		if c.teach.Active() {
			if err := c.teach.Abort(ctx); err != nil {
				c.logger.Warn("torque restore failed on stop", "err", err)
			}
		}
		c.motion.Stop()
		return okLines("STOPPED")

	case protocol.KindStatus:
		return []string{protocol.OK(protocol.FormatPositions(c.model.Currents()))}

	case protocol.KindReadPositions:
		pose, err := c.readPots(ctx)
		if err != nil {
			c.logger.Warn("position read failed", "err", err)
			return errorLines(err)
		}
		return []string{protocol.OK(protocol.FormatPositions(pose))}

	case protocol.KindTeachStart:
		if c.teach.Active() || c.motion.Playing() {
			return errorLines(ErrInvalidState)
		}
		c.motion.Stop()
		if err := c.teach.StartTeach(ctx); err != nil {
			return errorLines(err)
		}
		c.logger.Info("teach mode on")
		return okLines("TEACH_ACTIVE")

	case protocol.KindTeachStop:
		if err := c.teach.StopTeach(ctx); err != nil {
			return errorLines(err)
		}
		c.logger.Info("teach mode off")
		return okLines("TEACH_STOPPED")

	case protocol.KindRecordStart:
		if err := c.teach.StartRecord(); err != nil {
			return errorLines(err)
		}
		return okLines("RECORDING")

	case protocol.KindRecordStop:
		n, err := c.teach.StopRecord()
		if err != nil {
			return errorLines(err)
		}
		c.logger.Info("recording stopped", "steps", n)
		return okLines("RECORDED:%d", n)

	case protocol.KindSaveSequence:
		steps := c.teach.PendingSteps()
		if len(steps) == 0 {
			return errorLines(store.ErrEmptySequence)
		}
		seq := &store.Sequence{Name: cmd.Name, Steps: steps}
		if err := c.store.Save(ctx, seq); err != nil {
			return errorLines(err)
		}
		c.teach.ClearPending()
		if c.loaded != nil && c.loaded.Name == cmd.Name {
			c.loaded = nil
		}
		c.logger.Info("sequence saved", "name", cmd.Name, "steps", len(steps))
		return okLines("SAVED:%s", cmd.Name)

	case protocol.KindLoadSequence:
		seq, err := c.store.Load(ctx, cmd.Name)
		if err != nil {
			return errorLines(err)
		}
		c.loaded = seq
		return okLines("LOADED:%s:%d", seq.Name, len(seq.Steps))

	case protocol.KindPlaySequence:
		if st := c.State(); st != Idle && st != Moving {
			return errorLines(ErrInvalidState)
		}
		seq := c.loaded
		if seq == nil || seq.Name != cmd.Name {
			var err error
			seq, err = c.store.Load(ctx, cmd.Name)
			if err != nil {
				return errorLines(err)
			}
		}
		if err := c.motion.StartPlay(seq); err != nil {
			return errorLines(err)
		}
		c.logger.Info("playback started", "sequence", seq.Name, "steps", len(seq.Steps))
		return okLines("PLAYING:%s", seq.Name)

	case protocol.KindDeleteSequence:
		if err := c.store.Delete(ctx, cmd.Name); err != nil {
			return errorLines(err)
		}
		if c.loaded != nil && c.loaded.Name == cmd.Name {
			c.loaded = nil
		}
		return okLines("DELETED:%s", cmd.Name)

	case protocol.KindListSequences:
		names, err := c.store.List(ctx)
		if err != nil {
			return errorLines(err)
		}
		out := make([]string, 0, len(names)+1)
		for _, name := range names {
			out = append(out, protocol.SequenceItem(name))
		}
		return append(out, protocol.OKf("%d", len(names)))
	}

	return errorLines(protocol.ErrUnknownCommand)
}

// readPots senses the pose from the pots, bypassing the model.
func (c *Controller) readPots(ctx context.Context) (arm.Pose, error) {
	var pose arm.Pose
	for i := 0; i < arm.JointCount; i++ {
		raw, err := c.hw.ReadPot(ctx, i)
		if err != nil {
			return arm.Pose{}, fmt.Errorf("read pot %d: %w", i+1, err)
		}
		jc := c.cfg.Joints[i]
		pose[i] = jc.Pot.AngleFromRaw(raw, jc.Min, jc.Max)
	}
	return pose, nil
}

func okLines(format string, args ...any) []string {
	return []string{protocol.OKf(format, args...)}
}

func errorLines(err error) []string {
	return []string{protocol.ErrorReply(reasonFor(err))}
}

// reasonFor maps an error to its wire reason token. Anything unrecognized
// is a hardware or internal failure.
func reasonFor(err error) string {
	switch {
	case errors.Is(err, protocol.ErrUnknownCommand):
		return protocol.ReasonUnknownCommand
	case errors.Is(err, protocol.ErrInvalidCommand):
		return protocol.ReasonInvalidCommand
	case errors.Is(err, protocol.ErrMissingArgument):
		return protocol.ReasonMissingArgument
	case errors.Is(err, protocol.ErrLineTooLong):
		return protocol.ReasonLineTooLong
	case errors.Is(err, ErrInvalidState), errors.Is(err, teach.ErrInvalidState):
		return protocol.ReasonInvalidState
	case errors.Is(err, store.ErrNotFound):
		return protocol.ReasonNotFound
	case errors.Is(err, store.ErrEmptySequence):
		return protocol.ReasonEmptySequence
	case errors.Is(err, store.ErrInvalidName):
		return protocol.ReasonInvalidName
	case errors.Is(err, motion.ErrInvalidHomePose):
		return protocol.ReasonInvalidHomePose
	}
	return protocol.ReasonHardware
}
