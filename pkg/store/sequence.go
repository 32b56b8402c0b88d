// Package store persists named pose sequences for later playback.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/example/armctl/pkg/arm"
)

// Errors returned by sequence stores.
var (
	ErrNotFound      = errors.New("sequence not found")
	ErrEmptySequence = errors.New("sequence has no steps")
	ErrInvalidName   = errors.New("invalid sequence name")
)

// MaxNameLen bounds sequence names so they fit on a single protocol line.
const MaxNameLen = 64

// Step is one pose in a sequence plus the delay to observe for it during
// playback, in milliseconds (derived from the sampling cadence while
// recording).
type Step struct {
	Pose    arm.Pose `json:"pose"`
	DelayMS int64    `json:"delay_ms"`
}

// NewStep builds a step from a pose and a delay.
func NewStep(p arm.Pose, d time.Duration) Step {
	return Step{Pose: p, DelayMS: d.Milliseconds()}
}

// Delay returns the step delay as a duration.
func (s Step) Delay() time.Duration {
	return time.Duration(s.DelayMS) * time.Millisecond
}

// Sequence is a named, ordered list of timed poses.
type Sequence struct {
	Name  string `json:"name"`
	Steps []Step `json:"steps"`
}

// Clone returns a deep copy, so stored sequences cannot be mutated through
// previously returned pointers.
func (s *Sequence) Clone() *Sequence {
	out := &Sequence{Name: s.Name, Steps: make([]Step, len(s.Steps))}
	copy(out.Steps, s.Steps)
	return out
}

// ValidateName enforces the naming rules: non-empty, bounded length, no
// line terminators.
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty", ErrInvalidName)
	}
	if len(name) > MaxNameLen {
		return fmt.Errorf("%w: longer than %d bytes", ErrInvalidName, MaxNameLen)
	}
	if strings.ContainsAny(name, "\r\n") {
		return fmt.Errorf("%w: contains line terminator", ErrInvalidName)
	}
	return nil
}

// Store saves and retrieves named sequences. Save overwrites an existing
// sequence with the same name. List returns names in lexical order.
type Store interface {
	Save(ctx context.Context, seq *Sequence) error
	Load(ctx context.Context, name string) (*Sequence, error)
	List(ctx context.Context) ([]string, error)
	Delete(ctx context.Context, name string) error
}

// validateForSave checks everything Save implementations require.
func validateForSave(seq *Sequence) error {
	if err := ValidateName(seq.Name); err != nil {
		return err
	}
	if len(seq.Steps) == 0 {
		return ErrEmptySequence
	}
	return nil
}
