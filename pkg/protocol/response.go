package protocol

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/example/armctl/pkg/arm"
)

// Response line prefixes.
const (
	OKPrefix       = "OK:"
	ErrorPrefix    = "ERROR:"
	SequencePrefix = "SEQUENCE:"
)

// Reason tokens carried by ERROR responses.
const (
	ReasonUnknownCommand  = "UnknownCommand"
	ReasonInvalidCommand  = "InvalidCommand"
	ReasonMissingArgument = "MissingArgument"
	ReasonLineTooLong     = "LineTooLong"
	ReasonInvalidState    = "InvalidState"
	ReasonNotFound        = "NotFound"
	ReasonEmptySequence   = "EmptySequence"
	ReasonInvalidName     = "InvalidName"
	ReasonInvalidHomePose = "InvalidHomePose"
	ReasonHardware        = "Hardware"
)

// OK formats a success response.
func OK(detail string) string {
	return OKPrefix + detail
}

// OKf formats a success response with a formatted payload.
func OKf(format string, args ...any) string {
	return OKPrefix + fmt.Sprintf(format, args...)
}

// ErrorReply formats an error response from a reason token.
func ErrorReply(reason string) string {
	return ErrorPrefix + reason
}

// SequenceItem formats one LIST_SEQUENCES entry.
func SequenceItem(name string) string {
	return SequencePrefix + name
}

// FormatPositions renders a pose as the STATUS payload:
// J1:<a>,J2:<a>,...,J6:<a>. The desktop GUI parses this form.
func FormatPositions(p arm.Pose) string {
	var b strings.Builder
	for i, a := range p {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('J')
		b.WriteString(strconv.Itoa(i + 1))
		b.WriteByte(':')
		b.WriteString(strconv.Itoa(a))
	}
	return b.String()
}

// ParsePositions is the host-side inverse of FormatPositions. It accepts
// the payload with or without its OK: prefix.
func ParsePositions(payload string) (arm.Pose, error) {
	payload = strings.TrimPrefix(strings.TrimSpace(payload), OKPrefix)
	parts := strings.Split(payload, ",")
	if len(parts) != arm.JointCount {
		return arm.Pose{}, fmt.Errorf("position payload has %d fields, want %d", len(parts), arm.JointCount)
	}
	var p arm.Pose
	for i, part := range parts {
		label, value, ok := strings.Cut(part, ":")
		if !ok || label != "J"+strconv.Itoa(i+1) {
			return arm.Pose{}, fmt.Errorf("bad position field %q", part)
		}
		a, err := strconv.Atoi(value)
		if err != nil {
			return arm.Pose{}, fmt.Errorf("bad angle in %q: %w", part, err)
		}
		p[i] = a
	}
	return p, nil
}
