// Package protocol implements the line-based ASCII command protocol spoken
// over the serial link: parsing incoming command lines and formatting the
// OK/ERROR/SEQUENCE response lines.
package protocol

import "errors"

// Parse errors. Each maps to a reason token in an ERROR response.
var (
	ErrUnknownCommand  = errors.New("unknown command")
	ErrInvalidCommand  = errors.New("invalid command")
	ErrMissingArgument = errors.New("missing argument")
	ErrLineTooLong     = errors.New("line too long")
)

// Kind identifies a parsed command.
type Kind int

const (
	KindUnknown Kind = iota
	KindHome
	KindStop
	KindStatus
	KindSetJoint
	KindRecordStart
	KindRecordStop
	KindPlaySequence
	KindSaveSequence
	KindLoadSequence
	KindListSequences
	KindDeleteSequence
	KindTeachStart
	KindTeachStop
	KindReadPositions
)

var kindNames = map[Kind]string{
	KindHome:           "HOME",
	KindStop:           "STOP",
	KindStatus:         "STATUS",
	KindSetJoint:       "SET_JOINT",
	KindRecordStart:    "RECORD_START",
	KindRecordStop:     "RECORD_STOP",
	KindPlaySequence:   "PLAY_SEQUENCE",
	KindSaveSequence:   "SAVE_SEQUENCE",
	KindLoadSequence:   "LOAD_SEQUENCE",
	KindListSequences:  "LIST_SEQUENCES",
	KindDeleteSequence: "DELETE_SEQUENCE",
	KindTeachStart:     "TEACH_START",
	KindTeachStop:      "TEACH_STOP",
	KindReadPositions:  "READ_POSITIONS",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "UNKNOWN"
}

// Command is one parsed protocol line.
type Command struct {
	Kind  Kind
	Joint int    // 0-based joint index, KindSetJoint only
	Angle int    // requested degrees, KindSetJoint only
	Name  string // sequence name for the *_SEQUENCE commands
}
