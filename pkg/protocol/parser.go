package protocol

import (
	"fmt"
	"strconv"
	"strings"
)

// MaxLineLen is the longest accepted command line in bytes, terminators
// excluded. Longer lines are rejected with ErrLineTooLong.
const MaxLineLen = 200

// ParseLine parses one protocol line, already stripped of its terminator.
// Keywords are exact and uppercase. The joint command takes the form
// `J<1-6> <angle>`; a `:` separator is accepted as well because the desktop
// control GUI sends `J1:90`.
func ParseLine(line string) (Command, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return Command{}, fmt.Errorf("%w: empty line", ErrInvalidCommand)
	}

	// A 'J' followed by a digit is a joint command attempt; everything it
	// gets wrong from there is InvalidCommand, not UnknownCommand.
	if len(line) >= 2 && line[0] == 'J' && line[1] >= '0' && line[1] <= '9' {
		return parseJoint(line)
	}

	keyword, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)

	switch keyword {
	case "HOME":
		return bare(KindHome, keyword, rest)
	case "STOP":
		return bare(KindStop, keyword, rest)
	case "STATUS":
		return bare(KindStatus, keyword, rest)
	case "RECORD_START":
		return bare(KindRecordStart, keyword, rest)
	case "RECORD_STOP":
		return bare(KindRecordStop, keyword, rest)
	case "TEACH_START":
		return bare(KindTeachStart, keyword, rest)
	case "TEACH_STOP":
		return bare(KindTeachStop, keyword, rest)
	case "LIST_SEQUENCES":
		return bare(KindListSequences, keyword, rest)
	case "READ_POSITIONS":
		return bare(KindReadPositions, keyword, rest)
	case "PLAY_SEQUENCE":
		return named(KindPlaySequence, keyword, rest)
	case "SAVE_SEQUENCE":
		return named(KindSaveSequence, keyword, rest)
	case "LOAD_SEQUENCE":
		return named(KindLoadSequence, keyword, rest)
	case "DELETE_SEQUENCE":
		return named(KindDeleteSequence, keyword, rest)
	}
	return Command{}, fmt.Errorf("%w: %q", ErrUnknownCommand, keyword)
}

// bare builds a command that takes no argument.
func bare(k Kind, keyword, rest string) (Command, error) {
	if rest != "" {
		return Command{}, fmt.Errorf("%w: %s takes no argument", ErrInvalidCommand, keyword)
	}
	return Command{Kind: k}, nil
}

// named builds a command whose argument is a sequence name.
func named(k Kind, keyword, rest string) (Command, error) {
	if rest == "" {
		return Command{}, fmt.Errorf("%w: %s needs a name", ErrMissingArgument, keyword)
	}
	return Command{Kind: k, Name: rest}, nil
}

// parseJoint handles `J<n> <angle>` and `J<n>:<angle>`.
func parseJoint(line string) (Command, error) {
	digit := line[1]
	if digit < '1' || digit > '6' {
		return Command{}, fmt.Errorf("%w: joint index %c", ErrInvalidCommand, digit)
	}
	rest := line[2:]
	if rest == "" {
		return Command{}, fmt.Errorf("%w: J%c needs an angle", ErrMissingArgument, digit)
	}
	switch rest[0] {
	case ' ', ':':
		rest = strings.TrimSpace(rest[1:])
	default:
		return Command{}, fmt.Errorf("%w: malformed joint command", ErrInvalidCommand)
	}
	if rest == "" {
		return Command{}, fmt.Errorf("%w: J%c needs an angle", ErrMissingArgument, digit)
	}
	angle, err := strconv.Atoi(rest)
	if err != nil {
		return Command{}, fmt.Errorf("%w: angle %q", ErrInvalidCommand, rest)
	}
	return Command{Kind: KindSetJoint, Joint: int(digit - '1'), Angle: angle}, nil
}
