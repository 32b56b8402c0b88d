package control

// State is the controller's mode. Exactly one holds at a time: recording
// implies teach mode is active, and playback outranks plain motion.
type State int

const (
	Idle State = iota
	Moving
	TeachActive
	Recording
	Playing
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Moving:
		return "moving"
	case TeachActive:
		return "teach"
	case Recording:
		return "recording"
	case Playing:
		return "playing"
	}
	return "unknown"
}
