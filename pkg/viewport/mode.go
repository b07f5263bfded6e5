package viewport

import "github.com/ha1tch/grapho/pkg/events"

// Mode is the active interaction mode.
type Mode int

const (
	ModeSelect Mode = iota // initial mode: hover and click
	ModePan
	ModeBoxZoom
)

// String returns the mode name used in styling classes.
func (m Mode) String() string {
	switch m {
	case ModeSelect:
		return "select"
	case ModePan:
		return "pan"
	case ModeBoxZoom:
		return "box-zoom"
	default:
		return "unknown"
	}
}

// Class returns the styling label a host applies to the viewport.
func (m Mode) Class() string {
	return "grapho-" + m.String() + "-interaction-mode"
}

// modeTransitions maps each mode command to its target. Every transition
// is unconditional, so the table is independent of the current mode.
var modeTransitions = map[string]Mode{
	events.Select:  ModeSelect,
	events.Pan:     ModePan,
	events.BoxZoom: ModeBoxZoom,
}

// ModeForCommand returns the mode a command switches to.
func ModeForCommand(name string) (Mode, bool) {
	m, ok := modeTransitions[name]
	return m, ok
}
