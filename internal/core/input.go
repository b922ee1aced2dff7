package core

// Direction is one of the four logical movement directions.
type Direction uint8

const (
	DirUp Direction = 1 << iota
	DirDown
	DirLeft
	DirRight
)

// String returns a human-readable name for the direction.
func (d Direction) String() string {
	switch d {
	case DirUp:
		return "Up"
	case DirDown:
		return "Down"
	case DirLeft:
		return "Left"
	case DirRight:
		return "Right"
	default:
		return "Unknown"
	}
}

// DirectionSet is the set of movement directions active during one tick.
// It is the only input the simulation reads; raw device events never reach it.
type DirectionSet uint8

// Directions builds a set from the given directions.
func Directions(dirs ...Direction) DirectionSet {
	var s DirectionSet
	for _, d := range dirs {
		s = s.With(d)
	}
	return s
}

// With returns the set with d added.
func (s DirectionSet) With(d Direction) DirectionSet {
	return s | DirectionSet(d)
}

// Without returns the set with d removed.
func (s DirectionSet) Without(d Direction) DirectionSet {
	return s &^ DirectionSet(d)
}

// Has returns true if d is active.
func (s DirectionSet) Has(d Direction) bool {
	return s&DirectionSet(d) != 0
}

// Empty returns true if no direction is active.
func (s DirectionSet) Empty() bool {
	return s == 0
}

// Action represents a semantic input, abstracted from physical key presses.
type Action int

const (
	ActionNone Action = iota
	ActionUp          // W, Up arrow
	ActionDown        // S, Down arrow
	ActionLeft        // A, Left arrow
	ActionRight       // D, Right arrow
	ActionConfirm     // Enter
	ActionBack        // Esc
	ActionQuit        // Q, Ctrl+C
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionUp:
		return "Up"
	case ActionDown:
		return "Down"
	case ActionLeft:
		return "Left"
	case ActionRight:
		return "Right"
	case ActionConfirm:
		return "Confirm"
	case ActionBack:
		return "Back"
	case ActionQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}

// Direction maps a movement action to its direction.
// The second result is false for non-movement actions.
func (a Action) Direction() (Direction, bool) {
	switch a {
	case ActionUp:
		return DirUp, true
	case ActionDown:
		return DirDown, true
	case ActionLeft:
		return DirLeft, true
	case ActionRight:
		return DirRight, true
	}
	return 0, false
}
