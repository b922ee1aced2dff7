package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-soccer/internal/core"
)

// DefaultHoldWindow is how long a key press keeps its direction active.
// Terminals only report presses and auto-repeats, never releases.
const DefaultHoldWindow = 150 * time.Millisecond

// KeyMap defines the in-match key bindings.
type KeyMap struct {
	Up    key.Binding
	Down  key.Binding
	Left  key.Binding
	Right key.Binding
	Day   key.Binding
	Help  key.Binding
	Back  key.Binding
	Quit  key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Left, k.Right, k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.Day, k.Back, k.Help, k.Quit},
	}
}

// DefaultKeyMap returns WASD and arrow bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("w", "up"),
			key.WithHelp("w/↑", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("s", "down"),
			key.WithHelp("s/↓", "down"),
		),
		Left: key.NewBinding(
			key.WithKeys("a", "left"),
			key.WithHelp("a/←", "left"),
		),
		Right: key.NewBinding(
			key.WithKeys("d", "right"),
			key.WithHelp("d/→", "right"),
		),
		Day: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "day/night"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "leave match"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// Action translates a key message into a semantic action.
func (k KeyMap) Action(msg tea.KeyMsg) core.Action {
	switch {
	case key.Matches(msg, k.Quit):
		return core.ActionQuit
	case key.Matches(msg, k.Back):
		return core.ActionBack
	case key.Matches(msg, k.Up):
		return core.ActionUp
	case key.Matches(msg, k.Down):
		return core.ActionDown
	case key.Matches(msg, k.Left):
		return core.ActionLeft
	case key.Matches(msg, k.Right):
		return core.ActionRight
	}
	return core.ActionNone
}

// HeldKeys turns discrete key presses into a held DirectionSet. Each
// press keeps its direction active for the hold window; pressing the
// opposite direction releases the first one.
type HeldKeys struct {
	window time.Duration
	until  map[core.Direction]time.Time
}

// NewHeldKeys creates a tracker. A non-positive window uses the default.
func NewHeldKeys(window time.Duration) *HeldKeys {
	if window <= 0 {
		window = DefaultHoldWindow
	}
	return &HeldKeys{
		window: window,
		until:  make(map[core.Direction]time.Time),
	}
}

var opposite = map[core.Direction]core.Direction{
	core.DirUp:    core.DirDown,
	core.DirDown:  core.DirUp,
	core.DirLeft:  core.DirRight,
	core.DirRight: core.DirLeft,
}

// Press records a press of d at now.
func (h *HeldKeys) Press(d core.Direction, now time.Time) {
	delete(h.until, opposite[d])
	h.until[d] = now.Add(h.window)
}

// Active returns the directions still held at now.
func (h *HeldKeys) Active(now time.Time) core.DirectionSet {
	var s core.DirectionSet
	for d, until := range h.until {
		if now.Before(until) {
			s = s.With(d)
		} else {
			delete(h.until, d)
		}
	}
	return s
}

// Release drops every held direction.
func (h *HeldKeys) Release() {
	clear(h.until)
}
