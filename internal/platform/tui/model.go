package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-soccer/internal/core"
	"github.com/vovakirdan/tui-soccer/internal/entity"
	"github.com/vovakirdan/tui-soccer/internal/match"
)

// hudLines is the number of terminal rows used outside the field.
const hudLines = 2

// banner is a short message shown for a few ticks.
type banner struct {
	text  string
	ticks int
}

func (b *banner) step() {
	if b.ticks > 0 {
		b.ticks--
		if b.ticks == 0 {
			b.text = ""
		}
	}
}

// gameEvents collects listener output between ticks. Listeners fire on
// the tick goroutine, which is also the one calling Update.
type gameEvents struct {
	banner banner // score bar
	goal   banner // over the pitch
	unsubs []core.Unsubscribe
}

func (e *gameEvents) show(text string, ticks int) {
	e.banner = banner{text: text, ticks: ticks}
}

func (e *gameEvents) flash(text string, ticks int) {
	e.goal = banner{text: text, ticks: ticks}
}

func (e *gameEvents) step() {
	e.banner.step()
	e.goal.step()
}

// GameModel is the Bubble Tea model for one running match.
type GameModel struct {
	match    *match.Match
	keys     KeyMap
	held     *HeldKeys
	help     help.Model
	screen   *core.Screen
	events   *gameEvents
	width    int
	height   int
	tickRate int
	day      bool
	quitting bool
	back     bool
}

// NewGameModel wraps m for display. width and height are the terminal
// size; the field gets everything but the status lines.
func NewGameModel(m *match.Match, width, height int, day bool) GameModel {
	tickRate := m.Engine().Config().TickRate
	events := &gameEvents{}

	events.unsubs = append(events.unsubs, m.OnScore(func(e match.ScoreEvent) {
		events.flash(fmt.Sprintf(" GOAL! %s ", teamLabel(e.Team)), 2*tickRate)
	}))
	if sess := m.Session(); sess != nil {
		events.unsubs = append(events.unsubs,
			sess.OnJoin(func(d entity.Descriptor) {
				if d.ID != sess.LocalID() {
					events.show(displayName(d)+" joined", 2*tickRate)
				}
			}),
			sess.OnLeave(func(id string) {
				events.show(id+" left", 2*tickRate)
			}),
		)
	}

	return GameModel{
		match:    m,
		keys:     DefaultKeyMap(),
		held:     NewHeldKeys(DefaultHoldWindow),
		help:     help.New(),
		screen:   core.NewScreen(width, max(0, height-hudLines)),
		events:   events,
		width:    width,
		height:   height,
		tickRate: tickRate,
		day:      day,
	}
}

// Init starts the tick loop.
func (m GameModel) Init() tea.Cmd {
	return tickCmd(m.tickRate)
}

// Update handles messages and updates the model state.
func (m GameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.screen.Resize(msg.Width, max(0, msg.Height-hudLines))
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		return m.handleTick(time.Time(msg))
	}

	return m, nil
}

func (m GameModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Day):
		m.day = !m.day
		return m, nil
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	action := m.keys.Action(msg)
	switch action {
	case core.ActionQuit:
		m.close()
		m.quitting = true
		return m, tea.Quit
	case core.ActionBack:
		m.close()
		m.back = true
		return m, nil
	}

	if d, ok := action.Direction(); ok {
		m.held.Press(d, time.Now())
	}
	return m, nil
}

func (m GameModel) handleTick(now time.Time) (tea.Model, tea.Cmd) {
	if m.quitting || m.back {
		return m, nil
	}
	m.match.Tick(m.held.Active(now))
	m.events.step()
	return m, tickCmd(m.tickRate)
}

// close drops listeners and leaves the room.
func (m GameModel) close() {
	for _, un := range m.events.unsubs {
		un()
	}
	m.events.unsubs = nil
	m.held.Release()
	if sess := m.match.Session(); sess != nil {
		sess.Disconnect()
	}
}

// hud collects the status line contents.
func (m GameModel) hud() HUD {
	h := HUD{
		Score:   m.match.Score(),
		Elapsed: m.match.Elapsed(),
		Mode:    m.match.Engine().Mode(),
		Banner:  m.events.banner.text,
	}
	if sess := m.match.Session(); sess != nil && sess.Active() {
		h.Room = sess.RoomID()
		h.Host = sess.IsAuthority()
		h.Peers = sess.PeerCount()
		h.Roster = sess.ConnectedPlayers()
	}
	return h
}

// View renders the score bar, the field and the footer.
func (m GameModel) View() string {
	if m.quitting {
		return ""
	}

	eng := m.match.Engine()
	m.screen.Clear()
	DrawField(m.screen, core.NewRect(0, 0, m.screen.Width(), m.screen.Height()), FieldFrame{
		Field:  eng.Field(),
		Ball:   eng.Ball(),
		Agents: eng.Agents(),
		Banner: m.events.goal.text,
	})

	st := HUDStylesFor(m.day)
	h := m.hud()
	footer := h.RosterLine(st, m.width)
	if footer == "" {
		footer = lipgloss.PlaceHorizontal(m.width, lipgloss.Center, m.help.View(m.keys))
	}

	return strings.Join([]string{
		h.TopLine(st, m.width),
		RenderScreen(m.screen, PaletteFor(m.day)),
		footer,
	}, "\n")
}

// IsQuitting returns true if user requested to quit entirely.
func (m GameModel) IsQuitting() bool {
	return m.quitting
}

// BackToLobby returns true if user left the match.
func (m GameModel) BackToLobby() bool {
	return m.back
}

// Match returns the running match.
func (m GameModel) Match() *match.Match {
	return m.match
}

func teamLabel(t entity.Team) string {
	if t == entity.Team2 {
		return "Team 2"
	}
	return "Team 1"
}

func displayName(d entity.Descriptor) string {
	if d.Name != "" {
		return d.Name
	}
	return d.ID
}
