package tui

import (
	"context"
	"errors"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-soccer/internal/match"
	"github.com/vovakirdan/tui-soccer/internal/storage"
)

// recentRoomsShown is how many remembered rooms the lobby lists.
const recentRoomsShown = 3

var errNoProfile = errors.New("no profile database, recent rooms are unavailable")

// AppOptions configures the top-level model.
type AppOptions struct {
	Launcher match.Launcher
	Store    *storage.Store // optional profile store
	Name     string
	Room     string

	// Start skips the lobby when set to anything but StartLobby.
	Start StartMode

	Width  int
	Height int
}

// StartMode picks the first screen.
type StartMode int

const (
	StartLobby StartMode = iota
	StartOffline
	StartHost
	StartJoin
)

type appState int

const (
	stateLobby appState = iota
	stateConnecting
	stateGame
	stateRooms
)

// matchReadyMsg carries a launched match back to the event loop.
type matchReadyMsg struct {
	match  *match.Match
	choice LobbyChoice
	name   string
}

// matchFailedMsg reports a launch error.
type matchFailedMsg struct {
	err error
}

// AppModel manages the whole client flow: lobby -> game -> lobby.
type AppModel struct {
	opts     AppOptions
	logger   *log.Logger
	lobby    LobbyModel
	game     *GameModel
	rooms    RoomsModel
	state    appState
	cancel   context.CancelFunc
	width    int
	height   int
	quitting bool
}

// NewAppModel creates the top-level model.
func NewAppModel(opts AppOptions) AppModel {
	logger := opts.Launcher.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	name := opts.Name
	if name == "" && opts.Store != nil {
		if stored, err := opts.Store.Name(); err == nil {
			name = stored
		}
	}
	opts.Name = name

	m := AppModel{
		opts:   opts,
		logger: logger,
		width:  max(opts.Width, 20),
		height: max(opts.Height, 10),
	}
	m.lobby = m.newLobby()
	return m
}

func (m AppModel) newLobby() LobbyModel {
	l := NewLobbyModel(m.opts.Name, m.opts.Room, m.opts.Launcher.Connector != nil)
	l.width, l.height = m.width, m.height
	if m.opts.Store != nil {
		if rooms, err := m.opts.Store.RecentRooms(recentRoomsShown); err == nil {
			l = l.WithStatus(RecentRoomsHint(rooms))
		}
	}
	return l
}

// Init starts the lobby or launches straight into a match.
func (m AppModel) Init() tea.Cmd {
	switch m.opts.Start {
	case StartOffline:
		return m.submitCmd(LobbyResult{Choice: ChoiceOffline, Name: m.opts.Name})
	case StartHost:
		return m.submitCmd(LobbyResult{Choice: ChoiceHost, Name: m.opts.Name})
	case StartJoin:
		return m.submitCmd(LobbyResult{Choice: ChoiceJoin, Name: m.opts.Name, Room: m.opts.Room})
	}
	return m.lobby.Init()
}

func (m AppModel) submitCmd(r LobbyResult) tea.Cmd {
	return func() tea.Msg { return r }
}

// Update handles messages for the app.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height

	case LobbyResult:
		return m.launch(msg)

	case matchReadyMsg:
		return m.startGame(msg)

	case matchFailedMsg:
		m.releaseLaunch()
		m.state = stateLobby
		m.lobby = m.lobby.WithError(msg.err)
		m.logger.Warn("could not start match", "err", msg.err)
		return m, nil

	case tea.KeyMsg:
		if m.state == stateConnecting && msg.String() == "ctrl+c" {
			if m.cancel != nil {
				m.cancel()
			}
			m.quitting = true
			return m, tea.Quit
		}
	}

	switch m.state {
	case stateGame:
		return m.updateGame(msg)
	case stateRooms:
		return m.updateRooms(msg)
	case stateLobby:
		return m.updateLobby(msg)
	}
	return m, nil
}

func (m AppModel) updateLobby(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.lobby.Update(msg)
	if l, ok := next.(LobbyModel); ok {
		m.lobby = l
	}
	if m.lobby.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	if r := m.lobby.Result(); r != nil {
		return m.launch(*r)
	}
	if m.lobby.WantsRooms() {
		m.lobby.browse = false
		if m.opts.Store == nil {
			m.lobby = m.lobby.WithError(errNoProfile)
			return m, nil
		}
		m.rooms = NewRoomsModel(m.opts.Store, m.width, m.height)
		m.state = stateRooms
		return m, m.rooms.Init()
	}
	return m, cmd
}

func (m AppModel) updateRooms(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.rooms.Update(msg)
	if r, ok := next.(RoomsModel); ok {
		m.rooms = r
	}
	switch {
	case m.rooms.IsQuitting():
		m.quitting = true
		return m, tea.Quit
	case m.rooms.Selected() != "":
		m.state = stateLobby
		m.lobby = m.lobby.WithRoom(m.rooms.Selected())
		return m, nil
	case m.rooms.IsGoingBack():
		m.state = stateLobby
		return m, nil
	}
	return m, cmd
}

func (m AppModel) updateGame(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.game.Update(msg)
	if g, ok := next.(GameModel); ok {
		m.game = &g
	}
	if m.game.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	if m.game.BackToLobby() {
		m.game = nil
		m.state = stateLobby
		m.lobby = m.newLobby()
		return m, m.lobby.Init()
	}
	return m, cmd
}

// launch starts the chosen match in the background.
func (m AppModel) launch(r LobbyResult) (tea.Model, tea.Cmd) {
	if r.Name != "" {
		m.opts.Name = r.Name
		if m.opts.Store != nil {
			if err := m.opts.Store.SaveName(r.Name); err != nil {
				m.logger.Warn("could not save name", "err", err)
			}
		}
	}
	if r.Room != "" {
		m.opts.Room = r.Room
	}

	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.state = stateConnecting

	l := m.opts.Launcher
	name := m.opts.Name
	return m, func() tea.Msg {
		var (
			mt  *match.Match
			err error
		)
		switch r.Choice {
		case ChoiceHost:
			mt, err = l.Host(ctx, name)
		case ChoiceJoin:
			mt, err = l.Join(ctx, name, r.Room)
		default:
			mt = l.Offline()
		}
		if err != nil {
			return matchFailedMsg{err: err}
		}
		return matchReadyMsg{match: mt, choice: r.Choice, name: name}
	}
}

// releaseLaunch frees the launch context. Dial contexts only bound the
// handshake, so live channels survive it.
func (m *AppModel) releaseLaunch() {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
}

func (m AppModel) startGame(msg matchReadyMsg) (tea.Model, tea.Cmd) {
	m.releaseLaunch()
	if sess := msg.match.Session(); sess != nil && m.opts.Store != nil {
		err := m.opts.Store.RememberRoom(sess.RoomID(), m.opts.Launcher.Config.Network.RelayURL, sess.IsAuthority())
		if err != nil {
			m.logger.Warn("could not remember room", "err", err)
		}
	}
	g := NewGameModel(msg.match, m.width, m.height, m.opts.Launcher.Config.Match.DayMode)
	m.game = &g
	m.state = stateGame
	return m, g.Init()
}

// View renders the current screen.
func (m AppModel) View() string {
	if m.quitting {
		return ""
	}
	switch m.state {
	case stateGame:
		return m.game.View()
	case stateRooms:
		return m.rooms.View()
	case stateConnecting:
		return m.lobby.WithStatus(fmt.Sprintf("connecting as %s...", m.opts.Name)).View()
	}
	return m.lobby.View()
}

// IsQuitting returns true once the user asked to leave.
func (m AppModel) IsQuitting() bool {
	return m.quitting
}

// Run starts the client in the alternate screen and blocks until exit.
func Run(opts AppOptions) error {
	p := tea.NewProgram(NewAppModel(opts), tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return err
	}
	if app, ok := final.(AppModel); ok && app.game != nil {
		app.game.close()
	}
	return nil
}
