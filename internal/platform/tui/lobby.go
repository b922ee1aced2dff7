package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-soccer/internal/storage"
)

// LobbyChoice is what the player picked in the lobby.
type LobbyChoice int

const (
	ChoiceOffline LobbyChoice = iota
	ChoiceHost
	ChoiceJoin
)

// String returns the menu label for the choice.
func (c LobbyChoice) String() string {
	switch c {
	case ChoiceOffline:
		return "Practice offline"
	case ChoiceHost:
		return "Host a room"
	case ChoiceJoin:
		return "Join a room"
	default:
		return "Unknown"
	}
}

// LobbyResult is the lobby's outcome.
type LobbyResult struct {
	Choice LobbyChoice
	Name   string
	Room   string // set for ChoiceJoin
}

type lobbyFocus int

const (
	focusName lobbyFocus = iota
	focusMenu
	focusRoom
)

// lobbyKeys defines the lobby key bindings.
type lobbyKeys struct {
	Up     key.Binding
	Down   key.Binding
	Next   key.Binding
	Select key.Binding
	Back   key.Binding
	Rooms  key.Binding
	Quit   key.Binding
	Force  key.Binding
}

func defaultLobbyKeys() lobbyKeys {
	return lobbyKeys{
		Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑", "up")),
		Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓", "down")),
		Next:   key.NewBinding(key.WithKeys("tab", "shift+tab"), key.WithHelp("tab", "switch field")),
		Select: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		Back:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Rooms:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "recent rooms")),
		Quit:   key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		Force:  key.NewBinding(key.WithKeys("ctrl+c")),
	}
}

var lobbyStyles = struct {
	Title    lipgloss.Style
	Item     lipgloss.Style
	Active   lipgloss.Style
	Disabled lipgloss.Style
	Label    lipgloss.Style
	Hint     lipgloss.Style
	Error    lipgloss.Style
}{
	Title:    lipgloss.NewStyle().Foreground(lipgloss.Color("46")).Bold(true),
	Item:     lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
	Active:   lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true),
	Disabled: lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	Label:    lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	Hint:     lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	Error:    lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
}

// LobbyModel asks for the player name and how to play.
type LobbyModel struct {
	name     textinput.Model
	room     textinput.Model
	keys     lobbyKeys
	choices  []LobbyChoice
	cursor   int
	focus    lobbyFocus
	online   bool // host and join need a connector
	status   string
	err      string
	width    int
	height   int
	quitting bool
	browse   bool // recent rooms requested
	result   *LobbyResult
}

// NewLobbyModel creates a lobby pre-filled with name and room. Host and
// join are only offered when online is set.
func NewLobbyModel(name, room string, online bool) LobbyModel {
	ni := textinput.New()
	ni.Placeholder = "Your name"
	ni.CharLimit = 24
	ni.Width = 24
	ni.SetValue(name)

	ri := textinput.New()
	ri.Placeholder = "Room id"
	ri.CharLimit = 64
	ri.Width = 24
	ri.SetValue(room)

	m := LobbyModel{
		name:    ni,
		room:    ri,
		keys:    defaultLobbyKeys(),
		choices: []LobbyChoice{ChoiceOffline, ChoiceHost, ChoiceJoin},
		online:  online,
		width:   80,
		height:  24,
	}
	if strings.TrimSpace(name) == "" {
		m.focus = focusName
		m.name.Focus()
	} else {
		m.focus = focusMenu
	}
	return m
}

// Init initializes the lobby model.
func (m LobbyModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages for the lobby.
func (m LobbyModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Force) {
			m.quitting = true
			return m, tea.Quit
		}
		switch m.focus {
		case focusName:
			return m.updateName(msg)
		case focusRoom:
			return m.updateRoom(msg)
		default:
			return m.updateMenu(msg)
		}
	}

	var cmd tea.Cmd
	switch m.focus {
	case focusName:
		m.name, cmd = m.name.Update(msg)
	case focusRoom:
		m.room, cmd = m.room.Update(msg)
	}
	return m, cmd
}

func (m LobbyModel) updateName(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Select), key.Matches(msg, m.keys.Next):
		if strings.TrimSpace(m.name.Value()) == "" {
			m.err = "enter a name first"
			return m, nil
		}
		m.err = ""
		m.setFocus(focusMenu)
		return m, nil
	}
	var cmd tea.Cmd
	m.name, cmd = m.name.Update(msg)
	return m, cmd
}

func (m LobbyModel) updateRoom(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.err = ""
		m.setFocus(focusMenu)
		return m, nil
	case key.Matches(msg, m.keys.Select):
		room := strings.TrimSpace(m.room.Value())
		if room == "" {
			m.err = "enter a room id"
			return m, nil
		}
		return m.submit(ChoiceJoin, room)
	}
	var cmd tea.Cmd
	m.room, cmd = m.room.Update(msg)
	return m, cmd
}

func (m LobbyModel) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Next):
		m.setFocus(focusName)
	case key.Matches(msg, m.keys.Rooms):
		m.browse = true
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.choices)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Select):
		choice := m.choices[m.cursor]
		if choice != ChoiceOffline && !m.online {
			m.err = "no relay configured, only offline play is available"
			return m, nil
		}
		if choice == ChoiceJoin {
			m.err = ""
			m.setFocus(focusRoom)
			return m, nil
		}
		return m.submit(choice, "")
	}
	return m, nil
}

func (m *LobbyModel) setFocus(f lobbyFocus) {
	m.focus = f
	m.name.Blur()
	m.room.Blur()
	switch f {
	case focusName:
		m.name.Focus()
	case focusRoom:
		m.room.Focus()
	}
}

func (m LobbyModel) submit(choice LobbyChoice, room string) (tea.Model, tea.Cmd) {
	m.err = ""
	m.result = &LobbyResult{
		Choice: choice,
		Name:   strings.TrimSpace(m.name.Value()),
		Room:   room,
	}
	return m, nil
}

// View renders the lobby.
func (m LobbyModel) View() string {
	if m.quitting {
		return ""
	}
	st := lobbyStyles
	var b strings.Builder

	b.WriteString(st.Title.Render("⚽  T U I   S O C C E R"))
	b.WriteString("\n\n")
	b.WriteString(st.Label.Render("Name  ") + m.name.View())
	b.WriteString("\n\n")

	for i, c := range m.choices {
		cursor := "  "
		style := st.Item
		if i == m.cursor && m.focus != focusName {
			cursor = "> "
			style = st.Active
		}
		if c != ChoiceOffline && !m.online {
			style = st.Disabled
		}
		b.WriteString(style.Render(cursor + c.String()))
		b.WriteString("\n")
	}

	if m.focus == focusRoom {
		b.WriteString("\n")
		b.WriteString(st.Label.Render("Room  ") + m.room.View())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	switch {
	case m.err != "":
		b.WriteString(st.Error.Render(m.err))
	case m.status != "":
		b.WriteString(st.Label.Render(m.status))
	}
	b.WriteString("\n\n")
	b.WriteString(st.Hint.Render("↑/↓: navigate  │  tab: edit name  │  r: recent rooms  │  q: quit"))

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("28")).
		Padding(1, 3).
		Render(b.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

// Result returns the lobby outcome, or nil while the player is choosing.
func (m LobbyModel) Result() *LobbyResult {
	return m.result
}

// IsQuitting returns true if user requested to quit.
func (m LobbyModel) IsQuitting() bool {
	return m.quitting
}

// WithError returns the lobby reset for another attempt, showing err.
func (m LobbyModel) WithError(err error) LobbyModel {
	m.result = nil
	m.status = ""
	if err != nil {
		m.err = err.Error()
	}
	return m
}

// WantsRooms returns true once the player asked for the recent rooms list.
func (m LobbyModel) WantsRooms() bool {
	return m.browse
}

// WithRoom returns the lobby ready to join room, with the room field
// focused when joining is possible.
func (m LobbyModel) WithRoom(room string) LobbyModel {
	m.browse = false
	m.room.SetValue(room)
	if m.online {
		m.cursor = len(m.choices) - 1
		m.setFocus(focusRoom)
	}
	return m
}

// WithStatus returns the lobby showing a progress message.
func (m LobbyModel) WithStatus(status string) LobbyModel {
	m.status = status
	return m
}

// RecentRoomsHint formats remembered rooms for the lobby status line.
func RecentRoomsHint(rooms []storage.RoomEntry) string {
	if len(rooms) == 0 {
		return ""
	}
	ids := make([]string, 0, len(rooms))
	for _, r := range rooms {
		ids = append(ids, r.RoomID)
	}
	return fmt.Sprintf("recent rooms: %s", strings.Join(ids, ", "))
}
