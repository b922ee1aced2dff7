package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-soccer/internal/storage"
)

// maxRecentRooms is how many rooms the picker loads.
const maxRecentRooms = 50

// RoomsKeyMap defines the key bindings for the recent rooms picker.
type RoomsKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Back   key.Binding
	Quit   key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k RoomsKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Select, k.Back}
}

// FullHelp returns key bindings for the full help view.
func (k RoomsKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Select},
		{k.Back, k.Quit},
	}
}

// DefaultRoomsKeyMap returns default key bindings.
func DefaultRoomsKeyMap() RoomsKeyMap {
	return RoomsKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "join"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// RoomsModel lists remembered rooms so one can be joined again.
type RoomsModel struct {
	rooms     []storage.RoomEntry
	table     table.Model
	help      help.Model
	keys      RoomsKeyMap
	width     int
	height    int
	loadErr   error
	selected  string
	goingBack bool
	quitting  bool
}

// NewRoomsModel loads the most recent rooms from store.
func NewRoomsModel(store *storage.Store, width, height int) RoomsModel {
	m := RoomsModel{
		keys:   DefaultRoomsKeyMap(),
		help:   help.New(),
		width:  width,
		height: height,
	}
	if store != nil {
		m.rooms, m.loadErr = store.RecentRooms(maxRecentRooms)
	}
	m.table = m.createTable()
	m.updateTableRows()
	return m
}

// createTable sizes the columns to the terminal.
func (m *RoomsModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "Room", Width: 10},
		{Title: "Role", Width: 6},
		{Title: "Relay", Width: 24},
		{Title: "Last used", Width: 14},
	}
	if spare := m.width - 4 - 10 - 6 - 24 - 14 - 8; spare > 0 {
		columns[2].Width += min(spare, 24)
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(3, m.height-8)),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("22")).
		Bold(false)
	t.SetStyles(s)
	return t
}

func (m *RoomsModel) updateTableRows() {
	rows := make([]table.Row, len(m.rooms))
	for i, r := range m.rooms {
		role := "guest"
		if r.Hosted {
			role = "host"
		}
		relay := r.RelayURL
		if relay == "" {
			relay = "local"
		}
		rows[i] = table.Row{r.RoomID, role, relay, r.LastUsed.Format("Jan 02 15:04")}
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

// Init initializes the rooms model.
func (m RoomsModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the picker.
func (m RoomsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, nil
		case key.Matches(msg, m.keys.Select):
			if i := m.table.Cursor(); i >= 0 && i < len(m.rooms) {
				m.selected = m.rooms[i].RoomID
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table = m.createTable()
		m.updateTableRows()
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the picker.
func (m RoomsModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	title := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("46")).MarginBottom(1)
	b.WriteString(title.Render("RECENT ROOMS"))
	b.WriteString("\n\n")

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)
	b.WriteString(box.Render(m.tableContent()))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Render(m.help.View(m.keys)))

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, b.String())
}

func (m RoomsModel) tableContent() string {
	empty := lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true).Padding(2, 4)
	switch {
	case m.loadErr != nil:
		return empty.Render("Could not load rooms:\n" + m.loadErr.Error())
	case len(m.rooms) == 0:
		return empty.Render("No rooms used yet.\nHost or join one from the lobby!")
	}
	return m.table.View()
}

// Selected returns the chosen room id, or "" while browsing.
func (m RoomsModel) Selected() string {
	return m.selected
}

// IsGoingBack returns true if user wants to go back to the lobby.
func (m RoomsModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m RoomsModel) IsQuitting() bool {
	return m.quitting
}
