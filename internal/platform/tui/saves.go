package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-tetris/internal/storage"
)

// SavesKeyMap defines the key bindings for the saved games browser.
type SavesKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Load   key.Binding
	Delete key.Binding
	Back   key.Binding
	Quit   key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k SavesKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Load, k.Delete, k.Back}
}

// FullHelp returns key bindings for the full help view.
func (k SavesKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down, k.Load, k.Delete}, {k.Back, k.Quit}}
}

// DefaultSavesKeyMap returns default key bindings.
func DefaultSavesKeyMap() SavesKeyMap {
	return SavesKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "down"),
		),
		Load: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "load"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d", "delete"),
			key.WithHelp("d", "delete"),
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

// SavesModel lists saved games and lets the user load or delete one.
type SavesModel struct {
	store     *storage.Store
	gameID    string
	saves     []storage.SaveEntry
	table     table.Model
	help      help.Model
	keys      SavesKeyMap
	width     int
	height    int
	status    string
	selected  *storage.SaveEntry
	quitting  bool
	goingBack bool
}

// NewSavesModel creates a browser for the saves of gameID.
func NewSavesModel(store *storage.Store, gameID string, width, height int) SavesModel {
	m := SavesModel{
		store:  store,
		gameID: gameID,
		keys:   DefaultSavesKeyMap(),
		help:   help.New(),
		width:  width,
		height: height,
	}
	m.help.Width = width
	m.table = m.createTable()
	m.loadSaves()
	return m
}

func (m *SavesModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "Name", Width: 21},
		{Title: "Score", Width: 8},
		{Title: "Saved", Width: 14},
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
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)
	return t
}

// loadSaves refreshes the listing from the store.
func (m *SavesModel) loadSaves() {
	m.saves = nil
	if m.store != nil {
		saves, err := m.store.ListSaves(m.gameID)
		if err != nil {
			m.status = err.Error()
		} else {
			m.saves = saves
		}
	}

	rows := make([]table.Row, len(m.saves))
	for i, s := range m.saves {
		rows[i] = table.Row{
			s.Name,
			fmt.Sprintf("%d", s.Score),
			s.CreatedAt.Format("Jan 02 15:04"),
		}
	}
	m.table.SetRows(rows)
	if m.table.Cursor() >= len(rows) {
		m.table.SetCursor(max(0, len(rows)-1))
	}
}

func (m SavesModel) current() (storage.SaveEntry, bool) {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.saves) {
		return storage.SaveEntry{}, false
	}
	return m.saves[i], true
}

// Init initializes the model.
func (m SavesModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the browser.
func (m SavesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Load):
			m.load()
			if m.selected != nil {
				return m, tea.Quit
			}
			return m, nil

		case key.Matches(msg, m.keys.Delete):
			m.delete()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.table = m.createTable()
		m.loadSaves()
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// load fetches the snapshot of the highlighted save.
func (m *SavesModel) load() {
	entry, ok := m.current()
	if !ok {
		return
	}
	full, err := m.store.LoadGame(entry.Name)
	switch {
	case err != nil:
		m.status = err.Error()
	case full == nil:
		m.status = fmt.Sprintf("Save %s is gone", entry.Name)
		m.loadSaves()
	default:
		m.selected = full
	}
}

func (m *SavesModel) delete() {
	entry, ok := m.current()
	if !ok {
		return
	}
	if _, err := m.store.DeleteSave(entry.Name); err != nil {
		m.status = err.Error()
		return
	}
	m.status = "Deleted " + entry.Name
	m.loadSaves()
}

// View renders the browser.
func (m SavesModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(centerText(titleStyle.Render("SAVED GAMES"), m.width))
	b.WriteString("\n\n")

	if len(m.saves) == 0 {
		empty := dimStyle.Italic(true).Padding(2, 4).Render("No saved games.\nPress ctrl+s while playing to save.")
		b.WriteString(lipgloss.PlaceHorizontal(m.width, lipgloss.Center, boxStyle.Render(empty)))
	} else {
		b.WriteString(lipgloss.PlaceHorizontal(m.width, lipgloss.Center, boxStyle.Render(m.table.View())))
	}

	b.WriteString("\n")
	if m.status != "" {
		b.WriteString(m.status)
		b.WriteString("\n")
	}
	b.WriteString(dimStyle.Render(m.help.View(m.keys)))
	return b.String()
}

// Selected returns the save chosen for loading, with its data.
func (m SavesModel) Selected() *storage.SaveEntry {
	return m.selected
}

// IsGoingBack returns true if user wants to go back to menu.
func (m SavesModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m SavesModel) IsQuitting() bool {
	return m.quitting
}
