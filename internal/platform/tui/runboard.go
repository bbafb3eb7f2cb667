package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/snakefall/internal/registry"
	"github.com/vovakirdan/snakefall/internal/storage"
)

const maxBoardRuns = 100

// RunBoardKeyMap defines the key bindings for the run history screen.
type RunBoardKeyMap struct {
	Up          key.Binding
	Down        key.Binding
	NextVariant key.Binding
	PrevVariant key.Binding
	Back        key.Binding
	Quit        key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k RunBoardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextVariant, k.PrevVariant, k.Back, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k RunBoardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextVariant, k.PrevVariant},
		{k.Back, k.Quit},
	}
}

// DefaultRunBoardKeyMap returns default key bindings.
func DefaultRunBoardKeyMap() RunBoardKeyMap {
	return RunBoardKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "scroll down"),
		),
		NextVariant: key.NewBinding(
			key.WithKeys("tab", "right", "l"),
			key.WithHelp("tab", "next board"),
		),
		PrevVariant: key.NewBinding(
			key.WithKeys("shift+tab", "left", "h"),
			key.WithHelp("S-tab", "prev board"),
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

// RunBoardModel shows recorded runs and totals per variant.
type RunBoardModel struct {
	variants  []registry.GameInfo
	cursor    int
	store     *storage.Store
	runs      []storage.Run
	stats     *storage.RunStats
	loadErr   error
	table     table.Model
	help      help.Model
	keys      RunBoardKeyMap
	width     int
	height    int
	quitting  bool
	goingBack bool
}

// NewRunBoardModel creates the run history screen.
func NewRunBoardModel(store *storage.Store, width, height int) RunBoardModel {
	h := help.New()
	h.Width = width

	m := RunBoardModel{
		variants: registry.List(),
		store:    store,
		keys:     DefaultRunBoardKeyMap(),
		help:     h,
		width:    width,
		height:   height,
	}
	m.table = m.createTable()
	m.load()
	return m
}

func (m *RunBoardModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "#", Width: 4},
		{Title: "Rows", Width: 6},
		{Title: "Length", Width: 7},
		{Title: "Settled", Width: 8},
		{Title: "Time", Width: 8},
		{Title: "Ended by", Width: 16},
		{Title: "Date", Width: 13},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(m.height-10, 3)),
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

// load fetches runs and totals for the selected variant.
func (m *RunBoardModel) load() {
	m.runs, m.stats, m.loadErr = nil, nil, nil
	if m.store != nil && len(m.variants) > 0 {
		variant := m.variants[m.cursor].ID
		m.runs, m.loadErr = m.store.RecentRuns(variant, maxBoardRuns)
		if m.loadErr == nil {
			m.stats, m.loadErr = m.store.Stats(variant)
		}
	}

	rows := make([]table.Row, len(m.runs))
	for i, r := range m.runs {
		rows[i] = table.Row{
			fmt.Sprintf("%d", i+1),
			fmt.Sprintf("%d", r.RowsCleared),
			fmt.Sprintf("%d", r.Length),
			fmt.Sprintf("%d", r.Settlements),
			FormatDuration(r.Duration),
			strings.ReplaceAll(r.Reason, "_", " "),
			r.CreatedAt.Format("Jan 02 15:04"),
		}
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

// Init initializes the run board.
func (m RunBoardModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the run board.
func (m RunBoardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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

		case key.Matches(msg, m.keys.NextVariant):
			if len(m.variants) > 0 {
				m.cursor = (m.cursor + 1) % len(m.variants)
				m.load()
			}
			return m, nil

		case key.Matches(msg, m.keys.PrevVariant):
			if len(m.variants) > 0 {
				m.cursor = (m.cursor - 1 + len(m.variants)) % len(m.variants)
				m.load()
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.table = m.createTable()
		m.load()
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the run board.
func (m RunBoardModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	var b strings.Builder

	title := "RUNS"
	if len(m.variants) > 0 {
		title = fmt.Sprintf("RUNS - %s", m.variants[m.cursor].Title)
	}
	b.WriteString(centerText(titleStyle.Render(title), m.width))
	b.WriteString("\n\n")

	if m.stats != nil && m.stats.RunsCount > 0 {
		summary := fmt.Sprintf("%d runs  |  most rows %d  |  longest %d  |  %d rows total  |  played %s",
			m.stats.RunsCount, m.stats.MostRows, m.stats.LongestBody, m.stats.TotalRows,
			FormatDuration(m.stats.TotalPlayed))
		b.WriteString(centerText(summary, m.width))
		b.WriteString("\n\n")
	}

	b.WriteString(centerText(frameStyle.Render(m.renderTableContent()), m.width))

	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))

	return b.String()
}

func (m RunBoardModel) renderTableContent() string {
	switch {
	case m.store == nil:
		return dimStyle.Padding(2, 4).Render("Run history is unavailable.")
	case m.loadErr != nil:
		return dimStyle.Padding(2, 4).Render("Could not load runs:\n" + m.loadErr.Error())
	case len(m.runs) == 0:
		return dimStyle.Padding(2, 4).Render("No runs recorded yet.\nFinish a game to see it here!")
	}
	return m.table.View()
}

// IsGoingBack returns true if the user wants to go back to the menu.
func (m RunBoardModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if the user wants to quit entirely.
func (m RunBoardModel) IsQuitting() bool {
	return m.quitting
}

// RunRunBoard runs the history screen.
// Returns true if the user wants to go back to the menu.
func RunRunBoard(store *storage.Store, width, height int) (goBack bool, err error) {
	p := tea.NewProgram(NewRunBoardModel(store, width, height), tea.WithAltScreen())

	final, err := p.Run()
	if err != nil {
		return false, fmt.Errorf("tui: %w", err)
	}

	m, ok := final.(RunBoardModel)
	return ok && m.IsGoingBack(), nil
}
