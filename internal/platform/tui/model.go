package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/snakefall/internal/core"
	"github.com/vovakirdan/snakefall/internal/registry"
	"github.com/vovakirdan/snakefall/internal/storage"
)

// helpHeight is the number of rows reserved below the game for the key help.
const helpHeight = 1

// debugStater is implemented by games that can dump their internal state.
type debugStater interface {
	DebugState() string
}

// GameModel is the Bubble Tea model that hosts one game.
type GameModel struct {
	game       registry.Game
	screen     *core.Screen
	store      *storage.Store
	logger     *log.Logger
	config     core.RuntimeConfig
	input      core.InputFrame
	state      core.GameState
	keys       GameKeyMap
	help       help.Model
	quitting   bool
	backToMenu bool
	runSaved   bool // Whether the current game over has been recorded
}

// NewGameModel creates a model for the given game. store may be nil, in
// which case runs are not recorded.
func NewGameModel(game registry.Game, store *storage.Store, logger *log.Logger, cfg core.RuntimeConfig) GameModel {
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if logger == nil {
		logger = log.Default()
	}

	h := help.New()
	h.Width = cfg.ScreenW

	return GameModel{
		game:   game,
		screen: core.NewScreen(cfg.ScreenW, cfg.ScreenH-helpHeight),
		store:  store,
		logger: logger,
		config: cfg,
		input:  core.NewInputFrame(),
		keys:   DefaultGameKeyMap(),
		help:   h,
	}
}

// WithMenu enables the back-to-menu binding for hosts that run a menu.
func (m GameModel) WithMenu() GameModel {
	m.keys.Back.SetEnabled(true)
	return m
}

// Init resets the game and starts the tick loop.
func (m GameModel) Init() tea.Cmd {
	m.game.Reset(m.config)
	m.logger.Info("game started", "variant", m.game.ID(), "seed", m.config.Seed)
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m GameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

// handleKey buffers game actions for the next tick. Presses keep their
// order, so two quick turns both reach the game.
func (m GameModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Screenshot):
		m.saveScreenshot()
		return m, nil
	case key.Matches(msg, m.keys.Back):
		if m.state.GameOver || m.state.Paused {
			m.backToMenu = true
			return m, tea.Quit
		}
		return m, nil
	}

	action := m.keys.Action(msg)
	if action == core.ActionQuit {
		m.quitting = true
		return m, tea.Quit
	}
	m.input.Set(action)
	return m, nil
}

// handleResize resizes the screen buffer. The board has a fixed size, so
// the game keeps running and only its placement changes.
func (m GameModel) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	m.screen.Resize(msg.Width, msg.Height-helpHeight)
	m.help.Width = msg.Width
	return m, nil
}

// handleTick steps the game with the actions buffered since the last tick.
func (m GameModel) handleTick() (tea.Model, tea.Cmd) {
	if m.quitting || m.backToMenu {
		return m, nil
	}

	frame := m.input.Clone()
	m.input.Clear()
	if frame.Len() > 0 {
		m.logger.Debug("input", "actions", frame.Actions)
	}

	result := m.game.Step(frame)
	m.state = result.State

	switch {
	case m.state.GameOver && !m.runSaved:
		m.recordRun()
		m.runSaved = true
	case !m.state.GameOver:
		m.runSaved = false
	}

	return m, tickCmd(m.config.TickRate)
}

// recordRun stores the finished run. Storage errors never stop play.
func (m *GameModel) recordRun() {
	m.logger.Info("run finished",
		"variant", m.game.ID(),
		"reason", m.state.Reason,
		"rows", m.state.RowsCleared,
		"length", m.state.Length,
		"elapsed", m.state.Elapsed.Round(time.Second),
	)
	if d, ok := m.game.(debugStater); ok {
		m.logger.Debug("final state", "state", d.DebugState())
	}
	if m.store == nil {
		return
	}

	_, err := m.store.SaveRun(storage.Run{
		Variant:     m.game.ID(),
		RowsCleared: m.state.RowsCleared,
		Settlements: m.state.Settlements,
		Length:      m.state.Length,
		Reason:      m.state.Reason,
		Duration:    m.state.Elapsed,
	})
	if err != nil {
		m.logger.Warn("could not record run", "error", err)
	}
}

// saveScreenshot writes the current screen as plain text to
// ~/.snakefall/screenshots.
func (m *GameModel) saveScreenshot() {
	m.game.Render(m.screen)

	home, err := os.UserHomeDir()
	if err != nil {
		m.logger.Warn("screenshot failed", "error", err)
		return
	}
	dir := filepath.Join(home, ".snakefall", "screenshots")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		m.logger.Warn("screenshot failed", "error", err)
		return
	}

	filename := fmt.Sprintf("%s_%s.txt", m.game.ID(), time.Now().Format("20060102_150405"))
	path := filepath.Join(dir, filename)
	if err := os.WriteFile(path, []byte(screenText(m.screen)), 0o600); err != nil {
		m.logger.Warn("screenshot failed", "error", err)
		return
	}
	m.logger.Info("screenshot saved", "path", path)
}

// screenText renders the screen as plain text without trailing blanks.
func screenText(s *core.Screen) string {
	var b strings.Builder
	for y := 0; y < s.Height(); y++ {
		b.WriteString(strings.TrimRight(s.Row(y), " "))
		b.WriteByte('\n')
	}
	return b.String()
}

// View renders the game above the key help.
func (m GameModel) View() string {
	if m.quitting || m.backToMenu {
		return ""
	}

	m.game.Render(m.screen)
	return RenderScreen(m.screen) + "\n" + helpStyle.Render(m.help.View(m.keys))
}

// State returns the game state as of the last tick.
func (m GameModel) State() core.GameState {
	return m.state
}

// IsQuitting returns true if the user asked to quit entirely.
func (m GameModel) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if the user asked to return to the menu.
func (m GameModel) BackToMenu() bool {
	return m.backToMenu
}

// Run plays one game in the local terminal until the user quits or goes
// back to the menu. Reports whether the user asked for the menu.
func Run(game registry.Game, store *storage.Store, logger *log.Logger, cfg core.RuntimeConfig, withMenu bool) (backToMenu bool, err error) {
	model := NewGameModel(game, store, logger, cfg)
	if withMenu {
		model = model.WithMenu()
	}

	p := tea.NewProgram(model, tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return false, fmt.Errorf("tui: %w", err)
	}

	m, ok := final.(GameModel)
	return ok && m.BackToMenu(), nil
}
