package tui

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/snakefall/internal/core"
	"github.com/vovakirdan/snakefall/internal/storage"
)

// scriptedGame records the frames it receives and ends after overAt steps.
// It keeps the frames' slices as handed over, without copying.
type scriptedGame struct {
	frames [][]core.Action
	overAt int
	steps  int
}

func (g *scriptedGame) ID() string { return "scripted" }
func (g *scriptedGame) Title() string { return "Scripted" }
func (g *scriptedGame) Reset(core.RuntimeConfig) { g.steps = 0 }
func (g *scriptedGame) Render(dst *core.Screen) { dst.DrawText(0, 0, "scripted") }
func (g *scriptedGame) DebugState() string { return "scripted internals" }

func (g *scriptedGame) Step(in core.InputFrame) core.StepResult {
	g.frames = append(g.frames, in.Actions)
	g.steps++
	if in.Has(core.ActionRestart) {
		g.steps = 0
	}
	return core.StepResult{State: g.State()}
}

func (g *scriptedGame) State() core.GameState {
	over := g.overAt > 0 && g.steps >= g.overAt
	s := core.GameState{RowsCleared: 2, Settlements: 5, Length: 8, GameOver: over}
	if over {
		s.Reason = "self_overlap"
		s.Elapsed = 75 * time.Second
	}
	return s
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newTestModel(game *scriptedGame, store *storage.Store) GameModel {
	return newTestModelWithLogger(game, store, log.New(io.Discard))
}

func newTestModelWithLogger(game *scriptedGame, store *storage.Store, logger *log.Logger) GameModel {
	cfg := core.RuntimeConfig{ScreenW: 40, ScreenH: 12, TickRate: 30, Seed: 1}
	return NewGameModel(game, store, logger, cfg)
}

func update(t *testing.T, m GameModel, msg tea.Msg) (GameModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	gm, ok := next.(GameModel)
	require.True(t, ok, "Update returned %T", next)
	return gm, cmd
}

func TestGameModelKeepsKeyOrder(t *testing.T) {
	game := &scriptedGame{}
	m := newTestModel(game, nil)

	m, _ = update(t, m, keyMsg("up"))
	m, _ = update(t, m, keyMsg("a"))
	m, _ = update(t, m, keyMsg("x"))
	m, _ = update(t, m, TickMsg{})
	m, _ = update(t, m, TickMsg{})

	require.Len(t, game.frames, 2)
	assert.Equal(t, []core.Action{core.ActionUp, core.ActionLeft}, game.frames[0])
	assert.Empty(t, game.frames[1], "input drains after each tick")
}

func TestGameModelHandsGameItsOwnFrame(t *testing.T) {
	game := &scriptedGame{}
	m := newTestModel(game, nil)

	m, _ = update(t, m, keyMsg("up"))
	m, _ = update(t, m, TickMsg{})
	m, _ = update(t, m, keyMsg("d"))
	m, _ = update(t, m, TickMsg{})

	require.Len(t, game.frames, 2)
	assert.Equal(t, []core.Action{core.ActionUp}, game.frames[0], "later input overwrote a delivered frame")
	assert.Equal(t, []core.Action{core.ActionRight}, game.frames[1])
}

func TestGameModelQuit(t *testing.T) {
	m := newTestModel(&scriptedGame{}, nil)

	m, cmd := update(t, m, keyMsg("q"))

	assert.True(t, m.IsQuitting())
	assert.NotNil(t, cmd)
	assert.Empty(t, m.View())
}

func TestGameModelBackOnlyWithMenu(t *testing.T) {
	game := &scriptedGame{overAt: 1}

	m := newTestModel(game, nil)
	m, _ = update(t, m, TickMsg{})
	m, _ = update(t, m, keyMsg("b"))
	assert.False(t, m.BackToMenu(), "b without a menu")

	m = newTestModel(game, nil).WithMenu()
	m, _ = update(t, m, keyMsg("b"))
	assert.False(t, m.BackToMenu(), "b while the game is running")

	m, _ = update(t, m, TickMsg{})
	m, _ = update(t, m, keyMsg("b"))
	assert.True(t, m.BackToMenu(), "b after game over")
}

func TestGameModelRecordsRunOnce(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	defer store.Close()

	game := &scriptedGame{overAt: 2}
	m := newTestModel(game, store)
	for range 5 {
		m, _ = update(t, m, TickMsg{})
	}

	runs, err := store.RecentRuns("scripted", 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	r := runs[0]
	assert.Equal(t, 2, r.RowsCleared)
	assert.Equal(t, 5, r.Settlements)
	assert.Equal(t, 8, r.Length)
	assert.Equal(t, "self_overlap", r.Reason)
	assert.Equal(t, 75*time.Second, r.Duration)

	// A restart followed by another game over records a second run.
	m, _ = update(t, m, keyMsg("r"))
	for range 3 {
		m, _ = update(t, m, TickMsg{})
	}
	runs, err = store.RecentRuns("scripted", 10)
	require.NoError(t, err)
	assert.Len(t, runs, 2)
}

func TestGameModelLogsFinalState(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})
	m := newTestModelWithLogger(&scriptedGame{overAt: 1}, nil, logger)

	m, _ = update(t, m, TickMsg{})

	assert.Contains(t, buf.String(), "run finished")
	assert.Contains(t, buf.String(), "scripted internals")
}

func TestGameModelScreenshot(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	m := newTestModel(&scriptedGame{}, nil)

	m, _ = update(t, m, keyMsg("ctrl+s"))

	files, err := filepath.Glob(filepath.Join(home, ".snakefall", "screenshots", "scripted_*.txt"))
	require.NoError(t, err)
	require.Len(t, files, 1)
	data, err := os.ReadFile(files[0])
	require.NoError(t, err)

	text := string(data)
	assert.True(t, strings.HasPrefix(text, "scripted\n"), "got %q", text)
	assert.NotContains(t, text, " \n", "trailing blanks kept")
	assert.Equal(t, m.screen.Height(), strings.Count(text, "\n"))
}

func TestGameModelResizeKeepsGame(t *testing.T) {
	game := &scriptedGame{}
	m := newTestModel(game, nil)
	m, _ = update(t, m, TickMsg{})

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 60, Height: 20})

	assert.Equal(t, 60, m.screen.Width())
	assert.Equal(t, 20-helpHeight, m.screen.Height())
	assert.Equal(t, 1, game.steps, "resize must not reset the game")
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in       time.Duration
		expected string
	}{
		{0, "0:00"},
		{1500 * time.Millisecond, "0:02"},
		{75 * time.Second, "1:15"},
		{time.Hour + 2*time.Minute + 3*time.Second, "1:02:03"},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.expected, FormatDuration(tc.in), "FormatDuration(%v)", tc.in)
	}
}
