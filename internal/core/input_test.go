package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInputFrameKeepsOrder(t *testing.T) {
	f := NewInputFrame()
	f.Set(ActionUp)
	f.Set(ActionNone)
	f.Set(ActionLeft)
	f.Set(ActionUp)

	require.Equal(t, 3, f.Len())
	assert.Equal(t, []Action{ActionUp, ActionLeft, ActionUp}, f.Actions)
	assert.True(t, f.Has(ActionLeft))
	assert.False(t, f.Has(ActionRight))
}

func TestInputFrameClearAndClone(t *testing.T) {
	f := NewInputFrame()
	f.Set(ActionPause)
	clone := f.Clone()

	f.Clear()
	f.Set(ActionRestart)

	assert.Equal(t, 1, f.Len())
	assert.Equal(t, []Action{ActionPause}, clone.Actions, "clone shares storage with the frame")
}

func TestActionString(t *testing.T) {
	assert.Equal(t, "Right", ActionRight.String())
	assert.Equal(t, "Unknown", Action(99).String())
}

func TestManualClock(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewManualClock(start)

	require.True(t, c.Now().Equal(start))
	c.Advance(333 * time.Millisecond)
	assert.Equal(t, 333*time.Millisecond, c.Now().Sub(start))
}
