package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestCanAdvanceByState walks the state machine and checks the gate at
// every phase.
func TestCanAdvanceByState(t *testing.T) {
	g := newTestGame(t, 3)
	assert.True(t, g.CanAdvance(), "NotStarted can always start")

	require.NoError(t, g.Advance())
	assert.False(t, g.CanAdvance())
	for _, c := range sixCards {
		require.NoError(t, g.ToggleOwned(c.Type, c.Index))
	}
	assert.True(t, g.CanAdvance())
	require.NoError(t, g.Advance())

	assert.False(t, g.CanAdvance())
	require.NoError(t, g.SetGuess(Suspect, 2))
	require.NoError(t, g.SetGuess(Weapon, 2))
	assert.False(t, g.CanAdvance())
	require.NoError(t, g.SetGuess(Room, 2))
	assert.True(t, g.CanAdvance())
	require.NoError(t, g.Advance())

	assert.False(t, g.CanAdvance(), "no shower yet")
	require.NoError(t, g.SetShower(1))
	assert.False(t, g.CanAdvance(), "no shown card yet")
	require.NoError(t, g.SetShownCard(Room, 2))
	assert.True(t, g.CanAdvance())
}

// TestCanShowOutsideAnswering verifies nobody can show outside the
// answering phase.
func TestCanShowOutsideAnswering(t *testing.T) {
	g := newTestGame(t, 3)
	assert.False(t, g.CanShow(1))
	startGame(t, g, sixCards...)
	assert.False(t, g.CanShow(1))
	assert.ErrorIs(t, g.SetShower(1), ErrInvalidStateTransition)
	assert.False(t, g.CanToggle(Suspect, 0))
}
