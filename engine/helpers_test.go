package engine

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

// testCatalog is a fixed theme for engine tests.
type testCatalog struct {
	id    string
	cards [NumCardTypes][]string
}

func (c testCatalog) ThemeID() string           { return c.id }
func (c testCatalog) Cards(t CardType) []string { return c.cards[t] }

func names(prefix string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("%s%d", prefix, i)
	}
	return out
}

// classicCatalog has the 6 suspects, 6 weapons and 9 rooms of the classic
// board, which leaves 18 cards to deal.
func classicCatalog() testCatalog {
	return testCatalog{id: "classic", cards: [NumCardTypes][]string{names("S", 6), names("W", 6), names("R", 9)}}
}

func testSeats(n int) []Seat {
	seats := make([]Seat, n)
	for i := range seats {
		seats[i] = Seat{ID: i + 1, Name: fmt.Sprintf("P%d", i+1)}
	}
	return seats
}

// newTestGame creates an n-player classic game where the local player
// (seat 1) moves first.
func newTestGame(t *testing.T, n int) *Game {
	t.Helper()
	g, err := NewGame(classicCatalog(), testSeats(n), 1)
	require.NoError(t, err)
	return g
}

func ref(t CardType, i int) CardRef { return CardRef{Type: t, Index: i} }

// startGame declares the local player's hand and moves to PlayerIsGuessing.
func startGame(t *testing.T, g *Game, hand ...CardRef) {
	t.Helper()
	require.NoError(t, g.Advance())
	for _, c := range hand {
		require.NoError(t, g.ToggleOwned(c.Type, c.Index))
	}
	require.NoError(t, g.Advance())
	require.Equal(t, PlayerIsGuessing, g.State())
}

// sixCards is a legal local hand for a 3-player classic game.
var sixCards = []CardRef{ref(Suspect, 0), ref(Suspect, 1), ref(Weapon, 0), ref(Weapon, 1), ref(Room, 0), ref(Room, 1)}

func guess(t *testing.T, g *Game, s, w, r int) {
	t.Helper()
	require.NoError(t, g.SetGuess(Suspect, s))
	require.NoError(t, g.SetGuess(Weapon, w))
	require.NoError(t, g.SetGuess(Room, r))
	require.NoError(t, g.Advance())
	require.Equal(t, ChoosePlayerWhoShowedCard, g.State())
}

func ownership(t *testing.T, g *Game, p int, c CardRef) Ownership {
	t.Helper()
	s, err := g.Slot(p, c.Type, c.Index)
	require.NoError(t, err)
	return s.Ownership
}

// addGroup puts cards into a new guess group on player p directly.
func addGroup(g *Game, p int, cards ...CardRef) int {
	h := g.players[p].Hand
	id := h.nextGroupID()
	for _, c := range cards {
		h.slot(c).addGroup(id)
	}
	return id
}

func markOwnedAll(g *Game, p int, cards ...CardRef) {
	for _, c := range cards {
		g.markOwned(p, c)
	}
}
