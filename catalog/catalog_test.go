package catalog

import (
	"testing"

	"github.com/jason-s-yu/cluesheet/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestThemesOrder verifies the four editions load in display order.
func TestThemesOrder(t *testing.T) {
	assert.Equal(t, []string{"tudor", "classic", "hollywood", "express"}, IDs())
}

// TestGet verifies lookup by id and the unknown-theme error.
func TestGet(t *testing.T) {
	th, err := Get(DefaultTheme)
	require.NoError(t, err)
	assert.Equal(t, "Classic", th.Title)
	assert.Equal(t, "#000000", th.Suspects[5].Color)
	assert.Equal(t, "White", th.CardName(engine.CardRef{Type: engine.Suspect, Index: 5}))
	assert.Equal(t, "Study", th.CardName(engine.CardRef{Type: engine.Room, Index: 8}))
	assert.Equal(t, "room#9", th.CardName(engine.CardRef{Type: engine.Room, Index: 9}))

	_, err = Get("cluedo-jr")
	assert.ErrorIs(t, err, ErrUnknownTheme)
}

// TestThemesAreDealable verifies every theme can seat a full table.
func TestThemesAreDealable(t *testing.T) {
	seats := []engine.Seat{{ID: 1}, {ID: 2}, {ID: 3}, {ID: 4}, {ID: 5}, {ID: 6}}
	for _, th := range Themes() {
		g, err := engine.NewGame(th, seats, 1)
		require.NoError(t, err, th.ID)
		assert.Equal(t, th.ID, g.Catalog().ThemeID())
		assert.Equal(t, len(th.Suspects), g.Count(engine.Suspect), th.ID)
		assert.Len(t, th.Weapons, 6, th.ID)
		assert.Len(t, th.Rooms, 9, th.ID)
	}

	express, err := Get("express")
	require.NoError(t, err)
	assert.Len(t, express.Cards(engine.Suspect), 9)
}

// TestCardsIsACopy verifies callers cannot edit the catalog.
func TestCardsIsACopy(t *testing.T) {
	th, err := Get("tudor")
	require.NoError(t, err)
	th.Cards(engine.Weapon)[0] = "Banana"

	again, err := Get("tudor")
	require.NoError(t, err)
	assert.Equal(t, "Candlestick", again.Weapons[0])
}

// TestParseRejectsUnknownColor verifies color names must be declared.
func TestParseRejectsUnknownColor(t *testing.T) {
	_, err := parse([]byte(`
colors: {}
themes:
  - id: x
    suspects: [{id: x-a, name: A, shortName: A, color: teal}]
`))
	assert.ErrorContains(t, err, "unknown color")
}
