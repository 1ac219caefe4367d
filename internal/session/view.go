// internal/session/view.go
package session

import (
	"github.com/google/uuid"
	"github.com/jason-s-yu/cluesheet/catalog"
	"github.com/jason-s-yu/cluesheet/engine"
)

// CardNames lists the theme's card names per type, in sheet order.
type CardNames struct {
	Suspects []string `json:"suspects"`
	Weapons  []string `json:"weapons"`
	Rooms    []string `json:"rooms"`
}

// PlayerView is one column of the sheet.
type PlayerView struct {
	engine.Seat
	HandSize      int            `json:"handSize"`
	OwnedCount    int            `json:"ownedCount"`
	IsCurrentTurn bool           `json:"isCurrentTurn"`
	CanShow       bool           `json:"canShow"`
	Suspects      []engine.Slot  `json:"suspects"`
	Weapons       []engine.Slot  `json:"weapons"`
	Rooms         []engine.Slot  `json:"rooms"`
	Groups        []engine.Group `json:"groups,omitempty"`
}

// SheetView is the whole sheet as a client renders it.
type SheetView struct {
	SessionID  uuid.UUID               `json:"sessionId"`
	Theme      string                  `json:"theme"`
	Cards      CardNames               `json:"cards"`
	State      engine.State            `json:"state"`
	Turn       int                     `json:"turn"`
	FirstSeat  int                     `json:"firstSeat"`
	Players    []PlayerView            `json:"players"`
	Guess      engine.Guess            `json:"guess"`
	Shower     *int                    `json:"shower,omitempty"`
	ShownCard  *engine.CardRef         `json:"shownCard,omitempty"`
	Solution   map[engine.CardType]int `json:"solution"`
	CanAdvance bool                    `json:"canAdvance"`
	CanUndo    bool                    `json:"canUndo"`
	LastAction string                  `json:"lastAction"`
}

// buildView flattens the game for id. Assumes the session lock is held.
func buildView(id uuid.UUID, theme catalog.Theme, g *engine.Game) SheetView {
	v := SheetView{
		SessionID: id,
		Theme:     theme.ID,
		Cards: CardNames{
			Suspects: theme.Cards(engine.Suspect),
			Weapons:  theme.Cards(engine.Weapon),
			Rooms:    theme.Cards(engine.Room),
		},
		State:      g.State(),
		Turn:       g.Turn(),
		FirstSeat:  g.FirstSeat(),
		Guess:      g.Guess(),
		Solution:   make(map[engine.CardType]int),
		CanAdvance: g.CanAdvance(),
		CanUndo:    g.CanUndo(),
		LastAction: g.LastAction(),
	}
	if p, ok := g.Shower(); ok {
		v.Shower = &p
	}
	if c, ok := g.ShownCard(); ok {
		v.ShownCard = &c
	}
	for _, t := range engine.CardTypes {
		if idx, ok := g.Solution(t); ok {
			v.Solution[t] = idx
		}
	}

	playing := g.State() == engine.PlayerIsGuessing || g.State() == engine.ChoosePlayerWhoShowedCard
	for i, p := range g.Players() {
		pv := PlayerView{
			Seat:          p.Seat,
			HandSize:      p.Hand.Size(),
			OwnedCount:    p.Hand.OwnedCount(),
			IsCurrentTurn: playing && g.Turn() == i,
			CanShow:       g.CanShow(i),
			Groups:        p.Hand.Groups(),
		}
		pv.Suspects = slots(g, i, engine.Suspect)
		pv.Weapons = slots(g, i, engine.Weapon)
		pv.Rooms = slots(g, i, engine.Room)
		v.Players = append(v.Players, pv)
	}
	return v
}

func slots(g *engine.Game, p int, t engine.CardType) []engine.Slot {
	out := make([]engine.Slot, g.Count(t))
	for i := range out {
		// Indices come from the game itself, so the lookup cannot fail.
		out[i], _ = g.Slot(p, t, i)
	}
	return out
}
