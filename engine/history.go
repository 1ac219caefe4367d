package engine

import (
	"fmt"
	"slices"
)

// ---------------------------------------------------------------------------
// Snapshot Undo (Save / Restore)
// ---------------------------------------------------------------------------

// PlayerRecord is the saved form of one player's column.
type PlayerRecord struct {
	Seat     Seat                 `json:"seat"`
	HandSize int                  `json:"handSize"`
	Slots    [NumCardTypes][]Slot `json:"slots"`
}

// Snapshot is a deep copy of everything a transition can change. A
// snapshot never shares slices with a live Game.
type Snapshot struct {
	State     State          `json:"state"`
	Turn      int            `json:"turn"`
	FirstSeat int            `json:"firstSeat"`
	Players   []PlayerRecord `json:"players"`
	Guess     Guess          `json:"guess"`
	Shower    int            `json:"shower"`
	Shown     *CardRef       `json:"shown,omitempty"`
}

func (s Snapshot) clone() Snapshot {
	c := s
	c.Players = make([]PlayerRecord, len(s.Players))
	for i, p := range s.Players {
		c.Players[i] = p
		for _, t := range CardTypes {
			c.Players[i].Slots[t] = make([]Slot, len(p.Slots[t]))
			for j, slot := range p.Slots[t] {
				c.Players[i].Slots[t][j] = slot.clone()
			}
		}
	}
	if s.Shown != nil {
		shown := *s.Shown
		c.Shown = &shown
	}
	return c
}

// Snapshot returns a deep copy of the live state.
func (g *Game) Snapshot() Snapshot {
	s := Snapshot{
		State:     g.state,
		Turn:      g.turn,
		FirstSeat: g.firstSeat,
		Players:   make([]PlayerRecord, len(g.players)),
		Guess:     g.guess,
		Shower:    g.shower,
	}
	for i, p := range g.players {
		h := p.Hand.clone()
		s.Players[i] = PlayerRecord{Seat: p.Seat, HandSize: h.size, Slots: h.slots}
	}
	if g.shown != nil {
		shown := *g.shown
		s.Shown = &shown
	}
	return s
}

// restore replaces the live state with a copy of s.
func (g *Game) restore(s Snapshot) {
	s = s.clone()
	g.state = s.State
	g.turn = s.Turn
	g.firstSeat = s.FirstSeat
	g.players = make([]*Player, len(s.Players))
	for i, p := range s.Players {
		g.players[i] = &Player{Seat: p.Seat, Hand: &Hand{size: p.HandSize, slots: p.Slots}}
	}
	g.guess = s.Guess
	g.shower = s.Shower
	g.shown = s.Shown
}

// History is the undo stack. The zero value is empty.
type History struct {
	snapshots []Snapshot
}

// Len returns the number of saved snapshots.
func (h *History) Len() int { return len(h.snapshots) }

func (h *History) push(s Snapshot) { h.snapshots = append(h.snapshots, s) }

func (h *History) pop() bool {
	if len(h.snapshots) == 0 {
		return false
	}
	h.snapshots[len(h.snapshots)-1] = Snapshot{}
	h.snapshots = h.snapshots[:len(h.snapshots)-1]
	return true
}

func (h *History) at(i int) (Snapshot, bool) {
	if i < 0 || i >= len(h.snapshots) {
		return Snapshot{}, false
	}
	return h.snapshots[i], true
}

func (h *History) clear() { h.snapshots = nil }

// SaveSnapshot pushes a deep copy of the live state onto the history.
func (g *Game) SaveSnapshot() { g.history.push(g.Snapshot()) }

// Undo drops the newest snapshot and restores the one beneath it, or a
// fresh NotStarted game when none is left. It reports false, changing
// nothing, when the history is already empty.
func (g *Game) Undo() bool {
	if !g.history.pop() {
		return false
	}
	if top, ok := g.history.at(g.history.Len() - 1); ok {
		g.restore(top)
		return true
	}
	g.reset()
	return true
}

// Restart empties the history and clears every hand. Theme and roster are
// kept.
func (g *Game) Restart() {
	g.history.clear()
	g.reset()
}

// ---------------------------------------------------------------------------
// Record: persisted form of a game and its history
// ---------------------------------------------------------------------------

// Record is a JSON-friendly copy of a game and its undo history.
type Record struct {
	Theme   string     `json:"theme"`
	Live    Snapshot   `json:"live"`
	History []Snapshot `json:"history,omitempty"`
}

// Export returns a deep copy of the game and its history.
func (g *Game) Export() Record {
	r := Record{
		Theme:   g.catalog.ThemeID(),
		Live:    g.Snapshot(),
		History: make([]Snapshot, len(g.history.snapshots)),
	}
	for i, s := range g.history.snapshots {
		r.History[i] = s.clone()
	}
	return r
}

// Import rebuilds a game from a Record. cat must be the theme the record
// was exported with.
func Import(cat Catalog, r Record) (*Game, error) {
	counts, err := catalogCounts(cat)
	if err != nil {
		return nil, err
	}
	if r.Theme != cat.ThemeID() {
		return nil, fmt.Errorf("record theme %q does not match catalog %q", r.Theme, cat.ThemeID())
	}
	for i, s := range append(slices.Clone(r.History), r.Live) {
		if err := checkSnapshot(s, counts); err != nil {
			return nil, fmt.Errorf("snapshot %d: %w", i, err)
		}
	}
	g := &Game{catalog: cat, counts: counts, rules: defaultRules()}
	g.restore(r.Live)
	for _, s := range r.History {
		g.history.push(s.clone())
	}
	return g, nil
}

func checkSnapshot(s Snapshot, counts [NumCardTypes]int) error {
	seats := make([]Seat, len(s.Players))
	for i, p := range s.Players {
		seats[i] = p.Seat
		for _, t := range CardTypes {
			if len(p.Slots[t]) != counts[t] {
				return fmt.Errorf("%w: player %d has %d %s slots, want %d", ErrInvalidSlotIndex, i, len(p.Slots[t]), t, counts[t])
			}
			for j, slot := range p.Slots[t] {
				if slot.Card != (CardRef{Type: t, Index: j}) {
					return fmt.Errorf("%w: player %d slot %s#%d holds %s", ErrInvalidSlotIndex, i, t, j, slot.Card)
				}
			}
		}
	}
	if err := validateRoster(seats, s.FirstSeat); err != nil {
		return err
	}
	if s.Turn < 0 || s.Turn >= len(s.Players) {
		return fmt.Errorf("%w: turn %d", ErrInvalidSlotIndex, s.Turn)
	}
	if s.Shower < -1 || s.Shower >= len(s.Players) {
		return fmt.Errorf("%w: shower %d", ErrInvalidSlotIndex, s.Shower)
	}
	for _, t := range CardTypes {
		if idx := s.Guess[t]; idx != NoCard && (idx < 0 || idx >= counts[t]) {
			return fmt.Errorf("%w: guessed %s index %d", ErrInvalidSlotIndex, t, idx)
		}
	}
	if c := s.Shown; c != nil && (!c.Type.valid() || c.Index < 0 || c.Index >= counts[c.Type]) {
		return fmt.Errorf("%w: shown %s", ErrInvalidSlotIndex, *c)
	}
	return nil
}
