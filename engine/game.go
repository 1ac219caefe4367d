// Package engine implements the deduction sheet for a Clue-style game.
//
// A Game holds one Hand per seated player and derives who holds which card
// as guesses are answered. It is a plain state object: every command runs
// to completion, there is no I/O, and nothing is shared between games.
// Callers that need concurrent access must serialize commands themselves.
package engine

import (
	"fmt"
	"slices"
)

const (
	MinPlayers = 3
	MaxPlayers = 6

	// SolutionCards is the number of cards held by nobody, one per type.
	SolutionCards = NumCardTypes
)

// Catalog supplies the ordered card names of a theme.
type Catalog interface {
	ThemeID() string
	Cards(t CardType) []string
}

// Player is one seat on the roster together with its column of the sheet.
type Player struct {
	Seat
	Hand *Hand
}

// Game holds the complete state of one deduction sheet.
type Game struct {
	catalog Catalog
	counts  [NumCardTypes]int

	state     State
	players   []*Player // turn order; players[0] is the local player
	firstSeat int
	turn      int
	guess     Guess
	shower    int // active-list index of the player who showed a card, -1 if none
	shown     *CardRef

	history History
	rules   []rule
}

// NewGame creates a game in NotStarted for the given theme and roster.
// firstSeat is the Seat.ID of the player who takes the first turn.
func NewGame(cat Catalog, seats []Seat, firstSeat int) (*Game, error) {
	counts, err := catalogCounts(cat)
	if err != nil {
		return nil, err
	}
	if err := validateRoster(seats, firstSeat); err != nil {
		return nil, err
	}
	g := &Game{
		catalog:   cat,
		counts:    counts,
		firstSeat: firstSeat,
		rules:     defaultRules(),
	}
	g.seat(seats)
	g.reset()
	return g, nil
}

func catalogCounts(cat Catalog) ([NumCardTypes]int, error) {
	var counts [NumCardTypes]int
	if cat == nil {
		return counts, fmt.Errorf("nil catalog")
	}
	total := 0
	for _, t := range CardTypes {
		n := len(cat.Cards(t))
		if n < 1 || n > maxCardsPerType {
			return counts, fmt.Errorf("theme %q: %d %s cards, want 1..%d", cat.ThemeID(), n, t, maxCardsPerType)
		}
		counts[t] = n
		total += n
	}
	if total-SolutionCards < MaxPlayers {
		return counts, fmt.Errorf("theme %q: %d cards is too few to deal", cat.ThemeID(), total)
	}
	return counts, nil
}

func validateRoster(seats []Seat, firstSeat int) error {
	if len(seats) < MinPlayers || len(seats) > MaxPlayers {
		return fmt.Errorf("%w: %d players, want %d..%d", ErrRosterConstraint, len(seats), MinPlayers, MaxPlayers)
	}
	seen := make(map[int]bool, len(seats))
	for _, s := range seats {
		if seen[s.ID] {
			return fmt.Errorf("%w: duplicate seat %d", ErrRosterConstraint, s.ID)
		}
		seen[s.ID] = true
	}
	if !seen[firstSeat] {
		return fmt.Errorf("%w: first player %d is not seated", ErrRosterConstraint, firstSeat)
	}
	return nil
}

func (g *Game) seat(seats []Seat) {
	g.players = make([]*Player, len(seats))
	for i, s := range seats {
		g.players[i] = &Player{Seat: s}
	}
}

// reset clears every hand and returns to NotStarted. The history is left
// to the caller.
func (g *Game) reset() {
	sizes := handSizes(g.dealtCards(), len(g.players), g.seatIndex(g.firstSeat))
	for i, p := range g.players {
		p.Hand = newHand(g.counts, sizes[i])
	}
	g.state = NotStarted
	g.turn = 0
	g.clearTurn()
}

func (g *Game) clearTurn() {
	g.guess = NewGuess()
	g.shower = -1
	g.shown = nil
}

func (g *Game) dealtCards() int {
	return g.counts[Suspect] + g.counts[Weapon] + g.counts[Room] - SolutionCards
}

// handSizes deals cards one at a time around the table starting with the
// first player, so the first (dealt mod n) players get one extra card.
func handSizes(dealt, n, first int) []int {
	sizes := make([]int, n)
	for i := range sizes {
		offset := mod(i-first, n)
		sizes[i] = dealt / n
		if offset < dealt%n {
			sizes[i]++
		}
	}
	return sizes
}

func mod(a, n int) int { return ((a % n) + n) % n }

func (g *Game) seatIndex(id int) int {
	return slices.IndexFunc(g.players, func(p *Player) bool { return p.ID == id })
}

// ---------------------------------------------------------------------------
// Queries
// ---------------------------------------------------------------------------

// Catalog returns the active theme.
func (g *Game) Catalog() Catalog { return g.catalog }

// State returns the turn state machine's phase.
func (g *Game) State() State { return g.state }

// Turn returns the active-list index of the player whose turn it is.
func (g *Game) Turn() int { return g.turn }

// FirstSeat returns the Seat.ID of the player who moves first.
func (g *Game) FirstSeat() int { return g.firstSeat }

// NumPlayers returns the roster size.
func (g *Game) NumPlayers() int { return len(g.players) }

// Count returns the number of cards of type t in the active theme.
func (g *Game) Count(t CardType) int {
	if !t.valid() {
		return 0
	}
	return g.counts[t]
}

// Player returns the player at active-list index i.
func (g *Game) Player(i int) (Player, error) {
	if i < 0 || i >= len(g.players) {
		return Player{}, fmt.Errorf("%w: player %d", ErrInvalidSlotIndex, i)
	}
	return *g.players[i], nil
}

// Players returns the roster in turn order.
func (g *Game) Players() []Player {
	out := make([]Player, len(g.players))
	for i, p := range g.players {
		out[i] = *p
	}
	return out
}

// Slot returns player p's slot for card (t, i).
func (g *Game) Slot(p int, t CardType, i int) (Slot, error) {
	if p < 0 || p >= len(g.players) {
		return Slot{}, fmt.Errorf("%w: player %d", ErrInvalidSlotIndex, p)
	}
	return g.players[p].Hand.Slot(t, i)
}

// Guess returns the current accusation.
func (g *Game) Guess() Guess { return g.guess }

// Shower returns the player chosen as having shown a card this turn.
func (g *Game) Shower() (int, bool) { return g.shower, g.shower >= 0 }

// ShownCard returns the card privately shown to the local player this turn.
func (g *Game) ShownCard() (CardRef, bool) {
	if g.shown == nil {
		return CardRef{}, false
	}
	return *g.shown, true
}

// Solution returns the index of type t that every player is known not to
// hold, if it has been deduced.
func (g *Game) Solution(t CardType) (int, bool) {
	if !t.valid() {
		return NoCard, false
	}
	for i := 0; i < g.counts[t]; i++ {
		c := CardRef{Type: t, Index: i}
		if g.heldByNobody(c) {
			return i, true
		}
	}
	return NoCard, false
}

func (g *Game) heldByNobody(c CardRef) bool {
	for _, p := range g.players {
		if p.Hand.slot(c).Ownership != KnownNotOwned {
			return false
		}
	}
	return true
}

// CanUndo reports whether there is a transition to undo.
func (g *Game) CanUndo() bool { return g.history.Len() > 0 }

// LastAction labels the transition a call to Undo would revert.
func (g *Game) LastAction() string {
	s, ok := g.history.at(g.history.Len() - 2)
	if !ok {
		return NotStarted.Label()
	}
	return s.State.Label()
}

// ---------------------------------------------------------------------------
// Setup commands (NotStarted only)
// ---------------------------------------------------------------------------

// SetTheme switches the card catalog and resizes every hand. Saved
// snapshots hold columns sized for the old theme, so the history is
// cleared as on Restart.
func (g *Game) SetTheme(cat Catalog) error {
	if g.state != NotStarted {
		return fmt.Errorf("%w: theme is fixed once the game starts", ErrInvalidStateTransition)
	}
	counts, err := catalogCounts(cat)
	if err != nil {
		return err
	}
	g.catalog = cat
	g.counts = counts
	g.history.clear()
	g.reset()
	return nil
}

// SetRoster replaces the players and recomputes hand sizes.
func (g *Game) SetRoster(seats []Seat, firstSeat int) error {
	if g.state != NotStarted {
		return fmt.Errorf("%w: roster is fixed once the game starts", ErrInvalidStateTransition)
	}
	if err := validateRoster(seats, firstSeat); err != nil {
		return err
	}
	g.firstSeat = firstSeat
	g.seat(seats)
	g.reset()
	return nil
}

// SetFirstPlayer designates who takes the first turn and recomputes hand
// sizes.
func (g *Game) SetFirstPlayer(seatID int) error {
	if g.state != NotStarted {
		return fmt.Errorf("%w: first player is fixed once the game starts", ErrInvalidStateTransition)
	}
	i := g.seatIndex(seatID)
	if i < 0 {
		return fmt.Errorf("%w: first player %d is not seated", ErrRosterConstraint, seatID)
	}
	g.firstSeat = seatID
	sizes := handSizes(g.dealtCards(), len(g.players), i)
	for j, p := range g.players {
		p.Hand.size = sizes[j]
	}
	return nil
}

// ---------------------------------------------------------------------------
// Fact propagation shared by the turn machine and the rules
// ---------------------------------------------------------------------------

// markOwned records that player p holds c. Nobody else can hold it.
func (g *Game) markOwned(p int, c CardRef) bool {
	changed := g.players[p].Hand.setOwned(c)
	for i, other := range g.players {
		if i != p && other.Hand.setKnownNotOwned(c) {
			changed = true
		}
	}
	return changed
}

// markNotOwnedByAll records that c is held by nobody.
func (g *Game) markNotOwnedByAll(c CardRef) bool {
	changed := false
	for _, p := range g.players {
		if p.Hand.setKnownNotOwned(c) {
			changed = true
		}
	}
	return changed
}
