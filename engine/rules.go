package engine

// rule derives new facts from the sheet and reports whether it changed
// anything. Rules only ever move slots out of Unknown or drop group
// memberships, so repeating them always reaches a fixpoint.
type rule func(g *Game) bool

// defaultRules is the order Reconcile applies the rules in on each pass.
func defaultRules() []rule {
	return []rule{
		(*Game).settleGroups,
		(*Game).assignLastHolder,
		(*Game).identifySolution,
		(*Game).fillRemainingCapacity,
		(*Game).closeFullHands,
	}
}

// Reconcile applies every rule until a full pass changes nothing and
// reports whether anything changed.
func (g *Game) Reconcile() bool {
	changed := false
	for {
		pass := false
		for _, r := range g.rules {
			if r(g) {
				pass = true
			}
		}
		if !pass {
			return changed
		}
		changed = true
	}
}

// settleGroups runs the guess-group tracker for every opponent that has
// at least one live group.
func (g *Game) settleGroups() bool {
	changed := false
	for p := 1; p < len(g.players); p++ {
		if len(g.players[p].Hand.Groups()) == 0 {
			continue
		}
		if g.reconcileTracker(p) {
			changed = true
		}
	}
	return changed
}

// assignLastHolder applies once a type's solution card is known: any other
// card of that type that nobody is known to hold and only one player might
// hold belongs to that player.
func (g *Game) assignLastHolder() bool {
	changed := false
	for _, t := range CardTypes {
		if _, ok := g.Solution(t); !ok {
			continue
		}
		for i := 0; i < g.counts[t]; i++ {
			c := CardRef{Type: t, Index: i}
			holder, candidates := -1, 0
			for p, pl := range g.players {
				s := pl.Hand.slot(c)
				if s.IsOwned() {
					candidates = 0
					break
				}
				if !s.IsKnown() {
					holder = p
					candidates++
				}
			}
			if candidates == 1 && g.markOwned(holder, c) {
				changed = true
			}
		}
	}
	return changed
}

// identifySolution applies while a type's solution card is still open: if
// every card of the type but one is held by someone, that one is held by
// nobody.
func (g *Game) identifySolution() bool {
	changed := false
	for _, t := range CardTypes {
		if _, ok := g.Solution(t); ok {
			continue
		}
		last, open := NoCard, 0
		for i := 0; i < g.counts[t]; i++ {
			if !g.heldBySomeone(CardRef{Type: t, Index: i}) {
				last = i
				open++
			}
		}
		if open == 1 && g.markNotOwnedByAll(CardRef{Type: t, Index: last}) {
			changed = true
		}
	}
	return changed
}

func (g *Game) heldBySomeone(c CardRef) bool {
	for _, p := range g.players {
		if p.Hand.slot(c).IsOwned() {
			return true
		}
	}
	return false
}

// fillRemainingCapacity: when a player's undetermined slots are exactly
// the cards still missing from their hand, they hold all of them.
func (g *Game) fillRemainingCapacity() bool {
	changed := false
	for p, pl := range g.players {
		h := pl.Hand
		if h.OwnedCount() >= h.size || h.TotalCards()-h.KnownNotOwnedCount() != h.size {
			continue
		}
		h.each(func(s *Slot) {
			if !s.IsKnown() && g.markOwned(p, s.Card) {
				changed = true
			}
		})
	}
	return changed
}

// closeFullHands: a player whose every card is known holds nothing else.
func (g *Game) closeFullHands() bool {
	changed := false
	for _, pl := range g.players {
		h := pl.Hand
		if h.OwnedCount() < h.size {
			continue
		}
		h.each(func(s *Slot) {
			if s.setKnownNotOwned() {
				changed = true
			}
		})
	}
	return changed
}
