package engine

// attachGroup records that player p showed one of the guessed cards without
// revealing which. Nothing is learned if p is already known to hold one of
// them.
func (g *Game) attachGroup(p int) {
	h := g.players[p].Hand
	cards := g.guess.Cards()
	if h.anyOwned(cards) {
		return
	}
	id := h.nextGroupID()
	for _, c := range cards {
		if s := h.slot(c); !s.IsKnown() {
			s.addGroup(id)
		}
	}
}

// reconcileTracker runs the exclusion search over player p's groups and
// then tidies the groups until nothing moves.
func (g *Game) reconcileTracker(p int) bool {
	h := g.players[p].Hand
	changed := false
	if h.OwnedCount() < h.size {
		groups := h.Groups()
		x := exclusion{hand: h, groups: groups}
		for i, grp := range groups {
			x.extend(i, setOf(grp.Members), 1, h.anyOwned(grp.Members))
		}
		changed = x.changed
	}
	if g.tidyGroups(p) {
		changed = true
	}
	return changed
}

// exclusion searches for chains of pairwise disjoint groups. Each group
// holds at least one of the player's cards, so once a chain is as long as
// the number of cards the player has left to place, those cards all lie
// inside the chain and nothing outside it can be held.
type exclusion struct {
	hand    *Hand
	groups  []Group
	changed bool
}

// extend tries to lengthen a chain ending at group last. merged is the
// union of the chain's members and length the number of groups in it.
// touchedOwned is set once any chained group has a member already known to
// be held, since that group might be satisfied by a card already counted.
func (x *exclusion) extend(last int, merged cardSet, length int, touchedOwned bool) {
	for j := last + 1; j < len(x.groups); j++ {
		next := x.groups[j]
		members := setOf(next.Members)
		if merged.intersects(members) {
			continue
		}
		combined := merged.union(members)
		seen := touchedOwned || x.hand.anyOwned(next.Members)

		budget := x.hand.size
		if !seen {
			budget -= x.hand.OwnedCount()
		}
		if length+1 >= budget {
			x.excludeOutside(combined)
			continue
		}
		x.extend(j, combined, length+1, seen)
	}
}

func (x *exclusion) excludeOutside(keep cardSet) {
	x.hand.each(func(s *Slot) {
		if !keep.has(s.Card) && s.setKnownNotOwned() {
			x.changed = true
		}
	})
}

// tidyGroups drops determined members, settles singleton groups, narrows a
// nearly full hand to the common members of its groups and collapses
// duplicate groups, repeating until a pass changes nothing.
func (g *Game) tidyGroups(p int) bool {
	h := g.players[p].Hand
	changed := false
	for {
		pass := false
		for _, grp := range h.Groups() {
			if h.anyOwned(grp.Members) {
				// Resolved: one of its cards is already accounted for.
				if h.stripGroup(grp.ID) {
					pass = true
				}
				continue
			}
			var open []CardRef
			for _, c := range grp.Members {
				s := h.slot(c)
				if s.IsKnown() {
					if s.removeGroup(grp.ID) {
						pass = true
					}
					continue
				}
				open = append(open, c)
			}
			if len(open) == 1 && g.markOwned(p, open[0]) {
				pass = true
			}
		}
		if h.OwnedCount() == h.size-1 && g.narrowToCommon(p) {
			pass = true
		}
		if dropDuplicateGroups(h) {
			pass = true
		}
		if !pass {
			return changed
		}
		changed = true
	}
}

// narrowToCommon: with one card left to place, that card lies in every
// group without a held member, so undetermined slots outside their
// intersection are not held.
func (g *Game) narrowToCommon(p int) bool {
	h := g.players[p].Hand
	var common cardSet
	found := false
	for _, grp := range h.Groups() {
		if h.anyOwned(grp.Members) {
			continue
		}
		members := setOf(grp.Members)
		if !found {
			common, found = members, true
			continue
		}
		common = common.intersect(members)
	}
	if !found {
		return false
	}
	changed := false
	h.each(func(s *Slot) {
		if !common.has(s.Card) && s.setKnownNotOwned() {
			changed = true
		}
	})
	return changed
}

// dropDuplicateGroups strips the later id of any two groups with the same
// members.
func dropDuplicateGroups(h *Hand) bool {
	groups := h.Groups()
	changed := false
	dropped := make(map[int]bool)
	for i := range groups {
		if dropped[groups[i].ID] {
			continue
		}
		a := setOf(groups[i].Members)
		for j := i + 1; j < len(groups); j++ {
			if dropped[groups[j].ID] || setOf(groups[j].Members) != a {
				continue
			}
			if h.stripGroup(groups[j].ID) {
				changed = true
			}
			dropped[groups[j].ID] = true
		}
	}
	return changed
}
