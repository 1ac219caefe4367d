package engine

import (
	"fmt"
	"slices"
)

// Hand is one player's column of the sheet: a Slot for every card of the
// active theme plus the number of cards the player was dealt.
type Hand struct {
	size  int
	slots [NumCardTypes][]Slot
}

func newHand(counts [NumCardTypes]int, size int) *Hand {
	h := &Hand{size: size}
	for _, t := range CardTypes {
		h.slots[t] = make([]Slot, counts[t])
		for i := range h.slots[t] {
			h.slots[t][i].Card = CardRef{Type: t, Index: i}
		}
	}
	return h
}

// Size returns the number of cards dealt to the player.
func (h *Hand) Size() int { return h.size }

// Len returns the number of slots of type t.
func (h *Hand) Len(t CardType) int {
	if !t.valid() {
		return 0
	}
	return len(h.slots[t])
}

// Slot returns a copy of the slot for card (t, i).
func (h *Hand) Slot(t CardType, i int) (Slot, error) {
	if !h.contains(CardRef{Type: t, Index: i}) {
		return Slot{}, fmt.Errorf("%w: %s index %d", ErrInvalidSlotIndex, t, i)
	}
	return h.slots[t][i].clone(), nil
}

func (h *Hand) contains(c CardRef) bool {
	return c.Type.valid() && c.Index >= 0 && c.Index < len(h.slots[c.Type])
}

// slot returns the live slot for c; c must already be validated.
func (h *Hand) slot(c CardRef) *Slot { return &h.slots[c.Type][c.Index] }

func (h *Hand) each(fn func(s *Slot)) {
	for _, t := range CardTypes {
		for i := range h.slots[t] {
			fn(&h.slots[t][i])
		}
	}
}

// TotalCards returns the number of slots across all three types.
func (h *Hand) TotalCards() int {
	return len(h.slots[Suspect]) + len(h.slots[Weapon]) + len(h.slots[Room])
}

func (h *Hand) count(o Ownership) int {
	n := 0
	h.each(func(s *Slot) {
		if s.Ownership == o {
			n++
		}
	})
	return n
}

// OwnedCount returns the number of slots known to be held.
func (h *Hand) OwnedCount() int { return h.count(Owned) }

// KnownNotOwnedCount returns the number of slots known not to be held.
func (h *Hand) KnownNotOwnedCount() int { return h.count(KnownNotOwned) }

// KnownCount returns the number of determined slots.
func (h *Hand) KnownCount() int { return h.OwnedCount() + h.KnownNotOwnedCount() }

func (h *Hand) anyOwned(cards []CardRef) bool {
	for _, c := range cards {
		if h.slot(c).IsOwned() {
			return true
		}
	}
	return false
}

func (h *Hand) setKnownNotOwned(c CardRef) bool { return h.slot(c).setKnownNotOwned() }

// setOwned marks c held. Every group c belonged to is resolved, so its id
// is stripped from the rest of the hand as well.
func (h *Hand) setOwned(c CardRef) bool {
	changed, groups := h.slot(c).setOwned()
	for _, id := range groups {
		if h.stripGroup(id) {
			changed = true
		}
	}
	return changed
}

// ---------------------------------------------------------------------------
// Guess groups
// ---------------------------------------------------------------------------

// Group is a set of a player's undetermined cards known to contain at least
// one card the player holds.
type Group struct {
	ID      int       `json:"id"`
	Members []CardRef `json:"members"`
}

// Groups returns the live guess groups in ascending id order. Members are
// listed in sheet order.
func (h *Hand) Groups() []Group {
	var groups []Group
	h.each(func(s *Slot) {
		for _, id := range s.Groups {
			i, ok := slices.BinarySearchFunc(groups, id, func(g Group, id int) int { return g.ID - id })
			if !ok {
				groups = slices.Insert(groups, i, Group{ID: id})
			}
			groups[i].Members = append(groups[i].Members, s.Card)
		}
	})
	return groups
}

// nextGroupID returns the smallest positive id no slot is using.
func (h *Hand) nextGroupID() int {
	used := make(map[int]bool)
	h.each(func(s *Slot) {
		for _, id := range s.Groups {
			used[id] = true
		}
	})
	id := 1
	for used[id] {
		id++
	}
	return id
}

func (h *Hand) stripGroup(id int) bool {
	changed := false
	h.each(func(s *Slot) {
		if s.removeGroup(id) {
			changed = true
		}
	})
	return changed
}

func (h *Hand) clone() *Hand {
	c := &Hand{size: h.size}
	for _, t := range CardTypes {
		c.slots[t] = make([]Slot, len(h.slots[t]))
		for i, s := range h.slots[t] {
			c.slots[t][i] = s.clone()
		}
	}
	return c
}
