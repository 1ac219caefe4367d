package engine

import "slices"

// Slot is one player's knowledge of one card.
type Slot struct {
	Card           CardRef   `json:"card"`
	Ownership      Ownership `json:"ownership"`
	UserGuessed    bool      `json:"userGuessed,omitempty"`
	RevealedToSelf bool      `json:"revealedToSelf,omitempty"`
	// Groups holds the ids of the guess groups this slot still belongs to,
	// ascending. Known slots never belong to a group.
	Groups []int `json:"groups,omitempty"`
}

// IsKnown reports whether the slot is Owned or KnownNotOwned.
func (s *Slot) IsKnown() bool { return s.Ownership != Unknown }

// IsOwned reports whether the player is known to hold the card.
func (s *Slot) IsOwned() bool { return s.Ownership == Owned }

// InGroup reports whether the slot belongs to guess group id.
func (s *Slot) InGroup(id int) bool {
	_, ok := slices.BinarySearch(s.Groups, id)
	return ok
}

// setKnownNotOwned marks an Unknown slot as not held and drops its group
// memberships. Owned slots are left alone.
func (s *Slot) setKnownNotOwned() bool {
	if s.Ownership != Unknown {
		return false
	}
	s.Ownership = KnownNotOwned
	s.Groups = nil
	return true
}

// setOwned marks the slot held and returns the groups it belonged to.
func (s *Slot) setOwned() (changed bool, groups []int) {
	groups = s.Groups
	s.Groups = nil
	if s.Ownership == Owned {
		return false, groups
	}
	s.Ownership = Owned
	return true, groups
}

// toggleOwned flips between Unknown and Owned. Only hand declaration uses it.
func (s *Slot) toggleOwned() {
	if s.Ownership == Owned {
		s.Ownership = Unknown
		return
	}
	s.Ownership = Owned
	s.Groups = nil
}

func (s *Slot) addGroup(id int) {
	i, ok := slices.BinarySearch(s.Groups, id)
	if ok {
		return
	}
	s.Groups = slices.Insert(s.Groups, i, id)
}

func (s *Slot) removeGroup(id int) bool {
	i, ok := slices.BinarySearch(s.Groups, id)
	if !ok {
		return false
	}
	s.Groups = slices.Delete(s.Groups, i, i+1)
	if len(s.Groups) == 0 {
		s.Groups = nil
	}
	return true
}

func (s Slot) clone() Slot {
	s.Groups = slices.Clone(s.Groups)
	return s
}
