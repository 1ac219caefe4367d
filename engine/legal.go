package engine

import "fmt"

func (g *Game) requireState(want ...State) error {
	for _, s := range want {
		if g.state == s {
			return nil
		}
	}
	return fmt.Errorf("%w: not allowed in %s", ErrInvalidStateTransition, g.state)
}

// card validates (t, i) against the active theme.
func (g *Game) card(t CardType, i int) (CardRef, error) {
	if !t.valid() || i < 0 || i >= g.counts[t] {
		return CardRef{}, fmt.Errorf("%w: %s index %d", ErrInvalidSlotIndex, t, i)
	}
	return CardRef{Type: t, Index: i}, nil
}

// CanShow reports whether player p may be chosen as the one who answered
// the current guess.
func (g *Game) CanShow(p int) bool {
	if g.state != ChoosePlayerWhoShowedCard || p < 0 || p >= len(g.players) || p == g.turn {
		return false
	}
	return p != 0 || g.players[0].Hand.anyOwned(g.guess.Cards())
}

// CanToggle reports whether the local player may toggle card (t, i) now.
func (g *Game) CanToggle(t CardType, i int) bool {
	if g.state != ChooseYourCards {
		return false
	}
	c, err := g.card(t, i)
	if err != nil {
		return false
	}
	self := g.players[0].Hand
	return self.slot(c).IsOwned() || self.OwnedCount() < self.size
}

// CanAdvance reports whether Advance would be accepted.
func (g *Game) CanAdvance() bool { return g.checkAdvance() == nil }

func (g *Game) checkAdvance() error {
	switch g.state {
	case NotStarted:
		return nil
	case ChooseYourCards:
		self := g.players[0].Hand
		if n := self.OwnedCount(); n != self.size {
			return fmt.Errorf("%w: declared %d of %d cards", ErrInvalidStateTransition, n, self.size)
		}
		return nil
	case PlayerIsGuessing:
		if !g.guess.IsSet() {
			return fmt.Errorf("%w: choose a suspect, weapon and room", ErrGuessIncomplete)
		}
		return nil
	case ChoosePlayerWhoShowedCard:
		if g.shower < 0 {
			return fmt.Errorf("%w: no player chosen as having shown a card", ErrInvalidStateTransition)
		}
		if g.turn == 0 && g.shown == nil {
			return fmt.Errorf("%w: no card recorded as shown to you", ErrInvalidStateTransition)
		}
		return nil
	}
	return fmt.Errorf("%w: unknown state %d", ErrInvalidStateTransition, g.state)
}
