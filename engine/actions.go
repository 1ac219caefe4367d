package engine

import "fmt"

// ToggleOwned flips whether the local player holds card (t, i) while hands
// are being declared. Adding a card to a full hand is rejected.
func (g *Game) ToggleOwned(t CardType, i int) error {
	if err := g.requireState(ChooseYourCards); err != nil {
		return err
	}
	c, err := g.card(t, i)
	if err != nil {
		return err
	}
	self := g.players[0].Hand
	s := self.slot(c)
	if !s.IsOwned() && self.OwnedCount() >= self.size {
		return fmt.Errorf("%w: already holding %d cards", ErrHandFull, self.size)
	}
	s.toggleOwned()
	return nil
}

// SetGuess chooses the accused card of type t for the current turn.
func (g *Game) SetGuess(t CardType, i int) error {
	if err := g.requireState(PlayerIsGuessing); err != nil {
		return err
	}
	c, err := g.card(t, i)
	if err != nil {
		return err
	}
	g.guess[c.Type] = c.Index
	return nil
}

// SetShower records which player answered the guess with a card. The
// guesser cannot answer their own guess, and the local player can only
// answer if they hold one of the guessed cards.
func (g *Game) SetShower(p int) error {
	if err := g.requireState(ChoosePlayerWhoShowedCard); err != nil {
		return err
	}
	if p < 0 || p >= len(g.players) {
		return fmt.Errorf("%w: player %d", ErrInvalidSlotIndex, p)
	}
	if p == g.turn {
		return fmt.Errorf("%w: player %d cannot answer their own guess", ErrInvalidStateTransition, p)
	}
	if p == 0 && !g.players[0].Hand.anyOwned(g.guess.Cards()) {
		return fmt.Errorf("%w: you hold none of the guessed cards", ErrInvalidStateTransition)
	}
	if g.shown != nil {
		if err := g.couldHaveShown(p, *g.shown); err != nil {
			return err
		}
	}
	g.shower = p
	return nil
}

// SetShownCard records which guessed card was shown to the local player.
// Only valid on the local player's own turn.
func (g *Game) SetShownCard(t CardType, i int) error {
	if err := g.requireState(ChoosePlayerWhoShowedCard); err != nil {
		return err
	}
	if g.turn != 0 {
		return fmt.Errorf("%w: only your own guesses reveal a card to you", ErrInvalidStateTransition)
	}
	c, err := g.card(t, i)
	if err != nil {
		return err
	}
	if idx, ok := g.guess.Index(t); !ok || idx != i {
		return fmt.Errorf("%w: %s was not guessed", ErrInvalidStateTransition, c)
	}
	if g.players[0].Hand.slot(c).IsOwned() {
		return fmt.Errorf("%w: you hold %s", ErrInvalidStateTransition, c)
	}
	if g.shower >= 0 {
		if err := g.couldHaveShown(g.shower, c); err != nil {
			return err
		}
	}
	g.shown = &c
	return nil
}

// couldHaveShown rejects a shown card that contradicts the sheet: player p
// is known not to hold it, or someone else already does.
func (g *Game) couldHaveShown(p int, c CardRef) error {
	if g.players[p].Hand.slot(c).Ownership == KnownNotOwned {
		return fmt.Errorf("%w: player %d is known not to hold %s", ErrInvalidStateTransition, p, c)
	}
	for i, other := range g.players {
		if i != p && other.Hand.slot(c).IsOwned() {
			return fmt.Errorf("%w: player %d already holds %s", ErrInvalidStateTransition, i, c)
		}
	}
	return nil
}
