package engine

// Advance moves the turn state machine one step forward and saves a
// snapshot. A rejected Advance changes nothing.
//
//	NotStarted → ChooseYourCards → PlayerIsGuessing ⇄ ChoosePlayerWhoShowedCard
func (g *Game) Advance() error {
	if err := g.checkAdvance(); err != nil {
		return err
	}
	switch g.state {
	case NotStarted:
		// Keep the pre-start state too so the start itself can be undone.
		g.SaveSnapshot()
		g.state = ChooseYourCards
	case ChooseYourCards:
		g.beginPlay()
	case PlayerIsGuessing:
		g.closeGuess()
	case ChoosePlayerWhoShowedCard:
		g.resolveShow()
	}
	g.SaveSnapshot()
	return nil
}

// Skip ends the current turn early. From PlayerIsGuessing the player simply
// made no guess; from ChoosePlayerWhoShowedCard nobody could answer, so
// every other player is known to hold none of the guessed cards.
func (g *Game) Skip() error {
	if err := g.requireState(PlayerIsGuessing, ChoosePlayerWhoShowedCard); err != nil {
		return err
	}
	if g.state == ChoosePlayerWhoShowedCard {
		g.fillThrough(g.turn, g.turn-1)
		g.Reconcile()
	}
	g.nextTurn()
	g.SaveSnapshot()
	return nil
}

// beginPlay locks in the local player's declared hand.
func (g *Game) beginPlay() {
	g.turn = g.seatIndex(g.firstSeat)
	self := g.players[0].Hand
	self.each(func(s *Slot) {
		if !s.IsOwned() {
			s.setKnownNotOwned()
			return
		}
		for _, other := range g.players[1:] {
			other.Hand.setKnownNotOwned(s.Card)
		}
	})
	g.Reconcile()
	g.state = PlayerIsGuessing
}

// closeGuess flags an opponent's guessed cards for bluff tracking.
func (g *Game) closeGuess() {
	if g.turn != 0 {
		h := g.players[g.turn].Hand
		for _, c := range g.guess.Cards() {
			if s := h.slot(c); !s.IsKnown() {
				s.UserGuessed = true
			}
		}
	}
	g.shower = -1
	g.shown = nil
	g.state = ChoosePlayerWhoShowedCard
}

func (g *Game) resolveShow() {
	g.fillThrough(g.turn, g.shower-1)
	switch {
	case g.turn == 0:
		c := *g.shown
		g.markOwned(g.shower, c)
		g.players[g.shower].Hand.slot(c).RevealedToSelf = true
	case g.shower != 0:
		g.attachGroup(g.shower)
	}
	g.Reconcile()
	g.nextTurn()
}

// fillThrough marks the guessed cards as not held by every player strictly
// after start up to and including end, in turn order. Those players were
// asked before anyone answered and had nothing to show.
func (g *Game) fillThrough(start, end int) {
	n := len(g.players)
	steps := mod(end-start, n)
	for k := 1; k <= steps && k < n; k++ {
		h := g.players[mod(start+k, n)].Hand
		for _, c := range g.guess.Cards() {
			h.setKnownNotOwned(c)
		}
	}
}

func (g *Game) nextTurn() {
	g.clearTurn()
	g.turn = (g.turn + 1) % len(g.players)
	g.state = PlayerIsGuessing
}
