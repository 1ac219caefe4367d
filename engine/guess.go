package engine

// NoCard marks a card type with no index chosen in a Guess.
const NoCard = -1

// Guess is the current turn's accusation: at most one card index per type.
// The zero value is not an empty guess; use NewGuess.
type Guess [NumCardTypes]int

// NewGuess returns a guess with nothing chosen.
func NewGuess() Guess { return Guess{NoCard, NoCard, NoCard} }

// Has reports whether an index is chosen for t.
func (g Guess) Has(t CardType) bool { return t.valid() && g[t] != NoCard }

// Index returns the chosen index for t.
func (g Guess) Index(t CardType) (int, bool) {
	if !g.Has(t) {
		return NoCard, false
	}
	return g[t], true
}

// IsSet reports whether all three types are chosen.
func (g Guess) IsSet() bool {
	for _, t := range CardTypes {
		if !g.Has(t) {
			return false
		}
	}
	return true
}

// Cards returns the chosen cards in sheet order.
func (g Guess) Cards() []CardRef {
	cards := make([]CardRef, 0, NumCardTypes)
	for _, t := range CardTypes {
		if g.Has(t) {
			cards = append(cards, CardRef{Type: t, Index: g[t]})
		}
	}
	return cards
}
