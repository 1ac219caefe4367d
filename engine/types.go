package engine

import (
	"fmt"
	"strings"
)

// CardType identifies one of the three card lists of a theme.
type CardType uint8

const (
	Suspect CardType = iota // 0
	Weapon                  // 1
	Room                    // 2
)

// NumCardTypes is the number of card lists on a sheet.
const NumCardTypes = 3

// CardTypes lists every card type in sheet order.
var CardTypes = [NumCardTypes]CardType{Suspect, Weapon, Room}

func (t CardType) String() string {
	switch t {
	case Suspect:
		return "suspect"
	case Weapon:
		return "weapon"
	case Room:
		return "room"
	}
	return fmt.Sprintf("CardType(%d)", uint8(t))
}

func (t CardType) valid() bool { return t < NumCardTypes }

// ParseCardType accepts the String form of a card type, case-insensitively.
func ParseCardType(s string) (CardType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "suspect", "suspects":
		return Suspect, nil
	case "weapon", "weapons":
		return Weapon, nil
	case "room", "rooms":
		return Room, nil
	}
	return 0, fmt.Errorf("unknown card type %q", s)
}

// MarshalText encodes the card type by name.
func (t CardType) MarshalText() ([]byte, error) {
	if !t.valid() {
		return nil, fmt.Errorf("invalid card type %d", uint8(t))
	}
	return []byte(t.String()), nil
}

// UnmarshalText decodes a card type name.
func (t *CardType) UnmarshalText(b []byte) error {
	v, err := ParseCardType(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// Ownership is what is known about one player holding one card.
// Owned is terminal: nothing moves a slot out of it once play has begun.
type Ownership uint8

const (
	Unknown       Ownership = iota // 0
	KnownNotOwned                  // 1
	Owned                          // 2
)

func (o Ownership) String() string {
	switch o {
	case Unknown:
		return "unknown"
	case KnownNotOwned:
		return "not_owned"
	case Owned:
		return "owned"
	}
	return fmt.Sprintf("Ownership(%d)", uint8(o))
}

// MarshalText encodes the ownership by name.
func (o Ownership) MarshalText() ([]byte, error) { return []byte(o.String()), nil }

// UnmarshalText decodes an ownership name.
func (o *Ownership) UnmarshalText(b []byte) error {
	switch string(b) {
	case "unknown":
		*o = Unknown
	case "not_owned":
		*o = KnownNotOwned
	case "owned":
		*o = Owned
	default:
		return fmt.Errorf("unknown ownership %q", b)
	}
	return nil
}

// CardRef names one card of the active theme.
type CardRef struct {
	Type  CardType `json:"type"`
	Index int      `json:"index"`
}

func (c CardRef) String() string { return fmt.Sprintf("%s#%d", c.Type, c.Index) }

// State is the phase of the turn state machine.
type State uint8

const (
	NotStarted                State = iota // 0
	ChooseYourCards                        // 1
	PlayerIsGuessing                       // 2
	ChoosePlayerWhoShowedCard              // 3
)

func (s State) String() string {
	switch s {
	case NotStarted:
		return "not_started"
	case ChooseYourCards:
		return "choose_your_cards"
	case PlayerIsGuessing:
		return "player_is_guessing"
	case ChoosePlayerWhoShowedCard:
		return "choose_player_who_showed_card"
	}
	return fmt.Sprintf("State(%d)", uint8(s))
}

// Label is the short description of the transition that leaves s.
func (s State) Label() string {
	switch s {
	case ChooseYourCards:
		return "Card Select"
	case PlayerIsGuessing:
		return "Player Guess"
	case ChoosePlayerWhoShowedCard:
		return "Card Shown"
	}
	return "Start"
}

// MarshalText encodes the state by name.
func (s State) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// UnmarshalText decodes a state name.
func (s *State) UnmarshalText(b []byte) error {
	for _, v := range [...]State{NotStarted, ChooseYourCards, PlayerIsGuessing, ChoosePlayerWhoShowedCard} {
		if v.String() == string(b) {
			*s = v
			return nil
		}
	}
	return fmt.Errorf("unknown state %q", b)
}

// Seat identifies a player on the roster. IDs are stable for the life of a
// game; the roster order is the turn order and Seats[0] is the local player.
type Seat struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// ---------------------------------------------------------------------------
// cardSet: one bit per card, indexed by type then card index
// ---------------------------------------------------------------------------

// maxCardsPerType bounds a theme list so a cardSet row fits in a uint64.
const maxCardsPerType = 64

type cardSet [NumCardTypes]uint64

func setOf(cards []CardRef) cardSet {
	var s cardSet
	for _, c := range cards {
		s.add(c)
	}
	return s
}

func (s *cardSet) add(c CardRef)     { s[c.Type] |= 1 << uint(c.Index) }
func (s cardSet) has(c CardRef) bool { return s[c.Type]&(1<<uint(c.Index)) != 0 }

func (s cardSet) intersects(o cardSet) bool {
	for t := range s {
		if s[t]&o[t] != 0 {
			return true
		}
	}
	return false
}

func (s cardSet) union(o cardSet) cardSet {
	for t := range s {
		s[t] |= o[t]
	}
	return s
}

func (s cardSet) intersect(o cardSet) cardSet {
	for t := range s {
		s[t] &= o[t]
	}
	return s
}
