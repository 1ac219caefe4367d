// internal/session/events.go
package session

import (
	"errors"

	"github.com/jason-s-yu/cluesheet/catalog"
	"github.com/jason-s-yu/cluesheet/engine"
)

// CommandType names one sheet command sent by a client.
type CommandType string

// Commands accepted by Session.Apply.
const (
	CmdToggleOwned    CommandType = "toggle_owned"     // card
	CmdSetGuess       CommandType = "set_guess"        // card
	CmdSetShower      CommandType = "set_shower"       // player
	CmdSetShownCard   CommandType = "set_shown_card"   // card
	CmdAdvance        CommandType = "advance"          //
	CmdSkip           CommandType = "skip"             //
	CmdUndo           CommandType = "undo"             //
	CmdRestart        CommandType = "restart"          //
	CmdSetTheme       CommandType = "set_theme"        // theme
	CmdSetRoster      CommandType = "set_roster"       // seats, firstSeat
	CmdSetFirstPlayer CommandType = "set_first_player" // firstSeat
)

// Command is one client request. Only the fields its Type names are read.
type Command struct {
	Type      CommandType     `json:"type"`
	Card      *engine.CardRef `json:"card,omitempty"`
	Player    *int            `json:"player,omitempty"` // roster index
	Theme     string          `json:"theme,omitempty"`
	Seats     []engine.Seat   `json:"seats,omitempty"`
	FirstSeat int             `json:"firstSeat,omitempty"` // Seat.ID
}

// EventType represents the type of a session event sent to clients.
type EventType string

const (
	EventSheet EventType = "sheet" // The full sheet after an accepted command.
	EventError EventType = "error" // A rejected command; the sheet is unchanged.
)

// Event is what a session broadcasts after every command.
type Event struct {
	Type    EventType   `json:"type"`
	Command CommandType `json:"command,omitempty"`
	Sheet   *SheetView  `json:"sheet,omitempty"`
	Code    string      `json:"code,omitempty"`
	Message string      `json:"message,omitempty"`
}

// ErrBadCommand is returned for a command missing the fields its type
// needs, or of an unknown type.
var ErrBadCommand = errors.New("bad command")

// Code maps an error to the stable code clients switch on.
func Code(err error) string {
	switch {
	case errors.Is(err, engine.ErrInvalidSlotIndex):
		return "invalid_slot_index"
	case errors.Is(err, engine.ErrGuessIncomplete):
		return "guess_incomplete"
	case errors.Is(err, engine.ErrHandFull):
		return "hand_full"
	case errors.Is(err, engine.ErrRosterConstraint):
		return "roster_constraint"
	case errors.Is(err, engine.ErrInvalidStateTransition):
		return "invalid_state_transition"
	case errors.Is(err, catalog.ErrUnknownTheme):
		return "unknown_theme"
	case errors.Is(err, ErrBadCommand):
		return "bad_command"
	}
	return "internal"
}

func errorEvent(cmd CommandType, err error) Event {
	return Event{Type: EventError, Command: cmd, Code: Code(err), Message: err.Error()}
}
