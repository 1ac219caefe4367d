// internal/session/commands.go
package session

import (
	"fmt"

	"github.com/jason-s-yu/cluesheet/catalog"
)

// dispatch routes cmd to the engine.
// Assumes lock is held by caller.
func (s *Session) dispatch(cmd Command) error {
	g := s.game
	switch cmd.Type {
	case CmdToggleOwned, CmdSetGuess, CmdSetShownCard:
		if cmd.Card == nil {
			return fmt.Errorf("%w: %s needs a card", ErrBadCommand, cmd.Type)
		}
		c := *cmd.Card
		switch cmd.Type {
		case CmdToggleOwned:
			return g.ToggleOwned(c.Type, c.Index)
		case CmdSetGuess:
			return g.SetGuess(c.Type, c.Index)
		default:
			return g.SetShownCard(c.Type, c.Index)
		}
	case CmdSetShower:
		if cmd.Player == nil {
			return fmt.Errorf("%w: %s needs a player", ErrBadCommand, cmd.Type)
		}
		return g.SetShower(*cmd.Player)
	case CmdAdvance:
		return g.Advance()
	case CmdSkip:
		return g.Skip()
	case CmdUndo:
		// Undo with nothing to undo is a no-op, not an error.
		g.Undo()
		return nil
	case CmdRestart:
		g.Restart()
		return nil
	case CmdSetTheme:
		theme, err := catalog.Get(cmd.Theme)
		if err != nil {
			return err
		}
		if err := g.SetTheme(theme); err != nil {
			return err
		}
		s.theme = theme
		return nil
	case CmdSetRoster:
		return g.SetRoster(cmd.Seats, cmd.FirstSeat)
	case CmdSetFirstPlayer:
		return g.SetFirstPlayer(cmd.FirstSeat)
	}
	return fmt.Errorf("%w: unknown type %q", ErrBadCommand, cmd.Type)
}
