// internal/session/session.go
package session

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/jason-s-yu/cluesheet/catalog"
	"github.com/jason-s-yu/cluesheet/engine"
	"github.com/sirupsen/logrus"
)

// Session is one deduction sheet shared by every client connected to it.
// Commands are applied one at a time in arrival order.
type Session struct {
	ID uuid.UUID

	theme catalog.Theme
	game  *engine.Game
	log   *logrus.Entry

	Mu sync.Mutex // Protects theme, game and subscribers.

	// Communication callbacks
	BroadcastFn func(ev Event) // Sends an event to every client of the session.
	subscribers map[uint64]func(ev Event)
	nextSub     uint64
}

// New creates a session for a fresh game.
func New(log *logrus.Logger, theme catalog.Theme, seats []engine.Seat, firstSeat int) (*Session, error) {
	g, err := engine.NewGame(theme, seats, firstSeat)
	if err != nil {
		return nil, err
	}
	return newSession(log, uuid.New(), theme, g), nil
}

// Restore rebuilds a session from a stored record.
func Restore(log *logrus.Logger, id uuid.UUID, rec engine.Record) (*Session, error) {
	theme, err := catalog.Get(rec.Theme)
	if err != nil {
		return nil, err
	}
	g, err := engine.Import(theme, rec)
	if err != nil {
		return nil, fmt.Errorf("restore session %s: %w", id, err)
	}
	return newSession(log, id, theme, g), nil
}

func newSession(log *logrus.Logger, id uuid.UUID, theme catalog.Theme, g *engine.Game) *Session {
	return &Session{
		ID:          id,
		theme:       theme,
		game:        g,
		log:         log.WithField("session", id),
		subscribers: make(map[uint64]func(ev Event)),
	}
}

// Subscribe registers fn for every event the session fires and returns a
// function that removes it.
func (s *Session) Subscribe(fn func(ev Event)) (cancel func()) {
	s.Mu.Lock()
	defer s.Mu.Unlock()
	return s.subscribe(fn)
}

// Watch subscribes fn and hands it the current sheet first. Both happen
// under the session lock, so fn sees every later event and none twice.
func (s *Session) Watch(fn func(ev Event)) (cancel func()) {
	s.Mu.Lock()
	defer s.Mu.Unlock()
	v := buildView(s.ID, s.theme, s.game)
	fn(Event{Type: EventSheet, Sheet: &v})
	return s.subscribe(fn)
}

// subscribe assumes lock is held by caller.
func (s *Session) subscribe(fn func(ev Event)) (cancel func()) {
	s.nextSub++
	id := s.nextSub
	s.subscribers[id] = fn
	return func() {
		s.Mu.Lock()
		defer s.Mu.Unlock()
		delete(s.subscribers, id)
	}
}

// fireEvent sends ev to BroadcastFn and every subscriber.
// Assumes lock is held by caller.
func (s *Session) fireEvent(ev Event) {
	if s.BroadcastFn != nil {
		s.BroadcastFn(ev)
	}
	for _, fn := range s.subscribers {
		fn(ev)
	}
}

// Apply runs one command. On success every client receives the new sheet;
// on failure they receive an error event and nothing changes.
func (s *Session) Apply(cmd Command) (SheetView, error) {
	s.Mu.Lock()
	defer s.Mu.Unlock()

	fields := logrus.Fields{
		"command": cmd.Type,
		"state":   s.game.State(),
		"turn":    s.game.Turn(),
	}
	if err := s.dispatch(cmd); err != nil {
		s.log.WithFields(fields).WithError(err).Warn("command rejected")
		s.fireEvent(errorEvent(cmd.Type, err))
		return SheetView{}, err
	}
	s.log.WithFields(fields).WithField("next", s.game.State()).Debug("command applied")

	v := buildView(s.ID, s.theme, s.game)
	s.fireEvent(Event{Type: EventSheet, Command: cmd.Type, Sheet: &v})
	return v, nil
}

// View returns the current sheet.
func (s *Session) View() SheetView {
	s.Mu.Lock()
	defer s.Mu.Unlock()
	return buildView(s.ID, s.theme, s.game)
}

// Export returns the game and its history for storage.
func (s *Session) Export() engine.Record {
	s.Mu.Lock()
	defer s.Mu.Unlock()
	return s.game.Export()
}

// Theme returns the session's active theme.
func (s *Session) Theme() catalog.Theme {
	s.Mu.Lock()
	defer s.Mu.Unlock()
	return s.theme
}
