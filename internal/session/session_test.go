// internal/session/session_test.go
package session

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/jason-s-yu/cluesheet/catalog"
	"github.com/jason-s-yu/cluesheet/engine"
	"github.com/jason-s-yu/cluesheet/internal/store"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockBroadcaster captures session events for testing assertions.
type mockBroadcaster struct {
	mu        sync.Mutex
	allEvents []Event
}

func (mb *mockBroadcaster) broadcastFn(ev Event) {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	mb.allEvents = append(mb.allEvents, ev)
}

func (mb *mockBroadcaster) getLastEvent() *Event {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	if len(mb.allEvents) == 0 {
		return nil
	}
	return &mb.allEvents[len(mb.allEvents)-1]
}

func (mb *mockBroadcaster) count() int {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	return len(mb.allEvents)
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

var threeSeats = []engine.Seat{{ID: 1, Name: "Me"}, {ID: 2, Name: "Ann"}, {ID: 3, Name: "Bo"}}

// setupTestSession creates a classic 3-player session wired to a mock
// broadcaster.
func setupTestSession(t *testing.T) (*Session, *mockBroadcaster) {
	t.Helper()
	theme, err := catalog.Get("classic")
	require.NoError(t, err)
	s, err := New(quietLogger(), theme, threeSeats, 1)
	require.NoError(t, err)
	mb := &mockBroadcaster{}
	s.BroadcastFn = mb.broadcastFn
	return s, mb
}

func card(t engine.CardType, i int) *engine.CardRef { return &engine.CardRef{Type: t, Index: i} }

func player(i int) *int { return &i }

// declare runs the commands that start the game with a fixed hand.
func declare(t *testing.T, s *Session) {
	t.Helper()
	_, err := s.Apply(Command{Type: CmdAdvance})
	require.NoError(t, err)
	for _, c := range []*engine.CardRef{
		card(engine.Suspect, 0), card(engine.Suspect, 1),
		card(engine.Weapon, 0), card(engine.Weapon, 1),
		card(engine.Room, 0), card(engine.Room, 1),
	} {
		_, err := s.Apply(Command{Type: CmdToggleOwned, Card: c})
		require.NoError(t, err)
	}
	_, err = s.Apply(Command{Type: CmdAdvance})
	require.NoError(t, err)
}

// TestApplyBroadcastsSheet verifies an accepted command sends the new sheet.
func TestApplyBroadcastsSheet(t *testing.T) {
	s, mb := setupTestSession(t)

	v, err := s.Apply(Command{Type: CmdAdvance})
	require.NoError(t, err)
	assert.Equal(t, engine.ChooseYourCards, v.State)

	ev := mb.getLastEvent()
	require.NotNil(t, ev)
	assert.Equal(t, EventSheet, ev.Type)
	assert.Equal(t, CmdAdvance, ev.Command)
	require.NotNil(t, ev.Sheet)
	assert.Equal(t, s.ID, ev.Sheet.SessionID)
	assert.Equal(t, "Scarlett", ev.Sheet.Cards.Suspects[0])
	assert.Len(t, ev.Sheet.Players, 3)
	assert.Equal(t, "Start", ev.Sheet.LastAction)
}

// TestApplyRejectedCommand verifies a rejected command sends an error
// event and leaves the sheet alone.
func TestApplyRejectedCommand(t *testing.T) {
	s, mb := setupTestSession(t)
	before := s.View()

	_, err := s.Apply(Command{Type: CmdSetGuess, Card: card(engine.Room, 2)})
	assert.ErrorIs(t, err, engine.ErrInvalidStateTransition)

	ev := mb.getLastEvent()
	require.NotNil(t, ev)
	assert.Equal(t, EventError, ev.Type)
	assert.Equal(t, "invalid_state_transition", ev.Code)
	assert.Nil(t, ev.Sheet)
	assert.Equal(t, before, s.View())
}

// TestApplyBadCommands verifies malformed commands are rejected.
func TestApplyBadCommands(t *testing.T) {
	s, mb := setupTestSession(t)

	_, err := s.Apply(Command{Type: CmdToggleOwned})
	assert.ErrorIs(t, err, ErrBadCommand)
	_, err = s.Apply(Command{Type: CmdSetShower})
	assert.ErrorIs(t, err, ErrBadCommand)
	_, err = s.Apply(Command{Type: "accuse"})
	assert.ErrorIs(t, err, ErrBadCommand)
	assert.Equal(t, "bad_command", mb.getLastEvent().Code)

	_, err = s.Apply(Command{Type: CmdSetTheme, Theme: "space"})
	assert.ErrorIs(t, err, catalog.ErrUnknownTheme)
	assert.Equal(t, "unknown_theme", mb.getLastEvent().Code)
}

// TestFullTurnThroughSession verifies a guess and reveal flow end to end.
func TestFullTurnThroughSession(t *testing.T) {
	s, _ := setupTestSession(t)
	declare(t, s)

	for _, c := range []*engine.CardRef{card(engine.Suspect, 2), card(engine.Weapon, 2), card(engine.Room, 2)} {
		_, err := s.Apply(Command{Type: CmdSetGuess, Card: c})
		require.NoError(t, err)
	}
	v, err := s.Apply(Command{Type: CmdAdvance})
	require.NoError(t, err)
	assert.Equal(t, engine.ChoosePlayerWhoShowedCard, v.State)
	assert.False(t, v.Players[0].CanShow)
	assert.True(t, v.Players[2].CanShow)

	_, err = s.Apply(Command{Type: CmdSetShower, Player: player(2)})
	require.NoError(t, err)
	_, err = s.Apply(Command{Type: CmdSetShownCard, Card: card(engine.Room, 2)})
	require.NoError(t, err)
	v, err = s.Apply(Command{Type: CmdAdvance})
	require.NoError(t, err)

	assert.Equal(t, 1, v.Turn)
	assert.True(t, v.Players[1].IsCurrentTurn)
	assert.Equal(t, engine.KnownNotOwned, v.Players[1].Rooms[2].Ownership)
	assert.Equal(t, engine.Owned, v.Players[2].Rooms[2].Ownership)
	assert.True(t, v.Players[2].Rooms[2].RevealedToSelf)
	assert.Equal(t, "Card Shown", v.LastAction)

	v, err = s.Apply(Command{Type: CmdUndo})
	require.NoError(t, err)
	assert.Equal(t, engine.ChoosePlayerWhoShowedCard, v.State)
	assert.Equal(t, engine.Unknown, v.Players[2].Rooms[2].Ownership)
}

// TestUndoOnEmptyHistory verifies undo with nothing to undo still succeeds.
func TestUndoOnEmptyHistory(t *testing.T) {
	s, mb := setupTestSession(t)
	v, err := s.Apply(Command{Type: CmdUndo})
	require.NoError(t, err)
	assert.Equal(t, engine.NotStarted, v.State)
	assert.False(t, v.CanUndo)
	assert.Equal(t, EventSheet, mb.getLastEvent().Type)
}

// TestSetupCommands verifies theme and roster changes before the start.
func TestSetupCommands(t *testing.T) {
	s, _ := setupTestSession(t)

	v, err := s.Apply(Command{Type: CmdSetTheme, Theme: "express"})
	require.NoError(t, err)
	assert.Equal(t, "express", v.Theme)
	assert.Len(t, v.Cards.Suspects, 9)
	assert.Equal(t, "express", s.Theme().ID)

	seats := append(threeSeats[:3:3], engine.Seat{ID: 4, Name: "Cy"})
	v, err = s.Apply(Command{Type: CmdSetRoster, Seats: seats, FirstSeat: 4})
	require.NoError(t, err)
	assert.Len(t, v.Players, 4)
	assert.Equal(t, 4, v.FirstSeat)

	v, err = s.Apply(Command{Type: CmdSetFirstPlayer, FirstSeat: 2})
	require.NoError(t, err)
	assert.Equal(t, 2, v.FirstSeat)

	_, err = s.Apply(Command{Type: CmdSetRoster, Seats: seats[:2], FirstSeat: 1})
	assert.ErrorIs(t, err, engine.ErrRosterConstraint)
}

// TestSubscribe verifies subscribers get events until they cancel.
func TestSubscribe(t *testing.T) {
	s, mb := setupTestSession(t)
	var got []EventType
	cancel := s.Subscribe(func(ev Event) { got = append(got, ev.Type) })

	_, err := s.Apply(Command{Type: CmdAdvance})
	require.NoError(t, err)
	cancel()
	_, err = s.Apply(Command{Type: CmdUndo})
	require.NoError(t, err)

	assert.Equal(t, []EventType{EventSheet}, got)
	assert.Equal(t, 2, mb.count())
}

// TestCommandJSON verifies the wire form clients send.
func TestCommandJSON(t *testing.T) {
	var cmd Command
	require.NoError(t, json.Unmarshal([]byte(`{"type":"set_guess","card":{"type":"room","index":4}}`), &cmd))
	assert.Equal(t, CmdSetGuess, cmd.Type)
	assert.Equal(t, card(engine.Room, 4), cmd.Card)

	b, err := json.Marshal(Event{Type: EventError, Command: CmdAdvance, Code: "guess_incomplete", Message: "x"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"error","command":"advance","code":"guess_incomplete","message":"x"}`, string(b))
}

// TestManagerPersistsEveryCommand verifies the store follows the session
// and a restored session resumes where it stopped.
func TestManagerPersistsEveryCommand(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	m := NewManager(st, quietLogger(), "classic")

	s, err := m.Create(ctx, "", threeSeats, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, st.Len())

	_, err = m.Apply(ctx, s.ID, Command{Type: CmdAdvance})
	require.NoError(t, err)
	_, err = m.Apply(ctx, s.ID, Command{Type: CmdToggleOwned, Card: card(engine.Weapon, 3)})
	require.NoError(t, err)

	m.Evict(s.ID)
	restored, err := m.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.NotSame(t, s, restored)
	v := restored.View()
	assert.Equal(t, engine.ChooseYourCards, v.State)
	assert.Equal(t, engine.Owned, v.Players[0].Weapons[3].Ownership)
	assert.True(t, v.CanUndo)

	_, err = m.Apply(ctx, s.ID, Command{Type: CmdSkip})
	assert.ErrorIs(t, err, engine.ErrInvalidStateTransition)
}

// TestManagerUnknownSession verifies lookups of missing sessions.
func TestManagerUnknownSession(t *testing.T) {
	ctx := context.Background()
	m := NewManager(store.NewMemory(), quietLogger(), "classic")

	_, err := m.Get(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = m.Create(ctx, "noir", threeSeats, 1)
	assert.ErrorIs(t, err, catalog.ErrUnknownTheme)

	s, err := m.Create(ctx, "tudor", threeSeats, 1)
	require.NoError(t, err)
	require.NoError(t, m.Delete(ctx, s.ID))
	_, err = m.Get(ctx, s.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

// failingStore accepts the first save and rejects the rest.
type failingStore struct {
	*store.Memory
	mu    sync.Mutex
	saves int
}

func (f *failingStore) Save(ctx context.Context, id uuid.UUID, rec engine.Record) error {
	f.mu.Lock()
	f.saves++
	n := f.saves
	f.mu.Unlock()
	if n > 1 {
		return errors.New("store unavailable")
	}
	return f.Memory.Save(ctx, id, rec)
}

// TestManagerKeepsLiveStateWhenStoreFails verifies an applied command is
// reported as applied even when it could not be written.
func TestManagerKeepsLiveStateWhenStoreFails(t *testing.T) {
	ctx := context.Background()
	st := &failingStore{Memory: store.NewMemory()}
	m := NewManager(st, quietLogger(), "classic")

	s, err := m.Create(ctx, "", threeSeats, 1)
	require.NoError(t, err)

	v, err := m.Apply(ctx, s.ID, Command{Type: CmdAdvance})
	require.NoError(t, err)
	assert.Equal(t, engine.ChooseYourCards, v.State)
	assert.Equal(t, engine.ChooseYourCards, s.View().State)

	stored, err := st.Load(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, engine.NotStarted, stored.Live.State, "the store kept the last good write")
}

// TestWatchStartsWithCurrentSheet verifies a watcher first gets the sheet
// as it stands and then every later event.
func TestWatchStartsWithCurrentSheet(t *testing.T) {
	s, _ := setupTestSession(t)
	_, err := s.Apply(Command{Type: CmdAdvance})
	require.NoError(t, err)

	var got []Event
	cancel := s.Watch(func(ev Event) { got = append(got, ev) })
	defer cancel()
	require.Len(t, got, 1)
	assert.Equal(t, EventSheet, got[0].Type)
	assert.Empty(t, got[0].Command)
	assert.Equal(t, engine.ChooseYourCards, got[0].Sheet.State)

	_, err = s.Apply(Command{Type: CmdToggleOwned, Card: card(engine.Room, 4)})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, CmdToggleOwned, got[1].Command)
}

// TestWatchMissesNothingUnderLoad verifies a watcher joining while commands
// are being applied still ends on the final sheet.
func TestWatchMissesNothingUnderLoad(t *testing.T) {
	s, _ := setupTestSession(t)
	_, err := s.Apply(Command{Type: CmdAdvance})
	require.NoError(t, err)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := range 6 {
			_, err := s.Apply(Command{Type: CmdToggleOwned, Card: card(engine.Room, i)})
			assert.NoError(t, err)
		}
	}()

	var mu sync.Mutex
	var last *SheetView
	cancel := s.Watch(func(ev Event) {
		mu.Lock()
		defer mu.Unlock()
		last = ev.Sheet
	})
	defer cancel()
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	require.NotNil(t, last)
	assert.Equal(t, 6, last.Players[0].OwnedCount)
	assert.Equal(t, s.View().Players[0].OwnedCount, last.Players[0].OwnedCount)
}

// TestThemeChangeSurvivesRestore verifies a session that switched theme
// after an undone start still loads back from the store.
func TestThemeChangeSurvivesRestore(t *testing.T) {
	ctx := context.Background()
	m := NewManager(store.NewMemory(), quietLogger(), "classic")
	s, err := m.Create(ctx, "", threeSeats, 1)
	require.NoError(t, err)

	for _, cmd := range []Command{{Type: CmdAdvance}, {Type: CmdUndo}, {Type: CmdSetTheme, Theme: "express"}} {
		_, err := m.Apply(ctx, s.ID, cmd)
		require.NoError(t, err)
	}
	assert.False(t, s.View().CanUndo)

	m.Evict(s.ID)
	restored, err := m.Get(ctx, s.ID)
	require.NoError(t, err)
	v := restored.View()
	assert.Equal(t, "express", v.Theme)
	assert.Len(t, v.Players[0].Suspects, 9)
}
