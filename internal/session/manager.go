// internal/session/manager.go
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/jason-s-yu/cluesheet/catalog"
	"github.com/jason-s-yu/cluesheet/engine"
	"github.com/jason-s-yu/cluesheet/internal/store"
	"github.com/sirupsen/logrus"
)

// ErrNotFound is returned for a session id that is neither live nor stored.
var ErrNotFound = errors.New("session not found")

// Manager keeps live sessions and writes each one to the store after every
// accepted command.
type Manager struct {
	store        store.Store
	log          *logrus.Logger
	defaultTheme string

	sessions map[uuid.UUID]*Session
	mu       sync.RWMutex
}

// NewManager creates a manager backed by st. New sessions use defaultTheme
// unless the caller names one.
func NewManager(st store.Store, log *logrus.Logger, defaultTheme string) *Manager {
	return &Manager{
		store:        st,
		log:          log,
		defaultTheme: defaultTheme,
		sessions:     make(map[uuid.UUID]*Session),
	}
}

// Create starts a new session and stores it.
func (m *Manager) Create(ctx context.Context, themeID string, seats []engine.Seat, firstSeat int) (*Session, error) {
	if themeID == "" {
		themeID = m.defaultTheme
	}
	theme, err := catalog.Get(themeID)
	if err != nil {
		return nil, err
	}
	s, err := New(m.log, theme, seats, firstSeat)
	if err != nil {
		return nil, err
	}
	if err := m.store.Save(ctx, s.ID, s.Export()); err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()
	m.log.WithFields(logrus.Fields{"session": s.ID, "theme": theme.ID, "players": len(seats)}).Info("session created")
	return s, nil
}

// Get returns a live session, loading it from the store if needed.
func (m *Manager) Get(ctx context.Context, id uuid.UUID) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if ok {
		return s, nil
	}

	rec, err := m.store.Load(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	s, err = Restore(m.log, id, rec)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	// Another request may have loaded it first.
	if live, ok := m.sessions[id]; ok {
		return live, nil
	}
	m.sessions[id] = s
	m.log.WithField("session", id).Info("session restored")
	return s, nil
}

// Apply runs cmd on session id and stores the result. The live sheet is
// authoritative: once the command is applied and broadcast, a failed store
// write is logged and the next accepted command writes again.
func (m *Manager) Apply(ctx context.Context, id uuid.UUID, cmd Command) (SheetView, error) {
	s, err := m.Get(ctx, id)
	if err != nil {
		return SheetView{}, err
	}
	v, err := s.Apply(cmd)
	if err != nil {
		return SheetView{}, err
	}
	if err := m.store.Save(ctx, id, s.Export()); err != nil {
		m.log.WithFields(logrus.Fields{"session": id, "command": cmd.Type}).WithError(err).Error("failed to store session")
	}
	return v, nil
}

// Delete drops a session from memory and the store.
func (m *Manager) Delete(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
	return m.store.Delete(ctx, id)
}

// Evict drops a session from memory only; the next Get reloads it.
func (m *Manager) Evict(id uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}
