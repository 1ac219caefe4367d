// Package server exposes sessions over HTTP and websockets.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/jason-s-yu/cluesheet/catalog"
	"github.com/jason-s-yu/cluesheet/engine"
	"github.com/jason-s-yu/cluesheet/internal/session"
	"github.com/sirupsen/logrus"
)

// Server routes requests to a session manager.
type Server struct {
	sessions *session.Manager
	log      *logrus.Logger
	mux      *http.ServeMux
}

// New builds the routes.
func New(sessions *session.Manager, log *logrus.Logger) *Server {
	s := &Server{sessions: sessions, log: log, mux: http.NewServeMux()}
	s.mux.HandleFunc("GET /themes", s.handleThemes)
	s.mux.HandleFunc("POST /sessions", s.handleCreate)
	s.mux.HandleFunc("GET /sessions/{id}", s.handleGet)
	s.mux.HandleFunc("DELETE /sessions/{id}", s.handleDelete)
	s.mux.HandleFunc("POST /sessions/{id}/commands", s.handleCommand)
	s.mux.HandleFunc("GET /sessions/{id}/ws", s.handleWS)
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { s.mux.ServeHTTP(w, r) }

// Run serves on addr until ctx is cancelled, then drains open requests.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.log.WithField("addr", addr).Info("listening")

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// createRequest is the body of POST /sessions.
type createRequest struct {
	Theme     string        `json:"theme"`
	Seats     []engine.Seat `json:"seats"`
	FirstSeat int           `json:"firstSeat"`
}

func (s *Server) handleThemes(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, catalog.Themes())
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	sess, err := s.sessions.Create(r.Context(), req.Theme, req.Seats, req.FirstSeat)
	if err != nil {
		s.writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sess.View())
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, sess.View())
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found", session.ErrNotFound)
		return
	}
	if err := s.sessions.Delete(r.Context(), id); err != nil {
		s.writeSessionError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCommand(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	var cmd session.Command
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	v, err := s.sessions.Apply(r.Context(), sess.ID, cmd)
	if err != nil {
		s.writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// lookup resolves the {id} path value, writing the error response itself.
func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found", session.ErrNotFound)
		return nil, false
	}
	sess, err := s.sessions.Get(r.Context(), id)
	if err != nil {
		s.writeSessionError(w, err)
		return nil, false
	}
	return sess, true
}

func (s *Server) writeSessionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, session.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err)
	case errors.Is(err, session.ErrBadCommand),
		errors.Is(err, catalog.ErrUnknownTheme),
		errors.Is(err, engine.ErrRosterConstraint),
		errors.Is(err, engine.ErrInvalidSlotIndex):
		writeError(w, http.StatusBadRequest, session.Code(err), err)
	case errors.Is(err, engine.ErrInvalidStateTransition),
		errors.Is(err, engine.ErrGuessIncomplete),
		errors.Is(err, engine.ErrHandFull):
		writeError(w, http.StatusConflict, session.Code(err), err)
	default:
		s.log.WithError(err).Error("request failed")
		writeError(w, http.StatusInternalServerError, "internal", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	writeJSON(w, status, session.Event{Type: session.EventError, Code: code, Message: err.Error()})
}
