package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/jason-s-yu/cluesheet/internal/session"
	"github.com/sirupsen/logrus"
)

// outboxSize bounds the events queued for one slow client.
const outboxSize = 32

const writeTimeout = 5 * time.Second

// handleWS streams a session's events to the client and applies every
// command it sends. The first frame is always the current sheet.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		s.log.WithError(err).Warn("websocket accept failed")
		return
	}
	defer conn.CloseNow()

	log := s.log.WithFields(logrus.Fields{"session": sess.ID, "remote": r.RemoteAddr})
	log.Info("client connected")

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	outbox := make(chan session.Event, outboxSize)
	unsubscribe := sess.Watch(func(ev session.Event) {
		select {
		case outbox <- ev:
		default:
			// The client is not keeping up; drop it rather than block the session.
			log.Warn("client too slow, disconnecting")
			cancel()
		}
	})
	defer unsubscribe()

	go s.writeLoop(ctx, cancel, conn, outbox, log)

	for {
		var cmd session.Command
		if err := wsjson.Read(ctx, conn, &cmd); err != nil {
			if websocket.CloseStatus(err) == websocket.StatusNormalClosure || errors.Is(err, context.Canceled) {
				log.Info("client disconnected")
			} else {
				log.WithError(err).Debug("read failed")
			}
			return
		}
		// Rejections reach the client as error events through the subscription.
		if _, err := s.sessions.Apply(ctx, sess.ID, cmd); err != nil {
			log.WithError(err).WithField("command", cmd.Type).Debug("command failed")
		}
	}
}

func (s *Server) writeLoop(ctx context.Context, cancel context.CancelFunc, conn *websocket.Conn, outbox <-chan session.Event, log *logrus.Entry) {
	defer cancel()
	for {
		select {
		case <-ctx.Done():
			conn.Close(websocket.StatusNormalClosure, "")
			return
		case ev := <-outbox:
			wctx, done := context.WithTimeout(ctx, writeTimeout)
			err := wsjson.Write(wctx, conn, ev)
			done()
			if err != nil {
				log.WithError(err).Debug("write failed")
				return
			}
		}
	}
}
