package main

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"zapdispatch/internal/constants"

	"github.com/coder/websocket"
)

// handleEvents streams dispatch outcomes to a connected dashboard session.
// Error events are the user-visible failure toasts; sent events update status
// displays without a page reload.
func (s *Server) handleEvents() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			s.logger.WithError(err).Warn("Failed to accept websocket connection")
			return
		}
		defer conn.Close(websocket.StatusInternalError, "closed")

		// CloseRead watches for the client going away and cancels the context
		ctx := conn.CloseRead(r.Context())

		events, unsubscribe := s.events.Subscribe()
		defer unsubscribe()

		s.logger.Debug("Event stream subscriber connected")

		for {
			select {
			case <-ctx.Done():
				conn.Close(websocket.StatusNormalClosure, "")
				return
			case evt, ok := <-events:
				if !ok {
					conn.Close(websocket.StatusNormalClosure, "")
					return
				}

				data, err := json.Marshal(evt)
				if err != nil {
					s.logger.WithError(err).Warn("Failed to marshal event")
					continue
				}

				writeCtx, cancel := context.WithTimeout(ctx,
					time.Duration(constants.EventWriteTimeoutSec)*time.Second)
				err = conn.Write(writeCtx, websocket.MessageText, data)
				cancel()
				if err != nil {
					return
				}
			}
		}
	}
}
