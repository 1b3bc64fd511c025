/*
 * Copyright 2025 SQLPulse Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/sqlpulse/sqlpulse/pkg/models"
)

const streamInterval = 500 * time.Millisecond

// StreamMessage frames one WebSocket telemetry update.
type StreamMessage struct {
	Type      string           `json:"type"` // "data", "complete", "error"
	Stats     *models.RunStats `json:"stats,omitempty"`
	Error     string           `json:"error,omitempty"`
	Timestamp time.Time        `json:"timestamp"`
}

// handleStressStream streams a run's live stats until the run ends or the
// client hangs up.
func (s *Server) handleStressStream(w http.ResponseWriter, r *http.Request) {
	run, err := s.engine.Get(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err.Error(), http.StatusNotFound)
		return
	}

	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     func(*http.Request) bool { return true },
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("remote_addr", r.RemoteAddr).
			Msg("Failed to upgrade telemetry stream")

		return
	}

	defer func() { _ = conn.Close() }()

	s.logger.Debug().
		Str("run_id", run.ID).
		Str("remote_addr", r.RemoteAddr).
		Msg("Telemetry stream opened")

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// Watch for client disconnect.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				cancel()
				return
			}
		}
	}()

	ticker := time.NewTicker(streamInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-run.Done():
			stats := run.Stats()
			_ = conn.WriteJSON(StreamMessage{Type: "complete", Stats: &stats, Timestamp: time.Now()})

			return
		case <-ticker.C:
			stats := run.Stats()

			if err := conn.WriteJSON(StreamMessage{Type: "data", Stats: &stats, Timestamp: time.Now()}); err != nil {
				s.logger.Debug().
					Err(err).
					Str("run_id", run.ID).
					Msg("Telemetry stream write failed")

				return
			}
		}
	}
}
