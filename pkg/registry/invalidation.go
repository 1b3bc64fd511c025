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

package registry

import (
	"context"
	"encoding/json"

	"github.com/sqlpulse/sqlpulse/pkg/logger"
	"github.com/sqlpulse/sqlpulse/pkg/rpc"
)

// MethodConnectionSaved is the peer-to-backend push sent when the editor
// saves or changes a profile.
const MethodConnectionSaved = "ConnectionSaved"

// Invalidation turns the editor's "a profile changed" push into an eager,
// coalesced registry reload. The pushed id is diagnostic only: the
// listener always re-pulls the full list rather than patching the
// snapshot, so the remote store stays the sole source of truth.
type Invalidation struct {
	registry *Registry
	logger   logger.Logger
}

// NewInvalidation creates a listener for reg.
func NewInvalidation(reg *Registry, log logger.Logger) *Invalidation {
	return &Invalidation{registry: reg, logger: log}
}

// Bind registers the ConnectionSaved handler on the channel.
func (l *Invalidation) Bind(ch rpc.Channel) {
	ch.Handle(MethodConnectionSaved, l.OnConnectionSaved)
}

type connectionSavedPayload struct {
	ID string `json:"id"`
}

// OnConnectionSaved handles one pushed notification.
func (l *Invalidation) OnConnectionSaved(ctx context.Context, params json.RawMessage) {
	var payload connectionSavedPayload

	if len(params) > 0 {
		if err := json.Unmarshal(params, &payload); err != nil {
			l.logger.Warn().Err(err).Msg("Malformed ConnectionSaved payload; reloading anyway")
		}
	}

	l.logger.Info().
		Str("connection_id", payload.ID).
		Msg("Editor peer pushed a connection change")

	if err := l.registry.Reload(ctx); err != nil {
		l.logger.Warn().
			Err(err).
			Str("connection_id", payload.ID).
			Msg("Eager reload after push failed; next lookup will retry")
	}
}
