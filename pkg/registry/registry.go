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

// Package registry keeps the backend's in-process cache of connection
// profiles consistent with the editor peer, the sole source of truth.
// One Registry instance is shared by every request handler in the process.
package registry

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/sqlpulse/sqlpulse/pkg/logger"
	"github.com/sqlpulse/sqlpulse/pkg/models"
	"github.com/sqlpulse/sqlpulse/pkg/remotestore"
)

// Registry is the shared snapshot of connection profiles. The snapshot is
// always the literal result of one LoadConnections call; it is replaced
// wholesale and never merged with prior contents. A peer disconnect does
// not clear it: last known-good data keeps serving until the next
// successful reload.
type Registry struct {
	store  remotestore.RemoteStore
	logger logger.Logger

	// mu guards the snapshot and the reload token. It is held only for
	// pointer swaps and token checks, never across the remote call.
	mu       sync.Mutex
	profiles []models.ConnectionProfile
	index    map[string]int
	loadedAt time.Time
	inflight *reloadToken
}

// reloadToken coalesces concurrent reload triggers into one remote call.
// Waiters block on done; err is safe to read once done is closed.
type reloadToken struct {
	done chan struct{}
	err  error
}

// New creates an empty registry backed by store.
func New(store remotestore.RemoteStore, log logger.Logger) *Registry {
	return &Registry{
		store:  store,
		logger: log,
		index:  make(map[string]int),
	}
}

// NormalizeID canonicalizes a connection id for comparison. Producer-side
// ids have been observed with stray whitespace and case variance, so this
// is the single normalization point for the whole backend.
func NormalizeID(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}

// Lookup resolves id against the current snapshot. On a miss it triggers
// exactly one coalesced reload, re-checks once, and then reports
// ErrConnectionNotFound. Callers wanting further retries must call again.
func (r *Registry) Lookup(ctx context.Context, id string) (models.ConnectionProfile, error) {
	if strings.TrimSpace(id) == "" {
		return models.ConnectionProfile{}, ErrEmptyConnectionID
	}

	key := NormalizeID(id)

	if profile, ok := r.find(key); ok {
		return profile, nil
	}

	lookupMisses.Inc()

	if err := r.Reload(ctx); err != nil {
		r.logger.Debug().
			Err(err).
			Str("connection_id", key).
			Msg("Reload on lookup miss failed")
	}

	if profile, ok := r.find(key); ok {
		return profile, nil
	}

	return models.ConnectionProfile{}, ErrConnectionNotFound
}

// List returns a copy of the current snapshot. It never triggers a reload.
func (r *Registry) List() []models.ConnectionProfile {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]models.ConnectionProfile, len(r.profiles))
	copy(out, r.profiles)

	return out
}

// LoadedAt reports when the snapshot was last replaced. The zero time
// means no reload has succeeded yet.
func (r *Registry) LoadedAt() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.loadedAt
}

// Reload fetches the authoritative profile list and replaces the snapshot.
// Concurrent callers coalesce onto one in-flight remote call and all
// observe its result. On failure the snapshot is left unchanged and the
// error is returned.
func (r *Registry) Reload(ctx context.Context) error {
	r.mu.Lock()

	if token := r.inflight; token != nil {
		r.mu.Unlock()

		select {
		case <-token.done:
			return token.err
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	token := &reloadToken{done: make(chan struct{})}
	r.inflight = token
	r.mu.Unlock()

	profiles, err := r.store.LoadConnections(ctx)

	r.mu.Lock()

	if err == nil {
		r.install(profiles)
		reloadsTotal.WithLabelValues("success").Inc()
	} else {
		reloadsTotal.WithLabelValues("failure").Inc()
	}

	token.err = err
	r.inflight = nil
	close(token.done)
	r.mu.Unlock()

	if err != nil {
		return err
	}

	r.logger.Debug().Int("count", len(profiles)).Msg("Connection registry reloaded")

	return nil
}

// install replaces the snapshot. r.mu must be held.
func (r *Registry) install(profiles []models.ConnectionProfile) {
	index := make(map[string]int, len(profiles))

	for i := range profiles {
		index[NormalizeID(profiles[i].ID)] = i
	}

	r.profiles = profiles
	r.index = index
	r.loadedAt = time.Now()
}

func (r *Registry) find(key string) (models.ConnectionProfile, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i, ok := r.index[key]
	if !ok {
		return models.ConnectionProfile{}, false
	}

	return r.profiles[i], true
}
