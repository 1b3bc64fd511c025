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
	"sync"
	"time"

	"github.com/sqlpulse/sqlpulse/pkg/logger"
	"github.com/sqlpulse/sqlpulse/pkg/rpc"
)

const (
	defaultConnectGrace  = 250 * time.Millisecond
	defaultRetryInterval = 500 * time.Millisecond
	defaultMaxAttempts   = 5
)

// HandshakeConfig tunes the post-connect warm-up. Zero values get defaults.
type HandshakeConfig struct {
	// ConnectGrace is how long to wait after a peer attaches before the
	// first load, giving the peer time to register its message handlers.
	ConnectGrace time.Duration `json:"connect_grace,omitempty"`

	// RetryInterval is the fixed backoff between warm-up attempts.
	RetryInterval time.Duration `json:"retry_interval,omitempty"`

	// MaxAttempts caps warm-up loads per connection.
	MaxAttempts int `json:"max_attempts,omitempty"`
}

func (c HandshakeConfig) withDefaults() HandshakeConfig {
	if c.ConnectGrace <= 0 {
		c.ConnectGrace = defaultConnectGrace
	}

	if c.RetryInterval <= 0 {
		c.RetryInterval = defaultRetryInterval
	}

	if c.MaxAttempts <= 0 {
		c.MaxAttempts = defaultMaxAttempts
	}

	return c
}

// Handshake closes the gap between "transport says connected" and "peer's
// RPC handlers can actually answer LoadConnections". Each peer connection
// gets one background warm-up task: grace delay, then a bounded load loop
// retrying only on the handler-registration race. Every failure is
// contained here; a warm-up that gives up is later healed by reload-on-miss
// or by a pushed invalidation.
type Handshake struct {
	registry *Registry
	cfg      HandshakeConfig
	logger   logger.Logger
	wg       sync.WaitGroup
}

// NewHandshake creates a coordinator for reg.
func NewHandshake(reg *Registry, cfg HandshakeConfig, log logger.Logger) *Handshake {
	return &Handshake{
		registry: reg,
		cfg:      cfg.withDefaults(),
		logger:   log,
	}
}

// Bind subscribes the coordinator to channel connect events.
func (h *Handshake) Bind(ch rpc.Channel) {
	ch.OnConnect(func(peer rpc.Peer) {
		h.OnPeerConnected(context.Background(), peer)
	})
}

// OnPeerConnected starts the warm-up task for a new connection. It returns
// immediately; the connection-established callback is never blocked.
func (h *Handshake) OnPeerConnected(ctx context.Context, peer rpc.Peer) {
	h.wg.Add(1)

	go func() {
		defer h.wg.Done()
		h.warmUp(ctx, peer)
	}()
}

// Wait blocks until all in-flight warm-up tasks finish. Used on shutdown
// and by tests.
func (h *Handshake) Wait() {
	h.wg.Wait()
}

func (h *Handshake) warmUp(ctx context.Context, peer rpc.Peer) {
	if !sleepCtx(ctx, h.cfg.ConnectGrace) {
		return
	}

	for attempt := 1; attempt <= h.cfg.MaxAttempts; attempt++ {
		handshakeAttempts.Inc()

		err := h.registry.Reload(ctx)
		if err == nil {
			h.logger.Info().
				Str("peer", peer.ID).
				Int("attempt", attempt).
				Msg("Connection registry warmed")

			return
		}

		if !rpc.IsHandlerNotReady(err) {
			h.logger.Warn().
				Err(err).
				Str("peer", peer.ID).
				Int("attempt", attempt).
				Msg("Warm-up abandoned; registry keeps prior snapshot")

			return
		}

		h.logger.Debug().
			Str("peer", peer.ID).
			Int("attempt", attempt).
			Msg("Peer handlers not ready, backing off")

		if attempt < h.cfg.MaxAttempts && !sleepCtx(ctx, h.cfg.RetryInterval) {
			return
		}
	}

	h.logger.Warn().
		Str("peer", peer.ID).
		Int("attempts", h.cfg.MaxAttempts).
		Msg("Warm-up retry cap reached; registry will self-heal on demand")
}

// sleepCtx waits d, reporting false if ctx ended first.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
