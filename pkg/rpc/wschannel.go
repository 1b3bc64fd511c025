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

package rpc

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/sqlpulse/sqlpulse/pkg/logger"
)

const defaultCallTimeout = 30 * time.Second

// WebSocketChannel is the concrete Channel carried on a WebSocket. It is
// also an http.Handler: the editor peer dials the endpoint it is mounted
// on, and a new attach replaces (and closes) any prior peer.
type WebSocketChannel struct {
	upgrader    websocket.Upgrader
	callTimeout time.Duration
	logger      logger.Logger

	mu      sync.Mutex
	conn    *websocket.Conn
	peer    Peer
	pending map[string]chan *message

	handlerMu      sync.RWMutex
	handlers       map[string]PushHandler
	connectSubs    []func(Peer)
	disconnectSubs []func(Peer)

	// gorilla/websocket permits one concurrent writer per connection.
	writeMu sync.Mutex
}

// WebSocketChannelConfig tunes the channel. Zero values get defaults.
type WebSocketChannelConfig struct {
	CallTimeout time.Duration `json:"call_timeout,omitempty"`
}

// NewWebSocketChannel creates an unattached channel.
func NewWebSocketChannel(cfg WebSocketChannelConfig, log logger.Logger) *WebSocketChannel {
	timeout := cfg.CallTimeout
	if timeout <= 0 {
		timeout = defaultCallTimeout
	}

	return &WebSocketChannel{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		callTimeout: timeout,
		logger:      log,
		pending:     make(map[string]chan *message),
		handlers:    make(map[string]PushHandler),
	}
}

// ServeHTTP upgrades the request and attaches the caller as the active
// peer, replacing any prior one.
func (c *WebSocketChannel) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := c.upgrader.Upgrade(w, r, nil)
	if err != nil {
		c.logger.Error().
			Err(err).
			Str("remote_addr", r.RemoteAddr).
			Msg("Failed to upgrade to WebSocket")

		return
	}

	peer := Peer{ID: uuid.NewString(), RemoteAddr: r.RemoteAddr}

	c.mu.Lock()

	if prior := c.conn; prior != nil {
		c.logger.Info().
			Str("prior_peer", c.peer.ID).
			Str("new_peer", peer.ID).
			Msg("Replacing attached peer")

		_ = prior.Close()
		c.failPendingLocked()
	}

	c.conn = conn
	c.peer = peer
	c.mu.Unlock()

	c.logger.Info().
		Str("peer", peer.ID).
		Str("remote_addr", peer.RemoteAddr).
		Msg("Editor peer attached")

	c.handlerMu.RLock()
	subs := make([]func(Peer), len(c.connectSubs))
	copy(subs, c.connectSubs)
	c.handlerMu.RUnlock()

	for _, fn := range subs {
		fn(peer)
	}

	go c.readLoop(conn, peer)
}

// Connected reports whether a peer is currently attached.
func (c *WebSocketChannel) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.conn != nil
}

// OnConnect registers fn to run whenever a peer attaches.
func (c *WebSocketChannel) OnConnect(fn func(Peer)) {
	c.handlerMu.Lock()
	defer c.handlerMu.Unlock()

	c.connectSubs = append(c.connectSubs, fn)
}

// OnDisconnect registers fn to run whenever the attached peer drops.
func (c *WebSocketChannel) OnDisconnect(fn func(Peer)) {
	c.handlerMu.Lock()
	defer c.handlerMu.Unlock()

	c.disconnectSubs = append(c.disconnectSubs, fn)
}

// Handle registers a handler for a peer-to-backend notification method.
func (c *WebSocketChannel) Handle(method string, h PushHandler) {
	c.handlerMu.Lock()
	defer c.handlerMu.Unlock()

	c.handlers[method] = h
}

// Call implements Channel. It serializes params, sends one request to the
// attached peer and awaits the correlated response, bounded by the channel
// call timeout (or ctx, whichever ends first).
func (c *WebSocketChannel) Call(ctx context.Context, method string, params, result interface{}) error {
	var raw json.RawMessage

	if params != nil {
		data, err := json.Marshal(params)
		if err != nil {
			return fmt.Errorf("failed to marshal params for %s: %w", method, err)
		}

		raw = data
	}

	id := uuid.NewString()
	respCh := make(chan *message, 1)

	c.mu.Lock()

	conn := c.conn
	if conn == nil {
		c.mu.Unlock()
		return ErrNotConnected
	}

	c.pending[id] = respCh
	c.mu.Unlock()

	req := &message{JSONRPC: jsonRPCVersion, ID: id, Method: method, Params: raw}

	if err := c.write(conn, req); err != nil {
		c.removePending(id)
		return fmt.Errorf("%w: write failed: %s", ErrNotConnected, err)
	}

	callCtx, cancel := context.WithTimeout(ctx, c.callTimeout)
	defer cancel()

	select {
	case resp, ok := <-respCh:
		if !ok {
			// Peer dropped while the call was in flight.
			return ErrNotConnected
		}

		return decodeResponse(method, resp, result)
	case <-callCtx.Done():
		c.removePending(id)
		return callCtx.Err()
	}
}

func decodeResponse(method string, resp *message, result interface{}) error {
	if resp.Error != nil {
		if resp.Error.Code == codeMethodNotFound {
			return fmt.Errorf("%w: %s", ErrHandlerNotReady, method)
		}

		return &RemoteError{Method: method, Message: resp.Error.Message}
	}

	if result != nil && len(resp.Result) > 0 {
		if err := json.Unmarshal(resp.Result, result); err != nil {
			return fmt.Errorf("failed to decode %s response: %w", method, err)
		}
	}

	return nil
}

func (c *WebSocketChannel) write(conn *websocket.Conn, msg *message) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	return conn.WriteJSON(msg)
}

func (c *WebSocketChannel) removePending(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.pending, id)
}

// failPendingLocked closes every in-flight call channel. Callers blocked in
// Call observe the close and fail with ErrNotConnected. c.mu must be held.
func (c *WebSocketChannel) failPendingLocked() {
	for id, ch := range c.pending {
		close(ch)
		delete(c.pending, id)
	}
}

func (c *WebSocketChannel) readLoop(conn *websocket.Conn, peer Peer) {
	for {
		var msg message

		if err := conn.ReadJSON(&msg); err != nil {
			c.teardown(conn, peer, err)
			return
		}

		switch {
		case msg.ID != "" && (msg.Result != nil || msg.Error != nil):
			c.routeResponse(&msg)
		case msg.Method != "":
			c.dispatchPush(&msg, peer)
		default:
			c.logger.Warn().
				Str("peer", peer.ID).
				Msg("Dropping unroutable message from peer")
		}
	}
}

func (c *WebSocketChannel) routeResponse(msg *message) {
	c.mu.Lock()
	ch, ok := c.pending[msg.ID]

	if ok {
		delete(c.pending, msg.ID)
	}
	c.mu.Unlock()

	if !ok {
		// Late response after timeout or peer replacement.
		c.logger.Debug().Str("id", msg.ID).Msg("No pending call for response")
		return
	}

	ch <- msg
}

func (c *WebSocketChannel) dispatchPush(msg *message, peer Peer) {
	c.handlerMu.RLock()
	h, ok := c.handlers[msg.Method]
	c.handlerMu.RUnlock()

	if !ok {
		c.logger.Warn().
			Str("method", msg.Method).
			Str("peer", peer.ID).
			Msg("No handler registered for push notification")

		return
	}

	go h(context.Background(), msg.Params)
}

func (c *WebSocketChannel) teardown(conn *websocket.Conn, peer Peer, cause error) {
	_ = conn.Close()

	c.mu.Lock()

	// Only detach if this connection is still the active one; a replaced
	// connection's read loop must not tear down its successor.
	if c.conn != conn {
		c.mu.Unlock()
		return
	}

	c.conn = nil
	c.failPendingLocked()
	c.mu.Unlock()

	c.logger.Info().
		Err(cause).
		Str("peer", peer.ID).
		Msg("Editor peer detached")

	c.handlerMu.RLock()
	subs := make([]func(Peer), len(c.disconnectSubs))
	copy(subs, c.disconnectSubs)
	c.handlerMu.RUnlock()

	for _, fn := range subs {
		fn(peer)
	}
}
