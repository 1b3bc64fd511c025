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

//go:generate mockgen -destination=mock_rpc.go -package=rpc github.com/sqlpulse/sqlpulse/pkg/rpc Channel

// Package rpc implements the duplex JSON-RPC channel between the backend
// and the editor peer. The backend issues request/response calls to the
// peer; the peer pushes fire-and-forget notifications back. At most one
// peer is attached at a time.
package rpc

import (
	"context"
	"encoding/json"
)

// Peer identifies the currently attached remote endpoint.
type Peer struct {
	ID         string
	RemoteAddr string
}

// PushHandler consumes one peer-to-backend notification. Handlers run on
// their own goroutine so a slow handler never stalls the read loop.
type PushHandler func(ctx context.Context, params json.RawMessage)

// Channel is the duplex RPC surface consumed by the rest of the backend.
//
// Call routes one request to the attached peer and decodes its response
// into result (which may be nil). It fails with ErrNotConnected when no
// peer is attached, ErrHandlerNotReady when the peer is reachable but has
// not registered a handler for method yet, a *RemoteError when the peer
// executed the call and reported failure, and context.DeadlineExceeded on
// timeout.
type Channel interface {
	Call(ctx context.Context, method string, params, result interface{}) error
	Handle(method string, h PushHandler)
	OnConnect(fn func(Peer))
	OnDisconnect(fn func(Peer))
	Connected() bool
}
