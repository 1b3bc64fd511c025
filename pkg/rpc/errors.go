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
	"errors"
	"fmt"
)

var (
	// ErrNotConnected means no editor peer is currently attached.
	ErrNotConnected = errors.New("no editor peer attached")

	// ErrHandlerNotReady means the peer is reachable but rejected the call
	// because its message handler is not registered yet. This is the
	// transient signal the handshake coordinator retries on.
	ErrHandlerNotReady = errors.New("peer handler not registered")
)

// RemoteError means the peer executed the call and reported failure.
type RemoteError struct {
	Method  string
	Message string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("remote operation %s failed: %s", e.Method, e.Message)
}

// IsHandlerNotReady reports whether err is the registration-race signal.
func IsHandlerNotReady(err error) bool {
	return errors.Is(err, ErrHandlerNotReady)
}

// IsNotConnected reports whether err means no peer was attached.
func IsNotConnected(err error) bool {
	return errors.Is(err, ErrNotConnected)
}

// IsTimeout reports whether err is a call that ran out of time.
func IsTimeout(err error) bool {
	return errors.Is(err, context.DeadlineExceeded)
}
