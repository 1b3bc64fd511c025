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

//go:generate mockgen -destination=mock_remotestore.go -package=remotestore github.com/sqlpulse/sqlpulse/pkg/remotestore RemoteStore

// Package remotestore proxies storage operations to the editor peer, which
// owns the authoritative, persistent data. The backend holds no store of
// its own.
package remotestore

import (
	"context"

	"github.com/sqlpulse/sqlpulse/pkg/models"
)

// RemoteStore is the remote operation surface on the attached editor peer.
// Every call fails with rpc.ErrNotConnected when no peer is attached and is
// time-bounded by the channel's call timeout. None of the methods retry;
// retry policy belongs to the callers.
type RemoteStore interface {
	// LoadConnections fetches the full, authoritative profile list.
	LoadConnections(ctx context.Context) ([]models.ConnectionProfile, error)

	// SaveConnection persists a new profile in the editor's storage.
	SaveConnection(ctx context.Context, profile models.ConnectionProfile) error

	// UpdateConnection replaces the profile stored under id.
	UpdateConnection(ctx context.Context, id string, profile models.ConnectionProfile) error

	// DeleteConnection removes the profile stored under id.
	DeleteConnection(ctx context.Context, id string) error

	// SaveRunStats persists a finished stress run's summary.
	SaveRunStats(ctx context.Context, stats models.RunStats) error

	// LoadRunHistory fetches previously persisted run summaries.
	LoadRunHistory(ctx context.Context) ([]models.RunStats, error)
}
