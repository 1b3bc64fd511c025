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

package remotestore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sqlpulse/sqlpulse/pkg/logger"
	"github.com/sqlpulse/sqlpulse/pkg/models"
	"github.com/sqlpulse/sqlpulse/pkg/rpc"
)

// Remote method names, shared with the editor extension.
const (
	methodLoadConnections  = "LoadConnections"
	methodSaveConnection   = "SaveConnection"
	methodUpdateConnection = "UpdateConnection"
	methodDeleteConnection = "DeleteConnection"
	methodSaveRunStats     = "SaveRunStats"
	methodLoadRunHistory   = "LoadRunHistory"
)

// operationResult is the editor side's response envelope: Success false
// means the peer executed the handler but the operation itself failed.
type operationResult struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Proxy implements RemoteStore over an rpc.Channel.
type Proxy struct {
	channel rpc.Channel
	logger  logger.Logger
}

// NewProxy wraps a channel in the RemoteStore surface.
func NewProxy(channel rpc.Channel, log logger.Logger) *Proxy {
	return &Proxy{channel: channel, logger: log}
}

// LoadConnections implements RemoteStore.
func (p *Proxy) LoadConnections(ctx context.Context) ([]models.ConnectionProfile, error) {
	res, err := p.call(ctx, methodLoadConnections, nil)
	if err != nil {
		return nil, err
	}

	var profiles []models.ConnectionProfile

	if len(res.Data) > 0 {
		if err := json.Unmarshal(res.Data, &profiles); err != nil {
			return nil, fmt.Errorf("failed to decode connection list: %w", err)
		}
	}

	p.logger.Debug().Int("count", len(profiles)).Msg("Loaded connections from editor peer")

	return profiles, nil
}

// SaveConnection implements RemoteStore.
func (p *Proxy) SaveConnection(ctx context.Context, profile models.ConnectionProfile) error {
	_, err := p.call(ctx, methodSaveConnection, map[string]interface{}{"profile": profile})
	return err
}

// UpdateConnection implements RemoteStore.
func (p *Proxy) UpdateConnection(ctx context.Context, id string, profile models.ConnectionProfile) error {
	_, err := p.call(ctx, methodUpdateConnection, map[string]interface{}{"id": id, "profile": profile})
	return err
}

// DeleteConnection implements RemoteStore.
func (p *Proxy) DeleteConnection(ctx context.Context, id string) error {
	_, err := p.call(ctx, methodDeleteConnection, map[string]interface{}{"id": id})
	return err
}

// SaveRunStats implements RemoteStore.
func (p *Proxy) SaveRunStats(ctx context.Context, stats models.RunStats) error {
	_, err := p.call(ctx, methodSaveRunStats, map[string]interface{}{"stats": stats})
	return err
}

// LoadRunHistory implements RemoteStore.
func (p *Proxy) LoadRunHistory(ctx context.Context) ([]models.RunStats, error) {
	res, err := p.call(ctx, methodLoadRunHistory, nil)
	if err != nil {
		return nil, err
	}

	var history []models.RunStats

	if len(res.Data) > 0 {
		if err := json.Unmarshal(res.Data, &history); err != nil {
			return nil, fmt.Errorf("failed to decode run history: %w", err)
		}
	}

	return history, nil
}

func (p *Proxy) call(ctx context.Context, method string, params interface{}) (*operationResult, error) {
	var res operationResult

	if err := p.channel.Call(ctx, method, params, &res); err != nil {
		return nil, err
	}

	if !res.Success {
		return nil, &rpc.RemoteError{Method: method, Message: res.Error}
	}

	return &res, nil
}
