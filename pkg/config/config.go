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

// Package config loads the backend's configuration from a JSON file with
// environment-variable overrides.
package config

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/sqlpulse/sqlpulse/pkg/logger"
	"github.com/sqlpulse/sqlpulse/pkg/registry"
	"github.com/sqlpulse/sqlpulse/pkg/rpc"
)

const defaultListenAddr = ":8090"

var errListenAddrRequired = errors.New("listen_addr is required")

// Config is the whole backend's configuration.
type Config struct {
	ListenAddr string                     `json:"listen_addr"`
	APIKey     string                     `json:"api_key,omitempty"`
	Logging    logger.Config              `json:"logging"`
	Handshake  registry.HandshakeConfig   `json:"handshake"`
	RPC        rpc.WebSocketChannelConfig `json:"rpc"`
}

// Load reads path (optional), applies environment overrides and defaults.
func Load(_ context.Context, path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
		}

		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config from '%s': %w", path, err)
		}
	}

	applyEnv(cfg)

	if cfg.ListenAddr == "" {
		cfg.ListenAddr = defaultListenAddr
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks invariants not covered by defaulting.
func (c *Config) Validate() error {
	if c.ListenAddr == "" {
		return errListenAddrRequired
	}

	return nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("SQLPULSE_LISTEN_ADDR"); v != "" {
		cfg.ListenAddr = v
	}

	if v := os.Getenv("SQLPULSE_API_KEY"); v != "" {
		cfg.APIKey = v
	}

	if v := os.Getenv("SQLPULSE_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}
