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

package main

import (
	"context"
	"flag"
	"log"

	"github.com/sqlpulse/sqlpulse/pkg/api"
	"github.com/sqlpulse/sqlpulse/pkg/config"
	"github.com/sqlpulse/sqlpulse/pkg/lifecycle"
	"github.com/sqlpulse/sqlpulse/pkg/logger"
	"github.com/sqlpulse/sqlpulse/pkg/registry"
	"github.com/sqlpulse/sqlpulse/pkg/remotestore"
	"github.com/sqlpulse/sqlpulse/pkg/rpc"
	"github.com/sqlpulse/sqlpulse/pkg/sqlexec"
	"github.com/sqlpulse/sqlpulse/pkg/stress"
)

func main() {
	configPath := flag.String("config", "", "Path to config file")
	flag.Parse()

	ctx := context.Background()

	if err := run(ctx, *configPath); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run(ctx context.Context, configPath string) error {
	cfg, err := config.Load(ctx, configPath)
	if err != nil {
		return err
	}

	rootLogger, err := logger.New(cfg.Logging)
	if err != nil {
		return err
	}

	channel := rpc.NewWebSocketChannel(cfg.RPC, rootLogger)
	store := remotestore.NewProxy(channel, rootLogger)
	reg := registry.New(store, rootLogger)

	registry.NewHandshake(reg, cfg.Handshake, rootLogger).Bind(channel)
	registry.NewInvalidation(reg, rootLogger).Bind(channel)

	exec := sqlexec.NewExecutor(rootLogger)
	engine := stress.NewEngine(reg, exec, store, rootLogger)

	srv := api.NewServer(api.Config{APIKey: cfg.APIKey}, reg, exec, engine, store, channel, rootLogger)

	return lifecycle.RunServer(ctx, &lifecycle.ServerOptions{
		ListenAddr:  cfg.ListenAddr,
		ServiceName: "sqlpulse",
		Handler:     srv.Router(),
		Logger:      rootLogger,
	})
}
