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

// Package api provides the HTTP surface used by the editor extension's
// webview: ad-hoc queries, stress runs, live telemetry streams, and the
// /rpc mount the extension's storage channel attaches to.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sqlpulse/sqlpulse/pkg/logger"
	"github.com/sqlpulse/sqlpulse/pkg/models"
	"github.com/sqlpulse/sqlpulse/pkg/registry"
	"github.com/sqlpulse/sqlpulse/pkg/remotestore"
	"github.com/sqlpulse/sqlpulse/pkg/rpc"
	"github.com/sqlpulse/sqlpulse/pkg/stress"
)

// QueryExecutor is the ad-hoc query surface the API needs. Satisfied by
// sqlexec.Executor.
type QueryExecutor interface {
	Execute(ctx context.Context, profile models.ConnectionProfile, query string, maxRows int) (*models.QueryResult, error)
}

// Config tunes the HTTP layer.
type Config struct {
	APIKey string `json:"api_key,omitempty"`
}

// Server assembles the router. It does not own the listener; the
// lifecycle package runs it.
type Server struct {
	router   *mux.Router
	registry *registry.Registry
	exec     QueryExecutor
	engine   *stress.Engine
	store    remotestore.RemoteStore
	channel  http.Handler
	logger   logger.Logger
}

// NewServer wires the router. channel is mounted at /rpc for the editor
// peer to attach to.
func NewServer(cfg Config, reg *registry.Registry, exec QueryExecutor, engine *stress.Engine, store remotestore.RemoteStore, channel http.Handler, log logger.Logger) *Server {
	s := &Server{
		router:   mux.NewRouter(),
		registry: reg,
		exec:     exec,
		engine:   engine,
		store:    store,
		channel:  channel,
		logger:   log,
	}

	s.router.Handle("/rpc", channel)
	s.router.Handle("/metrics", promhttp.Handler())

	apiRouter := s.router.PathPrefix("/api").Subrouter()
	apiRouter.Use(CommonMiddleware(log))
	apiRouter.Use(APIKeyMiddleware(cfg.APIKey, log))

	apiRouter.HandleFunc("/connections", s.handleListConnections).Methods(http.MethodGet, http.MethodOptions)
	apiRouter.HandleFunc("/connections", s.handleSaveConnection).Methods(http.MethodPost)
	apiRouter.HandleFunc("/connections/{id}", s.handleUpdateConnection).Methods(http.MethodPut, http.MethodOptions)
	apiRouter.HandleFunc("/connections/{id}", s.handleDeleteConnection).Methods(http.MethodDelete)
	apiRouter.HandleFunc("/query", s.handleQuery).Methods(http.MethodPost, http.MethodOptions)
	apiRouter.HandleFunc("/stress", s.handleStartStress).Methods(http.MethodPost, http.MethodOptions)
	apiRouter.HandleFunc("/stress/{id}", s.handleStressStatus).Methods(http.MethodGet, http.MethodOptions)
	apiRouter.HandleFunc("/stress/{id}", s.handleCancelStress).Methods(http.MethodDelete)
	apiRouter.HandleFunc("/stress/{id}/stream", s.handleStressStream).Methods(http.MethodGet)
	apiRouter.HandleFunc("/history", s.handleRunHistory).Methods(http.MethodGet, http.MethodOptions)

	return s
}

// Router returns the assembled handler.
func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) handleListConnections(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.registry.List())
}

func (s *Server) handleSaveConnection(w http.ResponseWriter, r *http.Request) {
	var profile models.ConnectionProfile

	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := s.store.SaveConnection(r.Context(), profile); err != nil {
		s.writeStoreError(w, err)
		return
	}

	s.refreshRegistry(r.Context())
	writeJSON(w, http.StatusCreated, profile)
}

func (s *Server) handleUpdateConnection(w http.ResponseWriter, r *http.Request) {
	var profile models.ConnectionProfile

	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := s.store.UpdateConnection(r.Context(), mux.Vars(r)["id"], profile); err != nil {
		s.writeStoreError(w, err)
		return
	}

	s.refreshRegistry(r.Context())
	writeJSON(w, http.StatusOK, profile)
}

func (s *Server) handleDeleteConnection(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteConnection(r.Context(), mux.Vars(r)["id"]); err != nil {
		s.writeStoreError(w, err)
		return
	}

	s.refreshRegistry(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

// refreshRegistry re-pulls the snapshot after a mutation we initiated.
// Failures are contained; the next lookup miss or saved-connection push
// recovers.
func (s *Server) refreshRegistry(ctx context.Context) {
	if err := s.registry.Reload(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("Registry refresh after mutation failed")
	}
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req models.QueryRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	profile, err := s.registry.Lookup(r.Context(), req.ConnectionID)
	if err != nil {
		s.writeLookupError(w, err)
		return
	}

	result, err := s.exec.Execute(r.Context(), profile, req.Query, req.MaxRows)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("connection_id", req.ConnectionID).
			Msg("Query execution failed")
		writeError(w, err.Error(), http.StatusBadGateway)

		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleStartStress(w http.ResponseWriter, r *http.Request) {
	var cfg models.StressConfig

	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	run, err := s.engine.Start(r.Context(), cfg)
	if err != nil {
		switch {
		case errors.Is(err, registry.ErrConnectionNotFound),
			errors.Is(err, registry.ErrEmptyConnectionID):
			s.writeLookupError(w, err)
		default:
			writeError(w, err.Error(), http.StatusBadRequest)
		}

		return
	}

	writeJSON(w, http.StatusAccepted, run.Stats())
}

func (s *Server) handleStressStatus(w http.ResponseWriter, r *http.Request) {
	run, err := s.engine.Get(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err.Error(), http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, run.Stats())
}

func (s *Server) handleCancelStress(w http.ResponseWriter, r *http.Request) {
	if err := s.engine.Cancel(mux.Vars(r)["id"]); err != nil {
		writeError(w, err.Error(), http.StatusNotFound)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRunHistory(w http.ResponseWriter, r *http.Request) {
	history, err := s.store.LoadRunHistory(r.Context())
	if err != nil {
		s.writeStoreError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, history)
}

// writeStoreError maps remote-store failures onto HTTP statuses.
func (s *Server) writeStoreError(w http.ResponseWriter, err error) {
	if rpc.IsNotConnected(err) {
		writeError(w, "editor peer not attached", http.StatusServiceUnavailable)
		return
	}

	writeError(w, err.Error(), http.StatusBadGateway)
}

// writeLookupError maps registry errors onto HTTP statuses: a missing
// profile is the user-visible "connection not found" condition.
func (s *Server) writeLookupError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, registry.ErrConnectionNotFound):
		writeError(w, "connection not found", http.StatusNotFound)
	case errors.Is(err, registry.ErrEmptyConnectionID):
		writeError(w, err.Error(), http.StatusBadRequest)
	default:
		writeError(w, err.Error(), http.StatusBadGateway)
	}
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, msg string, status int) {
	writeJSON(w, status, map[string]string{"error": msg})
}
