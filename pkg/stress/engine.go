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

// Package stress runs repeated-query load tests against a profiled SQL
// Server connection and feeds live telemetry to the API layer.
package stress

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/sqlpulse/sqlpulse/pkg/logger"
	"github.com/sqlpulse/sqlpulse/pkg/models"
	"github.com/sqlpulse/sqlpulse/pkg/remotestore"
	"github.com/sqlpulse/sqlpulse/pkg/telemetry"
)

const (
	maxWorkers         = 64
	persistTimeout     = 10 * time.Second
	statsSampleMaxRows = 1
)

var (
	errEmptyConnectionID = errors.New("connection_id must not be empty")
	errEmptyQuery        = errors.New("query must not be empty")
	errTooManyWorkers    = errors.New("workers exceeds the allowed maximum")
	errRunNotFound       = errors.New("stress run not found")
)

// ProfileResolver resolves a connection id to a profile. Satisfied by
// registry.Registry.
type ProfileResolver interface {
	Lookup(ctx context.Context, id string) (models.ConnectionProfile, error)
}

// Executor is the query surface a run drives. Satisfied by
// sqlexec.Executor.
type Executor interface {
	Open(profile models.ConnectionProfile) (*sql.DB, error)
	Run(ctx context.Context, db *sql.DB, query string, maxRows int) (*models.QueryResult, error)
}

// Engine starts, tracks and cancels stress runs.
type Engine struct {
	registry ProfileResolver
	exec     Executor
	store    remotestore.RemoteStore
	logger   logger.Logger

	mu   sync.Mutex
	runs map[string]*Run
}

// NewEngine wires an engine. store may receive best-effort summaries when
// runs finish; a nil store disables persistence.
func NewEngine(reg ProfileResolver, exec Executor, store remotestore.RemoteStore, log logger.Logger) *Engine {
	return &Engine{
		registry: reg,
		exec:     exec,
		store:    store,
		logger:   log,
		runs:     make(map[string]*Run),
	}
}

// Run is one in-flight or finished stress test.
type Run struct {
	ID        string
	cfg       models.StressConfig
	collector *telemetry.Collector
	cancel    context.CancelFunc
	done      chan struct{}

	mu      sync.Mutex
	state   models.RunState
	started time.Time
	ended   time.Time
}

// Done is closed when the run has fully finished.
func (r *Run) Done() <-chan struct{} { return r.done }

// Cancel stops the run's workers. Safe to call repeatedly.
func (r *Run) Cancel() { r.cancel() }

// Stats returns the run's live aggregate.
func (r *Run) Stats() models.RunStats {
	stats := r.collector.Snapshot()

	r.mu.Lock()
	stats.RunID = r.ID
	stats.State = r.state
	stats.StartedAt = r.started
	stats.EndedAt = r.ended
	r.mu.Unlock()

	return stats
}

func (r *Run) finish(state models.RunState) {
	r.mu.Lock()
	r.state = state
	r.ended = time.Now()
	r.mu.Unlock()
}

// Start validates cfg, resolves the connection profile and launches the
// run's worker pool. The run outlives the request context; Cancel or
// completion ends it.
func (e *Engine) Start(ctx context.Context, cfg models.StressConfig) (*Run, error) {
	if cfg.ConnectionID == "" {
		return nil, errEmptyConnectionID
	}

	if cfg.Query == "" {
		return nil, errEmptyQuery
	}

	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}

	if cfg.Workers > maxWorkers {
		return nil, errTooManyWorkers
	}

	if cfg.Iterations <= 0 {
		cfg.Iterations = 1
	}

	profile, err := e.registry.Lookup(ctx, cfg.ConnectionID)
	if err != nil {
		return nil, err
	}

	db, err := e.exec.Open(profile)
	if err != nil {
		return nil, err
	}

	runCtx, cancel := context.WithCancel(context.Background())

	run := &Run{
		ID:        uuid.NewString(),
		cfg:       cfg,
		collector: telemetry.NewCollector(),
		cancel:    cancel,
		done:      make(chan struct{}),
		state:     models.RunStateRunning,
		started:   time.Now(),
	}

	e.mu.Lock()
	e.runs[run.ID] = run
	e.mu.Unlock()

	runsStarted.Inc()

	e.logger.Info().
		Str("run_id", run.ID).
		Str("connection_id", cfg.ConnectionID).
		Int("workers", cfg.Workers).
		Int("iterations", cfg.Iterations).
		Msg("Stress run started")

	go e.execute(runCtx, run, db)

	return run, nil
}

// Get looks up a tracked run.
func (e *Engine) Get(id string) (*Run, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	run, ok := e.runs[id]
	if !ok {
		return nil, errRunNotFound
	}

	return run, nil
}

// Cancel stops a tracked run.
func (e *Engine) Cancel(id string) error {
	run, err := e.Get(id)
	if err != nil {
		return err
	}

	run.Cancel()

	return nil
}

func (e *Engine) execute(ctx context.Context, run *Run, db *sql.DB) {
	defer close(run.done)

	defer func() {
		if db != nil {
			_ = db.Close()
		}
	}()

	var next atomic.Int64

	g, workerCtx := errgroup.WithContext(ctx)

	for w := 0; w < run.cfg.Workers; w++ {
		g.Go(func() error {
			return e.worker(workerCtx, run, db, &next)
		})
	}

	err := g.Wait()

	state := models.RunStateCompleted
	if errors.Is(err, context.Canceled) {
		state = models.RunStateCanceled
	}

	run.finish(state)
	runsFinished.WithLabelValues(string(state)).Inc()

	stats := run.Stats()

	e.logger.Info().
		Str("run_id", run.ID).
		Str("state", string(state)).
		Int("iterations", stats.Iterations).
		Int("errors", stats.Errors).
		Msg("Stress run finished")

	e.persist(stats)
}

func (e *Engine) worker(ctx context.Context, run *Run, db *sql.DB, next *atomic.Int64) error {
	for {
		if next.Add(1) > int64(run.cfg.Iterations) {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		iterCtx := ctx

		var cancel context.CancelFunc

		if run.cfg.QueryTimeout > 0 {
			iterCtx, cancel = context.WithTimeout(ctx, run.cfg.QueryTimeout)
		}

		start := time.Now()
		_, err := e.exec.Run(iterCtx, db, run.cfg.Query, statsSampleMaxRows)

		if cancel != nil {
			cancel()
		}

		sample := models.IterationSample{Duration: time.Since(start)}
		if err != nil {
			sample.Err = err.Error()
		}

		run.collector.Record(sample)
		iterationsTotal.Inc()
	}
}

func (e *Engine) persist(stats models.RunStats) {
	if e.store == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	if err := e.store.SaveRunStats(ctx, stats); err != nil {
		e.logger.Warn().
			Err(err).
			Str("run_id", stats.RunID).
			Msg("Failed to persist run summary to editor peer")
	}
}
