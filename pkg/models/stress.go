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

package models

import "time"

// StressConfig describes one stress-test run request.
type StressConfig struct {
	ConnectionID string        `json:"connection_id"`
	Query        string        `json:"query"`
	Workers      int           `json:"workers"`
	Iterations   int           `json:"iterations"`
	QueryTimeout time.Duration `json:"query_timeout,omitempty"`
}

// RunState is the lifecycle state of a stress run.
type RunState string

const (
	RunStateRunning   RunState = "running"
	RunStateCompleted RunState = "completed"
	RunStateCanceled  RunState = "canceled"
)

// IterationSample is one executed iteration's measurement.
type IterationSample struct {
	Duration time.Duration `json:"duration_ns"`
	Err      string        `json:"error,omitempty"`
}

// RunStats is the aggregate view of a stress run, served live over the
// telemetry stream and persisted to the editor peer when the run ends.
type RunStats struct {
	RunID      string        `json:"run_id,omitempty"`
	State      RunState      `json:"state,omitempty"`
	Iterations int           `json:"iterations"`
	Errors     int           `json:"errors"`
	Min        time.Duration `json:"min_ns"`
	Max        time.Duration `json:"max_ns"`
	Mean       time.Duration `json:"mean_ns"`
	P50        time.Duration `json:"p50_ns"`
	P95        time.Duration `json:"p95_ns"`
	P99        time.Duration `json:"p99_ns"`
	StartedAt  time.Time     `json:"started_at,omitempty"`
	EndedAt    time.Time     `json:"ended_at,omitempty"`
}
