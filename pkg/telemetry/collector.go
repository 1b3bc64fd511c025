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

// Package telemetry aggregates per-iteration measurements of a stress run
// into live, streamable statistics.
package telemetry

import (
	"sort"
	"sync"
	"time"

	"github.com/sqlpulse/sqlpulse/pkg/models"
)

// Collector accumulates iteration samples for one run. Safe for concurrent
// use by all of the run's workers.
type Collector struct {
	mu        sync.Mutex
	durations []time.Duration
	errors    int
	total     time.Duration
	min       time.Duration
	max       time.Duration
}

// NewCollector creates an empty collector.
func NewCollector() *Collector {
	return &Collector{}
}

// Record adds one sample.
func (c *Collector) Record(sample models.IterationSample) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if sample.Err != "" {
		c.errors++
	}

	d := sample.Duration
	c.durations = append(c.durations, d)
	c.total += d

	if len(c.durations) == 1 || d < c.min {
		c.min = d
	}

	if d > c.max {
		c.max = d
	}
}

// Snapshot computes the aggregate view of everything recorded so far.
func (c *Collector) Snapshot() models.RunStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	stats := models.RunStats{
		Iterations: len(c.durations),
		Errors:     c.errors,
		Min:        c.min,
		Max:        c.max,
	}

	if len(c.durations) == 0 {
		return stats
	}

	stats.Mean = c.total / time.Duration(len(c.durations))

	sorted := make([]time.Duration, len(c.durations))
	copy(sorted, c.durations)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	stats.P50 = percentile(sorted, 50)
	stats.P95 = percentile(sorted, 95)
	stats.P99 = percentile(sorted, 99)

	return stats
}

// percentile picks the nearest-rank value from an ascending slice.
func percentile(sorted []time.Duration, p int) time.Duration {
	if len(sorted) == 0 {
		return 0
	}

	rank := (p*len(sorted) + 99) / 100
	if rank < 1 {
		rank = 1
	}

	if rank > len(sorted) {
		rank = len(sorted)
	}

	return sorted[rank-1]
}
