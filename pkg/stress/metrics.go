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

package stress

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	runsStarted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "sqlpulse",
		Subsystem: "stress",
		Name:      "runs_started_total",
		Help:      "Stress runs accepted by the engine.",
	})

	runsFinished = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sqlpulse",
		Subsystem: "stress",
		Name:      "runs_finished_total",
		Help:      "Stress runs finished, by final state.",
	}, []string{"state"})

	iterationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "sqlpulse",
		Subsystem: "stress",
		Name:      "iterations_total",
		Help:      "Query iterations executed across all runs.",
	})
)
