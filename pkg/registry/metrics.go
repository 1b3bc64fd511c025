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

package registry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	reloadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sqlpulse",
		Subsystem: "registry",
		Name:      "reloads_total",
		Help:      "Registry reloads from the editor peer, by result.",
	}, []string{"result"})

	lookupMisses = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "sqlpulse",
		Subsystem: "registry",
		Name:      "lookup_misses_total",
		Help:      "Lookups that missed the snapshot and triggered a reload.",
	})

	handshakeAttempts = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "sqlpulse",
		Subsystem: "registry",
		Name:      "handshake_attempts_total",
		Help:      "Warm-up load attempts across peer connections.",
	})
)
