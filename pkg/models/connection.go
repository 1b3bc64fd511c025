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

// Package models contains the shared data types exchanged between the
// backend, the editor peer, and the HTTP API.
package models

// ConnectionProfile describes one SQL Server connection as stored by the
// editor extension. Profiles are immutable values: the registry replaces
// them wholesale on reload and never patches individual fields.
type ConnectionProfile struct {
	ID             string `json:"id"`
	DisplayName    string `json:"display_name"`
	Server         string `json:"server"`
	Port           int    `json:"port,omitempty"`
	Database       string `json:"database,omitempty"`
	Username       string `json:"username,omitempty"`
	Password       string `json:"password,omitempty"`
	IntegratedAuth bool   `json:"integrated_auth"`
}

// QueryRequest is an ad-hoc query submitted through the HTTP API.
type QueryRequest struct {
	ConnectionID string `json:"connection_id"`
	Query        string `json:"query"`
	MaxRows      int    `json:"max_rows,omitempty"`
}

// QueryResult carries the outcome of a single query execution. Rows are
// stringified for transport; Truncated is set when MaxRows was hit.
type QueryResult struct {
	Columns    []string   `json:"columns"`
	Rows       [][]string `json:"rows"`
	RowCount   int        `json:"row_count"`
	Truncated  bool       `json:"truncated"`
	DurationMS int64      `json:"duration_ms"`
}
