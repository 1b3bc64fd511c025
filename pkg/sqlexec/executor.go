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

// Package sqlexec runs ad-hoc queries against SQL Server instances
// described by connection profiles.
package sqlexec

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/microsoft/go-mssqldb" // sqlserver driver

	"github.com/sqlpulse/sqlpulse/pkg/logger"
	"github.com/sqlpulse/sqlpulse/pkg/models"
)

const defaultMaxRows = 1000

var errEmptyQuery = errors.New("query must not be empty")

// Executor opens a connection per request; stress runs reuse the pool
// handed back by Open instead.
type Executor struct {
	logger logger.Logger

	// open is swappable so tests can hand in a sqlmock-backed database.
	open func(profile models.ConnectionProfile) (*sql.DB, error)
}

// NewExecutor creates an executor using the real sqlserver driver.
func NewExecutor(log logger.Logger) *Executor {
	return &Executor{logger: log, open: openProfile}
}

func openProfile(profile models.ConnectionProfile) (*sql.DB, error) {
	db, err := sql.Open("sqlserver", BuildDSN(profile))
	if err != nil {
		return nil, fmt.Errorf("failed to open connection to %s: %w", profile.Server, err)
	}

	return db, nil
}

// Open returns a pooled database handle for profile. The caller owns the
// handle and must Close it.
func (e *Executor) Open(profile models.ConnectionProfile) (*sql.DB, error) {
	return e.open(profile)
}

// Execute runs one query and collects up to maxRows stringified rows
// (defaultMaxRows when maxRows <= 0).
func (e *Executor) Execute(ctx context.Context, profile models.ConnectionProfile, query string, maxRows int) (*models.QueryResult, error) {
	if query == "" {
		return nil, errEmptyQuery
	}

	db, err := e.open(profile)
	if err != nil {
		return nil, err
	}
	defer func() { _ = db.Close() }()

	return e.Run(ctx, db, query, maxRows)
}

// Run executes query on an already-open handle.
func (e *Executor) Run(ctx context.Context, db *sql.DB, query string, maxRows int) (*models.QueryResult, error) {
	if maxRows <= 0 {
		maxRows = defaultMaxRows
	}

	start := time.Now()

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer func() { _ = rows.Close() }()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns: %w", err)
	}

	result := &models.QueryResult{Columns: columns}

	for rows.Next() {
		if result.RowCount >= maxRows {
			result.Truncated = true
			break
		}

		values := make([]interface{}, len(columns))
		ptrs := make([]interface{}, len(columns))

		for i := range values {
			ptrs[i] = &values[i]
		}

		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		result.Rows = append(result.Rows, renderRow(values))
		result.RowCount++
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration failed: %w", err)
	}

	result.DurationMS = time.Since(start).Milliseconds()

	e.logger.Debug().
		Int("rows", result.RowCount).
		Bool("truncated", result.Truncated).
		Int64("duration_ms", result.DurationMS).
		Msg("Query executed")

	return result, nil
}

func renderRow(values []interface{}) []string {
	out := make([]string, len(values))

	for i, v := range values {
		switch val := v.(type) {
		case nil:
			out[i] = "NULL"
		case []byte:
			out[i] = string(val)
		case time.Time:
			out[i] = val.Format(time.RFC3339Nano)
		default:
			out[i] = fmt.Sprintf("%v", val)
		}
	}

	return out
}
