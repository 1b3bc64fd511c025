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

// Package logger provides JSON structured logging using zerolog.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Config controls log output for the process.
type Config struct {
	Level      string `json:"level"`
	Debug      bool   `json:"debug"`
	Output     string `json:"output"`
	TimeFormat string `json:"time_format"`
}

type zeroLogger struct {
	l zerolog.Logger
}

// New builds a Logger from config. Output defaults to stdout; Debug wins
// over Level when both are set.
func New(config Config) (Logger, error) {
	var output io.Writer = os.Stdout

	if config.Output == "stderr" {
		output = os.Stderr
	}

	level := zerolog.InfoLevel

	if config.Debug {
		level = zerolog.DebugLevel
	} else if config.Level != "" {
		var err error

		level, err = zerolog.ParseLevel(config.Level)
		if err != nil {
			return nil, err
		}
	}

	if config.TimeFormat != "" {
		zerolog.TimeFieldFormat = config.TimeFormat
	} else {
		zerolog.TimeFieldFormat = time.RFC3339
	}

	l := zerolog.New(output).
		Level(level).
		With().
		Timestamp().
		Logger()

	return &zeroLogger{l: l}, nil
}

func (z *zeroLogger) Trace() *zerolog.Event { return z.l.Trace() }
func (z *zeroLogger) Debug() *zerolog.Event { return z.l.Debug() }
func (z *zeroLogger) Info() *zerolog.Event  { return z.l.Info() }
func (z *zeroLogger) Warn() *zerolog.Event  { return z.l.Warn() }
func (z *zeroLogger) Error() *zerolog.Event { return z.l.Error() }
func (z *zeroLogger) Fatal() *zerolog.Event { return z.l.Fatal() }

func (z *zeroLogger) With() zerolog.Context { return z.l.With() }

func (z *zeroLogger) WithComponent(component string) zerolog.Logger {
	return z.l.With().Str("component", component).Logger()
}

func (z *zeroLogger) SetLevel(level zerolog.Level) {
	z.l = z.l.Level(level)
}
