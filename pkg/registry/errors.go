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

import "errors"

var (
	// ErrConnectionNotFound means the id was absent even after one reload.
	ErrConnectionNotFound = errors.New("connection not found")

	// ErrEmptyConnectionID flags a caller bug: ids are never blank.
	ErrEmptyConnectionID = errors.New("connection id must not be empty")
)
