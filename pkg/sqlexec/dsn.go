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

package sqlexec

import (
	"net"
	"net/url"
	"strconv"

	"github.com/sqlpulse/sqlpulse/pkg/models"
)

const appName = "sqlpulse"

// BuildDSN renders a profile as a sqlserver:// URL understood by the
// go-mssqldb driver. Integrated auth omits credentials entirely.
func BuildDSN(profile models.ConnectionProfile) string {
	u := &url.URL{
		Scheme: "sqlserver",
		Host:   profile.Server,
	}

	if profile.Port > 0 {
		u.Host = net.JoinHostPort(profile.Server, strconv.Itoa(profile.Port))
	}

	if !profile.IntegratedAuth && profile.Username != "" {
		u.User = url.UserPassword(profile.Username, profile.Password)
	}

	q := url.Values{}
	q.Set("app name", appName)

	if profile.Database != "" {
		q.Set("database", profile.Database)
	}

	u.RawQuery = q.Encode()

	return u.String()
}
