// metrics.go
//
// A test-case sheet tracking service with role and status gated sharing
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of jam-build-testsheets.
// jam-build-testsheets is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// jam-build-testsheets is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with jam-build-testsheets.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

// Package metrics registers the domain counters exported at /metrics
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	verificationStatusUpdates = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "testsheets",
		Name:      "verification_status_updates_total",
		Help:      "Verification status changes applied, by new status.",
	}, []string{"status"})

	permissionRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "testsheets",
		Name:      "permission_requests_total",
		Help:      "Sheet permission lifecycle events, by outcome.",
	}, []string{"outcome"})

	rowHeightUpdates = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "testsheets",
		Name:      "row_height_updates_total",
		Help:      "Row height updates, by table and whether the value was clamped.",
	}, []string{"table", "clamped"})
)

// Permission outcomes
const (
	OutcomeRequested = "requested"
	OutcomeUpdated   = "updated"
	OutcomeReopened  = "reopened"
	OutcomeApproved  = "approved"
	OutcomeDeclined  = "declined"
)

func VerificationStatusUpdated(status string) {
	verificationStatusUpdates.WithLabelValues(status).Inc()
}

func PermissionEvent(outcome string) {
	permissionRequests.WithLabelValues(outcome).Inc()
}

func RowHeightUpdated(table string, clamped bool) {
	rowHeightUpdates.WithLabelValues(table, strconv.FormatBool(clamped)).Inc()
}
