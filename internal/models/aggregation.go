// Offspot Metrics - Usage Analytics Dashboard Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/offspot-metrics

package models

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidAggregationKind is returned when a kind code is not one of D, W, M, Y.
var ErrInvalidAggregationKind = errors.New("invalid aggregation kind")

// AggregationKind is the time-bucketing granularity, encoded as a single letter.
type AggregationKind string

const (
	KindDaily   AggregationKind = "D"
	KindWeekly  AggregationKind = "W"
	KindMonthly AggregationKind = "M"
	KindYearly  AggregationKind = "Y"
)

// AllAggregationKinds lists the supported kinds in ascending granularity.
var AllAggregationKinds = []AggregationKind{KindDaily, KindWeekly, KindMonthly, KindYearly}

// Valid reports whether k is one of the supported kinds.
func (k AggregationKind) Valid() bool {
	switch k {
	case KindDaily, KindWeekly, KindMonthly, KindYearly:
		return true
	default:
		return false
	}
}

// String returns the single-letter code.
func (k AggregationKind) String() string {
	return string(k)
}

// Name returns a human-readable name for the kind, or "" when unknown.
func (k AggregationKind) Name() string {
	switch k {
	case KindDaily:
		return "daily"
	case KindWeekly:
		return "weekly"
	case KindMonthly:
		return "monthly"
	case KindYearly:
		return "yearly"
	default:
		return ""
	}
}

// ParseAggregationKind converts a code into an AggregationKind.
// Surrounding whitespace is ignored; the code is case-sensitive like the backend routes.
func ParseAggregationKind(s string) (AggregationKind, error) {
	k := AggregationKind(strings.TrimSpace(s))
	if !k.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidAggregationKind, s)
	}
	return k, nil
}

// Page identifies the dashboard view currently displayed by a session.
type Page string

const (
	PageDashboard         Page = "dashboard"
	PageTotalUsage        Page = "total_usage"
	PagePackagePopularity Page = "package_popularity"
)

// Valid reports whether p is a known page.
func (p Page) Valid() bool {
	switch p {
	case PageDashboard, PageTotalUsage, PagePackagePopularity:
		return true
	default:
		return false
	}
}
