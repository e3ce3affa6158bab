// Offspot Metrics - Usage Analytics Dashboard Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/offspot-metrics

package api

import "github.com/tomtom215/offspot-metrics/internal/models"

// SetKindRequest is the body of PUT /api/v1/aggregation/kind.
type SetKindRequest struct {
	Kind string `json:"kind" validate:"required,agg_kind"`
}

// AggregationKind returns the validated kind.
func (r SetKindRequest) AggregationKind() models.AggregationKind {
	return models.AggregationKind(r.Kind)
}

// SetValueRequest is the body of PUT /api/v1/aggregation/value.
type SetValueRequest struct {
	Value string `json:"value" validate:"required,max=32"`
}

// SetPageRequest is the body of PUT /api/v1/page.
type SetPageRequest struct {
	Page string `json:"page" validate:"required,dashboard_page"`
}

// DateLabelRequest holds the query of GET /api/v1/labels/date.
type DateLabelRequest struct {
	Kind  string `json:"kind" validate:"required,agg_kind"`
	Value string `json:"value" validate:"max=32"`
}

// DateLabelResponse is the split label of one aggregation value.
type DateLabelResponse struct {
	Kind       models.AggregationKind `json:"kind"`
	Value      string                 `json:"value"`
	Part1      string                 `json:"part1"`
	Part2      string                 `json:"part2"`
	Part3      string                 `json:"part3"`
	ShortPart3 string                 `json:"shortPart3"`
}

// ColorResponse is the color of one package.
type ColorResponse struct {
	Package string `json:"package"`
	Color   string `json:"color"`
}
