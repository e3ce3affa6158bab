// Offspot Metrics - Usage Analytics Dashboard Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/offspot-metrics

package models

import (
	"fmt"

	"github.com/goccy/go-json"
)

// AggregationDetails is everything the backend knows about one aggregation kind:
// the buckets that carry data, the full axis of buckets, and every KPI's values.
type AggregationDetails struct {
	AggKind AggregationKind `json:"aggKind"`

	// ValuesAvailable is chronological, most recent last.
	ValuesAvailable []string `json:"valuesAvailable"`

	// ValuesAll is a superset of ValuesAvailable used for chart axes.
	ValuesAll []string `json:"valuesAll"`

	Kpis []AggregationKpi `json:"kpis"`
}

// AggregationKpi is the value sequence of a single KPI.
type AggregationKpi struct {
	KpiID  KpiID                 `json:"kpiId"`
	Values []AggregationKpiValue `json:"values"`
}

// AggregationKpiValue pairs an aggregation value with the KPI payload for that bucket.
type AggregationKpiValue struct {
	AggValue string   `json:"aggValue"`
	KpiValue KpiValue `json:"kpiValue"`
}

type rawAggregationKpi struct {
	KpiID  KpiID `json:"kpiId"`
	Values []struct {
		AggValue string          `json:"aggValue"`
		KpiValue json.RawMessage `json:"kpiValue"`
	} `json:"values"`
}

// UnmarshalJSON decodes every kpiValue into the concrete type matching KpiID.
func (k *AggregationKpi) UnmarshalJSON(data []byte) error {
	var raw rawAggregationKpi
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	values := make([]AggregationKpiValue, 0, len(raw.Values))
	for _, rv := range raw.Values {
		v, err := DecodeKpiValue(raw.KpiID, rv.KpiValue)
		if err != nil {
			return fmt.Errorf("kpi %d at %q: %w", int(raw.KpiID), rv.AggValue, err)
		}
		values = append(values, AggregationKpiValue{AggValue: rv.AggValue, KpiValue: v})
	}

	k.KpiID = raw.KpiID
	k.Values = values
	return nil
}

// HasValues reports whether d is loaded and lists at least one available value.
func (d *AggregationDetails) HasValues() bool {
	return d != nil && len(d.ValuesAvailable) > 0
}

// KpiIDs returns the identifiers present in d, in payload order, duplicates included.
func (d *AggregationDetails) KpiIDs() []KpiID {
	if d == nil {
		return nil
	}
	ids := make([]KpiID, len(d.Kpis))
	for i, k := range d.Kpis {
		ids[i] = k.KpiID
	}
	return ids
}
