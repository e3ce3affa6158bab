// Offspot Metrics - Usage Analytics Dashboard Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/offspot-metrics

/*
Package models defines the data structures exchanged with the metrics backend.

The backend pre-aggregates Key Performance Indicators (KPIs) per time bucket. A bucket
is identified by an aggregation kind (daily, weekly, monthly, yearly) and an opaque
aggregation value whose format depends on the kind:

	D  2024-03-07
	W  2024 W10
	M  2024-03
	Y  2024

Key Components:

  - AggregationKind: the single-letter bucketing granularity
  - AggregationDetails: the payload of GET /aggregations/{kind}
  - AggregationKpi / AggregationKpiValue: per-KPI value sequences
  - KpiValue: sealed variant over the concrete KPI payloads, selected by KPI id

KPI payload decoding:

The JSON shape of a kpiValue depends on the kpiId of the enclosing AggregationKpi.
AggregationKpi implements json.Unmarshaler and decodes every value into the concrete
type registered for that id. Unknown ids are preserved as RawKpiValue so a newer
backend never breaks an older dashboard.

Consumers match with a type switch:

	switch v := kv.KpiValue.(type) {
	case *models.UptimeKpiValue:
	    minutes = v.NbMinutesOn
	case *models.RawKpiValue:
	    // unsupported KPI, ignore
	}

All JSON field names are camelCase to match the backend.
*/
package models
