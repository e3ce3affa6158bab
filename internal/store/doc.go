// Offspot Metrics - Usage Analytics Dashboard Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/offspot-metrics

/*
Package store holds the dashboard state of one session: the Root Aggregation
Store and the per-KPI projections built on top of it.

# Root Store

Store tracks the selected aggregation kind, the index of the selected value in
valuesAvailable, the last fetched AggregationDetails, a loading flag, an error
message and the current page. Fetches are asynchronous:

	done := s.SetAggregationKind(models.KindWeekly)
	<-done // optional; closed once this fetch's completion has been handled

Overlapping fetches are resolved with request sequence numbers: only the most
recently issued fetch may update the state. Superseded requests are cancelled
as well, but correctness rests on the sequence check.

# Derived Stores

TotalUsage, PackagePopularity, PopularPages, SharedFiles and Uptime are stateless
views bound to one KPI id. They read through the Store on every call and return
zero values when the KPI is absent for the current selection.

# Concurrency

All methods are safe for concurrent use. Listeners registered with OnChange run
outside the store lock, in the goroutine that caused the change; use
State.Version to order snapshots.

Slices returned by lookups alias the fetched document and must not be modified.
*/
package store
