// Offspot Metrics - Usage Analytics Dashboard Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/offspot-metrics

package store

// firstItemsCount is how many entries the compact dashboard cards show.
const firstItemsCount = 6

// firstItems returns at most the first firstItemsCount entries of items.
func firstItems[T any](items []T) []T {
	if len(items) > firstItemsCount {
		return items[:firstItemsCount]
	}
	return items
}

// percentage returns part/total*100, or 0 when total is 0.
func percentage(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}
