// Offspot Metrics - Usage Analytics Dashboard Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/offspot-metrics

package store

import "github.com/tomtom215/offspot-metrics/internal/models"

// SharedFiles projects the shared files KPI as a time series over valuesAll.
type SharedFiles struct {
	store *Store
}

// NewSharedFiles binds a SharedFiles view to s.
func NewSharedFiles(s *Store) *SharedFiles {
	return &SharedFiles{store: s}
}

// AggregationValue passes through the selected value.
func (f *SharedFiles) AggregationValue() string {
	return f.store.AggregationValue()
}

// Labels returns valuesAll, the chart axis.
func (f *SharedFiles) Labels() []string {
	return f.store.GetAllAggValues()
}

// Values returns one entry per label: the payload for that value, or nil.
func (f *SharedFiles) Values() []*models.SharedFilesKpiValue {
	f.store.mu.RLock()
	defer f.store.mu.RUnlock()
	return f.valuesLocked()
}

func (f *SharedFiles) valuesLocked() []*models.SharedFilesKpiValue {
	if f.store.details == nil {
		return nil
	}
	all := f.store.details.ValuesAll
	values := make([]*models.SharedFilesKpiValue, len(all))
	for i, aggValue := range all {
		kv := f.store.kpiValueLocked(models.KpiSharedFiles, aggValue)
		if kv == nil {
			continue
		}
		if v, ok := kv.KpiValue.(*models.SharedFilesKpiValue); ok {
			values[i] = v
		}
	}
	return values
}

// SharedFilesView is the full shared files projection.
type SharedFilesView struct {
	AggregationValue string                        `json:"aggregationValue"`
	Labels           []string                      `json:"labels"`
	Values           []*models.SharedFilesKpiValue `json:"values"`
}

// View computes every projection from a single read of the store.
func (f *SharedFiles) View() SharedFilesView {
	f.store.mu.RLock()
	defer f.store.mu.RUnlock()

	view := SharedFilesView{
		AggregationValue: f.store.aggregationValueLocked(),
		Labels:           []string{},
		Values:           []*models.SharedFilesKpiValue{},
	}
	if f.store.details == nil {
		return view
	}
	if f.store.details.ValuesAll != nil {
		view.Labels = f.store.details.ValuesAll
	}
	view.Values = f.valuesLocked()
	return view
}
