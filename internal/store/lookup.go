// Offspot Metrics - Usage Analytics Dashboard Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/offspot-metrics

package store

import (
	"github.com/tomtom215/offspot-metrics/internal/metrics"
	"github.com/tomtom215/offspot-metrics/internal/models"
)

// Lookup names used in logs and the kpi_lookup_ambiguous_total metric.
const (
	lookupKpi   = "kpi"
	lookupValue = "value"
)

// GetAllAggValues returns valuesAll, or nil when no details are loaded.
func (s *Store) GetAllAggValues() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.details == nil {
		return nil
	}
	return s.details.ValuesAll
}

// GetAllKpiValues returns the value sequence of kpiID when exactly one KPI
// carries that id. Zero or several matches yield nil.
func (s *Store) GetAllKpiValues(kpiID models.KpiID) []models.AggregationKpiValue {
	s.mu.RLock()
	defer s.mu.RUnlock()
	values, _ := s.allKpiValuesLocked(kpiID)
	return values
}

// GetKpiValue returns the entry of kpiID for aggValue when exactly one matches.
func (s *Store) GetKpiValue(kpiID models.KpiID, aggValue string) *models.AggregationKpiValue {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.kpiValueLocked(kpiID, aggValue)
}

// GetCurrentKpiValue is GetKpiValue for the selected aggregation value.
func (s *Store) GetCurrentKpiValue(kpiID models.KpiID) *models.AggregationKpiValue {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentKpiValueLocked(kpiID)
}

func (s *Store) allKpiValuesLocked(kpiID models.KpiID) ([]models.AggregationKpiValue, bool) {
	if s.details == nil {
		return nil, false
	}

	var match *models.AggregationKpi
	matches := 0
	for i := range s.details.Kpis {
		if s.details.Kpis[i].KpiID == kpiID {
			matches++
			match = &s.details.Kpis[i]
		}
	}

	switch matches {
	case 0:
		return nil, false
	case 1:
		return match.Values, true
	default:
		s.ambiguous(lookupKpi, kpiID, "", matches)
		return nil, false
	}
}

func (s *Store) kpiValueLocked(kpiID models.KpiID, aggValue string) *models.AggregationKpiValue {
	values, ok := s.allKpiValuesLocked(kpiID)
	if !ok {
		return nil
	}

	var match *models.AggregationKpiValue
	matches := 0
	for i := range values {
		if values[i].AggValue == aggValue {
			matches++
			match = &values[i]
		}
	}

	switch matches {
	case 0:
		return nil
	case 1:
		v := *match
		return &v
	default:
		s.ambiguous(lookupValue, kpiID, aggValue, matches)
		return nil
	}
}

func (s *Store) currentKpiValueLocked(kpiID models.KpiID) *models.AggregationKpiValue {
	value := s.aggregationValueLocked()
	if value == "" {
		return nil
	}
	return s.kpiValueLocked(kpiID, value)
}

// ambiguous records a lookup that matched several entries and was treated as absent.
func (s *Store) ambiguous(lookup string, kpiID models.KpiID, aggValue string, matches int) {
	metrics.RecordAmbiguousLookup(lookup, kpiID.String())
	s.logger.LogAmbiguousLookup(lookup, int(kpiID), aggValue, matches)
}

// currentKpi returns the typed payload of kpiID for the current selection, or
// the zero T when it is absent or of another type.
func currentKpi[T models.KpiValue](s *Store, kpiID models.KpiID) T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return currentKpiLocked[T](s, kpiID)
}

func currentKpiLocked[T models.KpiValue](s *Store, kpiID models.KpiID) T {
	var zero T
	kv := s.currentKpiValueLocked(kpiID)
	if kv == nil || kv.KpiValue == nil {
		return zero
	}
	v, ok := kv.KpiValue.(T)
	if !ok {
		return zero
	}
	return v
}
