// Offspot Metrics - Usage Analytics Dashboard Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/offspot-metrics

package store

import (
	"github.com/tomtom215/offspot-metrics/internal/labels"
	"github.com/tomtom215/offspot-metrics/internal/models"
)

// uptimeDivisors turn minutes on into a percentage of the period: the period
// length in minutes divided by 100. Month and year use 365-day averages.
var uptimeDivisors = map[models.AggregationKind]float64{
	models.KindDaily:   14.4,
	models.KindWeekly:  100.8,
	models.KindMonthly: 438,
	models.KindYearly:  5256,
}

// Uptime projects the uptime KPI and the date label of the selection.
type Uptime struct {
	store *Store
}

// NewUptime binds an Uptime view to s.
func NewUptime(s *Store) *Uptime {
	return &Uptime{store: s}
}

// AggregationKind passes through the selected kind.
func (u *Uptime) AggregationKind() models.AggregationKind {
	return u.store.AggregationKind()
}

// AggregationValue passes through the selected value.
func (u *Uptime) AggregationValue() string {
	return u.store.AggregationValue()
}

// KpiValue returns the payload for the current selection, or nil.
func (u *Uptime) KpiValue() *models.UptimeKpiValue {
	return currentKpi[*models.UptimeKpiValue](u.store, models.KpiUptime)
}

// Series returns [percentage of the period the box was on]. It is empty for
// an unknown kind or when the KPI is absent.
func (u *Uptime) Series() []float64 {
	u.store.mu.RLock()
	kind := u.store.kind
	v := currentKpiLocked[*models.UptimeKpiValue](u.store, models.KpiUptime)
	u.store.mu.RUnlock()
	return uptimeSeries(kind, v)
}

func uptimeSeries(kind models.AggregationKind, v *models.UptimeKpiValue) []float64 {
	divisor, ok := uptimeDivisors[kind]
	if !ok || v == nil {
		return []float64{}
	}
	return []float64{float64(v.NbMinutesOn) / divisor}
}

// Legend returns the time on in hours, e.g. "12h".
func (u *Uptime) Legend() string {
	if v := u.KpiValue(); v != nil {
		return labels.FormatHours(float64(v.NbMinutesOn))
	}
	return ""
}

func (u *Uptime) dateParts() labels.Parts {
	u.store.mu.RLock()
	defer u.store.mu.RUnlock()
	return labels.DateParts(u.store.kind, u.store.aggregationValueLocked())
}

// DatePart1 is the first fragment of the selection's date label.
func (u *Uptime) DatePart1() string { return u.dateParts().Part1 }

// DatePart2 is the second fragment of the selection's date label.
func (u *Uptime) DatePart2() string { return u.dateParts().Part2 }

// DatePart3 is the third fragment of the selection's date label.
func (u *Uptime) DatePart3() string { return u.dateParts().Part3 }

// ShortDatePart3 is DatePart3 with daily month names abbreviated.
func (u *Uptime) ShortDatePart3() string {
	u.store.mu.RLock()
	defer u.store.mu.RUnlock()
	return labels.ShortPart3(u.store.kind, u.store.aggregationValueLocked())
}

// UptimeView is the full uptime projection.
type UptimeView struct {
	AggregationKind  models.AggregationKind `json:"aggregationKind"`
	AggregationValue string                 `json:"aggregationValue"`
	Available        bool                   `json:"available"`
	NbMinutesOn      int                    `json:"nbMinutesOn"`
	Series           []float64              `json:"series"`
	Legend           string                 `json:"legend"`
	DatePart1        string                 `json:"datePart1"`
	DatePart2        string                 `json:"datePart2"`
	DatePart3        string                 `json:"datePart3"`
	ShortDatePart3   string                 `json:"shortDatePart3"`
}

// View computes every projection from a single read of the store.
func (u *Uptime) View() UptimeView {
	u.store.mu.RLock()
	kind := u.store.kind
	value := u.store.aggregationValueLocked()
	v := currentKpiLocked[*models.UptimeKpiValue](u.store, models.KpiUptime)
	u.store.mu.RUnlock()

	parts := labels.DateParts(kind, value)
	view := UptimeView{
		AggregationKind:  kind,
		AggregationValue: value,
		Series:           uptimeSeries(kind, v),
		DatePart1:        parts.Part1,
		DatePart2:        parts.Part2,
		DatePart3:        parts.Part3,
		ShortDatePart3:   labels.ShortPart3(kind, value),
	}
	if v != nil {
		view.Available = true
		view.NbMinutesOn = v.NbMinutesOn
		view.Legend = labels.FormatHours(float64(v.NbMinutesOn))
	}
	return view
}
