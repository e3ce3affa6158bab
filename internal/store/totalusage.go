// Offspot Metrics - Usage Analytics Dashboard Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/offspot-metrics

package store

import (
	"github.com/tomtom215/offspot-metrics/internal/labels"
	"github.com/tomtom215/offspot-metrics/internal/models"
)

// TotalUsage projects the total usage KPI (minutes of activity per package).
type TotalUsage struct {
	store *Store
}

// NewTotalUsage binds a TotalUsage view to s.
func NewTotalUsage(s *Store) *TotalUsage {
	return &TotalUsage{store: s}
}

// KpiValue returns the payload for the current selection, or nil.
func (t *TotalUsage) KpiValue() *models.TotalUsageKpiValue {
	return currentKpi[*models.TotalUsageKpiValue](t.store, models.KpiTotalUsage)
}

// TotalValue returns the total hours, formatted with the hours rule and no unit.
func (t *TotalUsage) TotalValue() string {
	v := t.KpiValue()
	if v == nil {
		return ""
	}
	return labels.FormatHoursValue(float64(v.TotalMinutesActivity))
}

// Items returns every package entry.
func (t *TotalUsage) Items() []models.TotalUsageKpiItem {
	if v := t.KpiValue(); v != nil {
		return v.Items
	}
	return nil
}

// FirstItems returns the first 6 package entries.
func (t *TotalUsage) FirstItems() []models.TotalUsageKpiItem {
	return firstItems(t.Items())
}

// ItemPercentage returns the share of item in the total activity.
func (t *TotalUsage) ItemPercentage(item models.TotalUsageKpiItem) float64 {
	v := t.KpiValue()
	if v == nil {
		return 0
	}
	return percentage(item.MinutesActivity, v.TotalMinutesActivity)
}

// ItemLabel returns the activity of item in hours, e.g. "2.5h".
func (t *TotalUsage) ItemLabel(item models.TotalUsageKpiItem) string {
	return labels.FormatHours(float64(item.MinutesActivity))
}

// ItemColor returns the session color of the item's package.
func (t *TotalUsage) ItemColor(item models.TotalUsageKpiItem) string {
	return t.store.GetPackageColor(item.Package)
}

// PackageColor returns the session color of a package.
func (t *TotalUsage) PackageColor(name string) string {
	return t.store.GetPackageColor(name)
}

// TotalUsageItemView is one package row, ready to render.
type TotalUsageItemView struct {
	Package         string  `json:"package"`
	MinutesActivity int     `json:"minutesActivity"`
	Percentage      float64 `json:"percentage"`
	Label           string  `json:"label"`
	Color           string  `json:"color"`
}

// TotalUsageView is the full total usage projection.
type TotalUsageView struct {
	AggregationValue     string               `json:"aggregationValue"`
	Available            bool                 `json:"available"`
	TotalValue           string               `json:"totalValue"`
	TotalMinutesActivity int                  `json:"totalMinutesActivity"`
	Items                []TotalUsageItemView `json:"items"`
	FirstItems           []TotalUsageItemView `json:"firstItems"`
}

// View computes every projection from a single read of the store.
func (t *TotalUsage) View() TotalUsageView {
	t.store.mu.RLock()
	aggValue := t.store.aggregationValueLocked()
	v := currentKpiLocked[*models.TotalUsageKpiValue](t.store, models.KpiTotalUsage)
	t.store.mu.RUnlock()

	view := TotalUsageView{
		AggregationValue: aggValue,
		Items:            []TotalUsageItemView{},
		FirstItems:       []TotalUsageItemView{},
	}
	if v == nil {
		return view
	}

	view.Available = true
	view.TotalValue = labels.FormatHoursValue(float64(v.TotalMinutesActivity))
	view.TotalMinutesActivity = v.TotalMinutesActivity
	for _, item := range v.Items {
		view.Items = append(view.Items, TotalUsageItemView{
			Package:         item.Package,
			MinutesActivity: item.MinutesActivity,
			Percentage:      percentage(item.MinutesActivity, v.TotalMinutesActivity),
			Label:           labels.FormatHours(float64(item.MinutesActivity)),
			Color:           t.store.GetPackageColor(item.Package),
		})
	}
	view.FirstItems = firstItems(view.Items)
	return view
}
