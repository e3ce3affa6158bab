// Offspot Metrics - Usage Analytics Dashboard Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/offspot-metrics

package store

import (
	"strconv"

	"github.com/tomtom215/offspot-metrics/internal/labels"
	"github.com/tomtom215/offspot-metrics/internal/models"
)

// PackagePopularity projects the package popularity KPI (visits per package).
type PackagePopularity struct {
	store *Store
}

// NewPackagePopularity binds a PackagePopularity view to s.
func NewPackagePopularity(s *Store) *PackagePopularity {
	return &PackagePopularity{store: s}
}

// KpiValue returns the payload for the current selection, or nil.
func (p *PackagePopularity) KpiValue() *models.PackagePopularityKpiValue {
	return currentKpi[*models.PackagePopularityKpiValue](p.store, models.KpiPackagePopularity)
}

// Items returns every package entry.
func (p *PackagePopularity) Items() []models.PackagePopularityKpiItem {
	if v := p.KpiValue(); v != nil {
		return v.Items
	}
	return nil
}

// FirstItems returns the first 6 package entries.
func (p *PackagePopularity) FirstItems() []models.PackagePopularityKpiItem {
	return firstItems(p.Items())
}

// TotalVisits returns the visit total, 0 when absent.
func (p *PackagePopularity) TotalVisits() int {
	if v := p.KpiValue(); v != nil {
		return v.TotalVisits
	}
	return 0
}

// ItemPercentage returns the share of item in the total visits.
func (p *PackagePopularity) ItemPercentage(item models.PackagePopularityKpiItem) float64 {
	return percentage(item.Visits, p.TotalVisits())
}

// ItemPercentageLabel returns ItemPercentage formatted with the percent rule.
func (p *PackagePopularity) ItemPercentageLabel(item models.PackagePopularityKpiItem) string {
	return labels.FormatPercent(p.ItemPercentage(item))
}

// ItemLabel returns the raw visit count.
func (p *PackagePopularity) ItemLabel(item models.PackagePopularityKpiItem) string {
	return strconv.Itoa(item.Visits)
}

// ItemColor returns the session color of the item's package.
func (p *PackagePopularity) ItemColor(item models.PackagePopularityKpiItem) string {
	return p.store.GetPackageColor(item.Package)
}

// PackagePopularityItemView is one package row, ready to render.
type PackagePopularityItemView struct {
	Package         string  `json:"package"`
	Visits          int     `json:"visits"`
	Percentage      float64 `json:"percentage"`
	PercentageLabel string  `json:"percentageLabel"`
	Label           string  `json:"label"`
	Color           string  `json:"color"`
}

// PackagePopularityView is the full package popularity projection.
type PackagePopularityView struct {
	AggregationValue string                      `json:"aggregationValue"`
	Available        bool                        `json:"available"`
	TotalVisits      int                         `json:"totalVisits"`
	Items            []PackagePopularityItemView `json:"items"`
	FirstItems       []PackagePopularityItemView `json:"firstItems"`
}

// View computes every projection from a single read of the store.
func (p *PackagePopularity) View() PackagePopularityView {
	p.store.mu.RLock()
	aggValue := p.store.aggregationValueLocked()
	v := currentKpiLocked[*models.PackagePopularityKpiValue](p.store, models.KpiPackagePopularity)
	p.store.mu.RUnlock()

	view := PackagePopularityView{
		AggregationValue: aggValue,
		Items:            []PackagePopularityItemView{},
		FirstItems:       []PackagePopularityItemView{},
	}
	if v == nil {
		return view
	}

	view.Available = true
	view.TotalVisits = v.TotalVisits
	for _, item := range v.Items {
		pct := percentage(item.Visits, v.TotalVisits)
		view.Items = append(view.Items, PackagePopularityItemView{
			Package:         item.Package,
			Visits:          item.Visits,
			Percentage:      pct,
			PercentageLabel: labels.FormatPercent(pct),
			Label:           strconv.Itoa(item.Visits),
			Color:           p.store.GetPackageColor(item.Package),
		})
	}
	view.FirstItems = firstItems(view.Items)
	return view
}
