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

// PopularPages projects the popular pages KPI (visits per page within a package).
type PopularPages struct {
	store *Store
}

// NewPopularPages binds a PopularPages view to s.
func NewPopularPages(s *Store) *PopularPages {
	return &PopularPages{store: s}
}

// KpiValue returns the payload for the current selection, or nil.
func (p *PopularPages) KpiValue() *models.PopularPagesKpiValue {
	return currentKpi[*models.PopularPagesKpiValue](p.store, models.KpiPopularPages)
}

// Items returns every page entry.
func (p *PopularPages) Items() []models.PopularPagesKpiItem {
	if v := p.KpiValue(); v != nil {
		return v.Items
	}
	return nil
}

// FirstItems returns the first 6 page entries.
func (p *PopularPages) FirstItems() []models.PopularPagesKpiItem {
	return firstItems(p.Items())
}

// TotalVisits returns the visit total, 0 when absent.
func (p *PopularPages) TotalVisits() int {
	if v := p.KpiValue(); v != nil {
		return v.TotalVisits
	}
	return 0
}

// ItemPercentage returns the share of item in the total visits.
func (p *PopularPages) ItemPercentage(item models.PopularPagesKpiItem) float64 {
	return percentage(item.Visits, p.TotalVisits())
}

// ItemPercentageLabel returns ItemPercentage formatted with the percent rule.
func (p *PopularPages) ItemPercentageLabel(item models.PopularPagesKpiItem) string {
	return labels.FormatPercent(p.ItemPercentage(item))
}

// ItemColor returns the session color of the package the page belongs to.
func (p *PopularPages) ItemColor(item models.PopularPagesKpiItem) string {
	return p.store.GetPackageColor(item.Package)
}

// PopularPagesItemView is one page row, ready to render.
type PopularPagesItemView struct {
	Package         string  `json:"package"`
	Item            string  `json:"item"`
	Visits          int     `json:"visits"`
	Percentage      float64 `json:"percentage"`
	PercentageLabel string  `json:"percentageLabel"`
	Label           string  `json:"label"`
	Color           string  `json:"color"`
}

// PopularPagesView is the full popular pages projection.
type PopularPagesView struct {
	AggregationValue string                 `json:"aggregationValue"`
	Available        bool                   `json:"available"`
	TotalVisits      int                    `json:"totalVisits"`
	Items            []PopularPagesItemView `json:"items"`
	FirstItems       []PopularPagesItemView `json:"firstItems"`
}

// View computes every projection from a single read of the store.
func (p *PopularPages) View() PopularPagesView {
	p.store.mu.RLock()
	aggValue := p.store.aggregationValueLocked()
	v := currentKpiLocked[*models.PopularPagesKpiValue](p.store, models.KpiPopularPages)
	p.store.mu.RUnlock()

	view := PopularPagesView{
		AggregationValue: aggValue,
		Items:            []PopularPagesItemView{},
		FirstItems:       []PopularPagesItemView{},
	}
	if v == nil {
		return view
	}

	view.Available = true
	view.TotalVisits = v.TotalVisits
	for _, item := range v.Items {
		pct := percentage(item.Visits, v.TotalVisits)
		view.Items = append(view.Items, PopularPagesItemView{
			Package:         item.Package,
			Item:            item.Item,
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
