// Offspot Metrics - Usage Analytics Dashboard Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/offspot-metrics

package models

import (
	"bytes"
	"fmt"

	"github.com/goccy/go-json"
)

// KpiID is the numeric identifier the backend assigns to each kind of KPI.
type KpiID int

// KPI identifiers, as assigned by the backend.
const (
	KpiPackagePopularity KpiID = 2001
	KpiPopularPages      KpiID = 2002
	KpiTotalUsage        KpiID = 2003
	KpiUptime            KpiID = 2004
	KpiSharedFiles       KpiID = 2005
)

// String returns a short name used in logs and metric labels.
func (id KpiID) String() string {
	switch id {
	case KpiPackagePopularity:
		return "package_popularity"
	case KpiPopularPages:
		return "popular_pages"
	case KpiTotalUsage:
		return "total_usage"
	case KpiUptime:
		return "uptime"
	case KpiSharedFiles:
		return "shared_files"
	default:
		return fmt.Sprintf("kpi_%d", int(id))
	}
}

// KpiValue is the payload of one KPI for one aggregation value.
//
// The set of implementations is closed: only types in this package satisfy it.
type KpiValue interface {
	KpiID() KpiID
	isKpiValue()
}

// TotalUsageKpiItem is the activity of a single package.
type TotalUsageKpiItem struct {
	Package         string `json:"package"`
	MinutesActivity int    `json:"minutesActivity"`
}

// TotalUsageKpiValue is the total usage KPI payload.
type TotalUsageKpiValue struct {
	Items                []TotalUsageKpiItem `json:"items"`
	TotalMinutesActivity int                 `json:"totalMinutesActivity"`
}

func (*TotalUsageKpiValue) KpiID() KpiID { return KpiTotalUsage }
func (*TotalUsageKpiValue) isKpiValue()  {}

// PackagePopularityKpiItem is the visit count of a single package.
type PackagePopularityKpiItem struct {
	Package string `json:"package"`
	Visits  int    `json:"visits"`
}

// PackagePopularityKpiValue is the package popularity KPI payload.
type PackagePopularityKpiValue struct {
	Items       []PackagePopularityKpiItem `json:"items"`
	TotalVisits int                        `json:"totalVisits"`
}

func (*PackagePopularityKpiValue) KpiID() KpiID { return KpiPackagePopularity }
func (*PackagePopularityKpiValue) isKpiValue()  {}

// PopularPagesKpiItem is the visit count of one page (item) inside a package.
type PopularPagesKpiItem struct {
	Package string `json:"package"`
	Item    string `json:"item"`
	Visits  int    `json:"visits"`
}

// PopularPagesKpiValue is the popular pages KPI payload.
type PopularPagesKpiValue struct {
	Items       []PopularPagesKpiItem `json:"items"`
	TotalVisits int                   `json:"totalVisits"`
}

func (*PopularPagesKpiValue) KpiID() KpiID { return KpiPopularPages }
func (*PopularPagesKpiValue) isKpiValue()  {}

// SharedFilesKpiValue is the shared files KPI payload.
type SharedFilesKpiValue struct {
	FilesCreated int `json:"filesCreated"`
	FilesDeleted int `json:"filesDeleted"`
}

func (*SharedFilesKpiValue) KpiID() KpiID { return KpiSharedFiles }
func (*SharedFilesKpiValue) isKpiValue()  {}

// UptimeKpiValue is the uptime KPI payload.
type UptimeKpiValue struct {
	NbMinutesOn int `json:"nbMinutesOn"`
}

func (*UptimeKpiValue) KpiID() KpiID { return KpiUptime }
func (*UptimeKpiValue) isKpiValue()  {}

// RawKpiValue holds the undecoded payload of a KPI this service does not know.
type RawKpiValue struct {
	ID   KpiID
	Data json.RawMessage
}

func (r *RawKpiValue) KpiID() KpiID { return r.ID }
func (*RawKpiValue) isKpiValue()    {}

// MarshalJSON emits the original payload unchanged.
func (r *RawKpiValue) MarshalJSON() ([]byte, error) {
	if len(r.Data) == 0 {
		return []byte("null"), nil
	}
	return r.Data, nil
}

// DecodeKpiValue decodes a kpiValue payload into the concrete type registered for id.
// A JSON null (or empty input) decodes to a nil KpiValue.
func DecodeKpiValue(id KpiID, data []byte) (KpiValue, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}

	var v KpiValue
	switch id {
	case KpiTotalUsage:
		v = &TotalUsageKpiValue{}
	case KpiPackagePopularity:
		v = &PackagePopularityKpiValue{}
	case KpiPopularPages:
		v = &PopularPagesKpiValue{}
	case KpiSharedFiles:
		v = &SharedFilesKpiValue{}
	case KpiUptime:
		v = &UptimeKpiValue{}
	default:
		raw := make(json.RawMessage, len(trimmed))
		copy(raw, trimmed)
		return &RawKpiValue{ID: id, Data: raw}, nil
	}

	if err := json.Unmarshal(trimmed, v); err != nil {
		return nil, fmt.Errorf("decode %s value: %w", id, err)
	}
	return v, nil
}
