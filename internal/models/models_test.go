// Offspot Metrics - Usage Analytics Dashboard Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/offspot-metrics

package models

import (
	"errors"
	"strings"
	"testing"

	"github.com/goccy/go-json"
)

const testDetailsJSON = `{
  "aggKind": "D",
  "valuesAvailable": ["2024-03-06", "2024-03-07"],
  "valuesAll": ["2024-03-05", "2024-03-06", "2024-03-07"],
  "kpis": [
    {"kpiId": 2003, "values": [
      {"aggValue": "2024-03-07", "kpiValue": {"items": [{"package": "wikipedia", "minutesActivity": 120}], "totalMinutesActivity": 150}}
    ]},
    {"kpiId": 2001, "values": [
      {"aggValue": "2024-03-07", "kpiValue": {"items": [{"package": "wikipedia", "visits": 12}], "totalVisits": 20}}
    ]},
    {"kpiId": 2002, "values": [
      {"aggValue": "2024-03-07", "kpiValue": {"items": [{"package": "wikipedia", "item": "Paris", "visits": 4}], "totalVisits": 4}}
    ]},
    {"kpiId": 2004, "values": [
      {"aggValue": "2024-03-07", "kpiValue": {"nbMinutesOn": 720}}
    ]},
    {"kpiId": 2005, "values": [
      {"aggValue": "2024-03-06", "kpiValue": {"filesCreated": 3, "filesDeleted": 1}}
    ]},
    {"kpiId": 9999, "values": [
      {"aggValue": "2024-03-07", "kpiValue": {"whatever": [1, 2, 3]}}
    ]}
  ]
}`

func decodeTestDetails(t *testing.T) *AggregationDetails {
	t.Helper()
	var d AggregationDetails
	if err := json.Unmarshal([]byte(testDetailsJSON), &d); err != nil {
		t.Fatalf("Failed to decode details: %v", err)
	}
	return &d
}

func TestAggregationDetails_DecodesTaggedKpiValues(t *testing.T) {
	t.Parallel()

	d := decodeTestDetails(t)

	if d.AggKind != KindDaily {
		t.Errorf("Expected aggKind D, got %q", d.AggKind)
	}
	if len(d.ValuesAvailable) != 2 || len(d.ValuesAll) != 3 {
		t.Fatalf("Unexpected value lists: %v / %v", d.ValuesAvailable, d.ValuesAll)
	}
	if len(d.Kpis) != 6 {
		t.Fatalf("Expected 6 kpis, got %d", len(d.Kpis))
	}

	for _, kpi := range d.Kpis {
		for _, v := range kpi.Values {
			if v.KpiValue == nil {
				t.Fatalf("kpi %d: nil value", kpi.KpiID)
			}
			if v.KpiValue.KpiID() != kpi.KpiID {
				t.Errorf("kpi %d: value reports id %d", kpi.KpiID, v.KpiValue.KpiID())
			}
		}
	}

	switch v := d.Kpis[0].Values[0].KpiValue.(type) {
	case *TotalUsageKpiValue:
		if v.TotalMinutesActivity != 150 || v.Items[0].MinutesActivity != 120 {
			t.Errorf("Unexpected total usage value: %+v", v)
		}
	default:
		t.Errorf("Expected *TotalUsageKpiValue, got %T", v)
	}

	if v, ok := d.Kpis[2].Values[0].KpiValue.(*PopularPagesKpiValue); !ok || v.Items[0].Item != "Paris" {
		t.Errorf("Expected popular pages value with item Paris, got %#v", d.Kpis[2].Values[0].KpiValue)
	}
	if v, ok := d.Kpis[3].Values[0].KpiValue.(*UptimeKpiValue); !ok || v.NbMinutesOn != 720 {
		t.Errorf("Expected uptime 720, got %#v", d.Kpis[3].Values[0].KpiValue)
	}
	if v, ok := d.Kpis[4].Values[0].KpiValue.(*SharedFilesKpiValue); !ok || v.FilesCreated != 3 || v.FilesDeleted != 1 {
		t.Errorf("Unexpected shared files value: %#v", d.Kpis[4].Values[0].KpiValue)
	}
}

func TestAggregationDetails_UnknownKpiPreserved(t *testing.T) {
	t.Parallel()

	d := decodeTestDetails(t)

	raw, ok := d.Kpis[5].Values[0].KpiValue.(*RawKpiValue)
	if !ok {
		t.Fatalf("Expected *RawKpiValue, got %T", d.Kpis[5].Values[0].KpiValue)
	}
	if raw.ID != 9999 {
		t.Errorf("Expected raw id 9999, got %d", raw.ID)
	}

	out, err := json.Marshal(d.Kpis[5])
	if err != nil {
		t.Fatalf("Failed to marshal raw kpi: %v", err)
	}
	if !strings.Contains(string(out), `"whatever":[1,2,3]`) {
		t.Errorf("Raw payload not preserved: %s", out)
	}
}

func TestAggregationKpi_NullValue(t *testing.T) {
	t.Parallel()

	var kpi AggregationKpi
	err := json.Unmarshal([]byte(`{"kpiId": 2004, "values": [{"aggValue": "2024", "kpiValue": null}]}`), &kpi)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if kpi.Values[0].KpiValue != nil {
		t.Errorf("Expected nil value, got %#v", kpi.Values[0].KpiValue)
	}
}

func TestAggregationKpi_InvalidValueShape(t *testing.T) {
	t.Parallel()

	var kpi AggregationKpi
	err := json.Unmarshal([]byte(`{"kpiId": 2004, "values": [{"aggValue": "2024", "kpiValue": {"nbMinutesOn": "lots"}}]}`), &kpi)
	if err == nil {
		t.Fatal("Expected error for mistyped uptime value")
	}
	if !strings.Contains(err.Error(), "uptime") {
		t.Errorf("Expected error to name the kpi, got %v", err)
	}
}

func TestParseAggregationKind(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    AggregationKind
		wantErr bool
	}{
		{"D", KindDaily, false},
		{"W", KindWeekly, false},
		{"M", KindMonthly, false},
		{" Y ", KindYearly, false},
		{"d", "", true},
		{"", "", true},
		{"Q", "", true},
	}

	for _, tt := range tests {
		got, err := ParseAggregationKind(tt.input)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidAggregationKind) {
				t.Errorf("ParseAggregationKind(%q) error = %v, want ErrInvalidAggregationKind", tt.input, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ParseAggregationKind(%q) = %q, %v; want %q", tt.input, got, err, tt.want)
		}
	}
}

func TestKpiID_String(t *testing.T) {
	t.Parallel()

	if KpiUptime.String() != "uptime" {
		t.Errorf("Expected uptime, got %s", KpiUptime.String())
	}
	if KpiID(42).String() != "kpi_42" {
		t.Errorf("Expected kpi_42, got %s", KpiID(42).String())
	}
}

func TestAggregationDetails_Helpers(t *testing.T) {
	t.Parallel()

	var nilDetails *AggregationDetails
	if nilDetails.HasValues() {
		t.Error("nil details should have no values")
	}
	if nilDetails.KpiIDs() != nil {
		t.Error("nil details should have no kpi ids")
	}

	d := decodeTestDetails(t)
	if !d.HasValues() {
		t.Error("Expected HasValues")
	}
	ids := d.KpiIDs()
	if len(ids) != 6 || ids[0] != KpiTotalUsage {
		t.Errorf("Unexpected kpi ids: %v", ids)
	}
}
