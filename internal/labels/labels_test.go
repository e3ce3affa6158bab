// Offspot Metrics - Usage Analytics Dashboard Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/offspot-metrics

package labels

import (
	"testing"

	"github.com/tomtom215/offspot-metrics/internal/models"
)

func TestDateParts(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		kind  models.AggregationKind
		value string
		want  Parts
	}{
		{"daily", models.KindDaily, "2024-03-07", Parts{"", "07 ", "March 2024"}},
		{"daily december", models.KindDaily, "2023-12-31", Parts{"", "31 ", "December 2023"}},
		{"daily truncated", models.KindDaily, "2024", Parts{}},
		{"weekly", models.KindWeekly, "2024 W12", Parts{"Week ", "12 ", "2024"}},
		{"weekly before reformat", models.KindWeekly, "2024", Parts{}},
		{"weekly empty", models.KindWeekly, "", Parts{}},
		{"monthly", models.KindMonthly, "2024-03", Parts{"", "March ", "2024"}},
		{"monthly bad month", models.KindMonthly, "2024-13", Parts{"", " ", "2024"}},
		{"yearly", models.KindYearly, "2024", Parts{"Year ", "2024", ""}},
		{"unknown kind", models.AggregationKind("Q"), "2024-03-07", Parts{}},
		{"empty kind", "", "2024", Parts{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := DateParts(tt.kind, tt.value)
			if got != tt.want {
				t.Errorf("DateParts(%q, %q) = %+v, want %+v", tt.kind, tt.value, got, tt.want)
			}
		})
	}
}

func TestShortPart3(t *testing.T) {
	t.Parallel()

	tests := []struct {
		kind  models.AggregationKind
		value string
		want  string
	}{
		{models.KindDaily, "2024-03-07", "Mar. 2024"},
		{models.KindDaily, "2024-05-01", "May 2024"},
		{models.KindDaily, "2024-09-30", "Sep. 2024"},
		{models.KindDaily, "2024", ""},
		{models.KindWeekly, "2024 W01", "2024"},
		{models.KindMonthly, "2024-09", "2024"},
		{models.KindYearly, "2024", ""},
		{models.AggregationKind("X"), "2024-03-07", ""},
	}

	for _, tt := range tests {
		if got := ShortPart3(tt.kind, tt.value); got != tt.want {
			t.Errorf("ShortPart3(%q, %q) = %q, want %q", tt.kind, tt.value, got, tt.want)
		}
	}
}

func TestMonthName(t *testing.T) {
	t.Parallel()

	if MonthName("01") != "January" || MonthName("12") != "December" {
		t.Error("Expected January and December")
	}
	for _, bad := range []string{"", "1", "00", "13", "Jan"} {
		if got := MonthName(bad); got != "" {
			t.Errorf("MonthName(%q) = %q, want empty", bad, got)
		}
	}
}

func TestFormatHours(t *testing.T) {
	t.Parallel()

	tests := []struct {
		minutes float64
		want    string
	}{
		{540, "9.0h"},
		{599, "10.0h"},
		{600, "10h"},
		{59, "1.0h"},
		{0, "0.0h"},
		{90, "1.5h"},
		{6000, "100h"},
		{15, "0.3h"},
		{45, "0.8h"},
		{630, "11h"},
		{750, "13h"},
		{9, "0.1h"},
	}

	for _, tt := range tests {
		if got := FormatHours(tt.minutes); got != tt.want {
			t.Errorf("FormatHours(%v) = %q, want %q", tt.minutes, got, tt.want)
		}
	}

	if got := FormatHoursValue(150); got != "2.5" {
		t.Errorf("FormatHoursValue(150) = %q, want 2.5", got)
	}
}

func TestToFixed_TiesRoundUp(t *testing.T) {
	t.Parallel()

	tests := []struct {
		v    float64
		n    int
		want string
	}{
		{0.25, 1, "0.3"},
		{0.75, 1, "0.8"},
		{10.5, 0, "11"},
		{11.5, 0, "12"},
		{0.5, 0, "1"},
		{-2.5, 0, "-3"},
		{1.05, 1, "1.1"},
		{0.15, 1, "0.1"},
		{0.35, 1, "0.3"},
		{10.4, 0, "10"},
	}

	for _, tt := range tests {
		if got := toFixed(tt.v, tt.n); got != tt.want {
			t.Errorf("toFixed(%v, %d) = %q, want %q", tt.v, tt.n, got, tt.want)
		}
	}
}

func TestFormatPercent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		pct  float64
		want string
	}{
		{9.96, "10.0%"},
		{10, "10%"},
		{10.4, "10%"},
		{3.14159, "3.1%"},
		{100, "100%"},
		{0, "0.0%"},
		{12.5, "13%"},
		{0.25, "0.3%"},
		{2.5, "2.5%"},
		{0.15, "0.1%"},
		{99.5, "100%"},
	}

	for _, tt := range tests {
		if got := FormatPercent(tt.pct); got != tt.want {
			t.Errorf("FormatPercent(%v) = %q, want %q", tt.pct, got, tt.want)
		}
	}
}
