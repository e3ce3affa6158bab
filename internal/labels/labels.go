// Offspot Metrics - Usage Analytics Dashboard Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/offspot-metrics

// Package labels turns aggregation values and raw KPI numbers into display text.
//
// Every function here is pure and never panics: malformed or partially populated
// inputs yield empty fragments.
package labels

import (
	"math"
	"strconv"
	"strings"

	"github.com/tomtom215/offspot-metrics/internal/models"
)

var monthNames = map[string]string{
	"01": "January",
	"02": "February",
	"03": "March",
	"04": "April",
	"05": "May",
	"06": "June",
	"07": "July",
	"08": "August",
	"09": "September",
	"10": "October",
	"11": "November",
	"12": "December",
}

// MonthName maps a two-digit month code to its English name, or "" if unknown.
func MonthName(code string) string {
	return monthNames[code]
}

// Parts are the three fragments of a date label, rendered with different emphasis.
type Parts struct {
	Part1 string `json:"part1"`
	Part2 string `json:"part2"`
	Part3 string `json:"part3"`
}

// DateParts splits an aggregation value into its label fragments.
//
//	D "2024-03-07" -> "", "07 ", "March 2024"
//	W "2024 W10"   -> "Week ", "10 ", "2024"
//	M "2024-03"    -> "", "March ", "2024"
//	Y "2024"       -> "Year ", "2024", ""
func DateParts(kind models.AggregationKind, value string) Parts {
	switch kind {
	case models.KindDaily:
		year, month, day := splitDate(value)
		p := Parts{}
		if day != "" {
			p.Part2 = day + " "
		}
		if year != "" && month != "" {
			p.Part3 = MonthName(month) + " " + year
		}
		return p
	case models.KindWeekly:
		year, week, ok := splitWeek(value)
		if !ok {
			// value not reformatted yet
			return Parts{}
		}
		return Parts{Part1: "Week ", Part2: week + " ", Part3: year}
	case models.KindMonthly:
		year, month, _ := splitDate(value)
		p := Parts{}
		if month != "" {
			p.Part2 = MonthName(month) + " "
		}
		p.Part3 = year
		return p
	case models.KindYearly:
		return Parts{Part1: "Year ", Part2: value}
	default:
		return Parts{}
	}
}

// ShortPart3 is Part3 with long month names abbreviated ("Mar. 2024").
// Only daily labels carry a month in Part3; other kinds return the plain Part3.
func ShortPart3(kind models.AggregationKind, value string) string {
	part3 := DateParts(kind, value).Part3
	if kind != models.KindDaily || part3 == "" {
		return part3
	}

	month, year, found := strings.Cut(part3, " ")
	if !found {
		return part3
	}
	if len(month) > 3 {
		month = month[:3] + "."
	}
	return month + " " + year
}

// splitDate parses "YYYY-MM-DD" or "YYYY-MM"; missing components come back empty.
func splitDate(value string) (year, month, day string) {
	if value == "" {
		return "", "", ""
	}
	parts := strings.Split(value, "-")
	year = parts[0]
	if len(parts) > 1 {
		month = parts[1]
	}
	if len(parts) > 2 {
		day = parts[2]
	}
	return year, month, day
}

// splitWeek parses "YYYY Www". ok is false while the space is not present.
func splitWeek(value string) (year, week string, ok bool) {
	year, rest, found := strings.Cut(value, " ")
	if !found {
		return "", "", false
	}
	return year, strings.TrimPrefix(rest, "W"), true
}

// roundedDecimals applies the display rounding rule: 1 decimal below 10, none above.
func roundedDecimals(v float64) string {
	if v < 10 {
		return toFixed(v, 1)
	}
	return toFixed(v, 0)
}

// toFixed formats v with n decimals, rounding exact ties away from zero
// (0.25 -> "0.3", 10.5 -> "11"). Values that only look like ties in decimal
// (0.15 is stored as 0.1499...) round to the nearest digit.
func toFixed(v float64, n int) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'f', n, 64)
	}

	scale := math.Pow10(n)
	abs := math.Abs(v)
	scaled := abs * scale
	// FMA yields the exact residual of the product, so a tie is only taken
	// when abs*scale is exactly k+0.5.
	exact := math.FMA(abs, scale, -scaled) == 0
	if !exact || scaled-math.Floor(scaled) != 0.5 {
		return strconv.FormatFloat(v, 'f', n, 64)
	}

	out := strconv.FormatFloat((math.Floor(scaled)+1)/scale, 'f', n, 64)
	if v < 0 {
		return "-" + out
	}
	return out
}

// FormatHoursValue converts minutes into hours without unit, e.g. 540 -> "9.0".
func FormatHoursValue(minutes float64) string {
	return roundedDecimals(minutes / 60)
}

// FormatHours converts minutes into an hours label, e.g. 600 -> "10h".
func FormatHours(minutes float64) string {
	return FormatHoursValue(minutes) + "h"
}

// FormatPercent renders a percentage, e.g. 9.96 -> "10.0%" and 10 -> "10%".
func FormatPercent(pct float64) string {
	return roundedDecimals(pct) + "%"
}
