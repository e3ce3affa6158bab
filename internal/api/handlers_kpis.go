// Offspot Metrics - Usage Analytics Dashboard Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/offspot-metrics

package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/offspot-metrics/internal/labels"
	"github.com/tomtom215/offspot-metrics/internal/models"
	"github.com/tomtom215/offspot-metrics/internal/store"
	"github.com/tomtom215/offspot-metrics/internal/validation"
)

// TotalUsage returns the total usage card of the selected aggregation value.
func (h *Handler) TotalUsage(w http.ResponseWriter, r *http.Request) {
	if sess, ok := currentSession(w, r); ok {
		WriteSuccess(w, r, store.NewTotalUsage(sess.Store).View())
	}
}

// PackagePopularity returns the package popularity card.
func (h *Handler) PackagePopularity(w http.ResponseWriter, r *http.Request) {
	if sess, ok := currentSession(w, r); ok {
		WriteSuccess(w, r, store.NewPackagePopularity(sess.Store).View())
	}
}

// PopularPages returns the popular pages card.
func (h *Handler) PopularPages(w http.ResponseWriter, r *http.Request) {
	if sess, ok := currentSession(w, r); ok {
		WriteSuccess(w, r, store.NewPopularPages(sess.Store).View())
	}
}

// SharedFiles returns the shared files chart, one entry per value of valuesAll.
func (h *Handler) SharedFiles(w http.ResponseWriter, r *http.Request) {
	if sess, ok := currentSession(w, r); ok {
		WriteSuccess(w, r, store.NewSharedFiles(sess.Store).View())
	}
}

// Uptime returns the uptime gauge.
func (h *Handler) Uptime(w http.ResponseWriter, r *http.Request) {
	if sess, ok := currentSession(w, r); ok {
		WriteSuccess(w, r, store.NewUptime(sess.Store).View())
	}
}

// KpiValues returns the raw value sequence of one KPI, or with ?agg_value= the
// single entry for that aggregation value.
func (h *Handler) KpiValues(w http.ResponseWriter, r *http.Request) {
	sess, ok := currentSession(w, r)
	if !ok {
		return
	}
	rw := NewResponseWriter(w, r)

	id, err := strconv.Atoi(chi.URLParam(r, "kpiId"))
	if err != nil {
		rw.BadRequest("kpiId must be an integer")
		return
	}
	kpiID := models.KpiID(id)

	if aggValue := r.URL.Query().Get("agg_value"); aggValue != "" {
		v := sess.Store.GetKpiValue(kpiID, aggValue)
		if v == nil {
			rw.NotFound("No value for this KPI and aggregation value")
			return
		}
		rw.Success(v)
		return
	}

	values := sess.Store.GetAllKpiValues(kpiID)
	if values == nil {
		values = []models.AggregationKpiValue{}
	}
	rw.Success(values)
}

// Colors returns the session's package colors. With ?package= it assigns a
// color to that package first, when it has none, and returns only that one.
func (h *Handler) Colors(w http.ResponseWriter, r *http.Request) {
	sess, ok := currentSession(w, r)
	if !ok {
		return
	}

	if name := r.URL.Query().Get("package"); name != "" {
		WriteSuccess(w, r, ColorResponse{
			Package: name,
			Color:   sess.Store.GetPackageColor(name),
		})
		return
	}
	WriteSuccess(w, r, sess.Store.Colors().Snapshot())
}

// DateLabel splits an aggregation value into its display fragments.
func (h *Handler) DateLabel(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := DateLabelRequest{
		Kind:  q.Get("kind"),
		Value: q.Get("value"),
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		apiErr := verr.ToAPIError()
		NewResponseWriter(w, r).ValidationError(apiErr.Message, apiErr.Details)
		return
	}

	kind := models.AggregationKind(req.Kind)
	parts := labels.DateParts(kind, req.Value)
	WriteSuccess(w, r, DateLabelResponse{
		Kind:       kind,
		Value:      req.Value,
		Part1:      parts.Part1,
		Part2:      parts.Part2,
		Part3:      parts.Part3,
		ShortPart3: labels.ShortPart3(kind, req.Value),
	})
}
