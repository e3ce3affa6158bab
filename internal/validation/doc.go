// Offspot Metrics - Usage Analytics Dashboard Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/offspot-metrics

/*
Package validation validates API request bodies with go-playground/validator v10.

A single validator instance is shared by the whole process. It caches struct
metadata, reports fields by their JSON names, and knows two domain tags:

  - agg_kind: the value is one of the aggregation kinds D, W, M, Y
  - dashboard_page: the value is a known dashboard page

Failures are returned as *RequestValidationError, which converts to the API
error envelope through ToAPIError:

	type setKindRequest struct {
	    Kind string `json:"kind" validate:"required,agg_kind"`
	}

	if verr := validation.ValidateStruct(&req); verr != nil {
	    apiErr := verr.ToAPIError()
	    respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details)
	    return
	}
*/
package validation
