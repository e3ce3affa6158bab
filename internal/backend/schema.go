// Offspot Metrics - Usage Analytics Dashboard Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/offspot-metrics

package backend

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schemas/aggregation_details.schema.json
var aggregationDetailsSchema []byte

// maxReportedSchemaErrors caps how many violations end up in an error message.
const maxReportedSchemaErrors = 5

// SchemaValidator checks aggregation documents against the embedded JSON schema
// before they are decoded.
type SchemaValidator struct {
	schema *gojsonschema.Schema
}

// NewSchemaValidator compiles the embedded aggregation details schema.
func NewSchemaValidator() (*SchemaValidator, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(aggregationDetailsSchema))
	if err != nil {
		return nil, fmt.Errorf("failed to load aggregation schema: %w", err)
	}
	return &SchemaValidator{schema: schema}, nil
}

// Validate returns an error listing the first violations when doc does not conform.
func (v *SchemaValidator) Validate(doc []byte) error {
	result, err := v.schema.Validate(gojsonschema.NewBytesLoader(doc))
	if err != nil {
		return fmt.Errorf("failed to validate: %w", err)
	}

	if result.Valid() {
		return nil
	}

	errs := result.Errors()
	msgs := make([]string, 0, maxReportedSchemaErrors)
	for i, desc := range errs {
		if i == maxReportedSchemaErrors {
			msgs = append(msgs, fmt.Sprintf("and %d more", len(errs)-i))
			break
		}
		msgs = append(msgs, desc.String())
	}
	return fmt.Errorf("validation failed: %s", strings.Join(msgs, "; "))
}
