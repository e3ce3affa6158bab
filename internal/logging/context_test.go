// Offspot Metrics - Usage Analytics Dashboard Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/offspot-metrics

package logging

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestGenerateIDs(t *testing.T) {
	t.Parallel()

	if id := GenerateCorrelationID(); len(id) != 8 {
		t.Errorf("expected 8-char correlation id, got %q", id)
	}
	a, b := GenerateRequestID(), GenerateRequestID()
	if len(a) != 36 || a == b {
		t.Errorf("expected distinct UUIDs, got %q and %q", a, b)
	}
}

func TestContextIDs(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	if CorrelationIDFromContext(ctx) != "" || RequestIDFromContext(ctx) != "" || SessionIDFromContext(ctx) != "" {
		t.Fatal("expected empty ids on background context")
	}

	ctx = ContextWithCorrelationID(ctx, "corr")
	ctx = ContextWithRequestID(ctx, "req")
	ctx = ContextWithSessionID(ctx, "sess")

	if got := CorrelationIDFromContext(ctx); got != "corr" {
		t.Errorf("correlation id = %q", got)
	}
	if got := RequestIDFromContext(ctx); got != "req" {
		t.Errorf("request id = %q", got)
	}
	if got := SessionIDFromContext(ctx); got != "sess" {
		t.Errorf("session id = %q", got)
	}

	if got := CorrelationIDFromContext(ContextWithNewCorrelationID(context.Background())); got == "" {
		t.Error("expected generated correlation id")
	}
}

func TestCtx(t *testing.T) {
	buf := captureGlobal(t)

	ctx := ContextWithRequestID(context.Background(), "req-1")
	ctx = ContextWithCorrelationID(ctx, "corr-1")
	ctx = ContextWithSessionID(ctx, "sess-1")

	Ctx(ctx).Info().Msg("ctx message")
	CtxWarn(ctx).Msg("ctx warning")
	CtxErr(ctx, errors.New("bad")).Msg("ctx error")

	output := buf.String()
	for _, want := range []string{`"request_id":"req-1"`, `"correlation_id":"corr-1"`, `"session_id":"sess-1"`, `"level":"warn"`, `"error":"bad"`} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %s in output: %s", want, output)
		}
	}
}

func TestWithComponent(t *testing.T) {
	buf := captureGlobal(t)

	logger := WithComponent("api")
	logger.Info().Msg("component message")

	if !strings.Contains(buf.String(), `"component":"api"`) {
		t.Errorf("expected component field, got: %s", buf.String())
	}
}
