// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package log

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
)

func TestContextWithBuildID(t *testing.T) {
	tests := []struct {
		name    string
		ctx     context.Context
		buildID string
		want    string
	}{
		{name: "nil context", ctx: nil, buildID: "build-123", want: "build-123"},
		{name: "background context", ctx: context.Background(), buildID: "build-456", want: "build-456"},
		{name: "empty build ID", ctx: context.Background(), buildID: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := ContextWithBuildID(tt.ctx, tt.buildID)
			if got := BuildIDFromContext(ctx); got != tt.want {
				t.Errorf("BuildIDFromContext() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFromContextNil(t *testing.T) {
	//nolint:staticcheck // nil context is part of the contract
	if got := RequestIDFromContext(nil); got != "" {
		t.Errorf("RequestIDFromContext(nil) = %q, want empty", got)
	}
	//nolint:staticcheck // nil context is part of the contract
	if got := BuildIDFromContext(nil); got != "" {
		t.Errorf("BuildIDFromContext(nil) = %q, want empty", got)
	}
}

func TestWithContextAddsCorrelationFields(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	ctx := ContextWithRequestID(context.Background(), "req-1")
	ctx = ContextWithBuildID(ctx, "build-1")

	l := WithContext(ctx, logger)
	l.Info().Msg("hello")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("unmarshal log line: %v", err)
	}
	if entry[FieldRequestID] != "req-1" {
		t.Errorf("request_id = %v, want req-1", entry[FieldRequestID])
	}
	if entry[FieldBuildID] != "build-1" {
		t.Errorf("build_id = %v, want build-1", entry[FieldBuildID])
	}
}

func TestWithContextWithoutFieldsReturnsSameLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	l := WithContext(context.Background(), logger)
	l.Info().Msg("plain")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("unmarshal log line: %v", err)
	}
	if _, ok := entry[FieldBuildID]; ok {
		t.Error("unexpected build_id field")
	}
}
