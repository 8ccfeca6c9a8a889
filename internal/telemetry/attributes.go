// SPDX-License-Identifier: MIT

package telemetry

import (
	"go.opentelemetry.io/otel/attribute"
)

// Attribute keys shared by the planner spans.
const (
	BuildIDKey      = "pipeline.build_id"
	BackendKey      = "pipeline.backend"
	InputCodecKey   = "pipeline.input_codec"
	OutputFormatKey = "pipeline.output_format"
	TargetCodecKey  = "pipeline.target_codec"
	DecodeModeKey   = "pipeline.decode_mode"
	EncodeModeKey   = "pipeline.encode_mode"
	StepCountKey    = "pipeline.steps"

	ErrorKey     = "error"
	ErrorTypeKey = "error.type"
)

// BuildAttributes describes the request side of a pipeline build.
func BuildAttributes(buildID, backend, inputCodec, targetCodec, outputFormat string) []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.String(BackendKey, backend),
		attribute.String(InputCodecKey, inputCodec),
		attribute.String(TargetCodecKey, targetCodec),
	}
	if buildID != "" {
		attrs = append(attrs, attribute.String(BuildIDKey, buildID))
	}
	if outputFormat != "" {
		attrs = append(attrs, attribute.String(OutputFormatKey, outputFormat))
	}
	return attrs
}

// DecisionAttributes describes the acceleration decision and result size.
func DecisionAttributes(decodeMode, encodeMode string, steps int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(DecodeModeKey, decodeMode),
		attribute.String(EncodeModeKey, encodeMode),
		attribute.Int(StepCountKey, steps),
	}
}

// ErrorAttributes marks a span as failed with a classification.
func ErrorAttributes(errorType string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Bool(ErrorKey, true),
		attribute.String(ErrorTypeKey, errorType),
	}
}
