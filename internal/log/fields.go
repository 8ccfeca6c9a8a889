// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package log

// Canonical field name constants for structured logging.
const (
	// Identity fields
	FieldService   = "service"
	FieldVersion   = "version"
	FieldBuildID   = "build_id"
	FieldRequestID = "request_id"
	FieldJob       = "job"

	// Process / pipeline fields
	FieldEvent     = "event"
	FieldComponent = "component"
	FieldBackend   = "backend"
	FieldStep      = "step"
	FieldSteps     = "steps"

	// Media / stream fields
	FieldCodec        = "codec"
	FieldProfile      = "profile"
	FieldPixelFormat  = "pixel_format"
	FieldTargetFormat = "target_format"
	FieldDecoder      = "decoder"
	FieldEncoder      = "encoder"
	FieldDecodeMode   = "decode_mode"
	FieldEncodeMode   = "encode_mode"
	FieldOutputFormat = "output_format"
	FieldResolution   = "resolution"

	// Path fields
	FieldPath = "path"
)
