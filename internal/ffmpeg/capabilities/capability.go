// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package capabilities answers whether a codec/profile/pixel format
// combination can be decoded or encoded on hardware.
//
// A negative answer is a normal outcome (Software), not an error. Errors are
// reserved for failures of the query itself, e.g. a probe that could not run.
package capabilities

import (
	"strings"

	"github.com/ManuGH/ffplan/internal/ffmpeg"
	"github.com/ManuGH/ffplan/internal/ffmpeg/format"
)

// Capability is the negotiation result for one direction.
type Capability int

const (
	Unsupported Capability = iota
	Software
	Hardware
)

func (c Capability) String() string {
	switch c {
	case Software:
		return "software"
	case Hardware:
		return "hardware"
	}
	return "unsupported"
}

// HardwareCapabilities is the query interface consulted once per stream and
// direction while building a pipeline.
type HardwareCapabilities interface {
	CanDecode(codec, profile string, pixelFormat format.PixelFormat, isHdr bool) (Capability, error)
	CanEncode(videoFormat ffmpeg.VideoFormat, profile string, pixelFormat format.PixelFormat) (Capability, error)
}

// NoHardware reports Software for everything it can name.
type NoHardware struct{}

func (NoHardware) CanDecode(codec, _ string, _ format.PixelFormat, _ bool) (Capability, error) {
	if strings.TrimSpace(codec) == "" {
		return Unsupported, nil
	}
	return Software, nil
}

func (NoHardware) CanEncode(videoFormat ffmpeg.VideoFormat, _ string, _ format.PixelFormat) (Capability, error) {
	if videoFormat == ffmpeg.VideoFormatUndetermined {
		return Unsupported, nil
	}
	return Software, nil
}
