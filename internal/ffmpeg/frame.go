// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package ffmpeg holds the value types threaded through pipeline construction:
// the evolving frame description, the acceleration state and the contract
// every pipeline step implements.
package ffmpeg

import (
	"fmt"

	"github.com/ManuGH/ffplan/internal/ffmpeg/format"
)

// FrameSize is a width/height pair. The zero value means "not set".
type FrameSize struct {
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

// IsZero reports whether the size was never set.
func (s FrameSize) IsZero() bool { return s.Width == 0 && s.Height == 0 }

func (s FrameSize) String() string { return fmt.Sprintf("%dx%d", s.Width, s.Height) }

// FrameDataLocation records where frames live between steps.
type FrameDataLocation string

const (
	FrameDataUnknown  FrameDataLocation = ""
	FrameDataSoftware FrameDataLocation = "software"
	FrameDataHardware FrameDataLocation = "hardware"
)

// FrameState is an immutable snapshot of a frame's attributes. Steps never
// modify a FrameState in place; every transform returns a new value.
type FrameState struct {
	VideoFormat  VideoFormat
	VideoProfile string
	// PixelFormat is nil when the layout is not known yet.
	PixelFormat  format.PixelFormat
	ScaledSize   FrameSize
	PaddedSize   FrameSize
	CroppedSize  FrameSize
	IsAnamorphic bool
	Realtime     bool
	DataLocation FrameDataLocation
}

// BitDepth derives the depth from the pixel format, defaulting to 8.
func (s FrameState) BitDepth() int {
	if s.PixelFormat == nil {
		return 8
	}
	return s.PixelFormat.BitDepth()
}

// PixelFormatName returns the ffmpeg name of the current layout.
func (s FrameState) PixelFormatName() (string, bool) {
	if s.PixelFormat == nil {
		return "", false
	}
	return s.PixelFormat.FFmpegName(), true
}

// WithPixelFormat returns a copy carrying pf.
func (s FrameState) WithPixelFormat(pf format.PixelFormat) FrameState {
	s.PixelFormat = pf
	return s
}

// WithDataLocation returns a copy with frames moved to loc.
func (s FrameState) WithDataLocation(loc FrameDataLocation) FrameState {
	s.DataLocation = loc
	return s
}
