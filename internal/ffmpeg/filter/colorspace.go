// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package filter contains the filtergraph steps: colorspace normalisation
// and the software and rkmpp scalers.
package filter

import (
	"fmt"
	"strings"

	"github.com/ManuGH/ffplan/internal/ffmpeg"
	"github.com/ManuGH/ffplan/internal/ffmpeg/format"
)

// Filter is a pipeline step of kind StepFilter.
type Filter interface {
	ffmpeg.PipelineStep
}

// Colorspace converts a non-bt709 stream to bt709 in the desired layout.
// HDR sources are tonemapped on the way.
type Colorspace struct {
	ffmpeg.NoOptions
	current ffmpeg.FrameState
	stream  ffmpeg.VideoStream
	desired format.PixelFormat
}

// NewColorspace builds the colorspace step for the given frame.
func NewColorspace(current ffmpeg.FrameState, stream ffmpeg.VideoStream, desired format.PixelFormat) Colorspace {
	return Colorspace{current: current, stream: stream, desired: desired}
}

func (f Colorspace) Kind() ffmpeg.StepKind { return ffmpeg.StepFilter }
func (f Colorspace) Name() string          { return "colorspace" }

func (f Colorspace) Filter() string {
	parts := downloadPrefix(f.current)
	cp := f.stream.ColorParams

	switch {
	case cp.IsHdr():
		parts = append(parts,
			"zscale=t=linear:npl=100",
			"format=gbrpf32le",
			"zscale=p=bt709",
			"tonemap=tonemap=hable:desat=0",
			"zscale=t=bt709:m=bt709:r=tv",
		)
	case cp.IsUnknown():
		parts = append(parts, "setparams=range=tv:colorspace=bt709:color_trc=bt709:color_primaries=bt709")
	default:
		parts = append(parts,
			fmt.Sprintf("setparams=range=%s:colorspace=%s:color_trc=%s:color_primaries=%s",
				tagOr(cp.ColorRange, "tv"),
				tagOr(cp.ColorSpace, "bt709"),
				tagOr(cp.ColorTransfer, "bt709"),
				tagOr(cp.ColorPrimaries, "bt709")),
			"colorspace=all=bt709:format="+colorspaceOutput(f.desired),
		)
	}

	if f.desired != nil {
		parts = append(parts, "format="+f.desired.FFmpegName())
	}
	return strings.Join(parts, ",")
}

// NextState leaves the frame in system memory in the desired layout.
func (f Colorspace) NextState(current ffmpeg.FrameState) ffmpeg.FrameState {
	next := current.WithDataLocation(ffmpeg.FrameDataSoftware)
	if f.desired != nil {
		next = next.WithPixelFormat(f.desired)
	}
	return next
}

func colorspaceOutput(desired format.PixelFormat) string {
	if desired != nil && desired.BitDepth() > 8 {
		return "yuv420p10"
	}
	return "yuv420p"
}

func tagOr(tag, def string) string {
	switch strings.ToLower(strings.TrimSpace(tag)) {
	case "", "unknown", "unspecified", "reserved":
		return def
	}
	return strings.ToLower(strings.TrimSpace(tag))
}

// downloadPrefix moves hardware-resident frames into system memory before a
// software filter touches them.
func downloadPrefix(current ffmpeg.FrameState) []string {
	if current.DataLocation != ffmpeg.FrameDataHardware {
		return nil
	}
	parts := []string{"hwdownload"}
	if name, ok := current.PixelFormatName(); ok && name != format.FFmpegUnknown {
		parts = append(parts, "format="+name)
	}
	return parts
}
