// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package option holds the steps that only contribute command-line options:
// global hardware contexts, input flags and output flags.
package option

import (
	"slices"

	"github.com/ManuGH/ffplan/internal/ffmpeg"
	"github.com/ManuGH/ffplan/internal/ffmpeg/format"
)

// RkmppHardwareAcceleration enables the rkmpp hardware context.
type RkmppHardwareAcceleration struct{ ffmpeg.NoOptions }

// rkmppSurfaceFormats are the layouts the rkmpp decoders hand out as-is.
// TODO: read this list from `ffmpeg -h decoder=h264_rkmpp` during the probe.
var rkmppSurfaceFormats = []string{format.FFmpegNV12, format.FFmpegNV15, format.FFmpegP010}

func (RkmppHardwareAcceleration) Kind() ffmpeg.StepKind { return ffmpeg.StepGlobalOption }
func (RkmppHardwareAcceleration) Name() string          { return "hwaccel_rkmpp" }

func (RkmppHardwareAcceleration) GlobalOptions() []string {
	return []string{"-hwaccel", "rkmpp"}
}

// NextState moves unsupported layouts onto the matching hardware surface.
func (RkmppHardwareAcceleration) NextState(current ffmpeg.FrameState) ffmpeg.FrameState {
	pf := current.PixelFormat
	if pf == nil {
		return current.WithPixelFormat(format.NewNV12(format.FFmpegUnknown))
	}
	if slices.Contains(rkmppSurfaceFormats, pf.FFmpegName()) {
		return current
	}
	if pf.BitDepth() > 8 {
		return current.WithPixelFormat(format.NewP010(pf.Name()))
	}
	return current.WithPixelFormat(format.NewNV12(pf.Name()))
}

// RealtimeInput reads the input at its native frame rate.
type RealtimeInput struct{ ffmpeg.NoOptions }

func (RealtimeInput) Kind() ffmpeg.StepKind  { return ffmpeg.StepInputOption }
func (RealtimeInput) Name() string           { return "realtime_input" }
func (RealtimeInput) InputOptions() []string { return []string{"-re"} }

func (RealtimeInput) NextState(current ffmpeg.FrameState) ffmpeg.FrameState {
	current.Realtime = true
	return current
}

// PixelFormatOutput forces the encoder input layout with -pix_fmt.
type PixelFormatOutput struct {
	ffmpeg.NoOptions
	PixelFormat format.PixelFormat
}

// NewPixelFormatOutput returns the output option forcing pf.
func NewPixelFormatOutput(pf format.PixelFormat) PixelFormatOutput {
	return PixelFormatOutput{PixelFormat: pf}
}

func (o PixelFormatOutput) Kind() ffmpeg.StepKind { return ffmpeg.StepOutputOption }
func (o PixelFormatOutput) Name() string          { return "pix_fmt_" + o.PixelFormat.FFmpegName() }

func (o PixelFormatOutput) OutputOptions() []string {
	return []string{"-pix_fmt", o.PixelFormat.FFmpegName()}
}

func (o PixelFormatOutput) NextState(current ffmpeg.FrameState) ffmpeg.FrameState {
	return current.WithPixelFormat(o.PixelFormat)
}
