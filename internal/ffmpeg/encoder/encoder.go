// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package encoder contains the encode steps: the rkmpp hardware encoders and
// the software catalog keyed by target video format.
package encoder

import (
	"github.com/ManuGH/ffplan/internal/ffmpeg"
)

// Encoder is a pipeline step of kind StepEncoder.
type Encoder interface {
	ffmpeg.PipelineStep
}

// encoder is the shared shape of every concrete encoder.
type encoder struct {
	ffmpeg.NoOptions
	name    string
	format  ffmpeg.VideoFormat
	profile string
	extra   []string
}

func (e encoder) Kind() ffmpeg.StepKind { return ffmpeg.StepEncoder }
func (e encoder) Name() string          { return e.name }

func (e encoder) OutputOptions() []string {
	opts := []string{"-c:v", e.name}
	if e.profile != "" {
		opts = append(opts, "-profile:v", e.profile)
	}
	return append(opts, e.extra...)
}

func (e encoder) NextState(current ffmpeg.FrameState) ffmpeg.FrameState {
	if e.format == ffmpeg.VideoFormatCopy {
		return current
	}
	current.VideoFormat = e.format
	if e.profile != "" {
		current.VideoProfile = e.profile
	}
	return current
}

// NewH264Rkmpp returns the rkmpp H.264 encoder for the given profile.
func NewH264Rkmpp(profile string) Encoder {
	return encoder{name: "h264_rkmpp", format: ffmpeg.VideoFormatH264, profile: h264Profile(profile, 8)}
}

// NewHevcRkmpp returns the rkmpp HEVC encoder for the given bit depth.
func NewHevcRkmpp(bitDepth int) Encoder {
	return encoder{name: "hevc_rkmpp", format: ffmpeg.VideoFormatHevc, profile: hevcProfile(bitDepth)}
}

// ForVideoFormat picks the software encoder for desired. The passthrough
// container always carries raw video for the downstream segmenter.
func ForVideoFormat(state ffmpeg.FFmpegState, desired ffmpeg.FrameState) (Encoder, bool) {
	if state.OutputFormat.IsPassthrough() {
		return encoder{name: "rawvideo", format: ffmpeg.VideoFormatRaw}, true
	}

	switch desired.VideoFormat {
	case ffmpeg.VideoFormatH264:
		return encoder{
			name:    "libx264",
			format:  ffmpeg.VideoFormatH264,
			profile: h264Profile(desired.VideoProfile, desired.BitDepth()),
		}, true
	case ffmpeg.VideoFormatHevc:
		return encoder{
			name:    "libx265",
			format:  ffmpeg.VideoFormatHevc,
			profile: hevcProfile(desired.BitDepth()),
			extra:   []string{"-tag:v", "hvc1", "-x265-params", "log-level=error"},
		}, true
	case ffmpeg.VideoFormatMpeg2Video:
		return encoder{name: "mpeg2video", format: ffmpeg.VideoFormatMpeg2Video}, true
	case ffmpeg.VideoFormatAv1:
		return encoder{name: "libsvtav1", format: ffmpeg.VideoFormatAv1}, true
	case ffmpeg.VideoFormatRaw:
		return encoder{name: "rawvideo", format: ffmpeg.VideoFormatRaw}, true
	case ffmpeg.VideoFormatCopy:
		return encoder{name: "copy", format: ffmpeg.VideoFormatCopy}, true
	}
	return nil, false
}

func h264Profile(requested string, bitDepth int) string {
	if bitDepth > 8 {
		return ffmpeg.VideoProfileHigh10
	}
	switch requested {
	case ffmpeg.VideoProfileBaseline, ffmpeg.VideoProfileMain, ffmpeg.VideoProfileHigh:
		return requested
	case "":
		return ""
	}
	return ffmpeg.VideoProfileHigh
}

func hevcProfile(bitDepth int) string {
	if bitDepth > 8 {
		return ffmpeg.VideoProfileMain10
	}
	return ffmpeg.VideoProfileMain
}
