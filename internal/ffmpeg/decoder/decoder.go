// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package decoder contains the decode steps: the implicit rkmpp hardware
// decoder and the software fallback catalog keyed by codec.
package decoder

import (
	"github.com/ManuGH/ffplan/internal/ffmpeg"
	"github.com/ManuGH/ffplan/internal/ffmpeg/format"
)

// Decoder is a pipeline step of kind StepDecoder.
type Decoder interface {
	ffmpeg.PipelineStep
}

// Rkmpp is selected implicitly by `-hwaccel rkmpp`; it needs no input
// options. Decoded frames come back in system memory on the packed
// hardware layout matching the source depth.
type Rkmpp struct{ ffmpeg.NoOptions }

func (Rkmpp) Kind() ffmpeg.StepKind { return ffmpeg.StepDecoder }
func (Rkmpp) Name() string          { return "implicit_rkmpp" }

func (Rkmpp) NextState(current ffmpeg.FrameState) ffmpeg.FrameState {
	return current.
		WithPixelFormat(HardwareSurface(current.PixelFormat)).
		WithDataLocation(ffmpeg.FrameDataSoftware)
}

// HardwareSurface maps a source layout onto the hardware-native one:
// 8-bit sources become NV12, anything deeper becomes P010.
func HardwareSurface(source format.PixelFormat) format.PixelFormat {
	name := format.FFmpegUnknown
	depth := 8
	if source != nil {
		name = source.Name()
		depth = source.BitDepth()
	}
	if depth > 8 {
		return format.NewP010(name)
	}
	return format.NewNV12(name)
}

// Software is a named ffmpeg software decoder.
type Software struct {
	ffmpeg.NoOptions
	name string
}

func (d Software) Kind() ffmpeg.StepKind { return ffmpeg.StepDecoder }
func (d Software) Name() string          { return d.name }

func (d Software) InputOptions() []string { return []string{"-c:v", d.name} }

func (d Software) NextState(current ffmpeg.FrameState) ffmpeg.FrameState {
	return current.WithDataLocation(ffmpeg.FrameDataSoftware)
}

var softwareDecoders = map[ffmpeg.VideoFormat]string{
	ffmpeg.VideoFormatH264:       "h264",
	ffmpeg.VideoFormatHevc:       "hevc",
	ffmpeg.VideoFormatMpeg2Video: "mpeg2video",
	ffmpeg.VideoFormatMpeg4:      "mpeg4",
	ffmpeg.VideoFormatVc1:        "vc1",
	ffmpeg.VideoFormatVp9:        "vp9",
	ffmpeg.VideoFormatAv1:        "libdav1d",
	ffmpeg.VideoFormatMsMpeg4V3:  "msmpeg4",
}

// ForCodec looks up the software decoder for codec. Codecs without an
// explicit decoder are left to ffmpeg's default choice (no step).
func ForCodec(codec string) (Decoder, bool) {
	name, ok := softwareDecoders[ffmpeg.ParseVideoFormat(codec)]
	if !ok {
		return nil, false
	}
	return Software{name: name}, true
}
