// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package filter

import (
	"fmt"
	"strings"

	"github.com/ManuGH/ffplan/internal/ffmpeg"
	"github.com/ManuGH/ffplan/internal/ffmpeg/format"
)

// Sizes is the scale/pad/crop target of a scaler.
type Sizes struct {
	Scaled  ffmpeg.FrameSize
	Padded  ffmpeg.FrameSize
	Cropped ffmpeg.FrameSize
	// AnamorphicEdgeCase forces sample aspect normalisation even when the
	// sizes already match.
	AnamorphicEdgeCase bool
}

// unchanged reports that the frame already has the target geometry.
func (s Sizes) unchanged(current ffmpeg.FrameState) bool {
	if s.AnamorphicEdgeCase {
		return false
	}
	return current.ScaledSize == s.Scaled &&
		current.PaddedSize == s.Padded &&
		!s.needsCrop()
}

func (s Sizes) needsCrop() bool {
	return !s.Cropped.IsZero() && s.Cropped != s.Scaled
}

// target is the size the scaler itself produces: padded for letterboxing,
// scaled when a crop follows.
func (s Sizes) target() ffmpeg.FrameSize {
	if s.needsCrop() || s.Padded.IsZero() {
		return s.Scaled
	}
	return s.Padded
}

func (s Sizes) aspectOption() string {
	switch {
	case s.needsCrop():
		return ":force_original_aspect_ratio=increase"
	case !s.Padded.IsZero() && s.Scaled != s.Padded:
		return ":force_original_aspect_ratio=decrease"
	}
	return ""
}

func (s Sizes) cropFilter() string {
	if !s.needsCrop() {
		return ""
	}
	return fmt.Sprintf("crop=%d:%d", s.Cropped.Width, s.Cropped.Height)
}

func (s Sizes) apply(current ffmpeg.FrameState) ffmpeg.FrameState {
	current.ScaledSize = s.Scaled
	current.PaddedSize = s.Padded
	current.CroppedSize = s.Cropped
	current.IsAnamorphic = false
	return current
}

// Scale is the software scaler.
type Scale struct {
	ffmpeg.NoOptions
	current ffmpeg.FrameState
	sizes   Sizes
}

// NewScale builds the software scale step.
func NewScale(current ffmpeg.FrameState, sizes Sizes) Scale {
	return Scale{current: current, sizes: sizes}
}

func (f Scale) Kind() ffmpeg.StepKind { return ffmpeg.StepFilter }
func (f Scale) Name() string          { return "scale" }

func (f Scale) Filter() string {
	if f.sizes.unchanged(f.current) {
		return ""
	}
	parts := downloadPrefix(f.current)
	t := f.sizes.target()
	if f.sizes.AnamorphicEdgeCase {
		parts = append(parts, "scale=iw:sar*ih", "setsar=1")
	}
	parts = append(parts, fmt.Sprintf("scale=%d:%d:flags=fast_bilinear%s", t.Width, t.Height, f.sizes.aspectOption()))
	if crop := f.sizes.cropFilter(); crop != "" {
		parts = append(parts, crop)
	}
	parts = append(parts, "setsar=1")
	return strings.Join(parts, ",")
}

func (f Scale) NextState(current ffmpeg.FrameState) ffmpeg.FrameState {
	return f.sizes.apply(current).WithDataLocation(ffmpeg.FrameDataSoftware)
}

// ScaleRkmpp scales on the RGA block. When the frame state carries a pixel
// format the scaler converts to it and downloads the result, so a software
// encoder can consume the frames.
type ScaleRkmpp struct {
	ffmpeg.NoOptions
	current ffmpeg.FrameState
	sizes   Sizes
}

// NewScaleRkmpp builds the RGA scale step. current.PixelFormat is the
// output layout override; nil keeps frames on hardware surfaces.
func NewScaleRkmpp(current ffmpeg.FrameState, sizes Sizes) ScaleRkmpp {
	return ScaleRkmpp{current: current, sizes: sizes}
}

func (f ScaleRkmpp) Kind() ffmpeg.StepKind { return ffmpeg.StepFilter }
func (f ScaleRkmpp) Name() string          { return "scale_rkrga" }

func (f ScaleRkmpp) Filter() string {
	if f.sizes.unchanged(f.current) {
		return ""
	}
	t := f.sizes.target()
	expr := fmt.Sprintf("scale_rkrga=w=%d:h=%d", t.Width, t.Height)
	name, download := f.current.PixelFormatName()
	if download {
		expr += ":format=" + name
	}
	expr += f.sizes.aspectOption() + ":afbc=0"

	parts := []string{expr}
	if download {
		parts = append(parts, "hwdownload", "format="+name)
	}
	if crop := f.sizes.cropFilter(); crop != "" {
		if !download {
			parts = append(parts, "hwdownload", "format="+format.FFmpegNV12)
		}
		parts = append(parts, crop)
	}
	parts = append(parts, "setsar=1")
	return strings.Join(parts, ",")
}

func (f ScaleRkmpp) NextState(current ffmpeg.FrameState) ffmpeg.FrameState {
	next := f.sizes.apply(current)
	if f.current.PixelFormat != nil {
		return next.WithPixelFormat(f.current.PixelFormat).WithDataLocation(ffmpeg.FrameDataSoftware)
	}
	if f.sizes.needsCrop() {
		return next.WithDataLocation(ffmpeg.FrameDataSoftware)
	}
	return next.WithDataLocation(ffmpeg.FrameDataHardware)
}
