// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package pipeline

import (
	"github.com/ManuGH/ffplan/internal/ffmpeg/filter"
	"github.com/ManuGH/ffplan/internal/ffmpeg/format"
	"github.com/ManuGH/ffplan/internal/ffmpeg/option"
	"github.com/ManuGH/ffplan/internal/log"
)

// resolveTarget maps the desired layout through a backend catalog. An
// unrecognised layout is replaced by the generic planar one of the same
// depth first, so it can never reach -pix_fmt or a format= filter.
func resolveTarget(desired format.PixelFormat, catalog format.Catalog) format.PixelFormat {
	if _, ok := desired.(format.Unknown); ok {
		desired = format.ForBitDepth(desired.BitDepth())
	}
	if pf, ok := catalog.Lookup(desired.FFmpegName()); ok {
		return pf
	}
	return desired
}

// reconcilePixelFormat brings the current frame to target: a colorspace
// filter for every non-bt709 stream, then -pix_fmt only when the layout
// still differs. With forcePacked a generic yuv420p target becomes nv12.
func reconcilePixelFormat(a *Assembly, target format.PixelFormat, forcePacked bool) {
	if !a.Stream.ColorParams.IsBt709() {
		a.Logger.Debug().
			Str(log.FieldTargetFormat, target.FFmpegName()).
			Msg("adding colorspace filter")
		a.Add(filter.NewColorspace(a.Current(), a.Stream, target))
	}

	current, _ := a.Current().PixelFormatName()
	if current == target.FFmpegName() {
		return
	}
	a.Logger.Debug().
		Str(log.FieldPixelFormat, current).
		Str(log.FieldTargetFormat, target.FFmpegName()).
		Msg("pixel format mismatch")

	if forcePacked && target.FFmpegName() == format.FFmpegYUV420P {
		a.Logger.Debug().Msg("pixel format is yuv420p; changing to nv12")
		target = format.NewNV12(target.Name())
		if current == target.FFmpegName() {
			return
		}
	}

	a.Logger.Debug().Str(log.FieldPixelFormat, target.FFmpegName()).Msg("adding pixel format output option")
	a.Add(option.NewPixelFormatOutput(target))
}
