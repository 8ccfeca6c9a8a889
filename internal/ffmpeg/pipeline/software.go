// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package pipeline

import (
	"github.com/ManuGH/ffplan/internal/ffmpeg"
	"github.com/ManuGH/ffplan/internal/ffmpeg/capabilities"
	"github.com/ManuGH/ffplan/internal/ffmpeg/decoder"
	"github.com/ManuGH/ffplan/internal/ffmpeg/encoder"
	"github.com/ManuGH/ffplan/internal/ffmpeg/filter"
	"github.com/ManuGH/ffplan/internal/ffmpeg/format"
)

// Software returns the strategy that never touches hardware.
func Software() Strategy {
	return Strategy{
		Backend: ffmpeg.HardwareAccelerationNone,
		SetAccelState: func(a *Assembly, _, _ capabilities.Capability) ffmpeg.FFmpegState {
			state := a.State
			state.DecoderHardwareAccelerationMode = ffmpeg.HardwareAccelerationNone
			state.EncoderHardwareAccelerationMode = ffmpeg.HardwareAccelerationNone
			return state
		},
		SetDecoder: func(a *Assembly) (decoder.Decoder, bool) {
			return decoder.ForCodec(a.Stream.Codec)
		},
		SetPixelFormat: func(a *Assembly) {
			desired := a.Desired.PixelFormat
			if desired == nil {
				return
			}
			reconcilePixelFormat(a, resolveTarget(desired, format.SoftwareCatalog), false)
		},
		SetScale: func(a *Assembly) (filter.Filter, bool) {
			return filter.NewScale(a.Current(), scaleSizes(a)), true
		},
		GetEncoder: func(a *Assembly) (encoder.Encoder, bool) {
			return encoder.ForVideoFormat(a.State, a.Desired)
		},
	}
}
