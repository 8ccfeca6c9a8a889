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
	"github.com/ManuGH/ffplan/internal/ffmpeg/option"
	"github.com/ManuGH/ffplan/internal/log"
)

// Rkmpp returns the strategy for Rockchip MPP decode/encode with RGA
// scaling. Anything the hardware cannot do falls back to the software
// catalogs.
func Rkmpp() Strategy {
	return Strategy{
		Backend:        ffmpeg.HardwareAccelerationRkmpp,
		SetAccelState:  rkmppSetAccelState,
		SetDecoder:     rkmppSetDecoder,
		SetPixelFormat: rkmppSetPixelFormat,
		SetScale:       rkmppSetScale,
		GetEncoder:     rkmppGetEncoder,
	}
}

func rkmppSetAccelState(a *Assembly, decode, encode capabilities.Capability) ffmpeg.FFmpegState {
	// nut is piped to a parent segmenter which expects raw frames
	if a.State.OutputFormat.IsPassthrough() {
		encode = capabilities.Software
		a.Logger.Debug().Str(log.FieldOutputFormat, string(a.State.OutputFormat)).Msg("Using software encoder")
	}

	if decode == capabilities.Hardware {
		a.Add(option.RkmppHardwareAcceleration{})
		a.Logger.Debug().Msg("Using rkmpp hardware acceleration option")
	}

	state := a.State
	state.DecoderHardwareAccelerationMode = accelerationMode(decode, ffmpeg.HardwareAccelerationRkmpp)
	state.EncoderHardwareAccelerationMode = accelerationMode(encode, ffmpeg.HardwareAccelerationRkmpp)
	return state
}

func rkmppSetDecoder(a *Assembly) (decoder.Decoder, bool) {
	if a.State.DecoderHardwareAccelerationMode == ffmpeg.HardwareAccelerationRkmpp {
		return decoder.Rkmpp{}, true
	}
	return decoder.ForCodec(a.Stream.Codec)
}

func rkmppSetPixelFormat(a *Assembly) {
	desired := a.Desired.PixelFormat
	if desired == nil {
		return
	}
	reconcilePixelFormat(a, resolveTarget(desired, format.RkmppCatalog), true)
}

// rkmppSetScale keeps frames on the RGA path whenever decode ran on the
// hardware. With a software encoder the RGA output is forced to nv12 and
// downloaded.
func rkmppSetScale(a *Assembly) (filter.Filter, bool) {
	sizes := scaleSizes(a)
	if a.State.DecoderHardwareAccelerationMode != ffmpeg.HardwareAccelerationRkmpp {
		return filter.NewScale(a.Current(), sizes), true
	}

	current := a.Current().WithPixelFormat(nil)
	if a.State.EncoderHardwareAccelerationMode == ffmpeg.HardwareAccelerationNone && a.Desired.PixelFormat != nil {
		current = current.WithPixelFormat(format.NewNV12(a.Desired.PixelFormat.Name()))
	}
	return filter.NewScaleRkmpp(current, sizes), true
}

func rkmppGetEncoder(a *Assembly) (encoder.Encoder, bool) {
	if a.State.EncoderHardwareAccelerationMode == ffmpeg.HardwareAccelerationRkmpp {
		switch a.Desired.VideoFormat {
		case ffmpeg.VideoFormatHevc:
			return encoder.NewHevcRkmpp(a.Desired.BitDepth()), true
		case ffmpeg.VideoFormatH264:
			return encoder.NewH264Rkmpp(a.Desired.VideoProfile), true
		}
	}
	return encoder.ForVideoFormat(a.State, a.Desired)
}
