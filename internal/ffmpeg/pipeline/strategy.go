// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package pipeline

import (
	"slices"

	"github.com/rs/zerolog"

	"github.com/ManuGH/ffplan/internal/ffmpeg"
	"github.com/ManuGH/ffplan/internal/ffmpeg/capabilities"
	"github.com/ManuGH/ffplan/internal/ffmpeg/decoder"
	"github.com/ManuGH/ffplan/internal/ffmpeg/encoder"
	"github.com/ManuGH/ffplan/internal/ffmpeg/filter"
	"github.com/ManuGH/ffplan/internal/log"
)

// Strategy holds the backend-specific decisions. The Builder calls them in
// a fixed order: SetAccelState, SetDecoder, SetPixelFormat, SetScale,
// GetEncoder. A strategy may add steps to the Assembly itself or return an
// optional step for the Builder to add.
type Strategy struct {
	Backend ffmpeg.HardwareAccelerationMode

	SetAccelState  func(a *Assembly, decode, encode capabilities.Capability) ffmpeg.FFmpegState
	SetDecoder     func(a *Assembly) (decoder.Decoder, bool)
	SetPixelFormat func(a *Assembly)
	SetScale       func(a *Assembly) (filter.Filter, bool)
	GetEncoder     func(a *Assembly) (encoder.Encoder, bool)
}

// Assembly is the private, single-use state of one build: the source
// stream, the desired result, the acceleration state decided so far, the
// threaded frame state and the steps emitted by kind.
type Assembly struct {
	Logger  zerolog.Logger
	Stream  ffmpeg.VideoStream
	Desired ffmpeg.FrameState
	State   ffmpeg.FFmpegState

	current ffmpeg.FrameState
	steps   map[ffmpeg.StepKind][]ffmpeg.PipelineStep
}

func newAssembly(logger zerolog.Logger, stream ffmpeg.VideoStream, desired ffmpeg.FrameState, state ffmpeg.FFmpegState) *Assembly {
	return &Assembly{
		Logger:  logger,
		Stream:  stream,
		Desired: desired,
		State:   state,
		current: sourceFrameState(stream),
		steps:   make(map[ffmpeg.StepKind][]ffmpeg.PipelineStep),
	}
}

// Current is the frame state after every step added so far.
func (a *Assembly) Current() ffmpeg.FrameState { return a.current }

// Add appends step to its kind's list and threads the frame state through it.
func (a *Assembly) Add(step ffmpeg.PipelineStep) {
	a.steps[step.Kind()] = append(a.steps[step.Kind()], step)
	a.current = step.NextState(a.current)
	a.Logger.Debug().
		Str(log.FieldStep, step.Name()).
		Str(log.FieldEvent, string(step.Kind())).
		Msg("pipeline step added")
}

// Steps returns every step in plan order: input options, global options,
// decoder, filters, output options, encoder. Within a kind the order of
// Add is kept.
func (a *Assembly) Steps() []ffmpeg.PipelineStep {
	kinds := make([]ffmpeg.StepKind, 0, len(a.steps))
	for k := range a.steps {
		kinds = append(kinds, k)
	}
	slices.SortFunc(kinds, func(x, y ffmpeg.StepKind) int { return x.Rank() - y.Rank() })

	var out []ffmpeg.PipelineStep
	for _, k := range kinds {
		out = append(out, a.steps[k]...)
	}
	return out
}

func sourceFrameState(stream ffmpeg.VideoStream) ffmpeg.FrameState {
	return ffmpeg.FrameState{
		VideoFormat:  ffmpeg.ParseVideoFormat(stream.Codec),
		VideoProfile: stream.Profile,
		PixelFormat:  stream.PixelFormat,
		ScaledSize:   stream.FrameSize,
		PaddedSize:   stream.FrameSize,
		IsAnamorphic: stream.IsAnamorphic(),
		DataLocation: ffmpeg.FrameDataSoftware,
	}
}

// scaleSizes is the scaler target for the desired state.
func scaleSizes(a *Assembly) filter.Sizes {
	return filter.Sizes{
		Scaled:             a.Desired.ScaledSize,
		Padded:             a.Desired.PaddedSize,
		Cropped:            a.Desired.CroppedSize,
		AnamorphicEdgeCase: a.Stream.IsAnamorphicEdgeCase(a.Desired.ScaledSize),
	}
}

func accelerationMode(c capabilities.Capability, backend ffmpeg.HardwareAccelerationMode) ffmpeg.HardwareAccelerationMode {
	if c == capabilities.Hardware {
		return backend
	}
	return ffmpeg.HardwareAccelerationNone
}
