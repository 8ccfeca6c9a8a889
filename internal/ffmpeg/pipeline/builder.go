// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package pipeline assembles the ordered ffmpeg step list for one video
// stream. The assembly order is fixed; only the Strategy decisions vary per
// hardware backend.
package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/ManuGH/ffplan/internal/ffmpeg"
	"github.com/ManuGH/ffplan/internal/ffmpeg/capabilities"
	"github.com/ManuGH/ffplan/internal/ffmpeg/option"
	"github.com/ManuGH/ffplan/internal/log"
	"github.com/ManuGH/ffplan/internal/metrics"
	"github.com/ManuGH/ffplan/internal/telemetry"
)

var (
	// ErrNoVideoStream is returned when the input carries no video stream.
	ErrNoVideoStream = errors.New("no video stream")
	// ErrCapabilityQuery wraps failures of the capability collaborator.
	// A negative answer is not a failure; only a query that could not be
	// answered aborts the build.
	ErrCapabilityQuery = errors.New("capability query failed")
	// ErrUnknownBackend is returned by NewForBackend.
	ErrUnknownBackend = errors.New("unknown hardware backend")
)

// Input is everything one build needs.
type Input struct {
	// Video is the source stream; nil means the input has none.
	Video       *ffmpeg.VideoStream
	Desired     ffmpeg.FrameState
	FFmpegState ffmpeg.FFmpegState
}

// Builder turns an Input into a Plan. A Builder holds no per-build state
// and is safe for concurrent use.
type Builder struct {
	caps     capabilities.HardwareCapabilities
	strategy Strategy
	logger   zerolog.Logger
	tracer   trace.Tracer
}

// BuilderOption customises a Builder.
type BuilderOption func(*Builder)

// WithLogger replaces the component logger.
func WithLogger(logger zerolog.Logger) BuilderOption {
	return func(b *Builder) { b.logger = logger }
}

// WithTracerProvider traces builds with tp instead of the global provider.
func WithTracerProvider(tp trace.TracerProvider) BuilderOption {
	return func(b *Builder) { b.tracer = tp.Tracer(tracerName) }
}

const tracerName = "github.com/ManuGH/ffplan/internal/ffmpeg/pipeline"

// NewBuilder returns a Builder consulting caps and deciding with strategy.
func NewBuilder(caps capabilities.HardwareCapabilities, strategy Strategy, opts ...BuilderOption) *Builder {
	if caps == nil {
		caps = capabilities.NoHardware{}
	}
	b := &Builder{
		caps:     caps,
		strategy: strategy,
		logger:   log.WithComponent("pipeline"),
		tracer:   telemetry.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(b)
	}
	b.logger = b.logger.With().Str(log.FieldBackend, string(strategy.Backend)).Logger()
	return b
}

// NewForBackend picks the strategy for backend.
func NewForBackend(backend ffmpeg.HardwareAccelerationMode, caps capabilities.HardwareCapabilities, opts ...BuilderOption) (*Builder, error) {
	switch backend {
	case ffmpeg.HardwareAccelerationNone, "":
		return NewBuilder(capabilities.NoHardware{}, Software(), opts...), nil
	case ffmpeg.HardwareAccelerationRkmpp:
		return NewBuilder(caps, Rkmpp(), opts...), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
}

// Backend is the hardware backend this builder plans for.
func (b *Builder) Backend() ffmpeg.HardwareAccelerationMode { return b.strategy.Backend }

// Build negotiates capabilities and assembles the plan for in. Unsupported
// hardware is not an error; a failing capability query is.
func (b *Builder) Build(ctx context.Context, in Input) (plan Plan, err error) {
	buildID := log.BuildIDFromContext(ctx)
	if buildID == "" {
		buildID = uuid.NewString()
		ctx = log.ContextWithBuildID(ctx, buildID)
	}
	ctx, span := b.tracer.Start(ctx, "pipeline.build")
	defer span.End()
	logger := log.WithContext(ctx, b.logger)
	backend := string(b.strategy.Backend)

	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			span.SetAttributes(telemetry.ErrorAttributes(errorType(err))...)
			metrics.RecordPipelineBuild(backend, "", "", metrics.OutcomeError)
			logger.Warn().Err(err).Msg("pipeline build failed")
			return
		}
		span.SetAttributes(telemetry.DecisionAttributes(
			string(plan.FFmpegState.DecoderHardwareAccelerationMode),
			string(plan.FFmpegState.EncoderHardwareAccelerationMode),
			len(plan.Steps))...)
		metrics.RecordPipelineBuild(backend,
			string(plan.FFmpegState.DecoderHardwareAccelerationMode),
			string(plan.FFmpegState.EncoderHardwareAccelerationMode),
			metrics.OutcomeSuccess)
		for _, step := range plan.Steps {
			metrics.RecordPipelineStep(string(step.Kind()))
		}
	}()

	if in.Video == nil {
		return Plan{}, ErrNoVideoStream
	}
	stream := *in.Video
	desired := normalizeDesired(in.Desired, stream)
	span.SetAttributes(telemetry.BuildAttributes(buildID, backend, stream.Codec,
		string(desired.VideoFormat), string(in.FFmpegState.OutputFormat))...)

	decode, err := b.caps.CanDecode(stream.Codec, stream.Profile, stream.PixelFormat, stream.ColorParams.IsHdr())
	if err != nil {
		return Plan{}, fmt.Errorf("%w: decode %s: %w", ErrCapabilityQuery, stream.Codec, err)
	}
	encode, err := b.caps.CanEncode(desired.VideoFormat, desired.VideoProfile, desired.PixelFormat)
	if err != nil {
		return Plan{}, fmt.Errorf("%w: encode %s: %w", ErrCapabilityQuery, desired.VideoFormat, err)
	}
	b.recordFallbacks(stream, desired, decode, encode)

	logger.Debug().
		Str(log.FieldCodec, stream.Codec).
		Str(log.FieldProfile, stream.Profile).
		Stringer("decode", decode).
		Stringer("encode", encode).
		Msg("capabilities negotiated")

	a := newAssembly(logger, stream, desired, in.FFmpegState)
	if in.FFmpegState.Realtime {
		a.Add(option.RealtimeInput{})
	}

	a.State = b.strategy.SetAccelState(a, decode, encode)

	if dec, ok := b.strategy.SetDecoder(a); ok {
		a.Add(dec)
	}

	b.strategy.SetPixelFormat(a)

	if scale, ok := b.strategy.SetScale(a); ok && scale.Filter() != "" {
		a.Add(scale)
	}

	if enc, ok := b.strategy.GetEncoder(a); ok {
		a.Add(enc)
	} else {
		logger.Debug().Str(log.FieldTargetFormat, string(desired.VideoFormat)).Msg("no encoder for target format")
	}

	plan = Plan{
		BuildID:     buildID,
		Backend:     b.strategy.Backend,
		Steps:       a.Steps(),
		FFmpegState: a.State,
		FrameState:  a.Current(),
	}
	logger.Debug().
		Str(log.FieldDecodeMode, string(plan.FFmpegState.DecoderHardwareAccelerationMode)).
		Str(log.FieldEncodeMode, string(plan.FFmpegState.EncoderHardwareAccelerationMode)).
		Int(log.FieldSteps, len(plan.Steps)).
		Msg("pipeline built")
	return plan, nil
}

func (b *Builder) recordFallbacks(stream ffmpeg.VideoStream, desired ffmpeg.FrameState, decode, encode capabilities.Capability) {
	if b.strategy.Backend == ffmpeg.HardwareAccelerationNone {
		return
	}
	if decode != capabilities.Hardware {
		metrics.RecordHardwareFallback(string(b.strategy.Backend), "decode", stream.Codec)
	}
	if encode != capabilities.Hardware {
		metrics.RecordHardwareFallback(string(b.strategy.Backend), "encode", string(desired.VideoFormat))
	}
}

// normalizeDesired fills unset target sizes from the source so an absent
// size means "keep".
func normalizeDesired(desired ffmpeg.FrameState, stream ffmpeg.VideoStream) ffmpeg.FrameState {
	if desired.ScaledSize.IsZero() {
		desired.ScaledSize = stream.FrameSize
	}
	if desired.PaddedSize.IsZero() {
		desired.PaddedSize = desired.ScaledSize
	}
	return desired
}

func errorType(err error) string {
	switch {
	case errors.Is(err, ErrNoVideoStream):
		return "no_video_stream"
	case errors.Is(err, ErrCapabilityQuery):
		return "capability_query"
	}
	return "internal"
}
