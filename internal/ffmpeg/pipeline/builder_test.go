// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/goleak"
	"golang.org/x/sync/errgroup"

	"github.com/ManuGH/ffplan/internal/ffmpeg"
	"github.com/ManuGH/ffplan/internal/ffmpeg/capabilities"
	"github.com/ManuGH/ffplan/internal/ffmpeg/format"
	"github.com/ManuGH/ffplan/internal/log"
)

var (
	hd      = ffmpeg.FrameSize{Width: 1920, Height: 1080}
	hdReady = ffmpeg.FrameSize{Width: 1280, Height: 720}

	bt709 = ffmpeg.ColorParams{ColorRange: "tv", ColorSpace: "bt709", ColorTransfer: "bt709", ColorPrimaries: "bt709"}
	bt601 = ffmpeg.ColorParams{ColorRange: "tv", ColorSpace: "smpte170m", ColorTransfer: "smpte170m", ColorPrimaries: "smpte170m"}
)

type fakeCaps struct {
	decode, encode capabilities.Capability
	err            error
}

func (f fakeCaps) CanDecode(string, string, format.PixelFormat, bool) (capabilities.Capability, error) {
	return f.decode, f.err
}

func (f fakeCaps) CanEncode(ffmpeg.VideoFormat, string, format.PixelFormat) (capabilities.Capability, error) {
	return f.encode, f.err
}

func h264Stream(cp ffmpeg.ColorParams) *ffmpeg.VideoStream {
	return &ffmpeg.VideoStream{
		Codec:       "h264",
		Profile:     "high",
		PixelFormat: format.YUV420P{},
		ColorParams: cp,
		FrameSize:   hd,
	}
}

func h264Target(size ffmpeg.FrameSize) ffmpeg.FrameState {
	return ffmpeg.FrameState{
		VideoFormat:  ffmpeg.VideoFormatH264,
		VideoProfile: "high",
		PixelFormat:  format.YUV420P{},
		ScaledSize:   size,
		PaddedSize:   size,
	}
}

func newTestBuilder(caps capabilities.HardwareCapabilities, s Strategy) *Builder {
	return NewBuilder(caps, s, WithLogger(zerolog.Nop()))
}

func stepNames(p Plan) []string {
	names := make([]string, 0, len(p.Steps))
	for _, s := range p.Steps {
		names = append(names, s.Name())
	}
	return names
}

func hasKind(p Plan, kind ffmpeg.StepKind) bool {
	for _, s := range p.Steps {
		if s.Kind() == kind {
			return true
		}
	}
	return false
}

func TestBuild_HardwareDecodeAndEncode(t *testing.T) {
	b := newTestBuilder(fakeCaps{decode: capabilities.Hardware, encode: capabilities.Hardware}, Rkmpp())

	plan, err := b.Build(context.Background(), Input{
		Video:       h264Stream(bt709),
		Desired:     h264Target(hd),
		FFmpegState: ffmpeg.FFmpegState{OutputFormat: ffmpeg.OutputFormatMpegTs},
	})
	require.NoError(t, err)

	if diff := cmp.Diff([]string{"hwaccel_rkmpp", "implicit_rkmpp", "h264_rkmpp"}, stepNames(plan)); diff != "" {
		t.Fatalf("steps mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, ffmpeg.HardwareAccelerationRkmpp, plan.FFmpegState.DecoderHardwareAccelerationMode)
	assert.Equal(t, ffmpeg.HardwareAccelerationRkmpp, plan.FFmpegState.EncoderHardwareAccelerationMode)
	assert.False(t, hasKind(plan, ffmpeg.StepFilter))
	assert.False(t, hasKind(plan, ffmpeg.StepOutputOption))
	assert.Equal(t, format.FFmpegNV12, plan.FrameState.PixelFormat.FFmpegName())
	assert.Equal(t, "yuv420p", plan.FrameState.PixelFormat.Name(), "semantic name survives the hardware surface")
	assert.NotEmpty(t, plan.BuildID)
}

func TestBuild_PassthroughForcesSoftwareEncode(t *testing.T) {
	b := newTestBuilder(fakeCaps{decode: capabilities.Hardware, encode: capabilities.Hardware}, Rkmpp())

	plan, err := b.Build(context.Background(), Input{
		Video:       h264Stream(bt709),
		Desired:     h264Target(hd),
		FFmpegState: ffmpeg.FFmpegState{OutputFormat: ffmpeg.OutputFormatNut},
	})
	require.NoError(t, err)

	assert.Equal(t, ffmpeg.HardwareAccelerationRkmpp, plan.FFmpegState.DecoderHardwareAccelerationMode)
	assert.Equal(t, ffmpeg.HardwareAccelerationNone, plan.FFmpegState.EncoderHardwareAccelerationMode)
	assert.Equal(t, []string{"hwaccel_rkmpp", "implicit_rkmpp", "rawvideo"}, stepNames(plan))
}

func TestBuild_SoftwareDecodeHasNoHardwareOption(t *testing.T) {
	for _, c := range []capabilities.Capability{capabilities.Software, capabilities.Unsupported} {
		t.Run(c.String(), func(t *testing.T) {
			b := newTestBuilder(fakeCaps{decode: c, encode: capabilities.Hardware}, Rkmpp())

			plan, err := b.Build(context.Background(), Input{
				Video:       h264Stream(bt709),
				Desired:     h264Target(hd),
				FFmpegState: ffmpeg.FFmpegState{OutputFormat: ffmpeg.OutputFormatMpegTs},
			})
			require.NoError(t, err)

			assert.Equal(t, ffmpeg.HardwareAccelerationNone, plan.FFmpegState.DecoderHardwareAccelerationMode)
			assert.False(t, hasKind(plan, ffmpeg.StepGlobalOption))
			assert.Equal(t, "h264", plan.Steps[0].Name())
		})
	}
}

func TestBuild_HardwareDecodeBitDepthMapping(t *testing.T) {
	b := newTestBuilder(capabilities.DefaultRkmppTable(), Rkmpp())

	tests := []struct {
		name     string
		codec    string
		profile  string
		source   format.PixelFormat
		target   ffmpeg.FrameState
		wantPF   string
		wantEnc  string
		wantMode ffmpeg.HardwareAccelerationMode
	}{
		{
			name:    "8-bit hevc to nv12",
			codec:   "hevc",
			profile: "Main",
			source:  format.YUV420P{},
			target: ffmpeg.FrameState{
				VideoFormat: ffmpeg.VideoFormatHevc, PixelFormat: format.YUV420P{},
			},
			wantPF:   format.FFmpegNV12,
			wantEnc:  "hevc_rkmpp",
			wantMode: ffmpeg.HardwareAccelerationRkmpp,
		},
		{
			name:    "10-bit hevc to p010 with software encode",
			codec:   "hevc",
			profile: "Main 10",
			source:  format.YUV420P10LE{},
			target: ffmpeg.FrameState{
				VideoFormat: ffmpeg.VideoFormatHevc, PixelFormat: format.YUV420P10LE{},
			},
			wantPF:   format.FFmpegP010,
			wantEnc:  "libx265",
			wantMode: ffmpeg.HardwareAccelerationNone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := b.Build(context.Background(), Input{
				Video: &ffmpeg.VideoStream{
					Codec: tt.codec, Profile: tt.profile, PixelFormat: tt.source,
					ColorParams: bt709, FrameSize: hd,
				},
				Desired:     tt.target,
				FFmpegState: ffmpeg.FFmpegState{OutputFormat: ffmpeg.OutputFormatMkv},
			})
			require.NoError(t, err)

			assert.Equal(t, ffmpeg.HardwareAccelerationRkmpp, plan.FFmpegState.DecoderHardwareAccelerationMode)
			assert.Equal(t, tt.wantMode, plan.FFmpegState.EncoderHardwareAccelerationMode)
			assert.Equal(t, tt.wantPF, plan.FrameState.PixelFormat.FFmpegName())
			assert.Equal(t, tt.wantEnc, plan.Steps[len(plan.Steps)-1].Name())
			assert.False(t, hasKind(plan, ffmpeg.StepOutputOption), "decoder output already matches")
		})
	}
}

func TestBuild_ColorspaceOnlyForNonBt709(t *testing.T) {
	strategies := map[string]Strategy{"software": Software(), "rkmpp": Rkmpp()}
	caps := fakeCaps{decode: capabilities.Hardware, encode: capabilities.Hardware}

	for name, s := range strategies {
		t.Run(name, func(t *testing.T) {
			b := newTestBuilder(caps, s)
			in := Input{Desired: h264Target(hd), FFmpegState: ffmpeg.FFmpegState{OutputFormat: ffmpeg.OutputFormatMpegTs}}

			in.Video = h264Stream(bt709)
			plan, err := b.Build(context.Background(), in)
			require.NoError(t, err)
			assert.NotContains(t, stepNames(plan), "colorspace")

			in.Video = h264Stream(bt601)
			plan, err = b.Build(context.Background(), in)
			require.NoError(t, err)
			assert.Contains(t, stepNames(plan), "colorspace")
		})
	}
}

func TestBuild_UnrecognisedTargetPixelFormatFallsBackByDepth(t *testing.T) {
	tests := []struct {
		name     string
		strategy Strategy
		caps     capabilities.HardwareCapabilities
		wantFmt  string
	}{
		{"software", Software(), nil, "yuv420p"},
		{"rkmpp", Rkmpp(), fakeCaps{decode: capabilities.Hardware, encode: capabilities.Hardware}, "nv12"},
	}

	for _, tt := range tests {
		for _, cp := range []ffmpeg.ColorParams{bt709, bt601} {
			t.Run(tt.name, func(t *testing.T) {
				desired := h264Target(hd)
				desired.PixelFormat = format.Parse("yuv444p")
				stream := h264Stream(cp)
				stream.PixelFormat = format.YUV420P10LE{}

				plan, err := newTestBuilder(tt.caps, tt.strategy).Build(context.Background(), Input{
					Video:       stream,
					Desired:     desired,
					FFmpegState: ffmpeg.FFmpegState{OutputFormat: ffmpeg.OutputFormatMpegTs},
				})
				require.NoError(t, err)

				args := strings.Join(plan.Args("in.ts", "out.ts"), " ")
				assert.NotContains(t, args, "unknown")
				assert.Contains(t, args, tt.wantFmt)
			})
		}
	}
}

func TestBuild_ColorspaceOnHardwarePathTargetsPackedFormat(t *testing.T) {
	b := newTestBuilder(fakeCaps{decode: capabilities.Hardware, encode: capabilities.Hardware}, Rkmpp())

	plan, err := b.Build(context.Background(), Input{
		Video:       h264Stream(bt601),
		Desired:     h264Target(hd),
		FFmpegState: ffmpeg.FFmpegState{OutputFormat: ffmpeg.OutputFormatMpegTs},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"hwaccel_rkmpp", "implicit_rkmpp", "colorspace", "h264_rkmpp"}, stepNames(plan))
	assert.Contains(t, plan.Steps[2].Filter(), "format=nv12")
}

func TestReconcilePixelFormat_Idempotent(t *testing.T) {
	stream := ffmpeg.VideoStream{Codec: "h264", PixelFormat: format.YUV420P10LE{}, ColorParams: bt709, FrameSize: hd}
	a := newAssembly(zerolog.Nop(), stream, h264Target(hd), ffmpeg.FFmpegState{})

	reconcilePixelFormat(a, format.YUV420P{}, false)
	require.Len(t, a.Steps(), 1)
	assert.Equal(t, []string{"-pix_fmt", "yuv420p"}, a.Steps()[0].OutputOptions())

	reconcilePixelFormat(a, format.YUV420P{}, false)
	assert.Len(t, a.Steps(), 1, "second pass adds nothing")
}

func TestReconcilePixelFormat_ForcesPackedLayout(t *testing.T) {
	stream := ffmpeg.VideoStream{Codec: "h264", PixelFormat: format.YUV420P10LE{}, ColorParams: bt709}
	a := newAssembly(zerolog.Nop(), stream, ffmpeg.FrameState{}, ffmpeg.FFmpegState{})

	reconcilePixelFormat(a, format.YUV420P{}, true)
	require.Len(t, a.Steps(), 1)
	assert.Equal(t, []string{"-pix_fmt", "nv12"}, a.Steps()[0].OutputOptions())
	assert.Equal(t, "yuv420p", a.Current().PixelFormat.Name())

	reconcilePixelFormat(a, format.YUV420P{}, true)
	assert.Len(t, a.Steps(), 1)
}

func TestBuild_ScaleOmittedWhenGeometryMatches(t *testing.T) {
	for name, s := range map[string]Strategy{"software": Software(), "rkmpp": Rkmpp()} {
		t.Run(name, func(t *testing.T) {
			b := newTestBuilder(fakeCaps{decode: capabilities.Hardware, encode: capabilities.Software}, s)
			desired := h264Target(hd)
			desired.CroppedSize = hd

			plan, err := b.Build(context.Background(), Input{Video: h264Stream(bt709), Desired: desired})
			require.NoError(t, err)
			assert.False(t, hasKind(plan, ffmpeg.StepFilter))
			assert.Equal(t, hd, plan.FrameState.ScaledSize)
		})
	}
}

func TestBuild_UnsetTargetSizeKeepsSource(t *testing.T) {
	b := newTestBuilder(nil, Software())
	desired := h264Target(ffmpeg.FrameSize{})

	plan, err := b.Build(context.Background(), Input{Video: h264Stream(bt709), Desired: desired})
	require.NoError(t, err)
	assert.False(t, hasKind(plan, ffmpeg.StepFilter))
}

func TestBuild_ScaleSelection(t *testing.T) {
	tests := []struct {
		name       string
		caps       fakeCaps
		wantFilter string
		wantLoc    ffmpeg.FrameDataLocation
	}{
		{
			name:       "hardware decode and encode stays on rga",
			caps:       fakeCaps{decode: capabilities.Hardware, encode: capabilities.Hardware},
			wantFilter: "scale_rkrga=w=1280:h=720:afbc=0,setsar=1",
			wantLoc:    ffmpeg.FrameDataHardware,
		},
		{
			name:       "hardware decode with software encode downloads nv12",
			caps:       fakeCaps{decode: capabilities.Hardware, encode: capabilities.Software},
			wantFilter: "scale_rkrga=w=1280:h=720:format=nv12:afbc=0,hwdownload,format=nv12,setsar=1",
			wantLoc:    ffmpeg.FrameDataSoftware,
		},
		{
			name:       "software decode uses the software scaler",
			caps:       fakeCaps{decode: capabilities.Software, encode: capabilities.Hardware},
			wantFilter: "scale=1280:720:flags=fast_bilinear,setsar=1",
			wantLoc:    ffmpeg.FrameDataSoftware,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newTestBuilder(tt.caps, Rkmpp())
			plan, err := b.Build(context.Background(), Input{
				Video:       h264Stream(bt709),
				Desired:     h264Target(hdReady),
				FFmpegState: ffmpeg.FFmpegState{OutputFormat: ffmpeg.OutputFormatMpegTs},
			})
			require.NoError(t, err)

			assert.Equal(t, []string{tt.wantFilter}, plan.Filters())
			assert.Equal(t, hdReady, plan.FrameState.ScaledSize)
			assert.Equal(t, tt.wantLoc, plan.FrameState.DataLocation)
		})
	}
}

func TestBuild_StepOrderInvariant(t *testing.T) {
	capsGrid := []fakeCaps{
		{decode: capabilities.Hardware, encode: capabilities.Hardware},
		{decode: capabilities.Hardware, encode: capabilities.Software},
		{decode: capabilities.Software, encode: capabilities.Hardware},
		{decode: capabilities.Software, encode: capabilities.Software},
	}
	colors := []ffmpeg.ColorParams{bt709, bt601, {}}
	sizes := []ffmpeg.FrameSize{hd, hdReady}

	for _, caps := range capsGrid {
		for _, cp := range colors {
			for _, size := range sizes {
				b := newTestBuilder(caps, Rkmpp())
				plan, err := b.Build(context.Background(), Input{
					Video:       h264Stream(cp),
					Desired:     h264Target(size),
					FFmpegState: ffmpeg.FFmpegState{OutputFormat: ffmpeg.OutputFormatMpegTs, Realtime: true},
				})
				require.NoError(t, err)

				decoderIdx, encoderIdx := -1, -1
				var filterIdx []int
				for i, s := range plan.Steps {
					if i > 0 {
						require.LessOrEqual(t, plan.Steps[i-1].Kind().Rank(), s.Kind().Rank())
					}
					switch s.Kind() {
					case ffmpeg.StepDecoder:
						decoderIdx = i
					case ffmpeg.StepFilter:
						filterIdx = append(filterIdx, i)
					case ffmpeg.StepEncoder:
						encoderIdx = i
					}
				}
				require.GreaterOrEqual(t, decoderIdx, 0)
				require.Greater(t, encoderIdx, decoderIdx)
				for _, fi := range filterIdx {
					assert.Greater(t, fi, decoderIdx)
					assert.Less(t, fi, encoderIdx)
				}
				assert.Equal(t, "realtime_input", plan.Steps[0].Name())
			}
		}
	}
}

func TestBuild_RealtimeInput(t *testing.T) {
	b := newTestBuilder(nil, Software())
	plan, err := b.Build(context.Background(), Input{
		Video:       h264Stream(bt709),
		Desired:     h264Target(hd),
		FFmpegState: ffmpeg.FFmpegState{Realtime: true},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"-re"}, plan.Steps[0].InputOptions())
	assert.True(t, plan.FrameState.Realtime)
}

func TestBuild_NoVideoStream(t *testing.T) {
	b := newTestBuilder(nil, Software())
	_, err := b.Build(context.Background(), Input{Desired: h264Target(hd)})
	assert.ErrorIs(t, err, ErrNoVideoStream)
}

func TestBuild_CapabilityQueryFailureAborts(t *testing.T) {
	probeErr := errors.New("device busy")
	b := newTestBuilder(fakeCaps{err: probeErr}, Rkmpp())

	plan, err := b.Build(context.Background(), Input{Video: h264Stream(bt709), Desired: h264Target(hd)})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCapabilityQuery)
	assert.ErrorIs(t, err, probeErr)
	assert.Empty(t, plan.Steps)
}

func TestBuild_FailedProbePropagates(t *testing.T) {
	pre := capabilities.NewPreflight(capabilities.DefaultRkmppTable(), "rkmpp")
	pre.Record(capabilities.ProbeResult{}, errors.New("exec: not found"))
	b := newTestBuilder(pre, Rkmpp())

	_, err := b.Build(context.Background(), Input{Video: h264Stream(bt709), Desired: h264Target(hd)})
	assert.ErrorIs(t, err, capabilities.ErrProbeFailed)
	assert.ErrorIs(t, err, ErrCapabilityQuery)
}

func TestBuild_UsesBuildIDFromContext(t *testing.T) {
	b := newTestBuilder(nil, Software())
	ctx := log.ContextWithBuildID(context.Background(), "build-42")

	plan, err := b.Build(ctx, Input{Video: h264Stream(bt709), Desired: h264Target(hd)})
	require.NoError(t, err)
	assert.Equal(t, "build-42", plan.BuildID)
}

func TestBuild_RecordsSpan(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	b := NewBuilder(fakeCaps{decode: capabilities.Hardware, encode: capabilities.Hardware}, Rkmpp(),
		WithLogger(zerolog.Nop()), WithTracerProvider(tp))
	_, err := b.Build(context.Background(), Input{Video: h264Stream(bt709), Desired: h264Target(hd)})
	require.NoError(t, err)

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "pipeline.build", spans[0].Name())
}

func TestBuild_ConcurrentBuildsShareNothing(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	b := newTestBuilder(fakeCaps{decode: capabilities.Hardware, encode: capabilities.Hardware}, Rkmpp())
	plans := make([]Plan, 32)

	g, ctx := errgroup.WithContext(context.Background())
	for i := range plans {
		g.Go(func() error {
			size := hd
			if i%2 == 1 {
				size = hdReady
			}
			p, err := b.Build(log.ContextWithBuildID(ctx, fmt.Sprintf("b-%d", i)), Input{
				Video:   h264Stream(bt709),
				Desired: h264Target(size),
			})
			plans[i] = p
			return err
		})
	}
	require.NoError(t, g.Wait())

	for i, p := range plans {
		assert.Equal(t, fmt.Sprintf("b-%d", i), p.BuildID)
		if i%2 == 1 {
			assert.Len(t, p.Steps, 4)
		} else {
			assert.Len(t, p.Steps, 3)
		}
	}
}

func TestNewForBackend(t *testing.T) {
	b, err := NewForBackend(ffmpeg.HardwareAccelerationRkmpp, capabilities.DefaultRkmppTable())
	require.NoError(t, err)
	assert.Equal(t, ffmpeg.HardwareAccelerationRkmpp, b.Backend())

	b, err = NewForBackend(ffmpeg.HardwareAccelerationNone, nil)
	require.NoError(t, err)
	assert.Equal(t, ffmpeg.HardwareAccelerationNone, b.Backend())

	_, err = NewForBackend("vaapi", nil)
	assert.ErrorIs(t, err, ErrUnknownBackend)
}
