// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package encoder

import (
	"testing"

	"github.com/ManuGH/ffplan/internal/ffmpeg"
	"github.com/ManuGH/ffplan/internal/ffmpeg/format"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRkmppEncoders(t *testing.T) {
	h264 := NewH264Rkmpp("high")
	assert.Equal(t, "h264_rkmpp", h264.Name())
	assert.Equal(t, []string{"-c:v", "h264_rkmpp", "-profile:v", "high"}, h264.OutputOptions())

	hevc := NewHevcRkmpp(10)
	assert.Equal(t, []string{"-c:v", "hevc_rkmpp", "-profile:v", "main10"}, hevc.OutputOptions())
	assert.Equal(t, ffmpeg.StepEncoder, hevc.Kind())

	next := hevc.NextState(ffmpeg.FrameState{VideoFormat: ffmpeg.VideoFormatH264})
	assert.Equal(t, ffmpeg.VideoFormatHevc, next.VideoFormat)
	assert.Equal(t, ffmpeg.VideoProfileMain10, next.VideoProfile)
}

func TestForVideoFormat(t *testing.T) {
	state := ffmpeg.FFmpegState{OutputFormat: ffmpeg.OutputFormatMpegTs}

	tests := []struct {
		name    string
		desired ffmpeg.FrameState
		want    string
		opts    []string
	}{
		{
			name:    "h264 keeps requested profile",
			desired: ffmpeg.FrameState{VideoFormat: ffmpeg.VideoFormatH264, VideoProfile: "main", PixelFormat: format.YUV420P{}},
			want:    "libx264",
			opts:    []string{"-c:v", "libx264", "-profile:v", "main"},
		},
		{
			name:    "10-bit h264 is high10",
			desired: ffmpeg.FrameState{VideoFormat: ffmpeg.VideoFormatH264, VideoProfile: "high", PixelFormat: format.YUV420P10LE{}},
			want:    "libx264",
			opts:    []string{"-c:v", "libx264", "-profile:v", "high10"},
		},
		{
			name:    "hevc",
			desired: ffmpeg.FrameState{VideoFormat: ffmpeg.VideoFormatHevc, PixelFormat: format.YUV420P{}},
			want:    "libx265",
			opts:    []string{"-c:v", "libx265", "-profile:v", "main", "-tag:v", "hvc1", "-x265-params", "log-level=error"},
		},
		{
			name:    "copy",
			desired: ffmpeg.FrameState{VideoFormat: ffmpeg.VideoFormatCopy},
			want:    "copy",
			opts:    []string{"-c:v", "copy"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enc, ok := ForVideoFormat(state, tt.desired)
			require.True(t, ok)
			assert.Equal(t, tt.want, enc.Name())
			assert.Equal(t, tt.opts, enc.OutputOptions())
		})
	}

	_, ok := ForVideoFormat(state, ffmpeg.FrameState{VideoFormat: "theora"})
	assert.False(t, ok)
}

func TestForVideoFormat_PassthroughIsRaw(t *testing.T) {
	nut := ffmpeg.FFmpegState{OutputFormat: ffmpeg.OutputFormatNut}
	for _, vf := range []ffmpeg.VideoFormat{ffmpeg.VideoFormatUndetermined, ffmpeg.VideoFormatH264, ffmpeg.VideoFormatHevc} {
		enc, ok := ForVideoFormat(nut, ffmpeg.FrameState{VideoFormat: vf})
		require.True(t, ok)
		assert.Equal(t, "rawvideo", enc.Name())
		assert.Equal(t, ffmpeg.VideoFormatRaw, enc.NextState(ffmpeg.FrameState{}).VideoFormat)
	}
}

func TestCopyLeavesStateUntouched(t *testing.T) {
	enc, ok := ForVideoFormat(ffmpeg.FFmpegState{}, ffmpeg.FrameState{VideoFormat: ffmpeg.VideoFormatCopy})
	require.True(t, ok)

	in := ffmpeg.FrameState{VideoFormat: ffmpeg.VideoFormatHevc, VideoProfile: "main"}
	assert.Equal(t, in, enc.NextState(in))
}
