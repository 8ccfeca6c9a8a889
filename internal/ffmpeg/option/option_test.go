// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package option

import (
	"testing"

	"github.com/ManuGH/ffplan/internal/ffmpeg"
	"github.com/ManuGH/ffplan/internal/ffmpeg/format"
	"github.com/stretchr/testify/assert"
)

func TestRkmppHardwareAcceleration(t *testing.T) {
	opt := RkmppHardwareAcceleration{}
	assert.Equal(t, []string{"-hwaccel", "rkmpp"}, opt.GlobalOptions())
	assert.Equal(t, ffmpeg.StepGlobalOption, opt.Kind())
	assert.Nil(t, opt.InputOptions())
	assert.Empty(t, opt.Filter())

	tests := []struct {
		name     string
		in       format.PixelFormat
		wantFF   string
		wantName string
	}{
		{"absent becomes nv12", nil, format.FFmpegNV12, format.FFmpegUnknown},
		{"8-bit planar becomes nv12", format.YUV420P{}, format.FFmpegNV12, format.FFmpegYUV420P},
		{"10-bit planar becomes p010", format.YUV420P10LE{}, format.FFmpegP010, format.FFmpegYUV420P10LE},
		{"nv15 is kept", format.NewNV15("yuv420p10le"), format.FFmpegNV15, "yuv420p10le"},
		{"p010 is kept", format.NewP010("yuv420p10le"), format.FFmpegP010, "yuv420p10le"},
		{"nv12 is kept", format.NewNV12("yuv420p"), format.FFmpegNV12, "yuv420p"},
		{"unknown deep layout becomes p010", format.Parse("yuv444p10le"), format.FFmpegP010, "yuv444p10le"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := opt.NextState(ffmpeg.FrameState{PixelFormat: tt.in})
			assert.Equal(t, tt.wantFF, next.PixelFormat.FFmpegName())
			assert.Equal(t, tt.wantName, next.PixelFormat.Name())
		})
	}
}

func TestRealtimeInput(t *testing.T) {
	opt := RealtimeInput{}
	assert.Equal(t, []string{"-re"}, opt.InputOptions())
	assert.True(t, opt.NextState(ffmpeg.FrameState{}).Realtime)
}

func TestPixelFormatOutput(t *testing.T) {
	opt := NewPixelFormatOutput(format.NewNV12("yuv420p"))
	assert.Equal(t, []string{"-pix_fmt", "nv12"}, opt.OutputOptions())
	assert.Equal(t, ffmpeg.StepOutputOption, opt.Kind())

	next := opt.NextState(ffmpeg.FrameState{PixelFormat: format.YUV420P{}})
	assert.Equal(t, format.FFmpegNV12, next.PixelFormat.FFmpegName())
}
