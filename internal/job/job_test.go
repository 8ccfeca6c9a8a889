// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package job

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuGH/ffplan/internal/ffmpeg"
	"github.com/ManuGH/ffplan/internal/ffmpeg/format"
)

const sampleJob = `
input: /media/movie.mkv
output: pipe:1
outputFormat: nut
realtime: true
video:
  codec: hevc
  profile: Main 10
  pixelFormat: yuv420p10le
  size: {width: 3840, height: 2160}
  color:
    range: tv
    space: bt2020nc
    transfer: smpte2084
    primaries: bt2020
target:
  codec: h264
  profile: high
  pixelFormat: yuv420p
  scaled: {width: 1920, height: 1080}
`

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "movie.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleJob), 0o600))

	spec, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "movie", spec.Name)
	assert.Equal(t, "/media/movie.mkv", spec.Input)

	in, err := spec.PipelineInput()
	require.NoError(t, err)
	require.NotNil(t, in.Video)
	assert.Equal(t, ffmpeg.OutputFormatNut, in.FFmpegState.OutputFormat)
	assert.True(t, in.FFmpegState.Realtime)
	assert.True(t, in.Video.ColorParams.IsHdr())
	assert.Equal(t, 10, in.Video.BitDepth())
	assert.Equal(t, ffmpeg.VideoFormatH264, in.Desired.VideoFormat)
	assert.Equal(t, format.FFmpegYUV420P, in.Desired.PixelFormat.FFmpegName())
	assert.Equal(t, ffmpeg.FrameSize{Width: 1920, Height: 1080}, in.Desired.ScaledSize)
	assert.True(t, in.Desired.PaddedSize.IsZero())
}

func TestParseYAML_Strict(t *testing.T) {
	_, err := ParseYAML([]byte("target: {codec: h264}\nbitrate: 5M\n"))
	assert.ErrorIs(t, err, ErrInvalidJob)

	_, err = ParseYAML(nil)
	assert.ErrorIs(t, err, ErrInvalidJob)
}

func TestDecodeJSON(t *testing.T) {
	spec, err := DecodeJSON(strings.NewReader(`{"video":{"codec":"h264","size":{"width":1280,"height":720}},"target":{"codec":"hevc"}}`))
	require.NoError(t, err)
	in, err := spec.PipelineInput()
	require.NoError(t, err)
	assert.Equal(t, "h264", in.Video.Codec)
	assert.Nil(t, in.Video.PixelFormat, "absent pixel format stays absent")

	_, err = DecodeJSON(strings.NewReader(`{"target":{"codec":"h264"},"extra":1}`))
	assert.ErrorIs(t, err, ErrInvalidJob)
}

func TestPipelineInput_Errors(t *testing.T) {
	_, err := Spec{OutputFormat: "avi"}.PipelineInput()
	assert.ErrorIs(t, err, ErrInvalidJob)

	_, err = Spec{Video: &VideoSpec{}}.PipelineInput()
	assert.ErrorIs(t, err, ErrInvalidJob)

	in, err := Spec{Target: TargetSpec{Codec: "h264"}}.PipelineInput()
	require.NoError(t, err)
	assert.Nil(t, in.Video)
}
