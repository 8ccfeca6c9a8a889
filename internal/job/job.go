// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package job describes one planning request: the probed source stream and
// the desired output. Jobs come from YAML files (CLI) or JSON bodies (API).
package job

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ManuGH/ffplan/internal/ffmpeg"
	"github.com/ManuGH/ffplan/internal/ffmpeg/format"
	"github.com/ManuGH/ffplan/internal/ffmpeg/pipeline"
)

// ErrInvalidJob classifies job descriptions that cannot be planned.
var ErrInvalidJob = errors.New("invalid job")

// Spec is one job.
type Spec struct {
	Name         string     `yaml:"name,omitempty" json:"name,omitempty"`
	Input        string     `yaml:"input,omitempty" json:"input,omitempty"`
	Output       string     `yaml:"output,omitempty" json:"output,omitempty"`
	OutputFormat string     `yaml:"outputFormat,omitempty" json:"outputFormat,omitempty"`
	Realtime     bool       `yaml:"realtime,omitempty" json:"realtime,omitempty"`
	Video        *VideoSpec `yaml:"video,omitempty" json:"video,omitempty"`
	Target       TargetSpec `yaml:"target" json:"target"`
}

// VideoSpec is the source stream as reported by ffprobe.
type VideoSpec struct {
	Index             int              `yaml:"index,omitempty" json:"index,omitempty"`
	Codec             string           `yaml:"codec" json:"codec"`
	Profile           string           `yaml:"profile,omitempty" json:"profile,omitempty"`
	PixelFormat       string           `yaml:"pixelFormat,omitempty" json:"pixelFormat,omitempty"`
	Size              ffmpeg.FrameSize `yaml:"size" json:"size"`
	SampleAspectRatio string           `yaml:"sampleAspectRatio,omitempty" json:"sampleAspectRatio,omitempty"`
	Color             ColorSpec        `yaml:"color,omitempty" json:"color,omitempty"`
}

// ColorSpec carries the stream's color tags.
type ColorSpec struct {
	Range     string `yaml:"range,omitempty" json:"range,omitempty"`
	Space     string `yaml:"space,omitempty" json:"space,omitempty"`
	Transfer  string `yaml:"transfer,omitempty" json:"transfer,omitempty"`
	Primaries string `yaml:"primaries,omitempty" json:"primaries,omitempty"`
}

// TargetSpec is the desired output. Unset sizes keep the source geometry.
type TargetSpec struct {
	Codec       string           `yaml:"codec" json:"codec"`
	Profile     string           `yaml:"profile,omitempty" json:"profile,omitempty"`
	PixelFormat string           `yaml:"pixelFormat,omitempty" json:"pixelFormat,omitempty"`
	Scaled      ffmpeg.FrameSize `yaml:"scaled,omitempty" json:"scaled,omitempty"`
	Padded      ffmpeg.FrameSize `yaml:"padded,omitempty" json:"padded,omitempty"`
	Cropped     ffmpeg.FrameSize `yaml:"cropped,omitempty" json:"cropped,omitempty"`
}

// Load reads a YAML job file. The job name defaults to the file name.
func Load(path string) (Spec, error) {
	// #nosec G304 -- job files are provided by the operator via CLI
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return Spec{}, fmt.Errorf("read job: %w", err)
	}
	spec, err := ParseYAML(data)
	if err != nil {
		return Spec{}, fmt.Errorf("%s: %w", path, err)
	}
	if spec.Name == "" {
		spec.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return spec, nil
}

// ParseYAML decodes a job strictly; unknown keys are rejected.
func ParseYAML(data []byte) (Spec, error) {
	var spec Spec
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&spec); err != nil {
		if errors.Is(err, io.EOF) {
			return Spec{}, fmt.Errorf("%w: empty job", ErrInvalidJob)
		}
		return Spec{}, fmt.Errorf("%w: %w", ErrInvalidJob, err)
	}
	return spec, nil
}

// DecodeJSON decodes a job body strictly.
func DecodeJSON(r io.Reader) (Spec, error) {
	var spec Spec
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&spec); err != nil {
		return Spec{}, fmt.Errorf("%w: %w", ErrInvalidJob, err)
	}
	return spec, nil
}

// PipelineInput converts the job into builder input. A job without a
// video section yields an input without a video stream.
func (s Spec) PipelineInput() (pipeline.Input, error) {
	in := pipeline.Input{}

	if s.OutputFormat != "" {
		of, ok := ffmpeg.ParseOutputFormat(s.OutputFormat)
		if !ok {
			return in, fmt.Errorf("%w: unknown output format %q", ErrInvalidJob, s.OutputFormat)
		}
		in.FFmpegState.OutputFormat = of
	}
	in.FFmpegState.Realtime = s.Realtime

	if s.Video != nil {
		if strings.TrimSpace(s.Video.Codec) == "" {
			return in, fmt.Errorf("%w: video.codec is required", ErrInvalidJob)
		}
		in.Video = &ffmpeg.VideoStream{
			Index:       s.Video.Index,
			Codec:       s.Video.Codec,
			Profile:     s.Video.Profile,
			PixelFormat: parsePixelFormat(s.Video.PixelFormat),
			ColorParams: ffmpeg.ColorParams{
				ColorRange:     s.Video.Color.Range,
				ColorSpace:     s.Video.Color.Space,
				ColorTransfer:  s.Video.Color.Transfer,
				ColorPrimaries: s.Video.Color.Primaries,
			},
			FrameSize:         s.Video.Size,
			SampleAspectRatio: s.Video.SampleAspectRatio,
		}
	}

	in.Desired = ffmpeg.FrameState{
		VideoFormat:  ffmpeg.ParseVideoFormat(s.Target.Codec),
		VideoProfile: s.Target.Profile,
		PixelFormat:  parsePixelFormat(s.Target.PixelFormat),
		ScaledSize:   s.Target.Scaled,
		PaddedSize:   s.Target.Padded,
		CroppedSize:  s.Target.Cropped,
	}
	return in, nil
}

func parsePixelFormat(name string) format.PixelFormat {
	if strings.TrimSpace(name) == "" {
		return nil
	}
	return format.Parse(name)
}
