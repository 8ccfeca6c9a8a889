// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package pipeline

import (
	"strings"

	"github.com/ManuGH/ffplan/internal/ffmpeg"
)

// Plan is the result of one build.
type Plan struct {
	BuildID     string
	Backend     ffmpeg.HardwareAccelerationMode
	Steps       []ffmpeg.PipelineStep
	FFmpegState ffmpeg.FFmpegState
	FrameState  ffmpeg.FrameState
}

// Filters returns the non-empty filter expressions in plan order.
func (p Plan) Filters() []string {
	var out []string
	for _, s := range p.Steps {
		if f := s.Filter(); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// Args flattens the plan into an ffmpeg argument vector for input and
// output. Global options come first, then input options, the input, the
// filter chain and the output options.
func (p Plan) Args(input, output string) []string {
	args := []string{"-hide_banner", "-nostdin"}
	for _, s := range p.Steps {
		args = append(args, s.GlobalOptions()...)
	}
	for _, s := range p.Steps {
		args = append(args, s.InputOptions()...)
	}
	args = append(args, "-i", input)
	if filters := p.Filters(); len(filters) > 0 {
		args = append(args, "-vf", strings.Join(filters, ","))
	}
	for _, s := range p.Steps {
		args = append(args, s.OutputOptions()...)
	}
	if f := p.FFmpegState.OutputFormat; f != "" {
		args = append(args, "-f", string(f))
	}
	return append(args, output)
}

// StepDocument is the serialisable view of one step.
type StepDocument struct {
	Kind          ffmpeg.StepKind `json:"kind" yaml:"kind"`
	Name          string          `json:"name" yaml:"name"`
	GlobalOptions []string        `json:"globalOptions,omitempty" yaml:"globalOptions,omitempty"`
	InputOptions  []string        `json:"inputOptions,omitempty" yaml:"inputOptions,omitempty"`
	Filter        string          `json:"filter,omitempty" yaml:"filter,omitempty"`
	OutputOptions []string        `json:"outputOptions,omitempty" yaml:"outputOptions,omitempty"`
}

// Document is the serialisable view of a plan, used by the CLI and API.
type Document struct {
	BuildID      string                          `json:"buildId" yaml:"buildId"`
	Job          string                          `json:"job,omitempty" yaml:"job,omitempty"`
	Backend      ffmpeg.HardwareAccelerationMode `json:"backend" yaml:"backend"`
	OutputFormat ffmpeg.OutputFormatKind         `json:"outputFormat,omitempty" yaml:"outputFormat,omitempty"`
	DecodeMode   ffmpeg.HardwareAccelerationMode `json:"decodeMode" yaml:"decodeMode"`
	EncodeMode   ffmpeg.HardwareAccelerationMode `json:"encodeMode" yaml:"encodeMode"`
	VideoFormat  ffmpeg.VideoFormat              `json:"videoFormat,omitempty" yaml:"videoFormat,omitempty"`
	PixelFormat  string                          `json:"pixelFormat,omitempty" yaml:"pixelFormat,omitempty"`
	FrameSize    ffmpeg.FrameSize                `json:"frameSize" yaml:"frameSize"`
	Steps        []StepDocument                  `json:"steps" yaml:"steps"`
	Args         []string                        `json:"args,omitempty" yaml:"args,omitempty"`
}

// Document renders p. Args are included when input and output are set.
func (p Plan) Document(input, output string) Document {
	doc := Document{
		BuildID:      p.BuildID,
		Backend:      p.Backend,
		OutputFormat: p.FFmpegState.OutputFormat,
		DecodeMode:   p.FFmpegState.DecoderHardwareAccelerationMode,
		EncodeMode:   p.FFmpegState.EncoderHardwareAccelerationMode,
		VideoFormat:  p.FrameState.VideoFormat,
		FrameSize:    p.FrameState.ScaledSize,
		Steps:        make([]StepDocument, 0, len(p.Steps)),
	}
	if name, ok := p.FrameState.PixelFormatName(); ok {
		doc.PixelFormat = name
	}
	for _, s := range p.Steps {
		doc.Steps = append(doc.Steps, StepDocument{
			Kind:          s.Kind(),
			Name:          s.Name(),
			GlobalOptions: s.GlobalOptions(),
			InputOptions:  s.InputOptions(),
			Filter:        s.Filter(),
			OutputOptions: s.OutputOptions(),
		})
	}
	if input != "" && output != "" {
		doc.Args = p.Args(input, output)
	}
	return doc
}
