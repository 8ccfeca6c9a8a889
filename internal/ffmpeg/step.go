// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package ffmpeg

// StepKind classifies a pipeline step. The order of the constants below is
// the order the steps appear in a plan.
type StepKind string

const (
	StepInputOption  StepKind = "input_option"
	StepGlobalOption StepKind = "global_option"
	StepDecoder      StepKind = "decoder"
	StepFilter       StepKind = "filter"
	StepOutputOption StepKind = "output_option"
	StepEncoder      StepKind = "encoder"
)

// Rank is the position of the kind in a plan.
func (k StepKind) Rank() int {
	switch k {
	case StepInputOption:
		return 0
	case StepGlobalOption:
		return 1
	case StepDecoder:
		return 2
	case StepFilter:
		return 3
	case StepOutputOption:
		return 4
	case StepEncoder:
		return 5
	}
	return 6
}

// PipelineStep is one unit of a plan. A step may contribute global, input,
// filter and output options; it always describes how it transforms the frame.
type PipelineStep interface {
	Kind() StepKind
	Name() string
	GlobalOptions() []string
	InputOptions() []string
	// Filter is the filtergraph expression; empty means none.
	Filter() string
	OutputOptions() []string
	NextState(FrameState) FrameState
}

// NoOptions can be embedded by steps that contribute only some options.
type NoOptions struct{}

func (NoOptions) GlobalOptions() []string { return nil }
func (NoOptions) InputOptions() []string  { return nil }
func (NoOptions) Filter() string          { return "" }
func (NoOptions) OutputOptions() []string { return nil }
