// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package app wires configuration into a pipeline builder.
package app

import (
	"context"

	"github.com/ManuGH/ffplan/internal/config"
	"github.com/ManuGH/ffplan/internal/ffmpeg"
	"github.com/ManuGH/ffplan/internal/ffmpeg/capabilities"
	"github.com/ManuGH/ffplan/internal/ffmpeg/pipeline"
	"github.com/ManuGH/ffplan/internal/log"
)

// ProbeFunc runs the capability probe. Replaced in tests.
type ProbeFunc func(ctx context.Context, ffmpegPath string) (capabilities.ProbeResult, error)

// Capabilities returns the capability collaborator for cfg. Hardware
// backends are gated behind a preflight; when cfg.Probe is set the probe
// runs now and its outcome, failure included, is recorded.
func Capabilities(ctx context.Context, cfg config.AppConfig, probe ProbeFunc) (capabilities.HardwareCapabilities, *capabilities.Preflight) {
	if cfg.Backend == ffmpeg.HardwareAccelerationNone || cfg.Backend == "" {
		return capabilities.NoHardware{}, nil
	}
	pf := capabilities.NewPreflight(cfg.Hardware, string(cfg.Backend))
	if !cfg.Probe {
		logger := log.WithComponent("app")
		logger.Warn().
			Str(log.FieldBackend, string(cfg.Backend)).
			Msg("capability probe disabled; hardware answers fall back to software")
		return pf, pf
	}
	if probe == nil {
		probe = capabilities.Probe
	}
	pf.Record(probe(ctx, cfg.FFmpegPath))
	return pf, pf
}

// NewBuilder builds the pipeline builder for cfg. The preflight is nil for
// the software backend.
func NewBuilder(ctx context.Context, cfg config.AppConfig, probe ProbeFunc, opts ...pipeline.BuilderOption) (*pipeline.Builder, *capabilities.Preflight, error) {
	caps, pf := Capabilities(ctx, cfg, probe)
	b, err := pipeline.NewForBackend(cfg.Backend, caps, opts...)
	if err != nil {
		return nil, nil, err
	}
	return b, pf, nil
}
