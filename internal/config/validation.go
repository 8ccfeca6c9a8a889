// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ManuGH/ffplan/internal/ffmpeg"
	"github.com/ManuGH/ffplan/internal/ffmpeg/capabilities"
	"github.com/ManuGH/ffplan/internal/telemetry"
)

// Validate checks the effective configuration. All problems are reported
// together.
func Validate(cfg AppConfig) error {
	var errs []error

	if _, err := zerolog.ParseLevel(cfg.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("logLevel: %w", err))
	}
	switch cfg.Backend {
	case ffmpeg.HardwareAccelerationNone, ffmpeg.HardwareAccelerationRkmpp:
	default:
		errs = append(errs, fmt.Errorf("backend: %w: %q", ErrInvalidBackend, cfg.Backend))
	}
	if strings.TrimSpace(cfg.FFmpegPath) == "" {
		errs = append(errs, errors.New("ffmpegPath: must not be empty"))
	}
	errs = append(errs, validateRules("hardware.decoders", cfg.Hardware.Decoders)...)
	errs = append(errs, validateRules("hardware.encoders", cfg.Hardware.Encoders)...)

	if cfg.API.RateLimitPerMinute < 0 {
		errs = append(errs, fmt.Errorf("api.rateLimitPerMinute: must be >= 0, got %d", cfg.API.RateLimitPerMinute))
	}
	if cfg.Telemetry.Enabled {
		switch cfg.Telemetry.Exporter {
		case telemetry.ExporterGRPC, telemetry.ExporterHTTP:
		default:
			errs = append(errs, fmt.Errorf("telemetry.exporter: unsupported %q (supported: grpc, http)", cfg.Telemetry.Exporter))
		}
		if cfg.Telemetry.Endpoint == "" {
			errs = append(errs, errors.New("telemetry.endpoint: required when telemetry is enabled"))
		}
	}
	if cfg.Telemetry.SamplingRate < 0 || cfg.Telemetry.SamplingRate > 1 {
		errs = append(errs, fmt.Errorf("telemetry.samplingRate: must be within [0,1], got %v", cfg.Telemetry.SamplingRate))
	}
	return errors.Join(errs...)
}

func validateRules(field string, rules []capabilities.Rule) []error {
	var errs []error
	for i, r := range rules {
		if strings.TrimSpace(r.Codec) == "" {
			errs = append(errs, fmt.Errorf("%s[%d].codec: required", field, i))
		}
		for _, d := range r.BitDepths {
			if d < 8 || d > 16 {
				errs = append(errs, fmt.Errorf("%s[%d].bitDepths: %d out of range", field, i, d))
			}
		}
	}
	return errs
}
