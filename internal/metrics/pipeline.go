// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package metrics exposes the Prometheus counters of the pipeline builder.
package metrics

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	pipelineBuildsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ffplan_pipeline_builds_total",
		Help: "Total number of pipeline builds by backend, decode mode, encode mode and outcome",
	}, []string{"backend", "decode", "encode", "outcome"})

	hardwareFallbackTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ffplan_hardware_fallback_total",
		Help: "Total number of decode/encode decisions that fell back from hardware to software",
	}, []string{"backend", "direction", "codec"})

	pipelineStepsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ffplan_pipeline_steps_total",
		Help: "Total number of pipeline steps emitted by kind",
	}, []string{"kind"})
)

// Build outcomes.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// RecordPipelineBuild counts one finished build.
func RecordPipelineBuild(backend, decodeMode, encodeMode, outcome string) {
	pipelineBuildsTotal.WithLabelValues(
		normalizeBackendLabel(backend),
		normalizeModeLabel(decodeMode),
		normalizeModeLabel(encodeMode),
		normalizeOutcomeLabel(outcome),
	).Inc()
}

// RecordHardwareFallback counts a direction ("decode" or "encode") the
// hardware backend could not serve.
func RecordHardwareFallback(backend, direction, codec string) {
	hardwareFallbackTotal.WithLabelValues(
		normalizeBackendLabel(backend),
		normalizeDirectionLabel(direction),
		normalizeCodecLabel(codec),
	).Inc()
}

// RecordPipelineStep counts one emitted step of the given kind.
func RecordPipelineStep(kind string) {
	pipelineStepsTotal.WithLabelValues(kind).Inc()
}

func normalizeBackendLabel(backend string) string {
	switch v := strings.ToLower(strings.TrimSpace(backend)); v {
	case "none", "software", "rkmpp":
		return v
	default:
		return "unknown"
	}
}

func normalizeModeLabel(mode string) string {
	switch v := strings.ToLower(strings.TrimSpace(mode)); v {
	case "none", "rkmpp":
		return v
	case "":
		return "none"
	default:
		return "unknown"
	}
}

func normalizeOutcomeLabel(outcome string) string {
	if outcome == OutcomeSuccess {
		return OutcomeSuccess
	}
	return OutcomeError
}

func normalizeDirectionLabel(direction string) string {
	switch v := strings.ToLower(strings.TrimSpace(direction)); v {
	case "decode", "encode":
		return v
	default:
		return "unknown"
	}
}

func normalizeCodecLabel(codec string) string {
	switch v := strings.ToLower(strings.TrimSpace(codec)); v {
	case "h264", "hevc", "mpeg2video", "mpeg4", "vc1", "vp9", "av1", "msmpeg4v3", "rawvideo":
		return v
	default:
		return "other"
	}
}
