// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"github.com/ManuGH/ffplan/internal/ffmpeg"
	"github.com/ManuGH/ffplan/internal/ffmpeg/capabilities"
)

// AppConfig is the effective configuration after defaults, file and env.
type AppConfig struct {
	Version    string
	LogLevel   string
	Backend    ffmpeg.HardwareAccelerationMode
	FFmpegPath string
	// Probe runs the ffmpeg capability probe before planning.
	Probe     bool
	Hardware  capabilities.Table
	API       APIConfig
	Telemetry TelemetryConfig
}

// APIConfig configures the planning HTTP server.
type APIConfig struct {
	ListenAddr         string
	RateLimitPerMinute int
}

// TelemetryConfig configures OpenTelemetry tracing.
type TelemetryConfig struct {
	Enabled      bool
	Exporter     string
	Endpoint     string
	SamplingRate float64
}

// FileConfig is the on-disk YAML shape. Pointer fields distinguish
// "not set" from zero values.
type FileConfig struct {
	LogLevel   string               `yaml:"logLevel,omitempty"`
	Backend    string               `yaml:"backend,omitempty"`
	FFmpegPath string               `yaml:"ffmpegPath,omitempty"`
	Probe      *bool                `yaml:"probe,omitempty"`
	Hardware   *capabilities.Table  `yaml:"hardware,omitempty"`
	API        *FileAPIConfig       `yaml:"api,omitempty"`
	Telemetry  *FileTelemetryConfig `yaml:"telemetry,omitempty"`
}

// FileAPIConfig is the api: block.
type FileAPIConfig struct {
	ListenAddr         string `yaml:"listenAddr,omitempty"`
	RateLimitPerMinute *int   `yaml:"rateLimitPerMinute,omitempty"`
}

// FileTelemetryConfig is the telemetry: block.
type FileTelemetryConfig struct {
	Enabled      *bool    `yaml:"enabled,omitempty"`
	Exporter     string   `yaml:"exporter,omitempty"`
	Endpoint     string   `yaml:"endpoint,omitempty"`
	SamplingRate *float64 `yaml:"samplingRate,omitempty"`
}
