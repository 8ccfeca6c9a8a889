// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ManuGH/ffplan/internal/ffmpeg"
	"github.com/ManuGH/ffplan/internal/ffmpeg/capabilities"
	"github.com/ManuGH/ffplan/internal/telemetry"
)

// Defaults.
const (
	DefaultLogLevel           = "info"
	DefaultFFmpegPath         = "ffmpeg"
	DefaultListenAddr         = ":8089"
	DefaultRateLimitPerMinute = 120
	DefaultSamplingRate       = 1.0
)

// Loader handles configuration loading with precedence.
type Loader struct {
	configPath string
	version    string
}

// NewLoader creates a loader for configPath. An empty path means
// defaults and environment only.
func NewLoader(configPath, version string) *Loader {
	return &Loader{configPath: configPath, version: version}
}

// Path is the config file this loader reads.
func (l *Loader) Path() string { return l.configPath }

// Load loads configuration with precedence: ENV > File > Defaults.
// Parse File (strict) -> Apply Env -> Validate.
func (l *Loader) Load() (AppConfig, error) {
	cfg := Defaults()

	if l.configPath != "" {
		fileCfg, err := LoadFileConfig(l.configPath)
		if err != nil {
			return cfg, fmt.Errorf("load config file: %w", err)
		}
		if err := mergeFileConfig(&cfg, fileCfg); err != nil {
			return cfg, fmt.Errorf("merge file config: %w", err)
		}
	}

	if err := mergeEnvConfig(&cfg); err != nil {
		return cfg, fmt.Errorf("merge env config: %w", err)
	}
	cfg.Version = l.version

	if err := Validate(cfg); err != nil {
		return cfg, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// Defaults is the configuration without file or environment.
func Defaults() AppConfig {
	return AppConfig{
		LogLevel:   DefaultLogLevel,
		Backend:    ffmpeg.HardwareAccelerationNone,
		FFmpegPath: DefaultFFmpegPath,
		Hardware:   capabilities.DefaultRkmppTable(),
		API: APIConfig{
			ListenAddr:         DefaultListenAddr,
			RateLimitPerMinute: DefaultRateLimitPerMinute,
		},
		Telemetry: TelemetryConfig{
			Exporter:     telemetry.ExporterGRPC,
			Endpoint:     "localhost:4317",
			SamplingRate: DefaultSamplingRate,
		},
	}
}

// LoadFileConfig reads a YAML config file with STRICT parsing. Unknown
// fields are fatal to prevent silent misconfiguration.
func LoadFileConfig(path string) (*FileConfig, error) {
	path = filepath.Clean(path)
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".yaml" && ext != ".yml" {
		return nil, fmt.Errorf("unsupported config format: %s (only YAML supported)", ext)
	}

	// #nosec G304 -- configuration file paths are provided by the operator via CLI/ENV
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return ParseFileConfig(data)
}

// ParseFileConfig decodes one strict YAML document.
func ParseFileConfig(data []byte) (*FileConfig, error) {
	var fileCfg FileConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	if err := dec.Decode(&fileCfg); err != nil {
		if errors.Is(err, io.EOF) {
			return &FileConfig{}, nil
		}
		if strings.Contains(err.Error(), "field") && strings.Contains(err.Error(), "not found") {
			return nil, fmt.Errorf("%w: strict config parse error: %w", ErrUnknownConfigField, err)
		}
		return nil, fmt.Errorf("strict config parse error: %w", err)
	}

	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config file contains multiple documents or trailing content")
	}
	return &fileCfg, nil
}

func mergeFileConfig(dst *AppConfig, src *FileConfig) error {
	if src.LogLevel != "" {
		dst.LogLevel = src.LogLevel
	}
	if src.Backend != "" {
		backend, ok := ffmpeg.ParseHardwareAccelerationMode(src.Backend)
		if !ok {
			return fmt.Errorf("%w: %q", ErrInvalidBackend, src.Backend)
		}
		dst.Backend = backend
	}
	if src.FFmpegPath != "" {
		dst.FFmpegPath = src.FFmpegPath
	}
	if src.Probe != nil {
		dst.Probe = *src.Probe
	}
	if src.Hardware != nil {
		dst.Hardware = *src.Hardware
	}
	if src.API != nil {
		if src.API.ListenAddr != "" {
			dst.API.ListenAddr = src.API.ListenAddr
		}
		if src.API.RateLimitPerMinute != nil {
			dst.API.RateLimitPerMinute = *src.API.RateLimitPerMinute
		}
	}
	if t := src.Telemetry; t != nil {
		if t.Enabled != nil {
			dst.Telemetry.Enabled = *t.Enabled
		}
		if t.Exporter != "" {
			dst.Telemetry.Exporter = t.Exporter
		}
		if t.Endpoint != "" {
			dst.Telemetry.Endpoint = t.Endpoint
		}
		if t.SamplingRate != nil {
			dst.Telemetry.SamplingRate = *t.SamplingRate
		}
	}
	return nil
}

func mergeEnvConfig(cfg *AppConfig) error {
	cfg.LogLevel = ParseString(EnvLogLevel, cfg.LogLevel)
	if raw := ParseString(EnvBackend, ""); raw != "" {
		backend, ok := ffmpeg.ParseHardwareAccelerationMode(raw)
		if !ok {
			return fmt.Errorf("%w: %s=%q", ErrInvalidBackend, EnvBackend, raw)
		}
		cfg.Backend = backend
	}
	cfg.FFmpegPath = ParseString(EnvFFmpegPath, cfg.FFmpegPath)
	cfg.Probe = ParseBool(EnvProbe, cfg.Probe)
	cfg.API.ListenAddr = ParseString(EnvListenAddr, cfg.API.ListenAddr)
	cfg.Telemetry.Enabled = ParseBool(EnvTelemetryEnabled, cfg.Telemetry.Enabled)
	return nil
}
