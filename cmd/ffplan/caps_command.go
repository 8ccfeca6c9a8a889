// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ManuGH/ffplan/internal/ffmpeg"
	"github.com/ManuGH/ffplan/internal/ffmpeg/capabilities"
)

// probeFunc is swapped in tests.
var probeFunc = capabilities.Probe

type capsReport struct {
	FFmpeg           string   `yaml:"ffmpeg"`
	Backend          string   `yaml:"backend"`
	Ready            bool     `yaml:"ready"`
	HWAccels         []string `yaml:"hwaccels"`
	HardwareDecoders []string `yaml:"hardwareDecoders"`
	HardwareEncoders []string `yaml:"hardwareEncoders"`
}

func newCapsCommand(ctx *commandContext) *cobra.Command {
	var backend string

	cmd := &cobra.Command{
		Use:   "caps",
		Short: "Probe the ffmpeg binary for hardware acceleration support",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			mode, ok := ffmpeg.ParseHardwareAccelerationMode(backend)
			if !ok || mode == ffmpeg.HardwareAccelerationNone {
				return fmt.Errorf("unsupported --backend %q", backend)
			}

			cfg := ctx.cfg
			result, err := probeFunc(cmd.Context(), cfg.FFmpegPath)
			pf := capabilities.NewPreflight(cfg.Hardware, string(mode))
			pf.Record(result, err)
			if err != nil {
				return fmt.Errorf("%w: %w", capabilities.ErrProbeFailed, err)
			}

			suffix := "_" + string(mode)
			report := capsReport{
				FFmpeg:           cfg.FFmpegPath,
				Backend:          string(mode),
				Ready:            pf.IsReady(),
				HWAccels:         sortedKeys(result.HWAccels, ""),
				HardwareDecoders: sortedKeys(result.Decoders, suffix),
				HardwareEncoders: sortedKeys(result.Encoders, suffix),
			}
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(report); err != nil {
				return err
			}
			return enc.Close()
		},
	}

	cmd.Flags().StringVar(&backend, "backend", string(ffmpeg.HardwareAccelerationRkmpp), "Hardware backend to check")
	return cmd
}

func sortedKeys(m map[string]bool, suffix string) []string {
	out := make([]string, 0, len(m))
	for k, ok := range m {
		if ok && strings.HasSuffix(k, suffix) {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}
