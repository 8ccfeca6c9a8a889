// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package capabilities

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/ManuGH/ffplan/internal/log"
	"github.com/ManuGH/ffplan/internal/procgroup"
)

// ErrProbeFailed classifies failures of the capability probe itself.
var ErrProbeFailed = errors.New("capability probe failed")

const defaultProbeTimeout = 10 * time.Second

// ProbeResult lists what an ffmpeg build reports.
type ProbeResult struct {
	HWAccels map[string]bool
	Encoders map[string]bool
	Decoders map[string]bool
}

// Probe asks the ffmpeg binary for its hwaccels, encoders and decoders.
func Probe(ctx context.Context, ffmpegPath string) (ProbeResult, error) {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	logger := log.WithComponent("capabilities")
	logger.Info().Str("ffmpeg", ffmpegPath).Msg("capability probe: starting")

	hwaccels, err := runCapture(ctx, ffmpegPath, "-hide_banner", "-hwaccels")
	if err != nil {
		return ProbeResult{}, fmt.Errorf("probe hardware accelerators: %w", err)
	}
	encoders, err := runCapture(ctx, ffmpegPath, "-hide_banner", "-encoders")
	if err != nil {
		return ProbeResult{}, fmt.Errorf("probe encoders: %w", err)
	}
	decoders, err := runCapture(ctx, ffmpegPath, "-hide_banner", "-decoders")
	if err != nil {
		return ProbeResult{}, fmt.Errorf("probe decoders: %w", err)
	}

	res := ProbeResult{
		HWAccels: ParseHWAccels(hwaccels),
		Encoders: ParseCodecList(encoders),
		Decoders: ParseCodecList(decoders),
	}
	logger.Info().
		Int("hwaccels", len(res.HWAccels)).
		Int("encoders", len(res.Encoders)).
		Int("decoders", len(res.Decoders)).
		Msg("capability probe: done")
	return res, nil
}

func runCapture(ctx context.Context, bin string, args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultProbeTimeout)
	defer cancel()
	cmd := exec.CommandContext(ctx, bin, args...)
	procgroup.Set(cmd)
	out, err := cmd.Output()
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// ParseHWAccels reads the list printed after "Hardware acceleration methods:".
func ParseHWAccels(out string) map[string]bool {
	res := make(map[string]bool)
	started := false
	sc := bufio.NewScanner(strings.NewReader(out))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "Hardware acceleration methods") {
			started = true
			continue
		}
		if started {
			res[strings.ToLower(line)] = true
		}
	}
	return res
}

// ParseCodecList reads `ffmpeg -encoders`/`-decoders` output. Entries follow
// the "------" separator as "<flags> <name> <description>".
func ParseCodecList(out string) map[string]bool {
	res := make(map[string]bool)
	started := false
	sc := bufio.NewScanner(strings.NewReader(out))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if !started {
			started = strings.HasPrefix(line, "------")
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 || len(fields[0]) != 6 {
			continue
		}
		res[fields[1]] = true
	}
	return res
}
