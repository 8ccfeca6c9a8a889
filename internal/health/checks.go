// SPDX-License-Identifier: MIT

package health

import (
	"context"
	"os/exec"

	"github.com/ManuGH/ffplan/internal/ffmpeg/capabilities"
)

// BinaryChecker checks that an executable resolves on PATH.
type BinaryChecker struct {
	name string
	path string
}

// NewBinaryChecker creates a checker for the executable at path.
func NewBinaryChecker(name, path string) *BinaryChecker {
	return &BinaryChecker{name: name, path: path}
}

func (c *BinaryChecker) Name() string {
	return c.name
}

func (c *BinaryChecker) Check(_ context.Context) CheckResult {
	resolved, err := exec.LookPath(c.path)
	if err != nil {
		return CheckResult{
			Status:  StatusUnhealthy,
			Error:   err.Error(),
			Message: c.path,
		}
	}
	return CheckResult{
		Status:  StatusHealthy,
		Message: resolved,
	}
}

// PreflightChecker reports the hardware capability preflight. The source
// returns nil for the software backend.
type PreflightChecker struct {
	source func() *capabilities.Preflight
}

// NewPreflightChecker creates a checker reading the current preflight.
func NewPreflightChecker(source func() *capabilities.Preflight) *PreflightChecker {
	return &PreflightChecker{source: source}
}

func (c *PreflightChecker) Name() string {
	return "hardware"
}

// Check is unhealthy when the probe failed: every build would abort. A
// probe that found no hardware only degrades, since planning falls back
// to software.
func (c *PreflightChecker) Check(_ context.Context) CheckResult {
	pf := c.source()
	if pf == nil {
		return CheckResult{Status: StatusHealthy, Message: "software backend"}
	}
	if err := pf.Err(); err != nil {
		return CheckResult{
			Status:  StatusUnhealthy,
			Error:   err.Error(),
			Message: "capability probe failed",
		}
	}
	if !pf.IsReady() {
		return CheckResult{
			Status:  StatusDegraded,
			Message: "hardware not confirmed; planning falls back to software",
		}
	}
	return CheckResult{Status: StatusHealthy, Message: "hardware ready"}
}
