// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package capabilities

import (
	"fmt"
	"sync"

	"github.com/ManuGH/ffplan/internal/ffmpeg"
	"github.com/ManuGH/ffplan/internal/ffmpeg/format"
)

// Preflight gates another HardwareCapabilities behind a probe of the ffmpeg
// binary.
//
// Fail-closed: until Record has been called every query answers Software,
// and encoders are only Hardware if the probe listed the concrete encoder
// (e.g. "hevc_rkmpp"). A probe that failed to run is not "no hardware": the
// error is returned from every query so the build aborts.
type Preflight struct {
	next    HardwareCapabilities
	backend string

	mu       sync.RWMutex
	checked  bool
	probeErr error
	result   ProbeResult
}

// NewPreflight wraps next for the named hwaccel backend ("rkmpp").
func NewPreflight(next HardwareCapabilities, backend string) *Preflight {
	return &Preflight{next: next, backend: backend}
}

// Record stores the outcome of a probe. Called once at startup.
func (p *Preflight) Record(result ProbeResult, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.checked = true
	p.probeErr = err
	p.result = result
}

// IsReady returns true only if the probe ran, succeeded and listed the
// backend's hwaccel.
func (p *Preflight) IsReady() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.checked && p.probeErr == nil && p.result.HWAccels[p.backend]
}

// IsEncoderReady returns true only if the probe listed encoder.
func (p *Preflight) IsEncoderReady(encoder string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.checked && p.probeErr == nil && p.result.Encoders[encoder]
}

// Err returns the recorded probe failure, if any.
func (p *Preflight) Err() error {
	return p.failure()
}

func (p *Preflight) failure() error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.probeErr != nil {
		return fmt.Errorf("%w: %v", ErrProbeFailed, p.probeErr)
	}
	return nil
}

func (p *Preflight) CanDecode(codec, profile string, pixelFormat format.PixelFormat, isHdr bool) (Capability, error) {
	if err := p.failure(); err != nil {
		return Unsupported, err
	}
	c, err := p.next.CanDecode(codec, profile, pixelFormat, isHdr)
	if err != nil || c != Hardware {
		return c, err
	}
	if !p.IsReady() {
		return Software, nil
	}
	return Hardware, nil
}

func (p *Preflight) CanEncode(videoFormat ffmpeg.VideoFormat, profile string, pixelFormat format.PixelFormat) (Capability, error) {
	if err := p.failure(); err != nil {
		return Unsupported, err
	}
	c, err := p.next.CanEncode(videoFormat, profile, pixelFormat)
	if err != nil || c != Hardware {
		return c, err
	}
	if !p.IsReady() || !p.IsEncoderReady(string(videoFormat)+"_"+p.backend) {
		return Software, nil
	}
	return Hardware, nil
}
