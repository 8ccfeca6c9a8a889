// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package format describes the pixel formats a frame can carry between
// pipeline steps.
//
// Every format has two names: Name is the semantic (source) layout the frame
// started with, FFmpegName is the identifier ffmpeg understands for the
// layout the frame is actually in. Hardware surfaces keep the semantic name
// of the source so later steps can still reason about the original layout.
package format

import "strings"

// FFmpeg identifiers for the layouts this package knows about.
const (
	FFmpegNV12        = "nv12"
	FFmpegNV15        = "nv15"
	FFmpegP010        = "p010le"
	FFmpegYUV420P     = "yuv420p"
	FFmpegYUV420P10LE = "yuv420p10le"
	FFmpegUnknown     = "unknown"
)

// PixelFormat is implemented by every supported layout.
type PixelFormat interface {
	Name() string
	FFmpegName() string
	BitDepth() int
}

// NV12 is the hardware-preferred 8-bit packed layout.
type NV12 struct{ name string }

// NewNV12 returns an NV12 surface carrying the given semantic name.
func NewNV12(name string) NV12 { return NV12{name: name} }

func (f NV12) Name() string       { return orDefault(f.name, FFmpegNV12) }
func (f NV12) FFmpegName() string { return FFmpegNV12 }
func (f NV12) BitDepth() int      { return 8 }

// NV15 is the Rockchip 10-bit packed layout.
type NV15 struct{ name string }

// NewNV15 returns an NV15 surface carrying the given semantic name.
func NewNV15(name string) NV15 { return NV15{name: name} }

func (f NV15) Name() string       { return orDefault(f.name, FFmpegNV15) }
func (f NV15) FFmpegName() string { return FFmpegNV15 }
func (f NV15) BitDepth() int      { return 10 }

// P010 is the hardware-preferred extended (10-bit) layout.
type P010 struct{ name string }

// NewP010 returns a P010 surface carrying the given semantic name.
func NewP010(name string) P010 { return P010{name: name} }

func (f P010) Name() string       { return orDefault(f.name, FFmpegP010) }
func (f P010) FFmpegName() string { return FFmpegP010 }
func (f P010) BitDepth() int      { return 10 }

// YUV420P is the generic planar layout produced by software filters.
type YUV420P struct{}

func (YUV420P) Name() string       { return FFmpegYUV420P }
func (YUV420P) FFmpegName() string { return FFmpegYUV420P }
func (YUV420P) BitDepth() int      { return 8 }

// YUV420P10LE is the 10-bit generic planar layout.
type YUV420P10LE struct{}

func (YUV420P10LE) Name() string       { return FFmpegYUV420P10LE }
func (YUV420P10LE) FFmpegName() string { return FFmpegYUV420P10LE }
func (YUV420P10LE) BitDepth() int      { return 10 }

// Unknown annotates a layout that could not be recognised. Its bit depth is
// never reported below 8.
type Unknown struct {
	Raw   string
	Depth int
}

func (f Unknown) Name() string       { return orDefault(f.Raw, FFmpegUnknown) }
func (f Unknown) FFmpegName() string { return FFmpegUnknown }

func (f Unknown) BitDepth() int {
	if f.Depth < 8 {
		return 8
	}
	return f.Depth
}

// Parse maps an ffmpeg/ffprobe pixel format name to a PixelFormat.
// Unrecognised names degrade to Unknown instead of failing.
func Parse(name string) PixelFormat {
	n := strings.ToLower(strings.TrimSpace(name))
	switch n {
	case FFmpegNV12:
		return NewNV12(FFmpegNV12)
	case FFmpegNV15:
		return NewNV15(FFmpegNV15)
	case FFmpegP010, "p010":
		return NewP010(FFmpegP010)
	case FFmpegYUV420P, "yuvj420p":
		return YUV420P{}
	case FFmpegYUV420P10LE, "yuv420p10":
		return YUV420P10LE{}
	}
	return Unknown{Raw: n, Depth: guessDepth(n)}
}

// ForBitDepth returns the generic planar layout for the given depth.
func ForBitDepth(depth int) PixelFormat {
	if depth > 8 {
		return YUV420P10LE{}
	}
	return YUV420P{}
}

// Equal reports whether a and b resolve to the same ffmpeg layout. Two absent
// formats are equal.
func Equal(a, b PixelFormat) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.FFmpegName() == b.FFmpegName()
}

// IsGenericPlanar reports whether f is one of the software planar layouts.
func IsGenericPlanar(f PixelFormat) bool {
	switch f.(type) {
	case YUV420P, YUV420P10LE:
		return true
	}
	return false
}

func guessDepth(name string) int {
	for _, marker := range []string{"p16", "16le", "16be"} {
		if strings.Contains(name, marker) {
			return 16
		}
	}
	for _, marker := range []string{"p12", "12le", "12be"} {
		if strings.Contains(name, marker) {
			return 12
		}
	}
	for _, marker := range []string{"p10", "10le", "10be", "p010"} {
		if strings.Contains(name, marker) {
			return 10
		}
	}
	return 8
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
