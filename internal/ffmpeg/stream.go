// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package ffmpeg

import (
	"strings"

	"github.com/ManuGH/ffplan/internal/ffmpeg/format"
)

// ColorParams are the color tags reported for a video stream.
type ColorParams struct {
	ColorRange     string `json:"colorRange,omitempty" yaml:"colorRange,omitempty"`
	ColorSpace     string `json:"colorSpace,omitempty" yaml:"colorSpace,omitempty"`
	ColorTransfer  string `json:"colorTransfer,omitempty" yaml:"colorTransfer,omitempty"`
	ColorPrimaries string `json:"colorPrimaries,omitempty" yaml:"colorPrimaries,omitempty"`
}

// IsHdr reports a PQ or HLG transfer characteristic.
func (c ColorParams) IsHdr() bool {
	switch normalizeColor(c.ColorTransfer) {
	case "smpte2084", "arib-std-b67":
		return true
	}
	return false
}

// IsBt709 reports whether all color tags are the bt709 baseline.
func (c ColorParams) IsBt709() bool {
	return normalizeColor(c.ColorSpace) == "bt709" &&
		normalizeColor(c.ColorTransfer) == "bt709" &&
		normalizeColor(c.ColorPrimaries) == "bt709"
}

// IsUnknown reports that no color tags were present at all.
func (c ColorParams) IsUnknown() bool {
	return isUnset(c.ColorSpace) && isUnset(c.ColorTransfer) && isUnset(c.ColorPrimaries)
}

// VideoStream describes the source video stream of an input file.
type VideoStream struct {
	Index       int
	Codec       string
	Profile     string
	PixelFormat format.PixelFormat
	ColorParams ColorParams
	FrameSize   FrameSize
	// SampleAspectRatio in ffprobe notation ("1:1", "32:27"); empty means square.
	SampleAspectRatio string
}

// BitDepth of the source pixel format, defaulting to 8.
func (v VideoStream) BitDepth() int {
	if v.PixelFormat == nil {
		return 8
	}
	return v.PixelFormat.BitDepth()
}

// IsAnamorphic reports a non-square sample aspect ratio.
func (v VideoStream) IsAnamorphic() bool {
	switch strings.TrimSpace(v.SampleAspectRatio) {
	case "", "1:1", "0:1", "N/A":
		return false
	}
	return true
}

// IsAnamorphicEdgeCase is a non-square source whose stored size already
// equals the target scaled size, so a plain size comparison would skip the
// sample aspect normalisation.
func (v VideoStream) IsAnamorphicEdgeCase(target FrameSize) bool {
	return v.IsAnamorphic() && v.FrameSize == target
}

func normalizeColor(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func isUnset(s string) bool {
	switch normalizeColor(s) {
	case "", "unknown", "unspecified", "reserved":
		return true
	}
	return false
}
