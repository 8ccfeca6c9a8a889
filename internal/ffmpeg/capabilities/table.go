// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package capabilities

import (
	"slices"
	"strings"

	"github.com/ManuGH/ffplan/internal/ffmpeg"
	"github.com/ManuGH/ffplan/internal/ffmpeg/format"
)

// Rule declares one hardware-supported codec. Empty Profiles or BitDepths
// match anything.
type Rule struct {
	Codec     string   `yaml:"codec" json:"codec"`
	Profiles  []string `yaml:"profiles,omitempty" json:"profiles,omitempty"`
	BitDepths []int    `yaml:"bitDepths,omitempty" json:"bitDepths,omitempty"`
	HDR       bool     `yaml:"hdr,omitempty" json:"hdr,omitempty"`
}

// Table is a static capability matrix, usually loaded from config.
type Table struct {
	Decoders []Rule `yaml:"decoders" json:"decoders"`
	Encoders []Rule `yaml:"encoders" json:"encoders"`
}

// DefaultRkmppTable is the RK3588 media block as shipped by ffmpeg-rockchip.
func DefaultRkmppTable() Table {
	return Table{
		Decoders: []Rule{
			{Codec: "h264", Profiles: []string{"baseline", "constrained baseline", "main", "high"}, BitDepths: []int{8}},
			{Codec: "hevc", Profiles: []string{"main", "main 10"}, BitDepths: []int{8, 10}, HDR: true},
			{Codec: "vp9", BitDepths: []int{8, 10}, HDR: true},
			{Codec: "av1", BitDepths: []int{8, 10}, HDR: true},
		},
		Encoders: []Rule{
			{Codec: "h264", BitDepths: []int{8}},
			{Codec: "hevc", BitDepths: []int{8}},
		},
	}
}

func (t Table) CanDecode(codec, profile string, pixelFormat format.PixelFormat, isHdr bool) (Capability, error) {
	vf := ffmpeg.ParseVideoFormat(codec)
	if vf == ffmpeg.VideoFormatUndetermined {
		return Unsupported, nil
	}
	for _, r := range t.Decoders {
		if r.matches(vf, profile, depthOf(pixelFormat)) && (!isHdr || r.HDR) {
			return Hardware, nil
		}
	}
	return Software, nil
}

func (t Table) CanEncode(videoFormat ffmpeg.VideoFormat, profile string, pixelFormat format.PixelFormat) (Capability, error) {
	if videoFormat == ffmpeg.VideoFormatUndetermined {
		return Unsupported, nil
	}
	for _, r := range t.Encoders {
		if r.matches(videoFormat, profile, depthOf(pixelFormat)) {
			return Hardware, nil
		}
	}
	return Software, nil
}

func (r Rule) matches(vf ffmpeg.VideoFormat, profile string, depth int) bool {
	if ffmpeg.ParseVideoFormat(r.Codec) != vf {
		return false
	}
	if len(r.Profiles) > 0 && profile != "" {
		want := normalizeProfile(profile)
		if !slices.ContainsFunc(r.Profiles, func(p string) bool { return normalizeProfile(p) == want }) {
			return false
		}
	}
	if len(r.BitDepths) > 0 && !slices.Contains(r.BitDepths, depth) {
		return false
	}
	return true
}

// normalizeProfile folds "Main 10", "main10" and "MAIN_10" together.
func normalizeProfile(p string) string {
	p = strings.ToLower(strings.TrimSpace(p))
	return strings.NewReplacer(" ", "", "_", "", "-", "").Replace(p)
}

func depthOf(pf format.PixelFormat) int {
	if pf == nil {
		return 8
	}
	return pf.BitDepth()
}
