// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse_KnownAndUnknown(t *testing.T) {
	tests := []struct {
		in        string
		wantFF    string
		wantDepth int
	}{
		{"yuv420p", FFmpegYUV420P, 8},
		{" NV12 ", FFmpegNV12, 8},
		{"p010le", FFmpegP010, 10},
		{"yuv420p10le", FFmpegYUV420P10LE, 10},
		{"nv15", FFmpegNV15, 10},
		{"yuv444p12le", FFmpegUnknown, 12},
		{"gbrp16le", FFmpegUnknown, 16},
		{"rgb24", FFmpegUnknown, 8},
		{"", FFmpegUnknown, 8},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			pf := Parse(tt.in)
			assert.Equal(t, tt.wantFF, pf.FFmpegName())
			assert.Equal(t, tt.wantDepth, pf.BitDepth())
		})
	}
}

func TestBitDepthAgreesWithVariant(t *testing.T) {
	assert.Equal(t, 8, NewNV12("yuv420p").BitDepth())
	assert.Greater(t, NewP010("yuv420p10le").BitDepth(), 8)
	assert.Equal(t, 8, Unknown{Depth: 0}.BitDepth(), "unknown never drops below 8 bits")
}

func TestHardwareSurfacesKeepSemanticName(t *testing.T) {
	nv12 := NewNV12(FFmpegYUV420P)
	assert.Equal(t, FFmpegYUV420P, nv12.Name())
	assert.Equal(t, FFmpegNV12, nv12.FFmpegName())
	assert.Equal(t, FFmpegNV12, NewNV12("").Name())
}

func TestEqual(t *testing.T) {
	assert.True(t, Equal(nil, nil))
	assert.False(t, Equal(nil, YUV420P{}))
	assert.True(t, Equal(NewNV12("yuv420p"), NewNV12("nv12")))
	assert.False(t, Equal(YUV420P{}, NewNV12("yuv420p")))
}

func TestCatalogLookup(t *testing.T) {
	pf, ok := RkmppCatalog.Lookup("YUV420P")
	assert.True(t, ok)
	assert.Equal(t, FFmpegNV12, pf.FFmpegName())

	pf, ok = SoftwareCatalog.Lookup(FFmpegNV12)
	assert.True(t, ok)
	assert.Equal(t, FFmpegYUV420P, pf.FFmpegName())

	_, ok = RkmppCatalog.Lookup("rgb24")
	assert.False(t, ok)
}

func TestIsGenericPlanar(t *testing.T) {
	assert.True(t, IsGenericPlanar(YUV420P{}))
	assert.True(t, IsGenericPlanar(ForBitDepth(10)))
	assert.False(t, IsGenericPlanar(NewNV12("")))
	assert.False(t, IsGenericPlanar(nil))
}
