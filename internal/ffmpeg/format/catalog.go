// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package format

import "strings"

// Catalog resolves an abstract pixel format name to the concrete layout a
// backend works with. A missing entry means the backend has no preference.
type Catalog map[string]PixelFormat

// Lookup returns the concrete layout for name, if the backend knows one.
func (c Catalog) Lookup(name string) (PixelFormat, bool) {
	pf, ok := c[strings.ToLower(strings.TrimSpace(name))]
	return pf, ok
}

// SoftwareCatalog maps every name onto its generic planar layout.
var SoftwareCatalog = Catalog{
	FFmpegYUV420P:     YUV420P{},
	FFmpegYUV420P10LE: YUV420P10LE{},
	FFmpegNV12:        YUV420P{},
	FFmpegP010:        YUV420P10LE{},
	FFmpegNV15:        YUV420P10LE{},
}

// RkmppCatalog prefers the packed hardware layouts; the rkmpp encoders
// reject generic planar input on hardware surfaces.
var RkmppCatalog = Catalog{
	FFmpegYUV420P:     NewNV12(FFmpegYUV420P),
	FFmpegYUV420P10LE: NewP010(FFmpegYUV420P10LE),
	FFmpegNV12:        NewNV12(FFmpegNV12),
	FFmpegNV15:        NewNV15(FFmpegNV15),
	FFmpegP010:        NewP010(FFmpegP010),
}
