// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package ffmpeg

import "strings"

// HardwareAccelerationMode names the backend used for one direction.
type HardwareAccelerationMode string

const (
	HardwareAccelerationNone  HardwareAccelerationMode = "none"
	HardwareAccelerationRkmpp HardwareAccelerationMode = "rkmpp"
)

// ParseHardwareAccelerationMode accepts the config spellings of a backend.
func ParseHardwareAccelerationMode(s string) (HardwareAccelerationMode, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none", "software", "cpu":
		return HardwareAccelerationNone, true
	case "rkmpp", "rockchip":
		return HardwareAccelerationRkmpp, true
	}
	return "", false
}

// OutputFormatKind is the container the pipeline writes.
type OutputFormatKind string

const (
	OutputFormatMpegTs OutputFormatKind = "mpegts"
	OutputFormatMp4    OutputFormatKind = "mp4"
	OutputFormatMkv    OutputFormatKind = "matroska"
	OutputFormatHls    OutputFormatKind = "hls"
	// OutputFormatNut is the intermediate container piped to a parent HLS
	// segmenter. It always carries software-encoded (raw) video.
	OutputFormatNut OutputFormatKind = "nut"
)

// ParseOutputFormat accepts container names as ffmpeg and job files spell them.
func ParseOutputFormat(s string) (OutputFormatKind, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "mpegts", "ts":
		return OutputFormatMpegTs, true
	case "mp4", "mov":
		return OutputFormatMp4, true
	case "matroska", "mkv":
		return OutputFormatMkv, true
	case "hls":
		return OutputFormatHls, true
	case "nut":
		return OutputFormatNut, true
	}
	return "", false
}

// IsPassthrough reports whether the container only hands frames to a
// downstream consumer.
func (k OutputFormatKind) IsPassthrough() bool { return k == OutputFormatNut }

// FFmpegState carries the acceleration decisions for one build. Decode and
// encode modes are independent.
type FFmpegState struct {
	OutputFormat                    OutputFormatKind
	DecoderHardwareAccelerationMode HardwareAccelerationMode
	EncoderHardwareAccelerationMode HardwareAccelerationMode
	Realtime                        bool
}

// DecodesOnHardware reports whether decode runs on a hardware backend.
func (s FFmpegState) DecodesOnHardware() bool {
	return s.DecoderHardwareAccelerationMode != "" && s.DecoderHardwareAccelerationMode != HardwareAccelerationNone
}

// EncodesOnHardware reports whether encode runs on a hardware backend.
func (s FFmpegState) EncodesOnHardware() bool {
	return s.EncoderHardwareAccelerationMode != "" && s.EncoderHardwareAccelerationMode != HardwareAccelerationNone
}

// VideoFormat is the codec family a frame is (or will be) encoded with.
type VideoFormat string

const (
	VideoFormatUndetermined VideoFormat = ""
	VideoFormatH264         VideoFormat = "h264"
	VideoFormatHevc         VideoFormat = "hevc"
	VideoFormatMpeg2Video   VideoFormat = "mpeg2video"
	VideoFormatMpeg4        VideoFormat = "mpeg4"
	VideoFormatVc1          VideoFormat = "vc1"
	VideoFormatVp9          VideoFormat = "vp9"
	VideoFormatAv1          VideoFormat = "av1"
	VideoFormatMsMpeg4V3    VideoFormat = "msmpeg4v3"
	VideoFormatRaw          VideoFormat = "rawvideo"
	VideoFormatCopy         VideoFormat = "copy"
)

// ParseVideoFormat normalises codec aliases seen in probe output and configs.
func ParseVideoFormat(raw string) VideoFormat {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "h264", "avc", "avc1", "libx264":
		return VideoFormatH264
	case "hevc", "h265", "h.265", "libx265":
		return VideoFormatHevc
	case "mpeg2video", "mpeg2":
		return VideoFormatMpeg2Video
	case "mpeg4":
		return VideoFormatMpeg4
	case "vc1":
		return VideoFormatVc1
	case "vp9":
		return VideoFormatVp9
	case "av1", "av01", "libsvtav1":
		return VideoFormatAv1
	case "msmpeg4v3":
		return VideoFormatMsMpeg4V3
	case "rawvideo", "raw":
		return VideoFormatRaw
	case "copy":
		return VideoFormatCopy
	}
	return VideoFormat(strings.ToLower(strings.TrimSpace(raw)))
}

// Common encoder profile names.
const (
	VideoProfileMain     = "main"
	VideoProfileMain10   = "main10"
	VideoProfileHigh     = "high"
	VideoProfileHigh10   = "high10"
	VideoProfileBaseline = "baseline"
)
