package editor

import (
	"path/filepath"
	"strconv"
	"strings"
)

// DerivedOutput returns <stem>_<suffix><ext> next to source.
func DerivedOutput(source, suffix string) string {
	ext := filepath.Ext(source)
	return strings.TrimSuffix(source, ext) + "_" + suffix + ext
}

// defaultSegmentExt gives ffmpeg a muxer when the source has no extension.
const defaultSegmentExt = ".mp4"

// SegmentName names the i-th keep segment inside a run directory.
func SegmentName(index int, ext string) string {
	if ext == "" {
		ext = defaultSegmentExt
	}
	return "segment_" + strconv.Itoa(index) + ext
}
