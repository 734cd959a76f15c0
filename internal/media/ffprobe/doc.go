// Package ffprobe wraps the ffprobe CLI to inspect media files.
//
// vcut uses it to check finished outputs (stream counts, duration, size) and
// to resolve open-ended ranges to real timestamps in plan output.
package ffprobe
