// Package ffmpeg builds ffmpeg argument lists and runs the binary.
//
// Builders return the arguments after the global flags; callers combine them
// with Command so every invocation carries the same banner, stdin, and
// overwrite handling. The Executor interface is the seam tests replace.
package ffmpeg
