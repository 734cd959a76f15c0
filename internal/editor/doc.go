// Package editor runs vcut's editing operations: range removal (cut),
// single-filter effects, sub-clip extraction, and merging.
//
// Each operation validates its inputs, confirms ffmpeg is on PATH before
// touching the filesystem, takes an advisory lock on the output, and then runs
// one or more ffmpeg invocations strictly in sequence. Cut is the only
// multi-step operation: it inverts the cutoff list into keep ranges, extracts
// each keep range into a scratch directory, and stitches the segments back
// together with the concat demuxer. The scratch directory is removed whether
// the run succeeds or fails.
//
// Construct an Editor with New and inject an Executor, logger, progress
// callback, or history recorder through options.
package editor
