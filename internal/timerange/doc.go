// Package timerange parses video timestamps and computes keep ranges.
//
// A cut is described as a list of cutoff ranges to remove. Invert turns that
// list into the complementary keep ranges over [00:00:00.00, end of video),
// where the end of the video is the sentinel "inf" and is never resolved to a
// concrete duration here. Validate makes the ordering assumptions Invert relies
// on explicit: cutoffs must be sorted by start and must not overlap.
package timerange
