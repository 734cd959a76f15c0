// Package config loads, normalizes, and validates vcut configuration data.
//
// It supplies encoder defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment overrides such as
// VCUT_FFMPEG. The Config type centralizes every knob the editor and CLI need
// so binaries, codecs, and the scratch directory are discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
