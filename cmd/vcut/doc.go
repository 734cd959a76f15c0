// Package main hosts the vcut CLI entrypoint and command graph.
//
// The Cobra-based command tree turns terminal invocations into editor
// operations (effect, cut, extract, merge), dry-run planning, catalog and
// history listings, work-directory cleanup, environment checks, and
// configuration scaffolding. It centralizes configuration resolution and
// logger setup so subcommands stay declarative while the work happens in the
// internal packages.
package main
