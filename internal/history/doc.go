// Package history persists a ledger of editing runs in SQLite.
//
// The ledger is opt-in ([history] enabled = true). When disabled vcut keeps no
// state between invocations beyond scratch directories that are removed when
// a run ends.
package history
