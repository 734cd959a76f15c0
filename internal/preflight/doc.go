// Package preflight provides readiness checks for the external tools and
// filesystem paths vcut depends on.
//
// The CLI "vcut doctor" command runs RunAll and renders the results. Editing
// commands do not call it; they fail fast on their own missing-tool check.
package preflight
