// Package preflight provides readiness checks for the directories, binaries
// and services autocontent depends on.
//
// The "autocontent status" command runs RunAll and CheckSystemDeps and
// renders the results; individual checks are usable on their own.
// Checks for optional features are reported as skipped rather than failed.
package preflight
