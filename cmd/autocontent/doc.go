// Package main hosts the autocontent CLI entrypoint and command graph.
//
// The Cobra command tree maps terminal invocations onto the workflows in
// internal/api: transcript pull, convert and chunk, video download and
// editing, title suggestions, cache maintenance and readiness reporting.
// Configuration loading, run-id tagging and logger setup happen once in
// commandContext so each command only declares flags and prints results.
package main
