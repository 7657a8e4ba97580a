// Package api implements the autocontent workflows the CLI exposes: transcript
// pull/convert/chunk, video pull/clip/cut-silence/modify-speed, title
// suggestion, cache maintenance and status collection.
//
// # Runtime
//
// Every workflow takes a Runtime carrying the loaded config and logger plus
// optional collaborators (tool runner, transcript fetcher, LLM completer,
// HTTP client). Nil collaborators are built from the config, so the CLI only
// sets Config and Logger while tests inject fakes.
//
// # Outputs
//
// Every file a workflow writes is resolved through pathguard, so outputs stay
// inside paths.home_dir, refuse to overwrite without Force, and are removed
// again when a write or an external tool fails.
//
// # Results
//
// Workflows return plain result structs with camelCase JSON tags so the CLI
// can print them as text or, with --json, as machine-readable payloads.
package api
