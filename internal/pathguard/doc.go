// Package pathguard resolves output paths and gates every write.
//
// A Guard expands and absolutizes a candidate path, fills in a default name
// and suffix, refuses anything outside the configured home directory and
// enforces overwrite rules. Only Resolve builds a Target, and file writes
// accept nothing but a Target, so every output passes the same checks.
package pathguard
