// Package config loads, normalizes, and validates autocontent configuration.
//
// It supplies repository defaults, reads TOML files, applies environment
// overrides such as AUTOCONTENT_HOME and OPENROUTER_API_KEY, and expands user
// paths. Every directory except home_dir expands "~" against home_dir, so
// relocating the home root moves the subtitle and source directories with it.
// Field-level rules are expressed as validator tags and reported by their TOML
// key; cross-field rules (output directories inside the home root) are checked
// by hand.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
