// Package llm talks to an OpenAI-compatible chat completion endpoint
// (OpenRouter by default) and always asks for JSON replies.
//
// Transient failures (HTTP 408, 429 and 5xx, empty replies, network
// timeouts) are retried with doubling delays from 1s up to 10s, five attempts
// by default; Retry-After is honoured. A missing API key matches
// faults.ErrConfiguration, remote failures match faults.ErrExternalTool.
package llm
