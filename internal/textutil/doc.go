// Package textutil provides small text helpers shared by the transcript and
// output-naming code.
//
// The primary use cases are:
//   - Stripping caption artifact characters from transcript text
//   - Sanitizing filenames and path segments for safe filesystem use
//   - Generating short random identifiers for anonymous output names
package textutil
