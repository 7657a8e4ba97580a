// Package textanalysis turns transcript text into title suggestions through a
// JSON-only chat completion backend.
package textanalysis
