// Package faults defines the error kinds shared by the transcript, silence,
// and path-safety components.
//
// Every failure surfaced to a caller is tagged with one sentinel via Wrap so
// command code can branch on errors.Is instead of message text. KindOf and
// ExitCode translate a tagged error into a stable name and a CLI exit status.
package faults
