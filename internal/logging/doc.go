// Package logging assembles the structured slog loggers used by autocontent.
//
// The CLI logs to stderr through a line-oriented console handler or a JSON
// handler and mirrors every record as JSON into a daily file under the
// configured log directory. The Attr helpers, WarnWithContext,
// ErrorWithContext and NewComponentLogger keep log lines uniform across
// packages. WithContext stamps the running command and run id onto a logger.
package logging
