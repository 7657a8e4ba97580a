// Package cache keeps fetched transcripts in a local SQLite database so
// repeated pulls of the same video skip the network.
//
// The store runs in WAL mode, retries SQLITE_BUSY with backoff and tracks its
// embedded schema through PRAGMA user_version; a database from another schema
// version is rebuilt empty. CachingFetcher adapts a Store to
// transcript.Fetcher.
package cache
