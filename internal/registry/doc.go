// Package registry maps tenant identifiers to live transcript stores.
//
// Each tenant owns an isolated SQLite database file under the configured
// data directory. The registry provisions databases lazily on first access,
// rebuilds them atomically before re-ingestion, and wipes the whole data
// directory on process start so tenant datasets never outlive the server
// that ingested them.
package registry
