// Package transcripts persists one tenant's transcript dataset in SQLite and
// exposes ingestion and query operations over it.
//
// The Store owns connection lifecycle, schema initialization, the
// transactional ingestion writer, the parameterized filter composer, and the
// search/browse queries including per-hit context windows. Line content is
// indexed in an FTS5 table kept in sync by triggers, so an aborted ingestion
// rolls back index entries together with rows.
//
// Each Store maps to exactly one tenant database file; cross-tenant concerns
// live in the registry package.
package transcripts
