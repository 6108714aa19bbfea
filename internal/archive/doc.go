// Package archive verifies uploaded zip archives and extracts their
// transcript entries for ingestion.
package archive
