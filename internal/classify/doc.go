// Package classify recovers season/episode identity from transcript
// filenames.
//
// Patterns are evaluated in strict priority order ("1x01 - Title.txt", then
// "S01E01[ - Title].txt", then "E01 - Title.txt" under a season-named
// directory) and matching is case-insensitive. A filename no pattern
// recognizes is not an error; ingestion silently skips it.
package classify
