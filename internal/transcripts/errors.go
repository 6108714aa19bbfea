package transcripts

import "errors"

var (
	// ErrEmptyInput indicates an ingestion call with no files at all.
	ErrEmptyInput = errors.New("no transcript files provided")
	// ErrNoRecognizedFiles indicates classification produced zero identities.
	ErrNoRecognizedFiles = errors.New("no recognized transcript files")
	// ErrSeasonNotFound indicates the requested season number is unknown.
	ErrSeasonNotFound = errors.New("season not found")
	// ErrEpisodeNotFound indicates the requested episode is unknown.
	ErrEpisodeNotFound = errors.New("episode not found")
	// ErrNoMatches indicates a query whose predicate matched zero rows.
	// Search deliberately reports this the same way as an absent resource.
	ErrNoMatches = errors.New("no matching lines")
)
