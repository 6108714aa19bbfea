package transcripts

// Season is one season of a show within a tenant's dataset.
type Season struct {
	ID     int64 `json:"id"`
	Number int   `json:"number"`
}

// Episode is one episode, attached to a season. Title may be empty when the
// source filename carried none.
type Episode struct {
	ID       int64  `json:"id"`
	SeasonID int64  `json:"season_id"`
	Number   int    `json:"number"`
	Title    string `json:"title"`
}

// Speaker is a unique line attribution within a tenant's dataset.
type Speaker struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Line is a single transcript line. SpeakerID and SpeakerName are nil for
// narration lines that carry no "Name:" prefix.
type Line struct {
	ID          int64   `json:"id"`
	SeasonID    int64   `json:"season_id"`
	EpisodeID   int64   `json:"episode_id"`
	SpeakerID   *int64  `json:"speaker_id"`
	SpeakerName *string `json:"speaker_name"`
	LineNumber  int     `json:"line_number"`
	Content     string  `json:"content"`
}

// Match is a search hit together with its surrounding context window: up to
// two lines before and after the hit within the same episode.
type Match struct {
	Line    Line   `json:"line"`
	Context []Line `json:"context"`
}

// SourceFile is one entry of an uploaded archive: a relative path and the
// text content found there.
type SourceFile struct {
	Path    string
	Content string
}
