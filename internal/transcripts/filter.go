package transcripts

import (
	"regexp"
	"strings"
)

// Filter describes the optional predicates a line query composes. Nil/empty
// fields are omitted from the rendered predicate entirely; they never act as
// wildcards.
type Filter struct {
	// Phrase is matched against line content through the full-text index.
	Phrase string
	// ExactPhrase treats Phrase as one quoted full-text term instead of a
	// token query.
	ExactPhrase bool
	// Season filters by season number.
	Season *int64
	// EpisodeID filters by episode row id.
	EpisodeID *int64
	// SpeakerID filters by speaker row id.
	SpeakerID *int64
}

// ftsUnsafePattern matches every character that may not reach the full-text
// query parser. Anything outside [alphanumeric, underscore, whitespace]
// becomes a space so user text cannot escape the query syntax.
var ftsUnsafePattern = regexp.MustCompile(`[^\w\s]`)

// predicate accumulates parameterized clauses. Raw field values never enter
// query text; every value is bound as a parameter.
type predicate struct {
	clauses []string
	args    []any
}

func (p *predicate) add(clause string, arg any) {
	p.clauses = append(p.clauses, clause)
	p.args = append(p.args, arg)
}

// where renders the accumulated clauses as a WHERE fragment, or an empty
// string when no clause is present.
func (p *predicate) where() string {
	if len(p.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(p.clauses, " AND ")
}

// matchExpr returns the sanitized full-text query for the filter's phrase,
// or "" when the phrase is absent or sanitizes away to nothing.
func (f Filter) matchExpr() string {
	sanitized := strings.TrimSpace(ftsUnsafePattern.ReplaceAllString(f.Phrase, " "))
	if sanitized == "" {
		return ""
	}
	if f.ExactPhrase {
		return `"` + sanitized + `"`
	}
	return sanitized
}

// compose renders the filter into a predicate over the joined line query. The
// column aliases are fixed: l = lines, fts = lines_fts, e = episodes,
// sn = seasons.
func (f Filter) compose() *predicate {
	p := &predicate{}
	if expr := f.matchExpr(); expr != "" {
		p.add("fts.content MATCH ?", expr)
	}
	if f.Season != nil {
		p.add("sn.number = ?", *f.Season)
	}
	if f.EpisodeID != nil {
		p.add("e.id = ?", *f.EpisodeID)
	}
	if f.SpeakerID != nil {
		p.add("l.speaker_id = ?", *f.SpeakerID)
	}
	return p
}
