package transcripts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"verbatim/internal/logging"
)

const lineColumns = `
        l.id,
        l.season_id,
        l.episode_id,
        l.speaker_id,
        s.name AS speaker_name,
        l.line_number,
        l.content`

const lineJoins = `
    FROM lines l
    JOIN lines_fts fts ON l.id = fts.rowid
    LEFT JOIN speakers s ON l.speaker_id = s.id
    JOIN episodes e ON l.episode_id = e.id
    JOIN seasons sn ON e.season_id = sn.id`

// SearchLines executes the composed filter over the full-text index and
// returns every matching line with its context window, ordered by
// (season number, episode number, line number). Zero matches is reported as
// ErrNoMatches, not an empty slice.
func (s *Store) SearchLines(ctx context.Context, filter Filter) ([]Match, error) {
	p := filter.compose()
	query := `SELECT` + lineColumns + lineJoins + p.where() + `
    ORDER BY sn.number ASC, e.number ASC, l.line_number ASC`

	rows, err := s.db.QueryContext(ctx, query, p.args...)
	if err != nil {
		return nil, fmt.Errorf("search lines: %w", err)
	}
	defer rows.Close()

	var lines []Line
	for rows.Next() {
		line, err := scanLine(rows)
		if err != nil {
			return nil, fmt.Errorf("scan line: %w", err)
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate lines: %w", err)
	}
	if len(lines) == 0 {
		return nil, ErrNoMatches
	}

	matches := make([]Match, 0, len(lines))
	for _, line := range lines {
		matches = append(matches, Match{Line: line, Context: s.contextWindow(ctx, line)})
	}
	return matches, nil
}

// contextWindow fetches the lines surrounding a match within its episode:
// line numbers [max(1, n-2), n+2] inclusive, ascending. A failed lookup
// degrades to an empty context for that single match instead of failing the
// whole search.
func (s *Store) contextWindow(ctx context.Context, match Line) []Line {
	low := match.LineNumber - 2
	if low < 1 {
		low = 1
	}
	high := match.LineNumber + 2

	rows, err := s.db.QueryContext(ctx, `SELECT
        l.id,
        l.season_id,
        l.episode_id,
        l.speaker_id,
        s.name AS speaker_name,
        l.line_number,
        l.content
    FROM lines l
    LEFT JOIN speakers s ON l.speaker_id = s.id
    WHERE l.episode_id = ? AND l.line_number BETWEEN ? AND ?
    ORDER BY l.line_number ASC`,
		match.EpisodeID, low, high)
	if err != nil {
		logging.WithContext(ctx, s.logger).Warn("context window query failed",
			logging.Int64("line_id", match.ID), logging.Error(err))
		return []Line{}
	}
	defer rows.Close()

	var window []Line
	for rows.Next() {
		line, err := scanLine(rows)
		if err != nil {
			logging.WithContext(ctx, s.logger).Warn("context window scan failed",
				logging.Int64("line_id", match.ID), logging.Error(err))
			return []Line{}
		}
		window = append(window, line)
	}
	if err := rows.Err(); err != nil {
		logging.WithContext(ctx, s.logger).Warn("context window iteration failed",
			logging.Int64("line_id", match.ID), logging.Error(err))
		return []Line{}
	}
	return window
}

// RandomLine returns one line selected uniformly at random among the rows the
// filter matches. The phrase field is ignored; random selection filters by
// season, episode, and speaker only.
func (s *Store) RandomLine(ctx context.Context, filter Filter) (*Line, error) {
	filter.Phrase = ""
	p := filter.compose()

	query := `SELECT` + lineColumns + `
    FROM lines l
    LEFT JOIN speakers s ON l.speaker_id = s.id
    JOIN episodes e ON l.episode_id = e.id
    JOIN seasons sn ON e.season_id = sn.id` + p.where() + `
    ORDER BY RANDOM() LIMIT 1`

	row := s.db.QueryRowContext(ctx, query, p.args...)
	line, err := scanLine(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoMatches
	}
	if err != nil {
		return nil, fmt.Errorf("random line: %w", err)
	}
	return &line, nil
}

// Transcript returns the full ordered transcript of one episode addressed by
// season and episode number. The season and episode existence checks are
// independent so callers can report which of the two was unknown.
func (s *Store) Transcript(ctx context.Context, seasonNumber, episodeNumber int64) ([]Line, error) {
	var seasonExists bool
	err := s.db.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM seasons WHERE number = ?)", seasonNumber,
	).Scan(&seasonExists)
	if err != nil {
		return nil, fmt.Errorf("check season: %w", err)
	}
	if !seasonExists {
		return nil, fmt.Errorf("season %d: %w", seasonNumber, ErrSeasonNotFound)
	}

	var episodeExists bool
	err = s.db.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM episodes WHERE number = ?)", episodeNumber,
	).Scan(&episodeExists)
	if err != nil {
		return nil, fmt.Errorf("check episode: %w", err)
	}
	if !episodeExists {
		return nil, fmt.Errorf("episode %d: %w", episodeNumber, ErrEpisodeNotFound)
	}

	rows, err := s.db.QueryContext(ctx, `SELECT`+lineColumns+`
    FROM lines l
    LEFT JOIN speakers s ON l.speaker_id = s.id
    JOIN episodes e ON l.episode_id = e.id
    JOIN seasons sn ON e.season_id = sn.id
    WHERE sn.number = ? AND e.number = ?
    ORDER BY l.line_number ASC`,
		seasonNumber, episodeNumber)
	if err != nil {
		return nil, fmt.Errorf("fetch transcript: %w", err)
	}
	defer rows.Close()

	var lines []Line
	for rows.Next() {
		line, err := scanLine(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transcript line: %w", err)
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}

// Seasons lists all seasons ordered by number.
func (s *Store) Seasons(ctx context.Context) ([]Season, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, number FROM seasons ORDER BY number ASC")
	if err != nil {
		return nil, fmt.Errorf("list seasons: %w", err)
	}
	defer rows.Close()

	var seasons []Season
	for rows.Next() {
		var season Season
		if err := rows.Scan(&season.ID, &season.Number); err != nil {
			return nil, fmt.Errorf("scan season: %w", err)
		}
		seasons = append(seasons, season)
	}
	return seasons, rows.Err()
}

// Speakers lists all speakers ordered by first appearance.
func (s *Store) Speakers(ctx context.Context) ([]Speaker, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, name FROM speakers ORDER BY id ASC")
	if err != nil {
		return nil, fmt.Errorf("list speakers: %w", err)
	}
	defer rows.Close()

	var speakers []Speaker
	for rows.Next() {
		var speaker Speaker
		if err := rows.Scan(&speaker.ID, &speaker.Name); err != nil {
			return nil, fmt.Errorf("scan speaker: %w", err)
		}
		speakers = append(speakers, speaker)
	}
	return speakers, rows.Err()
}

// EpisodesBySeason lists a season's episodes ordered by episode number.
func (s *Store) EpisodesBySeason(ctx context.Context, seasonID int64) ([]Episode, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, season_id, number, title FROM episodes WHERE season_id = ? ORDER BY number ASC",
		seasonID)
	if err != nil {
		return nil, fmt.Errorf("list episodes: %w", err)
	}
	defer rows.Close()

	var episodes []Episode
	for rows.Next() {
		var episode Episode
		if err := rows.Scan(&episode.ID, &episode.SeasonID, &episode.Number, &episode.Title); err != nil {
			return nil, fmt.Errorf("scan episode: %w", err)
		}
		episodes = append(episodes, episode)
	}
	return episodes, rows.Err()
}

// EpisodeByID fetches one episode by row id.
func (s *Store) EpisodeByID(ctx context.Context, id int64) (*Episode, error) {
	var episode Episode
	err := s.db.QueryRowContext(ctx,
		"SELECT id, season_id, number, title FROM episodes WHERE id = ? LIMIT 1", id,
	).Scan(&episode.ID, &episode.SeasonID, &episode.Number, &episode.Title)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("episode %d: %w", id, ErrEpisodeNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get episode: %w", err)
	}
	return &episode, nil
}

func scanLine(scanner interface{ Scan(dest ...any) error }) (Line, error) {
	var (
		line        Line
		speakerID   sql.NullInt64
		speakerName sql.NullString
	)
	if err := scanner.Scan(
		&line.ID,
		&line.SeasonID,
		&line.EpisodeID,
		&speakerID,
		&speakerName,
		&line.LineNumber,
		&line.Content,
	); err != nil {
		return Line{}, err
	}
	if speakerID.Valid {
		line.SpeakerID = &speakerID.Int64
	}
	if speakerName.Valid {
		line.SpeakerName = &speakerName.String
	}
	return line, nil
}
