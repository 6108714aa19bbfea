package transcripts

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"path"
	"sort"
	"strings"

	"verbatim/internal/classify"
	"verbatim/internal/logging"
)

type classifiedFile struct {
	episode int
	title   string
	content string
}

// Ingest classifies the provided files and writes seasons, episodes, speakers,
// and lines in a single transaction. Seasons, episodes, and speakers are
// deduplicated by natural key; an episode re-ingested under the same
// (season, number) key has its title overwritten. Lines are append-only.
// Nothing from the call survives unless every file commits.
func (s *Store) Ingest(ctx context.Context, files []SourceFile) error {
	if len(files) == 0 {
		return ErrEmptyInput
	}

	seasons := make(map[int][]classifiedFile)
	for _, file := range files {
		identity, ok := classify.Filename(path.Base(file.Path), parentDirName(file.Path))
		if !ok {
			continue
		}
		seasons[identity.Season] = append(seasons[identity.Season], classifiedFile{
			episode: identity.Episode,
			title:   identity.Title,
			content: file.Content,
		})
	}
	if len(seasons) == 0 {
		return ErrNoRecognizedFiles
	}

	seasonNumbers := make([]int, 0, len(seasons))
	totalEpisodes := 0
	for number, episodes := range seasons {
		seasonNumbers = append(seasonNumbers, number)
		totalEpisodes += len(episodes)
	}
	sort.Ints(seasonNumbers)

	logger := logging.WithContext(ctx, s.logger)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin ingest tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	speakerIDs := make(map[string]int64)
	processed := 0
	totalLines := 0

	for _, seasonNumber := range seasonNumbers {
		var seasonID int64
		err := tx.QueryRowContext(ctx,
			`INSERT INTO seasons (number) VALUES (?)
             ON CONFLICT(number) DO UPDATE SET number = excluded.number
             RETURNING id`,
			seasonNumber,
		).Scan(&seasonID)
		if err != nil {
			return fmt.Errorf("upsert season %d: %w", seasonNumber, err)
		}

		episodes := seasons[seasonNumber]
		sort.SliceStable(episodes, func(i, j int) bool {
			if episodes[i].episode != episodes[j].episode {
				return episodes[i].episode < episodes[j].episode
			}
			return episodes[i].title < episodes[j].title
		})

		for _, episode := range episodes {
			processed++
			logger.Debug("ingesting episode",
				logging.Int("season", seasonNumber),
				logging.Int("episode", episode.episode),
				logging.String("title", episode.title),
				logging.Int("progress", processed),
				logging.Int("total", totalEpisodes),
			)

			var episodeID int64
			err := tx.QueryRowContext(ctx,
				`INSERT INTO episodes (season_id, number, title) VALUES (?, ?, ?)
                 ON CONFLICT(season_id, number) DO UPDATE SET title = excluded.title
                 RETURNING id`,
				seasonID, episode.episode, episode.title,
			).Scan(&episodeID)
			if err != nil {
				return fmt.Errorf("upsert episode s%02de%02d: %w", seasonNumber, episode.episode, err)
			}

			lines, err := s.insertLines(ctx, tx, seasonID, episodeID, episode.content, speakerIDs)
			if err != nil {
				return fmt.Errorf("insert lines for s%02de%02d: %w", seasonNumber, episode.episode, err)
			}
			totalLines += lines
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit ingest: %w", err)
	}

	logger.Info("ingestion committed",
		logging.Int("seasons", len(seasonNumbers)),
		logging.Int("episodes", totalEpisodes),
		logging.Int("lines", totalLines),
	)
	return nil
}

func (s *Store) insertLines(ctx context.Context, tx *sql.Tx, seasonID, episodeID int64, content string, speakerIDs map[string]int64) (int, error) {
	scanner := bufio.NewScanner(strings.NewReader(content))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNumber := 1
	for scanner.Scan() {
		raw := scanner.Text()

		var speakerID any
		text := strings.TrimSpace(raw)
		if prefix, rest, found := strings.Cut(raw, ":"); found {
			name := strings.TrimSpace(prefix)
			id, ok := speakerIDs[name]
			if !ok {
				err := tx.QueryRowContext(ctx,
					`INSERT INTO speakers (name) VALUES (?)
                     ON CONFLICT(name) DO UPDATE SET name = excluded.name
                     RETURNING id`,
					name,
				).Scan(&id)
				if err != nil {
					return 0, fmt.Errorf("upsert speaker %q: %w", name, err)
				}
				speakerIDs[name] = id
			}
			speakerID = id
			text = strings.TrimSpace(rest)
		}

		_, err := tx.ExecContext(ctx,
			`INSERT INTO lines (season_id, episode_id, speaker_id, line_number, content)
             VALUES (?, ?, ?, ?, ?)`,
			seasonID, episodeID, speakerID, lineNumber, text)
		if err != nil {
			return 0, fmt.Errorf("insert line %d: %w", lineNumber, err)
		}
		lineNumber++
	}
	if err := scanner.Err(); err != nil {
		return 0, fmt.Errorf("scan transcript text: %w", err)
	}
	return lineNumber - 1, nil
}

func parentDirName(filePath string) string {
	dir := path.Dir(filePath)
	if dir == "." || dir == "/" {
		return ""
	}
	return path.Base(dir)
}
