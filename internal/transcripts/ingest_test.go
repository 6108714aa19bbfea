package transcripts_test

import (
	"context"
	"errors"
	"testing"

	"verbatim/internal/testsupport"
	"verbatim/internal/transcripts"
)

func TestIngestRejectsEmptyInput(t *testing.T) {
	store := testsupport.MustOpenStore(t)

	err := store.Ingest(context.Background(), nil)
	if !errors.Is(err, transcripts.ErrEmptyInput) {
		t.Fatalf("expected ErrEmptyInput, got %v", err)
	}
}

func TestIngestRejectsUnrecognizedFiles(t *testing.T) {
	store := testsupport.MustOpenStore(t)

	err := store.Ingest(context.Background(), []transcripts.SourceFile{
		{Path: "README.txt", Content: "not a transcript"},
		{Path: "notes/checklist.txt", Content: "still not one"},
	})
	if !errors.Is(err, transcripts.ErrNoRecognizedFiles) {
		t.Fatalf("expected ErrNoRecognizedFiles, got %v", err)
	}
}

func TestIngestSeasonUpsertIdempotent(t *testing.T) {
	store := testsupport.MustOpenStore(t)
	ctx := context.Background()

	files := []transcripts.SourceFile{
		{Path: "2x01 - Opening.txt", Content: "JOHN: Hello"},
	}
	testsupport.MustIngest(t, store, files)
	testsupport.MustIngest(t, store, files)

	seasons, err := store.Seasons(ctx)
	if err != nil {
		t.Fatalf("Seasons failed: %v", err)
	}
	if len(seasons) != 1 || seasons[0].Number != 2 {
		t.Fatalf("expected exactly one season with number 2, got %+v", seasons)
	}
}

func TestIngestEpisodeTitleOverwrite(t *testing.T) {
	store := testsupport.MustOpenStore(t)
	ctx := context.Background()

	testsupport.MustIngest(t, store, []transcripts.SourceFile{
		{Path: "1x01 - Working Title.txt", Content: "JOHN: Hello"},
	})
	testsupport.MustIngest(t, store, []transcripts.SourceFile{
		{Path: "1x01 - Final Title.txt", Content: "JOHN: Hello again"},
	})

	seasons, err := store.Seasons(ctx)
	if err != nil {
		t.Fatalf("Seasons failed: %v", err)
	}
	episodes, err := store.EpisodesBySeason(ctx, seasons[0].ID)
	if err != nil {
		t.Fatalf("EpisodesBySeason failed: %v", err)
	}
	if len(episodes) != 1 {
		t.Fatalf("expected one episode row, got %d", len(episodes))
	}
	if episodes[0].Title != "Final Title" {
		t.Fatalf("expected overwritten title, got %q", episodes[0].Title)
	}
}

func TestIngestSpeakerReuseAcrossEpisodes(t *testing.T) {
	store := testsupport.MustOpenStore(t)
	ctx := context.Background()

	testsupport.MustIngest(t, store, []transcripts.SourceFile{
		{Path: "1x01 - First.txt", Content: "JOHN: Hi"},
		{Path: "1x02 - Second.txt", Content: "JOHN: Bye"},
	})

	speakers, err := store.Speakers(ctx)
	if err != nil {
		t.Fatalf("Speakers failed: %v", err)
	}
	if len(speakers) != 1 || speakers[0].Name != "JOHN" {
		t.Fatalf("expected one JOHN speaker, got %+v", speakers)
	}

	first, err := store.Transcript(ctx, 1, 1)
	if err != nil {
		t.Fatalf("Transcript 1x01 failed: %v", err)
	}
	second, err := store.Transcript(ctx, 1, 2)
	if err != nil {
		t.Fatalf("Transcript 1x02 failed: %v", err)
	}
	if first[0].SpeakerID == nil || second[0].SpeakerID == nil {
		t.Fatal("expected speaker ids on both lines")
	}
	if *first[0].SpeakerID != *second[0].SpeakerID {
		t.Fatalf("expected same speaker id, got %d and %d", *first[0].SpeakerID, *second[0].SpeakerID)
	}
}

func TestIngestLineWithoutSpeakerPrefix(t *testing.T) {
	store := testsupport.MustOpenStore(t)
	ctx := context.Background()

	testsupport.MustIngest(t, store, []transcripts.SourceFile{
		{Path: "1x01 - Pilot.txt", Content: "Just narration"},
	})

	lines, err := store.Transcript(ctx, 1, 1)
	if err != nil {
		t.Fatalf("Transcript failed: %v", err)
	}
	if len(lines) != 1 {
		t.Fatalf("expected one line, got %d", len(lines))
	}
	if lines[0].SpeakerID != nil || lines[0].SpeakerName != nil {
		t.Fatalf("expected no speaker, got %+v", lines[0])
	}
	if lines[0].Content != "Just narration" {
		t.Fatalf("unexpected content %q", lines[0].Content)
	}
}

func TestIngestAssignsSequentialLineNumbers(t *testing.T) {
	store := testsupport.MustOpenStore(t)
	ctx := context.Background()

	testsupport.MustIngest(t, store, []transcripts.SourceFile{
		{Path: "1x01 - Pilot.txt", Content: "JOHN: One\nMARY: Two\nThree\nJOHN: Four"},
	})

	lines, err := store.Transcript(ctx, 1, 1)
	if err != nil {
		t.Fatalf("Transcript failed: %v", err)
	}
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d", len(lines))
	}
	for i, line := range lines {
		if line.LineNumber != i+1 {
			t.Fatalf("expected line number %d at index %d, got %d", i+1, i, line.LineNumber)
		}
	}
}

func TestIngestRepeatedContentNeverDeduplicated(t *testing.T) {
	store := testsupport.MustOpenStore(t)
	ctx := context.Background()

	testsupport.MustIngest(t, store, []transcripts.SourceFile{
		{Path: "1x01 - Pilot.txt", Content: "JOHN: Echo\nJOHN: Echo\nJOHN: Echo"},
	})

	lines, err := store.Transcript(ctx, 1, 1)
	if err != nil {
		t.Fatalf("Transcript failed: %v", err)
	}
	if len(lines) != 3 {
		t.Fatalf("expected 3 identical lines preserved, got %d", len(lines))
	}
}

func TestIngestDuplicateEpisodeFilesKeepInputOrder(t *testing.T) {
	store := testsupport.MustOpenStore(t)
	ctx := context.Background()

	// Both files classify to the identical (episode, title) key; the first
	// one supplied must be written first.
	testsupport.MustIngest(t, store, []transcripts.SourceFile{
		{Path: "disc1/1x01 - Pilot.txt", Content: "ANNA: alpha marker"},
		{Path: "disc2/1x01 - Pilot.txt", Content: "BEN: omega marker"},
	})

	alpha, err := store.SearchLines(ctx, transcripts.Filter{Phrase: "alpha"})
	if err != nil || len(alpha) != 1 {
		t.Fatalf("search alpha: %v (%d matches)", err, len(alpha))
	}
	omega, err := store.SearchLines(ctx, transcripts.Filter{Phrase: "omega"})
	if err != nil || len(omega) != 1 {
		t.Fatalf("search omega: %v (%d matches)", err, len(omega))
	}
	if alpha[0].Line.ID >= omega[0].Line.ID {
		t.Fatalf("expected first file's line inserted first, got ids %d and %d",
			alpha[0].Line.ID, omega[0].Line.ID)
	}
}

func TestIngestSeasonFromParentDirectory(t *testing.T) {
	store := testsupport.MustOpenStore(t)
	ctx := context.Background()

	testsupport.MustIngest(t, store, []transcripts.SourceFile{
		{Path: "Season 3/e05 - Finale.txt", Content: "JOHN: The end"},
		{Path: "Extras/e99 - Blooper.txt", Content: "ignored"},
	})

	seasons, err := store.Seasons(ctx)
	if err != nil {
		t.Fatalf("Seasons failed: %v", err)
	}
	if len(seasons) != 1 || seasons[0].Number != 3 {
		t.Fatalf("expected only season 3, got %+v", seasons)
	}
	if _, err := store.Transcript(ctx, 3, 5); err != nil {
		t.Fatalf("Transcript 3x05 failed: %v", err)
	}
}
