package archive_test

import (
	"errors"
	"testing"

	"verbatim/internal/archive"
	"verbatim/internal/testsupport"
)

func TestVerifyRejectsGarbage(t *testing.T) {
	err := archive.Verify([]byte("not a zip archive"))
	if !errors.Is(err, archive.ErrInvalidArchive) {
		t.Fatalf("Verify error = %v, want ErrInvalidArchive", err)
	}
}

func TestVerifyRejectsEmptyArchive(t *testing.T) {
	data := testsupport.BuildZip(t, nil)

	err := archive.Verify(data)
	if !errors.Is(err, archive.ErrEmptyArchive) {
		t.Fatalf("Verify error = %v, want ErrEmptyArchive", err)
	}
}

func TestVerifyAcceptsNonEmptyArchive(t *testing.T) {
	data := testsupport.BuildZip(t, []testsupport.ZipEntry{
		{Name: "readme.md", Body: "anything"},
	})

	if err := archive.Verify(data); err != nil {
		t.Fatalf("Verify: %v", err)
	}
}

func TestExtractTranscriptsFiltersEntries(t *testing.T) {
	data := testsupport.BuildZip(t, []testsupport.ZipEntry{
		{Name: "s01e01 - Pilot.txt", Body: "JOHN: hello\n"},
		{Name: "Season 2/e03 - Return.txt", Body: "MARY: back again\n"},
		{Name: "notes.md", Body: "skip me"},
		{Name: "__MACOSX/s01e01 - Pilot.txt", Body: "resource fork"},
		{Name: "Season 2/.DS_Store", Body: "junk"},
		{Name: "cover.PNG", Body: "binary"},
	})

	files, err := archive.ExtractTranscripts(data)
	if err != nil {
		t.Fatalf("ExtractTranscripts: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("got %d files, want 2", len(files))
	}
	if files[0].Path != "s01e01 - Pilot.txt" {
		t.Errorf("files[0].Path = %q", files[0].Path)
	}
	if files[0].Content != "JOHN: hello\n" {
		t.Errorf("files[0].Content = %q", files[0].Content)
	}
	if files[1].Path != "Season 2/e03 - Return.txt" {
		t.Errorf("files[1].Path = %q", files[1].Path)
	}
}

func TestExtractTranscriptsKeepsUppercaseExtension(t *testing.T) {
	data := testsupport.BuildZip(t, []testsupport.ZipEntry{
		{Name: "s01e02 - Encore.TXT", Body: "JOHN: again\n"},
	})

	files, err := archive.ExtractTranscripts(data)
	if err != nil {
		t.Fatalf("ExtractTranscripts: %v", err)
	}
	if len(files) != 1 {
		t.Fatalf("got %d files, want 1", len(files))
	}
}

func TestExtractTranscriptsNoTextEntries(t *testing.T) {
	data := testsupport.BuildZip(t, []testsupport.ZipEntry{
		{Name: "notes.md", Body: "nothing usable"},
	})

	files, err := archive.ExtractTranscripts(data)
	if err != nil {
		t.Fatalf("ExtractTranscripts: %v", err)
	}
	if len(files) != 0 {
		t.Fatalf("got %d files, want 0", len(files))
	}
}
