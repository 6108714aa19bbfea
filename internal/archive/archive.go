package archive

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"verbatim/internal/transcripts"
)

// ErrInvalidArchive indicates the payload is not a readable zip archive.
var ErrInvalidArchive = errors.New("invalid zip archive")

// ErrEmptyArchive indicates a readable archive with no entries at all.
var ErrEmptyArchive = errors.New("empty zip archive")

// maxEntryBytes caps the decompressed size of a single transcript entry.
// Transcripts are text; anything past this is a hostile or corrupt archive.
const maxEntryBytes = 32 << 20

// Verify checks that data is a readable zip archive containing at least one
// entry. Called before any tenant storage is touched so a bad upload never
// triggers a rebuild.
func Verify(data []byte) error {
	reader, err := open(data)
	if err != nil {
		return err
	}
	if len(reader.File) == 0 {
		return ErrEmptyArchive
	}
	return nil
}

// ExtractTranscripts reads every .txt entry from the archive and returns it
// as a source file, preserving the entry's path inside the archive so the
// parent directory stays available for classification. Non-text entries,
// directories, and macOS resource junk are skipped.
func ExtractTranscripts(data []byte) ([]transcripts.SourceFile, error) {
	reader, err := open(data)
	if err != nil {
		return nil, err
	}

	var files []transcripts.SourceFile
	for _, entry := range reader.File {
		if !wanted(entry) {
			continue
		}
		content, err := readEntry(entry)
		if err != nil {
			return nil, fmt.Errorf("read archive entry %q: %w", entry.Name, err)
		}
		files = append(files, transcripts.SourceFile{
			Path:    entry.Name,
			Content: content,
		})
	}
	return files, nil
}

func open(data []byte) (*zip.Reader, error) {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArchive, err)
	}
	return reader, nil
}

func wanted(entry *zip.File) bool {
	if entry.FileInfo().IsDir() {
		return false
	}
	name := entry.Name
	if strings.HasPrefix(name, "__MACOSX/") {
		return false
	}
	base := path.Base(name)
	if strings.HasPrefix(base, ".") {
		return false
	}
	return strings.EqualFold(path.Ext(base), ".txt")
}

func readEntry(entry *zip.File) (string, error) {
	rc, err := entry.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()

	content, err := io.ReadAll(io.LimitReader(rc, maxEntryBytes+1))
	if err != nil {
		return "", err
	}
	if len(content) > maxEntryBytes {
		return "", fmt.Errorf("entry exceeds %d bytes", maxEntryBytes)
	}
	return string(content), nil
}
