package testsupport

import (
	"archive/zip"
	"bytes"
	"testing"
)

// ZipEntry is one file to place in a test archive.
type ZipEntry struct {
	Name string
	Body string
}

// BuildZip assembles an in-memory zip archive from the provided entries.
func BuildZip(t testing.TB, entries []ZipEntry) []byte {
	t.Helper()

	var buf bytes.Buffer
	writer := zip.NewWriter(&buf)
	for _, entry := range entries {
		file, err := writer.Create(entry.Name)
		if err != nil {
			t.Fatalf("create zip entry %q: %v", entry.Name, err)
		}
		if _, err := file.Write([]byte(entry.Body)); err != nil {
			t.Fatalf("write zip entry %q: %v", entry.Name, err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close zip writer: %v", err)
	}
	return buf.Bytes()
}
