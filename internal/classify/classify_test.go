package classify_test

import (
	"testing"

	"verbatim/internal/classify"
)

func TestFilename(t *testing.T) {
	cases := []struct {
		name      string
		filename  string
		parentDir string
		want      classify.Identity
		wantOK    bool
	}{
		{
			name:     "season x episode with title",
			filename: "1x01 - Pilot.txt",
			want:     classify.Identity{Season: 1, Episode: 1, Title: "Pilot"},
			wantOK:   true,
		},
		{
			name:     "two digit season x episode",
			filename: "12x09 - The Finale.txt",
			want:     classify.Identity{Season: 12, Episode: 9, Title: "The Finale"},
			wantOK:   true,
		},
		{
			name:     "sxxexx with title",
			filename: "S02E05 - Storm.txt",
			want:     classify.Identity{Season: 2, Episode: 5, Title: "Storm"},
			wantOK:   true,
		},
		{
			name:     "sxxexx without title",
			filename: "s03e11.txt",
			want:     classify.Identity{Season: 3, Episode: 11, Title: ""},
			wantOK:   true,
		},
		{
			name:      "episode only under season dir",
			filename:  "e05 - Finale.txt",
			parentDir: "Season 3",
			want:      classify.Identity{Season: 3, Episode: 5, Title: "Finale"},
			wantOK:    true,
		},
		{
			name:      "episode only under bare numeric dir",
			filename:  "E1 - Opening.txt",
			parentDir: "S4",
			want:      classify.Identity{Season: 4, Episode: 1, Title: "Opening"},
			wantOK:    true,
		},
		{
			name:      "episode only under unrelated dir",
			filename:  "e05 - Finale.txt",
			parentDir: "Extras",
			wantOK:    false,
		},
		{
			name:     "episode only without parent dir",
			filename: "e05 - Finale.txt",
			wantOK:   false,
		},
		{
			name:     "case insensitive x pattern",
			filename: "1X01 - PILOT.TXT",
			want:     classify.Identity{Season: 1, Episode: 1, Title: "PILOT"},
			wantOK:   true,
		},
		{
			name:     "title whitespace trimmed",
			filename: "1x02 -   Spaced Out  .txt",
			want:     classify.Identity{Season: 1, Episode: 2, Title: "Spaced Out"},
			wantOK:   true,
		},
		{
			name:     "not a transcript",
			filename: "notes.txt",
			wantOK:   false,
		},
		{
			name:     "wrong extension",
			filename: "1x01 - Pilot.md",
			wantOK:   false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := classify.Filename(tc.filename, tc.parentDir)
			if ok != tc.wantOK {
				t.Fatalf("Filename(%q, %q) ok = %v, want %v", tc.filename, tc.parentDir, ok, tc.wantOK)
			}
			if ok && got != tc.want {
				t.Fatalf("Filename(%q, %q) = %+v, want %+v", tc.filename, tc.parentDir, got, tc.want)
			}
		})
	}
}

func TestFilenamePriorityOrder(t *testing.T) {
	// A name matching the NxM pattern must not fall through to later rules
	// even when a parent directory would satisfy them.
	got, ok := classify.Filename("2x04 - Duet.txt", "Season 9")
	if !ok {
		t.Fatal("expected match")
	}
	if got.Season != 2 || got.Episode != 4 {
		t.Fatalf("expected first pattern to win, got %+v", got)
	}
}
