package classify

import (
	"regexp"
	"strconv"
	"strings"
)

// Identity is the episode identity recovered from a transcript filename.
type Identity struct {
	Season  int
	Episode int
	Title   string
}

// matcher pairs a filename pattern with the rule that builds an identity from
// its captures. Matchers are tried in order; the first hit wins.
type matcher struct {
	name    string
	pattern *regexp.Regexp
	build   func(captures []string, parentDir string) (Identity, bool)
}

var (
	seasonXEpisodePattern = regexp.MustCompile(`(?i)^(\d{1,2})x(\d{1,2})\s*-\s*(.+)\.txt$`)
	sxxExxPattern         = regexp.MustCompile(`(?i)^s(\d{1,2})e(\d{1,2})(?:\s*-\s*(.+))?\.txt$`)
	episodeOnlyPattern    = regexp.MustCompile(`(?i)^e(\d+)\s*-\s*(.+)\.txt$`)
	seasonDirPattern      = regexp.MustCompile(`(?i)(?:season)?\s*s?(\d{1,2})`)
)

var matchers = []matcher{
	{
		name:    "NxM - title",
		pattern: seasonXEpisodePattern,
		build: func(captures []string, _ string) (Identity, bool) {
			season, ok := parseNumber(captures[1])
			if !ok {
				return Identity{}, false
			}
			episode, ok := parseNumber(captures[2])
			if !ok {
				return Identity{}, false
			}
			return Identity{Season: season, Episode: episode, Title: strings.TrimSpace(captures[3])}, true
		},
	},
	{
		name:    "SxxExx",
		pattern: sxxExxPattern,
		build: func(captures []string, _ string) (Identity, bool) {
			season, ok := parseNumber(captures[1])
			if !ok {
				return Identity{}, false
			}
			episode, ok := parseNumber(captures[2])
			if !ok {
				return Identity{}, false
			}
			return Identity{Season: season, Episode: episode, Title: strings.TrimSpace(captures[3])}, true
		},
	},
	{
		name:    "Exx - title under season dir",
		pattern: episodeOnlyPattern,
		build: func(captures []string, parentDir string) (Identity, bool) {
			season, ok := seasonFromDir(parentDir)
			if !ok {
				return Identity{}, false
			}
			episode, ok := parseNumber(captures[1])
			if !ok {
				return Identity{}, false
			}
			return Identity{Season: season, Episode: episode, Title: strings.TrimSpace(captures[2])}, true
		},
	},
}

// Filename classifies a transcript filename, optionally consulting the parent
// directory name for patterns that omit the season. The second return is false
// when no pattern recognizes the name; callers skip such files.
func Filename(name, parentDir string) (Identity, bool) {
	name = strings.TrimSpace(name)
	for _, m := range matchers {
		captures := m.pattern.FindStringSubmatch(name)
		if captures == nil {
			continue
		}
		if identity, ok := m.build(captures, parentDir); ok {
			return identity, true
		}
	}
	return Identity{}, false
}

func seasonFromDir(parentDir string) (int, bool) {
	if parentDir == "" {
		return 0, false
	}
	captures := seasonDirPattern.FindStringSubmatch(parentDir)
	if captures == nil {
		return 0, false
	}
	return parseNumber(captures[1])
}

func parseNumber(value string) (int, bool) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, false
	}
	return n, true
}
