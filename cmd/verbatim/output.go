package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"verbatim/internal/transcripts"
)

var titleCaser = cases.Title(language.English)

// writeJSON encodes v as indented JSON to the command's stdout.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// stdoutIsTerminal reports whether stdout renders for a human. Piped output
// gets JSON instead of tables.
func stdoutIsTerminal() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// displaySpeaker renders a stored speaker name (usually SHOUTED in source
// transcripts) in title case for table output.
func displaySpeaker(name *string) string {
	if name == nil {
		return "-"
	}
	return titleCaser.String(*name)
}

func lineRow(line transcripts.Line) []string {
	return []string{
		strconv.Itoa(line.LineNumber),
		displaySpeaker(line.SpeakerName),
		line.Content,
	}
}

func printLineTable(cmd *cobra.Command, lines []transcripts.Line) {
	rows := make([][]string, 0, len(lines))
	for _, line := range lines {
		rows = append(rows, lineRow(line))
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderTable(
		[]string{"#", "Speaker", "Line"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft},
	))
}
