package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"verbatim/internal/transcripts"
)

func newUploadCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "upload <archive.zip>",
		Short: "Upload a zip of transcripts, replacing the tenant's dataset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			message, err := ctx.client().upload(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), message)
			return nil
		},
	}
}

func addFilterFlags(cmd *cobra.Command, query *searchQuery) {
	cmd.Flags().Int64Var(&query.season, "season", 0, "Filter by season number")
	cmd.Flags().Int64Var(&query.episode, "episode", 0, "Filter by episode id")
	cmd.Flags().Int64Var(&query.speaker, "speaker", 0, "Filter by speaker id")
}

func newSearchCommand(ctx *commandContext) *cobra.Command {
	var query searchQuery
	cmd := &cobra.Command{
		Use:   "search <phrase>",
		Short: "Full-text search with per-hit context",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query.phrase = args[0]
			matches, err := ctx.client().search(cmd.Context(), query)
			if err != nil {
				return err
			}
			if !ctx.wantTable() {
				return writeJSON(cmd, matches)
			}
			printMatches(cmd, matches)
			return nil
		},
	}
	addFilterFlags(cmd, &query)
	cmd.Flags().BoolVar(&query.exact, "exact", false, "Match the phrase literally instead of token by token")
	return cmd
}

func printMatches(cmd *cobra.Command, matches []transcripts.Match) {
	out := cmd.OutOrStdout()
	for i, match := range matches {
		fmt.Fprintf(out, "match %d of %d (season id %d, episode id %d, line %d)\n",
			i+1, len(matches), match.Line.SeasonID, match.Line.EpisodeID, match.Line.LineNumber)
		context := match.Context
		if len(context) == 0 {
			context = []transcripts.Line{match.Line}
		}
		printLineTable(cmd, context)
	}
}

func newRandomCommand(ctx *commandContext) *cobra.Command {
	var query searchQuery
	cmd := &cobra.Command{
		Use:   "random",
		Short: "Fetch one random line",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			line, err := ctx.client().randomLine(cmd.Context(), query)
			if err != nil {
				return err
			}
			if !ctx.wantTable() {
				return writeJSON(cmd, line)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", displaySpeaker(line.SpeakerName), line.Content)
			return nil
		},
	}
	addFilterFlags(cmd, &query)
	return cmd
}

func newTranscriptCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "transcript <season> <episode>",
		Short: "Print an episode's full transcript",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			season, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid season number %q", args[0])
			}
			episode, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid episode number %q", args[1])
			}
			lines, err := ctx.client().transcript(cmd.Context(), season, episode)
			if err != nil {
				return err
			}
			if !ctx.wantTable() {
				return writeJSON(cmd, lines)
			}
			printLineTable(cmd, lines)
			return nil
		},
	}
}

func newSeasonsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "seasons",
		Short: "List seasons",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			seasons, err := ctx.client().seasons(cmd.Context())
			if err != nil {
				return err
			}
			if !ctx.wantTable() {
				return writeJSON(cmd, seasons)
			}
			rows := make([][]string, 0, len(seasons))
			for _, season := range seasons {
				rows = append(rows, []string{
					strconv.FormatInt(season.ID, 10),
					strconv.Itoa(season.Number),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"ID", "Season"},
				rows,
				[]columnAlignment{alignRight, alignRight},
			))
			return nil
		},
	}
}

func newSpeakersCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "speakers",
		Short: "List speakers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			speakers, err := ctx.client().speakers(cmd.Context())
			if err != nil {
				return err
			}
			if !ctx.wantTable() {
				return writeJSON(cmd, speakers)
			}
			rows := make([][]string, 0, len(speakers))
			for _, speaker := range speakers {
				rows = append(rows, []string{
					strconv.FormatInt(speaker.ID, 10),
					titleCaser.String(speaker.Name),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"ID", "Speaker"},
				rows,
				[]columnAlignment{alignRight, alignLeft},
			))
			return nil
		},
	}
}

func newEpisodesCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "episodes <season-id>",
		Short: "List a season's episodes by season id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			seasonID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid season id %q", args[0])
			}
			episodes, err := ctx.client().episodes(cmd.Context(), seasonID)
			if err != nil {
				return err
			}
			if !ctx.wantTable() {
				return writeJSON(cmd, episodes)
			}
			printEpisodeTable(cmd, episodes)
			return nil
		},
	}
}

func newEpisodeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "episode <episode-id>",
		Short: "Show one episode by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			episodeID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid episode id %q", args[0])
			}
			episode, err := ctx.client().episode(cmd.Context(), episodeID)
			if err != nil {
				return err
			}
			if !ctx.wantTable() {
				return writeJSON(cmd, episode)
			}
			printEpisodeTable(cmd, []transcripts.Episode{*episode})
			return nil
		},
	}
}

func printEpisodeTable(cmd *cobra.Command, episodes []transcripts.Episode) {
	rows := make([][]string, 0, len(episodes))
	for _, episode := range episodes {
		rows = append(rows, []string{
			strconv.FormatInt(episode.ID, 10),
			strconv.Itoa(episode.Number),
			episode.Title,
		})
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderTable(
		[]string{"ID", "Episode", "Title"},
		rows,
		[]columnAlignment{alignRight, alignRight, alignLeft},
	))
}

func newEvictCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "evict",
		Short: "Delete the tenant's dataset on the server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			message, err := ctx.client().cleanup(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), message)
			return nil
		},
	}
}
