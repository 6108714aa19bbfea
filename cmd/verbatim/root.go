package main

import (
	"github.com/spf13/cobra"
)

const defaultServerURL = "http://localhost:8081"

func newRootCommand() *cobra.Command {
	var serverFlag string
	var userFlag string
	var jsonFlag bool

	ctx := newCommandContext(&serverFlag, &userFlag, &jsonFlag)

	rootCmd := &cobra.Command{
		Use:           "verbatim",
		Short:         "Client for the verbatim transcript search service",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVar(&serverFlag, "server", defaultServerURL, "Base URL of the verbatim server")
	rootCmd.PersistentFlags().StringVarP(&userFlag, "user", "u", "default", "Tenant identifier for all requests")
	rootCmd.PersistentFlags().BoolVar(&jsonFlag, "json", false, "Force JSON output even on a terminal")

	rootCmd.AddCommand(newUploadCommand(ctx))
	rootCmd.AddCommand(newSearchCommand(ctx))
	rootCmd.AddCommand(newRandomCommand(ctx))
	rootCmd.AddCommand(newTranscriptCommand(ctx))
	rootCmd.AddCommand(newSeasonsCommand(ctx))
	rootCmd.AddCommand(newSpeakersCommand(ctx))
	rootCmd.AddCommand(newEpisodesCommand(ctx))
	rootCmd.AddCommand(newEpisodeCommand(ctx))
	rootCmd.AddCommand(newEvictCommand(ctx))
	rootCmd.AddCommand(newConfigCommand())

	return rootCmd
}

// commandContext carries the persistent flags into each subcommand.
type commandContext struct {
	serverFlag *string
	userFlag   *string
	jsonFlag   *bool
}

func newCommandContext(serverFlag, userFlag *string, jsonFlag *bool) *commandContext {
	return &commandContext{
		serverFlag: serverFlag,
		userFlag:   userFlag,
		jsonFlag:   jsonFlag,
	}
}

func (c *commandContext) client() *client {
	return newClient(*c.serverFlag, *c.userFlag)
}

func (c *commandContext) wantTable() bool {
	return !*c.jsonFlag && stdoutIsTerminal()
}
