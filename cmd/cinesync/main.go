package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "cinesync",
		Short:         "Movie and show catalog with per-profile favorites and watch history",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}

	root.AddCommand(
		newServeCmd(),
		newProfilesCmd(),
		newUseCmd(),
		newThemeCmd(),
		newEpisodeCmd(),
	)
	return root
}
