package main

import (
	"fmt"
	"strconv"

	"github.com/amaumene/cinesync/internal/models"
	"github.com/spf13/cobra"
)

func newProfilesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "profiles",
		Short: "List profiles, marking the current one",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			profiles, err := a.profiles.List(cmd.Context())
			if err != nil {
				return err
			}
			current, err := a.profiles.Current(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(profiles) == 0 {
				fmt.Fprintln(out, "No profiles")
				return nil
			}
			for _, p := range profiles {
				marker := " "
				if p.ID == current {
					marker = "*"
				}
				fmt.Fprintf(out, "%s %s\t%s\n", marker, p.ID, p.Name)
			}
			return nil
		},
	}
}

func newUseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "use <profileId>",
		Short: "Switch the current profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			p, err := a.profiles.Switch(cmd.Context(), models.ID(args[0]))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Now using profile %s (%s)\n", p.Name, p.ID)
			return nil
		},
	}
}

func newThemeCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "theme [toggle|light|dark]",
		Short:     "Show or change the theme preference",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"toggle", "light", "dark"},
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			var theme models.Theme
			switch {
			case len(args) == 0:
				theme, err = a.profiles.Theme()
			case args[0] == "toggle":
				theme, err = a.profiles.ToggleTheme()
			default:
				theme = models.Theme(args[0])
				err = a.profiles.SetTheme(theme)
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), theme)
			return nil
		},
	}
}

func newEpisodeCmd() *cobra.Command {
	var (
		unwatched bool
		title     string
	)

	cmd := &cobra.Command{
		Use:   "episode [showId] <season> <episode>",
		Short: "Mark an episode watched (or unwatched) for the current profile",
		Args: func(cmd *cobra.Command, args []string) error {
			if title != "" {
				return cobra.ExactArgs(2)(cmd, args)
			}
			return cobra.ExactArgs(3)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()
			ctx := cmd.Context()

			var show *models.CatalogItem
			if title != "" {
				show, err = a.details.ResolveShow(ctx, title)
			} else {
				var id int
				id, err = models.ParseTMDBID(args[0])
				if err == nil {
					show, err = a.catalog.Details(ctx, models.MediaTypeTV, id)
				}
				args = args[1:]
			}
			if err != nil {
				return err
			}

			season, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("%w: season %q", models.ErrInvalidEpisode, args[0])
			}
			episode, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("%w: episode %q", models.ErrInvalidEpisode, args[1])
			}

			profileID, err := a.profiles.Current(ctx)
			if err != nil {
				return err
			}

			rec, err := a.watchState.SetEpisodeWatched(ctx, profileID, *show, season, episode, !unwatched)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			state := "watched"
			if unwatched {
				state = "unwatched"
			}
			fmt.Fprintf(out, "%s S%02dE%02d marked %s\n", show.DisplayTitle(), season, episode, state)
			if rec == nil {
				fmt.Fprintln(out, "No history for this show")
				return nil
			}
			for _, s := range rec.WatchedSeasons.Seasons() {
				fmt.Fprintf(out, "  season %d: %v\n", s, rec.WatchedSeasons[s])
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&unwatched, "unwatched", false, "unmark the episode")
	cmd.Flags().StringVar(&title, "title", "", "resolve the show by name instead of id")
	return cmd
}
