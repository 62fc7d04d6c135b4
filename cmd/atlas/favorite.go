package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joefazee/atlas/models"
)

func newFavoriteCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "favorite [CODE]",
		Short: "Toggle a favorite country, or list favorites",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := c.palette(cmd)
			if err != nil {
				return err
			}

			favorites, err := c.prefs.Favorites(ctx)
			if err != nil {
				return err
			}
			if len(args) == 0 {
				renderLines(cmd.OutOrStdout(), p, "Favorites", favorites.Codes())
				return nil
			}

			if !models.IsCountryCode(args[0]) {
				return fmt.Errorf("%q is not a two-letter country code", args[0])
			}
			code := strings.ToUpper(args[0])

			favorites = favorites.Toggle(code)
			if err := c.prefs.SaveFavorites(ctx, favorites); err != nil {
				return err
			}

			if favorites.Contains(code) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s added to favorites\n", p.favorite.UnsetPadding().Render(heartOn), code)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s removed from favorites\n", p.muted.Render(heartOff), code)
			}
			return nil
		},
	}
}
