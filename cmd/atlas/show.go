package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joefazee/atlas/models"
)

func newShowCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "show CODE",
		Short: "Show the details of a country",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if !models.IsCountryCode(args[0]) {
				return fmt.Errorf("%q is not a two-letter country code", args[0])
			}

			detail, err := c.service.GetCountryDetail(ctx, args[0])
			if err != nil {
				return userError(err)
			}

			favorites, err := c.prefs.Favorites(ctx)
			if err != nil {
				return err
			}
			p, err := c.palette(cmd)
			if err != nil {
				return err
			}
			renderDetail(cmd.OutOrStdout(), p, detail, favorites.Contains(strings.ToUpper(args[0])))
			return nil
		},
	}
}
