package main

import (
	"github.com/spf13/cobra"

	"github.com/joefazee/atlas/app/countries"
	"github.com/joefazee/atlas/internal/sanitizer"
	"github.com/joefazee/atlas/internal/validator"
)

func newListCmd(c *cli) *cobra.Command {
	var req countries.ListCountriesRequest

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List countries a page at a time",
		Long: `List countries with optional search, region filter, favorites filter and sort.
A --sort given here becomes the default for later runs.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			v := validator.New()
			req.Validate(v)
			v.Check(req.Page >= 1, "page", "must be at least 1")
			if !v.Valid() {
				return validationError(v)
			}
			req.Search = sanitizer.CleanInput(c.sanitizer, req.Search, countries.MaxSearchRunes)

			if req.Sort == "" {
				key, err := c.prefs.Sort(ctx)
				if err != nil {
					return err
				}
				req.Sort = string(key)
			} else if err := c.prefs.SetSort(ctx, countries.SortKey(req.Sort)); err != nil {
				return err
			}

			favorites, err := c.prefs.Favorites(ctx)
			if err != nil {
				return err
			}

			result, err := c.service.ListCountries(ctx, &req, favorites)
			if err != nil {
				return userError(err)
			}

			p, err := c.palette(cmd)
			if err != nil {
				return err
			}
			renderList(cmd.OutOrStdout(), p, result)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&req.Search, "search", "s", "", "match name, code, region or capital")
	flags.StringVarP(&req.Region, "region", "r", countries.AllRegions, "only this region")
	flags.BoolVarP(&req.FavoritesOnly, "favorites", "f", false, "only favorites")
	flags.StringVar(&req.Sort, "sort", "", "name-asc, name-desc, population-desc, population-asc, area-desc or area-asc")
	flags.IntVarP(&req.Page, "page", "p", 1, "page number")
	return cmd
}
