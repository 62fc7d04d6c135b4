package main

import (
	"github.com/spf13/cobra"
)

func newRegionsCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "regions",
		Short: "List the regions usable with list --region",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			regions, err := c.service.Regions(cmd.Context())
			if err != nil {
				return userError(err)
			}
			p, err := c.palette(cmd)
			if err != nil {
				return err
			}
			renderLines(cmd.OutOrStdout(), p, "Regions", regions)
			return nil
		},
	}
}
