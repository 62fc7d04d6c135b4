package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joefazee/atlas/app/preferences"
)

func newThemeCmd(c *cli) *cobra.Command {
	var toggle bool

	cmd := &cobra.Command{
		Use:       "theme [light|dark]",
		Short:     "Show or change the colour theme",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{string(preferences.ThemeLight), string(preferences.ThemeDark)},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			var (
				theme preferences.Theme
				err   error
			)
			switch {
			case len(args) == 1:
				theme, err = preferences.ParseTheme(args[0])
				if err == nil {
					err = c.prefs.SetTheme(ctx, theme)
				}
			case toggle:
				theme, err = c.prefs.ToggleTheme(ctx)
			default:
				theme, err = c.prefs.Theme(ctx)
			}
			if err != nil {
				return err
			}

			p := paletteFor(theme)
			fmt.Fprintf(cmd.OutOrStdout(), "theme: %s\n", p.title.Render(string(theme)))
			return nil
		},
	}
	cmd.Flags().BoolVarP(&toggle, "toggle", "t", false, "switch between light and dark")
	return cmd
}

// palette reads the stored theme
func (c *cli) palette(cmd *cobra.Command) (palette, error) {
	theme, err := c.prefs.Theme(cmd.Context())
	if err != nil {
		return palette{}, err
	}
	return paletteFor(theme), nil
}
