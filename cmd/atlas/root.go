package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/joefazee/atlas/app/countries"
	"github.com/joefazee/atlas/app/preferences"
	"github.com/joefazee/atlas/internal/logger"
	"github.com/joefazee/atlas/internal/sanitizer"
	"github.com/joefazee/atlas/internal/validator"
)

// localClient owns the preferences of the command line user
const localClient = "local"

type cli struct {
	dataPath string
	baseURL  string
	timeout  time.Duration
	logLevel string

	log       logger.Logger
	store     *preferences.BoltStore
	prefs     *preferences.Service
	service   countries.Service
	sanitizer sanitizer.HTMLStripperer
}

// execute runs one command line and always releases the preference file
func execute(args []string, stdout, stderr io.Writer) error {
	c := &cli{}
	root := newRootCmd(c)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.Execute()
	if cerr := c.close(); err == nil {
		err = cerr
	}
	return err
}

func newRootCmd(c *cli) *cobra.Command {
	root := &cobra.Command{
		Use:   "atlas",
		Short: "Browse the countries of the world",
		Long: `Atlas lists, searches and sorts countries from the REST Countries API.
Favorites, the theme and the last sort order are kept in a local file.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.open(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&c.dataPath, "data", "", "preference file (default <user config dir>/atlas/preferences.db)")
	flags.StringVar(&c.baseURL, "base-url", countries.DefaultProviderURL, "REST Countries base URL")
	flags.DurationVar(&c.timeout, "timeout", countries.DefaultProviderTimeout, "provider request timeout")
	flags.StringVar(&c.logLevel, "log-level", "warn", "log level: debug, info, warn, error or off")

	root.AddCommand(
		newListCmd(c),
		newShowCmd(c),
		newFavoriteCmd(c),
		newThemeCmd(c),
		newRegionsCmd(c),
	)
	return root
}

func (c *cli) open(cmd *cobra.Command) error {
	if !validator.IsURL(c.baseURL) {
		return fmt.Errorf("--base-url %q is not an absolute URL", c.baseURL)
	}
	c.log = logger.NewZeroLogger(cmd.ErrOrStderr(), logger.ParseLevel(c.logLevel), logger.Fields{"service": "atlas-cli"})
	c.sanitizer = sanitizer.NewHTMLStripper()

	path, err := c.resolveDataPath()
	if err != nil {
		return err
	}
	store, err := preferences.OpenBoltStore(path)
	if err != nil {
		return fmt.Errorf("open preferences %s: %w", path, err)
	}
	c.store = store
	c.prefs = preferences.NewService(preferences.Scoped(store, localClient), c.log)

	provider := countries.NewRESTProvider(countries.ProviderConfig{BaseURL: c.baseURL, Timeout: c.timeout}, nil)
	c.service = countries.NewService(countries.ServiceOptions{Provider: provider, Logger: c.log})
	return nil
}

func (c *cli) close() error {
	if c.store == nil {
		return nil
	}
	err := c.store.Close()
	c.store = nil
	return err
}

func (c *cli) resolveDataPath() (string, error) {
	if c.dataPath != "" {
		return c.dataPath, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	dir = filepath.Join(dir, "atlas")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", err
	}
	return filepath.Join(dir, "preferences.db"), nil
}

// userError swaps provider failures for the message a user should see
func userError(err error) error {
	var fetchErr *countries.FetchError
	var detailErr *countries.DetailFetchError
	switch {
	case errors.As(err, &fetchErr):
		return fmt.Errorf("%s (%w)", countries.ListErrorMessage, err)
	case errors.As(err, &detailErr):
		return fmt.Errorf("%s (%w)", countries.DetailErrorMessage, err)
	}
	return err
}
