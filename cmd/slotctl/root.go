package main

import (
	"io"

	"slotbook/internal/api"
	"slotbook/internal/config"
	"slotbook/internal/logging"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// app is what every subcommand needs once flags are parsed.
type app struct {
	cfg    *config.Config
	logger *zerolog.Logger
	store  *api.StoreClient
	closer io.Closer
}

// close releases the log output opened by the persistent pre-run.
func (a *app) close() error {
	if a.closer == nil {
		return nil
	}
	return a.closer.Close()
}

func newRootCmd() (*cobra.Command, *app) {
	var (
		configPath string
		baseURL    string
		a          = &app{}
	)

	root := &cobra.Command{
		Use:           "slotctl",
		Short:         "Manage events and book slots against a slotbook API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if baseURL != "" {
				cfg.Store.BaseURL = baseURL
			}

			// stdout carries command output
			if cfg.Logging.Output == "" || cfg.Logging.Output == "stdout" {
				cfg.Logging.Output = "stderr"
			}
			logger, closer, err := logging.New(cfg.Logging, cfg.App)
			if err != nil {
				return err
			}

			a.cfg = cfg
			a.logger = logging.Component(logger, "slotctl")
			a.store = api.NewStoreClient(cfg.Store, a.logger)
			a.closer = closer
			return nil
		},
	}

	root.PersistentFlags().StringVar(&configPath, "config", config.Path(), "path to config file")
	root.PersistentFlags().StringVar(&baseURL, "api", "", "slotbook API base URL (overrides store.base_url)")

	root.AddCommand(newEventsCmd(a))
	root.AddCommand(newBookingsCmd(a))
	root.AddCommand(newBookCmd(a))
	root.AddCommand(newExportCmd(a))

	return root, a
}

// execute runs root and closes the log output even when the command
// fails; cobra skips post-run hooks after a RunE error.
func execute(root *cobra.Command, a *app) error {
	err := root.Execute()
	closeErr := a.close()
	if err != nil {
		return err
	}
	return closeErr
}
