package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/DanielFillol/linkedin-people-scraper/internal/config"
	"github.com/DanielFillol/linkedin-people-scraper/internal/logger"
)

type app struct {
	cfgFile string
	debug   bool
	cfg     *config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "linkedin-scraper",
		Short:         "Scrape LinkedIn people search results into per-profile records",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(config.Path(a.cfgFile))
			if err != nil {
				return err
			}
			if a.debug {
				cfg.Log.Level = "debug"
				cfg.Log.Development = true
			}
			a.cfg = cfg
			return nil
		},
	}
	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "YAML config file (default $CONFIG_PATH)")
	root.PersistentFlags().BoolVar(&a.debug, "debug", false, "debug logging with the console encoder")

	root.AddCommand(
		a.scrapeCmd(),
		a.exportCmd(),
		a.credentialsCmd(),
		a.locationsCmd(),
	)
	return root
}

func (a *app) newLogger() (logger.Logger, error) {
	log, err := logger.New(a.cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	return log, nil
}
