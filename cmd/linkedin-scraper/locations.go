package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/DanielFillol/linkedin-people-scraper/internal/location"
)

func (a *app) locationsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "locations",
		Short: "List the supported location names",
		RunE: func(cmd *cobra.Command, _ []string) error {
			r := location.NewResolver(a.cfg.Locations)
			for _, name := range r.Names() {
				code, err := r.Resolve(name)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", name, code)
			}
			return nil
		},
	}
}
