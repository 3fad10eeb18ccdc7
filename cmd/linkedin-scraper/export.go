package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/DanielFillol/linkedin-people-scraper/internal/export"
	"github.com/DanielFillol/linkedin-people-scraper/internal/store"
)

func (a *app) exportCmd() *cobra.Command {
	var keyword, format, out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every stored profile of a keyword to a CSV or XLSX file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if keyword == "" {
				keyword = a.cfg.Search.Keyword
			}
			if keyword == "" {
				return fmt.Errorf("--keyword is required")
			}
			if format == "" {
				format = strings.TrimPrefix(strings.ToLower(filepath.Ext(out)), ".")
				if format == "" {
					format = export.FormatCSV
				}
			}
			if out == "" {
				out = keyword + "." + format
			}
			if err := a.cfg.Validate(); err != nil {
				return err
			}

			ctx := cmd.Context()
			st, err := store.Open(ctx, a.cfg.Storage, keyword)
			if err != nil {
				return err
			}
			defer st.Close()

			n, err := export.Aggregate(ctx, st, format, out)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "exported %d profiles to %s\n", n, out)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&keyword, "keyword", "", "keyword whose results are exported")
	f.StringVar(&format, "format", "", "csv or xlsx (default from --out, else csv)")
	f.StringVar(&out, "out", "", "output path (default <keyword>.<format>)")
	return cmd
}
