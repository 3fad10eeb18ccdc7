package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/DanielFillol/linkedin-people-scraper/internal/browser"
	"github.com/DanielFillol/linkedin-people-scraper/internal/expand"
	"github.com/DanielFillol/linkedin-people-scraper/internal/extract"
	"github.com/DanielFillol/linkedin-people-scraper/internal/location"
	"github.com/DanielFillol/linkedin-people-scraper/internal/logger"
	"github.com/DanielFillol/linkedin-people-scraper/internal/model"
	"github.com/DanielFillol/linkedin-people-scraper/internal/scraper"
	"github.com/DanielFillol/linkedin-people-scraper/internal/search"
	"github.com/DanielFillol/linkedin-people-scraper/internal/secrets"
	"github.com/DanielFillol/linkedin-people-scraper/internal/store"
)

func (a *app) scrapeCmd() *cobra.Command {
	var (
		keyword, loc string
		pages        int
		headless     bool
		failFast     bool
		dumpHTML     bool
	)
	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Sign in, run the search and store every new profile",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := a.cfg
			flags := cmd.Flags()
			if flags.Changed("keyword") {
				cfg.Search.Keyword = keyword
			}
			if flags.Changed("location") {
				cfg.Search.Location = loc
			}
			if flags.Changed("pages") {
				cfg.Search.Pages = pages
			}
			if flags.Changed("headless") {
				cfg.Browser.Headless = headless
			}
			if flags.Changed("fail-fast") {
				cfg.FailFast = failFast
			}
			if flags.Changed("dump-html") {
				cfg.DumpHTML = dumpHTML
			}
			if err := cfg.ValidateScrape(); err != nil {
				return err
			}
			return a.scrape(cmd)
		},
	}
	f := cmd.Flags()
	f.StringVar(&keyword, "keyword", "", "search keyword, e.g. \"Data Scientist\"")
	f.StringVar(&loc, "location", "", "location name, see `locations`")
	f.IntVar(&pages, "pages", 1, "number of result pages to visit")
	f.BoolVar(&headless, "headless", true, "run Chromium without a window")
	f.BoolVar(&failFast, "fail-fast", false, "stop at the first failed profile")
	f.BoolVar(&dumpHTML, "dump-html", false, "save search page HTML for debugging")
	return cmd
}

func (a *app) scrape(cmd *cobra.Command) error {
	cfg := a.cfg
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if cfg.RunTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.RunTimeout)
		defer cancel()
	}

	base, err := a.newLogger()
	if err != nil {
		return err
	}
	defer base.Sync()
	log := base.With(
		logger.String("run_id", uuid.NewString()),
		logger.String("keyword", cfg.Search.Keyword),
		logger.String("location", cfg.Search.Location),
	)

	q, err := model.NewSearchQuery(cfg.Search.Keyword, cfg.Search.Location, location.NewResolver(cfg.Locations))
	if err != nil {
		return err
	}
	password, err := secrets.Password(cfg.Credentials.Account(), cfg.Credentials.Password)
	if err != nil {
		return err
	}

	st, err := store.Open(ctx, cfg.Storage, q.Keyword())
	if err != nil {
		return err
	}
	defer st.Close()

	sess, err := browser.New(ctx, browser.Options{
		Headless:  cfg.Browser.Headless,
		ExecPath:  cfg.Browser.ChromePath,
		UserAgent: cfg.Browser.UserAgent,
		Lang:      cfg.Browser.Lang,
	})
	if err != nil {
		return err
	}
	defer sess.Close()

	page := browser.NewThrottle(sess, cfg.Throttle.RequestsPerMinute, cfg.Throttle.Jitter)
	s := scraper.New(scraper.Deps{
		Page:      page,
		Search:    search.NewPaginator(page, q, cfg.SearchOptions()),
		Expander:  expand.New(page, cfg.ExpandSelectors(), cfg.ExpandOptions()),
		Extractor: extract.New(cfg.Selectors.Profile),
		Store:     st,
		Logger:    log,
	}, scraper.Options{
		Credentials:    browser.Credentials{Username: cfg.Credentials.Username, Password: password},
		LoginSelectors: cfg.LoginSelectors(),
		Login: browser.LoginOptions{
			Headless:         cfg.Browser.Headless,
			ChallengeTimeout: cfg.Browser.ChallengeTimeout,
		},
		FailFast: cfg.FailFast,
		DumpHTML: cfg.DumpHTML,
		DumpDir:  filepath.Join(resultsRoot(cfg.Storage), q.Keyword(), ".debug"),
	})

	sum, err := s.Run(ctx, cfg.Search.Pages)
	fmt.Fprintf(cmd.OutOrStdout(), "pages=%d found=%d skipped=%d saved=%d failed=%d duration=%s\n",
		sum.Pages, sum.Found, sum.Skipped, sum.Saved, sum.Failed, sum.Duration.Round(time.Millisecond))
	return err
}

func resultsRoot(c store.Config) string {
	if c.ResultsRoot == "" {
		return "results"
	}
	return c.ResultsRoot
}
