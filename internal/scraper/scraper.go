// Package scraper drives a whole run: sign in, walk the search pages and
// turn every new profile into a stored record.
package scraper

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/DanielFillol/linkedin-people-scraper/internal/browser"
	"github.com/DanielFillol/linkedin-people-scraper/internal/expand"
	"github.com/DanielFillol/linkedin-people-scraper/internal/logger"
	"github.com/DanielFillol/linkedin-people-scraper/internal/model"
	"github.com/DanielFillol/linkedin-people-scraper/internal/store"
)

// ErrInvalidPages is returned by Run for a page count below one.
var ErrInvalidPages = errors.New("pages must be at least 1")

// LinkSource lists the profile links of a search result page.
type LinkSource interface {
	URL(page int) string
	Links(ctx context.Context, page int) ([]model.ProfileLink, error)
}

// Loader navigates to a profile and expands it.
type Loader interface {
	LoadAndExpand(ctx context.Context, link model.ProfileLink) (expand.Report, error)
}

// Parser reads a record out of a rendered profile.
type Parser interface {
	Extract(html string, link model.ProfileLink) (model.ProfileRecord, error)
}

// Deps are the collaborators of a Scraper. All of them must share Page.
type Deps struct {
	Page      browser.Page
	Search    LinkSource
	Expander  Loader
	Extractor Parser
	Store     store.Store
	Logger    logger.Logger
	// Now stamps records; defaults to time.Now.
	Now func() time.Time
}

// Options control a run.
type Options struct {
	Credentials    browser.Credentials
	LoginSelectors browser.LoginSelectors
	Login          browser.LoginOptions
	// FailFast stops the run at the first profile or page failure. When
	// false failures are logged and counted and the run carries on.
	FailFast bool
	// DumpHTML writes every search page snapshot to DumpDir.
	DumpHTML bool
	DumpDir  string
}

// Summary counts what a run did.
type Summary struct {
	Pages       int
	FailedPages int
	Found       int
	Skipped     int
	Saved       int
	Failed      int
	Duration    time.Duration
}

// Fields renders the summary for logging.
func (s Summary) Fields() []logger.Field {
	return []logger.Field{
		logger.Int("pages", s.Pages),
		logger.Int("failed_pages", s.FailedPages),
		logger.Int("found", s.Found),
		logger.Int("skipped", s.Skipped),
		logger.Int("saved", s.Saved),
		logger.Int("failed", s.Failed),
		logger.Duration("duration", s.Duration),
	}
}

// Scraper runs one keyword/location search. It is not safe for concurrent
// use; a single browser tab backs it.
type Scraper struct {
	deps    Deps
	opts    Options
	log     logger.Logger
	records []model.ProfileRecord
}

func New(deps Deps, opts Options) *Scraper {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	log := deps.Logger
	if log == nil {
		log = logger.NewNop()
	}
	return &Scraper{deps: deps, opts: opts, log: log}
}

// Records returns the records saved by the last Run.
func (s *Scraper) Records() []model.ProfileRecord {
	return append([]model.ProfileRecord(nil), s.records...)
}

// Run signs in once and visits result pages 1..pages. The summary is
// filled in even when an error is returned.
func (s *Scraper) Run(ctx context.Context, pages int) (sum Summary, err error) {
	if pages < 1 {
		return sum, fmt.Errorf("%w: got %d", ErrInvalidPages, pages)
	}
	start := time.Now()
	s.records = nil
	defer func() {
		sum.Duration = time.Since(start)
		s.log.Info("run finished", sum.Fields()...)
	}()

	unlock, err := s.deps.Store.Lock(ctx)
	if err != nil {
		return sum, fmt.Errorf("lock results: %w", err)
	}
	defer func() {
		if uerr := unlock(); uerr != nil {
			s.log.Warn("release results lock", logger.Error(uerr))
		}
	}()

	s.log.Info("signing in", logger.String("user", s.opts.Credentials.Username), logger.Bool("headless", s.opts.Login.Headless))
	if err := browser.Login(ctx, s.deps.Page, s.opts.Credentials, s.opts.LoginSelectors, s.opts.Login); err != nil {
		return sum, err
	}
	s.log.Info("signed in")

	for page := 1; page <= pages; page++ {
		if err := s.runPage(ctx, page, &sum); err != nil {
			return sum, err
		}
	}
	return sum, nil
}

func (s *Scraper) runPage(ctx context.Context, page int, sum *Summary) error {
	log := s.log.With(logger.Int("page", page))
	log.Info("loading search page", logger.String("url", s.deps.Search.URL(page)))

	links, err := s.deps.Search.Links(ctx, page)
	if s.opts.DumpHTML {
		s.dump(ctx, page, log)
	}
	if err != nil {
		if ctx.Err() != nil || s.opts.FailFast {
			return err
		}
		sum.FailedPages++
		log.Warn("search page failed", logger.Error(err))
		return nil
	}
	sum.Pages++
	sum.Found += len(links)
	log.Info("profiles on page", logger.Int("count", len(links)))

	for _, link := range links {
		if err := s.runProfile(ctx, link, sum, log); err != nil {
			return err
		}
	}
	return nil
}

func (s *Scraper) runProfile(ctx context.Context, link model.ProfileLink, sum *Summary, log logger.Logger) error {
	log = log.With(logger.String("link", link.String()))

	stage, err := s.process(ctx, link, sum, log)
	if err == nil {
		return nil
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	perr := &ProfileError{Link: link.String(), Stage: stage, Err: err}
	if s.opts.FailFast {
		return perr
	}
	sum.Failed++
	log.Warn("profile failed", logger.String("stage", stage.String()), logger.Error(err))
	return nil
}

// process returns the stage it failed to reach along with the error.
func (s *Scraper) process(ctx context.Context, link model.ProfileLink, sum *Summary, log logger.Logger) (Stage, error) {
	id, err := link.ID()
	if err != nil {
		return StageLoaded, err
	}
	done, err := s.deps.Store.IsScraped(ctx, id)
	if err != nil {
		return StageLoaded, err
	}
	if done {
		sum.Skipped++
		log.Debug("already scraped", logger.String("id", id))
		return StageSaved, nil
	}

	rep, err := s.deps.Expander.LoadAndExpand(ctx, link)
	if err != nil {
		if rep.Ready {
			return StageExpanded, err
		}
		return StageLoaded, err
	}
	log.Debug("expanded", rep.Fields()...)

	html, err := s.deps.Page.HTML(ctx)
	if err != nil {
		return StageExtracted, err
	}
	rec, err := s.deps.Extractor.Extract(html, link)
	if err != nil {
		return StageExtracted, err
	}
	rec.ScrapedAt = s.deps.Now().UTC()

	if err := s.deps.Store.Save(ctx, rec, id); err != nil {
		return StageSaved, err
	}
	s.records = append(s.records, rec)
	sum.Saved++

	fields := []logger.Field{logger.String("id", id), logger.String("name", rec.Name)}
	if len(rec.Issues) > 0 {
		fields = append(fields, logger.Int("issues", len(rec.Issues)))
	}
	log.Info("profile saved", fields...)
	return StageSaved, nil
}

func (s *Scraper) dump(ctx context.Context, page int, log logger.Logger) {
	html, err := s.deps.Page.HTML(ctx)
	if err != nil {
		log.Warn("dump html", logger.Error(err))
		return
	}
	dir := s.opts.DumpDir
	if dir == "" {
		dir = "."
	}
	path := filepath.Join(dir, fmt.Sprintf("search_page_%d.html", page))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		log.Warn("dump html", logger.Error(err))
		return
	}
	if err := os.WriteFile(path, []byte(html), 0o644); err != nil {
		log.Warn("dump html", logger.Error(err))
		return
	}
	log.Info("html saved", logger.String("path", path))
}
