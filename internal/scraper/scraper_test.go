package scraper_test

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DanielFillol/linkedin-people-scraper/internal/browser"
	"github.com/DanielFillol/linkedin-people-scraper/internal/browser/browsertest"
	"github.com/DanielFillol/linkedin-people-scraper/internal/expand"
	"github.com/DanielFillol/linkedin-people-scraper/internal/extract"
	"github.com/DanielFillol/linkedin-people-scraper/internal/location"
	"github.com/DanielFillol/linkedin-people-scraper/internal/model"
	"github.com/DanielFillol/linkedin-people-scraper/internal/scraper"
	"github.com/DanielFillol/linkedin-people-scraper/internal/search"
	"github.com/DanielFillol/linkedin-people-scraper/internal/store"
)

const (
	loginURL = "https://www.linkedin.com/login"
	anaURL   = "https://www.linkedin.com/in/ana/"
	bobURL   = "https://www.linkedin.com/in/bob/"
	keyword  = "Data Scientist"
)

const loginForm = `<html><body><input id="username"><input id="password"></body></html>`

const resultsPage = `<html><body><ul>
<li><a class="search-result__result-link" href="/in/ana/">Ana</a></li>
<li><a class="search-result__result-link" href="/in/ana/">Ana (photo)</a></li>
<li><a class="search-result__result-link" href="/in/bob/?miniProfileUrn=urn%3Ali%3A1">Bob</a></li>
</ul></body></html>`

func profile(name, headline string) string {
	return `<html><body>
<h1 class="pv-top-card-section__name">` + name + `</h1>
<h2 class="pv-top-card-section__headline">` + headline + `</h2>
</body></html>`
}

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

type harness struct {
	page      *browsertest.Page
	store     *store.FileStore
	paginator *search.Paginator
	root      string
}

func newHarness(t *testing.T, root string) *harness {
	t.Helper()
	q, err := model.NewSearchQuery(keyword, "Colombia", location.NewResolver(nil))
	require.NoError(t, err)

	page := browsertest.New(map[string]string{
		loginURL: loginForm,
		anaURL:   profile("Ana Gómez", "Data Scientist at Rappi"),
		bobURL:   profile("Bob Díaz", "ML Engineer"),
	})
	pag := search.NewPaginator(page, q, search.Options{ScrollPause: time.Nanosecond, ResultTimeout: time.Millisecond})
	page.Documents[pag.URL(1)] = resultsPage

	st, err := store.NewFileStore(root, keyword)
	require.NoError(t, err)
	return &harness{page: page, store: st, paginator: pag, root: root}
}

func (h *harness) scraper(opts scraper.Options) *scraper.Scraper {
	opts.LoginSelectors = browser.DefaultLoginSelectors()
	opts.Login = browser.LoginOptions{URL: loginURL, FieldTimeout: time.Millisecond, SettleDelay: time.Nanosecond, Headless: true}
	if opts.Credentials.Username == "" {
		opts.Credentials = browser.Credentials{Username: "me@example.com", Password: "pw"}
	}
	return scraper.New(scraper.Deps{
		Page:      h.page,
		Search:    h.paginator,
		Expander:  expand.New(h.page, expand.DefaultSelectors(), expand.Options{ScrollPause: time.Nanosecond}),
		Extractor: extract.New(extract.Selectors{}),
		Store:     h.store,
		Now:       func() time.Time { return fixedNow },
	}, opts)
}

func TestRunEndToEnd(t *testing.T) {
	h := newHarness(t, t.TempDir())
	s := h.scraper(scraper.Options{})

	sum, err := s.Run(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, 1, sum.Pages)
	assert.Equal(t, 2, sum.Found)
	assert.Equal(t, 2, sum.Saved)
	assert.Zero(t, sum.Skipped)
	assert.Zero(t, sum.Failed)

	searchURL := h.paginator.URL(1)
	assert.Contains(t, searchURL, "co%3A0")
	assert.Contains(t, searchURL, "page=1")
	assert.Equal(t, []string{loginURL, searchURL, anaURL, bobURL}, h.page.VisitedURLs())

	data, err := os.ReadFile(filepath.Join(h.root, keyword, "ana.json"))
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	for _, key := range []string{"link", "name", "headline", "description", "experience", "education"} {
		assert.Contains(t, doc, key)
	}
	assert.Equal(t, anaURL, doc["link"])
	assert.Equal(t, "Ana Gómez", doc["name"])
	assert.Nil(t, doc["description"])
	assert.Equal(t, []any{}, doc["experience"])
	assert.FileExists(t, filepath.Join(h.root, keyword, "bob.json"))

	recs := s.Records()
	require.Len(t, recs, 2)
	assert.Equal(t, fixedNow, recs[0].ScrapedAt)
}

func TestRunSkipsStoredProfiles(t *testing.T) {
	root := t.TempDir()
	h := newHarness(t, root)
	require.NoError(t, h.store.Save(context.Background(), model.ProfileRecord{Link: anaURL, Name: "Ana"}, "ana"))

	sum, err := h.scraper(scraper.Options{}).Run(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, 1, sum.Skipped)
	assert.Equal(t, 1, sum.Saved)
	assert.NotContains(t, h.page.VisitedURLs(), anaURL)

	ids, err := h.store.IDs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"ana", "bob"}, ids)

	again := newHarness(t, root)
	sum, err = again.scraper(scraper.Options{}).Run(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 2, sum.Skipped)
	assert.Zero(t, sum.Saved)
}

func TestRunProfileFailure(t *testing.T) {
	t.Run("isolated", func(t *testing.T) {
		h := newHarness(t, t.TempDir())
		h.page.Documents[anaURL] = `<html><body>this profile is not available</body></html>`

		sum, err := h.scraper(scraper.Options{}).Run(context.Background(), 1)
		require.NoError(t, err)
		assert.Equal(t, 1, sum.Failed)
		assert.Equal(t, 1, sum.Saved)
	})

	t.Run("fail fast", func(t *testing.T) {
		h := newHarness(t, t.TempDir())
		h.page.Documents[anaURL] = `<html><body>this profile is not available</body></html>`

		sum, err := h.scraper(scraper.Options{FailFast: true}).Run(context.Background(), 1)
		require.Error(t, err)
		assert.ErrorIs(t, err, extract.ErrRequiredField)

		var perr *scraper.ProfileError
		require.True(t, errors.As(err, &perr))
		assert.Equal(t, anaURL, perr.Link)
		assert.Equal(t, scraper.StageExtracted, perr.Stage)
		assert.Contains(t, err.Error(), "extracted")
		assert.Zero(t, sum.Saved)
		assert.NotContains(t, h.page.VisitedURLs(), bobURL)
	})

	t.Run("navigation", func(t *testing.T) {
		h := newHarness(t, t.TempDir())
		h.page.NavigateErrs = map[string]error{bobURL: errors.New("net::ERR_TIMED_OUT")}

		_, err := h.scraper(scraper.Options{FailFast: true}).Run(context.Background(), 1)
		var perr *scraper.ProfileError
		require.True(t, errors.As(err, &perr))
		assert.Equal(t, scraper.StageLoaded, perr.Stage)
	})
}

func TestRunSearchPageFailure(t *testing.T) {
	h := newHarness(t, t.TempDir())

	sum, err := h.scraper(scraper.Options{}).Run(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Pages)
	assert.Equal(t, 1, sum.FailedPages)
	assert.Contains(t, h.page.VisitedURLs(), h.paginator.URL(2))

	_, err = newHarness(t, t.TempDir()).scraper(scraper.Options{FailFast: true}).Run(context.Background(), 2)
	assert.ErrorIs(t, err, browser.ErrTimeout)
}

func TestRunValidatesPages(t *testing.T) {
	h := newHarness(t, t.TempDir())
	_, err := h.scraper(scraper.Options{}).Run(context.Background(), 0)
	assert.ErrorIs(t, err, scraper.ErrInvalidPages)
	assert.Empty(t, h.page.VisitedURLs())
}

func TestRunRefusesLockedResults(t *testing.T) {
	root := t.TempDir()
	h := newHarness(t, root)

	other, err := store.NewFileStore(root, keyword)
	require.NoError(t, err)
	unlock, err := other.Lock(context.Background())
	require.NoError(t, err)
	defer unlock()

	_, err = h.scraper(scraper.Options{}).Run(context.Background(), 1)
	assert.ErrorIs(t, err, store.ErrLocked)
	assert.Empty(t, h.page.VisitedURLs())
}

func TestRunDumpsSearchPages(t *testing.T) {
	h := newHarness(t, t.TempDir())
	dir := filepath.Join(t.TempDir(), "dump")

	_, err := h.scraper(scraper.Options{DumpHTML: true, DumpDir: dir}).Run(context.Background(), 1)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "search_page_1.html"))
	require.NoError(t, err)
	assert.Equal(t, resultsPage, string(data))
}

func TestRunStopsOnCancel(t *testing.T) {
	h := newHarness(t, t.TempDir())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := h.scraper(scraper.Options{}).Run(ctx, 1)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStageString(t *testing.T) {
	assert.Equal(t, "pending", scraper.StagePending.String())
	assert.Equal(t, "saved", scraper.StageSaved.String())
	assert.Equal(t, "stage(9)", scraper.Stage(9).String())
}
