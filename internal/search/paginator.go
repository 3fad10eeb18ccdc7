// Package search builds people-search URLs and collects the profile links
// shown on each result page.
package search

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/DanielFillol/linkedin-people-scraper/internal/browser"
	"github.com/DanielFillol/linkedin-people-scraper/internal/model"
)

const (
	// DefaultBaseURL is the people-search endpoint.
	DefaultBaseURL = "https://www.linkedin.com/search/results/people/"
	// DefaultResultSelector matches result anchors.
	DefaultResultSelector = `a.search-result__result-link`
)

// Options tunes page loading.
type Options struct {
	BaseURL         string
	ResultSelector  string
	ResultTimeout   time.Duration
	ScrollPause     time.Duration
	MaxScrollRounds int
	// SettleDelay is a fixed pause after scrolling, before waiting on
	// anchors.
	SettleDelay time.Duration
}

func (o Options) withDefaults() Options {
	if o.BaseURL == "" {
		o.BaseURL = DefaultBaseURL
	}
	if o.ResultSelector == "" {
		o.ResultSelector = DefaultResultSelector
	}
	if o.ResultTimeout == 0 {
		o.ResultTimeout = 10 * time.Second
	}
	if o.ScrollPause == 0 {
		o.ScrollPause = 500 * time.Millisecond
	}
	if o.MaxScrollRounds == 0 {
		o.MaxScrollRounds = 30
	}
	return o
}

// Paginator walks the result pages of one SearchQuery.
type Paginator struct {
	page  browser.Page
	query model.SearchQuery
	opts  Options
}

func NewPaginator(p browser.Page, q model.SearchQuery, opts Options) *Paginator {
	return &Paginator{page: p, query: q, opts: opts.withDefaults()}
}

// URL returns the search URL for a 1-based page number.
func (p *Paginator) URL(page int) string {
	geo := url.QueryEscape(fmt.Sprintf(`["%s:0"]`, p.query.LocationCode()))
	return fmt.Sprintf("%s?facetGeoRegion=%s&keywords=%s&origin=FACETED_SEARCH&page=%d",
		p.opts.BaseURL, geo, url.QueryEscape(p.query.Keyword()), page)
}

// Links loads a result page and returns the unique profile links on it,
// sorted. It fails with an error wrapping browser.ErrTimeout when no result
// anchor renders in time.
func (p *Paginator) Links(ctx context.Context, page int) ([]model.ProfileLink, error) {
	u := p.URL(page)
	if err := p.page.Navigate(ctx, u); err != nil {
		return nil, fmt.Errorf("search page %d: %w", page, err)
	}
	if _, err := browser.ScrollUntilStable(ctx, p.page, p.opts.ScrollPause, p.opts.MaxScrollRounds); err != nil {
		return nil, fmt.Errorf("search page %d: %w", page, err)
	}
	if err := browser.Sleep(ctx, p.opts.SettleDelay); err != nil {
		return nil, err
	}
	if err := p.page.WaitPresent(ctx, p.opts.ResultSelector, p.opts.ResultTimeout); err != nil {
		return nil, fmt.Errorf("search page %d results: %w", page, err)
	}
	html, err := p.page.HTML(ctx)
	if err != nil {
		return nil, fmt.Errorf("search page %d: %w", page, err)
	}
	return ParseLinks(html, u, p.opts.ResultSelector)
}

// ParseLinks extracts the href of every anchor matching sel, resolved
// against base and stripped of query and fragment, without duplicates.
func ParseLinks(html, base, sel string) ([]model.ProfileLink, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse results: %w", err)
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}

	seen := map[string]struct{}{}
	doc.Find(sel).Each(func(_ int, a *goquery.Selection) {
		href, ok := a.Attr("href")
		if !ok {
			return
		}
		if link := canonical(baseURL, href); link != "" {
			seen[link] = struct{}{}
		}
	})

	out := make([]model.ProfileLink, 0, len(seen))
	for l := range seen {
		out = append(out, model.ProfileLink(l))
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

func canonical(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") || strings.HasPrefix(href, "javascript:") {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	u := base.ResolveReference(ref)
	u.RawQuery = ""
	u.Fragment = ""
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u.String()
}
