// Package browsertest provides an in-memory browser.Page that serves canned
// HTML, for tests of code that drives a browser.
package browsertest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/DanielFillol/linkedin-people-scraper/internal/browser"
)

// Page is a fake browser tab. Selectors passed to WaitPresent and Count are
// evaluated against the HTML served for the current URL.
type Page struct {
	mu sync.Mutex

	// Documents maps a URL to the HTML served after navigating to it.
	Documents map[string]string
	// NavigateErrs forces Navigate to fail for a URL.
	NavigateErrs map[string]error
	// Heights is the sequence of scroll heights reported after each scroll
	// on a page; the last value repeats. Empty means a fixed height.
	Heights []int64
	// Clicks queues TryClick results per selector. An empty queue yields
	// browser.ClickAbsent.
	Clicks map[string][]browser.ClickResult

	Visited []string
	Clicked []string
	Filled  map[string]string
	Entered []string
	Scrolls int

	current   string
	heightIdx int
}

// New returns a Page serving docs.
func New(docs map[string]string) *Page {
	return &Page{
		Documents: docs,
		Clicks:    map[string][]browser.ClickResult{},
		Filled:    map[string]string{},
	}
}

// QueueClicks appends results for sel.
func (p *Page) QueueClicks(sel string, results ...browser.ClickResult) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Clicks[sel] = append(p.Clicks[sel], results...)
}

// VisitedURLs returns a copy of every navigated URL, in order.
func (p *Page) VisitedURLs() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.Visited...)
}

func (p *Page) Navigate(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Visited = append(p.Visited, url)
	if err := p.NavigateErrs[url]; err != nil {
		return err
	}
	p.current = url
	p.heightIdx = 0
	return nil
}

func (p *Page) Location(context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current, nil
}

func (p *Page) ScrollHeight(context.Context) (int64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.Heights) == 0 {
		return 1000, nil
	}
	i := min(p.heightIdx, len(p.Heights)-1)
	return p.Heights[i], nil
}

func (p *Page) ScrollToBottom(context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Scrolls++
	p.heightIdx++
	return nil
}

func (p *Page) WaitPresent(ctx context.Context, sel string, timeout time.Duration) error {
	n, err := p.Count(ctx, sel)
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s after %s: %w", sel, timeout, browser.ErrTimeout)
	}
	return nil
}

func (p *Page) Count(ctx context.Context, sel string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	p.mu.Lock()
	html := p.Documents[p.current]
	p.mu.Unlock()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return 0, err
	}
	return doc.Find(sel).Length(), nil
}

func (p *Page) TryClick(ctx context.Context, sel string, _ time.Duration) (browser.ClickResult, error) {
	if err := ctx.Err(); err != nil {
		return browser.ClickAbsent, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	q := p.Clicks[sel]
	if len(q) == 0 {
		return browser.ClickAbsent, nil
	}
	res := q[0]
	p.Clicks[sel] = q[1:]
	if res == browser.ClickPerformed {
		p.Clicked = append(p.Clicked, sel)
	}
	return res, nil
}

func (p *Page) Fill(_ context.Context, sel, value string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Filled[sel] = value
	return nil
}

func (p *Page) PressEnter(_ context.Context, sel string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Entered = append(p.Entered, sel)
	return nil
}

func (p *Page) HTML(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	html, ok := p.Documents[p.current]
	if !ok {
		return "", fmt.Errorf("no document for %s", p.current)
	}
	return html, nil
}

var _ browser.Page = (*Page)(nil)
