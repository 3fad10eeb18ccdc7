package browser

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
)

const defaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/125.0 Safari/537.36"

// Options configures the Chromium process.
type Options struct {
	Headless  bool
	ExecPath  string
	UserAgent string
	Lang      string
}

// Session owns one Chromium process and a single tab. Close must be called
// on every exit path; it is safe to call more than once.
type Session struct {
	ctx         context.Context
	cancelTab   context.CancelFunc
	cancelAlloc context.CancelFunc
	closeOnce   sync.Once
}

// New starts Chromium and opens a blank tab.
func New(ctx context.Context, opts Options) (*Session, error) {
	if opts.UserAgent == "" {
		opts.UserAgent = defaultUserAgent
	}
	if opts.Lang == "" {
		opts.Lang = "en-US"
	}

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", opts.Headless),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("lang", opts.Lang),
		chromedp.UserAgent(opts.UserAgent),
	)
	execPath := opts.ExecPath
	if execPath == "" {
		execPath = os.Getenv("CHROME_PATH")
	}
	if execPath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(execPath))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, allocOpts...)
	tabCtx, tabCancel := chromedp.NewContext(allocCtx)

	s := &Session{ctx: tabCtx, cancelTab: tabCancel, cancelAlloc: allocCancel}
	err := chromedp.Run(tabCtx,
		network.Enable(),
		network.SetExtraHTTPHeaders(network.Headers{"Accept-Language": opts.Lang}),
		chromedp.Navigate("about:blank"),
	)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("start chrome: %w", err)
	}
	return s, nil
}

// Close shuts the tab and the browser process down.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		_ = chromedp.Cancel(s.ctx)
		s.cancelTab()
		s.cancelAlloc()
	})
}

// bind derives a context from the tab that also ends when ctx ends and
// carries ctx's deadline.
func (s *Session) bind(ctx context.Context) (context.Context, context.CancelFunc) {
	c, cancel := context.WithCancel(s.ctx)
	stop := context.AfterFunc(ctx, cancel)
	if dl, ok := ctx.Deadline(); ok {
		var cancelDL context.CancelFunc
		c, cancelDL = context.WithDeadline(c, dl)
		return c, func() { stop(); cancelDL(); cancel() }
	}
	return c, func() { stop(); cancel() }
}

func (s *Session) run(ctx context.Context, actions ...chromedp.Action) error {
	c, cancel := s.bind(ctx)
	defer cancel()
	return chromedp.Run(c, actions...)
}

func (s *Session) Navigate(ctx context.Context, url string) error {
	if err := s.run(ctx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
	); err != nil {
		return fmt.Errorf("navigate %s: %w", url, err)
	}
	return nil
}

func (s *Session) Location(ctx context.Context) (string, error) {
	var loc string
	if err := s.run(ctx, chromedp.Location(&loc)); err != nil {
		return "", fmt.Errorf("location: %w", err)
	}
	return loc, nil
}

func (s *Session) ScrollHeight(ctx context.Context) (int64, error) {
	var h int64
	if err := s.run(ctx, chromedp.Evaluate(`document.body.scrollHeight`, &h)); err != nil {
		return 0, fmt.Errorf("scroll height: %w", err)
	}
	return h, nil
}

func (s *Session) ScrollToBottom(ctx context.Context) error {
	var h int64
	js := `(() => { window.scrollTo(0, document.body.scrollHeight); return document.body.scrollHeight; })()`
	if err := s.run(ctx, chromedp.Evaluate(js, &h)); err != nil {
		return fmt.Errorf("scroll: %w", err)
	}
	return nil
}

func (s *Session) WaitPresent(ctx context.Context, sel string, timeout time.Duration) error {
	wctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	err := s.run(wctx, chromedp.WaitReady(sel, chromedp.ByQuery))
	if err == nil {
		return nil
	}
	if ctx.Err() == nil && errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s after %s: %w", sel, timeout, ErrTimeout)
	}
	return fmt.Errorf("wait %s: %w", sel, err)
}

func (s *Session) Count(ctx context.Context, sel string) (int, error) {
	var n int
	js := fmt.Sprintf(`document.querySelectorAll(%q).length`, sel)
	if err := s.run(ctx, chromedp.Evaluate(js, &n)); err != nil {
		return 0, fmt.Errorf("count %s: %w", sel, err)
	}
	return n, nil
}

func (s *Session) TryClick(ctx context.Context, sel string, timeout time.Duration) (ClickResult, error) {
	wctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	err := s.run(wctx,
		chromedp.WaitVisible(sel, chromedp.ByQuery),
		chromedp.ScrollIntoView(sel, chromedp.ByQuery),
		chromedp.Click(sel, chromedp.ByQuery, chromedp.NodeVisible),
	)
	if err == nil {
		return ClickPerformed, nil
	}
	if ctx.Err() != nil {
		return ClickAbsent, ctx.Err()
	}
	n, cerr := s.Count(ctx, sel)
	if cerr != nil || n == 0 {
		return ClickAbsent, nil
	}
	// Present but hidden, detached mid-click or covered by an overlay.
	return ClickTimedOut, nil
}

func (s *Session) Fill(ctx context.Context, sel, value string) error {
	if err := s.run(ctx,
		chromedp.WaitVisible(sel, chromedp.ByQuery),
		chromedp.SetValue(sel, value, chromedp.ByQuery),
	); err != nil {
		return fmt.Errorf("fill %s: %w", sel, err)
	}
	return nil
}

func (s *Session) PressEnter(ctx context.Context, sel string) error {
	if err := s.run(ctx,
		chromedp.Focus(sel, chromedp.ByQuery),
		chromedp.KeyEvent("\r"),
	); err != nil {
		return fmt.Errorf("press enter on %s: %w", sel, err)
	}
	return nil
}

func (s *Session) HTML(ctx context.Context) (string, error) {
	var html string
	if err := s.run(ctx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return "", fmt.Errorf("outer html: %w", err)
	}
	return html, nil
}

var _ Page = (*Session)(nil)
