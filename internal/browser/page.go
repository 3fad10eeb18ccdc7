// Package browser drives a Chromium tab through chromedp and exposes the
// small set of page operations the scraper needs.
package browser

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrTimeout is returned when a bounded wait expires before the element
	// shows up.
	ErrTimeout = errors.New("wait timed out")
	// ErrCheckpoint is returned when the site asks for a captcha or challenge
	// that cannot be solved in headless mode.
	ErrCheckpoint = errors.New("login checkpoint")
)

// Page is one browser tab. Session implements it with chromedp; tests use
// browsertest.Page.
type Page interface {
	Navigate(ctx context.Context, url string) error
	// Location returns the URL currently loaded.
	Location(ctx context.Context) (string, error)
	ScrollHeight(ctx context.Context) (int64, error)
	ScrollToBottom(ctx context.Context) error
	// WaitPresent blocks until sel matches at least one node, or returns an
	// error wrapping ErrTimeout after timeout.
	WaitPresent(ctx context.Context, sel string, timeout time.Duration) error
	Count(ctx context.Context, sel string) (int, error)
	// TryClick clicks the first node matching sel if it becomes visible
	// within timeout. Absence is reported in the result, not as an error.
	TryClick(ctx context.Context, sel string, timeout time.Duration) (ClickResult, error)
	Fill(ctx context.Context, sel, value string) error
	PressEnter(ctx context.Context, sel string) error
	// HTML returns the outer HTML of the document.
	HTML(ctx context.Context) (string, error)
}

// ClickResult is the outcome of an optional click.
type ClickResult int

const (
	// ClickAbsent means no node matched the selector.
	ClickAbsent ClickResult = iota
	// ClickPerformed means the node was clicked.
	ClickPerformed
	// ClickTimedOut means a node matched but never became clickable.
	ClickTimedOut
)

func (r ClickResult) String() string {
	switch r {
	case ClickPerformed:
		return "performed"
	case ClickTimedOut:
		return "timed_out"
	default:
		return "absent"
	}
}

// Sleep pauses for d or until ctx is done.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// WaitUntil polls cond every interval until it returns true or timeout
// elapses.
func WaitUntil(ctx context.Context, timeout, interval time.Duration, cond func(context.Context) bool) error {
	deadline := time.Now().Add(timeout)
	for {
		if cond(ctx) {
			return nil
		}
		if !time.Now().Before(deadline) {
			return ErrTimeout
		}
		if err := Sleep(ctx, interval); err != nil {
			return err
		}
	}
}
