package browser_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/DanielFillol/linkedin-people-scraper/internal/browser"
	"github.com/DanielFillol/linkedin-people-scraper/internal/browser/browsertest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClickResultString(t *testing.T) {
	assert.Equal(t, "performed", browser.ClickPerformed.String())
	assert.Equal(t, "absent", browser.ClickAbsent.String())
	assert.Equal(t, "timed_out", browser.ClickTimedOut.String())
}

func TestWaitUntil(t *testing.T) {
	var calls atomic.Int32
	err := browser.WaitUntil(context.Background(), time.Second, time.Millisecond, func(context.Context) bool {
		return calls.Add(1) == 3
	})
	require.NoError(t, err)
	assert.EqualValues(t, 3, calls.Load())

	err = browser.WaitUntil(context.Background(), 2*time.Millisecond, time.Millisecond, func(context.Context) bool { return false })
	assert.ErrorIs(t, err, browser.ErrTimeout)
}

func TestThrottleDelaysNavigation(t *testing.T) {
	page := browsertest.New(nil)
	th := browser.NewThrottle(page, 600, 0) // one every 100ms

	start := time.Now()
	require.NoError(t, th.Navigate(context.Background(), "a"))
	require.NoError(t, th.Navigate(context.Background(), "b"))
	assert.GreaterOrEqual(t, time.Since(start), 80*time.Millisecond)
	assert.Equal(t, []string{"a", "b"}, page.VisitedURLs())
}

func TestThrottleHonoursCancel(t *testing.T) {
	page := browsertest.New(nil)
	th := browser.NewThrottle(page, 1, 0)
	require.NoError(t, th.Navigate(context.Background(), "a"))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.Error(t, th.Navigate(ctx, "b"))
	assert.Equal(t, []string{"a"}, page.VisitedURLs())
}
