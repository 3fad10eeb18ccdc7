package browser

import (
	"context"
	"math/rand/v2"
	"time"

	"golang.org/x/time/rate"
)

// Throttle spaces out navigations on the wrapped page: each one waits on a
// token bucket and then a random jitter. Other operations pass through.
type Throttle struct {
	Page
	limiter *rate.Limiter
	jitter  time.Duration
}

// NewThrottle allows perMinute navigations per minute with a burst of one.
// perMinute <= 0 disables the limiter but keeps the jitter.
func NewThrottle(p Page, perMinute float64, jitter time.Duration) *Throttle {
	lim := rate.NewLimiter(rate.Inf, 1)
	if perMinute > 0 {
		lim = rate.NewLimiter(rate.Limit(perMinute/60), 1)
	}
	return &Throttle{Page: p, limiter: lim, jitter: jitter}
}

func (t *Throttle) Navigate(ctx context.Context, url string) error {
	if err := t.limiter.Wait(ctx); err != nil {
		return err
	}
	if t.jitter > 0 {
		if err := Sleep(ctx, rand.N(t.jitter)); err != nil {
			return err
		}
	}
	return t.Page.Navigate(ctx, url)
}
