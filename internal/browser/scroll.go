package browser

import (
	"context"
	"time"
)

// ScrollUntilStable scrolls to the bottom repeatedly, pausing after each
// scroll, and stops once document height stops growing or maxRounds is
// reached. It returns the number of scrolls performed.
func ScrollUntilStable(ctx context.Context, p Page, pause time.Duration, maxRounds int) (int, error) {
	if maxRounds <= 0 {
		maxRounds = 1
	}
	last, err := p.ScrollHeight(ctx)
	if err != nil {
		return 0, err
	}
	for round := 1; round <= maxRounds; round++ {
		if err := p.ScrollToBottom(ctx); err != nil {
			return round - 1, err
		}
		if err := Sleep(ctx, pause); err != nil {
			return round, err
		}
		h, err := p.ScrollHeight(ctx)
		if err != nil {
			return round, err
		}
		if h == last {
			return round, nil
		}
		last = h
	}
	return maxRounds, nil
}
