// Package expand loads a profile page and opens its collapsed sections so
// the full content is in the DOM before extraction.
package expand

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/DanielFillol/linkedin-people-scraper/internal/browser"
	"github.com/DanielFillol/linkedin-people-scraper/internal/logger"
	"github.com/DanielFillol/linkedin-people-scraper/internal/model"
)

// Selectors locate the readiness marker and the expand controls.
type Selectors struct {
	// Ready is the last section to render; its presence means the page has
	// finished loading.
	Ready         string `yaml:"ready"`
	SummaryToggle string `yaml:"summary_toggle"`
	DetailToggle  string `yaml:"detail_toggle"`
	SkillsToggle  string `yaml:"skills_toggle"`
}

func DefaultSelectors() Selectors {
	return Selectors{
		Ready:         `section.pv-interests-section`,
		SummaryToggle: `li-icon.pv-top-card-section__summary-toggle-button-icon`,
		DetailToggle:  `li-icon.pv-profile-section__toggle-detail-icon[type*="chevron-down-icon"]`,
		SkillsToggle:  `li-icon.pv-skills-section__chevron-icon`,
	}
}

// Options tunes waits.
type Options struct {
	ScrollPause     time.Duration
	MaxScrollRounds int
	ReadyTimeout    time.Duration
	SettleDelay     time.Duration
	SummaryTimeout  time.Duration
	DetailTimeout   time.Duration
	SkillsTimeout   time.Duration
	// MaxDetailClicks caps the detail-toggle loop.
	MaxDetailClicks int
}

func (o Options) withDefaults() Options {
	if o.ScrollPause == 0 {
		o.ScrollPause = 500 * time.Millisecond
	}
	if o.MaxScrollRounds == 0 {
		o.MaxScrollRounds = 30
	}
	if o.ReadyTimeout == 0 {
		o.ReadyTimeout = 10 * time.Second
	}
	if o.SummaryTimeout == 0 {
		o.SummaryTimeout = 10 * time.Second
	}
	if o.DetailTimeout == 0 {
		o.DetailTimeout = 5 * time.Second
	}
	if o.SkillsTimeout == 0 {
		o.SkillsTimeout = time.Second
	}
	if o.MaxDetailClicks == 0 {
		o.MaxDetailClicks = 50
	}
	return o
}

// Report says what LoadAndExpand managed to do. Nothing in it is an error:
// a page with no summary or no collapsed sections is normal.
type Report struct {
	Ready        bool
	Summary      browser.ClickResult
	DetailClicks int
	// DetailStop is the result that ended the detail loop.
	DetailStop browser.ClickResult
	Skills     browser.ClickResult
}

// Fields renders the report for logging.
func (r Report) Fields() []logger.Field {
	return []logger.Field{
		logger.Bool("ready", r.Ready),
		logger.String("summary", r.Summary.String()),
		logger.Int("detail_clicks", r.DetailClicks),
		logger.String("detail_stop", r.DetailStop.String()),
		logger.String("skills", r.Skills.String()),
	}
}

// Expander opens profile pages.
type Expander struct {
	page browser.Page
	sel  Selectors
	opts Options
}

func New(p browser.Page, sel Selectors, opts Options) *Expander {
	return &Expander{page: p, sel: sel, opts: opts.withDefaults()}
}

// LoadAndExpand navigates to link and clicks every expand control it finds.
// Only navigation failures and cancellation are returned as errors.
func (e *Expander) LoadAndExpand(ctx context.Context, link model.ProfileLink) (Report, error) {
	var rep Report
	if err := e.page.Navigate(ctx, link.String()); err != nil {
		return rep, fmt.Errorf("load %s: %w", link, err)
	}
	if _, err := browser.ScrollUntilStable(ctx, e.page, e.opts.ScrollPause, e.opts.MaxScrollRounds); err != nil {
		return rep, fmt.Errorf("load %s: %w", link, err)
	}

	err := e.page.WaitPresent(ctx, e.sel.Ready, e.opts.ReadyTimeout)
	switch {
	case err == nil:
		rep.Ready = true
	case errors.Is(err, browser.ErrTimeout):
	default:
		return rep, fmt.Errorf("load %s: %w", link, err)
	}
	if err := browser.Sleep(ctx, e.opts.SettleDelay); err != nil {
		return rep, err
	}

	if rep.Summary, err = e.page.TryClick(ctx, e.sel.SummaryToggle, e.opts.SummaryTimeout); err != nil {
		return rep, err
	}

	for rep.DetailClicks < e.opts.MaxDetailClicks {
		res, err := e.page.TryClick(ctx, e.sel.DetailToggle, e.opts.DetailTimeout)
		if err != nil {
			return rep, err
		}
		rep.DetailStop = res
		if res != browser.ClickPerformed {
			break
		}
		rep.DetailClicks++
	}

	if rep.Skills, err = e.page.TryClick(ctx, e.sel.SkillsToggle, e.opts.SkillsTimeout); err != nil {
		return rep, err
	}
	return rep, nil
}
