package browser

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Credentials are the account used to sign in.
type Credentials struct {
	Username string
	Password string
}

// String masks the password so credentials can be printed safely.
func (c Credentials) String() string {
	return fmt.Sprintf("%s/********", c.Username)
}

// LoginSelectors locate the sign-in form.
type LoginSelectors struct {
	Username  string `yaml:"username"`
	Password  string `yaml:"password"`
	Submit    string `yaml:"submit"`
	Challenge string `yaml:"challenge"`
}

// DefaultLoginSelectors covers both the current sign-in page and the legacy
// home-page form.
func DefaultLoginSelectors() LoginSelectors {
	return LoginSelectors{
		Username:  `#username, #login-email`,
		Password:  `#password, #login-password, input[name="session_password"]`,
		Submit:    `button[data-litms-control-urn="login-submit"], button[type="submit"], input.login.submit-button`,
		Challenge: `iframe[src*="captcha"], iframe[src*="challenge"]`,
	}
}

// LoginOptions tunes the sign-in flow.
type LoginOptions struct {
	URL              string
	FieldTimeout     time.Duration
	SettleDelay      time.Duration
	Headless         bool
	ChallengeTimeout time.Duration
	PollInterval     time.Duration
}

func (o LoginOptions) withDefaults() LoginOptions {
	if o.URL == "" {
		o.URL = "https://www.linkedin.com/login"
	}
	if o.FieldTimeout == 0 {
		o.FieldTimeout = 15 * time.Second
	}
	if o.SettleDelay == 0 {
		o.SettleDelay = 400 * time.Millisecond
	}
	if o.ChallengeTimeout == 0 {
		o.ChallengeTimeout = 3 * time.Minute
	}
	if o.PollInterval == 0 {
		o.PollInterval = 1500 * time.Millisecond
	}
	return o
}

// Login signs in. Success is not verified; a failed login surfaces later as
// missing elements. A checkpoint page fails headless runs with ErrCheckpoint
// and is left for the user to solve in headed runs.
func Login(ctx context.Context, p Page, creds Credentials, sel LoginSelectors, opts LoginOptions) error {
	opts = opts.withDefaults()

	if err := p.Navigate(ctx, opts.URL); err != nil {
		return fmt.Errorf("login: %w", err)
	}
	if err := p.WaitPresent(ctx, sel.Username, opts.FieldTimeout); err != nil {
		return fmt.Errorf("login form: %w", err)
	}
	if err := p.Fill(ctx, sel.Username, creds.Username); err != nil {
		return fmt.Errorf("login: %w", err)
	}
	if err := p.Fill(ctx, sel.Password, creds.Password); err != nil {
		return fmt.Errorf("login: %w", err)
	}

	res, err := p.TryClick(ctx, sel.Submit, opts.FieldTimeout)
	if err != nil {
		return fmt.Errorf("login submit: %w", err)
	}
	if res != ClickPerformed {
		if err := p.PressEnter(ctx, sel.Password); err != nil {
			return fmt.Errorf("login submit: %w", err)
		}
	}
	if err := Sleep(ctx, opts.SettleDelay); err != nil {
		return err
	}

	if !onCheckpoint(ctx, p, sel.Challenge) {
		return nil
	}
	if opts.Headless {
		return fmt.Errorf("%w: captcha or challenge shown in headless mode, rerun with headless disabled", ErrCheckpoint)
	}
	err = WaitUntil(ctx, opts.ChallengeTimeout, opts.PollInterval, func(c context.Context) bool {
		return !onCheckpoint(c, p, sel.Challenge)
	})
	if err != nil {
		return fmt.Errorf("%w: not solved within %s: %v", ErrCheckpoint, opts.ChallengeTimeout, err)
	}
	return nil
}

func onCheckpoint(ctx context.Context, p Page, challengeSel string) bool {
	if loc, err := p.Location(ctx); err == nil && strings.Contains(loc, "/checkpoint/challenge") {
		return true
	}
	if challengeSel == "" {
		return false
	}
	n, err := p.Count(ctx, challengeSel)
	return err == nil && n > 0
}
