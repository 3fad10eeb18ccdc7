// Package config loads the scraper configuration from a YAML file, .env
// files and environment variables.
//
// Values are applied in this order, later ones winning:
//
//  1. built-in defaults
//  2. the YAML file, when a path is given
//  3. variables named by `env` struct tags, including those loaded from
//     ENV_FILE, or .env.local and .env
//
// Command-line flags are applied on top by the caller.
package config

import (
	"time"

	"github.com/DanielFillol/linkedin-people-scraper/internal/browser"
	"github.com/DanielFillol/linkedin-people-scraper/internal/expand"
	"github.com/DanielFillol/linkedin-people-scraper/internal/extract"
	"github.com/DanielFillol/linkedin-people-scraper/internal/logger"
	"github.com/DanielFillol/linkedin-people-scraper/internal/search"
	"github.com/DanielFillol/linkedin-people-scraper/internal/store"
)

// Config is the whole configuration of a run.
type Config struct {
	Search      SearchConfig      `yaml:"search"`
	Credentials CredentialsConfig `yaml:"credentials"`
	Browser     BrowserConfig     `yaml:"browser"`
	Throttle    ThrottleConfig    `yaml:"throttle"`
	Storage     store.Config      `yaml:"storage"`
	Selectors   SelectorsConfig   `yaml:"selectors"`
	// Locations adds or overrides location name -> region code entries.
	Locations map[string]string `yaml:"locations"`
	Log       logger.Config     `yaml:"log"`

	FailFast   bool          `yaml:"fail_fast" env:"FAIL_FAST"`
	RunTimeout time.Duration `yaml:"run_timeout" env:"RUN_TIMEOUT"`
	DumpHTML   bool          `yaml:"dump_html" env:"DUMP_HTML"`
}

type SearchConfig struct {
	Keyword  string `yaml:"keyword" env:"SEARCH_KEYWORD"`
	Location string `yaml:"location" env:"SEARCH_LOCATION"`
	Pages    int    `yaml:"pages" env:"SEARCH_PAGES"`
}

// CredentialsConfig names the account. The password should come from the
// environment or the OS keychain rather than the YAML file.
type CredentialsConfig struct {
	Username string `yaml:"username" env:"LINKEDIN_USERNAME"`
	Password string `yaml:"password" env:"LINKEDIN_PASSWORD"`
	// KeyringAccount defaults to Username.
	KeyringAccount string `yaml:"keyring_account" env:"LINKEDIN_KEYRING_ACCOUNT"`
}

// Account is the keychain entry holding the password.
func (c CredentialsConfig) Account() string {
	if c.KeyringAccount != "" {
		return c.KeyringAccount
	}
	return c.Username
}

type BrowserConfig struct {
	Headless   bool   `yaml:"headless" env:"HEADLESS"`
	ChromePath string `yaml:"chrome_path" env:"CHROME_PATH"`
	UserAgent  string `yaml:"user_agent" env:"BROWSER_USER_AGENT"`
	Lang       string `yaml:"lang" env:"BROWSER_LANG"`

	ResultTimeout    time.Duration `yaml:"result_timeout"`
	ReadyTimeout     time.Duration `yaml:"ready_timeout"`
	ChallengeTimeout time.Duration `yaml:"challenge_timeout"`
	ScrollPause      time.Duration `yaml:"scroll_pause"`
	SettleDelay      time.Duration `yaml:"settle_delay"`
	MaxScrollRounds  int           `yaml:"max_scroll_rounds"`
	MaxExpandClicks  int           `yaml:"max_expand_clicks"`
}

type ThrottleConfig struct {
	RequestsPerMinute float64       `yaml:"requests_per_minute" env:"THROTTLE_RPM"`
	Jitter            time.Duration `yaml:"jitter" env:"THROTTLE_JITTER"`
}

// SelectorsConfig overrides the page selectors. Empty fields keep the
// defaults.
type SelectorsConfig struct {
	Login         browser.LoginSelectors `yaml:"login"`
	SearchResults string                 `yaml:"search_results"`
	Expand        expand.Selectors       `yaml:"expand"`
	Profile       extract.Selectors      `yaml:"profile"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		Search: SearchConfig{Location: "Colombia", Pages: 1},
		Browser: BrowserConfig{
			Headless:         true,
			Lang:             "en-US",
			ResultTimeout:    10 * time.Second,
			ReadyTimeout:     10 * time.Second,
			ChallengeTimeout: 3 * time.Minute,
			ScrollPause:      500 * time.Millisecond,
			SettleDelay:      time.Second,
			MaxScrollRounds:  30,
			MaxExpandClicks:  50,
		},
		Throttle:   ThrottleConfig{RequestsPerMinute: 20, Jitter: 2 * time.Second},
		Storage:    store.Config{Backend: store.BackendFile, ResultsRoot: "results"},
		Log:        logger.Config{Level: "info"},
		RunTimeout: 2 * time.Hour,
	}
}

// LoginSelectors merges overrides onto the defaults.
func (c *Config) LoginSelectors() browser.LoginSelectors {
	def := browser.DefaultLoginSelectors()
	o := c.Selectors.Login
	return browser.LoginSelectors{
		Username:  pick(o.Username, def.Username),
		Password:  pick(o.Password, def.Password),
		Submit:    pick(o.Submit, def.Submit),
		Challenge: pick(o.Challenge, def.Challenge),
	}
}

// ExpandSelectors merges overrides onto the defaults.
func (c *Config) ExpandSelectors() expand.Selectors {
	def := expand.DefaultSelectors()
	o := c.Selectors.Expand
	return expand.Selectors{
		Ready:         pick(o.Ready, def.Ready),
		SummaryToggle: pick(o.SummaryToggle, def.SummaryToggle),
		DetailToggle:  pick(o.DetailToggle, def.DetailToggle),
		SkillsToggle:  pick(o.SkillsToggle, def.SkillsToggle),
	}
}

// SearchOptions maps the browser timings onto the paginator.
func (c *Config) SearchOptions() search.Options {
	return search.Options{
		ResultSelector:  c.Selectors.SearchResults,
		ResultTimeout:   c.Browser.ResultTimeout,
		ScrollPause:     c.Browser.ScrollPause,
		MaxScrollRounds: c.Browser.MaxScrollRounds,
		SettleDelay:     c.Browser.SettleDelay,
	}
}

// ExpandOptions maps the browser timings onto the expander.
func (c *Config) ExpandOptions() expand.Options {
	return expand.Options{
		ScrollPause:     c.Browser.ScrollPause,
		MaxScrollRounds: c.Browser.MaxScrollRounds,
		ReadyTimeout:    c.Browser.ReadyTimeout,
		SettleDelay:     c.Browser.SettleDelay,
		MaxDetailClicks: c.Browser.MaxExpandClicks,
	}
}

func pick(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
