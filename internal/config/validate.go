package config

import (
	"errors"
	"fmt"

	"github.com/DanielFillol/linkedin-people-scraper/internal/store"
)

// ValidationError names the offending field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks values that would make any command fail later.
func (c *Config) Validate() error {
	var errs []error
	add := func(field, msg string) { errs = append(errs, &ValidationError{Field: field, Message: msg}) }

	if c.Search.Pages < 1 {
		add("search.pages", "must be at least 1")
	}
	switch c.Storage.Backend {
	case store.BackendFile:
	case store.BackendRedis:
		if c.Storage.RedisURL == "" {
			add("storage.redis_url", "is required for the redis backend")
		}
	default:
		add("storage.backend", "must be one of: file, redis")
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		add("log.level", "must be one of: debug, info, warn, error")
	}
	if c.Throttle.RequestsPerMinute < 0 {
		add("throttle.requests_per_minute", "must not be negative")
	}
	if c.Throttle.Jitter < 0 {
		add("throttle.jitter", "must not be negative")
	}
	if c.RunTimeout < 0 {
		add("run_timeout", "must not be negative")
	}
	if c.Browser.MaxScrollRounds < 0 || c.Browser.MaxExpandClicks < 0 {
		add("browser", "max_scroll_rounds and max_expand_clicks must not be negative")
	}
	return errors.Join(errs...)
}

// ValidateScrape additionally requires what a scrape run needs.
func (c *Config) ValidateScrape() error {
	var errs []error
	if err := c.Validate(); err != nil {
		errs = append(errs, err)
	}
	if c.Search.Keyword == "" {
		errs = append(errs, &ValidationError{Field: "search.keyword", Message: "is required"})
	}
	if c.Search.Location == "" {
		errs = append(errs, &ValidationError{Field: "search.location", Message: "is required"})
	}
	if c.Credentials.Username == "" {
		errs = append(errs, &ValidationError{Field: "credentials.username", Message: "is required"})
	}
	return errors.Join(errs...)
}
