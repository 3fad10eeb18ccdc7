// Package store persists one record per scraped profile. Presence of a
// record is the only marker that a profile has been scraped.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/DanielFillol/linkedin-people-scraper/internal/model"
)

var (
	// ErrLocked is returned when another run holds the keyword's lock.
	ErrLocked = errors.New("results are locked by another run")
	// ErrInvalidName is returned for keywords or identifiers that cannot be
	// used as file names.
	ErrInvalidName = errors.New("invalid name")
)

// Store is the persistence layer for one keyword.
type Store interface {
	IsScraped(ctx context.Context, id string) (bool, error)
	Save(ctx context.Context, rec model.ProfileRecord, id string) error
	// IDs lists stored identifiers in sorted order.
	IDs(ctx context.Context) ([]string, error)
	Load(ctx context.Context) ([]model.ProfileRecord, error)
	// Lock gives the caller exclusive use of the keyword's results until
	// the returned function is called.
	Lock(ctx context.Context) (unlock func() error, err error)
	Close() error
}

// Backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
)

// Config selects and configures a backend.
type Config struct {
	Backend     string `yaml:"backend" env:"STORAGE_BACKEND"`
	ResultsRoot string `yaml:"results_root" env:"RESULTS_ROOT"`
	RedisURL    string `yaml:"redis_url" env:"REDIS_URL"`
}

// Open returns the configured backend for keyword.
func Open(ctx context.Context, cfg Config, keyword string) (Store, error) {
	switch cfg.Backend {
	case "", BackendFile:
		return NewFileStore(cfg.ResultsRoot, keyword)
	case BackendRedis:
		return NewRedisStore(ctx, cfg.RedisURL, keyword)
	default:
		return nil, fmt.Errorf("store: unknown backend %q", cfg.Backend)
	}
}

func validName(kind, s string) error {
	if strings.TrimSpace(s) == "" || s == "." || s == ".." || strings.ContainsAny(s, `/\`) || strings.ContainsRune(s, 0) {
		return fmt.Errorf("%s %q: %w", kind, s, ErrInvalidName)
	}
	return nil
}
