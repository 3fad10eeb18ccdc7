// Package model holds the records produced by a scraping run.
package model

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// ErrNoIdentifier is returned when a profile URL has no usable path segment.
var ErrNoIdentifier = errors.New("profile link has no identifier")

// ProfileLink is the URL of a profile page.
type ProfileLink string

// ID returns the last non-empty path segment of the link, e.g.
// "https://www.linkedin.com/in/jane-doe-42/" -> "jane-doe-42".
func (l ProfileLink) ID() (string, error) {
	u, err := url.Parse(strings.TrimSpace(string(l)))
	if err != nil {
		return "", fmt.Errorf("parse %q: %w", string(l), err)
	}
	segs := strings.Split(u.Path, "/")
	for i := len(segs) - 1; i >= 0; i-- {
		s := strings.TrimSpace(segs[i])
		if s == "" || s == "." || s == ".." {
			continue
		}
		if strings.Contains(s, `\`) {
			break
		}
		return s, nil
	}
	return "", fmt.Errorf("%q: %w", string(l), ErrNoIdentifier)
}

func (l ProfileLink) String() string { return string(l) }

// ProfileRecord is everything extracted from a single profile page.
type ProfileRecord struct {
	Link        string            `json:"link"`
	Name        string            `json:"name"`
	Headline    string            `json:"headline"`
	Description *string           `json:"description"`
	Experience  []ExperienceEntry `json:"experience"`
	Education   []EducationEntry  `json:"education"`
	Issues      []FieldIssue      `json:"issues,omitempty"`
	ScrapedAt   time.Time         `json:"scraped_at"`
}

// Normalize replaces nil slices with empty ones so the JSON form always
// carries lists.
func (r *ProfileRecord) Normalize() {
	if r.Experience == nil {
		r.Experience = []ExperienceEntry{}
	}
	if r.Education == nil {
		r.Education = []EducationEntry{}
	}
}

// EducationEntry is one school attended.
type EducationEntry struct {
	SchoolName string `json:"school_name"`
	TitleName  string `json:"title_name,omitempty"`
	DateRange  string `json:"date_range,omitempty"`
}
