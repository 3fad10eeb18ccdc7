package model

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyKeyword is returned for a blank search keyword.
var ErrEmptyKeyword = errors.New("keyword is empty")

// LocationResolver maps a location name to the site's geographic code.
type LocationResolver interface {
	Resolve(name string) (string, error)
}

// SearchQuery is fixed for the lifetime of a run.
type SearchQuery struct {
	keyword      string
	location     string
	locationCode string
}

// NewSearchQuery resolves location once and freezes the query.
func NewSearchQuery(keyword, location string, r LocationResolver) (SearchQuery, error) {
	if strings.TrimSpace(keyword) == "" {
		return SearchQuery{}, ErrEmptyKeyword
	}
	code, err := r.Resolve(location)
	if err != nil {
		return SearchQuery{}, fmt.Errorf("search query: %w", err)
	}
	return SearchQuery{keyword: keyword, location: location, locationCode: code}, nil
}

func (q SearchQuery) Keyword() string      { return q.keyword }
func (q SearchQuery) Location() string     { return q.location }
func (q SearchQuery) LocationCode() string { return q.locationCode }
