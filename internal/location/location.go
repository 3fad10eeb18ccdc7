// Package location maps human-readable location names to the geographic
// region codes used in people-search URLs.
package location

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownLocation is returned for a name that has no code.
var ErrUnknownLocation = errors.New("unknown location")

// defaults is the built-in mapping.
var defaults = map[string]string{
	"Colombia": "co",
}

// Resolver looks up region codes by exact name.
type Resolver struct {
	codes map[string]string
}

// NewResolver returns a resolver over the built-in mapping plus extra.
// Entries in extra override built-in ones with the same name.
func NewResolver(extra map[string]string) *Resolver {
	codes := make(map[string]string, len(defaults)+len(extra))
	for k, v := range defaults {
		codes[k] = v
	}
	for k, v := range extra {
		if k != "" && v != "" {
			codes[k] = v
		}
	}
	return &Resolver{codes: codes}
}

// Resolve returns the region code for name.
func (r *Resolver) Resolve(name string) (string, error) {
	code, ok := r.codes[name]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownLocation, name)
	}
	return code, nil
}

// Names lists supported location names in sorted order.
func (r *Resolver) Names() []string {
	out := make([]string, 0, len(r.codes))
	for k := range r.codes {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
