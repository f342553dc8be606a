// Package whitelist holds ordered lists of (subject, attribute) pattern pairs
// that exclude findings, symbols or libraries from failing a lint run.
package whitelist

import (
	"log/slog"
	"slices"

	"github.com/macropower/lv2lint/pkg/wildcard"
)

// Entry is a single whitelist entry. An empty pattern matches everything.
type Entry struct {
	// Subject is a wildcard pattern matched against the subject URI.
	Subject string `json:"subject,omitempty" jsonschema:"title=Subject"`
	// Pattern is a wildcard pattern matched against the attribute (a test
	// name, a symbol name or a library name).
	Pattern string `json:"pattern,omitempty" jsonschema:"title=Pattern"`
}

// Matches reports whether the entry covers the given subject and attribute.
func (e Entry) Matches(subject, attribute string) bool {
	return wildcard.Match(e.Subject, subject) && wildcard.Match(e.Pattern, attribute)
}

// Registry is an ordered collection of [Entry] values. The zero value is an
// empty registry ready for use. A nil *Registry whitelists nothing.
type Registry struct {
	entries []Entry
}

// New creates a new [Registry] containing the given entries.
func New(entries ...Entry) *Registry {
	r := &Registry{}
	for _, e := range entries {
		r.Register(e.Subject, e.Pattern)
	}

	return r
}

// Register appends a new entry.
func (r *Registry) Register(subject, pattern string) {
	for _, p := range []string{subject, pattern} {
		err := wildcard.Validate(p)
		if err != nil {
			slog.Warn("whitelist pattern is not a valid wildcard, it will be compared literally",
				slog.String("pattern", p),
				slog.Any("err", err),
			)
		}
	}

	r.entries = append(r.entries, Entry{Subject: subject, Pattern: pattern})
}

// IsWhitelisted reports whether any entry matches both subject and attribute.
func (r *Registry) IsWhitelisted(subject, attribute string) bool {
	if r == nil {
		return false
	}

	return slices.ContainsFunc(r.entries, func(e Entry) bool {
		return e.Matches(subject, attribute)
	})
}

// Entries returns a copy of the registered entries, in registration order.
func (r *Registry) Entries() []Entry {
	if r == nil {
		return nil
	}

	return slices.Clone(r.entries)
}

// Len returns the number of registered entries.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}

	return len(r.entries)
}
