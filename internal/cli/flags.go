package cli

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/pflag"

	"github.com/macropower/lv2lint/pkg/lint"
	"github.com/macropower/lv2lint/pkg/whitelist"
)

var (
	showSeverities  = []lint.Severity{lint.Warn, lint.Note, lint.Pass}
	errorSeverities = []lint.Severity{lint.Warn, lint.Note}

	_ pflag.Value = (*maskValue)(nil)
	_ pflag.Value = (*subjectValue)(nil)
	_ pflag.Value = (*whitelistValue)(nil)
)

type maskOp struct {
	mask   lint.Mask
	remove bool
}

// maskValue is a repeatable flag that adds severities to, or removes them
// from, a [lint.Mask]. Values are applied in order, on top of the mask from
// the configuration file.
type maskValue struct {
	allowed []lint.Severity
	values  []string
	ops     []maskOp
}

func newMaskValue(allowed ...lint.Severity) *maskValue {
	return &maskValue{allowed: allowed}
}

// Completions returns every accepted value, including "all" and the
// "no"-prefixed inverses.
func (m *maskValue) Completions() []string {
	names := make([]string, 0, 2*len(m.allowed)+2)
	for _, s := range m.allowed {
		names = append(names, s.String())
	}

	names = append(names, "all")

	for _, n := range slices.Clone(names) {
		names = append(names, "no"+n)
	}

	return names
}

func (m *maskValue) Set(s string) error {
	for part := range strings.SplitSeq(s, ",") {
		op, err := m.parse(strings.ToLower(strings.TrimSpace(part)))
		if err != nil {
			return err
		}

		m.ops = append(m.ops, op)
		m.values = append(m.values, part)
	}

	return nil
}

func (m *maskValue) parse(name string) (maskOp, error) {
	if mask, ok := m.lookup(name); ok {
		return maskOp{mask: mask}, nil
	}

	if rest, ok := strings.CutPrefix(name, "no"); ok {
		if mask, ok := m.lookup(rest); ok {
			return maskOp{mask: mask, remove: true}, nil
		}
	}

	return maskOp{}, fmt.Errorf("%q: expected one of %s", name, strings.Join(m.Completions(), ", "))
}

func (m *maskValue) lookup(name string) (lint.Mask, bool) {
	if name == "all" {
		return lint.NewMask(m.allowed...), true
	}

	sev, err := lint.ParseSeverity(name)
	if err != nil || !slices.Contains(m.allowed, sev) {
		return 0, false
	}

	return lint.NewMask(sev), true
}

// Apply returns base with every value applied in order.
func (m *maskValue) Apply(base lint.Mask) lint.Mask {
	for _, op := range m.ops {
		if op.remove {
			base &^= op.mask
		} else {
			base = base.Union(op.mask)
		}
	}

	return base
}

func (m *maskValue) String() string { return strings.Join(m.values, ",") }

func (m *maskValue) Type() string { return "severity" }

// subjectValue holds the subject pattern that scopes the whitelist flags
// which follow it on the command line.
type subjectValue struct {
	current string
}

func (s *subjectValue) Set(v string) error {
	s.current = v

	return nil
}

func (s *subjectValue) String() string { return s.current }

func (s *subjectValue) Type() string { return "pattern" }

// whitelistValue is a repeatable flag that collects whitelist entries of one
// kind. Each entry is scoped to the subject pattern set before it.
type whitelistValue struct {
	subject *subjectValue
	kind    whitelist.Kind
	entries []whitelist.Entry
}

func newWhitelistValue(kind whitelist.Kind, subject *subjectValue) *whitelistValue {
	return &whitelistValue{kind: kind, subject: subject}
}

func (w *whitelistValue) Set(v string) error {
	w.entries = append(w.entries, whitelist.Entry{Subject: w.subject.current, Pattern: v})

	return nil
}

// Register adds every collected entry to set.
func (w *whitelistValue) Register(set *whitelist.Set) error {
	reg, err := set.Registry(w.kind)
	if err != nil {
		return err //nolint:wrapcheck // Return the original error.
	}

	for _, e := range w.entries {
		reg.Register(e.Subject, e.Pattern)
	}

	return nil
}

func (w *whitelistValue) String() string {
	patterns := make([]string, 0, len(w.entries))
	for _, e := range w.entries {
		patterns = append(patterns, e.Pattern)
	}

	return strings.Join(patterns, ",")
}

func (w *whitelistValue) Type() string { return "pattern" }
