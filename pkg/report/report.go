// Package report renders lint results.
//
// Every backend implements [Sink], which extends [lint.Reporter] with
// run-level callbacks. [Text] writes the human readable report, and [JSON]
// collects a structured document.
package report

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize/english"

	"github.com/macropower/lv2lint/pkg/lint"
)

// Documenter looks up long-form documentation for a rule URI.
type Documenter interface {
	Document(uri string) (string, bool)
}

// Sink is a reporting backend for a whole run.
type Sink interface {
	lint.Reporter
	// Subject is called after every top-level subject. If err is non-nil, the
	// subject could not be checked at all.
	Subject(uri string, pass bool, err error)
	// Finish is called once after every subject.
	Finish(s *Summary) error
}

// Counts holds the number of displayed entries per severity.
type Counts struct {
	Fail int `json:"fail"`
	Warn int `json:"warn"`
	Note int `json:"note"`
	Pass int `json:"pass"`
}

// Summary describes a whole run.
type Summary struct {
	Counts  Counts        `json:"counts"`
	Elapsed time.Duration `json:"elapsed"`
	Checked int           `json:"checked"`
	Failed  int           `json:"failed"`
}

// Observe counts a displayed entry.
func (s *Summary) Observe(e lint.Entry) {
	if !e.Displayed {
		return
	}

	switch e.Severity {
	case lint.Fail:
		s.Counts.Fail++
	case lint.Warn:
		s.Counts.Warn++
	case lint.Note:
		s.Counts.Note++
	case lint.Pass:
		s.Counts.Pass++
	case lint.None:
	}
}

// Subject counts a checked subject.
func (s *Summary) Subject(pass bool) {
	s.Checked++
	if !pass {
		s.Failed++
	}
}

// Pass reports whether every subject passed.
func (s *Summary) Pass() bool {
	return s.Failed == 0
}

func (s *Summary) String() string {
	var findings []string
	for _, c := range []struct {
		word string
		n    int
	}{
		{"failure", s.Counts.Fail},
		{"warning", s.Counts.Warn},
		{"note", s.Counts.Note},
	} {
		if c.n > 0 {
			findings = append(findings, english.Plural(c.n, c.word, ""))
		}
	}

	found := "no findings"
	if len(findings) > 0 {
		found = english.WordSeries(findings, "and")
	}

	return fmt.Sprintf("%s checked, %d failed: %s (%s)",
		english.Plural(s.Checked, "plugin", ""),
		s.Failed,
		found,
		s.Elapsed.Round(time.Millisecond),
	)
}

// Tally wraps a [Sink] and keeps a [Summary] of everything passed through it.
type Tally struct {
	Sink

	summary Summary
	start   time.Time
}

// NewTally creates a new [Tally] that forwards to sink.
func NewTally(sink Sink) *Tally {
	return &Tally{Sink: sink, start: time.Now()}
}

func (t *Tally) Report(id lint.Identity, e lint.Entry) {
	t.summary.Observe(e)
	t.Sink.Report(id, e)
}

func (t *Tally) Subject(uri string, pass bool, err error) {
	t.summary.Subject(pass)
	t.Sink.Subject(uri, pass, err)
}

// Finish completes the summary and passes it to the wrapped [Sink]. The s
// argument is ignored.
func (t *Tally) Finish(*Summary) error {
	t.summary.Elapsed = time.Since(t.start)

	return t.Sink.Finish(&t.summary) //nolint:wrapcheck // Return the original error.
}

// Summary returns the summary so far.
func (t *Tally) Summary() Summary {
	return t.summary
}
