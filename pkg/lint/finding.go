package lint

import (
	"errors"
	"fmt"
	"strings"
)

// Placeholder is replaced with a [Result]'s detail in a [Finding] message.
const Placeholder = "%s"

var ErrInvalidFinding = errors.New("invalid finding")

// Finding is a static description of one possible check outcome. Findings are
// declared once as package-level values and never modified.
type Finding struct {
	// Message may contain one [Placeholder] for the result detail.
	Message string
	// URI identifies the violated rule. It must remain stable across
	// versions.
	URI string
	// Description is optional long-form documentation. When empty, reporters
	// may look up documentation for URI instead.
	Description string
	// Severity is the default severity: [Fail], [Warn] or [Note].
	Severity Severity
	// Packager overrides Severity in packager mode. [None] means no override.
	Packager Severity
}

// Validate checks the invariants of a [Finding].
func (f *Finding) Validate() error {
	if f == nil {
		return fmt.Errorf("%w: nil", ErrInvalidFinding)
	}
	if !f.Severity.IsFinding() {
		return fmt.Errorf("%w: %q: default severity must be fail, warn or note, got %s",
			ErrInvalidFinding, f.Message, f.Severity)
	}
	if f.Packager != None && !f.Packager.IsFinding() {
		return fmt.Errorf("%w: %q: packager severity must be none, fail, warn or note, got %s",
			ErrInvalidFinding, f.Message, f.Packager)
	}
	if n := strings.Count(f.Message, Placeholder); n > 1 {
		return fmt.Errorf("%w: %q: message has %d placeholders, at most one is allowed",
			ErrInvalidFinding, f.Message, n)
	}
	if f.URI == "" {
		return fmt.Errorf("%w: %q: missing reference URI", ErrInvalidFinding, f.Message)
	}

	return nil
}

// Format returns the message with detail substituted for the placeholder.
// Messages without a placeholder are returned unchanged.
func (f *Finding) Format(detail string) string {
	if !strings.Contains(f.Message, Placeholder) {
		return f.Message
	}

	return strings.Replace(f.Message, Placeholder, detail, 1)
}

// Result is the outcome of running one [Test] against one subject.
type Result struct {
	finding *Finding
	// Detail is an optional dynamic string, e.g. the offending URI.
	Detail string
}

// OK returns a passing [Result].
func OK() Result {
	return Result{}
}

// Found returns a [Result] holding f.
func Found(f *Finding) Result {
	return Result{finding: f}
}

// FoundWith returns a [Result] holding f, with a detail string that is
// substituted into the finding's message.
func FoundWith(f *Finding, detail string) Result {
	return Result{finding: f, Detail: detail}
}

// Finding returns the [Finding] held by r, if any.
func (r Result) Finding() (*Finding, bool) {
	return r.finding, r.finding != nil
}

// Passed reports whether r holds no [Finding].
func (r Result) Passed() bool {
	return r.finding == nil
}

// Message returns the formatted finding message, or an empty string if r
// passed.
func (r Result) Message() string {
	if r.finding == nil {
		return ""
	}

	return r.finding.Format(r.Detail)
}
