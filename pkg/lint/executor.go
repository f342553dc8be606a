package lint

import (
	"log/slog"
)

// Identity describes a subject for reporting and whitelisting.
type Identity struct {
	// ID is matched against whitelist subject patterns. For sub-resources
	// (e.g. ports), this is the ID of the parent component.
	ID string
	// Label is shown in the subject header, e.g. "<uri>" or "{0 : in}".
	Label string
	// Depth is the nesting level of the subject (0 for components).
	Depth int
}

// Entry is a reported test outcome.
type Entry struct {
	Test string
	// Message is the formatted finding message. Empty for passes.
	Message     string
	URI         string
	Description string
	// Severity is the effective severity, or [Pass].
	Severity Severity
	// Displayed is set when the entry is within the show mask.
	Displayed bool
	// Whitelisted is set when the (subject, test) pair is whitelisted.
	Whitelisted bool
	// Failed is set when the entry fails the run.
	Failed bool
}

// Reporter receives subject headers and entries from [Run].
type Reporter interface {
	// Header is called before the entries of a subject, only if at least
	// one entry is displayed or passes are shown.
	Header(id Identity)
	// Report is called for every test outcome, in registration order,
	// whether it is displayed or not.
	Report(id Identity, e Entry)
}

// Run runs every test in table against ctx and reports the outcomes to rep.
// It returns false if any outcome fails the run. An error is returned only if
// a test faulted, in which case nothing is reported.
func Run[S any](ctx *Context[S], table *Table[S], id Identity, rep Reporter) (bool, error) {
	outcomes, err := table.RunAll(ctx)
	if err != nil {
		return false, err
	}

	policy := ctx.Session.Policy

	entries := make([]Entry, 0, len(outcomes))
	visible := policy.ShowPasses()

	for _, o := range outcomes {
		e := newEntry(ctx.Session, id, o)
		if e.Displayed && e.Severity != Pass {
			visible = true
		}

		if ctx.Session.Debug {
			slog.Debug("test complete",
				slog.String("subject", id.Label),
				slog.String("test", e.Test),
				slog.String("severity", e.Severity.String()),
				slog.Bool("whitelisted", e.Whitelisted),
			)
		}

		entries = append(entries, e)
	}

	if visible {
		rep.Header(id)
	}

	pass := true

	for _, e := range entries {
		rep.Report(id, e)

		if e.Failed {
			pass = false
		}
	}

	return pass, nil
}

func newEntry[S any](session *Session, id Identity, o Outcome[S]) Entry {
	policy := session.Policy

	e := Entry{
		Test:        o.Test.Name,
		Whitelisted: session.IsWhitelisted(id.ID, o.Test.Name),
	}

	f, ok := o.Result.Finding()
	if !ok {
		e.Severity = Pass
		e.Displayed = policy.ShowPasses()

		return e
	}

	e.Severity = policy.Effective(f)
	e.Message = o.Result.Message()
	e.URI = f.URI
	e.Description = f.Description
	e.Displayed = policy.ShouldDisplay(e.Severity)
	e.Failed = policy.ShouldFail(e.Severity, e.Whitelisted)

	return e
}
