package lint

// Policy maps findings to effective severities and decides what is displayed
// and what fails the run.
type Policy struct {
	// Show is the set of severities that are displayed.
	Show Mask
	// Fail is the set of severities that fail the run.
	Fail Mask
	// Packager enables the packager severity table.
	Packager bool
}

// DefaultPolicy shows and fails on [Fail] findings only.
func DefaultPolicy() Policy {
	return Policy{
		Show: NewMask(Fail),
		Fail: NewMask(Fail),
	}
}

// EffectiveSeverity returns the packager severity of f when packager is set
// and f declares one, otherwise the default severity of f.
func EffectiveSeverity(f *Finding, packager bool) Severity {
	if packager && f.Packager != None {
		return f.Packager
	}

	return f.Severity
}

// Effective returns the effective severity of f under p.
func (p Policy) Effective(f *Finding) Severity {
	return EffectiveSeverity(f, p.Packager)
}

// ShouldDisplay reports whether a finding with the given effective severity is
// displayed.
func (p Policy) ShouldDisplay(sev Severity) bool {
	return p.Show.Has(sev)
}

// ShouldFail reports whether a finding with the given effective severity fails
// the run. Whitelisted findings never fail the run.
func (p Policy) ShouldFail(sev Severity, whitelisted bool) bool {
	return !whitelisted && p.Fail.Has(sev)
}

// ShowPasses reports whether passing checks are displayed.
func (p Policy) ShowPasses() bool {
	return p.Show.Has(Pass)
}

// Normalize returns a copy of p where every severity that fails the run is
// also displayed, and [Pass] never fails the run.
func (p Policy) Normalize() Policy {
	p.Fail = p.Fail.Without(Pass)
	p.Show = p.Show.Union(p.Fail)

	return p
}
