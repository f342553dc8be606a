// Package lint implements the rule engine: severities and masks, findings and
// results, the severity policy, ordered test tables, and the executor that
// runs a table against one subject and drives a [Reporter].
//
// A [Finding] is a static description of one possible outcome of a check. A
// [Test] produces a [Result] that either holds one [Finding] or none (the
// check passed). The [Policy] decides the effective severity of a finding,
// whether it is displayed, and whether it fails the run.
package lint
