// Package expr provides CEL (Common Expression Language) environments for
// user-defined lint rules.
//
// Environments include the CEL math, strings and lists extensions, and these
// functions:
//   - iri(string) expands a CURIE like "lv2:Plugin" to an absolute IRI
//   - match(pattern, string) matches a shell wildcard, case-insensitively
//   - pathBase, pathDir and pathExt operate on file paths
//
// Rules see the subject as a map variable, declared by the caller.
package expr
