package lint

import (
	"errors"
	"fmt"
	"strings"
)

// Severity classifies a [Finding].
type Severity uint8

const (
	// None means "no finding". As a packager severity it means "no override".
	None Severity = iota
	Fail
	Warn
	Note
	Pass
)

var (
	ErrUnknownSeverity = errors.New("unknown severity")

	// AllSeverities lists the severities that can be part of a [Mask].
	AllSeverities = []Severity{Fail, Warn, Note, Pass}
)

// String returns the lowercase name of the severity.
func (s Severity) String() string {
	switch s {
	case None:
		return "none"
	case Fail:
		return "fail"
	case Warn:
		return "warn"
	case Note:
		return "note"
	case Pass:
		return "pass"
	}

	return fmt.Sprintf("severity(%d)", uint8(s))
}

// Label returns the uppercase label used in reports, e.g. "FAIL".
func (s Severity) Label() string {
	return strings.ToUpper(s.String())
}

// IsFinding reports whether s is a severity a [Finding] can declare as its
// default (FAIL, WARN or NOTE).
func (s Severity) IsFinding() bool {
	return s == Fail || s == Warn || s == Note
}

// ParseSeverity parses a severity name, case-insensitively.
func ParseSeverity(name string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "none", "":
		return None, nil
	case "fail", "error":
		return Fail, nil
	case "warn", "warning":
		return Warn, nil
	case "note":
		return Note, nil
	case "pass":
		return Pass, nil
	}

	return None, fmt.Errorf("%w: %q", ErrUnknownSeverity, name)
}

// MarshalText implements [encoding.TextMarshaler].
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (s *Severity) UnmarshalText(text []byte) error {
	v, err := ParseSeverity(string(text))
	if err != nil {
		return err
	}

	*s = v

	return nil
}

// Mask is a set of severities.
type Mask uint8

// NewMask returns a [Mask] containing the given severities.
func NewMask(sevs ...Severity) Mask {
	var m Mask

	return m.With(sevs...)
}

func (s Severity) bit() Mask {
	switch s {
	case Fail, Warn, Note, Pass:
		return 1 << (s - 1)
	case None:
	}

	return 0
}

// With returns a copy of m with the given severities added.
func (m Mask) With(sevs ...Severity) Mask {
	for _, s := range sevs {
		m |= s.bit()
	}

	return m
}

// Without returns a copy of m with the given severities removed.
func (m Mask) Without(sevs ...Severity) Mask {
	for _, s := range sevs {
		m &^= s.bit()
	}

	return m
}

// Has reports whether s is in m. [None] is never in a mask.
func (m Mask) Has(s Severity) bool {
	b := s.bit()

	return b != 0 && m&b != 0
}

// Union returns the severities in m or o.
func (m Mask) Union(o Mask) Mask {
	return m | o
}

// Intersect returns the severities in both m and o.
func (m Mask) Intersect(o Mask) Mask {
	return m & o
}

// Contains reports whether every severity in o is also in m.
func (m Mask) Contains(o Mask) bool {
	return m&o == o
}

// Empty reports whether m contains no severities.
func (m Mask) Empty() bool {
	return m == 0
}

// Severities returns the severities in m, ordered from most to least severe.
func (m Mask) Severities() []Severity {
	var sevs []Severity
	for _, s := range AllSeverities {
		if m.Has(s) {
			sevs = append(sevs, s)
		}
	}

	return sevs
}

// String returns the severities in m joined by "|", or "none".
func (m Mask) String() string {
	sevs := m.Severities()
	if len(sevs) == 0 {
		return None.String()
	}

	names := make([]string, 0, len(sevs))
	for _, s := range sevs {
		names = append(names, s.String())
	}

	return strings.Join(names, "|")
}
