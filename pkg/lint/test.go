package lint

import (
	"errors"
	"fmt"
	"slices"
)

var (
	ErrInvalidTest   = errors.New("invalid test")
	ErrDuplicateTest = errors.New("duplicate test name")
	ErrUnsatisfied   = errors.New("unsatisfied test dependency")
	ErrTestFault     = errors.New("test fault")
)

// CheckFunc runs one check against the subject in ctx.
type CheckFunc[S any] func(ctx *Context[S]) Result

// Test is a named check. Tests must not modify the subject; they communicate
// with later tests only through the scratch [Bag], declaring the key names
// they store in Provides and the key names they read in Requires.
type Test[S any] struct {
	Check    CheckFunc[S]
	Name     string
	Provides []string
	Requires []string
}

// Outcome pairs a [Test] with the [Result] it produced.
type Outcome[S any] struct {
	Test   *Test[S]
	Result Result
}

// Table is an ordered, immutable collection of tests for one subject kind.
type Table[S any] struct {
	name  string
	tests []Test[S]
}

// NewTable creates a new [Table]. It returns an error if a test has no name or
// no check, if two tests share a name, or if a test requires a scratch key
// that no earlier test provides.
func NewTable[S any](name string, tests ...Test[S]) (*Table[S], error) {
	t := &Table[S]{name: name}

	return t.With(tests...)
}

// MustNewTable is like [NewTable] but panics on error.
func MustNewTable[S any](name string, tests ...Test[S]) *Table[S] {
	t, err := NewTable(name, tests...)
	if err != nil {
		panic(err)
	}

	return t
}

// With returns a new [Table] with tests appended after the existing ones.
func (t *Table[S]) With(tests ...Test[S]) (*Table[S], error) {
	all := slices.Concat(t.tests, tests)

	names := make(map[string]struct{}, len(all))
	provided := map[string]struct{}{}

	for i := range all {
		test := &all[i]

		if test.Name == "" {
			return nil, fmt.Errorf("%s: %w: test %d has no name", t.name, ErrInvalidTest, i)
		}
		if test.Check == nil {
			return nil, fmt.Errorf("%s: %w: test %q has no check", t.name, ErrInvalidTest, test.Name)
		}
		if _, ok := names[test.Name]; ok {
			return nil, fmt.Errorf("%s: %w: %q", t.name, ErrDuplicateTest, test.Name)
		}

		names[test.Name] = struct{}{}

		for _, req := range test.Requires {
			if _, ok := provided[req]; !ok {
				return nil, fmt.Errorf("%s: %w: test %q requires %q, which no earlier test provides",
					t.name, ErrUnsatisfied, test.Name, req)
			}
		}

		for _, p := range test.Provides {
			provided[p] = struct{}{}
		}
	}

	return &Table[S]{name: t.name, tests: all}, nil
}

// Name returns the name of the table.
func (t *Table[S]) Name() string {
	return t.name
}

// Len returns the number of tests in the table.
func (t *Table[S]) Len() int {
	return len(t.tests)
}

// Names returns the test names, in registration order.
func (t *Table[S]) Names() []string {
	names := make([]string, 0, len(t.tests))
	for _, test := range t.tests {
		names = append(names, test.Name)
	}

	return names
}

// RunAll runs every test against ctx in registration order and returns one
// [Outcome] per test. A panicking test stops the run and is returned as an
// [ErrTestFault].
func (t *Table[S]) RunAll(ctx *Context[S]) ([]Outcome[S], error) {
	outcomes := make([]Outcome[S], 0, len(t.tests))

	for i := range t.tests {
		test := &t.tests[i]

		res, err := run(ctx, test)
		if err != nil {
			return outcomes, err
		}

		outcomes = append(outcomes, Outcome[S]{Test: test, Result: res})
	}

	return outcomes, nil
}

func run[S any](ctx *Context[S], test *Test[S]) (res Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %s: %v", ErrTestFault, test.Name, r)
		}
	}()

	res = test.Check(ctx)

	if f, ok := res.Finding(); ok {
		if verr := f.Validate(); verr != nil {
			return Result{}, fmt.Errorf("%w: %s: %w", ErrTestFault, test.Name, verr)
		}
	}

	return res, nil
}
