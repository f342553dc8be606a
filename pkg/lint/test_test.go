package lint_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/lv2lint/pkg/lint"
)

var (
	keyDefault = lint.NewKey[float64]("default")

	errOutOfRange = &lint.Finding{
		Severity: lint.Fail,
		Message:  "range invalid",
		URI:      "http://lv2plug.in/ns/lv2core#Port",
	}
)

func okCheck(*lint.Context[string]) lint.Result {
	return lint.OK()
}

func TestNewTable(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		err   error
		tests []lint.Test[string]
	}{
		"valid": {
			tests: []lint.Test[string]{
				{Name: "A", Check: okCheck, Provides: []string{"default"}},
				{Name: "B", Check: okCheck, Requires: []string{"default"}},
			},
		},
		"empty": {},
		"missing name": {
			tests: []lint.Test[string]{{Check: okCheck}},
			err:   lint.ErrInvalidTest,
		},
		"missing check": {
			tests: []lint.Test[string]{{Name: "A"}},
			err:   lint.ErrInvalidTest,
		},
		"duplicate name": {
			tests: []lint.Test[string]{
				{Name: "A", Check: okCheck},
				{Name: "A", Check: okCheck},
			},
			err: lint.ErrDuplicateTest,
		},
		"consumer before producer": {
			tests: []lint.Test[string]{
				{Name: "B", Check: okCheck, Requires: []string{"default"}},
				{Name: "A", Check: okCheck, Provides: []string{"default"}},
			},
			err: lint.ErrUnsatisfied,
		},
		"consumer without producer": {
			tests: []lint.Test[string]{
				{Name: "B", Check: okCheck, Requires: []string{"default"}},
			},
			err: lint.ErrUnsatisfied,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			table, err := lint.NewTable("port", tc.tests...)
			if tc.err != nil {
				require.ErrorIs(t, err, tc.err)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, len(tc.tests), table.Len())
		})
	}
}

func TestTable_With(t *testing.T) {
	t.Parallel()

	base := lint.MustNewTable("plugin",
		lint.Test[string]{Name: "A", Check: okCheck, Provides: []string{"default"}},
	)

	extended, err := base.With(lint.Test[string]{Name: "B", Check: okCheck, Requires: []string{"default"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, extended.Names())

	// The base table is unchanged.
	assert.Equal(t, []string{"A"}, base.Names())

	_, err = base.With(lint.Test[string]{Name: "A", Check: okCheck})
	require.ErrorIs(t, err, lint.ErrDuplicateTest)

	assert.Panics(t, func() {
		lint.MustNewTable("bad", lint.Test[string]{Name: "A"})
	})
}

func TestTable_RunAll(t *testing.T) {
	t.Parallel()

	var order []string

	table := lint.MustNewTable("port",
		lint.Test[string]{
			Name:     "Default",
			Provides: []string{keyDefault.Name()},
			Check: func(ctx *lint.Context[string]) lint.Result {
				order = append(order, "Default")
				keyDefault.Set(ctx.Scratch, 2)

				return lint.OK()
			},
		},
		lint.Test[string]{
			Name:     "Range",
			Requires: []string{keyDefault.Name()},
			Check: func(ctx *lint.Context[string]) lint.Result {
				order = append(order, "Range")
				if keyDefault.GetOr(ctx.Scratch, 0) > 1 {
					return lint.Found(errOutOfRange)
				}

				return lint.OK()
			},
		},
	)

	ctx := lint.NewContext(lint.NewSession(lint.DefaultPolicy(), nil), "subject")

	outcomes, err := table.RunAll(ctx)
	require.NoError(t, err)
	require.Len(t, outcomes, 2)

	assert.Equal(t, []string{"Default", "Range"}, order)
	assert.Equal(t, "Default", outcomes[0].Test.Name)
	assert.True(t, outcomes[0].Result.Passed())
	assert.Equal(t, "Range", outcomes[1].Test.Name)

	f, ok := outcomes[1].Result.Finding()
	require.True(t, ok)
	assert.Same(t, errOutOfRange, f)
}

func TestTable_RunAllFault(t *testing.T) {
	t.Parallel()

	table := lint.MustNewTable("plugin",
		lint.Test[string]{Name: "OK", Check: okCheck},
		lint.Test[string]{Name: "Boom", Check: func(*lint.Context[string]) lint.Result {
			panic("nil world")
		}},
		lint.Test[string]{Name: "Never", Check: okCheck},
	)

	ctx := lint.NewContext(lint.NewSession(lint.DefaultPolicy(), nil), "subject")

	outcomes, err := table.RunAll(ctx)
	require.ErrorIs(t, err, lint.ErrTestFault)
	assert.Contains(t, err.Error(), "Boom")
	assert.Len(t, outcomes, 1)
}

func TestTable_RunAllInvalidFinding(t *testing.T) {
	t.Parallel()

	bad := &lint.Finding{Severity: lint.Pass, Message: "m", URI: "urn:x"}

	table := lint.MustNewTable("plugin",
		lint.Test[string]{Name: "Bad", Check: func(*lint.Context[string]) lint.Result {
			return lint.Found(bad)
		}},
	)

	ctx := lint.NewContext(lint.NewSession(lint.DefaultPolicy(), nil), "subject")

	_, err := table.RunAll(ctx)
	require.ErrorIs(t, err, lint.ErrTestFault)
	require.ErrorIs(t, err, lint.ErrInvalidFinding)
}

func TestBag(t *testing.T) {
	t.Parallel()

	b := lint.NewBag()

	_, ok := keyDefault.Get(b)
	assert.False(t, ok)
	assert.InDelta(t, 1.5, keyDefault.GetOr(b, 1.5), 0)

	keyDefault.Set(b, 3)

	v, ok := keyDefault.Get(b)
	require.True(t, ok)
	assert.InDelta(t, 3.0, v, 0)
	assert.Equal(t, 1, b.Len())

	// A key with the same name but a different type does not read the value.
	other := lint.NewKey[string]("default")
	_, ok = other.Get(b)
	assert.False(t, ok)
}
