package lint_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/lv2lint/pkg/lint"
)

func TestFinding_Validate(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		finding *lint.Finding
		wantErr bool
	}{
		"valid": {
			finding: &lint.Finding{Severity: lint.Fail, Message: "lv2:Port class <%s> not valid", URI: "urn:x"},
		},
		"valid with packager override": {
			finding: &lint.Finding{Severity: lint.Fail, Packager: lint.Note, Message: "m", URI: "urn:x"},
		},
		"nil": {
			wantErr: true,
		},
		"default none": {
			finding: &lint.Finding{Severity: lint.None, Message: "m", URI: "urn:x"},
			wantErr: true,
		},
		"default pass": {
			finding: &lint.Finding{Severity: lint.Pass, Message: "m", URI: "urn:x"},
			wantErr: true,
		},
		"packager pass": {
			finding: &lint.Finding{Severity: lint.Warn, Packager: lint.Pass, Message: "m", URI: "urn:x"},
			wantErr: true,
		},
		"two placeholders": {
			finding: &lint.Finding{Severity: lint.Warn, Message: "%s and %s", URI: "urn:x"},
			wantErr: true,
		},
		"missing uri": {
			finding: &lint.Finding{Severity: lint.Warn, Message: "m"},
			wantErr: true,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			err := tc.finding.Validate()
			if tc.wantErr {
				require.ErrorIs(t, err, lint.ErrInvalidFinding)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestFinding_Format(t *testing.T) {
	t.Parallel()

	f := &lint.Finding{Severity: lint.Fail, Message: "lv2:Port class <%s> not valid", URI: "urn:x"}
	assert.Equal(t, "lv2:Port class <urn:bad> not valid", f.Format("urn:bad"))

	plain := &lint.Finding{Severity: lint.Fail, Message: "100% not found", URI: "urn:x"}
	assert.Equal(t, "100% not found", plain.Format("ignored"))
}

func TestResult(t *testing.T) {
	t.Parallel()

	ok := lint.OK()
	assert.True(t, ok.Passed())
	_, found := ok.Finding()
	assert.False(t, found)
	assert.Empty(t, ok.Message())

	f := &lint.Finding{Severity: lint.Warn, Message: "bad <%s>", URI: "urn:x"}

	r := lint.FoundWith(f, "urn:y")
	assert.False(t, r.Passed())
	got, found := r.Finding()
	require.True(t, found)
	assert.Same(t, f, got)
	assert.Equal(t, "bad <urn:y>", r.Message())

	assert.Equal(t, "bad <>", lint.Found(f).Message())
}
