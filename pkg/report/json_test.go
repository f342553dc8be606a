package report_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/lv2lint/pkg/lint"
	"github.com/macropower/lv2lint/pkg/report"
)

func TestJSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	r := report.NewJSON(&buf, "lv2lint")
	tally := report.NewTally(r)

	tally.Header(pluginID)
	tally.Report(pluginID, nameEntry)
	tally.Report(pluginID, lint.Entry{Test: "License", Severity: lint.Warn})
	tally.Report(portID, lint.Entry{Test: "Range", Severity: lint.Fail, Displayed: true, Failed: true})
	tally.Report(portID, lint.Entry{Test: "Units", Severity: lint.Note, Displayed: true, Whitelisted: true})
	tally.Report(lint.Identity{ID: "urn:amp", Label: "{1 : out}", Depth: 1},
		lint.Entry{Test: "Comment", Severity: lint.Note, Displayed: true})
	tally.Subject("urn:amp", false, nil)
	tally.Subject("urn:missing", false, errors.New("plugin not found"))

	require.NoError(t, tally.Finish(nil))

	doc := r.Document()
	assert.NotEmpty(t, doc.RunID)
	assert.Equal(t, "lv2lint", doc.Tool.Name)
	require.NotNil(t, doc.Summary)
	assert.Equal(t, 2, doc.Summary.Checked)
	assert.Equal(t, report.Counts{Fail: 2, Note: 2}, doc.Summary.Counts)

	require.Len(t, doc.Subjects, 2)

	amp := doc.Subjects[0]
	assert.Equal(t, "urn:amp", amp.URI)
	assert.False(t, amp.Pass)
	assert.Empty(t, amp.Error)
	assert.Equal(t, []report.Finding{{
		Test:     "Name",
		Severity: "fail",
		Message:  "doap:name not found",
		URI:      "http://usefulinc.com/ns/doap#name",
		Failed:   true,
	}}, amp.Findings)

	require.Len(t, amp.Ports, 2)
	assert.Equal(t, "{0 : in}", amp.Ports[0].Label)
	assert.Len(t, amp.Ports[0].Findings, 2)
	assert.True(t, amp.Ports[0].Findings[1].Whitelisted)
	assert.Equal(t, "{1 : out}", amp.Ports[1].Label)

	missing := doc.Subjects[1]
	assert.Equal(t, "plugin not found", missing.Error)
	assert.Empty(t, missing.Findings)
	assert.Empty(t, missing.Ports)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, doc.RunID, decoded["runId"])
	assert.Len(t, decoded["subjects"], 2)
}

func TestJSON_NilWriter(t *testing.T) {
	t.Parallel()

	r := report.NewJSON(nil, "lv2lint")
	r.Subject("urn:amp", true, nil)

	require.NoError(t, r.Finish(&report.Summary{Checked: 1}))

	doc := r.Document()
	require.Len(t, doc.Subjects, 1)
	assert.True(t, doc.Subjects[0].Pass)
	assert.NotNil(t, doc.Subjects[0].Findings)
	assert.Equal(t, 1, doc.Summary.Checked)
}
