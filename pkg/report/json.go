package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/macropower/lv2lint/pkg/lint"
	"github.com/macropower/lv2lint/pkg/version"
)

// Document is the structured report of a run.
type Document struct {
	Summary  *Summary        `json:"summary,omitempty"`
	RunID    string          `json:"runId"`
	Tool     Tool            `json:"tool"`
	Subjects []SubjectResult `json:"subjects"`
}

// Tool identifies the program that produced a [Document].
type Tool struct {
	Name     string `json:"name"`
	Version  string `json:"version"`
	Revision string `json:"revision,omitempty"`
}

// SubjectResult holds the displayed findings of a top-level subject.
type SubjectResult struct {
	URI      string       `json:"uri"`
	Error    string       `json:"error,omitempty"`
	Findings []Finding    `json:"findings"`
	Ports    []PortResult `json:"ports,omitempty"`
	Pass     bool         `json:"pass"`
}

// PortResult holds the displayed findings of a sub-resource.
type PortResult struct {
	Label    string    `json:"label"`
	Findings []Finding `json:"findings"`
}

// Finding is a displayed entry.
type Finding struct {
	Test        string `json:"test"`
	Severity    string `json:"severity"`
	Message     string `json:"message,omitempty"`
	URI         string `json:"uri,omitempty"`
	Whitelisted bool   `json:"whitelisted,omitempty"`
	Failed      bool   `json:"failed,omitempty"`
}

// JSON collects a [Document] and writes it when the run finishes.
type JSON struct {
	w       io.Writer
	doc     Document
	current SubjectResult
}

// NewJSON creates a new [JSON] report. If w is nil, nothing is written and
// the result is only available from [JSON.Document].
func NewJSON(w io.Writer, name string) *JSON {
	return &JSON{
		w: w,
		doc: Document{
			RunID:    uuid.NewString(),
			Tool:     Tool{Name: name, Version: version.GetVersion(), Revision: version.Revision},
			Subjects: []SubjectResult{},
		},
		current: SubjectResult{Findings: []Finding{}},
	}
}

func (j *JSON) Header(lint.Identity) {}

func (j *JSON) Report(id lint.Identity, e lint.Entry) {
	if !e.Displayed {
		return
	}

	f := Finding{
		Test:        e.Test,
		Severity:    e.Severity.String(),
		Message:     e.Message,
		URI:         e.URI,
		Whitelisted: e.Whitelisted,
		Failed:      e.Failed,
	}

	if id.Depth == 0 {
		j.current.Findings = append(j.current.Findings, f)

		return
	}

	n := len(j.current.Ports)
	if n == 0 || j.current.Ports[n-1].Label != id.Label {
		j.current.Ports = append(j.current.Ports, PortResult{Label: id.Label})
		n++
	}

	j.current.Ports[n-1].Findings = append(j.current.Ports[n-1].Findings, f)
}

func (j *JSON) Subject(uri string, pass bool, err error) {
	j.current.URI = uri
	j.current.Pass = pass

	if err != nil {
		j.current.Error = err.Error()
	}

	j.doc.Subjects = append(j.doc.Subjects, j.current)
	j.current = SubjectResult{Findings: []Finding{}}
}

func (j *JSON) Finish(s *Summary) error {
	sum := *s
	j.doc.Summary = &sum

	if j.w == nil {
		return nil
	}

	enc := json.NewEncoder(j.w)
	enc.SetIndent("", "  ")

	err := enc.Encode(j.doc)
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}

	return nil
}

// Document returns the collected document.
func (j *JSON) Document() Document {
	return j.doc
}
