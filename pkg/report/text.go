package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/termenv"

	"github.com/macropower/lv2lint/pkg/lint"
)

// ColorMode controls ANSI styling of the text report.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"

	// DefaultWidth is the wrap width for documentation.
	DefaultWidth = 80

	entryIndent  = 4
	detailIndent = 12
)

// AllColorModes contains every valid [ColorMode].
var AllColorModes = []string{string(ColorAuto), string(ColorAlways), string(ColorNever)}

// Styles holds the styles of the text report.
type Styles struct {
	Severity map[lint.Severity]lipgloss.Style
	Header   lipgloss.Style
	Test     lipgloss.Style
	Faint    lipgloss.Style
}

// NewStyles creates the default [Styles] for r.
func NewStyles(r *lipgloss.Renderer) Styles {
	return Styles{
		Severity: map[lint.Severity]lipgloss.Style{
			lint.Fail: r.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
			lint.Warn: r.NewStyle().Foreground(lipgloss.Color("3")).Bold(true),
			lint.Note: r.NewStyle().Foreground(lipgloss.Color("6")).Bold(true),
			lint.Pass: r.NewStyle().Foreground(lipgloss.Color("2")).Bold(true),
		},
		Header: r.NewStyle().Bold(true),
		Test:   r.NewStyle().Bold(true),
		Faint:  r.NewStyle().Faint(true),
	}
}

// TextOpt configures a [Text] report.
type TextOpt func(*Text)

// WithColor sets the color mode.
func WithColor(mode ColorMode) TextOpt {
	return func(t *Text) {
		t.color = mode
	}
}

// WithDocumentation enables long-form documentation for every displayed
// finding, looked up with doc.
func WithDocumentation(doc Documenter) TextOpt {
	return func(t *Text) {
		t.doc = doc
	}
}

// WithWidth sets the wrap width for documentation.
func WithWidth(width int) TextOpt {
	return func(t *Text) {
		if width > detailIndent {
			t.width = width
		}
	}
}

// WithSummaryOnly suppresses everything but the summary line.
func WithSummaryOnly() TextOpt {
	return func(t *Text) {
		t.summaryOnly = true
	}
}

// WithQuiet suppresses the summary line.
func WithQuiet() TextOpt {
	return func(t *Text) {
		t.quiet = true
	}
}

// Text writes a human readable report.
type Text struct {
	w           io.Writer
	doc         Documenter
	styles      Styles
	color       ColorMode
	width       int
	err         error
	summaryOnly bool
	quiet       bool
}

// NewText creates a new [Text] report writing to w.
func NewText(w io.Writer, opts ...TextOpt) *Text {
	t := &Text{
		w:     w,
		color: ColorAuto,
		width: DefaultWidth,
	}
	for _, opt := range opts {
		opt(t)
	}

	r := lipgloss.NewRenderer(w)

	switch t.color {
	case ColorAlways:
		r.SetColorProfile(termenv.ANSI)
	case ColorNever:
		r.SetColorProfile(termenv.Ascii)
	case ColorAuto:
	}

	t.styles = NewStyles(r)

	return t
}

func (t *Text) Header(id lint.Identity) {
	if t.summaryOnly {
		return
	}

	t.printf("%s%s\n", strings.Repeat(" ", 2*id.Depth), t.styles.Header.Render(id.Label))
}

func (t *Text) Report(_ lint.Identity, e lint.Entry) {
	if t.summaryOnly || !e.Displayed {
		return
	}

	label := t.styles.Severity[e.Severity].Render(e.Severity.Label())
	line := fmt.Sprintf("%s[%s]  %s", strings.Repeat(" ", entryIndent), label, t.styles.Test.Render(e.Test))

	if e.Whitelisted && e.Severity != lint.Pass {
		line += " " + t.styles.Faint.Render("(whitelisted)")
	}

	t.printf("%s\n", line)

	if e.Message != "" {
		t.detail(e.Message)
	}

	if t.doc != nil && e.URI != "" {
		if doc := t.documentation(e); doc != "" {
			t.detail(t.faint(wordwrap.String(doc, t.width-detailIndent)))
		}
	}

	if e.URI != "" {
		t.detail(t.faint(fmt.Sprintf("seeAlso: <%s>", e.URI)))
	}
}

// Subject reports a subject that could not be checked at all.
func (t *Text) Subject(uri string, _ bool, err error) {
	if t.summaryOnly || err == nil {
		return
	}

	t.Header(lint.Identity{Label: "<" + uri + ">"})
	t.printf("%s[%s]\n", strings.Repeat(" ", entryIndent), t.styles.Severity[lint.Fail].Render(lint.Fail.Label()))
	t.detail(err.Error())
}

// Finish writes the summary line. It also returns the first error that
// occurred while writing the report.
func (t *Text) Finish(s *Summary) error {
	if !t.quiet || t.summaryOnly {
		t.printf("%s\n", s.String())
	}

	return t.err
}

// documentation returns the description of the finding, or the
// documentation of its URI when it has none.
func (t *Text) documentation(e lint.Entry) string {
	doc := e.Description
	if doc == "" && e.URI != "" {
		doc, _ = t.doc.Document(e.URI)
	}

	return strings.TrimSpace(Sanitize(doc))
}

func (t *Text) detail(s string) {
	t.printf("%s\n", indent.String(s, detailIndent))
}

// faint styles each line separately, so that lines are not padded.
func (t *Text) faint(s string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = t.styles.Faint.Render(l)
	}

	return strings.Join(lines, "\n")
}

func (t *Text) printf(format string, args ...any) {
	if t.err != nil {
		return
	}

	_, err := fmt.Fprintf(t.w, format, args...)
	if err != nil {
		t.err = fmt.Errorf("write report: %w", err)
	}
}
