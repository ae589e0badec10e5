package errortypes

import (
	"fmt"
	"strings"
)

// Severity separates hard errors from warnings.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

// Diagnostic is one compiler finding.  Errors use E-prefixed codes,
// warnings W-prefixed ones.  Start/End are byte offsets into the template
// source; SrcLine/SrcCol locate the start for renderers that work in
// line/column terms.
type Diagnostic struct {
	Code           string
	Message        string
	Filename       string
	Start          int
	End            int
	SrcLine        int // 1-based; 0 when unknown
	SrcCol         int // 0-based
	Snippet        string
	Pointer        string
	Hint           string
	LexicalContext string
}

var _ ErrFilePos = (*Diagnostic)(nil)

// Severity derives the class of the diagnostic from its code.
func (d *Diagnostic) Severity() Severity {
	if strings.HasPrefix(d.Code, "W") {
		return SeverityWarning
	}
	return SeverityError
}

func (d *Diagnostic) Error() string {
	if d.Filename != "" && d.SrcLine > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %s", d.Filename, d.SrcLine, d.SrcCol, d.Code, d.Message)
	}
	if d.SrcLine > 0 {
		return fmt.Sprintf("%d:%d: %s: %s", d.SrcLine, d.SrcCol, d.Code, d.Message)
	}
	return d.Code + ": " + d.Message
}

// File implements ErrFilePos.
func (d *Diagnostic) File() string { return d.Filename }

// Line implements ErrFilePos.
func (d *Diagnostic) Line() int { return d.SrcLine }

// Col implements ErrFilePos.
func (d *Diagnostic) Col() int { return d.SrcCol }

// RenderOptions configures Render.
type RenderOptions struct {
	ContextLines int // lines of surrounding source to include
	BaseOffset   int // added to reported line numbers
}

// Render formats the diagnostic with a source excerpt and a caret pointer,
// suitable for terminal output.  source is the full template text; it may
// be empty, in which case only the header line is produced.
func (d *Diagnostic) Render(source string, opts RenderOptions) string {
	var b strings.Builder
	b.WriteString(d.Error())
	if source == "" || d.SrcLine <= 0 {
		return b.String()
	}

	lines := strings.Split(source, "\n")
	line := d.SrcLine
	if line > len(lines) {
		line = len(lines)
	}
	first := line - opts.ContextLines
	if first < 1 {
		first = 1
	}
	for i := first; i <= line; i++ {
		b.WriteString(fmt.Sprintf("\n%4d | %s", i+opts.BaseOffset, lines[i-1]))
	}
	b.WriteString("\n     | " + strings.Repeat(" ", d.SrcCol) + "^")
	if d.Hint != "" {
		b.WriteString("\nhint: " + d.Hint)
	}
	if d.LexicalContext != "" {
		b.WriteString("\nin: " + d.LexicalContext)
	}
	return b.String()
}
