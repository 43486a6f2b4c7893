package report

import (
	"io"

	"github.com/ctfenum/ctfenum/internal/model"
	"github.com/nao1215/markdown"
)

// MarkdownWriter outputs the enumeration report as a markdown document.
//
// Design decision: we use the nao1215/markdown library for fluent markdown
// generation rather than string concatenation. It keeps the document
// structure declarative and guarantees consistent spacing between blocks,
// which in turn keeps repeated writes byte-identical.
type MarkdownWriter struct {
	output io.Writer
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given
// writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{output: output}
}

// Write outputs the report document. The block order is fixed: title, rule,
// analysis verbatim, rule, raw scan heading, fenced scan text.
func (w *MarkdownWriter) Write(rep *model.EnumReport) (int, error) {
	if err := validate(rep); err != nil {
		return 0, err
	}

	md := markdown.NewMarkdown(w.output)

	md.H1("CTF Enumeration: " + rep.Target)
	md.HorizontalRule()
	md.PlainText(rep.Analysis.Text)
	md.HorizontalRule()
	md.H2("Raw Nmap Scan")
	md.CodeBlocks(markdown.SyntaxHighlightText, rep.Scan.Raw)

	return len(md.String()), md.Build()
}
