package render

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-blockgen/pkg/schema"
)

const excerptRadius = 2

// Diagnose formats err as a multi-line trace: the message, the template
// position with the surrounding lines and a caret under the failing column,
// then every schema field error found in the chain. tmpl may be nil.
func Diagnose(err error, tmpl *Template) string {
	if err == nil {
		return ""
	}

	var b strings.Builder
	var renderErr *Error
	if !errors.As(err, &renderErr) {
		fmt.Fprintf(&b, "error: %v\n", err)
		writeFieldErrors(&b, err)
		return b.String()
	}

	fmt.Fprintf(&b, "%s error: %v\n", renderErr.Phase, renderErr)
	if renderErr.Line > 0 {
		if renderErr.Column > 0 {
			fmt.Fprintf(&b, "  --> %s:%d:%d\n", renderErr.Template, renderErr.Line, renderErr.Column)
		} else {
			fmt.Fprintf(&b, "  --> %s:%d\n", renderErr.Template, renderErr.Line)
		}
		if tmpl != nil {
			writeExcerpt(&b, tmpl.Text, renderErr.Line, renderErr.Column)
		}
	}
	writeFieldErrors(&b, err)
	if renderErr.Partial != "" {
		fmt.Fprintf(&b, "partial output: %d bytes\n", len(renderErr.Partial))
	}
	return b.String()
}

func writeExcerpt(b *strings.Builder, text string, line, column int) {
	lines := strings.Split(text, "\n")
	if line > len(lines) {
		return
	}
	first := max(1, line-excerptRadius)
	last := min(len(lines), line+excerptRadius)
	width := len(fmt.Sprint(last))

	for n := first; n <= last; n++ {
		marker := " "
		if n == line {
			marker = ">"
		}
		fmt.Fprintf(b, "%s %*d | %s\n", marker, width, n, lines[n-1])
		if n == line && column > 0 {
			fmt.Fprintf(b, "  %s | %s^\n", strings.Repeat(" ", width), caretIndent(lines[n-1], column))
		}
	}
}

// caretIndent keeps tabs so the caret lines up in terminals.
func caretIndent(line string, column int) string {
	if column > len(line) {
		column = len(line)
	}
	var b strings.Builder
	for _, r := range line[:column] {
		if r == '\t' {
			b.WriteRune('\t')
			continue
		}
		b.WriteByte(' ')
	}
	return b.String()
}

func writeFieldErrors(b *strings.Builder, err error) {
	fieldErrs := FieldErrors(err)
	if len(fieldErrs) == 0 {
		return
	}
	b.WriteString("schema fields:\n")
	for _, fe := range fieldErrs {
		fmt.Fprintf(b, "  - %s[%d] line %d: field %q %s\n", fe.Group, fe.Index, fe.Line, fe.Field, fe.Reason)
	}
}

// FieldErrors collects every *schema.FieldError in err, including those
// joined with errors.Join.
func FieldErrors(err error) []*schema.FieldError {
	var out []*schema.FieldError
	var walk func(error)
	walk = func(err error) {
		switch e := err.(type) {
		case nil:
			return
		case *schema.FieldError:
			out = append(out, e)
		case interface{ Unwrap() []error }:
			for _, inner := range e.Unwrap() {
				walk(inner)
			}
		case interface{ Unwrap() error }:
			walk(e.Unwrap())
		}
	}
	walk(err)
	return out
}
