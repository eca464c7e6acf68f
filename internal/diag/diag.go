// Package diag accumulates and formats compiler diagnostics. The contents
// of each diagnostic line are dictated verbatim by spec.md §4/§6; this
// package only owns how they reach the error stream (spec.md §1,
// "Diagnostic formatting... is external... the core must produce the
// contents of each diagnostic verbatim").
package diag

import (
	"fmt"
	"strings"
)

// Diagnostic is a single `"<filename>":<line>: <message>` line plus the
// optional full source text of its file, from which FormatWithContext
// picks the offending line.
type Diagnostic struct {
	Filename string
	Line     int
	Message  string
	Source   string // full source text of Filename, for FormatWithContext
}

// Error implements the error interface with the exact wire format spec.md
// §6 requires.
func (d *Diagnostic) Error() string { return d.Oneline() }

// Oneline renders `"<filename>":<line>: <message>`.
func (d *Diagnostic) Oneline() string {
	return fmt.Sprintf("%q:%d: %s", d.Filename, d.Line, d.Message)
}

// FormatWithContext renders the one-line diagnostic followed by the
// offending source line, indented by four spaces; no caret or column
// marker is drawn, and the line is omitted when Source is empty or Line is
// out of range. No CLI mode calls it. This is cosmetic and never changes the one-line contents tested against
// a reference compiler's corpus.
func (d *Diagnostic) FormatWithContext() string {
	var sb strings.Builder
	sb.WriteString(d.Oneline())
	sb.WriteByte('\n')
	if line := d.sourceLine(); line != "" {
		sb.WriteString("    ")
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	return sb.String()
}

func (d *Diagnostic) sourceLine() string {
	if d.Source == "" {
		return ""
	}
	lines := strings.Split(d.Source, "\n")
	if d.Line < 1 || d.Line > len(lines) {
		return ""
	}
	return lines[d.Line-1]
}

// Bag accumulates diagnostics for one compile session. It is the single
// error counter spec.md §5/§7 describes as process-wide, owned-per-session
// state exclusively mutated from the main (only) goroutine.
type Bag struct {
	items []*Diagnostic
}

// NewBag creates an empty diagnostic bag.
func NewBag() *Bag { return &Bag{} }

// Addf records a new diagnostic with a printf-style message.
func (b *Bag) Addf(filename string, line int, format string, args ...interface{}) {
	b.items = append(b.items, &Diagnostic{
		Filename: filename,
		Line:     line,
		Message:  fmt.Sprintf(format, args...),
	})
}

// Count returns the number of accumulated diagnostics.
func (b *Bag) Count() int { return len(b.items) }

// HasErrors reports whether any diagnostic was recorded.
func (b *Bag) HasErrors() bool { return len(b.items) > 0 }

// All returns every accumulated diagnostic, in recording order (spec.md
// §5 determinism invariant: diagnostic order is a stable function of the
// input AST, which in turn is a stable function of traversal order).
func (b *Bag) All() []*Diagnostic { return b.items }

// FormatAll renders every diagnostic as one line each.
func (b *Bag) FormatAll() string {
	var sb strings.Builder
	for _, d := range b.items {
		sb.WriteString(d.Oneline())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// FatalSummary is the terminal line the compile command prints once, after
// the diagnostics, when a semantic fatal barrier stops the compile
// (spec.md §4.D, §7).
const FatalSummary = "Compilation halted due to static semantic errors."
