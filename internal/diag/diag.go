// Package diag implements CZar's diagnostics model: structured values
// rather than printf side effects (spec.md §9 redesign note), rendered to
// the two wire formats from spec.md §6 only at the driver boundary.
package diag

import (
	"fmt"
	"strings"

	"github.com/dekarrin/rosed"
)

// Severity classifies a Diagnostic per spec.md §7.
type Severity int

const (
	SeverityWarning Severity = iota
	SeverityError
	SeverityInternal
)

func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "WARNING"
	case SeverityError:
		return "ERROR"
	case SeverityInternal:
		return "INTERNAL"
	default:
		return "UNKNOWN"
	}
}

// Diagnostic is the value form of every error and warning a pass emits.
type Diagnostic struct {
	Severity   Severity
	ID         string // kebab-case, e.g. "enum-switch-missing-default"
	Func       string // enclosing function name, "" if at top level
	File       string
	Line       int
	Message    string
	Excerpt    string // populated by Reporter.Report from the source line
	Suggestion string
}

// Error implements the error interface so a Diagnostic of Severity >=
// SeverityError can be returned/wrapped through normal Go error flow when
// convenient (e.g. from the driver).
func (d Diagnostic) Error() string {
	return d.renderError()
}

func (d Diagnostic) renderError() string {
	loc := fmt.Sprintf("%s:%d", d.File, d.Line)
	msg := fmt.Sprintf("[CZAR] ERROR at %s: %s", loc, d.Message)
	if d.Excerpt != "" {
		msg += "\n\t> " + strings.TrimSpace(d.Excerpt)
	}
	return msg
}

func (d Diagnostic) renderWarning() string {
	fn := d.Func
	if fn == "" {
		fn = "<top-level>"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "WARNING in %s() at %s:%d %s\n", fn, d.File, d.Line, d.ID)
	fmt.Fprintf(&b, "\t%s\n", d.Message)
	if d.Excerpt != "" {
		fmt.Fprintf(&b, "\t> %s\n", strings.TrimSpace(d.Excerpt))
	}
	if d.Suggestion != "" {
		fmt.Fprintf(&b, "\t%s\n", d.Suggestion)
	}
	return b.String()
}

// Render formats d per the two wire formats of spec.md §6.
func (d Diagnostic) Render() string {
	if d.Severity == SeverityWarning {
		return d.renderWarning()
	}
	return d.renderError()
}

// Reporter accumulates diagnostics for a single pass invocation. A pass
// is handed a *Reporter instead of writing to a log or to stdout, per the
// "diagnostics as values" redesign note.
type Reporter struct {
	sourceFile string
	sourceFunc func(line int) string // excerpt lookup, set via WithSource
	items      []Diagnostic
}

// NewReporter creates a Reporter for sourceFile. lines is the full set of
// source lines (1-indexed access via lines[line-1]) used to populate
// Excerpt; it may be nil, in which case Excerpt is left empty.
func NewReporter(sourceFile string, lines []string) *Reporter {
	r := &Reporter{sourceFile: sourceFile}
	if lines != nil {
		r.sourceFunc = func(line int) string {
			if line < 1 || line > len(lines) {
				return ""
			}
			return lines[line-1]
		}
	}
	return r
}

// Warn records a warning-severity diagnostic.
func (r *Reporter) Warn(id, fn string, line int, message, suggestion string) {
	r.report(SeverityWarning, id, fn, line, message, suggestion)
}

// Error records an error-severity diagnostic.
func (r *Reporter) Error(id, fn string, line int, message string) {
	r.report(SeverityError, id, fn, line, message, "")
}

// Internal records an internal-invariant-broken diagnostic; per spec.md
// §7 this kind "should never fire" and when it does the transpiler aborts
// rather than continuing.
func (r *Reporter) Internal(fn string, line int, message string) {
	r.report(SeverityInternal, "internal-invariant", fn, line, message, "")
}

func (r *Reporter) report(sev Severity, id, fn string, line int, message, suggestion string) {
	d := Diagnostic{
		Severity:   sev,
		ID:         id,
		Func:       fn,
		File:       r.sourceFile,
		Line:       line,
		Message:    message,
		Suggestion: suggestion,
	}
	if r.sourceFunc != nil {
		d.Excerpt = excerpt(r.sourceFunc(line))
	}
	r.items = append(r.items, d)
}

// excerptWrapWidth bounds how wide a rendered source excerpt is allowed
// to get before rosed re-wraps it; generated single-line struct literals
// can otherwise produce an unreadably long diagnostic.
const excerptWrapWidth = 100

// excerpt trims leading whitespace from a source line for display,
// matching the "leading whitespace trimmed" requirement of spec.md §6,
// then lets rosed re-wrap it if it is pathologically long.
func excerpt(line string) string {
	trimmed := strings.TrimLeft(line, " \t")
	if trimmed == "" {
		return ""
	}
	return rosed.Edit(trimmed).
		WithOptions(rosed.Options{ParagraphSeparator: "\n"}).
		Wrap(excerptWrapWidth).
		String()
}

// Items returns every diagnostic recorded so far, in emission order.
func (r *Reporter) Items() []Diagnostic {
	return r.items
}

// HasErrors reports whether any Error or Internal severity diagnostic was
// recorded. Per spec.md §4.1, a validation pass with any error halts the
// scheduler after it finishes; warnings never block.
func (r *Reporter) HasErrors() bool {
	for _, d := range r.items {
		if d.Severity == SeverityError || d.Severity == SeverityInternal {
			return true
		}
	}
	return false
}

// Errors returns only the error/internal-severity diagnostics.
func (r *Reporter) Errors() []Diagnostic {
	var out []Diagnostic
	for _, d := range r.items {
		if d.Severity == SeverityError || d.Severity == SeverityInternal {
			out = append(out, d)
		}
	}
	return out
}

// Warnings returns only the warning-severity diagnostics.
func (r *Reporter) Warnings() []Diagnostic {
	var out []Diagnostic
	for _, d := range r.items {
		if d.Severity == SeverityWarning {
			out = append(out, d)
		}
	}
	return out
}

// Merge appends another Reporter's items onto r, preserving order. Used
// by the scheduler to fold each pass's Reporter into one final list.
func (r *Reporter) Merge(other *Reporter) {
	r.items = append(r.items, other.items...)
}
