// Package passes implements the fixed, ordered pipeline of spec.md §2/§4:
// twenty-one passes over a flat token tree, sharing the symbol tables in
// internal/symbols and reporting through internal/diag. Each pass is a
// pure function of (tree, tables) to (tree, diagnostics) — per spec.md §5
// it never logs, never touches the filesystem, and never reads a table
// before the pass that documents writing it has run.
package passes

import (
	"github.com/dekarrin/czar/internal/diag"
	"github.com/dekarrin/czar/internal/symbols"
	"github.com/dekarrin/czar/internal/token"
)

// Kind distinguishes a validation pass (may only elide tokens and report
// diagnostics) from a structural/lowering pass (rewrites tree shape).
// Nothing in this package enforces the distinction mechanically — it
// exists so the scheduler can decide whether to halt after a pass
// (spec.md §4.1: "If any validation pass reports an error, execution
// halts").
type Kind int

const (
	Validation Kind = iota
	Transform
)

// Pass is one entry in the fixed pipeline. Name matches the identifiers
// used throughout spec.md (e.g. "P7") so diagnostics and tests can refer
// to a pass unambiguously.
type Pass struct {
	Name string
	Kind Kind
	Run  func(u *token.Unit, tabs *symbols.Tables, rep *diag.Reporter)
}

// Ordered returns the fixed pass list in the exact order mandated by
// spec.md §2. The scheduler runs this slice verbatim; no pass is ever
// reordered or skipped.
func Ordered() []Pass {
	return []Pass{
		{Name: "P1", Kind: Validation, Run: PragmaParse},
		{Name: "P2", Kind: Validation, Run: ValidateInitAndUnsafeAPI},
		{Name: "P3", Kind: Validation, Run: ValidateCasts},
		{Name: "P4", Kind: Validation, Run: ValidateEnumsAndSwitch},
		{Name: "P5", Kind: Validation, Run: ValidateFunctions},
		{Name: "P6", Kind: Transform, Run: TransformFunctions},
		{Name: "P7", Kind: Transform, Run: TransformStructs},
		{Name: "P8", Kind: Transform, Run: TransformStructLiterals},
		{Name: "P9", Kind: Transform, Run: TransformMethods},
		{Name: "P10", Kind: Transform, Run: RewriteStructNames},
		{Name: "P11", Kind: Transform, Run: AutoDeref},
		{Name: "P12", Kind: Transform, Run: TransformEnums},
		{Name: "P13", Kind: Transform, Run: ExpandUnreachableTodoFixme},
		{Name: "P14", Kind: Transform, Run: ExpandLogLineDirectives},
		{Name: "P15", Kind: Transform, Run: TransformNamedArguments},
		{Name: "P16", Kind: Transform, Run: TransformMutability},
		{Name: "P17", Kind: Transform, Run: TransformDefer},
		{Name: "P18", Kind: Transform, Run: TransformForeach},
		{Name: "P19", Kind: Transform, Run: TransformIfExpressions},
		{Name: "P20", Kind: Transform, Run: MapTypeAndConstIdentifiers},
		{Name: "P21", Kind: Transform, Run: TransformCasts},
	}
}

// Scheduler runs Ordered() to completion or to the first pass that
// reports an error, matching spec.md §4.1 ("runs each pass to completion
// before starting the next; there is no iteration to fixpoint").
type Scheduler struct {
	passes []Pass
}

// NewScheduler returns a Scheduler over the fixed pass order.
func NewScheduler() *Scheduler {
	return &Scheduler{passes: Ordered()}
}

// Result is what the scheduler returns after running (or halting).
type Result struct {
	// HaltedAt is the pass name the scheduler stopped at due to an error,
	// or "" if every pass ran to completion.
	HaltedAt string
	Report   *diag.Reporter
}

// Run executes every pass in order against u and tabs, short-circuiting
// after the first pass whose Reporter.HasErrors() is true.
func (s *Scheduler) Run(u *token.Unit, tabs *symbols.Tables) Result {
	final := diag.NewReporter(u.SourceFile, nil)
	for _, p := range s.passes {
		rep := diag.NewReporter(u.SourceFile, sourceLines(u))
		p.Run(u, tabs, rep)
		final.Merge(rep)
		if rep.HasErrors() {
			return Result{HaltedAt: p.Name, Report: final}
		}
	}
	return Result{Report: final}
}

// sourceLines reconstructs a 1-indexed line table from the current token
// text so every pass's Reporter can render an excerpt, even though the
// tree has no separate line-oriented storage (spec.md §3: tokens carry
// Line/Column, not a source-line index).
func sourceLines(u *token.Unit) []string {
	var b []byte
	for _, t := range u.Tokens {
		if t.Kind == token.EOF {
			continue
		}
		b = append(b, []byte(t.Text)...)
	}
	lines := []string{""}
	cur := []byte{}
	for _, c := range b {
		if c == '\n' {
			lines = append(lines, string(cur))
			cur = nil
			continue
		}
		cur = append(cur, c)
	}
	lines = append(lines, string(cur))
	return lines[1:]
}
