// Package transpiler ties together the lexer, pass scheduler, and emitter
// collaborators into the single entry point spec.md §6 names:
// transpile(path). It is the direct analogue of the teacher's engine.go
// constructor — load external input, wire the pieces that do the real
// work, hand back a ready result — except a transpile call is a single
// synchronous function rather than a long-lived interactive session.
package transpiler

import (
	"fmt"
	"os"

	"github.com/dekarrin/czar/internal/config"
	"github.com/dekarrin/czar/internal/czerrors"
	"github.com/dekarrin/czar/internal/diag"
	"github.com/dekarrin/czar/internal/emitter"
	"github.com/dekarrin/czar/internal/lexer"
	"github.com/dekarrin/czar/internal/passes"
	"github.com/dekarrin/czar/internal/symbols"
	"github.com/dekarrin/czar/internal/token"
)

// Result is what Transpile returns on success or on a validation halt.
// Exactly one of Output being populated or HaltedAt being non-empty holds
// per spec.md §7 ("no partial translation unit is flushed" on error).
type Result struct {
	Output   emitter.Output
	HaltedAt string
	Report   *diag.Reporter
}

// Transpile reads path, lexes it, resolves any sibling #import targets,
// runs the fixed 21-pass pipeline, and emits the translation unit plus
// its cz.h/cz.c companions. cfg supplies the project's czar.toml
// settings (or config.Default() if none was found).
//
// An error return is always a czerrors fatal-input error: an unreadable
// file or a lexer failure, both of which happen before a translation
// unit exists to attach diagnostics to. Validation failures are instead
// reported through Result.Report with a non-empty Result.HaltedAt, per
// spec.md §7's "Propagation" rule that a validation error halts the
// pipeline but is still a structured diagnostic, not a Go error.
func Transpile(path string, cfg config.Settings) (Result, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return Result{}, czerrors.WrapFatal(err, path, fmt.Sprintf("cannot read %s", path))
	}

	toks, err := lexer.Lex(src)
	if err != nil {
		return Result{}, czerrors.WrapFatal(err, path, fmt.Sprintf("cannot lex %s", path))
	}

	u := token.NewUnit(path, toks)

	tabs := symbols.New()
	tabs.Pragma.DebugMode = cfg.Build.Debug
	tabs.Pragma.ForbidFatal = make(map[string]bool, len(cfg.Build.ForbidFatal))
	for _, name := range cfg.Build.ForbidFatal {
		tabs.Pragma.ForbidFatal[name] = true
	}

	importWarnings := resolveImports(u, path, tabs)

	sched := passes.NewScheduler()
	res := sched.Run(u, tabs)
	for _, w := range importWarnings {
		res.Report.Merge(singleWarning(w, path))
	}

	if res.HaltedAt != "" {
		return Result{HaltedAt: res.HaltedAt, Report: res.Report}, nil
	}

	out := emitter.Emit(u, tabs, cfg.Build)
	return Result{Output: out, Report: res.Report}, nil
}

// singleWarning wraps one pre-formatted diagnostic message from
// resolveImports into a Reporter so it folds into the scheduler's merged
// report the same way every other warning does.
func singleWarning(msg, path string) *diag.Reporter {
	r := diag.NewReporter(path, nil)
	r.Warn("import-unresolved", "", 0, msg, "check that the sibling .cz.h file exists and defines the expected typedef")
	return r
}
