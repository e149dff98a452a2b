package passes

import (
	"github.com/dekarrin/czar/internal/diag"
	"github.com/dekarrin/czar/internal/symbols"
	"github.com/dekarrin/czar/internal/token"
)

// PragmaParse is P1: scans for `#pragma czar debug(on|off)` directives and
// writes tabs.Pragma.DebugMode accordingly (spec.md §6 "Pragmas
// recognised"). It is the first pass because every later pass, and the
// runtime emitter, reads the pragma context; this pass must establish it
// before anything else runs.
func PragmaParse(u *token.Unit, tabs *symbols.Tables, rep *diag.Reporter) {
	for i := 0; i < u.Len(); i++ {
		t := u.At(i)
		if t.Elided() || t.Kind != token.Preprocessor || t.Text != "#pragma" {
			continue
		}

		czarIdx := u.NextSignificant(i + 1)
		if czarIdx == -1 || u.At(czarIdx).Text != "czar" {
			continue
		}
		debugIdx := u.NextSignificant(czarIdx + 1)
		if debugIdx == -1 || u.At(debugIdx).Text != "debug" {
			rep.Warn("unrecognized-pragma", funcName(u, i), t.Line,
				"unrecognized #pragma czar directive; ignoring", "")
			continue
		}
		openIdx := u.NextSignificant(debugIdx + 1)
		if openIdx == -1 || u.At(openIdx).Text != "(" {
			rep.Error("malformed-pragma", funcName(u, i), t.Line, "expected '(' after 'debug' in #pragma czar debug(...)")
			continue
		}
		valIdx := u.NextSignificant(openIdx + 1)
		closeIdx := u.NextSignificant(valIdx + 1)
		if valIdx == -1 || closeIdx == -1 || u.At(closeIdx).Text != ")" {
			rep.Error("malformed-pragma", funcName(u, i), t.Line, "expected 'on' or 'off' followed by ')' in #pragma czar debug(...)")
			continue
		}
		val := u.At(valIdx).Text
		switch val {
		case "on":
			tabs.Pragma.DebugMode = true
		case "off":
			tabs.Pragma.DebugMode = false
		default:
			rep.Error("malformed-pragma", funcName(u, i), t.Line, "expected 'on' or 'off', got '"+val+"'")
			continue
		}

		// the directive has no C equivalent; elide every token that made
		// up the directive line.
		for j := i; j <= closeIdx; j++ {
			u.At(j).Elide()
		}
	}
}
