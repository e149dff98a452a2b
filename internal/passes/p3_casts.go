package passes

import (
	"github.com/dekarrin/czar/internal/diag"
	"github.com/dekarrin/czar/internal/symbols"
	"github.com/dekarrin/czar/internal/token"
)

// ValidateCasts is P3 (spec.md §4.2.2): rejects any C-style `(Type)expr`
// cast, quoting the offending text. The only legal cast syntax is
// `cast<Type>(value)` / `cast<Type>(value, fallback)`, lowered later by
// P21; this pass does not need to understand that form beyond not
// flagging it.
func ValidateCasts(u *token.Unit, tabs *symbols.Tables, rep *diag.Reporter) {
	for i := 0; i < u.Len(); i++ {
		t := u.At(i)
		if t.Elided() || t.Text != "(" {
			continue
		}
		inner := u.NextSignificant(i + 1)
		if inner == -1 {
			continue
		}
		innerTok := u.At(inner)
		if !isTypeToken(innerTok.Text) {
			continue
		}
		closeIdx := u.NextSignificant(inner + 1)
		if closeIdx == -1 || u.At(closeIdx).Text != ")" {
			continue
		}
		// single type token between the parens; now check what follows
		// the close paren. A genuine C-style cast is immediately
		// followed by the casted expression: an identifier, a number, a
		// string, a unary `-`/`!`/`~`, or another `(`. A plain
		// parenthesized type used harmlessly (e.g. as part of sizeof, or
		// a dangling call like `(i32)(x)` being distinguished from
		// `f(i32)` applied elsewhere) does not arise in valid CZar since
		// types are never first-class values, so this heuristic does
		// not need to special-case sizeof.
		after := u.NextSignificant(closeIdx + 1)
		if after == -1 {
			continue
		}
		at := u.At(after)
		looksLikeCastTarget := at.Kind == token.Identifier || at.Kind == token.Number ||
			at.Kind == token.String || at.Text == "(" || at.Text == "-" || at.Text == "!" || at.Text == "~"
		if !looksLikeCastTarget {
			continue
		}
		// also must not itself be preceded by `cast` `<` (that's the
		// legal generic form and is never spelled with a leading `(`).
		prev := u.PrevSignificant(i - 1)
		if prev != -1 && u.At(prev).Text == "cast" {
			continue
		}
		quoted := "(" + innerTok.Text + ")"
		rep.Error("c-style-cast", funcName(u, i), t.Line,
			"C-style casts are forbidden; use cast<Type>(value) instead, got '"+quoted+"'")
	}
}
