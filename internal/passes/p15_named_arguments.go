package passes

import (
	"fmt"

	"github.com/dekarrin/czar/internal/diag"
	"github.com/dekarrin/czar/internal/symbols"
	"github.com/dekarrin/czar/internal/token"
)

// TransformNamedArguments is P15 (spec.md §4.3.7). The function signature
// table is populated incrementally as P6 and P9 lower each declaration (by
// the time this pass runs, declarations have already been rewritten to
// their C shape, so there is nothing left in the tree to re-scan); this
// pass only consumes that table to validate and strip named arguments
// from call sites.
//
// For each call site `f(name1 = v1, name2 = v2, ...)` where f is a known
// signature: verify name_i matches parameter i, then elide the `name_i =`
// prefix (and its trailing whitespace) so the emitted C sees positional
// arguments. Labels out of order are an error.
func TransformNamedArguments(u *token.Unit, tabs *symbols.Tables, rep *diag.Reporter) {
	for i := 0; i < u.Len(); i++ {
		t := u.At(i)
		if t.Elided() || t.Kind != token.Identifier {
			continue
		}
		sig, known := tabs.Functions.Lookup(t.Text)
		if !known {
			continue
		}
		openParen := u.NextSignificant(i + 1)
		if openParen == -1 || u.At(openParen).Text != "(" {
			continue
		}
		closeParen := matchDelim(u, openParen)
		if closeParen == -1 {
			continue
		}
		validateAndStripNamedArgs(u, openParen, closeParen, sig, t.Line, rep)
	}
}

func validateAndStripNamedArgs(u *token.Unit, openParen, closeParen int, sig symbols.Signature, line int, rep *diag.Reporter) {
	argIdx := 0
	i := u.NextSignificant(openParen + 1)
	for i != -1 && i < closeParen {
		nameTok := u.At(i)
		eqIdx := u.NextSignificant(i + 1)
		if nameTok.Kind != token.Identifier || eqIdx == -1 || u.At(eqIdx).Text != "=" {
			// positional argument; skip to the next top-level comma.
			i = nextTopLevelComma(u, i, closeParen)
			argIdx++
			continue
		}

		if argIdx >= len(sig.Params) || sig.Params[argIdx].Name != nameTok.Text {
			rep.Error("named-argument-order", sig.FuncName, line,
				fmt.Sprintf("Named argument '%s' at position %d does not match expected parameter '%s'",
					nameTok.Text, argIdx+1, paramNameOrEmpty(sig, argIdx)))
			return
		}

		nameTok.Elide()
		u.At(eqIdx).Elide()

		valueStart := u.NextSignificant(eqIdx + 1)
		i = nextTopLevelComma(u, valueStart, closeParen)
		argIdx++
	}
}

func paramNameOrEmpty(sig symbols.Signature, idx int) string {
	if idx < 0 || idx >= len(sig.Params) {
		return "<none>"
	}
	return sig.Params[idx].Name
}

// nextTopLevelComma returns the index just past the next top-level comma
// at or after from, within [from, end), or end if none remains.
func nextTopLevelComma(u *token.Unit, from, end int) int {
	depth := 0
	i := from
	for i != -1 && i < end {
		t := u.At(i)
		switch t.Text {
		case "(", "[", "{":
			depth++
		case ")", "]", "}":
			depth--
		case ",":
			if depth == 0 {
				return u.NextSignificant(i + 1)
			}
		}
		i = u.NextSignificant(i + 1)
	}
	return end
}
