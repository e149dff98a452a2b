package passes

import (
	"github.com/dekarrin/czar/internal/diag"
	"github.com/dekarrin/czar/internal/symbols"
	"github.com/dekarrin/czar/internal/token"
)

// TransformCasts is P21 (spec.md §4.3.12). `cast<T>(v)` lowers to
// `((T)(v))`. The two-argument fallback form `cast<T>(v, fb)` keeps the
// fallback alive (spec.md §9's open question on safe-cast semantics is
// resolved here in favor of preserving it, rather than silently dropping
// it the way the source does) by lowering to `_CZ_SAFE_CAST(T, v, fb)`, a
// `_Generic`-dispatched macro the runtime writer emits into cz.h that
// performs the conversion and returns fb when it would overflow.
func TransformCasts(u *token.Unit, tabs *symbols.Tables, rep *diag.Reporter) {
	for i := 0; i < u.Len(); i++ {
		t := u.At(i)
		if t.Elided() || t.Kind != token.Identifier || t.Text != "cast" {
			continue
		}
		ltIdx := u.NextSignificant(i + 1)
		if ltIdx == -1 || u.At(ltIdx).Text != "<" {
			continue
		}
		typeIdx := u.NextSignificant(ltIdx + 1)
		if typeIdx == -1 {
			continue
		}
		gtIdx := u.NextSignificant(typeIdx + 1)
		if gtIdx == -1 || u.At(gtIdx).Text != ">" {
			continue
		}
		openParen := u.NextSignificant(gtIdx + 1)
		if openParen == -1 || u.At(openParen).Text != "(" {
			continue
		}
		closeParen := matchDelim(u, openParen)
		if closeParen == -1 {
			rep.Internal(funcName(u, i), t.Line, "unterminated cast<...>(...) call")
			continue
		}

		typeText := u.At(typeIdx).Text
		commaIdx := topLevelComma(u, openParen+1, closeParen)

		if commaIdx == -1 {
			value := u.Text(openParen+1, closeParen)
			t.Text = "((" + typeText + ")(" + value + "))"
		} else {
			value := u.Text(openParen+1, commaIdx)
			fallback := u.Text(commaIdx+1, closeParen)
			t.Text = "_CZ_SAFE_CAST(" + typeText + ", " + value + ", " + fallback + ")"
		}

		for k := ltIdx; k <= closeParen; k++ {
			u.At(k).Elide()
		}
	}
}

// topLevelComma returns the index of the first comma in [start, end) at
// paren/bracket depth 0, or -1.
func topLevelComma(u *token.Unit, start, end int) int {
	depth := 0
	i := u.NextSignificant(start)
	for i != -1 && i < end {
		switch u.At(i).Text {
		case "(", "[":
			depth++
		case ")", "]":
			depth--
		case ",":
			if depth == 0 {
				return i
			}
		}
		i = u.NextSignificant(i + 1)
	}
	return -1
}
