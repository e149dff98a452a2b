package passes

import (
	"github.com/dekarrin/czar/internal/diag"
	"github.com/dekarrin/czar/internal/symbols"
	"github.com/dekarrin/czar/internal/token"
)

// TransformIfExpressions is P19 (spec.md §4.3.11). `if (c) a else b`
// occurring in expression position — the token right after `)` is not
// `{` — rewrites to `(c) ? a : b`.
func TransformIfExpressions(u *token.Unit, tabs *symbols.Tables, rep *diag.Reporter) {
	for i := 0; i < u.Len(); i++ {
		t := u.At(i)
		if t.Elided() || t.Kind != token.Keyword || t.Text != "if" {
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
		afterParen := u.NextSignificant(closeParen + 1)
		if afterParen != -1 && u.At(afterParen).Text == "{" {
			continue // statement form, not this pass's concern
		}

		elseIdx := findElseAtDepthZero(u, closeParen+1)
		if elseIdx == -1 {
			rep.Internal(funcName(u, i), t.Line, "if-expression missing matching 'else'")
			continue
		}

		t.Elide()
		u.InsertAt(closeParen+1, token.New(token.Operator, " ?", 0, 0))
		u.At(elseIdx).Text = " : "
	}
}

// findElseAtDepthZero scans forward from `from` for an `else` keyword at
// paren/bracket depth 0, returning -1 if a statement terminator is
// reached first.
func findElseAtDepthZero(u *token.Unit, from int) int {
	depth := 0
	i := u.NextSignificant(from)
	for i != -1 {
		t := u.At(i)
		switch t.Text {
		case "(", "[":
			depth++
		case ")", "]":
			depth--
		case ";":
			if depth <= 0 {
				return -1
			}
		case "else":
			if depth <= 0 && t.Kind == token.Keyword {
				return i
			}
		}
		i = u.NextSignificant(i + 1)
	}
	return -1
}
