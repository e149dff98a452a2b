package passes

import (
	"github.com/dekarrin/czar/internal/diag"
	"github.com/dekarrin/czar/internal/symbols"
	"github.com/dekarrin/czar/internal/token"
)

// TransformStructLiterals is P8 (spec.md §4.3.2). It rewrites the two
// brace-initializer shorthands CZar allows on the right of `=`:
//
//	T s = {};        ->  T s = {0};
//	T s = T {};      ->  T s = {0};
//	T s = T { ... }; ->  T s = { ... };
//
// The repeated type name before the brace, when present, is only a
// syntactic echo of the declared type and carries no information the C
// output needs, so it is elided rather than rewritten.
func TransformStructLiterals(u *token.Unit, tabs *symbols.Tables, rep *diag.Reporter) {
	for i := 0; i < u.Len(); i++ {
		t := u.At(i)
		if t.Elided() || t.Text != "=" {
			continue
		}
		braceIdx := u.NextSignificant(i + 1)
		if braceIdx == -1 {
			continue
		}
		if u.At(braceIdx).Kind == token.Identifier && isCapitalized(u.At(braceIdx).Text) {
			nextBrace := u.NextSignificant(braceIdx + 1)
			if nextBrace == -1 || u.At(nextBrace).Text != "{" {
				continue
			}
			u.At(braceIdx).Elide()
			braceIdx = nextBrace
		}
		if u.At(braceIdx).Text != "{" {
			continue
		}
		closeBrace := matchDelim(u, braceIdx)
		if closeBrace == -1 {
			rep.Internal("", t.Line, "unterminated brace initializer")
			continue
		}
		if u.NextSignificant(braceIdx+1) == closeBrace {
			u.InsertAt(closeBrace, token.New(token.Number, "0", 0, 0))
		}
	}
}
