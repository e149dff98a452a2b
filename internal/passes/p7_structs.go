package passes

import (
	"github.com/dekarrin/czar/internal/diag"
	"github.com/dekarrin/czar/internal/symbols"
	"github.com/dekarrin/czar/internal/token"
)

// TransformStructs is P7 (spec.md §4.3.2). For every top-level `struct
// Name { ... };` it inserts the `typedef` keyword, renames the tag to
// `Name_s`, appends the typedef identifier `Name_t` before the trailing
// `;`, and records `Name -> Name_t` in the struct map for P9/P10 to
// consume.
func TransformStructs(u *token.Unit, tabs *symbols.Tables, rep *diag.Reporter) {
	kinds := computeBlockKinds(u)
	for i := 0; i < u.Len(); i++ {
		t := u.At(i)
		if t.Elided() || t.Kind != token.Keyword || t.Text != "struct" {
			continue
		}
		if kinds[i] != blockNone {
			// a nested `struct` mention (e.g. inside a param list typed
			// as `struct Foo *`) is not a definition; P7 only lowers
			// definitions.
			continue
		}
		nameIdx := u.NextSignificant(i + 1)
		if nameIdx == -1 || u.At(nameIdx).Kind != token.Identifier {
			continue
		}
		braceIdx := u.NextSignificant(nameIdx + 1)
		if braceIdx == -1 || u.At(braceIdx).Text != "{" {
			continue
		}
		closeBrace := matchDelim(u, braceIdx)
		if closeBrace == -1 {
			rep.Internal("", t.Line, "unterminated struct body")
			continue
		}
		semiIdx := u.NextSignificant(closeBrace + 1)
		if semiIdx == -1 || u.At(semiIdx).Text != ";" {
			rep.Error("struct-missing-semicolon", "", t.Line, "struct definition must end with ';'")
			continue
		}

		base := u.At(nameIdx).Text
		typedefName := base + "_t"

		u.At(i).Text = "typedef struct"
		u.At(nameIdx).Text = base + "_s"
		u.InsertAt(semiIdx, token.New(token.Whitespace, " ", 0, 0), token.New(token.Identifier, typedefName, 0, 0))

		tabs.Structs.Define(base, typedefName)
	}
}
