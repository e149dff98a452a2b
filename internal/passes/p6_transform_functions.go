package passes

import (
	"github.com/dekarrin/czar/internal/diag"
	"github.com/dekarrin/czar/internal/symbols"
	"github.com/dekarrin/czar/internal/token"
)

// TransformFunctions is P6 (spec.md §4.3.1). It only rewrites plain
// function declarations — those without a `Type.name`/`Type:name`
// receiver — since method-shaped declarations are left untouched here
// for P9 (transform methods) to fully lower, including the receiver
// injection and `Type_name` renaming.
//
// For each plain declaration this pass:
//   - rewrites `main()` to `int main(void)`
//   - inserts an explicit `void` into any other declaration's empty
//     parameter list (P5 has already rejected every such declaration
//     except main, so in practice only main reaches this branch)
//   - reorders `name(params) -> Ret { ... }` to `Ret name(params) { ... }`
//   - adds `__attribute__((warn_unused_result))` to every non-void
//     function, and `__attribute__((pure))` to every function whose
//     parameters are all non-`mut`
func TransformFunctions(u *token.Unit, tabs *symbols.Tables, rep *diag.Reporter) {
	for i := 0; i < u.Len(); i++ {
		t := u.At(i)
		if t.Elided() || t.Kind != token.Keyword || t.Text != "fn" {
			continue
		}
		decl := scanFnDecl(u, i)
		if decl == nil || decl.IsMethod {
			continue
		}
		if decl.Name != "main" {
			tabs.Functions.Define(symbols.Signature{FuncName: decl.Name, Params: decl.Params})
		}
		transformPlainFunction(u, decl)
	}
}

func transformPlainFunction(u *token.Unit, decl *fnDecl) {
	if decl.Name == "main" {
		if decl.ParenEmpty {
			u.InsertAt(decl.CloseParen, token.New(token.Keyword, "void", 0, 0))
		}
		if decl.ArrowIdx != -1 {
			u.At(decl.ArrowIdx).Elide()
			u.At(decl.ReturnTypeIdx).Elide()
		}
		u.At(decl.FnIdx).Text = "int"
		return
	}

	attrs := ""
	if decl.ReturnType != "" && decl.ReturnType != "void" {
		attrs += "__attribute__((warn_unused_result)) "
	}
	if allReadOnly(decl.Params) {
		attrs += "__attribute__((pure)) "
	}

	if decl.ArrowIdx == -1 {
		// declaration with no return type annotation at all is not a
		// shape this pass recognizes; leave it for diagnostics already
		// raised upstream (P5 requires `-> Type` on every declaration
		// it validates as a function).
		if attrs != "" {
			u.At(decl.FnIdx).Text = attrs
		} else {
			u.At(decl.FnIdx).Elide()
		}
		return
	}

	// the return type is emitted as its own token, inserted after the
	// attrs-bearing fn token, rather than folded into that token's text,
	// so P20's exact-text type map can still reach it.
	if attrs != "" {
		u.At(decl.FnIdx).Text = attrs
	} else {
		u.At(decl.FnIdx).Elide()
	}
	u.InsertAt(decl.FnIdx+1, token.New(token.Identifier, decl.ReturnType, 0, 0))
	u.At(decl.ArrowIdx).Elide()
	u.At(decl.ReturnTypeIdx).Elide()
}

func allReadOnly(params []symbols.Param) bool {
	for _, p := range params {
		if p.IsMut {
			return false
		}
	}
	return true
}
