package passes

import (
	"fmt"
	"regexp"

	"github.com/dekarrin/czar/internal/diag"
	"github.com/dekarrin/czar/internal/symbols"
	"github.com/dekarrin/czar/internal/token"
)

// TransformDefer is P17 (spec.md §4.3.9).
//
// The declaration form, `T v = init() #defer { code };`, generates a
// unique `static void _cz_cleanup_v_n(void **v) { ... }` cleanup function
// (with bare `v` references in its body rewritten to `(*v)`), prepends
// `__attribute__((cleanup(_cz_cleanup_v_n)))` to the declaration's type
// token, and collapses the `#defer { ... }` span to nothing (the
// statement's existing trailing `;` is left untouched).
//
// The standalone form, a bare `#defer { code };` not attached to any
// declaration, is unsound to lower portably: GCC's nested-function
// extension is the only standard-C-adjacent way to capture the enclosing
// scope, and it does not exist under Clang. Rather than emit
// compiler-conditional code that silently fails to build everywhere, this
// pass rejects it outright and tells the author to attach the defer to a
// declaration instead.
func TransformDefer(u *token.Unit, tabs *symbols.Tables, rep *diag.Reporter) {
	for i := 0; i < u.Len(); i++ {
		t := u.At(i)
		if t.Elided() || t.Kind != token.Preprocessor || t.Text != "#defer" {
			continue
		}

		braceIdx := u.NextSignificant(i + 1)
		if braceIdx == -1 || u.At(braceIdx).Text != "{" {
			rep.Internal("", t.Line, "#defer must be followed by a brace-delimited block")
			continue
		}
		closeBrace := matchDelim(u, braceIdx)
		if closeBrace == -1 {
			rep.Internal("", t.Line, "unterminated #defer block")
			continue
		}

		decl := findDeferredDeclaration(u, i)
		if decl == nil {
			rep.Error("standalone-defer-unsupported", funcName(u, i), t.Line,
				"standalone '#defer' has no portable lowering across compilers; attach it to a declaration instead, e.g. 'T v = init() #defer { ... };'")
			continue
		}

		n := tabs.DeferCounter.Next()
		cleanupName := fmt.Sprintf("_cz_cleanup_%s_%d", decl.varName, n)
		body := rewriteBareRef(u.Text(braceIdx+1, closeBrace), decl.varName)

		tabs.Cleanups.Append(fmt.Sprintf("static void %s(void **%s) { %s }", cleanupName, decl.varName, body))

		typeTok := u.At(decl.typeIdx)
		typeTok.Text = fmt.Sprintf("__attribute__((cleanup(%s))) %s", cleanupName, typeTok.Text)

		for k := i; k <= closeBrace; k++ {
			u.At(k).Elide()
		}
	}
}

type deferredDecl struct {
	typeIdx int
	varName string
}

// findDeferredDeclaration looks backward from a `#defer` token for the
// enclosing statement's `Type v = init()` shape, returning nil if the
// defer is standalone (not attached to a declaration).
func findDeferredDeclaration(u *token.Unit, deferIdx int) *deferredDecl {
	stmtStart := -1
	depth := 0
	for k := deferIdx - 1; k >= 0; k-- {
		t := u.At(k)
		if t.Elided() {
			continue
		}
		switch t.Text {
		case ")", "]", "}":
			depth++
		case "(", "[", "{":
			depth--
		}
		if depth <= 0 && (t.Text == ";" || t.Text == "{" || t.Text == "}") {
			stmtStart = u.NextSignificant(k + 1)
			break
		}
	}
	if stmtStart == -1 {
		stmtStart = u.NextSignificant(0)
	}
	if stmtStart == -1 || stmtStart >= deferIdx {
		return nil
	}

	typeIdx := stmtStart
	if !isTypeToken(u.At(typeIdx).Text) {
		return nil
	}
	j := u.NextSignificant(typeIdx + 1)
	for j != -1 && j < deferIdx && u.At(j).Text == "*" {
		j = u.NextSignificant(j + 1)
	}
	if j == -1 || j >= deferIdx || u.At(j).Kind != token.Identifier {
		return nil
	}
	varIdx := j
	eqIdx := u.NextSignificant(varIdx + 1)
	if eqIdx == -1 || eqIdx >= deferIdx || u.At(eqIdx).Text != "=" {
		return nil
	}
	return &deferredDecl{typeIdx: typeIdx, varName: u.At(varIdx).Text}
}

// rewriteBareRef replaces whole-word occurrences of name in src with
// (*name), matching the defer body-rewrite rule of spec.md §4.3.9.
func rewriteBareRef(src, name string) string {
	re := regexp.MustCompile(`\b` + regexp.QuoteMeta(name) + `\b`)
	return re.ReplaceAllString(src, "(*"+name+")")
}
