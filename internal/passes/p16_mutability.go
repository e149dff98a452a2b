package passes

import (
	"github.com/dekarrin/czar/internal/diag"
	"github.com/dekarrin/czar/internal/symbols"
	"github.com/dekarrin/czar/internal/token"
)

// TransformMutability is P16 (spec.md §4.3.8). CZar's model: everything is
// immutable by default, `mut` opts in.
//   - Any use of the C keyword `const` is rejected outright.
//   - A type token preceded by `mut` is mutable; `mut` and its trailing
//     whitespace are elided.
//   - A type token not marked mutable gets `const` prepended. For a
//     pointer declaration, both the pointee and the pointer itself
//     become const (`const Type * const p`).
//   - `mut` on a non-pointer function parameter is an error.
func TransformMutability(u *token.Unit, tabs *symbols.Tables, rep *diag.Reporter) {
	kinds := computeBlockKinds(u)
	parenDepth := make([]int, u.Len())
	depth := 0
	for i := 0; i < u.Len(); i++ {
		t := u.At(i)
		parenDepth[i] = depth
		if t.Elided() {
			continue
		}
		if t.Text == "(" {
			depth++
		} else if t.Text == ")" {
			depth--
		}
	}

	// process in descending order so earlier insertions never invalidate
	// indices this pass has already computed (spec.md §5).
	var sites []int
	for i := 0; i < u.Len(); i++ {
		t := u.At(i)
		if t.Elided() {
			continue
		}
		if t.Kind == token.Keyword && t.Text == "const" {
			rep.Error("const-forbidden", funcName(u, i), t.Line,
				"everything is const by default; use 'mut' to opt into mutability")
			continue
		}
		if isDeclarationTypeToken(u, i) {
			sites = append(sites, i)
		}
	}

	for si := len(sites) - 1; si >= 0; si-- {
		typeIdx := sites[si]
		applyMutability(u, typeIdx, kinds, parenDepth, rep)
	}
}

// isDeclarationTypeToken reports whether i is the type token of a
// `[mut] Type [*...] identifier` declaration, recognized the same way P2
// recognizes one: a type-shaped token preceded by a declaration boundary
// (`{`, `;`, `}`, `(`, `,`, `->`) or by `mut`.
func isDeclarationTypeToken(u *token.Unit, i int) bool {
	t := u.At(i)
	if t.Kind != token.Identifier && t.Kind != token.Keyword {
		return false
	}
	if !isTypeToken(t.Text) || t.Text == "mut" {
		return false
	}
	prev := u.PrevSignificant(i - 1)
	if prev == -1 {
		return true
	}
	switch u.At(prev).Text {
	case "{", ";", "}", "(", ",", "->", "mut":
		if u.At(prev).Text == "(" && isForeachRangeHeader(u, prev, i) {
			return false
		}
		return true
	default:
		return false
	}
}

// isForeachRangeHeader reports whether openParen/typeIdx is the head of a
// `for (Type v : start..end)` foreach range, which P18 still needs to see
// as a bare type token to recognize; P16 must leave it unconst-ified here
// and let P18's own mutability rewrite (`mut T v = ...`) stand in its place.
func isForeachRangeHeader(u *token.Unit, openParen, typeIdx int) bool {
	forIdx := u.PrevSignificant(openParen - 1)
	if forIdx == -1 || u.At(forIdx).Kind != token.Keyword || u.At(forIdx).Text != "for" {
		return false
	}
	varIdx := u.NextSignificant(typeIdx + 1)
	if varIdx == -1 || u.At(varIdx).Kind != token.Identifier {
		return false
	}
	colonIdx := u.NextSignificant(varIdx + 1)
	return colonIdx != -1 && u.At(colonIdx).Text == ":"
}

func applyMutability(u *token.Unit, typeIdx int, kinds []blockKind, parenDepth []int, rep *diag.Reporter) {
	typeTok := u.At(typeIdx)

	mutIdx := -1
	prev := u.PrevSignificant(typeIdx - 1)
	if prev != -1 && u.At(prev).Text == "mut" {
		mutIdx = prev
	}
	isMut := mutIdx != -1

	starEnd := typeIdx
	j := u.NextSignificant(typeIdx + 1)
	isPointer := false
	for j != -1 && u.At(j).Text == "*" {
		isPointer = true
		starEnd = j
		j = u.NextSignificant(j + 1)
	}

	if isMut && !isPointer && parenDepth[typeIdx] == 1 && isFunctionParamList(u, typeIdx) {
		rep.Error("mut-non-pointer-parameter", funcName(u, typeIdx), typeTok.Line,
			"'mut' on a non-pointer parameter is forbidden; mutation must be observed through a pointer receiver")
	}

	if isMut {
		// elide `mut` and the whitespace between it and the type token.
		for k := mutIdx; k < typeIdx; k++ {
			u.At(k).Elide()
		}
		return
	}

	// insert "const" as its own token ahead of the type token rather than
	// folding it into the type token's text, so P20's exact-text type map
	// still sees a bare type identifier.
	if isPointer {
		u.InsertAt(starEnd+1, token.New(token.Keyword, " const", 0, 0))
	}
	u.InsertAt(typeIdx, token.New(token.Keyword, "const ", 0, 0))
}

// isFunctionParamList reports whether the innermost paren enclosing
// typeIdx belongs to a function definition's parameter list: the paren is
// not owned by a control-flow keyword, and its matching close paren is
// immediately followed by `{`.
func isFunctionParamList(u *token.Unit, typeIdx int) bool {
	depth := 0
	openParen := -1
	for i := typeIdx; i >= 0; i-- {
		t := u.At(i)
		if t.Elided() {
			continue
		}
		switch t.Text {
		case ")":
			depth++
		case "(":
			if depth == 0 {
				openParen = i
			} else {
				depth--
			}
		}
		if openParen != -1 {
			break
		}
	}
	if openParen == -1 {
		return false
	}
	prev := u.PrevSignificant(openParen - 1)
	if prev != -1 {
		switch u.At(prev).Text {
		case "if", "while", "for", "switch":
			return false
		}
	}
	closeParen := matchDelim(u, openParen)
	if closeParen == -1 {
		return false
	}
	after := u.NextSignificant(closeParen + 1)
	return after != -1 && u.At(after).Text == "{"
}
