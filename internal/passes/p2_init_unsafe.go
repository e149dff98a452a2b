package passes

import (
	"fmt"

	"github.com/dekarrin/czar/internal/diag"
	"github.com/dekarrin/czar/internal/symbols"
	"github.com/dekarrin/czar/internal/token"
)

// blockKind tracks which kind of brace-delimited construct a token index
// is nested inside, used by several passes to scope their pattern
// matching (e.g. P2 only validates declarations inside function bodies,
// not struct field lists).
type blockKind int

const (
	blockNone blockKind = iota
	blockFunc
	blockStruct
	blockEnum
)

// computeBlockKinds returns, for every token index, the blockKind of the
// innermost enclosing `{ ... }` at that position.
func computeBlockKinds(u *token.Unit) []blockKind {
	kinds := make([]blockKind, u.Len())
	var stack []blockKind
	cur := func() blockKind {
		if len(stack) == 0 {
			return blockNone
		}
		return stack[len(stack)-1]
	}
	for i := 0; i < u.Len(); i++ {
		t := u.At(i)
		if t.Elided() {
			kinds[i] = cur()
			continue
		}
		switch t.Text {
		case "{":
			kind := detectOpeningKind(u, i, cur())
			kinds[i] = kind
			stack = append(stack, kind)
		case "}":
			kinds[i] = cur()
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		default:
			kinds[i] = cur()
		}
	}
	return kinds
}

func detectOpeningKind(u *token.Unit, brace int, parent blockKind) blockKind {
	pv1 := u.PrevSignificant(brace - 1)
	if pv1 == -1 {
		return blockFunc
	}
	p1 := u.At(pv1)
	if p1.Kind == token.Identifier || p1.Kind == token.Keyword {
		pv2 := u.PrevSignificant(pv1 - 1)
		if pv2 != -1 {
			switch u.At(pv2).Text {
			case "struct":
				return blockStruct
			case "enum":
				return blockEnum
			case "->":
				return blockFunc
			}
		}
	}
	if p1.Text == ")" {
		return blockFunc
	}
	if parent == blockNone {
		return blockFunc
	}
	return parent
}

// forbiddenRule describes one forbidden-API entry: whether use is a
// fatal error or only a warning, and the suggested safer alternative.
type forbiddenRule struct {
	Fatal bool
	Alt   string
}

// forbiddenAPI lists the call-position identifiers spec.md §4.2.1 names
// as forbidden.
var forbiddenAPI = map[string]forbiddenRule{
	"gets":          {Fatal: true, Alt: "fgets"},
	"tmpnam":        {Fatal: true, Alt: "mkstemp"},
	"mktemp":        {Fatal: true, Alt: "mkstemp"},
	"rand":          {Fatal: false, Alt: "a seeded PRNG with an explicit state, e.g. xoshiro256**"},
	"readdir_r":     {Fatal: false, Alt: "readdir (thread-local readdir is POSIX.1-2008 safe on glibc/musl)"},
	"gethostbyname": {Fatal: false, Alt: "getaddrinfo"},
}

// ValidateInitAndUnsafeAPI is P2 (spec.md §4.2.1).
func ValidateInitAndUnsafeAPI(u *token.Unit, tabs *symbols.Tables, rep *diag.Reporter) {
	kinds := computeBlockKinds(u)
	validateInitializers(u, kinds, rep)
	validateUnsafeCalls(u, tabs.Pragma.ForbidFatal, rep)
}

func validateInitializers(u *token.Unit, kinds []blockKind, rep *diag.Reporter) {
	parenDepth := 0
	for i := 0; i < u.Len(); i++ {
		t := u.At(i)
		if t.Elided() {
			continue
		}
		switch t.Text {
		case "(":
			parenDepth++
			continue
		case ")":
			parenDepth--
			continue
		}
		if kinds[i] != blockFunc || parenDepth != 0 {
			continue
		}

		start := i
		j := i
		if t.Kind == token.Keyword && t.Text == "mut" {
			j = u.NextSignificant(j + 1)
			if j == -1 {
				continue
			}
		} else if !isTypeToken(t.Text) || t.Kind == token.Operator {
			continue
		}
		typeTok := u.At(j)
		if !isTypeToken(typeTok.Text) {
			continue
		}

		prev := u.PrevSignificant(start - 1)
		if prev != -1 {
			pt := u.At(prev).Text
			if pt != "{" && pt != ";" && pt != "}" {
				continue
			}
		}

		k := u.NextSignificant(j + 1)
		for k != -1 && u.At(k).Text == "*" {
			k = u.NextSignificant(k + 1)
		}
		if k == -1 || u.At(k).Kind != token.Identifier {
			continue
		}
		identIdx := k
		afterIdent := u.NextSignificant(identIdx + 1)
		if afterIdent == -1 {
			continue
		}
		switch u.At(afterIdent).Text {
		case ";":
			rep.Error("variable-not-initialized", funcName(u, i), typeTok.Line,
				fmt.Sprintf("variable '%s' must be initialized", u.At(identIdx).Text))
		case "=":
			// initialized; nothing to report.
		default:
			// not a declaration shape we recognize (e.g. a bare
			// expression statement beginning with a type-shaped
			// identifier); leave it alone.
		}
	}
}

func validateUnsafeCalls(u *token.Unit, forbidFatal map[string]bool, rep *diag.Reporter) {
	for i := 0; i < u.Len(); i++ {
		t := u.At(i)
		if t.Elided() || t.Kind != token.Identifier {
			continue
		}
		rule, forbidden := forbiddenAPI[t.Text]
		if !forbidden {
			continue
		}
		nxt := u.NextSignificant(i + 1)
		if nxt == -1 || u.At(nxt).Text != "(" {
			continue
		}
		if rule.Fatal || forbidFatal[t.Text] {
			rep.Error("forbidden-api", funcName(u, i), t.Line,
				fmt.Sprintf("use of '%s' is forbidden; use '%s' instead", t.Text, rule.Alt))
		} else {
			rep.Warn("forbidden-api", funcName(u, i), t.Line,
				fmt.Sprintf("'%s' is unsafe", t.Text),
				fmt.Sprintf("consider %s", rule.Alt))
		}
	}
}
