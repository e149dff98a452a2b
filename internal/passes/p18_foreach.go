package passes

import (
	"fmt"
	"strings"

	"github.com/dekarrin/czar/internal/diag"
	"github.com/dekarrin/czar/internal/symbols"
	"github.com/dekarrin/czar/internal/token"
)

// TransformForeach is P18 (spec.md §4.3.10). `for (T v : start..end) { ... }`
// becomes `for (mut T v = start; v <= end; v++) { ... }`. The lexer may
// hand the range back as three tokens (`0`, `.`, `.9`, since a number
// token greedily consumes a leading `.`) or as two (`0`, `..`, `9`); this
// pass recognizes both encodings.
func TransformForeach(u *token.Unit, tabs *symbols.Tables, rep *diag.Reporter) {
	for i := 0; i < u.Len(); i++ {
		t := u.At(i)
		if t.Elided() || t.Kind != token.Keyword || t.Text != "for" {
			continue
		}
		fr := scanForeach(u, i)
		if fr == nil {
			continue
		}

		generated := fmt.Sprintf("mut %s %s = %s; %s <= %s; %s++",
			fr.typeText, fr.varText, fr.startText, fr.varText, fr.endText, fr.varText)

		u.At(fr.typeIdx).Text = generated
		for k := fr.typeIdx + 1; k < fr.closeParen; k++ {
			u.At(k).Elide()
		}
	}
}

type foreachSpec struct {
	typeIdx    int
	closeParen int
	typeText   string
	varText    string
	startText  string
	endText    string
}

func scanForeach(u *token.Unit, forIdx int) *foreachSpec {
	openParen := u.NextSignificant(forIdx + 1)
	if openParen == -1 || u.At(openParen).Text != "(" {
		return nil
	}
	closeParen := matchDelim(u, openParen)
	if closeParen == -1 {
		return nil
	}

	typeIdx := u.NextSignificant(openParen + 1)
	if typeIdx == -1 || typeIdx >= closeParen || !isTypeToken(u.At(typeIdx).Text) {
		return nil
	}
	varIdx := u.NextSignificant(typeIdx + 1)
	if varIdx == -1 || varIdx >= closeParen || u.At(varIdx).Kind != token.Identifier {
		return nil
	}
	colonIdx := u.NextSignificant(varIdx + 1)
	if colonIdx == -1 || colonIdx >= closeParen || u.At(colonIdx).Text != ":" {
		return nil
	}
	startIdx := u.NextSignificant(colonIdx + 1)
	if startIdx == -1 || startIdx >= closeParen {
		return nil
	}

	sepIdx := u.NextSignificant(startIdx + 1)
	if sepIdx == -1 || sepIdx >= closeParen {
		return nil
	}

	var endText string
	var afterEnd int
	switch u.At(sepIdx).Text {
	case "..":
		endIdx := u.NextSignificant(sepIdx + 1)
		if endIdx == -1 || endIdx >= closeParen {
			return nil
		}
		endText = u.At(endIdx).Text
		afterEnd = endIdx
	case ".":
		endIdx := u.NextSignificant(sepIdx + 1)
		if endIdx == -1 || endIdx >= closeParen {
			return nil
		}
		raw := u.At(endIdx).Text
		endText = strings.TrimPrefix(raw, ".")
		afterEnd = endIdx
	default:
		return nil
	}

	if u.NextSignificant(afterEnd+1) != closeParen {
		return nil
	}

	return &foreachSpec{
		typeIdx:    typeIdx,
		closeParen: closeParen,
		typeText:   u.At(typeIdx).Text,
		varText:    u.At(varIdx).Text,
		startText:  u.At(startIdx).Text,
		endText:    endText,
	}
}
