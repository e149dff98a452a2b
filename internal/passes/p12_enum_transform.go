package passes

import (
	"github.com/dekarrin/czar/internal/diag"
	"github.com/dekarrin/czar/internal/symbols"
	"github.com/dekarrin/czar/internal/token"
)

// TransformEnums is P12 (spec.md §4.3.5). For every enum-typed `switch`:
//   - strips scoping on case labels, `case EnumName.MEMBER:` -> `case MEMBER:`
//   - rewrites a case-body `continue` (P4's documented fallthrough marker)
//     to `__attribute__((fallthrough));`
//   - inserts `default: /* unreachable */` into any switch P4 validated as
//     exhaustive-without-default
//
// P4 has already guaranteed, by the time this runs, that every switch
// reaching here either has a default or covers every member; P12 does not
// re-validate that guarantee.
func TransformEnums(u *token.Unit, tabs *symbols.Tables, rep *diag.Reporter) {
	varEnumType := map[string]string{}
	memberToEnum := map[string]string{}
	for name, e := range allEnums(tabs) {
		for _, m := range e.Members {
			memberToEnum[m.Name] = name
		}
	}

	for i := 0; i < u.Len(); i++ {
		t := u.At(i)
		if t.Elided() {
			continue
		}
		if t.Kind == token.Identifier {
			if _, known := tabs.Enums.Lookup(t.Text); known {
				nxt := u.NextSignificant(i + 1)
				if nxt != -1 && u.At(nxt).Kind == token.Identifier {
					varEnumType[u.At(nxt).Text] = t.Text
				}
			}
		}
		if t.Kind == token.Keyword && t.Text == "switch" {
			transformSwitch(u, i, varEnumType, memberToEnum)
		}
	}
}

// allEnums returns every recorded enum as a name->Enum map.
func allEnums(tabs *symbols.Tables) map[string]symbols.Enum {
	out := map[string]symbols.Enum{}
	for _, name := range tabs.Enums.Names() {
		if e, ok := tabs.Enums.Lookup(name); ok {
			out[name] = e
		}
	}
	return out
}

func transformSwitch(u *token.Unit, switchIdx int, varEnumType, memberToEnum map[string]string) {
	selIdx := u.NextSignificant(switchIdx + 1)
	if selIdx == -1 {
		return
	}
	selector := u.At(selIdx)
	openBrace := selIdx
	if selector.Text == "(" {
		closeParen := matchDelim(u, selIdx)
		if closeParen == -1 {
			return
		}
		inner := u.NextSignificant(selIdx + 1)
		if inner != -1 {
			selector = u.At(inner)
		}
		openBrace = u.NextSignificant(closeParen + 1)
	} else {
		openBrace = u.NextSignificant(selIdx + 1)
	}
	if openBrace == -1 || u.At(openBrace).Text != "{" {
		return
	}
	closeBrace := matchDelim(u, openBrace)
	if closeBrace == -1 {
		return
	}

	_, isEnum := varEnumType[selector.Text]
	hasDefault := false

	i := u.NextSignificant(openBrace + 1)
	for i != -1 && i < closeBrace {
		tk := u.At(i)
		if tk.Kind == token.Keyword && tk.Text == "case" {
			if !isEnum {
				i = u.NextSignificant(i + 1)
				continue
			}
			labelIdx := u.NextSignificant(i + 1)
			if labelIdx == -1 {
				break
			}
			if _, memberOf := memberToEnum[u.At(labelIdx).Text]; !memberOf {
				isEnum = false
			}
			dotIdx := u.NextSignificant(labelIdx + 1)
			if dotIdx != -1 && u.At(dotIdx).Text == "." {
				memberIdx := u.NextSignificant(dotIdx + 1)
				if memberIdx != -1 {
					// strip `EnumName.` scoping: elide the enum-name token
					// and the dot, leaving only the bare member.
					u.At(labelIdx).Elide()
					u.At(dotIdx).Elide()
				}
			}
			colonIdx := findColon(u, labelIdx, closeBrace)
			if colonIdx == -1 {
				break
			}
			bodyEnd := findNextCaseOrDefaultOrEnd(u, colonIdx+1, closeBrace)
			rewriteFallthrough(u, colonIdx+1, bodyEnd)
			i = u.NextSignificant(bodyEnd)
			continue
		}
		if tk.Kind == token.Keyword && tk.Text == "default" {
			hasDefault = true
			colonIdx := findColon(u, i, closeBrace)
			if colonIdx == -1 {
				break
			}
			bodyEnd := findNextCaseOrDefaultOrEnd(u, colonIdx+1, closeBrace)
			rewriteFallthrough(u, colonIdx+1, bodyEnd)
			i = u.NextSignificant(bodyEnd)
			continue
		}
		i = u.NextSignificant(i + 1)
	}

	if isEnum && !hasDefault {
		u.InsertAt(closeBrace,
			token.New(token.Keyword, "default", 0, 0),
			token.New(token.Punctuation, ":", 0, 0),
			token.New(token.Comment, " /* unreachable */ ", 0, 0),
			token.New(token.Keyword, "break", 0, 0),
			token.New(token.Punctuation, ";", 0, 0),
		)
	}
}

func rewriteFallthrough(u *token.Unit, bodyStart, bodyEnd int) {
	for i := bodyStart; i < bodyEnd; i++ {
		t := u.At(i)
		if t.Elided() || t.Kind != token.Keyword || t.Text != "continue" {
			continue
		}
		t.Kind = token.Identifier
		t.Text = "__attribute__((fallthrough))"
	}
}
