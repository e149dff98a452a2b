package passes

import (
	"fmt"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/dekarrin/czar/internal/diag"
	"github.com/dekarrin/czar/internal/symbols"
	"github.com/dekarrin/czar/internal/token"
)

var upperCaser = cases.Upper(language.Und)

// ValidateEnumsAndSwitch is P4 (spec.md §4.2.3). It scans every `enum Name
// { ... }` declaration into tabs.Enums, then validates every `switch`
// whose selector is known to be enum-typed: exhaustiveness (every member
// present as a case, or a default), and that every case body ends with an
// explicit control-flow terminator.
func ValidateEnumsAndSwitch(u *token.Unit, tabs *symbols.Tables, rep *diag.Reporter) {
	varEnumType := map[string]string{}
	memberToEnum := map[string]string{}

	for i := 0; i < u.Len(); i++ {
		t := u.At(i)
		if t.Elided() {
			continue
		}
		if t.Kind == token.Keyword && t.Text == "enum" {
			scanEnumDecl(u, i, tabs, rep, memberToEnum)
			continue
		}
		// record `<EnumName> <identifier>` declarations so later
		// switches on that identifier can be resolved to an enum type.
		if t.Kind == token.Identifier {
			if _, known := tabs.Enums.Lookup(t.Text); known {
				nxt := u.NextSignificant(i + 1)
				if nxt != -1 && u.At(nxt).Kind == token.Identifier {
					varEnumType[u.At(nxt).Text] = t.Text
				}
			}
		}
		if t.Kind == token.Keyword && t.Text == "switch" {
			validateSwitch(u, i, tabs, rep, varEnumType, memberToEnum)
		}
	}
}

func scanEnumDecl(u *token.Unit, enumIdx int, tabs *symbols.Tables, rep *diag.Reporter, memberToEnum map[string]string) {
	nameIdx := u.NextSignificant(enumIdx + 1)
	if nameIdx == -1 || u.At(nameIdx).Kind != token.Identifier {
		return
	}
	name := u.At(nameIdx).Text
	braceIdx := u.NextSignificant(nameIdx + 1)
	if braceIdx == -1 || u.At(braceIdx).Text != "{" {
		return
	}
	closeIdx := matchDelim(u, braceIdx)
	if closeIdx == -1 {
		return
	}

	var members []symbols.EnumMember
	i := u.NextSignificant(braceIdx + 1)
	for i != -1 && i < closeIdx {
		m := u.At(i)
		if m.Kind == token.Identifier {
			members = append(members, symbols.EnumMember{Name: m.Text, Line: m.Line})
			memberToEnum[m.Text] = name
			if m.Text != upperCaser.String(m.Text) {
				rep.Warn("enum-member-not-uppercase", "", m.Line,
					fmt.Sprintf("enum member '%s' should be ALL_UPPERCASE", m.Text), "")
			}
			// skip an optional explicit `= value`
			nxt := u.NextSignificant(i + 1)
			if nxt != -1 && u.At(nxt).Text == "=" {
				i = u.NextSignificant(nxt + 1)
				continue
			}
		}
		i = u.NextSignificant(i + 1)
	}
	tabs.Enums.Define(symbols.Enum{Name: name, Members: members})
}

func validateSwitch(u *token.Unit, switchIdx int, tabs *symbols.Tables, rep *diag.Reporter, varEnumType, memberToEnum map[string]string) {
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

	enumName, isEnum := varEnumType[selector.Text]
	if !isEnum {
		// fall back to inferring from the first case label's member name
		firstCase := findNextKeyword(u, openBrace+1, closeBrace, "case")
		if firstCase != -1 {
			labelIdx := u.NextSignificant(firstCase + 1)
			if labelIdx != -1 {
				label := u.At(labelIdx).Text
				if en, ok := memberToEnum[label]; ok {
					enumName, isEnum = en, true
				}
			}
		}
	}
	if !isEnum {
		return
	}
	enumDef, _ := tabs.Enums.Lookup(enumName)

	present := map[string]bool{}
	hasDefault := false

	// walk the case list, collecting labels and validating each body's
	// terminator.
	i := u.NextSignificant(openBrace + 1)
	for i != -1 && i < closeBrace {
		tk := u.At(i)
		if tk.Kind == token.Keyword && tk.Text == "case" {
			labelIdx := u.NextSignificant(i + 1)
			if labelIdx == -1 {
				break
			}
			label := u.At(labelIdx).Text
			// allow scoped `EnumName.MEMBER` (lowered later by P12)
			dotIdx := u.NextSignificant(labelIdx + 1)
			if dotIdx != -1 && u.At(dotIdx).Text == "." {
				memberIdx := u.NextSignificant(dotIdx + 1)
				if memberIdx != -1 {
					label = u.At(memberIdx).Text
				}
			}
			present[label] = true
			colonIdx := findColon(u, labelIdx, closeBrace)
			if colonIdx == -1 {
				break
			}
			bodyEnd := findNextCaseOrDefaultOrEnd(u, colonIdx+1, closeBrace)
			checkTerminator(u, colonIdx+1, bodyEnd, funcName(u, switchIdx), rep)
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
			checkTerminator(u, colonIdx+1, bodyEnd, funcName(u, switchIdx), rep)
			i = u.NextSignificant(bodyEnd)
			continue
		}
		i = u.NextSignificant(i + 1)
	}

	if !hasDefault {
		for _, m := range enumDef.Members {
			if !present[m.Name] {
				rep.Error("enum-switch-missing-default", funcName(u, switchIdx), selector.Line,
					fmt.Sprintf("Non-exhaustive switch on enum '%s': missing case for '%s'", enumName, m.Name))
			}
		}
	}
}

func findNextKeyword(u *token.Unit, from, end int, kw string) int {
	i := u.NextSignificant(from)
	for i != -1 && i < end {
		if u.At(i).Kind == token.Keyword && u.At(i).Text == kw {
			return i
		}
		i = u.NextSignificant(i + 1)
	}
	return -1
}

func findColon(u *token.Unit, from, end int) int {
	i := u.NextSignificant(from)
	for i != -1 && i < end {
		if u.At(i).Text == ":" {
			return i
		}
		i = u.NextSignificant(i + 1)
	}
	return -1
}

func findNextCaseOrDefaultOrEnd(u *token.Unit, from, end int) int {
	i := u.NextSignificant(from)
	for i != -1 && i < end {
		tk := u.At(i)
		if tk.Kind == token.Keyword && (tk.Text == "case" || tk.Text == "default") {
			return i
		}
		i = u.NextSignificant(i + 1)
	}
	return end
}

// checkTerminator implements the "every case body must end with an
// explicit control-flow terminator" rule of spec.md §4.2.3.
func checkTerminator(u *token.Unit, bodyStart, bodyEnd int, fn string, rep *diag.Reporter) {
	depth := 0
	atStmtStart := true
	lastKeyword := ""
	lastLine := 0
	for i := bodyStart; i < bodyEnd; i++ {
		t := u.At(i)
		if t.Elided() || t.Kind == token.Whitespace || t.Kind == token.Comment {
			continue
		}
		if depth == 0 && atStmtStart {
			lastKeyword = t.Text
			lastLine = t.Line
			atStmtStart = false
		}
		switch t.Text {
		case "{", "(", "[":
			depth++
		case "}", ")", "]":
			depth--
		case ";":
			if depth == 0 {
				atStmtStart = true
			}
		}
	}
	switch lastKeyword {
	case "break", "continue", "return", "goto":
		return
	case "":
		return // empty case body, e.g. fallthrough-only case with no statements
	default:
		rep.Error("case-missing-terminator", fn, lastLine,
			"case body must end with break, continue, return, or goto")
	}
}
