package passes

import (
	"github.com/dekarrin/czar/internal/diag"
	"github.com/dekarrin/czar/internal/symbols"
	"github.com/dekarrin/czar/internal/token"
)

var integerReturnTypes = map[string]bool{
	"i8": true, "i16": true, "i32": true, "i64": true,
	"u8": true, "u16": true, "u32": true, "u64": true,
	"isize": true, "usize": true,
}

// ValidateFunctions is P5 (spec.md §4.2.4).
func ValidateFunctions(u *token.Unit, tabs *symbols.Tables, rep *diag.Reporter) {
	for i := 0; i < u.Len(); i++ {
		t := u.At(i)
		if t.Elided() || t.Kind != token.Keyword || t.Text != "fn" {
			continue
		}
		decl := scanFnDecl(u, i)
		if decl == nil {
			continue
		}

		// main() is conventionally argument-less and is the one name P6
		// rewrites straight to `int main(void)`; every other function
		// must spell an empty parameter list out as `(void)` itself.
		if decl.ParenEmpty && decl.Name != "main" {
			rep.Error("empty-parameter-list", decl.Name, t.Line,
				"empty '()' parameter list is forbidden; write "+decl.Name+"(void) explicitly")
		}

		if decl.Name == "main" && decl.ReturnType != "" && !integerReturnTypes[decl.ReturnType] && decl.ReturnType != "int" {
			rep.Error("non-integer-main-return", decl.Name, t.Line,
				"main() must return an integer type, got '"+decl.ReturnType+"'")
		}

		for pi := 1; pi < len(decl.Params); pi++ {
			if decl.Params[pi].Type == decl.Params[pi-1].Type {
				rep.Warn("ambiguous-adjacent-parameters", decl.Name, t.Line,
					"adjacent parameters '"+decl.Params[pi-1].Name+"' and '"+decl.Params[pi].Name+
						"' share type '"+decl.Params[pi].Type+"'; call sites should label at least one with name=value",
					"use named arguments at call sites to disambiguate")
			}
		}
	}
}

type fnDecl struct {
	Name         string
	Params       []symbols.Param
	ParenEmpty   bool
	ReturnType   string
	FnIdx        int
	NameIdx      int
	OpenParen    int
	CloseParen   int
	ArrowIdx     int
	ReturnTypeIdx int
	// IsMethod is true for `fn Type.name(...)` / `fn Type:name(...)`;
	// ReceiverType and Mutating describe the receiver in that case.
	IsMethod     bool
	ReceiverType string
	Mutating     bool // true for `Type:name` (P9's instance/mutable form)
}

// scanFnDecl parses the shape `fn [Type.|Type:]name(params) [-> Type]` at
// the `fn` keyword index. It does not require a body to follow (forward
// declarations are tolerated) and returns nil if the shape does not
// resemble a function declaration at all.
func scanFnDecl(u *token.Unit, fnIdx int) *fnDecl {
	nameStart := u.NextSignificant(fnIdx + 1)
	if nameStart == -1 {
		return nil
	}
	// consume `Type.name` / `Type:name` / plain `name`
	nameIdx := nameStart
	isMethod := false
	receiver := ""
	mutating := false
	j := u.NextSignificant(nameStart + 1)
	if j != -1 && (u.At(j).Text == "." || u.At(j).Text == ":") {
		idIdx := u.NextSignificant(j + 1)
		if idIdx != -1 {
			isMethod = true
			receiver = u.At(nameStart).Text
			mutating = u.At(j).Text == ":"
			nameIdx = idIdx
			j = u.NextSignificant(idIdx + 1)
		}
	}
	if j == -1 || u.At(j).Text != "(" {
		return nil
	}
	openParen := j
	closeParen := matchDelim(u, openParen)
	if closeParen == -1 {
		return nil
	}

	d := &fnDecl{
		Name:         u.At(nameIdx).Text,
		FnIdx:        fnIdx,
		NameIdx:      nameIdx,
		OpenParen:    openParen,
		CloseParen:   closeParen,
		IsMethod:     isMethod,
		ReceiverType: receiver,
		Mutating:     mutating,
		ArrowIdx:     -1,
	}

	firstInside := u.NextSignificant(openParen + 1)
	if firstInside == -1 || firstInside >= closeParen {
		d.ParenEmpty = true
	}

	if !d.ParenEmpty {
		d.Params = scanParamList(u, openParen, closeParen)
	}

	arrowIdx := u.NextSignificant(closeParen + 1)
	if arrowIdx != -1 && u.At(arrowIdx).Text == "->" {
		retIdx := u.NextSignificant(arrowIdx + 1)
		if retIdx != -1 {
			d.ReturnType = u.At(retIdx).Text
			d.ArrowIdx = arrowIdx
			d.ReturnTypeIdx = retIdx
		}
	}
	return d
}

// scanParamList walks `(ident type, ...)`-shaped parameter lists of the
// form `[mut] Type name`, returning the ordered (name, type) pairs. A
// lone `void` is treated as zero parameters.
func scanParamList(u *token.Unit, openParen, closeParen int) []symbols.Param {
	var params []symbols.Param
	i := u.NextSignificant(openParen + 1)
	for i != -1 && i < closeParen {
		isMut := false
		if u.At(i).Text == "mut" {
			isMut = true
			i = u.NextSignificant(i + 1)
			if i == -1 || i >= closeParen {
				break
			}
		}
		typeTok := u.At(i)
		if typeTok.Text == "void" {
			i = u.NextSignificant(i + 1)
			continue
		}
		for {
			nxt := u.NextSignificant(i + 1)
			if nxt != -1 && nxt < closeParen && u.At(nxt).Text == "*" {
				i = nxt
				continue
			}
			break
		}
		nameIdx := u.NextSignificant(i + 1)
		if nameIdx == -1 || nameIdx >= closeParen {
			break
		}
		if u.At(nameIdx).Kind == token.Identifier {
			params = append(params, symbols.Param{Name: u.At(nameIdx).Text, Type: typeTok.Text, IsMut: isMut})
		}
		// advance past the comma, if any
		commaIdx := u.NextSignificant(nameIdx + 1)
		if commaIdx == -1 || commaIdx >= closeParen {
			break
		}
		if u.At(commaIdx).Text == "," {
			i = u.NextSignificant(commaIdx + 1)
			continue
		}
		i = commaIdx
	}
	return params
}
