package passes

import (
	"github.com/dekarrin/czar/internal/diag"
	"github.com/dekarrin/czar/internal/symbols"
	"github.com/dekarrin/czar/internal/token"
)

// TransformMethods is P9 (spec.md §4.3.3). A declaration `fn Type.name(params)
// -> R { ... }` becomes `R Type_name(const Type_t * self, params) { ... }`;
// the instance form `fn Type:name(params) -> R` injects a mutable
// `Type_t * self` instead. Call sites `obj.name(args)` / `obj:name(args)`
// are rewritten to `Type_name(&obj, args)` / `Type_name(obj, args)`.
//
// This runs before P10 (struct-name replacement) so that the receiver
// type token inserted here, `Type_t`, survives untouched: P10 only
// rewrites *uses* of the base name, and by the time it runs this pass has
// already spelled the receiver out in its typedef form.
func TransformMethods(u *token.Unit, tabs *symbols.Tables, rep *diag.Reporter) {
	varType := map[string]string{} // variable name -> declared struct type, single forward scan

	for i := 0; i < u.Len(); i++ {
		t := u.At(i)
		if t.Elided() {
			continue
		}
		if t.Kind == token.Keyword && t.Text == "fn" {
			decl := scanFnDecl(u, i)
			if decl == nil {
				continue
			}
			if decl.IsMethod {
				if decl.ReceiverType != "" {
					varType["self"] = decl.ReceiverType
				}
				tabs.Functions.Define(symbols.Signature{
					FuncName: decl.ReceiverType + "_" + decl.Name,
					Params:   decl.Params,
				})
				transformMethodDecl(u, decl)
			} else if decl.Name != "main" {
				for _, p := range decl.Params {
					if isCapitalized(p.Type) {
						varType[p.Name] = p.Type
					}
				}
			}
			continue
		}
		// record `Type ident` declarations so call-site rewriting below can
		// resolve the receiver's struct type.
		if t.Kind == token.Identifier && isCapitalized(t.Text) {
			nxt := u.NextSignificant(i + 1)
			for nxt != -1 && u.At(nxt).Text == "*" {
				nxt = u.NextSignificant(nxt + 1)
			}
			if nxt != -1 && u.At(nxt).Kind == token.Identifier {
				varType[u.At(nxt).Text] = t.Text
			}
		}
	}

	rewriteMethodCalls(u, varType, rep)
}

func transformMethodDecl(u *token.Unit, decl *fnDecl) {
	symName := decl.ReceiverType + "_" + decl.Name
	receiverType := decl.ReceiverType + "_t"

	selfQual := "const "
	if decl.Mutating {
		selfQual = ""
	}
	selfParam := selfQual + receiverType + " * self"
	if len(decl.Params) > 0 {
		selfParam += ", "
	}
	u.InsertAt(decl.OpenParen+1, token.New(token.Identifier, selfParam, 0, 0))

	retType := decl.ReturnType
	if retType == "" {
		retType = "void"
	}
	u.At(decl.FnIdx).Text = retType
	u.At(decl.NameIdx).Text = symName

	// elide the `Type` token and its `.`/`:` separator preceding the
	// method name; both are folded into the new symbol name above.
	recvIdx := u.PrevSignificant(decl.NameIdx - 1)
	if recvIdx != -1 {
		sepIdx := u.PrevSignificant(recvIdx - 1)
		u.At(recvIdx).Elide()
		if sepIdx != -1 {
			u.At(sepIdx).Elide()
		}
	}

	if decl.ArrowIdx != -1 {
		u.At(decl.ArrowIdx).Elide()
		u.At(decl.ReturnTypeIdx).Elide()
	}
}

// rewriteMethodCalls finds every `obj.name(args)` / `obj:name(args)` call
// site and rewrites it to `Type_name(&obj, args)` / `Type_name(obj, args)`,
// resolving `obj`'s struct type from varType (populated by a single
// forward scan over declarations, including `self` inside the method
// currently being scanned).
func rewriteMethodCalls(u *token.Unit, varType map[string]string, rep *diag.Reporter) {
	for i := 0; i < u.Len(); i++ {
		t := u.At(i)
		if t.Elided() || t.Kind != token.Identifier {
			continue
		}
		sepIdx := u.NextSignificant(i + 1)
		if sepIdx == -1 {
			continue
		}
		sep := u.At(sepIdx).Text
		if sep != "." && sep != ":" {
			continue
		}
		nameIdx := u.NextSignificant(sepIdx + 1)
		if nameIdx == -1 || u.At(nameIdx).Kind != token.Identifier {
			continue
		}
		parenIdx := u.NextSignificant(nameIdx + 1)
		if parenIdx == -1 || u.At(parenIdx).Text != "(" {
			continue
		}

		recvType, known := varType[t.Text]
		if !known {
			continue
		}

		methodName := u.At(nameIdx).Text
		callee := recvType + "_" + methodName
		objName := t.Text
		closeParen := matchDelim(u, parenIdx)
		hasArgs := closeParen != -1 && u.NextSignificant(parenIdx+1) != -1 && u.NextSignificant(parenIdx+1) < closeParen

		// rename the object token in place to the resolved callee, elide
		// the `.`/`:` and method-name tokens that followed it, then splice
		// the original object back in as the first call argument.
		t.Text = callee
		u.At(sepIdx).Elide()
		u.At(nameIdx).Elide()

		firstArg := objName
		if sep == "." {
			firstArg = "&" + objName
		}
		insertion := []*token.Token{token.New(token.Identifier, firstArg, 0, 0)}
		if hasArgs {
			insertion = append(insertion, token.New(token.Punctuation, ", ", 0, 0))
		}
		u.InsertAt(parenIdx+1, insertion...)
	}
}
