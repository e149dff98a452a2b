package passes

import (
	"github.com/dekarrin/czar/internal/diag"
	"github.com/dekarrin/czar/internal/symbols"
	"github.com/dekarrin/czar/internal/token"
)

// RewriteStructNames is P10 (spec.md §4.3.4). It replaces every
// identifier-position *use* of a recorded struct base name with its
// typedef name, skipping the tag immediately after `struct` or
// `typedef struct` (P7 already spelled those out correctly and they must
// not be doubled to `Name_t_t`).
func RewriteStructNames(u *token.Unit, tabs *symbols.Tables, rep *diag.Reporter) {
	for i := 0; i < u.Len(); i++ {
		t := u.At(i)
		if t.Elided() || t.Kind != token.Identifier {
			continue
		}
		typedef, known := tabs.Structs.Typedef(t.Text)
		if !known {
			continue
		}
		prev := u.PrevSignificant(i - 1)
		if prev != -1 {
			pt := u.At(prev)
			if pt.Text == "struct" {
				continue
			}
			if pt.Text == "typedef" {
				continue
			}
		}
		t.Text = typedef
	}
}

// AutoDeref is P11 (spec.md §4.3.4). It rewrites `.` to `->` whenever the
// left operand is known to be a pointer: either `self` (always a pointer
// receiver, injected by P9) or a variable declared with a trailing `*`.
// Method-call arrows were already resolved to `->`/value form by P9, so
// this pass only needs to handle plain field access left over in the
// tree.
func AutoDeref(u *token.Unit, tabs *symbols.Tables, rep *diag.Reporter) {
	pointerVars := map[string]bool{"self": true}
	for i := 0; i < u.Len(); i++ {
		t := u.At(i)
		if t.Elided() {
			continue
		}
		if t.Kind == token.Identifier && isTypeToken(t.Text) {
			j := u.NextSignificant(i + 1)
			for j != -1 && u.At(j).Text == "*" {
				j = u.NextSignificant(j + 1)
				// a declared pointer; record every name reachable before
				// the next declarator boundary
			}
			if j != -1 && u.At(j).Kind == token.Identifier {
				// look back to see if there was at least one '*' between
				// the type and this identifier
				k := u.NextSignificant(i + 1)
				starSeen := false
				for k != -1 && k < j {
					if u.At(k).Text == "*" {
						starSeen = true
					}
					k = u.NextSignificant(k + 1)
				}
				if starSeen {
					pointerVars[u.At(j).Text] = true
				}
			}
		}
		if t.Kind != token.Identifier || !pointerVars[t.Text] {
			continue
		}
		dotIdx := u.NextSignificant(i + 1)
		if dotIdx == -1 || u.At(dotIdx).Text != "." {
			continue
		}
		u.At(dotIdx).Text = "->"
	}
}
