package passes

import "github.com/dekarrin/czar/internal/token"

// matchDelim returns the index just past the delimiter matching the one
// at open (which must hold one of '(', '{', or '['), scanning
// left-to-right and counting nested occurrences of the same delimiter
// pair. It skips elided tokens like every other pass-level scan. It
// returns -1 if no match is found before the tree ends.
func matchDelim(u *token.Unit, open int) int {
	openTok := u.At(open)
	if openTok == nil {
		return -1
	}
	var closeText string
	switch openTok.Text {
	case "(":
		closeText = ")"
	case "{":
		closeText = "}"
	case "[":
		closeText = "]"
	default:
		return -1
	}
	depth := 0
	for i := open; i < u.Len(); i++ {
		t := u.At(i)
		if t.Elided() {
			continue
		}
		if t.Text == openTok.Text {
			depth++
		} else if t.Text == closeText {
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// funcName returns the enclosing `fn <name>` identifier for a token at
// index i, scanning backward for the nearest preceding `fn` keyword. It
// returns "" if i is not inside any function (top-level declarations).
func funcName(u *token.Unit, i int) string {
	depth := 0
	for j := i; j >= 0; j-- {
		t := u.At(j)
		if t.Elided() {
			continue
		}
		if t.Text == "}" {
			depth++
		} else if t.Text == "{" {
			if depth == 0 {
				// found the opening brace of the innermost enclosing
				// block; keep walking back for the `fn` that owns it
			} else {
				depth--
			}
		}
		if t.Kind == token.Keyword && t.Text == "fn" {
			// next significant token after fn (possibly Type.method) is
			// the name, find the identifier right before '('
			k := u.NextSignificant(j + 1)
			name := ""
			for k != -1 {
				tk := u.At(k)
				if tk.Text == "(" {
					break
				}
				if tk.Kind == token.Identifier || tk.Kind == token.Keyword {
					name = tk.Text
				}
				k = u.NextSignificant(k + 1)
			}
			return name
		}
	}
	return ""
}

// isCapitalized reports whether s starts with an ASCII uppercase letter,
// the syntactic marker spec.md §4.2.1 uses to recognize a struct type
// name among type tokens.
func isCapitalized(s string) bool {
	return len(s) > 0 && s[0] >= 'A' && s[0] <= 'Z'
}

var primitiveTypes = map[string]bool{
	"i8": true, "i16": true, "i32": true, "i64": true,
	"u8": true, "u16": true, "u32": true, "u64": true,
	"f32": true, "f64": true, "bool": true, "usize": true, "isize": true,
}

// isTypeToken reports whether text names a CZar primitive type or is
// recognized as a struct name (capitalized identifier), per the
// declaration grammar in spec.md §4.2.1.
func isTypeToken(text string) bool {
	return primitiveTypes[text] || isCapitalized(text)
}

// significantTokensBetween returns the indices of every non-elided,
// non-whitespace, non-comment token in [start, end).
func significantTokensBetween(u *token.Unit, start, end int) []int {
	var out []int
	i := u.NextSignificant(start)
	for i != -1 && i < end {
		out = append(out, i)
		i = u.NextSignificant(i + 1)
	}
	return out
}
