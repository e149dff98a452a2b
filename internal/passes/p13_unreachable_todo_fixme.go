package passes

import (
	"fmt"

	"github.com/dekarrin/czar/internal/diag"
	"github.com/dekarrin/czar/internal/symbols"
	"github.com/dekarrin/czar/internal/token"
)

var abortDirectiveLabel = map[string]string{
	"unreachable": "unreachable",
	"todo":        "TODO",
	"fixme":       "FIXME",
}

// ExpandUnreachableTodoFixme is P13 (spec.md §4.3.6). `unreachable(msg)`,
// `todo(msg)`, and `fixme(msg)` expand in place to an `fprintf` to stderr
// carrying the call's own source file and line, followed by `abort()`.
func ExpandUnreachableTodoFixme(u *token.Unit, tabs *symbols.Tables, rep *diag.Reporter) {
	for i := 0; i < u.Len(); i++ {
		t := u.At(i)
		if t.Elided() || t.Kind != token.Identifier {
			continue
		}
		label, recognized := abortDirectiveLabel[t.Text]
		if !recognized {
			continue
		}
		openParen := u.NextSignificant(i + 1)
		if openParen == -1 || u.At(openParen).Text != "(" {
			continue
		}
		closeParen := matchDelim(u, openParen)
		if closeParen == -1 {
			rep.Internal("", t.Line, "unterminated "+t.Text+"() call")
			continue
		}

		format := fmt.Sprintf("\"%s:%d: %s: %%s\\n\"", u.SourceFile, t.Line, label)

		t.Text = "fprintf"
		u.InsertAt(openParen+1, token.New(token.Identifier, "stderr, ", 0, 0), token.New(token.String, format+", ", 0, 0))
		u.InsertAt(closeParen+1, token.New(token.Identifier, ", abort()", 0, 0))
	}
}
