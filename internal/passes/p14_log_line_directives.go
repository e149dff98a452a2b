package passes

import (
	"fmt"
	"strings"

	"github.com/dekarrin/czar/internal/diag"
	"github.com/dekarrin/czar/internal/symbols"
	"github.com/dekarrin/czar/internal/token"
)

// ExpandLogLineDirectives is P14 (spec.md §4.3.6). Every `cz_log_*(...)`
// call site is preceded by a `#line N "file"` directive so that C
// compiler diagnostics inside the expanded log macros point back at the
// `.cz` source line rather than the generated line.
func ExpandLogLineDirectives(u *token.Unit, tabs *symbols.Tables, rep *diag.Reporter) {
	for i := 0; i < u.Len(); i++ {
		t := u.At(i)
		if t.Elided() || t.Kind != token.Identifier || !strings.HasPrefix(t.Text, "cz_log_") {
			continue
		}
		nxt := u.NextSignificant(i + 1)
		if nxt == -1 || u.At(nxt).Text != "(" {
			continue
		}
		directive := fmt.Sprintf("#line %d \"%s\"\n", t.Line, u.SourceFile)
		u.InsertAt(i, token.New(token.Preprocessor, directive, 0, 0))
		i++ // skip past the directive we just inserted
	}
}
