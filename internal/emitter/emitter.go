package emitter

import (
	"strings"

	"github.com/dekarrin/czar/internal/config"
	"github.com/dekarrin/czar/internal/symbols"
	"github.com/dekarrin/czar/internal/token"
)

// Output is the full set of files a transpile call produces (spec.md
// §4.4): the translation unit plus its companion runtime files.
type Output struct {
	TranslationUnit string
	Header          string // cz.h
	Source          string // cz.c
}

// Emit performs the in-order traversal of u spec.md §4.4 describes,
// writing each token's Text verbatim, and assembles the companion cz.h /
// cz.c runtime files from tabs' accumulated state (debug mode, generated
// cleanup functions).
func Emit(u *token.Unit, tabs *symbols.Tables, build config.BuildSettings) Output {
	var body strings.Builder
	for _, t := range u.Tokens {
		body.WriteString(t.Text)
	}

	var tu strings.Builder
	tu.WriteString(Preamble(build.TargetStd, tabs.Pragma.DebugMode))
	tu.WriteString(body.String())

	return Output{
		TranslationUnit: tu.String(),
		Header:          Header(),
		Source:          Source(tabs.Cleanups.Functions()),
	}
}
