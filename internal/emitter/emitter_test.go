package emitter

import (
	"strings"
	"testing"

	"github.com/dekarrin/czar/internal/config"
	"github.com/dekarrin/czar/internal/symbols"
	"github.com/dekarrin/czar/internal/token"
	"github.com/stretchr/testify/assert"
)

func Test_Emit_WritesTokenTextInOrder(t *testing.T) {
	assert := assert.New(t)

	u := token.NewUnit("main.cz", []*token.Token{
		token.New(token.Keyword, "fn", 1, 1),
		token.New(token.Whitespace, " ", 1, 3),
		token.New(token.Identifier, "main", 1, 4),
		token.New(token.Punctuation, "(", 1, 8),
		token.New(token.Punctuation, ")", 1, 9),
	})

	tabs := symbols.New()
	out := Emit(u, tabs, config.BuildSettings{TargetStd: "c17"})

	assert.True(strings.Contains(out.TranslationUnit, "fn main()"))
	assert.NotEmpty(out.Header)
	assert.NotEmpty(out.Source)
}

func Test_Emit_SkipsElidedTokens(t *testing.T) {
	assert := assert.New(t)

	elided := token.New(token.Identifier, "dead", 1, 1)
	elided.Elide()

	u := token.NewUnit("main.cz", []*token.Token{
		token.New(token.Keyword, "live", 1, 1),
		elided,
	})

	tabs := symbols.New()
	out := Emit(u, tabs, config.BuildSettings{TargetStd: "c17"})

	assert.True(strings.Contains(out.TranslationUnit, "live"))
	assert.False(strings.Contains(out.TranslationUnit, "dead"))
}

func Test_Emit_IncludesGeneratedCleanups(t *testing.T) {
	assert := assert.New(t)

	u := token.NewUnit("main.cz", nil)
	tabs := symbols.New()
	tabs.Cleanups.Append("void _cz_cleanup_0(int *p) {}")

	out := Emit(u, tabs, config.BuildSettings{TargetStd: "c17"})
	assert.True(strings.Contains(out.Source, "_cz_cleanup_0"))
}
