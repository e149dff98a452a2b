package passes

import (
	"testing"

	"github.com/dekarrin/czar/internal/diag"
	"github.com/dekarrin/czar/internal/symbols"
	"github.com/dekarrin/czar/internal/token"
	"github.com/stretchr/testify/assert"
)

func pragmaTokens(val string) []*token.Token {
	return []*token.Token{
		token.New(token.Preprocessor, "#pragma", 1, 1),
		token.New(token.Whitespace, " ", 1, 8),
		token.New(token.Identifier, "czar", 1, 9),
		token.New(token.Whitespace, " ", 1, 13),
		token.New(token.Identifier, "debug", 1, 14),
		token.New(token.Punctuation, "(", 1, 19),
		token.New(token.Identifier, val, 1, 20),
		token.New(token.Punctuation, ")", 1, 20+len(val)),
	}
}

func Test_PragmaParse_DebugOn(t *testing.T) {
	assert := assert.New(t)

	u := token.NewUnit("main.cz", pragmaTokens("on"))
	tabs := symbols.New()
	tabs.Pragma.DebugMode = false
	rep := diag.NewReporter("main.cz", nil)

	PragmaParse(u, tabs, rep)

	assert.True(tabs.Pragma.DebugMode)
	assert.False(rep.HasErrors())
	for _, tok := range u.Tokens {
		assert.True(tok.Elided())
	}
}

func Test_PragmaParse_DebugOff(t *testing.T) {
	assert := assert.New(t)

	u := token.NewUnit("main.cz", pragmaTokens("off"))
	tabs := symbols.New()
	rep := diag.NewReporter("main.cz", nil)

	PragmaParse(u, tabs, rep)

	assert.False(tabs.Pragma.DebugMode)
	assert.False(rep.HasErrors())
}

func Test_PragmaParse_InvalidValue_Errors(t *testing.T) {
	assert := assert.New(t)

	u := token.NewUnit("main.cz", pragmaTokens("maybe"))
	tabs := symbols.New()
	rep := diag.NewReporter("main.cz", nil)

	PragmaParse(u, tabs, rep)

	assert.True(rep.HasErrors())
}

func Test_PragmaParse_IgnoresUnrelatedPreprocessor(t *testing.T) {
	assert := assert.New(t)

	u := token.NewUnit("main.cz", []*token.Token{
		token.New(token.Preprocessor, "#pragma", 1, 1),
		token.New(token.Whitespace, " ", 1, 8),
		token.New(token.Identifier, "pack", 1, 9),
	})
	tabs := symbols.New()
	rep := diag.NewReporter("main.cz", nil)

	PragmaParse(u, tabs, rep)

	assert.False(rep.HasErrors())
	assert.True(tabs.Pragma.DebugMode)
}
