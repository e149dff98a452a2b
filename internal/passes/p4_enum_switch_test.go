package passes

import (
	"testing"

	"github.com/dekarrin/czar/internal/diag"
	"github.com/dekarrin/czar/internal/symbols"
	"github.com/dekarrin/czar/internal/token"
	"github.com/stretchr/testify/assert"
)

func kw(text string, line int) *token.Token    { return token.New(token.Keyword, text, line, 1) }
func ident(text string, line int) *token.Token { return token.New(token.Identifier, text, line, 1) }
func punct(text string, line int) *token.Token { return token.New(token.Punctuation, text, line, 1) }

func enumSwitchTokens(includeBlueCase bool) []*token.Token {
	toks := []*token.Token{
		kw("enum", 1), ident("Color", 1), punct("{", 1),
		ident("RED", 2), punct(",", 2), ident("BLUE", 3),
		punct("}", 4), punct(";", 4),

		ident("Color", 6), ident("c", 6), punct(";", 6),

		kw("switch", 8), punct("(", 8), ident("c", 8), punct(")", 8), punct("{", 8),
		kw("case", 9), ident("RED", 9), punct(":", 9), kw("break", 9), punct(";", 9),
	}
	if includeBlueCase {
		toks = append(toks,
			kw("case", 10), ident("BLUE", 10), punct(":", 10), kw("break", 10), punct(";", 10),
		)
	}
	toks = append(toks, punct("}", 11))
	return toks
}

func Test_ValidateEnumsAndSwitch_ExhaustiveSwitch_NoErrors(t *testing.T) {
	assert := assert.New(t)

	u := token.NewUnit("main.cz", enumSwitchTokens(true))
	tabs := symbols.New()
	rep := diag.NewReporter("main.cz", nil)

	ValidateEnumsAndSwitch(u, tabs, rep)

	assert.False(rep.HasErrors())
	enumDef, ok := tabs.Enums.Lookup("Color")
	assert.True(ok)
	assert.True(enumDef.HasMember("RED"))
	assert.True(enumDef.HasMember("BLUE"))
}

func Test_ValidateEnumsAndSwitch_MissingCase_Errors(t *testing.T) {
	assert := assert.New(t)

	u := token.NewUnit("main.cz", enumSwitchTokens(false))
	tabs := symbols.New()
	rep := diag.NewReporter("main.cz", nil)

	ValidateEnumsAndSwitch(u, tabs, rep)

	assert.True(rep.HasErrors())
}

func Test_ValidateEnumsAndSwitch_WarnsOnLowercaseMember(t *testing.T) {
	assert := assert.New(t)

	toks := []*token.Token{
		kw("enum", 1), ident("Color", 1), punct("{", 1),
		ident("red", 2), punct("}", 3),
	}
	u := token.NewUnit("main.cz", toks)
	tabs := symbols.New()
	rep := diag.NewReporter("main.cz", nil)

	ValidateEnumsAndSwitch(u, tabs, rep)

	assert.False(rep.HasErrors())
	warnings := rep.Warnings()
	assert.NotEmpty(warnings)
}
