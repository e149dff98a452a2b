package passes

import (
	"testing"

	"github.com/dekarrin/czar/internal/diag"
	"github.com/dekarrin/czar/internal/symbols"
	"github.com/dekarrin/czar/internal/token"
	"github.com/stretchr/testify/assert"
)

func Test_TransformCasts_SingleArg(t *testing.T) {
	assert := assert.New(t)

	u := token.NewUnit("main.cz", []*token.Token{
		token.New(token.Identifier, "cast", 1, 1),
		token.New(token.Operator, "<", 1, 5),
		token.New(token.Identifier, "i32", 1, 6),
		token.New(token.Operator, ">", 1, 9),
		token.New(token.Punctuation, "(", 1, 10),
		token.New(token.Identifier, "x", 1, 11),
		token.New(token.Punctuation, ")", 1, 12),
	})
	tabs := symbols.New()
	rep := diag.NewReporter("main.cz", nil)

	TransformCasts(u, tabs, rep)

	assert.False(rep.HasErrors())
	assert.Equal("((i32)(x))", u.At(0).Text)
	for i := 1; i < u.Len(); i++ {
		assert.True(u.At(i).Elided(), "token %d should be elided", i)
	}
}

func Test_TransformCasts_WithFallback(t *testing.T) {
	assert := assert.New(t)

	u := token.NewUnit("main.cz", []*token.Token{
		token.New(token.Identifier, "cast", 1, 1),
		token.New(token.Operator, "<", 1, 5),
		token.New(token.Identifier, "i32", 1, 6),
		token.New(token.Operator, ">", 1, 9),
		token.New(token.Punctuation, "(", 1, 10),
		token.New(token.Identifier, "x", 1, 11),
		token.New(token.Punctuation, ",", 1, 12),
		token.New(token.Whitespace, " ", 1, 13),
		token.New(token.Number, "0", 1, 14),
		token.New(token.Punctuation, ")", 1, 15),
	})
	tabs := symbols.New()
	rep := diag.NewReporter("main.cz", nil)

	TransformCasts(u, tabs, rep)

	assert.False(rep.HasErrors())
	assert.Equal("_CZ_SAFE_CAST(i32, x,  0)", u.At(0).Text)
}

func Test_TransformCasts_IgnoresNonCastIdentifiers(t *testing.T) {
	assert := assert.New(t)

	u := token.NewUnit("main.cz", []*token.Token{
		token.New(token.Identifier, "other", 1, 1),
		token.New(token.Operator, "<", 1, 6),
		token.New(token.Identifier, "i32", 1, 7),
		token.New(token.Operator, ">", 1, 10),
	})
	tabs := symbols.New()
	rep := diag.NewReporter("main.cz", nil)

	TransformCasts(u, tabs, rep)

	assert.False(rep.HasErrors())
	assert.Equal("other", u.At(0).Text)
}
