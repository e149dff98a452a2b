package lexer

import (
	"testing"

	"github.com/dekarrin/czar/internal/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Lex_Kinds(t *testing.T) {
	testCases := []struct {
		name   string
		input  string
		expect []token.Kind
	}{
		{
			name:   "identifier and keyword",
			input:  "fn main",
			expect: []token.Kind{token.Keyword, token.Whitespace, token.Identifier, token.EOF},
		},
		{
			name:   "number with type suffix",
			input:  "3u64",
			expect: []token.Kind{token.Number, token.EOF},
		},
		{
			name:   "range literal splits into number, .., number",
			input:  "0..9",
			expect: []token.Kind{token.Number, token.Operator, token.Number, token.EOF},
		},
		{
			name:   "line comment",
			input:  "// hello",
			expect: []token.Kind{token.Comment, token.EOF},
		},
		{
			name:   "preprocessor directive",
			input:  "#pragma",
			expect: []token.Kind{token.Preprocessor, token.EOF},
		},
		{
			name:   "plain string literal",
			input:  `"hello"`,
			expect: []token.Kind{token.String, token.EOF},
		},
		{
			name:   "interpolated string literal",
			input:  `"x={x}"`,
			expect: []token.Kind{token.InterpolatedString, token.EOF},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			require := require.New(t)

			toks, err := Lex([]byte(tc.input))
			require.NoError(err)
			require.Len(toks, len(tc.expect))

			for i, k := range tc.expect {
				assert.Equal(k, toks[i].Kind, "token %d", i)
			}
		})
	}
}

func Test_Lex_InterpolatedString_Parts(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	toks, err := Lex([]byte(`"a={b}c"`))
	require.NoError(err)
	require.Len(toks, 2)

	require.Len(toks[0].Interp, 3)
	assert.Equal("a=", toks[0].Interp[0].Literal)
	assert.Equal("b", toks[0].Interp[1].Interp)
	assert.Equal("c", toks[0].Interp[2].Literal)
}

func Test_Lex_Errors(t *testing.T) {
	testCases := []struct {
		name  string
		input string
	}{
		{name: "unterminated string", input: `"hello`},
		{name: "unterminated block comment", input: `/* hello`},
		{name: "unterminated interpolation", input: `"a={b"`},
		{name: "unexpected character", input: "`"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			_, err := Lex([]byte(tc.input))
			assert.Error(err)
		})
	}
}

func Test_Lex_EmptyInput(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	toks, err := Lex([]byte(""))
	require.NoError(err)
	require.Len(toks, 1)
	assert.Equal(token.EOF, toks[0].Kind)
}
