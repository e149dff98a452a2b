package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Kind_String(t *testing.T) {
	testCases := []struct {
		name     string
		kind     Kind
		expected string
	}{
		{name: "identifier", kind: Identifier, expected: "identifier"},
		{name: "keyword", kind: Keyword, expected: "keyword"},
		{name: "interpolated string", kind: InterpolatedString, expected: "interpolated-string"},
		{name: "eof", kind: EOF, expected: "eof"},
		{name: "unknown", kind: Kind(999), expected: "kind(999)"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			assert.Equal(tc.expected, tc.kind.String())
		})
	}
}

func Test_New(t *testing.T) {
	assert := assert.New(t)

	tok := New(Identifier, "foo", 3, 7)
	assert.Equal(Identifier, tok.Kind)
	assert.Equal("foo", tok.Text)
	assert.Equal(3, tok.Line)
	assert.Equal(7, tok.Column)
	assert.Nil(tok.Interp)
}

func Test_Token_Elided(t *testing.T) {
	assert := assert.New(t)

	tok := New(Identifier, "foo", 1, 1)
	assert.False(tok.Elided())

	tok.Elide()
	assert.True(tok.Elided())
	assert.Empty(tok.Text)
}

func Test_Token_Is(t *testing.T) {
	assert := assert.New(t)

	tok := New(Operator, "+", 1, 1)
	assert.True(tok.Is("+"))
	assert.False(tok.Is("-"))
}

func Test_Token_Clone_IsIndependent(t *testing.T) {
	assert := assert.New(t)

	orig := New(InterpolatedString, "a={b}", 1, 1)
	orig.Interp = []InterpPart{{Literal: "a="}, {Interp: "b"}}

	clone := orig.Clone()
	assert.Equal(orig.Kind, clone.Kind)
	assert.Equal(orig.Text, clone.Text)
	assert.Equal(orig.Interp, clone.Interp)

	clone.Text = "mutated"
	clone.Interp[0].Literal = "mutated"
	assert.Equal("a={b}", orig.Text)
	assert.Equal("a=", orig.Interp[0].Literal)
}

func Test_Token_Clone_NilInterp(t *testing.T) {
	assert := assert.New(t)

	orig := New(Identifier, "foo", 1, 1)
	clone := orig.Clone()
	assert.Nil(clone.Interp)
}
