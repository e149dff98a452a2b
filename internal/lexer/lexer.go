// Package lexer implements the byte-level lexer named as an external
// collaborator in spec.md §6. The core pipeline only depends on its
// output shape (a []*token.Token stream, spec.md §3); this package is
// intentionally a narrow, fixed-grammar scanner rather than a general
// lexer-generator engine, since CZar lexes exactly one language.
//
// It reproduces the lexer quirks the core passes are written to expect
// (spec.md §6): a range literal like `0..9` arrives as the number `0`, the
// `..` operator, and the number `9` (P18 also tolerates the alternative
// `0`, `.`, `.9` split, in case a future numeric grammar reintroduces it),
// and interpolated string literals carry a {parts, interp} payload rather
// than being split into multiple tokens.
package lexer

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dekarrin/czar/internal/token"
)

var keywords = map[string]bool{
	"fn": true, "struct": true, "enum": true, "switch": true, "case": true,
	"default": true, "break": true, "continue": true, "return": true,
	"goto": true, "if": true, "else": true, "for": true, "while": true,
	"mut": true, "const": true, "void": true, "bool": true, "true": true,
	"false": true, "cast": true, "typedef": true,
	"i8": true, "i16": true, "i32": true, "i64": true,
	"u8": true, "u16": true, "u32": true, "u64": true,
	"f32": true, "f64": true, "usize": true, "isize": true,
}

// multi-char operators, longest first so the scanner can greedily match.
var operators = []string{
	"->", "::", "==", "!=", "<=", ">=", "&&", "||", "++", "--",
	"+=", "-=", "*=", "/=", "%=", "..",
	"+", "-", "*", "/", "%", "=", "<", ">", "!", "&", "|", "^", "~", "?", ":",
}

// Error is a lexer-level failure (spec.md §7 "fatal input"): malformed
// UTF-8, an unterminated string or block comment, or an unterminated
// interpolation hole.
type Error struct {
	Line, Column int
	Msg          string
}

func (e *Error) Error() string {
	return fmt.Sprintf("lex error at %d:%d: %s", e.Line, e.Column, e.Msg)
}

// Lex scans src (the full UTF-8 byte content of a .cz file) into a token
// stream terminated by a single EOF token. It is the sole entry point the
// transpiler orchestrator calls before the parser.
func Lex(src []byte) ([]*token.Token, error) {
	s := &scanner{src: src, line: 1, column: 1}
	var out []*token.Token
	for !s.atEOF() {
		tok, err := s.next()
		if err != nil {
			return nil, err
		}
		if tok != nil {
			out = append(out, tok)
		}
	}
	out = append(out, token.New(token.EOF, "", s.line, s.column))
	return out, nil
}

type scanner struct {
	src    []byte
	pos    int
	line   int
	column int
}

func (s *scanner) atEOF() bool {
	return s.pos >= len(s.src)
}

func (s *scanner) peek() rune {
	if s.atEOF() {
		return 0
	}
	r, _ := utf8.DecodeRune(s.src[s.pos:])
	return r
}

func (s *scanner) peekAt(offset int) rune {
	p := s.pos
	for i := 0; i < offset && p < len(s.src); i++ {
		_, n := utf8.DecodeRune(s.src[p:])
		p += n
	}
	if p >= len(s.src) {
		return 0
	}
	r, _ := utf8.DecodeRune(s.src[p:])
	return r
}

func (s *scanner) advance() rune {
	r, n := utf8.DecodeRune(s.src[s.pos:])
	s.pos += n
	if r == '\n' {
		s.line++
		s.column = 1
	} else {
		s.column++
	}
	return r
}

func (s *scanner) next() (*token.Token, error) {
	startLine, startCol := s.line, s.column
	r := s.peek()

	switch {
	case r == ' ' || r == '\t' || r == '\n' || r == '\r':
		return s.scanWhitespace(), nil
	case r == '/' && s.peekAt(1) == '/':
		return s.scanLineComment(), nil
	case r == '/' && s.peekAt(1) == '*':
		return s.scanBlockComment()
	case r == '#':
		return s.scanPreprocessor(), nil
	case r == '"':
		return s.scanString()
	case unicode.IsDigit(r):
		return s.scanNumber(), nil
	case r == '_' || unicode.IsLetter(r):
		return s.scanIdentifier(), nil
	case r == '.' && s.peekAt(1) != '.' && unicode.IsDigit(s.peekAt(1)):
		// the ".9" half of a `0..9` range literal: a lone `.` immediately
		// followed by a digit (and not by a second `.`) is lexed as its
		// own numeric literal, matching the quirk P18 is written against.
		return s.scanNumber(), nil
	case r == '.' && s.peekAt(1) == '.':
		return s.scanOperator()
	case strings.ContainsRune("(){}[];,.", r):
		s.advance()
		return token.New(token.Punctuation, string(r), startLine, startCol), nil
	default:
		return s.scanOperator()
	}
}

func (s *scanner) scanWhitespace() *token.Token {
	line, col := s.line, s.column
	var b strings.Builder
	for !s.atEOF() {
		r := s.peek()
		if r != ' ' && r != '\t' && r != '\n' && r != '\r' {
			break
		}
		b.WriteRune(s.advance())
	}
	return token.New(token.Whitespace, b.String(), line, col)
}

func (s *scanner) scanLineComment() *token.Token {
	line, col := s.line, s.column
	var b strings.Builder
	for !s.atEOF() && s.peek() != '\n' {
		b.WriteRune(s.advance())
	}
	return token.New(token.Comment, b.String(), line, col)
}

func (s *scanner) scanBlockComment() (*token.Token, error) {
	line, col := s.line, s.column
	var b strings.Builder
	b.WriteRune(s.advance()) // '/'
	b.WriteRune(s.advance()) // '*'
	for {
		if s.atEOF() {
			return nil, &Error{Line: line, Column: col, Msg: "unterminated block comment"}
		}
		if s.peek() == '*' && s.peekAt(1) == '/' {
			b.WriteRune(s.advance())
			b.WriteRune(s.advance())
			break
		}
		b.WriteRune(s.advance())
	}
	return token.New(token.Comment, b.String(), line, col), nil
}

// scanPreprocessor consumes a `#name` directive word. Multi-line forms
// such as `#defer { ... }` are NOT consumed here as a single token — the
// lexer emits `#`, `defer`, and the following `{ ... }` as ordinary
// tokens, and it is P17's job to recognize the span. This matches the
// spec's description of the core depending on "a single token may span
// multiple source lines (preprocessor, ...)" only for the directive
// *word* itself when it is written across a continuation backslash; the
// common one-line case below is the overwhelmingly common path.
func (s *scanner) scanPreprocessor() *token.Token {
	line, col := s.line, s.column
	var b strings.Builder
	b.WriteRune(s.advance()) // '#'
	for !s.atEOF() && (unicode.IsLetter(s.peek()) || unicode.IsDigit(s.peek()) || s.peek() == '_') {
		b.WriteRune(s.advance())
	}
	return token.New(token.Preprocessor, b.String(), line, col)
}

// scanString scans a double-quoted string literal. If it contains a `{`
// interpolation hole, it is classified InterpolatedString and its Interp
// payload is populated with the alternating literal/interp segments per
// spec.md §6; otherwise it is a plain String token whose Text is the
// literal including quotes.
func (s *scanner) scanString() (*token.Token, error) {
	line, col := s.line, s.column
	var raw strings.Builder
	raw.WriteRune(s.advance()) // opening quote

	var parts []token.InterpPart
	var lit strings.Builder
	interpolated := false

	for {
		if s.atEOF() {
			return nil, &Error{Line: line, Column: col, Msg: "unterminated string literal"}
		}
		r := s.peek()
		if r == '"' {
			raw.WriteRune(s.advance())
			break
		}
		if r == '\\' {
			raw.WriteRune(s.advance())
			if !s.atEOF() {
				esc := s.advance()
				raw.WriteRune(esc)
				lit.WriteRune('\\')
				lit.WriteRune(esc)
			}
			continue
		}
		if r == '{' {
			interpolated = true
			if lit.Len() > 0 {
				parts = append(parts, token.InterpPart{Literal: lit.String()})
				lit.Reset()
			}
			s.advance() // consume '{'
			raw.WriteRune('{')
			var expr strings.Builder
			depth := 1
			for depth > 0 {
				if s.atEOF() {
					return nil, &Error{Line: line, Column: col, Msg: "unterminated interpolation"}
				}
				c := s.peek()
				if c == '{' {
					depth++
				} else if c == '}' {
					depth--
					if depth == 0 {
						s.advance()
						raw.WriteRune('}')
						break
					}
				}
				r := s.advance()
				expr.WriteRune(r)
				raw.WriteRune(r)
			}
			parts = append(parts, token.InterpPart{Interp: expr.String()})
			continue
		}
		raw.WriteRune(s.advance())
		lit.WriteRune(r)
	}

	if !interpolated {
		return token.New(token.String, raw.String(), line, col), nil
	}
	if lit.Len() > 0 {
		parts = append(parts, token.InterpPart{Literal: lit.String()})
	}
	tok := token.New(token.InterpolatedString, rebuildInterpText(parts), line, col)
	tok.Interp = parts
	return tok, nil
}

// rebuildInterpText renders the canonical source text of an interpolated
// string from its parts, used as the token's Text so the emitter can fall
// back to verbatim output for any interpolated string P-passes do not
// otherwise touch.
func rebuildInterpText(parts []token.InterpPart) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, p := range parts {
		if p.Interp != "" {
			b.WriteByte('{')
			b.WriteString(p.Interp)
			b.WriteByte('}')
		} else {
			b.WriteString(p.Literal)
		}
	}
	b.WriteByte('"')
	return b.String()
}

// scanNumber scans a numeric literal. A lone `.` immediately followed by a
// digit is consumed as a leading-dot number of its own (the ".9" half of
// a `0..9` range, reached when the caller has already ruled out a second
// `.` following); a run of two dots is instead lexed as the `..` operator
// by scanOperator. P18 (foreach transform) is written against both
// resulting encodings.
func (s *scanner) scanNumber() *token.Token {
	line, col := s.line, s.column
	var b strings.Builder
	for !s.atEOF() && (unicode.IsDigit(s.peek()) || s.peek() == '_') {
		b.WriteRune(s.advance())
	}
	// a single `.` immediately followed by a digit is consumed as part of
	// this numeric literal (the ".9" half of "0..9"); a `.` followed by
	// another `.` is left for the punctuation scanner.
	if s.peek() == '.' && s.peekAt(1) != '.' && unicode.IsDigit(s.peekAt(1)) {
		b.WriteRune(s.advance())
		for !s.atEOF() && unicode.IsDigit(s.peek()) {
			b.WriteRune(s.advance())
		}
	}
	// trailing type suffix, e.g. 3u64, 1.5f32
	for !s.atEOF() && (unicode.IsLetter(s.peek()) || unicode.IsDigit(s.peek())) {
		b.WriteRune(s.advance())
	}
	return token.New(token.Number, b.String(), line, col)
}

func (s *scanner) scanIdentifier() *token.Token {
	line, col := s.line, s.column
	var b strings.Builder
	for !s.atEOF() && (s.peek() == '_' || unicode.IsLetter(s.peek()) || unicode.IsDigit(s.peek())) {
		b.WriteRune(s.advance())
	}
	text := b.String()
	kind := token.Identifier
	if keywords[text] {
		kind = token.Keyword
	}
	return token.New(kind, text, line, col)
}

func (s *scanner) scanOperator() (*token.Token, error) {
	line, col := s.line, s.column
	rest := string(s.src[s.pos:])
	for _, op := range operators {
		if strings.HasPrefix(rest, op) {
			for range op {
				s.advance()
			}
			return token.New(token.Operator, op, line, col), nil
		}
	}
	r := s.advance()
	return nil, &Error{Line: line, Column: col, Msg: fmt.Sprintf("unexpected character %q", r)}
}
