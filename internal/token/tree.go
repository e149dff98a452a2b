package token

import "fmt"

// Unit is the translation-unit tree. Per spec.md §3 the tree is flat by
// design: there is no nested AST, only an ordered, growable sequence of
// tokens that every pass scans, splices, and mutates in place. Passes are
// expected to hold a *Unit for the lifetime of a single transpile call;
// no Unit outlives that call (spec.md §5).
type Unit struct {
	SourceFile string
	Tokens     []*Token
}

// NewUnit wraps an already-lexed token slice produced by the external
// lexer collaborator (spec.md §6) into a translation unit ready for the
// pass scheduler.
func NewUnit(sourceFile string, toks []*Token) *Unit {
	return &Unit{SourceFile: sourceFile, Tokens: toks}
}

// Len returns the number of token slots, including elided ones.
func (u *Unit) Len() int {
	return len(u.Tokens)
}

// At returns the token at i, or nil if i is out of range.
func (u *Unit) At(i int) *Token {
	if i < 0 || i >= len(u.Tokens) {
		return nil
	}
	return u.Tokens[i]
}

// InsertAt splices toks into the tree immediately before position i. The
// caller is responsible for processing multiple insertion points in
// descending index order within a single pass invocation (spec.md §5,
// §4.3.8) so that earlier indices already computed by that pass remain
// valid; InsertAt itself performs no reordering.
func (u *Unit) InsertAt(i int, toks ...*Token) {
	if len(toks) == 0 {
		return
	}
	if i < 0 {
		i = 0
	}
	if i > len(u.Tokens) {
		i = len(u.Tokens)
	}
	grown := make([]*Token, 0, len(u.Tokens)+len(toks))
	grown = append(grown, u.Tokens[:i]...)
	grown = append(grown, toks...)
	grown = append(grown, u.Tokens[i:]...)
	u.Tokens = grown
}

// DeleteRange removes tokens in [start, end) from the tree, shifting all
// later tokens down. Like InsertAt, callers deleting multiple ranges in
// one pass must proceed in descending order.
func (u *Unit) DeleteRange(start, end int) {
	if start < 0 {
		start = 0
	}
	if end > len(u.Tokens) {
		end = len(u.Tokens)
	}
	if start >= end {
		return
	}
	u.Tokens = append(u.Tokens[:start], u.Tokens[end:]...)
}

// Replace swaps the single token at i for the given tokens, preserving
// ordering of everything else. Used by passes that elide-and-replace a
// single token span (e.g. retyping an identifier to punctuation never
// needs Replace; but splicing a multi-token expansion like P13's
// unreachable() does).
func (u *Unit) Replace(i int, toks ...*Token) {
	if i < 0 || i >= len(u.Tokens) {
		return
	}
	u.DeleteRange(i, i+1)
	u.InsertAt(i, toks...)
}

// IndexFunc scans left-to-right starting at `from` for the first token for
// which pred returns true, skipping elided tokens entirely (an elided
// token contributes nothing and is invisible to every pass scan unless a
// pass explicitly asks to see it via RawIndexFunc). It returns -1 if none
// matches.
func (u *Unit) IndexFunc(from int, pred func(*Token) bool) int {
	for i := from; i < len(u.Tokens); i++ {
		t := u.Tokens[i]
		if t.Elided() {
			continue
		}
		if pred(t) {
			return i
		}
	}
	return -1
}

// NextSignificant returns the index of the next non-elided,
// non-whitespace, non-comment token at or after `from`, or -1.
func (u *Unit) NextSignificant(from int) int {
	return u.IndexFunc(from, func(t *Token) bool {
		return t.Kind != Whitespace && t.Kind != Comment
	})
}

// PrevSignificant returns the index of the previous non-elided,
// non-whitespace, non-comment token at or before `from`, or -1.
func (u *Unit) PrevSignificant(from int) int {
	for i := from; i >= 0; i-- {
		t := u.Tokens[i]
		if t.Elided() {
			continue
		}
		if t.Kind != Whitespace && t.Kind != Comment {
			return i
		}
	}
	return -1
}

// Text renders the final source excerpt of tokens[start:end], verbatim,
// skipping nothing (elided tokens contribute their empty text, which is
// the whole point: they vanish from output without needing removal from
// the slice).
func (u *Unit) Text(start, end int) string {
	if start < 0 {
		start = 0
	}
	if end > len(u.Tokens) {
		end = len(u.Tokens)
	}
	s := ""
	for i := start; i < end; i++ {
		s += u.Tokens[i].Text
	}
	return s
}

// String implements fmt.Stringer for debugging; it is not used by the
// emitter, which walks Tokens directly.
func (u *Unit) String() string {
	return fmt.Sprintf("Unit(%s, %d tokens)", u.SourceFile, len(u.Tokens))
}
