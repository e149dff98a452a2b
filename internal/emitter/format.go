package emitter

import (
	"regexp"

	"github.com/dekarrin/rosed"
)

// generatedCommentWidth bounds the re-wrap width `czar format` applies
// to runtime-generated comments.
const generatedCommentWidth = 72

// generatedBlockComment matches a single `/* ... */` block comment,
// non-greedily, so ReflowGeneratedComments can rewrap each one in
// isolation without touching surrounding user code.
var generatedBlockComment = regexp.MustCompile(`/\*.*?\*/`)

// ReflowGeneratedComments re-wraps every runtime-generated block comment
// in src (P12's `/* unreachable */` marker, and any generated cleanup
// function doc comment) with rosed, leaving everything else byte-for-byte
// identical. User token text is never touched: the core has no
// whitespace-preserving pretty-printer model for it (flat token stream),
// so `czar format` only ever reflows comments it generated itself.
func ReflowGeneratedComments(src string) string {
	return generatedBlockComment.ReplaceAllStringFunc(src, func(comment string) string {
		inner := comment[2 : len(comment)-2]
		wrapped := rosed.Edit(inner).Wrap(generatedCommentWidth).String()
		return "/*" + wrapped + "*/"
	})
}
