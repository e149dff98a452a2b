// Package replio implements the interactive source reader behind
// `czar run --repl` (SPEC_FULL.md §B): it reads one balanced-brace CZar
// snippet at a time from a terminal, using the teacher's readline-backed
// input pattern (internal/input in the teacher tree) instead of a plain
// line reader, so history and line-editing are available when attached to
// a real TTY.
package replio

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
)

// Reader reads complete CZar snippets for the REPL driver loop. A
// snippet ends at the first line where brace/paren/bracket depth returns
// to zero and the accumulated text is non-blank; this lets a user type a
// multi-line `fn`/`struct` body across several lines before it is handed
// to the transpiler.
type Reader interface {
	ReadSnippet() (string, error)
	Close() error
}

// DirectReader reads snippets from any io.Reader, with no line editing.
// It is used for piped input (`czar run --repl < script.cz`) and tests.
type DirectReader struct {
	r *bufio.Reader
}

// NewDirectReader wraps r in a buffered snippet reader.
func NewDirectReader(r io.Reader) *DirectReader {
	return &DirectReader{r: bufio.NewReader(r)}
}

// ReadSnippet reads lines until brace/paren/bracket depth returns to
// zero, or until EOF. It returns io.EOF only when no snippet text was
// accumulated before end of input.
func (d *DirectReader) ReadSnippet() (string, error) {
	return readBalancedSnippet(func() (string, error) {
		return d.r.ReadString('\n')
	})
}

// Close is a no-op; DirectReader owns no readline resources, but callers
// should still call it so DirectReader and InteractiveReader are
// interchangeable.
func (d *DirectReader) Close() error { return nil }

// InteractiveReader reads snippets from stdin via chzyer/readline,
// giving the REPL history and basic line editing. It must have Close
// called on it before disposal to tear down the underlying terminal
// state.
type InteractiveReader struct {
	rl *readline.Instance
}

// NewInteractiveReader initializes readline with the REPL's two prompts:
// "czar> " for a fresh snippet, "...> " for a continuation line while
// brace depth is still open.
func NewInteractiveReader() (*InteractiveReader, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt: "czar> ",
	})
	if err != nil {
		return nil, fmt.Errorf("create readline config: %w", err)
	}
	return &InteractiveReader{rl: rl}, nil
}

// ReadSnippet reads lines via readline until brace/paren/bracket depth
// returns to zero, switching the prompt to "...> " for continuation
// lines and restoring it afterward.
func (ir *InteractiveReader) ReadSnippet() (string, error) {
	ir.rl.SetPrompt("czar> ")
	defer ir.rl.SetPrompt("czar> ")

	first := true
	return readBalancedSnippet(func() (string, error) {
		if !first {
			ir.rl.SetPrompt("...> ")
		}
		first = false
		line, err := ir.rl.Readline()
		return line + "\n", err
	})
}

// Close tears down the underlying readline instance.
func (ir *InteractiveReader) Close() error {
	return ir.rl.Close()
}

// readBalancedSnippet accumulates lines from next until brace/paren/
// bracket depth returns to zero and the buffer is non-blank, tracking
// depth across `{}()[]` while ignoring characters inside string and
// block-comment spans so an embedded `}` in a literal never ends the
// snippet early.
func readBalancedSnippet(next func() (string, error)) (string, error) {
	var buf strings.Builder
	depth := 0
	inString := false
	inBlockComment := false

	for {
		line, err := next()
		buf.WriteString(line)

		runes := []rune(line)
		for i := 0; i < len(runes); i++ {
			r := runes[i]
			switch {
			case inBlockComment:
				if r == '*' && i+1 < len(runes) && runes[i+1] == '/' {
					inBlockComment = false
					i++
				}
			case inString:
				if r == '\\' {
					i++
				} else if r == '"' {
					inString = false
				}
			case r == '"':
				inString = true
			case r == '/' && i+1 < len(runes) && runes[i+1] == '*':
				inBlockComment = true
				i++
			case r == '{' || r == '(' || r == '[':
				depth++
			case r == '}' || r == ')' || r == ']':
				depth--
			}
		}

		trimmed := strings.TrimSpace(buf.String())
		if err != nil {
			if trimmed == "" {
				return "", err
			}
			return trimmed, nil
		}
		if depth <= 0 && trimmed != "" {
			return trimmed, nil
		}
	}
}
