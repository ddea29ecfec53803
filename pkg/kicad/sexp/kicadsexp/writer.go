package kicadsexp

import (
	"strings"
	"unicode"
)

// Atom returns s encoded as a single token: bare when the lexer would read it
// back unchanged, otherwise double-quoted with backslash escapes.
func Atom(s string) string {
	if isBare(s) {
		return s
	}
	return Quote(s)
}

// Quote always returns s as a quoted string.
func Quote(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

func isBare(s string) bool {
	if s == "" || s[0] == '#' {
		return false
	}
	for _, r := range s {
		if unicode.IsSpace(r) || r == '(' || r == ')' || r == '"' || r == '\\' {
			return false
		}
	}
	return true
}

// Writer builds an indented S-expression document. Open starts a list on a
// new line at the current depth; Inline appends a complete one-line list to
// the current line; Close ends the innermost list.
type Writer struct {
	b     strings.Builder
	depth int
}

// Open starts a new list headed by key, followed by the given atoms.
func (w *Writer) Open(key string, atoms ...string) {
	if w.b.Len() > 0 {
		w.b.WriteByte('\n')
		w.b.WriteString(strings.Repeat("  ", w.depth))
	}
	w.b.WriteByte('(')
	w.b.WriteString(Atom(key))
	for _, a := range atoms {
		w.b.WriteByte(' ')
		w.b.WriteString(Atom(a))
	}
	w.depth++
}

// Inline appends (key atoms...) to the current line.
func (w *Writer) Inline(key string, atoms ...string) {
	w.b.WriteString(" (")
	w.b.WriteString(Atom(key))
	for _, a := range atoms {
		w.b.WriteByte(' ')
		w.b.WriteString(Atom(a))
	}
	w.b.WriteByte(')')
}

// InlineQuoted is Inline with the value always quoted.
func (w *Writer) InlineQuoted(key, value string) {
	w.b.WriteString(" (")
	w.b.WriteString(Atom(key))
	w.b.WriteByte(' ')
	w.b.WriteString(Quote(value))
	w.b.WriteByte(')')
}

// InlineList appends an arbitrary pre-built expression to the current line.
func (w *Writer) InlineList(s Sexp) {
	w.b.WriteByte(' ')
	w.b.WriteString(s.String())
}

// Close ends the innermost open list.
func (w *Writer) Close() {
	if w.depth == 0 {
		return
	}
	w.depth--
	w.b.WriteByte(')')
}

// Depth reports the number of lists still open.
func (w *Writer) Depth() int {
	return w.depth
}

// String closes any lists still open and returns the document with a
// trailing newline.
func (w *Writer) String() string {
	for w.depth > 0 {
		w.Close()
	}
	return w.b.String() + "\n"
}
