package kicadsexp

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"unicode"
)

// TokenType represents the type of a token
type TokenType int

const (
	TokenEOF TokenType = iota
	TokenLeftParen
	TokenRightParen
	TokenSymbol
	TokenString
)

func (t TokenType) String() string {
	switch t {
	case TokenEOF:
		return "EOF"
	case TokenLeftParen:
		return "'('"
	case TokenRightParen:
		return "')'"
	case TokenSymbol:
		return "symbol"
	case TokenString:
		return "string"
	default:
		return fmt.Sprintf("token(%d)", int(t))
	}
}

// Token represents a lexical token
type Token struct {
	Type  TokenType
	Value string
	Line  int
}

// Lexer splits S-expression input into tokens. Comments run from '#' to the
// end of the line; quoted strings support \n, \t, \r and backslash escapes
// of any other rune.
type Lexer struct {
	r    *bufio.Reader
	line int
}

// NewLexer creates a new lexer
func NewLexer(r io.Reader) *Lexer {
	return &Lexer{r: bufio.NewReader(r), line: 1}
}

// NextToken reads the next token from the input
func (l *Lexer) NextToken() (Token, error) {
	ch, err := l.skipBlank()
	if err == io.EOF {
		return Token{Type: TokenEOF, Line: l.line}, nil
	}
	if err != nil {
		return Token{}, err
	}

	switch ch {
	case '(':
		return Token{Type: TokenLeftParen, Value: "(", Line: l.line}, nil
	case ')':
		return Token{Type: TokenRightParen, Value: ")", Line: l.line}, nil
	case '"':
		return l.quoted()
	}
	l.unread()
	return l.bare()
}

// skipBlank consumes whitespace and comments and returns the first rune
// after them.
func (l *Lexer) skipBlank() (rune, error) {
	inComment := false
	for {
		ch, err := l.next()
		if err != nil {
			return 0, err
		}
		switch {
		case ch == '\n':
			inComment = false
		case inComment, unicode.IsSpace(ch):
		case ch == '#':
			inComment = true
		default:
			return ch, nil
		}
	}
}

func (l *Lexer) next() (rune, error) {
	ch, _, err := l.r.ReadRune()
	if err != nil {
		return 0, err
	}
	if ch == '\n' {
		l.line++
	}
	return ch, nil
}

// unread pushes back the rune returned by the last next call. Callers undo
// the line count themselves.
func (l *Lexer) unread() {
	l.r.UnreadRune()
}

func (l *Lexer) quoted() (Token, error) {
	start := l.line
	var b strings.Builder
	for {
		ch, err := l.next()
		if err == io.EOF {
			return Token{}, fmt.Errorf("line %d: unexpected EOF in string", start)
		}
		if err != nil {
			return Token{}, err
		}
		switch ch {
		case '"':
			return Token{Type: TokenString, Value: b.String(), Line: start}, nil
		case '\\':
			esc, err := l.next()
			if err != nil {
				return Token{}, fmt.Errorf("line %d: unexpected EOF after backslash", l.line)
			}
			b.WriteRune(unescape(esc))
		default:
			b.WriteRune(ch)
		}
	}
}

func unescape(r rune) rune {
	switch r {
	case 'n':
		return '\n'
	case 't':
		return '\t'
	case 'r':
		return '\r'
	}
	return r
}

func (l *Lexer) bare() (Token, error) {
	var b strings.Builder
	for {
		ch, err := l.next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Token{}, err
		}
		if unicode.IsSpace(ch) || ch == '(' || ch == ')' || ch == '"' {
			if ch == '\n' {
				l.line--
			}
			l.unread()
			break
		}
		b.WriteRune(ch)
	}
	if b.Len() == 0 {
		return Token{}, fmt.Errorf("line %d: empty symbol", l.line)
	}
	return Token{Type: TokenSymbol, Value: b.String(), Line: l.line}, nil
}
