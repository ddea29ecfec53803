package wiring

import (
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/participle/v2"

	"github.com/Leumas-Tech/CircuitBuilder/pkg/circuit"
)

// WireList is the parsed form of a wire list document.
type WireList struct {
	Wires []*Wire `parser:"@@*"`
}

// Wire is one "<node>:<pin> -- <node>:<pin> [color]" entry.
type Wire struct {
	From  *Endpoint `parser:"@@ Link"`
	To    *Endpoint `parser:"@@"`
	Color string    `parser:"( '[' @( Ident | String ) ']' )?"`
}

// Endpoint is a "<node>:<pin>" reference.
type Endpoint struct {
	Node string `parser:"@( String | Int | Ident )"`
	Pin  int    `parser:"':' @Int"`
}

// Parser reads wire lists.
type Parser struct {
	parser *participle.Parser[WireList]
}

// NewParser creates a wire list parser.
func NewParser() (*Parser, error) {
	p, err := participle.Build[WireList](
		participle.Lexer(WireListLexer),
		participle.Elide("Comment", "Whitespace"),
		participle.Unquote("String"),
	)
	if err != nil {
		return nil, fmt.Errorf("wiring: failed to build parser: %w", err)
	}
	return &Parser{parser: p}, nil
}

// Parse reads a wire list and converts it to connections.
func (p *Parser) Parse(filename string, r io.Reader) ([]circuit.Connection, error) {
	wl, err := p.parser.Parse(filename, r)
	if err != nil {
		return nil, fmt.Errorf("wiring: %w: %v", circuit.ErrInvalidInput, err)
	}
	return wl.Connections(), nil
}

// ParseString reads a wire list from a string.
func (p *Parser) ParseString(input string) ([]circuit.Connection, error) {
	wl, err := p.parser.ParseString("", input)
	if err != nil {
		return nil, fmt.Errorf("wiring: %w: %v", circuit.ErrInvalidInput, err)
	}
	return wl.Connections(), nil
}

// ParseFile reads a wire list from a file path.
func (p *Parser) ParseFile(filename string) ([]circuit.Connection, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("wiring: failed to open file: %w", err)
	}
	defer f.Close()
	return p.Parse(filename, f)
}

// Connections converts the parsed entries.
func (wl *WireList) Connections() []circuit.Connection {
	out := make([]circuit.Connection, 0, len(wl.Wires))
	for _, w := range wl.Wires {
		out = append(out, circuit.Connection{
			From:  circuit.PinRef{NodeID: w.From.Node, PinIndex: w.From.Pin},
			To:    circuit.PinRef{NodeID: w.To.Node, PinIndex: w.To.Pin},
			Color: w.Color,
		})
	}
	return out
}
