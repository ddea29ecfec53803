package wiring

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// WireListLexer tokenizes wire lists such as
//
//	# power
//	1001:0 -- 1002:1 [red]
//	"node-a":2 -- node_b:0
var WireListLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `#[^\n]*`},
	{Name: "Whitespace", Pattern: `[\s,;]+`},
	{Name: "String", Pattern: `"(\\.|[^"\\])*"`},
	{Name: "Link", Pattern: `--`},
	{Name: "Int", Pattern: `\d+\b`},
	{Name: "Ident", Pattern: `[A-Za-z0-9_][A-Za-z0-9_.]*`},
	{Name: "Punct", Pattern: `[:\[\]]`},
})
