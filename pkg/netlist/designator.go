package netlist

import (
	"strings"
	"unicode"

	"github.com/Leumas-Tech/CircuitBuilder/pkg/circuit"
)

const (
	designatorPrefixLen = 4
	designatorSuffixLen = 4
)

// Designator derives the reference designator of a node: the first four
// characters of its upper-cased display name with whitespace removed,
// followed by the last four characters of its id.
func Designator(n circuit.Node) string {
	name := []rune(strings.ToUpper(stripSpace(n.DisplayName())))
	if len(name) > designatorPrefixLen {
		name = name[:designatorPrefixLen]
	}
	id := []rune(n.ID)
	if len(id) > designatorSuffixLen {
		id = id[len(id)-designatorSuffixLen:]
	}
	return string(name) + string(id)
}

// NetName is the display name of a net code.
func NetName(code int) string {
	return "Net-(U" + itoa(code) + ")"
}

func stripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}
