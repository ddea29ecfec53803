// Package wiring filters proposed pin-to-pin connections against the ones a
// circuit already has, and reads connections from textual wire lists.
package wiring

import (
	"fmt"

	"github.com/Leumas-Tech/CircuitBuilder/pkg/circuit"
)

// Dedupe returns the connections in proposed that have no equivalent in
// existing, in their original order. Two connections are equivalent when
// they join the same unordered pair of pins; color is ignored.
//
// Equivalent entries within proposed itself are not collapsed: a batch that
// names the same wire twice yields it twice. Callers that need a clean batch
// run Dedupe again with the first result as existing.
//
// Every proposed connection is validated before any filtering; a malformed
// entry fails the whole call with circuit.ErrInvalidInput.
func Dedupe(proposed, existing []circuit.Connection) ([]circuit.Connection, error) {
	for i, c := range proposed {
		if err := circuit.ValidateConnection(c); err != nil {
			return nil, fmt.Errorf("wiring: connection %d: %w", i, err)
		}
	}

	seen := make(map[wireKey]struct{}, len(existing))
	for _, c := range existing {
		seen[keyOf(c)] = struct{}{}
	}

	out := make([]circuit.Connection, 0, len(proposed))
	for _, c := range proposed {
		if _, dup := seen[keyOf(c)]; dup {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

// wireKey is the canonical unordered form of a connection's endpoints.
type wireKey struct {
	a, b circuit.PinRef
}

func keyOf(c circuit.Connection) wireKey {
	a, b := c.From, c.To
	if less(b, a) {
		a, b = b, a
	}
	return wireKey{a: a, b: b}
}

func less(x, y circuit.PinRef) bool {
	if x.NodeID != y.NodeID {
		return x.NodeID < y.NodeID
	}
	return x.PinIndex < y.PinIndex
}
