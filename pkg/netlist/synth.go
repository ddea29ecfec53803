package netlist

import (
	"fmt"
	"strconv"

	"github.com/Leumas-Tech/CircuitBuilder/pkg/catalog"
	"github.com/Leumas-Tech/CircuitBuilder/pkg/circuit"
)

// PinKey identifies a pin in exported output: a reference designator and a
// pin name. Pins of one node that share a name share a key.
type PinKey struct {
	Ref string `json:"ref"`
	Pin string `json:"pin"`
}

func (k PinKey) String() string {
	return k.Ref + "." + k.Pin
}

// Net is a maximal set of electrically equivalent pins.
type Net struct {
	Code int      `json:"code"`
	Name string   `json:"name"`
	Pins []PinKey `json:"pins"`
}

// ResolvedNode is a node with its catalog pins and designator.
type ResolvedNode struct {
	circuit.Node
	Ref string `json:"ref"`
}

// Result is the outcome of Synthesize.
type Result struct {
	Nodes       []ResolvedNode    `json:"nodes"`
	Designators map[string]string `json:"designators"`
	Nets        []*Net            `json:"nets"`
}

// Net returns the net with the given code.
func (r *Result) Net(code int) (*Net, bool) {
	for _, n := range r.Nets {
		if n.Code == code {
			return n, true
		}
	}
	return nil, false
}

// NetOf returns the net containing key.
func (r *Result) NetOf(key PinKey) (*Net, bool) {
	for _, n := range r.Nets {
		for _, p := range n.Pins {
			if p == key {
				return n, true
			}
		}
	}
	return nil, false
}

// Synthesize partitions the pins touched by conns into nets and assigns each
// node a reference designator. It fails without a partial result when a
// node's component is not in cat (circuit.ErrUnresolvedComponent), a
// connection names a pin index outside the node's pin list
// (circuit.ErrInvalidPinIndex) or a node that is not in nodes
// (circuit.ErrUnknownNode), or two nodes derive the same designator
// (circuit.ErrDesignatorCollision).
func Synthesize(cat catalog.Catalog, nodes []circuit.Node, conns []circuit.Connection) (*Result, error) {
	res := &Result{
		Nodes:       make([]ResolvedNode, 0, len(nodes)),
		Designators: make(map[string]string, len(nodes)),
	}

	byID := make(map[string]int, len(nodes))
	owner := make(map[string]string, len(nodes)) // designator -> node id

	for _, n := range nodes {
		if err := circuit.ValidateNode(n); err != nil {
			return nil, fmt.Errorf("netlist: %w", err)
		}
		if _, dup := byID[n.ID]; dup {
			return nil, fmt.Errorf("netlist: %w: duplicate node id %q", circuit.ErrInvalidInput, n.ID)
		}

		pins, err := cat.Lookup(n.DisplayName())
		if err != nil {
			return nil, fmt.Errorf("netlist: node %s: %w: %v", n.ID, circuit.ErrUnresolvedComponent, err)
		}

		ref := Designator(n)
		if other, taken := owner[ref]; taken {
			return nil, fmt.Errorf("netlist: %w: nodes %s and %s both map to %s",
				circuit.ErrDesignatorCollision, other, n.ID, ref)
		}
		owner[ref] = n.ID

		resolved := n
		resolved.Pins = pins
		byID[n.ID] = len(res.Nodes)
		res.Nodes = append(res.Nodes, ResolvedNode{Node: resolved, Ref: ref})
		res.Designators[n.ID] = ref
	}

	set := newNetSet()
	for i, c := range conns {
		from, err := res.pinKey(byID, c.From)
		if err != nil {
			return nil, fmt.Errorf("netlist: connection %d: %w", i, err)
		}
		to, err := res.pinKey(byID, c.To)
		if err != nil {
			return nil, fmt.Errorf("netlist: connection %d: %w", i, err)
		}
		set.connect(from, to)
	}

	res.Nets = set.nets()
	return res, nil
}

func (r *Result) pinKey(byID map[string]int, ref circuit.PinRef) (PinKey, error) {
	idx, ok := byID[ref.NodeID]
	if !ok {
		return PinKey{}, fmt.Errorf("%w %q", circuit.ErrUnknownNode, ref.NodeID)
	}
	node := r.Nodes[idx]
	if ref.PinIndex < 0 || ref.PinIndex >= len(node.Pins) {
		return PinKey{}, fmt.Errorf("%w: node %s has %d pins, got index %d",
			circuit.ErrInvalidPinIndex, ref.NodeID, len(node.Pins), ref.PinIndex)
	}
	return PinKey{Ref: node.Ref, Pin: node.Pins[ref.PinIndex].Name}, nil
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
