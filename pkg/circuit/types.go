// Package circuit defines the circuit graph model shared by the catalog,
// wiring, netlist and storage layers: nodes (placed component instances),
// their pins, and the pin-to-pin connections between them.
package circuit

import "strings"

// PinRef addresses one pin of one node instance by zero-based index.
type PinRef struct {
	NodeID   string `json:"nodeId" yaml:"nodeId" validate:"required"`
	PinIndex int    `json:"pinIdx" yaml:"pinIdx" validate:"gte=0"`
}

// Connection is an undirected wire between two pins. Color is cosmetic and
// never takes part in equivalence.
type Connection struct {
	From  PinRef `json:"from" yaml:"from"`
	To    PinRef `json:"to" yaml:"to"`
	Color string `json:"color,omitempty" yaml:"color,omitempty"`
}

// Equivalent reports whether c and other describe the same physical wire,
// regardless of endpoint order.
func (c Connection) Equivalent(other Connection) bool {
	return (c.From == other.From && c.To == other.To) ||
		(c.From == other.To && c.To == other.From)
}

// PinDefinition describes one pin of a catalog component.
type PinDefinition struct {
	Name     string `json:"name" yaml:"name" validate:"required"`
	Category string `json:"category,omitempty" yaml:"category,omitempty"`
}

// Node is one placed component instance.
type Node struct {
	ID     string          `json:"id" yaml:"id" validate:"required"`
	Name   string          `json:"name,omitempty" yaml:"name,omitempty"`
	Type   string          `json:"type,omitempty" yaml:"type,omitempty"`
	Pins   []PinDefinition `json:"pins,omitempty" yaml:"pins,omitempty"`
	Width  float64         `json:"w,omitempty" yaml:"w,omitempty"`
	Height float64         `json:"h,omitempty" yaml:"h,omitempty"`
}

// DisplayName is the node name, or its type when the name is blank.
func (n Node) DisplayName() string {
	if strings.TrimSpace(n.Name) != "" {
		return n.Name
	}
	return n.Type
}

// Circuit is a persisted circuit graph.
type Circuit struct {
	ID          string       `json:"id" yaml:"id"`
	Name        string       `json:"name,omitempty" yaml:"name,omitempty"`
	Description string       `json:"description,omitempty" yaml:"description,omitempty"`
	AssetFolder string       `json:"assetFolder,omitempty" yaml:"assetFolder,omitempty"`
	Nodes       []Node       `json:"nodes" yaml:"nodes"`
	Connections []Connection `json:"connections" yaml:"connections"`
}

// Node returns the node with the given id.
func (c *Circuit) Node(id string) (Node, bool) {
	for _, n := range c.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// Clone returns a deep copy so callers can mutate without touching c.
func (c *Circuit) Clone() *Circuit {
	out := *c
	out.Nodes = make([]Node, len(c.Nodes))
	for i, n := range c.Nodes {
		n.Pins = append([]PinDefinition(nil), n.Pins...)
		out.Nodes[i] = n
	}
	out.Connections = append([]Connection(nil), c.Connections...)
	return &out
}
