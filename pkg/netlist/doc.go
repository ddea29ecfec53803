// Package netlist turns a circuit graph into a KiCad netlist.
//
// # Overview
//
// Export runs in two steps over an immutable snapshot of a circuit:
//  1. Synthesize resolves every node's pins through a catalog.Catalog,
//     derives a reference designator per node, and groups pins into nets
//     (maximal sets of pins joined directly or transitively by connections).
//  2. Encode writes components and nets as a KiCad "version D" netlist.
//
// Decode reads such a netlist back into components and nets.
//
// # Usage
//
//	cat := catalog.NewMemoryCatalog()
//	if err := cat.LoadDir("components"); err != nil {
//		return err
//	}
//	res, err := netlist.Synthesize(cat, c.Nodes, c.Connections)
//	if err != nil {
//		return err
//	}
//	text, err := netlist.Encode(c.Nodes, res.Designators, res.Nets)
//
// # Reference designators
//
// A designator is the first four characters of the upper-cased node name
// (whitespace removed) followed by the last four characters of the node id:
// node {id: "1002", name: "Resistor"} becomes RESI1002. The scheme is not
// collision free; Synthesize fails with circuit.ErrDesignatorCollision rather
// than merging the nets of two different nodes that share a designator.
//
// # Net numbering
//
// Connections are processed in input order with a disjoint-set structure.
// A connection whose pins are both new opens a net with the next code; a
// connection that bridges two nets keeps the lower code and appends the
// other net's pins. Codes that disappear through merges are compacted, so
// the final codes are 1..n in order of first appearance. Which pins share a
// net never depends on connection order; the codes and pin order do.
//
// # Concurrency
//
// Synthesize, Encode and Decode keep no state between calls and never
// modify their arguments, so they are safe for concurrent use.
package netlist
