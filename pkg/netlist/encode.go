package netlist

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/Leumas-Tech/CircuitBuilder/pkg/circuit"
	"github.com/Leumas-Tech/CircuitBuilder/pkg/kicad/sexp/kicadsexp"
)

// FormatVersion is the KiCad netlist format revision written by Encode.
const FormatVersion = "D"

// Encoder writes KiCad netlists. The zero value writes no design header.
type Encoder struct {
	// Source and Tool, when set, are written to a (design ...) header.
	Source string
	Tool   string
}

// Encode writes a netlist with the zero Encoder.
func Encode(nodes []circuit.Node, designators map[string]string, nets []*Net) (string, error) {
	var e Encoder
	return e.Encode(nodes, designators, nets)
}

// Encode writes one component per node in node order and one net per code in
// ascending order. Equal inputs always produce identical output. Every node
// needs an entry in designators.
func (e *Encoder) Encode(nodes []circuit.Node, designators map[string]string, nets []*Net) (string, error) {
	var w kicadsexp.Writer

	w.Open("export")
	w.Inline("version", FormatVersion)

	if e.Source != "" || e.Tool != "" {
		w.Open("design")
		if e.Source != "" {
			w.InlineQuoted("source", e.Source)
		}
		if e.Tool != "" {
			w.InlineQuoted("tool", e.Tool)
		}
		w.Close()
	}

	w.Open("components")
	for _, n := range nodes {
		ref, ok := designators[n.ID]
		if !ok || ref == "" {
			return "", fmt.Errorf("netlist: %w: no designator for node %q", circuit.ErrInvalidInput, n.ID)
		}
		writeComponent(&w, n, ref)
	}
	w.Close()

	ordered := make([]*Net, len(nets))
	copy(ordered, nets)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Code < ordered[j].Code })

	w.Open("nets")
	for _, net := range ordered {
		w.Open("net")
		w.Inline("code", strconv.Itoa(net.Code))
		w.InlineQuoted("name", net.Name)
		for _, p := range net.Pins {
			w.Open("node")
			w.Inline("ref", p.Ref)
			w.Inline("pin", p.Pin)
			w.Close()
		}
		w.Close()
	}
	w.Close()

	w.Close()
	return w.String(), nil
}

func writeComponent(w *kicadsexp.Writer, n circuit.Node, ref string) {
	name := n.DisplayName()

	w.Open("comp")
	w.Inline("ref", ref)

	w.Open("value", name)
	w.Close()

	w.Open("footprint", Footprint(n))
	w.Close()

	w.Open("libsource")
	w.Inline("lib", "Device:"+name)
	w.Inline("part", name)
	w.InlineQuoted("description", name)
	w.Close()

	w.Open("sheetpath")
	w.Inline("names", "/")
	w.Inline("tstamps", "/")
	w.Close()

	w.Open("tstamp", n.ID)
	w.Close()

	w.Close()
}

// Footprint returns the placeholder footprint of a node, derived from its
// name and its width and height in millimetres.
func Footprint(n circuit.Node) string {
	fp := "Package_DIP:" + stripSpace(n.DisplayName())
	if n.Width == 0 && n.Height == 0 {
		return fp
	}
	return fp + "_" + formatMM(n.Width) + "x" + formatMM(n.Height) + "mm"
}

func formatMM(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
