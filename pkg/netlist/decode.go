package netlist

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Leumas-Tech/CircuitBuilder/pkg/kicad/sexp"
	"github.com/Leumas-Tech/CircuitBuilder/pkg/kicad/sexp/kicadsexp"
)

// Component is a (comp ...) record read back from a netlist.
type Component struct {
	Ref         string `json:"ref"`
	Value       string `json:"value"`
	Footprint   string `json:"footprint,omitempty"`
	Lib         string `json:"lib,omitempty"`
	Part        string `json:"part,omitempty"`
	Description string `json:"description,omitempty"`
	Tstamp      string `json:"tstamp,omitempty"`
}

// Document is a decoded KiCad netlist.
type Document struct {
	Version    string      `json:"version"`
	Source     string      `json:"source,omitempty"`
	Tool       string      `json:"tool,omitempty"`
	Components []Component `json:"components"`
	Nets       []*Net      `json:"nets"`
}

// DecodeFile reads a netlist from a file path.
func DecodeFile(filename string) (*Document, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("netlist: failed to open file: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// DecodeString reads a netlist from a string.
func DecodeString(s string) (*Document, error) {
	return Decode(strings.NewReader(s))
}

// Decode reads a KiCad netlist.
func Decode(r io.Reader) (*Document, error) {
	sexps, err := kicadsexp.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("netlist: failed to parse s-expression: %w", err)
	}
	if len(sexps) != 1 {
		return nil, fmt.Errorf("netlist: expected one top-level expression, got %d", len(sexps))
	}

	root := sexps[0]
	name, err := sexp.GetNodeName(root)
	if err != nil {
		return nil, fmt.Errorf("netlist: failed to get root node name: %w", err)
	}
	if name != "export" {
		return nil, fmt.Errorf("netlist: not a KiCad netlist: expected 'export', got '%s'", name)
	}

	doc := &Document{}
	if v, err := sexp.GetChildString(root, "version"); err == nil {
		doc.Version = v
	}

	if design, ok := sexp.FindNode(root, "design"); ok {
		doc.Source, _ = sexp.GetChildString(design, "source")
		doc.Tool, _ = sexp.GetChildString(design, "tool")
	}

	if comps, ok := sexp.FindNode(root, "components"); ok {
		for i, c := range sexp.FindAllNodes(comps, "comp") {
			comp, err := decodeComponent(c)
			if err != nil {
				return nil, fmt.Errorf("netlist: component %d: %w", i, err)
			}
			doc.Components = append(doc.Components, comp)
		}
	}

	if nets, ok := sexp.FindNode(root, "nets"); ok {
		for i, n := range sexp.FindAllNodes(nets, "net") {
			net, err := decodeNet(n)
			if err != nil {
				return nil, fmt.Errorf("netlist: net %d: %w", i, err)
			}
			doc.Nets = append(doc.Nets, net)
		}
	}

	return doc, nil
}

func decodeComponent(s kicadsexp.Sexp) (Component, error) {
	ref, err := sexp.GetChildString(s, "ref")
	if err != nil {
		return Component{}, err
	}
	c := Component{Ref: ref}
	c.Value, _ = sexp.GetChildString(s, "value")
	c.Footprint, _ = sexp.GetChildString(s, "footprint")
	c.Tstamp, _ = sexp.GetChildString(s, "tstamp")
	if lib, ok := sexp.FindNode(s, "libsource"); ok {
		c.Lib, _ = sexp.GetChildString(lib, "lib")
		c.Part, _ = sexp.GetChildString(lib, "part")
		c.Description, _ = sexp.GetChildString(lib, "description")
	}
	return c, nil
}

func decodeNet(s kicadsexp.Sexp) (*Net, error) {
	codeNode, ok := sexp.FindNode(s, "code")
	if !ok {
		return nil, fmt.Errorf("missing (code ...)")
	}
	code, err := sexp.GetInt(codeNode, 1)
	if err != nil {
		return nil, err
	}
	net := &Net{Code: code}
	net.Name, _ = sexp.GetChildString(s, "name")
	for _, n := range sexp.FindAllNodes(s, "node") {
		ref, err := sexp.GetChildString(n, "ref")
		if err != nil {
			return nil, err
		}
		pin, err := sexp.GetChildString(n, "pin")
		if err != nil {
			return nil, err
		}
		net.Pins = append(net.Pins, PinKey{Ref: ref, Pin: pin})
	}
	return net, nil
}
