package netlist

import (
	"encoding/json"
	"fmt"

	"github.com/Leumas-Tech/CircuitBuilder/pkg/catalog"
	"github.com/Leumas-Tech/CircuitBuilder/pkg/circuit"
)

// Tool is written to the design header of exported netlists.
const Tool = "CircuitBuilder"

// Export synthesizes and encodes a whole circuit. The circuit name (or id)
// is recorded as the design source.
func Export(cat catalog.Catalog, c *circuit.Circuit) (string, error) {
	res, err := Synthesize(cat, c.Nodes, c.Connections)
	if err != nil {
		return "", err
	}
	source := c.Name
	if source == "" {
		source = c.ID
	}
	enc := Encoder{Source: source, Tool: Tool}
	return enc.Encode(c.Nodes, res.Designators, res.Nets)
}

// FileName is the name of a circuit's exported netlist file.
func FileName(circuitID string) string {
	return fmt.Sprintf("circuit_%s.net", circuitID)
}

// ExportJSON exports the synthesis result in a machine-readable form.
func (r *Result) ExportJSON() ([]byte, error) {
	if r == nil {
		return nil, fmt.Errorf("netlist: nothing synthesized")
	}

	output := struct {
		Version     string            `json:"version"`
		NetCount    int               `json:"net_count"`
		Designators map[string]string `json:"designators"`
		Nets        []*Net            `json:"nets"`
		GeneratedBy string            `json:"generated_by"`
	}{
		Version:     "1.0",
		NetCount:    len(r.Nets),
		Designators: r.Designators,
		Nets:        r.Nets,
		GeneratedBy: Tool,
	}

	return json.MarshalIndent(output, "", "  ")
}
