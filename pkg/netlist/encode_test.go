package netlist

import (
	"errors"
	"strings"
	"testing"

	"github.com/Leumas-Tech/CircuitBuilder/pkg/circuit"
)

const ledResistorNetlist = `(export (version D)
  (components
    (comp (ref LED1001)
      (value LED)
      (footprint Package_DIP:LED)
      (libsource (lib Device:LED) (part LED) (description "LED"))
      (sheetpath (names /) (tstamps /))
      (tstamp n-1001))
    (comp (ref RESI1002)
      (value Resistor)
      (footprint Package_DIP:Resistor)
      (libsource (lib Device:Resistor) (part Resistor) (description "Resistor"))
      (sheetpath (names /) (tstamps /))
      (tstamp n-1002)))
  (nets
    (net (code 1) (name "Net-(U1)")
      (node (ref LED1001) (pin A))
      (node (ref RESI1002) (pin P1)))))
`

func TestEncodeGolden(t *testing.T) {
	nodes := ledAndResistor()
	res, err := Synthesize(testCatalog(), nodes, []circuit.Connection{wire("n-1001", 0, "n-1002", 0)})
	if err != nil {
		t.Fatalf("Synthesize failed: %v", err)
	}

	got, err := Encode(nodes, res.Designators, res.Nets)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if got != ledResistorNetlist {
		t.Errorf("unexpected output:\n%s\nwant:\n%s", got, ledResistorNetlist)
	}
}

func TestEncodeDesignHeader(t *testing.T) {
	enc := Encoder{Source: "Blink demo", Tool: Tool}
	got, err := enc.Encode(nil, nil, nil)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	want := "(export (version D)\n" +
		"  (design (source \"Blink demo\") (tool \"CircuitBuilder\"))\n" +
		"  (components)\n" +
		"  (nets))\n"
	if got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestEncodeSortsNets(t *testing.T) {
	nodes := ledAndResistor()
	des := map[string]string{"n-1001": "LED1001", "n-1002": "RESI1002"}
	nets := []*Net{
		{Code: 2, Name: NetName(2), Pins: []PinKey{{"LED1001", "K"}}},
		{Code: 1, Name: NetName(1), Pins: []PinKey{{"LED1001", "A"}}},
	}

	got, err := Encode(nodes, des, nets)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if strings.Index(got, "(code 1)") > strings.Index(got, "(code 2)") {
		t.Errorf("nets not in code order:\n%s", got)
	}
	if nets[0].Code != 2 {
		t.Error("Encode must not reorder the caller's slice")
	}
}

func TestEncodeMissingDesignator(t *testing.T) {
	_, err := Encode(ledAndResistor(), map[string]string{"n-1001": "LED1001"}, nil)
	if !errors.Is(err, circuit.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestEncodeQuotesUnsafeAtoms(t *testing.T) {
	nodes := []circuit.Node{{ID: "u1", Name: "Arduino Uno"}}
	got, err := Encode(nodes, map[string]string{"u1": "ARDUu1"}, nil)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	for _, want := range []string{
		`(value "Arduino Uno")`,
		`(footprint Package_DIP:ArduinoUno)`,
		`(lib "Device:Arduino Uno")`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %s:\n%s", want, got)
		}
	}
}

func TestEncodeDeterministic(t *testing.T) {
	nodes := ledAndResistor()
	conns := []circuit.Connection{wire("n-1001", 0, "n-1002", 0), wire("n-1001", 1, "n-1002", 1)}

	var first string
	for i := 0; i < 5; i++ {
		out, err := Export(testCatalog(), &circuit.Circuit{ID: "c1", Nodes: nodes, Connections: conns})
		if err != nil {
			t.Fatalf("Export failed: %v", err)
		}
		if i == 0 {
			first = out
		} else if out != first {
			t.Fatalf("run %d differs:\n%s\nvs\n%s", i, out, first)
		}
	}
}
