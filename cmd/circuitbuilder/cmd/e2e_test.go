package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const testCircuit = `{
  "id": "1001",
  "name": "Blink",
  "nodes": [
    {"id": "n-1001", "name": "LED", "w": 10, "h": 5},
    {"id": "n-1002", "name": "Resistor"}
  ],
  "connections": [
    {"from": {"nodeId": "n-1001", "pinIdx": 0}, "to": {"nodeId": "n-1002", "pinIdx": 0}}
  ]
}`

const testCircuitYAML = `id: "1001"
name: Blink
nodes:
  - id: n-1001
    name: LED
  - id: n-1002
    name: Resistor
connections:
  - from: {nodeId: n-1001, pinIdx: 1}
    to: {nodeId: n-1002, pinIdx: 1}
`

// setupWorkspace writes a component catalog and a circuit into a temp dir
// and isolates config lookup from the developer's machine.
func setupWorkspace(t *testing.T) (dir string) {
	t.Helper()
	dir = t.TempDir()

	t.Setenv("HOME", dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "xdg"))
	t.Setenv("CIRCUITBUILDER_CONFIG", "")

	files := map[string]string{
		"components/components/led.json":      `{"name": "LED", "type": "components", "pins": [{"name": "A"}, {"name": "K"}]}`,
		"components/components/resistor.json": `{"name": "Resistor", "type": "components", "pins": [{"name": "P1"}, {"name": "P2"}]}`,
		"circuit.json":                        testCircuit,
		"circuit.yaml":                        testCircuitYAML,
		"wires.txt":                           "# second leg\n\"n-1002\":0 -- \"n-1001\":0\n\"n-1001\":1 -- \"n-1002\":1 [black]\n",
	}
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func resetFlags() {
	verbose = false
	configPath = ""
	components = ""
	exportOutput = ""
	exportJSON = false
	wireDryRun = false
}

// run executes the root command and returns what it printed.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	var buf bytes.Buffer
	done := make(chan struct{})
	go func() {
		buf.ReadFrom(r)
		close(done)
	}()

	resetFlags()
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()

	w.Close()
	os.Stdout = old
	<-done
	return buf.String(), err
}

func TestExportE2E(t *testing.T) {
	dir := setupWorkspace(t)
	catalogDir := filepath.Join(dir, "components")

	tests := []struct {
		name        string
		args        []string
		wantErr     bool
		wantContain []string
	}{
		{
			name: "json circuit to stdout",
			args: []string{"export", "--components", catalogDir, filepath.Join(dir, "circuit.json")},
			wantContain: []string{
				"(export (version D)",
				`(design (source "Blink") (tool "CircuitBuilder"))`,
				"(footprint Package_DIP:LED_10x5mm)",
				"(node (ref LED1001) (pin A))",
				"(node (ref RESI1002) (pin P1))",
			},
		},
		{
			name:        "yaml circuit",
			args:        []string{"export", "--components", catalogDir, filepath.Join(dir, "circuit.yaml")},
			wantContain: []string{"(node (ref LED1001) (pin K))", "(node (ref RESI1002) (pin P2))"},
		},
		{
			name:        "json summary",
			args:        []string{"export", "--json", "--components", catalogDir, filepath.Join(dir, "circuit.json")},
			wantContain: []string{`"net_count": 1`, `"n-1002": "RESI1002"`},
		},
		{
			name:    "unknown component",
			args:    []string{"export", "--components", filepath.Join(dir, "empty"), filepath.Join(dir, "circuit.json")},
			wantErr: true,
		},
		{
			name:    "missing file",
			args:    []string{"export", "--components", catalogDir, filepath.Join(dir, "nope.json")},
			wantErr: true,
		},
		{
			name:    "missing argument",
			args:    []string{"export"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, err := run(t, tt.args...)
			if tt.wantErr {
				if err == nil {
					t.Errorf("Expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v\nOutput: %s", err, output)
			}
			for _, want := range tt.wantContain {
				if !strings.Contains(output, want) {
					t.Errorf("Output missing expected string: %q\nGot:\n%s", want, output)
				}
			}
		})
	}
}

func TestExportAndCheckE2E(t *testing.T) {
	dir := setupWorkspace(t)
	netFile := filepath.Join(dir, "blink.net")

	output, err := run(t, "export", "--components", filepath.Join(dir, "components"), "-o", netFile, filepath.Join(dir, "circuit.json"))
	if err != nil {
		t.Fatalf("export failed: %v\n%s", err, output)
	}
	if !strings.Contains(output, "Wrote "+netFile) {
		t.Errorf("unexpected output: %s", output)
	}

	output, err = run(t, "check", "-v", netFile)
	if err != nil {
		t.Fatalf("check failed: %v\n%s", err, output)
	}
	for _, want := range []string{"Components: 2", "Nets:       1", "Source:     Blink", "OK"} {
		if !strings.Contains(output, want) {
			t.Errorf("Output missing expected string: %q\nGot:\n%s", want, output)
		}
	}

	bad := filepath.Join(dir, "bad.net")
	os.WriteFile(bad, []byte("(export (components (comp (ref A1)))\n (nets (net (code 1) (name x) (node (ref B2) (pin 1)))))"), 0644)
	if _, err := run(t, "check", bad); err == nil || !strings.Contains(err.Error(), "unknown component B2") {
		t.Errorf("expected unknown component error, got %v", err)
	}

	os.WriteFile(bad, []byte("(export (version D)"), 0644)
	if _, err := run(t, "check", bad); err == nil {
		t.Error("expected error for unbalanced netlist")
	}
}

func TestWireE2E(t *testing.T) {
	dir := setupWorkspace(t)
	circuitFile := filepath.Join(dir, "circuit.json")
	wireFile := filepath.Join(dir, "wires.txt")

	output, err := run(t, "wire", "--dry-run", circuitFile, wireFile)
	if err != nil {
		t.Fatalf("wire failed: %v\n%s", err, output)
	}
	if !strings.Contains(output, "Generated 1 new connections.") || !strings.Contains(output, "n-1001:1 -- n-1002:1 [black]") {
		t.Errorf("unexpected output:\n%s", output)
	}
	if c, _ := readCircuit(circuitFile); len(c.Connections) != 1 {
		t.Fatalf("dry run modified the circuit: %d connections", len(c.Connections))
	}

	if _, err := run(t, "wire", circuitFile, wireFile); err != nil {
		t.Fatalf("wire failed: %v", err)
	}
	c, err := readCircuit(circuitFile)
	if err != nil {
		t.Fatal(err)
	}
	if len(c.Connections) != 2 || c.Connections[1].Color != "black" {
		t.Errorf("unexpected connections: %+v", c.Connections)
	}

	// A second run finds nothing new.
	output, err = run(t, "wire", circuitFile, wireFile)
	if err != nil {
		t.Fatalf("wire failed: %v", err)
	}
	if !strings.Contains(output, "Generated 0 new connections.") {
		t.Errorf("unexpected output:\n%s", output)
	}
}

func TestComponentsE2E(t *testing.T) {
	dir := setupWorkspace(t)

	output, err := run(t, "components", "-v", "--components", filepath.Join(dir, "components"))
	if err != nil {
		t.Fatalf("components failed: %v", err)
	}
	for _, want := range []string{"Found 2 component(s)", "components:", "LED", "0:P1 1:P2"} {
		if !strings.Contains(output, want) {
			t.Errorf("Output missing expected string: %q\nGot:\n%s", want, output)
		}
	}
}

func TestConfigFlag(t *testing.T) {
	dir := setupWorkspace(t)
	cfgFile := filepath.Join(dir, "cb.yaml")
	os.WriteFile(cfgFile, []byte("paths:\n  components: "+filepath.Join(dir, "components")+"\n"), 0644)

	output, err := run(t, "components", "--config", cfgFile)
	if err != nil {
		t.Fatalf("components failed: %v", err)
	}
	if !strings.Contains(output, "Found 2 component(s)") {
		t.Errorf("config not applied:\n%s", output)
	}

	os.WriteFile(cfgFile, []byte("store:\n  backend: nosql\n"), 0644)
	if _, err := run(t, "components", "--config", cfgFile); err == nil {
		t.Error("expected error for invalid config")
	}
}
