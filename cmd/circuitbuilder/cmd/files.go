package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Leumas-Tech/CircuitBuilder/pkg/catalog"
	"github.com/Leumas-Tech/CircuitBuilder/pkg/circuit"
)

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// readCircuit loads a circuit document from JSON or, by extension, YAML.
func readCircuit(path string) (*circuit.Circuit, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read circuit: %w", err)
	}
	var c circuit.Circuit
	if isYAML(path) {
		err = yaml.Unmarshal(data, &c)
	} else {
		err = json.Unmarshal(data, &c)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse circuit %s: %w", path, err)
	}
	return &c, nil
}

// writeCircuit stores a circuit in the format its extension names.
func writeCircuit(path string, c *circuit.Circuit) error {
	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("failed to encode circuit: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

func loadCatalog(dir string) (*catalog.MemoryCatalog, error) {
	cat := catalog.NewMemoryCatalog()
	if err := cat.LoadDir(dir); err != nil {
		return nil, fmt.Errorf("failed to load components: %w", err)
	}
	if verbose {
		fmt.Printf("Loaded %d components from %s\n", cat.Len(), dir)
	}
	return cat, nil
}
