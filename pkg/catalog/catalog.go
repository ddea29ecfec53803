// Package catalog resolves component names to their ordered pin lists.
//
// Component definitions live on disk as JSON files grouped by kind:
//
//	<root>/microcontrollers/arduino-uno.json
//	<root>/components/led.json
//	<root>/modules/joystick.json
//
// Each file holds {"name": ..., "type": ..., "pins": [{"name": ...}, ...]}.
// The catalog is an explicit value handed to whoever needs pin metadata;
// there is no package-level registry.
package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/Leumas-Tech/CircuitBuilder/pkg/circuit"
)

// ErrNotFound is returned by Lookup for unknown component names.
var ErrNotFound = fmt.Errorf("catalog: component %w", circuit.ErrNotFound)

// Kinds lists the component groups, in load order.
var Kinds = []string{"microcontrollers", "components", "modules"}

// Catalog knows how to look up the pin list of a component by name.
type Catalog interface {
	Lookup(name string) ([]circuit.PinDefinition, error)
}

// Definition is a single component definition as stored on disk.
type Definition struct {
	Name string                  `json:"name" validate:"required"`
	Type string                  `json:"type" validate:"required"`
	Pins []circuit.PinDefinition `json:"pins" validate:"required,dive"`
}

// MemoryCatalog is an in-memory Catalog, optionally backed by a directory.
type MemoryCatalog struct {
	mu   sync.RWMutex
	defs map[string]Definition
	root string
}

// NewMemoryCatalog creates an empty catalog.
func NewMemoryCatalog() *MemoryCatalog {
	return &MemoryCatalog{defs: make(map[string]Definition)}
}

// Add registers (or replaces) a definition under its name.
func (c *MemoryCatalog) Add(def Definition) {
	c.mu.Lock()
	defer c.mu.Unlock()
	def.Pins = append([]circuit.PinDefinition(nil), def.Pins...)
	c.defs[def.Name] = def
}

// Lookup implements Catalog. The returned slice is a copy.
func (c *MemoryCatalog) Lookup(name string) ([]circuit.PinDefinition, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	def, ok := c.defs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return append([]circuit.PinDefinition(nil), def.Pins...), nil
}

// Definition returns the full definition registered under name.
func (c *MemoryCatalog) Definition(name string) (Definition, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	def, ok := c.defs[name]
	return def, ok
}

// Components returns every definition sorted by kind, then name.
func (c *MemoryCatalog) Components() []Definition {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Definition, 0, len(c.defs))
	for _, def := range c.defs {
		out = append(out, def)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Type != out[j].Type {
			return out[i].Type < out[j].Type
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Len returns the number of registered components.
func (c *MemoryCatalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.defs)
}

// LoadDir replaces the catalog contents with the definitions found under
// root. Missing kind directories are skipped. A file that fails to parse
// aborts the load and leaves the previous contents in place.
func (c *MemoryCatalog) LoadDir(root string) error {
	defs := make(map[string]Definition)
	for _, kind := range Kinds {
		dir := filepath.Join(root, kind)
		entries, err := os.ReadDir(dir)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return fmt.Errorf("catalog: read %s: %w", dir, err)
		}
		for _, e := range entries {
			if e.IsDir() || !isDefinitionFile(e.Name()) {
				continue
			}
			path := filepath.Join(dir, e.Name())
			def, err := readDefinition(path)
			if err != nil {
				return err
			}
			// The directory decides the kind.
			def.Type = kind
			defs[def.Name] = def
		}
	}

	c.mu.Lock()
	c.defs = defs
	c.root = root
	c.mu.Unlock()
	return nil
}

// Reload re-reads the directory last passed to LoadDir.
func (c *MemoryCatalog) Reload() error {
	c.mu.RLock()
	root := c.root
	c.mu.RUnlock()
	if root == "" {
		return fmt.Errorf("catalog: no directory loaded")
	}
	return c.LoadDir(root)
}

// Root returns the directory last passed to LoadDir.
func (c *MemoryCatalog) Root() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.root
}

func isDefinitionFile(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".json")
}

func readDefinition(path string) (Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Definition{}, fmt.Errorf("catalog: read %s: %w", path, err)
	}
	var def Definition
	if err := json.Unmarshal(data, &def); err != nil {
		return Definition{}, fmt.Errorf("catalog: parse %s: %w", path, err)
	}
	if def.Name == "" {
		return Definition{}, fmt.Errorf("catalog: %s: missing component name", path)
	}
	return def, nil
}
