package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/Leumas-Tech/CircuitBuilder/pkg/circuit"
)

var (
	validate   = validator.New()
	whitespace = regexp.MustCompile(`\s+`)
)

// Slug returns the file stem used for a component name: lower case with
// whitespace runs replaced by dashes.
func Slug(name string) string {
	return whitespace.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "-")
}

// FileName returns the path of a definition relative to the catalog root.
func FileName(kind, name string) string {
	return filepath.Join(kind, Slug(name)+".json")
}

// Save writes def under root and registers it. When originalName or
// originalType differ from the new values, the old file is removed so a
// rename does not leave a stale definition behind.
func (c *MemoryCatalog) Save(root string, def Definition, originalName, originalType string) error {
	if err := validate.Struct(def); err != nil {
		return fmt.Errorf("catalog: %w: %v", circuit.ErrInvalidInput, err)
	}
	if !slices.Contains(Kinds, def.Type) {
		return fmt.Errorf("catalog: %w: unknown component type %q", circuit.ErrInvalidInput, def.Type)
	}
	if strings.ContainsAny(def.Name, `/\`) || Slug(def.Name) == "." || Slug(def.Name) == ".." {
		return fmt.Errorf("catalog: %w: invalid component name %q", circuit.ErrInvalidInput, def.Name)
	}

	dir := filepath.Join(root, def.Type)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("catalog: create %s: %w", dir, err)
	}

	data, err := json.MarshalIndent(def, "", "  ")
	if err != nil {
		return fmt.Errorf("catalog: encode %s: %w", def.Name, err)
	}
	path := filepath.Join(root, FileName(def.Type, def.Name))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("catalog: write %s: %w", path, err)
	}

	renamed := originalName != "" && originalType != "" &&
		(originalName != def.Name || originalType != def.Type)
	if renamed && slices.Contains(Kinds, originalType) {
		old := filepath.Join(root, FileName(originalType, originalName))
		if old != path {
			if err := os.Remove(old); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("catalog: remove %s: %w", old, err)
			}
		}
		c.mu.Lock()
		delete(c.defs, originalName)
		c.mu.Unlock()
	}

	c.Add(def)
	return nil
}
