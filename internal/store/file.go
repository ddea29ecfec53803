package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/Leumas-Tech/CircuitBuilder/pkg/circuit"
)

// CircuitFile is the name of the circuit document inside its directory.
const CircuitFile = "circuit.json"

// FileStore keeps circuits as <root>/<id>/circuit.json.
type FileStore struct {
	mu   sync.RWMutex
	root string
}

// NewFileStore creates the root directory if needed.
func NewFileStore(root string) (*FileStore, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("store: failed to create %s: %w", root, err)
	}
	return &FileStore{root: root}, nil
}

// Dir returns the directory of a circuit.
func (s *FileStore) Dir(id string) string {
	return filepath.Join(s.root, id)
}

func (s *FileStore) ListCircuits(ctx context.Context) ([]*circuit.Circuit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, fmt.Errorf("store: failed to list %s: %w", s.root, err)
	}

	var out []*circuit.Circuit
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !e.IsDir() || ValidateID(e.Name()) != nil {
			continue
		}
		c, err := s.read(e.Name())
		if errors.Is(err, circuit.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *FileStore) GetCircuit(ctx context.Context, id string) (*circuit.Circuit, error) {
	if err := ValidateID(id); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read(id)
}

func (s *FileStore) read(id string) (*circuit.Circuit, error) {
	data, err := os.ReadFile(filepath.Join(s.Dir(id), CircuitFile))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("store: failed to read circuit %s: %w", id, err)
	}

	var c circuit.Circuit
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("store: failed to parse circuit %s: %w", id, err)
	}
	c.ID = id
	return &c, nil
}

func (s *FileStore) SaveCircuit(ctx context.Context, c *circuit.Circuit) error {
	if err := ValidateID(c.ID); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("store: failed to encode circuit %s: %w", c.ID, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	dir := s.Dir(c.ID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("store: failed to create %s: %w", dir, err)
	}

	// Write to a temp file first so readers never see a partial document.
	tmp, err := os.CreateTemp(dir, CircuitFile+".*")
	if err != nil {
		return fmt.Errorf("store: failed to save circuit %s: %w", c.ID, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("store: failed to save circuit %s: %w", c.ID, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("store: failed to save circuit %s: %w", c.ID, err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(dir, CircuitFile)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("store: failed to save circuit %s: %w", c.ID, err)
	}
	return nil
}

func (s *FileStore) Close() error { return nil }
