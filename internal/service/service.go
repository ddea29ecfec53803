// Package service implements the CircuitBuilder use cases on top of the
// circuit store, the pin catalog and the netlist engine.
package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Leumas-Tech/CircuitBuilder/internal/launch"
	"github.com/Leumas-Tech/CircuitBuilder/internal/store"
	"github.com/Leumas-Tech/CircuitBuilder/pkg/catalog"
	"github.com/Leumas-Tech/CircuitBuilder/pkg/circuit"
	"github.com/Leumas-Tech/CircuitBuilder/pkg/netlist"
	"github.com/Leumas-Tech/CircuitBuilder/pkg/wiring"
)

// Options configures a Service.
type Options struct {
	Store    store.Store
	Catalog  *catalog.MemoryCatalog
	Launcher *launch.Launcher
	Logger   *zap.Logger

	// CircuitsDir receives exported netlists as <id>/circuit_<id>.net.
	CircuitsDir string
	// AssetsDir holds one code folder per circuit.
	AssetsDir string
}

// Service coordinates circuit persistence, wiring and netlist export.
type Service struct {
	store    store.Store
	catalog  *catalog.MemoryCatalog
	launcher *launch.Launcher
	logger   *zap.Logger

	circuitsDir string
	assetsDir   string

	// Serializes read-modify-write cycles on circuits.
	mu sync.Mutex
}

// New creates a Service.
func New(opts Options) *Service {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	launcher := opts.Launcher
	if launcher == nil {
		launcher = launch.New("")
	}
	return &Service{
		store:       opts.Store,
		catalog:     opts.Catalog,
		launcher:    launcher,
		logger:      logger,
		circuitsDir: opts.CircuitsDir,
		assetsDir:   opts.AssetsDir,
	}
}

// Catalog returns the pin catalog used for export.
func (s *Service) Catalog() *catalog.MemoryCatalog {
	return s.catalog
}

// ListCircuits returns all stored circuits.
func (s *Service) ListCircuits(ctx context.Context) ([]*circuit.Circuit, error) {
	list, err := s.store.ListCircuits(ctx)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []*circuit.Circuit{}
	}
	return list, nil
}

// GetCircuit returns one circuit.
func (s *Service) GetCircuit(ctx context.Context, id string) (*circuit.Circuit, error) {
	if err := store.ValidateID(id); err != nil {
		return nil, err
	}
	return s.store.GetCircuit(ctx, id)
}

// SaveCircuit creates or replaces a circuit. A circuit without an id gets a
// new one. When the circuit names an asset folder, the folder is created.
func (s *Service) SaveCircuit(ctx context.Context, c *circuit.Circuit) (*circuit.Circuit, error) {
	if c == nil {
		return nil, fmt.Errorf("service: %w: missing circuit", circuit.ErrInvalidInput)
	}
	c = c.Clone()
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if c.Nodes == nil {
		c.Nodes = []circuit.Node{}
	}
	if c.Connections == nil {
		c.Connections = []circuit.Connection{}
	}
	for i, conn := range c.Connections {
		if err := circuit.ValidateConnection(conn); err != nil {
			return nil, fmt.Errorf("service: connection %d: %w", i, err)
		}
	}
	if c.AssetFolder != "" {
		if err := safeName(c.AssetFolder); err != nil {
			return nil, err
		}
	}

	s.mu.Lock()
	err := s.store.SaveCircuit(ctx, c)
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	if c.AssetFolder != "" {
		dir := filepath.Join(s.assetsDir, c.AssetFolder)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("service: failed to create asset folder: %w", err)
		}
		s.logger.Debug("Asset folder ready", zap.String("path", dir))
	}

	s.logger.Info("Circuit saved",
		zap.String("circuitID", c.ID),
		zap.Int("nodes", len(c.Nodes)),
		zap.Int("connections", len(c.Connections)),
	)
	return c, nil
}

// WireComponents adds the proposed connections that the circuit does not
// already have and saves it. The returned result lists the connections that
// were added.
func (s *Service) WireComponents(ctx context.Context, id string, proposed []circuit.Connection) (*wiring.Result, error) {
	if err := store.ValidateID(id); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.store.GetCircuit(ctx, id)
	if err != nil {
		return nil, err
	}

	res, err := wiring.Apply(&wiring.Request{
		ConnectionsToApply: proposed,
		CurrentConnections: c.Connections,
	})
	if err != nil {
		return nil, err
	}

	if len(res.NewConnections) > 0 {
		c.Connections = append(c.Connections, res.NewConnections...)
		if err := s.store.SaveCircuit(ctx, c); err != nil {
			return nil, err
		}
	}

	s.logger.Info("Circuit wired",
		zap.String("circuitID", id),
		zap.Int("proposed", len(proposed)),
		zap.Int("added", len(res.NewConnections)),
	)
	return res, nil
}

// Dedupe runs a stand-alone wireComponents request without touching any
// stored circuit.
func (s *Service) Dedupe(req *wiring.Request) (*wiring.Result, error) {
	return wiring.Apply(req)
}

// Netlist is an exported netlist and where it was written.
type Netlist struct {
	FileName string
	Path     string
	Content  string
}

// ExportNetlist builds the KiCad netlist of a circuit and writes it to the
// circuit's directory.
func (s *Service) ExportNetlist(ctx context.Context, id string) (*Netlist, error) {
	c, err := s.GetCircuit(ctx, id)
	if err != nil {
		return nil, err
	}

	content, err := netlist.Export(s.catalog, c)
	if err != nil {
		s.logger.Warn("Netlist export failed", zap.String("circuitID", id), zap.Error(err))
		return nil, err
	}

	dir := filepath.Join(s.circuitsDir, id)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("service: failed to create %s: %w", dir, err)
	}
	out := &Netlist{FileName: netlist.FileName(id)}
	out.Path = filepath.Join(dir, out.FileName)
	out.Content = content
	if err := os.WriteFile(out.Path, []byte(content), 0644); err != nil {
		return nil, fmt.Errorf("service: failed to write netlist: %w", err)
	}

	s.logger.Info("Netlist exported", zap.String("circuitID", id), zap.String("path", out.Path))
	return out, nil
}

// OpenFolder opens the circuit directory in the file manager.
func (s *Service) OpenFolder(ctx context.Context, id string) error {
	if err := store.ValidateID(id); err != nil {
		return err
	}
	dir := filepath.Join(s.circuitsDir, id)
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return fmt.Errorf("service: circuit folder %s: %w", id, circuit.ErrNotFound)
	}
	if err := s.launcher.OpenFolder(ctx, dir); err != nil {
		s.logger.Error("Failed to open folder", zap.String("path", dir), zap.Error(err))
		return err
	}
	return nil
}

// OpenKiCad exports the netlist of a circuit and opens it in KiCad.
func (s *Service) OpenKiCad(ctx context.Context, id string) error {
	nl, err := s.ExportNetlist(ctx, id)
	if err != nil {
		return err
	}
	if err := s.launcher.OpenKiCad(ctx, nl.Path); err != nil {
		s.logger.Error("Failed to open KiCad", zap.String("path", nl.Path), zap.Error(err))
		return err
	}
	return nil
}

// ListComponents returns every catalog definition.
func (s *Service) ListComponents() []catalog.Definition {
	return s.catalog.Components()
}

// SaveComponent writes a component definition to the catalog directory.
func (s *Service) SaveComponent(def catalog.Definition, originalName, originalType string) error {
	root := s.catalog.Root()
	if root == "" {
		return errors.New("service: component catalog has no directory")
	}
	if err := s.catalog.Save(root, def, originalName, originalType); err != nil {
		return err
	}
	s.logger.Info("Component saved", zap.String("name", def.Name), zap.String("type", def.Type))
	return nil
}
