// Package store persists circuits.
//
// Two backends are available: FileStore keeps one circuit.json per circuit
// directory, SQLiteStore keeps circuits as JSON documents in a SQLite table.
package store

import (
	"context"
	"fmt"
	"regexp"

	"github.com/Leumas-Tech/CircuitBuilder/pkg/circuit"
)

// Store loads and saves circuit snapshots. Implementations are safe for
// concurrent use.
type Store interface {
	// ListCircuits returns every stored circuit ordered by id.
	ListCircuits(ctx context.Context) ([]*circuit.Circuit, error)
	// GetCircuit returns the circuit with the given id or an error matching
	// circuit.ErrNotFound.
	GetCircuit(ctx context.Context, id string) (*circuit.Circuit, error)
	// SaveCircuit creates or replaces a circuit.
	SaveCircuit(ctx context.Context, c *circuit.Circuit) error
	Close() error
}

var validID = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.-]*$`)

// ValidateID rejects ids that cannot be used as a directory name.
func ValidateID(id string) error {
	if !validID.MatchString(id) || len(id) > 128 {
		return fmt.Errorf("store: %w: bad circuit id %q", circuit.ErrInvalidInput, id)
	}
	return nil
}

func notFound(id string) error {
	return fmt.Errorf("store: circuit %q: %w", id, circuit.ErrNotFound)
}
