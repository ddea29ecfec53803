package wiring

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/Leumas-Tech/CircuitBuilder/pkg/circuit"
)

// Request is the wireComponents call shape: a batch of proposed connections
// and, optionally, the circuit's current connections.
type Request struct {
	ConnectionsToApply []circuit.Connection `json:"connectionsToApply"`
	CurrentConnections []circuit.Connection `json:"currentConnections,omitempty"`
	Nodes              []circuit.Node       `json:"nodes,omitempty"`
}

// Result reports the outcome of a wiring request.
type Result struct {
	Status         string               `json:"status"`
	Message        string               `json:"message"`
	NewConnections []circuit.Connection `json:"newConnections"`
}

// DecodeRequest parses a JSON wiring request. A missing, null or non-array
// connectionsToApply is rejected with circuit.ErrInvalidInput, as is any
// entry that does not have the connection shape.
func DecodeRequest(data []byte) (*Request, error) {
	var raw struct {
		ConnectionsToApply json.RawMessage `json:"connectionsToApply"`
		CurrentConnections json.RawMessage `json:"currentConnections"`
		Nodes              json.RawMessage `json:"nodes"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("wiring: %w: %v", circuit.ErrInvalidInput, err)
	}

	trimmed := bytes.TrimSpace(raw.ConnectionsToApply)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, fmt.Errorf("wiring: %w: missing or invalid \"connectionsToApply\" array", circuit.ErrInvalidInput)
	}

	req := &Request{}
	if err := decodeStrict(trimmed, &req.ConnectionsToApply); err != nil {
		return nil, fmt.Errorf("wiring: %w: connectionsToApply: %v", circuit.ErrInvalidInput, err)
	}
	if len(bytes.TrimSpace(raw.CurrentConnections)) > 0 && string(bytes.TrimSpace(raw.CurrentConnections)) != "null" {
		if err := decodeStrict(raw.CurrentConnections, &req.CurrentConnections); err != nil {
			return nil, fmt.Errorf("wiring: %w: currentConnections: %v", circuit.ErrInvalidInput, err)
		}
	}
	if len(bytes.TrimSpace(raw.Nodes)) > 0 && string(bytes.TrimSpace(raw.Nodes)) != "null" {
		if err := json.Unmarshal(raw.Nodes, &req.Nodes); err != nil {
			return nil, fmt.Errorf("wiring: %w: nodes: %v", circuit.ErrInvalidInput, err)
		}
	}
	return req, nil
}

// decodeStrict requires every element to carry both endpoints.
func decodeStrict(data []byte, out *[]circuit.Connection) error {
	var items []struct {
		From  *circuit.PinRef `json:"from"`
		To    *circuit.PinRef `json:"to"`
		Color string          `json:"color"`
	}
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	conns := make([]circuit.Connection, 0, len(items))
	for i, it := range items {
		if it.From == nil || it.To == nil {
			return fmt.Errorf("entry %d: from and to are required", i)
		}
		conns = append(conns, circuit.Connection{From: *it.From, To: *it.To, Color: it.Color})
	}
	*out = conns
	return nil
}

// Apply runs Dedupe over a decoded request and reports the result in the
// wireComponents response shape.
func Apply(req *Request) (*Result, error) {
	fresh, err := Dedupe(req.ConnectionsToApply, req.CurrentConnections)
	if err != nil {
		return nil, err
	}
	return &Result{
		Status:         "success",
		Message:        fmt.Sprintf("Generated %d new connections.", len(fresh)),
		NewConnections: fresh,
	}, nil
}
