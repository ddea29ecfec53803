package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Leumas-Tech/CircuitBuilder/internal/launch"
	"github.com/Leumas-Tech/CircuitBuilder/internal/service"
	"github.com/Leumas-Tech/CircuitBuilder/internal/store"
	"github.com/Leumas-Tech/CircuitBuilder/pkg/catalog"
	"github.com/Leumas-Tech/CircuitBuilder/pkg/circuit"
	"github.com/Leumas-Tech/CircuitBuilder/pkg/wiring"
)

func newTestServer(t *testing.T) (*httptest.Server, *[]string) {
	t.Helper()
	root := t.TempDir()

	st, err := store.NewFileStore(filepath.Join(root, "circuits"))
	require.NoError(t, err)

	componentsDir := filepath.Join(root, "components")
	cat := catalog.NewMemoryCatalog()
	for _, def := range []catalog.Definition{
		{Name: "LED", Type: "components", Pins: []circuit.PinDefinition{{Name: "A"}, {Name: "K"}}},
		{Name: "Resistor", Type: "components", Pins: []circuit.PinDefinition{{Name: "P1"}, {Name: "P2"}}},
	} {
		require.NoError(t, cat.Save(componentsDir, def, "", ""))
	}
	require.NoError(t, cat.LoadDir(componentsDir))

	var launched []string
	svc := service.New(service.Options{
		Store:   st,
		Catalog: cat,
		Launcher: &launch.Launcher{GOOS: "linux", Run: func(_ context.Context, name string, args ...string) error {
			launched = append(launched, name)
			return nil
		}},
		Logger:      zap.NewNop(),
		CircuitsDir: filepath.Join(root, "circuits"),
		AssetsDir:   filepath.Join(root, "assets"),
	})

	srv := httptest.NewServer(NewRouter(svc, zap.NewNop()).Setup())
	t.Cleanup(srv.Close)
	return srv, &launched
}

func do(t *testing.T, method, url, body string) (*http.Response, string) {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(data)
}

const blinkJSON = `{
	"id": "c1",
	"name": "Blink",
	"assetFolder": "blink",
	"nodes": [
		{"id": "n-1001", "name": "LED"},
		{"id": "n-1002", "name": "Resistor"}
	],
	"connections": [
		{"from": {"nodeId": "n-1001", "pinIdx": 0}, "to": {"nodeId": "n-1002", "pinIdx": 0}}
	]
}`

func TestCircuitLifecycle(t *testing.T) {
	srv, launched := newTestServer(t)

	resp, body := do(t, http.MethodGet, srv.URL+"/api/circuits", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[]`, body)

	resp, body = do(t, http.MethodPost, srv.URL+"/api/circuits", blinkJSON)
	require.Equal(t, http.StatusOK, resp.StatusCode, body)

	resp, body = do(t, http.MethodGet, srv.URL+"/api/circuits/c1", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var c circuit.Circuit
	require.NoError(t, json.Unmarshal([]byte(body), &c))
	assert.Equal(t, "Blink", c.Name)
	assert.Len(t, c.Connections, 1)

	resp, body = do(t, http.MethodGet, srv.URL+"/api/circuits/c1/kicad_netlist", "")
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "circuit_c1.net")
	assert.Contains(t, body, "(node (ref LED1001) (pin A))")
	assert.Contains(t, body, "(node (ref RESI1002) (pin P1))")

	resp, _ = do(t, http.MethodGet, srv.URL+"/api/circuits/c1/open_folder", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = do(t, http.MethodGet, srv.URL+"/api/circuits/c1/open_kicad", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []string{"xdg-open", "kicad"}, *launched)
}

func TestCircuitNotFound(t *testing.T) {
	srv, _ := newTestServer(t)

	for _, path := range []string{"/api/circuits/nope", "/api/circuits/nope/kicad_netlist", "/api/circuits/nope/open_folder"} {
		resp, body := do(t, http.MethodGet, srv.URL+path, "")
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, path)
		assert.Contains(t, body, `"error":true`)
	}
}

func TestSaveCircuitMalformed(t *testing.T) {
	srv, _ := newTestServer(t)
	resp, _ := do(t, http.MethodPost, srv.URL+"/api/circuits", `{"nodes": [`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestWireCircuit(t *testing.T) {
	srv, _ := newTestServer(t)
	resp, _ := do(t, http.MethodPost, srv.URL+"/api/circuits", blinkJSON)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := do(t, http.MethodPost, srv.URL+"/api/circuits/c1/connections", `{
		"connectionsToApply": [
			{"from": {"nodeId": "n-1002", "pinIdx": 0}, "to": {"nodeId": "n-1001", "pinIdx": 0}},
			{"from": {"nodeId": "n-1001", "pinIdx": 1}, "to": {"nodeId": "n-1002", "pinIdx": 1}, "color": "black"}
		]
	}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, body)

	var res wiring.Result
	require.NoError(t, json.Unmarshal([]byte(body), &res))
	assert.Equal(t, "Generated 1 new connections.", res.Message)
	require.Len(t, res.NewConnections, 1)
	assert.Equal(t, "black", res.NewConnections[0].Color)
}

func TestDedupeEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, body := do(t, http.MethodPost, srv.URL+"/api/connections/dedupe", `{
		"connectionsToApply": [{"from": {"nodeId": "1", "pinIdx": 0}, "to": {"nodeId": "2", "pinIdx": 1}}],
		"currentConnections": [{"from": {"nodeId": "2", "pinIdx": 1}, "to": {"nodeId": "1", "pinIdx": 0}}]
	}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	assert.JSONEq(t, `{"status":"success","message":"Generated 0 new connections.","newConnections":[]}`, body)

	resp, _ = do(t, http.MethodPost, srv.URL+"/api/connections/dedupe", `{"currentConnections": []}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = do(t, http.MethodPost, srv.URL+"/api/connections/dedupe",
		`{"connectionsToApply": [{"from": {"nodeId": "1", "pinIdx": -2}, "to": {"nodeId": "2", "pinIdx": 1}}]}`)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestNetlistUnresolvedComponent(t *testing.T) {
	srv, _ := newTestServer(t)
	resp, _ := do(t, http.MethodPost, srv.URL+"/api/circuits",
		`{"id": "c2", "nodes": [{"id": "x", "name": "Servo"}], "connections": []}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := do(t, http.MethodGet, srv.URL+"/api/circuits/c2/kicad_netlist", "")
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, body, "unresolved component")
}

func TestComponentsEndpoints(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, body := do(t, http.MethodGet, srv.URL+"/api/components", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var defs []catalog.Definition
	require.NoError(t, json.Unmarshal([]byte(body), &defs))
	assert.Len(t, defs, 2)

	resp, body = do(t, http.MethodPost, srv.URL+"/api/components",
		`{"name": "Joystick", "type": "modules", "pins": [{"name": "VRx"}, {"name": "VRy"}, {"name": "SW"}]}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode, body)

	resp, body = do(t, http.MethodGet, srv.URL+"/api/components", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal([]byte(body), &defs))
	assert.Len(t, defs, 3)

	resp, _ = do(t, http.MethodPost, srv.URL+"/api/components", `{"name": "Nameless"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestCodeEndpoints(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, _ := do(t, http.MethodGet, srv.URL+"/api/circuit-code/blink", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, body := do(t, http.MethodPost, srv.URL+"/api/circuit-code/blink/main.ino", `{"content": "void loop() {}"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	assert.Equal(t, "File saved successfully.", body)

	resp, body = do(t, http.MethodGet, srv.URL+"/api/circuit-code/blink", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `["main.ino"]`, body)

	resp, body = do(t, http.MethodGet, srv.URL+"/api/circuit-code/blink/main.ino", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "void loop() {}", body)

	resp, _ = do(t, http.MethodPost, srv.URL+"/api/circuit-code/blink/main.ino", `{}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestStatusOf(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("x: %w", circuit.ErrNotFound), http.StatusNotFound},
		{circuit.ErrUnknownNode, http.StatusUnprocessableEntity},
		{circuit.ErrInvalidPinIndex, http.StatusUnprocessableEntity},
		{circuit.ErrDesignatorCollision, http.StatusUnprocessableEntity},
		{circuit.ErrUnresolvedComponent, http.StatusUnprocessableEntity},
		{errors.New("disk on fire"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, statusOf(tt.err), tt.err.Error())
	}
}
