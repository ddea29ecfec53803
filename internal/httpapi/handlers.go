package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/Leumas-Tech/CircuitBuilder/internal/service"
	"github.com/Leumas-Tech/CircuitBuilder/pkg/catalog"
	"github.com/Leumas-Tech/CircuitBuilder/pkg/circuit"
	"github.com/Leumas-Tech/CircuitBuilder/pkg/wiring"
)

const maxBodyBytes = 8 << 20

type handler struct {
	svc    *service.Service
	logger *zap.Logger
}

// SaveComponentRequest is the body of POST /api/components.
type SaveComponentRequest struct {
	catalog.Definition
	OriginalName string `json:"originalName,omitempty"`
	OriginalType string `json:"originalType,omitempty"`
}

// WriteCodeRequest is the body of POST /api/circuit-code/{folder}/{file}.
type WriteCodeRequest struct {
	Content *string `json:"content"`
}

func (h *handler) health(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handler) listCircuits(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.ListCircuits(r.Context())
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, list)
}

func (h *handler) getCircuit(w http.ResponseWriter, r *http.Request) {
	c, err := h.svc.GetCircuit(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, c)
}

func (h *handler) saveCircuit(w http.ResponseWriter, r *http.Request) {
	var c circuit.Circuit
	if !h.decode(w, r, &c) {
		return
	}
	saved, err := h.svc.SaveCircuit(r.Context(), &c)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, saved)
}

// wireCircuit accepts a wireComponents request body and applies the new
// connections to the stored circuit. currentConnections in the body is
// ignored; the stored circuit is authoritative.
func (h *handler) wireCircuit(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeWiring(w, r)
	if !ok {
		return
	}
	res, err := h.svc.WireComponents(r.Context(), chi.URLParam(r, "id"), req.ConnectionsToApply)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, res)
}

func (h *handler) dedupe(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeWiring(w, r)
	if !ok {
		return
	}
	res, err := h.svc.Dedupe(req)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, res)
}

func (h *handler) decodeWiring(w http.ResponseWriter, r *http.Request) (*wiring.Request, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return nil, false
	}
	req, err := wiring.DecodeRequest(body)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return nil, false
	}
	return req, true
}

func (h *handler) downloadNetlist(w http.ResponseWriter, r *http.Request) {
	nl, err := h.svc.ExportNetlist(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", `attachment; filename="`+nl.FileName+`"`)
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, nl.Content)
}

func (h *handler) openFolder(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.OpenFolder(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.respondServiceError(w, err)
		return
	}
	h.respondText(w, http.StatusOK, "Folder opened successfully.")
}

func (h *handler) openKiCad(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.OpenKiCad(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.respondServiceError(w, err)
		return
	}
	h.respondText(w, http.StatusOK, "KiCad opened successfully.")
}

func (h *handler) listComponents(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, h.svc.ListComponents())
}

func (h *handler) saveComponent(w http.ResponseWriter, r *http.Request) {
	var req SaveComponentRequest
	if !h.decode(w, r, &req) {
		return
	}
	if err := h.svc.SaveComponent(req.Definition, req.OriginalName, req.OriginalType); err != nil {
		h.respondServiceError(w, err)
		return
	}
	h.respondJSON(w, http.StatusCreated, req.Definition)
}

func (h *handler) listCode(w http.ResponseWriter, r *http.Request) {
	names, err := h.svc.ListCode(chi.URLParam(r, "assetFolder"))
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, names)
}

func (h *handler) readCode(w http.ResponseWriter, r *http.Request) {
	content, err := h.svc.ReadCode(chi.URLParam(r, "assetFolder"), chi.URLParam(r, "filename"))
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	h.respondText(w, http.StatusOK, content)
}

func (h *handler) writeCode(w http.ResponseWriter, r *http.Request) {
	var req WriteCodeRequest
	if !h.decode(w, r, &req) {
		return
	}
	if req.Content == nil {
		h.respondError(w, http.StatusBadRequest, "Missing \"content\"")
		return
	}
	if err := h.svc.WriteCode(chi.URLParam(r, "assetFolder"), chi.URLParam(r, "filename"), *req.Content); err != nil {
		h.respondServiceError(w, err)
		return
	}
	h.respondText(w, http.StatusOK, "File saved successfully.")
}

func (h *handler) decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return false
	}
	return true
}

// statusOf maps service errors to HTTP status codes.
func statusOf(err error) int {
	switch {
	case errors.Is(err, circuit.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, circuit.ErrInvalidInput),
		errors.Is(err, circuit.ErrInvalidPinIndex),
		errors.Is(err, circuit.ErrDesignatorCollision),
		errors.Is(err, circuit.ErrUnresolvedComponent):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (h *handler) respondServiceError(w http.ResponseWriter, err error) {
	status := statusOf(err)
	if status == http.StatusInternalServerError {
		h.logger.Error("Request failed", zap.Error(err))
		h.respondError(w, status, "Internal server error")
		return
	}
	h.respondError(w, status, err.Error())
}

func (h *handler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("Failed to encode response", zap.Error(err))
	}
}

func (h *handler) respondText(w http.ResponseWriter, status int, text string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	io.WriteString(w, text)
}

func (h *handler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]interface{}{
		"error":   true,
		"message": message,
		"code":    status,
	})
}
