package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/erazemk/inventura/internal/inventory"
)

// ScanHandler handles scan submissions and the scan-status snapshot.
type ScanHandler struct {
	Service *inventory.Service
}

type scanRequest struct {
	Code string `json:"code"`
}

type returnRequest struct {
	Code string `json:"code"`
}

// Scan handles POST /api/scan: one decoded code from a scanner station.
func (h *ScanHandler) Scan(w http.ResponseWriter, r *http.Request) {
	var req scanRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if strings.TrimSpace(req.Code) == "" {
		jsonError(w, http.StatusBadRequest, "code required")
		return
	}

	status, err := h.Service.Scan(r.Context(), req.Code)
	if err != nil {
		// The failure is already part of the visible status; report both.
		jsonResponse(w, http.StatusInternalServerError, status)
		return
	}
	jsonResponse(w, http.StatusOK, status)
}

// Status handles GET /api/scan/status.
func (h *ScanHandler) Status(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, http.StatusOK, h.Service.Status())
}

// Return handles POST /api/scan/return: an explicit return that bypasses the
// double-scan confirmation. Without a code in the body, the last scanned code
// is returned.
func (h *ScanHandler) Return(w http.ResponseWriter, r *http.Request) {
	var req returnRequest
	if r.ContentLength > 0 {
		if err := decodeJSON(r, &req); err != nil {
			jsonError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	var err error
	var status any
	if strings.TrimSpace(req.Code) == "" {
		status, err = h.Service.ReturnLast(r.Context())
	} else {
		status, err = h.Service.Return(r.Context(), strings.TrimSpace(req.Code))
	}
	if err != nil {
		// Returning with nothing scanned is a client-state problem, not a
		// server failure.
		if errors.Is(err, inventory.ErrNothingScanned) {
			jsonResponse(w, http.StatusConflict, status)
			return
		}
		jsonResponse(w, http.StatusInternalServerError, status)
		return
	}
	jsonResponse(w, http.StatusOK, status)
}
