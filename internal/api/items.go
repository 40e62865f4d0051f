package api

import (
	"net/http"
	"strconv"

	"github.com/erazemk/inventura/internal/db"
	"github.com/erazemk/inventura/internal/imaging"
	"github.com/erazemk/inventura/internal/inventory"
	"github.com/erazemk/inventura/internal/model"
	"github.com/erazemk/inventura/internal/projection"
	"github.com/erazemk/inventura/internal/store"
)

// ItemsHandler handles the item list, per-item operations and photos.
type ItemsHandler struct {
	DB       *db.DB
	Service  *inventory.Service
	Pipeline *projection.Pipeline
}

type quantityRequest struct {
	Quantity *int `json:"quantity,omitempty"`
	Delta    *int `json:"delta,omitempty"`
}

// List handles GET /api/items: the current projected list.
func (h *ItemsHandler) List(w http.ResponseWriter, r *http.Request) {
	rows := h.Pipeline.Current()
	if rows == nil {
		rows = []model.ListRow{}
	}
	jsonResponse(w, http.StatusOK, rows)
}

// Get handles GET /api/items/{code}.
func (h *ItemsHandler) Get(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")
	item, err := store.GetItemByCode(r.Context(), h.DB, code)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get item")
		return
	}
	if item == nil {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}
	jsonResponse(w, http.StatusOK, item)
}

// Logs handles GET /api/items/{code}/logs: the item's history, newest first.
func (h *ItemsHandler) Logs(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")
	entries, err := store.LogsForCode(r.Context(), h.DB, code)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list logs")
		return
	}
	if entries == nil {
		entries = []model.LogEntry{}
	}
	jsonResponse(w, http.StatusOK, entries)
}

// Recent handles GET /api/logs?limit=.
func (h *ItemsHandler) Recent(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			jsonError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	entries, err := store.RecentLogs(r.Context(), h.DB, limit)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list logs")
		return
	}
	if entries == nil {
		entries = []model.LogEntry{}
	}
	jsonResponse(w, http.StatusOK, entries)
}

// Quantity handles PUT /api/items/{code}/quantity. The body carries either an
// absolute quantity or a delta of ±1. Once the write commits, the published
// list is patched so the station sees the change without waiting for the
// debounced authoritative refresh.
func (h *ItemsHandler) Quantity(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")

	var req quantityRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	switch {
	case req.Quantity != nil:
		q := *req.Quantity
		if q < 0 {
			q = 0
		}
		if err := h.Service.SetQuantity(r.Context(), code, q); err != nil {
			jsonError(w, http.StatusInternalServerError, "failed to set quantity")
			return
		}
		// Patch only after the commit. The patch still lands ahead of the
		// debounced authoritative refresh, and a failed write leaves the
		// published list untouched.
		h.Pipeline.PatchQuantity(code, q)
	case req.Delta != nil && *req.Delta == 1:
		if err := h.Service.IncQuantity(r.Context(), code); err != nil {
			jsonError(w, http.StatusInternalServerError, "failed to increment quantity")
			return
		}
		h.patchFromStore(r, code)
	case req.Delta != nil && *req.Delta == -1:
		if err := h.Service.DecQuantity(r.Context(), code); err != nil {
			jsonError(w, http.StatusInternalServerError, "failed to decrement quantity")
			return
		}
		h.patchFromStore(r, code)
	default:
		jsonError(w, http.StatusBadRequest, "quantity or delta of ±1 required")
		return
	}

	jsonResponse(w, http.StatusOK, map[string]string{"message": "quantity updated"})
}

// patchFromStore refreshes one row's quantity from the just-committed value.
func (h *ItemsHandler) patchFromStore(r *http.Request, code string) {
	item, err := store.GetItemByCode(r.Context(), h.DB, code)
	if err != nil || item == nil {
		return
	}
	h.Pipeline.PatchQuantity(code, item.Quantity)
}

// Reset handles POST /api/items/{code}/reset: zero the taken counter.
func (h *ItemsHandler) Reset(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")
	if err := h.Service.ResetTakenCount(r.Context(), code); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to reset taken count")
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "taken count reset"})
}

// ResetAll handles POST /api/items/reset.
func (h *ItemsHandler) ResetAll(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.ResetAllTakenCounts(r.Context()); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to reset taken counts")
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "all taken counts reset"})
}

// Delete handles DELETE /api/items/{code}?logs=true.
func (h *ItemsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")
	cascade := r.URL.Query().Get("logs") == "true"

	if err := h.Service.DeleteItem(r.Context(), code, cascade); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to delete item")
		return
	}
	h.Pipeline.PatchDelete(code)
	w.WriteHeader(http.StatusNoContent)
}

// UploadImage handles PUT /api/items/{code}/image.
func (h *ItemsHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")

	item, err := store.GetItemByCode(r.Context(), h.DB, code)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get item")
		return
	}
	if item == nil {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}

	photo, err := imaging.Process(r.Body)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := store.SetItemImage(r.Context(), h.DB, code, photo.Data, photo.MIME); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to store image")
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "image updated"})
}

// GetImage handles GET /api/items/{code}/image.
func (h *ItemsHandler) GetImage(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")

	data, mime, err := store.GetItemImage(r.Context(), h.DB, code)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get image")
		return
	}
	if len(data) == 0 {
		jsonError(w, http.StatusNotFound, "no image")
		return
	}

	w.Header().Set("Content-Type", mime)
	w.Write(data)
}
