package api

import (
	"net/http"

	"github.com/erazemk/inventura/internal/kit"
	"github.com/erazemk/inventura/internal/projection"
)

// KitHandler runs kit reconciliation against the configured template file.
type KitHandler struct {
	Pipeline     *projection.Pipeline
	TemplatePath string
}

// Check handles POST /api/kit/check. A template load failure only fails this
// request; item state is untouched.
func (h *KitHandler) Check(w http.ResponseWriter, r *http.Request) {
	template, err := kit.LoadTemplateFile(h.TemplatePath)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, err.Error())
		return
	}

	rows := h.Pipeline.Current()
	current := make([]string, 0, len(rows))
	for _, row := range rows {
		current = append(current, row.Code)
	}

	jsonResponse(w, http.StatusOK, kit.Reconcile(template, current))
}
