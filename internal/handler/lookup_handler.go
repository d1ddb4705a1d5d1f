package handler

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"dealer-admin-console/internal/console"
	"dealer-admin-console/internal/depfield"
	"dealer-admin-console/internal/entity"
	"dealer-admin-console/internal/middleware"
	"dealer-admin-console/internal/model"
)

// LookupHandler serves dependent-field option lists. With a parent query
// parameter only the options bound to that parent value come back; without
// one only top-level options do.
type LookupHandler struct {
	manager *console.Manager
}

func NewLookupHandler(manager *console.Manager) *LookupHandler {
	return &LookupHandler{manager: manager}
}

func (h *LookupHandler) Options(w http.ResponseWriter, r *http.Request) {
	token, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		writeError(w, model.ErrSessionRequired)
		return
	}

	binding, found := entity.GetLookup(chi.URLParam(r, "type"))
	if !found {
		writeError(w, model.ErrUnknownLookup)
		return
	}

	env, err := h.manager.Client().Get(r.Context(), binding.Endpoint, nil, token)
	if err != nil {
		writeError(w, err)
		return
	}

	records, exists := env.Records(binding.PluralKey)
	if !exists {
		writeError(w, model.ErrBackendRejected)
		return
	}

	options := binding.Options(records)

	var parent any
	if raw := strings.TrimSpace(r.URL.Query().Get("parent")); raw != "" {
		parent = raw
	}

	writeSuccess(w, http.StatusOK, map[string]any{
		"options": depfield.Visible(options, parent),
	})
}
