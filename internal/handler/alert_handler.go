package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"dealer-admin-console/internal/console"
	"dealer-admin-console/internal/middleware"
	"dealer-admin-console/internal/model"
)

type AlertHandler struct {
	manager *console.Manager
}

func NewAlertHandler(manager *console.Manager) *AlertHandler {
	return &AlertHandler{manager: manager}
}

func (h *AlertHandler) List(w http.ResponseWriter, r *http.Request) {
	token, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		writeError(w, model.ErrSessionRequired)
		return
	}

	alerts := h.manager.Session(token).Alerts().Snapshot()
	writeSuccess(w, http.StatusOK, map[string]any{"alerts": alerts})
}

func (h *AlertHandler) Dismiss(w http.ResponseWriter, r *http.Request) {
	token, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		writeError(w, model.ErrSessionRequired)
		return
	}

	h.manager.Session(token).Alerts().Remove(chi.URLParam(r, "id"))
	writeSuccess(w, http.StatusOK, nil)
}

func (h *AlertHandler) Clear(w http.ResponseWriter, r *http.Request) {
	token, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		writeError(w, model.ErrSessionRequired)
		return
	}

	h.manager.Session(token).Alerts().Clear()
	writeSuccess(w, http.StatusOK, nil)
}
