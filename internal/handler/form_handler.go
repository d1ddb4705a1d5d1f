package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"dealer-admin-console/internal/console"
	"dealer-admin-console/internal/entity"
	"dealer-admin-console/internal/middleware"
	"dealer-admin-console/internal/model"
	"dealer-admin-console/internal/validate"
	"dealer-admin-console/pkg/apierror"
)

// FormHandler validates create submissions against the entity's field rules
// and relays valid payloads to the backend. A submission that fails
// validation never reaches the network.
type FormHandler struct {
	manager *console.Manager
}

func NewFormHandler(manager *console.Manager) *FormHandler {
	return &FormHandler{manager: manager}
}

func (h *FormHandler) Create(w http.ResponseWriter, r *http.Request) {
	token, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		writeError(w, model.ErrSessionRequired)
		return
	}

	desc, found := entity.Get(chi.URLParam(r, "entity"))
	if !found {
		writeError(w, model.ErrUnknownEntity)
		return
	}

	var payload map[string]any
	if err := decodeBody(r, &payload); err != nil {
		writeError(w, err)
		return
	}

	coerced, err := validate.Payload(payload, desc.FormRules)
	if err != nil {
		var fieldErrors validate.Errors
		if errors.As(err, &fieldErrors) {
			writeError(w, apierror.Validation(
				"Please correct the highlighted fields.",
				fieldErrors,
				http.StatusUnprocessableEntity,
			))
			return
		}
		writeError(w, err)
		return
	}

	session := h.manager.Session(token)

	env, err := h.manager.Client().Post(r.Context(), desc.Endpoint+"/create", coerced, token)
	if err != nil {
		session.Alerts().Push("Failed, please try again later.", model.AlertError)
		writeError(w, err)
		return
	}
	if !env.OK() {
		session.Alerts().Push("Failed, please try again later.", model.AlertError)
		writeError(w, model.ErrBackendRejected)
		return
	}

	session.Alerts().Push(
		fmt.Sprintf("%s has been created.", strings.ToUpper(desc.Singular[:1])+desc.Singular[1:]),
		model.AlertSuccess,
	)
	writeSuccess(w, http.StatusCreated, map[string]any{"entity": desc.Name})
}
