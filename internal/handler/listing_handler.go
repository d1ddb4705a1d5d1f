package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"dealer-admin-console/internal/console"
	"dealer-admin-console/internal/entity"
	"dealer-admin-console/internal/export"
	"dealer-admin-console/internal/listing"
	"dealer-admin-console/internal/middleware"
	"dealer-admin-console/internal/model"
)

type ListingHandler struct {
	manager       *console.Manager
	encoder       export.SpreadsheetEncoder
	exportMaxRows int
}

func NewListingHandler(manager *console.Manager, encoder export.SpreadsheetEncoder, exportMaxRows int) *ListingHandler {
	return &ListingHandler{manager: manager, encoder: encoder, exportMaxRows: exportMaxRows}
}

// controller resolves the caller's session and the listing controller for the
// entity in the URL.
func (h *ListingHandler) controller(r *http.Request) (*console.Session, *listing.Controller, error) {
	token, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		return nil, nil, model.ErrSessionRequired
	}

	session := h.manager.Session(token)
	controller, err := session.Listing(chi.URLParam(r, "entity"), h.manager.Client(), h.manager.PageSize())
	if err != nil {
		return nil, nil, err
	}
	return session, controller, nil
}

func (h *ListingHandler) Snapshot(w http.ResponseWriter, r *http.Request) {
	_, controller, err := h.controller(r)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, controller.Snapshot())
}

func (h *ListingHandler) SetPage(w http.ResponseWriter, r *http.Request) {
	_, controller, err := h.controller(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var body struct {
		Page int `json:"page"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, err)
		return
	}

	controller.SetPage(body.Page)
	writeSuccess(w, http.StatusOK, controller.Snapshot())
}

func (h *ListingHandler) SetSearch(w http.ResponseWriter, r *http.Request) {
	_, controller, err := h.controller(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var body struct {
		Search string `json:"search"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, err)
		return
	}

	controller.SetSearch(body.Search)
	writeSuccess(w, http.StatusOK, controller.Snapshot())
}

func (h *ListingHandler) Sort(w http.ResponseWriter, r *http.Request) {
	_, controller, err := h.controller(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var body struct {
		Column *int `json:"column"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, err)
		return
	}
	if body.Column == nil || *body.Column < 0 {
		writeError(w, model.ErrInvalidInput)
		return
	}

	controller.ClickColumn(*body.Column)
	writeSuccess(w, http.StatusOK, controller.Snapshot())
}

func (h *ListingHandler) Facets(w http.ResponseWriter, r *http.Request) {
	_, controller, err := h.controller(r)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := controller.LoadFacets(r.Context()); err != nil {
		writeError(w, err)
		return
	}

	desc, _ := entity.Get(chi.URLParam(r, "entity"))
	store := controller.Facets()

	type facetView struct {
		Name   string   `json:"name"`
		Values []string `json:"values"`
	}

	views := make([]facetView, 0, len(desc.Facets))
	for _, facet := range desc.Facets {
		views = append(views, facetView{Name: facet.Name, Values: store.Values(facet.Name)})
	}

	writeSuccess(w, http.StatusOK, map[string]any{
		"facets":  views,
		"pending": store.Pending(),
	})
}

func (h *ListingHandler) ToggleFilter(w http.ResponseWriter, r *http.Request) {
	_, controller, err := h.controller(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var body struct {
		Facet    string `json:"facet"`
		Value    string `json:"value"`
		Selected bool   `json:"selected"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, err)
		return
	}
	if strings.TrimSpace(body.Facet) == "" {
		writeError(w, model.ErrInvalidInput)
		return
	}

	controller.Facets().Toggle(body.Facet, body.Value, body.Selected)
	writeSuccess(w, http.StatusOK, map[string]any{"pending": controller.Facets().Pending()})
}

func (h *ListingHandler) CommitFilters(w http.ResponseWriter, r *http.Request) {
	_, controller, err := h.controller(r)
	if err != nil {
		writeError(w, err)
		return
	}

	controller.CommitFilters()
	writeSuccess(w, http.StatusOK, controller.Snapshot())
}

func (h *ListingHandler) ToggleSelection(w http.ResponseWriter, r *http.Request) {
	_, controller, err := h.controller(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var body struct {
		ID       any  `json:"id"`
		Selected bool `json:"selected"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, err)
		return
	}
	if body.ID == nil {
		writeError(w, model.ErrInvalidInput)
		return
	}

	controller.ToggleSelection(body.ID, body.Selected)
	writeSuccess(w, http.StatusOK, controller.Snapshot())
}

func (h *ListingHandler) ClearSelection(w http.ResponseWriter, r *http.Request) {
	_, controller, err := h.controller(r)
	if err != nil {
		writeError(w, err)
		return
	}

	controller.ClearSelection()
	writeSuccess(w, http.StatusOK, controller.Snapshot())
}

func (h *ListingHandler) RequestDelete(w http.ResponseWriter, r *http.Request) {
	_, controller, err := h.controller(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var body struct {
		ID any `json:"id"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, err)
		return
	}
	if body.ID == nil {
		writeError(w, model.ErrInvalidInput)
		return
	}

	if err := controller.RequestDelete(body.ID); err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, controller.Snapshot())
}

func (h *ListingHandler) RequestBulkDelete(w http.ResponseWriter, r *http.Request) {
	_, controller, err := h.controller(r)
	if err != nil {
		writeError(w, err)
		return
	}

	controller.RequestBulkDelete()
	writeSuccess(w, http.StatusOK, controller.Snapshot())
}

func (h *ListingHandler) ConfirmDelete(w http.ResponseWriter, r *http.Request) {
	_, controller, err := h.controller(r)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := controller.ConfirmDelete(r.Context()); err != nil {
		if errors.Is(err, model.ErrNoPendingDelete) {
			writeError(w, err)
			return
		}
		// The alert queue already carries the failure toast; the snapshot
		// lets the caller render the unchanged rows alongside it.
		writeSuccess(w, http.StatusOK, controller.Snapshot())
		return
	}
	writeSuccess(w, http.StatusOK, controller.Snapshot())
}

func (h *ListingHandler) CancelDelete(w http.ResponseWriter, r *http.Request) {
	_, controller, err := h.controller(r)
	if err != nil {
		writeError(w, err)
		return
	}

	controller.CancelDelete()
	writeSuccess(w, http.StatusOK, controller.Snapshot())
}

func (h *ListingHandler) Export(w http.ResponseWriter, r *http.Request) {
	session, controller, err := h.controller(r)
	if err != nil {
		writeError(w, err)
		return
	}

	desc, _ := entity.Get(chi.URLParam(r, "entity"))

	format := export.Format(strings.ToLower(strings.TrimSpace(r.URL.Query().Get("format"))))
	if format == "" {
		format = export.FormatCSV
	}
	filename := r.URL.Query().Get("filename")

	token, _ := middleware.SessionFromContext(r.Context())
	pipeline := export.NewPipeline(h.manager.Client(), desc, h.encoder, h.exportMaxRows)

	file, err := pipeline.Export(r.Context(), format, controller.SearchValue(), filename, token)
	if err != nil {
		session.Alerts().Push(
			fmt.Sprintf("Unable to export the %s for the moment, please try again later!", desc.Plural),
			model.AlertError,
		)
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", file.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Name))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(file.Data)
}
