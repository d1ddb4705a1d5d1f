package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"dealer-admin-console/internal/config"
	"dealer-admin-console/internal/handler"
	"dealer-admin-console/internal/middleware"
)

func New(
	cfg *config.Config,
	sessionMiddleware *middleware.Session,
	listingHandler *handler.ListingHandler,
	lookupHandler *handler.LookupHandler,
	formHandler *handler.FormHandler,
	alertHandler *handler.AlertHandler,
) http.Handler {
	r := chi.NewRouter()
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(cfg.RateLimitRPM, cfg.ExportRateLimitRPM)

	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.SecurityHeaders)
	r.Use(rateLimitMiddleware.Handler)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api/v1", func(api chi.Router) {
		api.Use(middleware.Timeout(cfg.RequestTimeout))
		api.Use(sessionMiddleware.Require)

		api.Route("/listings/{entity}", func(l chi.Router) {
			l.Get("/", listingHandler.Snapshot)
			l.Put("/page", listingHandler.SetPage)
			l.Put("/search", listingHandler.SetSearch)
			l.Post("/sort", listingHandler.Sort)
			l.Get("/facets", listingHandler.Facets)
			l.Post("/filters", listingHandler.ToggleFilter)
			l.Post("/filters/commit", listingHandler.CommitFilters)
			l.Post("/selection", listingHandler.ToggleSelection)
			l.Delete("/selection", listingHandler.ClearSelection)
			l.Post("/delete", listingHandler.RequestDelete)
			l.Post("/bulk-delete", listingHandler.RequestBulkDelete)
			l.Post("/delete/confirm", listingHandler.ConfirmDelete)
			l.Post("/delete/cancel", listingHandler.CancelDelete)
			l.Get("/export", listingHandler.Export)
		})

		api.Post("/forms/{entity}", formHandler.Create)
		api.Get("/lookup/{type}", lookupHandler.Options)

		api.Get("/alerts", alertHandler.List)
		api.Delete("/alerts/{id}", alertHandler.Dismiss)
		api.Delete("/alerts", alertHandler.Clear)
	})

	return r
}
