package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/handlers"
	"github.com/webdir/client-provider-api/internal/api"
	"github.com/webdir/client-provider-api/internal/api/middleware"
)

// setupRouter builds the HTTP route tree: CRUD routes for clients and
// providers, trace/recovery middleware, and CORS for the SPA front-end
// served from a different origin.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(middleware.TraceMiddleware)
	r.Use(chimiddleware.Recoverer)

	clientHandler := api.NewClientHandler(app.directoryService, app.logger)
	providerHandler := api.NewProviderHandler(app.directoryService, app.logger)

	r.Route("/client", func(r chi.Router) {
		r.Get("/", clientHandler.ListClients)
		r.Post("/", clientHandler.AddClient)
		r.Get("/{id}", clientHandler.GetClient)
		r.Put("/{id}", clientHandler.UpdateClient)
		r.Delete("/{id}", clientHandler.DeleteClient)
	})

	r.Route("/provider", func(r chi.Router) {
		r.Get("/", providerHandler.ListProviders)
		r.Post("/", providerHandler.AddProvider)
		r.Put("/{id}", providerHandler.UpdateProvider)
		r.Delete("/{id}", providerHandler.DeleteProvider)
	})

	cors := handlers.CORS(
		handlers.AllowedOrigins(app.config.Server.CORSAllowedOrigins),
		handlers.AllowedMethods([]string{
			http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions,
		}),
		handlers.AllowedHeaders([]string{"Content-Type"}),
	)

	return cors(r)
}
