package org

import (
	"net/http"

	"github.com/NagarSeva/NS-Backend/internal/auth"
	"github.com/NagarSeva/NS-Backend/internal/middleware"
	"github.com/go-chi/chi/v5"
)

func SetupRoutes() http.Handler {
	r := chi.NewRouter()
	sessionFetcher := auth.SessionInfo{}

	r.Group(func(r chi.Router) {
		r.Use(middleware.SessionMiddleware(sessionFetcher))

		r.Get("/wards", ListWards)
		r.Get("/wards/{ward_id}", GetWard)
		r.Get("/roster", GetRoster)
	})

	// Admin routes - org data is maintained by the staff management side
	r.Group(func(r chi.Router) {
		r.Use(middleware.SessionMiddleware(sessionFetcher))
		r.Use(middleware.AdminMiddleware(sessionFetcher))

		r.Post("/wards", CreateWard)
		r.Post("/workers", CreateWorker)
	})

	return r
}
