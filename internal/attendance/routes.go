package attendance

import (
	"net/http"

	"github.com/NagarSeva/NS-Backend/internal/auth"
	"github.com/NagarSeva/NS-Backend/internal/middleware"
	"github.com/go-chi/chi/v5"
)

func SetupRoutes(svc *Service) http.Handler {
	r := chi.NewRouter()
	sessionFetcher := auth.SessionInfo{}
	h := &Handlers{Svc: svc}

	// The role gate itself lives in the service's validator so the FORBIDDEN
	// reason code reaches the caller; routes only require a live session.
	r.Group(func(r chi.Router) {
		r.Use(middleware.SessionMiddleware(sessionFetcher))

		r.Post("/mark", h.MarkSingle)
		r.Post("/mark-all", h.MarkAll)
		r.Get("/today", h.Today)
	})

	return r
}
