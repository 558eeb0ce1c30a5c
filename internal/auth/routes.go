package auth

import (
	"net/http"

	"github.com/NagarSeva/NS-Backend/internal/middleware"
	"github.com/go-chi/chi/v5"
)

func SetupRoutes() http.Handler {
	r := chi.NewRouter()
	sessionFetcher := SessionInfo{}

	r.Post("/login", LoginHandler)
	r.Post("/register", RegisterHandler)

	r.Group(func(r chi.Router) {
		r.Use(middleware.SessionMiddleware(sessionFetcher))

		r.Post("/logout", LogoutHandler)
		r.Get("/me", MeHandler)
	})

	return r
}
