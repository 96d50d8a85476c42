package auth

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/time/rate"

	"github.com/endcrown/liberty-engine/internal/middleware"
)

// SetupRoutes mounts the auth endpoints. The mail confirmation callback is
// not included here; main mounts Handler.MailConfirm at the root so the
// mailed link stays short.
func SetupRoutes(h *Handler) http.Handler {
	verifier := AccessVerifier{Tokens: h.svc.Tokens()}

	r := chi.NewRouter()
	r.Post("/register", h.Register)
	r.With(middleware.RateLimitMiddleware(rate.Every(time.Second), 5)).Post("/login", h.Login)
	r.Post("/refresh", h.Refresh)

	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthMiddleware(verifier))
		r.Get("/me", h.Me)
		r.Post("/password", h.UpdatePassword)

		r.Group(func(r chi.Router) {
			r.Use(middleware.AdminMiddleware)
			r.Get("/users", h.Users)
		})
	})

	return r
}
