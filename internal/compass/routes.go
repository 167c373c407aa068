package compass

import (
	"net/http"

	"github.com/VoteCompass/VC-Backend/internal/middleware"
	"github.com/go-chi/chi/v5"
)

func SetupRoutes(limiter *middleware.RateLimiter) http.Handler {
	r := chi.NewRouter()

	r.Get("/results/{session_id}", GetResultsHandler)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimitMiddleware(limiter))
		r.Post("/answers", SubmitAnswersHandler)
	})

	return r
}
