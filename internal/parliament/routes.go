package parliament

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func SetupRoutes() http.Handler {
	r := chi.NewRouter()

	r.Get("/compass", CompassMotionsHandler)
	r.Get("/{motion_id}", MotionDetailsHandler)

	return r
}
