package statistics

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func SetupRoutes() http.Handler {
	r := chi.NewRouter()

	r.Get("/likeness", LikenessMatrixHandler)
	r.Get("/focus/{party_id}", PartyFocusHandler)
	r.Get("/category-likeness/{party_id}", PartyCategoryLikenessHandler)

	return r
}
