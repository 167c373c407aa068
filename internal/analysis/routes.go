package analysis

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func SetupRoutes() http.Handler {
	r := chi.NewRouter()

	r.Get("/coalitions", CoalitionAlignmentHandler)
	r.Get("/deviations", MPDeviationsHandler)
	r.Get("/topic-trends", TopicTrendsHandler)
	r.Get("/party-topic-voting/{party_id}", PartyTopicVotingHandler)

	return r
}
