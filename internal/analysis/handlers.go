package analysis

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/VoteCompass/VC-Backend/internal/db"
	"github.com/VoteCompass/VC-Backend/internal/parliament"
	"github.com/VoteCompass/VC-Backend/internal/statistics"
	"github.com/VoteCompass/VC-Backend/internal/utils"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DefaultDeviationLimit caps the deviation report when the caller does not
// ask for a specific count.
const DefaultDeviationLimit = 25

// CoalitionAlignmentHandler returns pairwise likeness within a date window
// for pairs meeting the minimum common-motion threshold.
func CoalitionAlignmentHandler(w http.ResponseWriter, r *http.Request) {
	window, err := utils.ParseDateRange(r.URL.Query())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var parties []parliament.Party
	if err := db.DB.WithContext(r.Context()).Where("active_to IS NULL").Find(&parties).Error; err != nil {
		http.Error(w, "Failed to fetch parties: "+err.Error(), http.StatusInternalServerError)
		return
	}

	var rows []parliament.PartyVoteMajority
	query := db.DB.WithContext(r.Context()).Model(&parliament.PartyVoteMajority{})
	if window.From != nil {
		query = query.Where("submitted_at >= ?", *window.From)
	}
	if window.To != nil {
		query = query.Where("submitted_at <= ?", *window.To)
	}
	if err := query.Find(&rows).Error; err != nil {
		http.Error(w, "Failed to fetch vote aggregates: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"parties": parties,
		"pairs":   CoalitionPairs(rows, parties, window),
	})
}

// MPDeviationsHandler reports members whose individual votes most often
// differ from their party's resolved majority.
func MPDeviationsHandler(w http.ResponseWriter, r *http.Request) {
	window, err := utils.ParseDateRange(r.URL.Query())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	limit := DefaultDeviationLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 {
			http.Error(w, "Invalid limit", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	var members []parliament.Member
	if err := db.DB.WithContext(r.Context()).Find(&members).Error; err != nil {
		http.Error(w, "Failed to fetch members: "+err.Error(), http.StatusInternalServerError)
		return
	}
	var parties []parliament.Party
	if err := db.DB.WithContext(r.Context()).Find(&parties).Error; err != nil {
		http.Error(w, "Failed to fetch parties: "+err.Error(), http.StatusInternalServerError)
		return
	}

	query := db.DB.WithContext(r.Context()).Model(&parliament.RawVote{}).
		Joins("JOIN parliament.decisions d ON d.id = parliament.raw_votes.decision_id").
		Joins("JOIN parliament.motions m ON m.id = d.motion_id")
	if window.From != nil {
		query = query.Where("m.submitted_at >= ?", *window.From)
	}
	if window.To != nil {
		query = query.Where("m.submitted_at <= ?", *window.To)
	}
	var votes []parliament.RawVote
	if err := query.Find(&votes).Error; err != nil {
		http.Error(w, "Failed to fetch votes: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(MemberDeviations(votes, members, parties, limit))
}

// TopicTrendsHandler returns per-category motion totals with accepted and
// rejected counts.
func TopicTrendsHandler(w http.ResponseWriter, r *http.Request) {
	window, err := utils.ParseDateRange(r.URL.Query())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	query := db.DB.WithContext(r.Context()).Model(&parliament.Motion{}).
		Preload("Categories").
		Preload("Decisions")
	if window.From != nil {
		query = query.Where("submitted_at >= ?", *window.From)
	}
	if window.To != nil {
		query = query.Where("submitted_at <= ?", *window.To)
	}

	var motions []parliament.Motion
	if err := query.Find(&motions).Error; err != nil {
		http.Error(w, "Failed to fetch motions: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(TopicTrends(motions))
}

// PartyTopicVotingHandler returns one party's FOR/AGAINST counts per
// category from the majority view.
func PartyTopicVotingHandler(w http.ResponseWriter, r *http.Request) {
	window, err := utils.ParseDateRange(r.URL.Query())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	partyID, err := uuid.Parse(chi.URLParam(r, "party_id"))
	if err != nil {
		http.Error(w, "Invalid party id", http.StatusBadRequest)
		return
	}
	var party parliament.Party
	err = db.DB.WithContext(r.Context()).First(&party, "id = ?", partyID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		http.Error(w, "Party not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "Failed to fetch party: "+err.Error(), http.StatusInternalServerError)
		return
	}

	query := db.DB.WithContext(r.Context()).Model(&parliament.PartyVoteMajority{}).
		Where("party_id = ?", party.ID)
	if window.From != nil {
		query = query.Where("submitted_at >= ?", *window.From)
	}
	if window.To != nil {
		query = query.Where("submitted_at <= ?", *window.To)
	}
	var rows []parliament.PartyVoteMajority
	if err := query.Find(&rows).Error; err != nil {
		http.Error(w, "Failed to fetch vote aggregates: "+err.Error(), http.StatusInternalServerError)
		return
	}

	categoriesByMotion, err := statistics.MotionCategories(r.Context(), rows)
	if err != nil {
		http.Error(w, "Failed to fetch categories: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"party":  party,
		"voting": PartyTopicVoting(rows, categoriesByMotion),
	})
}
