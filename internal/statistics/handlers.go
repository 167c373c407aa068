package statistics

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/VoteCompass/VC-Backend/internal/db"
	"github.com/VoteCompass/VC-Backend/internal/parliament"
	"github.com/VoteCompass/VC-Backend/internal/utils"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func activeParties(ctx context.Context) ([]parliament.Party, error) {
	var parties []parliament.Party
	err := db.DB.WithContext(ctx).Where("active_to IS NULL").Find(&parties).Error
	return parties, err
}

// viewRows loads majority-view rows, pushed down to the window when given.
func viewRows(ctx context.Context, window utils.DateRange) ([]parliament.PartyVoteMajority, error) {
	query := db.DB.WithContext(ctx).Model(&parliament.PartyVoteMajority{})
	if window.From != nil {
		query = query.Where("submitted_at >= ?", *window.From)
	}
	if window.To != nil {
		query = query.Where("submitted_at <= ?", *window.To)
	}
	var rows []parliament.PartyVoteMajority
	err := query.Find(&rows).Error
	return rows, err
}

// LikenessMatrixHandler returns the pairwise likeness of all active
// parties, expanded to both directions of each pair.
func LikenessMatrixHandler(w http.ResponseWriter, r *http.Request) {
	window, err := utils.ParseDateRange(r.URL.Query())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	parties, err := activeParties(r.Context())
	if err != nil {
		http.Error(w, "Failed to fetch parties: "+err.Error(), http.StatusInternalServerError)
		return
	}
	rows, err := viewRows(r.Context(), window)
	if err != nil {
		http.Error(w, "Failed to fetch vote aggregates: "+err.Error(), http.StatusInternalServerError)
		return
	}

	pairs := LikenessPairs(rows, parties, window)

	// Copy each pair value to both directions for display.
	matrix := make(map[string]map[string]float64, len(parties))
	for _, p := range parties {
		matrix[p.ID.String()] = map[string]float64{}
	}
	for _, pair := range pairs {
		matrix[pair.Party1ID.String()][pair.Party2ID.String()] = pair.Likeness
		matrix[pair.Party2ID.String()][pair.Party1ID.String()] = pair.Likeness
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"parties": parties,
		"pairs":   pairs,
		"matrix":  matrix,
	})
}

func partyOr404(w http.ResponseWriter, r *http.Request) (parliament.Party, bool) {
	partyID, err := uuid.Parse(chi.URLParam(r, "party_id"))
	if err != nil {
		http.Error(w, "Invalid party id", http.StatusBadRequest)
		return parliament.Party{}, false
	}

	var party parliament.Party
	err = db.DB.WithContext(r.Context()).First(&party, "id = ?", partyID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		http.Error(w, "Party not found", http.StatusNotFound)
		return parliament.Party{}, false
	}
	if err != nil {
		http.Error(w, "Failed to fetch party: "+err.Error(), http.StatusInternalServerError)
		return parliament.Party{}, false
	}
	return party, true
}

// PartyFocusHandler returns motion counts per category for motions the
// party primarily submitted.
func PartyFocusHandler(w http.ResponseWriter, r *http.Request) {
	window, err := utils.ParseDateRange(r.URL.Query())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	party, ok := partyOr404(w, r)
	if !ok {
		return
	}

	query := db.DB.WithContext(r.Context()).Model(&parliament.Motion{}).
		Preload("Categories").
		Where("submitter_id = ?", party.ID)
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
	json.NewEncoder(w).Encode(map[string]any{
		"party": party,
		"focus": FocusByCategory(motions),
	})
}

// PartyCategoryLikenessHandler returns one party's per-category likeness
// against every other active party.
func PartyCategoryLikenessHandler(w http.ResponseWriter, r *http.Request) {
	window, err := utils.ParseDateRange(r.URL.Query())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	party, ok := partyOr404(w, r)
	if !ok {
		return
	}

	others, err := activeParties(r.Context())
	if err != nil {
		http.Error(w, "Failed to fetch parties: "+err.Error(), http.StatusInternalServerError)
		return
	}
	rows, err := viewRows(r.Context(), window)
	if err != nil {
		http.Error(w, "Failed to fetch vote aggregates: "+err.Error(), http.StatusInternalServerError)
		return
	}

	categoriesByMotion, err := MotionCategories(r.Context(), rows)
	if err != nil {
		http.Error(w, "Failed to fetch categories: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"party":    party,
		"likeness": CategoryLikeness(rows, categoriesByMotion, party.ID, others, window),
	})
}

// MotionCategories loads the category tags of every motion present in the
// given view rows.
func MotionCategories(ctx context.Context, rows []parliament.PartyVoteMajority) (map[uuid.UUID][]parliament.Category, error) {
	seen := make(map[uuid.UUID]bool)
	var motionIDs []uuid.UUID
	for _, row := range rows {
		if !seen[row.MotionID] {
			seen[row.MotionID] = true
			motionIDs = append(motionIDs, row.MotionID)
		}
	}
	out := make(map[uuid.UUID][]parliament.Category, len(motionIDs))
	if len(motionIDs) == 0 {
		return out, nil
	}

	var motions []parliament.Motion
	if err := db.DB.WithContext(ctx).Preload("Categories").
		Where("id IN ?", motionIDs).Find(&motions).Error; err != nil {
		return nil, err
	}
	for _, m := range motions {
		out[m.ID] = m.Categories
	}
	return out, nil
}
