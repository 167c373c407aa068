package parliament

import (
	"encoding/json"
	"errors"
	"math/rand"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/VoteCompass/VC-Backend/internal/db"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PartyPositionView is a resolved position joined with its party's display
// data, as returned by the motion detail endpoint.
type PartyPositionView struct {
	PartyID      uuid.UUID `json:"party_id"`
	Name         string    `json:"name"`
	Abbreviation string    `json:"abbreviation"`
	Position     Position  `json:"position"`
	Weight       int       `json:"weight"`
}

func parseUUIDList(raw string) ([]uuid.UUID, error) {
	if raw == "" {
		return nil, nil
	}
	var ids []uuid.UUID
	for _, part := range strings.Split(raw, ",") {
		id, err := uuid.Parse(strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// CompassMotionsHandler picks candidate motions for a compass run, biased
// toward close historical vote splits. Only motions with an operative
// clause and at least one recorded party vote qualify.
func CompassMotionsHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	count := 20
	if v := q.Get("count"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 {
			http.Error(w, "Invalid count", http.StatusBadRequest)
			return
		}
		count = parsed
	}

	excludeIDs, err := parseUUIDList(q.Get("exclude_ids"))
	if err != nil {
		http.Error(w, "Invalid exclude_ids", http.StatusBadRequest)
		return
	}
	categoryIDs, err := parseUUIDList(q.Get("category_ids"))
	if err != nil {
		http.Error(w, "Invalid category_ids", http.StatusBadRequest)
		return
	}
	partyIDs, err := parseUUIDList(q.Get("party_ids"))
	if err != nil {
		http.Error(w, "Invalid party_ids", http.StatusBadRequest)
		return
	}

	query := db.DB.WithContext(r.Context()).Model(&Motion{}).
		Preload("Categories").
		Where("operative_clause <> ''")

	if v := q.Get("after"); v != "" {
		after, err := time.Parse("2006-01-02", v)
		if err != nil {
			http.Error(w, "Invalid after date, expected YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		query = query.Where("submitted_at > ?", after)
	}
	if search := q.Get("search"); search != "" {
		query = query.Where("title ILIKE ?", "%"+search+"%")
	}
	if len(excludeIDs) > 0 {
		query = query.Where("id NOT IN ?", excludeIDs)
	}
	if len(categoryIDs) > 0 {
		query = query.Distinct("parliament.motions.*").
			Joins("JOIN parliament.motion_categories mc ON mc.motion_id = parliament.motions.id").
			Where("mc.category_id IN ?", categoryIDs)
	}

	var motions []Motion
	if err := query.Find(&motions).Error; err != nil {
		http.Error(w, "Failed to fetch motions: "+err.Error(), http.StatusInternalServerError)
		return
	}

	motionIDs := make([]uuid.UUID, len(motions))
	for i, m := range motions {
		motionIDs[i] = m.ID
	}

	rowsByMotion := make(map[uuid.UUID][]PartyVoteMajority)
	if len(motionIDs) > 0 {
		var rows []PartyVoteMajority
		if err := db.DB.WithContext(r.Context()).Where("motion_id IN ?", motionIDs).Find(&rows).Error; err != nil {
			http.Error(w, "Failed to fetch vote aggregates: "+err.Error(), http.StatusInternalServerError)
			return
		}
		for _, row := range rows {
			rowsByMotion[row.MotionID] = append(rowsByMotion[row.MotionID], row)
		}
	}

	type candidate struct {
		motion Motion
		split  int
	}
	var candidates []candidate
	for _, m := range motions {
		rows := rowsByMotion[m.ID]
		if len(rows) == 0 {
			continue
		}
		if len(partyIDs) > 0 && !divisiveAmong(rows, partyIDs) {
			continue
		}
		forWeight, againstWeight := 0, 0
		for _, row := range rows {
			switch row.Position {
			case PositionFor:
				forWeight += row.Weight
			case PositionAgainst:
				againstWeight += row.Weight
			}
		}
		split := forWeight - againstWeight
		if split < 0 {
			split = -split
		}
		candidates = append(candidates, candidate{motion: m, split: split})
	}

	// Shuffle first so equal splits come out in random order, then the
	// stable sort keeps the closest splits in front.
	rand.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].split < candidates[j].split
	})

	if len(candidates) > count {
		candidates = candidates[:count]
	}
	selected := make([]Motion, len(candidates))
	for i, c := range candidates {
		selected[i] = c.motion
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(selected)
}

// divisiveAmong reports whether the named parties show more than one
// distinct position on the motion's view rows.
func divisiveAmong(rows []PartyVoteMajority, partyIDs []uuid.UUID) bool {
	wanted := make(map[uuid.UUID]bool, len(partyIDs))
	for _, id := range partyIDs {
		wanted[id] = true
	}
	seen := make(map[Position]bool)
	for _, row := range rows {
		if wanted[row.PartyID] {
			seen[row.Position] = true
		}
	}
	return len(seen) > 1
}

// MotionDetailsHandler returns one motion; ?votes=true adds resolved party
// positions computed from the current raw votes.
func MotionDetailsHandler(w http.ResponseWriter, r *http.Request) {
	motionID, err := uuid.Parse(chi.URLParam(r, "motion_id"))
	if err != nil {
		http.Error(w, "Invalid motion id", http.StatusBadRequest)
		return
	}

	var motion Motion
	err = db.DB.WithContext(r.Context()).
		Preload("Categories").
		Preload("Decisions").
		First(&motion, "id = ?", motionID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		http.Error(w, "Motion not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "Failed to fetch motion: "+err.Error(), http.StatusInternalServerError)
		return
	}

	if r.URL.Query().Get("votes") != "true" {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(motion)
		return
	}

	positions, parties, err := FetchPositions(r.Context(), []uuid.UUID{motionID})
	if err != nil {
		http.Error(w, "Failed to resolve votes: "+err.Error(), http.StatusInternalServerError)
		return
	}

	views := PositionViews(positions[motionID], parties)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(struct {
		Motion
		PartyPositions []PartyPositionView `json:"party_positions"`
	}{motion, views})
}

// PositionViews joins resolved positions with party display data, ordered
// by weight descending then party name.
func PositionViews(positions map[uuid.UUID]PartyPosition, parties []Party) []PartyPositionView {
	partyByID := make(map[uuid.UUID]Party, len(parties))
	for _, p := range parties {
		partyByID[p.ID] = p
	}

	views := make([]PartyPositionView, 0, len(positions))
	for partyID, pos := range positions {
		p, ok := partyByID[partyID]
		if !ok {
			continue
		}
		views = append(views, PartyPositionView{
			PartyID:      partyID,
			Name:         p.Name,
			Abbreviation: p.Abbreviation,
			Position:     pos.Position,
			Weight:       pos.Weight,
		})
	}
	sort.Slice(views, func(i, j int) bool {
		if views[i].Weight != views[j].Weight {
			return views[i].Weight > views[j].Weight
		}
		return views[i].Name < views[j].Name
	})
	return views
}
