package statistics

import (
	"sort"

	"github.com/VoteCompass/VC-Backend/internal/parliament"
	"github.com/VoteCompass/VC-Backend/internal/utils"
	"github.com/google/uuid"
)

// PartyLikeness is the agreement rate of one unordered party pair:
// the share of motions with positions from both where those positions are
// equal. Symmetric by construction.
type PartyLikeness struct {
	Party1ID      uuid.UUID `json:"party1_id"`
	Party2ID      uuid.UUID `json:"party2_id"`
	CommonMotions int       `json:"common_motions"`
	SameVotes     int       `json:"same_votes"`
	Likeness      float64   `json:"likeness"`
}

type PartyFocusCategory struct {
	CategoryID  uuid.UUID `json:"category_id"`
	Category    string    `json:"category"`
	MotionCount int       `json:"motion_count"`
}

type PartyCategoryLikeness struct {
	CategoryID    uuid.UUID `json:"category_id"`
	Category      string    `json:"category"`
	OtherPartyID  uuid.UUID `json:"other_party_id"`
	OtherParty    string    `json:"other_party"`
	CommonMotions int       `json:"common_motions"`
	Likeness      float64   `json:"likeness"`
}

// positionsByMotion indexes view rows inside the window as
// motion id → party id → position.
func positionsByMotion(rows []parliament.PartyVoteMajority, window utils.DateRange) map[uuid.UUID]map[uuid.UUID]parliament.Position {
	byMotion := make(map[uuid.UUID]map[uuid.UUID]parliament.Position)
	for _, row := range rows {
		if !window.Contains(row.SubmittedAt) {
			continue
		}
		m := byMotion[row.MotionID]
		if m == nil {
			m = make(map[uuid.UUID]parliament.Position)
			byMotion[row.MotionID] = m
		}
		m[row.PartyID] = row.Position
	}
	return byMotion
}

func pairLikeness(byMotion map[uuid.UUID]map[uuid.UUID]parliament.Position, a, b uuid.UUID) (common, same int) {
	for _, positions := range byMotion {
		pa, okA := positions[a]
		pb, okB := positions[b]
		if okA && okB {
			common++
			if pa == pb {
				same++
			}
		}
	}
	return common, same
}

func likenessPct(same, common int) float64 {
	if common == 0 {
		return 0
	}
	return utils.Round2(float64(same) / float64(common) * 100)
}

// LikenessPairs computes the likeness of every unordered pair of the given
// parties over the majority view rows inside the window. Pair iteration
// runs with party1 id < party2 id; callers wanting a full matrix copy each
// value to both directions.
func LikenessPairs(rows []parliament.PartyVoteMajority, parties []parliament.Party, window utils.DateRange) []PartyLikeness {
	byMotion := positionsByMotion(rows, window)

	sorted := append([]parliament.Party(nil), parties...)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].ID.String() < sorted[j].ID.String()
	})

	pairs := []PartyLikeness{}
	for i := 0; i < len(sorted); i++ {
		for j := i + 1; j < len(sorted); j++ {
			common, same := pairLikeness(byMotion, sorted[i].ID, sorted[j].ID)
			pairs = append(pairs, PartyLikeness{
				Party1ID:      sorted[i].ID,
				Party2ID:      sorted[j].ID,
				CommonMotions: common,
				SameVotes:     same,
				Likeness:      likenessPct(same, common),
			})
		}
	}
	return pairs
}

// FocusByCategory counts motions per category. The input is expected to be
// pre-filtered to motions the party primarily submitted.
func FocusByCategory(motions []parliament.Motion) []PartyFocusCategory {
	counts := make(map[uuid.UUID]*PartyFocusCategory)
	for _, m := range motions {
		for _, c := range m.Categories {
			f := counts[c.ID]
			if f == nil {
				f = &PartyFocusCategory{CategoryID: c.ID, Category: c.Title}
				counts[c.ID] = f
			}
			f.MotionCount++
		}
	}

	out := make([]PartyFocusCategory, 0, len(counts))
	for _, f := range counts {
		out = append(out, *f)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].MotionCount != out[j].MotionCount {
			return out[i].MotionCount > out[j].MotionCount
		}
		return out[i].Category < out[j].Category
	})
	return out
}

// CategoryLikeness computes one party's likeness against every other given
// party, separately per category, restricted to motions tagged with that
// category. Same symmetric ratio as the overall matrix, just scoped.
func CategoryLikeness(
	rows []parliament.PartyVoteMajority,
	categoriesByMotion map[uuid.UUID][]parliament.Category,
	partyID uuid.UUID,
	others []parliament.Party,
	window utils.DateRange,
) []PartyCategoryLikeness {
	byMotion := positionsByMotion(rows, window)

	// Regroup per category so each scope is its own sub-corpus.
	byCategory := make(map[uuid.UUID]map[uuid.UUID]map[uuid.UUID]parliament.Position)
	titles := make(map[uuid.UUID]string)
	for motionID, positions := range byMotion {
		for _, c := range categoriesByMotion[motionID] {
			scope := byCategory[c.ID]
			if scope == nil {
				scope = make(map[uuid.UUID]map[uuid.UUID]parliament.Position)
				byCategory[c.ID] = scope
				titles[c.ID] = c.Title
			}
			scope[motionID] = positions
		}
	}

	out := []PartyCategoryLikeness{}
	for categoryID, scope := range byCategory {
		for _, other := range others {
			if other.ID == partyID {
				continue
			}
			common, same := pairLikeness(scope, partyID, other.ID)
			if common == 0 {
				continue
			}
			out = append(out, PartyCategoryLikeness{
				CategoryID:    categoryID,
				Category:      titles[categoryID],
				OtherPartyID:  other.ID,
				OtherParty:    other.Name,
				CommonMotions: common,
				Likeness:      likenessPct(same, common),
			})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Category != out[j].Category {
			return out[i].Category < out[j].Category
		}
		return out[i].OtherParty < out[j].OtherParty
	})
	return out
}
