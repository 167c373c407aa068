package parliament

import (
	"context"
	"fmt"

	"github.com/VoteCompass/VC-Backend/internal/db"
	"github.com/google/uuid"
)

// FetchPositions resolves current party positions for the given motions
// straight from the raw vote rows. Used for motion detail views and for the
// compass scoring pass; the bulk statistics paths read the precomputed
// majority view instead.
func FetchPositions(ctx context.Context, motionIDs []uuid.UUID) (map[uuid.UUID]map[uuid.UUID]PartyPosition, []Party, error) {
	positions := make(map[uuid.UUID]map[uuid.UUID]PartyPosition, len(motionIDs))
	if len(motionIDs) == 0 {
		return positions, nil, nil
	}

	var parties []Party
	if err := db.DB.WithContext(ctx).Find(&parties).Error; err != nil {
		return nil, nil, fmt.Errorf("load parties: %w", err)
	}
	lookup := BuildPartyLookup(parties)

	var decisions []Decision
	if err := db.DB.WithContext(ctx).Where("motion_id IN ?", motionIDs).Find(&decisions).Error; err != nil {
		return nil, nil, fmt.Errorf("load decisions: %w", err)
	}
	if len(decisions) == 0 {
		return positions, parties, nil
	}

	decisionIDs := make([]uuid.UUID, 0, len(decisions))
	motionByDecision := make(map[uuid.UUID]uuid.UUID, len(decisions))
	for _, d := range decisions {
		decisionIDs = append(decisionIDs, d.ID)
		motionByDecision[d.ID] = d.MotionID
	}

	var votes []RawVote
	if err := db.DB.WithContext(ctx).Where("decision_id IN ?", decisionIDs).Find(&votes).Error; err != nil {
		return nil, nil, fmt.Errorf("load votes: %w", err)
	}

	// All decisions of a motion resolve together.
	votesByMotion := make(map[uuid.UUID][]RawVote)
	for _, v := range votes {
		motionID := motionByDecision[v.DecisionID]
		votesByMotion[motionID] = append(votesByMotion[motionID], v)
	}

	for motionID, motionVotes := range votesByMotion {
		positions[motionID] = ResolvePositions(motionVotes, lookup)
	}
	return positions, parties, nil
}
