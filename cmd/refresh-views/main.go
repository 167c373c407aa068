// Command refresh-views rebuilds the parliament.party_vote_majorities view
// table from the raw vote rows. It runs out-of-band (cron or manual); the
// server only ever reads the view and tolerates a stale snapshot. The
// rebuild happens in one transaction so readers never see a half-built
// view.
package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/VoteCompass/VC-Backend/internal/db"
	"github.com/VoteCompass/VC-Backend/internal/parliament"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

var advisoryKey = flag.Int64("advisory-lock", 424250, "Postgres advisory lock key guarding concurrent rebuilds. 0 = disabled")

func main() {
	_ = godotenv.Load(".env.local")
	flag.Parse()
	db.Connect()

	var parties []parliament.Party
	if err := db.DB.Find(&parties).Error; err != nil {
		log.Fatalf("Load parties: %v", err)
	}
	lookup := parliament.BuildPartyLookup(parties)

	var motions []parliament.Motion
	if err := db.DB.Find(&motions).Error; err != nil {
		log.Fatalf("Load motions: %v", err)
	}
	motionByID := make(map[uuid.UUID]parliament.Motion, len(motions))
	for _, m := range motions {
		motionByID[m.ID] = m
	}

	var decisions []parliament.Decision
	if err := db.DB.Find(&decisions).Error; err != nil {
		log.Fatalf("Load decisions: %v", err)
	}
	motionByDecision := make(map[uuid.UUID]uuid.UUID, len(decisions))
	for _, d := range decisions {
		motionByDecision[d.ID] = d.MotionID
	}

	var votes []parliament.RawVote
	if err := db.DB.Find(&votes).Error; err != nil {
		log.Fatalf("Load votes: %v", err)
	}
	votesByMotion := make(map[uuid.UUID][]parliament.RawVote)
	for _, v := range votes {
		motionID, ok := motionByDecision[v.DecisionID]
		if !ok {
			continue
		}
		votesByMotion[motionID] = append(votesByMotion[motionID], v)
	}

	var rows []parliament.PartyVoteMajority
	for motionID, motionVotes := range votesByMotion {
		motion, ok := motionByID[motionID]
		if !ok {
			continue
		}
		for partyID, pos := range parliament.ResolvePositions(motionVotes, lookup) {
			rows = append(rows, parliament.PartyVoteMajority{
				MotionID:    motionID,
				PartyID:     partyID,
				Position:    pos.Position,
				Weight:      pos.Weight,
				SubmittedAt: motion.SubmittedAt,
			})
		}
	}

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if *advisoryKey != 0 {
			if err := tx.Exec("SELECT pg_advisory_xact_lock(?)", *advisoryKey).Error; err != nil {
				return err
			}
		}
		if err := tx.Exec("DELETE FROM parliament.party_vote_majorities").Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.CreateInBatches(rows, 500).Error
	})
	if err != nil {
		log.Fatalf("Rebuild failed: %v", err)
	}

	fmt.Printf("Rebuilt majority view: %d rows across %d motions\n", len(rows), len(votesByMotion))
}
