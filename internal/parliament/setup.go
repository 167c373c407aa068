package parliament

import (
	"log"

	"github.com/VoteCompass/VC-Backend/internal/db"
)

func Init() {
	// Ensure the parliament schema exists first
	if err := db.EnsureSchema(db.DB, "parliament"); err != nil {
		log.Fatal("Failed to create parliament schema: ", err)
	}

	if err := db.DB.AutoMigrate(&Party{}, &Category{}, &Motion{}, &Decision{}, &Member{}, &RawVote{}, &PartyVoteMajority{}); err != nil {
		log.Fatal("Failed to auto-migrate tables", err)
	}
}
