package votesimport

import (
	"errors"
	"fmt"

	"github.com/VoteCompass/VC-Backend/internal/parliament"
	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Config struct {
	CSVPath     string
	DatabaseURL string
	Namespace   string // stable forever; ids are derived from it
	Wipe        bool
}

// Run imports a parliamentary vote export. Parties are reference data and
// must exist already; actors that match no party are imported as free-text
// names and resolved (or dropped) at read time.
func Run(cfg Config) error {
	if !cfg.Wipe {
		return errors.New("refusing to run: set Wipe=true (this importer truncates motion and vote tables)")
	}

	ns, err := uuid.Parse(cfg.Namespace)
	if err != nil {
		return fmt.Errorf("invalid namespace uuid: %w", err)
	}

	rows, err := ParseCSV(cfg.CSVPath)
	if err != nil {
		return err
	}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{})
	if err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := wipeVoteData(tx); err != nil {
			return err
		}

		var parties []parliament.Party
		if err := tx.Find(&parties).Error; err != nil {
			return fmt.Errorf("load parties: %w", err)
		}
		lookup := parliament.BuildPartyLookup(parties)

		// Categories first so motions can join against them.
		catByTitle := map[string]uuid.UUID{}
		for _, r := range rows {
			for _, c := range r.Categories {
				if _, ok := catByTitle[c]; !ok {
					catByTitle[c] = CategoryID(ns, c)
				}
			}
		}
		for title, id := range catByTitle {
			c := parliament.Category{ID: id, Title: title}
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "title"}},
				DoUpdates: clause.AssignmentColumns([]string{"id"}), // keep id aligned w/ deterministic
			}).Create(&c).Error; err != nil {
				return fmt.Errorf("insert category %q: %w", title, err)
			}
		}

		voteIndex := map[string]int{}
		seenMotions := map[string]bool{}

		for _, r := range rows {
			motionID := MotionID(ns, r.MotionKey)
			decisionID := DecisionID(ns, r.MotionKey)

			if !seenMotions[r.MotionKey] {
				seenMotions[r.MotionKey] = true

				motion := parliament.Motion{
					ID:              motionID,
					Title:           r.Title,
					OperativeClause: r.OperativeClause,
					Status:          r.Status,
					SubmittedAt:     r.SubmittedAt,
				}
				for _, title := range r.Categories {
					motion.Categories = append(motion.Categories, parliament.Category{
						ID:    catByTitle[title],
						Title: title,
					})
				}
				if err := tx.Omit("Categories.*").Create(&motion).Error; err != nil {
					return fmt.Errorf("insert motion %q: %w", r.MotionKey, err)
				}

				decision := parliament.Decision{
					ID:         decisionID,
					MotionID:   motionID,
					DecidedAt:  r.DecidedAt,
					ResultText: r.ResultText,
				}
				if err := tx.Create(&decision).Error; err != nil {
					return fmt.Errorf("insert decision %q: %w", r.MotionKey, err)
				}
			}

			vote := parliament.RawVote{
				ID:         VoteID(ns, r.MotionKey, voteIndex[r.MotionKey]),
				DecisionID: decisionID,
				VoteType:   r.VoteType,
				Mistake:    r.Mistake,
				PartySize:  r.PartySize,
			}
			voteIndex[r.MotionKey]++

			if partyID, ok := lookup.Resolve(parliament.RawVote{ActorName: r.Actor}); ok {
				vote.PartyID = &partyID
			} else {
				vote.ActorName = r.Actor
			}
			if r.Member != "" {
				member := parliament.Member{ID: MemberID(ns, r.Member), Name: r.Member}
				if vote.PartyID != nil {
					member.PartyID = *vote.PartyID
				}
				if err := tx.Clauses(clause.OnConflict{
					Columns:   []clause.Column{{Name: "id"}},
					DoUpdates: clause.AssignmentColumns([]string{"name", "party_id"}),
				}).Create(&member).Error; err != nil {
					return fmt.Errorf("insert member %q: %w", r.Member, err)
				}
				vote.MemberID = &member.ID
			}

			if err := tx.Create(&vote).Error; err != nil {
				return fmt.Errorf("insert vote %s: %w", vote.ID, err)
			}
		}

		return nil
	})
}

func wipeVoteData(tx *gorm.DB) error {
	stmts := []string{
		"DELETE FROM parliament.raw_votes",
		"DELETE FROM parliament.party_vote_majorities",
		"DELETE FROM parliament.decisions",
		"DELETE FROM parliament.motion_categories",
		"DELETE FROM parliament.motions",
	}
	for _, s := range stmts {
		if err := tx.Exec(s).Error; err != nil {
			return fmt.Errorf("wipe: %w", err)
		}
	}
	return nil
}
