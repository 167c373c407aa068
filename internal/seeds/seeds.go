package seeds

import (
	_ "embed"
	"fmt"
	"time"

	"github.com/VoteCompass/VC-Backend/internal/db"
	"github.com/VoteCompass/VC-Backend/internal/parliament"
	"github.com/goccy/go-yaml"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:embed fixtures/parliament.yaml
var fixturesYAML []byte

// seedNamespace keeps fixture ids stable across runs so re-seeding
// upserts instead of duplicating.
var seedNamespace = uuid.MustParse("7e0d31c4-52aa-4ab8-9d2e-3c8b6d1f9a40")

func seedID(kind, key string) uuid.UUID {
	return uuid.NewSHA1(seedNamespace, []byte(kind+":"+key))
}

type fixtureVote struct {
	Party     string `yaml:"party"` // abbreviation, or free-text actor name
	Member    string `yaml:"member"`
	Type      string `yaml:"type"`
	PartySize int    `yaml:"party_size"`
	Mistake   bool   `yaml:"mistake"`
}

type fixtureDecision struct {
	DecidedAt  string        `yaml:"decided_at"`
	ResultText string        `yaml:"result_text"`
	Votes      []fixtureVote `yaml:"votes"`
}

type fixtureMotion struct {
	Key             string            `yaml:"key"`
	Title           string            `yaml:"title"`
	Points          []string          `yaml:"points"`
	OperativeClause string            `yaml:"operative_clause"`
	Status          string            `yaml:"status"`
	SubmittedAt     string            `yaml:"submitted_at"`
	Submitter       string            `yaml:"submitter"` // party abbreviation
	Categories      []string          `yaml:"categories"`
	Decisions       []fixtureDecision `yaml:"decisions"`
}

type fixtureParty struct {
	Name         string `yaml:"name"`
	Abbreviation string `yaml:"abbreviation"`
	Seats        int    `yaml:"seats"`
	ActiveFrom   string `yaml:"active_from"`
	ActiveTo     string `yaml:"active_to"`
}

type fixtures struct {
	Parties    []fixtureParty  `yaml:"parties"`
	Categories []string        `yaml:"categories"`
	Motions    []fixtureMotion `yaml:"motions"`
}

func parseDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}

// SeedAll loads the embedded YAML fixtures into the parliament schema.
// Idempotent: fixture ids are deterministic and rows are upserted.
func SeedAll() error {
	var fx fixtures
	if err := yaml.Unmarshal(fixturesYAML, &fx); err != nil {
		return fmt.Errorf("parse fixtures: %w", err)
	}

	return db.DB.Transaction(func(tx *gorm.DB) error {
		partyByAbbr := map[string]uuid.UUID{}
		for _, p := range fx.Parties {
			activeFrom, err := parseDate(p.ActiveFrom)
			if err != nil {
				return fmt.Errorf("party %q active_from: %w", p.Name, err)
			}
			var activeTo *time.Time
			if p.ActiveTo != "" {
				t, err := parseDate(p.ActiveTo)
				if err != nil {
					return fmt.Errorf("party %q active_to: %w", p.Name, err)
				}
				activeTo = &t
			}

			party := parliament.Party{
				ID:           seedID("party", p.Name),
				Name:         p.Name,
				Abbreviation: p.Abbreviation,
				Seats:        p.Seats,
				ActiveFrom:   activeFrom,
				ActiveTo:     activeTo,
			}
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "id"}},
				DoUpdates: clause.AssignmentColumns([]string{"name", "abbreviation", "seats", "active_from", "active_to"}),
			}).Create(&party).Error; err != nil {
				return fmt.Errorf("seed party %q: %w", p.Name, err)
			}
			partyByAbbr[p.Abbreviation] = party.ID
		}

		catByTitle := map[string]uuid.UUID{}
		for _, title := range fx.Categories {
			c := parliament.Category{ID: seedID("category", title), Title: title}
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "id"}},
				DoNothing: true,
			}).Create(&c).Error; err != nil {
				return fmt.Errorf("seed category %q: %w", title, err)
			}
			catByTitle[title] = c.ID
		}

		for _, m := range fx.Motions {
			if err := seedMotion(tx, m, partyByAbbr, catByTitle); err != nil {
				return err
			}
		}
		return nil
	})
}

func seedMotion(tx *gorm.DB, m fixtureMotion, partyByAbbr, catByTitle map[string]uuid.UUID) error {
	submittedAt, err := parseDate(m.SubmittedAt)
	if err != nil {
		return fmt.Errorf("motion %q submitted_at: %w", m.Key, err)
	}

	motion := parliament.Motion{
		ID:              seedID("motion", m.Key),
		Title:           m.Title,
		Points:          pq.StringArray(m.Points),
		OperativeClause: m.OperativeClause,
		Status:          m.Status,
		SubmittedAt:     submittedAt,
	}
	if submitterID, ok := partyByAbbr[m.Submitter]; ok {
		motion.SubmitterID = &submitterID
	}
	for _, title := range m.Categories {
		if id, ok := catByTitle[title]; ok {
			motion.Categories = append(motion.Categories, parliament.Category{ID: id, Title: title})
		}
	}

	if err := tx.Omit("Categories.*").Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"title", "points", "operative_clause", "status", "submitted_at", "submitter_id"}),
	}).Create(&motion).Error; err != nil {
		return fmt.Errorf("seed motion %q: %w", m.Key, err)
	}

	for di, d := range m.Decisions {
		decidedAt, err := parseDate(d.DecidedAt)
		if err != nil {
			return fmt.Errorf("motion %q decision %d: %w", m.Key, di, err)
		}
		decision := parliament.Decision{
			ID:         seedID("decision", fmt.Sprintf("%s:%d", m.Key, di)),
			MotionID:   motion.ID,
			DecidedAt:  decidedAt,
			ResultText: d.ResultText,
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"decided_at", "result_text"}),
		}).Create(&decision).Error; err != nil {
			return fmt.Errorf("seed decision %s:%d: %w", m.Key, di, err)
		}

		for vi, v := range d.Votes {
			vote := parliament.RawVote{
				ID:         seedID("vote", fmt.Sprintf("%s:%d:%d", m.Key, di, vi)),
				DecisionID: decision.ID,
				VoteType:   v.Type,
				Mistake:    v.Mistake,
				PartySize:  v.PartySize,
			}
			if partyID, ok := partyByAbbr[v.Party]; ok {
				vote.PartyID = &partyID
			} else {
				vote.ActorName = v.Party
			}
			if v.Member != "" {
				memberID, err := seedMember(tx, v.Member, vote.PartyID)
				if err != nil {
					return err
				}
				vote.MemberID = &memberID
			}
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "id"}},
				DoUpdates: clause.AssignmentColumns([]string{"vote_type", "party_id", "actor_name", "member_id", "mistake", "party_size"}),
			}).Create(&vote).Error; err != nil {
				return fmt.Errorf("seed vote %s:%d:%d: %w", m.Key, di, vi, err)
			}
		}
	}
	return nil
}

func seedMember(tx *gorm.DB, name string, partyID *uuid.UUID) (uuid.UUID, error) {
	member := parliament.Member{ID: seedID("member", name), Name: name}
	if partyID != nil {
		member.PartyID = *partyID
	}
	if err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "party_id"}),
	}).Create(&member).Error; err != nil {
		return uuid.Nil, fmt.Errorf("seed member %q: %w", name, err)
	}
	return member.ID, nil
}
