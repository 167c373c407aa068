package parliament

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Vote types as recorded in the source data. Abstentions resolve to a
// NEUTRAL position.
const (
	VoteFor     = "FOR"
	VoteAgainst = "AGAINST"
	VoteAbstain = "ABSTAIN"
)

// Position is a party's resolved stance on a motion.
type Position string

const (
	PositionFor     Position = "FOR"
	PositionAgainst Position = "AGAINST"
	PositionNeutral Position = "NEUTRAL"
)

type Party struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Name         string     `gorm:"uniqueIndex;not null" json:"name"`
	Abbreviation string     `json:"abbreviation"`
	Seats        int        `json:"seats"`
	ActiveFrom   time.Time  `json:"active_from"`
	ActiveTo     *time.Time `json:"active_to,omitempty"` // nil = still active
	Logo         []byte     `gorm:"type:bytea" json:"-"`
}

// ActiveAt reports whether the party existed at t.
func (p Party) ActiveAt(t time.Time) bool {
	if t.Before(p.ActiveFrom) {
		return false
	}
	return p.ActiveTo == nil || !t.After(*p.ActiveTo)
}

type Category struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title   string    `gorm:"uniqueIndex;not null" json:"title"`
	Motions []Motion  `gorm:"many2many:parliament.motion_categories;" json:"-"`
}

type Motion struct {
	ID              uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Title           string         `gorm:"not null" json:"title"`
	Points          pq.StringArray `gorm:"type:text[]" json:"points"`
	OperativeClause string         `json:"operative_clause"` // the "requests that…" point, empty when absent
	Status          string         `json:"status"`
	SubmittedAt     time.Time      `gorm:"index" json:"submitted_at"`
	SubmitterID     *uuid.UUID     `gorm:"type:uuid;index" json:"submitter_id,omitempty"` // primary submitting party
	Categories      []Category     `gorm:"many2many:parliament.motion_categories;" json:"categories,omitempty"`
	Decisions       []Decision     `gorm:"foreignKey:MotionID" json:"decisions,omitempty"`
}

// Decision is one concrete vote event of a motion. Re-votes give a motion
// more than one decision.
type Decision struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	MotionID   uuid.UUID `gorm:"type:uuid;not null;index" json:"motion_id"`
	DecidedAt  time.Time `json:"decided_at"`
	ResultText string    `json:"result_text"`
	Votes      []RawVote `gorm:"foreignKey:DecisionID" json:"votes,omitempty"`
}

type Member struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name    string    `gorm:"not null" json:"name"`
	PartyID uuid.UUID `gorm:"type:uuid;index" json:"party_id"`
}

// RawVote is one recorded vote row. The actor is identified by an explicit
// party id, a free-text party name, or an individual member id with their
// party id. Rows flagged as mistakes are excluded everywhere.
type RawVote struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	DecisionID uuid.UUID  `gorm:"type:uuid;not null;index" json:"decision_id"`
	VoteType   string     `gorm:"not null" json:"vote_type"`
	PartyID    *uuid.UUID `gorm:"type:uuid;index" json:"party_id,omitempty"`
	ActorName  string     `json:"actor_name,omitempty"`
	MemberID   *uuid.UUID `gorm:"type:uuid;index" json:"member_id,omitempty"`
	Mistake    bool       `gorm:"default:false" json:"mistake"`
	PartySize  int        `gorm:"default:0" json:"party_size"` // seat count on party-level bloc rows
}

// PartyVoteMajority is one row of the precomputed majority-vote view:
// a party's resolved position per motion, rebuilt in bulk by
// cmd/refresh-views. The server only reads it.
type PartyVoteMajority struct {
	MotionID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"motion_id"`
	PartyID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"party_id"`
	Position    Position  `gorm:"not null" json:"position"`
	Weight      int       `gorm:"default:0" json:"weight"`
	SubmittedAt time.Time `gorm:"index" json:"submitted_at"` // denormalized motion date
}

func (Party) TableName() string             { return "parliament.parties" }
func (Category) TableName() string          { return "parliament.categories" }
func (Motion) TableName() string            { return "parliament.motions" }
func (Decision) TableName() string          { return "parliament.decisions" }
func (Member) TableName() string            { return "parliament.members" }
func (RawVote) TableName() string           { return "parliament.raw_votes" }
func (PartyVoteMajority) TableName() string { return "parliament.party_vote_majorities" }
