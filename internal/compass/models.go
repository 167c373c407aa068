package compass

import (
	"time"

	"github.com/google/uuid"
)

// User answer values. Neutral answers score half a point and never count
// as matches.
const (
	AnswerAgree    = "agree"
	AnswerDisagree = "disagree"
	AnswerNeutral  = "neutral"
)

// Answer is one user answer to one motion, supplied per request.
type Answer struct {
	MotionID uuid.UUID `json:"motion_id"`
	Answer   string    `json:"answer"`
}

// PartyResult is one party's score for a compass run.
type PartyResult struct {
	PartyID       uuid.UUID `json:"party_id"`
	Name          string    `json:"name"`
	Abbreviation  string    `json:"abbreviation"`
	Score         float64   `json:"score"`
	Agreement     float64   `json:"agreement"`
	TotalVotes    int       `json:"total_votes"`
	MatchingVotes int       `json:"matching_votes"`
	Rank          int       `json:"rank"`
}

// Session is the immutable snapshot of one compass run: the answers as
// given and the ranked results the user saw. Written once, never updated.
type Session struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	Answers   string    `gorm:"type:jsonb" json:"-"`
	Results   string    `gorm:"type:jsonb" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Session) TableName() string { return "compass.sessions" }

// ResultSnapshot is the JSON payload stored in Session.Results.
type ResultSnapshot struct {
	TotalAnswers int           `json:"total_answers"`
	PartyResults []PartyResult `json:"party_results"`
	CreatedAt    time.Time     `json:"created_at"`
}
