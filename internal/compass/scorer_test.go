package compass_test

import (
	"testing"

	"github.com/VoteCompass/VC-Backend/internal/compass"
	"github.com/VoteCompass/VC-Backend/internal/parliament"
	"github.com/google/uuid"
)

type positionMap = map[uuid.UUID]map[uuid.UUID]parliament.PartyPosition

func testParties(n int) []parliament.Party {
	names := []string{"Progressive Alliance", "Conservative Union", "Liberal Forum", "Agrarian League"}
	parties := make([]parliament.Party, n)
	for i := 0; i < n; i++ {
		parties[i] = parliament.Party{ID: uuid.New(), Name: names[i%len(names)]}
	}
	return parties
}

func resultFor(t *testing.T, results []compass.PartyResult, partyID uuid.UUID) compass.PartyResult {
	t.Helper()
	for _, r := range results {
		if r.PartyID == partyID {
			return r
		}
	}
	t.Fatalf("no result for party %s", partyID)
	return compass.PartyResult{}
}

// A single agree answer against a FOR position scores a full match.
func TestScoreParties_AgreeMatchesFor(t *testing.T) {
	parties := testParties(3)
	motionID := uuid.New()

	positions := positionMap{
		motionID: {
			parties[0].ID: {Position: parliament.PositionFor, Weight: 2},
			parties[1].ID: {Position: parliament.PositionAgainst, Weight: 1},
			parties[2].ID: {Position: parliament.PositionNeutral, Weight: 1},
		},
	}
	answers := []compass.Answer{{MotionID: motionID, Answer: compass.AnswerAgree}}

	results := compass.ScoreParties(answers, parties, positions)
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}

	x := resultFor(t, results, parties[0].ID)
	if x.TotalVotes != 1 || x.MatchingVotes != 1 || x.Agreement != 100 || x.Score != 1.0 {
		t.Errorf("unexpected result for FOR party: %+v", x)
	}

	y := resultFor(t, results, parties[1].ID)
	if y.MatchingVotes != 0 || y.Agreement != 0 || y.Score != 0 {
		t.Errorf("unexpected result for AGAINST party: %+v", y)
	}
}

// Neutral answers add half a point, never match and leave agreement at 0.
func TestScoreParties_NeutralAnswer(t *testing.T) {
	parties := testParties(2)
	motionID := uuid.New()

	positions := positionMap{
		motionID: {
			parties[0].ID: {Position: parliament.PositionFor, Weight: 1},
			parties[1].ID: {Position: parliament.PositionAgainst, Weight: 1},
		},
	}
	answers := []compass.Answer{{MotionID: motionID, Answer: compass.AnswerNeutral}}

	for _, r := range compass.ScoreParties(answers, parties, positions) {
		if r.Score != 0.5 {
			t.Errorf("party %s: expected score 0.5, got %v", r.Name, r.Score)
		}
		if r.MatchingVotes != 0 {
			t.Errorf("party %s: neutral answers must not match, got %d", r.Name, r.MatchingVotes)
		}
		if r.Agreement != 0 {
			t.Errorf("party %s: expected agreement 0, got %v", r.Name, r.Agreement)
		}
		if r.TotalVotes != 1 {
			t.Errorf("party %s: expected totalVotes 1, got %d", r.Name, r.TotalVotes)
		}
	}
}

func TestScoreParties_DisagreeMatchesNonFor(t *testing.T) {
	parties := testParties(2)
	motionID := uuid.New()

	positions := positionMap{
		motionID: {
			parties[0].ID: {Position: parliament.PositionNeutral, Weight: 1},
			parties[1].ID: {Position: parliament.PositionFor, Weight: 1},
		},
	}
	answers := []compass.Answer{{MotionID: motionID, Answer: compass.AnswerDisagree}}

	results := compass.ScoreParties(answers, parties, positions)
	if r := resultFor(t, results, parties[0].ID); r.MatchingVotes != 1 {
		t.Errorf("disagree should match a NEUTRAL position, got %+v", r)
	}
	if r := resultFor(t, results, parties[1].ID); r.MatchingVotes != 0 {
		t.Errorf("disagree must not match a FOR position, got %+v", r)
	}
}

// With 4 answers the threshold is max(1, floor(1)) = 1, so a party with a
// position on a single motion is retained.
func TestScoreParties_MinimumSampleRetained(t *testing.T) {
	parties := testParties(1)
	motions := []uuid.UUID{uuid.New(), uuid.New(), uuid.New(), uuid.New()}

	positions := positionMap{
		motions[0]: {parties[0].ID: {Position: parliament.PositionFor, Weight: 1}},
	}
	var answers []compass.Answer
	for _, m := range motions {
		answers = append(answers, compass.Answer{MotionID: m, Answer: compass.AnswerAgree})
	}

	results := compass.ScoreParties(answers, parties, positions)
	if len(results) != 1 {
		t.Fatalf("expected party retained at threshold, got %d results", len(results))
	}
	if results[0].TotalVotes != 1 {
		t.Errorf("expected totalVotes 1, got %d", results[0].TotalVotes)
	}
}

// With 8 answers the threshold is 2; one position is no longer enough.
func TestScoreParties_MinimumSampleDropped(t *testing.T) {
	parties := testParties(1)
	motions := make([]uuid.UUID, 8)
	for i := range motions {
		motions[i] = uuid.New()
	}

	positions := positionMap{
		motions[0]: {parties[0].ID: {Position: parliament.PositionFor, Weight: 1}},
	}
	var answers []compass.Answer
	for _, m := range motions {
		answers = append(answers, compass.Answer{MotionID: m, Answer: compass.AnswerAgree})
	}

	if results := compass.ScoreParties(answers, parties, positions); len(results) != 0 {
		t.Errorf("expected party dropped below threshold, got %d results", len(results))
	}
}

func TestScoreParties_UnknownMotionSkipped(t *testing.T) {
	parties := testParties(1)
	known := uuid.New()

	positions := positionMap{
		known: {parties[0].ID: {Position: parliament.PositionFor, Weight: 1}},
	}
	answers := []compass.Answer{
		{MotionID: known, Answer: compass.AnswerAgree},
		{MotionID: uuid.New(), Answer: compass.AnswerAgree}, // no such motion
	}

	results := compass.ScoreParties(answers, parties, positions)
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].TotalVotes != 1 {
		t.Errorf("unknown motion must not count, got totalVotes %d", results[0].TotalVotes)
	}
}

func TestScoreParties_EmptyAnswers(t *testing.T) {
	if results := compass.ScoreParties(nil, testParties(2), positionMap{}); len(results) != 0 {
		t.Errorf("expected empty result list, got %d", len(results))
	}
}

func TestScoreParties_AgreementBounds(t *testing.T) {
	parties := testParties(4)
	motions := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}

	positions := positionMap{}
	allPositions := []parliament.Position{parliament.PositionFor, parliament.PositionAgainst, parliament.PositionNeutral}
	for i, m := range motions {
		positions[m] = map[uuid.UUID]parliament.PartyPosition{}
		for j, p := range parties {
			positions[m][p.ID] = parliament.PartyPosition{Position: allPositions[(i+j)%3], Weight: 1}
		}
	}
	answers := []compass.Answer{
		{MotionID: motions[0], Answer: compass.AnswerAgree},
		{MotionID: motions[1], Answer: compass.AnswerDisagree},
		{MotionID: motions[2], Answer: compass.AnswerNeutral},
	}

	for _, r := range compass.ScoreParties(answers, parties, positions) {
		if r.Agreement < 0 || r.Agreement > 100 {
			t.Errorf("party %s: agreement %v out of [0,100]", r.Name, r.Agreement)
		}
		if r.MatchingVotes > r.TotalVotes {
			t.Errorf("party %s: matching %d > total %d", r.Name, r.MatchingVotes, r.TotalVotes)
		}
	}
}
