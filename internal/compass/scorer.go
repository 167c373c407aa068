package compass

import (
	"github.com/VoteCompass/VC-Backend/internal/parliament"
	"github.com/VoteCompass/VC-Backend/internal/utils"
	"github.com/google/uuid"
)

// MinSampleThreshold is the smallest totalVotes a party needs to appear in
// the results for a run of n answers. A party that only has positions on
// one or two of the answered motions would otherwise show a misleadingly
// perfect score.
func MinSampleThreshold(answerCount int) int {
	threshold := answerCount / 4
	if threshold < 1 {
		threshold = 1
	}
	return threshold
}

// ScoreParties computes per-party scores for a set of user answers against
// resolved party positions (motion id → party id → position).
//
// Per answered motion with a position for the party: an agree answer
// matches a FOR position, a disagree answer matches anything else; matches
// add a full point. Neutral answers add half a point and are excluded from
// the agreement ratio. Answers for unknown motions are skipped silently.
// Parties below the minimum-sample threshold are dropped. Results are
// unranked and unsorted.
func ScoreParties(answers []Answer, parties []parliament.Party, positions map[uuid.UUID]map[uuid.UUID]parliament.PartyPosition) []PartyResult {
	if len(answers) == 0 {
		return []PartyResult{}
	}
	threshold := MinSampleThreshold(len(answers))

	results := make([]PartyResult, 0, len(parties))
	for _, party := range parties {
		totalVotes := 0
		matchingVotes := 0
		score := 0.0
		agreement := 0.0

		for _, answer := range answers {
			pos, ok := positions[answer.MotionID][party.ID]
			if !ok {
				continue
			}
			totalVotes++

			if answer.Answer == AnswerNeutral {
				score += 0.5
			} else {
				supports := pos.Position == parliament.PositionFor
				match := (answer.Answer == AnswerAgree && supports) ||
					(answer.Answer == AnswerDisagree && !supports)
				if match {
					matchingVotes++
					score += 1.0
				}
			}
			agreement = float64(matchingVotes) / float64(totalVotes) * 100
		}

		if totalVotes < threshold {
			continue
		}

		results = append(results, PartyResult{
			PartyID:       party.ID,
			Name:          party.Name,
			Abbreviation:  party.Abbreviation,
			Score:         utils.Round2(score),
			Agreement:     utils.Round2(agreement),
			TotalVotes:    totalVotes,
			MatchingVotes: matchingVotes,
		})
	}
	return results
}
