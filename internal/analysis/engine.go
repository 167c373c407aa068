package analysis

import (
	"sort"
	"strings"

	"github.com/VoteCompass/VC-Backend/internal/parliament"
	"github.com/VoteCompass/VC-Backend/internal/statistics"
	"github.com/VoteCompass/VC-Backend/internal/utils"
	"github.com/google/uuid"
)

// MinCoalitionCommonMotions is the smallest shared sample a party pair
// needs before its alignment within a date window is reported. Pairs below
// it are omitted, not zero-filled.
const MinCoalitionCommonMotions = 10

// MinDeviationVotes is the smallest number of qualifying individual votes
// a member needs to appear in the deviation report.
const MinDeviationVotes = 20

// Result-text marker phrases. A decision's final text starts with one of
// these when the motion was carried or defeated.
var (
	acceptedMarkers = []string{"Accepted", "Passed"}
	rejectedMarkers = []string{"Rejected", "Defeated"}
)

type MemberDeviation struct {
	MemberID     uuid.UUID `json:"member_id"`
	Name         string    `json:"name"`
	PartyID      uuid.UUID `json:"party_id"`
	Party        string    `json:"party"`
	TotalVotes   int       `json:"total_votes"`
	Deviations   int       `json:"deviations"`
	DeviationPct float64   `json:"deviation_pct"`
}

type TopicTrend struct {
	CategoryID   uuid.UUID `json:"category_id"`
	Category     string    `json:"category"`
	TotalMotions int       `json:"total_motions"`
	Accepted     int       `json:"accepted"`
	Rejected     int       `json:"rejected"`
}

type PartyTopicVotes struct {
	CategoryID   uuid.UUID `json:"category_id"`
	Category     string    `json:"category"`
	ForCount     int       `json:"for_count"`
	AgainstCount int       `json:"against_count"`
	NeutralCount int       `json:"neutral_count"`
}

// CoalitionPairs is the pairwise likeness computation with the minimum
// common-motion threshold applied.
func CoalitionPairs(rows []parliament.PartyVoteMajority, parties []parliament.Party, window utils.DateRange) []statistics.PartyLikeness {
	pairs := statistics.LikenessPairs(rows, parties, window)
	out := pairs[:0]
	for _, pair := range pairs {
		if pair.CommonMotions >= MinCoalitionCommonMotions {
			out = append(out, pair)
		}
	}
	return out
}

// MemberDeviations compares every individual vote against the member's own
// party's resolved majority on the same decision. Only members with at
// least MinDeviationVotes qualifying votes are reported, sorted by
// deviation rate descending; limit > 0 caps the list.
func MemberDeviations(votes []parliament.RawVote, members []parliament.Member, parties []parliament.Party, limit int) []MemberDeviation {
	lookup := parliament.BuildPartyLookup(parties)

	byDecision := make(map[uuid.UUID][]parliament.RawVote)
	for _, v := range votes {
		byDecision[v.DecisionID] = append(byDecision[v.DecisionID], v)
	}

	type tally struct {
		total      int
		deviations int
	}
	tallies := make(map[uuid.UUID]*tally)

	for _, decisionVotes := range byDecision {
		majorities := parliament.ResolvePositions(decisionVotes, lookup)
		for _, v := range decisionVotes {
			if v.Mistake || v.MemberID == nil || v.PartyID == nil {
				continue
			}
			majority, ok := majorities[*v.PartyID]
			if !ok {
				continue
			}

			var own parliament.Position
			switch v.VoteType {
			case parliament.VoteFor:
				own = parliament.PositionFor
			case parliament.VoteAgainst:
				own = parliament.PositionAgainst
			default:
				own = parliament.PositionNeutral
			}

			t := tallies[*v.MemberID]
			if t == nil {
				t = &tally{}
				tallies[*v.MemberID] = t
			}
			t.total++
			if own != majority.Position {
				t.deviations++
			}
		}
	}

	memberByID := make(map[uuid.UUID]parliament.Member, len(members))
	for _, m := range members {
		memberByID[m.ID] = m
	}
	partyByID := make(map[uuid.UUID]parliament.Party, len(parties))
	for _, p := range parties {
		partyByID[p.ID] = p
	}

	out := []MemberDeviation{}
	for memberID, t := range tallies {
		if t.total < MinDeviationVotes {
			continue
		}
		member, ok := memberByID[memberID]
		if !ok {
			continue
		}
		out = append(out, MemberDeviation{
			MemberID:     memberID,
			Name:         member.Name,
			PartyID:      member.PartyID,
			Party:        partyByID[member.PartyID].Name,
			TotalVotes:   t.total,
			Deviations:   t.deviations,
			DeviationPct: utils.Round2(float64(t.deviations) / float64(t.total) * 100),
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].DeviationPct != out[j].DeviationPct {
			return out[i].DeviationPct > out[j].DeviationPct
		}
		if out[i].TotalVotes != out[j].TotalVotes {
			return out[i].TotalVotes > out[j].TotalVotes
		}
		return out[i].Name < out[j].Name
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func matchesMarker(text string, markers []string) bool {
	for _, m := range markers {
		if strings.HasPrefix(text, m) {
			return true
		}
	}
	return false
}

// finalResultText is the result text of a motion's latest decision.
func finalResultText(m parliament.Motion) string {
	var text string
	var latest *parliament.Decision
	for i := range m.Decisions {
		d := &m.Decisions[i]
		if latest == nil || d.DecidedAt.After(latest.DecidedAt) {
			latest = d
			text = d.ResultText
		}
	}
	return text
}

// TopicTrends counts motions per category, split into accepted and
// rejected by the marker phrase opening the final decision text.
func TopicTrends(motions []parliament.Motion) []TopicTrend {
	trends := make(map[uuid.UUID]*TopicTrend)
	for _, m := range motions {
		text := finalResultText(m)
		for _, c := range m.Categories {
			t := trends[c.ID]
			if t == nil {
				t = &TopicTrend{CategoryID: c.ID, Category: c.Title}
				trends[c.ID] = t
			}
			t.TotalMotions++
			if matchesMarker(text, acceptedMarkers) {
				t.Accepted++
			} else if matchesMarker(text, rejectedMarkers) {
				t.Rejected++
			}
		}
	}

	out := make([]TopicTrend, 0, len(trends))
	for _, t := range trends {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalMotions != out[j].TotalMotions {
			return out[i].TotalMotions > out[j].TotalMotions
		}
		return out[i].Category < out[j].Category
	})
	return out
}

// PartyTopicVoting counts one party's resolved positions per category.
// Rows are expected to be pre-filtered to the party and window.
func PartyTopicVoting(rows []parliament.PartyVoteMajority, categoriesByMotion map[uuid.UUID][]parliament.Category) []PartyTopicVotes {
	counts := make(map[uuid.UUID]*PartyTopicVotes)
	for _, row := range rows {
		for _, c := range categoriesByMotion[row.MotionID] {
			v := counts[c.ID]
			if v == nil {
				v = &PartyTopicVotes{CategoryID: c.ID, Category: c.Title}
				counts[c.ID] = v
			}
			switch row.Position {
			case parliament.PositionFor:
				v.ForCount++
			case parliament.PositionAgainst:
				v.AgainstCount++
			default:
				v.NeutralCount++
			}
		}
	}

	out := make([]PartyTopicVotes, 0, len(counts))
	for _, v := range counts {
		out = append(out, *v)
	}
	sort.Slice(out, func(i, j int) bool {
		ti := out[i].ForCount + out[i].AgainstCount + out[i].NeutralCount
		tj := out[j].ForCount + out[j].AgainstCount + out[j].NeutralCount
		if ti != tj {
			return ti > tj
		}
		return out[i].Category < out[j].Category
	})
	return out
}
