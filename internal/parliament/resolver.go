package parliament

import (
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"
)

// PartyPosition is the resolved stance of one party on one motion, with the
// vote count (or bloc seat count) backing it.
type PartyPosition struct {
	Position Position `json:"position"`
	Weight   int      `json:"weight"`
}

// PartyLookup maps canonical party names and abbreviations to party ids.
// Built once per call; free-text actor names join against it best-effort,
// unmatched rows are dropped.
type PartyLookup map[string]uuid.UUID

// canonName normalizes a name for lookup. Source data mixes composed and
// decomposed Unicode forms, so compare on NFC.
func canonName(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

func BuildPartyLookup(parties []Party) PartyLookup {
	lookup := make(PartyLookup, len(parties)*2)
	for _, p := range parties {
		lookup[canonName(p.Name)] = p.ID
		if p.Abbreviation != "" {
			lookup[canonName(p.Abbreviation)] = p.ID
		}
	}
	return lookup
}

// Resolve returns the party id for one raw vote row. An explicit party id
// wins; otherwise the free-text actor name is matched against the lookup.
func (l PartyLookup) Resolve(v RawVote) (uuid.UUID, bool) {
	if v.PartyID != nil {
		return *v.PartyID, true
	}
	if v.ActorName == "" {
		return uuid.Nil, false
	}
	id, ok := l[canonName(v.ActorName)]
	return id, ok
}

// positionPriority fixes the majority tie-break: FOR beats AGAINST beats
// NEUTRAL at equal counts. The source data has no inherent vote order, so
// ties must resolve the same way on every run.
var positionPriority = []Position{PositionFor, PositionAgainst, PositionNeutral}

type voteGroup struct {
	counts    map[Position]int
	rows      int
	blocSize  int // party_size of the sole row, when party-level
	perMember bool
}

// ResolvePositions turns the raw vote rows of one motion into one resolved
// position per party. Mistake rows and rows whose actor matches no party
// are discarded. The majority vote type wins per party; abstentions count
// as NEUTRAL; no countable votes resolves to NEUTRAL, never to nothing.
//
// The reported weight is the number of resolved rows, except when a party
// is represented by a single party-level bloc row carrying a seat count,
// in which case that seat count is the weight.
func ResolvePositions(votes []RawVote, lookup PartyLookup) map[uuid.UUID]PartyPosition {
	groups := make(map[uuid.UUID]*voteGroup)

	for _, v := range votes {
		if v.Mistake {
			continue
		}
		partyID, ok := lookup.Resolve(v)
		if !ok {
			continue
		}

		g := groups[partyID]
		if g == nil {
			g = &voteGroup{counts: make(map[Position]int)}
			groups[partyID] = g
		}
		g.rows++
		if v.MemberID != nil {
			g.perMember = true
		} else if v.PartySize > 0 {
			g.blocSize = v.PartySize
		}

		switch v.VoteType {
		case VoteFor:
			g.counts[PositionFor]++
		case VoteAgainst:
			g.counts[PositionAgainst]++
		default:
			g.counts[PositionNeutral]++
		}
	}

	positions := make(map[uuid.UUID]PartyPosition, len(groups))
	for partyID, g := range groups {
		positions[partyID] = PartyPosition{
			Position: g.majority(),
			Weight:   g.weight(),
		}
	}
	return positions
}

func (g *voteGroup) majority() Position {
	best := PositionNeutral
	bestCount := 0
	for _, pos := range positionPriority {
		if c := g.counts[pos]; c > bestCount {
			best = pos
			bestCount = c
		}
	}
	return best
}

func (g *voteGroup) weight() int {
	if g.rows == 1 && !g.perMember && g.blocSize > 0 {
		return g.blocSize
	}
	return g.rows
}
