package parliament_test

import (
	"testing"

	"github.com/VoteCompass/VC-Backend/internal/parliament"
	"github.com/google/uuid"
)

func newParty(name, abbr string) parliament.Party {
	return parliament.Party{ID: uuid.New(), Name: name, Abbreviation: abbr}
}

func partyVote(partyID uuid.UUID, voteType string) parliament.RawVote {
	return parliament.RawVote{ID: uuid.New(), PartyID: &partyID, VoteType: voteType}
}

func memberVote(partyID uuid.UUID, voteType string) parliament.RawVote {
	memberID := uuid.New()
	return parliament.RawVote{ID: uuid.New(), PartyID: &partyID, MemberID: &memberID, VoteType: voteType}
}

func TestResolvePositions_MajorityWins(t *testing.T) {
	p := newParty("Progressive Alliance", "PA")
	lookup := parliament.BuildPartyLookup([]parliament.Party{p})

	votes := []parliament.RawVote{
		memberVote(p.ID, parliament.VoteFor),
		memberVote(p.ID, parliament.VoteFor),
		memberVote(p.ID, parliament.VoteAgainst),
	}

	positions := parliament.ResolvePositions(votes, lookup)
	pos, ok := positions[p.ID]
	if !ok {
		t.Fatal("expected a position for the party")
	}
	if pos.Position != parliament.PositionFor {
		t.Errorf("expected FOR, got %s", pos.Position)
	}
	if pos.Weight != 3 {
		t.Errorf("expected weight 3, got %d", pos.Weight)
	}
}

func TestResolvePositions_TieBreakIsDeterministic(t *testing.T) {
	p := newParty("Liberal Forum", "LF")
	lookup := parliament.BuildPartyLookup([]parliament.Party{p})

	// FOR wins a FOR/AGAINST tie.
	positions := parliament.ResolvePositions([]parliament.RawVote{
		memberVote(p.ID, parliament.VoteAgainst),
		memberVote(p.ID, parliament.VoteFor),
	}, lookup)
	if got := positions[p.ID].Position; got != parliament.PositionFor {
		t.Errorf("FOR/AGAINST tie: expected FOR, got %s", got)
	}

	// AGAINST wins an AGAINST/NEUTRAL tie.
	positions = parliament.ResolvePositions([]parliament.RawVote{
		memberVote(p.ID, parliament.VoteAbstain),
		memberVote(p.ID, parliament.VoteAgainst),
	}, lookup)
	if got := positions[p.ID].Position; got != parliament.PositionAgainst {
		t.Errorf("AGAINST/NEUTRAL tie: expected AGAINST, got %s", got)
	}
}

func TestResolvePositions_MistakesExcluded(t *testing.T) {
	p := newParty("Conservative Union", "CU")
	lookup := parliament.BuildPartyLookup([]parliament.Party{p})

	mistaken := memberVote(p.ID, parliament.VoteFor)
	mistaken.Mistake = true

	positions := parliament.ResolvePositions([]parliament.RawVote{
		mistaken,
		mistaken,
		memberVote(p.ID, parliament.VoteAgainst),
	}, lookup)

	pos := positions[p.ID]
	if pos.Position != parliament.PositionAgainst {
		t.Errorf("expected AGAINST after excluding mistakes, got %s", pos.Position)
	}
	if pos.Weight != 1 {
		t.Errorf("expected weight 1, got %d", pos.Weight)
	}
}

func TestResolvePositions_FreeTextActorMatching(t *testing.T) {
	p := newParty("Agrarian League", "AL")
	lookup := parliament.BuildPartyLookup([]parliament.Party{p})

	votes := []parliament.RawVote{
		{ID: uuid.New(), ActorName: "Agrarian League", VoteType: parliament.VoteFor},
		{ID: uuid.New(), ActorName: "AL", VoteType: parliament.VoteFor},
		{ID: uuid.New(), ActorName: "Unknown Faction", VoteType: parliament.VoteAgainst},
	}

	positions := parliament.ResolvePositions(votes, lookup)
	if len(positions) != 1 {
		t.Fatalf("expected 1 resolved party, got %d", len(positions))
	}
	pos := positions[p.ID]
	if pos.Position != parliament.PositionFor || pos.Weight != 2 {
		t.Errorf("expected FOR with weight 2, got %s weight %d", pos.Position, pos.Weight)
	}
}

func TestResolvePositions_UnicodeNormalizedMatching(t *testing.T) {
	// Party name uses the composed form, vote row the decomposed one.
	p := newParty("Libérale Partij", "LP")
	lookup := parliament.BuildPartyLookup([]parliament.Party{p})

	votes := []parliament.RawVote{
		{ID: uuid.New(), ActorName: "Libérale Partij", VoteType: parliament.VoteFor},
	}

	positions := parliament.ResolvePositions(votes, lookup)
	if _, ok := positions[p.ID]; !ok {
		t.Error("expected decomposed actor name to match composed party name")
	}
}

func TestResolvePositions_AbstainResolvesNeutral(t *testing.T) {
	p := newParty("Progressive Alliance", "PA")
	lookup := parliament.BuildPartyLookup([]parliament.Party{p})

	positions := parliament.ResolvePositions([]parliament.RawVote{
		memberVote(p.ID, parliament.VoteAbstain),
		memberVote(p.ID, parliament.VoteAbstain),
	}, lookup)

	if got := positions[p.ID].Position; got != parliament.PositionNeutral {
		t.Errorf("expected NEUTRAL, got %s", got)
	}
}

func TestResolvePositions_BlocWeight(t *testing.T) {
	p := newParty("Conservative Union", "CU")
	lookup := parliament.BuildPartyLookup([]parliament.Party{p})

	// A single party-level row carries its seat count as weight.
	bloc := partyVote(p.ID, parliament.VoteFor)
	bloc.PartySize = 38
	positions := parliament.ResolvePositions([]parliament.RawVote{bloc}, lookup)
	if got := positions[p.ID].Weight; got != 38 {
		t.Errorf("expected bloc weight 38, got %d", got)
	}

	// With individual rows present, the literal row count wins.
	positions = parliament.ResolvePositions([]parliament.RawVote{
		memberVote(p.ID, parliament.VoteFor),
		memberVote(p.ID, parliament.VoteFor),
	}, lookup)
	if got := positions[p.ID].Weight; got != 2 {
		t.Errorf("expected weight 2, got %d", got)
	}
}

func TestResolvePositions_PositionAlwaysInDomain(t *testing.T) {
	p1 := newParty("Progressive Alliance", "PA")
	p2 := newParty("Conservative Union", "CU")
	lookup := parliament.BuildPartyLookup([]parliament.Party{p1, p2})

	votes := []parliament.RawVote{
		memberVote(p1.ID, parliament.VoteFor),
		memberVote(p1.ID, parliament.VoteAbstain),
		memberVote(p2.ID, "SOMETHING_ELSE"),
		{ID: uuid.New(), ActorName: "CU", VoteType: parliament.VoteAgainst},
	}

	for partyID, pos := range parliament.ResolvePositions(votes, lookup) {
		switch pos.Position {
		case parliament.PositionFor, parliament.PositionAgainst, parliament.PositionNeutral:
		default:
			t.Errorf("party %s: position %q outside FOR/AGAINST/NEUTRAL", partyID, pos.Position)
		}
	}
}
