package votesimport_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/VoteCompass/VC-Backend/internal/votesimport"
)

const header = "motion_key,title,operative_clause,status,submitted_at,categories,decided_at,result_text,actor,member,vote_type,party_size,mistake\n"

func writeCSV(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "votes.csv")
	if err := os.WriteFile(path, []byte(header+body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParseCSV_ValidRows(t *testing.T) {
	path := writeCSV(t, strings.Join([]string{
		`carbon-levy-2021,Carbon levy,Requests that a levy be introduced,decided,2021-03-12,Climate;Energy,2021-03-19,Accepted. Carried.,PA,,FOR,42,false`,
		`carbon-levy-2021,Carbon levy,Requests that a levy be introduced,decided,2021-03-12,Climate;Energy,2021-03-19,Accepted. Carried.,LF,Marta Olsen,against,0,true`,
	}, "\n"))

	rows, err := votesimport.ParseCSV(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}

	first := rows[0]
	if first.MotionKey != "carbon-levy-2021" || first.Actor != "PA" || first.PartySize != 42 {
		t.Errorf("unexpected first row: %+v", first)
	}
	if len(first.Categories) != 2 {
		t.Errorf("expected 2 categories, got %v", first.Categories)
	}

	second := rows[1]
	if second.VoteType != "AGAINST" {
		t.Errorf("vote_type should be upper-cased, got %q", second.VoteType)
	}
	if !second.Mistake || second.Member != "Marta Olsen" {
		t.Errorf("unexpected second row: %+v", second)
	}
}

func TestParseCSV_RejectsBadVoteType(t *testing.T) {
	path := writeCSV(t, `carbon-levy-2021,Carbon levy,Requests that,decided,2021-03-12,Climate,2021-03-19,Accepted.,PA,,MAYBE,0,false`)

	if _, err := votesimport.ParseCSV(path); err == nil {
		t.Error("expected an error for an invalid vote_type")
	}
}

func TestParseCSV_RejectsBadMotionKey(t *testing.T) {
	path := writeCSV(t, `Carbon Levy!,Carbon levy,Requests that,decided,2021-03-12,Climate,2021-03-19,Accepted.,PA,,FOR,0,false`)

	if _, err := votesimport.ParseCSV(path); err == nil {
		t.Error("expected an error for an invalid motion_key")
	}
}

func TestParseCSV_RequiresActorOrMember(t *testing.T) {
	path := writeCSV(t, `carbon-levy-2021,Carbon levy,Requests that,decided,2021-03-12,Climate,2021-03-19,Accepted.,,,FOR,0,false`)

	if _, err := votesimport.ParseCSV(path); err == nil {
		t.Error("expected an error when both actor and member are empty")
	}
}
