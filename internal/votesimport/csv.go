package votesimport

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Row is one vote of a parliamentary export. Rows sharing a motion_key
// belong to the same motion and decision; the first row of a key defines
// the motion fields.
type Row struct {
	MotionKey       string
	Title           string
	OperativeClause string
	Status          string
	SubmittedAt     time.Time
	Categories      []string
	DecidedAt       time.Time
	ResultText      string
	Actor           string // party name or abbreviation
	Member          string // individual legislator, optional
	VoteType        string
	PartySize       int
	Mistake         bool
}

var keyRe = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

func ParseCSV(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(bufio.NewReader(f))
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return nil, errors.New("csv has no data rows")
	}

	header := records[0]
	// Handle BOM on first header cell
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	col := map[string]int{}
	for i, h := range header {
		col[strings.TrimSpace(h)] = i
	}

	req := []string{
		"motion_key", "title", "operative_clause", "status", "submitted_at",
		"categories", "decided_at", "result_text", "actor", "member",
		"vote_type", "party_size", "mistake",
	}
	for _, k := range req {
		if _, ok := col[k]; !ok {
			return nil, fmt.Errorf("missing required column: %s", k)
		}
	}

	var out []Row
	for rowIdx := 1; rowIdx < len(records); rowIdx++ {
		rec := records[rowIdx]
		get := func(name string) string {
			i := col[name]
			if i >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[i])
		}

		key := get("motion_key")
		if !keyRe.MatchString(key) {
			return nil, fmt.Errorf("row %d: invalid motion_key %q", rowIdx+1, key)
		}

		submittedAt, err := time.Parse("2006-01-02", get("submitted_at"))
		if err != nil {
			return nil, fmt.Errorf("row %d: submitted_at: %v", rowIdx+1, err)
		}
		decidedAt, err := time.Parse("2006-01-02", get("decided_at"))
		if err != nil {
			return nil, fmt.Errorf("row %d: decided_at: %v", rowIdx+1, err)
		}

		voteType := strings.ToUpper(get("vote_type"))
		switch voteType {
		case "FOR", "AGAINST", "ABSTAIN":
		default:
			return nil, fmt.Errorf("row %d: vote_type must be FOR, AGAINST or ABSTAIN", rowIdx+1)
		}

		partySize := 0
		if v := get("party_size"); v != "" {
			partySize, err = strconv.Atoi(v)
			if err != nil || partySize < 0 {
				return nil, fmt.Errorf("row %d: invalid party_size %q", rowIdx+1, v)
			}
		}

		var categories []string
		for _, c := range strings.Split(get("categories"), ";") {
			if c = strings.TrimSpace(c); c != "" {
				categories = append(categories, c)
			}
		}

		if get("actor") == "" && get("member") == "" {
			return nil, fmt.Errorf("row %d: actor or member is required", rowIdx+1)
		}

		out = append(out, Row{
			MotionKey:       key,
			Title:           get("title"),
			OperativeClause: get("operative_clause"),
			Status:          get("status"),
			SubmittedAt:     submittedAt,
			Categories:      categories,
			DecidedAt:       decidedAt,
			ResultText:      get("result_text"),
			Actor:           get("actor"),
			Member:          get("member"),
			VoteType:        voteType,
			PartySize:       partySize,
			Mistake:         strings.EqualFold(get("mistake"), "true"),
		})
	}
	return out, nil
}
