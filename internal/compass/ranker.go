package compass

import "sort"

// agreementNoise is the floor below which two agreement percentages are
// treated as equal when ordering, so float noise doesn't decide positions.
const agreementNoise = 0.1

// RankResults sorts scored parties and assigns dense ranks. Order:
// agreement descending, then total votes descending (more corroborating
// votes wins), then score descending. Parties with exactly equal rounded
// agreement share a rank; the next distinct agreement gets its position
// index + 1, so rank 1 can be plural.
func RankResults(results []PartyResult) []PartyResult {
	sort.SliceStable(results, func(i, j int) bool {
		diff := results[i].Agreement - results[j].Agreement
		if diff > agreementNoise {
			return true
		}
		if diff < -agreementNoise {
			return false
		}
		if results[i].TotalVotes != results[j].TotalVotes {
			return results[i].TotalVotes > results[j].TotalVotes
		}
		return results[i].Score > results[j].Score
	})

	for i := range results {
		if i > 0 && results[i].Agreement == results[i-1].Agreement {
			results[i].Rank = results[i-1].Rank
		} else {
			results[i].Rank = i + 1
		}
	}
	return results
}
