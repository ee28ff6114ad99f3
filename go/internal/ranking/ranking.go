// Package ranking computes the de-duplicated bid leaderboard and the auction
// winner from a raw bid list. Everything here is a pure function: no side
// effects, input never mutated, identical input gives identical output.
package ranking

import (
	"sort"

	"github.com/bidforhope/livesync/go/internal/models"
)

// LeaderboardSize is how many distinct bidders the bid-history view shows.
const LeaderboardSize = 3

// TopBids returns at most k bids, one per distinct bidder (each bidder's
// highest), ordered by amount descending. Ties keep the first-seen order of
// the input. A bid with neither bidder id nor name has no identity and is
// always kept as its own entry.
func TopBids(bids []models.Bid, k int) []models.Bid {
	if len(bids) == 0 || k <= 0 {
		return nil
	}

	best := make(map[string]int) // bidder key -> index into entries
	entries := make([]models.Bid, 0, len(bids))

	for _, bid := range bids {
		key := bid.Bidder.Key()
		if key == "" {
			// Unidentifiable bidder: unmergeable, distinct entry.
			entries = append(entries, bid)
			continue
		}
		if at, seen := best[key]; seen {
			if bid.Amount.GreaterThan(entries[at].Amount) {
				entries[at] = bid
			}
			continue
		}
		best[key] = len(entries)
		entries = append(entries, bid)
	}

	// Stable sort keeps first-seen order on equal amounts.
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Amount.GreaterThan(entries[j].Amount)
	})

	if len(entries) > k {
		entries = entries[:k]
	}
	return entries
}

// Winner returns the bid that wins the auction: the single highest-amount bid
// across the full list, not just the leaderboard. The second return is false
// for an empty list. On equal amounts the earlier bid in the input wins.
func Winner(bids []models.Bid) (models.Bid, bool) {
	if len(bids) == 0 {
		return models.Bid{}, false
	}
	winner := bids[0]
	for _, bid := range bids[1:] {
		if bid.Amount.GreaterThan(winner.Amount) {
			winner = bid
		}
	}
	return winner, true
}

// IsWinner reports whether userID placed the winning bid. False for an empty
// list, an empty userID, or a winning bid with no bidder id.
func IsWinner(bids []models.Bid, userID string) bool {
	if userID == "" {
		return false
	}
	winner, ok := Winner(bids)
	if !ok || winner.Bidder == nil {
		return false
	}
	return winner.Bidder.ID == userID
}
