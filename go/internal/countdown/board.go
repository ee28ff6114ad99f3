package countdown

import "time"

// Snapshot computes the TimeLeft for a set of deadlines keyed by auction id,
// as the dashboard does for every live auction at once. Elapsed deadlines
// are omitted from the result.
func Snapshot(deadlines map[string]time.Time, now time.Time) map[string]TimeLeft {
	out := make(map[string]TimeLeft, len(deadlines))
	for id, deadline := range deadlines {
		if left, ok := Remaining(deadline, now); ok {
			out[id] = left
		}
	}
	return out
}
