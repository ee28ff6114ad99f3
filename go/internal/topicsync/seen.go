package topicsync

// seenSet is a bounded FIFO set of event ids used to discard push
// redeliveries. At-least-once transports may replay an event; replays past
// the window are harmless because every fold is idempotent.
type seenSet struct {
	ids   map[string]struct{}
	order []string
	limit int
}

func newSeenSet(limit int) *seenSet {
	return &seenSet{
		ids:   make(map[string]struct{}, limit),
		limit: limit,
	}
}

// Add records an id and reports whether it was new.
func (s *seenSet) Add(id string) bool {
	if id == "" {
		return true // no identity, cannot de-duplicate
	}
	if _, ok := s.ids[id]; ok {
		return false
	}
	s.ids[id] = struct{}{}
	s.order = append(s.order, id)
	if len(s.order) > s.limit {
		oldest := s.order[0]
		s.order = s.order[1:]
		delete(s.ids, oldest)
	}
	return true
}
