package model

import "sort"

// SeenSet is the set of posting IDs that have already been processed.
// IDs are only ever added.
type SeenSet struct {
	ids map[string]struct{}
}

// NewSeenSet returns a set seeded with ids.
func NewSeenSet(ids ...string) *SeenSet {
	s := &SeenSet{ids: make(map[string]struct{}, len(ids))}
	for _, id := range ids {
		s.ids[id] = struct{}{}
	}
	return s
}

// Has reports whether id is in the set.
func (s *SeenSet) Has(id string) bool {
	_, ok := s.ids[id]
	return ok
}

// Add inserts id. Adding an existing id is a no-op.
func (s *SeenSet) Add(id string) {
	s.ids[id] = struct{}{}
}

// Len returns the number of ids.
func (s *SeenSet) Len() int {
	return len(s.ids)
}

// IDs returns every id in ascending order.
func (s *SeenSet) IDs() []string {
	out := make([]string, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
