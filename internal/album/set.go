package album

// OrderedSet keeps unique values in insertion order.
//
// The zero value is ready to use.
type OrderedSet[T comparable] struct {
	seen  map[T]struct{}
	items []T
}

// Add inserts v unless it is already present. It reports whether v was added.
func (s *OrderedSet[T]) Add(v T) bool {
	if _, ok := s.seen[v]; ok {
		return false
	}
	if s.seen == nil {
		s.seen = make(map[T]struct{})
	}
	s.seen[v] = struct{}{}
	s.items = append(s.items, v)
	return true
}

// Len returns the number of values.
func (s *OrderedSet[T]) Len() int {
	return len(s.items)
}

// Values returns a copy of the values in insertion order.
func (s *OrderedSet[T]) Values() []T {
	out := make([]T, len(s.items))
	copy(out, s.items)
	return out
}
