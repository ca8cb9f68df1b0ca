package set

// Set represents a generic set of comparable items
type Set[T comparable] struct {
	items map[T]struct{}
}

// New creates a new Set
func New[T comparable](elems ...T) Set[T] {
	s := Set[T]{
		items: make(map[T]struct{}, len(elems)),
	}
	s.Append(elems...)
	return s
}

// Append inserts elements into the set
func (s Set[T]) Append(elems ...T) {
	for _, elem := range elems {
		s.items[elem] = struct{}{}
	}
}

// Contains checks if an element is in the set
func (s Set[T]) Contains(elem T) bool {
	_, ok := s.items[elem]
	return ok
}

// Len returns the number of elements in the set
func (s Set[T]) Len() int {
	return len(s.items)
}

// Values returns all elements in the set as an unsorted slice
func (s Set[T]) Values() []T {
	v := make([]T, 0, len(s.items))
	for elem := range s.items {
		v = append(v, elem)
	}
	return v
}
