package common

// List is an ordered collection that is only appended to and drained from
// the front.
type List[T any] struct {
	items []T
}

func (l *List[T]) Add(item T) {
	l.items = append(l.items, item)
}

func (l *List[T]) Len() int {
	return len(l.items)
}

// RemoveFirst removes and returns the first item that satisfies the
// predicate.
func (l *List[T]) RemoveFirst(predicate func(T) bool) (T, bool) {
	for i, item := range l.items {
		if predicate(item) {
			l.items = append(l.items[:i:i], l.items[i+1:]...)
			return item, true
		}
	}
	var zero T
	return zero, false
}
