package sim

// Queue is a bounded FIFO ring. Producers push between ticks and the tick
// drains it once.
type Queue[T any] struct {
	items []T
	head  int
	size  int
}

func NewQueue[T any](capacity int) *Queue[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &Queue[T]{items: make([]T, capacity)}
}

// Push appends evt and reports false when the queue is full.
func (q *Queue[T]) Push(evt T) bool {
	if q == nil || q.size == len(q.items) {
		return false
	}
	q.items[(q.head+q.size)%len(q.items)] = evt
	q.size++
	return true
}

// Drain calls fn for every queued entry in push order and empties the queue.
// Entries pushed by fn are kept for the next drain.
func (q *Queue[T]) Drain(fn func(T)) int {
	if q == nil || q.size == 0 {
		return 0
	}
	n := q.size
	var zero T
	for i := 0; i < n; i++ {
		idx := q.head
		evt := q.items[idx]
		q.items[idx] = zero
		q.head = (q.head + 1) % len(q.items)
		q.size--
		if fn != nil {
			fn(evt)
		}
	}
	return n
}

func (q *Queue[T]) Len() int {
	if q == nil {
		return 0
	}
	return q.size
}

func (q *Queue[T]) Cap() int {
	if q == nil {
		return 0
	}
	return len(q.items)
}

func (q *Queue[T]) Clear() {
	if q == nil {
		return
	}
	var zero T
	for i := range q.items {
		q.items[i] = zero
	}
	q.head = 0
	q.size = 0
}
