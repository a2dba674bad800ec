package event

// Queue is a FIFO of pending events.
type Queue struct {
	items []*Event
	head  int
}

// Push appends ev.
func (q *Queue) Push(ev *Event) {
	q.items = append(q.items, ev)
}

// Pop removes and returns the oldest event.
func (q *Queue) Pop() (*Event, bool) {
	if q.head >= len(q.items) {
		return nil, false
	}
	ev := q.items[q.head]
	q.items[q.head] = nil
	q.head++
	if q.head == len(q.items) {
		q.items = q.items[:0]
		q.head = 0
	}
	return ev, true
}

// Len returns the number of pending events.
func (q *Queue) Len() int { return len(q.items) - q.head }

// Clear drops every pending event.
func (q *Queue) Clear() {
	clear(q.items)
	q.items = q.items[:0]
	q.head = 0
}
