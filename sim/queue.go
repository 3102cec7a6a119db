package sim

// PulseQueue is a first-in-first-out queue of pulses.
type PulseQueue interface {
	Push(p Pulse)
	Pop() Pulse
	Peek() Pulse
	Len() int
	Reset()
}

// Queue is a PulseQueue backed by a growable ring buffer. It is not safe for
// concurrent use; a queue belongs to exactly one simulator.
type Queue struct {
	buf   []Pulse
	head  int
	count int
}

// NewQueue creates and returns a newly created Queue.
func NewQueue() *Queue {
	return &Queue{buf: make([]Pulse, 16)}
}

// Push appends a pulse at the tail of the queue.
func (q *Queue) Push(p Pulse) {
	if q.count == len(q.buf) {
		q.grow()
	}

	q.buf[(q.head+q.count)%len(q.buf)] = p
	q.count++
}

func (q *Queue) grow() {
	size := 2 * len(q.buf)
	if size == 0 {
		size = 16
	}

	buf := make([]Pulse, size)
	for i := 0; i < q.count; i++ {
		buf[i] = q.buf[(q.head+i)%len(q.buf)]
	}

	q.buf = buf
	q.head = 0
}

// Pop removes and returns the pulse at the front of the queue.
func (q *Queue) Pop() Pulse {
	if q.count == 0 {
		panic("pop from an empty pulse queue")
	}

	p := q.buf[q.head]
	q.head = (q.head + 1) % len(q.buf)
	q.count--

	return p
}

// Peek returns the pulse at the front of the queue without removing it.
func (q *Queue) Peek() Pulse {
	if q.count == 0 {
		panic("peek into an empty pulse queue")
	}

	return q.buf[q.head]
}

// Len returns the number of pulses in the queue.
func (q *Queue) Len() int {
	return q.count
}

// Reset drops all queued pulses.
func (q *Queue) Reset() {
	q.head = 0
	q.count = 0
}
