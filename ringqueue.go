package main

// PieceQueue is a fixed-capacity ring buffer FIFO of pieces that refills
// itself from its generator on every dequeue.
type PieceQueue struct {
	data []Piece
	head int
	size int
	gen  *Generator
}

// NewPieceQueue allocates the ring and fills every slot.
func NewPieceQueue(capacity int, gen *Generator) *PieceQueue {
	if capacity < 1 {
		capacity = 1
	}
	q := &PieceQueue{data: make([]Piece, capacity), gen: gen}
	for i := 0; i < capacity; i++ {
		q.enqueue(gen.Next())
	}
	return q
}

func (q *PieceQueue) Len() int { return q.size }

func (q *PieceQueue) Cap() int { return len(q.data) }

// tail is the next insertion slot.
func (q *PieceQueue) tail() int { return (q.head + q.size) % len(q.data) }

// slot maps the i-th live position (0 = front) to a buffer index.
func (q *PieceQueue) slot(i int) int { return (q.head + i) % len(q.data) }

func (q *PieceQueue) enqueue(p Piece) bool {
	if q.size == len(q.data) {
		return false
	}
	q.data[q.tail()] = p
	q.size++
	return true
}

// Dequeue removes the front piece and inserts a freshly generated one at
// the tail, so a non-empty queue never shrinks.
func (q *PieceQueue) Dequeue() (Piece, error) {
	if q.size == 0 {
		return Piece{}, ErrEmptyQueue
	}
	p := q.data[q.head]
	q.head = (q.head + 1) % len(q.data)
	q.size--
	q.enqueue(q.gen.Next())
	return p, nil
}

func (q *PieceQueue) Front() (Piece, error) {
	if q.size == 0 {
		return Piece{}, ErrEmptyQueue
	}
	return q.data[q.head], nil
}

// Pieces returns the live pieces front to back.
func (q *PieceQueue) Pieces() []Piece {
	out := make([]Piece, q.size)
	for i := 0; i < q.size; i++ {
		out[i] = q.data[q.slot(i)]
	}
	return out
}
