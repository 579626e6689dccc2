package main

// blockSize caps how many pieces InvertBlock exchanges.
const blockSize = 3

// PlayFront plays the front piece; the queue refills behind it.
func PlayFront(q *PieceQueue) (Piece, error) {
	return q.Dequeue()
}

// Reserve moves the front piece onto the stack and refills the queue.
// On ErrStackFull neither container changes.
func Reserve(q *PieceQueue, s *ReserveStack) (Piece, error) {
	p, err := q.Front()
	if err != nil {
		return Piece{}, err
	}
	if err := s.Push(p); err != nil {
		return Piece{}, err
	}
	if _, err := q.Dequeue(); err != nil {
		return Piece{}, err
	}
	return p, nil
}

func UseReserved(s *ReserveStack) (Piece, error) {
	return s.Pop()
}

// SwapFrontTop exchanges the queue's front slot with the stack's top slot
// in place. Sizes never change, so applying it twice is the identity.
func SwapFrontTop(q *PieceQueue, s *ReserveStack) error {
	if s.top == -1 {
		return ErrNothingToSwap
	}
	if q.size == 0 {
		return ErrEmptyQueue
	}
	q.data[q.head], s.data[s.top] = s.data[s.top], q.data[q.head]
	return nil
}

// InvertBlock exchanges up to blockSize pieces between the queue front and
// the stack top: the stack's top becomes the queue's front, and the affected
// stack range receives the old front block in queue order, bottom first.
// Neither container changes size. It returns the number of pieces moved
// each way; 0 leaves both containers untouched.
func InvertBlock(q *PieceQueue, s *ReserveStack) int {
	n := min(blockSize, q.size, s.top+1)
	if n == 0 {
		return 0
	}

	var front [blockSize]Piece
	for i := 0; i < n; i++ {
		front[i] = q.data[q.slot(i)]
	}
	for i := 0; i < n; i++ {
		q.data[q.slot(i)] = s.data[s.top-i]
	}
	copy(s.data[s.top-n+1:s.top+1], front[:n])
	return n
}
