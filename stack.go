package main

// ReserveStack is a fixed-capacity LIFO of held pieces. top is -1 when empty.
type ReserveStack struct {
	data []Piece
	top  int
}

func NewReserveStack(capacity int) *ReserveStack {
	if capacity < 1 {
		capacity = 1
	}
	return &ReserveStack{data: make([]Piece, capacity), top: -1}
}

func (s *ReserveStack) Len() int { return s.top + 1 }

func (s *ReserveStack) Cap() int { return len(s.data) }

// Push fails with ErrStackFull without touching the stack.
func (s *ReserveStack) Push(p Piece) error {
	if s.top == len(s.data)-1 {
		return ErrStackFull
	}
	s.top++
	s.data[s.top] = p
	return nil
}

func (s *ReserveStack) Pop() (Piece, error) {
	if s.top == -1 {
		return Piece{}, ErrStackEmpty
	}
	p := s.data[s.top]
	s.top--
	return p, nil
}

func (s *ReserveStack) Peek() (Piece, error) {
	if s.top == -1 {
		return Piece{}, ErrStackEmpty
	}
	return s.data[s.top], nil
}

// Pieces returns the live pieces bottom to top.
func (s *ReserveStack) Pieces() []Piece {
	out := make([]Piece, s.top+1)
	copy(out, s.data[:s.top+1])
	return out
}
