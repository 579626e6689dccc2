package main

import (
	"math/rand"
	"time"
)

const (
	DefaultQueueCapacity = 5
	DefaultStackCapacity = 3
)

type SessionOptions struct {
	QueueCapacity int
	StackCapacity int
	// Source seeds the piece generator. Nil means a time-based source.
	Source rand.Source
}

// Session owns one queue, one reserve stack and the single undo slot.
// Every mutating command saves the undo slot first, even if the command
// then fails, so Undo always reverts exactly the last command.
type Session struct {
	gen   *Generator
	queue *PieceQueue
	stack *ReserveStack
	last  Snapshot
}

// SessionView is a read-only copy of a session's live pieces.
type SessionView struct {
	Queue   []Piece
	Reserve []Piece
	CanUndo bool
	Issued  int
}

func NewSession(opts SessionOptions) *Session {
	if opts.QueueCapacity < 1 {
		opts.QueueCapacity = DefaultQueueCapacity
	}
	if opts.StackCapacity < 1 {
		opts.StackCapacity = DefaultStackCapacity
	}
	src := opts.Source
	if src == nil {
		src = rand.NewSource(time.Now().UnixNano())
	}
	gen := NewGenerator(src)
	return &Session{
		gen:   gen,
		queue: NewPieceQueue(opts.QueueCapacity, gen),
		stack: NewReserveStack(opts.StackCapacity),
	}
}

func (s *Session) save() { s.last = SaveState(s.queue, s.stack) }

func (s *Session) PlayFront() (Piece, error) {
	s.save()
	return PlayFront(s.queue)
}

func (s *Session) Reserve() (Piece, error) {
	s.save()
	return Reserve(s.queue, s.stack)
}

func (s *Session) UseReserved() (Piece, error) {
	s.save()
	return UseReserved(s.stack)
}

func (s *Session) Swap() error {
	s.save()
	return SwapFrontTop(s.queue, s.stack)
}

func (s *Session) Invert() int {
	s.save()
	return InvertBlock(s.queue, s.stack)
}

// Undo restores the state saved before the last command. The slot is kept,
// so a second Undo restores the same state again.
func (s *Session) Undo() error {
	return RestoreState(s.last, s.queue, s.stack)
}

func (s *Session) View() SessionView {
	return SessionView{
		Queue:   s.queue.Pieces(),
		Reserve: s.stack.Pieces(),
		CanUndo: s.last.Valid(),
		Issued:  s.gen.Issued(),
	}
}
