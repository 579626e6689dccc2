package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fill pushes the next n pieces from the queue's generator onto s.
func fill(t *testing.T, q *PieceQueue, s *ReserveStack, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		require.NoError(t, s.Push(q.gen.Next()))
	}
}

func TestReserveThenUseReturnsFormerFront(t *testing.T) {
	q := newTestQueue(5)
	s := NewReserveStack(3)
	front, err := q.Front()
	require.NoError(t, err)

	reserved, err := Reserve(q, s)
	require.NoError(t, err)
	assert.Equal(t, front, reserved)
	assert.Equal(t, 5, q.Len())
	assert.Equal(t, []int{2, 3, 4, 5, 6}, ids(q.Pieces()))

	used, err := UseReserved(s)
	require.NoError(t, err)
	assert.Equal(t, front, used)
	assert.Equal(t, 0, s.Len())
}

func TestReserveFullLeavesBothUnchanged(t *testing.T) {
	q := newTestQueue(5)
	s := NewReserveStack(3)
	for i := 0; i < 3; i++ {
		_, err := Reserve(q, s)
		require.NoError(t, err)
	}
	queueBefore, stackBefore := q.Pieces(), s.Pieces()
	issued := q.gen.Issued()

	_, err := Reserve(q, s)
	assert.ErrorIs(t, err, ErrStackFull)
	assert.Equal(t, queueBefore, q.Pieces())
	assert.Equal(t, stackBefore, s.Pieces())
	assert.Equal(t, issued, q.gen.Issued(), "no piece may be generated on failure")
}

func TestPlayFront(t *testing.T) {
	q := newTestQueue(5)
	p, err := PlayFront(q)
	require.NoError(t, err)
	assert.Equal(t, 1, p.ID)
	assert.Equal(t, 5, q.Len())
}

func TestSwapFrontTop(t *testing.T) {
	q := newTestQueue(5)
	s := NewReserveStack(3)

	assert.ErrorIs(t, SwapFrontTop(q, s), ErrNothingToSwap)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, ids(q.Pieces()))

	fill(t, q, s, 2) // ids 6, 7
	require.NoError(t, SwapFrontTop(q, s))
	assert.Equal(t, []int{7, 2, 3, 4, 5}, ids(q.Pieces()))
	assert.Equal(t, []int{6, 1}, ids(s.Pieces()))

	require.NoError(t, SwapFrontTop(q, s))
	assert.Equal(t, []int{1, 2, 3, 4, 5}, ids(q.Pieces()))
	assert.Equal(t, []int{6, 7}, ids(s.Pieces()))
}

func TestSwapFrontTopAfterWrap(t *testing.T) {
	q := newTestQueue(5)
	s := NewReserveStack(3)
	for i := 0; i < 7; i++ {
		_, err := q.Dequeue()
		require.NoError(t, err)
	}
	fill(t, q, s, 1) // id 13
	require.NoError(t, SwapFrontTop(q, s))
	assert.Equal(t, []int{13, 9, 10, 11, 12}, ids(q.Pieces()))
	assert.Equal(t, []int{8}, ids(s.Pieces()))
}

func TestInvertBlockFull(t *testing.T) {
	q := newTestQueue(5)
	s := NewReserveStack(3)
	fill(t, q, s, 3) // stack bottom..top: 6, 7, 8

	n := InvertBlock(q, s)
	assert.Equal(t, 3, n)
	assert.Equal(t, []int{8, 7, 6, 4, 5}, ids(q.Pieces()))
	assert.Equal(t, []int{1, 2, 3}, ids(s.Pieces()))
	assert.Equal(t, 5, q.Len())
	assert.Equal(t, 2, s.top)
}

func TestInvertBlockEmptyStackIsNoop(t *testing.T) {
	q := newTestQueue(5)
	s := NewReserveStack(3)

	n := InvertBlock(q, s)
	assert.Equal(t, 0, n)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, ids(q.Pieces()))
	assert.Equal(t, -1, s.top)
}

func TestInvertBlockBoundedBySmallerContainer(t *testing.T) {
	tests := []struct {
		name      string
		queueLen  int
		held      int
		wantN     int
		wantQueue []int
		wantStack []int
	}{
		{name: "one held", queueLen: 5, held: 1, wantN: 1, wantQueue: []int{6, 2, 3, 4, 5}, wantStack: []int{1}},
		{name: "two held", queueLen: 5, held: 2, wantN: 2, wantQueue: []int{7, 6, 3, 4, 5}, wantStack: []int{1, 2}},
		{name: "short queue", queueLen: 2, held: 3, wantN: 2, wantQueue: []int{8, 7}, wantStack: []int{6, 1, 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := newTestQueue(5)
			s := NewReserveStack(3)
			q.size = tt.queueLen
			fill(t, q, s, tt.held)

			n := InvertBlock(q, s)
			assert.Equal(t, tt.wantN, n)
			assert.Equal(t, tt.wantQueue, ids(q.Pieces()))
			assert.Equal(t, tt.wantStack, ids(s.Pieces()))
			assert.Equal(t, tt.queueLen, q.Len())
			assert.Equal(t, tt.held, s.Len())
		})
	}
}

func TestInvertBlockAcrossWrap(t *testing.T) {
	q := newTestQueue(5)
	s := NewReserveStack(3)
	for i := 0; i < 4; i++ {
		_, err := q.Dequeue()
		require.NoError(t, err)
	}
	// queue 5..9 with head at slot 4, so the block spans slots 4, 0, 1
	fill(t, q, s, 3) // 10, 11, 12

	require.Equal(t, 3, InvertBlock(q, s))
	assert.Equal(t, []int{12, 11, 10, 8, 9}, ids(q.Pieces()))
	assert.Equal(t, []int{5, 6, 7}, ids(s.Pieces()))
}
