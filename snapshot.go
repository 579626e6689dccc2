package main

// Snapshot is a value copy of one queue and one stack. The zero Snapshot
// holds nothing and cannot be restored.
type Snapshot struct {
	queue []Piece
	head  int
	size  int
	stack []Piece
	top   int
	ok    bool
}

// Valid reports whether the snapshot was produced by SaveState.
func (s Snapshot) Valid() bool { return s.ok }

// SaveState copies the full buffers, including stale slots outside the
// live windows.
func SaveState(q *PieceQueue, s *ReserveStack) Snapshot {
	snap := Snapshot{
		queue: make([]Piece, len(q.data)),
		head:  q.head,
		size:  q.size,
		stack: make([]Piece, len(s.data)),
		top:   s.top,
		ok:    true,
	}
	copy(snap.queue, q.data)
	copy(snap.stack, s.data)
	return snap
}

// RestoreState overwrites q and s with the snapshot. Every check runs
// before the first write, so either both containers are replaced or
// neither is. The queue's generator is left alone and keeps counting.
func RestoreState(snap Snapshot, q *PieceQueue, s *ReserveStack) error {
	if !snap.ok {
		return ErrNoSnapshot
	}
	if len(snap.queue) != len(q.data) || len(snap.stack) != len(s.data) {
		return ErrSnapshotMismatch
	}
	copy(q.data, snap.queue)
	q.head, q.size = snap.head, snap.size
	copy(s.data, snap.stack)
	s.top = snap.top
	return nil
}
