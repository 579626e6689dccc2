package main

import "errors"

var (
	ErrEmptyQueue       = errors.New("queue is empty")
	ErrStackFull        = errors.New("reserve is full")
	ErrStackEmpty       = errors.New("reserve is empty")
	ErrNothingToSwap    = errors.New("reserve is empty; nothing to swap")
	ErrNoSnapshot       = errors.New("no saved state to restore")
	ErrSnapshotMismatch = errors.New("saved state does not fit these containers")
)
