package main

import "time"

// Request/response models
type startSessionRequest struct {
	Seed *int64 `json:"seed,omitempty"`
}

type pieceView struct {
	Kind string `json:"kind"`
	ID   int    `json:"id"`
}

type sessionResponse struct {
	Queue   []pieceView `json:"queue"`
	Reserve []pieceView `json:"reserve"`
	CanUndo bool        `json:"can_undo"`
	Issued  int         `json:"issued"`
}

type actionResponse struct {
	Action string          `json:"action"`
	Piece  *pieceView      `json:"piece,omitempty"`
	Moved  *int            `json:"moved,omitempty"`
	State  sessionResponse `json:"state"`
}

type sessionSummary struct {
	ID      string    `json:"id"`
	Created time.Time `json:"created"`
	Front   pieceView `json:"front"`
	Held    int       `json:"held"`
}

type startSessionResponse struct {
	ID    string          `json:"id"`
	State sessionResponse `json:"state"`
}

func toPieceView(p Piece) pieceView {
	return pieceView{Kind: string(p.Kind), ID: p.ID}
}

func toPieceViews(ps []Piece) []pieceView {
	out := make([]pieceView, len(ps))
	for i, p := range ps {
		out[i] = toPieceView(p)
	}
	return out
}

func toSessionResponse(v SessionView) sessionResponse {
	return sessionResponse{
		Queue:   toPieceViews(v.Queue),
		Reserve: toPieceViews(v.Reserve),
		CanUndo: v.CanUndo,
		Issued:  v.Issued,
	}
}
