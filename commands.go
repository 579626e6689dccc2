package main

import "fmt"

// Action names shared by the HTTP and terminal dispatchers.
const (
	ActionPlay    = "play"
	ActionReserve = "reserve"
	ActionUse     = "use"
	ActionSwap    = "swap"
	ActionInvert  = "invert"
	ActionUndo    = "undo"
)

type commandResult struct {
	piece *Piece
	moved int
}

// runAction executes one named command on sess.
func runAction(sess *Session, action string) (commandResult, error) {
	var res commandResult
	switch action {
	case ActionPlay, ActionReserve, ActionUse:
		var p Piece
		var err error
		switch action {
		case ActionPlay:
			p, err = sess.PlayFront()
		case ActionReserve:
			p, err = sess.Reserve()
		default:
			p, err = sess.UseReserved()
		}
		if err != nil {
			return res, err
		}
		res.piece = &p
		return res, nil
	case ActionSwap:
		return res, sess.Swap()
	case ActionInvert:
		res.moved = sess.Invert()
		return res, nil
	case ActionUndo:
		return res, sess.Undo()
	default:
		return res, fmt.Errorf("unknown action %q", action)
	}
}
