package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

var menuActions = map[int]string{
	1: ActionPlay,
	2: ActionReserve,
	3: ActionUse,
	4: ActionSwap,
	5: ActionUndo,
	6: ActionInvert,
}

const menuText = `
1 - Play piece
2 - Reserve piece
3 - Use reserved piece
4 - Swap queue front with reserve top
5 - Undo last move
6 - Invert queue front and reserve
0 - Quit
Choice: `

// Console is the terminal dispatcher: it reads one menu choice per line,
// runs the matching command and prints the outcome.
type Console struct {
	sess    *Session
	in      *bufio.Scanner
	out     io.Writer
	metrics *Metrics
}

func NewConsole(sess *Session, in io.Reader, out io.Writer, m *Metrics) *Console {
	return &Console{sess: sess, in: bufio.NewScanner(in), out: out, metrics: m}
}

func formatPieces(ps []Piece) string {
	toks := make([]string, len(ps))
	for i, p := range ps {
		toks[i] = p.String()
	}
	return strings.Join(toks, " ")
}

func (c *Console) render() {
	v := c.sess.View()
	fmt.Fprintln(c.out, "\n=== TETRIS STACK ===")
	fmt.Fprintf(c.out, "Queue: %s\n", formatPieces(v.Queue))
	if len(v.Reserve) == 0 {
		fmt.Fprintln(c.out, "Reserve: (empty)")
	} else {
		fmt.Fprintf(c.out, "Reserve: %s\n", formatPieces(v.Reserve))
	}
	fmt.Fprint(c.out, menuText)
}

// Run loops until the user picks 0 or input ends.
func (c *Console) Run() error {
	for {
		c.render()
		if !c.in.Scan() {
			fmt.Fprintln(c.out)
			return c.in.Err()
		}
		choice, err := strconv.Atoi(strings.TrimSpace(c.in.Text()))
		if err != nil {
			fmt.Fprintln(c.out, "Invalid option!")
			continue
		}
		if choice == 0 {
			fmt.Fprintln(c.out, "Quitting...")
			return nil
		}
		action, ok := menuActions[choice]
		if !ok {
			fmt.Fprintln(c.out, "Invalid option!")
			continue
		}
		c.dispatch(action)
	}
}

func (c *Console) dispatch(action string) {
	res, err := runAction(c.sess, action)
	c.metrics.observeAction(action, err)
	if err != nil {
		fmt.Fprintf(c.out, "Cannot %s: %v\n", action, err)
		return
	}
	switch action {
	case ActionPlay:
		fmt.Fprintf(c.out, "You played %s\n", res.piece)
	case ActionReserve:
		fmt.Fprintf(c.out, "You reserved %s\n", res.piece)
	case ActionUse:
		fmt.Fprintf(c.out, "You used %s\n", res.piece)
	case ActionSwap:
		v := c.sess.View()
		fmt.Fprintf(c.out, "Swapped: %s <-> %s\n", v.Queue[0], v.Reserve[len(v.Reserve)-1])
	case ActionUndo:
		fmt.Fprintln(c.out, "Last move undone.")
	case ActionInvert:
		fmt.Fprintf(c.out, "Inverted %d pieces between queue and reserve\n", res.moved)
	}
}
