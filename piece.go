package main

import (
	"fmt"
	"math/rand"
)

// Kinds is the fixed alphabet of piece shapes.
var Kinds = [7]byte{'I', 'O', 'T', 'L', 'J', 'S', 'Z'}

// Piece is a single queued or reserved piece. The zero Piece (ID 0) never
// occupies a live slot.
type Piece struct {
	Kind byte
	ID   int
}

func (p Piece) String() string {
	return fmt.Sprintf("[%c%d]", p.Kind, p.ID)
}

// Generator hands out pieces with strictly increasing ids.
// Not safe for concurrent use.
type Generator struct {
	rnd  *rand.Rand
	next int
}

func NewGenerator(src rand.Source) *Generator {
	return &Generator{rnd: rand.New(src), next: 1}
}

// Next picks a kind uniformly and assigns the next id.
func (g *Generator) Next() Piece {
	p := Piece{Kind: Kinds[g.rnd.Intn(len(Kinds))], ID: g.next}
	g.next++
	return p
}

// Issued reports how many pieces have been generated so far.
func (g *Generator) Issued() int { return g.next - 1 }
