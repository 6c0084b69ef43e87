package game

import (
	"math/rand/v2"

	"github.com/hailam/chesscore/internal/board"
)

// Chooser picks a move for the side to move. moves holds every legal move;
// returning board.NoMove means the chooser has nothing to offer.
type Chooser interface {
	Choose(b *board.Board, moves []board.Move) board.Move
}

// ChooserFunc adapts a function to the Chooser interface.
type ChooserFunc func(b *board.Board, moves []board.Move) board.Move

func (f ChooserFunc) Choose(b *board.Board, moves []board.Move) board.Move {
	return f(b, moves)
}

// RandomChooser picks uniformly among the legal moves.
type RandomChooser struct {
	rng  *rand.Rand
	Seed uint64
}

// NewRandomChooser returns a chooser whose picks are fixed by seed.
func NewRandomChooser(seed uint64) *RandomChooser {
	return &RandomChooser{
		rng:  rand.New(rand.NewPCG(seed, seed^0x9E3779B97F4A7C15)),
		Seed: seed,
	}
}

func (c *RandomChooser) Choose(_ *board.Board, moves []board.Move) board.Move {
	if len(moves) == 0 {
		return board.NoMove
	}
	return moves[c.rng.IntN(len(moves))]
}

// ScriptedChooser plays a fixed list of coordinate moves, one per call.
type ScriptedChooser struct {
	moves []string
	next  int
}

// NewScriptedChooser returns a chooser that plays moves in order.
func NewScriptedChooser(moves ...string) *ScriptedChooser {
	return &ScriptedChooser{moves: moves}
}

// Remaining returns how many scripted moves are left.
func (c *ScriptedChooser) Remaining() int { return len(c.moves) - c.next }

func (c *ScriptedChooser) Choose(b *board.Board, _ []board.Move) board.Move {
	if c.next >= len(c.moves) {
		return board.NoMove
	}
	m, err := b.ParseMove(c.moves[c.next])
	if err != nil {
		return board.NoMove
	}
	c.next++
	return m
}
