// Package game plays a game between two move choosers and reports how it
// ended.
package game

import (
	"context"
	"errors"
	"fmt"

	"github.com/hailam/chesscore/internal/board"
)

var (
	// ErrIllegalMove is returned when a chooser picks a move that is not in
	// the legal move list.
	ErrIllegalMove = errors.New("game: illegal move")
	// ErrNoMove is returned when a chooser has nothing to play.
	ErrNoMove = errors.New("game: chooser returned no move")
)

// Termination is the reason a game stopped.
type Termination int

const (
	Ongoing Termination = iota
	Checkmate
	Stalemate
	FiftyMoveRule
	PlyLimit
)

// Terminations lists every finished state.
var Terminations = [...]Termination{Checkmate, Stalemate, FiftyMoveRule, PlyLimit}

func (t Termination) String() string {
	switch t {
	case Ongoing:
		return "ongoing"
	case Checkmate:
		return "checkmate"
	case Stalemate:
		return "stalemate"
	case FiftyMoveRule:
		return "fifty-move rule"
	case PlyLimit:
		return "ply limit"
	}
	return fmt.Sprintf("Termination(%d)", int(t))
}

// Result describes the state of a game.
type Result struct {
	Termination Termination
	// Winner is only meaningful for Checkmate.
	Winner board.Color
	Plies  int
	FEN    string
}

// Decisive reports whether the game ended with a winner.
func (r Result) Decisive() bool {
	return r.Termination == Checkmate
}

// Score returns the PGN result token.
func (r Result) Score() string {
	switch {
	case r.Termination == Ongoing || r.Termination == PlyLimit:
		return "*"
	case !r.Decisive():
		return "1/2-1/2"
	case r.Winner == board.White:
		return "1-0"
	default:
		return "0-1"
	}
}

func (r Result) String() string {
	if r.Decisive() {
		return fmt.Sprintf("%s (%s wins by %s after %d plies)", r.Score(), r.Winner, r.Termination, r.Plies)
	}
	return fmt.Sprintf("%s (%s after %d plies)", r.Score(), r.Termination, r.Plies)
}

// Game drives a board with one chooser per side.
type Game struct {
	board   *board.Board
	players [2]Chooser
	plies   int

	// OnMove is called after every move with the board already updated.
	OnMove func(b *board.Board, m board.Move)
}

// New starts a game from b. The game owns b from then on.
func New(b *board.Board, white, black Chooser) *Game {
	if white == nil || black == nil {
		panic("game: a chooser is required for each side")
	}
	return &Game{
		board:   b,
		players: [2]Chooser{white, black},
	}
}

// Board returns the game's board.
func (g *Game) Board() *board.Board { return g.board }

// Plies returns the number of moves played so far.
func (g *Game) Plies() int { return g.plies }

// Status returns the current result without moving.
func (g *Game) Status() Result {
	return g.result(g.termination())
}

func (g *Game) termination() Termination {
	b := g.board
	if b.IsFiftyMoveDraw() {
		return FiftyMoveRule
	}
	if !b.HasLegalMoves() {
		if b.InCheck() {
			return Checkmate
		}
		return Stalemate
	}
	return Ongoing
}

func (g *Game) result(t Termination) Result {
	return Result{
		Termination: t,
		Winner:      g.board.SideToMove().Other(),
		Plies:       g.plies,
		FEN:         g.board.FEN(),
	}
}

// Step plays one move for the side to move. When the game is already over
// the board is left alone and the final result is returned.
func (g *Game) Step() (Result, error) {
	b := g.board
	if t := g.termination(); t != Ongoing {
		return g.result(t), nil
	}

	ml := b.GenerateLegalMoves()
	m := g.players[b.SideToMove()].Choose(b, ml.Moves())
	if m.IsError() {
		return g.result(Ongoing), fmt.Errorf("%w for %s", ErrNoMove, b.SideToMove())
	}
	if legal := ml.Find(m.From(), m.To(), m.Promotion()); legal != m {
		return g.result(Ongoing), fmt.Errorf("%w: %s in %s", ErrIllegalMove, m, b.FEN())
	}

	b.MakeMove(m)
	g.plies++
	if g.OnMove != nil {
		g.OnMove(b, m)
	}
	return g.result(g.termination()), nil
}

// Run plays until the game ends, maxPlies moves have been made, or ctx is
// done. A maxPlies of zero or less means no limit.
func (g *Game) Run(ctx context.Context, maxPlies int) (Result, error) {
	for {
		if err := ctx.Err(); err != nil {
			return g.Status(), err
		}
		if maxPlies > 0 && g.plies >= maxPlies {
			if t := g.termination(); t != Ongoing {
				return g.result(t), nil
			}
			return g.result(PlyLimit), nil
		}

		res, err := g.Step()
		if err != nil {
			return res, err
		}
		if res.Termination != Ongoing {
			return res, nil
		}
	}
}
