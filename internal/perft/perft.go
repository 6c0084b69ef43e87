// Package perft counts the leaf nodes of the legal move tree. The counts are
// compared against published values to verify move generation.
package perft

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"slices"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/hailam/chesscore/internal/board"
)

// ErrDepth is returned for negative depths.
var ErrDepth = errors.New("perft: negative depth")

// Stats describes the moves found at the last ply of a perft run.
type Stats struct {
	Nodes      uint64 `json:"nodes"`
	Captures   uint64 `json:"captures"`
	EnPassant  uint64 `json:"en_passant"`
	Castles    uint64 `json:"castles"`
	Promotions uint64 `json:"promotions"`
	Checks     uint64 `json:"checks"`
}

// Add accumulates o into s.
func (s *Stats) Add(o Stats) {
	s.Nodes += o.Nodes
	s.Captures += o.Captures
	s.EnPassant += o.EnPassant
	s.Castles += o.Castles
	s.Promotions += o.Promotions
	s.Checks += o.Checks
}

// RootCount is the number of leaves below one root move.
type RootCount struct {
	Move  board.Move
	Nodes uint64
}

// walker reuses one move list per ply.
type walker struct {
	gen   board.Generator
	lists []board.MoveList
}

func newWalker(depth int) *walker {
	return &walker{lists: make([]board.MoveList, depth+1)}
}

func (w *walker) moves(b *board.Board, depth int) *board.MoveList {
	ml := &w.lists[depth]
	ml.Clear()
	w.gen.Generate(b, ml)
	return ml
}

func (w *walker) count(b *board.Board, depth int) uint64 {
	if depth == 0 {
		return 1
	}
	ml := w.moves(b, depth)
	if depth == 1 {
		return uint64(ml.Len())
	}

	var nodes uint64
	for _, m := range ml.Moves() {
		b.MakeMove(m)
		nodes += w.count(b, depth-1)
		undo(b)
	}
	return nodes
}

func (w *walker) run(b *board.Board, depth int) Stats {
	if depth == 0 {
		return Stats{Nodes: 1}
	}
	ml := w.moves(b, depth)

	var s Stats
	if depth == 1 {
		s.Nodes = uint64(ml.Len())
		for _, m := range ml.Moves() {
			if m.IsCapture() {
				s.Captures++
			}
			if m.IsEnPassant() {
				s.EnPassant++
			}
			if m.IsCastle() {
				s.Castles++
			}
			if m.IsPromotion() {
				s.Promotions++
			}
			b.MakeMove(m)
			if b.InCheck() {
				s.Checks++
			}
			undo(b)
		}
		return s
	}

	for _, m := range ml.Moves() {
		b.MakeMove(m)
		s.Add(w.run(b, depth-1))
		undo(b)
	}
	return s
}

func undo(b *board.Board) {
	if _, err := b.Undo(); err != nil {
		panic(err)
	}
}

// Count returns the number of leaf nodes at depth below b. The board is
// restored before returning.
func Count(b *board.Board, depth int) uint64 {
	if depth < 0 {
		return 0
	}
	return newWalker(depth).count(b, depth)
}

// Run is Count with move statistics for the last ply.
func Run(b *board.Board, depth int) Stats {
	if depth < 0 {
		return Stats{}
	}
	return newWalker(depth).run(b, depth)
}

// Divide returns the leaf count below each root move, ordered by the move's
// coordinate string.
func Divide(b *board.Board, depth int) []RootCount {
	if depth < 1 {
		return nil
	}
	w := newWalker(depth)
	roots := slices.Clone(w.moves(b, depth).Moves())

	counts := make([]RootCount, 0, len(roots))
	for _, m := range roots {
		b.MakeMove(m)
		counts = append(counts, RootCount{Move: m, Nodes: w.count(b, depth-1)})
		undo(b)
	}
	slices.SortFunc(counts, func(a, b RootCount) int {
		return strings.Compare(a.Move.String(), b.Move.String())
	})
	return counts
}

// Parallel is Run with the root moves spread over workers goroutines. Each
// root move is searched on its own copy of b. A workers value below one uses
// GOMAXPROCS.
func Parallel(ctx context.Context, b *board.Board, depth, workers int) (Stats, error) {
	if depth < 0 {
		return Stats{}, ErrDepth
	}
	if depth < 2 {
		return Run(b, depth), nil
	}
	if workers < 1 {
		workers = runtime.GOMAXPROCS(0)
	}

	roots := b.GenerateLegalMoves().Moves()

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	var (
		mu    sync.Mutex
		total Stats
	)
	for _, m := range roots {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			child := b.Copy()
			child.MakeMove(m)
			s := newWalker(depth - 1).run(child, depth-1)

			mu.Lock()
			total.Add(s)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Stats{}, fmt.Errorf("perft: %w", err)
	}
	return total, nil
}

// Cache stores perft results keyed by position hash and depth.
type Cache interface {
	LoadPerft(key uint64, depth int) (Stats, bool, error)
	SavePerft(key uint64, depth int, fen string, s Stats) error
}

// Cached returns the stored result for b at depth when cache has one, and
// otherwise computes it with Parallel and stores it. The boolean reports a
// cache hit.
func Cached(ctx context.Context, cache Cache, b *board.Board, depth, workers int) (Stats, bool, error) {
	key := b.Hash()
	s, ok, err := cache.LoadPerft(key, depth)
	if err != nil {
		return Stats{}, false, err
	}
	if ok {
		return s, true, nil
	}

	s, err = Parallel(ctx, b, depth, workers)
	if err != nil {
		return Stats{}, false, err
	}
	if err := cache.SavePerft(key, depth, b.FEN(), s); err != nil {
		return s, false, err
	}
	return s, false, nil
}
