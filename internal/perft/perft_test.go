package perft

import (
	"context"
	"errors"
	"testing"

	"github.com/hailam/chesscore/internal/board"
)

const (
	kiwipete  = "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1"
	position3 = "8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1"
	position4 = "r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1"
)

func mustBoard(t testing.TB, fen string) *board.Board {
	t.Helper()
	b, err := board.ParseFEN(fen)
	if err != nil {
		t.Fatalf("ParseFEN(%q): %v", fen, err)
	}
	return b
}

func TestRun(t *testing.T) {
	tests := []struct {
		name  string
		fen   string
		depth int
		want  Stats
		long  bool
	}{
		{"start d0", board.StartFEN, 0, Stats{Nodes: 1}, false},
		{"start d3", board.StartFEN, 3, Stats{Nodes: 8902, Captures: 34, Checks: 12}, false},
		{"start d4", board.StartFEN, 4, Stats{Nodes: 197281, Captures: 1576, Checks: 469}, true},
		{"kiwipete d1", kiwipete, 1, Stats{Nodes: 48, Captures: 8, Castles: 2}, false},
		{"kiwipete d2", kiwipete, 2, Stats{Nodes: 2039, Captures: 351, EnPassant: 1, Castles: 91, Checks: 3}, false},
		{"kiwipete d3", kiwipete, 3, Stats{Nodes: 97862, Captures: 17102, EnPassant: 45, Castles: 3162, Checks: 993}, true},
		{"position3 d3", position3, 3, Stats{Nodes: 2812, Captures: 209, EnPassant: 2, Checks: 267}, false},
		{"position4 d2", position4, 2, Stats{Nodes: 264, Captures: 87, Castles: 6, Promotions: 48, Checks: 10}, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.long && testing.Short() {
				t.Skip("skipping deep perft in short mode")
			}
			b := mustBoard(t, tc.fen)
			before := b.FEN()

			if got := Run(b, tc.depth); got != tc.want {
				t.Errorf("Run(%d) = %+v, want %+v", tc.depth, got, tc.want)
			}
			if got := Count(b, tc.depth); got != tc.want.Nodes {
				t.Errorf("Count(%d) = %d, want %d", tc.depth, got, tc.want.Nodes)
			}
			if b.FEN() != before || b.History().Len() != 0 {
				t.Errorf("board not restored: %s", b.FEN())
			}
		})
	}
}

func TestDivide(t *testing.T) {
	b := mustBoard(t, board.StartFEN)
	counts := Divide(b, 3)
	if len(counts) != 20 {
		t.Fatalf("got %d root moves, want 20", len(counts))
	}

	var total uint64
	for i, rc := range counts {
		total += rc.Nodes
		if i > 0 && counts[i-1].Move.String() >= rc.Move.String() {
			t.Errorf("divide not sorted at %s", rc.Move)
		}
	}
	if total != 8902 {
		t.Errorf("divide total = %d, want 8902", total)
	}

	want := map[string]uint64{"a2a3": 380, "b1c3": 440, "e2e4": 600, "g1h3": 400}
	for _, rc := range counts {
		if n, ok := want[rc.Move.String()]; ok && n != rc.Nodes {
			t.Errorf("%s: %d, want %d", rc.Move, rc.Nodes, n)
		}
	}

	if Divide(b, 0) != nil {
		t.Error("Divide(0) should be empty")
	}
}

func TestParallelMatchesRun(t *testing.T) {
	for _, fen := range []string{board.StartFEN, kiwipete, position3, position4} {
		b := mustBoard(t, fen)
		want := Run(b, 3)
		for _, workers := range []int{0, 1, 3} {
			got, err := Parallel(context.Background(), b, 3, workers)
			if err != nil {
				t.Fatal(err)
			}
			if got != want {
				t.Errorf("%s workers=%d: %+v, want %+v", fen, workers, got, want)
			}
		}
		if b.FEN() != fen {
			t.Errorf("parallel perft modified the board: %s", b.FEN())
		}
	}
}

func TestParallelCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Parallel(ctx, mustBoard(t, board.StartFEN), 3, 2)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}

	if _, err := Parallel(context.Background(), mustBoard(t, board.StartFEN), -1, 1); !errors.Is(err, ErrDepth) {
		t.Errorf("negative depth: err = %v", err)
	}
}

type memCache struct {
	entries map[[2]uint64]Stats
	saves   int
}

func (c *memCache) LoadPerft(key uint64, depth int) (Stats, bool, error) {
	s, ok := c.entries[[2]uint64{key, uint64(depth)}]
	return s, ok, nil
}

func (c *memCache) SavePerft(key uint64, depth int, fen string, s Stats) error {
	c.entries[[2]uint64{key, uint64(depth)}] = s
	c.saves++
	return nil
}

func TestCached(t *testing.T) {
	c := &memCache{entries: make(map[[2]uint64]Stats)}
	b := mustBoard(t, kiwipete)

	s, hit, err := Cached(context.Background(), c, b, 2, 2)
	if err != nil || hit {
		t.Fatalf("first call: hit=%v err=%v", hit, err)
	}
	if s.Nodes != 2039 || c.saves != 1 {
		t.Fatalf("first call: %+v, %d saves", s, c.saves)
	}

	s, hit, err = Cached(context.Background(), c, b, 2, 2)
	if err != nil || !hit || s.Nodes != 2039 || c.saves != 1 {
		t.Errorf("second call: %+v hit=%v err=%v saves=%d", s, hit, err, c.saves)
	}

	if _, hit, _ := Cached(context.Background(), c, b, 1, 2); hit {
		t.Error("different depth must miss")
	}
}
