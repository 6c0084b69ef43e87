package board

import (
	"errors"
	"testing"
)

func expectPanic(t *testing.T, name string, f func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Errorf("%s: expected panic", name)
		}
	}()
	f()
}

func TestPutRemovePiece(t *testing.T) {
	b := NewBoard()
	b.PutPiece(E4, WhiteQueen)

	if b.PieceAt(E4) != WhiteQueen {
		t.Fatalf("PieceAt(e4) = %v", b.PieceAt(E4))
	}
	if !b.Pieces(Queen, White).IsSet(E4) || !b.Occupied(White).IsSet(E4) {
		t.Fatal("bitboards not updated")
	}
	if b.Hash() != ZobristPiece(E4, WhiteQueen) {
		t.Fatal("hash not updated")
	}

	expectPanic(t, "put on occupied", func() { b.PutPiece(E4, BlackRook) })
	expectPanic(t, "remove from empty", func() { b.RemovePiece(D4) })
	expectPanic(t, "move onto occupied", func() {
		b.PutPiece(D4, BlackRook)
		b.MovePiece(D4, E4)
	})

	nb := NewBoard()
	nb.PutPiece(E4, WhiteQueen)
	nb.MovePiece(E4, A8)
	if nb.PieceAt(A8) != WhiteQueen || !nb.IsEmpty(E4) {
		t.Fatal("MovePiece did not relocate")
	}
	if got := nb.RemovePiece(A8); got != WhiteQueen {
		t.Fatalf("RemovePiece returned %v", got)
	}
	if nb.Hash() != 0 || nb.AllOccupied() != 0 {
		t.Errorf("board not empty after removing everything: hash %x occ %x", nb.Hash(), nb.AllOccupied())
	}
}

func TestSwapSideTogglesHash(t *testing.T) {
	b := StartPosition()
	h := b.Hash()
	b.SwapSide()
	if b.SideToMove() != Black || b.Hash() != h^ZobristSideToMove() {
		t.Fatal("SwapSide did not toggle side and key")
	}
	b.SwapSide()
	if b.Hash() != h {
		t.Fatal("double swap changed the key")
	}
}

func TestCastleAndEnPassantKeysToggleOnce(t *testing.T) {
	b := StartPosition()
	h := b.Hash()

	b.EnableCastle(WhiteKingSide) // already set
	if b.Hash() != h {
		t.Fatal("enabling a present right changed the key")
	}
	b.DisableCastle(WhiteKingSide)
	b.DisableCastle(WhiteKingSide)
	if b.Hash() != h^ZobristCastle(WhiteKingSide) {
		t.Fatal("disabling twice toggled twice")
	}

	b.ClearEnPassant()
	if b.Hash() != h^ZobristCastle(WhiteKingSide) {
		t.Fatal("clearing an unset en passant square changed the key")
	}
	b.SetEnPassant(E3)
	b.SetEnPassant(D3)
	if b.Hash() != b.ComputeHash() {
		t.Fatal("replacing the en passant square left a stale key")
	}
}

func TestApplyMove(t *testing.T) {
	tests := []struct {
		name  string
		fen   string
		move  string
		after string
	}{
		{"double push sets en passant", StartFEN, "e2e4",
			"rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1"},
		{"black move bumps full move", "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1", "g8f6",
			"rnbqkb1r/pppppppp/5n2/8/4P3/8/PPPP1PPP/RNBQKBNR w KQkq - 1 2"},
		{"short castle", "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 3 10", "e1g1",
			"r3k2r/8/8/8/8/8/8/R4RK1 b kq - 4 10"},
		{"long castle black", "r3k2r/8/8/8/8/8/8/R3K2R b KQkq - 3 10", "e8c8",
			"2kr3r/8/8/8/8/8/8/R3K2R w KQ - 4 11"},
		{"rook leaves home", "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1", "a1a5",
			"r3k2r/8/8/R7/8/8/8/4K2R b Kkq - 1 1"},
		{"king move drops both rights", "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1", "e1d1",
			"r3k2r/8/8/8/8/8/8/R2K3R b kq - 1 1"},
		{"capturing a home rook drops its right", "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 5 1", "h1h8",
			"r3k2R/8/8/8/8/8/8/R3K3 b Qq - 0 1"},
		{"en passant removes the passed pawn", "4k3/8/8/3pP3/8/8/8/4K3 w - d6 0 2", "e5d6",
			"4k3/8/3P4/8/8/8/8/4K3 b - - 0 2"},
		{"promotion capture", "3r3k/4P3/8/8/8/8/8/4K3 w - - 7 40", "e7d8n",
			"3N3k/8/8/8/8/8/8/4K3 b - - 0 40"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b := mustParseFEN(t, tc.fen)
			m, err := b.ParseMove(tc.move)
			if err != nil {
				t.Fatalf("ParseMove(%q): %v", tc.move, err)
			}
			if legal := b.GenerateLegalMoves().Find(m.From(), m.To(), m.Promotion()); legal != m {
				t.Fatalf("parsed %s (%x) differs from generated %s (%x)", m.LAN(), uint32(m), legal.LAN(), uint32(legal))
			}
			b.ApplyMove(m)
			if got := b.FEN(); got != tc.after {
				t.Errorf("after %s:\n got  %s\n want %s", tc.move, got, tc.after)
			}
			if b.Hash() != b.ComputeHash() {
				t.Errorf("incremental key %x, recomputed %x", b.Hash(), b.ComputeHash())
			}
		})
	}
}

func TestMakeUndoRoundTrip(t *testing.T) {
	for _, fen := range suiteFENs {
		root := mustParseFEN(t, fen)
		walk(root, 2, func(b *Board, g *Generator, ml *MoveList) {
			if b.Hash() != b.ComputeHash() {
				t.Fatalf("%s: incremental key drifted", b.FEN())
			}
			for _, m := range ml.Moves() {
				before := b.Copy()
				b.MakeMove(m)
				got, err := b.Undo()
				if err != nil {
					t.Fatalf("Undo: %v", err)
				}
				if got != m {
					t.Fatalf("Undo returned %s, want %s", got.LAN(), m.LAN())
				}
				if !b.Equal(before) {
					t.Fatalf("%s: %s then undo gave %s", before.FEN(), m.LAN(), b.FEN())
				}
			}
		})
		if root.History().Len() != 0 {
			t.Fatalf("history not unwound: %d entries", root.History().Len())
		}
	}
}

func TestUndoEmptyHistory(t *testing.T) {
	b := StartPosition()
	if _, err := b.Undo(); !errors.Is(err, ErrEmptyHistory) {
		t.Fatalf("Undo on fresh board: %v, want ErrEmptyHistory", err)
	}
}

func TestCopyIsIndependent(t *testing.T) {
	b := StartPosition()
	b.MakeMove(b.GenerateLegalMoves().Find(E2, E4, NoPieceType))

	c := b.Copy()
	if !c.Equal(b) || c.History().Len() != 1 {
		t.Fatal("copy differs from source")
	}

	c.MakeMove(c.GenerateLegalMoves().Find(E7, E5, NoPieceType))
	if b.PieceAt(E5) != NoPiece || b.History().Len() != 1 {
		t.Fatal("mutating the copy changed the source")
	}
	if _, err := b.Undo(); err != nil {
		t.Fatal(err)
	}
	if c.History().Len() != 2 || c.PieceAt(E4) != WhitePawn {
		t.Fatal("undo on the source changed the copy")
	}

	var d Board
	d.CopyFrom(c)
	if !d.Equal(c) {
		t.Fatal("CopyFrom differs from source")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		fen  string
		err  error
	}{
		{"start", StartFEN, nil},
		{"two white kings", "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNK w - - 0 1", ErrKingCount},
		{"no black king", "8/8/8/8/8/8/8/4K3 w - - 0 1", ErrKingCount},
		{"nine pawns", "4k3/8/8/8/7P/8/PPPPPPPP/4K3 w - - 0 1", ErrPawnCount},
		{"sixteen pieces", "4k3/8/8/8/NNNNNNNN/NNNNNNNN/8/4K3 w - - 0 1", ErrPieceCount},
		{"castle without rook", "4k3/8/8/8/8/8/8/4K3 w K - 0 1", ErrCastlingRights},
		{"castle with moved king", "4k3/8/8/8/8/8/8/3K3R w K - 0 1", ErrCastlingRights},
		{"en passant with clock", "4k3/8/8/8/4P3/8/8/4K3 b - e3 3 1", ErrEnPassantClock},
		{"en passant wrong rank", "4k3/8/8/8/4P3/8/8/4K3 w - e3 0 1", ErrEnPassantSquare},
		{"opponent in check", "4k3/8/8/8/8/8/8/4K2r b - - 0 1", ErrOpponentInCheck},
		{"white pawn on eighth rank", "P3k3/8/8/8/8/8/8/4K3 w - - 0 1", ErrPawnRank},
		{"black pawn on first rank", "4k3/8/8/8/8/8/8/4K2p w - - 0 1", ErrPawnRank},
		{"clock too large", "4k3/8/8/8/8/8/8/4K3 w - - 33554432 1", ErrHalfMoveClock},
		{"black en passant", "4k3/8/8/8/4P3/8/8/4K3 b - e3 0 1", nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseFEN(tc.fen)
			if tc.err == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tc.err) {
				t.Errorf("got %v, want %v", err, tc.err)
			}
			if !errors.Is(err, ErrInvalidPosition) {
				t.Errorf("%v does not wrap ErrInvalidPosition", err)
			}
		})
	}

	if !StartPosition().IsValid() {
		t.Error("start position reported invalid")
	}
}
