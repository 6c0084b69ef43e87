package board

import "testing"

func TestLeaperTables(t *testing.T) {
	tests := []struct {
		name string
		got  Bitboard
		want Bitboard
	}{
		{"knight a1", KnightAttacks(A1), SquareBB(B3) | SquareBB(C2)},
		{"knight e4", KnightAttacks(E4), SquareBB(D2) | SquareBB(F2) | SquareBB(C3) | SquareBB(G3) |
			SquareBB(C5) | SquareBB(G5) | SquareBB(D6) | SquareBB(F6)},
		{"knight h8", KnightAttacks(H8), SquareBB(G6) | SquareBB(F7)},
		{"king a1", KingAttacks(A1), SquareBB(A2) | SquareBB(B1) | SquareBB(B2)},
		{"king h5", KingAttacks(H5), SquareBB(G4) | SquareBB(H4) | SquareBB(G5) | SquareBB(G6) | SquareBB(H6)},
		{"white pawn a2", PawnAttacks(A2, White), SquareBB(B3)},
		{"white pawn e7", PawnAttacks(E7, White), SquareBB(D8) | SquareBB(F8)},
		{"black pawn h7", PawnAttacks(H7, Black), SquareBB(G6)},
		{"black pawn d2", PawnAttacks(D2, Black), SquareBB(C1) | SquareBB(E1)},
		{"white pawn on first rank", PawnAttacks(E1, White), Empty},
		{"black pawn on eighth rank", PawnAttacks(E8, Black), Empty},
	}

	for _, tc := range tests {
		if tc.got != tc.want {
			t.Errorf("%s:\n%v\nwant\n%v", tc.name, tc.got, tc.want)
		}
	}
}

func TestRays(t *testing.T) {
	tests := []struct {
		sq   Square
		d    Direction
		want Bitboard
	}{
		{A1, North, FileA &^ SquareBB(A1)},
		{A1, East, Rank1 &^ SquareBB(A1)},
		{A1, South, Empty},
		{A1, NorthEast, 0x8040201008040200},
		{H1, NorthWest, 0x0102040810204000},
		{D4, West, SquareBB(A4) | SquareBB(B4) | SquareBB(C4)},
		{D4, SouthWest, SquareBB(C3) | SquareBB(B2) | SquareBB(A1)},
		{D4, SouthEast, SquareBB(E3) | SquareBB(F2) | SquareBB(G1)},
		{E8, South, FileE &^ SquareBB(E8)},
	}

	for _, tc := range tests {
		if got := Ray(tc.sq, tc.d); got != tc.want {
			t.Errorf("Ray(%v, %v):\n%v\nwant\n%v", tc.sq, tc.d, got, tc.want)
		}
	}
}

func TestScanFindsNearestBlocker(t *testing.T) {
	occ := SquareBB(D6) | SquareBB(D8) | SquareBB(D2) | SquareBB(B4) | SquareBB(G4) |
		SquareBB(F6) | SquareBB(B2) | SquareBB(F2) | SquareBB(A7)

	want := map[Direction]Square{
		North: D6, East: G4, South: D2, West: B4,
		NorthEast: F6, SouthEast: F2, SouthWest: B2, NorthWest: A7,
	}
	for _, d := range AllDirections {
		blockers := Ray(D4, d) & occ
		if got := Scan(d, blockers); got != want[d] {
			t.Errorf("Scan(%v) = %v, want %v", d, got, want[d])
		}
		if got := Extract(d, blockers); got != SquareBB(want[d]) {
			t.Errorf("Extract(%v) = %x, want %v", d, uint64(got), want[d])
		}
	}
}

func bruteSlider(sq Square, dirs []Direction, occ Bitboard) Bitboard {
	var attacks Bitboard
	for _, d := range dirs {
		step := directionSteps[d]
		f, r := sq.File()+step[0], sq.Rank()+step[1]
		for f >= 0 && f <= 7 && r >= 0 && r <= 7 {
			s := NewSquare(f, r)
			attacks |= SquareBB(s)
			if occ.IsSet(s) {
				break
			}
			f += step[0]
			r += step[1]
		}
	}
	return attacks
}

func TestSliderAttacks(t *testing.T) {
	rng := newPRNG(0x1234567)
	for i := 0; i < 200; i++ {
		occ := Bitboard(rng.next() & rng.next())
		sq := Square(rng.next() % 64)
		if got, want := RookAttacks(sq, occ), bruteSlider(sq, CardinalDirections[:], occ); got != want {
			t.Fatalf("RookAttacks(%v):\n%v\nwant\n%v", sq, got, want)
		}
		if got, want := BishopAttacks(sq, occ), bruteSlider(sq, DiagonalDirections[:], occ); got != want {
			t.Fatalf("BishopAttacks(%v):\n%v\nwant\n%v", sq, got, want)
		}
		if got, want := QueenAttacks(sq, occ), bruteSlider(sq, AllDirections[:], occ); got != want {
			t.Fatalf("QueenAttacks(%v):\n%v\nwant\n%v", sq, got, want)
		}
	}
}

func TestCastleTables(t *testing.T) {
	tests := []struct {
		c                          Castle
		clear, safe                Bitboard
		kingFrom, kingTo           Square
		rookFrom, rookTo           Square
	}{
		{WhiteKingSide, SquareBB(F1) | SquareBB(G1), SquareBB(F1) | SquareBB(G1), E1, G1, H1, F1},
		{BlackKingSide, SquareBB(F8) | SquareBB(G8), SquareBB(F8) | SquareBB(G8), E8, G8, H8, F8},
		{WhiteQueenSide, SquareBB(B1) | SquareBB(C1) | SquareBB(D1), SquareBB(C1) | SquareBB(D1), E1, C1, A1, D1},
		{BlackQueenSide, SquareBB(B8) | SquareBB(C8) | SquareBB(D8), SquareBB(C8) | SquareBB(D8), E8, C8, A8, D8},
	}

	for _, tc := range tests {
		if castleClear[tc.c] != tc.clear || castleSafe[tc.c] != tc.safe {
			t.Errorf("castle %d masks wrong", tc.c)
		}
		kf, kt := CastleKingSquares(tc.c)
		rf, rt := CastleRookSquares(tc.c)
		if kf != tc.kingFrom || kt != tc.kingTo || rf != tc.rookFrom || rt != tc.rookTo {
			t.Errorf("castle %d squares = %v%v %v%v", tc.c, kf, kt, rf, rt)
		}
		if NewCastle(tc.c.Color(), tc.c.IsKingSide()) != tc.c {
			t.Errorf("castle %d does not round trip through NewCastle", tc.c)
		}
	}
}
