package board

import (
	"slices"
	"testing"
)

func TestBitScan(t *testing.T) {
	tests := []struct {
		bb        Bitboard
		lowest    Square
		highest   Square
		popCount  int
		lowestBB  Bitboard
		highestBB Bitboard
	}{
		{SquareBB(A1), A1, A1, 1, 0x1, 0x1},
		{SquareBB(H8), H8, H8, 1, 1 << 63, 1 << 63},
		{Rank2, A2, H2, 8, SquareBB(A2), SquareBB(H2)},
		{SquareBB(C3) | SquareBB(F6), C3, F6, 2, SquareBB(C3), SquareBB(F6)},
		{Universe, A1, H8, 64, 0x1, 1 << 63},
	}

	for _, tc := range tests {
		if got := tc.bb.BitScanForward(); got != tc.lowest {
			t.Errorf("%x.BitScanForward() = %v, want %v", uint64(tc.bb), got, tc.lowest)
		}
		if got := tc.bb.BitScanReverse(); got != tc.highest {
			t.Errorf("%x.BitScanReverse() = %v, want %v", uint64(tc.bb), got, tc.highest)
		}
		if got := tc.bb.PopCount(); got != tc.popCount {
			t.Errorf("%x.PopCount() = %d, want %d", uint64(tc.bb), got, tc.popCount)
		}
		if got := tc.bb.ExtractLowest(); got != tc.lowestBB {
			t.Errorf("%x.ExtractLowest() = %x, want %x", uint64(tc.bb), uint64(got), uint64(tc.lowestBB))
		}
		if got := tc.bb.ExtractHighest(); got != tc.highestBB {
			t.Errorf("%x.ExtractHighest() = %x, want %x", uint64(tc.bb), uint64(got), uint64(tc.highestBB))
		}
		if got := tc.bb.ClearLSB(); got != tc.bb&^tc.lowestBB {
			t.Errorf("%x.ClearLSB() = %x", uint64(tc.bb), uint64(got))
		}
	}
}

func TestEmptyBitboard(t *testing.T) {
	if Empty.ExtractLowest() != 0 || Empty.ExtractHighest() != 0 {
		t.Error("extracting from an empty board must stay empty")
	}
	if Empty.LSB() != NoSquare || Empty.MSB() != NoSquare {
		t.Error("LSB/MSB of empty board must be NoSquare")
	}

	for name, scan := range map[string]func(Bitboard) Square{
		"forward": Bitboard.BitScanForward,
		"reverse": Bitboard.BitScanReverse,
	} {
		func() {
			defer func() {
				if r := recover(); r != ErrEmptyBitboard {
					t.Errorf("%s scan of empty board: recovered %v, want ErrEmptyBitboard", name, r)
				}
			}()
			scan(Empty)
		}()
	}
}

func TestSetClearIterate(t *testing.T) {
	var bb Bitboard
	bb = bb.Set(E4).Set(A1).Set(H8)
	if !bb.IsSet(E4) || bb.IsSet(D4) {
		t.Fatal("Set/IsSet mismatch")
	}
	bb = bb.Clear(A1)

	want := []Square{E4, H8}
	if got := bb.Squares(); !slices.Equal(got, want) {
		t.Errorf("Squares() = %v, want %v", got, want)
	}

	var seen []Square
	bb.ForEach(func(sq Square) { seen = append(seen, sq) })
	if !slices.Equal(seen, want) {
		t.Errorf("ForEach visited %v, want %v", seen, want)
	}

	if sq := bb.PopLSB(); sq != E4 || bb != SquareBB(H8) {
		t.Errorf("PopLSB = %v leaving %x", sq, uint64(bb))
	}
}
