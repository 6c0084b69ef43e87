package board

import "fmt"

// Zobrist hash keys for position hashing.
// Uses PRNG with fixed seed for reproducibility.
var (
	zobristPiece      [64][2][6]uint64 // [Square][Color][PieceType.Index()]
	zobristCastle     [CastleCount]uint64
	zobristEnPassant  [2][8]uint64 // [rank&1][file]; ep squares sit on rank 3 or 6 only
	zobristSideToMove uint64
)

func init() {
	initZobrist()
}

// Simple PRNG for reproducible Zobrist keys
type prng struct {
	state uint64
}

func newPRNG(seed uint64) *prng {
	return &prng{state: seed}
}

// xorshift64* algorithm
func (p *prng) next() uint64 {
	p.state ^= p.state >> 12
	p.state ^= p.state << 25
	p.state ^= p.state >> 27
	return p.state * 0x2545F4914F6CDD1D
}

func initZobrist() {
	rng := newPRNG(0x98F107A2BEEF1234)

	zobristSideToMove = rng.next()

	for sq := A1; sq <= H8; sq++ {
		for c := White; c <= Black; c++ {
			for i := range zobristPiece[sq][c] {
				zobristPiece[sq][c][i] = rng.next()
			}
		}
	}

	for i := range zobristCastle {
		zobristCastle[i] = rng.next()
	}

	for parity := 0; parity < 2; parity++ {
		for file := 0; file < 8; file++ {
			zobristEnPassant[parity][file] = rng.next()
		}
	}
}

// ZobristPiece returns the Zobrist key for a piece on a square.
func ZobristPiece(sq Square, p Piece) uint64 {
	return zobristPiece[sq][p.Color()][p.Type().Index()]
}

// ZobristCastle returns the key of a single castling right.
func ZobristCastle(c Castle) uint64 {
	return zobristCastle[c]
}

// ZobristEnPassant returns the key for an en passant target square. The
// square must lie on the third or sixth rank.
func ZobristEnPassant(sq Square) uint64 {
	if r := sq.Rank(); r != 2 && r != 5 {
		panic(fmt.Sprintf("board: en passant square %s off the third and sixth rank", sq))
	}
	return zobristEnPassant[sq.Rank()&1][sq.File()]
}

// ZobristSideToMove returns the Zobrist key for side to move.
func ZobristSideToMove() uint64 {
	return zobristSideToMove
}
