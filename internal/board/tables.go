package board

// Direction indexes the eight slider rays.
type Direction uint8

const (
	North Direction = iota
	East
	South
	West
	NorthEast
	SouthEast
	SouthWest
	NorthWest

	DirectionCount = 8
)

var (
	// CardinalDirections are the rook rays.
	CardinalDirections = [4]Direction{North, East, South, West}
	// DiagonalDirections are the bishop rays.
	DiagonalDirections = [4]Direction{NorthEast, SouthEast, SouthWest, NorthWest}
	// AllDirections are the queen rays.
	AllDirections = [8]Direction{North, East, South, West, NorthEast, SouthEast, SouthWest, NorthWest}
)

var directionNames = [DirectionCount]string{"N", "E", "S", "W", "NE", "SE", "SW", "NW"}

func (d Direction) String() string {
	return directionNames[d]
}

// File and rank steps per direction.
var directionSteps = [DirectionCount][2]int{
	{0, 1}, {1, 0}, {0, -1}, {-1, 0},
	{1, 1}, {1, -1}, {-1, -1}, {-1, 1},
}

// Pre-computed attack tables
var (
	knightAttacks [64]Bitboard
	kingAttacks   [64]Bitboard
	pawnAttacks   [2][64]Bitboard // [Color][Square]
	rays          [64][DirectionCount]Bitboard

	// doublePushRanks holds the landing rank of a two-square advance.
	doublePushRanks = [2]Bitboard{Rank4, Rank5}
	// promotionRanks holds the far rank per side.
	promotionRanks = [2]Bitboard{Rank8, Rank1}
)

// Directions that increase the square index find their nearest blocker at the
// lowest bit; the others at the highest.
var (
	scanners = [DirectionCount]func(Bitboard) Square{
		Bitboard.BitScanForward, Bitboard.BitScanForward, Bitboard.BitScanReverse, Bitboard.BitScanReverse,
		Bitboard.BitScanForward, Bitboard.BitScanReverse, Bitboard.BitScanReverse, Bitboard.BitScanForward,
	}
	extractors = [DirectionCount]func(Bitboard) Bitboard{
		Bitboard.ExtractLowest, Bitboard.ExtractLowest, Bitboard.ExtractHighest, Bitboard.ExtractHighest,
		Bitboard.ExtractLowest, Bitboard.ExtractHighest, Bitboard.ExtractHighest, Bitboard.ExtractLowest,
	}
)

func init() {
	initKnightAttacks()
	initKingAttacks()
	initPawnAttacks()
	initRays()
}

func initKnightAttacks() {
	for sq := A1; sq <= H8; sq++ {
		bb := SquareBB(sq)

		attacks := Empty

		// Up 2, left/right 1
		attacks |= (bb << 17) & NotFileA  // NNE
		attacks |= (bb << 15) & NotFileH  // NNW
		attacks |= (bb >> 17) & NotFileH  // SSW
		attacks |= (bb >> 15) & NotFileA  // SSE

		// Up 1, left/right 2
		attacks |= (bb << 10) & NotFileAB // ENE
		attacks |= (bb << 6) & NotFileGH  // WNW
		attacks |= (bb >> 10) & NotFileGH // WSW
		attacks |= (bb >> 6) & NotFileAB  // ESE

		knightAttacks[sq] = attacks
	}
}

func initKingAttacks() {
	for sq := A1; sq <= H8; sq++ {
		bb := SquareBB(sq)

		attacks := bb.North() | bb.South()
		attacks |= bb.East() | bb.West()
		attacks |= bb.NorthEast() | bb.NorthWest()
		attacks |= bb.SouthEast() | bb.SouthWest()

		kingAttacks[sq] = attacks
	}
}

// Pawns only get capture masks from the squares they can stand on while
// still able to capture: ranks 2-7.
func initPawnAttacks() {
	for sq := A2; sq <= H7; sq++ {
		bb := SquareBB(sq)
		pawnAttacks[White][sq] = bb.NorthEast() | bb.NorthWest()
		pawnAttacks[Black][sq] = bb.SouthEast() | bb.SouthWest()
	}
}

func initRays() {
	for sq := A1; sq <= H8; sq++ {
		for d, step := range directionSteps {
			var ray Bitboard
			f, r := sq.File()+step[0], sq.Rank()+step[1]
			for f >= 0 && f <= 7 && r >= 0 && r <= 7 {
				ray |= SquareBB(NewSquare(f, r))
				f += step[0]
				r += step[1]
			}
			rays[sq][d] = ray
		}
	}
}

// KnightAttacks returns the knight attack bitboard for a square.
func KnightAttacks(sq Square) Bitboard {
	return knightAttacks[sq]
}

// KingAttacks returns the king attack bitboard for a square.
func KingAttacks(sq Square) Bitboard {
	return kingAttacks[sq]
}

// PawnAttacks returns the pawn attack bitboard for a square and color.
func PawnAttacks(sq Square, c Color) Bitboard {
	return pawnAttacks[c][sq]
}

// Ray returns every square from sq (exclusive) to the board edge in direction d.
func Ray(sq Square, d Direction) Bitboard {
	return rays[sq][d]
}

// Scan returns the occupant of bb nearest to the ray origin for direction d.
// bb must be non-empty.
func Scan(d Direction, bb Bitboard) Square {
	return scanners[d](bb)
}

// Extract isolates the bit of bb nearest to the ray origin for direction d.
func Extract(d Direction, bb Bitboard) Bitboard {
	return extractors[d](bb)
}

// SliderAttacks casts the ray from sq in direction d and cuts it after the
// first occupied square in occ.
func SliderAttacks(sq Square, d Direction, occ Bitboard) Bitboard {
	ray := rays[sq][d]
	if blockers := ray & occ; blockers != 0 {
		ray &^= rays[scanners[d](blockers)][d]
	}
	return ray
}

// RookAttacks returns the rook attack bitboard for a square with given occupancy.
func RookAttacks(sq Square, occ Bitboard) Bitboard {
	var attacks Bitboard
	for _, d := range CardinalDirections {
		attacks |= SliderAttacks(sq, d, occ)
	}
	return attacks
}

// BishopAttacks returns the bishop attack bitboard for a square with given occupancy.
func BishopAttacks(sq Square, occ Bitboard) Bitboard {
	var attacks Bitboard
	for _, d := range DiagonalDirections {
		attacks |= SliderAttacks(sq, d, occ)
	}
	return attacks
}

// QueenAttacks returns the queen attack bitboard for a square with given occupancy.
func QueenAttacks(sq Square, occ Bitboard) Bitboard {
	return RookAttacks(sq, occ) | BishopAttacks(sq, occ)
}
