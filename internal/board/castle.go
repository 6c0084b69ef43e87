package board

// Castle identifies one of the four castling moves. The id is the side
// bit combined with kingSide (0) or queenSide (2).
type Castle uint8

const (
	WhiteKingSide  Castle = 0
	BlackKingSide  Castle = 1
	WhiteQueenSide Castle = 2
	BlackQueenSide Castle = 3

	CastleCount = 4
)

// NewCastle returns the castle id for a side and wing.
func NewCastle(c Color, kingSide bool) Castle {
	if kingSide {
		return Castle(c)
	}
	return Castle(2 | c)
}

// Color returns the side that castles.
func (c Castle) Color() Color {
	return Color(c & 1)
}

// IsKingSide reports whether this is the short castle.
func (c Castle) IsKingSide() bool {
	return c&2 == 0
}

// Castle tables indexed by Castle id.
var (
	// castleClear must be empty.
	castleClear = [CastleCount]Bitboard{0x60, 0x6000000000000000, 0xE, 0xE00000000000000}
	// castleSafe must not be attacked. The king's own square is covered by the
	// not-in-check condition.
	castleSafe = [CastleCount]Bitboard{0x60, 0x6000000000000000, 0xC, 0xC00000000000000}

	castleKingFrom = [CastleCount]Square{E1, E8, E1, E8}
	castleKingTo   = [CastleCount]Square{G1, G8, C1, C8}
	castleRookFrom = [CastleCount]Square{H1, H8, A1, A8}
	castleRookTo   = [CastleCount]Square{F1, F8, D1, D8}
)

// CastleKingSquares returns the king's source and destination.
func CastleKingSquares(c Castle) (from, to Square) {
	return castleKingFrom[c], castleKingTo[c]
}

// CastleRookSquares returns the rook's source and destination.
func CastleRookSquares(c Castle) (from, to Square) {
	return castleRookFrom[c], castleRookTo[c]
}

// CastlingRights represents the available castling options, one bit per Castle.
type CastlingRights uint8

const (
	WhiteKingSideCastle  CastlingRights = 1 << WhiteKingSide  // K
	BlackKingSideCastle  CastlingRights = 1 << BlackKingSide  // k
	WhiteQueenSideCastle CastlingRights = 1 << WhiteQueenSide // Q
	BlackQueenSideCastle CastlingRights = 1 << BlackQueenSide // q
	NoCastling           CastlingRights = 0
	AllCastling          CastlingRights = WhiteKingSideCastle | WhiteQueenSideCastle | BlackKingSideCastle | BlackQueenSideCastle
)

// Has reports whether the right for c is present.
func (cr CastlingRights) Has(c Castle) bool {
	return cr&(1<<c) != 0
}

// String returns the FEN castling rights string.
func (cr CastlingRights) String() string {
	if cr == NoCastling {
		return "-"
	}
	s := ""
	if cr.Has(WhiteKingSide) {
		s += "K"
	}
	if cr.Has(WhiteQueenSide) {
		s += "Q"
	}
	if cr.Has(BlackKingSide) {
		s += "k"
	}
	if cr.Has(BlackQueenSide) {
		s += "q"
	}
	return s
}
