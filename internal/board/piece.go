package board

// Color represents the color of a piece or player.
type Color uint8

const (
	White Color = iota
	Black
)

// Other returns the opposite color.
func (c Color) Other() Color {
	return c ^ 1
}

// String returns the color name.
func (c Color) String() string {
	if c == White {
		return "White"
	}
	return "Black"
}

// PieceType represents the kind of a chess piece. Kinds are even numbers so
// that kind|color addresses a bitboard slot; slot 0|color holds the side's
// full occupancy.
type PieceType uint8

const (
	NoPieceType PieceType = 0
	Pawn        PieceType = 2
	Rook        PieceType = 4
	Knight      PieceType = 6
	Bishop      PieceType = 8
	Queen       PieceType = 10
	King        PieceType = 12
)

// PieceTypes lists the real kinds in generation order.
var PieceTypes = [6]PieceType{Pawn, Rook, Knight, Bishop, Queen, King}

// Index returns a dense 0-5 index for a real kind.
func (pt PieceType) Index() int {
	return int(pt>>1) - 1
}

// String returns the piece type name.
func (pt PieceType) String() string {
	switch pt {
	case Pawn:
		return "Pawn"
	case Knight:
		return "Knight"
	case Bishop:
		return "Bishop"
	case Rook:
		return "Rook"
	case Queen:
		return "Queen"
	case King:
		return "King"
	default:
		return "None"
	}
}

// Char returns the FEN character for the piece type (lowercase).
func (pt PieceType) Char() byte {
	switch pt {
	case Pawn:
		return 'p'
	case Knight:
		return 'n'
	case Bishop:
		return 'b'
	case Rook:
		return 'r'
	case Queen:
		return 'q'
	case King:
		return 'k'
	default:
		return ' '
	}
}

// PieceTypeFromChar maps a letter of either case to a kind.
func PieceTypeFromChar(c byte) PieceType {
	if c >= 'A' && c <= 'Z' {
		c += 'a' - 'A'
	}
	switch c {
	case 'p':
		return Pawn
	case 'n':
		return Knight
	case 'b':
		return Bishop
	case 'r':
		return Rook
	case 'q':
		return Queen
	case 'k':
		return King
	default:
		return NoPieceType
	}
}

// Piece combines PieceType and Color into a single value: kind | color.
type Piece uint8

const (
	NoPiece     Piece = 0
	WhitePawn   Piece = Piece(Pawn) | Piece(White)
	WhiteRook   Piece = Piece(Rook) | Piece(White)
	WhiteKnight Piece = Piece(Knight) | Piece(White)
	WhiteBishop Piece = Piece(Bishop) | Piece(White)
	WhiteQueen  Piece = Piece(Queen) | Piece(White)
	WhiteKing   Piece = Piece(King) | Piece(White)
	BlackPawn   Piece = Piece(Pawn) | Piece(Black)
	BlackRook   Piece = Piece(Rook) | Piece(Black)
	BlackKnight Piece = Piece(Knight) | Piece(Black)
	BlackBishop Piece = Piece(Bishop) | Piece(Black)
	BlackQueen  Piece = Piece(Queen) | Piece(Black)
	BlackKing   Piece = Piece(King) | Piece(Black)
)

// NewPiece creates a Piece from PieceType and Color.
func NewPiece(pt PieceType, c Color) Piece {
	return Piece(pt) | Piece(c)
}

// Type returns the PieceType of the piece.
func (p Piece) Type() PieceType {
	return PieceType(p &^ 1)
}

// Color returns the Color of the piece.
func (p Piece) Color() Color {
	return Color(p & 1)
}

// String returns the FEN character for the piece.
// Uppercase for white, lowercase for black.
func (p Piece) String() string {
	if p.Type() == NoPieceType {
		return " "
	}
	ch := p.Type().Char()
	if p.Color() == White {
		ch -= 'a' - 'A'
	}
	return string(ch)
}

// PieceFromChar converts a FEN character to a Piece.
func PieceFromChar(c byte) Piece {
	pt := PieceTypeFromChar(c)
	if pt == NoPieceType {
		return NoPiece
	}
	if c >= 'a' && c <= 'z' {
		return NewPiece(pt, Black)
	}
	return NewPiece(pt, White)
}
