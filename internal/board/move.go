package board

// Move encodes a chess move in 32 bits:
// bits 0-5:   from square
// bits 6-11:  to square
// bits 12-17: auxiliary field; its meaning is selected by the flags:
//             en passant capture square, double push skip square,
//             castle id (bits 12-13) or promotion kind (bits 12-15)
// bits 18-23: flags
type Move uint32

// Move flags
const (
	FlagCapture    Move = 1 << 18
	FlagDoublePush Move = 1 << 19
	FlagEnPassant  Move = 1 << 20
	FlagCastle     Move = 1 << 21
	FlagPromotion  Move = 1 << 22
	FlagError      Move = 1 << 23
)

const (
	squareMask  = 0x3F
	otherShift  = 12
	castleMask  = 0x3 << otherShift
	promoteMask = 0xF << otherShift
)

// NoMove is the error sentinel returned when a lookup fails. Its error flag
// is never set on generated moves.
const NoMove Move = FlagError

// NewMove creates a quiet move.
func NewMove(from, to Square) Move {
	return Move(from) | Move(to)<<6
}

// NewCapture creates a capture.
func NewCapture(from, to Square) Move {
	return NewMove(from, to) | FlagCapture
}

// NewDoublePush creates a two-square pawn advance over skip.
func NewDoublePush(from, to, skip Square) Move {
	return NewMove(from, to) | Move(skip)<<otherShift | FlagDoublePush
}

// NewPromotion creates a promoting push.
func NewPromotion(from, to Square, promo PieceType) Move {
	return NewMove(from, to) | Move(promo)<<otherShift | FlagPromotion
}

// NewPromotionCapture creates a promoting capture.
func NewPromotionCapture(from, to Square, promo PieceType) Move {
	return NewPromotion(from, to, promo) | FlagCapture
}

// NewEnPassant creates an en passant capture removing the pawn on captured.
func NewEnPassant(from, to, captured Square) Move {
	return NewMove(from, to) | Move(captured)<<otherShift | FlagEnPassant
}

// NewCastling creates a castling move; from and to are the king's squares.
func NewCastling(c Castle) Move {
	return NewMove(castleKingFrom[c], castleKingTo[c]) | Move(c)<<otherShift | FlagCastle
}

// From returns the origin square.
func (m Move) From() Square {
	return Square(m & squareMask)
}

// To returns the destination square.
func (m Move) To() Square {
	return Square((m >> 6) & squareMask)
}

// Other returns the auxiliary square: the captured pawn for en passant or
// the skipped square for a double push.
func (m Move) Other() Square {
	return Square((m >> otherShift) & squareMask)
}

// Castle returns the castle id (only valid if IsCastle() is true).
func (m Move) Castle() Castle {
	return Castle((m & castleMask) >> otherShift)
}

// Promotion returns the promotion piece type (only valid if IsPromotion() is true).
func (m Move) Promotion() PieceType {
	return PieceType((m & promoteMask) >> otherShift)
}

// IsCapture returns true for captures, promoting captures and en passant.
func (m Move) IsCapture() bool {
	return m&(FlagCapture|FlagEnPassant) != 0
}

// IsDoublePush returns true for a two-square pawn advance.
func (m Move) IsDoublePush() bool {
	return m&FlagDoublePush != 0
}

// IsEnPassant returns true if this is an en passant capture.
func (m Move) IsEnPassant() bool {
	return m&FlagEnPassant != 0
}

// IsCastle returns true if this is a castling move.
func (m Move) IsCastle() bool {
	return m&FlagCastle != 0
}

// IsPromotion returns true if this is a promotion move.
func (m Move) IsPromotion() bool {
	return m&FlagPromotion != 0
}

// IsError reports whether m is the lookup failure sentinel.
func (m Move) IsError() bool {
	return m&FlagError != 0
}

// FindMove returns the first move in moves going from src to dst. When that
// move is a promotion, promo must match its kind as well. NoMove is returned
// when nothing matches.
func FindMove(moves []Move, src, dst Square, promo PieceType) Move {
	for _, m := range moves {
		if m.From() != src || m.To() != dst {
			continue
		}
		if m.IsPromotion() && m.Promotion() != promo {
			continue
		}
		return m
	}
	return NoMove
}

// MoveList is a fixed-size list of moves to avoid allocations.
type MoveList struct {
	moves [256]Move
	count int
}

// NewMoveList creates an empty move list.
func NewMoveList() *MoveList {
	return &MoveList{}
}

// Add adds a move to the list.
func (ml *MoveList) Add(m Move) {
	ml.moves[ml.count] = m
	ml.count++
}

// Len returns the number of moves in the list.
func (ml *MoveList) Len() int {
	return ml.count
}

// Get returns the move at index i.
func (ml *MoveList) Get(i int) Move {
	return ml.moves[i]
}

// Clear empties the list.
func (ml *MoveList) Clear() {
	ml.count = 0
}

// Moves returns the populated prefix of the list. The slice aliases the list.
func (ml *MoveList) Moves() []Move {
	return ml.moves[:ml.count]
}

// Find is FindMove over the list.
func (ml *MoveList) Find(src, dst Square, promo PieceType) Move {
	return FindMove(ml.Moves(), src, dst, promo)
}
