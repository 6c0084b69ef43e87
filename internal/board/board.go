package board

import (
	"errors"
	"fmt"
	"strings"
)

// Validation errors.
var (
	ErrInvalidPosition = errors.New("invalid position")
	ErrKingCount       = fmt.Errorf("%w: each side needs exactly one king", ErrInvalidPosition)
	ErrPawnCount       = fmt.Errorf("%w: more than 8 pawns", ErrInvalidPosition)
	ErrPieceCount      = fmt.Errorf("%w: more than 15 pieces besides the king", ErrInvalidPosition)
	ErrCastlingRights  = fmt.Errorf("%w: castling right without king and rook at home", ErrInvalidPosition)
	ErrEnPassantClock  = fmt.Errorf("%w: en passant square with non-zero half-move clock", ErrInvalidPosition)
	ErrEnPassantSquare = fmt.Errorf("%w: en passant square on the wrong rank", ErrInvalidPosition)
	ErrOpponentInCheck = fmt.Errorf("%w: side not to move is in check", ErrInvalidPosition)
	ErrPawnRank        = fmt.Errorf("%w: pawn on the first or eighth rank", ErrInvalidPosition)
	ErrHalfMoveClock   = fmt.Errorf("%w: half-move clock out of range", ErrInvalidPosition)
)

// bitboard slots: kind|color, with the side occupancy at 0|color.
const slotCount = 14

// Board represents a complete chess position.
type Board struct {
	bitboards [slotCount]Bitboard
	pieces    [64]Piece

	sideToMove     Color
	castling       CastlingRights
	enPassant      Square // NoSquare if none
	halfMoveClock  int
	fullMoveNumber int

	hash uint64

	history History
}

// NewBoard returns an empty board with White to move.
func NewBoard() *Board {
	return &Board{
		enPassant:      NoSquare,
		fullMoveNumber: 1,
	}
}

// StartPosition returns the standard initial position.
func StartPosition() *Board {
	b, err := ParseFEN(StartFEN)
	if err != nil {
		panic(err)
	}
	return b
}

// Copy creates a deep copy of the board, history included.
func (b *Board) Copy() *Board {
	nb := new(Board)
	nb.CopyFrom(b)
	return nb
}

// CopyFrom overwrites b with an independent duplicate of src.
func (b *Board) CopyFrom(src *Board) {
	if b == src {
		return
	}
	history := src.history.clone()
	*b = *src
	b.history = history
}

// Reset clears b back to an empty board.
func (b *Board) Reset() {
	*b = Board{
		enPassant:      NoSquare,
		fullMoveNumber: 1,
	}
}

// PieceAt returns the piece at the given square, or NoPiece if empty.
func (b *Board) PieceAt(sq Square) Piece {
	return b.pieces[sq]
}

// IsEmpty returns true if the square is empty.
func (b *Board) IsEmpty(sq Square) bool {
	return b.pieces[sq] == NoPiece
}

// Pieces returns the bitboard of one kind for one side.
func (b *Board) Pieces(pt PieceType, c Color) Bitboard {
	return b.bitboards[int(pt)|int(c)]
}

// Occupied returns every square holding a piece of c.
func (b *Board) Occupied(c Color) Bitboard {
	return b.bitboards[c]
}

// AllOccupied returns every occupied square.
func (b *Board) AllOccupied() Bitboard {
	return b.bitboards[White] | b.bitboards[Black]
}

// KingSquare returns the square of c's king, NoSquare if absent.
func (b *Board) KingSquare(c Color) Square {
	return b.Pieces(King, c).LSB()
}

// SideToMove returns the side whose turn it is.
func (b *Board) SideToMove() Color { return b.sideToMove }

// CastlingRights returns the rights still available.
func (b *Board) CastlingRights() CastlingRights { return b.castling }

// EnPassant returns the en passant target, NoSquare if none.
func (b *Board) EnPassant() Square { return b.enPassant }

// HalfMoveClock returns plies since the last pawn move or capture.
func (b *Board) HalfMoveClock() int { return b.halfMoveClock }

// FullMoveNumber starts at 1 and increments after Black moves.
func (b *Board) FullMoveNumber() int { return b.fullMoveNumber }

// Hash returns the incremental Zobrist key.
func (b *Board) Hash() uint64 { return b.hash }

// History returns the undo stack maintained by MakeMove.
func (b *Board) History() *History { return &b.history }

// PutPiece places p on an empty square.
func (b *Board) PutPiece(sq Square, p Piece) {
	if b.pieces[sq] != NoPiece {
		panic(fmt.Sprintf("board: put %s on occupied square %s", p, sq))
	}
	if p.Type() == NoPieceType {
		panic(fmt.Sprintf("board: put empty piece on %s", sq))
	}
	bb := SquareBB(sq)
	b.bitboards[p] |= bb
	b.bitboards[p.Color()] |= bb
	b.pieces[sq] = p
	b.hash ^= ZobristPiece(sq, p)
}

// RemovePiece takes the piece off an occupied square and returns it.
func (b *Board) RemovePiece(sq Square) Piece {
	p := b.pieces[sq]
	if p == NoPiece {
		panic(fmt.Sprintf("board: remove from empty square %s", sq))
	}
	bb := SquareBB(sq)
	b.bitboards[p] &^= bb
	b.bitboards[p.Color()] &^= bb
	b.pieces[sq] = NoPiece
	b.hash ^= ZobristPiece(sq, p)
	return p
}

// MovePiece relocates the piece on from to the empty square to.
func (b *Board) MovePiece(from, to Square) {
	b.PutPiece(to, b.RemovePiece(from))
}

// SwapSide passes the turn.
func (b *Board) SwapSide() {
	b.sideToMove = b.sideToMove.Other()
	b.hash ^= zobristSideToMove
}

// EnableCastle grants a castling right.
func (b *Board) EnableCastle(c Castle) {
	if !b.castling.Has(c) {
		b.castling |= 1 << c
		b.hash ^= zobristCastle[c]
	}
}

// DisableCastle revokes a castling right.
func (b *Board) DisableCastle(c Castle) {
	if b.castling.Has(c) {
		b.castling &^= 1 << c
		b.hash ^= zobristCastle[c]
	}
}

func (b *Board) setCastlingRights(cr CastlingRights) {
	for c := Castle(0); c < CastleCount; c++ {
		if cr.Has(c) {
			b.EnableCastle(c)
		} else {
			b.DisableCastle(c)
		}
	}
}

// SetEnPassant sets the en passant target. The square must be on the third
// or sixth rank.
func (b *Board) SetEnPassant(sq Square) {
	b.ClearEnPassant()
	b.enPassant = sq
	b.hash ^= ZobristEnPassant(sq)
}

// ClearEnPassant removes the en passant target.
func (b *Board) ClearEnPassant() {
	if b.enPassant != NoSquare {
		b.hash ^= ZobristEnPassant(b.enPassant)
		b.enPassant = NoSquare
	}
}

// SetHalfMoveClock sets the fifty-move counter.
func (b *Board) SetHalfMoveClock(n int) { b.halfMoveClock = n }

// SetFullMoveNumber sets the move number.
func (b *Board) SetFullMoveNumber(n int) { b.fullMoveNumber = n }

// disableRookCastle revokes the right tied to a rook home square.
func (b *Board) disableRookCastle(sq Square) {
	for c := Castle(0); c < CastleCount; c++ {
		if castleRookFrom[c] == sq {
			b.DisableCastle(c)
		}
	}
}

// ApplyMove plays m, which must be legal in the current position. Nothing
// is recorded in the history; see MakeMove.
func (b *Board) ApplyMove(m Move) {
	us := b.sideToMove
	resetClock := false

	b.ClearEnPassant()

	if m.IsCastle() {
		c := m.Castle()
		b.MovePiece(castleKingFrom[c], castleKingTo[c])
		b.MovePiece(castleRookFrom[c], castleRookTo[c])
		b.DisableCastle(NewCastle(us, true))
		b.DisableCastle(NewCastle(us, false))
	} else {
		from, to := m.From(), m.To()

		switch b.pieces[from].Type() {
		case Pawn:
			resetClock = true
		case Rook:
			b.disableRookCastle(from)
		case King:
			b.DisableCastle(NewCastle(us, true))
			b.DisableCastle(NewCastle(us, false))
		}

		if m.IsEnPassant() {
			b.RemovePiece(m.Other())
			resetClock = true
		} else if m.IsCapture() {
			if b.pieces[to].Type() == Rook {
				b.disableRookCastle(to)
			}
			b.RemovePiece(to)
			resetClock = true
		}

		b.MovePiece(from, to)

		if m.IsDoublePush() {
			b.SetEnPassant(m.Other())
		}
		if m.IsPromotion() {
			b.RemovePiece(to)
			b.PutPiece(to, NewPiece(m.Promotion(), us))
		}
	}

	b.SwapSide()
	if b.sideToMove == White {
		b.fullMoveNumber++
	}
	if resetClock {
		b.halfMoveClock = 0
	} else {
		b.halfMoveClock++
	}
}

// MakeMove records m in the history and applies it.
func (b *Board) MakeMove(m Move) {
	b.history.Record(b, m)
	b.ApplyMove(m)
}

// Undo reverts the most recent MakeMove and returns the move.
func (b *Board) Undo() (Move, error) {
	e, err := b.history.Pop()
	if err != nil {
		return NoMove, err
	}
	m := e.Move()

	b.SwapSide()
	if b.sideToMove == Black {
		b.fullMoveNumber--
	}
	us := b.sideToMove

	if m.IsCastle() {
		c := m.Castle()
		b.MovePiece(castleRookTo[c], castleRookFrom[c])
		b.MovePiece(castleKingTo[c], castleKingFrom[c])
	} else {
		from, to := m.From(), m.To()
		if m.IsPromotion() {
			b.RemovePiece(to)
			b.PutPiece(to, NewPiece(Pawn, us))
		}
		b.MovePiece(to, from)
		switch {
		case m.IsEnPassant():
			b.PutPiece(m.Other(), e.Captured())
		case m.IsCapture():
			b.PutPiece(to, e.Captured())
		}
	}

	b.setCastlingRights(e.CastlingRights())
	b.ClearEnPassant()
	if ep := e.EnPassant(); ep != NoSquare {
		b.SetEnPassant(ep)
	}
	b.halfMoveClock = e.HalfMoveClock()
	return m, nil
}

// ComputeHash recomputes the Zobrist key from scratch.
func (b *Board) ComputeHash() uint64 {
	var h uint64
	for sq := A1; sq <= H8; sq++ {
		if p := b.pieces[sq]; p != NoPiece {
			h ^= ZobristPiece(sq, p)
		}
	}
	for c := Castle(0); c < CastleCount; c++ {
		if b.castling.Has(c) {
			h ^= zobristCastle[c]
		}
	}
	if b.enPassant != NoSquare {
		h ^= ZobristEnPassant(b.enPassant)
	}
	if b.sideToMove == Black {
		h ^= zobristSideToMove
	}
	return h
}

// AttackersTo returns the pieces of color by attacking sq under occupancy occ.
func (b *Board) AttackersTo(sq Square, by Color, occ Bitboard) Bitboard {
	queens := b.Pieces(Queen, by)
	target := SquareBB(sq)
	pawnSources := target.NorthEast() | target.NorthWest()
	if by == White {
		pawnSources = target.SouthEast() | target.SouthWest()
	}
	return (pawnSources & b.Pieces(Pawn, by)) |
		(knightAttacks[sq] & b.Pieces(Knight, by)) |
		(kingAttacks[sq] & b.Pieces(King, by)) |
		(BishopAttacks(sq, occ) & (b.Pieces(Bishop, by) | queens)) |
		(RookAttacks(sq, occ) & (b.Pieces(Rook, by) | queens))
}

// Validate checks the position's sanity and returns the first problem found.
func (b *Board) Validate() error {
	for _, c := range [2]Color{White, Black} {
		if b.Pieces(King, c).PopCount() != 1 {
			return ErrKingCount
		}
		if b.Pieces(Pawn, c).PopCount() > 8 {
			return ErrPawnCount
		}
		if b.Pieces(Pawn, c)&(Rank1|Rank8) != 0 {
			return ErrPawnRank
		}
		if b.Occupied(c).PopCount()-1 > 15 {
			return ErrPieceCount
		}
	}

	for c := Castle(0); c < CastleCount; c++ {
		if !b.castling.Has(c) {
			continue
		}
		side := c.Color()
		if b.pieces[castleKingFrom[c]] != NewPiece(King, side) ||
			b.pieces[castleRookFrom[c]] != NewPiece(Rook, side) {
			return ErrCastlingRights
		}
	}

	if b.halfMoveClock < 0 || b.halfMoveClock > MaxHalfMoveClock {
		return ErrHalfMoveClock
	}

	if b.enPassant != NoSquare {
		if b.halfMoveClock != 0 {
			return ErrEnPassantClock
		}
		// The target sits behind a pawn the opponent just pushed two squares.
		if b.enPassant.RelativeRank(b.sideToMove) != 5 {
			return ErrEnPassantSquare
		}
	}

	them := b.sideToMove.Other()
	if b.AttackersTo(b.KingSquare(them), b.sideToMove, b.AllOccupied()) != 0 {
		return ErrOpponentInCheck
	}
	return nil
}

// IsValid reports whether Validate finds no problem.
func (b *Board) IsValid() bool {
	return b.Validate() == nil
}

// Equal reports whether two boards hold the same position and clocks.
// Histories are not compared.
func (b *Board) Equal(o *Board) bool {
	return b.bitboards == o.bitboards &&
		b.pieces == o.pieces &&
		b.sideToMove == o.sideToMove &&
		b.castling == o.castling &&
		b.enPassant == o.enPassant &&
		b.halfMoveClock == o.halfMoveClock &&
		b.fullMoveNumber == o.fullMoveNumber &&
		b.hash == o.hash
}

// String returns a visual representation of the position.
func (b *Board) String() string {
	var sb strings.Builder
	sb.WriteString("\n")
	for rank := 7; rank >= 0; rank-- {
		fmt.Fprintf(&sb, "%d  ", rank+1)
		for file := 0; file < 8; file++ {
			p := b.pieces[NewSquare(file, rank)]
			if p == NoPiece {
				sb.WriteString(". ")
			} else {
				sb.WriteString(p.String() + " ")
			}
		}
		sb.WriteString("\n")
	}
	sb.WriteString("\n   a b c d e f g h\n\n")
	fmt.Fprintf(&sb, "Side to move: %s\n", b.sideToMove)
	fmt.Fprintf(&sb, "Castling: %s\n", b.castling)
	fmt.Fprintf(&sb, "En passant: %s\n", b.enPassant)
	fmt.Fprintf(&sb, "Half-move clock: %d\n", b.halfMoveClock)
	fmt.Fprintf(&sb, "Full move: %d\n", b.fullMoveNumber)
	fmt.Fprintf(&sb, "Hash: %016x\n", b.hash)
	fmt.Fprintf(&sb, "FEN: %s\n", b.FEN())
	return sb.String()
}
