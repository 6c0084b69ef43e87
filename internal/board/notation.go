package board

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownMove is returned when a move string cannot be resolved.
var ErrUnknownMove = errors.New("unknown move")

// String returns the coordinate form of the move (e.g., "e2e4", "e7e8q").
// Castles are written as the king's move.
func (m Move) String() string {
	if m.IsError() {
		return "0000"
	}

	s := m.From().String() + m.To().String()
	if m.IsPromotion() {
		s += string(m.Promotion().Char())
	}
	return s
}

// LAN returns the long algebraic form: "e2e4", "e4xd5", "e7e8=Q", "O-O".
func (m Move) LAN() string {
	if m.IsError() {
		return "-"
	}
	if m.IsCastle() {
		if m.Castle().IsKingSide() {
			return "O-O"
		}
		return "O-O-O"
	}

	var sb strings.Builder
	sb.WriteString(m.From().String())
	if m.IsCapture() {
		sb.WriteByte('x')
	}
	sb.WriteString(m.To().String())
	if m.IsPromotion() {
		sb.WriteByte('=')
		sb.WriteByte(m.Promotion().Char() - ('a' - 'A'))
	}
	return sb.String()
}

// ParseMove rebuilds a move from its coordinate form using b for context:
// castling, en passant, double pushes and captures are recognised from the
// position. The promotion letter may be either case. The move is not checked
// for legality.
func (b *Board) ParseMove(s string) (Move, error) {
	s = strings.TrimSpace(s)
	if len(s) != 4 && len(s) != 5 {
		return NoMove, fmt.Errorf("%w: %q", ErrUnknownMove, s)
	}

	from, err := ParseSquare(s[0:2])
	if err != nil {
		return NoMove, fmt.Errorf("%w: %q: %w", ErrUnknownMove, s, err)
	}
	to, err := ParseSquare(s[2:4])
	if err != nil {
		return NoMove, fmt.Errorf("%w: %q: %w", ErrUnknownMove, s, err)
	}

	piece := b.pieces[from]
	if piece == NoPiece {
		return NoMove, fmt.Errorf("%w: %q: no piece at %s", ErrUnknownMove, s, from)
	}
	capture := b.pieces[to] != NoPiece

	if len(s) == 5 {
		promo := PieceTypeFromChar(s[4])
		switch promo {
		case Rook, Knight, Bishop, Queen:
		default:
			return NoMove, fmt.Errorf("%w: %q: promotion piece %q", ErrUnknownMove, s, s[4])
		}
		if capture {
			return NewPromotionCapture(from, to, promo), nil
		}
		return NewPromotion(from, to, promo), nil
	}

	switch piece.Type() {
	case King:
		for c := Castle(0); c < CastleCount; c++ {
			if castleKingFrom[c] == from && castleKingTo[c] == to && c.Color() == piece.Color() {
				return NewCastling(c), nil
			}
		}
	case Pawn:
		if to == b.enPassant && from.File() != to.File() {
			return NewEnPassant(from, to, NewSquare(to.File(), from.Rank())), nil
		}
		if d := int(to) - int(from); d == 16 || d == -16 {
			return NewDoublePush(from, to, Square((int(from)+int(to))/2)), nil
		}
	}

	if capture {
		return NewCapture(from, to), nil
	}
	return NewMove(from, to), nil
}

// ToSAN converts a legal move to Standard Algebraic Notation.
func (m Move) ToSAN(b *Board) string {
	if m.IsError() {
		return "-"
	}

	if m.IsCastle() {
		return m.LAN() + checkSuffix(b, m)
	}

	from, to := m.From(), m.To()
	piece := b.pieces[from]
	if piece == NoPiece {
		return m.String()
	}
	pt := piece.Type()

	var sb strings.Builder
	if pt != Pawn {
		sb.WriteByte(pt.Char() - ('a' - 'A'))
		sb.WriteString(disambiguation(b, m, pt))
	}

	if m.IsCapture() {
		if pt == Pawn {
			sb.WriteByte('a' + byte(from.File()))
		}
		sb.WriteByte('x')
	}

	sb.WriteString(to.String())

	if m.IsPromotion() {
		sb.WriteByte('=')
		sb.WriteByte(m.Promotion().Char() - ('a' - 'A'))
	}

	sb.WriteString(checkSuffix(b, m))
	return sb.String()
}

func checkSuffix(b *Board, m Move) string {
	nb := b.Copy()
	nb.ApplyMove(m)
	if !nb.InCheck() {
		return ""
	}
	if nb.HasLegalMoves() {
		return "+"
	}
	return "#"
}

// disambiguation returns the file, rank or square needed to tell m apart
// from other moves of the same piece type to the same square.
func disambiguation(b *Board, m Move, pt PieceType) string {
	from, to := m.From(), m.To()
	pieces := b.Pieces(pt, b.sideToMove)

	var candidates []Square
	for _, other := range b.GenerateLegalMoves().Moves() {
		if other.To() != to || other.From() == from || !pieces.IsSet(other.From()) {
			continue
		}
		candidates = append(candidates, other.From())
	}
	if len(candidates) == 0 {
		return ""
	}

	sameFile, sameRank := false, false
	for _, sq := range candidates {
		if sq.File() == from.File() {
			sameFile = true
		}
		if sq.Rank() == from.Rank() {
			sameRank = true
		}
	}

	if !sameFile {
		return string(rune('a' + from.File()))
	}
	if !sameRank {
		return string(rune('1' + from.Rank()))
	}
	return from.String()
}

// ParseSAN resolves a SAN string against the legal moves of b.
func (b *Board) ParseSAN(s string) (Move, error) {
	orig := s
	s = strings.TrimSpace(s)
	s = strings.TrimRight(s, "+#!?")

	moves := b.GenerateLegalMoves().Moves()

	if s == "O-O" || s == "0-0" || s == "O-O-O" || s == "0-0-0" {
		c := NewCastle(b.sideToMove, len(s) == 3)
		for _, m := range moves {
			if m.IsCastle() && m.Castle() == c {
				return m, nil
			}
		}
		return NoMove, fmt.Errorf("%w: %q", ErrUnknownMove, orig)
	}

	promo := NoPieceType
	if idx := strings.IndexByte(s, '='); idx >= 0 && idx+1 < len(s) {
		promo = PieceTypeFromChar(s[idx+1])
		s = s[:idx]
	}

	capture := strings.Contains(s, "x")
	s = strings.ReplaceAll(s, "x", "")

	pt := Pawn
	if len(s) > 0 && s[0] >= 'A' && s[0] <= 'Z' {
		pt = PieceTypeFromChar(s[0])
		s = s[1:]
	}

	if len(s) < 2 {
		return NoMove, fmt.Errorf("%w: %q", ErrUnknownMove, orig)
	}
	dest, err := ParseSquare(s[len(s)-2:])
	if err != nil {
		return NoMove, fmt.Errorf("%w: %q: %w", ErrUnknownMove, orig, err)
	}
	s = s[:len(s)-2]

	fileHint, rankHint := -1, -1
	for _, c := range s {
		if c >= 'a' && c <= 'h' {
			fileHint = int(c - 'a')
		} else if c >= '1' && c <= '8' {
			rankHint = int(c - '1')
		}
	}

	for _, m := range moves {
		if m.To() != dest || m.IsCastle() {
			continue
		}
		from := m.From()
		if b.pieces[from].Type() != pt {
			continue
		}
		if fileHint >= 0 && from.File() != fileHint {
			continue
		}
		if rankHint >= 0 && from.Rank() != rankHint {
			continue
		}
		if capture && !m.IsCapture() {
			continue
		}
		if m.IsPromotion() != (promo != NoPieceType) {
			continue
		}
		if promo != NoPieceType && m.Promotion() != promo {
			continue
		}
		return m, nil
	}

	return NoMove, fmt.Errorf("%w: %q", ErrUnknownMove, orig)
}

// MovesToSAN converts a line of moves played from b to SAN.
func MovesToSAN(b *Board, moves []Move) []string {
	result := make([]string, len(moves))
	nb := b.Copy()
	for i, m := range moves {
		result[i] = m.ToSAN(nb)
		nb.ApplyMove(m)
	}
	return result
}
