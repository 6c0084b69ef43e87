package board

import (
	"fmt"
	"log"
)

// DebugMoveValidation makes the generator replay every move it emits on a
// copy of the board and log any move that leaves the mover in check.
var DebugMoveValidation = false

// Generator produces the legal moves of a board. The zero value is ready to
// use; a Generator may be reused across boards but not shared between
// goroutines. After Generate, the accessors describe the analysed position.
type Generator struct {
	us, them Color
	king     Square
	occ      Bitboard
	ours     Bitboard
	theirs   Bitboard

	attacks   Bitboard
	checkers  Bitboard
	checkPath Bitboard
	pinned    Bitboard
	pins      [64]Bitboard

	pushMask    Bitboard
	captureMask Bitboard
}

// Attacks returns every square the side not to move attacks, seen through
// the king of the side to move.
func (g *Generator) Attacks() Bitboard { return g.attacks }

// Checkers returns the pieces giving check.
func (g *Generator) Checkers() Bitboard { return g.checkers }

// InCheck reports whether the side to move is in check.
func (g *Generator) InCheck() bool { return g.checkers != 0 }

// CheckPath returns the squares from each checking slider up to the king.
func (g *Generator) CheckPath() Bitboard { return g.checkPath }

// Pinned returns the pinned pieces of the side to move.
func (g *Generator) Pinned() Bitboard { return g.pinned }

// Pin returns the squares the piece on sq may move to without exposing its
// king: Universe when unpinned, otherwise the pinning ray including the
// pinner.
func (g *Generator) Pin(sq Square) Bitboard { return g.pins[sq] }

// Generate appends the legal moves of b to ml.
func (g *Generator) Generate(b *Board, ml *MoveList) {
	g.discover(b)
	g.synthesize(b, ml)

	if DebugMoveValidation {
		validateMoves(b, ml)
	}
}

// GenerateLegalMoves returns all legal moves for the side to move.
func (b *Board) GenerateLegalMoves() *MoveList {
	var g Generator
	ml := NewMoveList()
	g.Generate(b, ml)
	return ml
}

// discover computes attacks, checkers, check paths and pins.
func (g *Generator) discover(b *Board) {
	g.us = b.sideToMove
	g.them = g.us.Other()
	if b.Pieces(King, g.us).PopCount() != 1 || b.Pieces(King, g.them).PopCount() != 1 {
		panic(fmt.Sprintf("board: move generation needs one king per side: %s", b.FEN()))
	}
	g.king = b.KingSquare(g.us)
	g.ours = b.Occupied(g.us)
	g.theirs = b.Occupied(g.them)
	g.occ = g.ours | g.theirs

	g.attacks = 0
	g.checkers = 0
	g.checkPath = 0
	g.pinned = 0
	for i := range g.pins {
		g.pins[i] = Universe
	}

	kingBB := SquareBB(g.king)

	for pawns := b.Pieces(Pawn, g.them); pawns != 0; {
		sq := pawns.PopLSB()
		a := pawnAttacks[g.them][sq]
		if a&kingBB != 0 {
			g.checkers |= SquareBB(sq)
		}
		g.attacks |= a
	}
	for rooks := b.Pieces(Rook, g.them); rooks != 0; {
		g.slider(rooks.PopLSB(), CardinalDirections[:])
	}
	for knights := b.Pieces(Knight, g.them); knights != 0; {
		sq := knights.PopLSB()
		a := knightAttacks[sq]
		if a&kingBB != 0 {
			g.checkers |= SquareBB(sq)
		}
		g.attacks |= a
	}
	for bishops := b.Pieces(Bishop, g.them); bishops != 0; {
		g.slider(bishops.PopLSB(), DiagonalDirections[:])
	}
	for queens := b.Pieces(Queen, g.them); queens != 0; {
		g.slider(queens.PopLSB(), AllDirections[:])
	}
	g.attacks |= kingAttacks[b.KingSquare(g.them)]
}

// slider walks the rays of an enemy slider on from. A ray reaching the king
// continues through it and becomes part of the check path; a ray stopped by
// one of our pieces pins it when the king is the next occupant behind it.
func (g *Generator) slider(from Square, dirs []Direction) {
	fromBB := SquareBB(from)
	for _, d := range dirs {
		ray := rays[from][d]
		if blockers := ray & g.occ; blockers != 0 {
			hit := scanners[d](blockers)
			shadow := rays[hit][d]
			switch {
			case hit == g.king:
				g.checkers |= fromBB
				g.checkPath |= ray&^shadow | fromBB
			case g.ours.IsSet(hit):
				if extractors[d](shadow&g.occ)&SquareBB(g.king) != 0 {
					if g.pinned.IsSet(hit) {
						panic(fmt.Sprintf("board: %s pinned twice", hit))
					}
					g.pinned |= SquareBB(hit)
					g.pins[hit] = ray | fromBB
				}
				ray &^= shadow
			default:
				ray &^= shadow
			}
		}
		g.attacks |= ray
	}
}

// synthesize emits legal moves: pawns, rooks, knights, bishops, queens, king.
func (g *Generator) synthesize(b *Board, ml *MoveList) {
	g.pushMask = ^g.occ
	g.captureMask = g.theirs
	switch n := g.checkers.PopCount(); {
	case n > 1:
		g.pushMask, g.captureMask = 0, 0
	case n == 1:
		g.pushMask &= g.checkPath
		g.captureMask &= g.checkers
	}

	if g.pushMask|g.captureMask != 0 {
		g.pawnMoves(b, ml)
		for rooks := b.Pieces(Rook, g.us); rooks != 0; {
			g.sliderMoves(ml, rooks.PopLSB(), CardinalDirections[:])
		}
		for knights := b.Pieces(Knight, g.us); knights != 0; {
			from := knights.PopLSB()
			g.addMoves(ml, from, knightAttacks[from]&g.pins[from])
		}
		for bishops := b.Pieces(Bishop, g.us); bishops != 0; {
			g.sliderMoves(ml, bishops.PopLSB(), DiagonalDirections[:])
		}
		for queens := b.Pieces(Queen, g.us); queens != 0; {
			g.sliderMoves(ml, queens.PopLSB(), AllDirections[:])
		}
	}
	g.kingMoves(b, ml)
}

// addMoves emits quiet moves and captures from targets after masking.
func (g *Generator) addMoves(ml *MoveList, from Square, targets Bitboard) {
	for quiet := targets & g.pushMask; quiet != 0; {
		ml.Add(NewMove(from, quiet.PopLSB()))
	}
	for captures := targets & g.captureMask; captures != 0; {
		ml.Add(NewCapture(from, captures.PopLSB()))
	}
}

func (g *Generator) sliderMoves(ml *MoveList, from Square, dirs []Direction) {
	var targets Bitboard
	for _, d := range dirs {
		targets |= SliderAttacks(from, d, g.occ)
	}
	g.addMoves(ml, from, targets&g.pins[from])
}

func (g *Generator) pawnMoves(b *Board, ml *MoveList) {
	forward := 8
	if g.us == Black {
		forward = -8
	}
	ep := b.enPassant

	for pawns := b.Pieces(Pawn, g.us); pawns != 0; {
		from := pawns.PopLSB()
		pushes := g.pushMask & g.pins[from]
		captures := g.captureMask & g.pins[from]

		single := Square(int(from) + forward)
		if !g.occ.IsSet(single) {
			if pushes.IsSet(single) {
				g.addPawnMove(ml, from, single, false)
			}
			double := Square(int(single) + forward)
			if doublePushRanks[g.us].IsSet(double) && pushes.IsSet(double) {
				ml.Add(NewDoublePush(from, double, single))
			}
		}

		for targets := pawnAttacks[g.us][from] & captures; targets != 0; {
			g.addPawnMove(ml, from, targets.PopLSB(), true)
		}

		if ep != NoSquare && pawnAttacks[g.us][from].IsSet(ep) {
			captured := Square(int(ep) - forward)
			if !pushes.IsSet(ep) && !captures.IsSet(captured) {
				continue
			}
			occ := g.occ&^(SquareBB(from)|SquareBB(captured)) | SquareBB(ep)
			if g.exposed(b, occ) {
				continue
			}
			ml.Add(NewEnPassant(from, ep, captured))
		}
	}
}

// addPawnMove emits a pawn move, expanded into R, N, B, Q on the far rank.
func (g *Generator) addPawnMove(ml *MoveList, from, to Square, capture bool) {
	if promotionRanks[g.us].IsSet(to) {
		for _, pt := range [4]PieceType{Rook, Knight, Bishop, Queen} {
			if capture {
				ml.Add(NewPromotionCapture(from, to, pt))
			} else {
				ml.Add(NewPromotion(from, to, pt))
			}
		}
		return
	}
	if capture {
		ml.Add(NewCapture(from, to))
	} else {
		ml.Add(NewMove(from, to))
	}
}

// exposed reports whether an enemy slider sees our king under occupancy occ.
func (g *Generator) exposed(b *Board, occ Bitboard) bool {
	queens := b.Pieces(Queen, g.them)
	straight := b.Pieces(Rook, g.them) | queens
	diagonal := b.Pieces(Bishop, g.them) | queens
	for _, d := range CardinalDirections {
		if extractors[d](rays[g.king][d]&occ)&straight != 0 {
			return true
		}
	}
	for _, d := range DiagonalDirections {
		if extractors[d](rays[g.king][d]&occ)&diagonal != 0 {
			return true
		}
	}
	return false
}

func (g *Generator) kingMoves(b *Board, ml *MoveList) {
	targets := kingAttacks[g.king] &^ g.attacks
	for quiet := targets &^ g.occ; quiet != 0; {
		ml.Add(NewMove(g.king, quiet.PopLSB()))
	}
	for captures := targets & g.theirs; captures != 0; {
		ml.Add(NewCapture(g.king, captures.PopLSB()))
	}

	if g.checkers != 0 {
		return
	}
	for _, c := range [2]Castle{NewCastle(g.us, true), NewCastle(g.us, false)} {
		if b.castling.Has(c) && g.occ&castleClear[c] == 0 && g.attacks&castleSafe[c] == 0 {
			ml.Add(NewCastling(c))
		}
	}
}

func validateMoves(b *Board, ml *MoveList) {
	us := b.sideToMove
	scratch := new(Board)
	for _, m := range ml.Moves() {
		scratch.CopyFrom(b)
		scratch.ApplyMove(m)
		ksq := scratch.KingSquare(us)
		if scratch.AttackersTo(ksq, us.Other(), scratch.AllOccupied()) != 0 {
			log.Printf("MOVEGEN ILLEGAL: %v leaves %v king on %v in check! fen=%s",
				m.LAN(), us, ksq, b.FEN())
		}
	}
}

// InCheck returns true if the side to move is in check.
func (b *Board) InCheck() bool {
	us := b.sideToMove
	return b.AttackersTo(b.KingSquare(us), us.Other(), b.AllOccupied()) != 0
}

// HasLegalMoves returns true if the side to move has at least one legal move.
func (b *Board) HasLegalMoves() bool {
	return b.GenerateLegalMoves().Len() > 0
}

// IsCheckmate returns true if the side to move is checkmated.
func (b *Board) IsCheckmate() bool {
	return b.InCheck() && !b.HasLegalMoves()
}

// IsStalemate returns true if the side to move has no legal moves but is not in check.
func (b *Board) IsStalemate() bool {
	return !b.InCheck() && !b.HasLegalMoves()
}

// IsFiftyMoveDraw reports whether a hundred plies passed without a pawn move or capture.
func (b *Board) IsFiftyMoveDraw() bool {
	return b.halfMoveClock >= 100
}
