package board

import "errors"

// ErrEmptyHistory is returned when undoing with no recorded moves.
var ErrEmptyHistory = errors.New("board: empty move history")

// HistoryEntry packs a move with the pre-move state it cannot restore
// from itself:
// bits 0-23:  move
// bits 24-27: castling rights
// bits 28-34: en passant square (NoSquare when unset)
// bits 35-38: captured piece
// bits 39-63: half-move clock
type HistoryEntry uint64

const (
	entryMoveMask     = 1<<24 - 1
	entryCastleShift  = 24
	entryEPShift      = 28
	entryCaptureShift = 35
	entryClockShift   = 39
)

// MaxHalfMoveClock is the largest half-move clock a history entry can hold.
const MaxHalfMoveClock = 1<<(64-entryClockShift) - 1

func newHistoryEntry(m Move, cr CastlingRights, ep Square, captured Piece, halfMove int) HistoryEntry {
	return HistoryEntry(m)&entryMoveMask |
		HistoryEntry(cr&0xF)<<entryCastleShift |
		HistoryEntry(ep&0x7F)<<entryEPShift |
		HistoryEntry(captured&0xF)<<entryCaptureShift |
		HistoryEntry(halfMove)<<entryClockShift
}

// Move returns the recorded move.
func (e HistoryEntry) Move() Move {
	return Move(e & entryMoveMask)
}

// CastlingRights returns the rights before the move.
func (e HistoryEntry) CastlingRights() CastlingRights {
	return CastlingRights(e>>entryCastleShift) & 0xF
}

// EnPassant returns the en passant square before the move.
func (e HistoryEntry) EnPassant() Square {
	return Square(e>>entryEPShift) & 0x7F
}

// Captured returns the piece the move removed, NoPiece if none.
func (e HistoryEntry) Captured() Piece {
	return Piece(e>>entryCaptureShift) & 0xF
}

// HalfMoveClock returns the clock before the move.
func (e HistoryEntry) HalfMoveClock() int {
	return int(e >> entryClockShift)
}

// History is a LIFO stack of undo records.
type History struct {
	entries []HistoryEntry
}

// Record pushes the state of b before m is applied to it.
func (h *History) Record(b *Board, m Move) {
	captured := NoPiece
	switch {
	case m.IsEnPassant():
		captured = b.pieces[m.Other()]
	case m.IsCapture():
		captured = b.pieces[m.To()]
	}
	h.entries = append(h.entries, newHistoryEntry(m, b.castling, b.enPassant, captured, b.halfMoveClock))
}

// Pop removes and returns the most recent record.
func (h *History) Pop() (HistoryEntry, error) {
	n := len(h.entries)
	if n == 0 {
		return 0, ErrEmptyHistory
	}
	e := h.entries[n-1]
	h.entries = h.entries[:n-1]
	return e, nil
}

// Peek returns the most recent record without removing it.
func (h *History) Peek() (HistoryEntry, bool) {
	if len(h.entries) == 0 {
		return 0, false
	}
	return h.entries[len(h.entries)-1], true
}

// At returns the i-th record, oldest first.
func (h *History) At(i int) HistoryEntry {
	return h.entries[i]
}

// Len returns the number of records.
func (h *History) Len() int {
	return len(h.entries)
}

// Clear drops all records.
func (h *History) Clear() {
	h.entries = h.entries[:0]
}

func (h *History) clone() History {
	if h.entries == nil {
		return History{}
	}
	return History{entries: append(make([]HistoryEntry, 0, cap(h.entries)), h.entries...)}
}
