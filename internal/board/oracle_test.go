package board

import (
	"math/rand/v2"
	"slices"
	"strings"
	"testing"

	"github.com/dylhunn/dragontoothmg"
)

// referenceMoves lists the legal moves dragontoothmg finds for fen.
func referenceMoves(fen string) []string {
	ref := dragontoothmg.ParseFen(fen)
	moves := ref.GenerateLegalMoves()
	out := make([]string, len(moves))
	for i := range moves {
		out[i] = strings.ToLower(moves[i].String())
	}
	slices.Sort(out)
	return out
}

func compareWithReference(t *testing.T, b *Board, ml *MoveList) {
	t.Helper()
	fen := b.FEN()
	got := moveStrings(ml)
	want := referenceMoves(fen)
	if !slices.Equal(got, want) {
		t.Fatalf("%s:\n got  %v\n want %v", fen, got, want)
	}
}

func TestMovesMatchReference(t *testing.T) {
	depth := 2
	if testing.Short() {
		depth = 1
	}
	for _, fen := range suiteFENs {
		walk(mustParseFEN(t, fen), depth, func(b *Board, g *Generator, ml *MoveList) {
			compareWithReference(t, b, ml)
		})
	}
}

func TestRandomGamesMatchReference(t *testing.T) {
	games := 50
	if testing.Short() {
		games = 5
	}
	rng := rand.New(rand.NewPCG(7, 11))

	for i := 0; i < games; i++ {
		b := StartPosition()
		for ply := 0; ply < 200; ply++ {
			ml := b.GenerateLegalMoves()
			compareWithReference(t, b, ml)
			if ml.Len() == 0 || b.IsFiftyMoveDraw() {
				break
			}
			b.MakeMove(ml.Get(rng.IntN(ml.Len())))
		}
	}
}
