// Package uci speaks a subset of the Universal Chess Interface protocol on
// top of the move generator. Searches are replaced by a uniformly random
// legal move.
package uci

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/hailam/chesscore/internal/board"
	"github.com/hailam/chesscore/internal/game"
	"github.com/hailam/chesscore/internal/perft"
)

const (
	engineName   = "chesscore"
	engineAuthor = "chesscore authors"
)

// UCI implements the Universal Chess Interface protocol.
type UCI struct {
	board   *board.Board
	chooser game.Chooser

	out    io.Writer
	errOut io.Writer
}

// Option configures a UCI handler.
type Option func(*UCI)

// WithSeed fixes the random move choice.
func WithSeed(seed uint64) Option {
	return func(u *UCI) { u.chooser = game.NewRandomChooser(seed) }
}

// WithChooser replaces the random move choice.
func WithChooser(c game.Chooser) Option {
	return func(u *UCI) { u.chooser = c }
}

// WithErrorOutput sets where diagnostics ("info string" lines) are written.
func WithErrorOutput(w io.Writer) Option {
	return func(u *UCI) { u.errOut = w }
}

// New creates a new UCI protocol handler writing replies to out.
func New(out io.Writer, opts ...Option) *UCI {
	u := &UCI{
		board:   board.StartPosition(),
		chooser: game.NewRandomChooser(uint64(time.Now().UnixNano())),
		out:     out,
		errOut:  io.Discard,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Board returns the current position.
func (u *UCI) Board() *board.Board { return u.board }

// Run reads commands from in until "quit", end of input or ctx is done.
func (u *UCI) Run(ctx context.Context, in io.Reader) error {
	scanner := bufio.NewScanner(in)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if !u.Handle(line) {
			return nil
		}
	}
	return scanner.Err()
}

// Handle executes one command line and reports whether the session goes on.
func (u *UCI) Handle(line string) bool {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return true
	}
	cmd := parts[0]
	args := parts[1:]

	switch cmd {
	case "uci":
		u.handleUCI()
	case "isready":
		fmt.Fprintln(u.out, "readyok")
	case "ucinewgame":
		u.board = board.StartPosition()
	case "position":
		if board.DebugMoveValidation {
			u.info("DEBUG: position %s", strings.Join(args, " "))
		}
		u.handlePosition(args)
	case "go":
		u.handleGo()
	case "stop":
		// Moves are chosen immediately, nothing to stop.
	case "setoption":
		u.handleSetOption(args)
	case "quit":
		return false
	// Debug commands
	case "d":
		fmt.Fprintln(u.out, u.board.String())
	case "perft":
		u.handlePerft(args)
	default:
		u.info("Unknown command: %s", cmd)
	}
	return true
}

func (u *UCI) info(format string, args ...any) {
	fmt.Fprintf(u.errOut, "info string "+format+"\n", args...)
}

// handleUCI responds to the "uci" command.
func (u *UCI) handleUCI() {
	fmt.Fprintf(u.out, "id name %s\n", engineName)
	fmt.Fprintf(u.out, "id author %s\n", engineAuthor)
	fmt.Fprintln(u.out)
	fmt.Fprintln(u.out, "option name Seed type string default <random>")
	fmt.Fprintln(u.out, "option name Debug type check default false")
	fmt.Fprintln(u.out, "uciok")
}

// handlePosition parses and sets up a position.
// Formats:
//   - position startpos
//   - position startpos moves e2e4 e7e5
//   - position fen <fen>
//   - position fen <fen> moves e2e4
//
// On any error the previous position is kept.
func (u *UCI) handlePosition(args []string) {
	if len(args) == 0 {
		return
	}

	movesAt := len(args)
	for i, arg := range args {
		if arg == "moves" {
			movesAt = i
			break
		}
	}

	var b *board.Board
	switch args[0] {
	case "startpos":
		b = board.StartPosition()
	case "fen":
		pos, err := board.ParseFEN(strings.Join(args[1:movesAt], " "))
		if err != nil {
			u.info("Invalid FEN: %v", err)
			return
		}
		b = pos
	default:
		return
	}

	if movesAt < len(args) {
		for _, moveStr := range args[movesAt+1:] {
			move, err := u.legalMove(b, moveStr)
			if err != nil {
				u.info("Invalid move: %v", err)
				return
			}
			b.MakeMove(move)
		}
	}
	u.board = b

	if board.DebugMoveValidation {
		u.info("DEBUG: After position setup - hash=%016x inCheck=%v fen=%s",
			b.Hash(), b.InCheck(), b.FEN())
	}
}

// legalMove resolves a coordinate move against the legal moves of b.
func (u *UCI) legalMove(b *board.Board, s string) (board.Move, error) {
	m, err := b.ParseMove(s)
	if err != nil {
		return board.NoMove, err
	}
	legal := b.GenerateLegalMoves().Find(m.From(), m.To(), m.Promotion())
	if legal != m {
		return board.NoMove, fmt.Errorf("%w: %s is not legal", board.ErrUnknownMove, s)
	}
	return legal, nil
}

// handleGo answers with a random legal move, or 0000 when there is none.
func (u *UCI) handleGo() {
	moves := u.board.GenerateLegalMoves()
	if moves.Len() == 0 {
		fmt.Fprintln(u.out, "bestmove 0000")
		return
	}

	best := u.chooser.Choose(u.board, moves.Moves())
	if best.IsError() || moves.Find(best.From(), best.To(), best.Promotion()) != best {
		u.info("CRITICAL: chooser returned illegal move %s", best)
		best = moves.Get(0)
	}
	fmt.Fprintf(u.out, "bestmove %s\n", best)
}

// handleSetOption processes "setoption" commands.
func (u *UCI) handleSetOption(args []string) {
	// Format: setoption name <name> value <value>
	var name, value string
	readingName := false
	readingValue := false

	for _, arg := range args {
		switch arg {
		case "name":
			readingName = true
			readingValue = false
		case "value":
			readingName = false
			readingValue = true
		default:
			if readingName {
				if name != "" {
					name += " "
				}
				name += arg
			} else if readingValue {
				if value != "" {
					value += " "
				}
				value += arg
			}
		}
	}

	switch strings.ToLower(name) {
	case "seed":
		seed, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			u.info("Invalid Seed value: %q", value)
			return
		}
		u.chooser = game.NewRandomChooser(seed)
	case "debug":
		enabled := strings.ToLower(value) == "true"
		board.DebugMoveValidation = enabled
		if enabled {
			u.info("Debug mode enabled")
		}
	default:
		u.info("Unknown option: %s", name)
	}
}

// handlePerft prints the node count below each root move and the total.
func (u *UCI) handlePerft(args []string) {
	depth := 5
	if len(args) > 0 {
		d, err := strconv.Atoi(args[0])
		if err != nil || d < 1 {
			u.info("Invalid perft depth: %q", args[0])
			return
		}
		depth = d
	}

	start := time.Now()
	var nodes uint64
	for _, rc := range perft.Divide(u.board, depth) {
		fmt.Fprintf(u.out, "%s: %d\n", rc.Move, rc.Nodes)
		nodes += rc.Nodes
	}
	elapsed := time.Since(start)

	fmt.Fprintln(u.out)
	fmt.Fprintf(u.out, "Nodes: %d\n", nodes)
	fmt.Fprintf(u.out, "Time: %v\n", elapsed)
	if elapsed > 0 {
		nps := float64(nodes) / elapsed.Seconds()
		fmt.Fprintf(u.out, "NPS: %.0f\n", nps)
	}
}
