package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime/pprof"
	"strconv"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/hailam/chesscore/internal/board"
	"github.com/hailam/chesscore/internal/game"
	"github.com/hailam/chesscore/internal/perft"
	"github.com/hailam/chesscore/internal/storage"
	"github.com/hailam/chesscore/internal/uci"
)

var (
	cpuprofile = flag.String("cpuprofile", "", "write cpu profile to file")
	fen        = flag.String("fen", board.StartFEN, "position for perft and random games")
	perftDepth = flag.Int("perft", 0, "run perft to the given depth")
	divide     = flag.Bool("divide", false, "print the node count below each root move")
	workers    = flag.Int("workers", envInt("CHESSCORE_WORKERS", 0), "parallel perft workers (0 = GOMAXPROCS)")
	useCache   = flag.Bool("cache", envBool("CHESSCORE_CACHE"), "keep perft results and playout tallies on disk")
	cacheDir   = flag.String("cachedir", "", "database directory (default under "+storage.DataDirEnv+" or the user data dir)")
	listCache  = flag.Bool("listcache", false, "print the stored perft results and exit")
	games      = flag.Int("games", 0, "play the given number of random games")
	seed       = flag.Uint64("seed", uint64(time.Now().UnixNano()), "seed for random move choice")
	maxPlies   = flag.Int("maxplies", 0, "ply cap per random game (0 = none)")
)

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		log.Printf("ignoring %s=%q: not a number", key, v)
	}
	return def
}

func envBool(key string) bool {
	b, _ := strconv.ParseBool(os.Getenv(key))
	return b
}

func main() {
	flag.Parse()

	// Start CPU profiling if requested (via flag or environment variable)
	profilePath := *cpuprofile
	if profilePath == "" {
		profilePath = os.Getenv("CPUPROFILE")
	}
	if profilePath != "" {
		f, err := os.Create(profilePath)
		if err != nil {
			log.Fatal("could not create CPU profile: ", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal("could not start CPU profile: ", err)
		}
		defer pprof.StopCPUProfile()
		log.Printf("CPU profiling enabled, writing to %s", profilePath)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx); err != nil {
		log.Printf("chesscore: %v", err)
		stop()
		pprof.StopCPUProfile()
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	if *perftDepth == 0 && *games == 0 && !*listCache {
		protocol := uci.New(os.Stdout, uci.WithSeed(*seed), uci.WithErrorOutput(os.Stderr))
		return protocol.Run(ctx, os.Stdin)
	}

	b, err := board.ParseFEN(*fen)
	if err != nil {
		return err
	}

	var store *storage.Storage
	if *useCache || *listCache {
		store, err = openCache()
		if err != nil {
			return fmt.Errorf("open cache: %w", err)
		}
		defer store.Close()
	}

	p := message.NewPrinter(language.English)

	if *listCache {
		return printCache(p, store)
	}

	if *perftDepth > 0 {
		if err := runPerft(ctx, p, b, store); err != nil {
			return err
		}
	}
	if *games > 0 {
		if err := runGames(ctx, p, b, store); err != nil {
			return err
		}
	}
	return nil
}

func openCache() (*storage.Storage, error) {
	var (
		store *storage.Storage
		err   error
	)
	if *cacheDir != "" {
		store, err = storage.Open(*cacheDir)
	} else {
		store, err = storage.NewStorage()
	}
	if err != nil {
		return nil, err
	}

	first, err := store.IsFirstLaunch()
	if err != nil {
		store.Close()
		return nil, err
	}
	if first {
		log.Printf("created a new cache database")
		if err := store.MarkFirstLaunchComplete(); err != nil {
			store.Close()
			return nil, err
		}
	}
	return store, nil
}

func printCache(p *message.Printer, store *storage.Storage) error {
	records, err := store.PerftRecords()
	if err != nil {
		return err
	}
	for _, rec := range records {
		p.Printf("depth %d  %15d nodes  %s  (%s)\n", rec.Depth, rec.Stats.Nodes, rec.FEN, rec.Saved.Format(time.DateTime))
	}
	p.Printf("%d perft results\n", len(records))
	return nil
}

func runPerft(ctx context.Context, p *message.Printer, b *board.Board, store *storage.Storage) error {
	depth := *perftDepth

	if *divide {
		for _, rc := range perft.Divide(b, depth) {
			p.Printf("%s: %d\n", rc.Move, rc.Nodes)
		}
		fmt.Println()
	}

	start := time.Now()
	var (
		stats perft.Stats
		hit   bool
		err   error
	)
	if store != nil {
		stats, hit, err = perft.Cached(ctx, store, b, depth, *workers)
	} else {
		stats, err = perft.Parallel(ctx, b, depth, *workers)
	}
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	nps := 0
	if elapsed > 0 {
		nps = int(float64(stats.Nodes) / elapsed.Seconds())
	}
	p.Printf("Depth %d: %d nodes in %v (%d nps)\n", depth, stats.Nodes, elapsed.Round(time.Millisecond), nps)
	if hit {
		fmt.Println("(from cache)")
	}
	p.Printf("captures=%d enpassant=%d castles=%d promotions=%d checks=%d\n",
		stats.Captures, stats.EnPassant, stats.Castles, stats.Promotions, stats.Checks)
	return nil
}

func runGames(ctx context.Context, p *message.Printer, start *board.Board, store *storage.Storage) error {
	tally := storage.NewPlayoutStats()
	began := time.Now()

	for i := 0; i < *games; i++ {
		s := *seed + uint64(2*i)
		g := game.New(start.Copy(), game.NewRandomChooser(s), game.NewRandomChooser(s+1))
		res, err := g.Run(ctx, *maxPlies)
		if err != nil {
			return fmt.Errorf("game %d (seed %d): %w", i+1, s, err)
		}
		tally.Add(res)
		if store != nil {
			if err := store.RecordPlayout(res); err != nil {
				return err
			}
		}
	}

	p.Printf("%d games in %v, %.1f plies on average, longest %d\n",
		tally.Games, time.Since(began).Round(time.Millisecond), tally.AveragePlies(), tally.LongestGame)
	p.Printf("white %d, black %d, draws %d, unfinished %d\n",
		tally.WhiteWins, tally.BlackWins, tally.Draws, tally.Unfinished)
	for _, t := range game.Terminations {
		if n := tally.ByTermination[t.String()]; n > 0 {
			p.Printf("  %-22s %d\n", t.String(), n)
		}
	}

	if store != nil {
		total, err := store.LoadPlayoutStats()
		if err != nil {
			return err
		}
		p.Printf("stored total: %d games\n", total.Games)
	}
	return nil
}
