package storage

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/hailam/chesscore/internal/board"
	"github.com/hailam/chesscore/internal/game"
	"github.com/hailam/chesscore/internal/perft"
)

// Storage keys
const (
	keyPlayouts    = "playouts"
	prefixPerft    = "perft/"
	keyFirstLaunch = "first_launch"
)

// PerftRecord is a stored perft result.
type PerftRecord struct {
	FEN   string      `json:"fen"`
	Depth int         `json:"depth"`
	Stats perft.Stats `json:"stats"`
	Saved time.Time   `json:"saved"`
}

// PlayoutStats tallies finished random games.
type PlayoutStats struct {
	Games         int            `json:"games"`
	WhiteWins     int            `json:"white_wins"`
	BlackWins     int            `json:"black_wins"`
	Draws         int            `json:"draws"`
	Unfinished    int            `json:"unfinished"`
	ByTermination map[string]int `json:"by_termination"`
	TotalPlies    int            `json:"total_plies"`
	LongestGame   int            `json:"longest_game"`
}

// NewPlayoutStats returns empty tallies
func NewPlayoutStats() *PlayoutStats {
	return &PlayoutStats{
		ByTermination: make(map[string]int),
	}
}

// Add counts one result.
func (s *PlayoutStats) Add(r game.Result) {
	s.Games++
	s.TotalPlies += r.Plies
	s.LongestGame = max(s.LongestGame, r.Plies)
	s.ByTermination[r.Termination.String()]++

	switch {
	case r.Decisive() && r.Winner == board.White:
		s.WhiteWins++
	case r.Decisive():
		s.BlackWins++
	case r.Termination == game.PlyLimit || r.Termination == game.Ongoing:
		s.Unfinished++
	default:
		s.Draws++
	}
}

// AveragePlies returns the mean game length.
func (s *PlayoutStats) AveragePlies() float64 {
	if s.Games == 0 {
		return 0
	}
	return float64(s.TotalPlies) / float64(s.Games)
}

// Storage wraps BadgerDB for persistent storage
type Storage struct {
	db *badger.DB
}

var _ perft.Cache = (*Storage)(nil)

// NewStorage opens the database in the default data directory.
func NewStorage() (*Storage, error) {
	dbDir, err := GetDatabaseDir()
	if err != nil {
		return nil, err
	}
	return Open(dbDir)
}

// Open opens or creates the database in dir.
func Open(dir string) (*Storage, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil // Disable logging

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}

	return &Storage{db: db}, nil
}

// Close closes the database
func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// IsFirstLaunch returns true if the database has never been used before.
func (s *Storage) IsFirstLaunch() (bool, error) {
	var firstLaunch bool = true

	err := s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte(keyFirstLaunch))
		if errors.Is(err, badger.ErrKeyNotFound) {
			firstLaunch = true
			return nil
		}
		if err != nil {
			return err
		}
		firstLaunch = false
		return nil
	})

	return firstLaunch, err
}

// MarkFirstLaunchComplete marks that first launch setup is complete
func (s *Storage) MarkFirstLaunchComplete() error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyFirstLaunch), []byte("done"))
	})
}

// perftKey is the prefix followed by the big-endian position key and depth.
func perftKey(key uint64, depth int) []byte {
	k := make([]byte, len(prefixPerft)+9)
	copy(k, prefixPerft)
	binary.BigEndian.PutUint64(k[len(prefixPerft):], key)
	k[len(k)-1] = byte(depth)
	return k
}

// LoadPerftRecord returns the stored record for the position key at depth.
func (s *Storage) LoadPerftRecord(key uint64, depth int) (*PerftRecord, bool, error) {
	var rec *PerftRecord

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(perftKey(key, depth))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		rec = &PerftRecord{}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, rec)
		})
	})
	if err != nil {
		return nil, false, err
	}
	return rec, rec != nil, nil
}

// LoadPerft implements perft.Cache.
func (s *Storage) LoadPerft(key uint64, depth int) (perft.Stats, bool, error) {
	rec, ok, err := s.LoadPerftRecord(key, depth)
	if !ok || err != nil {
		return perft.Stats{}, false, err
	}
	return rec.Stats, true, nil
}

// SavePerft implements perft.Cache.
func (s *Storage) SavePerft(key uint64, depth int, fen string, stats perft.Stats) error {
	return s.SavePerftRecord(key, &PerftRecord{FEN: fen, Depth: depth, Stats: stats})
}

// SavePerftRecord stores rec under the position key.
func (s *Storage) SavePerftRecord(key uint64, rec *PerftRecord) error {
	rec.Saved = time.Now()

	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(perftKey(key, rec.Depth), data)
	})
}

// PerftRecords returns every stored perft record.
func (s *Storage) PerftRecords() ([]PerftRecord, error) {
	var records []PerftRecord

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(prefixPerft)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			var rec PerftRecord
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &rec)
			}); err != nil {
				return err
			}
			records = append(records, rec)
		}
		return nil
	})

	return records, err
}

// SavePlayoutStats saves the playout tallies
func (s *Storage) SavePlayoutStats(stats *PlayoutStats) error {
	data, err := json.Marshal(stats)
	if err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyPlayouts), data)
	})
}

// LoadPlayoutStats loads the playout tallies, returns empty tallies if not found
func (s *Storage) LoadPlayoutStats() (*PlayoutStats, error) {
	stats := NewPlayoutStats()

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyPlayouts))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil // Use empty stats
		}
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, stats)
		})
	})

	return stats, err
}

// RecordPlayout adds a finished game to the stored tallies.
func (s *Storage) RecordPlayout(result game.Result) error {
	stats, err := s.LoadPlayoutStats()
	if err != nil {
		return err
	}

	stats.Add(result)
	return s.SavePlayoutStats(stats)
}
