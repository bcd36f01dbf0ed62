package search

import (
	"github.com/pbnjay/memory"
	"github.com/rs/zerolog/log"

	"github.com/domino14/kouma/board"
	"github.com/domino14/kouma/zobrist"
)

// memoEntrySize is a rough per-entry cost of the memo map: key, value
// and map overhead.
const memoEntrySize = 96

// maxMemoPrealloc caps how many entries are allocated up front, however
// large the budget is.
const maxMemoPrealloc = 1 << 22

type memoKey struct {
	pos         int8
	lock        board.Color
	bossHP      string
	visitedHash uint64
}

type memoRecord struct {
	attack     int
	bossKilled int
}

// memoTable remembers, for every (position, lock, boss hp, visited) key,
// the best attack and kill count it has been reached with. The visited set
// is represented by its zobrist hash.
type memoTable struct {
	entries map[memoKey]memoRecord
	zobrist *zobrist.Zobrist

	lookups uint64
	pruned  uint64
}

// memoCapacity returns how many entries to preallocate for a search with
// the given budget, bounded by a fraction of system memory.
func memoCapacity(budget int, fractionOfMemory float64) int {
	totalMem := memory.TotalMemory()
	byMemory := int(fractionOfMemory * float64(totalMem) / memoEntrySize)
	n := min(budget, byMemory, maxMemoPrealloc)
	if n < 0 {
		n = 0
	}
	log.Debug().Int("budget", budget).Int("memory-bound", byMemory).
		Uint64("total-system-memory-bytes", totalMem).
		Int("prealloc", n).Msg("memo-capacity")
	return n
}

func newMemoTable(z *zobrist.Zobrist, capacity int) *memoTable {
	return &memoTable{
		entries: make(map[memoKey]memoRecord, capacity),
		zobrist: z,
	}
}

func (m *memoTable) key(s *State) memoKey {
	return memoKey{
		pos:         int8(s.Pos.Index()),
		lock:        s.Lock,
		bossHP:      s.hpKey,
		visitedHash: m.zobrist.Hash(s.Visited),
	}
}

// admit decides whether s should be expanded. If a state with the same key
// was already recorded with at least as much attack and at least as many
// kills, s is dominated and admit returns false. Otherwise s's values
// overwrite the record and admit returns true.
func (m *memoTable) admit(s *State) bool {
	k := m.key(s)
	m.lookups++
	if prev, ok := m.entries[k]; ok {
		if prev.attack >= s.Attack && prev.bossKilled >= s.BossKilled {
			m.pruned++
			return false
		}
	}
	m.entries[k] = memoRecord{attack: s.Attack, bossKilled: s.BossKilled}
	return true
}

func (m *memoTable) size() int {
	return len(m.entries)
}
