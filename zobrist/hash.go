package zobrist

import (
	"encoding/binary"
	"math/bits"
	"sync"

	"lukechampine.com/frand"

	"github.com/domino14/kouma/board"
)

const bignum = 1<<63 - 2

// DefaultSeed seeds the table returned by Default.
const DefaultSeed uint64 = 0

// Zobrist hashes a visited-cell bitmask.
// https://en.wikipedia.org/wiki/Zobrist_hashing
//
// The per-cell table is generated from a seed with a deterministic ChaCha
// stream, so every process (and every worker) built from the same seed
// produces identical hashes. Collisions are possible and are not detected.
type Zobrist struct {
	seed     uint64
	posTable [board.NumCells]uint64
}

var (
	defaultOnce    sync.Once
	defaultZobrist *Zobrist
)

// Default returns a shared table built from DefaultSeed. The table is
// read-only once built and safe to share between searches.
func Default() *Zobrist {
	defaultOnce.Do(func() {
		defaultZobrist = &Zobrist{}
		defaultZobrist.Initialize(DefaultSeed)
	})
	return defaultZobrist
}

// Initialize fills the table from the given seed.
func (z *Zobrist) Initialize(seed uint64) {
	z.seed = seed
	key := make([]byte, 32)
	binary.LittleEndian.PutUint64(key, seed)
	rng := frand.NewCustom(key, 1024, 12)
	for i := range z.posTable {
		// never zero, or the cell would not change the hash.
		z.posTable[i] = rng.Uint64n(bignum) + 1
	}
}

func (z *Zobrist) Seed() uint64 {
	return z.seed
}

// Hash XORs together the table entries of every set bit in mask. Bit i
// stands for the cell with row-major index i.
func (z *Zobrist) Hash(mask uint64) uint64 {
	key := uint64(0)
	for mask != 0 {
		i := bits.TrailingZeros64(mask)
		key ^= z.posTable[i]
		mask &= mask - 1
	}
	return key
}

// Toggle adds or removes the cell with index idx from an existing hash.
func (z *Zobrist) Toggle(key uint64, idx int) uint64 {
	return key ^ z.posTable[idx]
}
