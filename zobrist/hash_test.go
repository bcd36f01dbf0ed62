package zobrist

import (
	"testing"

	"github.com/matryer/is"

	"github.com/domino14/kouma/board"
)

func TestHashIsDeterministic(t *testing.T) {
	is := is.New(t)
	z1 := &Zobrist{}
	z1.Initialize(42)
	z2 := &Zobrist{}
	z2.Initialize(42)

	mask := uint64(1<<0 | 1<<8 | 1<<48)
	is.Equal(z1.Hash(mask), z2.Hash(mask))
	is.Equal(z1.posTable, z2.posTable)
}

func TestDifferentSeedsDiffer(t *testing.T) {
	is := is.New(t)
	z1 := &Zobrist{}
	z1.Initialize(1)
	z2 := &Zobrist{}
	z2.Initialize(2)
	is.True(z1.posTable != z2.posTable)
}

func TestTableHasNoZeroes(t *testing.T) {
	is := is.New(t)
	z := &Zobrist{}
	z.Initialize(DefaultSeed)
	for i := range z.posTable {
		is.True(z.posTable[i] != 0)
	}
}

func TestHashOfEmptyMask(t *testing.T) {
	is := is.New(t)
	is.Equal(Default().Hash(0), uint64(0))
}

func TestHashIsXorOfDisjointMasks(t *testing.T) {
	is := is.New(t)
	z := Default()
	a := uint64(0b1011) << 10
	b := uint64(0b110001) << 30
	is.Equal(z.Hash(a|b), z.Hash(a)^z.Hash(b))
}

func TestToggleMatchesHash(t *testing.T) {
	is := is.New(t)
	z := Default()
	mask := uint64(0)
	key := uint64(0)
	path := []board.Coord{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 1}, {X: 6, Y: 6}}
	for _, c := range path {
		mask |= 1 << uint(c.Index())
		key = z.Toggle(key, c.Index())
		is.Equal(key, z.Hash(mask))
	}
	// Untoggling returns to the empty hash.
	for _, c := range path {
		key = z.Toggle(key, c.Index())
	}
	is.Equal(key, uint64(0))
}

func TestDefaultIsShared(t *testing.T) {
	is := is.New(t)
	is.True(Default() == Default())
	is.Equal(Default().Seed(), DefaultSeed)
}
