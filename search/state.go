package search

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/domino14/kouma/board"
)

// State is one node of the search: a path from the start cell and the
// resources accumulated along it. States are never modified after they
// are created; Transition always builds a new one. BossHP may be shared
// between a state and its successors, so it must be treated as read-only.
type State struct {
	Pos        board.Coord
	Attack     int
	Lock       board.Color
	BossHP     []int
	Visited    uint64
	Path       []board.Coord
	BossKilled int

	// hpKey is BossHP packed into a string, for use in memo keys. It is
	// recomputed only when BossHP changes.
	hpKey string
}

func bit(c board.Coord) uint64 {
	return 1 << uint(c.Index())
}

func packBossHP(hp []int) string {
	buf := make([]byte, 0, len(hp)*2)
	for _, v := range hp {
		buf = binary.AppendUvarint(buf, uint64(v))
	}
	return string(buf)
}

// NewRootState returns the state every search starts from: the player's
// cell, no attack, no lock and the board's initial boss hp.
func NewRootState(b *board.Board) *State {
	start := b.Start()
	hp := b.InitialBossHP()
	return &State{
		Pos:     start,
		BossHP:  hp,
		Visited: bit(start),
		Path:    []board.Coord{start},
		hpKey:   packBossHP(hp),
	}
}

// Moves returns the number of steps taken.
func (s *State) Moves() int {
	return len(s.Path) - 1
}

// HasVisited returns whether c is on the path.
func (s *State) HasVisited(c board.Coord) bool {
	return s.Visited&bit(c) != 0
}

// PathString returns the path as a space-separated list of coordinates.
func (s *State) PathString() string {
	return strings.Join(lo.Map(s.Path, func(c board.Coord, _ int) string {
		return c.String()
	}), " ")
}

func (s *State) String() string {
	return fmt.Sprintf("<killed %d moves %d attack %d lock %v hp %v>",
		s.BossKilled, s.Moves(), s.Attack, s.Lock, s.BossHP)
}
