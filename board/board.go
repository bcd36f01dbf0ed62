package board

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cespare/xxhash"
)

// Dim is the width and height of every board. The visited-set packing in
// the search depends on Dim*Dim fitting in a uint64.
const Dim = 7

// NumCells is the number of cells on a board.
const NumCells = Dim * Dim

var (
	ErrNoPlayer        = errors.New("board has no player cell")
	ErrMultiplePlayers = errors.New("board has more than one player cell")
)

// A Coord is an (x, y) position; x is the column and y the row.
type Coord struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

// Index returns the row-major index of the coordinate, y*Dim + x.
func (c Coord) Index() int {
	return c.Y*Dim + c.X
}

// Valid returns whether the coordinate is on the board.
func (c Coord) Valid() bool {
	return c.X >= 0 && c.X < Dim && c.Y >= 0 && c.Y < Dim
}

// Add returns the coordinate offset by (dx, dy).
func (c Coord) Add(dx, dy int) Coord {
	return Coord{X: c.X + dx, Y: c.Y + dy}
}

func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// CoordFromIndex is the inverse of Coord.Index.
func CoordFromIndex(idx int) Coord {
	return Coord{X: idx % Dim, Y: idx / Dim}
}

// Board is a parsed 7x7 grid. It is never modified after construction.
type Board struct {
	name   string
	cells  [Dim][Dim]Cell
	start  Coord
	bossHP []int
}

// New builds a board from a grid of cells, indexed [y][x]. It finds the
// player's start and derives the initial boss-hp vector from the boss
// cells' indices. Boss indices are expected to be dense; gaps are filled
// with already-defeated (0 hp) entries.
func New(name string, cells [Dim][Dim]Cell) (*Board, error) {
	b := &Board{name: name, cells: cells}
	foundPlayer := false
	maxBoss := -1
	for y := 0; y < Dim; y++ {
		for x := 0; x < Dim; x++ {
			c := cells[y][x]
			switch c.Kind {
			case Player:
				if foundPlayer {
					return nil, ErrMultiplePlayers
				}
				foundPlayer = true
				b.start = Coord{X: x, Y: y}
			case Boss:
				if c.BossIndex < 0 {
					return nil, fmt.Errorf("boss at %v has no index", Coord{X: x, Y: y})
				}
				if c.BossIndex > maxBoss {
					maxBoss = c.BossIndex
				}
			}
		}
	}
	if !foundPlayer {
		return nil, ErrNoPlayer
	}
	b.bossHP = make([]int, maxBoss+1)
	seen := make([]bool, maxBoss+1)
	for y := 0; y < Dim; y++ {
		for x := 0; x < Dim; x++ {
			c := cells[y][x]
			if c.Kind != Boss || seen[c.BossIndex] {
				continue
			}
			// The first cell seen for an index sets its hp.
			seen[c.BossIndex] = true
			b.bossHP[c.BossIndex] = c.Power
		}
	}
	return b, nil
}

func (b *Board) Name() string {
	return b.name
}

func (b *Board) SetName(name string) {
	b.name = name
}

// At returns the cell at c. c must be valid.
func (b *Board) At(c Coord) Cell {
	return b.cells[c.Y][c.X]
}

// Start returns the player's starting coordinate.
func (b *Board) Start() Coord {
	return b.start
}

// NumBosses returns the length of the boss-hp vector.
func (b *Board) NumBosses() int {
	return len(b.bossHP)
}

// InitialBossHP returns a fresh copy of the initial boss-hp vector.
func (b *Board) InitialBossHP() []int {
	hp := make([]int, len(b.bossHP))
	copy(hp, b.bossHP)
	return hp
}

// String returns the board in its text form: rows separated by slashes,
// cells by commas. ParseText(b.String()) yields an equivalent board.
func (b *Board) String() string {
	var sb strings.Builder
	for y := 0; y < Dim; y++ {
		if y > 0 {
			sb.WriteByte('/')
		}
		for x := 0; x < Dim; x++ {
			if x > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(b.cells[y][x].Code())
		}
	}
	return sb.String()
}

// Fingerprint identifies the layout of a board, independent of its name.
func (b *Board) Fingerprint() uint64 {
	return xxhash.Sum64String(b.String())
}
