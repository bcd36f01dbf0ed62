package board

import (
	"fmt"
	"strconv"
)

// Kind is the type of a single cell on the board.
type Kind uint8

const (
	Empty Kind = iota
	Obstacle
	Player
	Monster
	Treasure
	Boss
	Crystal
)

func (k Kind) String() string {
	switch k {
	case Empty:
		return "empty"
	case Obstacle:
		return "obstacle"
	case Player:
		return "player"
	case Monster:
		return "monster"
	case Treasure:
		return "treasure"
	case Boss:
		return "boss"
	case Crystal:
		return "crystal"
	}
	return "unknown"
}

// Color is the color family of a monster or treasure. NoColor doubles as
// the "unlocked" state of a search.
type Color uint8

const (
	NoColor Color = iota
	Red
	Green
	Blue
	Yellow
)

// ColorFromByte returns the color for one of the letters R, G, B, Y.
func ColorFromByte(c byte) (Color, bool) {
	switch c {
	case 'R':
		return Red, true
	case 'G':
		return Green, true
	case 'B':
		return Blue, true
	case 'Y':
		return Yellow, true
	}
	return NoColor, false
}

func (c Color) String() string {
	switch c {
	case Red:
		return "R"
	case Green:
		return "G"
	case Blue:
		return "B"
	case Yellow:
		return "Y"
	}
	return "-"
}

// A Cell is a single, immutable square of the board. Power is the attack
// needed to clear a treasure or a boss; it is zero for every other kind.
// BossIndex addresses the boss-hp vector and is -1 for non-boss cells.
type Cell struct {
	Kind      Kind
	Color     Color
	Power     int
	BossIndex int
}

// NewCell is a helper for building boards by hand.
func NewCell(k Kind, c Color, power int) Cell {
	return Cell{Kind: k, Color: c, Power: power, BossIndex: -1}
}

// Code returns the short code of the cell. It is the inverse of parseCell,
// except that the power of treasures and bosses is always written out.
func (c Cell) Code() string {
	switch c.Kind {
	case Obstacle:
		return "X"
	case Player:
		return "P"
	case Monster:
		return c.Color.String()
	case Treasure:
		return "T_" + c.Color.String() + strconv.Itoa(c.Power)
	case Boss:
		return "B" + strconv.Itoa(c.Power)
	case Crystal:
		return "C"
	}
	return ""
}

func (c Cell) String() string {
	if c.Kind == Boss {
		return fmt.Sprintf("<%v #%d hp %d>", c.Kind, c.BossIndex, c.Power)
	}
	return fmt.Sprintf("<%v %v %d>", c.Kind, c.Color, c.Power)
}
