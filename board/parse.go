package board

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

var (
	ErrWrongRowCount    = fmt.Errorf("board must have exactly %d rows", Dim)
	ErrWrongColumnCount = fmt.Errorf("every row must have exactly %d cells", Dim)
)

// parseCell interprets one short code. bossCounter holds the next boss
// index to hand out and is advanced for every boss code. Unknown codes
// are empty cells.
//
//	P        player
//	R G B Y  monster of that color
//	T_<c>[n] treasure of color c, power n (default 1)
//	B[n]     boss with n hp (default 1)
//	C        crystal
//	X        obstacle
//
// A lone "B" is a blue monster; the monster codes are matched first.
func parseCell(s string, bossCounter *int) (Cell, error) {
	s = strings.TrimSpace(s)
	if s == "P" {
		return NewCell(Player, NoColor, 0), nil
	}
	if len(s) == 1 {
		if color, ok := ColorFromByte(s[0]); ok {
			return NewCell(Monster, color, 0), nil
		}
	}
	switch {
	case strings.HasPrefix(s, "T_"):
		if len(s) < 3 {
			return Cell{}, fmt.Errorf("treasure %q has no color", s)
		}
		color, ok := ColorFromByte(s[2])
		if !ok {
			return Cell{}, fmt.Errorf("treasure %q has an unknown color", s)
		}
		power, err := parsePower(s[3:])
		if err != nil {
			return Cell{}, fmt.Errorf("treasure %q: %w", s, err)
		}
		return NewCell(Treasure, color, power), nil
	case strings.HasPrefix(s, "B"):
		power, err := parsePower(s[1:])
		if err != nil {
			return Cell{}, fmt.Errorf("boss %q: %w", s, err)
		}
		c := NewCell(Boss, NoColor, power)
		c.BossIndex = *bossCounter
		*bossCounter++
		return c, nil
	case s == "C":
		return NewCell(Crystal, NoColor, 0), nil
	case s == "X":
		return NewCell(Obstacle, NoColor, 0), nil
	}
	return NewCell(Empty, NoColor, 0), nil
}

func parsePower(s string) (int, error) {
	if s == "" {
		return 1, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, errors.New("power cannot be negative")
	}
	return n, nil
}

// ParseRows builds a board from a grid of short codes, rows first. Boss
// indices are assigned in row-major scan order.
func ParseRows(name string, rows [][]string) (*Board, error) {
	if len(rows) != Dim {
		return nil, ErrWrongRowCount
	}
	var cells [Dim][Dim]Cell
	bossCounter := 0
	for y, row := range rows {
		if len(row) != Dim {
			return nil, fmt.Errorf("row %d: %w", y, ErrWrongColumnCount)
		}
		for x, code := range row {
			c, err := parseCell(code, &bossCounter)
			if err != nil {
				return nil, fmt.Errorf("cell %v: %w", Coord{X: x, Y: y}, err)
			}
			cells[y][x] = c
		}
	}
	return New(name, cells)
}

// ParseText parses the text form of a board, e.g.
//
//	P,,R,,,,/,B2,,,,,/...
//
// with seven rows separated by slashes and seven comma-separated cells
// per row.
func ParseText(text string) (*Board, error) {
	text = strings.TrimSpace(text)
	lines := strings.Split(text, "/")
	rows := make([][]string, len(lines))
	for i, l := range lines {
		rows[i] = strings.Split(l, ",")
	}
	return ParseRows("", rows)
}

// boardFile is the on-disk layout of a board. Either Rows or Text must be
// given; Rows wins if both are.
type boardFile struct {
	Name string     `yaml:"name"`
	Rows [][]string `yaml:"rows,omitempty"`
	Text string     `yaml:"text,omitempty"`
}

// ParseYAML parses a board document.
func ParseYAML(data []byte) (*Board, error) {
	var bf boardFile
	if err := yaml.Unmarshal(data, &bf); err != nil {
		return nil, err
	}
	var b *Board
	var err error
	switch {
	case len(bf.Rows) > 0:
		b, err = ParseRows(bf.Name, bf.Rows)
	case bf.Text != "":
		b, err = ParseText(bf.Text)
	default:
		return nil, errors.New("board file has neither rows nor text")
	}
	if err != nil {
		return nil, err
	}
	b.SetName(bf.Name)
	return b, nil
}

// LoadFile reads a YAML board file. A file without a name gets its path as
// its name.
func LoadFile(path string) (*Board, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	b, err := ParseYAML(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if b.Name() == "" {
		b.SetName(path)
	}
	log.Debug().Str("path", path).Str("name", b.Name()).
		Int("bosses", b.NumBosses()).Msg("loaded-board")
	return b, nil
}
