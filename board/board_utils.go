package board

import (
	"fmt"
	"strings"
)

const cellWidth = 5

func displayCode(c Cell) string {
	if c.Kind == Empty {
		return "."
	}
	return c.Code()
}

// ToDisplayText renders the board as a grid with column and row labels.
func (b *Board) ToDisplayText() string {
	return b.render(func(x, y int) string {
		return displayCode(b.cells[y][x])
	})
}

// ToDisplayTextWithPath renders the board with the step number of every
// cell on the path in place of its code. The start cell is step 0.
func (b *Board) ToDisplayTextWithPath(path []Coord) string {
	steps := map[Coord]int{}
	for i, c := range path {
		steps[c] = i
	}
	return b.render(func(x, y int) string {
		if n, ok := steps[Coord{X: x, Y: y}]; ok {
			return fmt.Sprintf("%d", n)
		}
		return displayCode(b.cells[y][x])
	})
}

func (b *Board) render(label func(x, y int) string) string {
	var str strings.Builder
	str.WriteString("   ")
	for x := 0; x < Dim; x++ {
		str.WriteString(fmt.Sprintf("%-*d", cellWidth, x))
	}
	str.WriteString("\n")
	str.WriteString("  " + strings.Repeat("-", Dim*cellWidth+1) + "\n")
	for y := 0; y < Dim; y++ {
		str.WriteString(fmt.Sprintf("%d| ", y))
		for x := 0; x < Dim; x++ {
			str.WriteString(fmt.Sprintf("%-*s", cellWidth, label(x, y)))
		}
		str.WriteString("|\n")
	}
	str.WriteString("  " + strings.Repeat("-", Dim*cellWidth+1) + "\n")
	return "\n" + str.String()
}
