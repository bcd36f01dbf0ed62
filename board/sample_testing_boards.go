package board

import (
	"fmt"
	"sort"
)

// Sample boards in text form. The fenced boards only leave the top-left
// 3x3 corner open so that an exhaustive search can finish on them.
const (
	FencedEmpty = "P,,,X,X,X,X/,,,X,X,X,X/,,,X,X,X,X/" + fencedRow + "/" + fencedRow + "/" + fencedRow + "/" + fencedRow

	FencedBoss = "P,,,X,X,X,X/,B1,,X,X,X,X/,,,X,X,X,X/" + fencedRow + "/" + fencedRow + "/" + fencedRow + "/" + fencedRow

	FencedMixed = "P,R,T_R2,X,X,X,X/G,B1,R,X,X,X,X/C,B2,T_G1,X,X,X,X/" + fencedRow + "/" + fencedRow + "/" + fencedRow + "/" + fencedRow

	FencedTwoColors = "P,Y,B1,X,X,X,X/Y,G,T_Y2,X,X,X,X/B3,C,G,X,X,X,X/" + fencedRow + "/" + fencedRow + "/" + fencedRow + "/" + fencedRow

	// OpenBoss is an empty board with a single 1-hp boss diagonal to the
	// player.
	OpenBoss = "P,,,,,,/,B1,,,,,/,,,,,,/,,,,,,/,,,,,,/,,,,,,/,,,,,,"

	// ColorLock has a red monster and a blue treasure next to the player,
	// with a crystal below the monster.
	ColorLock = "P,R,T_B1,,,,/,C,,,,,/,,,,,,/,,,,,,/,,,,,,/,,,,,,/,,,,,,"

	Arena = "P,,R,R,X,,B2/,X,,T_R2,X,,/G,G,,C,,Y,/X,T_G3,,B3,,Y,T_Y2/,,X,,X,,/B,B,,C,,R,/T_B2,,,X,,,B5"
)

const fencedRow = "X,X,X,X,X,X,X"

var sampleBoards = map[string]string{
	"fenced-empty":      FencedEmpty,
	"fenced-boss":       FencedBoss,
	"fenced-mixed":      FencedMixed,
	"fenced-two-colors": FencedTwoColors,
	"open-boss":         OpenBoss,
	"color-lock":        ColorLock,
	"arena":             Arena,
}

// SampleBoard returns one of the named sample boards.
func SampleBoard(name string) (*Board, error) {
	text, ok := sampleBoards[name]
	if !ok {
		return nil, fmt.Errorf("no sample board named %v", name)
	}
	b, err := ParseText(text)
	if err != nil {
		return nil, err
	}
	b.SetName(name)
	return b, nil
}

// SampleBoardNames returns the names SampleBoard accepts, sorted.
func SampleBoardNames() []string {
	names := make([]string, 0, len(sampleBoards))
	for name := range sampleBoards {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
