package search

import (
	"github.com/domino14/kouma/board"
)

// directions are the eight king moves, in the order successors are
// generated.
var directions = [8][2]int{
	{-1, -1}, {0, -1}, {1, -1},
	{-1, 0}, {1, 0},
	{-1, 1}, {0, 1}, {1, 1},
}

// Transition computes the state reached by stepping from s onto cell c at
// coordinate to. It returns false if the step is illegal. The checks, in
// order: to was already visited; c is an obstacle; c is a monster or
// treasure and s is locked to a different color; c is a treasure or boss
// and s does not have enough attack.
func Transition(s *State, c board.Cell, to board.Coord) (*State, bool) {
	if s.HasVisited(to) {
		return nil, false
	}
	attack := s.Attack
	lock := s.Lock
	hp := s.BossHP
	hpKey := s.hpKey
	killed := s.BossKilled

	switch c.Kind {
	case board.Obstacle:
		return nil, false

	case board.Monster:
		if lock != board.NoColor && lock != c.Color {
			return nil, false
		}
		lock = c.Color
		attack++

	case board.Treasure:
		if lock != board.NoColor && lock != c.Color {
			return nil, false
		}
		if attack < c.Power {
			return nil, false
		}
		lock = c.Color
		attack = attack - c.Power + 1

	case board.Boss:
		if attack < c.Power {
			return nil, false
		}
		attack = attack - c.Power + 1
		lock = board.NoColor
		if hp[c.BossIndex] > 0 {
			// copy-on-write; siblings keep the old vector.
			hp = make([]int, len(s.BossHP))
			copy(hp, s.BossHP)
			hp[c.BossIndex] = 0
			hpKey = packBossHP(hp)
			killed++
		}

	case board.Crystal:
		attack++
		lock = board.NoColor

	default:
		// Empty, and the player's own cell, which is always visited.
		attack++
	}

	path := make([]board.Coord, len(s.Path)+1)
	copy(path, s.Path)
	path[len(s.Path)] = to

	return &State{
		Pos:        to,
		Attack:     attack,
		Lock:       lock,
		BossHP:     hp,
		Visited:    s.Visited | bit(to),
		Path:       path,
		BossKilled: killed,
		hpKey:      hpKey,
	}, true
}

// successor returns the state reached from s in direction dir (an index
// into directions), or false if that step is off the board or illegal.
func successor(b *board.Board, s *State, dir int) (*State, bool) {
	to := s.Pos.Add(directions[dir][0], directions[dir][1])
	if !to.Valid() {
		return nil, false
	}
	return Transition(s, b.At(to), to)
}

// Successors returns every legal successor of s, in direction order.
func Successors(b *board.Board, s *State) []*State {
	var out []*State
	for dir := range directions {
		if ns, ok := successor(b, s, dir); ok {
			out = append(out, ns)
		}
	}
	return out
}
