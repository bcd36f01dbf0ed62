package search

import (
	"sort"

	"github.com/rs/zerolog/log"
)

// beamSearch keeps at most beamWidth candidates per round. Every candidate
// taken from the frontier is offered to the best set; its successors are
// filtered through the memo table and the best beamWidth of the survivors,
// by frontierBetter, form the next frontier. The search ends when the
// frontier is empty or expansionBudget successors have been accepted.
func (s *Solver) beamSearch() {
	memo := newMemoTable(s.zobrist, memoCapacity(s.expansionBudget, s.memoMemoryFraction))
	frontier := []*State{NewRootState(s.board)}

	for len(frontier) > 0 && s.stats.Expansions < s.expansionBudget {
		s.stats.Rounds++
		layer := frontier[:min(len(frontier), s.beamWidth)]
		var next []*State

	layerLoop:
		for _, cand := range layer {
			s.stats.Steps++
			s.update(cand)
			for dir := range directions {
				ns, ok := successor(s.board, cand, dir)
				if !ok || !memo.admit(ns) {
					continue
				}
				next = append(next, ns)
				s.stats.Expansions++
				if s.stats.Expansions >= s.expansionBudget {
					break layerLoop
				}
			}
		}

		sort.SliceStable(next, func(i, j int) bool {
			return frontierBetter(next[i], next[j])
		})
		if len(next) > s.beamWidth {
			next = next[:s.beamWidth]
		}
		log.Debug().Int("round", s.stats.Rounds).Int("frontier", len(next)).
			Int("expansions", s.stats.Expansions).Msg("beam-round")
		frontier = next
	}

	s.stats.BudgetExhausted = s.stats.Expansions >= s.expansionBudget
	s.stats.MemoKeys = memo.size()
	s.stats.Pruned = int(memo.pruned)
	s.stats.NodesVisited = s.stats.Expansions
}
