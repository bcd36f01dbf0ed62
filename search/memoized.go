package search

// memoizedDFS walks the tree depth-first with an explicit stack, skipping
// states dominated by an earlier state with the same memo key. Successors
// are pushed in direction order, so the last direction is explored first.
func (s *Solver) memoizedDFS() {
	memo := newMemoTable(s.zobrist, memoCapacity(s.stepBudget, s.memoMemoryFraction))
	stack := []*State{NewRootState(s.board)}

	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack[len(stack)-1] = nil
		stack = stack[:len(stack)-1]

		if s.stats.Steps >= s.stepBudget {
			s.stats.BudgetExhausted = true
			break
		}
		s.stats.Steps++

		if !memo.admit(cur) {
			continue
		}
		s.update(cur)
		for dir := range directions {
			if ns, ok := successor(s.board, cur, dir); ok {
				stack = append(stack, ns)
				s.stats.Expansions++
			}
		}
	}

	s.stats.MemoKeys = memo.size()
	s.stats.Pruned = int(memo.pruned)
	s.stats.NodesVisited = memo.size()
}
