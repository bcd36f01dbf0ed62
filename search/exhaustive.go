package search

type dfsFrame struct {
	state   *State
	nextDir int
}

// exhaustiveDFS enters every legal path in pre-order, children in
// direction order, until it has entered nodeBudget nodes. Every entered
// node is offered to the best set. There is no memo and no pruning. The
// recursion is unrolled onto an explicit stack of frames, each holding the
// next direction to try.
func (s *Solver) exhaustiveDFS() {
	enter := func(st *State) bool {
		if s.stats.Steps >= s.nodeBudget {
			s.stats.BudgetExhausted = true
			return false
		}
		s.stats.Steps++
		s.update(st)
		return true
	}

	root := NewRootState(s.board)
	if !enter(root) {
		return
	}
	stack := []dfsFrame{{state: root}}

	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if top.nextDir == len(directions) {
			stack[len(stack)-1] = dfsFrame{}
			stack = stack[:len(stack)-1]
			continue
		}
		dir := top.nextDir
		top.nextDir++
		ns, ok := successor(s.board, top.state, dir)
		if !ok {
			continue
		}
		s.stats.Expansions++
		if !enter(ns) {
			// Out of budget; nothing else will be entered.
			break
		}
		stack = append(stack, dfsFrame{state: ns})
	}
	s.stats.NodesVisited = s.stats.Steps
}
