package search

// compareBestSet orders states for the result set: more bosses killed is
// better, then a longer path. It returns 1 if a is better than b, -1 if
// it is worse and 0 if they tie. Attack is not considered.
func compareBestSet(a, b *State) int {
	switch {
	case a.BossKilled > b.BossKilled:
		return 1
	case a.BossKilled < b.BossKilled:
		return -1
	case len(a.Path) > len(b.Path):
		return 1
	case len(a.Path) < len(b.Path):
		return -1
	}
	return 0
}

// frontierBetter orders beam-search candidates. It extends the result
// ordering with attack as a final tie-break, so it must not be used to
// pick results.
func frontierBetter(a, b *State) bool {
	if a.BossKilled != b.BossKilled {
		return a.BossKilled > b.BossKilled
	}
	if len(a.Path) != len(b.Path) {
		return len(a.Path) > len(b.Path)
	}
	return a.Attack > b.Attack
}

// BestSet holds the states tied for the best (bosses killed, path length)
// seen so far, in discovery order.
type BestSet struct {
	states []*State
}

// Update offers s to the set. A strictly better state replaces the whole
// set; a tie is appended; a worse state is dropped. It returns whether s
// strictly improved on the set.
func (bs *BestSet) Update(s *State) bool {
	if len(bs.states) == 0 {
		bs.states = append(bs.states, s)
		return true
	}
	switch compareBestSet(s, bs.states[0]) {
	case 1:
		bs.states = append(bs.states[:0:0], s)
		return true
	case 0:
		bs.states = append(bs.states, s)
	}
	return false
}

// Best returns a representative of the set, or nil if it is empty.
func (bs *BestSet) Best() *State {
	if len(bs.states) == 0 {
		return nil
	}
	return bs.states[0]
}

func (bs *BestSet) States() []*State {
	return bs.states
}

func (bs *BestSet) Len() int {
	return len(bs.states)
}

func (bs *BestSet) Reset() {
	bs.states = nil
}
