package search

import (
	"testing"

	"github.com/matryer/is"

	"github.com/domino14/kouma/board"
)

func emptyCells() [board.Dim][board.Dim]board.Cell {
	var cells [board.Dim][board.Dim]board.Cell
	for y := range cells {
		for x := range cells[y] {
			cells[y][x] = board.NewCell(board.Empty, board.NoColor, 0)
		}
	}
	cells[0][0] = board.NewCell(board.Player, board.NoColor, 0)
	return cells
}

func step(t *testing.T, b *board.Board, s *State, x, y int) *State {
	t.Helper()
	to := board.Coord{X: x, Y: y}
	ns, ok := Transition(s, b.At(to), to)
	if !ok {
		t.Fatalf("step from %v to %v was illegal", s.Pos, to)
	}
	return ns
}

func illegal(t *testing.T, b *board.Board, s *State, x, y int) {
	t.Helper()
	to := board.Coord{X: x, Y: y}
	if _, ok := Transition(s, b.At(to), to); ok {
		t.Fatalf("step from %v to %v should be illegal", s.Pos, to)
	}
}

func TestRootState(t *testing.T) {
	is := is.New(t)
	b := mustSample(t, "arena")
	root := NewRootState(b)
	is.Equal(root.Pos, board.Coord{X: 0, Y: 0})
	is.Equal(root.Attack, 0)
	is.Equal(root.Lock, board.NoColor)
	is.Equal(root.BossHP, []int{2, 3, 5})
	is.Equal(root.Visited, uint64(1))
	is.Equal(root.Path, []board.Coord{{X: 0, Y: 0}})
	is.Equal(root.BossKilled, 0)
	is.Equal(root.Moves(), 0)
}

func TestTransitionEmptyAndRevisit(t *testing.T) {
	is := is.New(t)
	b := mustSample(t, "open-boss")
	root := NewRootState(b)
	s1 := step(t, b, root, 1, 0)
	is.Equal(s1.Attack, 1)
	is.Equal(s1.Moves(), 1)
	is.True(s1.HasVisited(board.Coord{X: 0, Y: 0}))
	is.True(s1.HasVisited(board.Coord{X: 1, Y: 0}))
	// The start cell can never be re-entered.
	illegal(t, b, s1, 0, 0)
	// The parent is untouched.
	is.Equal(root.Attack, 0)
	is.Equal(len(root.Path), 1)
}

func TestTransitionObstacle(t *testing.T) {
	b := mustSample(t, "fenced-empty")
	root := NewRootState(b)
	s := step(t, b, root, 1, 1)
	s = step(t, b, s, 2, 2)
	illegal(t, b, s, 3, 3)
	illegal(t, b, s, 3, 2)
}

func TestTransitionBossNeedsAttack(t *testing.T) {
	is := is.New(t)
	b := mustSample(t, "open-boss")
	root := NewRootState(b)
	// No attack yet; the boss at (1,1) needs 1.
	illegal(t, b, root, 1, 1)

	s1 := step(t, b, root, 1, 0)
	s2 := step(t, b, s1, 1, 1)
	is.Equal(s2.Attack, 1) // 1 - 1 + 1
	is.Equal(s2.BossKilled, 1)
	is.Equal(s2.BossHP, []int{0})
	is.Equal(s2.Lock, board.NoColor)
	// copy-on-write: the parent still sees a live boss.
	is.Equal(s1.BossHP, []int{1})
	is.Equal(s1.BossKilled, 0)
}

func TestColorLock(t *testing.T) {
	is := is.New(t)
	b := mustSample(t, "color-lock")
	root := NewRootState(b)

	red := step(t, b, root, 1, 0)
	is.Equal(red.Lock, board.Red)
	is.Equal(red.Attack, 1)
	// Blue treasure next to the red monster is locked out.
	illegal(t, b, red, 2, 0)

	// The crystal clears the lock, and the treasure becomes reachable.
	crystal := step(t, b, red, 1, 1)
	is.Equal(crystal.Lock, board.NoColor)
	is.Equal(crystal.Attack, 2)
	treasure := step(t, b, crystal, 2, 0)
	is.Equal(treasure.Lock, board.Blue)
	is.Equal(treasure.Attack, 2) // 2 - 1 + 1
}

func TestSameColorKeepsLock(t *testing.T) {
	is := is.New(t)
	b := mustSample(t, "fenced-mixed")
	root := NewRootState(b)

	// P,R,T_R2 / G,B1,R / C,B2,T_G1
	r1 := step(t, b, root, 1, 0)
	is.Equal(r1.Lock, board.Red)
	// Only 1 attack; T_R2 needs 2.
	illegal(t, b, r1, 2, 0)
	r2 := step(t, b, r1, 2, 1)
	is.Equal(r2.Lock, board.Red)
	is.Equal(r2.Attack, 2)
	tr := step(t, b, r2, 2, 0)
	is.Equal(tr.Lock, board.Red)
	is.Equal(tr.Attack, 1) // 2 - 2 + 1
	// Green monster is locked out from red.
	illegal(t, b, r1, 0, 1)
}

func TestBossClearsLock(t *testing.T) {
	is := is.New(t)
	b := mustSample(t, "fenced-mixed")
	root := NewRootState(b)
	r1 := step(t, b, root, 1, 0)
	boss := step(t, b, r1, 1, 1)
	is.Equal(boss.Lock, board.NoColor)
	is.Equal(boss.BossKilled, 1)
	is.Equal(boss.Attack, 1)
	// Green is allowed again.
	g := step(t, b, boss, 0, 1)
	is.Equal(g.Lock, board.Green)
}

func TestKillingDeadBossIsIdempotent(t *testing.T) {
	is := is.New(t)
	cells := emptyCells()
	boss := board.NewCell(board.Boss, board.NoColor, 1)
	boss.BossIndex = 0
	cells[0][1] = boss
	cells[0][2] = boss
	b, err := board.New("twin-boss", cells)
	is.NoErr(err)

	root := NewRootState(b)
	s1 := step(t, b, root, 0, 1)
	first := step(t, b, s1, 1, 0)
	is.Equal(first.BossKilled, 1)
	is.Equal(first.BossHP, []int{0})
	is.Equal(first.Attack, 1)

	second := step(t, b, first, 2, 0)
	is.Equal(second.BossKilled, 1)
	is.Equal(second.BossHP, []int{0})
	// Only the normal cost applies: 1 - 1 + 1.
	is.Equal(second.Attack, 1)
	// No new vector was made for a boss that was already dead.
	is.True(&second.BossHP[0] == &first.BossHP[0])
}

func TestZeroHPBossDoesNotCount(t *testing.T) {
	is := is.New(t)
	b, err := board.ParseText("P,B0,,,,,/,,,,,,/,,,,,,/,,,,,,/,,,,,,/,,,,,,/,,,,,,")
	is.NoErr(err)
	root := NewRootState(b)
	s := step(t, b, root, 1, 0)
	is.Equal(s.BossKilled, 0)
	is.Equal(s.Attack, 1)
	is.Equal(s.Lock, board.NoColor)
}

func TestSuccessorsAreLegalAndIndependent(t *testing.T) {
	is := is.New(t)
	b := mustSample(t, "arena")
	root := NewRootState(b)
	succ := Successors(b, root)
	// (1,0) empty and (0,1) empty; (1,1) is an obstacle.
	is.Equal(len(succ), 2)
	for _, s := range succ {
		checkState(t, b, s)
	}
	is.True(&succ[0].Path[0] != &succ[1].Path[0])
}
