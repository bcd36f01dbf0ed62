package search

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/domino14/kouma/board"
	"github.com/domino14/kouma/zobrist"
)

const (
	DefaultStepBudget         = 200000
	DefaultNodeBudget         = 500000
	DefaultBeamWidth          = 300
	DefaultExpansionBudget    = 200000
	DefaultMemoMemoryFraction = 0.1
)

var ErrNoBoard = errors.New("solver has no board; call Init first")

// Strategy selects the traversal used by Solve.
type Strategy int

const (
	// StrategyMemo is a depth-first search with dominance pruning.
	StrategyMemo Strategy = iota
	// StrategyExhaustive is a depth-first search that visits every path
	// up to its node budget.
	StrategyExhaustive
	// StrategyBeam is a width-bounded best-first search.
	StrategyBeam
)

var AllStrategies = []Strategy{StrategyMemo, StrategyExhaustive, StrategyBeam}

func (st Strategy) String() string {
	switch st {
	case StrategyMemo:
		return "memo"
	case StrategyExhaustive:
		return "exhaustive"
	case StrategyBeam:
		return "beam"
	}
	return "unknown"
}

// ParseStrategy accepts the strategy names, plus "nomemo" as an alias for
// the exhaustive search.
func ParseStrategy(s string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "memo", "":
		return StrategyMemo, nil
	case "exhaustive", "nomemo":
		return StrategyExhaustive, nil
	case "beam":
		return StrategyBeam, nil
	}
	return 0, fmt.Errorf("unknown strategy %q", s)
}

// Stats describes a finished search. NodesVisited is the headline count:
// the number of memo keys for the memoized search, the number of nodes
// entered for the exhaustive search and the number of expansions for beam
// search.
type Stats struct {
	Strategy        Strategy      `json:"-" yaml:"-"`
	NodesVisited    int           `json:"nodes_visited" yaml:"nodes_visited"`
	Steps           int           `json:"steps" yaml:"steps"`
	Expansions      int           `json:"expansions" yaml:"expansions"`
	MemoKeys        int           `json:"memo_keys" yaml:"memo_keys"`
	Pruned          int           `json:"pruned" yaml:"pruned"`
	Rounds          int           `json:"rounds,omitempty" yaml:"rounds,omitempty"`
	BudgetExhausted bool          `json:"budget_exhausted" yaml:"budget_exhausted"`
	Elapsed         time.Duration `json:"-" yaml:"-"`
}

func (st Stats) ElapsedMillis() int64 {
	return st.Elapsed.Milliseconds()
}

func (st Stats) String() string {
	return fmt.Sprintf("strategy %v: nodes %d steps %d expansions %d memo %d pruned %d exhausted %v in %d ms",
		st.Strategy, st.NodesVisited, st.Steps, st.Expansions, st.MemoKeys, st.Pruned,
		st.BudgetExhausted, st.ElapsedMillis())
}

// Result is the outcome of a search: the best states, in the order they
// were found, and the search statistics.
type Result struct {
	Best  []*State
	Stats Stats
}

// LogImprovement is written to the log stream every time the best set
// strictly improves.
type LogImprovement struct {
	Step       int    `yaml:"step"`
	BossKilled int    `yaml:"boss_killed"`
	Moves      int    `yaml:"moves"`
	Attack     int    `yaml:"attack"`
	Path       string `yaml:"path"`
}

// Solver runs one search at a time over a board. A Solver must not be
// used from multiple goroutines; independent solvers may run in parallel
// and may share a zobrist table.
type Solver struct {
	board   *board.Board
	zobrist *zobrist.Zobrist

	strategy           Strategy
	stepBudget         int
	nodeBudget         int
	beamWidth          int
	expansionBudget    int
	memoMemoryFraction float64

	logStream io.Writer

	best  BestSet
	stats Stats
}

// Init sets the board and resets every option to its default.
func (s *Solver) Init(b *board.Board) error {
	if b == nil {
		return ErrNoBoard
	}
	s.board = b
	if s.zobrist == nil {
		s.zobrist = zobrist.Default()
	}
	s.strategy = StrategyMemo
	s.stepBudget = DefaultStepBudget
	s.nodeBudget = DefaultNodeBudget
	s.beamWidth = DefaultBeamWidth
	s.expansionBudget = DefaultExpansionBudget
	s.memoMemoryFraction = DefaultMemoMemoryFraction
	return nil
}

func (s *Solver) SetStrategy(st Strategy) {
	s.strategy = st
}

func (s *Solver) Strategy() Strategy {
	return s.strategy
}

// SetStepBudget caps the number of states the memoized search pops.
func (s *Solver) SetStepBudget(n int) {
	s.stepBudget = n
}

// SetNodeBudget caps the number of nodes the exhaustive search enters.
func (s *Solver) SetNodeBudget(n int) {
	s.nodeBudget = n
}

// SetBeamWidth sets how many candidates beam search keeps per round. It
// is at least 1.
func (s *Solver) SetBeamWidth(w int) {
	s.beamWidth = max(w, 1)
}

// SetExpansionBudget caps the number of successors beam search accepts.
func (s *Solver) SetExpansionBudget(n int) {
	s.expansionBudget = n
}

func (s *Solver) SetMemoMemoryFraction(f float64) {
	s.memoMemoryFraction = f
}

// SetZobrist shares a zobrist table with the solver. It must be called
// before Init to replace the default table.
func (s *Solver) SetZobrist(z *zobrist.Zobrist) {
	s.zobrist = z
}

func (s *Solver) Zobrist() *zobrist.Zobrist {
	return s.zobrist
}

func (s *Solver) SetLogStream(l io.Writer) {
	s.logStream = l
}

func (s *Solver) Board() *board.Board {
	return s.board
}

// Solve runs the selected strategy to completion or until its budget is
// exhausted. Running out of budget is not an error; the result holds the
// best states found so far and Stats.BudgetExhausted is set. The only
// error is a missing board.
func (s *Solver) Solve() (*Result, error) {
	if s.board == nil {
		return nil, ErrNoBoard
	}
	s.best.Reset()
	s.stats = Stats{Strategy: s.strategy}

	log.Debug().Str("strategy", s.strategy.String()).Str("board", s.board.Name()).
		Msg("search-starting")
	t0 := time.Now()
	switch s.strategy {
	case StrategyExhaustive:
		s.exhaustiveDFS()
	case StrategyBeam:
		s.beamSearch()
	default:
		s.memoizedDFS()
	}
	s.stats.Elapsed = time.Since(t0)

	evt := log.Info().
		Str("strategy", s.strategy.String()).
		Int("nodes", s.stats.NodesVisited).
		Int("best-set", s.best.Len()).
		Bool("budget-exhausted", s.stats.BudgetExhausted).
		Int64("elapsed-ms", s.stats.ElapsedMillis())
	if b := s.best.Best(); b != nil {
		evt = evt.Int("boss-killed", b.BossKilled).Int("moves", b.Moves())
	}
	evt.Msg("search-finished")

	return &Result{Best: s.best.States(), Stats: s.stats}, nil
}

// update offers st to the best set, logging strict improvements.
func (s *Solver) update(st *State) {
	if !s.best.Update(st) || s.logStream == nil {
		return
	}
	out, err := yaml.Marshal([]LogImprovement{{
		Step:       s.stats.Steps,
		BossKilled: st.BossKilled,
		Moves:      st.Moves(),
		Attack:     st.Attack,
		Path:       st.PathString(),
	}})
	if err != nil {
		log.Err(err).Msg("error-marshaling-log")
		return
	}
	s.logStream.Write(out)
}
