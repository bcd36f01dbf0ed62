// Package batch runs many searches at once and summarizes them.
package batch

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/domino14/kouma/board"
	"github.com/domino14/kouma/search"
	"github.com/domino14/kouma/zobrist"
)

// JobResult is the outcome of one (board, strategy) search.
type JobResult struct {
	Board       string          `yaml:"board"`
	Fingerprint uint64          `yaml:"fingerprint"`
	Strategy    search.Strategy `yaml:"-"`
	BossKilled  int             `yaml:"boss_killed"`
	Moves       int             `yaml:"moves"`
	BestSetSize int             `yaml:"best_set_size"`
	Stats       search.Stats    `yaml:"stats"`
}

// Runner runs every board with every strategy. Each search gets its own
// Solver; all of them share one zobrist table.
type Runner struct {
	Options search.Options
	// Threads is the number of searches run at once. Zero means one per
	// CPU.
	Threads int
	Zobrist *zobrist.Zobrist
}

func NewRunner(opts search.Options, threads int, z *zobrist.Zobrist) *Runner {
	return &Runner{Options: opts, Threads: threads, Zobrist: z}
}

// Run searches every board with every strategy and returns the results in
// board-major order, along with a summary per strategy. Cancelling ctx
// stops new searches from starting; a search that is already running is
// not interrupted.
func (r *Runner) Run(ctx context.Context, boards []*board.Board, strategies []search.Strategy) (*Report, error) {
	threads := r.Threads
	if threads <= 0 {
		threads = runtime.NumCPU()
	}
	z := r.Zobrist
	if z == nil {
		z = zobrist.Default()
	}

	results := make([]*JobResult, len(boards)*len(strategies))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(threads)

	for bi, b := range boards {
		for si, st := range strategies {
			idx := bi*len(strategies) + si
			b, st := b, st
			g.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}
				res, err := r.runOne(z, b, st)
				if err != nil {
					return err
				}
				results[idx] = res
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	log.Info().Int("boards", len(boards)).Int("strategies", len(strategies)).
		Int("threads", threads).Msg("batch-finished")
	return newReport(results, strategies), nil
}

func (r *Runner) runOne(z *zobrist.Zobrist, b *board.Board, st search.Strategy) (*JobResult, error) {
	s := &search.Solver{}
	s.SetZobrist(z)
	if err := s.Init(b); err != nil {
		return nil, err
	}
	opts := r.Options
	opts.Strategy = st
	s.Apply(opts)

	res, err := s.Solve()
	if err != nil {
		return nil, err
	}
	jr := &JobResult{
		Board:       b.Name(),
		Fingerprint: b.Fingerprint(),
		Strategy:    st,
		BestSetSize: len(res.Best),
		Stats:       res.Stats,
	}
	if len(res.Best) > 0 {
		jr.BossKilled = res.Best[0].BossKilled
		jr.Moves = res.Best[0].Moves()
	}
	log.Debug().Str("board", jr.Board).Str("strategy", st.String()).
		Int("boss-killed", jr.BossKilled).Int("moves", jr.Moves).Msg("batch-job-done")
	return jr, nil
}

// LoadDir loads every .yaml and .yml board file in dir, sorted by file
// name. Other files are skipped.
func LoadDir(dir string) ([]*board.Board, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if ext == ".yaml" || ext == ".yml" {
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(paths)
	boards := make([]*board.Board, 0, len(paths))
	for _, p := range paths {
		b, err := board.LoadFile(p)
		if err != nil {
			return nil, err
		}
		boards = append(boards, b)
	}
	return boards, nil
}
