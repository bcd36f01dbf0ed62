package batch

import (
	"fmt"
	"math"
	"strings"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/samber/lo"
	"gonum.org/v1/gonum/stat"

	"github.com/domino14/kouma/search"
)

// Summary aggregates the results of one strategy over every board.
type Summary struct {
	Strategy        search.Strategy
	Runs            int
	MeanElapsedMs   float64
	StdElapsedMs    float64
	MeanNodes       float64
	StdNodes        float64
	MaxBossKilled   int
	TotalBossKilled int
	TotalMoves      int
	Exhausted       int
}

type Report struct {
	Results   []*JobResult
	Summaries []*Summary
}

func meanStd(x []float64) (float64, float64) {
	if len(x) == 0 {
		return 0, 0
	}
	if len(x) == 1 {
		return x[0], 0
	}
	m, s := stat.MeanStdDev(x, nil)
	if math.IsNaN(s) {
		s = 0
	}
	return m, s
}

const (
	histogramBins  = 10
	histogramWidth = 40
)

// histogramText draws values as a text histogram. It returns "" when the
// values do not spread over a range.
func histogramText(values []float64) string {
	if len(lo.Uniq(values)) < 2 {
		return ""
	}
	var sb strings.Builder
	if err := histogram.Fprint(&sb, histogram.Hist(histogramBins, values), histogram.Linear(histogramWidth)); err != nil {
		return ""
	}
	return sb.String()
}

func summarize(st search.Strategy, results []*JobResult) *Summary {
	sm := &Summary{Strategy: st, Runs: len(results)}
	if len(results) == 0 {
		return sm
	}
	elapsed := lo.Map(results, func(r *JobResult, _ int) float64 {
		return float64(r.Stats.ElapsedMillis())
	})
	nodes := lo.Map(results, func(r *JobResult, _ int) float64 {
		return float64(r.Stats.NodesVisited)
	})
	sm.MeanElapsedMs, sm.StdElapsedMs = meanStd(elapsed)
	sm.MeanNodes, sm.StdNodes = meanStd(nodes)
	sm.MaxBossKilled = lo.Max(lo.Map(results, func(r *JobResult, _ int) int { return r.BossKilled }))
	sm.TotalBossKilled = lo.SumBy(results, func(r *JobResult) int { return r.BossKilled })
	sm.TotalMoves = lo.SumBy(results, func(r *JobResult) int { return r.Moves })
	sm.Exhausted = lo.CountBy(results, func(r *JobResult) bool { return r.Stats.BudgetExhausted })
	return sm
}

func newReport(results []*JobResult, strategies []search.Strategy) *Report {
	rep := &Report{Results: results}
	for _, st := range strategies {
		mine := lo.Filter(results, func(r *JobResult, _ int) bool { return r.Strategy == st })
		rep.Summaries = append(rep.Summaries, summarize(st, mine))
	}
	return rep
}

// Summary returns the summary for st, or nil if st was not run.
func (r *Report) Summary(st search.Strategy) *Summary {
	sm, _ := lo.Find(r.Summaries, func(s *Summary) bool { return s.Strategy == st })
	return sm
}

func (r *Report) ToDisplayText() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%-24s%-12s%-8s%-8s%-12s%-10s\n", "Board", "Strategy", "Killed", "Moves", "Nodes", "Ms")
	for _, jr := range r.Results {
		exhausted := ""
		if jr.Stats.BudgetExhausted {
			exhausted = " *"
		}
		fmt.Fprintf(&sb, "%-24s%-12s%-8d%-8d%-12d%-10d%s\n", jr.Board, jr.Strategy,
			jr.BossKilled, jr.Moves, jr.Stats.NodesVisited, jr.Stats.ElapsedMillis(), exhausted)
	}
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "%-12s%-6s%-16s%-20s%-10s%-10s\n", "Strategy", "Runs", "Ms (mean±sd)", "Nodes (mean±sd)", "MaxKill", "Exhausted")
	for _, sm := range r.Summaries {
		fmt.Fprintf(&sb, "%-12s%-6d%-16s%-20s%-10d%-10d\n", sm.Strategy, sm.Runs,
			fmt.Sprintf("%.1f±%.1f", sm.MeanElapsedMs, sm.StdElapsedMs),
			fmt.Sprintf("%.0f±%.0f", sm.MeanNodes, sm.StdNodes),
			sm.MaxBossKilled, sm.Exhausted)
	}
	for _, sm := range r.Summaries {
		nodes := lo.FilterMap(r.Results, func(jr *JobResult, _ int) (float64, bool) {
			return float64(jr.Stats.NodesVisited), jr.Strategy == sm.Strategy
		})
		if h := histogramText(nodes); h != "" {
			fmt.Fprintf(&sb, "\nNodes visited, %v:\n%s", sm.Strategy, h)
		}
	}
	return sb.String()
}
