package shell

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"

	"github.com/domino14/kouma/board"
	"github.com/domino14/kouma/config"
	"github.com/domino14/kouma/search"
	"github.com/domino14/kouma/worker"
)

const (
	defaultShownStates = 5
	remoteTimeout      = 2 * time.Minute
)

type Response struct {
	message string
}

func msg(message string) *Response {
	return &Response{message: message}
}

func intOption(cmd *shellcmd, key string, defaultI int) (int, error) {
	v, ok := cmd.options[key]
	if !ok {
		return defaultI, nil
	}
	return strconv.Atoi(v)
}

func (sc *ShellController) setBoard(b *board.Board) {
	sc.curBoard = b
	sc.curResult = nil
}

// load reads a board file, or a built-in board with -sample <name>. A
// relative path that does not exist is looked up in the boards path.
func (sc *ShellController) load(cmd *shellcmd) (*Response, error) {
	if name, ok := cmd.options["sample"]; ok {
		b, err := board.SampleBoard(name)
		if err != nil {
			return nil, err
		}
		sc.setBoard(b)
		return msg(b.ToDisplayText()), nil
	}
	if len(cmd.args) == 0 {
		return nil, errors.New("need a file to load, or -sample <name>")
	}
	path := cmd.args[0]
	if _, err := os.Stat(path); err != nil && !filepath.IsAbs(path) {
		alt := filepath.Join(sc.config.GetString(config.ConfigBoardsPath), path)
		if _, err := os.Stat(alt); err == nil {
			path = alt
		}
	}
	b, err := board.LoadFile(path)
	if err != nil {
		return nil, err
	}
	sc.setBoard(b)
	return msg(b.ToDisplayText()), nil
}

// boardCmd parses a board given in text form on the command line.
func (sc *ShellController) boardCmd(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 0 {
		return nil, errors.New("usage: board <text>")
	}
	b, err := board.ParseText(strings.Join(cmd.args, ""))
	if err != nil {
		return nil, err
	}
	if name, ok := cmd.options["name"]; ok {
		b.SetName(name)
	}
	sc.setBoard(b)
	return msg(b.ToDisplayText()), nil
}

func (sc *ShellController) show(cmd *shellcmd) (*Response, error) {
	if sc.curBoard == nil {
		return nil, errNoBoard
	}
	var sb strings.Builder
	if sc.curBoard.Name() != "" {
		sb.WriteString("Board: " + sc.curBoard.Name() + "\n")
	}
	fmt.Fprintf(&sb, "Fingerprint: %016x\n", sc.curBoard.Fingerprint())
	fmt.Fprintf(&sb, "Boss hp: %v\n", sc.curBoard.InitialBossHP())
	sb.WriteString("Text: " + sc.curBoard.String() + "\n")
	sb.WriteString(sc.curBoard.ToDisplayText())
	return msg(sb.String()), nil
}

func (sc *ShellController) set(cmd *shellcmd) (*Response, error) {
	if cmd.args == nil {
		return msg(sc.options.ToDisplayText()), nil
	}
	opt := cmd.args[0]
	if len(cmd.args) == 1 {
		_, val := sc.options.Show(opt)
		return msg(val), nil
	}
	values := cmd.args[1:]
	ret, err := sc.options.Set(opt, values)
	if err != nil {
		return nil, err
	}
	return msg("set " + opt + " to " + ret), nil
}

func (sc *ShellController) newSolver(st search.Strategy) (*search.Solver, error) {
	if sc.curBoard == nil {
		return nil, errNoBoard
	}
	s := &search.Solver{}
	s.SetZobrist(sc.zobrist)
	if err := s.Init(sc.curBoard); err != nil {
		return nil, err
	}
	opts := sc.options.Options
	opts.Strategy = st
	s.Apply(opts)
	return s, nil
}

func resultText(res *search.Result, shown int) string {
	var sb strings.Builder
	best := res.Best
	if len(best) == 0 {
		return "No states found.\n"
	}
	fmt.Fprintf(&sb, "Best: %d bosses killed, %d moves (%d tied states)\n",
		best[0].BossKilled, best[0].Moves(), len(best))
	for i, st := range best[:min(shown, len(best))] {
		fmt.Fprintf(&sb, "%3d. attack %-3d hp %v lock %v\n     %s\n",
			i+1, st.Attack, st.BossHP, st.Lock, st.PathString())
	}
	if len(best) > shown {
		fmt.Fprintf(&sb, "     ... %d more\n", len(best)-shown)
	}
	sb.WriteString(res.Stats.String() + "\n")
	return sb.String()
}

// solve runs a search on the current board.
//
//	solve [strategy] [-show n] [-log file]
func (sc *ShellController) solve(cmd *shellcmd) (*Response, error) {
	st := sc.options.Strategy
	if len(cmd.args) > 0 {
		var err error
		st, err = search.ParseStrategy(cmd.args[0])
		if err != nil {
			return nil, err
		}
	}
	shown, err := intOption(cmd, "show", defaultShownStates)
	if err != nil {
		return nil, err
	}
	s, err := sc.newSolver(st)
	if err != nil {
		return nil, err
	}
	if logPath := cmd.options["log"]; logPath != "" {
		f, err := os.Create(logPath)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		s.SetLogStream(f)
		sc.showMessage("search will log to " + logPath)
	}
	res, err := s.Solve()
	if err != nil {
		return nil, err
	}
	sc.curResult = res
	return msg(resultText(res, shown)), nil
}

// compare runs every strategy on the current board, one after another.
func (sc *ShellController) compare(cmd *shellcmd) (*Response, error) {
	if sc.curBoard == nil {
		return nil, errNoBoard
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%-12s%-8s%-8s%-10s%-12s%-10s%-10s\n",
		"Strategy", "Killed", "Moves", "Tied", "Nodes", "Ms", "Exhausted")
	for _, st := range search.AllStrategies {
		s, err := sc.newSolver(st)
		if err != nil {
			return nil, err
		}
		res, err := s.Solve()
		if err != nil {
			return nil, err
		}
		killed, moves := 0, 0
		if len(res.Best) > 0 {
			killed, moves = res.Best[0].BossKilled, res.Best[0].Moves()
		}
		fmt.Fprintf(&sb, "%-12s%-8d%-8d%-10d%-12d%-10d%-10v\n",
			st, killed, moves, len(res.Best), res.Stats.NodesVisited,
			res.Stats.ElapsedMillis(), res.Stats.BudgetExhausted)
	}
	return msg(sb.String()), nil
}

// path shows the nth best state of the last search on the board, counting
// from 1.
func (sc *ShellController) path(cmd *shellcmd) (*Response, error) {
	if sc.curResult == nil {
		return nil, errNoResult
	}
	n := 1
	if len(cmd.args) > 0 {
		var err error
		n, err = strconv.Atoi(cmd.args[0])
		if err != nil {
			return nil, err
		}
	}
	if n < 1 || n > len(sc.curResult.Best) {
		return nil, fmt.Errorf("path must be between 1 and %d", len(sc.curResult.Best))
	}
	st := sc.curResult.Best[n-1]
	return msg(st.String() + "\n" + sc.curBoard.ToDisplayTextWithPath(st.Path)), nil
}

// remote sends the current board to a solve worker over NATS.
func (sc *ShellController) remote(cmd *shellcmd) (*Response, error) {
	if sc.curBoard == nil {
		return nil, errNoBoard
	}
	if sc.nc == nil {
		nc, err := nats.Connect(sc.config.GetString(config.ConfigNatsURL))
		if err != nil {
			return nil, err
		}
		sc.nc = nc
	}
	opts := sc.options.Options
	strategy := opts.Strategy.String()
	if len(cmd.args) > 0 {
		strategy = cmd.args[0]
	}
	req := &worker.SolveRequest{
		RequestID:       fmt.Sprintf("shell-%d", time.Now().UnixNano()),
		Board:           sc.curBoard.String(),
		Name:            sc.curBoard.Name(),
		Strategy:        strategy,
		StepBudget:      opts.StepBudget,
		NodeBudget:      opts.NodeBudget,
		BeamWidth:       opts.BeamWidth,
		ExpansionBudget: opts.ExpansionBudget,
	}
	ctx, cancel := context.WithTimeout(context.Background(), remoteTimeout)
	defer cancel()
	client := worker.NewClient(sc.nc, sc.config.GetString(config.ConfigNatsChannel))
	resp, err := client.RequestSolve(ctx, req)
	if err != nil {
		return nil, err
	}
	if resp.Error != "" {
		return nil, errors.New("worker returned: " + resp.Error)
	}
	log.Debug().Str("request-id", resp.RequestID).Msg("remote-solve-done")
	var sb strings.Builder
	fmt.Fprintf(&sb, "Worker (%s) found %d tied states in %d ms\n",
		resp.Strategy, resp.BestCount, resp.ElapsedMs)
	for i, bp := range resp.Best {
		fmt.Fprintf(&sb, "%3d. killed %d attack %d path %v\n", i+1, bp.BossKilled, bp.Attack, bp.Path)
	}
	return msg(sb.String()), nil
}

func (sc *ShellController) help(cmd *shellcmd) (*Response, error) {
	if cmd.args == nil {
		return msg(usage("standard")), nil
	}
	return msg(usageTopic(cmd.args[0])), nil
}
