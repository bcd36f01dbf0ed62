package shell

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"testing"

	"github.com/matryer/is"
	"github.com/rs/zerolog"

	"github.com/domino14/kouma/board"
	"github.com/domino14/kouma/config"
	"github.com/domino14/kouma/search"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.Disabled)
	os.Exit(m.Run())
}

func testController() (*ShellController, *bytes.Buffer) {
	var buf bytes.Buffer
	return newController(config.DefaultConfig(), "", "", &buf), &buf
}

func run(t *testing.T, sc *ShellController, line string) (*Response, error) {
	t.Helper()
	cmd, err := extractFields(line)
	if err != nil {
		t.Fatal(err)
	}
	return sc.handle(cmd)
}

func TestExtractFields(t *testing.T) {
	is := is.New(t)
	type testdata struct {
		line   string
		expCmd *shellcmd
		expErr error
	}
	cases := []testdata{
		{"", nil, errNoData},
		{"load -sample arena",
			&shellcmd{"load", nil, map[string]string{"sample": "arena"}},
			nil},
		{"solve beam",
			&shellcmd{"solve", []string{"beam"}, map[string]string{}},
			nil},
		{"solve beam -show 3 -log '/tmp/my log.yaml' ",
			&shellcmd{"solve",
				[]string{"beam"},
				map[string]string{"show": "3", "log": "/tmp/my log.yaml"}},
			nil,
		},
		{"solve beam -show",
			nil, errWrongOptionSyntax},
		{"solve -show -log x",
			nil, errWrongOptionSyntax},
	}
	for _, t := range cases {
		cmd, err := extractFields(t.line)
		is.Equal(cmd, t.expCmd)
		is.Equal(err, t.expErr)
	}
}

func TestSet(t *testing.T) {
	is := is.New(t)
	sc, _ := testController()

	r, err := run(t, sc, "set")
	is.NoErr(err)
	is.True(strings.Contains(r.message, "beam-width: 300"))
	is.True(strings.Contains(r.message, "strategy: memo"))

	r, err = run(t, sc, "set beam-width 5")
	is.NoErr(err)
	is.Equal(r.message, "set beam-width to 5")
	is.Equal(sc.options.BeamWidth, 5)

	r, err = run(t, sc, "set strategy nomemo")
	is.NoErr(err)
	is.Equal(r.message, "set strategy to exhaustive")
	is.Equal(sc.options.Strategy, search.StrategyExhaustive)

	r, err = run(t, sc, "set step-budget")
	is.NoErr(err)
	is.Equal(r.message, "200000")

	r, err = run(t, sc, "set colour")
	is.NoErr(err)
	is.Equal(r.message, "No such option: colour")

	for _, line := range []string{"set colour 3", "set beam-width 0", "set node-budget lots",
		"set strategy astar", "set beam-width 3 4"} {
		_, err = run(t, sc, line)
		is.True(err != nil)
	}
}

func TestNeedsBoard(t *testing.T) {
	is := is.New(t)
	sc, _ := testController()
	for _, line := range []string{"show", "solve", "compare", "remote"} {
		_, err := run(t, sc, line)
		is.Equal(err, errNoBoard)
	}
	_, err := run(t, sc, "path 1")
	is.Equal(err, errNoResult)
}

func TestLoadSampleAndSolve(t *testing.T) {
	is := is.New(t)
	sc, _ := testController()

	r, err := run(t, sc, "load -sample fenced-boss")
	is.NoErr(err)
	is.True(strings.Contains(r.message, "B1"))

	r, err = run(t, sc, "solve -show 2")
	is.NoErr(err)
	is.True(strings.HasPrefix(r.message, "Best: 1 bosses killed, 8 moves"))
	is.True(strings.Contains(r.message, "strategy memo"))
	is.True(sc.curResult != nil)

	r, err = run(t, sc, "path 1")
	is.NoErr(err)
	is.True(strings.Contains(r.message, "<killed 1 moves 8 attack 7"))

	_, err = run(t, sc, "path 0")
	is.True(err != nil)
	_, err = run(t, sc, "path 100000")
	is.True(err != nil)

	// A new board forgets the old result.
	_, err = run(t, sc, "load -sample fenced-empty")
	is.NoErr(err)
	_, err = run(t, sc, "path")
	is.Equal(err, errNoResult)

	_, err = run(t, sc, "load -sample nope")
	is.True(err != nil)
}

func TestSolveStrategyArg(t *testing.T) {
	is := is.New(t)
	sc, _ := testController()
	_, err := run(t, sc, "load -sample fenced-empty")
	is.NoErr(err)
	r, err := run(t, sc, "solve exhaustive")
	is.NoErr(err)
	is.True(strings.Contains(r.message, "strategy exhaustive"))
	is.True(strings.Contains(r.message, "8 moves"))
	// The setting itself is unchanged.
	is.Equal(sc.options.Strategy, search.StrategyMemo)

	_, err = run(t, sc, "solve greedy")
	is.True(err != nil)
}

func TestBoardAndShow(t *testing.T) {
	is := is.New(t)
	sc, _ := testController()
	_, err := run(t, sc, "board "+board.OpenBoss+" -name corner")
	is.NoErr(err)
	r, err := run(t, sc, "show")
	is.NoErr(err)
	is.True(strings.Contains(r.message, "Board: corner"))
	is.True(strings.Contains(r.message, "Boss hp: [1]"))
	is.True(strings.Contains(r.message, "Text: "+board.OpenBoss))

	_, err = run(t, sc, "board P,,")
	is.True(err != nil)
	_, err = run(t, sc, "board")
	is.True(err != nil)
}

func TestLoadFile(t *testing.T) {
	is := is.New(t)
	sc, _ := testController()
	_, err := run(t, sc, "load ../board/testdata/arena.yaml")
	is.NoErr(err)
	is.Equal(sc.curBoard.Name(), "arena")

	// Relative paths fall back to the boards path.
	sc.config.Set(config.ConfigBoardsPath, "../board/testdata")
	_, err = run(t, sc, "load text.yaml")
	is.NoErr(err)
	is.Equal(sc.curBoard.NumBosses(), 1)

	_, err = run(t, sc, "load nothere.yaml")
	is.True(err != nil)
	_, err = run(t, sc, "load")
	is.True(err != nil)
}

func TestSolveLog(t *testing.T) {
	is := is.New(t)
	sc, buf := testController()
	_, err := run(t, sc, "load -sample fenced-boss")
	is.NoErr(err)
	logPath := filepath.Join(t.TempDir(), "search.yaml")
	_, err = run(t, sc, "solve -log "+logPath)
	is.NoErr(err)
	is.True(strings.Contains(buf.String(), "search will log to"))
	data, err := os.ReadFile(logPath)
	is.NoErr(err)
	is.True(strings.Contains(string(data), "boss_killed: 1"))
}

func TestCompare(t *testing.T) {
	is := is.New(t)
	sc, _ := testController()
	_, err := run(t, sc, "load -sample fenced-mixed")
	is.NoErr(err)
	r, err := run(t, sc, "compare")
	is.NoErr(err)
	for _, st := range search.AllStrategies {
		is.True(strings.Contains(r.message, st.String()))
	}
}

func TestScript(t *testing.T) {
	is := is.New(t)
	sc, _ := testController()
	_, err := run(t, sc, "script testdata/solve.lua")
	is.NoErr(err)
	is.Equal(sc.options.Strategy, search.StrategyBeam)
	is.True(sc.curResult != nil)
	is.Equal(sc.curResult.Best[0].BossKilled, 1)
}

func TestScriptErrors(t *testing.T) {
	is := is.New(t)
	sc, _ := testController()
	// No board is loaded, so kouma_solve returns an ERROR string.
	_, err := run(t, sc, "script testdata/fail.lua")
	is.True(err != nil)
	_, err = run(t, sc, "script testdata/missing.lua")
	is.True(err != nil)
	_, err = run(t, sc, "script")
	is.True(err != nil)
}

func TestExecLine(t *testing.T) {
	is := is.New(t)
	sc, buf := testController()
	sig := make(chan os.Signal, 1)

	is.True(sc.execLine("", sig))
	is.True(sc.execLine("frobnicate", sig))
	is.True(strings.Contains(buf.String(), `Error: command "frobnicate" not found`))

	buf.Reset()
	is.True(sc.execLine("load -sample open-boss", sig))
	is.True(strings.Contains(buf.String(), "B1"))

	is.True(!sc.execLine("exit", sig))
	is.Equal(<-sig, syscall.SIGINT)
}

func TestHelp(t *testing.T) {
	is := is.New(t)
	sc, _ := testController()
	r, err := run(t, sc, "help")
	is.NoErr(err)
	is.True(strings.Contains(r.message, "Usage:"))
	r, err = run(t, sc, "help solve")
	is.NoErr(err)
	is.True(strings.Contains(r.message, "-show n"))
	r, err = run(t, sc, "help frobnicate")
	is.NoErr(err)
	is.True(strings.HasPrefix(r.message, "There is no help text"))
}

func TestCompleter(t *testing.T) {
	is := is.New(t)
	sc, _ := testController()
	c := NewShellCompleter(sc)

	complete := func(line string) []string {
		matches, _ := c.Do([]rune(line), len(line))
		out := make([]string, len(matches))
		for i, m := range matches {
			out[i] = string(m)
		}
		return out
	}
	is.Equal(complete("so"), []string{"lve"})
	is.Equal(complete("solve "), []string{"memo", "exhaustive", "beam"})
	is.Equal(complete("solve -"), []string{"show", "log"})
	is.Equal(complete("load -sample ar"), []string{"ena"})
	is.Equal(complete("set strategy b"), []string{"eam"})
	is.Equal(complete("set beam"), []string{"-width"})
}
