package shell

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"syscall"

	"github.com/chzyer/readline"
	"github.com/kballard/go-shellquote"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"

	"github.com/domino14/kouma/board"
	"github.com/domino14/kouma/config"
	"github.com/domino14/kouma/search"
	"github.com/domino14/kouma/zobrist"
)

var (
	errNoData            = errors.New("no data in this line")
	errWrongOptionSyntax = errors.New("wrong format; all options need arguments")
	errNoBoard           = errors.New("please load a board first with the `load` or `board` command")
	errNoResult          = errors.New("please solve the board first with the `solve` command")
)

// ShellOptions are the settings changed with the `set` command.
type ShellOptions struct {
	search.Options
}

func NewShellOptions() *ShellOptions {
	return &ShellOptions{Options: search.DefaultOptions()}
}

// SetDefaults takes the search settings from the config.
func (opts *ShellOptions) SetDefaults(cfg *config.Config) error {
	o, err := cfg.SearchOptions()
	if err != nil {
		return err
	}
	opts.Options = o
	return nil
}

var optionKeys = []string{"strategy", "step-budget", "node-budget", "beam-width", "expansion-budget"}

func (opts *ShellOptions) Show(key string) (bool, string) {
	switch key {
	case "strategy":
		return true, opts.Strategy.String()
	case "step-budget":
		return true, strconv.Itoa(opts.StepBudget)
	case "node-budget":
		return true, strconv.Itoa(opts.NodeBudget)
	case "beam-width":
		return true, strconv.Itoa(opts.BeamWidth)
	case "expansion-budget":
		return true, strconv.Itoa(opts.ExpansionBudget)
	default:
		return false, "No such option: " + key
	}
}

// Set changes one option and returns its new value as shown by Show.
func (opts *ShellOptions) Set(key string, values []string) (string, error) {
	if len(values) != 1 {
		return "", fmt.Errorf("%v takes exactly one value", key)
	}
	val := values[0]
	if key == "strategy" {
		st, err := search.ParseStrategy(val)
		if err != nil {
			return "", err
		}
		opts.Strategy = st
		_, shown := opts.Show(key)
		return shown, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return "", err
	}
	if n < 1 {
		return "", fmt.Errorf("%v must be positive", key)
	}
	switch key {
	case "step-budget":
		opts.StepBudget = n
	case "node-budget":
		opts.NodeBudget = n
	case "beam-width":
		opts.BeamWidth = n
	case "expansion-budget":
		opts.ExpansionBudget = n
	default:
		return "", errors.New("No such option: " + key)
	}
	_, shown := opts.Show(key)
	return shown, nil
}

func (opts *ShellOptions) ToDisplayText() string {
	out := strings.Builder{}
	out.WriteString("Settings:\n")
	for _, key := range optionKeys {
		_, val := opts.Show(key)
		out.WriteString("  " + key + ": ")
		out.WriteString(val + "\n")
	}
	return out.String()
}

type ShellController struct {
	l          *readline.Instance
	out        io.Writer
	config     *config.Config
	execPath   string
	gitVersion string

	options *ShellOptions
	zobrist *zobrist.Zobrist

	curBoard  *board.Board
	curResult *search.Result

	nc *nats.Conn
}

func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

func writeln(msg string, w io.Writer) {
	io.WriteString(w, msg)
	io.WriteString(w, "\n")
}

func (sc *ShellController) showMessage(msg string) {
	writeln(msg, sc.out)
}

func (sc *ShellController) showError(err error) {
	sc.showMessage("Error: " + err.Error())
}

func newController(cfg *config.Config, execPath, gitVersion string, out io.Writer) *ShellController {
	opts := NewShellOptions()
	if err := opts.SetDefaults(cfg); err != nil {
		log.Err(err).Msg("bad-search-config-using-defaults")
	}
	z := &zobrist.Zobrist{}
	z.Initialize(cfg.GetUint64(config.ConfigZobristSeed))
	return &ShellController{
		out:        out,
		config:     cfg,
		execPath:   execPath,
		gitVersion: gitVersion,
		options:    opts,
		zobrist:    z,
	}
}

func NewShellController(cfg *config.Config, execPath, gitVersion string) *ShellController {
	sc := newController(cfg, execPath, gitVersion, os.Stderr)
	l, err := readline.NewEx(&readline.Config{
		Prompt:          "\033[31mkouma>\033[0m ",
		HistoryFile:     "/tmp/kouma_readline.tmp",
		EOFPrompt:       "exit",
		InterruptPrompt: "^C",
		AutoComplete:    NewShellCompleter(sc),

		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		panic(err)
	}
	sc.l = l
	sc.out = l.Stderr()
	return sc
}

type shellcmd struct {
	cmd     string
	args    []string
	options map[string]string
}

func extractFields(line string) (*shellcmd, error) {
	fields, err := shellquote.Split(line)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, errNoData
	}
	cmd := fields[0]
	var args []string
	options := map[string]string{}
	// handle options
	lastWasOption := false
	lastOption := ""
	for idx := 1; idx < len(fields); idx++ {
		if strings.HasPrefix(fields[idx], "-") {
			if lastWasOption {
				return nil, errWrongOptionSyntax
			}
			lastWasOption = true
			lastOption = fields[idx][1:]
			continue
		}
		if lastWasOption {
			lastWasOption = false
			options[lastOption] = fields[idx]
		} else {
			args = append(args, fields[idx])
		}
	}
	if lastWasOption {
		return nil, errWrongOptionSyntax
	}
	return &shellcmd{
		cmd:     cmd,
		args:    args,
		options: options,
	}, nil
}

func (sc *ShellController) handle(cmd *shellcmd) (*Response, error) {
	switch cmd.cmd {
	case "load":
		return sc.load(cmd)
	case "board":
		return sc.boardCmd(cmd)
	case "show", "s":
		return sc.show(cmd)
	case "set":
		return sc.set(cmd)
	case "solve":
		return sc.solve(cmd)
	case "compare":
		return sc.compare(cmd)
	case "path":
		return sc.path(cmd)
	case "remote":
		return sc.remote(cmd)
	case "script":
		return sc.script(cmd)
	case "help":
		return sc.help(cmd)
	default:
		msg := fmt.Sprintf("command %v not found", strconv.Quote(cmd.cmd))
		log.Info().Msg(msg)
		return nil, errors.New(msg)
	}
}

// execLine runs one command line. It returns false if the line asks the
// shell to quit.
func (sc *ShellController) execLine(line string, sig chan os.Signal) bool {
	if line == "exit" || line == "bye" {
		sig <- syscall.SIGINT
		return false
	}
	cmd, err := extractFields(line)
	if err == errNoData {
		return true
	}
	if err != nil {
		sc.showError(err)
		return true
	}
	resp, err := sc.handle(cmd)
	if err != nil {
		sc.showError(err)
	} else if resp != nil {
		sc.showMessage(resp.message)
	}
	return true
}

// Execute runs a single line, for a non-interactive invocation.
func (sc *ShellController) Execute(sig chan os.Signal, line string) {
	sc.execLine(line, sig)
}

func (sc *ShellController) Loop(sig chan os.Signal) {
	defer sc.l.Close()

	for {
		line, err := sc.l.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				sig <- syscall.SIGINT
				break
			} else {
				continue
			}
		} else if err == io.EOF {
			sig <- syscall.SIGINT
			break
		}
		line = strings.TrimSpace(line)
		if !sc.execLine(line, sig) {
			break
		}
	}
	log.Debug().Msgf("Exiting readline loop...")
}

// Cleanup closes the NATS connection, if open.
func (sc *ShellController) Cleanup() {
	if sc.nc != nil {
		sc.nc.Close()
		sc.nc = nil
	}
}
