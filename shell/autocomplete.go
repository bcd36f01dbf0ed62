package shell

import (
	"strings"

	"github.com/kballard/go-shellquote"

	"github.com/domino14/kouma/board"
)

// ShellCompleter provides context-aware autocomplete for shell commands
type ShellCompleter struct {
	sc *ShellController
}

func NewShellCompleter(sc *ShellController) *ShellCompleter {
	return &ShellCompleter{sc: sc}
}

// CommandMetadata holds autocomplete information for a command
type CommandMetadata struct {
	Options []string // Available options for this command (e.g., "-show", "-log")
	Args    []string // Possible argument values (for non-option arguments)
}

var strategyNames = []string{"memo", "exhaustive", "beam"}

var commandMetadata = map[string]CommandMetadata{
	"load": {
		Options: []string{"-sample"},
	},
	"board": {
		Options: []string{"-name"},
	},
	"solve": {
		Options: []string{"-show", "-log"},
		Args:    strategyNames,
	},
	"remote": {
		Args: strategyNames,
	},
	"set": {
		Args: optionKeys,
	},
	"help": {
		Args: []string{"solve", "set", "board", "script"},
	},
}

var commandNames = []string{
	"load", "board", "show", "set", "solve", "compare", "path", "remote",
	"script", "help", "exit",
}

// Do implements the readline.AutoComplete interface
func (c *ShellCompleter) Do(line []rune, pos int) ([][]rune, int) {
	text := string(line[:pos])

	fields, err := shellquote.Split(text)
	if err != nil {
		fields = strings.Fields(text)
	}
	endsWithSpace := len(text) > 0 && text[len(text)-1] == ' '

	var prefix string
	var completions []string

	if len(fields) == 0 || (len(fields) == 1 && !endsWithSpace) {
		if len(fields) == 1 {
			prefix = fields[0]
		}
		completions = commandNames
	} else {
		cmdName := fields[0]
		if !endsWithSpace {
			prefix = fields[len(fields)-1]
		}

		var lastCompleteField string
		if endsWithSpace {
			lastCompleteField = fields[len(fields)-1]
		} else if len(fields) > 1 {
			lastCompleteField = fields[len(fields)-2]
		}

		switch lastCompleteField {
		case "-sample":
			completions = board.SampleBoardNames()
		case "strategy":
			if cmdName == "set" {
				completions = strategyNames
			}
		}

		if completions == nil {
			if metadata, exists := commandMetadata[cmdName]; exists {
				if strings.HasPrefix(prefix, "-") || len(metadata.Args) == 0 {
					completions = metadata.Options
				} else {
					completions = metadata.Args
				}
			}
		}
	}

	var matches [][]rune
	for _, completion := range completions {
		if strings.HasPrefix(completion, prefix) {
			suffix := completion[len(prefix):]
			matches = append(matches, []rune(suffix))
		}
	}

	return matches, len(prefix)
}
