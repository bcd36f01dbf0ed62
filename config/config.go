package config

import (
	"path/filepath"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/domino14/kouma/search"
)

const (
	ConfigDebug              = "debug"
	ConfigStrategy           = "strategy"
	ConfigStepBudget         = "step-budget"
	ConfigNodeBudget         = "node-budget"
	ConfigBeamWidth          = "beam-width"
	ConfigExpansionBudget    = "expansion-budget"
	ConfigZobristSeed        = "zobrist-seed"
	ConfigMemoMemoryFraction = "memo-memory-fraction"
	ConfigNatsURL            = "nats-url"
	ConfigNatsChannel        = "nats-channel"
	ConfigBoardsPath         = "boards-path"
	ConfigBatchThreads       = "batch-threads"
	ConfigCPUProfile         = "cpu-profile"
	ConfigMemProfile         = "mem-profile"
)

// Config wraps a viper instance. Values come, in increasing priority, from
// the defaults below, KOUMA_-prefixed environment variables and command
// line flags.
type Config struct {
	*viper.Viper
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(ConfigDebug, false)
	v.SetDefault(ConfigStrategy, "memo")
	v.SetDefault(ConfigStepBudget, 200000)
	v.SetDefault(ConfigNodeBudget, 500000)
	v.SetDefault(ConfigBeamWidth, 300)
	v.SetDefault(ConfigExpansionBudget, 200000)
	v.SetDefault(ConfigZobristSeed, 0)
	v.SetDefault(ConfigMemoMemoryFraction, 0.1)
	v.SetDefault(ConfigNatsURL, "nats://localhost:4222")
	v.SetDefault(ConfigNatsChannel, "kouma.solve")
	v.SetDefault(ConfigBoardsPath, "./data/boards")
	v.SetDefault(ConfigBatchThreads, 0)
	v.SetDefault(ConfigCPUProfile, "")
	v.SetDefault(ConfigMemProfile, "")
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("kouma")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// DefaultConfig returns a config with only defaults and environment
// variables applied.
func DefaultConfig() *Config {
	return &Config{Viper: newViper()}
}

// Load builds the config from args of the form --key=value. Only
// arguments starting with a double dash are read, so a shell command line
// with its own single-dash options can be passed in whole.
func (c *Config) Load(args []string) error {
	c.Viper = newViper()

	fs := pflag.NewFlagSet("kouma", pflag.ContinueOnError)
	fs.Bool(ConfigDebug, false, "debug logging on")
	fs.String(ConfigStrategy, "memo", "search strategy: memo, exhaustive or beam")
	fs.Int(ConfigStepBudget, 200000, "states popped by the memoized search")
	fs.Int(ConfigNodeBudget, 500000, "nodes entered by the exhaustive search")
	fs.Int(ConfigBeamWidth, 300, "candidates kept per beam round")
	fs.Int(ConfigExpansionBudget, 200000, "successors accepted by beam search")
	fs.Uint64(ConfigZobristSeed, 0, "seed for the visited-set hash table")
	fs.Float64(ConfigMemoMemoryFraction, 0.1, "fraction of system memory the memo may preallocate")
	fs.String(ConfigNatsURL, "nats://localhost:4222", "the NATS server URL")
	fs.String(ConfigNatsChannel, "kouma.solve", "the subject solve requests are published on")
	fs.String(ConfigBoardsPath, "./data/boards", "directory holding board files")
	fs.Int(ConfigBatchThreads, 0, "concurrent searches in a batch; 0 means one per CPU")
	fs.String(ConfigCPUProfile, "", "write a CPU profile to this file")
	fs.String(ConfigMemProfile, "", "write a memory profile to this file")

	flagArgs := lo.Filter(args, func(a string, _ int) bool {
		return strings.HasPrefix(a, "--")
	})
	if err := fs.Parse(flagArgs); err != nil {
		return err
	}
	return c.BindPFlags(fs)
}

// SanitizedSettings returns all settings, for logging.
func (c *Config) SanitizedSettings() map[string]any {
	return c.AllSettings()
}

// AdjustRelativePaths makes relative data paths relative to basePath,
// usually the directory of the executable.
func (c *Config) AdjustRelativePaths(basePath string) {
	p := c.GetString(ConfigBoardsPath)
	if p != "" && !filepath.IsAbs(p) {
		c.Set(ConfigBoardsPath, filepath.Join(basePath, p))
	}
}

// SearchOptions returns the solver settings held in the config.
func (c *Config) SearchOptions() (search.Options, error) {
	st, err := search.ParseStrategy(c.GetString(ConfigStrategy))
	if err != nil {
		return search.Options{}, err
	}
	return search.Options{
		Strategy:           st,
		StepBudget:         c.GetInt(ConfigStepBudget),
		NodeBudget:         c.GetInt(ConfigNodeBudget),
		BeamWidth:          c.GetInt(ConfigBeamWidth),
		ExpansionBudget:    c.GetInt(ConfigExpansionBudget),
		MemoMemoryFraction: c.GetFloat64(ConfigMemoMemoryFraction),
	}, nil
}
