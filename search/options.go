package search

// Options gathers the tunable settings of a Solver, so that callers can
// build them from config or a request and apply them at once. Zero
// budgets and widths mean the default.
type Options struct {
	Strategy           Strategy `json:"-" yaml:"-"`
	StepBudget         int      `json:"step_budget,omitempty" yaml:"step_budget"`
	NodeBudget         int      `json:"node_budget,omitempty" yaml:"node_budget"`
	BeamWidth          int      `json:"beam_width,omitempty" yaml:"beam_width"`
	ExpansionBudget    int      `json:"expansion_budget,omitempty" yaml:"expansion_budget"`
	MemoMemoryFraction float64  `json:"-" yaml:"-"`
}

func DefaultOptions() Options {
	return Options{
		Strategy:           StrategyMemo,
		StepBudget:         DefaultStepBudget,
		NodeBudget:         DefaultNodeBudget,
		BeamWidth:          DefaultBeamWidth,
		ExpansionBudget:    DefaultExpansionBudget,
		MemoMemoryFraction: DefaultMemoMemoryFraction,
	}
}

// Apply sets every option on the solver. It must follow Init, which
// resets them.
func (s *Solver) Apply(o Options) {
	s.SetStrategy(o.Strategy)
	if o.StepBudget > 0 {
		s.SetStepBudget(o.StepBudget)
	}
	if o.NodeBudget > 0 {
		s.SetNodeBudget(o.NodeBudget)
	}
	if o.BeamWidth > 0 {
		s.SetBeamWidth(o.BeamWidth)
	}
	if o.ExpansionBudget > 0 {
		s.SetExpansionBudget(o.ExpansionBudget)
	}
	if o.MemoMemoryFraction > 0 {
		s.SetMemoMemoryFraction(o.MemoMemoryFraction)
	}
}

// Options returns the solver's current settings.
func (s *Solver) Options() Options {
	return Options{
		Strategy:           s.strategy,
		StepBudget:         s.stepBudget,
		NodeBudget:         s.nodeBudget,
		BeamWidth:          s.beamWidth,
		ExpansionBudget:    s.expansionBudget,
		MemoMemoryFraction: s.memoMemoryFraction,
	}
}
