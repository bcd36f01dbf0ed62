package worker

import (
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/domino14/kouma/board"
	"github.com/domino14/kouma/search"
	"github.com/domino14/kouma/zobrist"
)

// DefaultMaxPaths is how many best states a response carries when the
// request does not say.
const DefaultMaxPaths = 10

// SolveRequest asks for one search over a board given in text form.
// Zero budgets mean the worker's defaults.
type SolveRequest struct {
	RequestID       string `json:"request_id,omitempty"`
	Board           string `json:"board"`
	Name            string `json:"name,omitempty"`
	Strategy        string `json:"strategy,omitempty"`
	StepBudget      int    `json:"step_budget,omitempty"`
	NodeBudget      int    `json:"node_budget,omitempty"`
	BeamWidth       int    `json:"beam_width,omitempty"`
	ExpansionBudget int    `json:"expansion_budget,omitempty"`
	MaxPaths        int    `json:"max_paths,omitempty"`
	// ReplyChannel, if set, is where an asynchronous handler publishes the
	// response.
	ReplyChannel string `json:"reply_channel,omitempty"`
}

type BestPath struct {
	Path       []board.Coord `json:"path"`
	Attack     int           `json:"attack"`
	BossKilled int           `json:"boss_killed"`
	BossHP     []int         `json:"boss_hp"`
}

type SolveResponse struct {
	RequestID   string        `json:"request_id,omitempty"`
	Fingerprint string        `json:"fingerprint,omitempty"`
	Strategy    string        `json:"strategy,omitempty"`
	Best        []BestPath    `json:"best,omitempty"`
	BestCount   int           `json:"best_count"`
	Stats       *search.Stats `json:"stats,omitempty"`
	ElapsedMs   int64         `json:"elapsed_ms"`
	Error       string        `json:"error,omitempty"`
}

func errorResponse(id, message string, err error) *SolveResponse {
	msg := message
	if err != nil {
		msg = fmt.Sprintf("%s: %s", msg, err.Error())
	}
	return &SolveResponse{RequestID: id, Error: msg}
}

// options merges the request's settings over defaults.
func (r *SolveRequest) options(defaults search.Options) (search.Options, error) {
	o := defaults
	if r.Strategy != "" {
		st, err := search.ParseStrategy(r.Strategy)
		if err != nil {
			return o, err
		}
		o.Strategy = st
	}
	if r.StepBudget > 0 {
		o.StepBudget = r.StepBudget
	}
	if r.NodeBudget > 0 {
		o.NodeBudget = r.NodeBudget
	}
	if r.BeamWidth > 0 {
		o.BeamWidth = r.BeamWidth
	}
	if r.ExpansionBudget > 0 {
		o.ExpansionBudget = r.ExpansionBudget
	}
	return o, nil
}

// Handle runs the search a request asks for. Every failure is reported in
// the response's Error field.
func Handle(req *SolveRequest, defaults search.Options, z *zobrist.Zobrist) *SolveResponse {
	b, err := board.ParseText(req.Board)
	if err != nil {
		return errorResponse(req.RequestID, "could not parse board", err)
	}
	b.SetName(req.Name)
	opts, err := req.options(defaults)
	if err != nil {
		return errorResponse(req.RequestID, "bad options", err)
	}

	s := &search.Solver{}
	s.SetZobrist(z)
	if err := s.Init(b); err != nil {
		return errorResponse(req.RequestID, "could not start search", err)
	}
	s.Apply(opts)
	res, err := s.Solve()
	if err != nil {
		return errorResponse(req.RequestID, "search failed", err)
	}

	maxPaths := req.MaxPaths
	if maxPaths <= 0 {
		maxPaths = DefaultMaxPaths
	}
	best := res.Best[:min(len(res.Best), maxPaths)]
	return &SolveResponse{
		RequestID:   req.RequestID,
		Fingerprint: fmt.Sprintf("%016x", b.Fingerprint()),
		Strategy:    opts.Strategy.String(),
		Best: lo.Map(best, func(st *search.State, _ int) BestPath {
			return BestPath{
				Path:       st.Path,
				Attack:     st.Attack,
				BossKilled: st.BossKilled,
				BossHP:     st.BossHP,
			}
		}),
		BestCount: len(res.Best),
		Stats:     &res.Stats,
		ElapsedMs: res.Stats.ElapsedMillis(),
	}
}

// HandleMessage decodes a JSON request, runs it and encodes the response.
func HandleMessage(data []byte, defaults search.Options, z *zobrist.Zobrist) []byte {
	req := &SolveRequest{}
	var resp *SolveResponse
	if err := json.Unmarshal(data, req); err != nil {
		resp = errorResponse("", "could not decode request", err)
	} else {
		resp = Handle(req, defaults, z)
	}
	out, err := json.Marshal(resp)
	if err != nil {
		log.Err(err).Msg("could-not-marshal-response")
		return []byte(`{"error":"could not encode response"}`)
	}
	return out
}
