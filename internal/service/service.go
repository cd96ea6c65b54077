// Package service answers odds queries against the current reference data
// snapshot. Every transport goes through it.
package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/xtding233/craft-odds/internal/cost"
	"github.com/xtding233/craft-odds/internal/craft"
	"github.com/xtding233/craft-odds/internal/refdata"
)

// ErrNoData is returned while no snapshot has been published.
var ErrNoData = errors.New("reference data not loaded")

// Request asks for the contexts that can satisfy Selections.
type Request struct {
	Selections []craft.Selection `json:"selections"`
	// Ranks limits the rows to these ranks. Empty means the manifest default.
	Ranks []string `json:"ranks,omitempty"`
	// AllRanks disables rank filtering.
	AllRanks bool `json:"all_ranks,omitempty"`
}

// Row is one ranked result with its display columns.
type Row struct {
	craft.Result
	ProbabilityText string     `json:"probability_text"`
	TriesText       string     `json:"tries_text"`
	ExpectedCost    *int       `json:"expected_cost,omitempty"`
	Purchase        *cost.Plan `json:"purchase,omitempty"`
	Currency        string     `json:"currency,omitempty"`
}

// Response is the answer to a Request.
type Response struct {
	Version string `json:"version"`
	Rows    []Row  `json:"rows"`
}

// Odds serves queries from a Holder.
type Odds struct {
	holder *refdata.Holder
	logger *slog.Logger
}

func New(h *refdata.Holder, logger *slog.Logger) *Odds {
	if logger == nil {
		logger = slog.Default()
	}
	return &Odds{holder: h, logger: logger}
}

func (o *Odds) store() (*refdata.Store, error) {
	s := o.holder.Get()
	if s == nil {
		return nil, ErrNoData
	}
	return s, nil
}

// Calculate ranks every context able to satisfy req.Selections.
// Incomplete selections yield an empty row list, not an error.
func (o *Odds) Calculate(ctx context.Context, req Request) (Response, error) {
	s, err := o.store()
	if err != nil {
		return Response{}, err
	}

	results := craft.Calculate(s, req.Selections)
	if !req.AllRanks {
		results = rankFilter(s, req.Ranks).Apply(results)
	}

	rows := make([]Row, 0, len(results))
	for _, r := range results {
		row := Row{
			Result:          r,
			ProbabilityText: craft.FormatProbability(r.Probability),
			TriesText:       craft.FormatTries(r.ExpectedTries),
		}
		if p, ok := s.Price(r.Tool); ok && !p.IsZero() {
			plan := p.ExpectedPlan(r.ExpectedTries)
			row.ExpectedCost = &plan.Total
			row.Purchase = &plan
			row.Currency = p.Currency
		}
		rows = append(rows, row)
	}
	o.logger.DebugContext(ctx, "calculated odds",
		"selections", len(req.Selections), "rows", len(rows), "version", s.Version)
	return Response{Version: s.Version, Rows: rows}, nil
}

// ListOptions returns every selectable option.
func (o *Odds) ListOptions(ctx context.Context) ([]string, error) {
	s, err := o.store()
	if err != nil {
		return nil, err
	}
	return craft.ListAllOptions(s), nil
}

// ListLevels returns the level thresholds known for option.
func (o *Odds) ListLevels(ctx context.Context, option string) ([]string, error) {
	s, err := o.store()
	if err != nil {
		return nil, err
	}
	return craft.ListAvailableLevels(s, option), nil
}

// Ready reports whether a snapshot is being served.
func (o *Odds) Ready() bool { return o.holder.Get() != nil }

// Version reports the version of the served snapshot.
func (o *Odds) Version() string {
	if s := o.holder.Get(); s != nil {
		return s.Version
	}
	return ""
}

func rankFilter(s *refdata.Store, ranks []string) craft.RankFilter {
	if len(ranks) == 0 {
		return craft.DefaultRankFilter(s.Ranks())
	}
	f := make(craft.RankFilter, len(ranks))
	for _, r := range ranks {
		f[r] = true
	}
	return f
}
