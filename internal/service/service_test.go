package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/xtding233/craft-odds/internal/craft"
	"github.com/xtding233/craft-odds/internal/refdata"
)

func newTestOdds(t *testing.T) *Odds {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s, err := refdata.NewLoader(filepath.Join("..", "refdata", "testdata"), logger).Load()
	if err != nil {
		t.Fatal(err)
	}
	return New(refdata.NewHolder(s), logger)
}

var attack5 = []craft.Selection{{Option: "최대 공격력", Level: "5"}}

func TestCalculateDefaultRanks(t *testing.T) {
	resp, err := newTestOdds(t).Calculate(context.Background(), Request{Selections: attack5})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Version != "test-1" {
		t.Fatalf("version %q", resp.Version)
	}
	if len(resp.Rows) != 2 {
		t.Fatalf("want 2 visible rows, got %+v", resp.Rows)
	}
	first := resp.Rows[0]
	if first.Race != "인간" || first.TriesText != "8" || first.ProbabilityText != "11.2500%" {
		t.Fatalf("unexpected first row %+v", first)
	}
	if first.ExpectedCost == nil || *first.ExpectedCost != 900 || first.Currency != "gold" {
		t.Fatalf("9 attempts at 100 gold: %+v", first)
	}
	second := resp.Rows[1]
	if second.Race != "엘프" || second.TriesText != "12" {
		t.Fatalf("unexpected second row %+v", second)
	}
	// one bundle of 10 plus 2 single attempts
	if second.ExpectedCost == nil || *second.ExpectedCost != 1100 {
		t.Fatalf("unexpected cost %+v", second)
	}
	if p := second.Purchase; p == nil || p.Bundles != 1 || p.Singles != 2 || p.Attempts != 12 {
		t.Fatalf("unexpected purchase %+v", second.Purchase)
	}
}

func TestCalculateRankSelection(t *testing.T) {
	o := newTestOdds(t)
	all, err := o.Calculate(context.Background(), Request{Selections: attack5, AllRanks: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(all.Rows) != 3 || all.Rows[2].Rank != "2랭크" {
		t.Fatalf("all ranks: %+v", all.Rows)
	}

	only2, err := o.Calculate(context.Background(), Request{Selections: attack5, Ranks: []string{"2랭크"}})
	if err != nil {
		t.Fatal(err)
	}
	if len(only2.Rows) != 1 || only2.Rows[0].Rank != "2랭크" {
		t.Fatalf("2랭크 only: %+v", only2.Rows)
	}
}

func TestCalculateIncompleteSelections(t *testing.T) {
	resp, err := newTestOdds(t).Calculate(context.Background(), Request{
		Selections: []craft.Selection{{Option: "최대 공격력"}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(resp.Rows) != 0 {
		t.Fatalf("incomplete selections must produce no rows: %+v", resp.Rows)
	}
}

func TestListQueries(t *testing.T) {
	o := newTestOdds(t)
	opts, err := o.ListOptions(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(opts, []string{"방어", "최대 공격력"}) {
		t.Fatalf("options %v", opts)
	}
	levels, err := o.ListLevels(context.Background(), "방어")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(levels, []string{"9", "10"}) {
		t.Fatalf("levels %v", levels)
	}
}

func TestNoSnapshot(t *testing.T) {
	o := New(refdata.NewHolder(nil), nil)
	if _, err := o.Calculate(context.Background(), Request{Selections: attack5}); !errors.Is(err, ErrNoData) {
		t.Fatalf("expected ErrNoData, got %v", err)
	}
	if _, err := o.ListOptions(context.Background()); !errors.Is(err, ErrNoData) {
		t.Fatalf("expected ErrNoData, got %v", err)
	}
	if o.Version() != "" {
		t.Fatalf("version of empty holder must be blank")
	}
}
