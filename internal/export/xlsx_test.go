package export

import (
	"bytes"
	"testing"

	"github.com/xtding233/craft-odds/internal/craft"
	"github.com/xtding233/craft-odds/internal/service"
	"github.com/xuri/excelize/v2"
)

func TestWriteXLSX(t *testing.T) {
	cost := 900
	resp := service.Response{
		Version: "v1",
		Rows: []service.Row{{
			Result: craft.Result{
				Context:       craft.Context{Tool: "찬란", SlotType: "무기", Race: "인간", Rank: "1랭크"},
				Probability:   0.1125,
				ExpectedTries: 1 / 0.1125,
			},
			ProbabilityText: "11.2500%",
			TriesText:       "8",
			ExpectedCost:    &cost,
			Currency:        "gold",
		}},
	}
	sels := []craft.Selection{{Option: "최대 공격력", Level: "5"}}

	var buf bytes.Buffer
	if err := WriteXLSX(&buf, sels, resp); err != nil {
		t.Fatal(err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(ResultsSheet)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Fatalf("want header plus one row, got %v", rows)
	}
	want := []string{"찬란", "무기", "인간", "1랭크", "11.2500%", "8", "900 gold"}
	for i, v := range want {
		if rows[1][i] != v {
			t.Fatalf("column %d: got %q want %q", i, rows[1][i], v)
		}
	}

	selRows, err := f.GetRows(SelectionsSheet)
	if err != nil {
		t.Fatal(err)
	}
	if selRows[1][0] != "최대 공격력" || selRows[1][1] != "5" {
		t.Fatalf("selections sheet: %v", selRows)
	}
	if got := selRows[len(selRows)-1]; got[1] != "v1" {
		t.Fatalf("version row: %v", got)
	}
}
