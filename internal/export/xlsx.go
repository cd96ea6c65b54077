// Package export writes odds results as spreadsheets.
package export

import (
	"fmt"
	"io"

	"github.com/xtding233/craft-odds/internal/craft"
	"github.com/xtding233/craft-odds/internal/service"
	"github.com/xuri/excelize/v2"
)

const (
	ResultsSheet    = "Odds"
	SelectionsSheet = "Selections"
)

var resultHeader = []string{"도구", "부위", "종족", "랭크", "확률", "기대 시도", "예상 비용"}

// WriteXLSX writes resp, and the selections that produced it, as an xlsx
// workbook to w.
func WriteXLSX(w io.Writer, sels []craft.Selection, resp service.Response) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", ResultsSheet); err != nil {
		return err
	}
	if _, err := f.NewSheet(SelectionsSheet); err != nil {
		return err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return err
	}

	if err := setRow(f, ResultsSheet, 1, toAny(resultHeader)); err != nil {
		return err
	}
	last, _ := excelize.CoordinatesToCellName(len(resultHeader), 1)
	if err := f.SetCellStyle(ResultsSheet, "A1", last, headerStyle); err != nil {
		return err
	}

	for i, r := range resp.Rows {
		var costCell any = ""
		if r.ExpectedCost != nil {
			costCell = fmt.Sprintf("%d %s", *r.ExpectedCost, r.Currency)
		}
		row := []any{r.Tool, r.SlotType, r.Race, r.Rank, r.ProbabilityText, r.TriesText, costCell}
		if err := setRow(f, ResultsSheet, i+2, row); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(ResultsSheet, "A", "D", 12); err != nil {
		return err
	}
	if err := f.SetColWidth(ResultsSheet, "E", "G", 16); err != nil {
		return err
	}
	if err := f.SetPanes(ResultsSheet, &excelize.Panes{
		Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft",
	}); err != nil {
		return err
	}

	if err := setRow(f, SelectionsSheet, 1, []any{"옵션", "최소 레벨"}); err != nil {
		return err
	}
	if err := f.SetCellStyle(SelectionsSheet, "A1", "B1", headerStyle); err != nil {
		return err
	}
	for i, s := range sels {
		if err := setRow(f, SelectionsSheet, i+2, []any{s.Option, s.Level}); err != nil {
			return err
		}
	}
	versionRow := len(sels) + 3
	if err := setRow(f, SelectionsSheet, versionRow, []any{"데이터 버전", resp.Version}); err != nil {
		return err
	}
	if err := f.SetColWidth(SelectionsSheet, "A", "B", 16); err != nil {
		return err
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

func toAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
