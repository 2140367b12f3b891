package report

import (
	"fmt"
	"sort"

	"github.com/campusops/viability-engine/internal/models"
	"github.com/xuri/excelize/v2"
)

// WriteExcel renders the portfolio report into a workbook:
// one summary sheet, a conflict histogram and the anonymized cases.
func WriteExcel(r *PortfolioReport) (*excelize.File, error) {
	f := excelize.NewFile()

	const summary = "Portfolio"
	f.SetSheetName("Sheet1", summary)
	setRows(f, summary, [][]interface{}{
		{"Metric", "Value"},
		{"Weekly records", r.TotalRecords},
		{"Average score", fmt.Sprintf("%.1f", r.AverageScore)},
		{"Feasible", r.BandCounts[models.BandFeasible]},
		{"Feasible %", r.BandPercents[models.BandFeasible]},
		{"Strained", r.BandCounts[models.BandStrained]},
		{"Strained %", r.BandPercents[models.BandStrained]},
		{"At risk", r.BandCounts[models.BandAtRisk]},
		{"At risk %", r.BandPercents[models.BandAtRisk]},
		{"Active risk signals", r.ActiveRisks},
		{"Avg weeks to risk", fmt.Sprintf("%.1f", r.AvgWeeksToRisk)},
	})
	if err := applyDefaultFormatting(f, summary); err != nil {
		return nil, err
	}

	const conflicts = "Conflicts"
	if _, err := f.NewSheet(conflicts); err != nil {
		return nil, err
	}
	rows := [][]interface{}{{"Conflict type", "Count"}}
	types := make([]string, 0, len(r.ConflictCounts))
	for t := range r.ConflictCounts {
		types = append(types, string(t))
	}
	sort.Strings(types)
	for _, t := range types {
		rows = append(rows, []interface{}{t, r.ConflictCounts[models.ConflictType(t)]})
	}
	setRows(f, conflicts, rows)
	if err := applyDefaultFormatting(f, conflicts); err != nil {
		return nil, err
	}

	const cases = "Cases"
	if _, err := f.NewSheet(cases); err != nil {
		return nil, err
	}
	caseRows := [][]interface{}{{"Case", "Band", "Score", "Weeks to risk", "Open conflicts"}}
	for _, c := range r.Cases {
		weeks := ""
		if c.WeeksToRisk != nil {
			weeks = fmt.Sprintf("%d", *c.WeeksToRisk)
		}
		caseRows = append(caseRows, []interface{}{c.Label, string(c.Band), c.Score, weeks, c.Conflicts})
	}
	setRows(f, cases, caseRows)
	if err := applyDefaultFormatting(f, cases); err != nil {
		return nil, err
	}

	return f, nil
}

func setRows(f *excelize.File, sheet string, rows [][]interface{}) {
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		_ = f.SetSheetRow(sheet, cell, &row)
	}
}

// applyDefaultFormatting applies:
// - bold header (row 1),
// - auto-filter on row 1,
// - approximate auto-width for all data columns present on the sheet.
func applyDefaultFormatting(f *excelize.File, sheet string) error {
	rows, err := f.GetRows(sheet)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}
	cols := 0
	for _, r := range rows {
		if len(r) > cols {
			cols = len(r)
		}
	}
	if cols == 0 {
		return nil
	}

	// Header bold
	if style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
		_ = f.SetCellStyle(sheet, "A1", fmt.Sprintf("%s1", columnName(cols)), style)
	}

	// Filter on row 1 across all populated columns
	_ = f.AutoFilter(sheet, fmt.Sprintf("A1:%s1", columnName(cols)), nil)

	// Auto-fit column widths by content length heuristic
	widths := make([]float64, cols)
	for c := 0; c < cols; c++ {
		widths[c] = 10 // minimal reasonable width
	}
	for rIdx, row := range rows {
		for cIdx := 0; cIdx < cols; cIdx++ {
			var v string
			if cIdx < len(row) {
				v = row[cIdx]
			}
			w := float64(len([]rune(v))) * 1.1
			if rIdx == 0 {
				// Add buffer for headers
				w += 1.5
			}
			if w > widths[cIdx] {
				if w > 60 {
					w = 60 // cap to avoid overly wide columns
				}
				widths[cIdx] = w
			}
		}
	}
	for i := 0; i < cols; i++ {
		col := columnName(i + 1)
		_ = f.SetColWidth(sheet, col, col, widths[i])
	}
	return nil
}

func columnName(n int) string {
	// 1 -> A; 27 -> AA
	s := ""
	for n > 0 {
		n--
		s = string(rune('A'+(n%26))) + s
		n /= 26
	}
	return s
}
