package report

import (
	"testing"

	"github.com/campusops/viability-engine/internal/models"
)

func TestWriteExcel(t *testing.T) {
	weeks := 2
	r := &PortfolioReport{
		TotalRecords: 3,
		BandCounts: map[models.Band]int{
			models.BandFeasible: 2,
			models.BandStrained: 1,
		},
		BandPercents: map[models.Band]int{
			models.BandFeasible: 67,
			models.BandStrained: 33,
		},
		AverageScore:   80,
		ActiveRisks:    1,
		AvgWeeksToRisk: 2,
		ConflictCounts: map[models.ConflictType]int{
			models.ConflictClassWorkOverlap: 1,
		},
		Cases: []CaseStudy{
			{Label: "CASE-001", Band: models.BandStrained, Score: 60, WeeksToRisk: &weeks, Conflicts: 2},
		},
	}

	f, err := WriteExcel(r)
	if err != nil {
		t.Fatal(err)
	}

	for _, sheet := range []string{"Portfolio", "Conflicts", "Cases"} {
		if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
			t.Fatalf("sheet %s missing (idx=%d err=%v)", sheet, idx, err)
		}
	}

	if v, _ := f.GetCellValue("Portfolio", "B2"); v != "3" {
		t.Errorf("weekly records cell = %q, want 3", v)
	}
	if v, _ := f.GetCellValue("Conflicts", "A2"); v != "class_work_overlap" {
		t.Errorf("conflict type cell = %q", v)
	}
	if v, _ := f.GetCellValue("Cases", "A2"); v != "CASE-001" {
		t.Errorf("case label cell = %q", v)
	}
}

func TestPercent(t *testing.T) {
	if got := percent(1, 0); got != 0 {
		t.Fatalf("percent with zero total = %d, want 0", got)
	}
	if got := percent(2, 3); got != 67 {
		t.Fatalf("percent(2,3) = %d, want 67", got)
	}
	if got := percent(1, 3); got != 33 {
		t.Fatalf("percent(1,3) = %d, want 33", got)
	}
}
