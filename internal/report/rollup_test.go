//go:build testutil
// +build testutil

package report_test

import (
	"context"
	"testing"
	"time"

	"github.com/campusops/viability-engine/internal/config"
	"github.com/campusops/viability-engine/internal/db"
	"github.com/campusops/viability-engine/internal/models"
	"github.com/campusops/viability-engine/internal/report"
	"github.com/campusops/viability-engine/internal/testutil/testdb"
)

func week(n int) time.Time {
	return time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -7*n)
}

func seedFeas(t *testing.T, h *testdb.DBHandle, student int64, weeksAgo, score int, band models.Band) {
	t.Helper()
	err := db.UpsertFeasibility(context.Background(), h.DB, &models.TimetableFeasibility{
		StudentID: student, WeekStart: week(weeksAgo), Score: score, Band: band,
	})
	if err != nil {
		t.Fatal(err)
	}
}

func TestBuildPortfolioReport_EmptyStore(t *testing.T) {
	h, err := testdb.Start(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()

	r, err := report.BuildPortfolioReport(context.Background(), h.DB, config.DefaultThresholds())
	if err != nil {
		t.Fatal(err)
	}
	// Деление на ноль нигде не всплывает — везде нули.
	if r.TotalRecords != 0 || r.AverageScore != 0 || r.ActiveRisks != 0 || r.AvgWeeksToRisk != 0 {
		t.Fatalf("empty store produced non-zero stats: %+v", r)
	}
	if len(r.Cases) != 0 {
		t.Fatalf("empty store produced cases: %+v", r.Cases)
	}
}

func TestBuildPortfolioReport_Aggregates(t *testing.T) {
	h, err := testdb.Start(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()
	ctx := context.Background()

	// Студент 1 — две недели истории, студент 2 — одна: средний балл
	// считается по записям, длинная история весит больше (намеренно).
	seedFeas(t, h, 1, 0, 90, models.BandFeasible)
	seedFeas(t, h, 1, 1, 90, models.BandFeasible)
	seedFeas(t, h, 2, 0, 60, models.BandStrained)

	if err := db.ReplaceUnresolvedConflicts(ctx, h.DB, 2, []models.CalendarConflict{
		{Type: models.ConflictClassWorkOverlap, Day: "Tuesday", Severity: models.SeverityHigh},
		{Type: models.ConflictDayExceedsHours, Day: "Monday", Severity: models.SeverityHigh},
	}); err != nil {
		t.Fatal(err)
	}
	if _, err := db.InsertRisk(ctx, h.DB, &models.AttendanceViabilityRisk{
		StudentID: 2, WeeksToRisk: 2, Confidence: models.ConfidenceMedium,
		Reasons: []string{"feasibility declining week-on-week"},
	}); err != nil {
		t.Fatal(err)
	}

	r, err := report.BuildPortfolioReport(ctx, h.DB, config.DefaultThresholds())
	if err != nil {
		t.Fatal(err)
	}

	if r.TotalRecords != 3 {
		t.Errorf("records = %d, want 3", r.TotalRecords)
	}
	// (90+90+60)/3 = 80 — перекос в пользу студента 1 закреплён.
	if r.AverageScore != 80 {
		t.Errorf("average = %v, want 80 (per-record, not per-student)", r.AverageScore)
	}
	if r.BandCounts[models.BandFeasible] != 2 || r.BandCounts[models.BandStrained] != 1 {
		t.Errorf("band counts = %+v", r.BandCounts)
	}
	// 2/3 → 67%, 1/3 → 33% (округление до целого).
	if r.BandPercents[models.BandFeasible] != 67 || r.BandPercents[models.BandStrained] != 33 {
		t.Errorf("band percents = %+v", r.BandPercents)
	}
	if r.ConflictCounts[models.ConflictClassWorkOverlap] != 1 || r.ConflictCounts[models.ConflictDayExceedsHours] != 1 {
		t.Errorf("conflict histogram = %+v", r.ConflictCounts)
	}
	if r.ActiveRisks != 1 || r.AvgWeeksToRisk != 2 {
		t.Errorf("risks = %d avg weeks = %v, want 1/2", r.ActiveRisks, r.AvgWeeksToRisk)
	}

	// Единственный не-feasible случай → CASE-001.
	if len(r.Cases) != 1 {
		t.Fatalf("cases = %+v, want 1", r.Cases)
	}
	c := r.Cases[0]
	if c.Label != "CASE-001" || c.Band != models.BandStrained || c.Score != 60 {
		t.Errorf("case = %+v", c)
	}
	if c.WeeksToRisk == nil || *c.WeeksToRisk != 2 {
		t.Errorf("case weeks to risk = %v, want 2", c.WeeksToRisk)
	}
	if c.Conflicts != 2 {
		t.Errorf("case conflicts = %d, want 2", c.Conflicts)
	}
}

func TestBuildPortfolioReport_CasesCapped(t *testing.T) {
	h, err := testdb.Start(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()

	for i := int64(1); i <= 8; i++ {
		seedFeas(t, h, i, 0, 50, models.BandAtRisk)
	}

	th := config.DefaultThresholds()
	r, err := report.BuildPortfolioReport(context.Background(), h.DB, th)
	if err != nil {
		t.Fatal(err)
	}
	if len(r.Cases) != th.ReportCaseCap {
		t.Fatalf("cases = %d, want cap %d", len(r.Cases), th.ReportCaseCap)
	}
	// Нумерация последовательная, в порядке обхода.
	for i, c := range r.Cases {
		want := []string{"CASE-001", "CASE-002", "CASE-003", "CASE-004", "CASE-005"}[i]
		if c.Label != want {
			t.Errorf("case %d label = %s, want %s", i, c.Label, want)
		}
	}
}
