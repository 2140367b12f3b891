//go:build testutil
// +build testutil

package db_test

import (
	"context"
	"testing"
	"time"

	"github.com/campusops/viability-engine/internal/db"
	"github.com/campusops/viability-engine/internal/models"
	"github.com/campusops/viability-engine/internal/testutil/testdb"
)

func TestReplaceUnresolvedConflicts_KeepsResolved(t *testing.T) {
	h, err := testdb.Start(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()
	ctx := context.Background()

	first := []models.CalendarConflict{
		{Type: models.ConflictDayExceedsHours, Day: "Monday", Severity: models.SeverityHigh, Detail: "a"},
		{Type: models.ConflictUnrealTransition, Day: "Tuesday", Severity: models.SeverityMedium, Detail: "b"},
	}
	if err := db.ReplaceUnresolvedConflicts(ctx, h.DB, 5, first); err != nil {
		t.Fatal(err)
	}
	got, err := db.ListUnresolvedConflicts(ctx, h.DB, 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("unresolved = %d, want 2", len(got))
	}

	// Вручную решённый конфликт переживает следующий анализ.
	if err := db.MarkConflictResolved(ctx, h.DB, got[0].ID); err != nil {
		t.Fatal(err)
	}
	second := []models.CalendarConflict{
		{Type: models.ConflictExcessiveSess, Day: "Friday", Severity: models.SeverityMedium, Detail: "c"},
	}
	if err := db.ReplaceUnresolvedConflicts(ctx, h.DB, 5, second); err != nil {
		t.Fatal(err)
	}

	unresolved, err := db.ListUnresolvedConflicts(ctx, h.DB, 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(unresolved) != 1 || unresolved[0].Type != models.ConflictExcessiveSess {
		t.Fatalf("unresolved after replace = %+v, want only the new snapshot", unresolved)
	}

	var resolved int
	if err := h.DB.QueryRow(`SELECT count(*) FROM calendar_conflicts WHERE student_id = 5 AND resolved = TRUE`).Scan(&resolved); err != nil {
		t.Fatal(err)
	}
	if resolved != 1 {
		t.Fatalf("resolved rows = %d, want 1 (untouched by replace)", resolved)
	}
}

func TestRisks_AtMostOneActive(t *testing.T) {
	h, err := testdb.Start(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := db.DeactivateRisks(ctx, h.DB, 8); err != nil {
			t.Fatal(err)
		}
		if _, err := db.InsertRisk(ctx, h.DB, &models.AttendanceViabilityRisk{
			StudentID: 8, WeeksToRisk: 1, Confidence: models.ConfidenceHigh,
			Reasons: []string{"feasibility below sustainable threshold"},
		}); err != nil {
			t.Fatal(err)
		}
	}

	var active int
	if err := h.DB.QueryRow(`SELECT count(*) FROM attendance_viability_risks WHERE student_id = 8 AND active = TRUE`).Scan(&active); err != nil {
		t.Fatal(err)
	}
	if active != 1 {
		t.Fatalf("active risks = %d, want 1", active)
	}

	risk, err := db.GetActiveRisk(ctx, h.DB, 8)
	if err != nil {
		t.Fatal(err)
	}
	if risk == nil || len(risk.Reasons) != 1 {
		t.Fatalf("active risk = %+v", risk)
	}
}

func TestUpsertFeasibility_OverwritesSameWeek(t *testing.T) {
	h, err := testdb.Start(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()
	ctx := context.Background()

	week := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	for _, score := range []int{80, 65} {
		if err := db.UpsertFeasibility(ctx, h.DB, &models.TimetableFeasibility{
			StudentID: 3, WeekStart: week, Score: score, Band: models.BandStrained,
		}); err != nil {
			t.Fatal(err)
		}
	}

	recent, err := db.ListRecentFeasibility(ctx, h.DB, 3, 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(recent) != 1 {
		t.Fatalf("records = %d, want 1 (upsert by student+week)", len(recent))
	}
	if recent[0].Score != 65 {
		t.Fatalf("score = %d, want latest write 65", recent[0].Score)
	}
}
