package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/campusops/viability-engine/internal/models"
)

// UpsertFeasibility — одна запись на (student_id, week_start); пересчёт
// перезаписывает, не накапливает.
func UpsertFeasibility(ctx context.Context, database *sql.DB, f *models.TimetableFeasibility) error {
	factors, err := json.Marshal(f.Factors)
	if err != nil {
		return fmt.Errorf("marshal factors: %w", err)
	}
	_, err = database.ExecContext(ctx, `
INSERT INTO timetable_feasibilities (student_id, week_start, score, band, factors, created_at)
VALUES ($1, $2, $3, $4, $5, NOW())
ON CONFLICT (student_id, week_start) DO UPDATE SET
    score = excluded.score,
    band = excluded.band,
    factors = excluded.factors,
    created_at = NOW()`,
		f.StudentID, f.WeekStart, f.Score, f.Band, factors)
	return err
}

// ListRecentFeasibility — последние limit недельных оценок, новые первыми.
func ListRecentFeasibility(ctx context.Context, database *sql.DB, studentID int64, limit int) ([]models.TimetableFeasibility, error) {
	rows, err := database.QueryContext(ctx, `
SELECT id, student_id, week_start, score, band, factors, created_at
FROM timetable_feasibilities
WHERE student_id = $1 ORDER BY week_start DESC LIMIT $2`, studentID, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	return collectFeasibility(rows)
}

// ListAllFeasibility — все недельные оценки портфеля (для сводного отчёта).
func ListAllFeasibility(ctx context.Context, database *sql.DB) ([]models.TimetableFeasibility, error) {
	rows, err := database.QueryContext(ctx, `
SELECT id, student_id, week_start, score, band, factors, created_at
FROM timetable_feasibilities ORDER BY student_id, week_start DESC`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	return collectFeasibility(rows)
}

func collectFeasibility(rows *sql.Rows) ([]models.TimetableFeasibility, error) {
	var out []models.TimetableFeasibility
	for rows.Next() {
		var f models.TimetableFeasibility
		var factors []byte
		if err := rows.Scan(&f.ID, &f.StudentID, &f.WeekStart, &f.Score, &f.Band, &factors, &f.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(factors, &f.Factors); err != nil {
			return nil, fmt.Errorf("unmarshal factors: %w", err)
		}
		out = append(out, f)
	}
	return out, rows.Err()
}
