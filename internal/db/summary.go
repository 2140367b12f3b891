package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/campusops/viability-engine/internal/models"
)

// UpsertWeeklySummary перезаписывает производный кэш недели по ключу
// (student_id, week_start). Last-writer-wins: пересчёт — чистая функция
// исходных событий, повторный прогон безопасен.
func UpsertWeeklySummary(ctx context.Context, database *sql.DB, s *models.WeeklyCalendarSummary) error {
	events, err := json.Marshal(s.Events)
	if err != nil {
		return fmt.Errorf("marshal events: %w", err)
	}
	blocks, err := json.Marshal(s.FreeBlocks)
	if err != nil {
		return fmt.Errorf("marshal free blocks: %w", err)
	}
	_, err = database.ExecContext(ctx, `
INSERT INTO weekly_calendar_summaries
    (student_id, week_start, events, total_class_hours, total_mandatory_hours, total_work_hours, free_blocks, skipped_events, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
ON CONFLICT (student_id, week_start) DO UPDATE SET
    events = excluded.events,
    total_class_hours = excluded.total_class_hours,
    total_mandatory_hours = excluded.total_mandatory_hours,
    total_work_hours = excluded.total_work_hours,
    free_blocks = excluded.free_blocks,
    skipped_events = excluded.skipped_events,
    updated_at = NOW()`,
		s.StudentID, s.WeekStart, events, s.TotalClassHours, s.TotalMandatoryHrs, s.TotalWorkHours, blocks, s.SkippedEventsCount)
	return err
}

func GetWeeklySummary(ctx context.Context, database *sql.DB, studentID int64, weekStart time.Time) (*models.WeeklyCalendarSummary, error) {
	row := database.QueryRowContext(ctx, `
SELECT id, student_id, week_start, events, total_class_hours, total_mandatory_hours, total_work_hours, free_blocks, skipped_events, updated_at
FROM weekly_calendar_summaries WHERE student_id = $1 AND week_start = $2`, studentID, weekStart)
	return scanSummary(row)
}

func scanSummary(row *sql.Row) (*models.WeeklyCalendarSummary, error) {
	var s models.WeeklyCalendarSummary
	var events, blocks []byte
	err := row.Scan(&s.ID, &s.StudentID, &s.WeekStart, &events, &s.TotalClassHours, &s.TotalMandatoryHrs, &s.TotalWorkHours, &blocks, &s.SkippedEventsCount, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(events, &s.Events); err != nil {
		return nil, fmt.Errorf("unmarshal events: %w", err)
	}
	if err := json.Unmarshal(blocks, &s.FreeBlocks); err != nil {
		return nil, fmt.Errorf("unmarshal free blocks: %w", err)
	}
	return &s, nil
}

// ListStudentIDsWithSummaries — список студентов для батч-анализа.
// Студент без единого недельного кэша в батч не попадает — это не ошибка.
func ListStudentIDsWithSummaries(ctx context.Context, database *sql.DB) ([]int64, error) {
	rows, err := database.QueryContext(ctx, `
SELECT DISTINCT student_id FROM weekly_calendar_summaries ORDER BY student_id`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}
