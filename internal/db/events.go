package db

import (
	"context"
	"database/sql"

	"github.com/campusops/viability-engine/internal/models"
)

func ListAcademicEvents(ctx context.Context, database *sql.DB, studentID int64) ([]models.AcademicEvent, error) {
	rows, err := database.QueryContext(ctx, `
SELECT id, student_id, event_type, start_time, end_time, mandatory, title
FROM academic_events WHERE student_id = $1 ORDER BY start_time`, studentID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []models.AcademicEvent
	for rows.Next() {
		var e models.AcademicEvent
		if err := rows.Scan(&e.ID, &e.StudentID, &e.EventType, &e.StartTime, &e.EndTime, &e.Mandatory, &e.Title); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func ListWorkEvents(ctx context.Context, database *sql.DB, studentID int64) ([]models.WorkEvent, error) {
	rows, err := database.QueryContext(ctx, `
SELECT id, student_id, event_type, start_time, end_time, title
FROM work_events WHERE student_id = $1 ORDER BY start_time`, studentID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []models.WorkEvent
	for rows.Next() {
		var e models.WorkEvent
		if err := rows.Scan(&e.ID, &e.StudentID, &e.EventType, &e.StartTime, &e.EndTime, &e.Title); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func AddAcademicEvent(ctx context.Context, database *sql.DB, e models.AcademicEvent) (int64, error) {
	var id int64
	err := database.QueryRowContext(ctx, `
INSERT INTO academic_events (student_id, event_type, start_time, end_time, mandatory, title)
VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		e.StudentID, e.EventType, e.StartTime, e.EndTime, e.Mandatory, e.Title).Scan(&id)
	return id, err
}

func AddWorkEvent(ctx context.Context, database *sql.DB, e models.WorkEvent) (int64, error) {
	var id int64
	err := database.QueryRowContext(ctx, `
INSERT INTO work_events (student_id, event_type, start_time, end_time, title)
VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		e.StudentID, e.EventType, e.StartTime, e.EndTime, e.Title).Scan(&id)
	return id, err
}
