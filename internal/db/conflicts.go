package db

import (
	"context"
	"database/sql"

	"github.com/campusops/viability-engine/internal/models"
)

// ReplaceUnresolvedConflicts — снимок текущего календаря: все нерешённые
// конфликты студента удаляются и вставляются заново одной транзакцией.
// Решённые вручную записи не трогаем.
func ReplaceUnresolvedConflicts(ctx context.Context, database *sql.DB, studentID int64, conflicts []models.CalendarConflict) error {
	tx, err := database.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM calendar_conflicts WHERE student_id = $1 AND resolved = FALSE`, studentID); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO calendar_conflicts (student_id, conflict_type, day, severity, detail, resolved, created_at)
VALUES ($1, $2, $3, $4, $5, FALSE, NOW())`)
	if err != nil {
		return err
	}
	defer func() { _ = stmt.Close() }()

	for _, c := range conflicts {
		if _, err := stmt.ExecContext(ctx, studentID, c.Type, c.Day, c.Severity, c.Detail); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func ListUnresolvedConflicts(ctx context.Context, database *sql.DB, studentID int64) ([]models.CalendarConflict, error) {
	rows, err := database.QueryContext(ctx, `
SELECT id, student_id, conflict_type, day, severity, detail, resolved, created_at
FROM calendar_conflicts WHERE student_id = $1 AND resolved = FALSE ORDER BY id`, studentID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	return collectConflicts(rows)
}

// ListAllUnresolvedConflicts — по всему портфелю, для гистограммы отчёта.
func ListAllUnresolvedConflicts(ctx context.Context, database *sql.DB) ([]models.CalendarConflict, error) {
	rows, err := database.QueryContext(ctx, `
SELECT id, student_id, conflict_type, day, severity, detail, resolved, created_at
FROM calendar_conflicts WHERE resolved = FALSE ORDER BY student_id, id`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	return collectConflicts(rows)
}

func MarkConflictResolved(ctx context.Context, database *sql.DB, conflictID int64) error {
	_, err := database.ExecContext(ctx,
		`UPDATE calendar_conflicts SET resolved = TRUE WHERE id = $1`, conflictID)
	return err
}

func collectConflicts(rows *sql.Rows) ([]models.CalendarConflict, error) {
	var out []models.CalendarConflict
	for rows.Next() {
		var c models.CalendarConflict
		if err := rows.Scan(&c.ID, &c.StudentID, &c.Type, &c.Day, &c.Severity, &c.Detail, &c.Resolved, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
